package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/service/trainer"
	"github.com/sandevgo/recall/pkg/conv"
)

type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("📘 **%s**\n", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ **%s**\n", message)
}

func (f *ResponseFormatter) Failure(message string) string {
	return fmt.Sprintf("❌ **%s**\n", message)
}

func (f *ResponseFormatter) Error(operation string, err error) string {
	return fmt.Sprintf("❌ **Command Error**\n\n**Issue**: %s\n", Explain(err))
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("› %s\n", item))
	}
	return sb.String()
}

func (f *ResponseFormatter) Tip(text string) string {
	return fmt.Sprintf("**Tip**: %s\n", text)
}

func (f *ResponseFormatter) Section(emoji, title, content string) string {
	return fmt.Sprintf("%s **%s**\n%s\n", emoji, title, content)
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}

// Question renders the due item as a prompt.
func (f *ResponseFormatter) Question(item backlog.Item) string {
	q, err := core.QuestionFromContent(item.Content)
	if err != nil {
		return f.Failure("This question cannot be displayed")
	}

	var sb strings.Builder
	sb.WriteString("🖼 **What is this?**\n\n")
	if q.ImageURL != "" {
		sb.WriteString(fmt.Sprintf("[Open picture](%s)\n\n", q.ImageURL))
	}
	if q.ImageDescription != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n\n", conv.EscapeMarkdown(q.ImageDescription)))
	}
	sb.WriteString("Type your answer or /skip.\n")
	return sb.String()
}

// Reveal shows the expected answer of item.
func (f *ResponseFormatter) Reveal(item backlog.Item) string {
	q, err := core.QuestionFromContent(item.Content)
	if err != nil || q.Answer == "" {
		return ""
	}
	return fmt.Sprintf("The answer was **%s**.\n", conv.EscapeMarkdown(q.Answer))
}

// Progress renders totals, lifetime records and the weakest items, naming them by their answer when known.
func (f *ResponseFormatter) Progress(p core.Progress, answers map[string]string) string {
	sections := []string{
		f.Info("Your progress"),
		f.Label("Correct", fmt.Sprint(p.Correct)),
		f.Label("Wrong", fmt.Sprint(p.Wrong)),
	}
	if len(p.Records) > 0 {
		var correct, total int
		for _, r := range p.Records {
			correct += r.Correct
			total += r.Correct + r.Incorrect
		}
		sections = append(sections, f.Label("All time",
			fmt.Sprintf("%d/%d correct over %d questions", correct, total, len(p.Records))))
	}

	if len(p.NeedImprove) == 0 {
		sections = append(sections, f.Tip("nothing to improve yet, keep going."))
		return f.Combine(sections...)
	}

	items := make([]string, 0, len(p.NeedImprove))
	for _, e := range p.NeedImprove {
		name := e.ID
		if a, ok := answers[e.ID]; ok {
			name = a
		}
		items = append(items, fmt.Sprintf("%s: %d/%d correct (%.0f%%)",
			conv.EscapeMarkdown(name), e.CorrectCount, e.CorrectCount+e.IncorrectCount, e.SuccessRatio()*100))
	}
	sections = append(sections, f.Section("🎯", "Needs improvement", f.List(items)))
	return f.Combine(sections...)
}

// Explain turns service errors into learner-facing text.
func Explain(err error) string {
	switch {
	case errors.Is(err, trainer.ErrUnknownLearner):
		return "you are not enrolled yet, send /start first"
	case errors.Is(err, backlog.ErrEmptyBacklog):
		return "there are no questions to practice yet"
	case errors.Is(err, backlog.ErrStateCorrupted):
		return "your saved progress is damaged, send /reset to start over"
	default:
		return err.Error()
	}
}
