package tutor

import (
	"context"
	"strings"

	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/service/command"
	"github.com/sandevgo/recall/pkg/log"
)

// Tutor is the conversational front of the trainer: slash commands go to the
// router, everything else is graded as a guess for the due question.
type Tutor struct {
	trainer   core.Trainer
	router    core.CmdRouter
	formatter *command.ResponseFormatter
}

func NewTutor(trainer core.Trainer, router core.CmdRouter) *Tutor {
	return &Tutor{
		trainer:   trainer,
		router:    router,
		formatter: command.NewResponseFormatter(),
	}
}

// Handle returns a Markdown reply for one message from learnerID.
func (t *Tutor) Handle(ctx context.Context, learnerID, input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	if reply, ok := t.router.Execute(ctx, learnerID, input); ok {
		return reply
	}

	reply, err := t.guess(ctx, learnerID, input)
	if err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("guess not graded")
		return t.formatter.Error("answer", err)
	}
	return reply
}

// Commands lists what the router understands, for completion and bot menus.
func (t *Tutor) Commands() []core.Command {
	return t.router.ListCommands()
}

func (t *Tutor) guess(ctx context.Context, learnerID, input string) (string, error) {
	g, err := t.trainer.Guess(ctx, learnerID, func(due backlog.Item) (bool, error) {
		q, err := core.QuestionFromContent(due.Content)
		if err != nil {
			return false, err
		}
		return Matches(input, q.Answer), nil
	})
	if err != nil {
		return "", err
	}

	verdict := t.formatter.Success("Correct!")
	if !g.Correct {
		verdict = t.formatter.Combine(
			t.formatter.Failure("Not quite"),
			t.formatter.Reveal(g.Answered),
		)
	}
	return t.formatter.Combine(verdict, t.formatter.Question(g.Next)), nil
}

// Matches compares a guess with the expected answer ignoring case and spacing.
func Matches(guess, answer string) bool {
	return normalize(guess) == normalize(answer) && normalize(answer) != ""
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
