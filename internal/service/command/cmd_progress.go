package command

import (
	"context"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

type ProgressCommand struct {
	trainer   core.Trainer
	questions core.QuestionRepository
	formatter *ResponseFormatter
}

func NewProgressCommand(trainer core.Trainer, questions core.QuestionRepository) *ProgressCommand {
	return &ProgressCommand{
		trainer:   trainer,
		questions: questions,
		formatter: NewResponseFormatter(),
	}
}

func (c *ProgressCommand) Name() string {
	return "progress"
}

func (c *ProgressCommand) Aliases() []string {
	return []string{"stats"}
}

func (c *ProgressCommand) Description() string {
	return "Show totals and your weakest questions"
}

func (c *ProgressCommand) Execute(ctx context.Context, learnerID string, args []string) (string, error) {
	p, err := c.trainer.Progress(ctx, learnerID)
	if err != nil {
		return "", err
	}
	return c.formatter.Progress(p, AnswersByID(ctx, c.questions)), nil
}

// AnswersByID maps question ids to answers. Lookup failures only cost the nicer names.
func AnswersByID(ctx context.Context, questions core.QuestionRepository) map[string]string {
	qs, err := questions.ListQuestions(ctx)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to list questions for progress")
		return nil
	}
	answers := make(map[string]string, len(qs))
	for _, q := range qs {
		answers[q.ID] = q.Answer
	}
	return answers
}
