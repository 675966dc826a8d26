package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/core"
)

type StartCommand struct {
	trainer   core.Trainer
	formatter *ResponseFormatter
}

func NewStartCommand(trainer core.Trainer) *StartCommand {
	return &StartCommand{
		trainer:   trainer,
		formatter: NewResponseFormatter(),
	}
}

func (c *StartCommand) Name() string {
	return "start"
}

func (c *StartCommand) Description() string {
	return "Enroll and get the first question"
}

func (c *StartCommand) Execute(ctx context.Context, learnerID string, args []string) (string, error) {
	created, err := c.trainer.Enroll(ctx, learnerID)
	if err != nil {
		return "", err
	}

	item, err := c.trainer.Question(ctx, learnerID)
	if err != nil {
		return "", err
	}

	greeting := "Welcome back!"
	if created {
		greeting = fmt.Sprintf("Welcome to %s!", core.AppName)
	}
	return c.formatter.Combine(
		c.formatter.Success(greeting),
		c.formatter.Question(item),
	), nil
}

type QuestionCommand struct {
	trainer   core.Trainer
	formatter *ResponseFormatter
}

func NewQuestionCommand(trainer core.Trainer) *QuestionCommand {
	return &QuestionCommand{
		trainer:   trainer,
		formatter: NewResponseFormatter(),
	}
}

func (c *QuestionCommand) Name() string {
	return "question"
}

func (c *QuestionCommand) Aliases() []string {
	return []string{"next", "q"}
}

func (c *QuestionCommand) Description() string {
	return "Show the current question"
}

func (c *QuestionCommand) Execute(ctx context.Context, learnerID string, args []string) (string, error) {
	item, err := c.trainer.Question(ctx, learnerID)
	if err != nil {
		return "", err
	}
	return c.formatter.Question(item), nil
}

type SkipCommand struct {
	trainer   core.Trainer
	formatter *ResponseFormatter
}

func NewSkipCommand(trainer core.Trainer) *SkipCommand {
	return &SkipCommand{
		trainer:   trainer,
		formatter: NewResponseFormatter(),
	}
}

func (c *SkipCommand) Name() string {
	return "skip"
}

func (c *SkipCommand) Aliases() []string {
	return []string{"pass"}
}

func (c *SkipCommand) Description() string {
	return "Reveal the answer (counts as wrong)"
}

func (c *SkipCommand) Execute(ctx context.Context, learnerID string, args []string) (string, error) {
	g, err := c.trainer.Guess(ctx, learnerID, func(backlog.Item) (bool, error) {
		return false, nil
	})
	if err != nil {
		return "", err
	}

	return c.formatter.Combine(
		c.formatter.Failure("Skipped"),
		c.formatter.Reveal(g.Answered),
		c.formatter.Question(g.Next),
	), nil
}

type ResetCommand struct {
	trainer   core.Trainer
	formatter *ResponseFormatter
}

func NewResetCommand(trainer core.Trainer) *ResetCommand {
	return &ResetCommand{
		trainer:   trainer,
		formatter: NewResponseFormatter(),
	}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Description() string {
	return "Start over with a freshly shuffled deck"
}

func (c *ResetCommand) Execute(ctx context.Context, learnerID string, args []string) (string, error) {
	item, err := c.trainer.Reset(ctx, learnerID)
	if err != nil {
		return "", err
	}
	return c.formatter.Combine(
		c.formatter.Success("Progress reset"),
		c.formatter.Question(item),
	), nil
}
