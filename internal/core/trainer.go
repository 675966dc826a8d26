package core

import (
	"context"

	"github.com/sandevgo/recall/internal/backlog"
)

// Grader decides whether the learner got the due item right.
type Grader func(due backlog.Item) (bool, error)

// Graded is the result of one graded answer.
type Graded struct {
	Answered backlog.Item
	Correct  bool
	Next     backlog.Item
}

type Trainer interface {
	Enroll(ctx context.Context, learnerID string) (bool, error)
	Question(ctx context.Context, learnerID string) (backlog.Item, error)
	Reset(ctx context.Context, learnerID string) (backlog.Item, error)
	Answer(ctx context.Context, learnerID string, correct bool) (backlog.Item, error)
	Guess(ctx context.Context, learnerID string, grade Grader) (Graded, error)
	Progress(ctx context.Context, learnerID string) (Progress, error)
}
