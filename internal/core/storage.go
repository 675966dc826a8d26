package core

import (
	"context"

	"github.com/sandevgo/recall/internal/backlog"
)

type QuestionRepository interface {
	ListQuestions(ctx context.Context) ([]Question, error)
	UpsertQuestions(ctx context.Context, questions []Question) (int, error)
	CountQuestions(ctx context.Context) (int, error)
}

// LearnerRepository persists backlog state with optimistic versioning.
// Load returns ErrNotFound for unknown learners; Save returns ErrConflict
// when version does not match the stored one. Version 0 creates the learner.
// Outcomes passed to Save are added to the lifetime records in the same
// transaction, and those records outlive resets.
type LearnerRepository interface {
	Load(ctx context.Context, learnerID string) (backlog.State, int64, error)
	Save(ctx context.Context, learnerID string, st backlog.State, version int64, outcomes ...Outcome) (int64, error)
	ListRecords(ctx context.Context, learnerID string) ([]Record, error)
	ListLearners(ctx context.Context) ([]string, error)
}

type SubscriptionRepository interface {
	Subscribe(ctx context.Context, sub Subscription) error
	Unsubscribe(ctx context.Context, learnerID string) error
	ListSubscriptions(ctx context.Context) ([]Subscription, error)
}
