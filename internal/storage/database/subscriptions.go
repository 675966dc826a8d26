package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sandevgo/recall/internal/core"
)

type SubscriptionsRepo struct {
	db *sqlx.DB
}

func NewSubscriptionsRepo(db *sqlx.DB) *SubscriptionsRepo {
	return &SubscriptionsRepo{db: db}
}

func (r *SubscriptionsRepo) Subscribe(ctx context.Context, sub core.Subscription) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO subscriptions (learner_id, chat_id) VALUES (?, ?)
		ON CONFLICT (learner_id) DO UPDATE SET chat_id = excluded.chat_id`),
		sub.LearnerID, sub.ChatID)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

func (r *SubscriptionsRepo) Unsubscribe(ctx context.Context, learnerID string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM subscriptions WHERE learner_id = ?`), learnerID)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return nil
}

func (r *SubscriptionsRepo) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT learner_id, chat_id FROM subscriptions ORDER BY learner_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []core.Subscription
	for rows.Next() {
		var s core.Subscription
		if err := rows.Scan(&s.LearnerID, &s.ChatID); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
