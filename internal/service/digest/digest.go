package digest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/service/command"
	"github.com/sandevgo/recall/internal/service/trainer"
	"github.com/sandevgo/recall/pkg/log"
)

// Notifier delivers a Markdown message to a chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, markdown string) error
}

// Digest sends every subscribed learner a daily progress summary.
type Digest struct {
	subs      core.SubscriptionRepository
	trainer   core.Trainer
	questions core.QuestionRepository
	notifier  Notifier
	at        string
	scheduler *gocron.Scheduler
	formatter *command.ResponseFormatter
}

func NewDigest(
	subs core.SubscriptionRepository,
	trainer core.Trainer,
	questions core.QuestionRepository,
	notifier Notifier,
	at string,
) *Digest {
	return &Digest{
		subs:      subs,
		trainer:   trainer,
		questions: questions,
		notifier:  notifier,
		at:        at,
		scheduler: gocron.NewScheduler(time.UTC),
		formatter: command.NewResponseFormatter(),
	}
}

func (d *Digest) Start(ctx context.Context) error {
	_, err := d.scheduler.Every(1).Day().At(d.at).SingletonMode().Do(func() {
		if _, err := d.Run(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("digest run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}

	d.scheduler.StartAsync()
	log.FromCtx(ctx).Info().Str("at", d.at).Msg("progress digest scheduled (UTC)")
	return nil
}

func (d *Digest) Shutdown(ctx context.Context) error {
	d.scheduler.Stop()
	return nil
}

// Run sends one round of digests and returns how many were delivered.
// A failure for one learner does not stop the others.
func (d *Digest) Run(ctx context.Context) (int, error) {
	subs, err := d.subs.ListSubscriptions(ctx)
	if err != nil {
		return 0, err
	}

	logger := log.FromCtx(ctx)
	answers := command.AnswersByID(ctx, d.questions)
	sent := 0

	for _, sub := range subs {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		lctx := log.WithLearner(ctx, sub.LearnerID)
		p, err := d.trainer.Progress(lctx, sub.LearnerID)
		if errors.Is(err, trainer.ErrUnknownLearner) {
			continue
		}
		if err != nil {
			log.FromCtx(lctx).Warn().Err(err).Msg("failed to load progress for digest")
			continue
		}

		msg := d.formatter.Combine(
			d.formatter.Info("Daily digest"),
			d.formatter.Progress(p, answers),
		)
		if err := d.notifier.Notify(lctx, sub.ChatID, msg); err != nil {
			log.FromCtx(lctx).Warn().Err(err).Int64("chat_id", sub.ChatID).Msg("failed to send digest")
			continue
		}
		sent++
	}

	logger.Info().Int("sent", sent).Int("subscribers", len(subs)).Msg("digest round finished")
	return sent, nil
}
