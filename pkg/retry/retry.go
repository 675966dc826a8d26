package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sandevgo/recall/pkg/log"
)

type Operation = func() error

type Config struct {
	// Attempts is the total number of tries, the first one included.
	Attempts int
	Delay    time.Duration
	Factor   float64
	MaxDelay time.Duration
	Jitter   time.Duration
	// Retryable reports whether err deserves another attempt. Nil retries every error.
	Retryable func(error) bool
}

// NewStorageConfig suits optimistic-lock conflicts: a few quick attempts,
// retrying only the errors matched by retryable.
func NewStorageConfig(retryable func(error) bool) *Config {
	return &Config{
		Attempts:  5,
		Delay:     5 * time.Millisecond,
		Factor:    2,
		MaxDelay:  100 * time.Millisecond,
		Jitter:    5 * time.Millisecond,
		Retryable: retryable,
	}
}

// Matching returns a predicate that accepts errors wrapping any of targets.
func Matching(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// Retrier is safe for concurrent use.
type Retrier struct {
	config *Config
}

func NewRetrier(config *Config) *Retrier {
	return &Retrier{config: config}
}

// Do runs op until it succeeds, fails with a non-retryable error, runs out of
// attempts or ctx is done. The last error is returned unchanged.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	attempts := max(r.config.Attempts, 1)

	var err error
	for attempt := 1; ; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == attempts || !r.retryable(err) {
			return err
		}

		wait := r.backoff(attempt)
		log.FromCtx(ctx).Debug().Err(err).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Retrier) retryable(err error) bool {
	return r.config.Retryable == nil || r.config.Retryable(err)
}

// backoff is the pause after the given failed attempt: Delay grown by Factor
// per attempt, capped at MaxDelay, plus up to Jitter.
func (r *Retrier) backoff(attempt int) time.Duration {
	wait := float64(r.config.Delay)
	for i := 1; i < attempt; i++ {
		wait *= r.config.Factor
		if wait >= float64(r.config.MaxDelay) {
			break
		}
	}
	d := min(time.Duration(wait), r.config.MaxDelay)
	if r.config.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(r.config.Jitter)))
	}
	return d
}
