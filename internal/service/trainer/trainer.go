package trainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/sandevgo/recall/pkg/retry"
)

var ErrUnknownLearner = errors.New("unknown learner")

// Trainer runs backlog operations for learners against storage. Calls for
// one learner are serialized; different learners proceed in parallel.
type Trainer struct {
	learners  core.LearnerRepository
	questions core.QuestionRepository
	scheduler *backlog.Scheduler
	retrier   *retry.Retrier
	locks     *keyedMutex
}

type Option func(*Trainer)

func WithRetrier(r *retry.Retrier) Option {
	return func(t *Trainer) {
		t.retrier = r
	}
}

func NewTrainer(
	learners core.LearnerRepository,
	questions core.QuestionRepository,
	scheduler *backlog.Scheduler,
	opts ...Option,
) *Trainer {
	t := &Trainer{
		learners:  learners,
		questions: questions,
		scheduler: scheduler,
		retrier:   retry.NewRetrier(retry.NewStorageConfig(retry.Matching(core.ErrConflict))),
		locks:     newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Enroll seeds a shuffled backlog for a learner seen for the first time.
// It reports whether a new learner was created.
func (t *Trainer) Enroll(ctx context.Context, learnerID string) (bool, error) {
	unlock := t.locks.Lock(learnerID)
	defer unlock()

	_, _, err := t.learners.Load(ctx, learnerID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return false, err
	}

	st, err := t.freshState(ctx, backlog.State{})
	if err != nil {
		return false, err
	}

	_, err = t.learners.Save(ctx, learnerID, st, 0)
	if errors.Is(err, core.ErrConflict) {
		// enrolled by another process in the meantime
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to enroll learner: %w", err)
	}

	log.FromCtx(ctx).Info().Int("items", st.Len()).Msg("learner enrolled")
	return true, nil
}

// Question returns the learner's due item.
func (t *Trainer) Question(ctx context.Context, learnerID string) (backlog.Item, error) {
	unlock := t.locks.Lock(learnerID)
	defer unlock()

	st, _, err := t.load(ctx, learnerID)
	if err != nil {
		return backlog.Item{}, err
	}
	return t.scheduler.Peek(st)
}

// Reset rebuilds the learner's backlog from the current question pool and
// returns the first due item. Unknown learners are enrolled. With an empty
// pool the state is still saved and ErrEmptyBacklog is returned.
func (t *Trainer) Reset(ctx context.Context, learnerID string) (backlog.Item, error) {
	unlock := t.locks.Lock(learnerID)
	defer unlock()

	var st backlog.State
	err := t.retrier.Do(ctx, func() error {
		prev, version, err := t.learners.Load(ctx, learnerID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return err
		}

		st, err = t.freshState(ctx, prev)
		if err != nil {
			return err
		}

		return t.save(ctx, learnerID, st, version)
	})
	if err != nil {
		return backlog.Item{}, err
	}

	log.FromCtx(ctx).Debug().
		Str("policy", t.scheduler.Policy().String()).
		Msg("backlog reset")
	return t.scheduler.Peek(st)
}

// Answer grades the due item and returns the next one.
func (t *Trainer) Answer(ctx context.Context, learnerID string, correct bool) (backlog.Item, error) {
	g, err := t.Guess(ctx, learnerID, func(backlog.Item) (bool, error) {
		return correct, nil
	})
	return g.Next, err
}

// Guess reads the due item, lets grade judge it and records the answer
// without releasing the learner in between, so two quick messages can never
// both be graded against the same item. grade runs again if a concurrent
// writer forces a retry.
func (t *Trainer) Guess(ctx context.Context, learnerID string, grade core.Grader) (core.Graded, error) {
	unlock := t.locks.Lock(learnerID)
	defer unlock()

	var res core.Graded
	err := t.retrier.Do(ctx, func() error {
		st, version, err := t.load(ctx, learnerID)
		if err != nil {
			return err
		}

		due, err := t.scheduler.Peek(st)
		if err != nil {
			return err
		}
		correct, err := grade(due)
		if err != nil {
			return err
		}

		next, item, err := t.scheduler.Answer(st, correct)
		if err != nil {
			return err
		}

		outcome := core.Outcome{QuestionID: due.ID, Correct: correct}
		if err := t.save(ctx, learnerID, next, version, outcome); err != nil {
			return err
		}
		res = core.Graded{Answered: due, Correct: correct, Next: item}
		return nil
	})
	if err != nil {
		return core.Graded{}, err
	}

	log.FromCtx(ctx).Debug().
		Str("item", res.Answered.ID).
		Bool("correct", res.Correct).
		Str("next", res.Next.ID).
		Msg("answer recorded")
	return res, nil
}

// Progress summarizes the current backlog together with the lifetime
// per-question records.
func (t *Trainer) Progress(ctx context.Context, learnerID string) (core.Progress, error) {
	unlock := t.locks.Lock(learnerID)
	defer unlock()

	st, _, err := t.load(ctx, learnerID)
	if err != nil {
		return core.Progress{}, err
	}

	records, err := t.learners.ListRecords(ctx, learnerID)
	if err != nil {
		return core.Progress{}, err
	}
	return core.ProgressOf(st, records), nil
}

func (t *Trainer) load(ctx context.Context, learnerID string) (backlog.State, int64, error) {
	st, version, err := t.learners.Load(ctx, learnerID)
	if errors.Is(err, core.ErrNotFound) {
		return backlog.State{}, 0, ErrUnknownLearner
	}
	return st, version, err
}

// save passes ErrConflict through so the retrier can reload and recompute.
func (t *Trainer) save(ctx context.Context, learnerID string, st backlog.State, version int64, outcomes ...core.Outcome) error {
	_, err := t.learners.Save(ctx, learnerID, st, version, outcomes...)
	if errors.Is(err, core.ErrConflict) {
		log.FromCtx(ctx).Debug().Int64("version", version).Msg("save conflict")
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to save learner: %w", err)
	}
	return nil
}

func (t *Trainer) freshState(ctx context.Context, prev backlog.State) (backlog.State, error) {
	questions, err := t.questions.ListQuestions(ctx)
	if err != nil {
		return backlog.State{}, err
	}

	pool := make([]backlog.Source, 0, len(questions))
	for _, q := range questions {
		src, err := q.Source()
		if err != nil {
			return backlog.State{}, fmt.Errorf("failed to encode question %s: %w", q.ID, err)
		}
		pool = append(pool, src)
	}

	return t.scheduler.Reset(prev, pool)
}
