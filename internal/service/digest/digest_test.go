package digest

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/service/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubs struct {
	subs []core.Subscription
}

func (f *fakeSubs) Subscribe(context.Context, core.Subscription) error { return nil }
func (f *fakeSubs) Unsubscribe(context.Context, string) error { return nil }
func (f *fakeSubs) ListSubscriptions(context.Context) ([]core.Subscription, error) {
	return f.subs, nil
}

type fakeTrainer struct {
	progress map[string]core.Progress
}

func (f *fakeTrainer) Enroll(context.Context, string) (bool, error) { return false, nil }
func (f *fakeTrainer) Question(context.Context, string) (backlog.Item, error) {
	return backlog.Item{}, nil
}
func (f *fakeTrainer) Reset(context.Context, string) (backlog.Item, error) {
	return backlog.Item{}, nil
}
func (f *fakeTrainer) Answer(context.Context, string, bool) (backlog.Item, error) {
	return backlog.Item{}, nil
}
func (f *fakeTrainer) Guess(context.Context, string, core.Grader) (core.Graded, error) {
	return core.Graded{}, nil
}
func (f *fakeTrainer) Progress(_ context.Context, id string) (core.Progress, error) {
	p, ok := f.progress[id]
	if !ok {
		return core.Progress{}, trainer.ErrUnknownLearner
	}
	return p, nil
}

type fakeQuestions struct{}

func (fakeQuestions) ListQuestions(context.Context) ([]core.Question, error) {
	return []core.Question{{ID: "q1", Answer: "heron"}}, nil
}
func (fakeQuestions) UpsertQuestions(context.Context, []core.Question) (int, error) { return 0, nil }
func (fakeQuestions) CountQuestions(context.Context) (int, error) { return 1, nil }

type fakeNotifier struct {
	sent map[int64]string
	fail map[int64]bool
}

func (f *fakeNotifier) Notify(_ context.Context, chatID int64, md string) error {
	if f.fail[chatID] {
		return errors.New("blocked by user")
	}
	f.sent[chatID] = md
	return nil
}

func TestDigest_Run(t *testing.T) {
	subs := &fakeSubs{subs: []core.Subscription{
		{LearnerID: "telegram-1", ChatID: 1},
		{LearnerID: "telegram-2", ChatID: 2},
		{LearnerID: "telegram-3", ChatID: 3},
		{LearnerID: "telegram-4", ChatID: 4},
	}}
	tr := &fakeTrainer{progress: map[string]core.Progress{
		"telegram-1": {Correct: 3, Wrong: 1, NeedImprove: []backlog.WeaknessEntry{{ID: "q1", CorrectCount: 0, IncorrectCount: 1}}},
		"telegram-2": {Correct: 5},
		"telegram-4": {Wrong: 2},
	}}
	n := &fakeNotifier{sent: map[int64]string{}, fail: map[int64]bool{4: true}}

	d := NewDigest(subs, tr, fakeQuestions{}, n, "18:00")
	sent, err := d.Run(context.Background())
	require.NoError(t, err)

	// 3 has never enrolled, 4 fails to deliver
	assert.Equal(t, 2, sent)
	require.Contains(t, n.sent, int64(1))
	assert.Contains(t, n.sent[1], "Daily digest")
	assert.Contains(t, n.sent[1], "heron")
	assert.Contains(t, n.sent[2], "`5`")
	assert.NotContains(t, n.sent, int64(3))
}

func TestDigest_StartShutdown(t *testing.T) {
	n := &fakeNotifier{sent: map[int64]string{}}
	d := NewDigest(&fakeSubs{}, &fakeTrainer{}, fakeQuestions{}, n, "06:15")

	require.NoError(t, d.Start(context.Background()))
	assert.NoError(t, d.Shutdown(context.Background()))
}

func TestDigest_InvalidTime(t *testing.T) {
	n := &fakeNotifier{sent: map[int64]string{}}
	d := NewDigest(&fakeSubs{}, &fakeTrainer{}, fakeQuestions{}, n, "quarter past six")

	assert.Error(t, d.Start(context.Background()))
}
