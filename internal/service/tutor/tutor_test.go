package tutor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/service/command"
	"github.com/sandevgo/recall/internal/service/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTrainer keeps a single fixed rotation of questions per learner.
type fakeTrainer struct {
	queue    []core.Question
	enrolled map[string]bool
	answers  []bool
	guesses  int
	broken   bool // serve content that does not decode
}

func newFakeTrainer(qs ...core.Question) *fakeTrainer {
	return &fakeTrainer{queue: qs, enrolled: map[string]bool{}}
}

func (f *fakeTrainer) item() (backlog.Item, error) {
	if f.broken {
		return backlog.Item{ID: "broken", Content: json.RawMessage(`{"answer":`), MemoryStrength: 1}, nil
	}
	if len(f.queue) == 0 {
		return backlog.Item{}, backlog.ErrEmptyBacklog
	}
	content, _ := json.Marshal(f.queue[0])
	return backlog.Item{ID: f.queue[0].ID, Content: content, MemoryStrength: 1}, nil
}

func (f *fakeTrainer) Enroll(_ context.Context, id string) (bool, error) {
	created := !f.enrolled[id]
	f.enrolled[id] = true
	return created, nil
}

func (f *fakeTrainer) Question(_ context.Context, id string) (backlog.Item, error) {
	if !f.enrolled[id] {
		return backlog.Item{}, trainer.ErrUnknownLearner
	}
	return f.item()
}

func (f *fakeTrainer) Reset(_ context.Context, id string) (backlog.Item, error) {
	f.enrolled[id] = true
	f.answers = nil
	return f.item()
}

func (f *fakeTrainer) Answer(_ context.Context, id string, correct bool) (backlog.Item, error) {
	if !f.enrolled[id] {
		return backlog.Item{}, trainer.ErrUnknownLearner
	}
	f.answers = append(f.answers, correct)
	if len(f.queue) > 1 {
		f.queue = append(f.queue[1:], f.queue[0])
	}
	return f.item()
}

func (f *fakeTrainer) Guess(ctx context.Context, id string, grade core.Grader) (core.Graded, error) {
	f.guesses++
	due, err := f.Question(ctx, id)
	if err != nil {
		return core.Graded{}, err
	}
	correct, err := grade(due)
	if err != nil {
		return core.Graded{}, err
	}
	next, err := f.Answer(ctx, id, correct)
	return core.Graded{Answered: due, Correct: correct, Next: next}, err
}

func (f *fakeTrainer) Progress(_ context.Context, id string) (core.Progress, error) {
	p := core.Progress{}
	for _, a := range f.answers {
		if a {
			p.Correct++
		} else {
			p.Wrong++
		}
	}
	return p, nil
}

type noQuestions struct{}

func (noQuestions) ListQuestions(context.Context) ([]core.Question, error) { return nil, nil }
func (noQuestions) UpsertQuestions(context.Context, []core.Question) (int, error) { return 0, nil }
func (noQuestions) CountQuestions(context.Context) (int, error) { return 0, nil }

func newTestTutor(tr *fakeTrainer) *Tutor {
	return NewTutor(tr, command.New(command.NewCommands(tr, noQuestions{})))
}

func TestMatches(t *testing.T) {
	tests := []struct {
		guess, answer string
		want          bool
	}{
		{"cat", "cat", true},
		{"  Cat ", "cat", true},
		{"red   panda", "Red Panda", true},
		{"dog", "cat", false},
		{"", "", false},
		{"cats", "cat", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.guess, tt.answer), "%q vs %q", tt.guess, tt.answer)
	}
}

func TestTutor_Guess(t *testing.T) {
	tr := newFakeTrainer(
		core.Question{ID: "1", Answer: "cat", ImageDescription: "small feline"},
		core.Question{ID: "2", Answer: "dog", ImageURL: "https://img/dog.png"},
	)
	tu := newTestTutor(tr)
	ctx := context.Background()

	reply := tu.Handle(ctx, "l1", "/start")
	assert.Contains(t, reply, "Welcome")
	assert.Contains(t, reply, "small feline")

	reply = tu.Handle(ctx, "l1", " CAT ")
	assert.Contains(t, reply, "Correct!")
	assert.Contains(t, reply, "https://img/dog.png")

	reply = tu.Handle(ctx, "l1", "wolf")
	assert.Contains(t, reply, "Not quite")
	assert.Contains(t, reply, "**dog**")

	assert.Equal(t, []bool{true, false}, tr.answers)
	assert.Equal(t, 2, tr.guesses)
}

func TestTutor_UndecodableQuestion(t *testing.T) {
	tr := newFakeTrainer(core.Question{ID: "1", Answer: "owl"})
	tu := newTestTutor(tr)
	ctx := context.Background()
	tu.Handle(ctx, "l4", "/start")

	tr.broken = true
	reply := tu.Handle(ctx, "l4", "owl")
	assert.NotEmpty(t, reply)
	assert.Empty(t, tr.answers)
}

func TestTutor_Commands(t *testing.T) {
	tr := newFakeTrainer(core.Question{ID: "1", Answer: "owl"})
	tu := newTestTutor(tr)
	ctx := context.Background()

	reply := tu.Handle(ctx, "l2", "/question")
	assert.Contains(t, reply, "/start")

	tu.Handle(ctx, "l2", "/start")

	reply = tu.Handle(ctx, "l2", "/skip")
	assert.Contains(t, reply, "Skipped")
	assert.Contains(t, reply, "**owl**")
	assert.Equal(t, []bool{false}, tr.answers)
	assert.Equal(t, 1, tr.guesses)

	reply = tu.Handle(ctx, "l2", "/progress")
	assert.Contains(t, reply, "`1`")

	reply = tu.Handle(ctx, "l2", "/help")
	for _, name := range []string{"/start", "/question", "/skip", "/reset", "/progress", "/help"} {
		assert.Contains(t, reply, name)
	}

	reply = tu.Handle(ctx, "l2", "/dance")
	assert.Contains(t, reply, "Unknown command")

	reply = tu.Handle(ctx, "l2", "/reset")
	assert.Contains(t, reply, "Progress reset")
	assert.Empty(t, tr.answers)

	assert.Empty(t, tu.Handle(ctx, "l2", "   "))
	assert.Len(t, tu.Commands(), 6)
}

func TestTutor_UnknownLearnerGuess(t *testing.T) {
	tu := newTestTutor(newFakeTrainer(core.Question{ID: "1", Answer: "owl"}))

	reply := tu.Handle(context.Background(), "stranger", "owl")
	require.NotEmpty(t, reply)
	assert.Contains(t, reply, "/start")
}

func TestTutor_EmptyBacklog(t *testing.T) {
	tr := newFakeTrainer()
	tu := newTestTutor(tr)
	ctx := context.Background()

	reply := tu.Handle(ctx, "l3", "/start")
	assert.Contains(t, reply, "no questions")
}
