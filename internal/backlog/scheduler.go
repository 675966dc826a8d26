package backlog

import (
	"fmt"
	"math/rand"
	"time"
)

// MaxMemoryStrength caps doubling. Any strength at or above the backlog
// length already reinserts at the tail, so the cap only keeps the value
// from overflowing.
const MaxMemoryStrength = 1 << 40

// ResetPolicy decides what Reset does with the previous progress.
type ResetPolicy int

const (
	// ClearProgress drops the weakness list and the answer totals.
	ClearProgress ResetPolicy = iota
	// KeepProgress rebuilds the backlog but carries totals and weakness list over.
	KeepProgress
)

// ParseResetPolicy accepts "clear" or "keep".
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch s {
	case "", "clear":
		return ClearProgress, nil
	case "keep":
		return KeepProgress, nil
	}
	return ClearProgress, fmt.Errorf("unknown reset policy %q", s)
}

func (p ResetPolicy) String() string {
	if p == KeepProgress {
		return "keep"
	}
	return "clear"
}

// Scheduler implements reset, peek and answer as pure functions over State.
// It holds no learner data and is safe for concurrent use as long as its
// random source is.
type Scheduler struct {
	policy  ResetPolicy
	shuffle func(n int, swap func(i, j int))
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithResetPolicy sets what Reset keeps from the previous state.
func WithResetPolicy(p ResetPolicy) Option {
	return func(s *Scheduler) {
		s.policy = p
	}
}

// WithRand makes the shuffle deterministic. The source must not be shared
// between goroutines.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Scheduler) {
		s.shuffle = rnd.Shuffle
	}
}

// NewScheduler returns a scheduler that clears progress on reset unless configured otherwise.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		policy: ClearProgress,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shuffle == nil {
		s.shuffle = rand.New(rand.NewSource(time.Now().UnixNano())).Shuffle
	}
	return s
}

// Policy returns the configured reset policy.
func (s *Scheduler) Policy() ResetPolicy {
	return s.policy
}

// Reset builds a fresh backlog from pool in uniformly random order.
func (s *Scheduler) Reset(prev State, pool []Source) (State, error) {
	seen := make(map[string]struct{}, len(pool))
	for _, src := range pool {
		if _, dup := seen[src.ID]; dup {
			return State{}, fmt.Errorf("%w: %q", ErrDuplicateItem, src.ID)
		}
		seen[src.ID] = struct{}{}
	}

	order := make([]Source, len(pool))
	copy(order, pool)
	// Fisher-Yates
	s.shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	next := State{
		Items: make([]Item, len(order)),
		Head:  0,
	}
	for i, src := range order {
		next.Items[i] = Item{
			ID:             src.ID,
			Content:        src.Content,
			MemoryStrength: 1,
			Next:           i + 1,
		}
	}
	if n := len(next.Items); n > 0 {
		next.Items[n-1].Next = NoNext
	}

	if s.policy == KeepProgress {
		next.TotalCorrect = prev.TotalCorrect
		next.TotalWrong = prev.TotalWrong
		next.Weakness = prev.Weakness.clone()
	}
	return next, nil
}

// Peek returns the due item.
func (s *Scheduler) Peek(st State) (Item, error) {
	if len(st.Items) == 0 {
		return Item{}, ErrEmptyBacklog
	}
	if st.Head < 0 || st.Head >= len(st.Items) {
		return Item{}, fmt.Errorf("%w: head %d out of range", ErrStateCorrupted, st.Head)
	}
	return st.Items[st.Head], nil
}

// Answer grades the due item and reschedules it. A correct answer doubles
// its memory strength up to MaxMemoryStrength, an incorrect one resets it
// to 1; the item is then reinserted (strength+1) hops further down the
// chain, or at the tail when the chain is shorter than that.
//
// The input state is left untouched; the updated state and the new due item
// are returned.
func (s *Scheduler) Answer(st State, correct bool) (State, Item, error) {
	if _, err := s.Peek(st); err != nil {
		return st, Item{}, err
	}

	next := st.clone()
	h := next.Head
	node := &next.Items[h]

	if correct {
		if node.MemoryStrength <= MaxMemoryStrength/2 {
			node.MemoryStrength *= 2
		}
		node.CorrectCount++
		next.TotalCorrect++
	} else {
		node.MemoryStrength = 1
		node.IncorrectCount++
		next.TotalWrong++
	}
	next.Weakness = next.Weakness.Update(node.snapshot())

	// A single-slot chain has nowhere to move the item to.
	if node.Next == NoNext {
		return next, *node, nil
	}
	next.Head = node.Next

	anchor := walk(next.Items, h, node.MemoryStrength+1)
	node.Next = next.Items[anchor].Next
	next.Items[anchor].Next = h

	return next, next.Items[next.Head], nil
}

// walk follows up to hops links from start and stops at the last real slot
// instead of stepping onto NoNext.
func walk(items []Item, start, hops int) int {
	at := start
	for i := 0; i < hops; i++ {
		n := items[at].Next
		if n == NoNext {
			break
		}
		at = n
	}
	return at
}
