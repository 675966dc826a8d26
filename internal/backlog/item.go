package backlog

import "encoding/json"

// NoNext marks the end of the chain.
const NoNext = -1

// Source is one element of the item pool handed to Reset.
type Source struct {
	ID      string          `json:"id"`
	Content json.RawMessage `json:"content"`
}

// Item is a single slot of the backlog. Content is carried through untouched.
type Item struct {
	ID             string          `json:"id"`
	Content        json.RawMessage `json:"content"`
	MemoryStrength int             `json:"memoryStrength"`
	CorrectCount   int             `json:"correct"`
	IncorrectCount int             `json:"incorrect"`
	Next           int             `json:"next"`
}

// State is a learner's complete scheduling state.
type State struct {
	Items        []Item       `json:"items"`
	Head         int          `json:"head"`
	TotalCorrect int          `json:"totalCorrect"`
	TotalWrong   int          `json:"totalWrong"`
	Weakness     WeaknessList `json:"weakness"`
}

// Len returns the backlog capacity N.
func (s State) Len() int {
	return len(s.Items)
}

// Order returns item ids in due order, starting at Head.
// It stops early on a broken chain; use Validate to detect that.
func (s State) Order() []string {
	ids := make([]string, 0, len(s.Items))
	for i, steps := s.Head, 0; i != NoNext && i >= 0 && i < len(s.Items) && steps < len(s.Items); steps++ {
		ids = append(ids, s.Items[i].ID)
		i = s.Items[i].Next
	}
	return ids
}

// clone returns a deep copy. Content payloads are shared since they are never written.
func (s State) clone() State {
	out := s
	out.Items = make([]Item, len(s.Items))
	copy(out.Items, s.Items)
	out.Weakness = s.Weakness.clone()
	return out
}

func (it Item) snapshot() WeaknessEntry {
	return WeaknessEntry{
		ID:             it.ID,
		CorrectCount:   it.CorrectCount,
		IncorrectCount: it.IncorrectCount,
	}
}
