package backlog

import "sort"

// MaxWeakItems is the capacity of a WeaknessList.
const MaxWeakItems = 3

// WeaknessEntry is a snapshot of an item's counters at its last answer.
type WeaknessEntry struct {
	ID             string `json:"id"`
	CorrectCount   int    `json:"correct"`
	IncorrectCount int    `json:"incorrect"`
}

// SuccessRatio returns correct/(correct+incorrect).
// An entry without attempts reports 0; Update is never called with one.
func (e WeaknessEntry) SuccessRatio() float64 {
	total := e.CorrectCount + e.IncorrectCount
	if total == 0 {
		return 0
	}
	return float64(e.CorrectCount) / float64(total)
}

// WeaknessList holds at most three entries, ascending by success ratio.
type WeaknessList []WeaknessEntry

// Update records a fresh snapshot of an answered item and returns the list.
// Like append, it may reuse w's backing array.
//
// A full list is a fixed positional network: the new entry is compared with
// slot 0, then 1, then 2 and displaces the first slot whose ratio is strictly
// greater. Later entries shift down and the old slot 2 falls off. Equal ratios
// never displace, so the earlier entry keeps its place.
func (w WeaknessList) Update(e WeaknessEntry) WeaknessList {
	for i := range w {
		if w[i].ID == e.ID {
			w[i] = e
			w.sort()
			return w
		}
	}

	if len(w) < MaxWeakItems {
		w = append(w, e)
		w.sort()
		return w
	}

	ratio := e.SuccessRatio()
	for i := 0; i < MaxWeakItems; i++ {
		if w[i].SuccessRatio() > ratio {
			copy(w[i+1:], w[i:MaxWeakItems-1])
			w[i] = e
			return w
		}
	}
	return w
}

// IDs returns the entry ids in rank order.
func (w WeaknessList) IDs() []string {
	ids := make([]string, len(w))
	for i, e := range w {
		ids[i] = e.ID
	}
	return ids
}

func (w WeaknessList) sort() {
	sort.SliceStable(w, func(i, j int) bool {
		return w[i].SuccessRatio() < w[j].SuccessRatio()
	})
}

func (w WeaknessList) clone() WeaknessList {
	if w == nil {
		return nil
	}
	out := make(WeaknessList, len(w), MaxWeakItems)
	copy(out, w)
	return out
}
