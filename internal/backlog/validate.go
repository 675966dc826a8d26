package backlog

import "fmt"

// Validate checks that a loaded state is usable: the chain from Head must be
// a permutation of every slot ending at NoNext, and counters and the weakness
// list must be well formed. Errors wrap ErrStateCorrupted.
func Validate(st State) error {
	n := len(st.Items)
	if n > 0 && (st.Head < 0 || st.Head >= n) {
		return corrupted("head %d out of range [0,%d)", st.Head, n)
	}
	if st.TotalCorrect < 0 || st.TotalWrong < 0 {
		return corrupted("negative totals")
	}

	visited := make([]bool, n)
	at, count := st.Head, 0
	for n > 0 && at != NoNext {
		if at < 0 || at >= n {
			return corrupted("slot %d out of range", at)
		}
		if visited[at] {
			return corrupted("chain revisits slot %d after %d hops", at, count)
		}
		visited[at] = true
		count++

		it := st.Items[at]
		if it.MemoryStrength < 1 || it.MemoryStrength > MaxMemoryStrength {
			return corrupted("item %q has memory strength %d", it.ID, it.MemoryStrength)
		}
		if it.CorrectCount < 0 || it.IncorrectCount < 0 {
			return corrupted("item %q has negative counts", it.ID)
		}
		at = it.Next
	}
	if count != n {
		return corrupted("chain reaches %d of %d slots", count, n)
	}

	return validateWeakness(st.Weakness)
}

func validateWeakness(w WeaknessList) error {
	if len(w) > MaxWeakItems {
		return corrupted("weakness list holds %d entries", len(w))
	}
	seen := make(map[string]struct{}, len(w))
	for i, e := range w {
		if e.CorrectCount < 0 || e.IncorrectCount < 0 || e.CorrectCount+e.IncorrectCount == 0 {
			return corrupted("weakness entry %q has invalid counts", e.ID)
		}
		if _, dup := seen[e.ID]; dup {
			return corrupted("weakness entry %q listed twice", e.ID)
		}
		seen[e.ID] = struct{}{}
		if i > 0 && w[i-1].SuccessRatio() > e.SuccessRatio() {
			return corrupted("weakness list not sorted at %d", i)
		}
	}
	return nil
}

func corrupted(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStateCorrupted, fmt.Sprintf(format, args...))
}
