package backlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// entry builds a snapshot with the given success ratio out of ten attempts.
func entry(id string, correctOfTen int) WeaknessEntry {
	return WeaknessEntry{ID: id, CorrectCount: correctOfTen, IncorrectCount: 10 - correctOfTen}
}

func TestWeaknessList_Update(t *testing.T) {
	tests := []struct {
		name  string
		start WeaknessList
		in    WeaknessEntry
		want  []string
	}{
		{
			name: "empty list accepts entry",
			in:   entry("a", 5),
			want: []string{"a"},
		},
		{
			name:  "insert sorts ascending",
			start: WeaknessList{entry("a", 5), entry("b", 8)},
			in:    entry("c", 2),
			want:  []string{"c", "a", "b"},
		},
		{
			name:  "full list displaces first greater slot",
			start: WeaknessList{entry("a", 2), entry("b", 4), entry("c", 6)},
			in:    entry("d", 5),
			want:  []string{"a", "b", "d"},
		},
		{
			name:  "full list shifts later entries down",
			start: WeaknessList{entry("a", 2), entry("b", 4), entry("c", 6)},
			in:    entry("d", 1),
			want:  []string{"d", "a", "b"},
		},
		{
			name:  "full list ignores stronger entry",
			start: WeaknessList{entry("a", 2), entry("b", 4), entry("c", 6)},
			in:    entry("d", 9),
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "equal ratio never displaces",
			start: WeaknessList{entry("a", 2), entry("b", 4), entry("c", 6)},
			in:    entry("d", 6),
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "tie on insert keeps first seen ahead",
			start: WeaknessList{entry("a", 4)},
			in:    entry("b", 4),
			want:  []string{"a", "b"},
		},
		{
			name:  "existing id is replaced and resorted",
			start: WeaknessList{entry("a", 2), entry("b", 4), entry("c", 6)},
			in:    entry("a", 9),
			want:  []string{"b", "c", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.clone().Update(tt.in)
			assert.Equal(t, tt.want, got.IDs())
			assert.LessOrEqual(t, len(got), MaxWeakItems)
		})
	}
}

func TestWeaknessList_UpdateScenario(t *testing.T) {
	w := WeaknessList{
		{ID: "p", CorrectCount: 1, IncorrectCount: 4}, // .2
		{ID: "q", CorrectCount: 2, IncorrectCount: 3}, // .4
		{ID: "r", CorrectCount: 3, IncorrectCount: 2}, // .6
	}

	got := w.Update(WeaknessEntry{ID: "s", CorrectCount: 1, IncorrectCount: 1})

	ratios := make([]float64, len(got))
	for i, e := range got {
		ratios[i] = e.SuccessRatio()
	}
	assert.Equal(t, []float64{.2, .4, .5}, ratios)
}

func TestWeaknessList_ReplaceKeepsSnapshot(t *testing.T) {
	w := WeaknessList{{ID: "a", CorrectCount: 0, IncorrectCount: 1}}
	w = w.Update(WeaknessEntry{ID: "a", CorrectCount: 3, IncorrectCount: 1})

	assert.Len(t, w, 1)
	assert.Equal(t, 3, w[0].CorrectCount)
	assert.InDelta(t, .75, w[0].SuccessRatio(), 1e-9)
}

func TestWeaknessEntry_SuccessRatio(t *testing.T) {
	assert.Equal(t, 0.0, WeaknessEntry{}.SuccessRatio())
	assert.Equal(t, 1.0, WeaknessEntry{CorrectCount: 2}.SuccessRatio())
	assert.Equal(t, 0.25, WeaknessEntry{CorrectCount: 1, IncorrectCount: 3}.SuccessRatio())
}
