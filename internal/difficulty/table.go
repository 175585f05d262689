package difficulty

// Table is a fixed lookup with exactly one value per tier.
type Table[T any] [Count]T

// NewTable builds a Table from per-tier values in ascending tier order.
func NewTable[T any](easy, medium, hard, expert T) Table[T] {
	return Table[T]{easy, medium, hard, expert}
}

// Get returns the value for t. ok is false when t is not a valid tier.
func (tb Table[T]) Get(t Tier) (v T, ok bool) {
	if !t.Valid() {
		return v, false
	}
	return tb[t], true
}

// At returns the value for t, which must be valid.
func (tb Table[T]) At(t Tier) T {
	return tb[t]
}

// Window is a closed interval of seconds per question.
type Window struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the window, bounds included.
func (w Window) Contains(v float64) bool {
	return v >= w.Min && v <= w.Max
}

// MasteryThreshold is the accuracy (percent) a learner must sustain at a
// tier before that tier counts as mastered.
var MasteryThreshold = NewTable(80.0, 70.0, 60.0, 50.0)
