package difficulty

import (
	"fmt"
	"strings"
)

// Tier is a question difficulty level. Tiers are totally ordered:
// Easy < Medium < Hard < Expert.
type Tier int

const (
	Easy Tier = iota
	Medium
	Hard
	Expert
)

// Count is the number of tiers.
const Count = 4

// All returns every tier in ascending order.
func All() []Tier {
	return []Tier{Easy, Medium, Hard, Expert}
}

var tierNames = [Count]string{"easy", "medium", "hard", "expert"}

// String returns the lowercase label ("easy", "medium", ...).
func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// Title returns the capitalized label used in reports.
func (t Tier) Title() string {
	s := t.String()
	if !t.Valid() {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Valid reports whether t is one of the four defined tiers.
func (t Tier) Valid() bool {
	return t >= Easy && t <= Expert
}

// Next returns the tier one step harder, clamped at Expert.
func (t Tier) Next() Tier {
	if t >= Expert {
		return Expert
	}
	if t < Easy {
		return Easy
	}
	return t + 1
}

// Previous returns the tier one step easier, clamped at Easy.
func (t Tier) Previous() Tier {
	if t <= Easy {
		return Easy
	}
	if t > Expert {
		return Expert
	}
	return t - 1
}

// Shift moves t by delta positions and clamps at both ends.
func (t Tier) Shift(delta int) Tier {
	n := int(t) + delta
	if n < int(Easy) {
		return Easy
	}
	if n > int(Expert) {
		return Expert
	}
	return Tier(n)
}

// Compare returns -1, 0 or +1 depending on whether a is easier than,
// equal to, or harder than b.
func Compare(a, b Tier) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Parse maps a label to a Tier. Matching is case-insensitive and ignores
// surrounding whitespace. ok is false for unknown labels.
func Parse(s string) (Tier, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range tierNames {
		if s == name {
			return Tier(i), true
		}
	}
	return Easy, false
}

// MustParse is Parse for compile-time constants; it panics on unknown labels.
func MustParse(s string) Tier {
	t, ok := Parse(s)
	if !ok {
		panic(fmt.Sprintf("difficulty: unknown tier %q", s))
	}
	return t
}

// MarshalText encodes the tier as its label. This also makes Tier usable
// as a JSON object key.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("difficulty: cannot marshal invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier label.
func (t *Tier) UnmarshalText(b []byte) error {
	v, ok := Parse(string(b))
	if !ok {
		return fmt.Errorf("difficulty: unknown tier %q", string(b))
	}
	*t = v
	return nil
}
