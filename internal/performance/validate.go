package performance

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMalformedModel is wrapped by Validate for any inconsistent model.
var ErrMalformedModel = errors.New("malformed performance model")

// Validate checks that the scalar fields are finite and inside their
// documented ranges and that counters are consistent.
func Validate(m *Model) error {
	if m == nil {
		return nil
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"accuracy", m.Accuracy},
		{"learning velocity", m.LearningVelocity},
		{"consistency score", m.ConsistencyScore},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v < 0 || c.v > 100 {
			return fmt.Errorf("%w: %s %v outside [0,100]", ErrMalformedModel, c.name, c.v)
		}
	}
	if m.TotalQuizzes < 0 || m.TotalQuestions < 0 || m.CorrectAnswers < 0 {
		return fmt.Errorf("%w: negative counters", ErrMalformedModel)
	}
	if m.CorrectAnswers > m.TotalQuestions {
		return fmt.Errorf("%w: %d correct answers exceed %d questions", ErrMalformedModel, m.CorrectAnswers, m.TotalQuestions)
	}
	if len(m.RecentPerformance) > MaxRecentPerformance {
		return fmt.Errorf("%w: %d recent entries exceed cap %d", ErrMalformedModel, len(m.RecentPerformance), MaxRecentPerformance)
	}
	for _, d := range m.DomainPerformance {
		if d.CorrectAnswers > d.QuestionsAnswered {
			return fmt.Errorf("%w: domain %q has more correct answers than questions", ErrMalformedModel, d.Domain)
		}
	}
	return nil
}

func percent(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sameKey(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
