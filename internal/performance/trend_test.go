package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// history builds a newest-first record list from chronological scores.
func history(domain string, chronological ...float64) []QuizRecord {
	out := make([]QuizRecord, len(chronological))
	for i, s := range chronological {
		out[len(chronological)-1-i] = QuizRecord{
			Date:   baseTime.Add(time.Duration(i) * time.Hour),
			Score:  s,
			Domain: domain,
		}
	}
	return out
}

func TestLearningVelocity(t *testing.T) {
	t.Run("not enough history", func(t *testing.T) {
		assert.Equal(t, 50.0, LearningVelocity(history("x", 10, 20, 30, 40, 50)))
	})
	t.Run("improving", func(t *testing.T) {
		// older five average 50, newer five average 70.
		recs := history("x", 50, 50, 50, 50, 50, 70, 70, 70, 70, 70)
		assert.InDelta(t, 70.0, LearningVelocity(recs), 1e-9)
	})
	t.Run("declining clamps at zero", func(t *testing.T) {
		recs := history("x", 100, 100, 100, 100, 100, 0, 0, 0, 0, 0)
		assert.Equal(t, 0.0, LearningVelocity(recs))
	})
	t.Run("partial older window", func(t *testing.T) {
		recs := history("x", 40, 60, 60, 60, 60, 60)
		assert.InDelta(t, 70.0, LearningVelocity(recs), 1e-9)
	})
}

func TestConsistencyScore(t *testing.T) {
	assert.Equal(t, 50.0, ConsistencyScore(history("x", 10, 90)))
	assert.Equal(t, 100.0, ConsistencyScore(history("x", 70, 70, 70, 70)))
	// scores 0/100 alternating: sd = 50 → 0.
	assert.Equal(t, 0.0, ConsistencyScore(history("x", 0, 100, 0, 100)))
	// sd = 10 → 80.
	assert.InDelta(t, 80.0, ConsistencyScore(history("x", 60, 80, 60, 80)), 1e-9)
}

func TestDomainScores_ChronologicalAndFiltered(t *testing.T) {
	recs := append(history("a", 10, 20, 30), history("b", 99)...)
	// recs: a30, a20, a10, b99 (newest first as built per domain)
	assert.Equal(t, []float64{10, 20, 30}, DomainScores(recs, "A"))
	assert.Equal(t, []float64{99}, DomainScores(recs, "b"))
}

func TestHalfSplitRate(t *testing.T) {
	assert.Equal(t, 0.0, HalfSplitRate([]float64{50}))
	assert.InDelta(t, 20.0, HalfSplitRate([]float64{40, 40, 60, 60}), 1e-9)
	// odd length: [40] vs [50, 60]
	assert.InDelta(t, 15.0, HalfSplitRate([]float64{40, 50, 60}), 1e-9)
}

func TestDomainTrend(t *testing.T) {
	assert.Equal(t, 0.0, DomainTrend(history("a", 10, 90), "a"))
	assert.InDelta(t, -0.2, DomainTrend(history("a", 60, 60, 40, 40), "a"), 1e-9)
}

func TestVariance(t *testing.T) {
	assert.Equal(t, 0.0, Variance(nil))
	assert.InDelta(t, 100.0, Variance([]float64{60, 80}), 1e-9)
}
