package performance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityFor_Bands(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     Severity
	}{
		{0, SeverityCritical},
		{25, SeverityCritical},
		{29.99, SeverityCritical},
		{30, SeverityHigh},
		{40, SeverityHigh},
		{45, SeverityMedium},
		{55, SeverityMedium},
		{60, SeverityLow},
		{75, SeverityLow},
		{100, SeverityLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityFor(tt.accuracy), "accuracy %v", tt.accuracy)
	}
}

func TestSeverityFor_Monotonic(t *testing.T) {
	prev := SeverityFor(0).Rank()
	for acc := 0.0; acc <= 100; acc += 0.5 {
		r := SeverityFor(acc).Rank()
		assert.LessOrEqual(t, r, prev, "severity rank rose at accuracy %v", acc)
		prev = r
	}
}

func TestMasteryFor(t *testing.T) {
	assert.Equal(t, MasteryNovice, MasteryFor(100, 4))
	assert.Equal(t, MasteryExpert, MasteryFor(92, 60))
	assert.Equal(t, MasteryAdvanced, MasteryFor(92, 40))
	assert.Equal(t, MasteryIntermediate, MasteryFor(75, 20))
	assert.Equal(t, MasteryBeginner, MasteryFor(75, 10))
	assert.Equal(t, MasteryNovice, MasteryFor(30, 100))
}

func TestTierConfidence(t *testing.T) {
	assert.Equal(t, 0.0, TierConfidence(0))
	assert.InDelta(t, 0.5, TierConfidence(25), 1e-9)
	assert.Equal(t, 1.0, TierConfidence(80))
}

func TestValidate(t *testing.T) {
	m := New("u", baseTime)
	require.NoError(t, Validate(m))
	require.NoError(t, Validate(nil))

	m.Accuracy = math.NaN()
	assert.ErrorIs(t, Validate(m), ErrMalformedModel)

	m = New("u", baseTime)
	m.ConsistencyScore = 140
	assert.ErrorIs(t, Validate(m), ErrMalformedModel)

	m = New("u", baseTime)
	m.TotalQuestions = 3
	m.CorrectAnswers = 4
	assert.ErrorIs(t, Validate(m), ErrMalformedModel)
}
