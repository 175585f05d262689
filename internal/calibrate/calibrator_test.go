package calibrate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/performance"
)

func TestCalibrate(t *testing.T) {
	tests := []struct {
		name       string
		progress   Progress
		adjust     bool
		newTier    difficulty.Tier
		confidence float64
	}{
		{
			name:       "well above expectation at a good pace moves up",
			progress:   Progress{QuestionsAnswered: 5, CorrectAnswers: 5, AverageTimePerQuestion: 30, CurrentDifficulty: "Medium"},
			adjust:     true,
			newTier:    difficulty.Hard,
			confidence: 0.85,
		},
		{
			name:       "slightly below expectation holds",
			progress:   Progress{QuestionsAnswered: 5, CorrectAnswers: 3, AverageTimePerQuestion: 45, CurrentDifficulty: "medium"},
			confidence: 0.75,
		},
		{
			// 0.2 vs 0.5 is a gap of 0.3, inside the 0.4 margin, and 120s
			// is within the Hard window.
			name:       "one of five on hard at an efficient pace holds",
			progress:   Progress{QuestionsAnswered: 5, CorrectAnswers: 1, AverageTimePerQuestion: 120, CurrentDifficulty: "Hard"},
			confidence: 0.75,
		},
		{
			name:       "far below expectation and slow moves down",
			progress:   Progress{QuestionsAnswered: 5, CorrectAnswers: 0, AverageTimePerQuestion: 200, CurrentDifficulty: "Hard"},
			adjust:     true,
			newTier:    difficulty.Medium,
			confidence: 0.9,
		},
		{
			name:       "above expectation but too fast holds",
			progress:   Progress{QuestionsAnswered: 5, CorrectAnswers: 5, AverageTimePerQuestion: 10, CurrentDifficulty: "Medium"},
			confidence: 0.75,
		},
		{
			name:       "expert never moves up",
			progress:   Progress{QuestionsAnswered: 4, CorrectAnswers: 4, AverageTimePerQuestion: 150, CurrentDifficulty: "Expert"},
			confidence: 0.75,
		},
		{
			name:       "easy never moves down",
			progress:   Progress{QuestionsAnswered: 4, CorrectAnswers: 0, AverageTimePerQuestion: 100, CurrentDifficulty: "Easy"},
			confidence: 0.75,
		},
		{
			name:       "unknown label is a no-op",
			progress:   Progress{QuestionsAnswered: 5, CorrectAnswers: 5, AverageTimePerQuestion: 30, CurrentDifficulty: "insane"},
			confidence: 0.75,
		},
		{
			name:       "no questions answered is a no-op",
			progress:   Progress{CurrentDifficulty: "Medium"},
			confidence: 0.75,
		},
	}

	c := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := c.Calibrate(nil, tt.progress)
			assert.Equal(t, tt.adjust, adj.ShouldAdjust)
			assert.Equal(t, tt.confidence, adj.Confidence)
			assert.NotEmpty(t, adj.Reasoning)
			if tt.adjust {
				require.NotNil(t, adj.NewDifficulty)
				assert.Equal(t, tt.newTier, *adj.NewDifficulty)
			} else {
				assert.Nil(t, adj.NewDifficulty)
			}
		})
	}
}

func TestCalibrate_UsesLearnerTierAccuracy(t *testing.T) {
	m := performance.New("u1", time.Now())
	m.DifficultyPerformance = []performance.TierStats{
		{Difficulty: difficulty.Medium, QuestionsAnswered: 40, CorrectAnswers: 38, Accuracy: 95},
	}
	p := Progress{QuestionsAnswered: 5, CorrectAnswers: 5, AverageTimePerQuestion: 30, CurrentDifficulty: "medium"}

	// 1.0 vs the learner's own 0.95 is no surprise.
	adj := New(DefaultConfig()).Calibrate(m, p)
	assert.False(t, adj.ShouldAdjust)

	// Without the tier record the 0.65 default applies.
	adj = New(DefaultConfig()).Calibrate(performance.New("u2", time.Now()), p)
	assert.True(t, adj.ShouldAdjust)
}

func TestCalibrate_ReasoningMentionsDirection(t *testing.T) {
	c := New(DefaultConfig())
	up := c.Calibrate(nil, Progress{QuestionsAnswered: 5, CorrectAnswers: 5, AverageTimePerQuestion: 30, CurrentDifficulty: "medium"})
	assert.Contains(t, up.Reasoning, "above expectations")

	down := c.Calibrate(nil, Progress{QuestionsAnswered: 5, CorrectAnswers: 0, AverageTimePerQuestion: 200, CurrentDifficulty: "hard"})
	assert.Contains(t, down.Reasoning, "struggling")

	hold := c.Calibrate(nil, Progress{QuestionsAnswered: 5, CorrectAnswers: 3, AverageTimePerQuestion: 45, CurrentDifficulty: "medium"})
	assert.Contains(t, hold.Reasoning, "appropriate")
}
