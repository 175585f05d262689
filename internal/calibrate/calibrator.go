// Package calibrate adjusts difficulty mid-quiz from live accuracy and
// timing. It never fails: anything it cannot judge is "no adjustment".
package calibrate

import (
	"fmt"

	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/performance"
)

// Config holds the calibration thresholds.
type Config struct {
	// ExpectedAccuracy is used when the learner has no record at a tier (0-1).
	ExpectedAccuracy difficulty.Table[float64]
	// TimeWindow is the efficient range of seconds per question at a tier.
	TimeWindow difficulty.Table[difficulty.Window]

	RaiseMargin float64 // accuracy above expectation that raises the tier
	LowerMargin float64 // accuracy below expectation that lowers the tier

	RaiseConfidence float64
	LowerConfidence float64
	HoldConfidence  float64
}

// DefaultConfig returns the standard calibration thresholds.
func DefaultConfig() Config {
	return Config{
		ExpectedAccuracy: difficulty.NewTable(0.8, 0.65, 0.5, 0.35),
		TimeWindow: difficulty.NewTable(
			difficulty.Window{Min: 15, Max: 45},
			difficulty.Window{Min: 30, Max: 90},
			difficulty.Window{Min: 60, Max: 180},
			difficulty.Window{Min: 120, Max: 300},
		),
		RaiseMargin:     0.3,
		LowerMargin:     0.4,
		RaiseConfidence: 0.85,
		LowerConfidence: 0.9,
		HoldConfidence:  0.75,
	}
}

// Progress is the state of a quiz in progress.
type Progress struct {
	QuestionsAnswered      int     `json:"questions_answered"`
	CorrectAnswers         int     `json:"correct_answers"`
	AverageTimePerQuestion float64 `json:"average_time_per_question"` // seconds
	// CurrentDifficulty is a tier label; unknown labels are never adjusted.
	CurrentDifficulty string `json:"current_difficulty"`
}

// Adjustment is the calibration decision. NewDifficulty is set only when
// ShouldAdjust is true.
type Adjustment struct {
	ShouldAdjust  bool             `json:"should_adjust"`
	NewDifficulty *difficulty.Tier `json:"new_difficulty,omitempty"`
	Reasoning     string           `json:"reasoning"`
	Confidence    float64          `json:"confidence"`
}

const holdReasoning = "Current difficulty appears appropriate for your performance"

// Calibrator decides whether to move the difficulty during a quiz.
type Calibrator struct {
	cfg Config
}

// New creates a Calibrator.
func New(cfg Config) *Calibrator {
	return &Calibrator{cfg: cfg}
}

// Hold is the no-adjustment decision.
func (c *Calibrator) Hold() Adjustment {
	return Adjustment{Reasoning: holdReasoning, Confidence: c.cfg.HoldConfidence}
}

// Calibrate evaluates p against m, which may be nil for a fresh learner.
func (c *Calibrator) Calibrate(m *performance.Model, p Progress) (adj Adjustment) {
	defer func() {
		if r := recover(); r != nil {
			adj = c.Hold()
		}
	}()

	tier, ok := difficulty.Parse(p.CurrentDifficulty)
	if !ok || p.QuestionsAnswered <= 0 || p.CorrectAnswers < 0 {
		return c.Hold()
	}

	current := float64(min(p.CorrectAnswers, p.QuestionsAnswered)) / float64(p.QuestionsAnswered)
	expected := c.expected(m, tier)
	diff := current - expected
	window := c.cfg.TimeWindow.At(tier)
	efficient := window.Contains(p.AverageTimePerQuestion)

	switch {
	case diff > c.cfg.RaiseMargin && efficient && tier != difficulty.Expert:
		next := tier.Next()
		return Adjustment{
			ShouldAdjust:  true,
			NewDifficulty: &next,
			Reasoning: fmt.Sprintf("You're performing significantly above expectations (%.0f%% vs %.0f%% expected) at a good pace; moving up to %s",
				current*100, expected*100, next.Title()),
			Confidence: c.cfg.RaiseConfidence,
		}
	case diff < -c.cfg.LowerMargin && !efficient && tier != difficulty.Easy:
		prev := tier.Previous()
		return Adjustment{
			ShouldAdjust:  true,
			NewDifficulty: &prev,
			Reasoning: fmt.Sprintf("You seem to be struggling (%.0f%% vs %.0f%% expected, %.0fs per question); moving down to %s",
				current*100, expected*100, p.AverageTimePerQuestion, prev.Title()),
			Confidence: c.cfg.LowerConfidence,
		}
	}
	return c.Hold()
}

func (c *Calibrator) expected(m *performance.Model, tier difficulty.Tier) float64 {
	if rec, ok := m.Tier(tier); ok && rec.QuestionsAnswered > 0 {
		return rec.Accuracy / 100
	}
	return c.cfg.ExpectedAccuracy.At(tier)
}
