package recommend

import (
	"fmt"

	"github.com/abhisek/quizpace/internal/difficulty"
)

// Recommendation is the pre-session difficulty advice for a learner.
type Recommendation struct {
	RecommendedDifficulty   difficulty.Tier   `json:"recommended_difficulty"`
	Confidence              float64           `json:"confidence"` // 0-0.95
	Reasoning               []string          `json:"reasoning"`
	AlternativeDifficulties []difficulty.Tier `json:"alternative_difficulties"`
	ExpectedAccuracy        float64           `json:"expected_accuracy"` // 0-95
	LearningObjectives      []string          `json:"learning_objectives"`
	EstimatedTimeToMastery  string            `json:"estimated_time_to_mastery"`
}

// Target names what the learner is preparing for. Both fields are optional.
type Target struct {
	Domain  string `json:"domain"`
	Company string `json:"company"`
}

// RecommendationError reports that a difficulty recommendation could not
// be computed. Callers should block the session rather than guess.
type RecommendationError struct {
	UserID string
	Err    error
}

func (e *RecommendationError) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("recommend difficulty for %s: %v", e.UserID, e.Err)
	}
	return fmt.Sprintf("recommend difficulty: %v", e.Err)
}

func (e *RecommendationError) Unwrap() error { return e.Err }
