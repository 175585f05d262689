package weakness

import (
	"fmt"

	"github.com/abhisek/quizpace/internal/performance"
)

// Direction is the short-term movement of a weakness area.
type Direction string

const (
	Improving Direction = "improving"
	Stable    Direction = "stable"
	Declining Direction = "declining"
)

// Trend describes how scores in an area have moved recently.
type Trend struct {
	Direction            Direction `json:"direction"`
	Rate                 float64   `json:"rate"` // score points, later half minus earlier half
	Confidence           float64   `json:"confidence"`
	ProjectedImprovement float64   `json:"projected_improvement"`
	DataPoints           int       `json:"data_points"`
}

// Weakness is a weakness area enriched with classification and scores.
type Weakness struct {
	performance.WeaknessArea
	Severity             performance.Severity `json:"severity"`
	Trend                Trend                `json:"trend"`
	RootCauses           []string             `json:"root_causes"`
	ImpactScore          float64              `json:"impact_score"`
	UrgencyScore         float64              `json:"urgency_score"`
	DaysSinceLastAttempt int                  `json:"days_since_last_attempt"`
}

// Analysis is the ranked weakness report for one learner.
type Analysis struct {
	CriticalAndHigh []Weakness `json:"critical_and_high"`
	Moderate        []Weakness `json:"moderate"`
	Improving       []Weakness `json:"improving"`
	Confidence      float64    `json:"confidence"`
	// FocusAreas holds at most 3 area names, most impactful first.
	FocusAreas []string `json:"focus_areas"`
}

// Ranked returns critical/high then moderate weaknesses, each group in
// impact order.
func (a *Analysis) Ranked() []Weakness {
	if a == nil {
		return nil
	}
	out := make([]Weakness, 0, len(a.CriticalAndHigh)+len(a.Moderate))
	out = append(out, a.CriticalAndHigh...)
	return append(out, a.Moderate...)
}

// CountSeverity returns how many ranked weaknesses have severity s.
func (a *Analysis) CountSeverity(s performance.Severity) int {
	n := 0
	for _, w := range a.Ranked() {
		if w.Severity == s {
			n++
		}
	}
	return n
}

// AnalysisError reports that weakness analysis failed.
type AnalysisError struct {
	UserID string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("analyze weaknesses for %s: %v", e.UserID, e.Err)
	}
	return fmt.Sprintf("analyze weaknesses: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
