package pathplan

import (
	"fmt"

	"github.com/abhisek/quizpace/internal/difficulty"
)

// SkillLevel is a learner's overall standing.
type SkillLevel int

const (
	Novice SkillLevel = iota
	Beginner
	Intermediate
	Advanced
	Expert
)

var levelNames = [...]string{"novice", "beginner", "intermediate", "advanced", "expert"}

func (l SkillLevel) String() string {
	if l < Novice || l > Expert {
		return fmt.Sprintf("SkillLevel(%d)", int(l))
	}
	return levelNames[l]
}

// MarshalText encodes the level as its name.
func (l SkillLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name.
func (l *SkillLevel) UnmarshalText(b []byte) error {
	for i, n := range levelNames {
		if n == string(b) {
			*l = SkillLevel(i)
			return nil
		}
	}
	return fmt.Errorf("pathplan: unknown skill level %q", string(b))
}

// Milestone is one stage on a learning path.
type Milestone struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Difficulty       difficulty.Tier `json:"difficulty"`
	TargetAccuracy   float64         `json:"target_accuracy"`
	EstimatedQuizzes int             `json:"estimated_quizzes"`
	Prerequisite     string          `json:"prerequisite,omitempty"`
	Skills           []string        `json:"skills"`
	Completed        bool            `json:"completed"`
}

// Path is an ordered milestone chain toward a target level.
type Path struct {
	CurrentLevel      SkillLevel  `json:"current_level"`
	TargetLevel       SkillLevel  `json:"target_level"`
	Milestones        []Milestone `json:"milestones"`
	QuizzesPerWeek    int         `json:"quizzes_per_week"`
	EstimatedWeeks    int         `json:"estimated_weeks"`
	EstimatedDuration string      `json:"estimated_duration"`
	ProgressPercent   float64     `json:"progress_percent"`
}

// Next returns the first incomplete milestone, or nil when all are done.
func (p *Path) Next() *Milestone {
	for i := range p.Milestones {
		if !p.Milestones[i].Completed {
			return &p.Milestones[i]
		}
	}
	return nil
}

// PlanningError reports that a learning path or study plan could not be
// built.
type PlanningError struct {
	UserID string
	Op     string // "learning path" or "study plan"
	Err    error
}

func (e *PlanningError) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("plan %s for %s: %v", e.Op, e.UserID, e.Err)
	}
	return fmt.Sprintf("plan %s: %v", e.Op, e.Err)
}

func (e *PlanningError) Unwrap() error { return e.Err }
