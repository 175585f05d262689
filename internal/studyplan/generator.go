// Package studyplan turns a weakness analysis and a goal into a
// week-by-week study schedule.
package studyplan

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/pathplan"
	"github.com/abhisek/quizpace/internal/performance"
	"github.com/abhisek/quizpace/internal/weakness"
)

const (
	// MaxWeeks caps the schedule length; longer goals are planned for a year.
	MaxWeeks = 52

	baseQuizzesPerWeek = 8
	referenceVelocity  = 70.0
	minutesPerQuiz     = 45
	reviewShare        = 0.3
	focusWindow        = 3
	reviewPercent      = 10
)

// GeneralFocus is used for weeks when no weakness is known.
const GeneralFocus = "mixed practice"

// Goal describes what the learner is preparing for.
type Goal struct {
	Description    string `json:"description"`
	TargetRole     string `json:"target_role,omitempty"`
	TargetCompany  string `json:"target_company,omitempty"`
	TimeframeWeeks int    `json:"timeframe_weeks"`
}

// WeeklySchedule is the plan for one week.
type WeeklySchedule struct {
	Week               int                     `json:"week"`
	FocusAreas         []string                `json:"focus_areas"`
	RecommendedQuizzes int                     `json:"recommended_quizzes"`
	DifficultyMix      map[difficulty.Tier]int `json:"difficulty_mix"` // percent
	PracticeMinutes    int                     `json:"practice_minutes"`
	ReviewMinutes      int                     `json:"review_minutes"`
	Objectives         []string                `json:"objectives"`
}

// FocusDistribution splits study time, in percent, across kinds of work.
type FocusDistribution struct {
	WeaknessFocus         int `json:"weakness_focus"`
	StrengthReinforcement int `json:"strength_reinforcement"`
	NewTopics             int `json:"new_topics"`
	Review                int `json:"review"`
}

// Plan is a complete study plan.
type Plan struct {
	Goal              Goal              `json:"goal"`
	Weeks             []WeeklySchedule  `json:"weeks"`
	FocusDistribution FocusDistribution `json:"focus_distribution"`
	TotalQuizzes      int               `json:"total_quizzes"`
	TotalMinutes      int               `json:"total_minutes"`
}

// ErrInvalidTimeframe is wrapped when a goal has no positive timeframe.
var ErrInvalidTimeframe = errors.New("timeframe must be at least one week")

// Generator builds study plans.
type Generator struct{}

// New creates a Generator.
func New() *Generator { return &Generator{} }

// Generate builds a plan for goal. m supplies the learning velocity and may
// be nil; a nil analysis means no known weaknesses. Failures are reported
// as *pathplan.PlanningError.
func (g *Generator) Generate(m *performance.Model, a *weakness.Analysis, goal Goal) (plan *Plan, err error) {
	userID := ""
	if m != nil {
		userID = m.UserID
	}
	defer func() {
		if r := recover(); r != nil {
			plan = nil
			err = &pathplan.PlanningError{UserID: userID, Op: "study plan", Err: fmt.Errorf("internal fault: %v", r)}
		}
	}()

	if goal.TimeframeWeeks <= 0 {
		return nil, &pathplan.PlanningError{UserID: userID, Op: "study plan",
			Err: fmt.Errorf("%w: got %d", ErrInvalidTimeframe, goal.TimeframeWeeks)}
	}
	weeks := min(goal.TimeframeWeeks, MaxWeeks)

	velocity := performance.DefaultLearningVelocity
	if m != nil {
		velocity = m.LearningVelocity
	}
	quizzes := WeeklyQuizzes(velocity)

	var ranked []string
	for _, w := range a.Ranked() {
		ranked = append(ranked, w.Area)
	}

	plan = &Plan{
		Goal:              goal,
		FocusDistribution: Distribution(a.CountSeverity(performance.SeverityCritical)),
	}
	for week := 1; week <= weeks; week++ {
		progress := weekProgress(week, weeks)
		focus := slideFocus(ranked, progress)
		practice := quizzes * minutesPerQuiz
		s := WeeklySchedule{
			Week:               week,
			FocusAreas:         focus,
			RecommendedQuizzes: quizzes,
			DifficultyMix:      Mix(progress),
			PracticeMinutes:    practice,
			ReviewMinutes:      int(math.Round(float64(practice) * reviewShare)),
			Objectives:         objectives(week, weeks, focus, goal),
		}
		plan.Weeks = append(plan.Weeks, s)
		plan.TotalQuizzes += s.RecommendedQuizzes
		plan.TotalMinutes += s.PracticeMinutes + s.ReviewMinutes
	}
	return plan, nil
}

// WeeklyQuizzes scales the base weekly load by learning velocity.
func WeeklyQuizzes(velocity float64) int {
	f := math.Max(0.5, math.Min(1.5, velocity/referenceVelocity))
	return int(math.Round(baseQuizzesPerWeek * f))
}

// Mix is the difficulty split for a week at progress in [0,1]. Easy shifts
// from 40% to 20% and Hard from 20% to 40%; Medium stays at 40%.
func Mix(progress float64) map[difficulty.Tier]int {
	easy := int(math.Round(40 - 20*progress))
	return map[difficulty.Tier]int{
		difficulty.Easy:   easy,
		difficulty.Medium: 40,
		difficulty.Hard:   60 - easy,
	}
}

// Distribution splits time by the number of critical weaknesses.
func Distribution(critical int) FocusDistribution {
	focus := 40
	switch {
	case critical >= 2:
		focus = 60
	case critical == 1:
		focus = 50
	}
	rest := 100 - focus - reviewPercent
	return FocusDistribution{
		WeaknessFocus:         focus,
		StrengthReinforcement: rest - rest/2,
		NewTopics:             rest / 2,
		Review:                reviewPercent,
	}
}

func weekProgress(week, total int) float64 {
	if total <= 1 {
		return 0
	}
	return float64(week-1) / float64(total-1)
}

// slideFocus picks a window of up to three ranked weaknesses whose start
// moves down the ranking as the plan progresses.
func slideFocus(ranked []string, progress float64) []string {
	if len(ranked) == 0 {
		return []string{GeneralFocus}
	}
	if len(ranked) <= focusWindow {
		return append([]string(nil), ranked...)
	}
	start := int(math.Round(progress * float64(len(ranked)-focusWindow)))
	return append([]string(nil), ranked[start:start+focusWindow]...)
}

func objectives(week, total int, focus []string, goal Goal) []string {
	var out []string
	for _, f := range focus {
		if f == GeneralFocus {
			out = append(out, "Practise across all domains to surface weak spots")
			continue
		}
		out = append(out, fmt.Sprintf("Raise %s accuracy toward 60%%", f))
	}
	if week == total {
		target := goal.Description
		if target == "" {
			target = "your goal"
		}
		out = append(out, fmt.Sprintf("Take a full mixed-difficulty quiz to check readiness for %s", target))
	}
	return out
}
