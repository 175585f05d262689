// Package pathplan builds multi-week milestone paths toward a target
// skill level.
package pathplan

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/performance"
	"github.com/abhisek/quizpace/internal/timeline"
)

// MinMilestoneQuestions is the sample a tier needs before its milestone can
// count as completed.
const MinMilestoneQuestions = 10

var seniorityKeywords = []string{"senior", "lead", "principal", "staff"}

// TopTierCompanies always call for an expert-level target.
var TopTierCompanies = []string{"Google", "Meta", "Amazon", "Apple", "Microsoft", "Netflix"}

type milestoneTemplate struct {
	id          string
	title       string
	description string
	tier        difficulty.Tier
	accuracy    float64
	quizzes     int
	skills      []string
	minTarget   SkillLevel // included only when the target is at least this
}

var templates = []milestoneTemplate{
	{
		id: "foundation", title: "Foundation", tier: difficulty.Easy, accuracy: 80, quizzes: 10,
		description: "Master the fundamentals on easy questions",
		skills:      []string{"core concepts", "terminology", "basic patterns"},
		minTarget:   Novice,
	},
	{
		id: "intermediate", title: "Intermediate", tier: difficulty.Medium, accuracy: 70, quizzes: 15,
		description: "Apply standard techniques to medium questions",
		skills:      []string{"problem decomposition", "standard algorithms", "complexity analysis"},
		minTarget:   Novice,
	},
	{
		id: "advanced", title: "Advanced", tier: difficulty.Hard, accuracy: 60, quizzes: 20,
		description: "Combine techniques on hard, multi-step problems",
		skills:      []string{"advanced data structures", "optimization", "trade-off analysis"},
		minTarget:   Advanced,
	},
	{
		id: "expert", title: "Expert", tier: difficulty.Expert, accuracy: 50, quizzes: 25,
		description: "Solve expert problems under interview conditions",
		skills:      []string{"system-level thinking", "novel problem solving", "edge-case rigor"},
		minTarget:   Expert,
	},
}

// Planner builds learning paths.
type Planner struct {
	now func() time.Time
}

// New creates a Planner.
func New() *Planner { return &Planner{now: time.Now} }

// Plan builds the path from m toward the level implied by role and company.
// A nil model is a fresh learner.
func (p *Planner) Plan(m *performance.Model, role, company string) (path *Path, err error) {
	userID := ""
	if m != nil {
		userID = m.UserID
	}
	defer func() {
		if r := recover(); r != nil {
			path = nil
			err = &PlanningError{UserID: userID, Op: "learning path", Err: fmt.Errorf("internal fault: %v", r)}
		}
	}()

	if m == nil {
		m = performance.New("", p.now())
	}
	if verr := performance.Validate(m); verr != nil {
		return nil, &PlanningError{UserID: userID, Op: "learning path", Err: verr}
	}

	target := TargetLevel(role, company)
	scale := QuizScale(m.LearningVelocity)

	var milestones []Milestone
	total := 0
	prev := ""
	for _, t := range templates {
		if target < t.minTarget {
			continue
		}
		quizzes := int(math.Round(float64(t.quizzes) * scale))
		milestones = append(milestones, Milestone{
			ID:               t.id,
			Title:            t.title,
			Description:      t.description,
			Difficulty:       t.tier,
			TargetAccuracy:   t.accuracy,
			EstimatedQuizzes: quizzes,
			Prerequisite:     prev,
			Skills:           append([]string(nil), t.skills...),
			Completed:        milestoneCompleted(m, t.tier, t.accuracy),
		})
		total += quizzes
		prev = t.id
	}

	perWeek := QuizzesPerWeek(m.LearningVelocity)
	weeks := timeline.WeeksFor(total, perWeek)
	return &Path{
		CurrentLevel:      CurrentLevel(m.Accuracy),
		TargetLevel:       target,
		Milestones:        milestones,
		QuizzesPerWeek:    perWeek,
		EstimatedWeeks:    weeks,
		EstimatedDuration: timeline.FormatWeeks(weeks),
		ProgressPercent:   progress(milestones),
	}, nil
}

// CurrentLevel maps overall accuracy to a level. Expert is only ever a
// target.
func CurrentLevel(accuracy float64) SkillLevel {
	switch {
	case accuracy >= 85:
		return Advanced
	case accuracy >= 70:
		return Intermediate
	case accuracy >= 50:
		return Beginner
	default:
		return Novice
	}
}

// TargetLevel is Expert for senior roles and top-tier companies, otherwise
// Advanced.
func TargetLevel(role, company string) SkillLevel {
	words := strings.FieldsFunc(strings.ToLower(role), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		for _, k := range seniorityKeywords {
			if w == k {
				return Expert
			}
		}
	}
	company = strings.TrimSpace(company)
	for _, c := range TopTierCompanies {
		if strings.EqualFold(c, company) {
			return Expert
		}
	}
	return Advanced
}

// QuizScale stretches quiz estimates for slower learners, within [0.5, 2].
func QuizScale(velocity float64) float64 {
	return math.Max(0.5, math.Min(2.0, 100/math.Max(20, velocity)))
}

// QuizzesPerWeek is the sustainable weekly pace for a learning velocity.
func QuizzesPerWeek(velocity float64) int {
	if velocity > 70 {
		return 3
	}
	return 2
}

func milestoneCompleted(m *performance.Model, tier difficulty.Tier, target float64) bool {
	rec, ok := m.Tier(tier)
	return ok && rec.QuestionsAnswered >= MinMilestoneQuestions && rec.Accuracy >= target
}

func progress(ms []Milestone) float64 {
	if len(ms) == 0 {
		return 0
	}
	done := 0
	for _, m := range ms {
		if m.Completed {
			done++
		}
	}
	return float64(done) / float64(len(ms)) * 100
}
