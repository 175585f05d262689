package recommend

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/performance"
	"github.com/abhisek/quizpace/internal/timeline"
)

const maxConfidence = 0.95

// masteryPointsPerWeek is the accuracy gain assumed when estimating time
// to mastery.
const masteryPointsPerWeek = 5.0

// accuracyMultiplier scales overall accuracy into the accuracy expected
// at a tier.
var accuracyMultiplier = difficulty.NewTable(1.2, 1.0, 0.8, 0.6)

// Recommender picks a starting difficulty tier from a performance snapshot.
type Recommender struct {
	now func() time.Time
}

// New creates a Recommender.
func New() *Recommender {
	return &Recommender{now: time.Now}
}

// Recommend computes the recommended tier for target. A nil model is a
// fresh learner. Malformed models and internal faults are reported as
// *RecommendationError.
func (r *Recommender) Recommend(m *performance.Model, target Target) (rec *Recommendation, err error) {
	userID := ""
	if m != nil {
		userID = m.UserID
	}
	defer func() {
		if p := recover(); p != nil {
			rec = nil
			err = &RecommendationError{UserID: userID, Err: fmt.Errorf("internal fault: %v", p)}
		}
	}()

	if m == nil {
		m = performance.New("", r.now())
	}
	if verr := performance.Validate(m); verr != nil {
		return nil, &RecommendationError{UserID: userID, Err: verr}
	}

	var reasoning []string

	score := WeightedScore(m.Accuracy, m.ConsistencyScore, m.LearningVelocity)
	tier := BaseTier(m.Accuracy, m.ConsistencyScore, m.LearningVelocity)
	reasoning = append(reasoning, fmt.Sprintf(
		"Weighted score %.1f from %.1f%% accuracy, %.0f consistency and %.0f learning velocity suggests %s",
		score, m.Accuracy, m.ConsistencyScore, m.LearningVelocity, tier.Title()))

	domain, hasDomain := m.Domain(target.Domain)
	if hasDomain {
		var line string
		tier, line = adjustForArea(tier, "domain", domain.Domain, domain.Accuracy, domainThresholds)
		reasoning = append(reasoning, line)
	}

	company, hasCompany := m.Company(target.Company)
	if hasCompany {
		var line string
		tier, line = adjustForArea(tier, "company", company.Company, company.Accuracy, companyThresholds)
		reasoning = append(reasoning, line)
	}

	if next, line, ok := adjustForLearningPattern(tier, m); ok {
		tier = next
		reasoning = append(reasoning, line)
	}

	conf := confidence(m, domain, hasDomain, company, hasCompany)

	return &Recommendation{
		RecommendedDifficulty:   tier,
		Confidence:              conf,
		Reasoning:               reasoning,
		AlternativeDifficulties: alternatives(tier),
		ExpectedAccuracy:        math.Min(95, m.Accuracy*accuracyMultiplier.At(tier)),
		LearningObjectives:      objectives(tier, m.WeaknessAreas),
		EstimatedTimeToMastery:  timeToMastery(tier, m, domain, hasDomain),
	}, nil
}

// WeightedScore combines accuracy, consistency and velocity (all 0-100).
func WeightedScore(accuracy, consistency, velocity float64) float64 {
	return accuracy*0.5 + consistency*0.3 + velocity*0.2
}

// BaseTier maps the weighted score to a tier before any adjustment.
func BaseTier(accuracy, consistency, velocity float64) difficulty.Tier {
	w := WeightedScore(accuracy, consistency, velocity)
	switch {
	case w >= 85:
		return difficulty.Expert
	case w >= 70:
		return difficulty.Hard
	case w >= 55:
		return difficulty.Medium
	default:
		return difficulty.Easy
	}
}

type thresholds struct {
	up   float64 // strictly above moves one tier up
	down float64 // strictly below moves one tier down
}

var (
	domainThresholds  = thresholds{up: 80, down: 50}
	companyThresholds = thresholds{up: 85, down: 40}
)

func adjustForArea(tier difficulty.Tier, kind, name string, accuracy float64, th thresholds) (difficulty.Tier, string) {
	switch {
	case accuracy > th.up:
		next := tier.Next()
		return next, fmt.Sprintf("Strong %s performance in %s (%.1f%% > %.0f%%) moves difficulty up to %s",
			kind, name, accuracy, th.up, next.Title())
	case accuracy < th.down:
		next := tier.Previous()
		return next, fmt.Sprintf("Weak %s performance in %s (%.1f%% < %.0f%%) moves difficulty down to %s",
			kind, name, accuracy, th.down, next.Title())
	default:
		return tier, fmt.Sprintf("%s accuracy in %s (%.1f%%) is within the expected range; no %s adjustment",
			capitalize(kind), name, accuracy, kind)
	}
}

func adjustForLearningPattern(tier difficulty.Tier, m *performance.Model) (difficulty.Tier, string, bool) {
	switch {
	case m.LearningVelocity > 80 && m.ConsistencyScore > 75:
		next := tier.Next()
		return next, fmt.Sprintf("Fast, consistent learning (velocity %.0f, consistency %.0f) moves difficulty up to %s",
			m.LearningVelocity, m.ConsistencyScore, next.Title()), true
	case m.ConsistencyScore < 50:
		next := tier.Previous()
		return next, fmt.Sprintf("Inconsistent recent results (consistency %.0f) move difficulty down to %s",
			m.ConsistencyScore, next.Title()), true
	}
	return tier, "", false
}

func confidence(m *performance.Model, d *performance.DomainStats, hasDomain bool, c *performance.CompanyStats, hasCompany bool) float64 {
	conf := 0.6
	if m.TotalQuizzes > 10 {
		conf += 0.1
	}
	if m.TotalQuizzes > 25 {
		conf += 0.1
	}
	if hasDomain && d.QuestionsAnswered > 20 {
		conf += 0.1
	}
	if hasCompany && c.QuestionsAnswered > 15 {
		conf += 0.1
	}
	if m.ConsistencyScore > 70 {
		conf += 0.1
	}
	return math.Min(maxConfidence, conf)
}

func alternatives(tier difficulty.Tier) []difficulty.Tier {
	var out []difficulty.Tier
	if p := tier.Previous(); p != tier {
		out = append(out, p)
	}
	if n := tier.Next(); n != tier {
		out = append(out, n)
	}
	return out
}

var tierObjectives = difficulty.NewTable(
	[]string{
		"Build fluency with core concepts and terminology",
		"Reach 80% accuracy on fundamental questions",
	},
	[]string{
		"Apply standard patterns to familiar problem types",
		"Improve speed on multi-step questions",
	},
	[]string{
		"Combine several techniques in a single solution",
		"Analyze trade-offs between competing approaches",
	},
	[]string{
		"Solve unfamiliar problems under time pressure",
		"Optimize solutions for edge cases and scale",
	},
)

func objectives(tier difficulty.Tier, weaknesses []performance.WeaknessArea) []string {
	out := append([]string(nil), tierObjectives.At(tier)...)
	for _, w := range weaknesses {
		sev := w.Severity()
		if sev == performance.SeverityHigh || sev == performance.SeverityCritical {
			out = append(out, fmt.Sprintf("Address %s weakness in %s (currently %.0f%% accuracy)", sev, w.Area, w.Accuracy))
		}
	}
	return out
}

func timeToMastery(tier difficulty.Tier, m *performance.Model, d *performance.DomainStats, hasDomain bool) string {
	current := m.Accuracy
	if hasDomain {
		current = d.Accuracy
	}
	gap := difficulty.MasteryThreshold.At(tier) - current
	weeks := 1
	if gap > 0 {
		weeks = int(math.Ceil(gap / masteryPointsPerWeek))
	}
	return timeline.FormatWeeks(weeks)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
