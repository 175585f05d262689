package performance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/quizpace/internal/difficulty"
)

const (
	// weaknessMinQuestions is the sample a domain needs before it can be
	// flagged as a weakness.
	weaknessMinQuestions = 5

	// weaknessAccuracyCutoff marks domains below this accuracy as weak.
	weaknessAccuracyCutoff = 60.0

	maxPreferredTopics = 5
)

// QuizResult is a completed quiz as reported by the quiz runner.
type QuizResult struct {
	QuizID         string          `json:"quiz_id"`
	Domain         string          `json:"domain"`
	Company        string          `json:"company,omitempty"`
	Difficulty     difficulty.Tier `json:"difficulty"`
	TotalQuestions int             `json:"total_questions"`
	CorrectAnswers int             `json:"correct_answers"`
	TimeSpent      float64         `json:"time_spent"` // seconds for the whole quiz
	CompletedAt    time.Time       `json:"completed_at"`
}

// Score is the quiz percentage, 0-100.
func (r QuizResult) Score() float64 {
	return percent(r.CorrectAnswers, r.TotalQuestions)
}

// Validate checks the result is internally consistent.
func (r QuizResult) Validate() error {
	switch {
	case strings.TrimSpace(r.Domain) == "":
		return fmt.Errorf("quiz result: domain is required")
	case !r.Difficulty.Valid():
		return fmt.Errorf("quiz result: invalid difficulty %d", int(r.Difficulty))
	case r.TotalQuestions <= 0:
		return fmt.Errorf("quiz result: total questions must be positive, got %d", r.TotalQuestions)
	case r.CorrectAnswers < 0 || r.CorrectAnswers > r.TotalQuestions:
		return fmt.Errorf("quiz result: correct answers %d out of range [0,%d]", r.CorrectAnswers, r.TotalQuestions)
	case r.TimeSpent < 0:
		return fmt.Errorf("quiz result: negative time spent")
	}
	return nil
}

// ApplyQuizResult folds one completed quiz into the aggregate and returns the
// new aggregate. The input model is not modified. A nil model is treated
// as a fresh learner.
func ApplyQuizResult(m *Model, r QuizResult) (*Model, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.CompletedAt.IsZero() {
		return nil, fmt.Errorf("quiz result: completion time is required")
	}

	var next *Model
	if m == nil {
		next = New("", r.CompletedAt)
	} else {
		next = m.Clone()
	}

	applyTotals(next, r)
	applyDomain(next, r)
	applyCompany(next, r)
	applyTier(next, r)
	applyRecent(next, r)
	applyLearningPattern(next)
	rebuildWeaknesses(next)
	next.UpdatedAt = r.CompletedAt
	return next, nil
}

func applyTotals(m *Model, r QuizResult) {
	m.TotalQuizzes++
	m.TotalQuestions += r.TotalQuestions
	m.CorrectAnswers += r.CorrectAnswers
	m.Accuracy = percent(m.CorrectAnswers, m.TotalQuestions)
}

func applyDomain(m *Model, r QuizResult) {
	d, ok := m.Domain(r.Domain)
	if !ok {
		m.DomainPerformance = append(m.DomainPerformance, DomainStats{Domain: r.Domain})
		d = &m.DomainPerformance[len(m.DomainPerformance)-1]
	}
	d.AreaStats.record(r)
}

func applyCompany(m *Model, r QuizResult) {
	if strings.TrimSpace(r.Company) == "" {
		return
	}
	c, ok := m.Company(r.Company)
	if !ok {
		m.CompanyPerformance = append(m.CompanyPerformance, CompanyStats{Company: r.Company})
		c = &m.CompanyPerformance[len(m.CompanyPerformance)-1]
	}
	c.AreaStats.record(r)
	c.countTopic(r.Domain)
}

// record updates counters and the per-question average time.
func (a *AreaStats) record(r QuizResult) {
	prev := a.QuestionsAnswered
	a.QuestionsAnswered += r.TotalQuestions
	a.CorrectAnswers += r.CorrectAnswers
	a.Accuracy = percent(a.CorrectAnswers, a.QuestionsAnswered)
	a.AverageTimeSpent = (a.AverageTimeSpent*float64(prev) + r.TimeSpent) / float64(a.QuestionsAnswered)
	if r.CompletedAt.After(a.LastAttempted) {
		a.LastAttempted = r.CompletedAt
	}
	if a.DifficultyDistribution == nil {
		a.DifficultyDistribution = make(map[difficulty.Tier]int)
	}
	a.DifficultyDistribution[r.Difficulty] += r.TotalQuestions
}

// countTopic bumps domain's quiz count and rebuilds PreferredTopics from the
// counts: most frequent first, ties by name, at most 5.
func (c *CompanyStats) countTopic(domain string) {
	if c.TopicCounts == nil {
		c.TopicCounts = make(map[string]int)
		// Models saved before counts existed only carry the list.
		for _, t := range c.PreferredTopics {
			c.TopicCounts[t] = 1
		}
	}
	key := domain
	for t := range c.TopicCounts {
		if sameKey(t, domain) {
			key = t
			break
		}
	}
	c.TopicCounts[key]++
	c.PreferredTopics = topTopics(c.TopicCounts, maxPreferredTopics)
}

func topTopics(counts map[string]int, limit int) []string {
	out := make([]string, 0, len(counts))
	for t := range counts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return out[i] < out[j]
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func applyTier(m *Model, r QuizResult) {
	ts, ok := m.Tier(r.Difficulty)
	if !ok {
		m.DifficultyPerformance = append(m.DifficultyPerformance, TierStats{Difficulty: r.Difficulty})
		sort.Slice(m.DifficultyPerformance, func(i, j int) bool {
			return m.DifficultyPerformance[i].Difficulty < m.DifficultyPerformance[j].Difficulty
		})
		ts, _ = m.Tier(r.Difficulty)
	}
	prev := ts.QuestionsAnswered
	ts.QuestionsAnswered += r.TotalQuestions
	ts.CorrectAnswers += r.CorrectAnswers
	ts.Accuracy = percent(ts.CorrectAnswers, ts.QuestionsAnswered)
	ts.AverageTimeSpent = (ts.AverageTimeSpent*float64(prev) + r.TimeSpent) / float64(ts.QuestionsAnswered)
	ts.ConfidenceLevel = TierConfidence(ts.QuestionsAnswered)
	ts.MasteryLevel = MasteryFor(ts.Accuracy, ts.QuestionsAnswered)
}

func applyRecent(m *Model, r QuizResult) {
	rec := QuizRecord{
		Date:             r.CompletedAt,
		QuizID:           r.QuizID,
		Score:            r.Score(),
		Difficulty:       r.Difficulty,
		Domain:           r.Domain,
		Company:          r.Company,
		TimeSpent:        r.TimeSpent,
		QuestionsCorrect: r.CorrectAnswers,
		TotalQuestions:   r.TotalQuestions,
	}
	m.RecentPerformance = PushRecent(m.RecentPerformance, rec)
}

// PushRecent prepends rec and evicts the oldest entries beyond the cap.
func PushRecent(recent []QuizRecord, rec QuizRecord) []QuizRecord {
	out := make([]QuizRecord, 0, min(len(recent)+1, MaxRecentPerformance))
	out = append(out, rec)
	for _, r := range recent {
		if len(out) == MaxRecentPerformance {
			break
		}
		out = append(out, r)
	}
	return out
}

func applyLearningPattern(m *Model) {
	m.LearningVelocity = LearningVelocity(m.RecentPerformance)
	m.ConsistencyScore = ConsistencyScore(m.RecentPerformance)
}

// rebuildWeaknesses recomputes weakness areas from the domain records.
// Areas are ordered weakest first.
func rebuildWeaknesses(m *Model) {
	var areas []WeaknessArea
	for _, d := range m.DomainPerformance {
		if d.QuestionsAnswered < weaknessMinQuestions || d.Accuracy >= weaknessAccuracyCutoff {
			continue
		}
		sev := SeverityFor(d.Accuracy)
		areas = append(areas, WeaknessArea{
			Area:               d.Domain,
			QuestionsAttempted: d.QuestionsAnswered,
			Accuracy:           d.Accuracy,
			ImprovementTrend:   DomainTrend(m.RecentPerformance, d.Domain),
			RecommendedActions: recommendedActions(d.Domain, sev),
			TargetDifficulty:   targetTier(sev),
		})
	}
	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].Accuracy != areas[j].Accuracy {
			return areas[i].Accuracy < areas[j].Accuracy
		}
		return areas[i].Area < areas[j].Area
	})
	m.WeaknessAreas = areas
}

func recommendedActions(area string, sev Severity) []string {
	switch sev {
	case SeverityCritical:
		return []string{
			fmt.Sprintf("Review the fundamentals of %s before attempting new questions", area),
			fmt.Sprintf("Practice Easy %s questions until accuracy passes 60%%", area),
			"Read the explanation for every missed question",
		}
	case SeverityHigh:
		return []string{
			fmt.Sprintf("Work through guided Easy and Medium %s sets", area),
			fmt.Sprintf("Schedule a short %s review every other day", area),
		}
	case SeverityMedium:
		return []string{
			fmt.Sprintf("Mix Medium %s questions into every session", area),
		}
	default:
		return []string{fmt.Sprintf("Keep %s in regular rotation", area)}
	}
}

func targetTier(sev Severity) difficulty.Tier {
	switch sev {
	case SeverityCritical, SeverityHigh:
		return difficulty.Easy
	case SeverityMedium:
		return difficulty.Medium
	default:
		return difficulty.Hard
	}
}
