package performance

import (
	"time"

	"github.com/abhisek/quizpace/internal/difficulty"
)

const (
	// MaxRecentPerformance caps the recent quiz history; the oldest entry is
	// evicted on insert.
	MaxRecentPerformance = 20

	// DefaultLearningVelocity is the velocity of a learner with no history.
	DefaultLearningVelocity = 50.0

	// DefaultConsistencyScore is the consistency of a learner with no history.
	DefaultConsistencyScore = 50.0
)

// Model is the per-user performance aggregate consumed by every engine
// component. Accuracy fields are derived from their counts; they are
// recomputed on every update and never written independently.
type Model struct {
	UserID         string  `json:"user_id"`
	TotalQuizzes   int     `json:"total_quizzes"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`

	DomainPerformance     []DomainStats  `json:"domain_performance"`
	CompanyPerformance    []CompanyStats `json:"company_performance"`
	DifficultyPerformance []TierStats    `json:"difficulty_performance"`
	WeaknessAreas         []WeaknessArea `json:"weakness_areas"`

	// RecentPerformance is ordered most recent first.
	RecentPerformance []QuizRecord `json:"recent_performance"`

	LearningVelocity float64 `json:"learning_velocity"`
	ConsistencyScore float64 `json:"consistency_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AreaStats holds counters shared by per-domain and per-company records.
type AreaStats struct {
	QuestionsAnswered      int                     `json:"questions_answered"`
	CorrectAnswers         int                     `json:"correct_answers"`
	Accuracy               float64                 `json:"accuracy"`
	AverageTimeSpent       float64                 `json:"average_time_spent"` // seconds per question
	LastAttempted          time.Time               `json:"last_attempted"`
	DifficultyDistribution map[difficulty.Tier]int `json:"difficulty_distribution"`
}

// DomainStats is performance within one subject domain.
type DomainStats struct {
	Domain string `json:"domain"`
	AreaStats
}

// CompanyStats is performance on questions targeted at one company.
type CompanyStats struct {
	Company string `json:"company"`
	AreaStats
	// PreferredTopics is ordered most frequent first.
	PreferredTopics []string       `json:"preferred_topics"`
	TopicCounts     map[string]int `json:"topic_counts,omitempty"`
}

// TierStats is performance at one difficulty tier.
type TierStats struct {
	Difficulty        difficulty.Tier `json:"difficulty"`
	QuestionsAnswered int             `json:"questions_answered"`
	CorrectAnswers    int             `json:"correct_answers"`
	Accuracy          float64         `json:"accuracy"`
	AverageTimeSpent  float64         `json:"average_time_spent"`
	ConfidenceLevel   float64         `json:"confidence_level"`
	MasteryLevel      MasteryLevel    `json:"mastery_level"`
}

// WeaknessArea is a domain where the learner underperforms. Severity is not
// stored; it is derived from Accuracy via Severity().
type WeaknessArea struct {
	Area               string          `json:"area"`
	QuestionsAttempted int             `json:"questions_attempted"`
	Accuracy           float64         `json:"accuracy"`
	ImprovementTrend   float64         `json:"improvement_trend"`
	RecommendedActions []string        `json:"recommended_actions"`
	TargetDifficulty   difficulty.Tier `json:"target_difficulty"`
}

// Severity classifies the weakness from its accuracy.
func (w WeaknessArea) Severity() Severity {
	return SeverityFor(w.Accuracy)
}

// QuizRecord is one completed quiz in the recent history.
type QuizRecord struct {
	Date             time.Time       `json:"date"`
	QuizID           string          `json:"quiz_id"`
	Score            float64         `json:"score"` // 0-100
	Difficulty       difficulty.Tier `json:"difficulty"`
	Domain           string          `json:"domain"`
	Company          string          `json:"company,omitempty"`
	TimeSpent        float64         `json:"time_spent"` // seconds, whole quiz
	QuestionsCorrect int             `json:"questions_correct"`
	TotalQuestions   int             `json:"total_questions"`
}

// New returns the empty model for a learner with no activity.
func New(userID string, now time.Time) *Model {
	return &Model{
		UserID:           userID,
		LearningVelocity: DefaultLearningVelocity,
		ConsistencyScore: DefaultConsistencyScore,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsFresh reports whether the learner has not completed any quiz yet.
func (m *Model) IsFresh() bool {
	return m == nil || m.TotalQuizzes == 0
}

// Domain returns the record for a domain, matched case-insensitively.
func (m *Model) Domain(name string) (*DomainStats, bool) {
	if m == nil || name == "" {
		return nil, false
	}
	for i := range m.DomainPerformance {
		if sameKey(m.DomainPerformance[i].Domain, name) {
			return &m.DomainPerformance[i], true
		}
	}
	return nil, false
}

// Company returns the record for a company, matched case-insensitively.
func (m *Model) Company(name string) (*CompanyStats, bool) {
	if m == nil || name == "" {
		return nil, false
	}
	for i := range m.CompanyPerformance {
		if sameKey(m.CompanyPerformance[i].Company, name) {
			return &m.CompanyPerformance[i], true
		}
	}
	return nil, false
}

// Tier returns the record for a difficulty tier.
func (m *Model) Tier(t difficulty.Tier) (*TierStats, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.DifficultyPerformance {
		if m.DifficultyPerformance[i].Difficulty == t {
			return &m.DifficultyPerformance[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	c := *m
	c.DomainPerformance = make([]DomainStats, len(m.DomainPerformance))
	for i, d := range m.DomainPerformance {
		d.AreaStats = d.AreaStats.clone()
		c.DomainPerformance[i] = d
	}
	c.CompanyPerformance = make([]CompanyStats, len(m.CompanyPerformance))
	for i, co := range m.CompanyPerformance {
		co.AreaStats = co.AreaStats.clone()
		co.PreferredTopics = append([]string(nil), co.PreferredTopics...)
		if co.TopicCounts != nil {
			counts := make(map[string]int, len(co.TopicCounts))
			for k, v := range co.TopicCounts {
				counts[k] = v
			}
			co.TopicCounts = counts
		}
		c.CompanyPerformance[i] = co
	}
	c.DifficultyPerformance = append([]TierStats(nil), m.DifficultyPerformance...)
	c.WeaknessAreas = make([]WeaknessArea, len(m.WeaknessAreas))
	for i, w := range m.WeaknessAreas {
		w.RecommendedActions = append([]string(nil), w.RecommendedActions...)
		c.WeaknessAreas[i] = w
	}
	c.RecentPerformance = append([]QuizRecord(nil), m.RecentPerformance...)
	return &c
}

func (a AreaStats) clone() AreaStats {
	if a.DifficultyDistribution != nil {
		dist := make(map[difficulty.Tier]int, len(a.DifficultyDistribution))
		for k, v := range a.DifficultyDistribution {
			dist[k] = v
		}
		a.DifficultyDistribution = dist
	}
	return a
}
