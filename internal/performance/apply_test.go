package performance

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpace/internal/difficulty"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func quiz(domain string, tier difficulty.Tier, correct, total int, at time.Time) QuizResult {
	return QuizResult{
		QuizID:         "q-" + at.Format("150405.000"),
		Domain:         domain,
		Company:        "Acme",
		Difficulty:     tier,
		TotalQuestions: total,
		CorrectAnswers: correct,
		TimeSpent:      float64(total) * 60,
		CompletedAt:    at,
	}
}

func TestApplyQuizResult_FreshModel(t *testing.T) {
	m, err := ApplyQuizResult(nil, quiz("arrays", difficulty.Medium, 7, 10, baseTime))
	require.NoError(t, err)

	assert.Equal(t, 1, m.TotalQuizzes)
	assert.Equal(t, 10, m.TotalQuestions)
	assert.Equal(t, 7, m.CorrectAnswers)
	assert.InDelta(t, 70.0, m.Accuracy, 1e-9)

	d, ok := m.Domain("ARRAYS")
	require.True(t, ok)
	assert.Equal(t, 10, d.QuestionsAnswered)
	assert.InDelta(t, 60.0, d.AverageTimeSpent, 1e-9)
	assert.Equal(t, 10, d.DifficultyDistribution[difficulty.Medium])
	assert.Equal(t, baseTime, d.LastAttempted)

	c, ok := m.Company("acme")
	require.True(t, ok)
	assert.Equal(t, []string{"arrays"}, c.PreferredTopics)

	ts, ok := m.Tier(difficulty.Medium)
	require.True(t, ok)
	assert.InDelta(t, 70.0, ts.Accuracy, 1e-9)
	assert.Equal(t, MasteryBeginner, ts.MasteryLevel)

	require.Len(t, m.RecentPerformance, 1)
	assert.InDelta(t, 70.0, m.RecentPerformance[0].Score, 1e-9)
	assert.Equal(t, DefaultLearningVelocity, m.LearningVelocity)
	assert.Equal(t, DefaultConsistencyScore, m.ConsistencyScore)
}

func TestApplyQuizResult_DoesNotMutateInput(t *testing.T) {
	m1, err := ApplyQuizResult(nil, quiz("graphs", difficulty.Easy, 5, 5, baseTime))
	require.NoError(t, err)

	m2, err := ApplyQuizResult(m1, quiz("graphs", difficulty.Easy, 0, 5, baseTime.Add(time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, 1, m1.TotalQuizzes)
	d1, _ := m1.Domain("graphs")
	assert.Equal(t, 5, d1.QuestionsAnswered)
	assert.Equal(t, 5, d1.DifficultyDistribution[difficulty.Easy])

	assert.Equal(t, 2, m2.TotalQuizzes)
	d2, _ := m2.Domain("graphs")
	assert.Equal(t, 10, d2.QuestionsAnswered)
	assert.InDelta(t, 50.0, d2.Accuracy, 1e-9)
}

func TestApplyQuizResult_AccuracyRecomputedFromCounts(t *testing.T) {
	m := New("u1", baseTime)
	m.Accuracy = 99 // stale value must be overwritten
	next, err := ApplyQuizResult(m, quiz("trees", difficulty.Hard, 1, 4, baseTime))
	require.NoError(t, err)
	assert.InDelta(t, 25.0, next.Accuracy, 1e-9)
}

func TestApplyQuizResult_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		r    QuizResult
	}{
		{"no domain", QuizResult{Difficulty: difficulty.Easy, TotalQuestions: 1, CompletedAt: baseTime}},
		{"zero questions", QuizResult{Domain: "x", Difficulty: difficulty.Easy, CompletedAt: baseTime}},
		{"too many correct", QuizResult{Domain: "x", Difficulty: difficulty.Easy, TotalQuestions: 2, CorrectAnswers: 3, CompletedAt: baseTime}},
		{"bad tier", QuizResult{Domain: "x", Difficulty: difficulty.Tier(9), TotalQuestions: 2, CompletedAt: baseTime}},
		{"no timestamp", QuizResult{Domain: "x", Difficulty: difficulty.Easy, TotalQuestions: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyQuizResult(nil, tt.r)
			assert.Error(t, err)
		})
	}
}

func TestApplyQuizResult_RecentCappedOldestEvicted(t *testing.T) {
	gofakeit.Seed(42)
	var m *Model
	n := 20 + gofakeit.Number(1, 40)
	for i := 0; i < n; i++ {
		total := gofakeit.Number(1, 20)
		r := quiz(gofakeit.RandomString([]string{"arrays", "graphs", "dp"}), difficulty.Tier(gofakeit.Number(0, 3)),
			gofakeit.Number(0, total), total, baseTime.Add(time.Duration(i)*time.Hour))
		r.QuizID = gofakeit.UUID()
		next, err := ApplyQuizResult(m, r)
		require.NoError(t, err)
		m = next
		assert.LessOrEqual(t, len(m.RecentPerformance), MaxRecentPerformance)
	}
	require.Len(t, m.RecentPerformance, MaxRecentPerformance)
	newest := baseTime.Add(time.Duration(n-1) * time.Hour)
	oldestKept := baseTime.Add(time.Duration(n-MaxRecentPerformance) * time.Hour)
	assert.Equal(t, newest, m.RecentPerformance[0].Date)
	assert.Equal(t, oldestKept, m.RecentPerformance[MaxRecentPerformance-1].Date)
	assert.Equal(t, n, m.TotalQuizzes)
}

func TestApplyQuizResult_RebuildsWeaknesses(t *testing.T) {
	var m *Model
	steps := []QuizResult{
		quiz("dp", difficulty.Easy, 1, 10, baseTime),
		quiz("arrays", difficulty.Easy, 9, 10, baseTime.Add(time.Hour)),
		quiz("graphs", difficulty.Medium, 4, 10, baseTime.Add(2*time.Hour)),
	}
	for _, s := range steps {
		next, err := ApplyQuizResult(m, s)
		require.NoError(t, err)
		m = next
	}
	require.Len(t, m.WeaknessAreas, 2)
	assert.Equal(t, "dp", m.WeaknessAreas[0].Area)
	assert.Equal(t, SeverityCritical, m.WeaknessAreas[0].Severity())
	assert.Equal(t, difficulty.Easy, m.WeaknessAreas[0].TargetDifficulty)
	assert.Equal(t, "graphs", m.WeaknessAreas[1].Area)
	assert.Equal(t, SeverityHigh, m.WeaknessAreas[1].Severity())

	// Recovering above the cutoff drops the weakness.
	next, err := ApplyQuizResult(m, quiz("graphs", difficulty.Medium, 30, 30, baseTime.Add(3*time.Hour)))
	require.NoError(t, err)
	require.Len(t, next.WeaknessAreas, 1)
	assert.Equal(t, "dp", next.WeaknessAreas[0].Area)
}

func TestApplyQuizResult_PreferredTopicsByFrequency(t *testing.T) {
	var m *Model
	var err error
	at := baseTime
	apply := func(domain string) {
		t.Helper()
		at = at.Add(time.Hour)
		m, err = ApplyQuizResult(m, quiz(domain, difficulty.Medium, 5, 10, at))
		require.NoError(t, err)
	}

	for i := 0; i < 4; i++ {
		apply("arrays")
	}
	apply("graphs")

	c, ok := m.Company("Acme")
	require.True(t, ok)
	assert.Equal(t, []string{"arrays", "graphs"}, c.PreferredTopics, "recency must not outrank frequency")
	assert.Equal(t, 4, c.TopicCounts["arrays"])

	apply("GRAPHS")
	c, _ = m.Company("Acme")
	assert.Equal(t, 2, c.TopicCounts["graphs"], "domains are counted case-insensitively")

	for _, d := range []string{"trees", "dp", "heaps", "strings"} {
		apply(d)
	}
	c, _ = m.Company("Acme")
	assert.Equal(t, []string{"arrays", "graphs", "dp", "heaps", "strings"}, c.PreferredTopics)
}

func TestCountTopic_SeedsFromLegacyList(t *testing.T) {
	c := CompanyStats{Company: "Acme", PreferredTopics: []string{"trees", "arrays"}}
	c.countTopic("trees")
	assert.Equal(t, []string{"trees", "arrays"}, c.PreferredTopics)
	assert.Equal(t, map[string]int{"trees": 2, "arrays": 1}, c.TopicCounts)
}
