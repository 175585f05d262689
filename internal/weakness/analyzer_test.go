package weakness

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/performance"
)

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

// history returns quiz records newest first from chronological scores.
func history(domain string, startDay int, chronological ...float64) []performance.QuizRecord {
	out := make([]performance.QuizRecord, len(chronological))
	for i, s := range chronological {
		out[len(chronological)-1-i] = performance.QuizRecord{
			Date:   daysAgo(startDay + len(chronological) - 1 - i),
			Domain: domain,
			Score:  s,
		}
	}
	return out
}

func fixture() *performance.Model {
	m := performance.New("u1", now)
	m.TotalQuizzes = 25
	m.TotalQuestions = 250
	m.CorrectAnswers = 120
	m.Accuracy = 48
	m.ConsistencyScore = 60

	// dp: 20,30,40,50 (improving); graphs: 60,50,40 (declining)
	m.RecentPerformance = append(history("dp", 1, 20, 30, 40, 50), history("graphs", 5, 60, 50, 40)...)

	m.DomainPerformance = []performance.DomainStats{
		{Domain: "dp", AreaStats: performance.AreaStats{
			QuestionsAnswered: 8, CorrectAnswers: 2, Accuracy: 25,
			AverageTimeSpent: 200, LastAttempted: daysAgo(1),
			DifficultyDistribution: map[difficulty.Tier]int{difficulty.Easy: 6, difficulty.Hard: 1},
		}},
		{Domain: "graphs", AreaStats: performance.AreaStats{
			QuestionsAnswered: 30, CorrectAnswers: 13, Accuracy: 42,
			AverageTimeSpent: 60, LastAttempted: daysAgo(10),
			DifficultyDistribution: map[difficulty.Tier]int{difficulty.Easy: 2, difficulty.Hard: 2},
		}},
	}
	m.WeaknessAreas = []performance.WeaknessArea{
		{Area: "dp", QuestionsAttempted: 8, Accuracy: 25, ImprovementTrend: 0.2},
		{Area: "graphs", QuestionsAttempted: 30, Accuracy: 42, ImprovementTrend: -0.15},
		{Area: "strings", QuestionsAttempted: 20, Accuracy: 55},
		{Area: "trees", QuestionsAttempted: 12, Accuracy: 58},
		{Area: "heaps", QuestionsAttempted: 5, Accuracy: 35},
	}
	return m
}

func names(ws []Weakness) []string {
	var out []string
	for _, w := range ws {
		out = append(out, w.Area)
	}
	return out
}

func TestAnalyze_Buckets(t *testing.T) {
	a, err := New(fixedClock).Analyze(fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"dp", "graphs", "heaps"}, names(a.CriticalAndHigh))
	assert.Equal(t, []string{"strings", "trees"}, names(a.Moderate))
	assert.Equal(t, []string{"dp"}, names(a.Improving))
	assert.Equal(t, []string{"dp", "graphs", "strings"}, a.FocusAreas)
	assert.Equal(t, 1, a.CountSeverity(performance.SeverityCritical))
	assert.Equal(t, 2, a.CountSeverity(performance.SeverityHigh))

	// 0.5 + quizzes>20 + questions>200 + 7 quizzes in the last 30 days
	assert.InDelta(t, 0.9, a.Confidence, 1e-9)
}

func TestAnalyze_Scores(t *testing.T) {
	a, err := New(fixedClock).Analyze(fixture())
	require.NoError(t, err)

	dp := a.CriticalAndHigh[0]
	assert.Equal(t, performance.SeverityCritical, dp.Severity)
	assert.InDelta(t, 40+16+22.5, dp.ImpactScore, 1e-9)
	assert.InDelta(t, 50+20, dp.UrgencyScore, 1e-9) // attempted yesterday
	assert.Equal(t, 1, dp.DaysSinceLastAttempt)

	graphs := a.CriticalAndHigh[1]
	assert.InDelta(t, 30+30+17.4, graphs.ImpactScore, 1e-9)
	assert.InDelta(t, 35+30+10, graphs.UrgencyScore, 1e-9)

	strs := a.Moderate[0]
	assert.Equal(t, -1, strs.DaysSinceLastAttempt)
	assert.InDelta(t, 20, strs.UrgencyScore, 1e-9)
}

func TestAnalyze_Trends(t *testing.T) {
	a, err := New(fixedClock).Analyze(fixture())
	require.NoError(t, err)

	dp := a.CriticalAndHigh[0].Trend
	assert.Equal(t, Improving, dp.Direction)
	assert.InDelta(t, 20, dp.Rate, 1e-9)
	assert.InDelta(t, 80, dp.ProjectedImprovement, 1e-9)
	assert.InDelta(t, 0.875, dp.Confidence, 1e-9) // variance 125
	assert.Equal(t, 4, dp.DataPoints)

	graphs := a.CriticalAndHigh[1].Trend
	assert.Equal(t, Declining, graphs.Direction)
	assert.InDelta(t, -15, graphs.Rate, 1e-9)

	heaps := a.CriticalAndHigh[2].Trend
	assert.Equal(t, Stable, heaps.Direction)
	assert.Equal(t, 0.3, heaps.Confidence)
	assert.Zero(t, heaps.DataPoints)
}

func TestAnalyze_RootCauses(t *testing.T) {
	a, err := New(fixedClock).Analyze(fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"fundamental knowledge gaps in core concepts",
		"insufficient practice volume",
		"over-reliance on easy questions",
		"time management issues",
	}, a.CriticalAndHigh[0].RootCauses)

	assert.Equal(t, []string{
		"inconsistent application of known concepts",
		"declining performance suggests the current strategy needs to change",
	}, a.CriticalAndHigh[1].RootCauses)
}

func TestRootCauses_Default(t *testing.T) {
	causes := RootCauses(DefaultCauseRules(), &CauseInput{
		Area: performance.WeaknessArea{Area: "bits", QuestionsAttempted: 20, Accuracy: 70},
	})
	assert.Equal(t, []string{DefaultRootCause}, causes)
}

func TestAreaTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		dir    Direction
	}{
		{"too few points", []float64{10, 90}, Stable},
		{"flat", []float64{50, 51, 50, 51}, Stable},
		{"rising", []float64{40, 45, 60, 70}, Improving},
		{"falling", []float64{80, 70, 40}, Declining},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := AreaTrend(history("x", 0, tt.scores...), "x")
			assert.Equal(t, tt.dir, tr.Direction)
			assert.GreaterOrEqual(t, tr.Confidence, 0.3)
			assert.LessOrEqual(t, tr.Confidence, 0.95)
		})
	}
}

func TestAreaTrend_UsesLastTenInDomain(t *testing.T) {
	recent := history("x", 0, 0, 0, 0, 0, 0, 100, 100, 100, 100, 100, 100, 100)
	tr := AreaTrend(recent, "X")
	assert.Equal(t, 10, tr.DataPoints)
	assert.Equal(t, Improving, tr.Direction)
}

func TestImpactAndUrgency_Capped(t *testing.T) {
	assert.InDelta(t, 100, ImpactScore(performance.SeverityCritical, 100, 0), 1e-9)
	assert.InDelta(t, 100, UrgencyScore(performance.SeverityCritical, -1, 0), 1e-9)
	assert.InDelta(t, 10, UrgencyScore(performance.SeverityLow, 0.5, 45), 1e-9)
	assert.InDelta(t, 10+15, UrgencyScore(performance.SeverityLow, -0.05, -1), 1e-9)
}

func TestAnalyze_FreshLearner(t *testing.T) {
	a, err := New(fixedClock).Analyze(nil)
	require.NoError(t, err)
	assert.Empty(t, a.Ranked())
	assert.Empty(t, a.FocusAreas)
	assert.Equal(t, 0.5, a.Confidence)
}

func TestAnalyze_MalformedModel(t *testing.T) {
	m := fixture()
	m.Accuracy = math.NaN()

	_, err := New(fixedClock).Analyze(m)
	require.Error(t, err)

	var aerr *AnalysisError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "u1", aerr.UserID)
	assert.ErrorIs(t, err, performance.ErrMalformedModel)
}
