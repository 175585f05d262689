package pathplan

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/performance"
)

func learner(accuracy, velocity float64) *performance.Model {
	m := performance.New("u1", time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))
	m.TotalQuizzes = 10
	m.TotalQuestions = 100
	m.CorrectAnswers = int(accuracy)
	m.Accuracy = accuracy
	m.LearningVelocity = velocity
	return m
}

func ids(p *Path) []string {
	var out []string
	for _, m := range p.Milestones {
		out = append(out, m.ID)
	}
	return out
}

func TestPlan_FreshLearner(t *testing.T) {
	p, err := New().Plan(nil, "Software Engineer", "Acme")
	require.NoError(t, err)

	assert.Equal(t, Novice, p.CurrentLevel)
	assert.Equal(t, Advanced, p.TargetLevel)
	assert.Equal(t, []string{"foundation", "intermediate", "advanced"}, ids(p))

	// velocity 50 doubles every estimate: 20 + 30 + 40 quizzes at 2 a week
	assert.Equal(t, []int{20, 30, 40}, []int{
		p.Milestones[0].EstimatedQuizzes, p.Milestones[1].EstimatedQuizzes, p.Milestones[2].EstimatedQuizzes,
	})
	assert.Equal(t, 2, p.QuizzesPerWeek)
	assert.Equal(t, 45, p.EstimatedWeeks)
	assert.Equal(t, "1 year", p.EstimatedDuration)
	assert.Zero(t, p.ProgressPercent)
}

func TestPlan_PrerequisitesChain(t *testing.T) {
	p, err := New().Plan(learner(60, 60), "Senior Backend Engineer", "")
	require.NoError(t, err)
	require.Len(t, p.Milestones, 4)

	assert.Empty(t, p.Milestones[0].Prerequisite)
	for i := 1; i < len(p.Milestones); i++ {
		assert.Equal(t, p.Milestones[i-1].ID, p.Milestones[i].Prerequisite)
		assert.Equal(t, p.Milestones[i-1].Difficulty.Next(), p.Milestones[i].Difficulty)
	}
	assert.Equal(t, difficulty.Expert, p.Milestones[3].Difficulty)
	assert.Equal(t, 50.0, p.Milestones[3].TargetAccuracy)
}

func TestPlan_FastLearner(t *testing.T) {
	p, err := New().Plan(learner(90, 100), "Engineer", "Netflix")
	require.NoError(t, err)

	assert.Equal(t, Advanced, p.CurrentLevel)
	assert.Equal(t, Expert, p.TargetLevel)
	// 10 + 15 + 20 + 25 = 70 quizzes at 3 a week
	assert.Equal(t, 3, p.QuizzesPerWeek)
	assert.Equal(t, 24, p.EstimatedWeeks)
	assert.Equal(t, "6 months", p.EstimatedDuration)
}

func TestPlan_Progress(t *testing.T) {
	m := learner(75, 50)
	m.DifficultyPerformance = []performance.TierStats{
		{Difficulty: difficulty.Easy, QuestionsAnswered: 20, CorrectAnswers: 17, Accuracy: 85},
		{Difficulty: difficulty.Medium, QuestionsAnswered: 8, CorrectAnswers: 8, Accuracy: 100},
	}
	p, err := New().Plan(m, "", "")
	require.NoError(t, err)

	assert.True(t, p.Milestones[0].Completed)
	assert.False(t, p.Milestones[1].Completed, "too few medium questions to count")
	assert.InDelta(t, 100.0/3, p.ProgressPercent, 1e-9)
	assert.Equal(t, "intermediate", p.Next().ID)
}

func TestTargetLevel(t *testing.T) {
	tests := []struct {
		role, company string
		want          SkillLevel
	}{
		{"Senior Software Engineer", "", Expert},
		{"Tech Lead", "", Expert},
		{"principal engineer", "", Expert},
		{"Staff SRE", "", Expert},
		{"Staffing Coordinator", "", Advanced},
		{"Engineer", "google", Expert},
		{"Engineer", " Meta ", Expert},
		{"Engineer", "Initech", Advanced},
		{"", "", Advanced},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.company, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetLevel(tt.role, tt.company))
		})
	}
}

func TestCurrentLevel(t *testing.T) {
	assert.Equal(t, Advanced, CurrentLevel(85))
	assert.Equal(t, Intermediate, CurrentLevel(84.9))
	assert.Equal(t, Intermediate, CurrentLevel(70))
	assert.Equal(t, Beginner, CurrentLevel(50))
	assert.Equal(t, Novice, CurrentLevel(49.9))
}

func TestQuizScale(t *testing.T) {
	assert.Equal(t, 2.0, QuizScale(0))
	assert.Equal(t, 2.0, QuizScale(50))
	assert.Equal(t, 1.25, QuizScale(80))
	assert.Equal(t, 1.0, QuizScale(100))
}

func TestPlan_MalformedModel(t *testing.T) {
	m := learner(50, 50)
	m.ConsistencyScore = -1

	_, err := New().Plan(m, "", "")
	var perr *PlanningError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "learning path", perr.Op)
	assert.ErrorIs(t, err, performance.ErrMalformedModel)
}

func TestSkillLevel_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		L SkillLevel `json:"l"`
	}{Intermediate})
	require.NoError(t, err)
	assert.JSONEq(t, `{"l":"intermediate"}`, string(b))

	var v struct {
		L SkillLevel `json:"l"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"l":"expert"}`), &v))
	assert.Equal(t, Expert, v.L)
}
