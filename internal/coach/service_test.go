package coach

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpace/internal/calibrate"
	"github.com/abhisek/quizpace/internal/conversation"
	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/llm"
	"github.com/abhisek/quizpace/internal/pathplan"
	"github.com/abhisek/quizpace/internal/performance"
	"github.com/abhisek/quizpace/internal/questiongen"
	"github.com/abhisek/quizpace/internal/recommend"
	"github.com/abhisek/quizpace/internal/store"
	"github.com/abhisek/quizpace/internal/studyplan"
)

var clock = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "coach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func newService(t *testing.T, opts Options) *Service {
	t.Helper()
	st := openStore(t)
	if opts.Now == nil {
		opts.Now = func() time.Time { return clock }
	}
	return New(st.PerformanceRepo(), st.SessionRepo(), opts)
}

func graphQuiz(correct int) performance.QuizResult {
	return performance.QuizResult{
		Domain:         "graphs",
		Company:        "Acme",
		Difficulty:     difficulty.Medium,
		TotalQuestions: 10,
		CorrectAnswers: correct,
		TimeSpent:      900,
	}
}

func TestRecordQuiz(t *testing.T) {
	svc := newService(t, Options{})
	ctx := context.Background()

	m, err := svc.RecordQuiz(ctx, "ada", graphQuiz(7))
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalQuizzes)
	assert.InDelta(t, 70.0, m.Accuracy, 1e-9)
	require.Len(t, m.RecentPerformance, 1)
	assert.NotEmpty(t, m.RecentPerformance[0].QuizID)
	assert.True(t, m.RecentPerformance[0].Date.Equal(clock))

	got, err := svc.Performance(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, m.TotalQuestions, got.TotalQuestions)
}

func TestRecordQuiz_InvalidInput(t *testing.T) {
	svc := newService(t, Options{})
	ctx := context.Background()

	_, err := svc.RecordQuiz(ctx, "", graphQuiz(1))
	assert.True(t, IsInvalidInput(err))

	bad := graphQuiz(11)
	_, err = svc.RecordQuiz(ctx, "ada", bad)
	assert.True(t, IsInvalidInput(err))

	m, err := svc.Performance(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, m.IsFresh())
}

func TestRecordQuiz_Concurrent(t *testing.T) {
	svc := newService(t, Options{})
	ctx := context.Background()

	const n = 12
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.RecordQuiz(ctx, "ada", graphQuiz(i%10))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	m, err := svc.Performance(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, n, m.TotalQuizzes)
	assert.Equal(t, n*10, m.TotalQuestions)
}

func TestResetPerformance(t *testing.T) {
	svc := newService(t, Options{})
	ctx := context.Background()

	_, err := svc.RecordQuiz(ctx, "ada", graphQuiz(5))
	require.NoError(t, err)
	require.NoError(t, svc.ResetPerformance(ctx, "ada"))

	m, err := svc.Performance(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, m.IsFresh())
}

func TestDashboard_FreshLearner(t *testing.T) {
	svc := newService(t, Options{})

	d, err := svc.Dashboard(context.Background(), "new", DashboardQuery{Domain: "arrays", Company: "Acme", Role: "Software Engineer"})
	require.NoError(t, err)
	assert.Zero(t, d.TotalQuizzes)
	assert.Equal(t, difficulty.Easy, d.Recommendation.RecommendedDifficulty)
	assert.Empty(t, d.Analysis.Ranked())
	assert.Equal(t, pathplan.Novice, d.Path.CurrentLevel)
}

func TestDashboard_AgreesWithSingleCalls(t *testing.T) {
	svc := newService(t, Options{})
	ctx := context.Background()
	for _, c := range []int{2, 3, 4, 3} {
		_, err := svc.RecordQuiz(ctx, "ada", graphQuiz(c))
		require.NoError(t, err)
	}

	d, err := svc.Dashboard(ctx, "ada", DashboardQuery{Domain: "graphs"})
	require.NoError(t, err)

	rec, err := svc.Recommend(ctx, "ada", recommend.Target{Domain: "graphs"})
	require.NoError(t, err)
	a, err := svc.Analyze(ctx, "ada")
	require.NoError(t, err)

	assert.Equal(t, rec.RecommendedDifficulty, d.Recommendation.RecommendedDifficulty)
	assert.Equal(t, len(a.Ranked()), len(d.Analysis.Ranked()))
	require.NotEmpty(t, a.Ranked())
	assert.Equal(t, "graphs", a.Ranked()[0].Area)
}

func TestStudyPlan(t *testing.T) {
	svc := newService(t, Options{})
	ctx := context.Background()

	plan, err := svc.StudyPlan(ctx, "ada", studyplan.Goal{Description: "Acme onsite", TimeframeWeeks: 4})
	require.NoError(t, err)
	assert.Len(t, plan.Weeks, 4)

	_, err = svc.StudyPlan(ctx, "ada", studyplan.Goal{TimeframeWeeks: 0})
	var perr *pathplan.PlanningError
	assert.True(t, errors.As(err, &perr))
}

func TestCalibrate_UnknownLabelHolds(t *testing.T) {
	svc := newService(t, Options{})

	adj, err := svc.Calibrate(context.Background(), "ada", calibrate.Progress{
		QuestionsAnswered: 5, CorrectAnswers: 5, CurrentDifficulty: "impossible",
	})
	require.NoError(t, err)
	assert.False(t, adj.ShouldAdjust)
	assert.Nil(t, adj.NewDifficulty)
}

func questionSet(n int) json.RawMessage {
	qs := make([]map[string]any, n)
	for i := range qs {
		qs[i] = map[string]any{
			"question_text": "Which structure gives O(1) average lookup? #" + string(rune('a'+i)),
			"choices":       []string{"Array", "Hash map", "Linked list", "Heap"},
			"answer":        "Hash map",
			"explanation":   "Hashing maps keys straight to buckets.",
			"topic":         "hashing",
		}
	}
	b, _ := json.Marshal(map[string]any{"questions": qs})
	return b
}

func TestGenerateQuestions(t *testing.T) {
	ctx := context.Background()

	_, _, err := newService(t, Options{}).GenerateQuestions(ctx, "ada", QuestionQuery{Domain: "hashing", Count: 2})
	assert.ErrorIs(t, err, ErrNoGenerator)

	mock := llm.NewMockProvider(llm.MockResponse{Content: questionSet(2)})
	svc := newService(t, Options{Generator: questiongen.New(mock, questiongen.DefaultConfig())})
	require.True(t, svc.HasGenerator())

	qs, rec, err := svc.GenerateQuestions(ctx, "ada", QuestionQuery{Domain: "hashing", Count: 2})
	require.NoError(t, err)
	assert.Len(t, qs, 2)
	assert.Equal(t, difficulty.Easy, rec.RecommendedDifficulty)
	assert.Equal(t, difficulty.Easy, qs[0].Difficulty)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Difficulty: easy")

	_, _, err = svc.GenerateQuestions(ctx, "ada", QuestionQuery{Domain: "hashing", Count: 0})
	assert.True(t, IsInvalidInput(err))
	assert.Equal(t, 1, mock.CallCount())
}

func twoSum() conversation.Problem {
	return conversation.Problem{
		Title:      "Two Sum",
		Domain:     "arrays",
		Difficulty: difficulty.Easy,
		Hints:      []string{"What could you remember about numbers you've already seen?"},
	}
}

func TestSessionLifecycle(t *testing.T) {
	svc := newService(t, Options{})
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, "ada", twoSum())
	require.NoError(t, err)
	require.Len(t, sess.History, 1)
	assert.Equal(t, conversation.RoleAssistant, sess.History[0].Role)
	assert.NotEmpty(t, sess.Problem.ID)

	ex, err := svc.Reply(ctx, sess.ID, "I'm stuck, no idea where to start")
	require.NoError(t, err)
	assert.True(t, ex.Decision.ShouldProvideHint)
	assert.Equal(t, conversation.RoleAssistant, ex.Reply.Role)
	assert.Len(t, ex.Session.History, 3)
	assert.Equal(t, 1, ex.Session.Progress.HintsUsed)

	list, err := svc.ListSessions(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.EndSession(ctx, sess.ID))
	_, err = svc.Reply(ctx, sess.ID, "hello again")
	assert.ErrorIs(t, err, ErrSessionClosed)

	_, err = svc.Reply(ctx, "missing", "hello")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Reply(ctx, sess.ID, "   ")
	assert.True(t, IsInvalidInput(err))
}

func TestSessionExportImport(t *testing.T) {
	ctx := context.Background()
	src := newService(t, Options{})

	sess, err := src.StartSession(ctx, "ada", twoSum())
	require.NoError(t, err)
	_, err = src.Reply(ctx, sess.ID, "I think a hash map from value to index works")
	require.NoError(t, err)

	doc, err := src.ExportSession(ctx, sess.ID)
	require.NoError(t, err)

	_, err = src.ImportSession(ctx, doc)
	assert.ErrorIs(t, err, store.ErrExists)

	dst := newService(t, Options{})
	imported, err := dst.ImportSession(ctx, doc)
	require.NoError(t, err)

	orig, err := src.Session(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, orig.History, imported.History)
	assert.Equal(t, orig.Progress, imported.Progress)
	assert.Equal(t, orig.CurrentStep, imported.CurrentStep)

	_, err = dst.ImportSession(ctx, []byte(`{"kind":"something-else","version":1}`))
	assert.True(t, IsInvalidInput(err))
}
