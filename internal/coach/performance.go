package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizpace/internal/calibrate"
	"github.com/abhisek/quizpace/internal/llm"
	"github.com/abhisek/quizpace/internal/pathplan"
	"github.com/abhisek/quizpace/internal/performance"
	"github.com/abhisek/quizpace/internal/questiongen"
	"github.com/abhisek/quizpace/internal/recommend"
	"github.com/abhisek/quizpace/internal/studyplan"
	"github.com/abhisek/quizpace/internal/weakness"
)

func checkUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return nil
}

// RecordQuiz folds a completed quiz into the learner's model. Concurrent
// calls for one user are serialized by the repository, so none is lost.
func (s *Service) RecordQuiz(ctx context.Context, userID string, r performance.QuizResult) (*performance.Model, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	if r.QuizID == "" {
		r.QuizID = uuid.NewString()
	}
	if r.CompletedAt.IsZero() {
		r.CompletedAt = s.now()
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m, err := s.perf.Update(ctx, userID, func(cur *performance.Model) (*performance.Model, error) {
		return performance.ApplyQuizResult(cur, r)
	})
	if err != nil {
		return nil, fmt.Errorf("record quiz %s: %w", r.QuizID, err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"quiz_id":  r.QuizID,
		"domain":   r.Domain,
		"score":    r.Score(),
		"accuracy": m.Accuracy,
	}).Info("quiz recorded")
	return m, nil
}

// Performance returns the learner's current model. Unknown learners get the
// fresh default.
func (s *Service) Performance(ctx context.Context, userID string) (*performance.Model, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	return s.perf.Load(ctx, userID)
}

// ResetPerformance deletes everything recorded for the learner.
func (s *Service) ResetPerformance(ctx context.Context, userID string) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	if err := s.perf.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.WithField("user_id", userID).Info("performance reset")
	return nil
}

func (s *Service) Recommend(ctx context.Context, userID string, target recommend.Target) (*recommend.Recommendation, error) {
	m, err := s.Performance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.recommender.Recommend(m, target)
}

func (s *Service) Analyze(ctx context.Context, userID string) (*weakness.Analysis, error) {
	m, err := s.Performance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Analyze(m)
}

func (s *Service) LearningPath(ctx context.Context, userID, role, company string) (*pathplan.Path, error) {
	m, err := s.Performance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.planner.Plan(m, role, company)
}

// StudyPlan builds a week-by-week plan. The weakness analysis of the same
// snapshot supplies the focus areas.
func (s *Service) StudyPlan(ctx context.Context, userID string, goal studyplan.Goal) (*studyplan.Plan, error) {
	m, err := s.Performance(ctx, userID)
	if err != nil {
		return nil, err
	}
	a, err := s.analyzer.Analyze(m)
	if err != nil {
		return nil, err
	}
	return s.studyPlans.Generate(m, a, goal)
}

// Calibrate never fails on engine faults; only loading the model can fail.
func (s *Service) Calibrate(ctx context.Context, userID string, p calibrate.Progress) (calibrate.Adjustment, error) {
	m, err := s.Performance(ctx, userID)
	if err != nil {
		return calibrate.Adjustment{}, err
	}
	adj := s.calibrator.Calibrate(m, p)
	if adj.ShouldAdjust {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"from":    p.CurrentDifficulty,
			"to":      adj.NewDifficulty.String(),
		}).Debug("difficulty adjusted")
	}
	return adj, nil
}

// Dashboard is the combined view of one performance snapshot.
type Dashboard struct {
	UserID         string                    `json:"user_id"`
	TotalQuizzes   int                       `json:"total_quizzes"`
	Accuracy       float64                   `json:"accuracy"`
	Recommendation *recommend.Recommendation `json:"recommendation"`
	Analysis       *weakness.Analysis        `json:"analysis"`
	Path           *pathplan.Path            `json:"path"`
}

// DashboardQuery selects the target the dashboard is computed for.
type DashboardQuery struct {
	Domain  string
	Company string
	Role    string
}

// Dashboard computes the recommendation, the weakness analysis and the
// learning path concurrently from one snapshot.
func (s *Service) Dashboard(ctx context.Context, userID string, q DashboardQuery) (*Dashboard, error) {
	m, err := s.Performance(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{UserID: userID, TotalQuizzes: m.TotalQuizzes, Accuracy: m.Accuracy}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := s.recommender.Recommend(m, recommend.Target{Domain: q.Domain, Company: q.Company})
		d.Recommendation = rec
		return err
	})
	g.Go(func() error {
		a, err := s.analyzer.Analyze(m)
		d.Analysis = a
		return err
	})
	g.Go(func() error {
		p, err := s.planner.Plan(m, q.Role, q.Company)
		d.Path = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// QuestionQuery describes a question set to generate at the learner's
// recommended difficulty.
type QuestionQuery struct {
	Domain  string
	Company string
	Role    string
	Count   int
}

// GenerateQuestions picks the recommended tier for the domain and asks the
// generator for a set at that tier.
func (s *Service) GenerateQuestions(ctx context.Context, userID string, q QuestionQuery) ([]questiongen.Question, *recommend.Recommendation, error) {
	if s.questions == nil {
		return nil, nil, ErrNoGenerator
	}
	rec, err := s.Recommend(ctx, userID, recommend.Target{Domain: q.Domain, Company: q.Company})
	if err != nil {
		return nil, nil, err
	}

	req := questiongen.Request{
		Domain:     q.Domain,
		Company:    q.Company,
		Role:       q.Role,
		Difficulty: rec.RecommendedDifficulty,
		Count:      q.Count,
	}
	if err := req.Check(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	qs, err := s.questions.Generate(llm.WithLearner(ctx, userID), req)
	if err != nil {
		return nil, nil, fmt.Errorf("generate questions: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"domain":     q.Domain,
		"difficulty": rec.RecommendedDifficulty.String(),
		"count":      len(qs),
	}).Info("questions generated")
	return qs, rec, nil
}
