// Package coach wires the engine components to storage and question
// generation. It is the only package that reads or writes learner state.
package coach

import (
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizpace/internal/calibrate"
	"github.com/abhisek/quizpace/internal/conversation"
	"github.com/abhisek/quizpace/internal/pathplan"
	"github.com/abhisek/quizpace/internal/questiongen"
	"github.com/abhisek/quizpace/internal/recommend"
	"github.com/abhisek/quizpace/internal/store"
	"github.com/abhisek/quizpace/internal/studyplan"
	"github.com/abhisek/quizpace/internal/weakness"
)

var (
	// ErrInvalidInput is wrapped by every rejection of caller-supplied data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionClosed is returned when replying to an archived session.
	ErrSessionClosed = errors.New("session is archived")

	// ErrNoGenerator is returned by GenerateQuestions when no LLM provider
	// is configured.
	ErrNoGenerator = errors.New("question generation is not configured")
)

// Options carries the optional collaborators of a Service.
type Options struct {
	Generator   questiongen.Generator
	Logger      logrus.FieldLogger
	Now         func() time.Time
	Calibration *calibrate.Config
	Flow        *conversation.Config
}

// Service is the application layer shared by the CLI and the HTTP server.
type Service struct {
	perf     store.PerformanceRepo
	sessions store.SessionRepo

	recommender *recommend.Recommender
	analyzer    *weakness.Analyzer
	calibrator  *calibrate.Calibrator
	planner     *pathplan.Planner
	studyPlans  *studyplan.Generator
	flow        *conversation.Controller
	questions   questiongen.Generator

	log logrus.FieldLogger
	now func() time.Time
}

// New creates a Service. Zero-valued options fall back to defaults.
func New(perf store.PerformanceRepo, sessions store.SessionRepo, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	calCfg := calibrate.DefaultConfig()
	if opts.Calibration != nil {
		calCfg = *opts.Calibration
	}
	flowCfg := conversation.DefaultConfig()
	if opts.Flow != nil {
		flowCfg = *opts.Flow
	}

	return &Service{
		perf:        perf,
		sessions:    sessions,
		recommender: recommend.New(),
		analyzer:    weakness.New(opts.Now),
		calibrator:  calibrate.New(calCfg),
		planner:     pathplan.New(),
		studyPlans:  studyplan.New(),
		flow:        conversation.NewController(flowCfg),
		questions:   opts.Generator,
		log:         opts.Logger,
		now:         opts.Now,
	}
}

// HasGenerator reports whether GenerateQuestions can be used.
func (s *Service) HasGenerator() bool {
	return s.questions != nil
}
