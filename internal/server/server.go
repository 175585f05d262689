// Package server exposes the coach service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizpace/internal/coach"
)

// Config holds HTTP server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string // empty allows all
	Debug          bool
	ShutdownGrace  time.Duration
}

// DefaultConfig returns the settings used by `quizpace serve`.
func DefaultConfig() Config {
	return Config{Addr: ":8080", ShutdownGrace: 10 * time.Second}
}

// Server routes HTTP requests to a coach.Service.
type Server struct {
	svc    *coach.Service
	log    logrus.FieldLogger
	cfg    Config
	router *gin.Engine
}

// New builds the router. It does not start listening.
func New(svc *coach.Service, log logrus.FieldLogger, cfg Config) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(requestLogger(log), recovery(log))

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	s := &Server{svc: svc, log: log, cfg: cfg, router: router}
	s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.Addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")

	users := api.Group("/users/:id")
	users.POST("/quizzes", s.recordQuiz)
	users.GET("/performance", s.performance)
	users.DELETE("/performance", s.resetPerformance)
	users.GET("/recommendation", s.recommendation)
	users.GET("/weaknesses", s.weaknesses)
	users.GET("/path", s.path)
	users.POST("/study-plan", s.studyPlan)
	users.POST("/calibrate", s.calibrate)
	users.GET("/dashboard", s.dashboard)
	users.POST("/questions", s.questions)
	users.GET("/sessions", s.listSessions)

	sessions := api.Group("/sessions")
	sessions.POST("", s.startSession)
	sessions.POST("/import", s.importSession)
	sessions.GET("/:id", s.getSession)
	sessions.POST("/:id/messages", s.reply)
	sessions.GET("/:id/export", s.exportSession)
	sessions.DELETE("/:id", s.endSession)
}
