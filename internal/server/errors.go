package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizpace/internal/coach"
	"github.com/abhisek/quizpace/internal/llm"
	"github.com/abhisek/quizpace/internal/pathplan"
	"github.com/abhisek/quizpace/internal/performance"
	"github.com/abhisek/quizpace/internal/recommend"
	"github.com/abhisek/quizpace/internal/store"
	"github.com/abhisek/quizpace/internal/weakness"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	var (
		recErr  *recommend.RecommendationError
		anaErr  *weakness.AnalysisError
		planErr *pathplan.PlanningError
		rateErr *llm.ErrRateLimit
		downErr *llm.ErrProviderUnavailable
		badErr  *llm.ErrInvalidResponse
	)
	switch {
	case coach.IsInvalidInput(err):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrExists), errors.Is(err, coach.ErrSessionClosed):
		return http.StatusConflict
	case errors.As(err, &recErr), errors.As(err, &anaErr), errors.As(err, &planErr),
		errors.Is(err, performance.ErrMalformedModel):
		return http.StatusUnprocessableEntity
	case errors.Is(err, coach.ErrNoGenerator):
		return http.StatusServiceUnavailable
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests
	case errors.As(err, &downErr), errors.As(err, &badErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error. Internal errors are logged and their
// detail is not returned to the client.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		if status == http.StatusInternalServerError {
			abort(c, status, "internal error")
			return
		}
	}
	abort(c, status, err.Error())
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorBody{Error: msg})
}
