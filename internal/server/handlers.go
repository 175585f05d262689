package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizpace/internal/calibrate"
	"github.com/abhisek/quizpace/internal/coach"
	"github.com/abhisek/quizpace/internal/conversation"
	"github.com/abhisek/quizpace/internal/performance"
	"github.com/abhisek/quizpace/internal/recommend"
	"github.com/abhisek/quizpace/internal/studyplan"
)

// maxImportBytes bounds an uploaded session export.
const maxImportBytes = 4 << 20

func (s *Server) recordQuiz(c *gin.Context) {
	var body performance.QuizResult
	if !bind(c, &body) {
		return
	}
	m, err := s.svc.RecordQuiz(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (s *Server) performance(c *gin.Context) {
	m, err := s.svc.Performance(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) resetPerformance(c *gin.Context) {
	if err := s.svc.ResetPerformance(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) recommendation(c *gin.Context) {
	rec, err := s.svc.Recommend(c.Request.Context(), c.Param("id"), recommend.Target{
		Domain:  c.Query("domain"),
		Company: c.Query("company"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) weaknesses(c *gin.Context) {
	a, err := s.svc.Analyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) path(c *gin.Context) {
	p, err := s.svc.LearningPath(c.Request.Context(), c.Param("id"), c.Query("role"), c.Query("company"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) studyPlan(c *gin.Context) {
	var goal studyplan.Goal
	if !bind(c, &goal) {
		return
	}
	plan, err := s.svc.StudyPlan(c.Request.Context(), c.Param("id"), goal)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) calibrate(c *gin.Context) {
	var p calibrate.Progress
	if !bind(c, &p) {
		return
	}
	adj, err := s.svc.Calibrate(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, adj)
}

func (s *Server) dashboard(c *gin.Context) {
	d, err := s.svc.Dashboard(c.Request.Context(), c.Param("id"), coach.DashboardQuery{
		Domain:  c.Query("domain"),
		Company: c.Query("company"),
		Role:    c.Query("role"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type questionsRequest struct {
	Domain  string `json:"domain"`
	Company string `json:"company"`
	Role    string `json:"role"`
	Count   int    `json:"count"`
}

func (s *Server) questions(c *gin.Context) {
	var body questionsRequest
	if !bind(c, &body) {
		return
	}
	qs, rec, err := s.svc.GenerateQuestions(c.Request.Context(), c.Param("id"), coach.QuestionQuery{
		Domain:  body.Domain,
		Company: body.Company,
		Role:    body.Role,
		Count:   body.Count,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendation": rec, "questions": qs})
}

func (s *Server) listSessions(c *gin.Context) {
	list, err := s.svc.ListSessions(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []*conversation.Session{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": list})
}

type startSessionRequest struct {
	UserID  string               `json:"user_id"`
	Problem conversation.Problem `json:"problem"`
}

func (s *Server) startSession(c *gin.Context) {
	var body startSessionRequest
	if !bind(c, &body) {
		return
	}
	sess, err := s.svc.StartSession(c.Request.Context(), body.UserID, body.Problem)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (s *Server) getSession(c *gin.Context) {
	sess, err := s.svc.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type replyRequest struct {
	Message string `json:"message"`
}

func (s *Server) reply(c *gin.Context) {
	var body replyRequest
	if !bind(c, &body) {
		return
	}
	ex, err := s.svc.Reply(c.Request.Context(), c.Param("id"), body.Message)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

func (s *Server) exportSession(c *gin.Context) {
	data, err := s.svc.ExportSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) importSession(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		abort(c, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	sess, err := s.svc.ImportSession(c.Request.Context(), data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (s *Server) endSession(c *gin.Context) {
	if err := s.svc.EndSession(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bind decodes the JSON body into v, answering 400 on failure.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
