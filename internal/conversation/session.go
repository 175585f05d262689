// Package conversation steers a step-by-step tutoring conversation: it
// reads each learner message, decides whether to hint, clarify, switch
// approach or advance, and keeps the session state that survives export.
package conversation

import (
	"fmt"
	"time"

	"github.com/abhisek/quizpace/internal/difficulty"
)

// StepType is a stage of working through a problem.
type StepType string

const (
	StepUnderstanding  StepType = "understanding"
	StepApproach       StepType = "approach"
	StepImplementation StepType = "implementation"
	StepOptimization   StepType = "optimization"
)

var stepOrder = []StepType{StepUnderstanding, StepApproach, StepImplementation, StepOptimization}

var stepDescriptions = map[StepType]string{
	StepUnderstanding:  "Restate the problem, its inputs, outputs and constraints",
	StepApproach:       "Choose an approach and explain why it works",
	StepImplementation: "Write the solution step by step",
	StepOptimization:   "Analyze complexity and improve the solution",
}

// Valid reports whether s is one of the four known steps.
func (s StepType) Valid() bool {
	return s.index() >= 0
}

// Next returns the following step. Optimization is terminal.
func (s StepType) Next() StepType {
	i := s.index()
	if i < 0 {
		return StepUnderstanding
	}
	return stepOrder[min(i+1, len(stepOrder)-1)]
}

// Terminal reports whether s is the last step.
func (s StepType) Terminal() bool {
	return s == stepOrder[len(stepOrder)-1]
}

func (s StepType) index() int {
	for i, t := range stepOrder {
		if t == s {
			return i
		}
	}
	return -1
}

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in the conversation history.
type Message struct {
	ID         string    `json:"id"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	StepNumber int       `json:"step_number"`
}

// Step is the current position in the step sequence.
type Step struct {
	Number      int      `json:"step_number"`
	Type        StepType `json:"step_type"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
}

// Progress tracks the learner's standing in the session, 0-100 per skill.
type Progress struct {
	Understanding   float64  `json:"understanding"`
	Implementation  float64  `json:"implementation"`
	Optimization    float64  `json:"optimization"`
	HintsUsed       int      `json:"hints_used"`
	ConceptsLearned []string `json:"concepts_learned"`
}

// Problem is the exercise being tutored.
type Problem struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Domain      string          `json:"domain"`
	Company     string          `json:"company,omitempty"`
	Difficulty  difficulty.Tier `json:"difficulty"`
	Hints       []string        `json:"hints"`
}

// Status is the lifecycle state of a session.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Session is one tutoring conversation.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Problem     Problem   `json:"problem"`
	History     []Message `json:"conversation_history"`
	CurrentStep Step      `json:"current_step"`
	Progress    Progress  `json:"user_progress"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSession starts a session at the understanding step.
func NewSession(id, userID string, p Problem, now time.Time) *Session {
	return &Session{
		ID:          id,
		UserID:      userID,
		Problem:     p,
		CurrentStep: newStep(1, StepUnderstanding),
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newStep(n int, t StepType) Step {
	return Step{Number: n, Type: t, Description: stepDescriptions[t]}
}

// Check verifies the structural invariants of a session: a known step,
// positive step numbers, progress in range and history never ahead of the
// current step.
func (s *Session) Check() error {
	if s.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if !s.CurrentStep.Type.Valid() {
		return fmt.Errorf("unknown step type %q", s.CurrentStep.Type)
	}
	if s.CurrentStep.Number < 1 {
		return fmt.Errorf("step number %d must be positive", s.CurrentStep.Number)
	}
	for _, v := range []float64{s.Progress.Understanding, s.Progress.Implementation, s.Progress.Optimization} {
		if v < 0 || v > 100 {
			return fmt.Errorf("progress %v outside [0,100]", v)
		}
	}
	if s.Progress.HintsUsed < 0 {
		return fmt.Errorf("negative hint count")
	}
	last := 0
	for _, m := range s.History {
		if m.StepNumber < last {
			return fmt.Errorf("message %s goes back to step %d after step %d", m.ID, m.StepNumber, last)
		}
		last = m.StepNumber
	}
	if last > s.CurrentStep.Number {
		return fmt.Errorf("history reaches step %d beyond current step %d", last, s.CurrentStep.Number)
	}
	return nil
}

// UserMessages returns the user-authored messages, oldest first.
func (s *Session) UserMessages() []Message {
	var out []Message
	for _, m := range s.History {
		if m.Role == RoleUser {
			out = append(out, m)
		}
	}
	return out
}
