package conversation

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// AdaptedDifficulty is the direction the next question should move.
type AdaptedDifficulty string

const (
	Easier AdaptedDifficulty = "easier"
	Same   AdaptedDifficulty = "same"
	Harder AdaptedDifficulty = "harder"
)

// Config holds flow controller limits.
type Config struct {
	MaxHintsPerStep       int
	RequiresUnderstanding bool
	// ContextWindow is how many recent messages feed the engagement signal.
	ContextWindow int
	// StruggleWindow is how many recent user messages are checked for
	// struggle keywords.
	StruggleWindow int
	// LongConversation is the message count past which low understanding
	// calls for a different approach.
	LongConversation int
}

// DefaultConfig returns the standard controller limits.
func DefaultConfig() Config {
	return Config{
		MaxHintsPerStep:       3,
		RequiresUnderstanding: true,
		ContextWindow:         6,
		StruggleWindow:        3,
		LongConversation:      8,
	}
}

// Decision is what the tutor should do after a learner message.
type Decision struct {
	ShouldAdvanceStep              bool              `json:"should_advance_step"`
	NextStepSuggestion             StepType          `json:"next_step_suggestion"`
	ShouldProvideHint              bool              `json:"should_provide_hint"`
	ShouldRequestClarification     bool              `json:"should_request_clarification"`
	ShouldOfferAlternativeApproach bool              `json:"should_offer_alternative_approach"`
	AdaptedDifficulty              AdaptedDifficulty `json:"adapted_difficulty"`
	Signals                        Signals           `json:"signals"`
}

// Controller makes per-exchange flow decisions.
type Controller struct {
	cfg Config
}

// NewController creates a Controller.
func NewController(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// Decide evaluates latest, a user message not yet in s.History. It does not
// modify s.
func (c *Controller) Decide(s *Session, latest string) Decision {
	sig := c.signals(s, latest)
	p := s.Progress

	d := Decision{
		NextStepSuggestion:             s.CurrentStep.Type.Next(),
		ShouldProvideHint:              sig.Struggling && p.HintsUsed < c.cfg.MaxHintsPerStep,
		ShouldRequestClarification:     sig.Engagement.IsConfused || sig.Understanding < 0.3,
		ShouldOfferAlternativeApproach: sig.NeedsAlternative,
		AdaptedDifficulty:              Same,
		Signals:                        sig,
	}
	d.ShouldAdvanceStep = c.canAdvance(s, sig.Understanding)

	switch {
	case sig.Struggling && p.Understanding < 40:
		d.AdaptedDifficulty = Easier
	case p.Understanding > 80 && p.Implementation > 70 && sig.Engagement.ResponseQuality > 0.8:
		d.AdaptedDifficulty = Harder
	}
	return d
}

func (c *Controller) signals(s *Session, latest string) Signals {
	// Engagement looks at the last messages of any role, latest included,
	// and averages over the user-authored ones.
	window := append(lastN(s.History, c.cfg.ContextWindow-1), Message{Role: RoleUser, Content: latest})
	var recent []string
	for _, m := range window {
		if m.Role == RoleUser {
			recent = append(recent, m.Content)
		}
	}

	users := s.UserMessages()
	lastUser := []string{latest}
	for i := len(users) - 1; i >= 0 && len(lastUser) < c.cfg.StruggleWindow; i-- {
		lastUser = append(lastUser, users[i].Content)
	}

	length := len(s.History) + 1
	return Signals{
		Engagement:    MeasureEngagement(recent, latest),
		Understanding: UnderstandingScore(latest),
		Struggling:    isStruggling(lastUser, s.Progress.HintsUsed),
		NeedsAlternative: s.Progress.HintsUsed >= c.cfg.MaxHintsPerStep ||
			(s.Progress.Understanding < 30 && length > c.cfg.LongConversation),
	}
}

func (c *Controller) canAdvance(s *Session, understanding float64) bool {
	if c.cfg.RequiresUnderstanding && understanding <= 0.6 {
		return false
	}
	p := s.Progress
	switch s.CurrentStep.Type {
	case StepUnderstanding:
		return p.Understanding >= 70
	case StepApproach:
		return p.Understanding >= 70 && understanding > 0.7
	case StepImplementation:
		return p.Implementation >= 60
	default:
		return false
	}
}

const (
	// progressBlend is the weight a new message carries in the running
	// understanding estimate.
	progressBlend   = 0.3
	progressPerCode = 15.0
	progressPerTalk = 15.0
)

// Apply records latest as a user message and applies d to s. Decisions must
// be applied in the order their messages arrived.
func (c *Controller) Apply(s *Session, latest string, d Decision, now time.Time) {
	s.History = append(s.History, Message{
		ID:         uuid.NewString(),
		Role:       RoleUser,
		Content:    latest,
		Timestamp:  now,
		StepNumber: s.CurrentStep.Number,
	})

	p := &s.Progress
	switch s.CurrentStep.Type {
	case StepUnderstanding, StepApproach:
		p.Understanding = blend(p.Understanding, d.Signals.Understanding*100)
	case StepImplementation:
		if HasCode(latest) {
			p.Implementation = math.Min(100, p.Implementation+progressPerCode)
		}
	case StepOptimization:
		if TalksOptimization(latest) {
			p.Optimization = math.Min(100, p.Optimization+progressPerTalk)
		}
	}
	for _, concept := range Concepts(latest) {
		p.ConceptsLearned = appendUnique(p.ConceptsLearned, concept)
	}
	if d.ShouldProvideHint {
		p.HintsUsed++
	}

	if d.ShouldAdvanceStep && !s.CurrentStep.Type.Terminal() {
		s.CurrentStep.Completed = true
		s.CurrentStep = newStep(s.CurrentStep.Number+1, s.CurrentStep.Type.Next())
	}
	s.UpdatedAt = now
}

// Record appends a message from the tutor or system at the current step.
func (c *Controller) Record(s *Session, role Role, content string, now time.Time) Message {
	m := Message{
		ID:         uuid.NewString(),
		Role:       role,
		Content:    content,
		Timestamp:  now,
		StepNumber: s.CurrentStep.Number,
	}
	s.History = append(s.History, m)
	s.UpdatedAt = now
	return m
}

// Guidance renders the tutor's reply for a decision already applied to s.
func Guidance(s *Session, d Decision) string {
	switch {
	case d.ShouldRequestClarification:
		return "Let's slow down. Which part of the problem is unclear to you? Try restating it in your own words."
	case d.ShouldOfferAlternativeApproach:
		return fmt.Sprintf("Let's try a different angle on %q. Start from a brute-force solution and look for repeated work.", s.Problem.Title)
	case d.ShouldProvideHint:
		return "Hint: " + hint(s)
	case d.ShouldAdvanceStep:
		return fmt.Sprintf("Nice work. Next step: %s.", s.CurrentStep.Description)
	default:
		return fmt.Sprintf("Keep going. Current step: %s.", s.CurrentStep.Description)
	}
}

func hint(s *Session) string {
	i := s.Progress.HintsUsed - 1
	if i >= 0 && i < len(s.Problem.Hints) {
		return s.Problem.Hints[i]
	}
	return fmt.Sprintf("focus on the %s step: %s", s.CurrentStep.Type, s.CurrentStep.Description)
}

func blend(old, observed float64) float64 {
	return math.Max(0, math.Min(100, old*(1-progressBlend)+observed*progressBlend))
}

func lastN(msgs []Message, n int) []Message {
	if n <= 0 {
		return nil
	}
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return append([]Message(nil), msgs...)
}

func appendUnique(xs []string, x string) []string {
	for _, v := range xs {
		if v == x {
			return xs
		}
	}
	return append(xs, x)
}
