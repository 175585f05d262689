package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizpace/internal/conversation"
)

// StartSession opens a tutoring session on p and greets the learner with
// the first step.
func (s *Service) StartSession(ctx context.Context, userID string, p conversation.Problem) (*conversation.Session, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("%w: problem title is required", ErrInvalidInput)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	now := s.now()
	sess := conversation.NewSession(uuid.NewString(), userID, p, now)
	s.flow.Record(sess, conversation.RoleAssistant,
		fmt.Sprintf("Let's work on %q. First step: %s.", p.Title, sess.CurrentStep.Description), now)

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s.sessionLog(sess).Info("session started")
	return sess, nil
}

// Exchange is the outcome of one learner message.
type Exchange struct {
	Decision conversation.Decision `json:"decision"`
	Reply    conversation.Message  `json:"reply"`
	Session  *conversation.Session `json:"session"`
}

// Reply runs the flow controller on message and records both sides of the
// exchange. Decide and Apply run under the session's lock, so concurrent
// replies apply in arrival order.
func (s *Service) Reply(ctx context.Context, sessionID, message string) (*Exchange, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}

	var ex Exchange
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *conversation.Session) error {
		if sess.Status == conversation.StatusArchived {
			return fmt.Errorf("session %s: %w", sess.ID, ErrSessionClosed)
		}
		now := s.now()
		d := s.flow.Decide(sess, message)
		s.flow.Apply(sess, message, d, now)
		ex.Decision = d
		ex.Reply = s.flow.Record(sess, conversation.RoleAssistant, conversation.Guidance(sess, d), now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ex.Session = sess

	s.sessionLog(sess).WithFields(logrus.Fields{
		"step":       sess.CurrentStep.Type,
		"hint":       ex.Decision.ShouldProvideHint,
		"advanced":   ex.Decision.ShouldAdvanceStep,
		"difficulty": ex.Decision.AdaptedDifficulty,
	}).Debug("session reply")
	return &ex, nil
}

func (s *Service) Session(ctx context.Context, sessionID string) (*conversation.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *Service) ListSessions(ctx context.Context, userID string) ([]*conversation.Session, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	return s.sessions.List(ctx, userID)
}

// ExportSession returns the session as a versioned JSON document.
func (s *Service) ExportSession(ctx context.Context, sessionID string) ([]byte, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return conversation.Export(sess, s.now())
}

// ImportSession stores a session from an export document. Importing a
// session that already exists fails with store.ErrExists.
func (s *Service) ImportSession(ctx context.Context, data []byte) (*conversation.Session, error) {
	sess, err := conversation.Import(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("import session: %w", err)
	}
	s.sessionLog(sess).Info("session imported")
	return sess, nil
}

// EndSession archives the session. Archived sessions stay readable.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Archive(ctx, sessionID); err != nil {
		return err
	}
	s.log.WithField("session_id", sessionID).Info("session archived")
	return nil
}

func (s *Service) sessionLog(sess *conversation.Session) logrus.FieldLogger {
	return s.log.WithFields(logrus.Fields{"session_id": sess.ID, "user_id": sess.UserID})
}

// IsInvalidInput reports whether err was caused by caller-supplied data.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
