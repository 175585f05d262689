package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ExportVersion is the current export document version.
const ExportVersion = 1

// ExportKind identifies session export documents.
const ExportKind = "quizpace.tutoring-session"

var (
	ErrUnsupportedExport = errors.New("unsupported session export")
	ErrInvalidSession    = errors.New("invalid session")
)

// Document is the self-describing export of a session.
type Document struct {
	Kind       string    `json:"kind"`
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Session    *Session  `json:"session"`
}

// Export serializes s with enough detail to rebuild it exactly.
func Export(s *Session, now time.Time) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil session", ErrInvalidSession)
	}
	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	doc := Document{Kind: ExportKind, Version: ExportVersion, ExportedAt: now, Session: s}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	return data, nil
}

// Import rebuilds a session from an export document.
func Import(data []byte) (*Session, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedExport, err)
	}
	if doc.Kind != ExportKind {
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedExport, doc.Kind)
	}
	if doc.Version < 1 || doc.Version > ExportVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedExport, doc.Version)
	}
	if doc.Session == nil {
		return nil, fmt.Errorf("%w: document has no session", ErrInvalidSession)
	}
	if err := doc.Session.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if doc.Session.Status == "" {
		doc.Session.Status = StatusActive
	}
	return doc.Session, nil
}
