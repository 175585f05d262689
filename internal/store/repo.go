package store

import (
	"context"
	"time"

	"github.com/abhisek/quizpace/internal/conversation"
	"github.com/abhisek/quizpace/internal/performance"
)

// PerformanceRepo persists one performance model per user.
type PerformanceRepo interface {
	// Load returns the stored model, or a fresh default model when the user
	// has no history.
	Load(ctx context.Context, userID string) (*performance.Model, error)

	// Save writes the whole snapshot, replacing any stored model.
	Save(ctx context.Context, m *performance.Model) error

	// Update runs load, fn and save in one transaction. Updates for the
	// same user are serialized so concurrent quiz results never lose
	// increments. The saved model is returned.
	Update(ctx context.Context, userID string, fn func(*performance.Model) (*performance.Model, error)) (*performance.Model, error)

	// Delete removes the user's model. Deleting a missing model is not an
	// error.
	Delete(ctx context.Context, userID string) error
}

// SessionRepo persists tutoring sessions.
type SessionRepo interface {
	// Create stores a new session. ErrExists if the id is taken.
	Create(ctx context.Context, s *conversation.Session) error

	// Get returns the session or ErrNotFound.
	Get(ctx context.Context, id string) (*conversation.Session, error)

	// Update applies fn to the stored session inside one transaction.
	// Updates to the same session are serialized in arrival order.
	Update(ctx context.Context, id string, fn func(*conversation.Session) error) (*conversation.Session, error)

	// Archive marks the session as archived.
	Archive(ctx context.Context, id string) error

	// List returns a user's sessions, most recently updated first.
	List(ctx context.Context, userID string) ([]*conversation.Session, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // id > After
	Before  int64     // id < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
