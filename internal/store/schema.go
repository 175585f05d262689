package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
)

const (
	tablePerformance = "performance_models"
	tableSessions    = "tutoring_sessions"
	tableLLMRequests = "llm_requests"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS performance_models (
		user_id    TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		version    INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tutoring_sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		status     TEXT NOT NULL,
		data       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS tutoring_sessions_user ON tutoring_sessions (user_id, updated_at)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp     TEXT NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_requests_timestamp ON llm_requests (timestamp)`,
}

// migrate creates every table and index that does not exist yet.
func migrate(ctx context.Context, drv dialect.Driver) error {
	for _, stmt := range ddl {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("exec %.40q: %w", stmt, err)
		}
	}
	return nil
}
