package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizpace/internal/conversation"
)

// sessionRepo stores each tutoring session as a JSON document.
type sessionRepo struct {
	drv   *entsql.Driver
	locks *keyedMutex
	now   func() time.Time
}

func (r *sessionRepo) Create(ctx context.Context, s *conversation.Session) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("create session: id is required")
	}
	unlock := r.locks.Lock(s.ID)
	defer unlock()

	return withTx(ctx, r.drv, func(tx dialect.Tx) error {
		existing, err := loadSession(ctx, tx, s.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("session %s: %w", s.ID, ErrExists)
		}
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal session %s: %w", s.ID, err)
		}
		query, args := entsql.Dialect(dialect.SQLite).
			Insert(tableSessions).
			Columns("id", "user_id", "status", "data", "created_at", "updated_at").
			Values(s.ID, s.UserID, string(s.Status), string(data), formatTime(s.CreatedAt), formatTime(s.UpdatedAt)).
			Query()
		if _, err := exec(ctx, tx, query, args); err != nil {
			return fmt.Errorf("insert session %s: %w", s.ID, err)
		}
		return nil
	})
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*conversation.Session, error) {
	s, err := loadSession(ctx, r.drv, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s, nil
}

func (r *sessionRepo) Update(ctx context.Context, id string, fn func(*conversation.Session) error) (*conversation.Session, error) {
	unlock := r.locks.Lock(id)
	defer unlock()

	var out *conversation.Session
	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		s, err := loadSession(ctx, tx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		if err := fn(s); err != nil {
			return err
		}
		if err := saveSession(ctx, tx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) Archive(ctx context.Context, id string) error {
	_, err := r.Update(ctx, id, func(s *conversation.Session) error {
		s.Status = conversation.StatusArchived
		s.UpdatedAt = r.now()
		return nil
	})
	return err
}

func (r *sessionRepo) List(ctx context.Context, userID string) ([]*conversation.Session, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("updated_at")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("list sessions for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []*conversation.Session
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s, err := decodeSession(data)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func loadSession(ctx context.Context, conn dialect.ExecQuerier, id string) (*conversation.Session, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query session %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var data string
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return decodeSession(data)
}

func saveSession(ctx context.Context, conn dialect.ExecQuerier, s *conversation.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Update(tableSessions).
		Set("status", string(s.Status)).
		Set("data", string(data)).
		Set("updated_at", formatTime(s.UpdatedAt)).
		Where(entsql.EQ("id", s.ID)).
		Query()
	if _, err := exec(ctx, conn, query, args); err != nil {
		return fmt.Errorf("update session %s: %w", s.ID, err)
	}
	return nil
}

func decodeSession(data string) (*conversation.Session, error) {
	var s conversation.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}
