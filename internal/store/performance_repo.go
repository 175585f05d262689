package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizpace/internal/performance"
)

// performanceRepo implements PerformanceRepo as one JSON document per user.
type performanceRepo struct {
	drv   *entsql.Driver
	locks *keyedMutex
	now   func() time.Time
}

func (r *performanceRepo) Load(ctx context.Context, userID string) (*performance.Model, error) {
	m, _, err := loadModel(ctx, r.drv, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return performance.New(userID, r.now()), nil
	}
	return m, nil
}

func (r *performanceRepo) Save(ctx context.Context, m *performance.Model) error {
	if m == nil || m.UserID == "" {
		return fmt.Errorf("save performance model: user id is required")
	}
	unlock := r.locks.Lock(m.UserID)
	defer unlock()

	return withTx(ctx, r.drv, func(tx dialect.Tx) error {
		_, version, err := loadModel(ctx, tx, m.UserID)
		if err != nil {
			return err
		}
		return saveModel(ctx, tx, m, version+1)
	})
}

func (r *performanceRepo) Update(ctx context.Context, userID string, fn func(*performance.Model) (*performance.Model, error)) (*performance.Model, error) {
	unlock := r.locks.Lock(userID)
	defer unlock()

	var out *performance.Model
	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		cur, version, err := loadModel(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cur == nil {
			cur = performance.New(userID, r.now())
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}
		if next == nil {
			return fmt.Errorf("update performance model for %s: nil result", userID)
		}
		next.UserID = userID
		if err := saveModel(ctx, tx, next, version+1); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *performanceRepo) Delete(ctx context.Context, userID string) error {
	unlock := r.locks.Lock(userID)
	defer unlock()

	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tablePerformance).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if _, err := exec(ctx, r.drv, query, args); err != nil {
		return fmt.Errorf("delete performance model for %s: %w", userID, err)
	}
	return nil
}

// loadModel returns the stored model and its version, or a nil model and
// version 0 when none exists.
func loadModel(ctx context.Context, conn dialect.ExecQuerier, userID string) (*performance.Model, int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("data", "version").
		From(entsql.Table(tablePerformance)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var rows entsql.Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return nil, 0, fmt.Errorf("query performance model for %s: %w", userID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, 0, rows.Err()
	}
	var (
		data    string
		version int
	)
	if err := rows.Scan(&data, &version); err != nil {
		return nil, 0, fmt.Errorf("scan performance model: %w", err)
	}
	var m performance.Model
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, 0, fmt.Errorf("unmarshal performance model for %s: %w", userID, err)
	}
	return &m, version, nil
}

func saveModel(ctx context.Context, conn dialect.ExecQuerier, m *performance.Model, version int) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal performance model: %w", err)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tablePerformance).
		Columns("user_id", "data", "version", "updated_at").
		Values(m.UserID, string(data), version, formatTime(m.UpdatedAt)).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := exec(ctx, conn, query, args); err != nil {
		return fmt.Errorf("save performance model for %s: %w", m.UserID, err)
	}
	return nil
}
