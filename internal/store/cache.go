package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

const metaLastRefresh = "last_refresh"

// CacheTasks replaces the cached feed snapshot with the given tasks,
// preserving their feed order, and stamps the refresh time.
func (s *Store) CacheTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_cache`); err != nil {
		return fmt.Errorf("failed to clear task cache: %w", err)
	}

	for i, t := range tasks {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode task %s: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_cache (id, position, data) VALUES (?, ?, ?)`,
			t.ID, i, string(data)); err != nil {
			return fmt.Errorf("failed to cache task %s: %w", t.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		metaLastRefresh, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

// CachedTasks loads the cached feed snapshot in its original order.
// An empty cache yields an empty slice, not an error.
func (s *Store) CachedTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.QueryContext(ctx,
		`SELECT data FROM task_cache ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var t model.Task
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("failed to decode cached task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// LastRefresh returns when the feed was last fetched, or the zero time if
// it never was.
func (s *Store) LastRefresh(ctx context.Context) (time.Time, error) {
	var value string
	err := s.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, metaLastRefresh).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

// ClearCache drops the cached feed and the refresh timestamp.
func (s *Store) ClearCache(ctx context.Context) error {
	if _, err := s.ExecContext(ctx, `DELETE FROM task_cache`); err != nil {
		return err
	}
	_, err := s.ExecContext(ctx, `DELETE FROM meta WHERE key = ?`, metaLastRefresh)
	return err
}
