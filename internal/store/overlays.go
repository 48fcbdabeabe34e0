package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

// OverlayRow is an overlay with its sync bookkeeping, as stored on disk.
type OverlayRow struct {
	TaskID    string
	Overlay   model.Overlay
	Deleted   bool
	UpdatedAt time.Time
}

// Overlays loads all live overlays keyed by task id. Rows whose annotations
// were all cleared are treated as absent, matching the engine's default.
func (s *Store) Overlays(ctx context.Context) (map[string]model.Overlay, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT task_id, pinned, snoozed_until, sort_order
		FROM overlays WHERE deleted = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overlays := make(map[string]model.Overlay)
	for rows.Next() {
		var (
			taskID    string
			pinned    int
			snoozed   sql.NullString
			sortOrder sql.NullInt64
		)
		if err := rows.Scan(&taskID, &pinned, &snoozed, &sortOrder); err != nil {
			return nil, err
		}
		overlays[taskID] = rowOverlay(pinned, snoozed, sortOrder)
	}
	return overlays, rows.Err()
}

// PutOverlay upserts the overlay for a task. A zero overlay is stored as a
// tombstone so the deletion still syncs to other devices.
func (s *Store) PutOverlay(ctx context.Context, taskID string, o model.Overlay) error {
	return s.putOverlay(ctx, taskID, o, time.Now().UTC())
}

func (s *Store) putOverlay(ctx context.Context, taskID string, o model.Overlay, updatedAt time.Time) error {
	snoozed := sql.NullString{}
	if o.SnoozedUntil != nil {
		snoozed = sql.NullString{String: o.SnoozedUntil.UTC().Format(time.RFC3339), Valid: true}
	}
	sortOrder := sql.NullInt64{}
	if o.SortOrder != nil {
		sortOrder = sql.NullInt64{Int64: int64(*o.SortOrder), Valid: true}
	}
	deleted := 0
	if o.IsZero() {
		deleted = 1
	}

	_, err := s.ExecContext(ctx, `
		INSERT INTO overlays (task_id, pinned, snoozed_until, sort_order, deleted, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (task_id) DO UPDATE SET
			pinned = excluded.pinned,
			snoozed_until = excluded.snoozed_until,
			sort_order = excluded.sort_order,
			deleted = excluded.deleted,
			updated_at = excluded.updated_at`,
		taskID, boolInt(o.Pinned), snoozed, sortOrder, deleted,
		updatedAt.Format(time.RFC3339))
	return err
}

// Overlay loads a single task's overlay, defaulting when none is stored.
func (s *Store) Overlay(ctx context.Context, taskID string) (model.Overlay, error) {
	var (
		pinned    int
		snoozed   sql.NullString
		sortOrder sql.NullInt64
	)
	err := s.QueryRowContext(ctx, `
		SELECT pinned, snoozed_until, sort_order
		FROM overlays WHERE task_id = ? AND deleted = 0`, taskID).
		Scan(&pinned, &snoozed, &sortOrder)
	if err == sql.ErrNoRows {
		return model.Overlay{}, nil
	}
	if err != nil {
		return model.Overlay{}, err
	}
	return rowOverlay(pinned, snoozed, sortOrder), nil
}

// TogglePin flips the pin flag on a task and returns the new state.
func (s *Store) TogglePin(ctx context.Context, taskID string) (bool, error) {
	o, err := s.Overlay(ctx, taskID)
	if err != nil {
		return false, err
	}
	o.Pinned = !o.Pinned
	if err := s.PutOverlay(ctx, taskID, o); err != nil {
		return false, err
	}
	return o.Pinned, nil
}

// Snooze hides a task from its status category until the given time.
func (s *Store) Snooze(ctx context.Context, taskID string, until time.Time) error {
	o, err := s.Overlay(ctx, taskID)
	if err != nil {
		return err
	}
	o.SnoozedUntil = &until
	return s.PutOverlay(ctx, taskID, o)
}

// Unsnooze clears the snooze on a task.
func (s *Store) Unsnooze(ctx context.Context, taskID string) error {
	o, err := s.Overlay(ctx, taskID)
	if err != nil {
		return err
	}
	o.SnoozedUntil = nil
	return s.PutOverlay(ctx, taskID, o)
}

// OverlaysChangedSince returns overlay rows (tombstones included) modified
// after the given time, for pushing to the sync server.
func (s *Store) OverlaysChangedSince(ctx context.Context, since time.Time) ([]OverlayRow, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT task_id, pinned, snoozed_until, sort_order, deleted, updated_at
		FROM overlays WHERE updated_at > ?
		ORDER BY updated_at ASC`,
		since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverlayRow
	for rows.Next() {
		var (
			row       OverlayRow
			pinned    int
			snoozed   sql.NullString
			sortOrder sql.NullInt64
			deleted   int
			updatedAt string
		)
		if err := rows.Scan(&row.TaskID, &pinned, &snoozed, &sortOrder, &deleted, &updatedAt); err != nil {
			return nil, err
		}
		row.Overlay = rowOverlay(pinned, snoozed, sortOrder)
		row.Deleted = deleted != 0
		row.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, row)
	}
	return out, rows.Err()
}

// ApplyRemoteOverlay merges an overlay pulled from the sync server,
// last-write-wins by updated_at. Returns true when the local row changed.
func (s *Store) ApplyRemoteOverlay(ctx context.Context, row OverlayRow) (bool, error) {
	var localUpdated sql.NullString
	err := s.QueryRowContext(ctx,
		`SELECT updated_at FROM overlays WHERE task_id = ?`, row.TaskID).
		Scan(&localUpdated)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}

	if localUpdated.Valid {
		local, parseErr := time.Parse(time.RFC3339, localUpdated.String)
		if parseErr == nil && !row.UpdatedAt.After(local) {
			return false, nil
		}
	}

	o := row.Overlay
	if row.Deleted {
		o = model.Overlay{}
	}
	if err := s.putOverlay(ctx, row.TaskID, o, row.UpdatedAt); err != nil {
		return false, err
	}
	return true, nil
}

// ClearOverlays removes every overlay, tombstones included.
func (s *Store) ClearOverlays(ctx context.Context) error {
	_, err := s.ExecContext(ctx, `DELETE FROM overlays`)
	return err
}

func rowOverlay(pinned int, snoozed sql.NullString, sortOrder sql.NullInt64) model.Overlay {
	o := model.Overlay{Pinned: pinned != 0}
	if snoozed.Valid {
		if t, err := time.Parse(time.RFC3339, snoozed.String); err == nil {
			o.SnoozedUntil = &t
		}
	}
	if sortOrder.Valid {
		v := int(sortOrder.Int64)
		o.SortOrder = &v
	}
	return o
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
