package store

import "fmt"

// migrate runs all database migrations
func (s *Store) migrate() error {
	migrations := []string{
		migrationCreateOverlays,
		migrationCreateTaskCache,
		migrationCreateMeta,
	}

	for i, m := range migrations {
		if _, err := s.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationCreateOverlays = `
CREATE TABLE IF NOT EXISTS overlays (
    task_id TEXT PRIMARY KEY,
    pinned INTEGER NOT NULL DEFAULT 0,
    snoozed_until TEXT,
    sort_order INTEGER,
    deleted INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_overlays_updated ON overlays(updated_at);
`

const migrationCreateTaskCache = `
CREATE TABLE IF NOT EXISTS task_cache (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    data TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_task_cache_position ON task_cache(position);
`

const migrationCreateMeta = `
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT
);
`
