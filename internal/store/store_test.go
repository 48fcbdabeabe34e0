package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskdeck/internal/model"
	"github.com/existflow/taskdeck/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "taskdeck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOverlays_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	until := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	order := 3
	in := model.Overlay{Pinned: true, SnoozedUntil: &until, SortOrder: &order}
	require.NoError(t, s.PutOverlay(ctx, "task-1", in))

	overlays, err := s.Overlays(ctx)
	require.NoError(t, err)
	require.Contains(t, overlays, "task-1")

	got := overlays["task-1"]
	assert.True(t, got.Pinned)
	require.NotNil(t, got.SnoozedUntil)
	assert.True(t, got.SnoozedUntil.Equal(until))
	require.NotNil(t, got.SortOrder)
	assert.Equal(t, order, *got.SortOrder)
}

func TestOverlays_MissingRowDefaults(t *testing.T) {
	s := openTestStore(t)

	o, err := s.Overlay(context.Background(), "never-stored")
	require.NoError(t, err)
	assert.True(t, o.IsZero())
}

func TestTogglePin(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	pinned, err := s.TogglePin(ctx, "task-1")
	require.NoError(t, err)
	assert.True(t, pinned)

	pinned, err = s.TogglePin(ctx, "task-1")
	require.NoError(t, err)
	assert.False(t, pinned)

	// A fully cleared overlay reads back as absent.
	overlays, err := s.Overlays(ctx)
	require.NoError(t, err)
	assert.NotContains(t, overlays, "task-1")
}

func TestSnoozeAndUnsnooze(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	until := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, s.Snooze(ctx, "task-1", until))

	o, err := s.Overlay(ctx, "task-1")
	require.NoError(t, err)
	require.NotNil(t, o.SnoozedUntil)
	assert.True(t, o.SnoozedUntil.Equal(until))

	require.NoError(t, s.Unsnooze(ctx, "task-1"))
	o, err = s.Overlay(ctx, "task-1")
	require.NoError(t, err)
	assert.Nil(t, o.SnoozedUntil)
}

func TestOverlaysChangedSince_IncludesTombstones(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	start := time.Now().Add(-time.Minute)
	_, err := s.TogglePin(ctx, "kept")
	require.NoError(t, err)
	require.NoError(t, s.PutOverlay(ctx, "cleared", model.Overlay{}))

	rows, err := s.OverlaysChangedSince(ctx, start)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[string]store.OverlayRow{}
	for _, r := range rows {
		byID[r.TaskID] = r
	}
	assert.False(t, byID["kept"].Deleted)
	assert.True(t, byID["cleared"].Deleted)
}

func TestApplyRemoteOverlay_LastWriteWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.TogglePin(ctx, "task-1")
	require.NoError(t, err)

	// An older remote row must not clobber the newer local one.
	stale := store.OverlayRow{
		TaskID:    "task-1",
		Overlay:   model.Overlay{},
		Deleted:   true,
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	changed, err := s.ApplyRemoteOverlay(ctx, stale)
	require.NoError(t, err)
	assert.False(t, changed)

	o, err := s.Overlay(ctx, "task-1")
	require.NoError(t, err)
	assert.True(t, o.Pinned)

	// A newer remote row wins.
	fresh := store.OverlayRow{
		TaskID:    "task-1",
		Overlay:   model.Overlay{},
		Deleted:   true,
		UpdatedAt: time.Now().Add(time.Hour),
	}
	changed, err = s.ApplyRemoteOverlay(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, changed)

	overlays, err := s.Overlays(ctx)
	require.NoError(t, err)
	assert.NotContains(t, overlays, "task-1")
}

func TestCacheTasks_RoundTripKeepsOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prio := 2
	tasks := []model.Task{
		{ID: "z", Name: "Last alphabetically, first in feed", Status: "open", ListName: "Inbox"},
		{ID: "a", Name: "First alphabetically", Status: "done", ListName: "Inbox", Priority: &prio,
			Tags: []string{"infra"}, ParentID: "z", AssigneeIDs: []uint64{7}},
	}
	require.NoError(t, s.CacheTasks(ctx, tasks))

	got, err := s.CachedTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "z", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	require.NotNil(t, got[1].Priority)
	assert.Equal(t, prio, *got[1].Priority)
	assert.Equal(t, []uint64{7}, got[1].AssigneeIDs)

	// Re-caching replaces the snapshot.
	require.NoError(t, s.CacheTasks(ctx, tasks[:1]))
	got, err = s.CachedTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	last, err := s.LastRefresh(ctx)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestClearCache(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CacheTasks(ctx, []model.Task{{ID: "a", Name: "A"}}))
	require.NoError(t, s.ClearCache(ctx))

	got, err := s.CachedTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	last, err := s.LastRefresh(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}
