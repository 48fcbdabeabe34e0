package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/existflow/taskdeck/internal/model"
)

func TestCategories_OrderAndIndexRoundTrip(t *testing.T) {
	cats := model.Categories()
	assert.Len(t, cats, 6)

	for i, c := range cats {
		assert.Equal(t, i, c.Index())
		got, ok := model.CategoryFromIndex(i)
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	_, ok := model.CategoryFromIndex(len(cats))
	assert.False(t, ok)
	_, ok = model.CategoryFromIndex(-1)
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	got, ok := model.ParseCategory("waiting")
	assert.True(t, ok)
	assert.Equal(t, model.CategoryWaiting, got)

	got, ok = model.ParseCategory("  My Action ")
	assert.True(t, ok)
	assert.Equal(t, model.CategoryMyAction, got)

	_, ok = model.ParseCategory("nonsense")
	assert.False(t, ok)
}

func TestTask_IsAssignedTo(t *testing.T) {
	tk := model.Task{AssigneeIDs: []uint64{1, 2, 3}}
	assert.True(t, tk.IsAssignedTo(2))
	assert.False(t, tk.IsAssignedTo(4))
	assert.False(t, model.Task{}.IsAssignedTo(1))
}

func TestTask_IsPerson(t *testing.T) {
	id := model.CustomItemPerson
	assert.True(t, model.Task{CustomItemID: &id}.IsPerson())

	bug := 1004
	assert.False(t, model.Task{CustomItemID: &bug}.IsPerson())
	assert.False(t, model.Task{}.IsPerson())
}

func TestOverlay_SnoozedAt(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.False(t, model.Overlay{}.SnoozedAt(now))

	until := now.Add(time.Hour)
	assert.True(t, model.Overlay{SnoozedUntil: &until}.SnoozedAt(now))

	past := now.Add(-time.Hour)
	assert.False(t, model.Overlay{SnoozedUntil: &past}.SnoozedAt(now))

	// Boundary: snoozed_until must be strictly later than now.
	exact := now
	assert.False(t, model.Overlay{SnoozedUntil: &exact}.SnoozedAt(now))
}

func TestNewDisplayTask_DefaultsMissingOverlay(t *testing.T) {
	tk := model.Task{ID: "a"}
	dt := model.NewDisplayTask(tk, map[string]model.Overlay{})
	assert.True(t, dt.Overlay.IsZero())

	dt = model.NewDisplayTask(tk, nil)
	assert.True(t, dt.Overlay.IsZero())
}
