package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/existflow/taskdeck/internal/engine"
	"github.com/existflow/taskdeck/internal/model"
)

func TestCounts_EveryTaskCountedOnce(t *testing.T) {
	person := task("p", "in progress")
	person.CustomItemID = intPtr(model.CustomItemPerson)

	tasks := []model.Task{
		task("a", "in progress"),
		task("b", "blocked"),
		task("c", "done"),
		task("d", "mystery status"),
		task("e", "in progress"),
		person,
	}
	overlays := map[string]model.Overlay{
		"e": {SnoozedUntil: timePtr(testNow.Add(time.Hour))},
	}

	counts := engine.Counts(tasks, overlays, testNow)

	assert.Equal(t, 1, counts[model.CategoryMyAction])
	assert.Equal(t, 1, counts[model.CategoryWaiting])
	assert.Equal(t, 1, counts[model.CategoryBacklog]) // unknown status
	assert.Equal(t, 1, counts[model.CategoryDone])
	assert.Equal(t, 1, counts[model.CategorySnoozed])
	assert.Equal(t, 1, counts[model.CategoryPerson])

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, len(tasks), total)
}

func TestCounts_AllCategoriesPresentWhenEmpty(t *testing.T) {
	counts := engine.Counts(nil, nil, testNow)
	assert.Len(t, counts, len(model.Categories()))
	for c, n := range counts {
		assert.Zero(t, n, "category %s", c.Label())
	}
}

func TestCounts_IgnoresAssignmentEntirely(t *testing.T) {
	a := task("a", "in progress")
	a.AssigneeIDs = []uint64{123}
	b := task("b", "in progress")

	counts := engine.Counts([]model.Task{a, b}, nil, testNow)
	assert.Equal(t, 2, counts[model.CategoryMyAction])
}
