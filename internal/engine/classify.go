// Package engine implements the task view engine: pure, synchronous logic
// that classifies tasks into display categories, builds hierarchy-preserving
// working sets, orders them deterministically, and ranks fuzzy search
// results. The engine performs no I/O and never mutates its inputs.
package engine

import (
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

// Classify returns the display category for a task given its overlay and the
// current time. Person tasks always classify as Person, an active snooze
// overrides the status, and everything else follows the status mapping.
// The function is total: every input yields exactly one category.
func Classify(task model.Task, overlay model.Overlay, now time.Time) model.Category {
	if task.IsPerson() {
		return model.CategoryPerson
	}
	if overlay.SnoozedAt(now) {
		return model.CategorySnoozed
	}
	return model.StatusCategory(task.Status)
}

// inCategory applies the Person-partition membership rule: the Person tab
// contains exactly the person tasks, and person tasks never appear in any
// other tab regardless of their status or snooze state.
func inCategory(task model.Task, overlay model.Overlay, now time.Time, category model.Category) bool {
	if category == model.CategoryPerson {
		return task.IsPerson()
	}
	return !task.IsPerson() && Classify(task, overlay, now) == category
}
