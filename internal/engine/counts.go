package engine

import (
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

// Counts tallies the tasks per category for the tab bar. The Person
// partition applies exactly as in BuildSet, but assignee and text filters do
// not: the totals describe the whole fetched feed. Every category is present
// in the result, so the counts always sum to the number of fetched tasks.
func Counts(tasks []model.Task, overlays map[string]model.Overlay, now time.Time) map[model.Category]int {
	counts := make(map[model.Category]int, len(model.Categories()))
	for _, c := range model.Categories() {
		counts[c] = 0
	}
	for _, t := range tasks {
		dt := model.NewDisplayTask(t, overlays)
		counts[Classify(dt.Task, dt.Overlay, now)]++
	}
	return counts
}
