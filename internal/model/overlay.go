package model

import "time"

// Overlay holds the local annotations for one task. Overlays are persisted
// locally and never sent to the remote workspace.
type Overlay struct {
	Pinned       bool       `json:"pinned,omitempty"`
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
	// SortOrder is persisted for forward compatibility but no view rule
	// consumes it yet.
	SortOrder *int `json:"sort_order,omitempty"`
}

// IsZero reports whether the overlay carries no annotation at all.
func (o Overlay) IsZero() bool {
	return !o.Pinned && o.SnoozedUntil == nil && o.SortOrder == nil
}

// SnoozedAt reports whether the overlay snoozes the task at the given time.
func (o Overlay) SnoozedAt(now time.Time) bool {
	return o.SnoozedUntil != nil && o.SnoozedUntil.After(now)
}

// DisplayTask pairs a task with its overlay for one render pass. It is built
// fresh on every query and never stored.
type DisplayTask struct {
	Task    Task
	Overlay Overlay
}

// NewDisplayTask builds a DisplayTask, substituting the default overlay when
// none is stored for the task.
func NewDisplayTask(task Task, overlays map[string]Overlay) DisplayTask {
	return DisplayTask{Task: task, Overlay: overlays[task.ID]}
}
