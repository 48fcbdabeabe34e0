package model

import "strings"

// Category is the display bucket a task is shown under.
type Category int

const (
	CategoryMyAction Category = iota
	CategoryWaiting
	CategoryBacklog
	CategoryDone
	CategorySnoozed
	CategoryPerson
)

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{
		CategoryMyAction,
		CategoryWaiting,
		CategoryBacklog,
		CategoryDone,
		CategorySnoozed,
		CategoryPerson,
	}
}

// Label returns the tab label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryMyAction:
		return "My Action"
	case CategoryWaiting:
		return "Waiting"
	case CategoryBacklog:
		return "Backlog"
	case CategoryDone:
		return "Done"
	case CategorySnoozed:
		return "Snoozed"
	case CategoryPerson:
		return "Person"
	}
	return "Unknown"
}

// Index returns the position of the category in the tab bar.
func (c Category) Index() int {
	return int(c)
}

// CategoryFromIndex returns the category at the given tab position.
func CategoryFromIndex(idx int) (Category, bool) {
	if idx < 0 || idx >= len(Categories()) {
		return CategoryMyAction, false
	}
	return Category(idx), true
}

// ParseCategory matches a category by label or short name, case-insensitively.
// Used by the CLI list command.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "my action", "my-action", "myaction", "action", "my":
		return CategoryMyAction, true
	case "waiting", "wait":
		return CategoryWaiting, true
	case "backlog":
		return CategoryBacklog, true
	case "done":
		return CategoryDone, true
	case "snoozed", "snooze":
		return CategorySnoozed, true
	case "person", "people":
		return CategoryPerson, true
	}
	return CategoryMyAction, false
}

// StatusCategory maps a remote status label to a category. The mapping is
// case-insensitive and unknown statuses land in Backlog.
func StatusCategory(status string) Category {
	switch strings.ToLower(status) {
	// Something I need to do
	case "in progress", "to do", "to-do", "todo":
		return CategoryMyAction
	case "in review", "review", "to review": // reviews are actionable
		return CategoryMyAction

	// Ball in someone else's court
	case "blocked":
		return CategoryWaiting
	case "in testing", "testing":
		return CategoryWaiting
	case "to validate", "validation", "pending review":
		return CategoryWaiting

	// Not yet prioritized
	case "backlog", "open", "new":
		return CategoryBacklog

	// Completed in one way or another
	case "done", "complete", "completed", "closed":
		return CategoryDone
	case "released", "deployed", "shipped":
		return CategoryDone
	case "cancelled", "canceled", "won't do", "wontdo":
		return CategoryDone
	case "for reference":
		return CategoryDone
	}
	return CategoryBacklog
}
