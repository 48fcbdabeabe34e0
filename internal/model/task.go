package model

import "time"

// Priority levels for tasks
const (
	PriorityUrgent = 1 // Red - Urgent
	PriorityHigh   = 2 // Orange - High
	PriorityMedium = 3 // Yellow - Normal
	PriorityLow    = 4 // Blue - Low
)

// CustomItemPerson is the custom item id the workspace uses for
// long-standing role/person tasks.
const CustomItemPerson = 1020

// Task is a single task as fetched from the remote workspace.
// Tasks are read-only on this side; all local annotations live in Overlay.
type Task struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	ListName     string     `json:"list_name"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Priority     *int       `json:"priority,omitempty"`
	URL          string     `json:"url"`
	Tags         []string   `json:"tags,omitempty"`
	Description  string     `json:"description,omitempty"`
	CustomItemID *int       `json:"custom_item_id,omitempty"`
	CustomID     string     `json:"custom_id,omitempty"`
	ParentID     string     `json:"parent_id,omitempty"`
	AssigneeIDs  []uint64   `json:"assignee_ids,omitempty"`
}

// IsPerson reports whether the task is a role/person entry.
func (t Task) IsPerson() bool {
	return t.CustomItemID != nil && *t.CustomItemID == CustomItemPerson
}

// IsSubtask reports whether the task references a parent.
func (t Task) IsSubtask() bool {
	return t.ParentID != ""
}

// IsAssignedTo reports whether the given user is among the assignees.
func (t Task) IsAssignedTo(userID uint64) bool {
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// PriorityLabel returns a human label for the task priority, or "" if unset.
func (t Task) PriorityLabel() string {
	if t.Priority == nil {
		return ""
	}
	switch *t.Priority {
	case PriorityUrgent:
		return "Urgent"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Normal"
	case PriorityLow:
		return "Low"
	}
	return ""
}

// TypeLabel returns a label for the task's custom item type, or "" if unset.
func (t Task) TypeLabel() string {
	if t.CustomItemID == nil {
		return ""
	}
	switch *t.CustomItemID {
	case 0:
		return "Task"
	case 1004:
		return "Bug"
	case 1005:
		return "Milestone"
	case 1006:
		return "Feature"
	case 1007:
		return "Epic"
	case 1008:
		return "Story"
	case 1009:
		return "Spike"
	case CustomItemPerson:
		return "Person"
	}
	return "Custom"
}
