package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

// BuildSet selects the tasks to display for one category and returns them in
// display order. Primary tasks are those matching the category, the optional
// assignee filter and the optional text filter; each primary task drags in
// its ancestor chain so subtasks keep their hierarchy context. Ancestors
// bypass the category and text filters, but the chain is cut at the first
// ancestor that fails the assignee filter.
func BuildSet(tasks []model.Task, overlays map[string]model.Overlay, now time.Time,
	category model.Category, userID *uint64, filter string) []model.DisplayTask {

	// Index every fetched task so ancestor lookups work even when the
	// parent itself is filtered out.
	index := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		index[t.ID] = t
	}

	filterLower := strings.ToLower(filter)

	// Iterate the input slice (not the index) so equal tasks keep a stable
	// relative order before sorting.
	var included []model.DisplayTask
	added := make(map[string]struct{})

	for _, t := range tasks {
		dt := model.NewDisplayTask(t, overlays)
		if !inCategory(dt.Task, dt.Overlay, now, category) {
			continue
		}
		if !assignedOK(dt.Task, userID) {
			continue
		}
		if !matchesText(dt.Task, filterLower) {
			continue
		}

		// Walk the parent chain upward. The visited set guarantees
		// termination when the remote data contains a parent cycle.
		var ancestors []model.DisplayTask
		visited := map[string]struct{}{t.ID: {}}
		parentID := t.ParentID
		for parentID != "" {
			if _, seen := visited[parentID]; seen {
				break
			}
			parent, ok := index[parentID]
			if !ok {
				break
			}
			visited[parentID] = struct{}{}
			ancestors = append(ancestors, model.NewDisplayTask(parent, overlays))
			if !assignedOK(parent, userID) {
				// Keep this ancestor for context but do not climb
				// past someone else's task.
				break
			}
			parentID = parent.ParentID
		}

		// Ancestors first, topmost before the task itself.
		for i := len(ancestors) - 1; i >= 0; i-- {
			a := ancestors[i]
			if _, ok := added[a.Task.ID]; !ok {
				included = append(included, a)
				added[a.Task.ID] = struct{}{}
			}
		}
		if _, ok := added[t.ID]; !ok {
			included = append(included, dt)
			added[t.ID] = struct{}{}
		}
	}

	sortSet(included, index)
	return included
}

// assignedOK reports whether the task passes the assignee filter. A nil
// userID disables the filter.
func assignedOK(t model.Task, userID *uint64) bool {
	return userID == nil || t.IsAssignedTo(*userID)
}

// matchesText reports whether the task matches a case-insensitive substring
// filter over name, list name, status and description. An empty filter
// matches everything.
func matchesText(t model.Task, filterLower string) bool {
	if filterLower == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name), filterLower) ||
		strings.Contains(strings.ToLower(t.ListName), filterLower) ||
		strings.Contains(strings.ToLower(t.Status), filterLower) ||
		(t.Description != "" && strings.Contains(strings.ToLower(t.Description), filterLower))
}

// sortSet orders a working set in place: families grouped under their root,
// families ranked by the root's priority (absent priority last) then root id,
// and within a family parents before children, with task id as the final
// tie-break so the order is a strict total order regardless of input order.
func sortSet(set []model.DisplayTask, index map[string]model.Task) {
	visible := make(map[string]struct{}, len(set))
	for _, dt := range set {
		visible[dt.Task.ID] = struct{}{}
	}

	roots := make(map[string]string, len(set))
	depths := make(map[string]int, len(set))
	for _, dt := range set {
		root, depth := rootAndDepth(dt.Task, index, visible)
		roots[dt.Task.ID] = root
		depths[dt.Task.ID] = depth
	}

	rootPriority := func(rootID string) *int {
		if t, ok := index[rootID]; ok {
			return t.Priority
		}
		return nil
	}

	sort.Slice(set, func(i, j int) bool {
		a, b := set[i].Task, set[j].Task
		rootA, rootB := roots[a.ID], roots[b.ID]

		pa, pb := rootPriority(rootA), rootPriority(rootB)
		switch {
		case pa != nil && pb == nil:
			return true
		case pa == nil && pb != nil:
			return false
		case pa != nil && pb != nil && *pa != *pb:
			return *pa < *pb
		}

		if rootA != rootB {
			return rootA < rootB
		}

		// Same family: the root first, then by depth; children never
		// outrank their parent regardless of their own priority.
		if depths[a.ID] != depths[b.ID] {
			return depths[a.ID] < depths[b.ID]
		}

		return a.ID < b.ID
	})
}

// rootAndDepth walks the parent chain through the visible set only. The last
// visible task reached is the root; depth counts the visible ancestors
// strictly between the task and its root. A visited set guards the walk
// against cycles in the remote data.
func rootAndDepth(t model.Task, index map[string]model.Task, visible map[string]struct{}) (string, int) {
	root := t.ID
	depth := 0
	visited := map[string]struct{}{t.ID: {}}
	parentID := t.ParentID
	for parentID != "" {
		if _, seen := visited[parentID]; seen {
			break
		}
		if _, ok := visible[parentID]; !ok {
			break
		}
		visited[parentID] = struct{}{}
		root = parentID
		depth++
		parent, ok := index[parentID]
		if !ok {
			break
		}
		parentID = parent.ParentID
	}
	return root, depth
}
