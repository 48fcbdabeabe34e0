package engine

import (
	"sort"
	"strings"
	"unicode"

	"github.com/existflow/taskdeck/internal/model"
)

// Word-boundary and adjacency bonuses for fuzzy scoring.
const (
	fuzzyBoundaryBonus    = 10
	fuzzyConsecutiveBonus = 5
)

// Search ranks every task against a free-text query across all categories.
// Fields are tried in a fixed order (name, list name, status, description,
// then each tag) and the first matching field decides the task's score.
// Results are ordered by score descending; tasks with equal scores keep
// their relative order from the input list. An empty query returns nothing.
func Search(tasks []model.Task, overlays map[string]model.Overlay, query string) []model.DisplayTask {
	if query == "" {
		return nil
	}

	queryRunes := []rune(strings.ToLower(query))

	type scored struct {
		dt    model.DisplayTask
		score int
	}
	var results []scored

	for _, t := range tasks {
		score, ok := scoreTask(t, queryRunes)
		if !ok {
			continue
		}
		results = append(results, scored{dt: model.NewDisplayTask(t, overlays), score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	out := make([]model.DisplayTask, len(results))
	for i, r := range results {
		out[i] = r.dt
	}
	return out
}

// scoreTask tries the task's text fields in priority order and returns the
// score of the first field the query matches.
func scoreTask(t model.Task, query []rune) (int, bool) {
	if score, ok := fuzzyScore(t.Name, query); ok {
		return score, true
	}
	if score, ok := fuzzyScore(t.ListName, query); ok {
		return score, true
	}
	if score, ok := fuzzyScore(t.Status, query); ok {
		return score, true
	}
	if t.Description != "" {
		if score, ok := fuzzyScore(t.Description, query); ok {
			return score, true
		}
	}
	for _, tag := range t.Tags {
		if score, ok := fuzzyScore(tag, query); ok {
			return score, true
		}
	}
	return 0, false
}

// fuzzyScore reports whether query is a subsequence of text (compared in
// lowercase) and scores the match in a single scan: one point per matched
// character, a boundary bonus when the match sits at the start of the field
// or right after a non-alphanumeric character, and a consecutive bonus when
// it directly follows the previous match.
func fuzzyScore(text string, query []rune) (int, bool) {
	if len(query) == 0 {
		return 0, true
	}

	textRunes := []rune(strings.ToLower(text))

	queryIdx := 0
	score := 0
	lastMatch := -1

	for i, r := range textRunes {
		if queryIdx >= len(query) || r != query[queryIdx] {
			continue
		}
		if lastMatch >= 0 && i == lastMatch+1 {
			score += fuzzyConsecutiveBonus
		}
		if i == 0 || !isAlphanumeric(textRunes[i-1]) {
			score += fuzzyBoundaryBonus
		}
		score++
		lastMatch = i
		queryIdx++
	}

	if queryIdx < len(query) {
		return 0, false
	}
	return score, true
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
