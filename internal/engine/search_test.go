package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskdeck/internal/engine"
	"github.com/existflow/taskdeck/internal/model"
)

func named(id, name string) model.Task {
	return model.Task{ID: id, Name: name, Status: "open", ListName: "Inbox"}
}

func TestSearch_EmptyQueryReturnsNothing(t *testing.T) {
	tasks := []model.Task{named("a", "Task Create"), named("b", "Card")}
	assert.Empty(t, engine.Search(tasks, nil, ""))
}

func TestSearch_SubsequenceMatch(t *testing.T) {
	tasks := []model.Task{
		named("a", "Task Create"),
		named("b", "Card"),
	}

	results := engine.Search(tasks, nil, "tc")

	// "tc" is a subsequence of "Task Create" but "Card" has no "t" after
	// its "c".
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Task.ID)
}

func TestSearch_WordBoundaryBonus(t *testing.T) {
	boundary := named("a", "Task Create") // both T and C start words
	buried := named("b", "xtycx")         // both matches mid-word

	results := engine.Search([]model.Task{buried, boundary}, nil, "tc")

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Task.ID)
	assert.Equal(t, "b", results[1].Task.ID)
}

func TestSearch_ConsecutiveBonus(t *testing.T) {
	adjacent := named("a", "xtcx") // t and c adjacent
	spread := named("b", "xtxcx") // t and c separated

	results := engine.Search([]model.Task{spread, adjacent}, nil, "tc")

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Task.ID)
}

func TestSearch_FieldPriorityOrder(t *testing.T) {
	// The name match decides the score even when a later field would
	// score higher.
	tk := named("a", "xrepx")
	tk.ListName = "Reports"
	tk.Tags = []string{"rep"}

	results := engine.Search([]model.Task{tk}, nil, "rep")
	require.Len(t, results, 1)

	// A second task matching only on its list name (word-boundary bonus)
	// must outrank the buried name match.
	other := named("b", "zzzz")
	other.ListName = "Reports"

	results = engine.Search([]model.Task{tk, other}, nil, "rep")
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].Task.ID)
}

func TestSearch_TagsAreSearchable(t *testing.T) {
	tk := named("a", "zzzz")
	tk.Status = "zzzz"
	tk.ListName = "zzzz"
	tk.Tags = []string{"zzzz", "urgent-fix"}

	results := engine.Search([]model.Task{tk}, nil, "urgent")
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Task.ID)
}

func TestSearch_NoFieldMatchExcludesTask(t *testing.T) {
	tk := named("a", "alpha")
	results := engine.Search([]model.Task{tk}, nil, "xyz")
	assert.Empty(t, results)
}

func TestSearch_EqualScoresKeepInputOrder(t *testing.T) {
	var tasks []model.Task
	for i := 0; i < 8; i++ {
		tasks = append(tasks, named(fmt.Sprintf("t%d", i), "Same Name"))
	}

	results := engine.Search(tasks, nil, "same")
	require.Len(t, results, len(tasks))
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("t%d", i), r.Task.ID)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	tasks := []model.Task{named("a", "Deploy FRONTEND")}
	results := engine.Search(tasks, nil, "dEpLoY")
	require.Len(t, results, 1)
}
