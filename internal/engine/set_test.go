package engine_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskdeck/internal/engine"
	"github.com/existflow/taskdeck/internal/model"
)

func ids(set []model.DisplayTask) []string {
	out := make([]string, len(set))
	for i, dt := range set {
		out[i] = dt.Task.ID
	}
	return out
}

func TestBuildSet_FiltersByCategory(t *testing.T) {
	tasks := []model.Task{
		task("a", "in progress"),
		task("b", "blocked"),
		task("c", "done"),
	}

	set := engine.BuildSet(tasks, nil, testNow, model.CategoryMyAction, nil, "")
	assert.Equal(t, []string{"a"}, ids(set))

	set = engine.BuildSet(tasks, nil, testNow, model.CategoryWaiting, nil, "")
	assert.Equal(t, []string{"b"}, ids(set))
}

func TestBuildSet_PersonPartition(t *testing.T) {
	person := task("p", "in progress")
	person.CustomItemID = intPtr(model.CustomItemPerson)
	tasks := []model.Task{task("a", "in progress"), person}

	// The person task never shows up under its status category.
	set := engine.BuildSet(tasks, nil, testNow, model.CategoryMyAction, nil, "")
	assert.Equal(t, []string{"a"}, ids(set))

	set = engine.BuildSet(tasks, nil, testNow, model.CategoryPerson, nil, "")
	assert.Equal(t, []string{"p"}, ids(set))
}

func TestBuildSet_TextFilter(t *testing.T) {
	a := task("a", "in progress")
	a.Name = "Deploy frontend"
	b := task("b", "in progress")
	b.Name = "Fix login"
	b.Description = "The frontend session expires too early"
	c := task("c", "in progress")
	c.Name = "Write docs"

	tasks := []model.Task{a, b, c}
	set := engine.BuildSet(tasks, nil, testNow, model.CategoryMyAction, nil, "FRONTEND")
	assert.Equal(t, []string{"a", "b"}, ids(set))
}

func TestBuildSet_AssigneeFilter(t *testing.T) {
	a := task("a", "in progress")
	a.AssigneeIDs = []uint64{7}
	b := task("b", "in progress")
	b.AssigneeIDs = []uint64{8}

	set := engine.BuildSet([]model.Task{a, b}, nil, testNow, model.CategoryMyAction, uintPtr(7), "")
	assert.Equal(t, []string{"a"}, ids(set))

	// No filter: everything in the category.
	set = engine.BuildSet([]model.Task{a, b}, nil, testNow, model.CategoryMyAction, nil, "")
	assert.Equal(t, []string{"a", "b"}, ids(set))
}

func TestBuildSet_IncludesAncestors(t *testing.T) {
	root := task("root", "done")
	mid := task("mid", "blocked")
	mid.ParentID = "root"
	leaf := task("leaf", "in progress")
	leaf.ParentID = "mid"

	set := engine.BuildSet([]model.Task{leaf, mid, root}, nil, testNow, model.CategoryMyAction, nil, "")

	// Only leaf matches the category; its whole chain comes along, root first.
	assert.Equal(t, []string{"root", "mid", "leaf"}, ids(set))
}

func TestBuildSet_AncestorTruncationAtUnassignedParent(t *testing.T) {
	me := uintPtr(7)

	c := task("c", "backlog")
	c.AssigneeIDs = []uint64{7}
	b := task("b", "backlog")
	b.ParentID = "c"
	b.AssigneeIDs = []uint64{8} // someone else's task
	a := task("a", "in progress")
	a.ParentID = "b"
	a.AssigneeIDs = []uint64{7}

	set := engine.BuildSet([]model.Task{a, b, c}, nil, testNow, model.CategoryMyAction, me, "")

	// B is kept for context, but the walk stops there: C is excluded.
	assert.ElementsMatch(t, []string{"a", "b"}, ids(set))
}

func TestBuildSet_MissingParentTruncates(t *testing.T) {
	a := task("a", "in progress")
	a.ParentID = "ghost"

	set := engine.BuildSet([]model.Task{a}, nil, testNow, model.CategoryMyAction, nil, "")
	assert.Equal(t, []string{"a"}, ids(set))
}

func TestBuildSet_ParentCycleTerminates(t *testing.T) {
	a := task("a", "in progress")
	a.ParentID = "b"
	b := task("b", "in progress")
	b.ParentID = "a"

	done := make(chan []model.DisplayTask, 1)
	go func() {
		done <- engine.BuildSet([]model.Task{a, b}, nil, testNow, model.CategoryMyAction, nil, "")
	}()

	select {
	case set := <-done:
		// Each cycle member appears at most once.
		assert.ElementsMatch(t, []string{"a", "b"}, ids(set))
	case <-time.After(5 * time.Second):
		t.Fatal("BuildSet did not terminate on a parent cycle")
	}
}

func TestBuildSet_SnoozedTaskMovesCategory(t *testing.T) {
	a := task("a", "in progress")
	overlays := map[string]model.Overlay{
		"a": {SnoozedUntil: timePtr(testNow.Add(time.Hour))},
	}

	set := engine.BuildSet([]model.Task{a}, overlays, testNow, model.CategoryMyAction, nil, "")
	assert.Empty(t, set)

	set = engine.BuildSet([]model.Task{a}, overlays, testNow, model.CategorySnoozed, nil, "")
	assert.Equal(t, []string{"a"}, ids(set))
}

func TestSort_FamiliesByRootPriority(t *testing.T) {
	urgent := task("z-urgent", "in progress")
	urgent.Priority = intPtr(model.PriorityUrgent)
	low := task("a-low", "in progress")
	low.Priority = intPtr(model.PriorityLow)
	none := task("b-none", "in progress")

	set := engine.BuildSet([]model.Task{none, low, urgent}, nil, testNow, model.CategoryMyAction, nil, "")

	// Priority 1 first, absent priority last regardless of id order.
	assert.Equal(t, []string{"z-urgent", "a-low", "b-none"}, ids(set))
}

func TestSort_ChildrenFollowRootNotOwnPriority(t *testing.T) {
	rootA := task("ra", "in progress")
	rootA.Priority = intPtr(model.PriorityHigh)
	childA := task("rb-child", "in progress")
	childA.ParentID = "ra"
	childA.Priority = intPtr(model.PriorityUrgent) // more urgent than its root

	rootB := task("rb", "in progress")
	rootB.Priority = intPtr(model.PriorityMedium)

	set := engine.BuildSet([]model.Task{rootB, childA, rootA}, nil, testNow, model.CategoryMyAction, nil, "")

	// The child stays grouped under its root even though its own priority
	// beats both roots.
	assert.Equal(t, []string{"ra", "rb-child", "rb"}, ids(set))
}

func TestSort_DeterministicOnShuffledInput(t *testing.T) {
	var tasks []model.Task
	for _, id := range []string{"e", "c", "a", "d", "b"} {
		tk := task(id, "in progress")
		tk.Priority = intPtr(model.PriorityMedium)
		tasks = append(tasks, tk)
	}
	child := task("a-child", "in progress")
	child.ParentID = "a"
	tasks = append(tasks, child)

	first := engine.BuildSet(tasks, nil, testNow, model.CategoryMyAction, nil, "")
	require.NotEmpty(t, first)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]model.Task, len(tasks))
		copy(shuffled, tasks)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		again := engine.BuildSet(shuffled, nil, testNow, model.CategoryMyAction, nil, "")
		assert.Equal(t, ids(first), ids(again), "shuffle %d", i)
	}
}

func TestBuildSet_DoesNotMutateInputs(t *testing.T) {
	a := task("a", "in progress")
	b := task("b", "in progress")
	b.ParentID = "a"
	tasks := []model.Task{b, a}
	overlays := map[string]model.Overlay{"a": {Pinned: true}}

	_ = engine.BuildSet(tasks, overlays, testNow, model.CategoryMyAction, nil, "")

	assert.Equal(t, "b", tasks[0].ID)
	assert.Equal(t, "a", tasks[1].ID)
	assert.Len(t, overlays, 1)
	assert.True(t, overlays["a"].Pinned)
}
