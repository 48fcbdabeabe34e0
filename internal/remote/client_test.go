package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskdeck/internal/remote"
)

const feedPage = `{
	"tasks": [
		{
			"id": "child",
			"name": "Wire up billing webhook",
			"status": {"status": "in progress"},
			"list": {"name": "Backend"},
			"due_date": "1767139200000",
			"priority": {"id": "2"},
			"url": "https://app.clickup.com/t/child",
			"tags": [{"name": "billing"}],
			"text_content": "Stripe events land here",
			"custom_item_id": null,
			"custom_id": "BE-42",
			"parent": "parent",
			"assignees": [{"id": 7}]
		}
	]
}`

const parentTask = `{
	"id": "parent",
	"name": "Billing epic",
	"status": {"status": "to do"},
	"list": {"name": "Backend"},
	"due_date": null,
	"priority": null,
	"url": "https://app.clickup.com/t/parent",
	"tags": [],
	"text_content": null,
	"custom_item_id": null,
	"custom_id": null,
	"parent": null,
	"assignees": []
}`

func TestFetchTasks_BackfillsMissingParents(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/team/t1/task":
			assert.Equal(t, "7", r.URL.Query().Get("assignees[]"))
			assert.Equal(t, "true", r.URL.Query().Get("include_closed"))
			assert.Equal(t, "true", r.URL.Query().Get("subtasks"))
			w.Write([]byte(feedPage))
		case "/task/parent":
			w.Write([]byte(parentTask))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := remote.NewClientWithBaseURL("pk_token", srv.URL)
	tasks, err := c.FetchTasks(context.Background(), "t1", "7")
	require.NoError(t, err)
	assert.Equal(t, "pk_token", gotAuth)

	require.Len(t, tasks, 2)
	child := tasks[0]
	assert.Equal(t, "child", child.ID)
	assert.Equal(t, "in progress", child.Status)
	assert.Equal(t, "Backend", child.ListName)
	assert.Equal(t, []string{"billing"}, child.Tags)
	assert.Equal(t, "Stripe events land here", child.Description)
	assert.Equal(t, "BE-42", child.CustomID)
	assert.Equal(t, "parent", child.ParentID)
	assert.Equal(t, []uint64{7}, child.AssigneeIDs)
	require.NotNil(t, child.Priority)
	assert.Equal(t, 2, *child.Priority)
	require.NotNil(t, child.DueDate)
	assert.Equal(t, time.UnixMilli(1767139200000).UTC(), *child.DueDate)

	parent := tasks[1]
	assert.Equal(t, "parent", parent.ID)
	assert.Nil(t, parent.Priority)
	assert.Nil(t, parent.DueDate)
	assert.Empty(t, parent.ParentID)
}

func TestFetchTasks_UnreadableParentSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/team/t1/task":
			w.Write([]byte(feedPage))
		default:
			http.Error(w, `{"err":"Team not authorized"}`, http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := remote.NewClientWithBaseURL("pk_token", srv.URL)
	tasks, err := c.FetchTasks(context.Background(), "t1", "7")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTeamID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/team", r.URL.Path)
		w.Write([]byte(`{"teams":[{"id":"9001","name":"Existflow"}]}`))
	}))
	defer srv.Close()

	c := remote.NewClientWithBaseURL("pk_token", srv.URL)
	id, err := c.TeamID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9001", id)
}

func TestTeamID_NoTeams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"teams":[]}`))
	}))
	defer srv.Close()

	c := remote.NewClientWithBaseURL("pk_token", srv.URL)
	_, err := c.TeamID(context.Background())
	assert.Error(t, err)
}

func TestAPIErrorSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err":"Token invalid"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := remote.NewClientWithBaseURL("bad", srv.URL)
	_, err := c.TeamID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Token invalid")
}
