// Package remote fetches the task feed from the ClickUp API.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/existflow/taskdeck/internal/model"
)

const defaultBaseURL = "https://api.clickup.com/api/v2"

// Client is a minimal ClickUp API client scoped to reading tasks.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a client authenticating with a personal API token.
func NewClient(apiToken string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point at a local server.
func NewClientWithBaseURL(apiToken, baseURL string) *Client {
	c := NewClient(apiToken)
	c.baseURL = baseURL
	return c
}

type teamsResponse struct {
	Teams []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"teams"`
}

type tasksResponse struct {
	Tasks []wireTask `json:"tasks"`
}

// wireTask is the raw ClickUp task shape.
type wireTask struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status struct {
		Status string `json:"status"`
	} `json:"status"`
	List struct {
		Name string `json:"name"`
	} `json:"list"`
	DueDate  *string `json:"due_date"`
	Priority *struct {
		ID string `json:"id"`
	} `json:"priority"`
	URL  string `json:"url"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
	TextContent  *string `json:"text_content"`
	CustomItemID *int    `json:"custom_item_id"`
	CustomID     *string `json:"custom_id"`
	Parent       *string `json:"parent"`
	Assignees    []struct {
		ID uint64 `json:"id"`
	} `json:"assignees"`
}

// TeamID returns the first workspace the token has access to. Task queries
// are scoped to a team, so this runs once before the first fetch.
func (c *Client) TeamID(ctx context.Context) (string, error) {
	var teams teamsResponse
	if err := c.get(ctx, "/team", nil, &teams); err != nil {
		return "", err
	}
	if len(teams.Teams) == 0 {
		return "", fmt.Errorf("no teams found in workspace")
	}
	return teams.Teams[0].ID, nil
}

// FetchTasks returns all tasks assigned to the user, closed and subtasks
// included. Parents referenced by a subtask but missing from the page are
// fetched individually so the hierarchy stays walkable.
func (c *Client) FetchTasks(ctx context.Context, teamID, userID string) ([]model.Task, error) {
	query := url.Values{}
	query.Set("assignees[]", userID)
	query.Set("include_closed", "true")
	query.Set("subtasks", "true")

	var page tasksResponse
	if err := c.get(ctx, "/team/"+teamID+"/task", query, &page); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(page.Tasks))
	have := make(map[string]bool, len(page.Tasks))
	for _, wt := range page.Tasks {
		t := convertTask(wt)
		tasks = append(tasks, t)
		have[t.ID] = true
	}

	seen := make(map[string]bool)
	for _, t := range tasks {
		pid := t.ParentID
		if pid == "" || have[pid] || seen[pid] {
			continue
		}
		seen[pid] = true
		parent, err := c.FetchTask(ctx, pid)
		if err != nil {
			// A parent the token cannot read just truncates that chain.
			continue
		}
		tasks = append(tasks, parent)
	}

	return tasks, nil
}

// FetchTask fetches a single task by id.
func (c *Client) FetchTask(ctx context.Context, taskID string) (model.Task, error) {
	var wt wireTask
	if err := c.get(ctx, "/task/"+taskID, nil, &wt); err != nil {
		return model.Task{}, err
	}
	return convertTask(wt), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach ClickUp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ClickUp API error (%d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse ClickUp response: %w", err)
	}
	return nil
}

func convertTask(wt wireTask) model.Task {
	t := model.Task{
		ID:           wt.ID,
		Name:         wt.Name,
		Status:       wt.Status.Status,
		ListName:     wt.List.Name,
		URL:          wt.URL,
		CustomItemID: wt.CustomItemID,
	}

	// Due dates come over the wire as epoch milliseconds in a string.
	if wt.DueDate != nil {
		if ms, err := strconv.ParseInt(*wt.DueDate, 10, 64); err == nil {
			due := time.UnixMilli(ms).UTC()
			t.DueDate = &due
		}
	}
	if wt.Priority != nil {
		if p, err := strconv.Atoi(wt.Priority.ID); err == nil {
			t.Priority = &p
		}
	}
	for _, tag := range wt.Tags {
		t.Tags = append(t.Tags, tag.Name)
	}
	if wt.TextContent != nil {
		t.Description = *wt.TextContent
	}
	if wt.CustomID != nil {
		t.CustomID = *wt.CustomID
	}
	if wt.Parent != nil {
		t.ParentID = *wt.Parent
	}
	for _, a := range wt.Assignees {
		t.AssigneeIDs = append(t.AssigneeIDs, a.ID)
	}
	return t
}
