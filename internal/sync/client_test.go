package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskdeck/internal/store"
)

func TestLoadConfig_ServerEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKDECK_SYNC_SERVER", "https://sync.example.com")

	client, err := NewClient()
	require.NoError(t, err)

	server, _, _ := client.GetStatus()
	assert.Equal(t, "https://sync.example.com", server)
}

func TestSync_SeparatesCursorFromTimestamp(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var pushes int
	var pullSince []string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "tok", "user_id": "u1"})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/overlays":
			pushes++
			json.NewEncoder(w).Encode(map[string]any{"accepted": 1, "sync_version": 7})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/overlays":
			pullSince = append(pullSince, r.URL.Query().Get("since"))
			json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "sync_version": 7})
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client, err := NewClient()
	require.NoError(t, err)
	require.NoError(t, client.SetServer(ts.URL))
	require.NoError(t, client.Login("alice", "pw"))
	_, err = client.GenerateEncryptionKey("hunter2")
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(t.TempDir(), "taskdeck.db"))
	require.NoError(t, err)
	defer st.Close()
	_, err = st.TogglePin(context.Background(), "task-1")
	require.NoError(t, err)

	start := time.Now().UnixMilli()
	result, err := client.Sync(st, SyncModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pushed)

	// The pull cursor keeps the server's version counter; the status
	// timestamp is wall clock.
	assert.Equal(t, int64(7), client.config.LastSync)
	_, _, lastSyncAt := client.GetStatus()
	assert.GreaterOrEqual(t, lastSyncAt, start)

	// A second merge has nothing new to push and pulls from the kept cursor.
	result, err = client.Sync(st, SyncModeMerge)
	require.NoError(t, err)
	assert.Zero(t, result.Pushed)
	assert.Equal(t, 1, pushes)
	require.Len(t, pullSince, 2)
	assert.Equal(t, "0", pullSince[0])
	assert.Equal(t, "7", pullSince[1])
}
