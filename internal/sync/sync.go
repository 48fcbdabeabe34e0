package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/existflow/taskdeck/internal/logger"
	"github.com/existflow/taskdeck/internal/model"
	"github.com/existflow/taskdeck/internal/store"
)

// SyncItem is one overlay change on the wire. The payload is opaque to the
// server; task id and merge bookkeeping travel in the clear.
type SyncItem struct {
	TaskID           string `json:"task_id"`
	EncryptedOverlay string `json:"encrypted_overlay,omitempty"`
	Deleted          bool   `json:"deleted"`
	UpdatedAt        string `json:"updated_at"`
}

// SyncPullResponse is the response from pull
type SyncPullResponse struct {
	Items       []SyncItem `json:"items"`
	SyncVersion int64      `json:"sync_version"`
}

// SyncPushResponse is the response from push
type SyncPushResponse struct {
	Accepted    int   `json:"accepted"`
	SyncVersion int64 `json:"sync_version"`
}

// SyncResult holds sync statistics
type SyncResult struct {
	Pushed int
	Pulled int
}

// SyncMode defines how the sync should be performed
type SyncMode int

const (
	SyncModeMerge         SyncMode = iota // Default: push local, then pull remote
	SyncModeRemoteToLocal                 // Wipe local overlays, then pull all from remote
	SyncModeLocalToRemote                 // Push all local overlays from scratch
)

// Sync replicates overlay changes with the server based on the given mode.
func (c *Client) Sync(s *store.Store, mode SyncMode) (*SyncResult, error) {
	if !c.IsLoggedIn() {
		return nil, fmt.Errorf("not logged in")
	}

	crypto, err := c.crypto()
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}

	switch mode {
	case SyncModeRemoteToLocal:
		if err := s.ClearOverlays(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to clear local overlays: %w", err)
		}
		c.config.LastSync = 0
		_ = c.saveConfig()

		pulled, err := c.pullChanges(s, crypto)
		if err != nil {
			return nil, fmt.Errorf("pull failed: %w", err)
		}
		result.Pulled = pulled

	case SyncModeLocalToRemote:
		pushed, err := c.pushChanges(s, crypto, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("push failed: %w", err)
		}
		result.Pushed = pushed

	default: // SyncModeMerge
		pushed, err := c.pushChanges(s, crypto, time.UnixMilli(c.config.LastSyncAt))
		if err != nil {
			return nil, fmt.Errorf("push failed: %w", err)
		}
		result.Pushed = pushed

		pulled, err := c.pullChanges(s, crypto)
		if err != nil {
			return nil, fmt.Errorf("pull failed: %w", err)
		}
		result.Pulled = pulled
	}

	c.config.LastSyncAt = time.Now().UnixMilli()
	if err := c.saveConfig(); err != nil {
		return result, err
	}

	return result, nil
}

// pushChanges sends overlay rows modified after since to the server.
func (c *Client) pushChanges(s *store.Store, crypto *Crypto, since time.Time) (int, error) {
	rows, err := s.OverlaysChangedSince(context.Background(), since)
	if err != nil {
		return 0, err
	}
	logger.Debug("Found overlays to push",
		logger.F("count", len(rows)),
		logger.F("since", since.Format(time.RFC3339)))

	if len(rows) == 0 {
		return 0, nil
	}

	items := make([]SyncItem, 0, len(rows))
	for _, row := range rows {
		item := SyncItem{
			TaskID:    row.TaskID,
			Deleted:   row.Deleted,
			UpdatedAt: row.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if !row.Deleted {
			payload, err := json.Marshal(row.Overlay)
			if err != nil {
				return 0, err
			}
			item.EncryptedOverlay, err = crypto.Encrypt(payload)
			if err != nil {
				return 0, err
			}
		}
		items = append(items, item)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"items": items,
	})

	url := c.config.ServerURL + "/api/v1/overlays"
	logger.Debug("HTTP Request",
		logger.F("method", "POST"),
		logger.F("url", url),
		logger.F("bodySize", len(body)))

	req, _ := http.NewRequest("POST", url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("HTTP request failed", logger.F("error", err), logger.F("url", url))
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		logger.Error("Push failed",
			logger.F("status", resp.StatusCode),
			logger.F("response", string(respBody)))
		return 0, fmt.Errorf("server error: %s", string(respBody))
	}

	var result SyncPushResponse
	_ = json.NewDecoder(resp.Body).Decode(&result)

	logger.Info("Push completed", logger.F("accepted", result.Accepted))
	return result.Accepted, nil
}

// pullChanges fetches remote overlay changes and merges them locally.
func (c *Client) pullChanges(s *store.Store, crypto *Crypto) (int, error) {
	url := fmt.Sprintf("%s/api/v1/overlays?since=%d", c.config.ServerURL, c.config.LastSync)

	logger.Debug("Pulling overlay changes", logger.F("since", c.config.LastSync))

	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("HTTP request failed", logger.F("error", err), logger.F("url", url))
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		logger.Error("Pull failed",
			logger.F("status", resp.StatusCode),
			logger.F("response", string(respBody)))
		return 0, fmt.Errorf("server error: %s", string(respBody))
	}

	var result SyncPullResponse
	_ = json.NewDecoder(resp.Body).Decode(&result)

	logger.Info("Received overlay items",
		logger.F("itemCount", len(result.Items)),
		logger.F("syncVersion", result.SyncVersion))

	ctx := context.Background()
	applied := 0
	for _, item := range result.Items {
		row := store.OverlayRow{
			TaskID:  item.TaskID,
			Deleted: item.Deleted,
		}
		row.UpdatedAt, err = time.Parse(time.RFC3339, item.UpdatedAt)
		if err != nil {
			logger.Warn("Skipping item with bad timestamp",
				logger.F("taskID", item.TaskID), logger.F("updatedAt", item.UpdatedAt))
			continue
		}

		if !item.Deleted {
			payload, err := crypto.Decrypt(item.EncryptedOverlay)
			if err != nil {
				logger.Warn("Skipping undecryptable overlay", logger.F("taskID", item.TaskID))
				continue
			}
			var o model.Overlay
			if err := json.Unmarshal(payload, &o); err != nil {
				logger.Warn("Skipping malformed overlay payload", logger.F("taskID", item.TaskID))
				continue
			}
			row.Overlay = o
		}

		changed, err := s.ApplyRemoteOverlay(ctx, row)
		if err != nil {
			return applied, err
		}
		if changed {
			applied++
		}
	}

	if result.SyncVersion > c.config.LastSync {
		c.config.LastSync = result.SyncVersion
		_ = c.saveConfig()
	}

	logger.Info("Pull completed", logger.F("applied", applied))
	return applied, nil
}
