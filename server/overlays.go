package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// OverlayItem is one encrypted overlay row on the wire. The server never
// sees the plaintext annotations, only the merge bookkeeping.
type OverlayItem struct {
	TaskID           string `json:"task_id"`
	EncryptedOverlay string `json:"encrypted_overlay,omitempty"`
	Deleted          bool   `json:"deleted"`
	UpdatedAt        string `json:"updated_at"`
	SyncVersion      int64  `json:"sync_version,omitempty"`
}

// OverlayPullResponse is the response for pull requests
type OverlayPullResponse struct {
	Items       []OverlayItem `json:"items"`
	SyncVersion int64         `json:"sync_version"`
}

// OverlayPushRequest is the request for push
type OverlayPushRequest struct {
	Items []OverlayItem `json:"items"`
}

// OverlayPushResponse is the response for push requests
type OverlayPushResponse struct {
	Accepted    int   `json:"accepted"`
	SyncVersion int64 `json:"sync_version"`
}

// handleOverlayPull returns overlay rows changed since the given version
func (s *Server) handleOverlayPull(c echo.Context) error {
	userID := c.Get("user_id").(string)

	lastVersion := int64(0)
	if v := c.QueryParam("since"); v != "" {
		lastVersion, _ = strconv.ParseInt(v, 10, 64)
	}

	rows, err := s.db.Query(`
		SELECT task_id, encrypted_overlay, deleted, updated_at, sync_version
		FROM overlays
		WHERE user_id = $1 AND sync_version > $2
		ORDER BY sync_version ASC`,
		userID, lastVersion,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	var items []OverlayItem
	for rows.Next() {
		var item OverlayItem
		var updatedAt time.Time
		if err := rows.Scan(&item.TaskID, &item.EncryptedOverlay, &item.Deleted,
			&updatedAt, &item.SyncVersion); err != nil {
			c.Logger().Error("scan error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		item.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
		items = append(items, item)
	}

	var maxVersion int64
	s.db.QueryRow(`
		SELECT COALESCE(MAX(sync_version), 0) FROM overlays WHERE user_id = $1`,
		userID,
	).Scan(&maxVersion)

	c.Logger().Infof("Overlay pull for user %s: %d items since version %d", userID, len(items), lastVersion)

	return c.JSON(http.StatusOK, OverlayPullResponse{
		Items:       items,
		SyncVersion: maxVersion,
	})
}

// handleOverlayPush accepts changed overlay rows from a client. Rows older
// than what the server already holds are ignored, last write wins.
func (s *Server) handleOverlayPush(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req OverlayPushRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	accepted := 0
	for _, item := range req.Items {
		updatedAt, err := time.Parse(time.RFC3339, item.UpdatedAt)
		if err != nil {
			continue
		}

		res, err := s.db.Exec(`
			INSERT INTO overlays (user_id, task_id, encrypted_overlay, deleted, updated_at, sync_version)
			VALUES ($1, $2, $3, $4, $5,
				(SELECT COALESCE(MAX(sync_version), 0) + 1 FROM overlays WHERE user_id = $1))
			ON CONFLICT (user_id, task_id) DO UPDATE SET
				encrypted_overlay = EXCLUDED.encrypted_overlay,
				deleted = EXCLUDED.deleted,
				updated_at = EXCLUDED.updated_at,
				sync_version = (SELECT COALESCE(MAX(sync_version), 0) + 1 FROM overlays o WHERE o.user_id = $1)
			WHERE overlays.updated_at < EXCLUDED.updated_at`,
			userID, item.TaskID, item.EncryptedOverlay, item.Deleted, updatedAt,
		)
		if err != nil {
			c.Logger().Error("db error:", err)
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			accepted++
		}
	}

	var maxVersion int64
	s.db.QueryRow(`
		SELECT COALESCE(MAX(sync_version), 0) FROM overlays WHERE user_id = $1`,
		userID,
	).Scan(&maxVersion)

	c.Logger().Infof("Overlay push for user %s: %d of %d items accepted", userID, accepted, len(req.Items))

	return c.JSON(http.StatusOK, OverlayPushResponse{
		Accepted:    accepted,
		SyncVersion: maxVersion,
	})
}

// handleClear wipes all overlay rows for the authenticated user
func (s *Server) handleClear(c echo.Context) error {
	userID := c.Get("user_id").(string)

	if _, err := s.db.Exec(`DELETE FROM overlays WHERE user_id = $1`, userID); err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	c.Logger().Infof("Overlays cleared for user %s", userID)

	return c.JSON(http.StatusOK, map[string]string{"message": "cleared"})
}
