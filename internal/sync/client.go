// Package sync replicates overlay annotations between devices through a
// small account server. Overlay payloads are encrypted client-side, so the
// server only ever sees ciphertext plus the merge bookkeeping.
package sync

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Config holds sync configuration
type Config struct {
	ServerURL     string `json:"server_url"`
	Token         string `json:"token"`
	UserID        string `json:"user_id"`
	LastSync      int64  `json:"last_sync"`              // Server sync_version pull cursor
	LastSyncAt    int64  `json:"last_sync_at,omitempty"` // Wall clock of the last successful sync, ms
	EncryptionKey string `json:"encryption_key,omitempty"` // Base64 encoded derived key
	Salt          string `json:"salt,omitempty"`           // Base64 encoded salt for key derivation
}

// Client is the sync client
type Client struct {
	config     *Config
	configPath string
	httpClient *http.Client
}

// NewClient creates a new sync client
func NewClient() (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".taskdeck", "sync.json")

	c := &Client{
		configPath: configPath,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	c.loadConfig()

	return c, nil
}

func (c *Client) loadConfig() {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		c.config = &Config{
			ServerURL: "http://localhost:8080",
		}
	} else {
		c.config = &Config{}
		json.Unmarshal(data, c.config)
	}

	if server := os.Getenv("TASKDECK_SYNC_SERVER"); server != "" {
		c.config.ServerURL = server
	}
}

func (c *Client) saveConfig() error {
	dir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c.config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0600)
}

// SetServer sets the sync server URL
func (c *Client) SetServer(url string) error {
	c.config.ServerURL = url
	return c.saveConfig()
}

// IsLoggedIn returns true if user is logged in
func (c *Client) IsLoggedIn() bool {
	return c.config.Token != ""
}

// CanAutoSync reports whether background syncing can run without
// prompting: a session and an encryption key must both be configured.
func (c *Client) CanAutoSync() bool {
	return c.IsLoggedIn() && c.config.EncryptionKey != ""
}

// Register creates a new account
func (c *Client) Register(username, email, password string) error {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})

	resp, err := c.httpClient.Post(
		c.config.ServerURL+"/api/v1/register",
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("register failed: %s", string(respBody))
	}

	var result struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	c.config.Token = result.Token
	c.config.UserID = result.UserID
	return c.saveConfig()
}

// Login authenticates with username and password
func (c *Client) Login(username, password string) error {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	resp, err := c.httpClient.Post(
		c.config.ServerURL+"/api/v1/login",
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed: %s", string(respBody))
	}

	var result struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	c.config.Token = result.Token
	c.config.UserID = result.UserID
	return c.saveConfig()
}

// RequestMagicLink asks the server to email a one-time login link. The
// returned token is only populated by development servers.
func (c *Client) RequestMagicLink(email string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email})

	resp, err := c.httpClient.Post(
		c.config.ServerURL+"/api/v1/magic-link",
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("magic link request failed: %s", string(respBody))
	}

	var result struct {
		Token string `json:"token"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return result.Token, nil
}

// LoginWithMagicToken exchanges a magic link token for a session.
func (c *Client) LoginWithMagicToken(token string) error {
	body, _ := json.Marshal(map[string]string{"token": token})

	resp, err := c.httpClient.Post(
		c.config.ServerURL+"/api/v1/magic-login",
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("magic login failed: %s", string(respBody))
	}

	var result struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	c.config.Token = result.Token
	c.config.UserID = result.UserID
	return c.saveConfig()
}

// ClearRemote wipes all overlay rows stored for this account.
func (c *Client) ClearRemote() error {
	req, err := http.NewRequest("POST", c.config.ServerURL+"/api/v1/clear", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("clear failed: %s", string(respBody))
	}

	c.config.LastSync = 0
	c.config.LastSyncAt = 0
	return c.saveConfig()
}

// Logout clears the session
func (c *Client) Logout() error {
	c.config.Token = ""
	c.config.UserID = ""
	c.config.LastSync = 0
	c.config.LastSyncAt = 0
	return c.saveConfig()
}

// GetStatus returns the server URL, user id, and the wall-clock time of
// the last successful sync in epoch milliseconds.
func (c *Client) GetStatus() (string, string, int64) {
	return c.config.ServerURL, c.config.UserID, c.config.LastSyncAt
}

// GenerateEncryptionKey derives and stores an encryption key from a
// passphrase so background syncs never have to prompt for it. Returns
// a short fingerprint for display.
func (c *Client) GenerateEncryptionKey(passphrase string) (string, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}

	key := DeriveKey(passphrase, salt)
	c.config.Salt = base64.StdEncoding.EncodeToString(salt)
	c.config.EncryptionKey = base64.StdEncoding.EncodeToString(key)

	if err := c.saveConfig(); err != nil {
		return "", err
	}

	return c.config.EncryptionKey[:16], nil
}

// crypto builds a Crypto instance from the stored key.
func (c *Client) crypto() (*Crypto, error) {
	if c.config.EncryptionKey == "" {
		return nil, fmt.Errorf("no encryption key configured, run 'taskdeck sync key' first")
	}
	key, err := base64.StdEncoding.DecodeString(c.config.EncryptionKey)
	if err != nil {
		return nil, err
	}
	return NewCryptoWithKey(key)
}
