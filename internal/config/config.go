package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences and workspace credentials
type Config struct {
	APIToken    string `yaml:"api_token" json:"api_token"`       // Workspace API token
	UserID      string `yaml:"user_id" json:"user_id"`           // Numeric user id, as a string
	AutoRefresh bool   `yaml:"auto_refresh" json:"auto_refresh"` // Fetch the feed on startup

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns the taskdeck config directory (~/.taskdeck)
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".taskdeck"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	logPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "taskdeck.log")
	}

	return &Config{
		APIToken:    getEnv("TASKDECK_API_TOKEN", ""),
		UserID:      getEnv("TASKDECK_USER_ID", ""),
		AutoRefresh: getEnv("TASKDECK_AUTO_REFRESH", "true") == "true",
		LogLevel:    getEnv("TASKDECK_LOG_LEVEL", "INFO"),
		LogFile:     getEnv("TASKDECK_LOG_FILE", logPath),
		LogConsole:  getEnv("TASKDECK_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load loads config from ~/.taskdeck/config.yaml
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, "config.yaml")

	// Return defaults if no config exists yet
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.taskdeck/config.yaml
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// HasCredentials reports whether both the API token and user id are set.
func (c *Config) HasCredentials() bool {
	return c.APIToken != "" && c.UserID != ""
}

// NumericUserID parses the configured user id. Returns nil when unset or
// unparsable, which disables the assignee filter.
func (c *Config) NumericUserID() *uint64 {
	if c.UserID == "" {
		return nil
	}
	id, err := strconv.ParseUint(c.UserID, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
