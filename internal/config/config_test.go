package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskdeck/internal/config"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.AutoRefresh)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.False(t, cfg.HasCredentials())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := config.DefaultConfig()
	cfg.APIToken = "pk_abc"
	cfg.UserID = "12345"
	cfg.LogLevel = "DEBUG"
	require.NoError(t, cfg.Save())

	loaded, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "pk_abc", loaded.APIToken)
	assert.Equal(t, "12345", loaded.UserID)
	assert.Equal(t, "DEBUG", loaded.LogLevel)
	assert.True(t, loaded.HasCredentials())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKDECK_AUTO_REFRESH", "false")
	t.Setenv("TASKDECK_LOG_LEVEL", "ERROR")

	cfg := config.DefaultConfig()
	assert.False(t, cfg.AutoRefresh)
	assert.Equal(t, "ERROR", cfg.LogLevel)
}

func TestEnvCredentialFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKDECK_API_TOKEN", "pk_env_token")
	t.Setenv("TASKDECK_USER_ID", "99")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "pk_env_token", cfg.APIToken)
	assert.Equal(t, "99", cfg.UserID)
	assert.True(t, cfg.HasCredentials())
}

func TestNumericUserID(t *testing.T) {
	cfg := &config.Config{UserID: "42"}
	id := cfg.NumericUserID()
	require.NotNil(t, id)
	assert.Equal(t, uint64(42), *id)

	assert.Nil(t, (&config.Config{}).NumericUserID())
	assert.Nil(t, (&config.Config{UserID: "bob"}).NumericUserID())
}
