package chat_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemlineco/stylist/chat"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := chat.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, 5*time.Minute, cfg.Timeout())
	assert.False(t, cfg.Debug)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stylist.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_url = \"http://example.com:9000\"\ntimeout_seconds = 30\ndebug = true\n",
	), 0o600))

	cfg, err := chat.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.com:9000", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.True(t, cfg.Debug)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stylist.toml")
	require.NoError(t, os.WriteFile(path, []byte("server_url = \"http://file:9000\"\n"), 0o600))

	t.Setenv("STYLIST_SERVER_URL", "http://env:7000")

	cfg, err := chat.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:7000", cfg.ServerURL)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := chat.LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stylist.toml")
	require.NoError(t, os.WriteFile(path, []byte("timeout_seconds = -1\n"), 0o600))

	_, err := chat.LoadConfig(path)
	assert.Error(t, err)
}
