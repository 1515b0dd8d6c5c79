package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerBaseURL)
	assert.Equal(t, "cloudsafe.db", c.DatabasePath)
	assert.Equal(t, "downloads", c.DownloadDir)
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("overrides only fields present in the file", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"server_base_url": "https://cloud.example.com",
			"http_timeout":    "45s",
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "https://cloud.example.com", cfg.ServerBaseURL)
		assert.Equal(t, 45*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, "cloudsafe.db", cfg.DatabasePath)
		assert.Equal(t, "downloads", cfg.DownloadDir)
	})

	t.Run("no flags means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ServerBaseURL: "kept:1", HTTPTimeout: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "kept:1", cfg.ServerBaseURL)
		assert.Equal(t, 42*time.Second, cfg.HTTPTimeout)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", "http://other:9999", "-d", "alt.db", "-t", "5"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "http://other:9999", cfg.ServerBaseURL)
	assert.Equal(t, "alt.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}
