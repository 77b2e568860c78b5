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

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"listen_addr":  "www.example:9000",
		"database_dsn": "postgres://db",
		"redis_addr":   "127.0.0.1:6379",
		"max_clients":  7,
		"session_ttl":  "45m",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.ListenAddr)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
		assert.Equal(t, 7, cfg.MaxClients)
		assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			ListenAddr:  "defaults:1234",
			DatabaseDSN: "postgres://other",
			RedisAddr:   "redis:6379",
			MaxClients:  3,
			SessionTTL:  2 * time.Minute,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.ListenAddr)
		assert.Equal(t, "postgres://other", cfg.DatabaseDSN)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, 3, cfg.MaxClients)
		assert.Equal(t, 2*time.Minute, cfg.SessionTTL)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
