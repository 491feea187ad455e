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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"http_addr":            "www.example:9000",
		"database_dsn":         "postgres://db",
		"access_token_secret":  "a",
		"refresh_token_secret": "r",
		"access_token_expiry":  "15m",
		"refresh_token_expiry": "10d",
		"bcrypt_cost":          10,
		"session_backend":      "memory",
		"store_timeout":        "2s",
		"secure_cookies":       false,
		"s3_bucket":            "media",
		"s3_base_endpoint":     "http://minio:9000/",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJSON(cfg, []string{"-config", path}))

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, ":50051", cfg.GRPCHealthAddr, "absent keys keep their value")
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "a", cfg.AccessTokenSecret)
		assert.Equal(t, "r", cfg.RefreshTokenSecret)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 240*time.Hour, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, 10, cfg.BcryptCost)
		assert.Equal(t, SessionBackendMemory, cfg.SessionBackend)
		assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
		assert.False(t, cfg.SecureCookies)
		assert.True(t, cfg.S3Enabled())
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		cfg := validConfig()
		before := *cfg
		require.NoError(t, parseJSON(cfg, []string{"-a", ":1"}))
		assert.Equal(t, before, *cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		err := parseJSON(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		err := parseJSON(&Config{}, []string{"-c", bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config file")
	})
}
