package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverlaysOnlyPresentVariables(t *testing.T) {
	cfg := validConfig()
	cfg.HTTPAddr = ":1234"

	err := parseEnv(cfg, []string{
		"ACCESS_TOKEN_SECRET=from-env",
		"ACCESS_TOKEN_EXPIRY=1h",
		"REFRESH_TOKEN_EXPIRY=7d",
		"VIDEOTUBE_SESSION_BACKEND=redis",
		"VIDEOTUBE_REDIS_ADDR=redis:6379",
		"VIDEOTUBE_REDIS_DB=2",
		"VIDEOTUBE_STORE_TIMEOUT=500ms",
		"VIDEOTUBE_SECURE_COOKIES=false",
		"VIDEOTUBE_S3_BUCKET=media",
	})
	require.NoError(t, err)

	assert.Equal(t, ":1234", cfg.HTTPAddr)
	assert.Equal(t, "from-env", cfg.AccessTokenSecret)
	assert.Equal(t, "refresh-secret", cfg.RefreshTokenSecret)
	assert.Equal(t, time.Hour, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, SessionBackendRedis, cfg.SessionBackend)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 500*time.Millisecond, cfg.StoreTimeout)
	assert.False(t, cfg.SecureCookies)
	assert.Equal(t, "media", cfg.S3Bucket)
}

func TestParseEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  []string
	}{
		{"bad duration", []string{"ACCESS_TOKEN_EXPIRY=soon"}},
		{"bad cost", []string{"BCRYPT_COST=ten"}},
		{"bad bool", []string{"VIDEOTUBE_SECURE_COOKIES=maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseEnv(validConfig(), tt.env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parse env")
		})
	}
}
