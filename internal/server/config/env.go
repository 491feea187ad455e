package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrijs2005/videotube/internal/timex"
)

// envConfig lists the environment variables the server understands. The
// token and hashing variables keep the names used by existing deployments.
type envConfig struct {
	HTTPAddr       string `env:"VIDEOTUBE_HTTP_ADDR"`
	GRPCHealthAddr string `env:"VIDEOTUBE_GRPC_HEALTH_ADDR"`
	DatabaseDSN    string `env:"VIDEOTUBE_DATABASE_DSN"`
	LogLevel       string `env:"VIDEOTUBE_LOG_LEVEL"`

	AccessTokenSecret            string         `env:"ACCESS_TOKEN_SECRET"`
	AccessTokenValidityDuration  timex.Duration `env:"ACCESS_TOKEN_EXPIRY"`
	RefreshTokenSecret           string         `env:"REFRESH_TOKEN_SECRET"`
	RefreshTokenValidityDuration timex.Duration `env:"REFRESH_TOKEN_EXPIRY"`
	BcryptCost                   int            `env:"BCRYPT_COST"`

	SessionBackend string         `env:"VIDEOTUBE_SESSION_BACKEND"`
	RedisAddr      string         `env:"VIDEOTUBE_REDIS_ADDR"`
	RedisPassword  string         `env:"VIDEOTUBE_REDIS_PASSWORD"`
	RedisDB        int            `env:"VIDEOTUBE_REDIS_DB"`
	StoreTimeout   timex.Duration `env:"VIDEOTUBE_STORE_TIMEOUT"`

	S3RootUser     string `env:"VIDEOTUBE_S3_ROOT_USER"`
	S3RootPassword string `env:"VIDEOTUBE_S3_ROOT_PASSWORD"`
	S3Bucket       string `env:"VIDEOTUBE_S3_BUCKET"`
	S3Region       string `env:"VIDEOTUBE_S3_REGION"`
	S3BaseEndpoint string `env:"VIDEOTUBE_S3_BASE_ENDPOINT"`

	SecureCookies string `env:"VIDEOTUBE_SECURE_COOKIES"`
}

// parseEnv overlays every variable present in environ ("KEY=value" pairs).
func parseEnv(cfg *Config, environ []string) error {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	e := envConfig{}
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	overlay(&cfg.HTTPAddr, e.HTTPAddr)
	overlay(&cfg.GRPCHealthAddr, e.GRPCHealthAddr)
	overlay(&cfg.DatabaseDSN, e.DatabaseDSN)
	overlay(&cfg.LogLevel, e.LogLevel)
	overlay(&cfg.AccessTokenSecret, e.AccessTokenSecret)
	overlay(&cfg.AccessTokenValidityDuration, e.AccessTokenValidityDuration.Duration)
	overlay(&cfg.RefreshTokenSecret, e.RefreshTokenSecret)
	overlay(&cfg.RefreshTokenValidityDuration, e.RefreshTokenValidityDuration.Duration)
	overlay(&cfg.BcryptCost, e.BcryptCost)
	overlay(&cfg.SessionBackend, e.SessionBackend)
	overlay(&cfg.RedisAddr, e.RedisAddr)
	overlay(&cfg.RedisPassword, e.RedisPassword)
	overlay(&cfg.RedisDB, e.RedisDB)
	overlay(&cfg.StoreTimeout, e.StoreTimeout.Duration)
	overlay(&cfg.S3RootUser, e.S3RootUser)
	overlay(&cfg.S3RootPassword, e.S3RootPassword)
	overlay(&cfg.S3Bucket, e.S3Bucket)
	overlay(&cfg.S3Region, e.S3Region)
	overlay(&cfg.S3BaseEndpoint, e.S3BaseEndpoint)
	if e.SecureCookies != "" {
		v, err := strconv.ParseBool(e.SecureCookies)
		if err != nil {
			return fmt.Errorf("parse env: VIDEOTUBE_SECURE_COOKIES: %w", err)
		}
		cfg.SecureCookies = v
	}

	return nil
}

// overlay copies v into dst unless v is the zero value.
func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
