package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/videotube/internal/flagx"
	"github.com/dmitrijs2005/videotube/internal/timex"
)

// jsonConfig is the on-disk shape of the config file. Durations accept
// "15m", "10d" or integer nanoseconds. Absent keys leave the current value
// untouched.
type jsonConfig struct {
	HTTPAddr       *string `json:"http_addr"`
	GRPCHealthAddr *string `json:"grpc_health_addr"`
	DatabaseDSN    *string `json:"database_dsn"`
	LogLevel       *string `json:"log_level"`

	AccessTokenSecret            *string         `json:"access_token_secret"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_expiry"`
	RefreshTokenSecret           *string         `json:"refresh_token_secret"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_expiry"`
	BcryptCost                   *int            `json:"bcrypt_cost"`

	SessionBackend *string         `json:"session_backend"`
	RedisAddr      *string         `json:"redis_addr"`
	RedisPassword  *string         `json:"redis_password"`
	RedisDB        *int            `json:"redis_db"`
	StoreTimeout   *timex.Duration `json:"store_timeout"`

	S3RootUser     *string `json:"s3_root_user"`
	S3RootPassword *string `json:"s3_root_password"`
	S3Bucket       *string `json:"s3_bucket"`
	S3Region       *string `json:"s3_region"`
	S3BaseEndpoint *string `json:"s3_base_endpoint"`

	SecureCookies *bool `json:"secure_cookies"`
}

// parseJSON overlays values from the file named by -c/-config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.HTTPAddr, c.HTTPAddr)
	setString(&cfg.GRPCHealthAddr, c.GRPCHealthAddr)
	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.LogLevel, c.LogLevel)
	setString(&cfg.AccessTokenSecret, c.AccessTokenSecret)
	setString(&cfg.RefreshTokenSecret, c.RefreshTokenSecret)
	setString(&cfg.SessionBackend, c.SessionBackend)
	setString(&cfg.RedisAddr, c.RedisAddr)
	setString(&cfg.RedisPassword, c.RedisPassword)
	setString(&cfg.S3RootUser, c.S3RootUser)
	setString(&cfg.S3RootPassword, c.S3RootPassword)
	setString(&cfg.S3Bucket, c.S3Bucket)
	setString(&cfg.S3Region, c.S3Region)
	setString(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		cfg.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.StoreTimeout != nil {
		cfg.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.BcryptCost != nil {
		cfg.BcryptCost = *c.BcryptCost
	}
	if c.RedisDB != nil {
		cfg.RedisDB = *c.RedisDB
	}
	if c.SecureCookies != nil {
		cfg.SecureCookies = *c.SecureCookies
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
