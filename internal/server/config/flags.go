package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/videotube/internal/flagx"
	"github.com/dmitrijs2005/videotube/internal/timex"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":8000")
//	-g string   gRPC health bind address
//	-d string   PostgreSQL DSN
//	-t string   access token expiry ("15m", "1d")
//	-r string   refresh token expiry ("10d")
//	-k int      bcrypt cost
//	-s string   session backend: postgres, redis or memory
//	-l string   log level
//
// Signing secrets are deliberately not accepted on the command line, where
// they would be visible in the process list.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-t", "-r", "-k", "-s", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "HTTP address and port to run server")
	fs.StringVar(&cfg.GRPCHealthAddr, "g", cfg.GRPCHealthAddr, "gRPC health address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	access := fs.String("t", "", "access token expiry")
	refresh := fs.String("r", "", "refresh token expiry")
	fs.IntVar(&cfg.BcryptCost, "k", cfg.BcryptCost, "bcrypt cost")
	fs.StringVar(&cfg.SessionBackend, "s", cfg.SessionBackend, "session backend")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if *access != "" {
		d, err := timex.ParseDuration(*access)
		if err != nil {
			return fmt.Errorf("parse flags: -t: %w", err)
		}
		cfg.AccessTokenValidityDuration = d
	}
	if *refresh != "" {
		d, err := timex.ParseDuration(*refresh)
		if err != nil {
			return fmt.Errorf("parse flags: -r: %w", err)
		}
		cfg.RefreshTokenValidityDuration = d
	}

	return nil
}
