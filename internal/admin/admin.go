// Package admin implements the operator commands of the videotube-admin
// binary: schema migration, account creation and secret generation.
package admin

import (
	"bufio"
	"context"
	"crypto/subtle"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/logging"
	"github.com/dmitrijs2005/videotube/internal/server/auth"
	"github.com/dmitrijs2005/videotube/internal/server/config"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/videotube/internal/server/services"
)

// secretBytes is the entropy of a generated signing secret.
const secretBytes = 32

var ErrUnknownCommand = errors.New("unknown command")

const usage = `usage: videotube-admin <command> [flags]

commands:
  migrate       apply pending database migrations
  create-user   create an account, prompting for the password
  gen-secret    print fresh access and refresh token secrets
`

// App runs a single admin command.
type App struct {
	in     *bufio.Reader
	out    io.Writer
	logger logging.Logger

	loadConfig func() (*config.Config, error)
	openRepos  func(c *config.Config) (repomanager.RepositoryManager, error)
}

func NewApp(in io.Reader, out io.Writer, l logging.Logger) *App {
	return &App{
		in:         bufio.NewReader(in),
		out:        out,
		logger:     l,
		loadConfig: config.LoadConfig,
		openRepos:  openRepositories,
	}
}

func openRepositories(c *config.Config) (repomanager.RepositoryManager, error) {
	if c.SessionBackend == config.SessionBackendMemory {
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	return repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
}

// Run dispatches args[0] to its command. Remaining args are the command's
// own flags; server configuration is read from the environment and the
// shared config flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUnknownCommand
	}

	switch args[0] {
	case "migrate":
		return a.migrate(ctx)
	case "create-user":
		return a.createUser(ctx, args[1:])
	case "gen-secret":
		return a.genSecret()
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

func (a *App) migrate(ctx context.Context) error {
	c, err := a.loadConfig()
	if err != nil {
		return err
	}
	repos, err := a.openRepos(c)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer repos.Close()

	if err := repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}

func (a *App) createUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(a.out)
	in := services.RegisterInput{}
	fs.StringVar(&in.UserName, "username", "", "username")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.Avatar, "avatar", "", "avatar reference")
	fs.StringVar(&in.CoverImage, "cover", "", "cover image reference")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prompts := []struct {
		field  *string
		prompt string
	}{
		{&in.UserName, "Username"},
		{&in.Email, "Email"},
		{&in.FullName, "Full name"},
		{&in.Avatar, "Avatar reference"},
	}
	for _, p := range prompts {
		if *p.field != "" {
			continue
		}
		v, err := getText(a.in, p.prompt, a.out)
		if err != nil {
			return err
		}
		*p.field = v
	}

	pw, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := getPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	if subtle.ConstantTimeCompare(pw, confirm) != 1 {
		return fmt.Errorf("%w: passwords do not match", common.ErrInvalidInput)
	}
	in.Password = string(pw)

	c, err := a.loadConfig()
	if err != nil {
		return err
	}
	repos, err := a.openRepos(c)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer repos.Close()

	us := services.NewUserService(services.Deps{
		Repos:        repos,
		Hasher:       auth.NewPasswordHasher(c.BcryptCost, 1),
		Tokens:       auth.NewTokenIssuer(c.AccessTokenSecret, c.RefreshTokenSecret, c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration),
		Logger:       a.logger,
		StoreTimeout: c.StoreTimeout,
	})
	u, err := us.Register(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created user %s (%s)\n", u.UserName, u.ID)
	return nil
}

func (a *App) genSecret() error {
	for _, name := range []string{"ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET"} {
		s, err := common.MakeRandHexString(secretBytes)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s=%s\n", name, s)
	}
	return nil
}
