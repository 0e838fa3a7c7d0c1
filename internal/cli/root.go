package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tierlist/internal/auth"
	"github.com/idilsaglam/tierlist/internal/board"
	"github.com/idilsaglam/tierlist/internal/collection"
	"github.com/idilsaglam/tierlist/internal/config"
	"github.com/idilsaglam/tierlist/internal/logging"
	"github.com/idilsaglam/tierlist/internal/model"
	"github.com/idilsaglam/tierlist/internal/search"
	"github.com/idilsaglam/tierlist/internal/store"
	"github.com/idilsaglam/tierlist/internal/store/backend"
	"github.com/idilsaglam/tierlist/internal/tui"
	"github.com/idilsaglam/tierlist/internal/ui"
)

const closeTimeout = 5 * time.Second

// App carries root flags and the lazily opened collection.
type App struct {
	ConfigPath string
	Theme      string
	Color      string

	cfg       *config.Config
	cfgPath   string
	log       *log.Logger
	logCloser io.Closer
	store     store.Store
	repo      *collection.Repository
}

// usageError marks bad invocations; they exit with code 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// Execute runs the command tree and returns an exit code (0 ok, 1 error, 2 usage).
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := &App{}
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	ui.SetOutput(stdout, stderr)

	err := cmd.Execute()
	if cerr := app.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err == nil {
		return 0
	}
	ui.Fail(err.Error())
	var uerr usageError
	if errors.As(err, &uerr) {
		return 2
	}
	return 1
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tierlist",
		Short:         "Rank the anime you watched into tiers",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Open the interactive board
  tierlist

  # Scriptable commands
  tierlist add "Frieren" --tier S --rating 9.5
  tierlist ls --status watching
  tierlist move 0190 A
  tierlist export backup.json
`),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError{err}
	})

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config file (default ~/.config/tierlist/config.toml)")
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", "", "Color theme (classic|neon|mono)")
	cmd.PersistentFlags().StringVar(&app.Color, "color", "auto", "Colorize output (auto|always|never)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newAuthCmd(app))

	return cmd
}

func (app *App) setup() error {
	cfg, path, _, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	app.cfg, app.cfgPath = cfg, path

	theme := cfg.UI.Theme
	if app.Theme != "" {
		theme = app.Theme
	}
	ui.SetTheme(theme)
	switch app.Color {
	case "always":
		ui.SetColorForcing(true, false)
	case "never":
		ui.SetColorForcing(false, true)
	case "auto", "":
		ui.SetColorForcing(false, false)
	default:
		return usagef("--color: unsupported value %q (auto|always|never)", app.Color)
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	app.log, app.logCloser = logger, closer
	return nil
}

// open loads the collection from the configured backend on first use.
func (app *App) open(ctx context.Context) (*collection.Repository, error) {
	if app.repo != nil {
		return app.repo, nil
	}
	s, err := backend.Open(ctx, app.cfg)
	if err != nil {
		return nil, err
	}
	app.store = s
	logger := app.log.WithField("backend", app.cfg.Storage.Backend)
	app.repo = collection.Open(ctx, s, collection.Options{
		Ranks:         app.cfg.Ranks(),
		DefaultStatus: app.cfg.DefaultStatus(),
		Logger:        logger,
	})
	app.repo.Subscribe(func(items []model.Item) {
		logger.WithField("items", len(items)).Debug("collection changed")
	})
	return app.repo, nil
}

func (app *App) close() error {
	var errs []error
	if app.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		errs = append(errs, app.repo.Close(ctx))
		cancel()
		app.repo = nil
	}
	if app.store != nil {
		errs = append(errs, app.store.Close())
		app.store = nil
	}
	if app.logCloser != nil {
		errs = append(errs, app.logCloser.Close())
		app.logCloser = nil
	}
	return errors.Join(errs...)
}

func (app *App) layout() board.Layout {
	return board.Layout{Ranks: app.cfg.Ranks(), UnratedFirst: app.cfg.UnratedFirst()}
}

// anilist builds the raw client; provider wraps it for interactive use.
func (app *App) anilist() *search.AniList {
	return search.NewAniList(
		search.WithEndpoint(app.cfg.Search.Endpoint),
		search.WithPerPage(app.cfg.Search.PerPage),
		search.WithTimeout(app.cfg.SearchTimeout()),
		search.WithToken(auth.Token(time.Now())),
		search.WithLogger(app.log.WithField("component", "anilist")),
	)
}

func (app *App) provider() search.Provider {
	if !app.cfg.Search.Enabled {
		return nil
	}
	return search.Guard(app.anilist(), app.cfg.Search.MinQueryLength)
}

func runBoard(cmd *cobra.Command, app *App) error {
	repo, err := app.open(cmd.Context())
	if err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return tui.Run(tui.Options{
		Repo:           repo,
		Layout:         app.layout(),
		DefaultStatus:  app.cfg.DefaultStatus(),
		Provider:       app.provider(),
		MinQueryLength: app.cfg.Search.MinQueryLength,
		Debounce:       app.cfg.Debounce(),
		SearchTimeout:  app.cfg.SearchTimeout(),
		TransferDir:    wd,
		Logger:         app.log.WithField("component", "tui"),
	})
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}
