package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tierlist/internal/config"
	"github.com/idilsaglam/tierlist/internal/ui"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
		Args:  exactArgs(0, "tierlist config <init|path|show>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("usage: tierlist config <init|path|show>")
		},
	}
	cmd.AddCommand(newConfigInitCmd(app))
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file in effect",
		Args:  exactArgs(0, "tierlist config path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.cfgPath)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  exactArgs(0, "tierlist config show"),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := toml.Marshal(app.cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})
	return cmd
}

// newConfigInitCmd skips the root config load so that a broken file can
// be replaced with --force.
func newConfigInitCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample config",
		Args:  exactArgs(0, "tierlist config init [--force]"),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.ConfigPath
			if path == "" {
				path = strings.TrimSpace(os.Getenv("TIERLIST_CONFIG"))
			}
			var err error
			if path == "" {
				path, err = config.DefaultConfigPath()
			} else {
				path, err = config.ExpandPath(path)
			}
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat config: %w", err)
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			ui.OK("wrote " + path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
