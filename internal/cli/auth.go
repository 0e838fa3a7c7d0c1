package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tierlist/internal/auth"
	"github.com/idilsaglam/tierlist/internal/ui"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the AniList access token",
		Args:  exactArgs(0, "tierlist auth <login|logout|status>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("usage: tierlist auth <login|logout|status>")
		},
	}
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  exactArgs(0, "tierlist auth logout"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.DeleteToken(); err != nil {
				return err
			}
			ui.OK("logged out")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from",
		Args:  exactArgs(0, "tierlist auth status"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := auth.GetToken()
			if err != nil {
				return err
			}
			if ti == nil {
				ui.Info("not logged in (searches are anonymous)")
				return nil
			}
			now := time.Now()
			line := fmt.Sprintf("logged in via %s", ti.Source)
			switch {
			case ti.Expired(now):
				line += ui.C(ui.Current().Error, ", token expired "+ui.Ago(*ti.ExpiresAt, now))
			case ti.ExpiresAt != nil:
				line += ", expires " + ui.Ago(*ti.ExpiresAt, now)
			}
			ui.Info(line)
			return nil
		},
	})
	return cmd
}

func newLoginCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "login [token]",
		Short: "Save an AniList token (read from stdin when omitted)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usagef("usage: tierlist auth login [token]")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				sc := bufio.NewScanner(cmd.InOrStdin())
				if sc.Scan() {
					token = sc.Text()
				}
				if err := sc.Err(); err != nil {
					return fmt.Errorf("read token: %w", err)
				}
			}
			var expires *time.Time
			if ttl > 0 {
				t := time.Now().Add(ttl).UTC()
				expires = &t
			}
			if err := auth.SetToken(strings.TrimSpace(token), expires); err != nil {
				return err
			}
			path, _ := auth.CredentialsPath()
			ui.OK("token saved to " + path)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "expires-in", 0, "Token lifetime, e.g. 8760h")
	return cmd
}
