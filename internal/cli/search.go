package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tierlist/internal/model"
	"github.com/idilsaglam/tierlist/internal/ui"
)

func newSearchCmd(app *App) *cobra.Command {
	var pick int
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Look titles up on AniList",
		Args: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(strings.Join(args, " ")) == "" {
				return usagef("usage: tierlist search <query...> [--add n]")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.cfg.Search.Enabled {
				return fmt.Errorf("search is disabled in %s", app.cfgPath)
			}
			query := strings.TrimSpace(strings.Join(args, " "))
			if utf8.RuneCountInString(query) < app.cfg.Search.MinQueryLength {
				return usagef("search: query must be at least %d characters", app.cfg.Search.MinQueryLength)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.SearchTimeout())
			defer cancel()
			results, err := app.anilist().Query(ctx, query)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			if len(results) == 0 {
				ui.Info(ui.C(ui.Current().Muted, "no matches"))
				return nil
			}

			if pick != 0 {
				if pick < 1 || pick > len(results) {
					return usagef("--add: pick a result between 1 and %d", len(results))
				}
				repo, err := app.open(cmd.Context())
				if err != nil {
					return err
				}
				var d model.Draft
				results[pick-1].ApplyTo(&d)
				it, _ := repo.Add(d)
				ui.OK("added " + describe(it, shortIDs(repo.Snapshot())))
				return nil
			}

			rows := make([][]string, 0, len(results))
			for i, c := range results {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					truncate(c.Title, maxTitle),
					ui.Optional(c.Year),
					ui.Optional(c.Episodes),
					strings.Join(c.Genres[:min(3, len(c.Genres))], ", "),
				})
			}
			ui.Info(ui.Table(
				[]string{"#", "Title", "Year", "Eps", "Genres"},
				rows,
				[]ui.Align{ui.AlignRight, ui.AlignLeft, ui.AlignRight, ui.AlignRight, ui.AlignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&pick, "add", 0, "Add the n-th result to the collection")
	return cmd
}
