package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tierlist/internal/model"
	"github.com/idilsaglam/tierlist/internal/ui"
)

// itemFlags are shared by add and edit.
type itemFlags struct {
	title       string
	status      string
	tier        string
	rating      float64
	clearRating bool
	cover       string
}

func (f *itemFlags) bind(cmd *cobra.Command, withTitle bool) {
	if withTitle {
		cmd.Flags().StringVar(&f.title, "title", "", "New title")
	}
	cmd.Flags().StringVar(&f.status, "status", "", "Watch status (planned|watching|completed|dropped)")
	cmd.Flags().StringVar(&f.tier, "tier", "", "Tier label, or unrated")
	cmd.Flags().Float64Var(&f.rating, "rating", 0, "Score between 0 and 10")
	cmd.Flags().StringVar(&f.cover, "cover", "", "Cover image URL")
}

func checkStatus(raw string) (string, error) {
	s, ok := model.ParseStatus(raw)
	if !ok {
		return "", usagef("--status: unknown status %q (planned|watching|completed|dropped)", raw)
	}
	return string(s), nil
}

func checkTier(raw string, ranks model.Ranks) (string, error) {
	t := model.ParseTier(raw, ranks)
	if t == model.TierUnrated && !strings.EqualFold(strings.TrimSpace(raw), string(model.TierUnrated)) {
		return "", usagef("tier: unknown tier %q", raw)
	}
	return string(t), nil
}

func checkRating(v float64) (*float64, error) {
	if v < 0 || v > 10 {
		return nil, usagef("--rating: must be between 0 and 10")
	}
	return &v, nil
}

func newAddCmd(app *App) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add an entry",
		Args: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(strings.Join(args, " ")) == "" {
				return usagef("usage: tierlist add <title...>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			d := model.Draft{Title: strings.Join(args, " "), CoverURL: f.cover}
			if cmd.Flags().Changed("status") {
				if d.Status, err = checkStatus(f.status); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("tier") {
				if d.Tier, err = checkTier(f.tier, repo.Ranks()); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("rating") {
				if d.Rating, err = checkRating(f.rating); err != nil {
					return err
				}
			}
			it, ok := repo.Add(d)
			if !ok {
				return usagef("add: empty title")
			}
			ui.OK("added " + describe(it, shortIDs(repo.Snapshot())))
			return nil
		},
	}
	f.bind(cmd, false)
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an entry",
		Args:  exactArgs(1, "tierlist edit <id> [--title ..] [--status ..] [--tier ..] [--rating ..|--clear-rating] [--cover ..]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			var p model.Patch
			flags := cmd.Flags()
			if flags.Changed("title") {
				if strings.TrimSpace(f.title) == "" {
					return usagef("--title: empty title")
				}
				p.Title = &f.title
			}
			if flags.Changed("status") {
				s, err := checkStatus(f.status)
				if err != nil {
					return err
				}
				p.Status = &s
			}
			if flags.Changed("tier") {
				t, err := checkTier(f.tier, repo.Ranks())
				if err != nil {
					return err
				}
				p.Tier = &t
			}
			if flags.Changed("rating") && f.clearRating {
				return usagef("--rating and --clear-rating are mutually exclusive")
			}
			if flags.Changed("rating") {
				if p.Rating, err = checkRating(f.rating); err != nil {
					return err
				}
			}
			p.ClearRating = f.clearRating
			if flags.Changed("cover") {
				p.CoverURL = &f.cover
			}
			if p.Empty() {
				return usagef("edit: nothing to change")
			}

			it, err := repo.Resolve(args[0])
			if err != nil {
				return err
			}
			repo.Update(it.ID, p)
			it, _ = repo.Get(it.ID)
			ui.OK("updated " + describe(it, shortIDs(repo.Snapshot())))
			return nil
		},
	}
	f.bind(cmd, true)
	cmd.Flags().BoolVar(&f.clearRating, "clear-rating", false, "Remove the score")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "move <id> <tier>",
		Aliases: []string{"mv"},
		Short:   "Move an entry to another tier",
		Args:    exactArgs(2, "tierlist move <id> <tier>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			tier, err := checkTier(args[1], repo.Ranks())
			if err != nil {
				return err
			}
			it, err := repo.Resolve(args[0])
			if err != nil {
				return err
			}
			repo.MoveToTier(it.ID, tier)
			it, _ = repo.Get(it.ID)
			ui.OK("moved " + describe(it, shortIDs(repo.Snapshot())))
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an entry",
		Args:    exactArgs(1, "tierlist rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			it, err := repo.Resolve(args[0])
			if err != nil {
				return err
			}
			ids := shortIDs(repo.Snapshot())
			repo.Delete(it.ID)
			ui.OK("removed " + describe(it, ids))
			return nil
		},
	}
}
