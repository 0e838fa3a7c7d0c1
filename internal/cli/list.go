package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tierlist/internal/board"
	"github.com/idilsaglam/tierlist/internal/model"
)

func newListCmd(app *App) *cobra.Command {
	var (
		query  string
		status string
		flat   bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show the board grouped by tier",
		Args:    exactArgs(0, "tierlist ls [--query text] [--status s] [--flat]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			filter := board.Filter{Query: query}
			if cmd.Flags().Changed("status") {
				s, err := checkStatus(status)
				if err != nil {
					return err
				}
				filter.Status = model.Status(s)
			}
			items := repo.Snapshot()
			renderBoard(items, board.Project(items, filter, app.layout()), flat, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only titles containing text")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Only entries with this status")
	cmd.Flags().BoolVar(&flat, "flat", false, "One table instead of one per tier")
	return cmd
}
