package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tierlist/internal/transfer"
	"github.com/idilsaglam/tierlist/internal/ui"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file|-]",
		Short: "Write the collection to a JSON backup",
		Long:  "Write the collection to a JSON backup. Defaults to " + transfer.BackupFileName + "; use - for stdout.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usagef("usage: tierlist export [file|-]")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			path := transfer.BackupFileName
			if len(args) == 1 {
				path = args[0]
			}
			items := repo.Snapshot()
			if path == "-" {
				doc, err := transfer.Export(items)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
				return err
			}
			if err := transfer.ExportFile(path, items); err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("exported %d entries to %s", len(items), path))
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the collection with a JSON backup",
		Args:  exactArgs(1, "tierlist import <file|->"),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			var res transfer.Result
			if args[0] == "-" {
				doc, rerr := io.ReadAll(cmd.InOrStdin())
				if rerr != nil {
					return fmt.Errorf("read stdin: %w", rerr)
				}
				res, err = transfer.Import(doc, repo)
			} else {
				res, err = transfer.ImportFile(args[0], repo)
			}
			if err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("imported %d entries", res.Imported))
			return nil
		},
	}
}
