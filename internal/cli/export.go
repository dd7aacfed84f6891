package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/csvio"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every book to a CSV file",
		Long: "Write the whole catalog, ordered by title, to a UTF-8 CSV file that\n" +
			"spreadsheets open directly. The default file name is\n" +
			"shelf_YYYYMMDD_HHMM.csv in the current directory.",
		Args: maximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := csvio.DefaultExportName(time.Now())
			if len(args) == 1 {
				path = args[0]
			}

			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			books, err := backend.Query(types.Filter{}, types.Sort{Field: types.SortTitle})
			if err != nil {
				return fmt.Errorf("list books: %w", err)
			}
			if err := csvio.Export(path, books); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			a.log.Info("catalog exported", "path", path, "books", len(books))

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"path": path, "books": len(books)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", plural(len(books), "book"), path)
			return nil
		},
	}
}
