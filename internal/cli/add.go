package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var f bookFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Long: "Add a book to the catalog. Title, author and genre are required;\n" +
			"the genre must be one of the labels printed by 'shelf genres'.",
		Example: `  shelf add --title Dune --author "Frank Herbert" --genre "Science Fiction" --year 1965 --read --rating 9.5`,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			book := &types.Book{}
			if err := f.apply(cmd, book, false); err != nil {
				return err
			}

			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			id, err := backend.Insert(book)
			if err != nil {
				return fmt.Errorf("add book: %w", err)
			}
			a.log.Info("book added", "id", id)

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), book)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added book %d: %s\n", id, book.Title)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
