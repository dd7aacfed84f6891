package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEditCmd(a *app) *cobra.Command {
	var f bookFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a book",
		Long: "Change the fields given as flags and keep the others. An empty\n" +
			"value clears an optional field, as in --year \"\".",
		Example: `  shelf edit 3 --read --rating 8`,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			book, err := backend.Get(id)
			if err != nil {
				return fmt.Errorf("get book %d: %w", id, err)
			}
			if err := f.apply(cmd, book, true); err != nil {
				return err
			}
			if err := backend.Update(id, book); err != nil {
				return fmt.Errorf("update book %d: %w", id, err)
			}
			a.log.Info("book updated", "id", id)

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), book)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated book %d: %s\n", id, book.Title)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
