package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/csvio"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a book with full details",
		Args:  exactArgs(1),
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

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), book)
			}
			printBook(cmd.OutOrStdout(), book)
			return nil
		},
	}
}

func printBook(w io.Writer, b *types.Book) {
	read := csvio.ReadNoLabel
	if b.Read {
		read = csvio.ReadYesLabel
	}
	fmt.Fprintf(w, "ID:         %d\n", b.ID)
	fmt.Fprintf(w, "Title:      %s\n", b.Title)
	fmt.Fprintf(w, "Author:     %s\n", b.Author)
	fmt.Fprintf(w, "Genre:      %s\n", b.Genre)
	fmt.Fprintf(w, "Year:       %s\n", formatYear(b.Year))
	fmt.Fprintf(w, "Publisher:  %s\n", b.Publisher)
	fmt.Fprintf(w, "Read:       %s\n", read)
	fmt.Fprintf(w, "Rating:     %s\n", formatRating(b.Rating))
	fmt.Fprintf(w, "Created At: %s\n", b.CreatedAt.Format(types.TimestampLayout))
	if b.Notes != "" {
		fmt.Fprintf(w, "\n%s\n", b.Notes)
	}
}

func formatYear(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

func formatRating(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}
