package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/genre"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

const maxTitleWidth = 40

func newListCmd(a *app) *cobra.Command {
	var (
		search     string
		genreName  string
		read       string
		sortField  string
		descending bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books with optional search, filters and sort",
		Long: `List the catalog. --search matches title, author and publisher
(case-insensitive substring). --genre takes a label from 'shelf genres'.

Sort fields: ` + strings.Join(types.SortFields, ", "),
		Example: `  shelf list --search dune
  shelf list --genre Fantasy --read no --sort rating --desc`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := types.ParseReadState(read)
			if err != nil {
				return usagef("--read: %w", err)
			}
			filter := types.Filter{Search: search, Read: state}
			if g := strings.TrimSpace(genreName); g != "" && !strings.EqualFold(g, "all") {
				label, ok := genre.Lookup(g)
				if !ok {
					return usagef("--genre: unknown genre %q (see 'shelf genres')", g)
				}
				filter.Genre = label
			}

			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			books, err := backend.Query(filter, types.Sort{Field: sortField, Descending: descending})
			if err != nil {
				return fmt.Errorf("list books: %w", err)
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), books)
			}
			printBookTable(cmd.OutOrStdout(), books)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "text to find in title, author or publisher")
	cmd.Flags().StringVar(&genreName, "genre", "", "only books of this genre")
	cmd.Flags().StringVar(&read, "read", "all", "read status: all, yes, no")
	cmd.Flags().StringVar(&sortField, "sort", types.SortTitle, "sort field")
	cmd.Flags().BoolVar(&descending, "desc", false, "sort descending")
	return cmd
}

// printBookTable renders books as a table, highlighting books already
// read, followed by the catalog footer.
func printBookTable(w io.Writer, books []*types.Book) {
	r := lipgloss.NewRenderer(w)
	cellStyle := r.NewStyle().Padding(0, 1)
	headerStyle := cellStyle.Bold(true).Foreground(lipgloss.Color("12"))
	readStyle := cellStyle.Foreground(lipgloss.Color("10"))
	dimStyle := r.NewStyle().Foreground(lipgloss.Color("8"))

	readCount := 0
	rows := make([][]string, len(books))
	for i, b := range books {
		read := ""
		if b.Read {
			read = "✓"
			readCount++
		}
		rows[i] = []string{
			strconv.FormatInt(b.ID, 10),
			truncate(b.Title, maxTitleWidth),
			b.Author,
			b.Genre,
			formatYear(b.Year),
			read,
			formatRating(b.Rating),
		}
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		Headers("ID", "TITLE", "AUTHOR", "GENRE", "YEAR", "READ", "RATING").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(books) && books[row].Read:
				return readStyle
			default:
				return cellStyle
			}
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%s | %d read", plural(len(books), "book"), readCount)))
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
