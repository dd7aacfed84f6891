package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/csvio"
	"github.com/mesh-intelligence/shelf/internal/importer"
)

// importFlags holds the flags of the import command.
type importFlags struct {
	overrides       []string
	allowDuplicates bool
	dryRun          bool
	encodings       []string
	delimiter       string
}

// importReport is the JSON form of an import.
type importReport struct {
	File     string                `json:"file"`
	Encoding string                `json:"encoding"`
	Rows     int                   `json:"rows"`
	Mapping  importer.FieldMapping `json:"mapping"`
	DryRun   bool                  `json:"dry_run,omitempty"`
	Result   *importer.Result      `json:"result,omitempty"`
}

func newImportCmd(a *app) *cobra.Command {
	var f importFlags
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import books from a CSV file",
		Long: `Import books from a CSV file with a header row.

Each book field is matched to a column by its header name. The proposed
mapping is printed; change it with --map field=Column, or leave a field
out with --map field=. Title and author must be mapped.

Rows without a title or author are skipped. Rows whose title and author
match a book already in the catalog are skipped unless --allow-duplicates
is given.`,
		Example: `  shelf import books.csv --dry-run
  shelf import goodreads.csv --map rating="My Rating" --map genre=`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args[0], &f)
		},
	}
	fs := cmd.Flags()
	fs.StringArrayVar(&f.overrides, "map", nil, "map a field to a column as field=Column (repeatable)")
	fs.BoolVar(&f.allowDuplicates, "allow-duplicates", false, "insert rows even when the title and author already exist")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the column mapping and stop")
	fs.StringArrayVar(&f.encodings, "encoding", nil, "candidate encoding, tried in order (repeatable)")
	fs.StringVar(&f.delimiter, "delimiter", "", `field delimiter, a single character or "tab"`)
	return cmd
}

func (a *app) runImport(cmd *cobra.Command, path string, f *importFlags) error {
	opts, err := a.readOptions(f)
	if err != nil {
		return err
	}

	// The whole file is read and checked before any row is stored.
	table, err := csvio.ReadFile(path, opts)
	if err != nil {
		return fmt.Errorf("read CSV: %w", err)
	}
	a.log.Debug("csv read", "path", path, "encoding", table.Encoding, "rows", len(table.Rows))

	mapping := importer.DetectMapping(table.Headers)
	if err := mapping.ApplyOverrides(f.overrides); err != nil {
		return err
	}

	report := importReport{
		File:     path,
		Encoding: table.Encoding,
		Rows:     len(table.Rows),
		Mapping:  mapping,
		DryRun:   f.dryRun,
	}
	out := cmd.OutOrStdout()
	if !a.flags.jsonMode {
		printMapping(out, &report)
	}

	if err := mapping.Confirm(table.Headers); err != nil {
		return err
	}
	if f.dryRun {
		if a.flags.jsonMode {
			return writeJSON(out, report)
		}
		fmt.Fprintln(out, "dry run: nothing imported")
		return nil
	}

	skip := a.config.GetBool(cfgKeySkipDuplicates)
	if cmd.Flags().Changed("allow-duplicates") {
		skip = !f.allowDuplicates
	}

	backend, err := a.attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	res, err := importer.Run(backend, table.Rows, mapping, importer.Options{
		SkipDuplicates: skip,
		Logger:         a.log.With("file", path),
	})
	if err != nil {
		if res.Inserted > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s imported before the failure\n", plural(res.Inserted, "book"))
		}
		return fmt.Errorf("import: %w", err)
	}

	if a.flags.jsonMode {
		report.Result = &res
		return writeJSON(out, report)
	}
	fmt.Fprintln(out, importSummary(res))
	return nil
}

// readOptions merges the encoding and delimiter flags with config.yaml.
func (a *app) readOptions(f *importFlags) (csvio.ReadOptions, error) {
	names := f.encodings
	if len(names) == 0 {
		names = a.config.GetStringSlice(cfgKeyEncodings)
	}
	encodings, err := csvio.EncodingsByName(names)
	if err != nil {
		return csvio.ReadOptions{}, usageError{err}
	}

	delim := f.delimiter
	if delim == "" {
		delim = a.config.GetString(cfgKeyDelimiter)
	}
	comma, err := csvio.ParseDelimiter(delim)
	if err != nil {
		return csvio.ReadOptions{}, usageError{err}
	}
	return csvio.ReadOptions{Encodings: encodings, Delimiter: comma}, nil
}

func printMapping(w io.Writer, r *importReport) {
	fmt.Fprintf(w, "%s: %s, %s\n", r.File, r.Encoding, plural(r.Rows, "row"))
	for _, field := range importer.Fields {
		col := r.Mapping.Column(field)
		if col == importer.Ignored {
			col = "(ignored)"
		}
		fmt.Fprintf(w, "  %-10s <- %s\n", field, col)
	}
}

// importSummary formats the outcome of a run. Skip counts appear only when
// they are not zero.
func importSummary(res importer.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s imported", plural(res.Inserted, "book"))
	if res.SkippedDuplicate > 0 {
		fmt.Fprintf(&b, " (%s skipped)", plural(res.SkippedDuplicate, "duplicate"))
	}
	if res.SkippedInvalid > 0 {
		fmt.Fprintf(&b, " (%s without title/author skipped)", plural(res.SkippedInvalid, "row"))
	}
	return b.String()
}
