package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// ExportHeader is the fixed first line of every export.
var ExportHeader = []string{
	"Title", "Author", "Genre", "Year", "Publisher",
	"Read", "Rating", "Notes", "Created At",
}

// Read flag labels used in exports.
const (
	ReadYesLabel = "Yes"
	ReadNoLabel  = "No"
)

const utf8BOM = "\ufeff"

// DefaultExportName returns the suggested export file name for now.
func DefaultExportName(now time.Time) string {
	return fmt.Sprintf("shelf_%s.csv", now.Format("20060102_1504"))
}

// Export writes books to path as UTF-8 CSV with a byte-order mark. The file
// is replaced atomically. Books are written in the order given.
func Export(path string, books []*types.Book) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return WriteCSV(w, books)
	})
}

// WriteCSV writes the BOM, ExportHeader and one line per book to w.
func WriteCSV(w io.Writer, books []*types.Book) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, b := range books {
		if err := cw.Write(exportRecord(b)); err != nil {
			return fmt.Errorf("writing book %d: %w", b.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportRecord(b *types.Book) []string {
	var year, rating, created string
	if b.Year != nil {
		year = strconv.Itoa(*b.Year)
	}
	if b.Rating != nil {
		rating = strconv.FormatFloat(*b.Rating, 'f', -1, 64)
	}
	if !b.CreatedAt.IsZero() {
		created = b.CreatedAt.Format(types.TimestampLayout)
	}
	read := ReadNoLabel
	if b.Read {
		read = ReadYesLabel
	}
	return []string{
		b.Title, b.Author, b.Genre, year, b.Publisher,
		read, rating, b.Notes, created,
	}
}

// writeFileAtomic writes through a temp file in the target directory, then
// fsyncs and renames it over path.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(fmt.Errorf("setting permissions: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
