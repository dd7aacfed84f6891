package csvio

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func ptr[T any](v T) *T { return &v }

func sampleBooks() []*types.Book {
	created := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	return []*types.Book{
		{ID: 2, Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Year: ptr(1965), Read: true, Rating: ptr(7.5), CreatedAt: created},
		{ID: 1, Title: "Emma", Author: "Jane Austen", Genre: "Romance", Publisher: "John Murray", Notes: "gift, 2019", CreatedAt: created},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleBooks()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"), "export starts with a BOM")

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, ExportHeader, records[0])
	assert.Equal(t, []string{"Dune", "Frank Herbert", "Science Fiction", "1965", "", "Yes", "7.5", "", "2024-03-09 14:05:07"}, records[1])
	assert.Equal(t, []string{"Emma", "Jane Austen", "Romance", "", "John Murray", "No", "", "gift, 2019", "2024-03-09 14:05:07"}, records[2])
	assert.Contains(t, out, "\r\n")
}

func TestExport_ReplacesFileAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, Export(path, sampleBooks()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\xef\xbb\xbfTitle,Author")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestExport_EmptyLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, Export(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffTitle,Author,Genre,Year,Publisher,Read,Rating,Notes,Created At\r\n", string(data))
}

func TestExport_MissingDirectory(t *testing.T) {
	err := Export(filepath.Join(t.TempDir(), "no", "such", "out.csv"), sampleBooks())
	assert.Error(t, err)
}

func TestDefaultExportName(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, "shelf_20261019_0830.csv", DefaultExportName(now))
}
