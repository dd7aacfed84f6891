package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// Read errors. Each one aborts an import before any row is processed.
var (
	ErrNoHeader = errors.New("file has no header row")
	ErrNoRows   = errors.New("file has no data rows")
)

// ReadOptions controls ReadFile. Zero values select the defaults.
type ReadOptions struct {
	// Encodings are tried in order; nil means DefaultEncodings.
	Encodings []Encoding
	// Delimiter separates fields; zero means ','.
	Delimiter rune
}

// Table is a fully buffered CSV file.
type Table struct {
	Path     string
	Encoding string
	Headers  []string
	// Rows maps each header to its cell. Cells missing from a short line
	// read as "". When headers repeat, the rightmost column wins.
	Rows []map[string]string
}

// ParseDelimiter validates a configured delimiter string.
func ParseDelimiter(s string) (rune, error) {
	if s == "" {
		return ',', nil
	}
	if s == `\t` || s == "tab" {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character", s)
	}
	return r, nil
}

// ReadFile loads path completely, detects its encoding and parses it as CSV
// with a header row.
func ReadFile(path string, opts ReadOptions) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	t, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	t.Path = path
	return t, nil
}

// Parse decodes and parses raw file contents.
func Parse(data []byte, opts ReadOptions) (*Table, error) {
	candidates := opts.Encodings
	if candidates == nil {
		candidates = DefaultEncodings()
	}
	enc, err := DetectEncoding(data, candidates)
	if err != nil {
		return nil, err
	}
	text, err := enc.Decode(data)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(text))
	if opts.Delimiter != 0 {
		r.Comma = opts.Delimiter
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	headers := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else if _, ok := row[h]; !ok {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	return &Table{
		Encoding: enc.Name,
		Headers:  headers,
		Rows:     rows,
	}, nil
}
