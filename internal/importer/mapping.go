// Package importer maps CSV rows onto books: it proposes a column for each
// book field, checks the confirmed mapping, and inserts the rows.
package importer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Field is a logical book field that a CSV column can be mapped to.
type Field string

// Mappable fields.
const (
	FieldTitle     Field = "title"
	FieldAuthor    Field = "author"
	FieldGenre     Field = "genre"
	FieldYear      Field = "year"
	FieldPublisher Field = "publisher"
	FieldRead      Field = "read"
	FieldRating    Field = "rating"
	FieldNotes     Field = "notes"
)

// Fields lists every mappable field in display order.
var Fields = []Field{
	FieldTitle, FieldAuthor, FieldGenre, FieldYear,
	FieldPublisher, FieldRead, FieldRating, FieldNotes,
}

// Ignored is the mapping value for a field that takes no column.
const Ignored = ""

// Row is one CSV line keyed by header.
type Row = map[string]string

// FieldMapping assigns each field a column header or Ignored.
// Missing keys are Ignored.
type FieldMapping map[Field]string

// synonyms lists, per field, the lower-cased tokens that identify a header.
var synonyms = map[Field][]string{
	FieldTitle:     {"titulo", "title", "nome", "name", "livro", "book"},
	FieldAuthor:    {"autor", "author", "escritor", "writer"},
	FieldGenre:     {"genero", "genre", "categoria", "category", "tipo"},
	FieldYear:      {"ano", "year", "ano_publicacao", "published"},
	FieldPublisher: {"editora", "publisher", "editora/publisher"},
	FieldRead:      {"lido", "read", "lido?", "ja lido", "concluido"},
	FieldRating:    {"nota", "rating", "avaliacao", "score", "pontuacao"},
	FieldNotes:     {"obs", "observacoes", "notes", "notas", "comentarios"},
}

// normalizeHeader lower-cases h and replaces spaces with underscores.
func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(h), " ", "_")
}

// AutoDetect returns the first header, in CSV order, whose normalized form
// contains one of field's synonyms, or Ignored.
func AutoDetect(field Field, headers []string) string {
	tokens := synonyms[field]
	for _, h := range headers {
		nh := normalizeHeader(h)
		for _, syn := range tokens {
			if strings.Contains(nh, syn) {
				return h
			}
		}
	}
	return Ignored
}

// DetectMapping runs AutoDetect for every field. Fields are detected
// independently, so two fields may propose the same column.
func DetectMapping(headers []string) FieldMapping {
	m := make(FieldMapping, len(Fields))
	for _, f := range Fields {
		m[f] = AutoDetect(f, headers)
	}
	return m
}

// ParseField resolves a field name, ignoring case.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	if slices.Contains(Fields, f) {
		return f, nil
	}
	return "", types.NewValidationError("mapping", fmt.Sprintf("has unknown field %q", name))
}

// ApplyOverrides applies user choices of the form "field=Column". An empty
// column ("field=") sets the field to Ignored.
func (m FieldMapping) ApplyOverrides(overrides []string) error {
	for _, o := range overrides {
		name, column, ok := strings.Cut(o, "=")
		if !ok {
			return types.NewValidationError("mapping", fmt.Sprintf("override %q is not field=column", o))
		}
		f, err := ParseField(name)
		if err != nil {
			return err
		}
		m[f] = strings.TrimSpace(column)
	}
	return nil
}

// Column returns the header mapped to f, or Ignored.
func (m FieldMapping) Column(f Field) string {
	return m[f]
}

// Confirm checks that the mapping can run: title and author must be mapped,
// and every mapped column must be one of headers.
func (m FieldMapping) Confirm(headers []string) error {
	ve := &types.ValidationError{Fields: map[string]string{}}
	for _, f := range []Field{FieldTitle, FieldAuthor} {
		if m.Column(f) == Ignored {
			ve.Fields[string(f)] = "must be mapped to a column"
		}
	}
	if headers != nil {
		for _, f := range Fields {
			col := m.Column(f)
			if col != Ignored && !slices.Contains(headers, col) {
				ve.Fields[string(f)] = fmt.Sprintf("is mapped to unknown column %q", col)
			}
		}
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}
