package cli

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/genre"
	"github.com/mesh-intelligence/shelf/internal/importer"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// bookFlags holds the record editor flags shared by add and edit.
type bookFlags struct {
	title     string
	author    string
	genre     string
	year      string
	publisher string
	read      bool
	rating    string
	notes     string
}

func (f *bookFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.title, "title", "", "book title")
	fs.StringVar(&f.author, "author", "", "book author")
	fs.StringVar(&f.genre, "genre", "", "genre (see 'shelf genres')")
	fs.StringVar(&f.year, "year", "", "publication year")
	fs.StringVar(&f.publisher, "publisher", "", "publisher")
	fs.BoolVar(&f.read, "read", false, "mark the book as read")
	fs.StringVar(&f.rating, "rating", "", "rating from 0 to 10")
	fs.StringVar(&f.notes, "notes", "", "free-form notes")
}

// apply copies the flags onto b. With onlyChanged set, flags the user did
// not pass leave b untouched. All problems are reported together as one
// *types.ValidationError.
func (f *bookFlags) apply(cmd *cobra.Command, b *types.Book, onlyChanged bool) error {
	set := func(name string) bool {
		return !onlyChanged || cmd.Flags().Changed(name)
	}
	ve := &types.ValidationError{Fields: map[string]string{}}

	if set("title") {
		b.Title = strings.TrimSpace(f.title)
	}
	if set("author") {
		b.Author = strings.TrimSpace(f.author)
	}
	if set("genre") {
		name := strings.TrimSpace(f.genre)
		if label, ok := genre.Lookup(name); ok {
			b.Genre = label
		} else if name != "" {
			ve.Fields["genre"] = "must be one of the labels listed by 'shelf genres'"
		} else {
			b.Genre = ""
		}
	}
	if set("year") {
		year, err := parseOptionalInt(f.year)
		if err != nil {
			ve.Fields["year"] = "must be an integer"
		} else {
			b.Year = year
		}
	}
	if set("publisher") {
		b.Publisher = strings.TrimSpace(f.publisher)
	}
	if set("read") {
		b.Read = f.read
	}
	if set("rating") {
		rating, err := parseOptionalRating(f.rating)
		if err != nil {
			ve.Fields["rating"] = "must be a number from 0 to 10"
		} else {
			b.Rating = rating
		}
	}
	if set("notes") {
		b.Notes = strings.TrimSpace(f.notes)
	}

	if err := b.Validate(); err != nil {
		var bve *types.ValidationError
		if !errors.As(err, &bve) {
			return err
		}
		for field, msg := range bve.Fields {
			if _, seen := ve.Fields[field]; !seen {
				ve.Fields[field] = msg
			}
		}
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// parseOptionalInt returns nil for a blank value.
func parseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := importer.ParseInteger(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseOptionalRating returns nil for a blank value. Numbers are read as
// the import reads them.
func parseOptionalRating(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	r, err := importer.ParseDecimal(s)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(r) || r < types.MinRating || r > types.MaxRating {
		return nil, strconv.ErrRange
	}
	return &r, nil
}
