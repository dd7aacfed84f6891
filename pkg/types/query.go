package types

import "fmt"

// ReadState selects books by their read flag.
type ReadState int

// Read filter values. ReadAny is the zero value.
const (
	ReadAny ReadState = iota
	ReadYes
	ReadNo
)

// ParseReadState maps the filter words accepted by the CLI onto a ReadState.
func ParseReadState(s string) (ReadState, error) {
	switch s {
	case "", "all":
		return ReadAny, nil
	case "yes":
		return ReadYes, nil
	case "no":
		return ReadNo, nil
	default:
		return ReadAny, fmt.Errorf("invalid read filter %q (valid: all, yes, no)", s)
	}
}

// Filter narrows a Query. The zero value matches every book.
type Filter struct {
	// Search is matched as a substring against title, author and publisher.
	Search string
	// Genre matches the genre column exactly. Empty means any genre.
	Genre string
	Read  ReadState
}

// Sortable columns.
const (
	SortTitle     = "title"
	SortAuthor    = "author"
	SortGenre     = "genre"
	SortYear      = "year"
	SortPublisher = "publisher"
	SortRead      = "read"
	SortRating    = "rating"
	SortCreatedAt = "created_at"
)

// SortFields lists the accepted Sort.Field values.
var SortFields = []string{
	SortTitle, SortAuthor, SortGenre, SortYear,
	SortPublisher, SortRead, SortRating, SortCreatedAt,
}

// Sort orders a Query. The zero value sorts by title ascending.
type Sort struct {
	Field      string
	Descending bool
}

// Column returns the sort column, defaulting to title.
// Returns ErrInvalidSort for unknown fields.
func (s Sort) Column() (string, error) {
	if s.Field == "" {
		return SortTitle, nil
	}
	for _, f := range SortFields {
		if f == s.Field {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, s.Field)
}
