package importer

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/shelf/internal/logger"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Store is the part of types.Store the import needs. Each Insert must be
// visible to the next ExistsByTitleAuthor call.
type Store interface {
	ExistsByTitleAuthor(title, author string) (bool, error)
	Insert(b *types.Book) (int64, error)
}

// Options controls Run.
type Options struct {
	// SkipDuplicates skips rows whose title and author match an existing
	// book, including books inserted earlier in the same run.
	SkipDuplicates bool
	Logger         *slog.Logger
}

// Result counts the outcome of every row of a run.
type Result struct {
	SessionID        string `json:"session_id"`
	Inserted         int    `json:"inserted"`
	SkippedDuplicate int    `json:"skipped_duplicate"`
	SkippedInvalid   int    `json:"skipped_invalid"`
}

// Run inserts rows into store according to mapping, in input order.
//
// The mapping must map title and author; otherwise Run returns a
// *types.ValidationError and inserts nothing. Rows with a blank title or
// author are counted in SkippedInvalid; duplicates in SkippedDuplicate. A
// malformed year or rating leaves that field empty and never skips the row.
// A store error stops the run and is returned with the counts so far.
func Run(store Store, rows []Row, mapping FieldMapping, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	res := Result{SessionID: newSessionID()}
	if err := mapping.Confirm(nil); err != nil {
		return res, err
	}
	log = log.With("session", res.SessionID)
	log.Info("import started", "rows", len(rows), "skip_duplicates", opts.SkipDuplicates)

	for i, row := range rows {
		line := i + 2 // header is line 1

		title, _ := mapping.value(row, FieldTitle)
		author, _ := mapping.value(row, FieldAuthor)
		if title == "" || author == "" {
			res.SkippedInvalid++
			log.Debug("row skipped: missing title or author", "line", line)
			continue
		}

		if opts.SkipDuplicates {
			exists, err := store.ExistsByTitleAuthor(title, author)
			if err != nil {
				return res, fmt.Errorf("line %d: %w", line, err)
			}
			if exists {
				res.SkippedDuplicate++
				log.Debug("row skipped: duplicate", "line", line, "title", title, "author", author)
				continue
			}
		}

		book := mapping.book(row, title, author)
		if _, err := store.Insert(book); err != nil {
			return res, fmt.Errorf("line %d: inserting %q: %w", line, title, err)
		}
		res.Inserted++
	}

	log.Info("import finished",
		"inserted", res.Inserted,
		"skipped_duplicate", res.SkippedDuplicate,
		"skipped_invalid", res.SkippedInvalid,
	)
	return res, nil
}

// book resolves every mapped field of row into a new Book.
func (m FieldMapping) book(row Row, title, author string) *types.Book {
	b := &types.Book{Title: title, Author: author}
	b.Genre = parseGenre(m.value(row, FieldGenre))
	b.Year = parseYear(m.value(row, FieldYear))
	b.Read = parseRead(m.value(row, FieldRead))
	b.Rating = parseRating(m.value(row, FieldRating))
	b.Publisher, _ = m.value(row, FieldPublisher)
	b.Notes, _ = m.value(row, FieldNotes)
	return b
}

// newSessionID returns a UUID v7, falling back to v4.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
