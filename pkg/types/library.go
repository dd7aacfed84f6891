package types

import "errors"

// Store provides the book operations the import pipeline and the editor
// commands depend on. Every call is committed before it returns.
type Store interface {
	// Insert validates and stores a new book. The store assigns ID and
	// CreatedAt and writes them back into b.
	Insert(b *Book) (int64, error)

	// ExistsByTitleAuthor reports whether a book with the same title and
	// author exists, compared case-insensitively.
	ExistsByTitleAuthor(title, author string) (bool, error)

	// Get returns the book with the given ID or ErrNotFound.
	Get(id int64) (*Book, error)

	// Update rewrites every field except ID and CreatedAt.
	// Returns ErrNotFound if no book exists with that ID.
	Update(id int64, b *Book) error

	// Delete removes the book with the given ID.
	// Returns ErrNotFound if no book exists with that ID.
	Delete(id int64) error

	// Query returns the books matching filter in the requested order.
	// An empty result is an empty slice, never nil.
	Query(filter Filter, sort Sort) ([]*Book, error)
}

// Library is a Store with an attach/detach lifecycle.
type Library interface {
	Store

	// Attach opens the backend described by config, creating DataDir and
	// the schema if needed. Returns ErrAlreadyAttached if already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, operations return ErrLibraryDetached.
	Detach() error
}

// Library lifecycle errors.
var (
	ErrLibraryDetached = errors.New("library is detached")
	ErrAlreadyAttached = errors.New("library is already attached")
)

// Store operation errors.
var (
	ErrNotFound    = errors.New("book not found")
	ErrInvalidID   = errors.New("invalid book ID")
	ErrInvalidData = errors.New("invalid book data")
	ErrInvalidSort = errors.New("invalid sort field")
)
