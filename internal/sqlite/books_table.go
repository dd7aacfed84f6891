// This file implements the book operations of the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Insert validates b, stores it and writes the assigned ID and CreatedAt
// back into b. Title and author are stored trimmed.
func (b *Backend) Insert(book *types.Book) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.conn()
	if err != nil {
		return 0, err
	}
	if err := book.Validate(); err != nil {
		return 0, err
	}
	trimRequired(book)

	createdAt := time.Now().Format(types.TimestampLayout)
	res, err := db.Exec(
		"INSERT INTO books (title, author, genre, year, publisher, is_read, rating, notes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		book.Title, book.Author, book.Genre, nullInt(book.Year), nullString(book.Publisher),
		book.Read, nullFloat(book.Rating), nullString(book.Notes), createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading book id: %w", err)
	}

	book.ID = id
	book.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ExistsByTitleAuthor reports whether a book with the given title and author
// exists, comparing with SQLite LOWER on both sides.
func (b *Backend) ExistsByTitleAuthor(title, author string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.conn()
	if err != nil {
		return false, err
	}

	var one int
	err = db.QueryRow(
		"SELECT 1 FROM books WHERE LOWER(title) = LOWER(?) AND LOWER(author) = LOWER(?) LIMIT 1",
		title, author,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking duplicate: %w", err)
	}
	return true, nil
}

// Get retrieves a book by ID.
func (b *Backend) Get(id int64) (*types.Book, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, types.ErrInvalidID
	}

	book, err := scanBook(db.QueryRow("SELECT "+bookColumns+" FROM books WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting book %d: %w", id, err)
	}
	return book, nil
}

// Update rewrites every field of the book except ID and CreatedAt.
func (b *Backend) Update(id int64, book *types.Book) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.conn()
	if err != nil {
		return err
	}
	if id <= 0 {
		return types.ErrInvalidID
	}
	if err := book.Validate(); err != nil {
		return err
	}
	trimRequired(book)

	res, err := db.Exec(
		"UPDATE books SET title = ?, author = ?, genre = ?, year = ?, publisher = ?, is_read = ?, rating = ?, notes = ? WHERE id = ?",
		book.Title, book.Author, book.Genre, nullInt(book.Year), nullString(book.Publisher),
		book.Read, nullFloat(book.Rating), nullString(book.Notes), id,
	)
	if err != nil {
		return fmt.Errorf("updating book %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating book %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	book.ID = id
	return nil
}

// Delete removes a book by ID.
func (b *Backend) Delete(id int64) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.conn()
	if err != nil {
		return err
	}
	if id <= 0 {
		return types.ErrInvalidID
	}

	res, err := db.Exec("DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting book %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting book %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Query returns the books matching filter, ordered by sort with id as the
// tiebreaker.
func (b *Backend) Query(filter types.Filter, sort types.Sort) ([]*types.Book, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	field, err := sort.Column()
	if err != nil {
		return nil, err
	}
	column := sortColumns[field]

	query := "SELECT " + bookColumns + " FROM books WHERE 1=1"
	var args []any

	if search := strings.TrimSpace(filter.Search); search != "" {
		p := "%" + search + "%"
		query += " AND (title LIKE ? OR author LIKE ? OR publisher LIKE ?)"
		args = append(args, p, p, p)
	}
	if filter.Genre != "" {
		query += " AND genre = ?"
		args = append(args, filter.Genre)
	}
	switch filter.Read {
	case types.ReadYes:
		query += " AND is_read = 1"
	case types.ReadNo:
		query += " AND is_read = 0"
	}

	direction := "ASC"
	if sort.Descending {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	books := []*types.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}
	return books, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanBook converts one row selected with bookColumns into a *types.Book.
func scanBook(row rowScanner) (*types.Book, error) {
	var (
		book      types.Book
		year      sql.NullInt64
		publisher sql.NullString
		isRead    int64
		rating    sql.NullFloat64
		notes     sql.NullString
		createdAt string
	)
	if err := row.Scan(&book.ID, &book.Title, &book.Author, &book.Genre,
		&year, &publisher, &isRead, &rating, &notes, &createdAt); err != nil {
		return nil, err
	}
	if year.Valid {
		y := int(year.Int64)
		book.Year = &y
	}
	if rating.Valid {
		r := rating.Float64
		book.Rating = &r
	}
	book.Publisher = publisher.String
	book.Notes = notes.String
	book.Read = isRead != 0

	var err error
	book.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(types.TimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at %q: %w", s, err)
	}
	return t, nil
}

func trimRequired(book *types.Book) {
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	book.Genre = strings.TrimSpace(book.Genre)
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
