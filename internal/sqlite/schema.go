package sqlite

// Schema DDL. Statements are idempotent so Attach can run them against an
// existing database.
const (
	createBooks = `CREATE TABLE IF NOT EXISTS books (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    author TEXT NOT NULL,
    genre TEXT NOT NULL,
    year INTEGER,
    publisher TEXT,
    is_read INTEGER NOT NULL DEFAULT 0,
    rating REAL,
    notes TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);`
)

// Index DDL for the duplicate check and the list filters.
const (
	idxBooksTitleAuthor = `CREATE INDEX IF NOT EXISTS idx_books_title_author ON books(LOWER(title), LOWER(author));`
	idxBooksGenre       = `CREATE INDEX IF NOT EXISTS idx_books_genre ON books(genre);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createBooks,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxBooksTitleAuthor,
	idxBooksGenre,
}

// bookColumns is the SELECT list shared by every read, in scanBook order.
const bookColumns = "id, title, author, genre, year, publisher, is_read, rating, notes, created_at"

// sortColumns maps types.Sort fields onto column names.
var sortColumns = map[string]string{
	"title":      "title",
	"author":     "author",
	"genre":      "genre",
	"year":       "year",
	"publisher":  "publisher",
	"read":       "is_read",
	"rating":     "rating",
	"created_at": "created_at",
}
