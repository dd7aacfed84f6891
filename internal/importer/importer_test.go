package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/internal/csvio"
	"github.com/mesh-intelligence/shelf/internal/genre"
	"github.com/mesh-intelligence/shelf/internal/sqlite"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// memStore keeps inserted books in memory.
type memStore struct {
	books     []*types.Book
	failAfter int // Insert fails once this many books are stored; 0 disables
}

func (s *memStore) ExistsByTitleAuthor(title, author string) (bool, error) {
	for _, b := range s.books {
		if strings.EqualFold(b.Title, title) && strings.EqualFold(b.Author, author) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Insert(b *types.Book) (int64, error) {
	if s.failAfter > 0 && len(s.books) >= s.failAfter {
		return 0, errors.New("disk full")
	}
	s.books = append(s.books, b)
	return int64(len(s.books)), nil
}

var duneRows = []Row{
	{"Title": "Dune", "Author": "Frank Herbert", "Year": "1965"},
	{"Title": "Dune", "Author": "Frank Herbert", "Year": "1965"},
}

var duneMapping = FieldMapping{FieldTitle: "Title", FieldAuthor: "Author", FieldYear: "Year"}

func TestRun_SkipDuplicates(t *testing.T) {
	store := &memStore{}
	res, err := Run(store, duneRows, duneMapping, Options{SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.SkippedDuplicate)
	assert.Equal(t, 0, res.SkippedInvalid)
	require.Len(t, store.books, 1)
	require.NotNil(t, store.books[0].Year)
	assert.Equal(t, 1965, *store.books[0].Year)
}

func TestRun_AllowDuplicates(t *testing.T) {
	store := &memStore{}
	res, err := Run(store, duneRows, duneMapping, Options{SkipDuplicates: false})
	require.NoError(t, err)
	assert.Equal(t, Result{SessionID: res.SessionID, Inserted: 2}, res)
	assert.Len(t, store.books, 2)
}

func TestRun_DuplicateIgnoresCaseAndSpace(t *testing.T) {
	rows := []Row{
		{"Title": "Dune", "Author": "Frank Herbert"},
		{"Title": " dune ", "Author": "FRANK HERBERT"},
	}
	store := &memStore{}
	res, err := Run(store, rows, duneMapping, Options{SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.SkippedDuplicate)
}

func TestRun_TitleNotMapped(t *testing.T) {
	store := &memStore{}
	m := FieldMapping{FieldTitle: Ignored, FieldAuthor: "Author"}
	res, err := Run(store, duneRows, m, Options{SkipDuplicates: true})
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Zero(t, res.Inserted)
	assert.Empty(t, store.books)
}

func TestRun_BlankTitleOrAuthorSkipped(t *testing.T) {
	rows := []Row{
		{"Title": "  ", "Author": "Someone"},
		{"Title": "Emma"},
		{"Title": "Emma", "Author": "Jane Austen"},
	}
	store := &memStore{}
	res, err := Run(store, rows, duneMapping, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, res.SkippedInvalid)
	assert.Equal(t, "Jane Austen", store.books[0].Author)
}

func TestRun_FieldCoercion(t *testing.T) {
	mapping := FieldMapping{
		FieldTitle: "T", FieldAuthor: "A", FieldGenre: "G", FieldYear: "Y",
		FieldPublisher: "P", FieldRead: "R", FieldRating: "S", FieldNotes: "N",
	}
	tests := []struct {
		name  string
		row   Row
		check func(t *testing.T, b *types.Book)
	}{
		{"comma decimal rating", Row{"S": "7,5"}, func(t *testing.T, b *types.Book) {
			require.NotNil(t, b.Rating)
			assert.Equal(t, 7.5, *b.Rating)
		}},
		{"rating out of range", Row{"S": "15"}, func(t *testing.T, b *types.Book) {
			assert.Nil(t, b.Rating)
		}},
		{"rating not a number", Row{"S": "abc"}, func(t *testing.T, b *types.Book) {
			assert.Nil(t, b.Rating)
		}},
		{"rating NaN", Row{"S": "NaN"}, func(t *testing.T, b *types.Book) {
			assert.Nil(t, b.Rating)
		}},
		{"rating hex float", Row{"S": "0x1p3"}, func(t *testing.T, b *types.Book) {
			assert.Nil(t, b.Rating)
		}},
		{"rating signed hex", Row{"S": "-0X1"}, func(t *testing.T, b *types.Book) {
			assert.Nil(t, b.Rating)
		}},
		{"rating digit separator", Row{"S": "0_7,5"}, func(t *testing.T, b *types.Book) {
			require.NotNil(t, b.Rating)
			assert.Equal(t, 7.5, *b.Rating)
		}},
		{"rating bounds", Row{"S": "10"}, func(t *testing.T, b *types.Book) {
			require.NotNil(t, b.Rating)
			assert.Equal(t, 10.0, *b.Rating)
		}},
		{"read X", Row{"R": "X"}, func(t *testing.T, b *types.Book) {
			assert.True(t, b.Read)
		}},
		{"read sim", Row{"R": " Sim "}, func(t *testing.T, b *types.Book) {
			assert.True(t, b.Read)
		}},
		{"read no", Row{"R": "no"}, func(t *testing.T, b *types.Book) {
			assert.False(t, b.Read)
		}},
		{"read absent", Row{}, func(t *testing.T, b *types.Book) {
			assert.False(t, b.Read)
		}},
		{"year malformed", Row{"Y": "1965a"}, func(t *testing.T, b *types.Book) {
			assert.Nil(t, b.Year)
		}},
		{"year digit separator", Row{"Y": "1_965"}, func(t *testing.T, b *types.Book) {
			require.NotNil(t, b.Year)
			assert.Equal(t, 1965, *b.Year)
		}},
		{"year misplaced separator", Row{"Y": "1965_"}, func(t *testing.T, b *types.Book) {
			assert.Nil(t, b.Year)
		}},
		{"year double separator", Row{"Y": "1__965"}, func(t *testing.T, b *types.Book) {
			assert.Nil(t, b.Year)
		}},
		{"year negative", Row{"Y": "-300"}, func(t *testing.T, b *types.Book) {
			require.NotNil(t, b.Year)
			assert.Equal(t, -300, *b.Year)
		}},
		{"genre absent", Row{}, func(t *testing.T, b *types.Book) {
			assert.Equal(t, genre.Other, b.Genre)
		}},
		{"genre normalized", Row{"G": "dark fantasy"}, func(t *testing.T, b *types.Book) {
			assert.Equal(t, "Fantasy", b.Genre)
		}},
		{"text trimmed", Row{"P": " Ace ", "N": "  "}, func(t *testing.T, b *types.Book) {
			assert.Equal(t, "Ace", b.Publisher)
			assert.Empty(t, b.Notes)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{"T": "Dune", "A": "Frank Herbert"}
			for k, v := range tt.row {
				row[k] = v
			}
			store := &memStore{}
			res, err := Run(store, []Row{row}, mapping, Options{})
			require.NoError(t, err)
			require.Equal(t, 1, res.Inserted)
			tt.check(t, store.books[0])
		})
	}
}

func TestRun_StoreErrorReturnsPartialResult(t *testing.T) {
	rows := []Row{
		{"Title": "A", "Author": "X"},
		{"Title": "B", "Author": "X"},
		{"Title": "C", "Author": "X"},
	}
	store := &memStore{failAfter: 1}
	res, err := Run(store, rows, duneMapping, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Equal(t, 1, res.Inserted)
}

func TestRun_SessionID(t *testing.T) {
	res, err := Run(&memStore{}, nil, duneMapping, Options{})
	require.NoError(t, err)
	id, err := uuid.Parse(res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestRun_SQLiteStore(t *testing.T) {
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })

	res, err := Run(b, duneRows, duneMapping, Options{SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.SkippedDuplicate)

	books, err := b.Query(types.Filter{}, types.Sort{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, genre.Other, books[0].Genre)

	res, err = Run(b, duneRows, duneMapping, Options{SkipDuplicates: false})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
}

func TestRun_ExportedCatalogReimportsUnchanged(t *testing.T) {
	rating := 7.5
	year := 1965
	var books []*types.Book
	for _, g := range genre.Vocabulary {
		books = append(books, &types.Book{
			Title: "Book about " + g, Author: "Someone", Genre: g,
			Year: &year, Read: true, Rating: &rating, Publisher: "Ace",
		})
	}

	var buf bytes.Buffer
	require.NoError(t, csvio.WriteCSV(&buf, books))
	table, err := csvio.Parse(buf.Bytes(), csvio.ReadOptions{})
	require.NoError(t, err)

	store := &memStore{}
	res, err := Run(store, table.Rows, DetectMapping(table.Headers), Options{SkipDuplicates: true})
	require.NoError(t, err)
	require.Equal(t, len(books), res.Inserted)

	for i, got := range store.books {
		want := books[i]
		assert.Equal(t, want.Genre, got.Genre, "genre of %q", want.Title)
		assert.Equal(t, want.Title, got.Title)
		assert.True(t, got.Read)
		require.NotNil(t, got.Rating)
		assert.Equal(t, rating, *got.Rating)
		require.NotNil(t, got.Year)
		assert.Equal(t, year, *got.Year)
		assert.Equal(t, "Ace", got.Publisher)
	}
}
