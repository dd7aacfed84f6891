package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBook_Validate(t *testing.T) {
	tests := []struct {
		name       string
		book       Book
		wantFields []string
	}{
		{
			name: "minimal valid book",
			book: Book{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"},
		},
		{
			name: "rating bounds are inclusive",
			book: Book{Title: "A", Author: "B", Genre: "Other", Rating: ptr(10.0)},
		},
		{
			name: "zero rating is valid",
			book: Book{Title: "A", Author: "B", Genre: "Other", Rating: ptr(0.0)},
		},
		{
			name:       "blank title",
			book:       Book{Title: "   ", Author: "B", Genre: "Other"},
			wantFields: []string{"title"},
		},
		{
			name:       "missing author and genre",
			book:       Book{Title: "A"},
			wantFields: []string{"author", "genre"},
		},
		{
			name:       "rating above range",
			book:       Book{Title: "A", Author: "B", Genre: "Other", Rating: ptr(10.5)},
			wantFields: []string{"rating"},
		},
		{
			name:       "negative rating",
			book:       Book{Title: "A", Author: "B", Genre: "Other", Rating: ptr(-1.0)},
			wantFields: []string{"rating"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.book.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Len(t, ve.Fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, ve.Fields, f)
			}
		})
	}
}

func TestBook_ValidateNil(t *testing.T) {
	var b *Book
	assert.ErrorIs(t, b.Validate(), ErrInvalidData)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"title":  "is required",
		"author": "is required",
	}}
	assert.Equal(t, "validation failed: author is required; title is required", err.Error())
}

func TestSort_Column(t *testing.T) {
	col, err := Sort{}.Column()
	require.NoError(t, err)
	assert.Equal(t, SortTitle, col)

	col, err = Sort{Field: SortRating, Descending: true}.Column()
	require.NoError(t, err)
	assert.Equal(t, SortRating, col)

	_, err = Sort{Field: "title; DROP TABLE books"}.Column()
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestParseReadState(t *testing.T) {
	for in, want := range map[string]ReadState{"": ReadAny, "all": ReadAny, "yes": ReadYes, "no": ReadNo} {
		got, err := ParseReadState(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseReadState("maybe")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Backend: BackendSQLite}.Validate())
	assert.ErrorIs(t, Config{}.Validate(), ErrBackendEmpty)
	assert.ErrorIs(t, Config{Backend: "postgres"}.Validate(), ErrBackendUnknown)
}
