package genre

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", Other},
		{"   ", Other},
		{"Fantasy", "Fantasy"},
		{"fantasy", "Fantasy"},
		{"Dark Fantasy", "Fantasy"},
		{"  HORROR ", "Horror"},
		{"sci", "Science Fiction"},
		{"Science", "Science Fiction"},
		{"popular science", "Popular Science"},
		{"Popular Science Books", "Popular Science"},
		{"fiction", "Science Fiction"},
		{"Popular Science Fiction", "Science Fiction"},
		{"Computer Technology", "Technology"},
		{"young adult fiction", "Young Adult"},
		{"cooking", Other},
		{"other", Other},
		{"Mystery", "Mystery/Crime"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_FirstDeclaredMatchWins(t *testing.T) {
	// "a" is contained in several labels; the earliest one wins.
	assert.Equal(t, "Fantasy", Normalize("a"))
	// Contains both "Romance" and "History"; Romance is declared first.
	assert.Equal(t, "Romance", Normalize("history of romance"))
	// Contains "Science Fiction" and "Popular Science"; the earlier label wins.
	assert.Equal(t, "Science Fiction", Normalize("popular science fiction"))
}

func TestNormalize_AlwaysInVocabularyAndDeterministic(t *testing.T) {
	inputs := []string{
		"", "x", "sci-fi scifi", "Ficção Científica", "art history",
		"biography of a poet", "BUSINESS", "kids", "philosophy of science",
		"Self-Help", "self help", "\t", "ñ", "Mystery/Crime/Thriller",
	}
	for _, in := range inputs {
		got := Normalize(in)
		assert.True(t, slices.Contains(Vocabulary, got), "Normalize(%q) = %q not in vocabulary", in, got)
		for range 3 {
			assert.Equal(t, got, Normalize(in))
		}
	}
}

func TestNormalize_LabelsAreFixedPoints(t *testing.T) {
	for _, g := range Vocabulary {
		assert.Equal(t, g, Normalize(g), "label %q must normalize to itself", g)
		assert.Equal(t, g, Normalize(strings.ToUpper(g)))
	}
}

func TestVocabulary_NoLabelContainsAnother(t *testing.T) {
	for i, a := range Vocabulary {
		for j, b := range Vocabulary {
			if i == j {
				continue
			}
			assert.NotContains(t, strings.ToLower(a), strings.ToLower(b), "%q hides %q", a, b)
		}
	}
}

func TestLookup(t *testing.T) {
	got, ok := Lookup("science fiction")
	assert.True(t, ok)
	assert.Equal(t, "Science Fiction", got)

	got, ok = Lookup(" mystery/crime ")
	assert.True(t, ok)
	assert.Equal(t, "Mystery/Crime", got)

	_, ok = Lookup("sci")
	assert.False(t, ok)
}

func TestVocabulary_EndsWithOther(t *testing.T) {
	assert.Len(t, Vocabulary, 18)
	assert.Equal(t, Other, Vocabulary[len(Vocabulary)-1])
}
