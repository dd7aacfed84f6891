// Package genre maps free-text genre strings onto the controlled vocabulary.
package genre

import "strings"

// Other is the catch-all label.
const Other = "Other"

// Vocabulary is the controlled list of genre labels in match order.
// Normalize returns the first label that matches, so the order is part of
// the contract: reordering it changes how existing data re-imports. No
// label contains another, so every label normalizes to itself.
var Vocabulary = []string{
	"Science Fiction",
	"Fantasy",
	"Romance",
	"Horror",
	"Mystery/Crime",
	"Adventure",
	"Biography",
	"History",
	"Philosophy",
	"Popular Science",
	"Technology",
	"Self-Help",
	"Business",
	"Art",
	"Poetry",
	"Children",
	"Young Adult",
	Other,
}

// Normalize classifies raw into a Vocabulary label. A label matches when
// either string contains the other, ignoring case. Blank input and input
// that matches nothing yield Other.
//
//	"sci"          -> "Science Fiction"
//	"Science"      -> "Science Fiction" (first match wins)
//	"Dark Fantasy" -> "Fantasy"
func Normalize(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Other
	}
	for _, g := range Vocabulary {
		lg := strings.ToLower(g)
		if strings.Contains(lg, v) || strings.Contains(v, lg) {
			return g
		}
	}
	return Other
}

// Lookup returns the Vocabulary label equal to name ignoring case.
func Lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, g := range Vocabulary {
		if strings.EqualFold(g, name) {
			return g, true
		}
	}
	return "", false
}
