package importer

import (
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/shelf/internal/genre"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// truthy lists the read-flag values that mean "read".
var truthy = map[string]bool{
	"sim": true, "yes": true, "true": true,
	"1": true, "x": true, "v": true,
}

// value returns the trimmed cell mapped to f and whether it is non-empty.
func (m FieldMapping) value(row Row, f Field) (string, bool) {
	col := m.Column(f)
	if col == Ignored {
		return "", false
	}
	v := strings.TrimSpace(row[col])
	return v, v != ""
}

// parseGenre returns Other for an absent value and the normalized label
// otherwise.
func parseGenre(raw string, ok bool) string {
	if !ok {
		return genre.Other
	}
	return genre.Normalize(raw)
}

// parseYear returns nil when raw is absent or not a decimal integer.
func parseYear(raw string, ok bool) *int {
	if !ok {
		return nil
	}
	y, err := ParseInteger(raw)
	if err != nil {
		return nil
	}
	return &y
}

// parseRead reports whether raw is one of the truthy tokens.
func parseRead(raw string, ok bool) bool {
	return ok && truthy[strings.ToLower(raw)]
}

// parseRating returns nil for unparsable values and values outside
// [MinRating, MaxRating].
func parseRating(raw string, ok bool) *float64 {
	if !ok {
		return nil
	}
	r, err := ParseDecimal(raw)
	if err != nil || math.IsNaN(r) || r < types.MinRating || r > types.MaxRating {
		return nil
	}
	return &r
}

// stripDigitSeparators removes underscores that sit between two digits and
// reports false when any other underscore is present.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// hasHexPrefix reports whether s, after an optional sign, starts with 0x.
func hasHexPrefix(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// ParseInteger parses a decimal integer. Single underscores between digits
// are allowed, as in "1_965".
func ParseInteger(s string) (int, error) {
	digits, ok := stripDigitSeparators(strings.TrimSpace(s))
	if !ok {
		return 0, &strconv.NumError{Func: "ParseInteger", Num: s, Err: strconv.ErrSyntax}
	}
	return strconv.Atoi(digits)
}

// ParseDecimal parses a decimal number written with "." or "," as the
// decimal separator. Hexadecimal floats such as "0x1p3" are rejected.
func ParseDecimal(s string) (float64, error) {
	number, ok := stripDigitSeparators(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if !ok || hasHexPrefix(number) {
		return 0, &strconv.NumError{Func: "ParseDecimal", Num: s, Err: strconv.ErrSyntax}
	}
	return strconv.ParseFloat(number, 64)
}
