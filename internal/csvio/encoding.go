// Package csvio reads CSV import files and writes CSV exports.
package csvio

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SampleSize is how many leading bytes DetectEncoding inspects.
const SampleSize = 1024

// ErrNoEncoding is returned when no candidate decodes the sample.
var ErrNoEncoding = errors.New("no candidate encoding decodes the file")

// Encoding is a named text encoding that import files may use.
type Encoding struct {
	Name string
	enc  encoding.Encoding
	// accepts reports whether data decodes without error; cut is true when
	// data is a prefix that may end inside a multi-byte sequence.
	accepts func(data []byte, cut bool) bool
	// strict encodings are re-checked on the whole file after detection.
	strict bool
}

// Encoding names understood by EncodingsByName.
const (
	UTF8BOM     = "utf-8-sig"
	UTF8        = "utf-8"
	Latin1      = "latin-1"
	Windows1252 = "cp1252"
)

var knownEncodings = map[string]Encoding{
	UTF8BOM:     {Name: UTF8BOM, enc: unicode.UTF8BOM, accepts: validUTF8, strict: true},
	UTF8:        {Name: UTF8, enc: unicode.UTF8, accepts: validUTF8, strict: true},
	Latin1:      {Name: Latin1, enc: charmap.ISO8859_1, accepts: func([]byte, bool) bool { return true }},
	Windows1252: {Name: Windows1252, enc: charmap.Windows1252, accepts: validWindows1252},
}

var encodingAliases = map[string]string{
	"utf8":         UTF8,
	"utf8-sig":     UTF8BOM,
	"utf-8-bom":    UTF8BOM,
	"latin1":       Latin1,
	"iso-8859-1":   Latin1,
	"iso8859-1":    Latin1,
	"windows-1252": Windows1252,
	"cp-1252":      Windows1252,
}

// DefaultEncodingNames is the detection order used when none is configured.
var DefaultEncodingNames = []string{UTF8BOM, UTF8, Latin1, Windows1252}

// DefaultEncodings returns the candidates for DefaultEncodingNames.
func DefaultEncodings() []Encoding {
	encs, _ := EncodingsByName(DefaultEncodingNames)
	return encs
}

// EncodingsByName resolves configured encoding names, keeping their order.
func EncodingsByName(names []string) ([]Encoding, error) {
	encs := make([]Encoding, 0, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if alias, ok := encodingAliases[key]; ok {
			key = alias
		}
		e, ok := knownEncodings[key]
		if !ok {
			return nil, fmt.Errorf("unknown encoding %q (valid: %s)", n, strings.Join(DefaultEncodingNames, ", "))
		}
		encs = append(encs, e)
	}
	return encs, nil
}

// DetectEncoding returns the first candidate that accepts the leading
// SampleSize bytes of data.
func DetectEncoding(data []byte, candidates []Encoding) (Encoding, error) {
	sample := data
	cut := false
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
		cut = true
	}
	for _, c := range candidates {
		if c.accepts(sample, cut) {
			return c, nil
		}
	}
	return Encoding{}, ErrNoEncoding
}

// Decode converts data to UTF-8.
func (e Encoding) Decode(data []byte) ([]byte, error) {
	if e.strict && !e.accepts(data, false) {
		return nil, fmt.Errorf("decoding as %s: invalid byte sequence", e.Name)
	}
	out, _, err := transform.Bytes(e.enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding as %s: %w", e.Name, err)
	}
	return out, nil
}

func validUTF8(data []byte, cut bool) bool {
	if cut {
		// Drop a trailing sequence that the sample boundary split.
		for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
			if utf8.RuneStart(data[len(data)-i]) {
				if !utf8.FullRune(data[len(data)-i:]) {
					data = data[:len(data)-i]
				}
				break
			}
		}
	}
	return utf8.Valid(data)
}

// validWindows1252 rejects the five bytes cp1252 leaves undefined.
func validWindows1252(data []byte, _ bool) bool {
	for _, c := range data {
		switch c {
		case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
			return false
		}
	}
	return true
}
