// Package codepage converts resource bytes between code pages.
//
// Resources on the host are usually stored in an EBCDIC code page (IBM-1047 by default)
// while lines are edited as Go strings. A Codec carries the (from, to) pair of an
// invocation: bytes are converted from -> to on read and to -> from on write, and the
// resulting text is handed to the reconciler as UTF-8.
package codepage

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrUnknownEncoding is returned by Lookup for names outside the registry.
	ErrUnknownEncoding = errors.New("unknown encoding")
	// ErrUnmappable is returned when a character has no representation in a code page.
	ErrUnmappable = errors.New("character cannot be represented in target encoding")
)

var nameSyntax = regexp.MustCompile(`(?i)^[A-Z0-9-]{2,}$`)

// ValidName reports whether name is syntactically an encoding name.
func ValidName(name string) bool {
	return nameSyntax.MatchString(name)
}

var registry = map[string]encoding.Encoding{
	"IBM037":    charmap.CodePage037,
	"IBM1047":   charmap.CodePage1047,
	"IBM1140":   charmap.CodePage1140,
	"IBM437":    charmap.CodePage437,
	"IBM850":    charmap.CodePage850,
	"ISO88591":  charmap.ISO8859_1,
	"ISO885915": charmap.ISO8859_15,
	"UTF8":      unicode.UTF8,
	"USASCII":   ascii{},
	"ASCII":     ascii{},
}

// normalize folds "IBM-1047", "ibm1047" and "CP1047" to the same key.
func normalize(name string) string {
	key := strings.ToUpper(strings.ReplaceAll(name, "-", ""))
	if strings.HasPrefix(key, "CP") {
		key = "IBM" + strings.TrimPrefix(key, "CP")
	}
	return key
}

// Lookup returns the encoding registered for name.
func Lookup(name string) (encoding.Encoding, error) {
	enc, ok := registry[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
	return enc, nil
}

var ebcdic = map[string]bool{
	"IBM037":  true,
	"IBM1047": true,
	"IBM1140": true,
}

// Codec converts between the stored code page (From) and the working code page (To).
//
// When From is an EBCDIC page and To is not, the EBCDIC new line (0x15, U+0085) and line
// feed (0x25, U+000A) trade places, the same way the host's own converters treat them,
// so that stored records split on '\n'.
type Codec struct {
	From     string
	To       string
	from, to encoding.Encoding
	swapNL   bool
}

// NewCodec resolves both encoding names.
func NewCodec(from, to string) (*Codec, error) {
	fe, err := Lookup(from)
	if err != nil {
		return nil, err
	}
	te, err := Lookup(to)
	if err != nil {
		return nil, err
	}
	return &Codec{
		From:   from,
		To:     to,
		from:   fe,
		to:     te,
		swapNL: ebcdic[normalize(from)] && !ebcdic[normalize(to)],
	}, nil
}

// Identity is a codec that leaves UTF-8 bytes as they are.
func Identity() *Codec {
	return &Codec{From: "UTF-8", To: "UTF-8", from: unicode.UTF8, to: unicode.UTF8}
}

// Decode converts stored bytes into text, passing through the working code page.
func (c *Codec) Decode(raw []byte) (string, error) {
	// from -> to, then to -> UTF-8 for the engine.
	t := transform.Chain(c.from.NewDecoder(), c.to.NewEncoder(), c.to.NewDecoder())
	out, _, err := transform.Bytes(t, raw)
	if err != nil {
		return "", fmt.Errorf("decode %s->%s: %w", c.From, c.To, unmappable(err))
	}
	if c.swapNL {
		return strings.Map(swapNewline, string(out)), nil
	}
	return string(out), nil
}

// Encode converts text back into the stored code page.
func (c *Codec) Encode(text string) ([]byte, error) {
	if c.swapNL {
		text = strings.Map(swapNewline, text)
	}
	// UTF-8 -> to -> from.
	t := transform.Chain(c.to.NewEncoder(), c.to.NewDecoder(), c.from.NewEncoder())
	out, _, err := transform.Bytes(t, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s->%s: %w", c.To, c.From, unmappable(err))
	}
	return out, nil
}

func swapNewline(r rune) rune {
	switch r {
	case '\u0085':
		return '\n'
	case '\n':
		return '\u0085'
	}
	return r
}

func unmappable(err error) error {
	if errors.Is(err, errNotASCII) || strings.Contains(err.Error(), "rune not supported") {
		return fmt.Errorf("%w: %v", ErrUnmappable, err)
	}
	return err
}
