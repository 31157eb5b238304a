package params

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// DefaultMaxTextSize bounds line and pattern parameters (32KB).
	DefaultMaxTextSize = 32 * 1024
	// EnvMaxTextSize overrides DefaultMaxTextSize.
	EnvMaxTextSize = "ENSURELINE_MAX_TEXT_SIZE"
)

var (
	ErrTextTooLarge  = errors.New("exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("contains invalid UTF-8 sequences")
	ErrLineSeparator = errors.New("contains a line separator")
)

// checkText rejects text parameters that cannot round trip as a single line.
// Patterns may contain '\n' escapes but never a raw newline either.
func checkText(field string, value *string) error {
	if value == nil {
		return nil
	}
	s := *value

	if limit := maxTextSize(); len(s) > limit {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("size=%d limit=%d", len(s), limit),
			Err:     ErrTextTooLarge,
		}
	}
	if !utf8.ValidString(s) {
		return &ValidationError{Field: field, Message: ErrInvalidUTF8.Error(), Err: ErrInvalidUTF8}
	}
	if strings.ContainsRune(s, '\n') {
		return &ValidationError{Field: field, Message: ErrLineSeparator.Error(), Err: ErrLineSeparator}
	}
	return nil
}

func maxTextSize() int {
	if val := os.Getenv(EnvMaxTextSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxTextSize
}
