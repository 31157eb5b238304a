// Package dsname parses and builds qualified dataset names such as
// SYS1.PARMLIB(IEASYS00).
package dsname

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxLength is the longest dataset name, member excluded.
	MaxLength = 44
	// MaxQualifier is the longest single qualifier or member name.
	MaxQualifier = 8
)

var ErrInvalid = errors.New("invalid dataset name")

var (
	qualifierRe = regexp.MustCompile(`^[A-Z#@$][A-Z0-9#@$-]{0,7}$`)
	memberRe    = regexp.MustCompile(`^[A-Z#@$][A-Z0-9#@$]{0,7}$`)
	fullRe      = regexp.MustCompile(`^([^()]+)(?:\(([^()]+)\))?$`)
)

// Name is a dataset name with an optional member.
type Name struct {
	Dataset string
	Member  string
}

// Parse validates s and splits off the member. Names are upper-cased.
// At least two qualifiers are required.
func Parse(s string) (Name, error) {
	m := fullRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	n := Name{Dataset: m[1], Member: m[2]}
	if len(n.Dataset) > MaxLength {
		return Name{}, fmt.Errorf("%w: %q is longer than %d characters", ErrInvalid, s, MaxLength)
	}
	quals := strings.Split(n.Dataset, ".")
	if len(quals) < 2 {
		return Name{}, fmt.Errorf("%w: %q needs at least two qualifiers", ErrInvalid, s)
	}
	for _, q := range quals {
		if !qualifierRe.MatchString(q) {
			return Name{}, fmt.Errorf("%w: bad qualifier %q in %q", ErrInvalid, q, s)
		}
	}
	if n.Member != "" && !memberRe.MatchString(n.Member) {
		return Name{}, fmt.Errorf("%w: bad member %q in %q", ErrInvalid, n.Member, s)
	}
	return n, nil
}

// Valid reports whether s parses.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Qualifiers returns the dot-separated segments of the dataset part.
func (n Name) Qualifiers() []string {
	return strings.Split(n.Dataset, ".")
}

// HLQ returns the high-level qualifier.
func (n Name) HLQ() string {
	return n.Qualifiers()[0]
}

func (n Name) String() string {
	if n.Member == "" {
		return n.Dataset
	}
	return n.Dataset + "(" + n.Member + ")"
}

// WithSuffix appends qualifiers to the dataset part. When the result exceeds MaxLength,
// qualifiers after the HLQ are dropped from the left until it fits.
func (n Name) WithSuffix(suffix ...string) Name {
	quals := n.Qualifiers()
	head, rest := quals[0], quals[1:]
	for {
		parts := append(append([]string{head}, rest...), suffix...)
		ds := strings.Join(parts, ".")
		if len(ds) <= MaxLength || len(rest) == 0 {
			return Name{Dataset: ds, Member: n.Member}
		}
		rest = rest[1:]
	}
}
