package reconcile

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single compat-dialect match. Backtracking patterns such as
// ^(a+)+$ can otherwise run for as long as the resource lock is held.
var MatchTimeout = 2 * time.Second

var errMatchTimeout = errors.New("match timeout")

// submatch is the capture state of one successful match.
type submatch struct {
	groups []string // index 0 is the whole match
	set    []bool   // whether group i participated
	names  map[string]int
}

// group returns the text captured by group i and whether i is a valid group.
func (s *submatch) group(i int) (string, bool) {
	if i < 0 || i >= len(s.groups) {
		return "", false
	}
	return s.groups[i], true
}

// named returns the text captured by the named group and whether the name exists.
func (s *submatch) named(name string) (string, bool) {
	i, ok := s.names[name]
	if !ok {
		return "", false
	}
	return s.group(i)
}

// matcher abstracts the two regular expression dialects.
type matcher interface {
	match(line string) (bool, error)
	submatch(line string) (*submatch, error)
}

func compile(pattern string, dialect domain.Dialect) (matcher, error) {
	switch dialect {
	case "", domain.DialectRE2:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		return &re2Matcher{re: re}, nil
	case domain.DialectCompat:
		// RE2 mode accepts the (?P<name>...) group syntax.
		re, err := regexp2.Compile(pattern, regexp2.RE2)
		if err != nil {
			return nil, err
		}
		re.MatchTimeout = MatchTimeout
		return &compatMatcher{re: re}, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", dialect)
	}
}

type re2Matcher struct {
	re *regexp.Regexp
}

func (m *re2Matcher) match(line string) (bool, error) {
	return m.re.MatchString(line), nil
}

func (m *re2Matcher) submatch(line string) (*submatch, error) {
	loc := m.re.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil, nil
	}
	n := len(loc) / 2
	sm := &submatch{
		groups: make([]string, n),
		set:    make([]bool, n),
		names:  make(map[string]int),
	}
	for i := 0; i < n; i++ {
		start, end := loc[2*i], loc[2*i+1]
		if start >= 0 {
			sm.groups[i] = line[start:end]
			sm.set[i] = true
		}
	}
	for i, name := range m.re.SubexpNames() {
		if name != "" {
			sm.names[name] = i
		}
	}
	return sm, nil
}

type compatMatcher struct {
	re *regexp2.Regexp
}

func (m *compatMatcher) match(line string) (bool, error) {
	ok, err := m.re.MatchString(line)
	if err != nil {
		// regexp2 only fails a match when MatchTimeout expires.
		return false, fmt.Errorf("%w: %v", errMatchTimeout, err)
	}
	return ok, nil
}

func (m *compatMatcher) submatch(line string) (*submatch, error) {
	match, err := m.re.FindStringMatch(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMatchTimeout, err)
	}
	if match == nil {
		return nil, nil
	}
	groups := match.Groups()
	sm := &submatch{
		groups: make([]string, len(groups)),
		set:    make([]bool, len(groups)),
		names:  make(map[string]int),
	}
	for i, g := range groups {
		if len(g.Captures) > 0 {
			sm.groups[i] = g.String()
			sm.set[i] = true
		}
		// Unnamed groups carry their number as name.
		if g.Name != strconv.Itoa(i) {
			sm.names[g.Name] = i
		}
	}
	return sm, nil
}
