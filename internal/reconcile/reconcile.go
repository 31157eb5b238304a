package reconcile

import (
	"errors"
	"fmt"

	"github.com/aretw0/ensureline/pkg/domain"
)

// Reconcile dispatches on req.Mode.
func Reconcile(lines []string, req domain.Request) (domain.Outcome, error) {
	switch req.Mode {
	case domain.ModePresent, "":
		return EnsurePresent(lines, req)
	case domain.ModeAbsent:
		return EnsureAbsent(lines, req)
	default:
		return domain.Outcome{}, fmt.Errorf("unknown mode %q", req.Mode)
	}
}

// EnsurePresent makes sure req.Line is in lines, replacing the last line matched by
// req.Pattern when there is one.
func EnsurePresent(lines []string, req domain.Request) (domain.Outcome, error) {
	plan, err := planPresent(req)
	if err != nil {
		return domain.Outcome{}, err
	}

	target := domain.NoIndex
	if plan.pattern != nil {
		target, err = lastMatch(plan.pattern, lines)
		if err != nil {
			return domain.Outcome{}, err
		}
	}

	if req.Backrefs {
		if target == domain.NoIndex {
			// Nothing to expand from and no safe line to edit.
			return domain.Unchanged(lines), nil
		}
		if !req.HasLine() {
			return domain.Outcome{}, domain.NewReconcileError(domain.ErrMissingLine, "", nil)
		}
		sm, err := plan.pattern.submatch(lines[target])
		if err != nil {
			return domain.Outcome{}, patternError("regexp", err)
		}
		expanded, err := expand(*req.Line, sm)
		if err != nil {
			return domain.Outcome{}, err
		}
		return replaceAt(lines, target, expanded), nil
	}

	line := *req.Line
	if target != domain.NoIndex {
		return replaceAt(lines, target, line), nil
	}

	for i, existing := range lines {
		if existing == line {
			out := domain.Unchanged(lines)
			out.Index = i
			return out, nil
		}
	}

	at, err := plan.insertionIndex(lines)
	if err != nil {
		return domain.Outcome{}, err
	}
	return insertAt(lines, at, line), nil
}

// EnsureAbsent drops every line matched by req.Pattern, or every line equal to req.Line
// when no pattern is given.
func EnsureAbsent(lines []string, req domain.Request) (domain.Outcome, error) {
	if !req.HasPattern() && !req.HasLine() {
		return domain.Outcome{}, domain.NewReconcileError(domain.ErrMissingCriterion, "", nil)
	}

	var m matcher
	if req.HasPattern() {
		var err error
		if m, err = compile(*req.Pattern, req.Dialect); err != nil {
			return domain.Outcome{}, patternError("regexp", err)
		}
	}

	out := domain.Outcome{
		Lines:  make([]string, 0, len(lines)),
		Index:  domain.NoIndex,
		Action: domain.ActionNone,
	}
	for i, text := range lines {
		drop := false
		if m != nil {
			ok, err := m.match(text)
			if err != nil {
				return domain.Outcome{}, patternError("regexp", err)
			}
			drop = ok
		} else {
			drop = text == *req.Line
		}

		if !drop {
			out.Lines = append(out.Lines, text)
			continue
		}
		out.Removed = append(out.Removed, i)
	}

	if len(out.Removed) > 0 {
		out.Changed = true
		out.Index = out.Removed[0]
		out.Action = domain.ActionRemoved
	}
	return out, nil
}

// presentPlan holds the compiled patterns of a present-mode request.
type presentPlan struct {
	pattern matcher

	// placement
	before     bool
	sentinel   bool
	anchor     matcher
	firstMatch bool
}

func planPresent(req domain.Request) (*presentPlan, error) {
	plan := &presentPlan{firstMatch: req.FirstMatch}

	if req.InsertAfter != nil && req.InsertBefore != nil {
		return nil, domain.NewReconcileError(domain.ErrConflictingPlacement, "", nil)
	}

	if req.HasPattern() {
		m, err := compile(*req.Pattern, req.Dialect)
		if err != nil {
			return nil, patternError("regexp", err)
		}
		plan.pattern = m
	}

	if req.Backrefs {
		if plan.pattern == nil {
			return nil, domain.NewReconcileError(domain.ErrInvalidPattern, "backrefs requires regexp", nil)
		}
		// Placement is ignored entirely in backrefs mode.
		return plan, nil
	}

	if !req.HasLine() {
		return nil, domain.NewReconcileError(domain.ErrMissingLine, "", nil)
	}

	switch {
	case req.InsertBefore != nil:
		plan.before = true
		if *req.InsertBefore == domain.BOF {
			plan.sentinel = true
			break
		}
		m, err := compile(*req.InsertBefore, req.Dialect)
		if err != nil {
			return nil, patternError("insertbefore", err)
		}
		plan.anchor = m
	case req.InsertAfter != nil && *req.InsertAfter != domain.EOF:
		m, err := compile(*req.InsertAfter, req.Dialect)
		if err != nil {
			return nil, patternError("insertafter", err)
		}
		plan.anchor = m
	default:
		plan.sentinel = true
	}
	return plan, nil
}

// insertionIndex resolves where a new line goes. Unmatched anchors fall back to the end.
func (p *presentPlan) insertionIndex(lines []string) (int, error) {
	if p.sentinel {
		if p.before {
			return 0, nil
		}
		return len(lines), nil
	}

	var (
		idx int
		err error
	)
	if p.firstMatch {
		idx, err = firstMatch(p.anchor, lines)
	} else {
		idx, err = lastMatch(p.anchor, lines)
	}
	if err != nil {
		return 0, err
	}

	switch {
	case idx == domain.NoIndex:
		return len(lines), nil
	case p.before:
		return idx, nil
	default:
		return idx + 1, nil
	}
}

func firstMatch(m matcher, lines []string) (int, error) {
	for i, text := range lines {
		ok, err := m.match(text)
		if err != nil {
			return domain.NoIndex, patternError("regexp", err)
		}
		if ok {
			return i, nil
		}
	}
	return domain.NoIndex, nil
}

func lastMatch(m matcher, lines []string) (int, error) {
	for i := len(lines) - 1; i >= 0; i-- {
		ok, err := m.match(lines[i])
		if err != nil {
			return domain.NoIndex, patternError("regexp", err)
		}
		if ok {
			return i, nil
		}
	}
	return domain.NoIndex, nil
}

func replaceAt(lines []string, at int, line string) domain.Outcome {
	out := domain.Unchanged(lines)
	out.Index = at
	if lines[at] != line {
		out.Lines[at] = line
		out.Changed = true
		out.Action = domain.ActionReplaced
	}
	return out
}

func insertAt(lines []string, at int, line string) domain.Outcome {
	next := make([]string, 0, len(lines)+1)
	next = append(next, lines[:at]...)
	next = append(next, line)
	next = append(next, lines[at:]...)
	return domain.Outcome{
		Lines:   next,
		Changed: true,
		Index:   at,
		Action:  domain.ActionInserted,
	}
}

func patternError(field string, err error) error {
	if errors.Is(err, errMatchTimeout) {
		field += ": match timeout"
	}
	return domain.NewReconcileError(domain.ErrInvalidPattern, field, err)
}
