// Package diff renders a before/after line diff of one edit.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Context is the number of unchanged lines kept around each change.
const Context = 3

// Op is the kind of a rendered line.
type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

// Line is one line of a line-mode diff.
type Line struct {
	Op   Op
	Text string
}

// Lines computes a line-mode diff of before and after.
func Lines(before, after []string) []Line {
	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(join(before), join(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var out []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = Delete
		case diffmatchpatch.DiffInsert:
			op = Insert
		}
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			out = append(out, Line{Op: op, Text: strings.TrimSuffix(text, "\n")})
		}
	}
	return out
}

// Render writes a unified-style diff of before and after to w. Runs of unchanged
// lines longer than 2*Context are elided. Nothing is written when they are equal.
// A nil profile means no color.
func Render(w io.Writer, name string, before, after []string, profile *termenv.Profile) error {
	lines := Lines(before, after)
	if !changed(lines) {
		return nil
	}

	p := termenv.Ascii
	if profile != nil {
		p = *profile
	}
	del := p.Color("1")
	ins := p.Color("2")
	hdr := p.Color("6")

	var b strings.Builder
	fmt.Fprintln(&b, p.String("--- "+name+" (before)").Foreground(del).Bold())
	fmt.Fprintln(&b, p.String("+++ "+name+" (after)").Foreground(ins).Bold())

	for _, l := range elide(lines) {
		switch {
		case l == nil:
			fmt.Fprintln(&b, p.String("@@ ... @@").Foreground(hdr))
		case l.Op == Delete:
			fmt.Fprintln(&b, p.String("-"+l.Text).Foreground(del))
		case l.Op == Insert:
			fmt.Fprintln(&b, p.String("+"+l.Text).Foreground(ins))
		default:
			fmt.Fprintln(&b, " "+l.Text)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// elide keeps Context equal lines around changes; nil marks a gap.
func elide(lines []Line) []*Line {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == Equal {
			continue
		}
		for j := max(0, i-Context); j <= min(len(lines)-1, i+Context); j++ {
			keep[j] = true
		}
	}

	var out []*Line
	gap := false
	for i := range lines {
		if !keep[i] {
			gap = true
			continue
		}
		if gap {
			out = append(out, nil)
		}
		gap = false
		out = append(out, &lines[i])
	}
	if gap {
		out = append(out, nil)
	}
	return out
}

func join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
