// Package tui holds the terminal output helpers of the CLI.
package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Profile returns the color profile for w, or nil when w is not a terminal or
// NO_COLOR is set.
func Profile(w io.Writer) *termenv.Profile {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || os.Getenv("NO_COLOR") != "" {
		return nil
	}
	p := termenv.NewOutput(f).EnvColorProfile()
	return &p
}

// PrintStatus writes the one-line outcome, "changed: <name>" or "ok: <name>".
func PrintStatus(w io.Writer, name string, changed, dryRun bool, profile *termenv.Profile) {
	p := termenv.Ascii
	if profile != nil {
		p = *profile
	}

	label := p.String("ok:").Foreground(p.Color("2"))
	if changed {
		label = p.String("changed:").Foreground(p.Color("3"))
	}
	suffix := ""
	if dryRun {
		suffix = " (check mode)"
	}
	fmt.Fprintf(w, "%s %s%s\n", label, name, suffix)
}

// PrintError writes a failure line.
func PrintError(w io.Writer, err error, profile *termenv.Profile) {
	p := termenv.Ascii
	if profile != nil {
		p = *profile
	}
	fmt.Fprintf(w, "%s %v\n", p.String("failed:").Foreground(p.Color("1")).Bold(), err)
}
