package tui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TaskRow is one line of the batch summary.
type TaskRow struct {
	Destination string
	Action      string
	Changed     bool
	Err         error
}

// RenderSummary writes the batch summary table to w.
func RenderSummary(w io.Writer, rows []TaskRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Destination", "Result", "Action"})

	var changed, failed int
	for i, r := range rows {
		result := "ok"
		switch {
		case r.Err != nil:
			result = "failed: " + r.Err.Error()
			failed++
		case r.Changed:
			result = "changed"
			changed++
		}
		t.AppendRow(table.Row{i + 1, r.Destination, result, r.Action})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tasks", len(rows)), fmt.Sprintf("%d changed, %d failed", changed, failed), ""})
	t.Render()
}
