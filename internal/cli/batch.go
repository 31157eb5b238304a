package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/ensureline/internal/presentation/tui"
	"github.com/aretw0/ensureline/pkg/params"
)

// BatchOptions controls a batch run.
type BatchOptions struct {
	Check     bool
	KeepGoing bool
}

// Batch applies tasks in order and writes a summary table to out. It stops at the
// first failure unless KeepGoing is set. The returned error reports how many
// tasks failed and exits with status 1.
func Batch(ctx context.Context, a Applier, tasks []map[string]any, opts BatchOptions, out io.Writer) error {
	rows := make([]tui.TaskRow, 0, len(tasks))
	var failed int
	var first error

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := a.ApplyMap(ctx, task, opts.Check)
		row := tui.TaskRow{Destination: destinationOf(task), Err: err}
		if err == nil {
			row.Destination = res.Destination
			row.Action = string(res.Action)
			row.Changed = res.Changed
		}
		rows = append(rows, row)

		if err != nil {
			failed++
			if first == nil {
				first = err
			}
			if !opts.KeepGoing {
				break
			}
		}
	}

	tui.RenderSummary(out, rows)
	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d tasks failed: %w", failed, len(tasks), first)}
	}
	return nil
}

// destinationOf finds the destination of a raw task under any accepted key.
func destinationOf(task map[string]any) string {
	for k, v := range task {
		key := strings.ToLower(k)
		if alias, ok := params.Aliases[key]; ok {
			key = alias
		}
		if key == "destination" {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return "?"
}
