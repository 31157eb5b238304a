package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/aretw0/ensureline"
	"github.com/aretw0/ensureline/internal/config"
	"github.com/aretw0/ensureline/internal/presentation/diff"
	"github.com/aretw0/ensureline/internal/presentation/tui"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/params"
)

// ApplyOptions controls a single edit from the command line.
type ApplyOptions struct {
	Check bool
	Diff  bool
	JSON  bool
}

// Apply runs one edit and reports it on out. Encoding and dialect fall back to cfg
// when p leaves them unset.
func Apply(ctx context.Context, ed *ensureline.Editor, cfg config.Config, p params.Params, opts ApplyOptions, out io.Writer) error {
	if p.Encoding == nil {
		enc := cfg.Encoding
		if enc == (domain.Encoding{}) {
			enc = domain.DefaultEncoding()
		}
		p.Encoding = &enc
	}
	if p.Dialect == "" {
		p.Dialect = cfg.Dialect
	}

	run := ed.Apply
	if opts.Check {
		run = ed.Preview
	}
	res, err := run(ctx, p)
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	profile := tui.Profile(out)
	tui.PrintStatus(out, res.Destination, res.Changed, res.DryRun, profile)
	if opts.Diff && res.Changed {
		return diff.Render(out, res.Destination, res.Before, res.After, profile)
	}
	return nil
}
