// Package backup copies a resource aside before it is edited.
//
// Files get a sibling named <path>.<YYYY-MM-DD@HH:MM:SS>~. Datasets get a new dataset
// named <dsn>.B<yyddd>.T<hhmmss>, keeping the member name when there is one.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/ensureline/internal/fsutil"
	"github.com/aretw0/ensureline/pkg/adapters/dataset"
	"github.com/aretw0/ensureline/pkg/adapters/uss"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/dsname"
	"github.com/aretw0/ensureline/pkg/ports"
)

// Clock returns the current time.
type Clock func() time.Time

// Backupper implements ports.Backupper for uss files, catalog datasets and any other
// resource (by reading and rewriting its lines).
type Backupper struct {
	now     Clock
	catalog *dataset.Catalog
}

var _ ports.Backupper = (*Backupper)(nil)

// Option configures the Backupper.
type Option func(*Backupper)

// WithCatalog sets the catalog new backup datasets are allocated in.
func WithCatalog(c *dataset.Catalog) Option {
	return func(b *Backupper) {
		b.catalog = c
	}
}

// New creates a Backupper. A nil clock means time.Now.
func New(clock Clock, opts ...Option) *Backupper {
	if clock == nil {
		clock = time.Now
	}
	b := &Backupper{now: clock}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FileName returns the default backup path for a file.
func FileName(path string, t time.Time) string {
	return path + "." + t.Format("2006-01-02@15:04:05") + "~"
}

// DatasetName returns the default backup name for a dataset or member.
func DatasetName(n dsname.Name, t time.Time) dsname.Name {
	return n.WithSuffix(fmt.Sprintf("B%02d%03d", t.Year()%100, t.YearDay()), "T"+t.Format("150405"))
}

// Backup implements ports.Backupper.
func (b *Backupper) Backup(ctx context.Context, res ports.Resource, dest string) (string, error) {
	var (
		name string
		err  error
	)
	switch r := res.(type) {
	case *uss.File:
		name, err = b.backupFile(r, dest)
	case *dataset.Member:
		name, err = b.backupMember(ctx, r, dest)
	default:
		name, err = b.backupLines(ctx, res, dest)
	}
	if err != nil {
		return "", &domain.ResourceError{Op: domain.OpBackup, Resource: res.Name(), Err: err}
	}
	return name, nil
}

func (b *Backupper) backupFile(f *uss.File, dest string) (string, error) {
	if dest == "" {
		dest = FileName(f.Path(), b.now())
	} else if !filepath.IsAbs(dest) {
		return "", fmt.Errorf("backup destination %q must be an absolute path", dest)
	}
	if _, err := os.Stat(f.Path()); err != nil {
		return "", fsutil.Classify(err)
	}
	if err := fsutil.CopyFile(f.Path(), dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (b *Backupper) backupMember(ctx context.Context, m *dataset.Member, dest string) (string, error) {
	var target dsname.Name
	if dest == "" {
		target = DatasetName(m.DatasetName(), b.now())
	} else {
		parsed, err := dsname.Parse(dest)
		if err != nil {
			return "", err
		}
		target = parsed
	}

	raw, err := fsutil.ReadFile(m.Path())
	if err != nil {
		return "", err
	}

	catalog := b.catalog
	if catalog == nil {
		catalog = dataset.NewCatalog(catalogRoot(m))
	}
	if err := catalog.CopyAttributes(m.DatasetName().Dataset, target.Dataset); err != nil {
		return "", err
	}
	copyRes, err := catalog.Open(target, m.Codec())
	if err != nil {
		return "", err
	}

	// Same record layout: keep the original bytes. Otherwise re-block the records.
	if copyRes.Attributes() == m.Attributes() {
		err = fsutil.WriteFileAtomic(copyRes.Path(), raw)
	} else {
		var lines []string
		if lines, err = m.ReadLines(ctx); err == nil {
			err = copyRes.WriteLines(ctx, lines)
		}
	}
	if err != nil {
		return "", err
	}
	return target.String(), nil
}

func (b *Backupper) backupLines(ctx context.Context, res ports.Resource, dest string) (string, error) {
	if dest == "" {
		return "", fmt.Errorf("backup of %s resources requires a destination", res.Kind())
	}
	lines, err := res.ReadLines(ctx)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dest) {
		return "", fmt.Errorf("backup destination %q must be an absolute path", dest)
	}
	if err := fsutil.WriteFileAtomic(dest, []byte(uss.JoinLines(lines))); err != nil {
		return "", err
	}
	return dest, nil
}

// catalogRoot recovers the catalog directory from a member's backing file.
func catalogRoot(m *dataset.Member) string {
	dir := filepath.Dir(m.Path())
	if m.DatasetName().Member != "" {
		dir = filepath.Dir(dir)
	}
	return dir
}
