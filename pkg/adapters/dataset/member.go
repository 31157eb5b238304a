package dataset

import (
	"context"
	"os"
	"strings"

	"github.com/aretw0/ensureline/internal/fsutil"
	"github.com/aretw0/ensureline/pkg/codepage"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/dsname"
	"github.com/aretw0/ensureline/pkg/ports"
)

// Member is a sequential dataset or one member of a partitioned dataset.
type Member struct {
	name  dsname.Name
	path  string
	attrs Attributes
	codec *codepage.Codec
}

var (
	_ ports.Resource       = (*Member)(nil)
	_ ports.LineNormalizer = (*Member)(nil)
)

func (m *Member) Name() string              { return m.name.String() }
func (m *Member) Kind() domain.ResourceKind { return domain.KindDataset }

// DatasetName returns the parsed name.
func (m *Member) DatasetName() dsname.Name { return m.name }

// Attributes returns the record attributes in effect.
func (m *Member) Attributes() Attributes { return m.attrs }

// Codec returns the code page conversion applied to records.
func (m *Member) Codec() *codepage.Codec { return m.codec }

// Path returns the backing file in the catalog.
func (m *Member) Path() string { return m.path }

// ReadLines returns one line per record.
func (m *Member) ReadLines(ctx context.Context) ([]string, error) {
	info, err := os.Stat(m.path)
	if err == nil && info.IsDir() {
		return nil, m.fail(domain.OpRead, ErrMemberRequired)
	}
	raw, err := fsutil.ReadFile(m.path)
	if err != nil {
		return nil, m.fail(domain.OpRead, err)
	}
	lines, err := decodeRecords(raw, m.attrs, m.codec)
	if err != nil {
		return nil, m.fail(domain.OpRead, err)
	}
	return lines, nil
}

// NormalizeLine drops the trailing blanks a fixed-length record cannot keep apart
// from its padding.
func (m *Member) NormalizeLine(line string) string {
	if m.attrs.RecFM == FixedBlocked {
		return strings.TrimRight(line, " ")
	}
	return line
}

// WriteLines writes one record per line. Nothing is written if any line does not fit.
func (m *Member) WriteLines(ctx context.Context, lines []string) error {
	raw, err := encodeRecords(lines, m.attrs, m.codec)
	if err != nil {
		return m.fail(domain.OpWrite, err)
	}
	if err := fsutil.WriteFileAtomic(m.path, raw); err != nil {
		return m.fail(domain.OpWrite, err)
	}
	return nil
}

func (m *Member) fail(op domain.ResourceOp, err error) error {
	return &domain.ResourceError{Op: op, Resource: m.name.String(), Err: err}
}
