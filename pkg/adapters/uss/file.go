// Package uss implements ports.Resource for byte-stream files addressed by absolute path.
package uss

import (
	"context"
	"strings"

	"github.com/aretw0/ensureline/internal/fsutil"
	"github.com/aretw0/ensureline/pkg/codepage"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/ports"
)

// File is a byte-stream file split into lines on '\n'.
type File struct {
	path  string
	codec *codepage.Codec
}

var _ ports.Resource = (*File)(nil)

// New creates a File. A nil codec means the file holds UTF-8 text.
func New(path string, codec *codepage.Codec) *File {
	if codec == nil {
		codec = codepage.Identity()
	}
	return &File{path: path, codec: codec}
}

func (f *File) Name() string              { return f.path }
func (f *File) Kind() domain.ResourceKind { return domain.KindUSS }

// Path returns the filesystem location of the file.
func (f *File) Path() string { return f.path }

// ReadLines decodes the file and splits it into lines.
func (f *File) ReadLines(ctx context.Context) ([]string, error) {
	raw, err := fsutil.ReadFile(f.path)
	if err != nil {
		return nil, &domain.ResourceError{Op: domain.OpRead, Resource: f.path, Err: err}
	}
	text, err := f.codec.Decode(raw)
	if err != nil {
		return nil, &domain.ResourceError{Op: domain.OpRead, Resource: f.path, Err: err}
	}
	return SplitLines(text), nil
}

// WriteLines encodes lines and atomically replaces the file. The last line is always
// terminated.
func (f *File) WriteLines(ctx context.Context, lines []string) error {
	raw, err := f.codec.Encode(JoinLines(lines))
	if err != nil {
		return &domain.ResourceError{Op: domain.OpWrite, Resource: f.path, Err: err}
	}
	if err := fsutil.WriteFileAtomic(f.path, raw); err != nil {
		return &domain.ResourceError{Op: domain.OpWrite, Resource: f.path, Err: err}
	}
	return nil
}

// SplitLines splits text on '\n'. A trailing terminator does not start a new line and
// '\r' is kept as content.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
