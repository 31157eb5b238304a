package ports

import (
	"context"

	"github.com/aretw0/ensureline/pkg/domain"
)

// Resource is one logical text resource seen as an ordered sequence of lines.
// Implementations own record-boundary and encoding concerns; callers only see lines.
type Resource interface {
	// Name returns the destination as the user wrote it (path or dataset name).
	Name() string

	// Kind reports which storage variant backs the resource.
	Kind() domain.ResourceKind

	// ReadLines returns the current lines.
	// Returns domain.ErrResourceNotFound (wrapped) if the resource does not exist.
	ReadLines(ctx context.Context) ([]string, error)

	// WriteLines replaces the whole content. Implementations must not leave a
	// partially written resource behind when they fail.
	WriteLines(ctx context.Context, lines []string) error
}

// Resolver maps a destination name to a Resource that converts through enc.
type Resolver interface {
	Resolve(destination string, enc domain.Encoding) (Resource, error)
}

// Backupper copies a resource before it is modified.
type Backupper interface {
	// Backup copies res to dest, or to a generated timestamp-qualified name when
	// dest is empty. It returns the name of the copy.
	Backup(ctx context.Context, res Resource, dest string) (string, error)
}

// LineNormalizer is implemented by resources that do not store every line verbatim.
// NormalizeLine returns line as ReadLines would return it after a write.
type LineNormalizer interface {
	NormalizeLine(line string) string
}
