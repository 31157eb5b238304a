// Package dataset implements ports.Resource for record-oriented datasets kept in a local
// catalog directory.
//
// A dataset A.B.C lives at <root>/A.B.C: a directory when it is partitioned (each member
// is a file) or a plain file when it is sequential. Record attributes are read from
// <root>/A.B.C.attrs.yaml and default to FB/80.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/ensureline/pkg/codepage"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/dsname"
	"github.com/aretw0/ensureline/pkg/ports"
)

var (
	ErrNotPartitioned = errors.New("dataset is not partitioned")
	ErrMemberRequired = errors.New("partitioned dataset requires a member")
)

// Catalog resolves dataset names to files under Root.
type Catalog struct {
	Root string
}

// NewCatalog creates a catalog rooted at dir.
func NewCatalog(dir string) *Catalog {
	return &Catalog{Root: dir}
}

// Resolve implements ports.Resolver for dataset names.
func (c *Catalog) Resolve(destination string, enc domain.Encoding) (ports.Resource, error) {
	name, err := dsname.Parse(destination)
	if err != nil {
		return nil, err
	}
	codec, err := codepage.NewCodec(enc.From, enc.To)
	if err != nil {
		return nil, err
	}
	return c.Open(name, codec)
}

// Open returns a handle to the named dataset or member. The dataset need not exist:
// the first write creates it.
func (c *Catalog) Open(name dsname.Name, codec *codepage.Codec) (*Member, error) {
	if codec == nil {
		codec = codepage.Identity()
	}
	attrs, err := loadAttributes(c.attrsPath(name.Dataset))
	if err != nil {
		return nil, &domain.ResourceError{Op: domain.OpRead, Resource: name.String(), Err: err}
	}

	dsPath := c.datasetPath(name.Dataset)
	info, err := os.Stat(dsPath)
	exists := err == nil
	switch {
	case exists && info.IsDir() && name.Member == "":
		return nil, fmt.Errorf("%s: %w", name, ErrMemberRequired)
	case exists && !info.IsDir() && name.Member != "":
		return nil, fmt.Errorf("%s: %w", name, ErrNotPartitioned)
	}

	path := dsPath
	if name.Member != "" {
		path = filepath.Join(dsPath, name.Member)
	}
	return &Member{name: name, path: path, attrs: attrs, codec: codec}, nil
}

// Allocate creates an empty dataset with the given attributes. A partitioned dataset
// is created as an empty directory.
func (c *Catalog) Allocate(dataset string, attrs Attributes, partitioned bool) error {
	name, err := dsname.Parse(dataset)
	if err != nil {
		return err
	}
	if name.Member != "" {
		return fmt.Errorf("allocate %s: member not allowed", name)
	}
	if err := attrs.validate(); err != nil {
		return fmt.Errorf("allocate %s: %w", name, err)
	}
	if err := os.MkdirAll(c.Root, 0o755); err != nil {
		return err
	}
	if err := saveAttributes(c.attrsPath(name.Dataset), attrs); err != nil {
		return err
	}
	dsPath := c.datasetPath(name.Dataset)
	if partitioned {
		return os.MkdirAll(dsPath, 0o755)
	}
	return os.WriteFile(dsPath, nil, 0o644)
}

// Exists reports whether the dataset (and member, when named) is present.
func (c *Catalog) Exists(name dsname.Name) bool {
	path := c.datasetPath(name.Dataset)
	if name.Member != "" {
		path = filepath.Join(path, name.Member)
	}
	_, err := os.Stat(path)
	return err == nil
}

// Attributes returns the record attributes of a dataset.
func (c *Catalog) Attributes(dataset string) (Attributes, error) {
	return loadAttributes(c.attrsPath(dataset))
}

// CopyAttributes gives dst the attributes of src unless dst already has its own.
func (c *Catalog) CopyAttributes(src, dst string) error {
	if _, err := os.Stat(c.attrsPath(dst)); err == nil {
		return nil
	}
	attrs, err := loadAttributes(c.attrsPath(src))
	if err != nil {
		return err
	}
	return saveAttributes(c.attrsPath(dst), attrs)
}

func (c *Catalog) datasetPath(dataset string) string {
	return filepath.Join(c.Root, dataset)
}

func (c *Catalog) attrsPath(dataset string) string {
	return filepath.Join(c.Root, dataset+".attrs.yaml")
}
