// Package adapters wires destination names to the storage adapter that serves them.
package adapters

import (
	"fmt"
	"path/filepath"

	"github.com/aretw0/ensureline/pkg/adapters/dataset"
	"github.com/aretw0/ensureline/pkg/adapters/uss"
	"github.com/aretw0/ensureline/pkg/codepage"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/dsname"
	"github.com/aretw0/ensureline/pkg/ports"
)

// Resolver sends absolute paths to uss files and qualified names to the dataset catalog.
type Resolver struct {
	catalog *dataset.Catalog
}

var _ ports.Resolver = (*Resolver)(nil)

// NewResolver creates a Resolver whose datasets live under catalogRoot.
func NewResolver(catalogRoot string) *Resolver {
	return &Resolver{catalog: dataset.NewCatalog(catalogRoot)}
}

// Catalog exposes the dataset catalog, e.g. for the backupper.
func (r *Resolver) Catalog() *dataset.Catalog { return r.catalog }

// Resolve implements ports.Resolver.
func (r *Resolver) Resolve(destination string, enc domain.Encoding) (ports.Resource, error) {
	if filepath.IsAbs(destination) {
		codec, err := codepage.NewCodec(enc.From, enc.To)
		if err != nil {
			return nil, err
		}
		return uss.New(filepath.Clean(destination), codec), nil
	}
	if dsname.Valid(destination) {
		return r.catalog.Resolve(destination, enc)
	}
	return nil, fmt.Errorf("destination %q is neither an absolute path nor a dataset name", destination)
}
