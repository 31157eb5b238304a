package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/ports"
)

// Store keeps named line buffers in memory and resolves them as ports.Resource.
// Safe for concurrent use.
type Store struct {
	data map[string][]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store, optionally seeded with content.
func NewStore(seed map[string][]string) *Store {
	s := &Store{data: make(map[string][]string)}
	for name, lines := range seed {
		s.data[name] = clone(lines)
	}
	return s
}

// Resolve implements ports.Resolver. The resource need not exist yet.
// Buffers hold text, so the encoding pair is not used.
func (s *Store) Resolve(destination string, _ domain.Encoding) (ports.Resource, error) {
	if destination == "" {
		return nil, fmt.Errorf("destination cannot be empty")
	}
	return &Resource{store: s, name: destination}, nil
}

// Get returns a copy of the named buffer.
func (s *Store) Get(name string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines, ok := s.data[name]
	if !ok {
		return nil, false
	}
	return clone(lines), true
}

// List returns the names of all buffers, sorted.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) put(name string, lines []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = clone(lines)
}

// Resource is a handle to one buffer of a Store.
type Resource struct {
	store *Store
	name  string
}

var _ ports.Resource = (*Resource)(nil)

func (r *Resource) Name() string              { return r.name }
func (r *Resource) Kind() domain.ResourceKind { return domain.KindMemory }

// ReadLines returns a copy of the buffer so callers can't mutate store state.
func (r *Resource) ReadLines(ctx context.Context) ([]string, error) {
	lines, ok := r.store.Get(r.name)
	if !ok {
		return nil, &domain.ResourceError{Op: domain.OpRead, Resource: r.name, Err: domain.ErrResourceNotFound}
	}
	return lines, nil
}

// WriteLines replaces the buffer.
func (r *Resource) WriteLines(ctx context.Context, lines []string) error {
	r.store.put(r.name, lines)
	return nil
}

func clone(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}
