// Package registry implements the operation registry: a name-to-handler
// mapping populated once at startup and read concurrently by dispatchers.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

// Registry maps operation names to handlers. Resolution failure is a
// first-class miss, never a default handler.
//
// Thread-Safety: safe for concurrent use. Registration is expected to
// finish before the first dispatch, but the lock makes late reads safe
// regardless.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]pgcall.Operation
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		ops: make(map[string]pgcall.Operation),
	}
}

// Register adds an operation under its name. Registering a name a second
// time returns ErrDuplicateName and leaves the existing registration in
// place.
//
// Panics if op is nil (programmer error).
func (r *Registry) Register(op pgcall.Operation) error {
	if op == nil {
		panic("registry: op cannot be nil")
	}

	name := op.Name()
	if name == "" {
		return fmt.Errorf("operation name is required: %w", pgcall.ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("operation %q: %w", name, pgcall.ErrDuplicateName)
	}

	r.ops[name] = op
	return nil
}

// Resolve looks up an operation by name.
func (r *Registry) Resolve(name string) (pgcall.Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.ops[name]
	return op, ok
}

// Operations returns all registered operations, sorted by name.
func (r *Registry) Operations() []pgcall.Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)

	ops := make([]pgcall.Operation, 0, len(names))
	for _, name := range names {
		ops = append(ops, r.ops[name])
	}
	return ops
}

// Verify Registry implements pgcall.Registry at compile time
var _ pgcall.Registry = (*Registry)(nil)
