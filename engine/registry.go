package engine

import (
	"errors"
	"fmt"
	"sort"
)

// Factory builds one Engine instance.
type Factory func() (Engine, error)

// Registry maps engine ids to their factories.
type Registry struct {
	factories map[int]Factory
}

// Errors returned by registry operations.
var (
	ErrUnknownEngine = errors.New("engine: unknown engine id")
	ErrDuplicateID   = errors.New("engine: duplicate engine id")
	ErrNilFactory    = errors.New("engine: nil factory")
	ErrNilEngine     = errors.New("engine: factory returned nil engine")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[int]Factory)}
}

// Register adds a factory for the given id.
func (r *Registry) Register(id int, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("%w: id %d", ErrNilFactory, id)
	}

	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}

	r.factories[id] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(id int, factory Factory) {
	err := r.Register(id, factory)
	if err != nil {
		panic("engine registry: " + err.Error())
	}
}

// Create builds the engine registered under id.
func (r *Registry) Create(id int) (Engine, error) {
	factory, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEngine, id)
	}

	e, err := factory()
	if err != nil {
		return nil, fmt.Errorf("engine: create id %d: %w", id, err)
	}

	if e == nil {
		return nil, fmt.Errorf("%w: id %d", ErrNilEngine, id)
	}

	return e, nil
}

// IDs returns all registered ids in ascending order.
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	return len(r.factories)
}
