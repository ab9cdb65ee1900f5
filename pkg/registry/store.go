package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arthur-debert/commander/pkg/errors"
)

// Store is a thread-safe map of named items
type Store[T any] interface {
	// Register adds an item; names must be unique and non-empty
	Register(name string, item T) error

	// Get retrieves an item by name
	Get(name string) (T, error)

	// List returns all registered names, sorted
	List() []string
}

type store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewStore creates an empty Store
func NewStore[T any]() Store[T] {
	return &store[T]{
		items: make(map[string]T),
	}
}

func (s *store[T]) Register(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[name]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "item '%s' is already registered", name)
	}

	s.items[name] = item
	return nil
}

func (s *store[T]) Get(name string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[name]
	if !exists {
		var zero T
		return zero, errors.Newf(errors.ErrNotFound, "item '%s' not found in registry", name)
	}
	return item, nil
}

func (s *store[T]) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MustRegister registers an item and panics if registration fails.
// Used from init() functions where a failure is a programming error.
func MustRegister[T any](s Store[T], name string, item T) {
	if err := s.Register(name, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}
