package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/veyrane/stashwise/internal/profile"
)

// ErrBackendNotRegistered is returned by [Registry.CreateStore] when no
// factory has been registered under the requested backend name.
var ErrBackendNotRegistered = errors.New("config: storage backend not registered")

// Registry maps storage backend names to their constructor functions.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	stores map[StorageBackend]func(StorageConfig) (profile.Store, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[StorageBackend]func(StorageConfig) (profile.Store, error)),
	}
}

// RegisterStore registers a profile store factory under backend.
// Subsequent calls with the same backend overwrite the previous registration.
func (r *Registry) RegisterStore(backend StorageBackend, factory func(StorageConfig) (profile.Store, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[backend] = factory
}

// CreateStore instantiates a profile store using the factory registered under
// cfg.Backend. An empty backend selects [StorageFile]. Returns
// [ErrBackendNotRegistered] if no factory has been registered for that name.
func (r *Registry) CreateStore(cfg StorageConfig) (profile.Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = StorageFile
	}
	r.mu.RLock()
	factory, ok := r.stores[backend]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotRegistered, backend)
	}
	return factory(cfg)
}

// DefaultRegistry returns a [Registry] with the built-in backends registered:
// memory and file. The postgres backend needs a live connection pool and is
// registered by the caller that owns the pool.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterStore(StorageMemory, func(StorageConfig) (profile.Store, error) {
		return profile.NewMemStore(), nil
	})
	r.RegisterStore(StorageFile, func(cfg StorageConfig) (profile.Store, error) {
		dir := cfg.ProfileDir
		if dir == "" {
			dir = "profiles"
		}
		return profile.NewFileStore(dir)
	})
	return r
}
