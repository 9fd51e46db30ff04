// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/render"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for Default (first registered wins).
	backendPriority = []string{BackendNative, BackendRecording}
)

// Register registers an encoder factory under name, replacing any factory
// already registered with that name.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
	rendergraph.Logger().Debug("backend: registered", "name", name)
}

// Unregister removes a backend from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// New creates an encoder from the named backend.
func New(name, label string, caps render.BackendCapabilities) (render.CommandEncoder, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}

	enc, err := factory(label, caps)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("backend %s: %w", name, ErrNilEncoder)
	}
	return enc, nil
}

// Default returns the name of the best registered backend. Backends in the
// priority list come first; otherwise the alphabetically first one wins.
func Default() (string, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if _, ok := factories[name]; ok {
			return name, nil
		}
	}
	if len(factories) == 0 {
		return "", ErrBackendNotAvailable
	}

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return slices.Min(names), nil
}

// Resolve maps an empty name to Default and checks that a named backend is
// registered.
func Resolve(name string) (string, error) {
	if name == "" {
		return Default()
	}
	if !IsRegistered(name) {
		return "", fmt.Errorf("%w: %q (available: %v)", ErrBackendNotAvailable, name, Available())
	}
	return name, nil
}
