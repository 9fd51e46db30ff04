// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package phase

import (
	"reflect"
	"sync"

	"github.com/gogpu/rendergraph/ecs"
	"github.com/gogpu/rendergraph/render"
)

// DrawFunctionID identifies a draw function within DrawFunctions.
type DrawFunctionID uint32

// Draw encodes one phase item into a render pass.
type Draw[I PhaseItem] interface {
	// Prepare is called once per Render before the first item.
	Prepare(world *ecs.World)

	// Draw encodes item. A non-nil error aborts the phase.
	Draw(world *ecs.World, view ecs.Entity, item I, pass *render.TrackedRenderPass) error
}

// DrawFunctions is the registry of draw functions for phase items of kind
// I. It is stored as a World resource.
type DrawFunctions[I PhaseItem] struct {
	mu     sync.RWMutex
	funcs  []Draw[I]
	byType map[reflect.Type]DrawFunctionID
}

// NewDrawFunctions creates an empty registry.
func NewDrawFunctions[I PhaseItem]() *DrawFunctions[I] {
	return &DrawFunctions[I]{byType: make(map[reflect.Type]DrawFunctionID)}
}

// Add registers fn and returns its ID.
func (d *DrawFunctions[I]) Add(fn Draw[I]) DrawFunctionID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := DrawFunctionID(len(d.funcs))
	d.funcs = append(d.funcs, fn)
	d.byType[reflect.TypeOf(fn)] = id
	return id
}

// Get returns the function registered under id.
func (d *DrawFunctions[I]) Get(id DrawFunctionID) (Draw[I], bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if int(id) >= len(d.funcs) {
		return nil, false
	}
	return d.funcs[id], true
}

// Prepare calls Prepare on every registered function.
func (d *DrawFunctions[I]) Prepare(world *ecs.World) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, fn := range d.funcs {
		fn.Prepare(world)
	}
}

// Len returns the number of registered functions.
func (d *DrawFunctions[I]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.funcs)
}

// ID returns the ID of the function of type T, last registered wins.
//
//	id, ok := phase.ID[*core2d.DrawTransparent2d](fns)
func ID[T Draw[I], I PhaseItem](d *DrawFunctions[I]) (DrawFunctionID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byType[reflect.TypeFor[T]()]
	return id, ok
}
