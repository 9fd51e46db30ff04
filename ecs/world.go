// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ecs provides the per-frame store that render graph nodes read.
//
// A World holds entities, typed components attached to entities, and typed
// singleton resources. It is populated by upstream extraction before nodes
// run and is treated as read-only afterwards. Lookups return (value, ok);
// absence is an expected state, never an error.
//
//	w := ecs.NewWorld()
//	cam := w.Spawn()
//	ecs.Insert(w, cam, &view.ExtractedCamera{})
//	ecs.InsertResource(w, phases)
//
//	camera, ok := ecs.Get[view.ExtractedCamera](w, cam)
package ecs

import (
	"fmt"
	"reflect"
	"sync"
)

// Entity is an opaque handle identifying an object within one frame's World.
// Views are entities; an Entity is stable for the frame and never persisted.
type Entity uint64

// InvalidEntity is the zero Entity. Spawn never returns it.
const InvalidEntity Entity = 0

// String returns a debug representation of the entity.
func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d)", uint64(e))
}

// World stores entities, components and resources for a single frame.
//
// World is safe for concurrent use. Writes are expected to happen during the
// single-writer population phase that precedes node execution.
type World struct {
	mu         sync.RWMutex
	next       Entity
	alive      map[Entity]struct{}
	resources  map[reflect.Type]any
	components map[reflect.Type]map[Entity]any
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{
		alive:      make(map[Entity]struct{}),
		resources:  make(map[reflect.Type]any),
		components: make(map[reflect.Type]map[Entity]any),
	}
}

// Spawn allocates a new entity with no components.
func (w *World) Spawn() Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.next++
	w.alive[w.next] = struct{}{}
	return w.next
}

// Contains reports whether e was spawned in this World and not despawned.
func (w *World) Contains(e Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.alive[e]
	return ok
}

// Despawn removes e and all of its components.
func (w *World) Despawn(e Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.alive, e)
	for _, store := range w.components {
		delete(store, e)
	}
}

// Len returns the number of live entities.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.alive)
}

// Clear drops every entity, component and resource. Called at frame end.
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.next = InvalidEntity
	clear(w.alive)
	clear(w.resources)
	clear(w.components)
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// InsertResource stores r as the World's singleton resource of type T,
// replacing any previous value.
func InsertResource[T any](w *World, r *T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resources[typeKey[T]()] = r
}

// Resource returns the World's resource of type T.
func Resource[T any](w *World) (*T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.resources[typeKey[T]()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

// RemoveResource deletes the resource of type T if present.
func RemoveResource[T any](w *World) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.resources, typeKey[T]())
}

// Insert attaches component c of type T to entity e.
// Inserting onto an entity that was never spawned panics.
func Insert[T any](w *World, e Entity, c *T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.alive[e]; !ok {
		panic(fmt.Sprintf("ecs: insert %s on unknown %s", typeKey[T](), e))
	}
	key := typeKey[T]()
	store, ok := w.components[key]
	if !ok {
		store = make(map[Entity]any)
		w.components[key] = store
	}
	store[e] = c
}

// Get returns the component of type T attached to e.
func Get[T any](w *World, e Entity) (*T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.components[typeKey[T]()][e]
	if !ok {
		return nil, false
	}
	return c.(*T), true
}

// Has reports whether e carries a component of type T.
func Has[T any](w *World, e Entity) bool {
	_, ok := Get[T](w, e)
	return ok
}

// Remove detaches the component of type T from e if present.
func Remove[T any](w *World, e Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.components[typeKey[T]()], e)
}
