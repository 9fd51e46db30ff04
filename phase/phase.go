// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package phase holds the per-view lists of items to draw and the draw
// functions that encode them.
//
// A SortedRenderPhase is filled and sorted upstream; rendering walks it in
// stored order and never re-sorts. Each item names a draw function by ID;
// the function is looked up in the World's DrawFunctions resource.
package phase

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/rendergraph/ecs"
	"github.com/gogpu/rendergraph/render"
	"github.com/gogpu/rendergraph/view"
)

// PhaseItem is one drawable queued in a phase.
type PhaseItem interface {
	// Entity identifies the item in the World.
	Entity() ecs.Entity

	// DrawFunction names the draw function that encodes the item.
	DrawFunction() DrawFunctionID

	// Pipeline is the cached pipeline the item is drawn with.
	Pipeline() render.PipelineID
}

// SortedPhaseItem is a PhaseItem with a sort key.
type SortedPhaseItem interface {
	PhaseItem

	// SortKey orders items ascending. NaN sorts before every other value.
	SortKey() float32

	// BatchRange is the instance range drawn for the item. An empty range
	// means the draw arguments' own instance range.
	BatchRange() (start, end uint32)
}

// SortedRenderPhase is the ordered item list of one view.
type SortedRenderPhase[I SortedPhaseItem] struct {
	items []I
}

// Add appends an item.
func (p *SortedRenderPhase[I]) Add(item I) {
	p.items = append(p.items, item)
}

// Items returns the items in stored order. The slice must not be modified.
func (p *SortedRenderPhase[I]) Items() []I {
	return p.items
}

// Len returns the number of items.
func (p *SortedRenderPhase[I]) Len() int {
	return len(p.items)
}

// Clear removes all items, keeping capacity.
func (p *SortedRenderPhase[I]) Clear() {
	clear(p.items)
	p.items = p.items[:0]
}

// Sort orders items stably by SortKey ascending.
func (p *SortedRenderPhase[I]) Sort() {
	slices.SortStableFunc(p.items, func(a, b I) int {
		return cmp.Compare(a.SortKey(), b.SortKey())
	})
}

// Requirements returns the union of the attachment requirements of the
// queued items' pipelines. Items whose pipeline is not cached are skipped;
// their draw reports the failure.
func (p *SortedRenderPhase[I]) Requirements(world *ecs.World) render.AttachmentRequirements {
	var req render.AttachmentRequirements
	cache, ok := ecs.Resource[render.PipelineCache](world)
	if !ok {
		return req
	}
	for _, item := range p.items {
		if pl, ok := cache.Get(item.Pipeline()); ok {
			req = req.Union(pl.Attachments)
		}
	}
	return req
}

// Render draws every item in stored order. If camera has a viewport the
// pass is restricted to it before the first item.
func (p *SortedRenderPhase[I]) Render(pass *render.TrackedRenderPass, world *ecs.World, viewEntity ecs.Entity, camera *view.ExtractedCamera) error {
	return p.RenderRange(pass, world, viewEntity, camera, 0, len(p.items))
}

// RenderRange draws items[start:end] with the semantics of Render.
func (p *SortedRenderPhase[I]) RenderRange(pass *render.TrackedRenderPass, world *ecs.World, viewEntity ecs.Entity, camera *view.ExtractedCamera, start, end int) error {
	if start < 0 || end > len(p.items) || start > end {
		return fmt.Errorf("%w: [%d:%d] of %d", ErrRangeOutOfBounds, start, end, len(p.items))
	}
	if camera != nil && camera.Viewport != nil {
		if err := pass.SetCameraViewport(camera.Viewport); err != nil {
			return fmt.Errorf("phase: set viewport: %w", err)
		}
	}
	if start == end {
		return nil
	}

	fns, ok := ecs.Resource[DrawFunctions[I]](world)
	if !ok {
		return ErrDrawFunctionsMissing
	}
	fns.Prepare(world)

	for i := start; i < end; i++ {
		item := p.items[i]
		fn, ok := fns.Get(item.DrawFunction())
		if !ok {
			return &ItemError{Index: i, Entity: item.Entity(), Err: fmt.Errorf("%w: id %d", ErrDrawFunctionNotFound, item.DrawFunction())}
		}
		if err := fn.Draw(world, viewEntity, item, pass); err != nil {
			return &ItemError{Index: i, Entity: item.Entity(), Err: err}
		}
	}
	return nil
}

// ViewSortedRenderPhases maps views to their phase. It is stored as a World
// resource; its absence means the phase kind is not wired.
type ViewSortedRenderPhases[I SortedPhaseItem] struct {
	mu     sync.RWMutex
	phases map[ecs.Entity]*SortedRenderPhase[I]
}

// NewViewSortedRenderPhases creates an empty registry.
func NewViewSortedRenderPhases[I SortedPhaseItem]() *ViewSortedRenderPhases[I] {
	return &ViewSortedRenderPhases[I]{phases: make(map[ecs.Entity]*SortedRenderPhase[I])}
}

// InsertOrClear returns the phase for v, creating it or clearing the
// existing one.
func (r *ViewSortedRenderPhases[I]) InsertOrClear(v ecs.Entity) *SortedRenderPhase[I] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.phases[v]; ok {
		p.Clear()
		return p
	}
	p := &SortedRenderPhase[I]{}
	r.phases[v] = p
	return p
}

// Get returns the phase for v. Absence is not an error.
func (r *ViewSortedRenderPhases[I]) Get(v ecs.Entity) (*SortedRenderPhase[I], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.phases[v]
	return p, ok
}

// Remove drops the phase for v.
func (r *ViewSortedRenderPhases[I]) Remove(v ecs.Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.phases, v)
}

// Len returns the number of views with a phase.
func (r *ViewSortedRenderPhases[I]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.phases)
}

// LookupState is the outcome of Lookup.
type LookupState int

const (
	// LookupAbsentResource means no registry is in the World.
	LookupAbsentResource LookupState = iota

	// LookupAbsentEntry means the registry has no phase for the view.
	LookupAbsentEntry

	// LookupPresent means the phase was found.
	LookupPresent
)

func (s LookupState) String() string {
	switch s {
	case LookupAbsentResource:
		return "absent-resource"
	case LookupAbsentEntry:
		return "absent-entry"
	case LookupPresent:
		return "present"
	default:
		return fmt.Sprintf("LookupState(%d)", int(s))
	}
}

// Lookup finds the phase of kind I for view v.
func Lookup[I SortedPhaseItem](world *ecs.World, v ecs.Entity) (*SortedRenderPhase[I], LookupState) {
	phases, ok := ecs.Resource[ViewSortedRenderPhases[I]](world)
	if !ok {
		return nil, LookupAbsentResource
	}
	p, ok := phases.Get(v)
	if !ok {
		return nil, LookupAbsentEntry
	}
	return p, LookupPresent
}
