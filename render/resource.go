// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
)

// AttachmentRequirements declares which depth/stencil aspects a pipeline
// was built for. A pipeline without depth/stencil state must be drawn in a
// pass without a depth/stencil attachment, and vice versa.
type AttachmentRequirements struct {
	// Depth is true when the pipeline tests or writes depth.
	Depth bool

	// Stencil is true when the pipeline tests or writes stencil.
	Stencil bool
}

// DepthStencil reports whether any depth/stencil aspect is required.
func (r AttachmentRequirements) DepthStencil() bool {
	return r.Depth || r.Stencil
}

// Union returns the requirements satisfying both r and o.
func (r AttachmentRequirements) Union(o AttachmentRequirements) AttachmentRequirements {
	return AttachmentRequirements{
		Depth:   r.Depth || o.Depth,
		Stencil: r.Stencil || o.Stencil,
	}
}

// String returns a compact representation such as "depth+stencil".
func (r AttachmentRequirements) String() string {
	switch {
	case r.Depth && r.Stencil:
		return "depth+stencil"
	case r.Depth:
		return "depth"
	case r.Stencil:
		return "stencil"
	default:
		return "none"
	}
}

// PipelineID identifies a RenderPipeline within a PipelineCache.
type PipelineID uint64

// RenderPipeline is a compiled render pipeline. Native holds the backend
// handle (for example a hal.RenderPipeline); nil for recording backends.
type RenderPipeline struct {
	ID          PipelineID
	Label       string
	Attachments AttachmentRequirements
	Native      any
}

// BindGroup is a set of resources bound at one bind group index.
type BindGroup struct {
	Label  string
	Native any
}

// Buffer is a GPU buffer used for vertex or index data.
type Buffer struct {
	Label  string
	Size   uint64
	Native any
}

// QuerySet is a pool of GPU queries (timestamps or occlusion).
type QuerySet struct {
	Label  string
	Count  uint32
	Native any
}

// PipelineCache maps PipelineIDs to compiled pipelines. It is stored as a
// World resource and read by draw functions.
type PipelineCache struct {
	mu        sync.RWMutex
	next      PipelineID
	pipelines map[PipelineID]*RenderPipeline
}

// NewPipelineCache creates an empty cache.
func NewPipelineCache() *PipelineCache {
	return &PipelineCache{pipelines: make(map[PipelineID]*RenderPipeline)}
}

// Insert adds p to the cache and returns its ID. A zero p.ID is replaced by
// a freshly allocated one.
func (c *PipelineCache) Insert(p *RenderPipeline) PipelineID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.ID == 0 {
		c.next++
		p.ID = c.next
	} else if p.ID > c.next {
		c.next = p.ID
	}
	c.pipelines[p.ID] = p
	return p.ID
}

// Get returns the pipeline for id.
func (c *PipelineCache) Get(id PipelineID) (*RenderPipeline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pipelines[id]
	return p, ok
}

// Lookup returns the pipeline for id or an error wrapping ErrPipelineNotFound.
func (c *PipelineCache) Lookup(id PipelineID) (*RenderPipeline, error) {
	p, ok := c.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrPipelineNotFound, id)
	}
	return p, nil
}

// Len returns the number of cached pipelines.
func (c *PipelineCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// BoundBindGroup is one bind group entry of a BindGroups component.
type BoundBindGroup struct {
	Index          uint32
	Group          *BindGroup
	DynamicOffsets []uint32
}

// BindGroups is the per-entity component listing the bind groups an item
// draws with, in binding order.
type BindGroups struct {
	Groups []BoundBindGroup
}

// DrawArgs is the per-entity component holding the geometry and draw call
// parameters of an item. IndexBuffer selects an indexed draw.
type DrawArgs struct {
	VertexBuffer  *Buffer
	IndexBuffer   *Buffer
	IndexFormat   gputypes.IndexFormat
	VertexCount   uint32
	IndexCount    uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstIndex    uint32
	BaseVertex    int32
	FirstInstance uint32
}

// Indexed reports whether the item uses an indexed draw.
func (a *DrawArgs) Indexed() bool {
	return a.IndexBuffer != nil
}
