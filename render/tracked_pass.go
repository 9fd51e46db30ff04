// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
)

const (
	// maxBindGroups is the WebGPU limit on bind group indices.
	maxBindGroups = 4

	// maxVertexBuffers is the WebGPU default limit on vertex buffer slots.
	maxVertexBuffers = 8
)

type bindGroupState struct {
	group   *BindGroup
	offsets []uint32
}

type bufferState struct {
	buffer *Buffer
	offset uint64
}

// TrackedRenderPass wraps a RenderPass and tracks bound state so that
// redundant pipeline, bind group and buffer binds are not forwarded to the
// backend. Draw functions record through a TrackedRenderPass.
//
// Lifecycle:
//  1. Created by graph.RenderContext.BeginTrackedRenderPass
//  2. Record commands (SetRenderPipeline, SetBindGroup, Draw, etc.)
//  3. Call End() to complete the pass
type TrackedRenderPass struct {
	pass RenderPass

	pipeline      *RenderPipeline
	bindGroups    [maxBindGroups]bindGroupState
	vertexBuffers [maxVertexBuffers]bufferState
	indexBuffer   bufferState
	indexFormat   gputypes.IndexFormat

	draws int
	ended bool
}

// NewTrackedRenderPass wraps pass.
func NewTrackedRenderPass(pass RenderPass) *TrackedRenderPass {
	return &TrackedRenderPass{pass: pass}
}

// Label returns the underlying pass label.
func (p *TrackedRenderPass) Label() string {
	return p.pass.Label()
}

// IsEnded returns true if End has been called.
func (p *TrackedRenderPass) IsEnded() bool {
	return p.ended
}

// DrawCount returns the number of draw calls forwarded to the backend.
func (p *TrackedRenderPass) DrawCount() int {
	return p.draws
}

// Pipeline returns the currently bound pipeline, or nil.
func (p *TrackedRenderPass) Pipeline() *RenderPipeline {
	return p.pipeline
}

func (p *TrackedRenderPass) checkRecording() error {
	if p.ended {
		return ErrPassEnded
	}
	return nil
}

// SetRenderPipeline binds pipeline unless it is already bound.
func (p *TrackedRenderPass) SetRenderPipeline(pipeline *RenderPipeline) error {
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set pipeline: %w", err)
	}
	if pipeline == nil {
		return ErrNilPipeline
	}
	if p.pipeline == pipeline {
		return nil
	}
	if err := p.pass.SetPipeline(pipeline); err != nil {
		return err
	}
	p.pipeline = pipeline
	return nil
}

// SetBindGroup binds group at index unless the same group with the same
// dynamic offsets is already bound there.
func (p *TrackedRenderPass) SetBindGroup(index uint32, group *BindGroup, dynamicOffsets []uint32) error {
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set bind group: %w", err)
	}
	if index >= maxBindGroups {
		return fmt.Errorf("%w: index %d", ErrBindGroupIndexOutOfRange, index)
	}
	if group == nil {
		return ErrNilBindGroup
	}
	cur := &p.bindGroups[index]
	if cur.group == group && slices.Equal(cur.offsets, dynamicOffsets) {
		return nil
	}
	if err := p.pass.SetBindGroup(index, group, dynamicOffsets); err != nil {
		return err
	}
	cur.group = group
	cur.offsets = slices.Clone(dynamicOffsets)
	return nil
}

// SetVertexBuffer binds buffer at slot unless already bound at offset.
func (p *TrackedRenderPass) SetVertexBuffer(slot uint32, buffer *Buffer, offset uint64) error {
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set vertex buffer: %w", err)
	}
	if slot >= maxVertexBuffers {
		return fmt.Errorf("%w: slot %d", ErrVertexSlotOutOfRange, slot)
	}
	if buffer == nil {
		return ErrNilVertexBuffer
	}
	cur := &p.vertexBuffers[slot]
	if cur.buffer == buffer && cur.offset == offset {
		return nil
	}
	if err := p.pass.SetVertexBuffer(slot, buffer, offset); err != nil {
		return err
	}
	cur.buffer, cur.offset = buffer, offset
	return nil
}

// SetIndexBuffer binds the index buffer unless already bound.
func (p *TrackedRenderPass) SetIndexBuffer(buffer *Buffer, format gputypes.IndexFormat, offset uint64) error {
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set index buffer: %w", err)
	}
	if buffer == nil {
		return ErrNilIndexBuffer
	}
	if p.indexBuffer.buffer == buffer && p.indexBuffer.offset == offset && p.indexFormat == format {
		return nil
	}
	if err := p.pass.SetIndexBuffer(buffer, format, offset); err != nil {
		return err
	}
	p.indexBuffer = bufferState{buffer: buffer, offset: offset}
	p.indexFormat = format
	return nil
}

// SetViewport sets the viewport transformation.
func (p *TrackedRenderPass) SetViewport(x, y, width, height, minDepth, maxDepth float32) error {
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	return p.pass.SetViewport(x, y, width, height, minDepth, maxDepth)
}

// SetCameraViewport restricts subsequent draws to vp. A nil vp is a no-op
// and leaves the full-target default in place.
func (p *TrackedRenderPass) SetCameraViewport(vp *Viewport) error {
	if vp == nil {
		return nil
	}
	return p.SetViewport(float32(vp.X), float32(vp.Y), float32(vp.Width), float32(vp.Height), vp.MinDepth, vp.MaxDepth)
}

// SetScissorRect sets the scissor rectangle.
func (p *TrackedRenderPass) SetScissorRect(x, y, width, height uint32) error {
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set scissor rect: %w", err)
	}
	return p.pass.SetScissorRect(x, y, width, height)
}

// SetStencilReference sets the stencil reference value.
func (p *TrackedRenderPass) SetStencilReference(reference uint32) error {
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set stencil reference: %w", err)
	}
	return p.pass.SetStencilReference(reference)
}

// Draw issues a non-indexed draw call.
func (p *TrackedRenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	if err := p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance); err != nil {
		return err
	}
	p.draws++
	return nil
}

// DrawIndexed issues an indexed draw call.
func (p *TrackedRenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) error {
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("draw indexed: %w", err)
	}
	if err := p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance); err != nil {
		return err
	}
	p.draws++
	return nil
}

// WriteTimestamp forwards to the backend pass if it supports timestamp
// writes and returns ErrTimestampsUnsupported otherwise.
func (p *TrackedRenderPass) WriteTimestamp(set *QuerySet, index uint32) error {
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("write timestamp: %w", err)
	}
	tw, ok := p.pass.(TimestampWriter)
	if !ok {
		return ErrTimestampsUnsupported
	}
	return tw.WriteTimestamp(set, index)
}

// End completes the pass. End is idempotent.
func (p *TrackedRenderPass) End() error {
	if p.ended {
		return nil
	}
	p.ended = true
	return p.pass.End()
}
