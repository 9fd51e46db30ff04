// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "github.com/gogpu/gputypes"

// CommandEncoder records GPU commands for one view within one frame.
//
// State machine:
//
//	Recording -> BeginRenderPass -> Locked
//	Locked    -> RenderPass.End  -> Recording
//	Recording -> Finish          -> Finished
//
// Implementations return ErrEncoderLocked when a pass is begun while
// another one is still open.
type CommandEncoder interface {
	// Label returns the encoder's debug label.
	Label() string

	// BeginRenderPass opens a render pass described by desc.
	BeginRenderPass(desc *RenderPassDescriptor) (RenderPass, error)

	// Finish ends recording. The encoder cannot be used afterwards.
	Finish() error
}

// RenderPass records render commands within an open pass. It is NOT safe
// for concurrent use.
type RenderPass interface {
	// Label returns the pass's debug label.
	Label() string

	// SetPipeline binds a render pipeline for subsequent draw calls.
	SetPipeline(pipeline *RenderPipeline) error

	// SetBindGroup binds a bind group at index (0-3).
	SetBindGroup(index uint32, group *BindGroup, dynamicOffsets []uint32) error

	// SetVertexBuffer binds a vertex buffer to a slot.
	SetVertexBuffer(slot uint32, buffer *Buffer, offset uint64) error

	// SetIndexBuffer binds the index buffer for indexed draws.
	SetIndexBuffer(buffer *Buffer, format gputypes.IndexFormat, offset uint64) error

	// SetViewport sets the viewport transformation.
	SetViewport(x, y, width, height, minDepth, maxDepth float32) error

	// SetScissorRect sets the scissor rectangle.
	SetScissorRect(x, y, width, height uint32) error

	// SetStencilReference sets the stencil reference value.
	SetStencilReference(reference uint32) error

	// Draw issues a non-indexed draw call.
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error

	// DrawIndexed issues an indexed draw call.
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) error

	// End completes the pass. End is idempotent.
	End() error
}

// TimestampWriter is implemented by passes whose backend can write a GPU
// timestamp into a query set from inside the pass.
type TimestampWriter interface {
	WriteTimestamp(set *QuerySet, index uint32) error
}
