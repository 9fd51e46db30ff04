// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph/render"
)

// Pass is a recorded render pass. It does not validate resources beyond
// nil checks.
type Pass struct {
	encoder *Encoder
	label   string
	ended   bool
}

// Label returns the pass's debug label.
func (p *Pass) Label() string { return p.label }

// SetPipeline records a pipeline bind.
func (p *Pass) SetPipeline(pipeline *render.RenderPipeline) error {
	if pipeline == nil {
		return render.ErrNilPipeline
	}
	return p.encoder.record(p, Command{Op: OpSetPipeline, Pipeline: pipeline})
}

// SetBindGroup records a bind group bind.
func (p *Pass) SetBindGroup(index uint32, group *render.BindGroup, dynamicOffsets []uint32) error {
	if group == nil {
		return render.ErrNilBindGroup
	}
	return p.encoder.record(p, Command{
		Op:        OpSetBindGroup,
		Index:     index,
		BindGroup: group,
		Offsets:   append([]uint32(nil), dynamicOffsets...),
	})
}

// SetVertexBuffer records a vertex buffer bind.
func (p *Pass) SetVertexBuffer(slot uint32, buffer *render.Buffer, offset uint64) error {
	if buffer == nil {
		return render.ErrNilVertexBuffer
	}
	return p.encoder.record(p, Command{Op: OpSetVertexBuffer, Index: slot, Buffer: buffer, Ints: [5]int64{int64(offset)}})
}

// SetIndexBuffer records an index buffer bind.
func (p *Pass) SetIndexBuffer(buffer *render.Buffer, format gputypes.IndexFormat, offset uint64) error {
	if buffer == nil {
		return render.ErrNilIndexBuffer
	}
	return p.encoder.record(p, Command{Op: OpSetIndexBuffer, Buffer: buffer, IndexFormat: format, Ints: [5]int64{int64(offset)}})
}

// SetViewport records a viewport change.
func (p *Pass) SetViewport(x, y, width, height, minDepth, maxDepth float32) error {
	return p.encoder.record(p, Command{Op: OpSetViewport, Floats: [6]float32{x, y, width, height, minDepth, maxDepth}})
}

// SetScissorRect records a scissor change.
func (p *Pass) SetScissorRect(x, y, width, height uint32) error {
	return p.encoder.record(p, Command{Op: OpSetScissorRect, Ints: [5]int64{int64(x), int64(y), int64(width), int64(height)}})
}

// SetStencilReference records a stencil reference change.
func (p *Pass) SetStencilReference(reference uint32) error {
	return p.encoder.record(p, Command{Op: OpSetStencilReference, Index: reference})
}

// Draw records a non-indexed draw.
func (p *Pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	return p.encoder.record(p, Command{Op: OpDraw, Ints: [5]int64{
		int64(vertexCount), int64(instanceCount), int64(firstVertex), int64(firstInstance),
	}})
}

// DrawIndexed records an indexed draw.
func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) error {
	return p.encoder.record(p, Command{Op: OpDrawIndexed, Ints: [5]int64{
		int64(indexCount), int64(instanceCount), int64(firstIndex), int64(baseVertex), int64(firstInstance),
	}})
}

// End closes the pass and unlocks the encoder. End is idempotent.
func (p *Pass) End() error {
	return p.encoder.endPass(p)
}

// timestampPass is a Pass that accepts timestamp writes.
type timestampPass struct {
	*Pass
}

// WriteTimestamp records a timestamp query write.
func (p *timestampPass) WriteTimestamp(set *render.QuerySet, index uint32) error {
	if set == nil {
		return render.ErrTimestampsUnsupported
	}
	if index >= set.Count {
		return fmt.Errorf("recording: query index %d out of range (%d)", index, set.Count)
	}
	return p.encoder.record(p.Pass, Command{Op: OpWriteTimestamp, Index: index})
}

var (
	_ render.RenderPass      = (*Pass)(nil)
	_ render.TimestampWriter = (*timestampPass)(nil)
)
