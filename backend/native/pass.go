// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendergraph/render"
)

// Pass is a render.RenderPass over a hal.RenderPassEncoder.
type Pass struct {
	encoder *Encoder
	pass    hal.RenderPassEncoder
	label   string
	ended   bool
}

// Label returns the pass's debug label.
func (p *Pass) Label() string { return p.label }

func (p *Pass) check() error {
	if p.ended {
		return render.ErrPassEnded
	}
	return nil
}

// SetPipeline binds the pipeline's hal.RenderPipeline.
func (p *Pass) SetPipeline(pipeline *render.RenderPipeline) error {
	if err := p.check(); err != nil {
		return err
	}
	if pipeline == nil {
		return render.ErrNilPipeline
	}
	h, ok := pipeline.Native.(hal.RenderPipeline)
	if !ok {
		return fmt.Errorf("%w: pipeline %q", ErrForeignResource, pipeline.Label)
	}
	p.pass.SetPipeline(h)
	return nil
}

// SetBindGroup binds the group's hal.BindGroup.
func (p *Pass) SetBindGroup(index uint32, group *render.BindGroup, dynamicOffsets []uint32) error {
	if err := p.check(); err != nil {
		return err
	}
	if group == nil {
		return render.ErrNilBindGroup
	}
	h, ok := group.Native.(hal.BindGroup)
	if !ok {
		return fmt.Errorf("%w: bind group %q", ErrForeignResource, group.Label)
	}
	p.pass.SetBindGroup(index, h, dynamicOffsets)
	return nil
}

// SetVertexBuffer binds the buffer's hal.Buffer.
func (p *Pass) SetVertexBuffer(slot uint32, buffer *render.Buffer, offset uint64) error {
	if err := p.check(); err != nil {
		return err
	}
	if buffer == nil {
		return render.ErrNilVertexBuffer
	}
	h, ok := buffer.Native.(hal.Buffer)
	if !ok {
		return fmt.Errorf("%w: buffer %q", ErrForeignResource, buffer.Label)
	}
	p.pass.SetVertexBuffer(slot, h, offset)
	return nil
}

// SetIndexBuffer binds the buffer's hal.Buffer as the index buffer.
func (p *Pass) SetIndexBuffer(buffer *render.Buffer, format gputypes.IndexFormat, offset uint64) error {
	if err := p.check(); err != nil {
		return err
	}
	if buffer == nil {
		return render.ErrNilIndexBuffer
	}
	h, ok := buffer.Native.(hal.Buffer)
	if !ok {
		return fmt.Errorf("%w: buffer %q", ErrForeignResource, buffer.Label)
	}
	p.pass.SetIndexBuffer(h, format, offset)
	return nil
}

// SetViewport sets the viewport.
func (p *Pass) SetViewport(x, y, width, height, minDepth, maxDepth float32) error {
	if err := p.check(); err != nil {
		return err
	}
	p.pass.SetViewport(x, y, width, height, minDepth, maxDepth)
	return nil
}

// SetScissorRect sets the scissor rectangle.
func (p *Pass) SetScissorRect(x, y, width, height uint32) error {
	if err := p.check(); err != nil {
		return err
	}
	p.pass.SetScissorRect(x, y, width, height)
	return nil
}

// SetStencilReference sets the stencil reference.
func (p *Pass) SetStencilReference(reference uint32) error {
	if err := p.check(); err != nil {
		return err
	}
	p.pass.SetStencilReference(reference)
	return nil
}

// Draw issues a non-indexed draw.
func (p *Pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	if err := p.check(); err != nil {
		return err
	}
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	return nil
}

// DrawIndexed issues an indexed draw.
func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) error {
	if err := p.check(); err != nil {
		return err
	}
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	return nil
}

// End ends the HAL pass and unlocks the encoder. End is idempotent.
func (p *Pass) End() error {
	if p.ended {
		return nil
	}
	p.pass.End()
	p.ended = true
	return p.encoder.endPass(p)
}

var _ render.RenderPass = (*Pass)(nil)
