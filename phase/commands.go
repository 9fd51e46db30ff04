// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package phase

import (
	"fmt"

	"github.com/gogpu/rendergraph/ecs"
	"github.com/gogpu/rendergraph/render"
)

// RenderCommand is one step of a draw: binding a resource or issuing the
// draw call.
type RenderCommand[I PhaseItem] interface {
	Render(world *ecs.World, view ecs.Entity, item I, pass *render.TrackedRenderPass) error
}

// RenderCommandFunc adapts a function to RenderCommand.
type RenderCommandFunc[I PhaseItem] func(world *ecs.World, view ecs.Entity, item I, pass *render.TrackedRenderPass) error

// Render calls f.
func (f RenderCommandFunc[I]) Render(world *ecs.World, view ecs.Entity, item I, pass *render.TrackedRenderPass) error {
	return f(world, view, item, pass)
}

// RenderCommands is a Draw running its commands in order, stopping at the
// first error.
type RenderCommands[I PhaseItem] []RenderCommand[I]

// Prepare is a no-op.
func (RenderCommands[I]) Prepare(*ecs.World) {}

// Draw runs every command on item.
func (c RenderCommands[I]) Draw(world *ecs.World, view ecs.Entity, item I, pass *render.TrackedRenderPass) error {
	for _, cmd := range c {
		if err := cmd.Render(world, view, item, pass); err != nil {
			return err
		}
	}
	return nil
}

// SetItemPipeline binds the item's cached pipeline.
type SetItemPipeline[I PhaseItem] struct{}

// Render looks the pipeline up in the PipelineCache resource and binds it.
func (SetItemPipeline[I]) Render(world *ecs.World, _ ecs.Entity, item I, pass *render.TrackedRenderPass) error {
	cache, ok := ecs.Resource[render.PipelineCache](world)
	if !ok {
		return ErrPipelineCacheMissing
	}
	p, err := cache.Lookup(item.Pipeline())
	if err != nil {
		return err
	}
	return pass.SetRenderPipeline(p)
}

// SetItemBindGroups binds the item entity's BindGroups component.
type SetItemBindGroups[I PhaseItem] struct{}

// Render binds every group in index order.
func (SetItemBindGroups[I]) Render(world *ecs.World, _ ecs.Entity, item I, pass *render.TrackedRenderPass) error {
	groups, ok := ecs.Get[render.BindGroups](world, item.Entity())
	if !ok {
		return fmt.Errorf("%w: BindGroups on %s", ErrMissingComponent, item.Entity())
	}
	for _, g := range groups.Groups {
		if err := pass.SetBindGroup(g.Index, g.Group, g.DynamicOffsets); err != nil {
			return err
		}
	}
	return nil
}

// DrawItem issues the draw call described by the item entity's DrawArgs
// component, restricted to the item's batch range when it is non-empty.
type DrawItem[I SortedPhaseItem] struct{}

// Render binds the vertex and index buffers and draws.
func (DrawItem[I]) Render(world *ecs.World, _ ecs.Entity, item I, pass *render.TrackedRenderPass) error {
	args, ok := ecs.Get[render.DrawArgs](world, item.Entity())
	if !ok {
		return fmt.Errorf("%w: DrawArgs on %s", ErrMissingComponent, item.Entity())
	}

	instances, firstInstance := args.InstanceCount, args.FirstInstance
	if start, end := item.BatchRange(); end > start {
		instances, firstInstance = end-start, start
	}
	if instances == 0 {
		instances = 1
	}

	if args.VertexBuffer != nil {
		if err := pass.SetVertexBuffer(0, args.VertexBuffer, 0); err != nil {
			return err
		}
	}
	if args.Indexed() {
		if err := pass.SetIndexBuffer(args.IndexBuffer, args.IndexFormat, 0); err != nil {
			return err
		}
		return pass.DrawIndexed(args.IndexCount, instances, args.FirstIndex, args.BaseVertex, firstInstance)
	}
	return pass.Draw(args.VertexCount, instances, args.FirstVertex, firstInstance)
}
