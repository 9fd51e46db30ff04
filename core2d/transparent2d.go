// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package core2d implements the 2D transparent render pass.
//
// Transparent2d items are queued per view into a
// phase.ViewSortedRenderPhases[Transparent2d] resource and sorted back to
// front by z. MainTransparentPass2dNode draws them into the view target.
package core2d

import (
	"github.com/gogpu/rendergraph/ecs"
	"github.com/gogpu/rendergraph/phase"
	"github.com/gogpu/rendergraph/render"
)

// Transparent2d is a 2D item drawn with blending. Items sort ascending by
// Z, so larger z is drawn later and appears in front.
type Transparent2d struct {
	Z              float32
	Item           ecs.Entity
	PipelineID     render.PipelineID
	DrawFunctionID phase.DrawFunctionID
	BatchStart     uint32
	BatchEnd       uint32
}

// Entity returns the entity the item draws.
func (t Transparent2d) Entity() ecs.Entity { return t.Item }

// DrawFunction returns the ID of the function that draws the item.
func (t Transparent2d) DrawFunction() phase.DrawFunctionID { return t.DrawFunctionID }

// Pipeline returns the item's cached pipeline ID.
func (t Transparent2d) Pipeline() render.PipelineID { return t.PipelineID }

// SortKey returns the item's z. Ties keep queue order.
func (t Transparent2d) SortKey() float32 { return t.Z }

// BatchRange returns the item's instance range. An empty range draws the
// instances of the item's DrawArgs.
func (t Transparent2d) BatchRange() (start, end uint32) { return t.BatchStart, t.BatchEnd }

// DrawTransparent2d draws a Transparent2d item: it binds the item's cached
// pipeline and bind groups, then issues the draw from its DrawArgs.
type DrawTransparent2d struct {
	cmds phase.RenderCommands[Transparent2d]
}

// NewDrawTransparent2d creates the draw function.
func NewDrawTransparent2d() *DrawTransparent2d {
	return &DrawTransparent2d{cmds: phase.RenderCommands[Transparent2d]{
		phase.SetItemPipeline[Transparent2d]{},
		phase.SetItemBindGroups[Transparent2d]{},
		phase.DrawItem[Transparent2d]{},
	}}
}

// Prepare readies every render command for the frame's world.
func (d *DrawTransparent2d) Prepare(world *ecs.World) { d.cmds.Prepare(world) }

// Draw encodes item into pass.
func (d *DrawTransparent2d) Draw(world *ecs.World, view ecs.Entity, item Transparent2d, pass *render.TrackedRenderPass) error {
	return d.cmds.Draw(world, view, item, pass)
}

// Install adds the Transparent2d phase registry and draw functions to world
// when they are missing, registers DrawTransparent2d and returns its ID.
func Install(world *ecs.World) phase.DrawFunctionID {
	if _, ok := ecs.Resource[phase.ViewSortedRenderPhases[Transparent2d]](world); !ok {
		ecs.InsertResource(world, phase.NewViewSortedRenderPhases[Transparent2d]())
	}
	fns, ok := ecs.Resource[phase.DrawFunctions[Transparent2d]](world)
	if !ok {
		fns = phase.NewDrawFunctions[Transparent2d]()
		ecs.InsertResource(world, fns)
	}
	if id, ok := phase.ID[*DrawTransparent2d](fns); ok {
		return id
	}
	return fns.Add(NewDrawTransparent2d())
}

var _ phase.Draw[Transparent2d] = (*DrawTransparent2d)(nil)
