// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package core2d

import (
	"fmt"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/attachment"
	"github.com/gogpu/rendergraph/ecs"
	"github.com/gogpu/rendergraph/graph"
	"github.com/gogpu/rendergraph/phase"
	"github.com/gogpu/rendergraph/render"
)

const (
	// MainTransparentPass2d labels the node and its primary pass.
	MainTransparentPass2d = "main_transparent_pass_2d"

	// ResetViewportPass2d labels the pass that restores the viewport on
	// backends that keep it across passes.
	ResetViewportPass2d = "reset_viewport_pass_2d"
)

// Option configures a MainTransparentPass2dNode.
type Option func(*MainTransparentPass2dNode)

// WithPolicy sets the depth/stencil attachment policy. The default is
// attachment.PolicyConditional.
func WithPolicy(p attachment.Policy) Option {
	return func(n *MainTransparentPass2dNode) {
		n.policy = p
	}
}

// WithLabel sets the primary pass label and span name.
func WithLabel(label string) Option {
	return func(n *MainTransparentPass2dNode) {
		if label != "" {
			n.label = label
		}
	}
}

// MainTransparentPass2dNode draws a view's Transparent2d phase.
//
// It always opens the primary pass when the phase registry exists, so the
// view target is cleared even when nothing is queued for the view. On
// backends that do not reset the viewport between passes it follows a
// viewport-restricted draw with an empty pass over the full target.
type MainTransparentPass2dNode struct {
	label  string
	policy attachment.Policy
}

// NewMainTransparentPass2dNode creates the node.
func NewMainTransparentPass2dNode(opts ...Option) *MainTransparentPass2dNode {
	n := &MainTransparentPass2dNode{label: MainTransparentPass2d, policy: attachment.PolicyConditional}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Label returns the primary pass label.
func (n *MainTransparentPass2dNode) Label() string { return n.label }

// Policy returns the depth/stencil attachment policy.
func (n *MainTransparentPass2dNode) Policy() attachment.Policy { return n.policy }

// Run encodes the view's transparent pass.
func (n *MainTransparentPass2dNode) Run(gctx *graph.Context, rctx *graph.RenderContext, q graph.ViewQuery, world *ecs.World) error {
	viewEntity := gctx.ViewEntity()
	items, state := phase.Lookup[Transparent2d](world, viewEntity)
	if state == phase.LookupAbsentResource {
		return nil
	}
	hasPhase := state == phase.LookupPresent

	var req attachment.Requirements
	if hasPhase {
		req = items.Requirements(world)
	}
	plan, err := attachment.NewPlan(q.Target, req, n.policy)
	if err != nil {
		return fmt.Errorf("core2d: %s: %w", n.label, err)
	}
	if hasPhase {
		if err := validate(world, items, plan); err != nil {
			return err
		}
	}

	pass, err := rctx.BeginTrackedRenderPass(plan.Resolve().Descriptor(n.label))
	if err != nil {
		return fmt.Errorf("core2d: begin %s: %w", n.label, err)
	}
	span := rctx.DiagnosticRecorder().PassSpan(pass, n.label)
	span.End(pass)

	if hasPhase {
		if err := items.Render(pass, world, viewEntity, q.Camera); err != nil {
			_ = pass.End()
			return err
		}
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("core2d: end %s: %w", n.label, err)
	}

	if !rctx.Capabilities().ResetsViewportBetweenPasses && q.Camera != nil && q.Camera.Viewport != nil {
		if err := n.resetViewport(rctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (n *MainTransparentPass2dNode) resetViewport(rctx *graph.RenderContext, q graph.ViewQuery) error {
	rendergraph.Logger().Debug("core2d: resetting viewport", "pass", ResetViewportPass2d)
	rp, err := rctx.CommandEncoder().BeginRenderPass(&render.RenderPassDescriptor{
		Label:            ResetViewportPass2d,
		ColorAttachments: []render.ColorAttachment{q.Target.GetColorAttachment()},
	})
	if err != nil {
		return fmt.Errorf("core2d: begin %s: %w", ResetViewportPass2d, err)
	}
	return rp.End()
}

// validate checks every queued item's pipeline against the planned
// attachments. Items with uncached pipelines are left to the draw.
func validate(world *ecs.World, items *phase.SortedRenderPhase[Transparent2d], plan *attachment.Plan) error {
	cache, ok := ecs.Resource[render.PipelineCache](world)
	if !ok {
		return nil
	}
	for _, item := range items.Items() {
		p, ok := cache.Get(item.Pipeline())
		if !ok {
			continue
		}
		if err := plan.Validate(item.Entity(), p); err != nil {
			return err
		}
	}
	return nil
}

var _ graph.ViewNode = (*MainTransparentPass2dNode)(nil)
