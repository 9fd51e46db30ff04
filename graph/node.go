// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package graph

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/attachment"
	"github.com/gogpu/rendergraph/ecs"
	"github.com/gogpu/rendergraph/view"
)

// Node is a unit of render work run once per view.
type Node interface {
	Run(gctx *Context, rctx *RenderContext, world *ecs.World) error
}

// ViewNode is a node that reads the view's camera and target.
type ViewNode interface {
	Run(gctx *Context, rctx *RenderContext, q ViewQuery, world *ecs.World) error
}

// ViewQuery is the per-view data a ViewNode reads.
type ViewQuery struct {
	Camera *view.ExtractedCamera
	Target *view.ViewTarget
}

// QueryView resolves the ViewQuery of e. It reports false if e lacks either
// component.
func QueryView(world *ecs.World, e ecs.Entity) (ViewQuery, bool) {
	camera, ok := ecs.Get[view.ExtractedCamera](world, e)
	if !ok {
		return ViewQuery{}, false
	}
	target, ok := ecs.Get[view.ViewTarget](world, e)
	if !ok {
		return ViewQuery{}, false
	}
	return ViewQuery{Camera: camera, Target: target}, true
}

// NodeRunError reports the node and view whose run failed.
type NodeRunError struct {
	Node string
	View ecs.Entity
	Err  error
}

func (e *NodeRunError) Error() string {
	return fmt.Sprintf("graph: node %q failed for %s: %v", e.Node, e.View, e.Err)
}

func (e *NodeRunError) Unwrap() error {
	return e.Err
}

// ViewNodeRunner adapts a ViewNode to Node.
type ViewNodeRunner struct {
	label string
	node  ViewNode
}

// NewViewNodeRunner wraps node under label.
func NewViewNodeRunner(label string, node ViewNode) *ViewNodeRunner {
	return &ViewNodeRunner{label: label, node: node}
}

// Label returns the node label.
func (r *ViewNodeRunner) Label() string { return r.label }

// Run resolves the view query and runs the node. Views lacking a camera or
// target are skipped.
func (r *ViewNodeRunner) Run(gctx *Context, rctx *RenderContext, world *ecs.World) error {
	q, ok := QueryView(world, gctx.ViewEntity())
	if !ok {
		rendergraph.Logger().Debug("graph: view does not match query", "node", r.label, "view", gctx.ViewEntity())
		return nil
	}
	if err := r.node.Run(gctx, rctx, q, world); err != nil {
		return &NodeRunError{Node: r.label, View: gctx.ViewEntity(), Err: err}
	}
	return nil
}

// RunOption configures RunViews.
type RunOption func(*runOptions)

type runOptions struct {
	limit int
}

// WithConcurrency limits how many views run at once. n <= 0 means no limit.
func WithConcurrency(n int) RunOption {
	return func(o *runOptions) {
		o.limit = n
	}
}

// RunViews runs node once for every view, each with its own RenderContext
// from newContext, and finishes every context whose node succeeded.
//
// Views whose targets share a color attachment form one submission group.
// A group runs sequentially in ascending camera Order, each view finishing
// its context before the next starts, so the view that clears a shared
// target is always submitted first. Independent groups run concurrently.
// The first failure cancels views not yet started and is returned as a
// *NodeRunError.
func RunViews(ctx context.Context, node Node, views []ecs.Entity, newContext func(ecs.Entity) (*RenderContext, error), world *ecs.World, opts ...RunOption) error {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	label := "node"
	if l, ok := node.(interface{ Label() string }); ok {
		label = l.Label()
	}

	g, gctx := errgroup.WithContext(ctx)
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}
	for _, group := range submissionGroups(world, views) {
		g.Go(func() error {
			for _, v := range group {
				if err := runView(gctx, label, node, v, newContext, world); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func runView(ctx context.Context, label string, node Node, v ecs.Entity, newContext func(ecs.Entity) (*RenderContext, error), world *ecs.World) error {
	if err := ctx.Err(); err != nil {
		return &NodeRunError{Node: label, View: v, Err: err}
	}
	rctx, err := newContext(v)
	if err != nil {
		return &NodeRunError{Node: label, View: v, Err: err}
	}
	if err := node.Run(NewContext(ctx, label, v), rctx, world); err != nil {
		var nre *NodeRunError
		if errors.As(err, &nre) {
			return err
		}
		return &NodeRunError{Node: label, View: v, Err: err}
	}
	if err := rctx.Finish(); err != nil {
		return &NodeRunError{Node: label, View: v, Err: err}
	}
	return nil
}

// submissionGroups partitions views by shared color attachment, keeping
// first-appearance order between groups. Views without a camera and target
// form groups of their own.
func submissionGroups(world *ecs.World, views []ecs.Entity) [][]ecs.Entity {
	type member struct {
		view  ecs.Entity
		order int
	}
	var groups [][]member
	index := make(map[*attachment.ColorAttachment]int)
	for _, v := range views {
		q, ok := QueryView(world, v)
		if !ok || q.Target.ColorAttachment() == nil {
			groups = append(groups, []member{{view: v}})
			continue
		}
		m := member{view: v, order: q.Camera.Order}
		key := q.Target.ColorAttachment()
		if i, seen := index[key]; seen {
			groups[i] = append(groups[i], m)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, []member{m})
	}

	out := make([][]ecs.Entity, len(groups))
	for i, group := range groups {
		slices.SortStableFunc(group, func(a, b member) int { return cmp.Compare(a.order, b.order) })
		out[i] = make([]ecs.Entity, len(group))
		for j, m := range group {
			out[i][j] = m.view
		}
	}
	return out
}
