// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package graph runs render nodes once per view.
//
// A Node receives a Context naming the view it runs for and a RenderContext
// owning that view's command encoder. ViewNode is the common case: a node
// that needs the view's camera and target, adapted to Node by
// NewViewNodeRunner. RunViews drives a node over a set of views, running
// independent views concurrently.
package graph

import (
	"context"
	"fmt"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/diagnostic"
	"github.com/gogpu/rendergraph/ecs"
	"github.com/gogpu/rendergraph/render"
)

// Context identifies one node invocation.
type Context struct {
	ctx  context.Context
	node string
	view ecs.Entity
}

// NewContext creates the context of node running for view.
func NewContext(ctx context.Context, node string, view ecs.Entity) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{ctx: ctx, node: node, view: view}
}

// ViewEntity returns the view the node runs for.
func (c *Context) ViewEntity() ecs.Entity { return c.view }

// Node returns the running node's label.
func (c *Context) Node() string { return c.node }

// Context returns the frame's context.Context.
func (c *Context) Context() context.Context { return c.ctx }

// RenderContext owns the command encoder of one view for one frame.
type RenderContext struct {
	encoder  render.CommandEncoder
	recorder diagnostic.Recorder
	caps     render.BackendCapabilities
	passes   int
}

// ContextOption configures a RenderContext.
type ContextOption func(*RenderContext)

// WithRecorder sets the diagnostics recorder. The default records nothing.
func WithRecorder(r diagnostic.Recorder) ContextOption {
	return func(c *RenderContext) {
		if r != nil {
			c.recorder = r
		}
	}
}

// NewRenderContext creates a render context over encoder.
func NewRenderContext(encoder render.CommandEncoder, caps render.BackendCapabilities, opts ...ContextOption) *RenderContext {
	c := &RenderContext{encoder: encoder, recorder: diagnostic.NopRecorder{}, caps: caps}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BeginTrackedRenderPass opens a pass on the encoder and wraps it in a
// TrackedRenderPass.
func (c *RenderContext) BeginTrackedRenderPass(desc *render.RenderPassDescriptor) (*render.TrackedRenderPass, error) {
	pass, err := c.encoder.BeginRenderPass(desc)
	if err != nil {
		return nil, err
	}
	c.passes++
	rendergraph.Logger().Debug("graph: pass opened",
		"encoder", c.encoder.Label(),
		"pass", desc.Label,
		"depthStencil", desc.HasDepthStencil())
	return render.NewTrackedRenderPass(pass), nil
}

// CommandEncoder returns the raw encoder for passes that bypass tracking.
func (c *RenderContext) CommandEncoder() render.CommandEncoder { return c.encoder }

// Capabilities returns the backend capabilities.
func (c *RenderContext) Capabilities() render.BackendCapabilities { return c.caps }

// DiagnosticRecorder returns the diagnostics recorder.
func (c *RenderContext) DiagnosticRecorder() diagnostic.Recorder { return c.recorder }

// TrackedPasses returns how many tracked passes were opened.
func (c *RenderContext) TrackedPasses() int { return c.passes }

// Finish ends the encoder.
func (c *RenderContext) Finish() error {
	if err := c.encoder.Finish(); err != nil {
		return fmt.Errorf("graph: finish %q: %w", c.encoder.Label(), err)
	}
	return nil
}
