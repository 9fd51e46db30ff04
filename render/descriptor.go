// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ColorAttachment describes a color render target bound to a pass.
type ColorAttachment struct {
	// View is the texture view to render to.
	View TextureView

	// ResolveTarget is the MSAA resolve target (optional).
	ResolveTarget TextureView

	// LoadOp specifies what to do at pass start.
	LoadOp gputypes.LoadOp

	// StoreOp specifies what to do at pass end.
	StoreOp gputypes.StoreOp

	// ClearValue is the clear color (used if LoadOp is Clear).
	ClearValue gputypes.Color
}

// DepthStencilAttachment describes a depth/stencil target bound to a pass.
type DepthStencilAttachment struct {
	// View is the texture view to use.
	View TextureView

	// DepthLoadOp specifies what to do with depth at pass start.
	DepthLoadOp gputypes.LoadOp

	// DepthStoreOp specifies what to do with depth at pass end.
	DepthStoreOp gputypes.StoreOp

	// DepthClearValue is the depth clear value.
	DepthClearValue float32

	// DepthReadOnly makes the depth aspect read-only.
	DepthReadOnly bool

	// StencilLoadOp specifies what to do with stencil at pass start.
	StencilLoadOp gputypes.LoadOp

	// StencilStoreOp specifies what to do with stencil at pass end.
	StencilStoreOp gputypes.StoreOp

	// StencilClearValue is the stencil clear value.
	StencilClearValue uint32

	// StencilReadOnly makes the stencil aspect read-only.
	StencilReadOnly bool
}

// TimestampWrites describes timestamp query writes at pass boundaries.
type TimestampWrites struct {
	// QuerySet is the query set to write timestamps to.
	QuerySet *QuerySet

	// BeginningOfPassWriteIndex is the query index for pass start.
	BeginningOfPassWriteIndex *uint32

	// EndOfPassWriteIndex is the query index for pass end.
	EndOfPassWriteIndex *uint32
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	// Label is an optional debug name.
	Label string

	// ColorAttachments are the color render targets.
	ColorAttachments []ColorAttachment

	// DepthStencilAttachment is the depth/stencil target (optional).
	DepthStencilAttachment *DepthStencilAttachment

	// TimestampWrites are timestamp queries written at pass boundaries (optional).
	TimestampWrites *TimestampWrites

	// OcclusionQuerySet is the query set for occlusion queries (optional).
	OcclusionQuerySet *QuerySet
}

// Validate checks the descriptor for structural errors that every backend
// would reject.
func (d *RenderPassDescriptor) Validate() error {
	if d == nil {
		return ErrNilDescriptor
	}
	if len(d.ColorAttachments) == 0 && d.DepthStencilAttachment == nil {
		return fmt.Errorf("%w: %q", ErrNoAttachments, d.Label)
	}
	for i, ca := range d.ColorAttachments {
		if ca.View == nil {
			return fmt.Errorf("%w: %q color attachment %d", ErrNilAttachmentView, d.Label, i)
		}
	}
	if d.DepthStencilAttachment != nil && d.DepthStencilAttachment.View == nil {
		return fmt.Errorf("%w: %q depth/stencil attachment", ErrNilAttachmentView, d.Label)
	}
	return nil
}

// HasDepthStencil reports whether the descriptor binds a depth/stencil target.
func (d *RenderPassDescriptor) HasDepthStencil() bool {
	return d != nil && d.DepthStencilAttachment != nil
}

// Viewport is a rectangle of a render target in physical pixels together
// with its depth range.
type Viewport struct {
	// X, Y are the physical position of the top-left corner.
	X, Y uint32

	// Width, Height are the physical size.
	Width, Height uint32

	// MinDepth, MaxDepth are the depth range, within [0, 1].
	MinDepth, MaxDepth float32
}

// FullDepth returns a viewport covering [0, 1] depth.
func FullDepth(x, y, width, height uint32) Viewport {
	return Viewport{X: x, Y: y, Width: width, Height: height, MinDepth: 0, MaxDepth: 1}
}
