// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package view holds the per-view components extracted for rendering: the
// camera and the render target.
package view

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph/attachment"
	"github.com/gogpu/rendergraph/render"
)

// ClearColorConfig selects the color a view's target is cleared to on its
// first use in a frame.
type ClearColorConfig struct {
	mode  clearMode
	color gputypes.Color
}

type clearMode uint8

const (
	clearDefault clearMode = iota
	clearCustom
	clearNone
)

// DefaultClearColor is the color used by ClearDefault.
var DefaultClearColor = gputypes.Color{R: 0.168627, G: 0.168627, B: 0.168627, A: 1}

// ClearDefault clears to DefaultClearColor.
func ClearDefault() ClearColorConfig { return ClearColorConfig{mode: clearDefault} }

// ClearCustom clears to c.
func ClearCustom(c gputypes.Color) ClearColorConfig {
	return ClearColorConfig{mode: clearCustom, color: c}
}

// ClearNone never clears; the target is always loaded.
func ClearNone() ClearColorConfig { return ClearColorConfig{mode: clearNone} }

// Color returns the clear color, or nil when the target is not cleared.
func (c ClearColorConfig) Color() *gputypes.Color {
	switch c.mode {
	case clearCustom:
		col := c.color
		return &col
	case clearNone:
		return nil
	default:
		col := DefaultClearColor
		return &col
	}
}

// ExtractedCamera is the render-side copy of a camera.
type ExtractedCamera struct {
	// Viewport restricts rendering to a sub-rectangle of the target. Nil
	// means the full target.
	Viewport *render.Viewport

	// PhysicalTargetSize is the target size in pixels.
	PhysicalTargetSize [2]uint32

	// ClearColor is the clear configuration for the camera's target.
	ClearColor ClearColorConfig

	// Order sorts cameras sharing a target.
	Order int
}

// ViewTarget is the color (and optional depth/stencil) target of one view.
// It implements attachment.Target.
type ViewTarget struct {
	main   *attachment.ColorAttachment
	depth  *attachment.DepthAttachment
	format gputypes.TextureFormat
	size   [2]uint32
}

// NewViewTarget creates a target over color and, when depth is non-nil, a
// depth/stencil view.
func NewViewTarget(color, depth render.TextureView, clear ClearColorConfig, width, height uint32) *ViewTarget {
	t := &ViewTarget{
		main:   attachment.NewColorAttachment(color, nil, clear.Color()),
		format: color.Format(),
		size:   [2]uint32{width, height},
	}
	if depth != nil {
		t.depth = attachment.NewDepthAttachment(depth)
	}
	return t
}

// NewSharedViewTarget creates a target drawing into the same color
// attachment as other. Views sharing an attachment clear it once per frame.
func NewSharedViewTarget(other *ViewTarget) *ViewTarget {
	t := *other
	return &t
}

// ColorAttachment returns the main color attachment.
func (t *ViewTarget) ColorAttachment() *attachment.ColorAttachment { return t.main }

// DepthAttachment returns the depth/stencil attachment, or nil.
func (t *ViewTarget) DepthAttachment() *attachment.DepthAttachment { return t.depth }

// GetColorAttachment returns the color descriptor, consuming the first-use
// clear.
func (t *ViewTarget) GetColorAttachment() render.ColorAttachment { return t.main.Get() }

// MainTextureFormat returns the color format.
func (t *ViewTarget) MainTextureFormat() gputypes.TextureFormat { return t.format }

// Size returns the target size in pixels.
func (t *ViewTarget) Size() (width, height uint32) { return t.size[0], t.size[1] }

// Reset re-arms the first-use clears for the next frame.
func (t *ViewTarget) Reset() {
	t.main.Reset()
	if t.depth != nil {
		t.depth.Reset()
	}
}

var _ attachment.Target = (*ViewTarget)(nil)
