// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package attachment

import (
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph/render"
)

// DepthAttachment is a depth/stencil target that clears on its first use in
// a frame and loads afterwards.
type DepthAttachment struct {
	// View is the depth/stencil texture view.
	View render.TextureView

	// ClearDepth is the depth written on first use. Nil means load.
	ClearDepth *float32

	// ClearStencil is the stencil value written on first use. Nil means load.
	ClearStencil *uint32

	used atomic.Bool
}

// NewDepthAttachment creates a depth/stencil attachment clearing depth to
// 0 (reverse-Z far plane) and stencil to 0.
func NewDepthAttachment(view render.TextureView) *DepthAttachment {
	depth := float32(0)
	stencil := uint32(0)
	return &DepthAttachment{View: view, ClearDepth: &depth, ClearStencil: &stencil}
}

// Get returns the depth/stencil descriptor with store applied to both
// aspects.
func (a *DepthAttachment) Get(store gputypes.StoreOp) render.DepthStencilAttachment {
	first := !a.used.Swap(true)
	ds := render.DepthStencilAttachment{
		View:           a.View,
		DepthLoadOp:    gputypes.LoadOpLoad,
		DepthStoreOp:   store,
		StencilLoadOp:  gputypes.LoadOpLoad,
		StencilStoreOp: store,
	}
	if first && a.ClearDepth != nil {
		ds.DepthLoadOp = gputypes.LoadOpClear
		ds.DepthClearValue = *a.ClearDepth
	}
	if first && a.ClearStencil != nil {
		ds.StencilLoadOp = gputypes.LoadOpClear
		ds.StencilClearValue = *a.ClearStencil
	}
	return ds
}

// GetStencil returns the descriptor with both aspects stored.
func (a *DepthAttachment) GetStencil() render.DepthStencilAttachment {
	return a.Get(gputypes.StoreOpStore)
}

// Reset re-arms the clear for the next frame.
func (a *DepthAttachment) Reset() {
	a.used.Store(false)
}
