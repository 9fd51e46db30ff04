// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package attachment

import (
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph/render"
)

// ColorAttachment is a color target that clears on its first use in a frame
// and loads afterwards.
type ColorAttachment struct {
	// Texture is the view rendered to.
	Texture render.TextureView

	// Resolve is the MSAA resolve target (optional).
	Resolve render.TextureView

	// ClearColor is the color written on first use. Nil means the target is
	// always loaded, never cleared.
	ClearColor *gputypes.Color

	used atomic.Bool
}

// NewColorAttachment creates a color attachment. clear may be nil.
func NewColorAttachment(texture, resolve render.TextureView, clear *gputypes.Color) *ColorAttachment {
	return &ColorAttachment{Texture: texture, Resolve: resolve, ClearColor: clear}
}

// Get returns the descriptor for binding the attachment to a pass. The
// first call after construction or Reset returns LoadOpClear when a clear
// color is configured; every other call returns LoadOpLoad.
//
// Get is safe for concurrent use: exactly one caller observes the clear.
func (a *ColorAttachment) Get() render.ColorAttachment {
	first := !a.used.Swap(true)
	ca := render.ColorAttachment{
		View:          a.Texture,
		ResolveTarget: a.Resolve,
		LoadOp:        gputypes.LoadOpLoad,
		StoreOp:       gputypes.StoreOpStore,
	}
	if first && a.ClearColor != nil {
		ca.LoadOp = gputypes.LoadOpClear
		ca.ClearValue = *a.ClearColor
	}
	return ca
}

// Written reports whether Get has been called since the last Reset.
func (a *ColorAttachment) Written() bool {
	return a.used.Load()
}

// Reset re-arms the clear for the next frame.
func (a *ColorAttachment) Reset() {
	a.used.Store(false)
}
