// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendergraph/render"
)

// toHALDescriptor converts a pass descriptor. Every view must be a
// *TextureView.
func toHALDescriptor(desc *render.RenderPassDescriptor) (*hal.RenderPassDescriptor, error) {
	out := &hal.RenderPassDescriptor{
		Label:            desc.Label,
		ColorAttachments: make([]hal.RenderPassColorAttachment, 0, len(desc.ColorAttachments)),
	}
	for i, ca := range desc.ColorAttachments {
		view, err := halView(ca.View)
		if err != nil {
			return nil, fmt.Errorf("color attachment %d: %w", i, err)
		}
		resolve, err := halView(ca.ResolveTarget)
		if err != nil {
			return nil, fmt.Errorf("color attachment %d resolve: %w", i, err)
		}
		out.ColorAttachments = append(out.ColorAttachments, hal.RenderPassColorAttachment{
			View:          view,
			ResolveTarget: resolve,
			LoadOp:        ca.LoadOp,
			StoreOp:       ca.StoreOp,
			ClearValue:    ca.ClearValue,
		})
	}
	if ds := desc.DepthStencilAttachment; ds != nil {
		view, err := halView(ds.View)
		if err != nil {
			return nil, fmt.Errorf("depth/stencil attachment: %w", err)
		}
		out.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              view,
			DepthLoadOp:       ds.DepthLoadOp,
			DepthStoreOp:      ds.DepthStoreOp,
			DepthClearValue:   ds.DepthClearValue,
			StencilLoadOp:     ds.StencilLoadOp,
			StencilStoreOp:    ds.StencilStoreOp,
			StencilClearValue: ds.StencilClearValue,
		}
	}
	return out, nil
}
