// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendergraph/render"
)

// TextureView is a render.TextureView over a hal.TextureView.
type TextureView struct {
	view   hal.TextureView
	label  string
	format gputypes.TextureFormat
}

// WrapTextureView wraps a host-owned HAL view.
func WrapTextureView(view hal.TextureView, label string, format gputypes.TextureFormat) *TextureView {
	return &TextureView{view: view, label: label, format: format}
}

// Label returns the view label.
func (v *TextureView) Label() string { return v.label }

// Format returns the viewed texture's format.
func (v *TextureView) Format() gputypes.TextureFormat { return v.format }

// HAL returns the wrapped view.
func (v *TextureView) HAL() hal.TextureView { return v.view }

// RenderTarget is a texture created as a render attachment together with
// its view.
type RenderTarget struct {
	device  hal.Device
	texture hal.Texture
	view    *TextureView
}

// NewRenderTarget creates a width x height render attachment in format.
func NewRenderTarget(device hal.Device, label string, format gputypes.TextureFormat, width, height uint32) (*RenderTarget, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create texture %q: %w", label, err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: label + "_view"})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("native: create texture view %q: %w", label, err)
	}
	return &RenderTarget{device: device, texture: tex, view: WrapTextureView(view, label, format)}, nil
}

// View returns the attachment view.
func (t *RenderTarget) View() *TextureView { return t.view }

// Destroy releases the view and texture.
func (t *RenderTarget) Destroy() {
	if t.view != nil && t.view.view != nil {
		t.device.DestroyTextureView(t.view.view)
		t.view.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

func halView(v render.TextureView) (hal.TextureView, error) {
	if v == nil {
		return nil, nil
	}
	tv, ok := v.(*TextureView)
	if !ok || tv.view == nil {
		return nil, fmt.Errorf("%w: texture view %q (%T)", ErrForeignResource, v.Label(), v)
	}
	return tv.view, nil
}

var _ render.TextureView = (*TextureView)(nil)
