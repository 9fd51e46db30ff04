// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native binds render.CommandEncoder to a gogpu/wgpu HAL device.
//
// The host owns the device: an Encoder is created from a hal.Device and
// hal.Queue (or from a provider exposing them), records one frame for one
// view, and on Finish submits the command buffer and polls the queue until
// that submission index completes.
//
// Resources crossing into this package carry their HAL handle in the Native
// field (render.RenderPipeline.Native holds a hal.RenderPipeline, and so
// on). Texture views are wrapped by TextureView.
//
// Timestamp writes inside a pass are not exposed by the HAL encoder, so
// passes from this package do not implement render.TimestampWriter and
// diagnostics fall back to CPU timing.
package native
