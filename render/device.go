// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// Key principle: rendergraph RECEIVES the device from the host, it does NOT
// create one. DeviceHandle is an alias for gpucontext.DeviceProvider so any
// host in the gpucontext ecosystem can drive the native backend.
type DeviceHandle = gpucontext.DeviceProvider

// TextureView represents a view into a texture that can be bound as a
// render attachment.
type TextureView interface {
	// Label returns the debug label of the view.
	Label() string

	// Format returns the pixel format of the viewed texture.
	Format() gputypes.TextureFormat
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used with the recording backend where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo describes the null device as an unknown adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "null", Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
