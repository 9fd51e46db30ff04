// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"

	"github.com/gogpu/rendergraph/render"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNilEncoder is returned when a factory produces no encoder and no error.
	ErrNilEncoder = errors.New("backend: factory returned nil encoder")
)

// Backend names.
const (
	// BackendNative encodes onto a host-provided gogpu/wgpu HAL device.
	BackendNative = "native"

	// BackendRecording keeps the command log in memory.
	BackendRecording = "recording"
)

// Factory creates a command encoder for one view of one frame.
//
// caps describes the adapter the frame runs on. Factories use it to shape
// the encoder, for example by dropping timestamp support.
type Factory func(label string, caps render.BackendCapabilities) (render.CommandEncoder, error)
