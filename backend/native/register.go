// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"github.com/gogpu/rendergraph/backend"
	"github.com/gogpu/rendergraph/render"
)

// Register binds the native backend to the provider's HAL device and
// registers it under backend.BackendNative. Every encoder created through
// the registry shares that device and queue.
func Register(provider any, opts ...Option) error {
	device, queue, err := DevicesFromProvider(provider)
	if err != nil {
		return err
	}
	backend.Register(backend.BackendNative, func(label string, _ render.BackendCapabilities) (render.CommandEncoder, error) {
		return NewEncoder(device, queue, label, opts...)
	})
	return nil
}
