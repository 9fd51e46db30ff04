// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import "errors"

var (
	// ErrNilDevice is returned when no HAL device is supplied.
	ErrNilDevice = errors.New("native: device is nil")

	// ErrNilQueue is returned when no HAL queue is supplied.
	ErrNilQueue = errors.New("native: queue is nil")

	// ErrNotHALProvider is returned when a provider exposes no HAL device
	// and queue.
	ErrNotHALProvider = errors.New("native: provider does not expose a HAL device and queue")

	// ErrForeignResource is returned when a resource was not created for
	// the HAL backend.
	ErrForeignResource = errors.New("native: resource has no HAL handle")

	// ErrSubmitTimeout is returned when the queue does not report the
	// frame's submission as completed in time.
	ErrSubmitTimeout = errors.New("native: timed out waiting for GPU")
)
