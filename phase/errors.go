// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package phase

import (
	"errors"
	"fmt"

	"github.com/gogpu/rendergraph/ecs"
)

var (
	// ErrDrawFunctionNotFound is returned when an item's draw function ID
	// is not registered.
	ErrDrawFunctionNotFound = errors.New("phase: draw function not found")

	// ErrDrawFunctionsMissing is returned when items are rendered but the
	// DrawFunctions resource is absent.
	ErrDrawFunctionsMissing = errors.New("phase: draw functions resource missing")

	// ErrPipelineCacheMissing is returned when the PipelineCache resource
	// is absent.
	ErrPipelineCacheMissing = errors.New("phase: pipeline cache resource missing")

	// ErrMissingComponent is returned when an item entity lacks a component
	// a render command reads.
	ErrMissingComponent = errors.New("phase: item component missing")

	// ErrRangeOutOfBounds is returned by RenderRange for an invalid range.
	ErrRangeOutOfBounds = errors.New("phase: render range out of bounds")
)

// ItemError reports the phase item whose draw failed. Rendering stops at
// the first failing item.
type ItemError struct {
	Index  int
	Entity ecs.Entity
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("phase: item %d (%s): %v", e.Index, e.Entity, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
