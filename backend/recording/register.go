// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"github.com/gogpu/rendergraph/backend"
	"github.com/gogpu/rendergraph/render"
)

func init() {
	backend.Register(backend.BackendRecording, newFromCapabilities)
}

// newFromCapabilities drops timestamp support when the adapter has none.
func newFromCapabilities(label string, caps render.BackendCapabilities) (render.CommandEncoder, error) {
	var opts []Option
	if !caps.TimestampQueries {
		opts = append(opts, WithoutTimestamps())
	}
	return NewEncoder(label, opts...), nil
}
