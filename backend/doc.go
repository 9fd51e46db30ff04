// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend selects the command encoder a frame is recorded on.
//
// Encoder implementations register a Factory under a name. The recording
// backend registers itself on import:
//
//	import _ "github.com/gogpu/rendergraph/backend/recording"
//
// The native backend needs the host's device, so the host registers it
// explicitly:
//
//	if err := native.Register(provider); err != nil {
//		log.Fatal(err)
//	}
//
// # Backend Selection
//
// Default returns the best registered backend, preferring "native" over
// "recording". New creates an encoder from a named backend:
//
//	name, err := backend.Resolve("")
//	enc, err := backend.New(name, "view0", caps)
//
// # Available Backends
//
//   - "recording": in-memory command log (always available once imported)
//   - "native": gogpu/wgpu HAL device supplied by the host
package backend
