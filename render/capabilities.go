// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/rendergraph"
)

// API identifies the graphics API a device was opened on.
type API int

const (
	// APINoop is a device that records nothing (tests, headless tooling).
	APINoop API = iota

	// APIVulkan is the Vulkan backend.
	APIVulkan

	// APIMetal is the Metal backend.
	APIMetal

	// APIDX12 is the Direct3D 12 backend.
	APIDX12

	// APIGL is OpenGL ES / WebGL2.
	APIGL

	// APIWebGPU is the browser WebGPU implementation.
	APIWebGPU
)

// String returns the string representation of the API.
func (a API) String() string {
	switch a {
	case APINoop:
		return "Noop"
	case APIVulkan:
		return "Vulkan"
	case APIMetal:
		return "Metal"
	case APIDX12:
		return "DX12"
	case APIGL:
		return "GL"
	case APIWebGPU:
		return "WebGPU"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// AdapterInfo describes the device a frame is encoded for. It is gathered
// once at device initialization.
type AdapterInfo struct {
	// API is the graphics API the device uses.
	API API

	// Web is true when running inside a browser.
	Web bool

	// NativeViewportReset is true when the implementation resets viewport
	// state at the start of every render pass on its own.
	NativeViewportReset bool

	// TimestampQueries is true when the device supports writing timestamps
	// from inside a render pass.
	TimestampQueries bool
}

// BackendCapabilities are runtime-resolved behavior flags consulted by
// nodes instead of compile-time platform branches.
type BackendCapabilities struct {
	// ResetsViewportBetweenPasses is false on backends that carry a custom
	// viewport into the next render pass. Nodes that end on a pass with a
	// custom viewport must then issue an empty pass without one.
	ResetsViewportBetweenPasses bool

	// TimestampQueries enables GPU timestamp writes for diagnostics spans.
	TimestampQueries bool
}

// DefaultCapabilities returns the capabilities of a well-behaved native
// backend: viewport state resets per pass and timestamps are available.
func DefaultCapabilities() BackendCapabilities {
	return BackendCapabilities{
		ResetsViewportBetweenPasses: true,
		TimestampQueries:            true,
	}
}

// DetectCapabilities derives BackendCapabilities from adapter information.
//
// The viewport quirk applies to WebGL2: a GL device running in a browser
// without native viewport reset. Browser WebGPU and every native API reset
// viewport state per pass.
func DetectCapabilities(info AdapterInfo) BackendCapabilities {
	caps := BackendCapabilities{
		ResetsViewportBetweenPasses: !(info.API == APIGL && info.Web && !info.NativeViewportReset),
		TimestampQueries:            info.TimestampQueries,
	}
	rendergraph.Logger().Info("backend capabilities detected",
		"api", info.API.String(),
		"web", info.Web,
		"resets_viewport", caps.ResetsViewportBetweenPasses,
		"timestamps", caps.TimestampQueries,
	)
	return caps
}
