// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "testing"

func TestDetectCapabilities(t *testing.T) {
	tests := []struct {
		name           string
		info           AdapterInfo
		resetsViewport bool
	}{
		{"vulkan", AdapterInfo{API: APIVulkan}, true},
		{"metal", AdapterInfo{API: APIMetal}, true},
		{"native gl", AdapterInfo{API: APIGL}, true},
		{"webgl2", AdapterInfo{API: APIGL, Web: true}, false},
		{"webgl2 with native reset", AdapterInfo{API: APIGL, Web: true, NativeViewportReset: true}, true},
		{"browser webgpu", AdapterInfo{API: APIWebGPU, Web: true}, true},
		{"noop", AdapterInfo{API: APINoop}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := DetectCapabilities(tt.info)
			if caps.ResetsViewportBetweenPasses != tt.resetsViewport {
				t.Errorf("ResetsViewportBetweenPasses = %v, want %v",
					caps.ResetsViewportBetweenPasses, tt.resetsViewport)
			}
		})
	}
}

func TestDetectCapabilitiesTimestamps(t *testing.T) {
	if !DetectCapabilities(AdapterInfo{API: APIVulkan, TimestampQueries: true}).TimestampQueries {
		t.Error("timestamp support should be carried through")
	}
	if DetectCapabilities(AdapterInfo{API: APIVulkan}).TimestampQueries {
		t.Error("timestamps should be off when the adapter lacks them")
	}
}

func TestDefaultCapabilities(t *testing.T) {
	caps := DefaultCapabilities()
	if !caps.ResetsViewportBetweenPasses || !caps.TimestampQueries {
		t.Errorf("DefaultCapabilities() = %+v, want all true", caps)
	}
}

func TestAPIString(t *testing.T) {
	tests := []struct {
		api  API
		want string
	}{
		{APINoop, "Noop"},
		{APIVulkan, "Vulkan"},
		{APIGL, "GL"},
		{APIWebGPU, "WebGPU"},
		{API(99), "Unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.api.String(); got != tt.want {
			t.Errorf("API(%d).String() = %q, want %q", int(tt.api), got, tt.want)
		}
	}
}
