// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads rendergraph settings from TOML.
//
// Example file:
//
//	[attachments]
//	policy = "conditional"   # or "always"
//
//	[diagnostics]
//	enabled = true
//	query_count = 64
//
//	[capabilities]
//	resets_viewport_between_passes = false   # force the viewport reset pass
//
//	[view]
//	clear_color = [0.0, 0.0, 0.0, 1.0]
//
// Unknown keys are rejected.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph/attachment"
	"github.com/gogpu/rendergraph/diagnostic"
	"github.com/gogpu/rendergraph/render"
	"github.com/gogpu/rendergraph/view"
)

var (
	// ErrUnknownKey is returned for keys the settings do not define.
	ErrUnknownKey = errors.New("config: unknown key")

	// ErrInvalidValue is returned for values outside their domain.
	ErrInvalidValue = errors.New("config: invalid value")
)

// DefaultQueryCount is the timestamp query pool size per frame.
const DefaultQueryCount = 64

// Settings is the decoded configuration.
type Settings struct {
	Attachments  AttachmentSettings  `toml:"attachments"`
	Diagnostics  DiagnosticSettings  `toml:"diagnostics"`
	Capabilities CapabilityOverrides `toml:"capabilities"`
	View         ViewSettings        `toml:"view"`
}

// AttachmentSettings selects the depth/stencil attachment policy.
type AttachmentSettings struct {
	Policy string `toml:"policy"`
}

// DiagnosticSettings controls pass span recording.
type DiagnosticSettings struct {
	Enabled    bool   `toml:"enabled"`
	QueryCount uint32 `toml:"query_count"`
}

// CapabilityOverrides replace detected backend capabilities. Nil keeps the
// detected value.
type CapabilityOverrides struct {
	ResetsViewportBetweenPasses *bool `toml:"resets_viewport_between_passes"`
	TimestampQueries            *bool `toml:"timestamp_queries"`
}

// ViewSettings holds view defaults.
type ViewSettings struct {
	// Clear disables clearing when false.
	Clear *bool `toml:"clear"`

	// ClearColor is an RGBA color. Empty means view.DefaultClearColor.
	ClearColor []float64 `toml:"clear_color"`
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		Attachments: AttachmentSettings{Policy: attachment.PolicyConditional.String()},
		Diagnostics: DiagnosticSettings{QueryCount: DefaultQueryCount},
	}
}

// Parse decodes TOML over Default.
func Parse(data string) (Settings, error) {
	s := Default()
	md, err := toml.Decode(data, &s)
	if err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Settings{}, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Load reads and parses the file at path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	s, err := Parse(string(data))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks value domains.
func (s Settings) Validate() error {
	if _, err := attachment.ParsePolicy(s.Attachments.Policy); err != nil {
		return fmt.Errorf("%w: attachments.policy: %w", ErrInvalidValue, err)
	}
	if n := len(s.View.ClearColor); n != 0 && n != 4 {
		return fmt.Errorf("%w: view.clear_color needs 4 components, got %d", ErrInvalidValue, n)
	}
	if s.Diagnostics.Enabled && s.Diagnostics.QueryCount < 2 {
		return fmt.Errorf("%w: diagnostics.query_count must be at least 2", ErrInvalidValue)
	}
	return nil
}

// Policy returns the attachment policy. Settings from Parse are valid.
func (s Settings) Policy() attachment.Policy {
	p, _ := attachment.ParsePolicy(s.Attachments.Policy)
	return p
}

// ApplyCapabilities overrides detected capabilities.
func (s Settings) ApplyCapabilities(caps render.BackendCapabilities) render.BackendCapabilities {
	if v := s.Capabilities.ResetsViewportBetweenPasses; v != nil {
		caps.ResetsViewportBetweenPasses = *v
	}
	if v := s.Capabilities.TimestampQueries; v != nil {
		caps.TimestampQueries = *v
	}
	return caps
}

// ClearColor returns the view clear configuration.
func (s Settings) ClearColor() view.ClearColorConfig {
	if s.View.Clear != nil && !*s.View.Clear {
		return view.ClearNone()
	}
	if c := s.View.ClearColor; len(c) == 4 {
		return view.ClearCustom(gputypes.Color{R: c[0], G: c[1], B: c[2], A: c[3]})
	}
	return view.ClearDefault()
}

// Recorder returns the diagnostics recorder for one frame. Timestamp
// queries are used only when caps supports them.
func (s Settings) Recorder(caps render.BackendCapabilities) diagnostic.Recorder {
	if !s.Diagnostics.Enabled {
		return diagnostic.NopRecorder{}
	}
	if !caps.TimestampQueries {
		return diagnostic.NewTimestampRecorder(nil)
	}
	return diagnostic.NewTimestampRecorder(&render.QuerySet{
		Label: "rendergraph_timestamps",
		Count: s.Diagnostics.QueryCount,
	})
}
