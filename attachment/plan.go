// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package attachment

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/ecs"
	"github.com/gogpu/rendergraph/render"
)

var (
	// ErrUnsupportedAttachment is wrapped by UnsupportedAttachmentError.
	ErrUnsupportedAttachment = errors.New("attachment: unsupported pipeline/attachment combination")

	// ErrMissingColor is returned when a target has no color attachment.
	ErrMissingColor = errors.New("attachment: target has no color attachment")

	// ErrMissingDepthStencil is returned when depth/stencil is required but
	// the target has no depth attachment.
	ErrMissingDepthStencil = errors.New("attachment: target has no depth/stencil attachment")

	// ErrUnknownPolicy is returned by ParsePolicy.
	ErrUnknownPolicy = errors.New("attachment: unknown policy")
)

// Requirements declares which depth/stencil aspects queued pipelines need.
type Requirements = render.AttachmentRequirements

// Policy decides when a depth/stencil attachment is bound.
type Policy int

const (
	// PolicyConditional binds depth/stencil only when a queued pipeline
	// requires it.
	PolicyConditional Policy = iota

	// PolicyAlways binds depth/stencil on every primary pass.
	PolicyAlways
)

// String returns the config spelling of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyConditional:
		return "conditional"
	case PolicyAlways:
		return "always"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "conditional" or "always" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "conditional":
		return PolicyConditional, nil
	case "always":
		return PolicyAlways, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Target is a view's render target as seen by attachment resolution.
// DepthAttachment may return nil for targets without depth/stencil.
type Target interface {
	ColorAttachment() *ColorAttachment
	DepthAttachment() *DepthAttachment
}

// UnsupportedAttachmentError reports a queued item whose pipeline cannot be
// drawn with the pass's attachments.
type UnsupportedAttachmentError struct {
	Entity   ecs.Entity
	Pipeline string
	Required Requirements
	Bound    bool
}

func (e *UnsupportedAttachmentError) Error() string {
	if e.Bound {
		return fmt.Sprintf("%v: %s pipeline %q declares no depth/stencil state but the pass binds one",
			ErrUnsupportedAttachment, e.Entity, e.Pipeline)
	}
	return fmt.Sprintf("%v: %s pipeline %q requires %s but the pass has no depth/stencil attachment",
		ErrUnsupportedAttachment, e.Entity, e.Pipeline, e.Required)
}

func (e *UnsupportedAttachmentError) Unwrap() error {
	return ErrUnsupportedAttachment
}

var warnAlwaysOnce sync.Once

// Plan is the attachment layout chosen for one pass, before any attachment
// is consumed.
type Plan struct {
	target       Target
	policy       Policy
	req          Requirements
	depthStencil bool
}

// NewPlan decides the attachment layout for target. It fails if the target
// lacks an attachment the layout needs. No clear is consumed.
func NewPlan(target Target, req Requirements, policy Policy) (*Plan, error) {
	if target.ColorAttachment() == nil {
		return nil, ErrMissingColor
	}
	if policy == PolicyAlways {
		warnAlwaysOnce.Do(func() {
			rendergraph.Logger().Warn("attachment: always-attach depth/stencil policy in use")
		})
	}
	ds := policy == PolicyAlways || req.DepthStencil()
	if ds && target.DepthAttachment() == nil {
		return nil, fmt.Errorf("%w (policy %s, requires %s)", ErrMissingDepthStencil, policy, req)
	}
	return &Plan{target: target, policy: policy, req: req, depthStencil: ds}, nil
}

// HasDepthStencil reports whether the pass will bind depth/stencil.
func (p *Plan) HasDepthStencil() bool {
	return p.depthStencil
}

// Policy returns the policy the plan was built with.
func (p *Plan) Policy() Policy {
	return p.policy
}

// Validate checks that pipeline can draw item in a pass with this layout.
func (p *Plan) Validate(item ecs.Entity, pipeline *render.RenderPipeline) error {
	needs := pipeline.Attachments.DepthStencil()
	if needs == p.depthStencil {
		return nil
	}
	return &UnsupportedAttachmentError{
		Entity:   item,
		Pipeline: pipeline.Label,
		Required: pipeline.Attachments,
		Bound:    p.depthStencil,
	}
}

// Resolve produces the attachment descriptors, consuming each
// attachment's first-use clear.
func (p *Plan) Resolve() Set {
	s := Set{Color: p.target.ColorAttachment().Get()}
	if p.depthStencil {
		ds := p.target.DepthAttachment().GetStencil()
		s.DepthStencil = &ds
	}
	return s
}

// Set is a resolved attachment layout.
type Set struct {
	Color        render.ColorAttachment
	DepthStencil *render.DepthStencilAttachment
}

// Descriptor builds a render pass descriptor from the set.
func (s Set) Descriptor(label string) *render.RenderPassDescriptor {
	return &render.RenderPassDescriptor{
		Label:                  label,
		ColorAttachments:       []render.ColorAttachment{s.Color},
		DepthStencilAttachment: s.DepthStencil,
	}
}
