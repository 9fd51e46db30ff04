// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package recording provides an in-memory render.CommandEncoder that keeps
// a log of every command it receives.
//
// It enforces the same encoder and pass state machine as a GPU backend and
// is used by tests, the rgdemo CLI and hosts without a device.
package recording

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph/render"
)

// Op is the kind of a recorded command.
type Op int

const (
	OpBeginPass Op = iota
	OpSetPipeline
	OpSetBindGroup
	OpSetVertexBuffer
	OpSetIndexBuffer
	OpSetViewport
	OpSetScissorRect
	OpSetStencilReference
	OpDraw
	OpDrawIndexed
	OpWriteTimestamp
	OpEndPass
	OpFinish
)

var opNames = [...]string{
	OpBeginPass:           "BeginPass",
	OpSetPipeline:         "SetPipeline",
	OpSetBindGroup:        "SetBindGroup",
	OpSetVertexBuffer:     "SetVertexBuffer",
	OpSetIndexBuffer:      "SetIndexBuffer",
	OpSetViewport:         "SetViewport",
	OpSetScissorRect:      "SetScissorRect",
	OpSetStencilReference: "SetStencilReference",
	OpDraw:                "Draw",
	OpDrawIndexed:         "DrawIndexed",
	OpWriteTimestamp:      "WriteTimestamp",
	OpEndPass:             "EndPass",
	OpFinish:              "Finish",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Command is one recorded command. Only the fields relevant to Op are set.
type Command struct {
	Op   Op
	Pass string

	// Descriptor is a copy of the pass descriptor (OpBeginPass).
	Descriptor render.RenderPassDescriptor

	Pipeline  *render.RenderPipeline
	BindGroup *render.BindGroup
	Buffer    *render.Buffer

	// Index is the bind group index, vertex slot, stencil reference or
	// query index.
	Index uint32

	IndexFormat gputypes.IndexFormat
	Offsets     []uint32

	// Floats holds viewport values (x, y, w, h, minDepth, maxDepth).
	Floats [6]float32

	// Ints holds scissor rectangles and draw arguments in call order.
	Ints [5]int64
}

// String returns a one-line description.
func (c Command) String() string {
	switch c.Op {
	case OpBeginPass:
		return fmt.Sprintf("%s %q colors=%d depthStencil=%t", c.Op, c.Pass,
			len(c.Descriptor.ColorAttachments), c.Descriptor.DepthStencilAttachment != nil)
	case OpSetPipeline:
		return fmt.Sprintf("%s %q", c.Op, c.Pipeline.Label)
	case OpSetViewport:
		return fmt.Sprintf("%s %v", c.Op, c.Floats)
	case OpDraw, OpDrawIndexed:
		return fmt.Sprintf("%s %v", c.Op, c.Ints)
	case OpSetBindGroup, OpSetVertexBuffer, OpSetStencilReference, OpWriteTimestamp:
		return fmt.Sprintf("%s %d", c.Op, c.Index)
	default:
		return c.Op.String()
	}
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithoutTimestamps makes passes reject timestamp writes with
// render.ErrTimestampsUnsupported.
func WithoutTimestamps() Option {
	return func(e *Encoder) {
		e.noTimestamps = true
	}
}

// Encoder is a render.CommandEncoder recording into memory.
//
// State machine:
//
//	Recording -> BeginRenderPass -> Locked
//	Locked    -> Pass.End        -> Recording
//	Recording -> Finish          -> Finished
//
// Encoder is safe for concurrent inspection; recording is expected from a
// single goroutine.
type Encoder struct {
	mu           sync.Mutex
	label        string
	active       *Pass
	finished     bool
	noTimestamps bool
	log          []Command
}

// NewEncoder creates an encoder in the Recording state.
func NewEncoder(label string, opts ...Option) *Encoder {
	e := &Encoder{label: label}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Label returns the encoder's debug label.
func (e *Encoder) Label() string {
	return e.label
}

// BeginRenderPass opens a pass and records a copy of desc.
func (e *Encoder) BeginRenderPass(desc *render.RenderPassDescriptor) (render.RenderPass, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecordingLocked(); err != nil {
		return nil, fmt.Errorf("begin render pass: %w", err)
	}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("begin render pass: %w", err)
	}

	cp := *desc
	cp.ColorAttachments = append([]render.ColorAttachment(nil), desc.ColorAttachments...)
	if desc.DepthStencilAttachment != nil {
		ds := *desc.DepthStencilAttachment
		cp.DepthStencilAttachment = &ds
	}
	e.log = append(e.log, Command{Op: OpBeginPass, Pass: desc.Label, Descriptor: cp})

	pass := &Pass{encoder: e, label: desc.Label}
	e.active = pass
	if e.noTimestamps {
		return pass, nil
	}
	return &timestampPass{pass}, nil
}

// Finish ends recording.
func (e *Encoder) Finish() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecordingLocked(); err != nil {
		return fmt.Errorf("finish: %w", err)
	}
	e.finished = true
	e.log = append(e.log, Command{Op: OpFinish})
	return nil
}

// Finished reports whether Finish succeeded.
func (e *Encoder) Finished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finished
}

// Commands returns a copy of the command log.
func (e *Encoder) Commands() []Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Command(nil), e.log...)
}

// Passes returns the log grouped by pass. Commands outside a pass are
// omitted.
func (e *Encoder) Passes() []PassRecord {
	var out []PassRecord
	for _, c := range e.Commands() {
		switch c.Op {
		case OpBeginPass:
			out = append(out, PassRecord{Label: c.Pass, Descriptor: c.Descriptor})
		case OpFinish:
		default:
			if n := len(out); n > 0 {
				out[n-1].Commands = append(out[n-1].Commands, c)
			}
		}
	}
	return out
}

// Reset clears the log and returns the encoder to Recording.
func (e *Encoder) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = nil
	e.active = nil
	e.finished = false
}

func (e *Encoder) checkRecordingLocked() error {
	switch {
	case e.finished:
		return render.ErrEncoderFinished
	case e.active != nil:
		return render.ErrEncoderLocked
	default:
		return nil
	}
}

func (e *Encoder) record(p *Pass, c Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p.ended {
		return render.ErrPassEnded
	}
	c.Pass = p.label
	e.log = append(e.log, c)
	return nil
}

func (e *Encoder) endPass(p *Pass) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p.ended {
		return nil
	}
	if e.active != p {
		return fmt.Errorf("end render pass: wrong pass being ended")
	}
	p.ended = true
	e.active = nil
	e.log = append(e.log, Command{Op: OpEndPass, Pass: p.label})
	return nil
}

// PassRecord is the descriptor and commands of one recorded pass. The
// closing OpEndPass is the last command when the pass was ended.
type PassRecord struct {
	Label      string
	Descriptor render.RenderPassDescriptor
	Commands   []Command
}

// Ops returns the ops of the pass's commands.
func (r PassRecord) Ops() []Op {
	ops := make([]Op, len(r.Commands))
	for i, c := range r.Commands {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many commands of kind op the pass holds.
func (r PassRecord) Count(op Op) int {
	n := 0
	for _, c := range r.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

var _ render.CommandEncoder = (*Encoder)(nil)
