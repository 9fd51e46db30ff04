// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/render"
)

// DefaultSubmitTimeout bounds how long Finish waits for the submission to
// complete.
const DefaultSubmitTimeout = 5 * time.Second

// pollInterval is the sleep between completion polls in Finish.
const pollInterval = 100 * time.Microsecond

// Option configures an Encoder.
type Option func(*Encoder)

// WithSubmitTimeout sets how long Finish waits for the GPU.
func WithSubmitTimeout(d time.Duration) Option {
	return func(e *Encoder) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// Encoder is a render.CommandEncoder recording into a hal.CommandEncoder.
//
// State machine:
//
//	Recording -> BeginRenderPass -> Locked
//	Locked    -> Pass.End        -> Recording
//	Recording -> Finish          -> Finished (submitted)
//
// Encoder is NOT safe for concurrent use; use one encoder per view.
type Encoder struct {
	mu       sync.Mutex
	device   hal.Device
	queue    hal.Queue
	encoder  hal.CommandEncoder
	label    string
	active   *Pass
	finished bool
	timeout  time.Duration
}

// NewEncoder creates an encoder on device and begins encoding.
func NewEncoder(device hal.Device, queue hal.Queue, label string, opts ...Option) (*Encoder, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	enc, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}
	e := &Encoder{device: device, queue: queue, encoder: enc, label: label, timeout: DefaultSubmitTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// halProvider is implemented by hosts that expose their HAL objects.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// DevicesFromProvider extracts the HAL device and queue from a host
// provider. The provider either implements HalDevice() any and
// HalQueue() any, or is a render.DeviceHandle whose Device and Queue are
// HAL objects.
func DevicesFromProvider(provider any) (hal.Device, hal.Queue, error) {
	var dev, q any
	switch p := provider.(type) {
	case halProvider:
		dev, q = p.HalDevice(), p.HalQueue()
	case render.DeviceHandle:
		dev, q = p.Device(), p.Queue()
	default:
		return nil, nil, fmt.Errorf("%w: %T", ErrNotHALProvider, provider)
	}
	device, ok := dev.(hal.Device)
	if !ok {
		return nil, nil, fmt.Errorf("%w: device is %T", ErrNotHALProvider, dev)
	}
	queue, ok := q.(hal.Queue)
	if !ok {
		return nil, nil, fmt.Errorf("%w: queue is %T", ErrNotHALProvider, q)
	}
	return device, queue, nil
}

// NewEncoderFromProvider creates an encoder on the provider's device.
func NewEncoderFromProvider(provider any, label string, opts ...Option) (*Encoder, error) {
	device, queue, err := DevicesFromProvider(provider)
	if err != nil {
		return nil, err
	}
	return NewEncoder(device, queue, label, opts...)
}

// Label returns the encoder's debug label.
func (e *Encoder) Label() string { return e.label }

// BeginRenderPass converts desc and opens a HAL pass.
func (e *Encoder) BeginRenderPass(desc *render.RenderPassDescriptor) (render.RenderPass, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecordingLocked(); err != nil {
		return nil, fmt.Errorf("begin render pass: %w", err)
	}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("begin render pass: %w", err)
	}
	halDesc, err := toHALDescriptor(desc)
	if err != nil {
		return nil, fmt.Errorf("begin render pass %q: %w", desc.Label, err)
	}

	pass := &Pass{encoder: e, pass: e.encoder.BeginRenderPass(halDesc), label: desc.Label}
	e.active = pass
	return pass, nil
}

// Finish ends encoding, submits the command buffer and waits for the GPU.
func (e *Encoder) Finish() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecordingLocked(); err != nil {
		return fmt.Errorf("finish: %w", err)
	}
	e.finished = true

	cmdBuf, err := e.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	index, err := e.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	if err := e.waitCompleted(index); err != nil {
		return err
	}
	rendergraph.Logger().Debug("native: frame submitted", "encoder", e.label, "submission", index)
	return nil
}

// waitCompleted polls the queue until submission index has completed or
// the submit timeout elapses.
func (e *Encoder) waitCompleted(index uint64) error {
	deadline := time.Now().Add(e.timeout)
	for e.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w (submission %d, %v)", ErrSubmitTimeout, index, e.timeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// Discard abandons an unfinished encoder.
func (e *Encoder) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finished {
		return
	}
	if e.active != nil {
		e.active.pass.End()
		e.active.ended = true
		e.active = nil
	}
	e.encoder.DiscardEncoding()
	e.finished = true
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

func (e *Encoder) endPass(p *Pass) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != p {
		return fmt.Errorf("end render pass: wrong pass being ended")
	}
	e.active = nil
	return nil
}

var _ render.CommandEncoder = (*Encoder)(nil)
