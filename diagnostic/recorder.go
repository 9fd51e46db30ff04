// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package diagnostic brackets render passes with timing spans.
//
// A span is opened on an active pass and closed on the same pass. When the
// backend supports timestamp queries each span writes a begin and an end
// timestamp into a per-frame query pool; CPU wall-clock brackets are always
// recorded. Finish ends the frame, returns the span results and resets the
// pool.
package diagnostic

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/render"
)

// Recorder opens pass spans and collects their results once per frame.
type Recorder interface {
	// PassSpan opens a span named name on pass.
	PassSpan(pass render.TimestampWriter, name string) *PassSpan

	// Finish ends the frame. It panics if a span is still open.
	Finish() []SpanResult
}

// SpanResult is the outcome of one closed span.
type SpanResult struct {
	Name string

	// CPU is the wall-clock time between open and close.
	CPU time.Duration

	// GPU is true when both timestamps were written to the query set.
	GPU bool

	// BeginQuery and EndQuery are the query indices used when GPU is true.
	BeginQuery uint32
	EndQuery   uint32
}

// PassSpan is an open timing span. It must be closed exactly once, on the
// pass it was opened on.
type PassSpan struct {
	rec    *TimestampRecorder
	name   string
	pass   render.TimestampWriter
	start  time.Time
	begin  uint32
	gpu    bool
	closed bool
}

// Name returns the span name.
func (s *PassSpan) Name() string {
	return s.name
}

// endedPass is implemented by passes that report whether they have ended,
// such as *render.TrackedRenderPass.
type endedPass interface {
	IsEnded() bool
}

func passEnded(pass render.TimestampWriter) bool {
	e, ok := pass.(endedPass)
	return ok && e.IsEnded()
}

// End closes the span on pass. Closing twice, on another pass, or after
// the pass has ended panics.
func (s *PassSpan) End(pass render.TimestampWriter) {
	if s.closed {
		panic(fmt.Sprintf("diagnostic: span %q closed twice", s.name))
	}
	if pass != s.pass {
		panic(fmt.Sprintf("diagnostic: span %q closed on a different pass", s.name))
	}
	if passEnded(pass) {
		panic(fmt.Sprintf("diagnostic: span %q closed after its pass ended", s.name))
	}
	s.closed = true
	if s.rec != nil {
		s.rec.end(s)
	}
}

// Option configures a TimestampRecorder.
type Option func(*TimestampRecorder)

// WithClock replaces time.Now as the CPU clock.
func WithClock(now func() time.Time) Option {
	return func(r *TimestampRecorder) {
		r.now = now
	}
}

// TimestampRecorder records spans into a per-frame query pool. It is safe
// for concurrent spans from different views.
type TimestampRecorder struct {
	mu      sync.Mutex
	set     *render.QuerySet
	next    uint32
	open    int
	results []SpanResult
	now     func() time.Time

	warnOnce sync.Once
}

// NewTimestampRecorder creates a recorder writing into set. A nil set
// records CPU brackets only.
func NewTimestampRecorder(set *render.QuerySet, opts ...Option) *TimestampRecorder {
	r := &TimestampRecorder{set: set, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PassSpan opens a span and writes its begin timestamp. Opening a span on
// an ended pass panics.
func (r *TimestampRecorder) PassSpan(pass render.TimestampWriter, name string) *PassSpan {
	if passEnded(pass) {
		panic(fmt.Sprintf("diagnostic: span %q opened on an ended pass", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &PassSpan{rec: r, name: name, pass: pass, start: r.now()}
	r.open++

	if r.set == nil || r.next+2 > r.set.Count {
		return s
	}
	begin := r.next
	if r.write(pass, begin) {
		s.begin = begin
		s.gpu = true
		r.next += 2
	}
	return s
}

func (r *TimestampRecorder) end(s *PassSpan) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := SpanResult{Name: s.name, CPU: r.now().Sub(s.start)}
	if s.gpu && r.write(s.pass, s.begin+1) {
		res.GPU = true
		res.BeginQuery = s.begin
		res.EndQuery = s.begin + 1
	}
	r.open--
	r.results = append(r.results, res)
}

// write issues a timestamp query. Failures are logged and never fatal.
func (r *TimestampRecorder) write(pass render.TimestampWriter, index uint32) bool {
	err := pass.WriteTimestamp(r.set, index)
	switch {
	case err == nil:
		return true
	case errors.Is(err, render.ErrTimestampsUnsupported):
		r.warnOnce.Do(func() {
			rendergraph.Logger().Warn("diagnostic: timestamp queries unsupported, recording CPU time only")
		})
	default:
		rendergraph.Logger().Debug("diagnostic: timestamp write failed", "index", index, "err", err)
	}
	return false
}

// Finish returns the frame's span results and resets the query pool.
func (r *TimestampRecorder) Finish() []SpanResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open != 0 {
		panic(fmt.Sprintf("diagnostic: Finish with %d open span(s)", r.open))
	}
	results := r.results
	r.results = nil
	r.next = 0

	log := rendergraph.Logger()
	for _, res := range results {
		log.Debug("diagnostic: span", "name", res.Name, "cpu", res.CPU, "gpu", res.GPU)
	}
	return results
}

// NopRecorder opens spans that record nothing.
type NopRecorder struct{}

// PassSpan returns a span that only checks it is closed correctly.
func (NopRecorder) PassSpan(pass render.TimestampWriter, name string) *PassSpan {
	if passEnded(pass) {
		panic(fmt.Sprintf("diagnostic: span %q opened on an ended pass", name))
	}
	return &PassSpan{name: name, pass: pass}
}

// Finish returns nil.
func (NopRecorder) Finish() []SpanResult { return nil }

var (
	_ Recorder = (*TimestampRecorder)(nil)
	_ Recorder = NopRecorder{}
)
