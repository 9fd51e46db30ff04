// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/rendergraph/backend"
	"github.com/gogpu/rendergraph/render"
)

func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

type halHost struct {
	device hal.Device
	queue  hal.Queue
}

func (h halHost) HalDevice() any { return h.device }
func (h halHost) HalQueue() any  { return h.queue }

type plainView struct{}

func (plainView) Label() string                  { return "plain" }
func (plainView) Format() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

func colorDesc(label string, view render.TextureView) *render.RenderPassDescriptor {
	return &render.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []render.ColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{A: 1},
		}},
	}
}

func TestNewEncoder_NilArgs(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := NewEncoder(nil, queue, "x"); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil device err = %v", err)
	}
	if _, err := NewEncoder(device, nil, "x"); !errors.Is(err, ErrNilQueue) {
		t.Errorf("nil queue err = %v", err)
	}
}

func TestDevicesFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	d, q, err := DevicesFromProvider(halHost{device, queue})
	if err != nil || d != device || q != queue {
		t.Fatalf("DevicesFromProvider = %v, %v, %v", d, q, err)
	}

	tests := []struct {
		name     string
		provider any
	}{
		{"nil", nil},
		{"unrelated", 42},
		{"null device handle", render.NullDeviceHandle{}},
		{"wrong device type", halHost{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEncoderFromProvider(tt.provider, "x"); !errors.Is(err, ErrNotHALProvider) {
				t.Errorf("err = %v, want ErrNotHALProvider", err)
			}
		})
	}
}

func TestEncoder_FrameOnNoopDevice(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	target, err := NewRenderTarget(device, "main", gputypes.TextureFormatBGRA8Unorm, 64, 64)
	if err != nil {
		t.Fatalf("NewRenderTarget: %v", err)
	}
	defer target.Destroy()
	depth, err := NewRenderTarget(device, "depth", gputypes.TextureFormatDepth24PlusStencil8, 64, 64)
	if err != nil {
		t.Fatalf("NewRenderTarget depth: %v", err)
	}
	defer depth.Destroy()

	if target.View().Label() != "main" || target.View().Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("view = %q/%v", target.View().Label(), target.View().Format())
	}

	enc, err := NewEncoderFromProvider(halHost{device, queue}, "frame")
	if err != nil {
		t.Fatalf("NewEncoderFromProvider: %v", err)
	}
	if enc.Label() != "frame" {
		t.Errorf("Label() = %q", enc.Label())
	}

	desc := colorDesc("main_transparent_pass_2d", target.View())
	desc.DepthStencilAttachment = &render.DepthStencilAttachment{
		View:           depth.View(),
		DepthLoadOp:    gputypes.LoadOpClear,
		DepthStoreOp:   gputypes.StoreOpStore,
		StencilLoadOp:  gputypes.LoadOpClear,
		StencilStoreOp: gputypes.StoreOpStore,
	}
	pass, err := enc.BeginRenderPass(desc)
	if err != nil {
		t.Fatalf("BeginRenderPass: %v", err)
	}
	if _, ok := pass.(render.TimestampWriter); ok {
		t.Error("native pass unexpectedly implements TimestampWriter")
	}
	if _, err := enc.BeginRenderPass(desc); !errors.Is(err, render.ErrEncoderLocked) {
		t.Errorf("second pass err = %v, want ErrEncoderLocked", err)
	}
	if err := pass.SetViewport(0, 0, 32, 32, 0, 1); err != nil {
		t.Errorf("SetViewport: %v", err)
	}
	if err := pass.SetScissorRect(0, 0, 32, 32); err != nil {
		t.Errorf("SetScissorRect: %v", err)
	}
	if err := pass.SetStencilReference(1); err != nil {
		t.Errorf("SetStencilReference: %v", err)
	}
	if err := pass.Draw(3, 1, 0, 0); err != nil {
		t.Errorf("Draw: %v", err)
	}
	if err := pass.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := pass.End(); err != nil {
		t.Errorf("second End: %v", err)
	}
	if err := pass.Draw(3, 1, 0, 0); !errors.Is(err, render.ErrPassEnded) {
		t.Errorf("Draw after End err = %v", err)
	}

	reset, err := enc.BeginRenderPass(&render.RenderPassDescriptor{
		Label: "reset_viewport_pass_2d",
		ColorAttachments: []render.ColorAttachment{{
			View:    target.View(),
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	_ = reset.End()

	if err := enc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if _, err := enc.BeginRenderPass(desc); !errors.Is(err, render.ErrEncoderFinished) {
		t.Errorf("begin after Finish err = %v", err)
	}
	enc.Discard()
}

func TestEncoder_ForeignResources(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	enc, err := NewEncoder(device, queue, "frame", WithSubmitTimeout(0))
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Discard()
	if enc.timeout != DefaultSubmitTimeout {
		t.Errorf("timeout = %v, want default", enc.timeout)
	}

	if _, err := enc.BeginRenderPass(colorDesc("x", plainView{})); !errors.Is(err, ErrForeignResource) {
		t.Fatalf("foreign view err = %v, want ErrForeignResource", err)
	}

	target, err := NewRenderTarget(device, "main", gputypes.TextureFormatBGRA8Unorm, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer target.Destroy()

	pass, err := enc.BeginRenderPass(colorDesc("main", target.View()))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = pass.End() }()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil pipeline", pass.SetPipeline(nil), render.ErrNilPipeline},
		{"foreign pipeline", pass.SetPipeline(&render.RenderPipeline{Label: "sprite"}), ErrForeignResource},
		{"foreign bind group", pass.SetBindGroup(0, &render.BindGroup{Label: "view"}, nil), ErrForeignResource},
		{"foreign vertex buffer", pass.SetVertexBuffer(0, &render.Buffer{Label: "quad"}, 0), ErrForeignResource},
		{"foreign index buffer", pass.SetIndexBuffer(&render.Buffer{Label: "idx"}, gputypes.IndexFormatUint16, 0), ErrForeignResource},
		{"nil index buffer", pass.SetIndexBuffer(nil, gputypes.IndexFormatUint16, 0), render.ErrNilIndexBuffer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("err = %v, want %v", tt.err, tt.want)
			}
		})
	}
}

// stalledQueue accepts submissions but never reports them completed.
type stalledQueue struct {
	hal.Queue
}

func (stalledQueue) Submit([]hal.CommandBuffer) (uint64, error) { return 1, nil }
func (stalledQueue) PollCompleted() uint64                      { return 0 }

// failingQueue rejects every submission.
type failingQueue struct {
	hal.Queue
}

var errQueueLost = errors.New("queue lost")

func (failingQueue) Submit([]hal.CommandBuffer) (uint64, error) { return 0, errQueueLost }

func TestEncoder_FinishSubmission(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name  string
		queue hal.Queue
		want  error
	}{
		{"completes", queue, nil},
		{"never completes", stalledQueue{queue}, ErrSubmitTimeout},
		{"submit fails", failingQueue{queue}, errQueueLost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewEncoder(device, tt.queue, "frame", WithSubmitTimeout(10*time.Millisecond))
			if err != nil {
				t.Fatal(err)
			}
			err = enc.Finish()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Finish: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Finish err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewRenderTarget_NilDevice(t *testing.T) {
	if _, err := NewRenderTarget(nil, "x", gputypes.TextureFormatBGRA8Unorm, 1, 1); !errors.Is(err, ErrNilDevice) {
		t.Errorf("err = %v", err)
	}
}

func TestRegister(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	defer backend.Unregister(backend.BackendNative)

	if err := Register(42); !errors.Is(err, ErrNotHALProvider) {
		t.Fatalf("Register(42) err = %v, want ErrNotHALProvider", err)
	}
	if backend.IsRegistered(backend.BackendNative) {
		t.Fatal("failed Register should not register the backend")
	}

	if err := Register(halHost{device, queue}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	name, err := backend.Default()
	if err != nil || name != backend.BackendNative {
		t.Fatalf("Default() = %q, %v; want native", name, err)
	}

	enc, err := backend.New(name, "view0", render.DefaultCapabilities())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	native, ok := enc.(*Encoder)
	if !ok {
		t.Fatalf("encoder is %T, want *native.Encoder", enc)
	}
	if native.Label() != "view0" {
		t.Errorf("Label() = %q", native.Label())
	}
	native.Discard()
}

const spriteWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> @builtin(position) vec4<f32> {
    let x = f32(i32(index) - 1);
    let y = f32(i32(index & 1u) * 2 - 1);
    return vec4<f32>(x, y, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 0.5);
}
`

func TestNewShaderModule(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	words, err := CompileWGSL(spriteWGSL)
	if err != nil {
		t.Fatalf("CompileWGSL: %v", err)
	}
	if len(words) == 0 || words[0] != 0x07230203 {
		t.Fatalf("SPIR-V header = %#x, want magic 0x07230203", words)
	}

	module, err := NewShaderModule(device, "sprite", spriteWGSL)
	if err != nil {
		t.Fatalf("NewShaderModule: %v", err)
	}
	device.DestroyShaderModule(module)

	if _, err := NewShaderModule(nil, "sprite", spriteWGSL); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil device err = %v", err)
	}
	if _, err := NewShaderModule(device, "broken", "fn main( {"); err == nil {
		t.Error("invalid WGSL should fail to compile")
	}
}
