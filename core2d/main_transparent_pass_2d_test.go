// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package core2d

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph/attachment"
	"github.com/gogpu/rendergraph/backend/recording"
	"github.com/gogpu/rendergraph/diagnostic"
	"github.com/gogpu/rendergraph/ecs"
	"github.com/gogpu/rendergraph/graph"
	"github.com/gogpu/rendergraph/phase"
	"github.com/gogpu/rendergraph/render"
	"github.com/gogpu/rendergraph/view"
)

const (
	spritePipeline render.PipelineID = 1
	maskPipeline   render.PipelineID = 2
)

type testView struct {
	label  string
	format gputypes.TextureFormat
}

func (v testView) Label() string                  { return v.label }
func (v testView) Format() gputypes.TextureFormat { return v.format }

// scene is a world with one view and the Transparent2d resources.
type scene struct {
	world  *ecs.World
	view   ecs.Entity
	camera *view.ExtractedCamera
	target *view.ViewTarget
	drawID phase.DrawFunctionID
	quad   *render.Buffer
}

func newScene(t *testing.T, withDepth bool) *scene {
	t.Helper()
	world := ecs.NewWorld()

	cache := render.NewPipelineCache()
	cache.Insert(&render.RenderPipeline{ID: spritePipeline, Label: "sprite"})
	cache.Insert(&render.RenderPipeline{
		ID:          maskPipeline,
		Label:       "mask",
		Attachments: render.AttachmentRequirements{Stencil: true},
	})
	ecs.InsertResource(world, cache)

	var depth render.TextureView
	if withDepth {
		depth = testView{"depth", gputypes.TextureFormatDepth24PlusStencil8}
	}
	s := &scene{
		world:  world,
		view:   world.Spawn(),
		camera: &view.ExtractedCamera{PhysicalTargetSize: [2]uint32{800, 600}},
		target: view.NewViewTarget(testView{"main", gputypes.TextureFormatBGRA8Unorm}, depth, view.ClearDefault(), 800, 600),
		drawID: Install(world),
		quad:   &render.Buffer{Label: "quad", Size: 64},
	}
	ecs.Insert(world, s.view, s.camera)
	ecs.Insert(world, s.view, s.target)
	return s
}

// queue adds an item for the view with a distinct batch range so draws can
// be identified in the command log.
func (s *scene) queue(z float32, pipeline render.PipelineID, batch uint32) ecs.Entity {
	e := s.world.Spawn()
	ecs.Insert(s.world, e, &render.BindGroups{Groups: []render.BoundBindGroup{
		{Index: 0, Group: &render.BindGroup{Label: "view"}},
	}})
	ecs.Insert(s.world, e, &render.DrawArgs{
		VertexBuffer: s.quad,
		IndexBuffer:  s.quad,
		IndexFormat:  gputypes.IndexFormatUint16,
		IndexCount:   6,
	})
	phases, _ := ecs.Resource[phase.ViewSortedRenderPhases[Transparent2d]](s.world)
	p, ok := phases.Get(s.view)
	if !ok {
		p = phases.InsertOrClear(s.view)
	}
	p.Add(Transparent2d{
		Z:              z,
		Item:           e,
		PipelineID:     pipeline,
		DrawFunctionID: s.drawID,
		BatchStart:     batch,
		BatchEnd:       batch + 1,
	})
	return e
}

// run runs node for the scene's view on a fresh recording encoder.
func (s *scene) run(t *testing.T, node *MainTransparentPass2dNode, caps render.BackendCapabilities, opts ...graph.ContextOption) (*recording.Encoder, error) {
	t.Helper()
	enc := recording.NewEncoder("view")
	rctx := graph.NewRenderContext(enc, caps, opts...)
	runner := graph.NewViewNodeRunner(node.Label(), node)
	err := runner.Run(graph.NewContext(context.Background(), node.Label(), s.view), rctx, s.world)
	return enc, err
}

func webgl2() render.BackendCapabilities {
	return render.DetectCapabilities(render.AdapterInfo{API: render.APIGL, Web: true})
}

func TestMainTransparentPass2d_NoRegistry(t *testing.T) {
	world := ecs.NewWorld()
	v := world.Spawn()
	ecs.Insert(world, v, &view.ExtractedCamera{})
	ecs.Insert(world, v, view.NewViewTarget(testView{"main", gputypes.TextureFormatBGRA8Unorm}, nil, view.ClearDefault(), 1, 1))

	node := NewMainTransparentPass2dNode()
	enc := recording.NewEncoder("view")
	rctx := graph.NewRenderContext(enc, render.DefaultCapabilities())
	q, _ := graph.QueryView(world, v)
	if err := node.Run(graph.NewContext(context.Background(), node.Label(), v), rctx, q, world); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := len(enc.Commands()); n != 0 {
		t.Errorf("commands = %d, want 0", n)
	}
}

func TestMainTransparentPass2d_ClearsWithoutPhase(t *testing.T) {
	s := newScene(t, true)
	enc, err := s.run(t, NewMainTransparentPass2dNode(), render.DefaultCapabilities())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	passes := enc.Passes()
	if len(passes) != 1 {
		t.Fatalf("passes = %d, want 1", len(passes))
	}
	p := passes[0]
	if p.Label != MainTransparentPass2d {
		t.Errorf("label = %q", p.Label)
	}
	color := p.Descriptor.ColorAttachments[0]
	if color.LoadOp != gputypes.LoadOpClear || color.ClearValue != view.DefaultClearColor {
		t.Errorf("color = %+v, want clear to default", color)
	}
	if p.Descriptor.DepthStencilAttachment != nil {
		t.Error("depth/stencil bound with nothing requiring it")
	}
	if p.Count(recording.OpDraw)+p.Count(recording.OpDrawIndexed) != 0 {
		t.Error("draws issued for an absent phase")
	}
}

func TestMainTransparentPass2d_ClearsEmptyPhase(t *testing.T) {
	s := newScene(t, false)
	phases, _ := ecs.Resource[phase.ViewSortedRenderPhases[Transparent2d]](s.world)
	phases.InsertOrClear(s.view)

	enc, err := s.run(t, NewMainTransparentPass2dNode(), render.DefaultCapabilities())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	passes := enc.Passes()
	if len(passes) != 1 || passes[0].Descriptor.ColorAttachments[0].LoadOp != gputypes.LoadOpClear {
		t.Fatalf("passes = %+v, want one clearing pass", passes)
	}
}

func TestMainTransparentPass2d_PreservesOrder(t *testing.T) {
	s := newScene(t, false)
	// Queued out of z order and sorted as upstream would.
	s.queue(3, spritePipeline, 30)
	s.queue(1, spritePipeline, 10)
	s.queue(2, spritePipeline, 20)
	p, _ := phase.Lookup[Transparent2d](s.world, s.view)
	p.Sort()

	enc, err := s.run(t, NewMainTransparentPass2dNode(), render.DefaultCapabilities())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var firstInstances []int64
	for _, c := range enc.Passes()[0].Commands {
		if c.Op == recording.OpDrawIndexed {
			firstInstances = append(firstInstances, c.Ints[4])
		}
	}
	if !slices.Equal(firstInstances, []int64{10, 20, 30}) {
		t.Errorf("draw order = %v, want [10 20 30]", firstInstances)
	}
	if got := enc.Passes()[0].Count(recording.OpSetPipeline); got != 1 {
		t.Errorf("pipeline binds = %d, want 1", got)
	}
}

func TestMainTransparentPass2d_SpanBracketing(t *testing.T) {
	s := newScene(t, false)
	s.queue(0, spritePipeline, 0)

	rec := diagnostic.NewTimestampRecorder(&render.QuerySet{Label: "frame", Count: 16})
	enc, err := s.run(t, NewMainTransparentPass2dNode(), render.DefaultCapabilities(), graph.WithRecorder(rec))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	ops := enc.Passes()[0].Ops()
	if len(ops) < 2 || ops[0] != recording.OpWriteTimestamp || ops[1] != recording.OpWriteTimestamp {
		t.Fatalf("ops = %v, want span timestamps first", ops)
	}
	if slices.Index(ops, recording.OpDrawIndexed) < 2 {
		t.Errorf("draw before span closed: %v", ops)
	}
	if ops[len(ops)-1] != recording.OpEndPass {
		t.Errorf("last op = %v, want EndPass", ops[len(ops)-1])
	}

	results := rec.Finish()
	if len(results) != 1 || results[0].Name != MainTransparentPass2d || !results[0].GPU {
		t.Errorf("span results = %+v", results)
	}
}

func TestMainTransparentPass2d_ViewportQuirk(t *testing.T) {
	vp := render.FullDepth(0, 0, 400, 300)
	tests := []struct {
		name       string
		caps       render.BackendCapabilities
		viewport   *render.Viewport
		wantPasses int
	}{
		{"webgl2 with viewport", webgl2(), &vp, 2},
		{"webgl2 without viewport", webgl2(), nil, 1},
		{"native with viewport", render.DefaultCapabilities(), &vp, 1},
		{"native without viewport", render.DefaultCapabilities(), nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScene(t, true)
			s.camera.Viewport = tt.viewport
			s.queue(0, spritePipeline, 0)

			enc, err := s.run(t, NewMainTransparentPass2dNode(), tt.caps)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			passes := enc.Passes()
			if len(passes) != tt.wantPasses {
				t.Fatalf("passes = %d, want %d", len(passes), tt.wantPasses)
			}
			if tt.viewport != nil && passes[0].Ops()[0] != recording.OpSetViewport {
				t.Errorf("first op = %v, want SetViewport", passes[0].Ops()[0])
			}
			if tt.wantPasses < 2 {
				return
			}

			reset := passes[1]
			if reset.Label != ResetViewportPass2d {
				t.Errorf("label = %q", reset.Label)
			}
			if reset.Descriptor.DepthStencilAttachment != nil {
				t.Error("reset pass binds depth/stencil")
			}
			if got := reset.Descriptor.ColorAttachments[0].LoadOp; got != gputypes.LoadOpLoad {
				t.Errorf("reset LoadOp = %v, want Load", got)
			}
			if !slices.Equal(reset.Ops(), []recording.Op{recording.OpEndPass}) {
				t.Errorf("reset ops = %v, want [EndPass]", reset.Ops())
			}
		})
	}
}

func TestMainTransparentPass2d_IdempotentEmptyFrames(t *testing.T) {
	s := newScene(t, false)
	node := NewMainTransparentPass2dNode()

	for frame := 0; frame < 3; frame++ {
		s.target.Reset()
		enc, err := s.run(t, node, render.DefaultCapabilities())
		if err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		passes := enc.Passes()
		if len(passes) != 1 {
			t.Fatalf("frame %d passes = %d", frame, len(passes))
		}
		if got := passes[0].Descriptor.ColorAttachments[0].LoadOp; got != gputypes.LoadOpClear {
			t.Errorf("frame %d LoadOp = %v, want Clear", frame, got)
		}
		if !slices.Equal(passes[0].Ops(), []recording.Op{recording.OpEndPass}) {
			t.Errorf("frame %d ops = %v", frame, passes[0].Ops())
		}
	}
}

func TestMainTransparentPass2d_SecondRunLoads(t *testing.T) {
	s := newScene(t, false)
	node := NewMainTransparentPass2dNode()
	if _, err := s.run(t, node, render.DefaultCapabilities()); err != nil {
		t.Fatal(err)
	}
	enc, err := s.run(t, node, render.DefaultCapabilities())
	if err != nil {
		t.Fatal(err)
	}
	if got := enc.Passes()[0].Descriptor.ColorAttachments[0].LoadOp; got != gputypes.LoadOpLoad {
		t.Errorf("LoadOp = %v, want Load on a target already written this frame", got)
	}
}

func TestMainTransparentPass2d_DepthStencil(t *testing.T) {
	tests := []struct {
		name      string
		depth     bool
		policy    attachment.Policy
		pipelines []render.PipelineID
		wantDS    bool
		wantErr   error
	}{
		{"conditional sprites", true, attachment.PolicyConditional, []render.PipelineID{spritePipeline}, false, nil},
		{"conditional masks", true, attachment.PolicyConditional, []render.PipelineID{maskPipeline}, true, nil},
		{"conditional mixed", true, attachment.PolicyConditional, []render.PipelineID{maskPipeline, spritePipeline}, false, attachment.ErrUnsupportedAttachment},
		{"always sprites", true, attachment.PolicyAlways, []render.PipelineID{spritePipeline}, false, attachment.ErrUnsupportedAttachment},
		{"always masks", true, attachment.PolicyAlways, []render.PipelineID{maskPipeline}, true, nil},
		{"always empty", true, attachment.PolicyAlways, nil, true, nil},
		{"masks without depth target", false, attachment.PolicyConditional, []render.PipelineID{maskPipeline}, false, attachment.ErrMissingDepthStencil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScene(t, tt.depth)
			phases, _ := ecs.Resource[phase.ViewSortedRenderPhases[Transparent2d]](s.world)
			phases.InsertOrClear(s.view)
			for i, id := range tt.pipelines {
				s.queue(float32(i), id, uint32(i))
			}

			enc, err := s.run(t, NewMainTransparentPass2dNode(WithPolicy(tt.policy)), render.DefaultCapabilities())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				var nre *graph.NodeRunError
				if !errors.As(err, &nre) || nre.View != s.view {
					t.Errorf("err = %v, want NodeRunError for the view", err)
				}
				if n := len(enc.Commands()); n != 0 {
					t.Errorf("commands = %d, want none before validation passes", n)
				}
				if s.target.ColorAttachment().Written() {
					t.Error("failed validation consumed the clear")
				}
				return
			}
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			desc := enc.Passes()[0].Descriptor
			if (desc.DepthStencilAttachment != nil) != tt.wantDS {
				t.Errorf("depth/stencil bound = %v, want %v", desc.DepthStencilAttachment != nil, tt.wantDS)
			}
		})
	}
}

func TestMainTransparentPass2d_UnsupportedAttachmentNamesItem(t *testing.T) {
	s := newScene(t, true)
	s.queue(0, maskPipeline, 0)
	plain := s.queue(1, spritePipeline, 1)

	_, err := s.run(t, NewMainTransparentPass2dNode(), render.DefaultCapabilities())
	var ue *attachment.UnsupportedAttachmentError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnsupportedAttachmentError", err)
	}
	if ue.Entity != plain || ue.Pipeline != "sprite" || !ue.Bound {
		t.Errorf("error = %+v", ue)
	}
}

func TestMainTransparentPass2d_DrawFailure(t *testing.T) {
	s := newScene(t, false)
	s.queue(0, spritePipeline, 0)
	broken := s.queue(1, spritePipeline, 1)
	ecs.Remove[render.DrawArgs](s.world, broken)

	enc, err := s.run(t, NewMainTransparentPass2dNode(), render.DefaultCapabilities())
	var ie *phase.ItemError
	if !errors.As(err, &ie) || ie.Entity != broken || ie.Index != 1 {
		t.Fatalf("err = %v, want ItemError for item 1", err)
	}
	if !errors.Is(err, phase.ErrMissingComponent) {
		t.Errorf("err = %v, want ErrMissingComponent", err)
	}
	if err := enc.Finish(); err != nil {
		t.Errorf("encoder left locked: %v", err)
	}
}

func TestMainTransparentPass2d_Options(t *testing.T) {
	node := NewMainTransparentPass2dNode(WithLabel("overlay"), WithLabel(""), WithPolicy(attachment.PolicyAlways))
	if node.Label() != "overlay" || node.Policy() != attachment.PolicyAlways {
		t.Errorf("node = %q/%v", node.Label(), node.Policy())
	}

	s := newScene(t, true)
	enc, err := s.run(t, node, render.DefaultCapabilities())
	if err != nil {
		t.Fatal(err)
	}
	if enc.Passes()[0].Label != "overlay" {
		t.Errorf("label = %q", enc.Passes()[0].Label)
	}
}

func TestMainTransparentPass2d_RunViews(t *testing.T) {
	s := newScene(t, false)
	second := s.world.Spawn()
	ecs.Insert(s.world, second, &view.ExtractedCamera{})
	ecs.Insert(s.world, second, view.NewSharedViewTarget(s.target))
	s.queue(0, spritePipeline, 0)

	encoders := map[ecs.Entity]*recording.Encoder{
		s.view: recording.NewEncoder("first"),
		second: recording.NewEncoder("second"),
	}
	newContext := func(v ecs.Entity) (*graph.RenderContext, error) {
		return graph.NewRenderContext(encoders[v], render.DefaultCapabilities()), nil
	}
	node := graph.NewViewNodeRunner(MainTransparentPass2d, NewMainTransparentPass2dNode())
	if err := graph.RunViews(context.Background(), node, []ecs.Entity{s.view, second}, newContext, s.world); err != nil {
		t.Fatalf("RunViews: %v", err)
	}

	clears := 0
	for _, enc := range encoders {
		if !enc.Finished() {
			t.Error("encoder not finished")
		}
		if enc.Passes()[0].Descriptor.ColorAttachments[0].LoadOp == gputypes.LoadOpClear {
			clears++
		}
	}
	if clears != 1 {
		t.Errorf("shared target cleared %d times, want 1", clears)
	}
	if op := encoders[s.view].Passes()[0].Descriptor.ColorAttachments[0].LoadOp; op != gputypes.LoadOpClear {
		t.Errorf("first view in camera order LoadOp = %v, want Clear", op)
	}
}
