// Command rgdemo runs the 2D transparent pass over a synthetic frame and
// prints the encoded commands. Only the recording backend is registered
// without a host device, so it is the default.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/attachment"
	"github.com/gogpu/rendergraph/backend"
	"github.com/gogpu/rendergraph/backend/recording"
	"github.com/gogpu/rendergraph/config"
	"github.com/gogpu/rendergraph/core2d"
	"github.com/gogpu/rendergraph/ecs"
	"github.com/gogpu/rendergraph/graph"
	"github.com/gogpu/rendergraph/phase"
	"github.com/gogpu/rendergraph/render"
	"github.com/gogpu/rendergraph/view"
)

// demoView is a texture view with no backing storage.
type demoView struct {
	label  string
	format gputypes.TextureFormat
}

func (v demoView) Label() string                  { return v.label }
func (v demoView) Format() gputypes.TextureFormat { return v.format }

const (
	spritePipeline        render.PipelineID = 1
	maskPipeline          render.PipelineID = 2
	spriteStencilPipeline render.PipelineID = 3
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run parses args, encodes one frame and prints every view's commands and
// the frame's spans to out.
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rgdemo", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "TOML settings file")
		backendArg = fs.String("backend", "", "encoder backend (default: best available)")
		views      = fs.Int("views", 2, "number of views")
		items      = fs.Int("items", 4, "transparent items per view")
		masks      = fs.Int("masks", 0, "items per view drawn with the stencil mask pipeline")
		viewport   = fs.Bool("viewport", false, "restrict each camera to the left half of its target")
		webgl2     = fs.Bool("webgl2", false, "emulate a WebGL2 adapter")
		verbose    = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *masks < 0 || *masks > *items {
		return fmt.Errorf("-masks %d out of range [0, %d]", *masks, *items)
	}

	if *verbose {
		rendergraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	settings := config.Default()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		settings = s
	}

	info := render.AdapterInfo{API: render.APIVulkan, TimestampQueries: true}
	if *webgl2 {
		info = render.AdapterInfo{API: render.APIGL, Web: true}
	}
	caps := settings.ApplyCapabilities(render.DetectCapabilities(info))

	backendName, err := backend.Resolve(*backendArg)
	if err != nil {
		return fmt.Errorf("failed to select backend: %w", err)
	}

	world, viewEntities := buildFrame(settings, *views, *items, *masks, *viewport)
	recorder := settings.Recorder(caps)

	var mu sync.Mutex
	encoders := make(map[ecs.Entity]render.CommandEncoder, len(viewEntities))
	newContext := func(v ecs.Entity) (*graph.RenderContext, error) {
		enc, err := backend.New(backendName, v.String(), caps)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		encoders[v] = enc
		mu.Unlock()
		return graph.NewRenderContext(enc, caps, graph.WithRecorder(recorder)), nil
	}

	node := graph.NewViewNodeRunner(core2d.MainTransparentPass2d,
		core2d.NewMainTransparentPass2dNode(core2d.WithPolicy(settings.Policy())))
	if err := graph.RunViews(context.Background(), node, viewEntities, newContext, world); err != nil {
		return fmt.Errorf("frame failed: %w", err)
	}

	for _, v := range viewEntities {
		fmt.Fprintf(out, "%s (%s):\n", v, backendName)
		rec, ok := encoders[v].(*recording.Encoder)
		if !ok {
			continue
		}
		for _, c := range rec.Commands() {
			fmt.Fprintf(out, "  %s\n", c)
		}
	}
	for _, span := range recorder.Finish() {
		fmt.Fprintf(out, "span %s cpu=%v gpu=%t\n", span.Name, span.CPU, span.GPU)
	}
	return nil
}

// buildFrame creates a world with the given views, each with its own
// target and a back-to-front sorted Transparent2d phase. The first masks
// items of a view use the mask pipeline. A pass binds one depth/stencil
// layout, so when any item needs stencil, or the policy always binds it,
// the remaining sprites use the stencil-aware sprite pipeline.
func buildFrame(settings config.Settings, views, items, masks int, restrict bool) (*ecs.World, []ecs.Entity) {
	world := ecs.NewWorld()
	drawID := core2d.Install(world)

	cache := render.NewPipelineCache()
	cache.Insert(&render.RenderPipeline{ID: spritePipeline, Label: "sprite"})
	cache.Insert(&render.RenderPipeline{
		ID:          spriteStencilPipeline,
		Label:       "sprite_stencil",
		Attachments: render.AttachmentRequirements{Stencil: true},
	})
	cache.Insert(&render.RenderPipeline{
		ID:          maskPipeline,
		Label:       "stencil_mask",
		Attachments: render.AttachmentRequirements{Stencil: true},
	})
	ecs.InsertResource(world, cache)

	phases, _ := ecs.Resource[phase.ViewSortedRenderPhases[core2d.Transparent2d]](world)
	quad := &render.Buffer{Label: "quad", Size: 4 * 16}
	quadIndex := &render.Buffer{Label: "quad_index", Size: 6 * 2}
	viewUniform := &render.BindGroup{Label: "view_uniform"}
	sprite := spritePipeline
	if masks > 0 || settings.Policy() == attachment.PolicyAlways {
		sprite = spriteStencilPipeline
	}

	const width, height = 800, 600
	entities := make([]ecs.Entity, 0, views)
	for i := 0; i < views; i++ {
		v := world.Spawn()
		camera := &view.ExtractedCamera{PhysicalTargetSize: [2]uint32{width, height}, Order: i}
		if restrict {
			vp := render.FullDepth(0, 0, width/2, height)
			camera.Viewport = &vp
		}
		color := demoView{fmt.Sprintf("view%d_color", i), gputypes.TextureFormatBGRA8Unorm}
		depth := demoView{fmt.Sprintf("view%d_depth", i), gputypes.TextureFormatDepth24PlusStencil8}
		ecs.Insert(world, v, camera)
		ecs.Insert(world, v, view.NewViewTarget(color, depth, settings.ClearColor(), width, height))

		p := phases.InsertOrClear(v)
		for j := 0; j < items; j++ {
			e := world.Spawn()
			ecs.Insert(world, e, &render.BindGroups{Groups: []render.BoundBindGroup{
				{Index: 0, Group: viewUniform},
				{Index: 1, Group: &render.BindGroup{Label: fmt.Sprintf("sprite%d_material", j)}},
			}})
			ecs.Insert(world, e, &render.DrawArgs{
				VertexBuffer: quad,
				IndexBuffer:  quadIndex,
				IndexFormat:  gputypes.IndexFormatUint16,
				IndexCount:   6,
			})
			pipeline := sprite
			if j < masks {
				pipeline = maskPipeline
			}
			p.Add(core2d.Transparent2d{
				Z:              float32((j*7)%items) - float32(items)/2,
				Item:           e,
				PipelineID:     pipeline,
				DrawFunctionID: drawID,
			})
		}
		p.Sort()
		entities = append(entities, v)
	}
	return world, entities
}
