// Package rendergraph executes view-scoped render graph nodes on top of the
// GoGPU stack.
//
// # Overview
//
// A frame is described by an [ecs.World]: views (cameras) are entities
// carrying a view.ExtractedCamera and a view.ViewTarget, and upstream
// systems queue sorted draw items into per-view phases stored as World
// resources. Render graph nodes read the World and encode render passes
// into a render.CommandEncoder. Nothing here waits on the GPU; submission
// means encoding commands.
//
// # Quick Start
//
//	world := ecs.NewWorld()
//	cam := world.Spawn()
//	ecs.Insert(world, cam, &view.ExtractedCamera{})
//	ecs.Insert(world, cam, view.NewViewTarget(colorView, depthView, view.ClearDefault(), 800, 600))
//
//	core2d.Install(world)
//
//	node := graph.NewViewNodeRunner(core2d.MainTransparentPass2d, core2d.NewMainTransparentPass2dNode())
//	err := graph.RunViews(ctx, node, []ecs.Entity{cam}, newRenderContext, world)
//
// # Packages
//
//   - ecs: read-only frame store with typed resources and components
//   - render: descriptors, encoder interfaces, tracked passes, capabilities
//   - attachment: color and depth/stencil attachment resolution
//   - diagnostic: GPU timestamp spans bound to render passes
//   - phase: generic sorted render phases and draw functions
//   - graph: node contracts, view queries and the per-view runner
//   - core2d: the 2D transparent main pass
//   - backend: encoder backend registry
//   - backend/recording, backend/native: command encoder implementations
//   - config: TOML settings
//
// # Logging
//
// rendergraph produces no log output by default. See [SetLogger].
package rendergraph

// Version is the current version of the module.
const Version = "0.1.0"
