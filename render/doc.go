// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render defines the backend-facing vocabulary used by render graph
// nodes: texture views, attachment and render pass descriptors, the
// CommandEncoder and RenderPass interfaces, tracked passes, pipeline
// resources and backend capabilities.
//
// # Key Principle
//
// Nodes never talk to a GPU API directly. They build descriptors and record
// commands through CommandEncoder. Implementations live in
// backend/recording (in-memory command log) and backend/native
// (gogpu/wgpu HAL).
//
// # Core Types
//
//   - RenderPassDescriptor: label, color attachments, optional depth/stencil
//   - CommandEncoder: opens one render pass at a time
//   - RenderPass: records state changes and draws for an open pass
//   - TrackedRenderPass: RenderPass wrapper that skips redundant binds
//   - RenderPipeline, BindGroup, Buffer: opaque resources with declared
//     attachment requirements
//   - BackendCapabilities: runtime-resolved backend behavior flags
//
// # Thread Safety
//
// Encoders and passes are NOT safe for concurrent use. Each view records
// into its own encoder from a single goroutine. PipelineCache is safe for
// concurrent reads.
package render
