// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "errors"

// Encoder errors.
var (
	// ErrEncoderLocked is returned when a pass is begun while another pass
	// on the same encoder is still open.
	ErrEncoderLocked = errors.New("render: encoder is locked (pass in progress)")

	// ErrEncoderFinished is returned when an encoder is used after Finish.
	ErrEncoderFinished = errors.New("render: encoder already finished")

	// ErrNilDescriptor is returned when BeginRenderPass receives nil.
	ErrNilDescriptor = errors.New("render: render pass descriptor is nil")

	// ErrNoAttachments is returned for a pass with neither color nor
	// depth/stencil attachments.
	ErrNoAttachments = errors.New("render: render pass has no attachments")

	// ErrNilAttachmentView is returned when an attachment has no view.
	ErrNilAttachmentView = errors.New("render: attachment view is nil")
)

// Render pass errors.
var (
	// ErrPassEnded is returned when operations are called on an ended pass.
	ErrPassEnded = errors.New("render: render pass has already ended")

	// ErrNilPipeline is returned when SetPipeline is called with nil.
	ErrNilPipeline = errors.New("render: pipeline is nil")

	// ErrNilBindGroup is returned when SetBindGroup is called with nil.
	ErrNilBindGroup = errors.New("render: bind group is nil")

	// ErrBindGroupIndexOutOfRange is returned when bind group index exceeds maximum.
	ErrBindGroupIndexOutOfRange = errors.New("render: bind group index exceeds maximum (3)")

	// ErrVertexSlotOutOfRange is returned when a vertex buffer slot exceeds maximum.
	ErrVertexSlotOutOfRange = errors.New("render: vertex buffer slot exceeds maximum (7)")

	// ErrNilVertexBuffer is returned when SetVertexBuffer is called with nil.
	ErrNilVertexBuffer = errors.New("render: vertex buffer is nil")

	// ErrNilIndexBuffer is returned when SetIndexBuffer is called with nil.
	ErrNilIndexBuffer = errors.New("render: index buffer is nil")

	// ErrTimestampsUnsupported is returned by WriteTimestamp on passes whose
	// backend cannot write timestamps from inside a render pass.
	ErrTimestampsUnsupported = errors.New("render: timestamp writes not supported by backend")
)

// Resource errors.
var (
	// ErrPipelineNotFound is returned when a pipeline ID is not in the cache.
	ErrPipelineNotFound = errors.New("render: pipeline not found")
)
