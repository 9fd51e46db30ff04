// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package attachment resolves a view's render targets into render pass
// attachment descriptors.
//
// A ColorAttachment clears to its configured color the first time it is
// used in a frame and loads on every later use, so a target written by an
// earlier node is preserved. DepthAttachment follows the same rule.
//
// Whether a depth/stencil attachment is bound is decided by a Plan built
// from the attachment Requirements of the queued pipelines and a Policy:
//
//	plan, err := attachment.NewPlan(target, reqs, attachment.PolicyConditional)
//	if err != nil {
//	    return err
//	}
//	for _, item := range items {
//	    if err := plan.Validate(item.Entity, item.Pipeline); err != nil {
//	        return err // *UnsupportedAttachmentError
//	    }
//	}
//	set := plan.Resolve()
//	desc := set.Descriptor("main_pass")
//
// PolicyAlways binds depth/stencil unconditionally. It exists for callers
// that depend on the attachment always being present; pipelines without
// depth/stencil state are then reported per item instead of faulting in
// the backend.
package attachment
