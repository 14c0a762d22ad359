// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package renderer draws quads into CPU bitmaps.
//
// A SoftwareRenderer owns the per-frame state machine: it begins a paint
// on the output surface, binds either the output canvas or a render pass
// bitmap as the current framebuffer, dispatches every quad of a pass to
// its material-specific draw routine and finally hands the finished frame
// to the output surface.
//
// # Frame lifecycle
//
//	r, _ := renderer.New(settings, device, provider, cache)
//	if r.DrawFrame(ctx, passes) {
//		r.SwapBuffers()
//	}
//
// DrawFrame is a convenience over the individual steps (BeginDrawingFrame,
// BindFramebufferToOutputSurface or BindFramebufferToTexture, ClearFramebuffer,
// DoDrawQuad, FinishDrawingFrame) which remain exported for callers that
// schedule passes themselves.
//
// # Failure isolation
//
// A quad that cannot be drawn (missing resource, busy lock, missing render
// pass output) is skipped or drawn with the fail-visible fallback color
// and logged at debug level. Only frame-level failures, such as an
// unavailable output surface, are reported to the caller.
//
// The renderer is single threaded. It must not be used from more than one
// goroutine at a time.
package renderer
