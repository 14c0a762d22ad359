// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import "errors"

var (
	// ErrNoOutputSurface is returned when a frame is begun without an
	// output surface.
	ErrNoOutputSurface = errors.New("renderer: no output surface")

	// ErrFrameInProgress is returned by BeginDrawingFrame when the previous
	// frame was neither finished nor abandoned.
	ErrFrameInProgress = errors.New("renderer: frame already in progress")

	// ErrNoFrameInProgress is returned when finishing a frame that was
	// never begun.
	ErrNoFrameInProgress = errors.New("renderer: no frame in progress")

	// ErrMissingRenderPassOutput marks a render pass quad whose pass has
	// no rendered output. The quad is skipped.
	ErrMissingRenderPassOutput = errors.New("renderer: missing render pass output")

	// ErrNotSoftwareResource marks a tile quad whose resource only the
	// GPU can address. The quad is skipped.
	ErrNotSoftwareResource = errors.New("renderer: resource is not CPU-addressable")

	// ErrUnsupportedMaterial marks a quad drawn with the fallback color.
	ErrUnsupportedMaterial = errors.New("renderer: unsupported material")

	// ErrReadbackUnsupported is returned by GetFramebufferPixels when the
	// output surface cannot copy its pixels.
	ErrReadbackUnsupported = errors.New("renderer: output surface does not support readback")
)
