// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"image"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/renderpass"
	"github.com/gogpu/gputypes"
)

// DrawingFrame is the state of one frame while it is drawn. It is created
// by the caller of BeginDrawingFrame and must not be retained after
// FinishDrawingFrame or AbandonFrame.
type DrawingFrame struct {
	RootPass    *renderpass.Pass
	CurrentPass *renderpass.Pass

	// RootDamageRect is the part of the root pass redrawn this frame.
	RootDamageRect compositor.RectF

	ProjectionMatrix compositor.Transform
	WindowMatrix     compositor.Transform

	// DrawRect is the current pass target rect in pass space, ViewportRect
	// the device rect it maps onto.
	DrawRect     image.Rectangle
	ViewportRect image.Rectangle
}

// deviceMatrix maps pass space into device space.
func (f *DrawingFrame) deviceMatrix() compositor.Matrix {
	return f.WindowMatrix.Multiply(f.ProjectionMatrix).FlattenTo2d().ToMatrix()
}

// toDevice returns the device pixels covered by r in pass space.
func (f *DrawingFrame) toDevice(r compositor.RectF) image.Rectangle {
	return f.deviceMatrix().MapRect(r).ToEnclosingRect()
}

// Capabilities describes what the renderer supports.
type Capabilities struct {
	MaxTextureSize             int
	BestTextureFormat          gputypes.TextureFormat
	AllowPartialTextureUpdates bool
	UsingPartialSwap           bool
	UsingSetVisibility         bool
	// UsingMapImage is set when map-image uploads are enabled and the
	// output surface initializes its GPU resources lazily.
	UsingMapImage bool
}
