// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"fmt"
	"image"
	"time"
)

// FrameID identifies a frame produced by EndPaint. Zero is never issued.
type FrameID uint64

// FrameData is the finished pixels of one frame.
type FrameData struct {
	ID FrameID

	// Size is the frame size in pixels.
	Size image.Point

	// DamageRect is the part of the frame that changed.
	DamageRect image.Rectangle

	// Pixels holds the premultiplied frame. It stays valid until the frame
	// is reclaimed.
	Pixels *image.RGBA
}

// Metadata describes a frame to its consumer.
type Metadata struct {
	FrameNumber       uint64
	DeviceScaleFactor float64
	ViewportSize      image.Point
	Timestamp         time.Time
}

// CompositorFrame is what SwapBuffers submits.
type CompositorFrame struct {
	Metadata Metadata
	Software *FrameData
}

// String summarizes the frame for logs.
func (f *CompositorFrame) String() string {
	if f == nil || f.Software == nil {
		return "frame(empty)"
	}
	return fmt.Sprintf("frame(#%d id=%d %dx%d damage=%v)",
		f.Metadata.FrameNumber, f.Software.ID, f.Software.Size.X, f.Software.Size.Y, f.Software.DamageRect)
}

// CompositorFrameAck acknowledges a swapped frame, returning its buffer.
type CompositorFrameAck struct {
	LastSoftwareFrameID FrameID
}

// Capabilities describes what an output surface supports.
type Capabilities struct {
	// DeferredGPUInitialization means GPU resources are created lazily on
	// first use.
	DeferredGPUInitialization bool

	// PartialSwap means only the damage rect needs to be redrawn.
	PartialSwap bool

	// SetVisibility means the surface can drop its buffers when hidden.
	SetVisibility bool

	// MaxFramesPending limits frames awaiting reclaim. Zero means one.
	MaxFramesPending int
}
