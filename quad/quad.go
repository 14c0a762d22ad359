// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package quad defines draw quads, the atomic drawable units submitted to
// the compositor.
//
// A Quad carries the geometry shared by every material: a rectangle in
// quad-local space, the transform into the render pass target, opacity and
// edge antialiasing flags. The material-specific data lives in a Payload,
// a closed set of types the renderer dispatches on with an exhaustive type
// switch.
package quad

import (
	"fmt"
	"image"

	"github.com/gogpu/compositor"
)

// Material identifies what a quad draws.
type Material uint8

const (
	Invalid Material = iota
	Checkerboard
	DebugBorder
	PictureContent
	RenderPass
	SolidColor
	TextureContent
	TiledContent
	Unsupported
)

var materialNames = [...]string{
	Invalid:        "Invalid",
	Checkerboard:   "Checkerboard",
	DebugBorder:    "DebugBorder",
	PictureContent: "PictureContent",
	RenderPass:     "RenderPass",
	SolidColor:     "SolidColor",
	TextureContent: "TextureContent",
	TiledContent:   "TiledContent",
	Unsupported:    "Unsupported",
}

// String returns the material name.
func (m Material) String() string {
	if int(m) < len(materialNames) {
		return materialNames[m]
	}
	return fmt.Sprintf("Material(%d)", m)
}

// ParseMaterial returns the Material named s.
func ParseMaterial(s string) (Material, error) {
	for m, name := range materialNames {
		if m != int(Invalid) && name == s {
			return Material(m), nil
		}
	}
	return Invalid, fmt.Errorf("quad: unknown material %q", s)
}

// Edges is a set of quad edges that lie on the exterior of the layer the
// quad was generated from.
type Edges uint8

const (
	EdgeTop Edges = 1 << iota
	EdgeLeft
	EdgeBottom
	EdgeRight

	// AllEdges marks every edge exterior.
	AllEdges = EdgeTop | EdgeLeft | EdgeBottom | EdgeRight
)

// AllExterior reports whether all four edges are exterior. Only such
// quads may be antialiased without seams between neighbors.
func (e Edges) AllExterior() bool { return e&AllEdges == AllEdges }

// Has reports whether every edge in o is set.
func (e Edges) Has(o Edges) bool { return e&o == o }

// PassID identifies a render pass.
type PassID struct {
	Layer int
	Index int
}

// String formats the ID as "layer.index".
func (id PassID) String() string { return fmt.Sprintf("%d.%d", id.Layer, id.Index) }

// Quad is a single draw request.
type Quad struct {
	// Rect is the quad's rectangle in quad-local space.
	Rect image.Rectangle

	// OpaqueRect is the part of Rect known to be fully opaque.
	OpaqueRect image.Rectangle

	// VisibleRect is the part of Rect that is not occluded.
	VisibleRect image.Rectangle

	// Transform maps quad-local space into the render pass target.
	Transform compositor.Transform

	// Opacity in [0, 1].
	Opacity float64

	// Edges marks the edges that may be antialiased.
	Edges Edges

	// NeedsBlending forces source-over compositing.
	NeedsBlending bool

	// Payload holds the material-specific data.
	Payload Payload
}

// Material returns the material of the payload.
func (q *Quad) Material() Material {
	if q.Payload == nil {
		return Invalid
	}
	return q.Payload.Material()
}

// ShouldDrawWithBlending reports whether the quad must be composited with
// source-over rather than replacing the target.
func (q *Quad) ShouldDrawWithBlending() bool {
	if q.NeedsBlending || q.Opacity < 1 {
		return true
	}
	return !q.VisibleRect.Empty() && !q.VisibleRect.In(q.OpaqueRect)
}

// IsVisible reports whether any part of the quad can be seen.
func (q *Quad) IsVisible() bool {
	return q.Opacity > 0 && !q.VisibleRect.Empty()
}

// Validate reports structural problems with q.
func (q *Quad) Validate() error {
	switch {
	case q.Payload == nil:
		return fmt.Errorf("quad: missing payload")
	case q.Rect.Empty():
		return fmt.Errorf("quad: empty rect %v", q.Rect)
	case !q.VisibleRect.In(q.Rect):
		return fmt.Errorf("quad: visible rect %v outside %v", q.VisibleRect, q.Rect)
	case q.Opacity < 0 || q.Opacity > 1:
		return fmt.Errorf("quad: opacity %g out of range", q.Opacity)
	}
	return nil
}
