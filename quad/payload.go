// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/filter"
	"github.com/gogpu/compositor/picture"
	"github.com/gogpu/compositor/resource"
)

// Payload is the material-specific part of a quad. The set of payload
// types is closed.
type Payload interface {
	Material() Material
	payload()
}

// CheckerboardPayload is a placeholder for content that is not ready yet.
type CheckerboardPayload struct {
	Color color.NRGBA
}

// DebugBorderPayload outlines the quad.
type DebugBorderPayload struct {
	Color color.NRGBA

	// Width is the stroke width in device pixels.
	Width float64
}

// PicturePayload rasterizes recorded content into the quad.
type PicturePayload struct {
	Picture *picture.Picture

	// TexCoordRect is the part of the content texture mapped onto Rect.
	TexCoordRect compositor.RectF

	// TextureSize bounds TexCoordRect.
	TextureSize image.Point

	// ContentRect is the content-space area the texture covers.
	ContentRect image.Rectangle

	// ContentsScale maps picture space to content space.
	ContentsScale float64
}

// RenderPassPayload draws the output of another render pass.
type RenderPassPayload struct {
	PassID    PassID
	IsReplica bool

	// MaskResource, when non-zero, is a bitmap whose alpha masks the
	// content. MaskUVRect selects the part of it in normalized
	// coordinates.
	MaskResource resource.ID
	MaskUVRect   compositor.RectF

	// Filters are applied to the content before it is composited.
	Filters filter.Operations

	// BackgroundFilters are applied to what is already drawn under the
	// quad before the content is composited over it.
	BackgroundFilters filter.Operations
}

// SolidColorPayload fills the quad.
type SolidColorPayload struct {
	Color                color.NRGBA
	ForceAntiAliasingOff bool
}

// TexturePayload draws a bitmap resource.
type TexturePayload struct {
	Resource           resource.ID
	PremultipliedAlpha bool

	// UVTopLeft and UVBottomRight are normalized texture coordinates.
	UVTopLeft     compositor.Point
	UVBottomRight compositor.Point

	// VertexOpacity is the opacity at the top-left, bottom-left,
	// bottom-right and top-right corners.
	VertexOpacity [4]float64

	// Flipped draws the texture upside down.
	Flipped bool

	// Background is drawn under the texture when it has alpha.
	Background color.NRGBA
}

// TilePayload draws one tile of tiled layer content.
type TilePayload struct {
	Resource resource.ID

	// TexCoordRect is in texel space.
	TexCoordRect compositor.RectF
	TextureSize  image.Point

	SwizzleContents bool
}

// UnsupportedPayload is drawn with a conspicuous fallback color.
type UnsupportedPayload struct {
	// Kind names what could not be drawn.
	Kind string
}

func (CheckerboardPayload) Material() Material { return Checkerboard }
func (DebugBorderPayload) Material() Material  { return DebugBorder }
func (PicturePayload) Material() Material      { return PictureContent }
func (RenderPassPayload) Material() Material   { return RenderPass }
func (SolidColorPayload) Material() Material   { return SolidColor }
func (TexturePayload) Material() Material      { return TextureContent }
func (TilePayload) Material() Material         { return TiledContent }
func (UnsupportedPayload) Material() Material  { return Unsupported }

func (CheckerboardPayload) payload() {}
func (DebugBorderPayload) payload()  {}
func (PicturePayload) payload()      {}
func (RenderPassPayload) payload()   {}
func (SolidColorPayload) payload()   {}
func (TexturePayload) payload()      {}
func (TilePayload) payload()         {}
func (UnsupportedPayload) payload()  {}

// UVRect returns the normalized rectangle spanned by the UV corners.
func (p TexturePayload) UVRect() compositor.RectF {
	return compositor.BoundingRect(p.UVTopLeft, p.UVBottomRight)
}

// HasMask reports whether the pass content is masked.
func (p RenderPassPayload) HasMask() bool { return p.MaskResource != 0 }
