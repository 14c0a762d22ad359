// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/internal/blend"
	"github.com/gogpu/compositor/internal/clip"
)

// BlendMode specifies how source and destination colors are combined.
type BlendMode uint8

const (
	// BlendModeSourceOver blends the source over the destination.
	BlendModeSourceOver BlendMode = iota

	// BlendModeSource replaces the destination with the source.
	BlendModeSource
)

// String returns the mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendModeSourceOver:
		return "SourceOver"
	case BlendModeSource:
		return "Source"
	default:
		return "Unknown"
	}
}

func (m BlendMode) op() blend.Mode {
	if m == BlendModeSource {
		return blend.Src
	}
	return blend.SrcOver
}

// ClipOp selects how ClipRect combines with the current clip.
type ClipOp uint8

const (
	// ClipIntersect narrows the current clip.
	ClipIntersect ClipOp = iota

	// ClipReplace discards the current clip.
	ClipReplace
)

func (op ClipOp) clip() clip.Op {
	if op == ClipReplace {
		return clip.Replace
	}
	return clip.Intersect
}

// Shader supplies per-pixel source colors from a bitmap, clamping at the
// edges of Subset.
type Shader struct {
	// Image holds premultiplied pixels.
	Image *image.RGBA

	// Subset limits sampling. The zero rectangle means the whole image.
	Subset image.Rectangle

	// LocalMatrix maps bitmap pixel space into the surface's local space.
	LocalMatrix compositor.Matrix
}

// NewShader returns a shader mapping the image's bounds onto dst.
func NewShader(img *image.RGBA, dst compositor.RectF) *Shader {
	return &Shader{
		Image:       img,
		Subset:      img.Bounds(),
		LocalMatrix: compositor.RectToRect(compositor.RectFromImage(img.Bounds()), dst),
	}
}

func (sh *Shader) subset() image.Rectangle {
	if sh.Subset.Empty() {
		return sh.Image.Bounds()
	}
	return sh.Subset.Intersect(sh.Image.Bounds())
}

// ImageFilter post-processes the pixels a draw call produced before they
// are composited.
type ImageFilter interface {
	// Apply returns the filtered image. The result must have the same
	// bounds as src.
	Apply(src *image.RGBA) *image.RGBA

	// Outset reports how many pixels the filter may spread content beyond
	// the drawn area.
	Outset() int
}

// Paint describes how a draw call colors pixels.
type Paint struct {
	// Color is the fill color for solid draws. Its alpha also modulates
	// shaders and bitmaps.
	Color color.NRGBA

	// BlendMode is the compositing operator.
	BlendMode BlendMode

	// AntiAlias enables fractional edge coverage.
	AntiAlias bool

	// FilterBitmap selects bilinear instead of nearest sampling.
	FilterBitmap bool

	// StrokeWidth is the device-space width used by StrokePolygon.
	StrokeWidth float64

	// Shader, when set, replaces Color's RGB with bitmap samples.
	Shader *Shader

	// Mask, when set, multiplies coverage by the alpha of its samples.
	Mask *Shader

	// ImageFilter, when set, filters the drawn pixels before compositing.
	ImageFilter ImageFilter
}

// NewPaint returns an opaque black source-over paint.
func NewPaint() *Paint {
	return &Paint{Color: color.NRGBA{A: 255}}
}

// SetAlpha replaces the paint's alpha.
func (p *Paint) SetAlpha(a uint8) {
	p.Color.A = a
}

// Alpha returns the paint's alpha.
func (p *Paint) Alpha() uint8 {
	return p.Color.A
}

// Reset restores the NewPaint state.
func (p *Paint) Reset() {
	*p = Paint{Color: color.NRGBA{A: 255}}
}
