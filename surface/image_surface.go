// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/internal/blend"
	"github.com/gogpu/compositor/internal/clip"
	interp "github.com/gogpu/compositor/internal/image"
	"github.com/gogpu/compositor/internal/raster"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ImageSurface is a CPU surface that renders into an *image.RGBA holding
// premultiplied pixels.
//
// Example:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.Clear(compositor.Transparent)
//	s.DrawRect(compositor.RectF{W: 100, H: 100}, surface.NewPaint())
//	img := s.Snapshot()
type ImageSurface struct {
	img    *image.RGBA
	matrix compositor.Matrix
	saved  []compositor.Matrix
	clip   *clip.Stack

	// closed tracks if Close has been called
	closed bool
}

var (
	_ Surface      = (*ImageSurface)(nil)
	_ PixelSurface = (*ImageSurface)(nil)
)

// NewImageSurface creates a surface with its own zeroed image.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return NewImageSurfaceFromImage(image.NewRGBA(image.Rect(0, 0, width, height)))
}

// NewImageSurfaceFromImage creates a surface that renders into img
// directly. Device coordinates are img's coordinates.
func NewImageSurfaceFromImage(img *image.RGBA) *ImageSurface {
	return &ImageSurface{
		img:    img,
		matrix: compositor.Identity(),
		clip:   clip.NewStack(img.Bounds()),
	}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height.
func (s *ImageSurface) Height() int { return s.img.Bounds().Dy() }

// Image returns the backing image.
func (s *ImageSurface) Image() *image.RGBA { return s.img }

// Matrix returns the total matrix.
func (s *ImageSurface) Matrix() compositor.Matrix { return s.matrix }

// SetMatrix replaces the total matrix.
func (s *ImageSurface) SetMatrix(m compositor.Matrix) { s.matrix = m }

// ResetMatrix sets the total matrix to identity.
func (s *ImageSurface) ResetMatrix() { s.matrix = compositor.Identity() }

// Concat pre-multiplies the total matrix by m, so m applies to geometry
// before the existing matrix.
func (s *ImageSurface) Concat(m compositor.Matrix) { s.matrix = s.matrix.Multiply(m) }

// Save pushes the matrix and clip.
func (s *ImageSurface) Save() {
	s.saved = append(s.saved, s.matrix)
	s.clip.Save()
}

// Restore pops the matrix and clip. Unbalanced calls are ignored.
func (s *ImageSurface) Restore() {
	if len(s.saved) == 0 {
		return
	}
	last := len(s.saved) - 1
	s.matrix = s.saved[last]
	s.saved = s.saved[:last]
	s.clip.Restore()
}

// ClipRect maps r through the total matrix and combines the enclosing
// device rectangle with the clip.
func (s *ImageSurface) ClipRect(r compositor.RectF, op ClipOp) {
	s.clip.Apply(s.matrix.MapRect(r).ToEnclosingRect(), op.clip())
}

// ClipBounds returns the device-space clip.
func (s *ImageSurface) ClipBounds() image.Rectangle { return s.clip.Bounds() }

// Clear sets every pixel to c regardless of the clip.
func (s *ImageSurface) Clear(c color.NRGBA) {
	if s.closed {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(compositor.Premultiply(c)), image.Point{}, draw.Src)
}

// DrawColor fills the clip with c.
func (s *ImageSurface) DrawColor(c color.NRGBA, mode BlendMode) {
	if s.closed {
		return
	}
	src := compositor.Premultiply(c)
	px := [4]byte{src.R, src.G, src.B, src.A}
	b := s.clip.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := s.img.PixOffset(b.Min.X, y)
		blend.Span(s.img.Pix[i:], px, nil, b.Dx(), mode.op())
	}
}

// DrawRect fills r with p.
func (s *ImageSurface) DrawRect(r compositor.RectF, p *Paint) {
	if s.closed || r.IsEmpty() {
		return
	}
	c := r.Corners()
	for i := range c {
		c[i] = s.matrix.MapPoint(c[i])
	}
	s.fillCoverage(raster.FillPolygon(c[:], s.clip.Bounds(), p.AntiAlias), p)
}

// StrokePolygon strokes the closed polygon through pts.
func (s *ImageSurface) StrokePolygon(pts []compositor.Point, p *Paint) {
	if s.closed || len(pts) < 2 {
		return
	}
	dev := make([]compositor.Point, len(pts))
	for i, pt := range pts {
		dev[i] = s.matrix.MapPoint(pt)
	}
	s.fillCoverage(raster.StrokePolygon(dev, p.StrokeWidth, s.clip.Bounds(), p.AntiAlias), p)
}

// DrawImageRect draws the src rectangle of img, in img's pixel space,
// into dst, in local space. Sampling never reads outside src.
func (s *ImageSurface) DrawImageRect(img *image.RGBA, src, dst compositor.RectF, p *Paint) {
	if s.closed || img == nil || src.IsEmpty() || dst.IsEmpty() {
		return
	}
	sr := src.ToEnclosingRect().Intersect(img.Bounds())
	if sr.Empty() {
		return
	}
	local := compositor.RectToRect(src, dst)
	total := s.matrix.Multiply(local)

	if p.Mask != nil || p.ImageFilter != nil || !total.IsAxisAligned() {
		sp := *p
		sp.Shader = &Shader{Image: img, Subset: sr, LocalMatrix: local}
		s.DrawRect(dst, &sp)
		return
	}
	s.blitAffine(img, sr, total, p)
}

// blitAffine draws sr of img through an axis-aligned affine matrix using
// x/image/draw.
func (s *ImageSurface) blitAffine(img *image.RGBA, sr image.Rectangle, m compositor.Matrix, p *Paint) {
	dst, ok := s.img.SubImage(s.clip.Bounds()).(*image.RGBA)
	if !ok || dst.Bounds().Empty() {
		return
	}
	op := xdraw.Over
	if p.BlendMode == BlendModeSource {
		op = xdraw.Src
	}
	var opts *xdraw.Options
	if p.Color.A != 255 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: p.Color.A})}
	}

	// Whole-pixel translations are copied directly.
	if m.A == 1 && m.E == 1 && m.B == 0 && m.D == 0 && isWhole(m.C) && isWhole(m.F) {
		dp := image.Pt(sr.Min.X+int(m.C), sr.Min.Y+int(m.F))
		xdraw.Copy(dst, dp, img, sr, op, opts)
		return
	}

	var kernel xdraw.Interpolator = xdraw.NearestNeighbor
	if p.FilterBitmap {
		kernel = xdraw.BiLinear
	}
	kernel.Transform(dst, f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}, img, sr, op, opts)
}

// fillCoverage composites the paint's source through the coverage mask.
func (s *ImageSurface) fillCoverage(cov *image.Alpha, p *Paint) {
	if cov == nil {
		return
	}
	if p.ImageFilter != nil {
		s.fillFiltered(cov, p)
		return
	}
	s.composite(s.img, cov, p, p.BlendMode.op())
}

// composite writes the paint's source into dst over cov's bounds.
func (s *ImageSurface) composite(dst *image.RGBA, cov *image.Alpha, p *Paint, mode blend.Mode) {
	src := newSource(s.matrix, p)
	if src == nil {
		return
	}
	b := cov.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		ci := cov.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			c := cov.Pix[ci]
			ci++
			if c != 0 {
				if px, ok := src.at(x, y, c); ok {
					blend.Pixel(dst.Pix[di:di+4], px.color, px.coverage, mode)
				}
			}
			di += 4
		}
	}
}

// fillFiltered draws into a transparent layer, filters it, and composites
// the layer back with the paint's blend mode.
func (s *ImageSurface) fillFiltered(cov *image.Alpha, p *Paint) {
	outset := max(p.ImageFilter.Outset(), 0)
	lb := cov.Bounds().Inset(-outset).Intersect(s.clip.Bounds())
	if lb.Empty() {
		return
	}
	layer := image.NewRGBA(lb)
	s.composite(layer, cov, p, blend.SrcOver)

	filtered := p.ImageFilter.Apply(layer)
	if filtered == nil || filtered.Bounds() != lb {
		return
	}
	mode := p.BlendMode.op()
	for y := lb.Min.Y; y < lb.Max.Y; y++ {
		si := filtered.PixOffset(lb.Min.X, y)
		di := s.img.PixOffset(lb.Min.X, y)
		for x := lb.Min.X; x < lb.Max.X; x++ {
			px := [4]byte{filtered.Pix[si], filtered.Pix[si+1], filtered.Pix[si+2], filtered.Pix[si+3]}
			blend.Pixel(s.img.Pix[di:di+4], px, 255, mode)
			si += 4
			di += 4
		}
	}
}

// ReadPixels copies r into a new image with origin bounds.
func (s *ImageSurface) ReadPixels(r image.Rectangle) *image.RGBA {
	r = r.Intersect(s.img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), s.img, r.Min, draw.Src)
	return out
}

// Flush is a no-op for CPU surfaces.
func (s *ImageSurface) Flush() error { return nil }

// Snapshot returns a copy of the surface contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Close releases the surface. The backing image is not modified.
func (s *ImageSurface) Close() error {
	s.closed = true
	return nil
}

func isWhole(v float64) bool {
	return v == float64(int(v))
}

// sample is one source pixel together with its effective coverage.
type sample struct {
	color    [4]byte
	coverage byte
}

// source produces per-pixel premultiplied colors for a paint.
type source struct {
	solid  [4]byte
	alpha  byte
	shader *Shader
	toBmp  compositor.Matrix
	mask   *Shader
	toMask compositor.Matrix
	interp interp.InterpolationMode
}

func newSource(total compositor.Matrix, p *Paint) *source {
	src := &source{alpha: p.Color.A, interp: interp.InterpNearest}
	if p.FilterBitmap {
		src.interp = interp.InterpBilinear
	}
	c := compositor.Premultiply(p.Color)
	src.solid = [4]byte{c.R, c.G, c.B, c.A}

	if p.Shader != nil && p.Shader.Image != nil {
		inv, ok := total.Multiply(p.Shader.LocalMatrix).Invert()
		if !ok {
			return nil
		}
		src.shader = p.Shader
		src.toBmp = inv
	}
	if p.Mask != nil && p.Mask.Image != nil {
		inv, ok := total.Multiply(p.Mask.LocalMatrix).Invert()
		if !ok {
			return nil
		}
		src.mask = p.Mask
		src.toMask = inv
	}
	return src
}

// at returns the source for device pixel (x, y) with coverage cov.
func (src *source) at(x, y int, cov byte) (sample, bool) {
	center := compositor.Pt(float64(x)+0.5, float64(y)+0.5)
	if src.mask != nil {
		mp := src.toMask.MapPoint(center)
		ma := interp.Sample(src.mask.Image, src.mask.subset(), mp.X, mp.Y, src.interp)[3]
		cov = byte(uint32(cov) * uint32(ma) / 255) //nolint:gosec // product of bytes over 255
		if cov == 0 {
			return sample{}, false
		}
	}
	if src.shader == nil {
		return sample{color: src.solid, coverage: cov}, true
	}
	bp := src.toBmp.MapPoint(center)
	px := interp.Sample(src.shader.Image, src.shader.subset(), bp.X, bp.Y, src.interp)
	return sample{color: blend.ScaleAlpha(px, src.alpha), coverage: cov}, true
}
