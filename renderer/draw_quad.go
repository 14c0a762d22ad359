// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/quad"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

// DoDrawQuad draws q into the bound framebuffer.
//
// The canvas matrix maps the unit quad rect onto the device for the
// duration of the call and is reset to identity before DoDrawQuad
// returns. Failures are logged and never abort the frame.
func (r *SoftwareRenderer) DoDrawQuad(frame *DrawingFrame, q *quad.Quad) {
	if r.canvas == nil || frame == nil || q == nil {
		return
	}
	m := compositor.ComposeDrawTransform(frame.WindowMatrix, frame.ProjectionMatrix, q.Transform, q.Rect)
	r.canvas.SetMatrix(m)
	defer r.canvas.ResetMatrix()

	p := &r.paint
	p.Reset()
	if !m.IsScaleAndIntegerTranslate() {
		// Interior edges would show seams between adjacent quads.
		p.AntiAlias = q.Edges.AllExterior()
		p.FilterBitmap = true
	}
	if q.ShouldDrawWithBlending() {
		p.SetAlpha(compositor.OpacityToAlpha(q.Opacity))
		p.BlendMode = surface.BlendModeSourceOver
	} else {
		p.BlendMode = surface.BlendModeSource
	}

	var err error
	switch pl := q.Payload.(type) {
	case quad.CheckerboardPayload:
		r.drawSolid(q, pl.Color)
	case quad.DebugBorderPayload:
		r.drawDebugBorder(q, pl)
	case quad.PicturePayload:
		r.drawPicture(q, pl)
	case quad.RenderPassPayload:
		err = r.drawRenderPass(q, pl)
	case quad.SolidColorPayload:
		if pl.ForceAntiAliasingOff {
			p.AntiAlias = false
		}
		r.drawSolid(q, pl.Color)
	case quad.TexturePayload:
		err = r.drawTexture(q, pl)
	case quad.TilePayload:
		err = r.drawTile(pl)
	case quad.UnsupportedPayload:
		r.drawUnsupported(q)
		err = fmt.Errorf("%w: %s", ErrUnsupportedMaterial, pl.Kind)
	default:
		r.drawUnsupported(q)
		err = fmt.Errorf("%w: %v", ErrUnsupportedMaterial, q.Material())
	}
	if err == nil || errors.Is(err, ErrUnsupportedMaterial) {
		r.stats.Quads++
	} else {
		r.stats.Skipped++
	}
	if err != nil {
		compositor.Logger().Debug("renderer: quad not drawn normally",
			"material", q.Material(), "rect", q.Rect, "err", err)
	}
}

func unitRect() compositor.RectF { return compositor.QuadVertexRect() }

func (r *SoftwareRenderer) drawSolid(q *quad.Quad, c color.NRGBA) {
	r.paint.Color = compositor.ModulateAlpha(c, q.Opacity)
	r.canvas.DrawRect(unitRect(), &r.paint)
}

// drawDebugBorder strokes the quad outline. The corners are mapped before
// the matrix is reset so the stroke width stays in device pixels.
func (r *SoftwareRenderer) drawDebugBorder(q *quad.Quad, pl quad.DebugBorderPayload) {
	corners := unitRect().Corners()
	m := r.canvas.Matrix()
	for i := range corners {
		corners[i] = m.MapPoint(corners[i])
	}
	r.canvas.ResetMatrix()

	r.paint.Color = compositor.ModulateAlpha(pl.Color, q.Opacity)
	r.paint.StrokeWidth = pl.Width
	r.canvas.StrokePolygon(corners[:], &r.paint)
}

func (r *SoftwareRenderer) drawPicture(q *quad.Quad, pl quad.PicturePayload) {
	if pl.Picture == nil {
		return
	}
	r.canvas.Concat(compositor.RectToRect(pl.TexCoordRect, unitRect()))

	scale := pl.ContentsScale
	if scale <= 0 {
		scale = 1
	}
	content := compositor.Translate(-float64(pl.ContentRect.Min.X), -float64(pl.ContentRect.Min.Y)).
		Multiply(compositor.Scale(scale, scale))

	if !q.ShouldDrawWithBlending() {
		r.canvas.Save()
		r.canvas.ClipRect(compositor.RectF{W: float64(pl.ContentRect.Dx()), H: float64(pl.ContentRect.Dy())}, surface.ClipIntersect)
		r.canvas.Concat(content)
		pl.Picture.Playback(r.canvas)
		r.canvas.Restore()
		return
	}

	size := pl.TextureSize
	if size.X <= 0 || size.Y <= 0 {
		size = pl.ContentRect.Size()
	}
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	tmp := r.pool.Get(size.X, size.Y)
	defer r.pool.Put(tmp)

	ts := surface.NewImageSurfaceFromImage(tmp)
	ts.Concat(content)
	pl.Picture.Playback(ts)

	bounds := compositor.RectFromImage(tmp.Bounds())
	r.paint.FilterBitmap = true
	r.canvas.DrawImageRect(tmp, bounds, bounds, &r.paint)
}

// drawTexture blits the UV rect of a bitmap. GPU textures cannot be
// sampled on the CPU and take the fallback path without being locked.
func (r *SoftwareRenderer) drawTexture(q *quad.Quad, pl quad.TexturePayload) error {
	kind, err := r.res.Kind(pl.Resource)
	if err != nil {
		return err
	}
	if kind != resource.KindBitmap {
		r.drawUnsupported(q)
		return fmt.Errorf("%w: texture %d is %s", ErrUnsupportedMaterial, pl.Resource, kind)
	}

	lock, err := r.res.AcquireRead(pl.Resource)
	if err != nil {
		return err
	}
	defer lock.Release()

	bmp := lock.Bitmap()
	if !pl.PremultipliedAlpha {
		bmp = r.premultiplied(bmp)
		defer r.pool.Put(bmp)
	}
	b := bmp.Bounds()
	uv := pl.UVRect().Scale(float64(b.Dx()), float64(b.Dy()))
	uv.X += float64(b.Min.X)
	uv.Y += float64(b.Min.Y)

	if pl.Background.A > 0 {
		bg := r.paint
		bg.Color = compositor.ModulateAlpha(pl.Background, q.Opacity)
		r.canvas.DrawRect(unitRect(), &bg)
		r.paint.BlendMode = surface.BlendModeSourceOver
	}
	if pl.Flipped {
		r.canvas.Concat(compositor.Scale(1, -1))
	}
	r.canvas.DrawImageRect(bmp, uv, unitRect(), &r.paint)
	return nil
}

// premultiplied returns a pooled premultiplied copy of a straight-alpha
// bitmap.
func (r *SoftwareRenderer) premultiplied(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := r.pool.Get(b.Dx(), b.Dy())
	for y := range b.Dy() {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := dst.PixOffset(0, y)
		for x := 0; x < b.Dx()*4; x += 4 {
			a := uint32(src.Pix[si+x+3])
			dst.Pix[di+x+0] = uint8((uint32(src.Pix[si+x+0])*a + 127) / 255) //nolint:gosec // result <= 255
			dst.Pix[di+x+1] = uint8((uint32(src.Pix[si+x+1])*a + 127) / 255) //nolint:gosec // result <= 255
			dst.Pix[di+x+2] = uint8((uint32(src.Pix[si+x+2])*a + 127) / 255) //nolint:gosec // result <= 255
			dst.Pix[di+x+3] = uint8(a)                                        //nolint:gosec // a is a byte
		}
	}
	return dst
}

// drawTile draws the tile's texel rect. Tiles are always rasterized into
// bitmaps, so a GPU texture here is a producer error and the quad is
// skipped.
func (r *SoftwareRenderer) drawTile(pl quad.TilePayload) error {
	kind, err := r.res.Kind(pl.Resource)
	if err != nil {
		return err
	}
	if kind != resource.KindBitmap {
		return fmt.Errorf("%w: tile %d is %s", ErrNotSoftwareResource, pl.Resource, kind)
	}

	lock, err := r.res.AcquireRead(pl.Resource)
	if err != nil {
		return err
	}
	defer lock.Release()

	r.paint.FilterBitmap = true
	r.canvas.DrawImageRect(lock.Bitmap(), pl.TexCoordRect, unitRect(), &r.paint)
	return nil
}

// drawRenderPass fills the quad with the output of another pass, sampled
// through a clamping shader and optionally masked and filtered.
func (r *SoftwareRenderer) drawRenderPass(q *quad.Quad, pl quad.RenderPassPayload) error {
	var id resource.ID
	ok := false
	if r.passes != nil {
		id, ok = r.passes.Lookup(pl.PassID)
	}
	if !ok {
		return fmt.Errorf("%w: pass %v", ErrMissingRenderPassOutput, pl.PassID)
	}

	lock, err := r.res.AcquireRead(id)
	if err != nil {
		return err
	}
	defer lock.Release()

	content := compositor.RectF{W: float64(q.Rect.Dx()), H: float64(q.Rect.Dy())}
	r.paint.Shader = &surface.Shader{
		Image:       lock.Bitmap(),
		LocalMatrix: compositor.RectToRect(content, unitRect()),
	}
	if !pl.Filters.IsEmpty() {
		r.paint.ImageFilter = pl.Filters
	}

	if pl.HasMask() {
		maskLock, err := r.res.AcquireRead(pl.MaskResource)
		if err != nil {
			return fmt.Errorf("mask: %w", err)
		}
		defer maskLock.Release()

		mask := maskLock.Bitmap()
		w, h := float64(mask.Bounds().Dx()), float64(mask.Bounds().Dy())
		maskRect := compositor.RectF{
			X: float64(mask.Bounds().Min.X) + pl.MaskUVRect.X*w,
			Y: float64(mask.Bounds().Min.Y) + pl.MaskUVRect.Y*h,
			W: pl.MaskUVRect.W * w,
			H: pl.MaskUVRect.H * h,
		}
		r.paint.Mask = &surface.Shader{
			Image:       mask,
			LocalMatrix: compositor.RectToRect(maskRect, unitRect()),
		}
	}

	if !pl.BackgroundFilters.IsEmpty() {
		r.filterBackground(pl)
	}
	r.canvas.DrawRect(unitRect(), &r.paint)
	return nil
}

// filterBackground filters the pixels under the quad's device bounds in
// place.
func (r *SoftwareRenderer) filterBackground(pl quad.RenderPassPayload) {
	bounds := r.canvas.Matrix().MapRect(unitRect()).ToEnclosingRect().Intersect(r.canvas.ClipBounds())
	if bounds.Empty() {
		return
	}
	filtered := pl.BackgroundFilters.Apply(r.canvas.ReadPixels(bounds))

	m := r.canvas.Matrix()
	r.canvas.ResetMatrix()
	r.canvas.DrawImageRect(filtered,
		compositor.RectFromImage(filtered.Bounds()),
		compositor.RectFromImage(bounds),
		&surface.Paint{Color: compositor.White, BlendMode: surface.BlendModeSource})
	r.canvas.SetMatrix(m)
}

// drawUnsupported fills the quad with the fail-visible fallback color.
func (r *SoftwareRenderer) drawUnsupported(q *quad.Quad) {
	c := compositor.White
	if r.settings.DebugColors {
		c = compositor.Magenta
	}
	c.A = compositor.OpacityToAlpha(q.Opacity)
	r.paint.Color = c
	r.stats.Fallbacks++
	r.canvas.DrawRect(unitRect(), &r.paint)
}
