// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/filter"
	"github.com/gogpu/compositor/picture"
	"github.com/gogpu/compositor/quad"
	"github.com/gogpu/compositor/surface"
)

func TestSolidColorQuadReplaces(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	env.r.canvas.Clear(green)

	q := newQuad(image.Rect(0, 0, 10, 10), quad.SolidColorPayload{Color: red})
	env.r.DoDrawQuad(frame, &q)

	if env.r.paint.BlendMode != surface.BlendModeSource {
		t.Errorf("blend mode = %v, want Source", env.r.paint.BlendMode)
	}
	g := rgba(green)
	checkRect(t, env.pixels(), image.Rect(0, 0, 10, 10), rgba(red), &g)
}

func TestOpaqueQuadIgnoresDestination(t *testing.T) {
	translucent := color.NRGBA{B: 255, A: 128}
	backgrounds := []color.NRGBA{compositor.Transparent, green, {R: 10, G: 20, B: 30, A: 40}}
	for _, bg := range backgrounds {
		env := newTestEnv(t, compositor.DefaultSettings())
		frame := env.begin(t)
		env.r.canvas.Clear(bg)

		q := newQuad(image.Rect(2, 2, 8, 8), quad.SolidColorPayload{Color: translucent})
		if q.ShouldDrawWithBlending() {
			t.Fatal("quad unexpectedly blends")
		}
		env.r.DoDrawQuad(frame, &q)
		checkRect(t, env.pixels(), image.Rect(2, 2, 8, 8), rgba(translucent), nil)
	}
}

func TestBlendingQuad(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	env.r.canvas.Clear(compositor.White)

	q := newQuad(image.Rect(0, 0, 4, 4), quad.SolidColorPayload{Color: red})
	q.Opacity = 0.5
	env.r.DoDrawQuad(frame, &q)

	if env.r.paint.BlendMode != surface.BlendModeSourceOver {
		t.Errorf("blend mode = %v, want SourceOver", env.r.paint.BlendMode)
	}
	got := env.pixels().RGBAAt(1, 1)
	if got.R != 255 || got.A != 255 || got.G < 120 || got.G > 135 {
		t.Errorf("half red over white = %v", got)
	}
}

func TestMatrixResetAfterEveryQuad(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	bmp := env.bitmap(t, 4, 4, red)
	rec := picture.NewRecorder(compositor.RectF{W: 8, H: 8})
	rec.FillRect(compositor.RectF{W: 8, H: 8}, blue)
	pic := rec.FinishRecording()

	rotate := compositor.FromMatrix(compositor.Translate(8, 8).Multiply(compositor.Rotate(0.3)))
	payloads := []quad.Payload{
		quad.SolidColorPayload{Color: red},
		quad.CheckerboardPayload{Color: green},
		quad.DebugBorderPayload{Color: blue, Width: 1},
		quad.TexturePayload{Resource: bmp, PremultipliedAlpha: true, UVBottomRight: compositor.Pt(1, 1), Flipped: true},
		quad.TilePayload{Resource: bmp, TexCoordRect: compositor.RectF{W: 4, H: 4}},
		quad.PicturePayload{Picture: pic, TexCoordRect: compositor.RectF{W: 8, H: 8}, ContentRect: image.Rect(0, 0, 8, 8), ContentsScale: 1},
		quad.RenderPassPayload{PassID: quad.PassID{Layer: 9}},
		quad.UnsupportedPayload{Kind: "video"},
		nil,
	}
	transforms := []compositor.Transform{
		compositor.IdentityTransform(),
		compositor.TranslateTransform(3.5, 1.25),
		compositor.ScaleTransform(0.5, 2),
		rotate,
	}
	for _, p := range payloads {
		for _, tr := range transforms {
			q := newQuad(image.Rect(0, 0, 8, 8), p)
			q.Transform = tr
			env.r.DoDrawQuad(frame, &q)
			if m := env.r.canvas.Matrix(); !m.IsIdentity() {
				t.Fatalf("%v with %v left matrix %+v", q.Material(), tr, m)
			}
		}
	}
}

func TestAntiAliasPolicy(t *testing.T) {
	rotate := compositor.FromMatrix(compositor.Translate(8, 8).Multiply(compositor.Rotate(math.Pi / 6)))
	tests := []struct {
		name       string
		transform  compositor.Transform
		edges      quad.Edges
		wantAA     bool
		wantFilter bool
	}{
		{"integer translate", compositor.TranslateTransform(2, 3), quad.AllEdges, false, false},
		{"fractional translate", compositor.TranslateTransform(0.5, 0), quad.AllEdges, true, true},
		{"rotated exterior", rotate, quad.AllEdges, true, true},
		{"rotated interior edge", rotate, quad.EdgeTop | quad.EdgeLeft | quad.EdgeBottom, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, compositor.DefaultSettings())
			frame := env.begin(t)
			q := newQuad(image.Rect(0, 0, 4, 4), quad.SolidColorPayload{Color: red})
			q.Transform = tt.transform
			q.Edges = tt.edges
			env.r.DoDrawQuad(frame, &q)
			if env.r.paint.AntiAlias != tt.wantAA || env.r.paint.FilterBitmap != tt.wantFilter {
				t.Errorf("AntiAlias=%v FilterBitmap=%v, want %v %v",
					env.r.paint.AntiAlias, env.r.paint.FilterBitmap, tt.wantAA, tt.wantFilter)
			}
		})
	}
}

func TestDebugBorderQuad(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)

	q := newQuad(image.Rect(2, 2, 12, 12), quad.DebugBorderPayload{Color: red, Width: 2})
	env.r.DoDrawQuad(frame, &q)

	img := env.pixels()
	for _, pt := range []image.Point{{2, 6}, {11, 6}, {6, 2}, {6, 11}} {
		if got := img.RGBAAt(pt.X, pt.Y); got != rgba(red) {
			t.Errorf("edge pixel %v = %v, want red", pt, got)
		}
	}
	if got := img.RGBAAt(7, 7); got.A != 0 {
		t.Errorf("interior pixel = %v, want untouched", got)
	}
}

func TestUnsupportedQuad(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		opacity float64
		want    color.NRGBA
	}{
		{"release", false, 1, compositor.White},
		{"debug", true, 1, compositor.Magenta},
		{"translucent", false, 0.5, color.NRGBA{R: 255, G: 255, B: 255, A: 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, compositor.NewSettings(compositor.WithDebugColors(tt.debug)))
			frame := env.begin(t)
			q := newQuad(image.Rect(0, 0, 4, 4), quad.UnsupportedPayload{Kind: "video"})
			q.Opacity = tt.opacity
			env.r.DoDrawQuad(frame, &q)
			checkRect(t, env.pixels(), image.Rect(0, 0, 4, 4), rgba(tt.want), nil)
			if env.r.stats.Fallbacks != 1 {
				t.Errorf("Fallbacks = %d, want 1", env.r.stats.Fallbacks)
			}
		})
	}
}

func TestTextureQuad(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, rgba(red))
	src.SetRGBA(1, 0, rgba(green))
	src.SetRGBA(0, 1, rgba(blue))
	src.SetRGBA(1, 1, rgba(compositor.White))
	id, err := env.res.CreateBitmapFromImage(src)
	if err != nil {
		t.Fatal(err)
	}

	q := newQuad(image.Rect(0, 0, 2, 2), quad.TexturePayload{
		Resource:           id,
		PremultipliedAlpha: true,
		UVBottomRight:      compositor.Pt(1, 1),
	})
	env.r.DoDrawQuad(frame, &q)
	img := env.pixels()
	for _, pt := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		if got, want := img.RGBAAt(pt.X, pt.Y), src.RGBAAt(pt.X, pt.Y); got != want {
			t.Errorf("pixel %v = %v, want %v", pt, got, want)
		}
	}

	// Flipped and scaled into a 4x4 quad.
	q = newQuad(image.Rect(4, 4, 8, 8), quad.TexturePayload{
		Resource:           id,
		PremultipliedAlpha: true,
		UVBottomRight:      compositor.Pt(1, 1),
		Flipped:            true,
	})
	env.r.DoDrawQuad(frame, &q)
	img = env.pixels()
	if got := img.RGBAAt(4, 4); got != rgba(blue) {
		t.Errorf("flipped top-left = %v, want blue", got)
	}
	if got := img.RGBAAt(7, 7); got != rgba(green) {
		t.Errorf("flipped bottom-right = %v, want green", got)
	}

	// Locks are released.
	lock, err := env.res.AcquireWrite(id)
	if err != nil {
		t.Fatalf("AcquireWrite after draw = %v", err)
	}
	_ = lock.Release()
}

func TestTextureQuadUVSubrect(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			c := rgba(red)
			if x >= 2 {
				c = rgba(green)
			}
			src.SetRGBA(x, y, c)
		}
	}
	id, _ := env.res.CreateBitmapFromImage(src)

	q := newQuad(image.Rect(0, 0, 4, 4), quad.TexturePayload{
		Resource:           id,
		PremultipliedAlpha: true,
		UVTopLeft:          compositor.Pt(0.5, 0),
		UVBottomRight:      compositor.Pt(1, 1),
	})
	env.r.DoDrawQuad(frame, &q)
	checkRect(t, env.pixels(), image.Rect(0, 0, 4, 4), rgba(green), nil)
}

func TestTextureQuadStraightAlpha(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)

	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.Pix = []byte{255, 0, 0, 128}
	id, _ := env.res.CreateBitmapFromImage(src)

	q := newQuad(image.Rect(0, 0, 1, 1), quad.TexturePayload{Resource: id, UVBottomRight: compositor.Pt(1, 1)})
	env.r.DoDrawQuad(frame, &q)
	if got, want := env.pixels().RGBAAt(0, 0), (color.RGBA{R: 128, A: 128}); got != want {
		t.Errorf("straight alpha texel = %v, want %v", got, want)
	}
}

func TestTextureQuadBackground(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	id := env.bitmap(t, 2, 2, compositor.Transparent)

	q := newQuad(image.Rect(0, 0, 2, 2), quad.TexturePayload{
		Resource:           id,
		PremultipliedAlpha: true,
		UVBottomRight:      compositor.Pt(1, 1),
		Background:         blue,
	})
	env.r.DoDrawQuad(frame, &q)
	checkRect(t, env.pixels(), image.Rect(0, 0, 2, 2), rgba(blue), nil)
}

func TestGPUTextureFallsBackToUnsupported(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	id, err := env.res.ImportTexture(fakeTexture{w: 8, h: 8})
	if err != nil {
		t.Fatal(err)
	}

	q := newQuad(image.Rect(0, 0, 4, 4), quad.TexturePayload{Resource: id, UVBottomRight: compositor.Pt(1, 1)})
	env.r.DoDrawQuad(frame, &q)

	checkRect(t, env.pixels(), image.Rect(0, 0, 4, 4), rgba(compositor.White), nil)
	if env.r.stats.Fallbacks != 1 || env.r.stats.Skipped != 0 {
		t.Errorf("stats = %+v, want one fallback and no skips", env.r.stats)
	}
	// Nothing holds the texture.
	if err := env.res.Delete(id); err != nil {
		t.Errorf("Delete after fallback = %v", err)
	}
}

func TestGPUTileIsSkipped(t *testing.T) {
	var logs bytes.Buffer
	compositor.SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { compositor.SetLogger(nil) })

	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	id, err := env.res.ImportTexture(fakeTexture{w: 4, h: 4})
	if err != nil {
		t.Fatal(err)
	}

	q := newQuad(image.Rect(0, 0, 4, 4), quad.TilePayload{Resource: id, TexCoordRect: compositor.RectF{W: 4, H: 4}})
	env.r.DoDrawQuad(frame, &q)

	checkRect(t, env.pixels(), image.Rect(0, 0, 4, 4), color.RGBA{}, nil)
	if env.r.stats.Skipped != 1 || env.r.stats.Fallbacks != 0 {
		t.Errorf("stats = %+v, want one skip and no fallbacks", env.r.stats)
	}
	if !strings.Contains(logs.String(), ErrNotSoftwareResource.Error()) {
		t.Errorf("log does not name the reason:\n%s", logs.String())
	}
	if err := env.res.Delete(id); err != nil {
		t.Errorf("Delete after skip = %v", err)
	}
}

func TestQuadWithBusyResourceIsSkipped(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	id := env.bitmap(t, 4, 4, red)

	w, err := env.res.AcquireWrite(id)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release() //nolint:errcheck // no flush steps

	for _, p := range []quad.Payload{
		quad.TexturePayload{Resource: id, PremultipliedAlpha: true, UVBottomRight: compositor.Pt(1, 1)},
		quad.TilePayload{Resource: id, TexCoordRect: compositor.RectF{W: 4, H: 4}},
	} {
		q := newQuad(image.Rect(0, 0, 4, 4), p)
		env.r.DoDrawQuad(frame, &q)
	}
	checkRect(t, env.pixels(), image.Rect(0, 0, 4, 4), color.RGBA{}, nil)
	if env.r.stats.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", env.r.stats.Skipped)
	}
}

func TestTileQuad(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	id := env.bitmap(t, 8, 8, green)

	q := newQuad(image.Rect(0, 0, 4, 4), quad.TilePayload{Resource: id, TexCoordRect: compositor.RectF{X: 2, Y: 2, W: 4, H: 4}})
	env.r.DoDrawQuad(frame, &q)
	checkRect(t, env.pixels(), image.Rect(0, 0, 4, 4), rgba(green), nil)
	if !env.r.paint.FilterBitmap {
		t.Error("tiles must be drawn with bitmap filtering")
	}
}

func TestRenderPassQuadMissingPassIsNoop(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	env.r.canvas.Clear(green)
	before := env.pixels()

	q := newQuad(image.Rect(0, 0, 8, 8), quad.RenderPassPayload{PassID: quad.PassID{Layer: 1, Index: 2}})
	env.r.DoDrawQuad(frame, &q)

	after := env.pixels()
	if string(before.Pix) != string(after.Pix) {
		t.Error("missing pass changed pixels")
	}
	if env.r.stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", env.r.stats.Skipped)
	}
}

func TestRenderPassQuad(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	id := env.bitmap(t, 8, 8, red)
	pass := quad.PassID{Layer: 1}
	env.passes[pass] = id

	q := newQuad(image.Rect(4, 4, 12, 12), quad.RenderPassPayload{PassID: pass})
	env.r.DoDrawQuad(frame, &q)
	var none color.RGBA
	checkRect(t, env.pixels(), image.Rect(4, 4, 12, 12), rgba(red), &none)
}

func TestRenderPassQuadWithMask(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	content := env.bitmap(t, 8, 8, red)
	pass := quad.PassID{Layer: 1}
	env.passes[pass] = content

	// The mask is opaque on its left half only.
	maskImg := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 2 {
			maskImg.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	mask, _ := env.res.CreateBitmapFromImage(maskImg)

	q := newQuad(image.Rect(0, 0, 8, 8), quad.RenderPassPayload{
		PassID:       pass,
		MaskResource: mask,
		MaskUVRect:   compositor.RectF{W: 1, H: 1},
	})
	env.r.DoDrawQuad(frame, &q)

	img := env.pixels()
	checkRect(t, img.SubImage(image.Rect(0, 0, 4, 8)).(*image.RGBA), image.Rect(0, 0, 4, 8), rgba(red), nil)
	checkRect(t, img.SubImage(image.Rect(4, 0, 8, 8)).(*image.RGBA), image.Rect(4, 0, 8, 8), color.RGBA{}, nil)
}

func TestRenderPassQuadMaskSharesContent(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	id := env.bitmap(t, 4, 4, red)
	pass := quad.PassID{Layer: 1}
	env.passes[pass] = id

	q := newQuad(image.Rect(0, 0, 4, 4), quad.RenderPassPayload{
		PassID:       pass,
		MaskResource: id,
		MaskUVRect:   compositor.RectF{W: 1, H: 1},
	})
	env.r.DoDrawQuad(frame, &q)
	checkRect(t, env.pixels(), image.Rect(0, 0, 4, 4), rgba(red), nil)

	if err := env.res.Delete(id); err != nil {
		t.Errorf("read locks leaked: %v", err)
	}
}

func TestRenderPassQuadFilters(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	id := env.bitmap(t, 4, 4, color.NRGBA{G: 200, A: 255})
	pass := quad.PassID{Layer: 1}
	env.passes[pass] = id

	q := newQuad(image.Rect(0, 0, 4, 4), quad.RenderPassPayload{
		PassID:  pass,
		Filters: filter.Operations{{Kind: filter.Invert}},
	})
	env.r.DoDrawQuad(frame, &q)
	got := env.pixels().RGBAAt(1, 1)
	if got.R != 255 || got.B != 255 || got.G != 55 {
		t.Errorf("inverted pixel = %v, want (255,55,255)", got)
	}
}

func TestRenderPassQuadBackgroundFilters(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)
	env.r.canvas.Clear(color.NRGBA{R: 200, A: 255})

	content := env.bitmap(t, 4, 4, compositor.Transparent)
	pass := quad.PassID{Layer: 1}
	env.passes[pass] = content

	q := newQuad(image.Rect(0, 0, 4, 4), quad.RenderPassPayload{
		PassID:            pass,
		BackgroundFilters: filter.Operations{{Kind: filter.Invert}},
	})
	q.NeedsBlending = true
	env.r.DoDrawQuad(frame, &q)

	img := env.pixels()
	if got := img.RGBAAt(1, 1); got != (color.RGBA{R: 55, G: 255, B: 255, A: 255}) {
		t.Errorf("filtered background = %v, want inverted", got)
	}
	if got := img.RGBAAt(8, 8); got != (color.RGBA{R: 200, A: 255}) {
		t.Errorf("pixel outside quad = %v, want untouched", got)
	}
}

func TestPictureQuad(t *testing.T) {
	rec := picture.NewRecorder(compositor.RectF{W: 8, H: 8})
	rec.FillRect(compositor.RectF{W: 8, H: 8}, blue)
	rec.FillRect(compositor.RectF{W: 4, H: 8}, red)
	pic := rec.FinishRecording()

	for _, blending := range []bool{false, true} {
		env := newTestEnv(t, compositor.DefaultSettings())
		frame := env.begin(t)

		q := newQuad(image.Rect(0, 0, 8, 8), quad.PicturePayload{
			Picture:       pic,
			TexCoordRect:  compositor.RectF{W: 8, H: 8},
			TextureSize:   image.Pt(8, 8),
			ContentRect:   image.Rect(0, 0, 8, 8),
			ContentsScale: 1,
		})
		q.NeedsBlending = blending
		env.r.DoDrawQuad(frame, &q)

		img := env.pixels()
		if got := img.RGBAAt(1, 1); got != rgba(red) {
			t.Errorf("blending=%v left pixel = %v, want red", blending, got)
		}
		if got := img.RGBAAt(6, 6); got != rgba(blue) {
			t.Errorf("blending=%v right pixel = %v, want blue", blending, got)
		}
		if got := img.RGBAAt(9, 9); got.A != 0 {
			t.Errorf("blending=%v pixel outside quad = %v", blending, got)
		}
	}
}

func TestPictureQuadContentRect(t *testing.T) {
	rec := picture.NewRecorder(compositor.RectF{W: 8, H: 8})
	rec.FillRect(compositor.RectF{X: 4, W: 4, H: 8}, green)
	pic := rec.FinishRecording()

	env := newTestEnv(t, compositor.DefaultSettings())
	frame := env.begin(t)

	// The quad shows the right half of the content at twice its scale.
	q := newQuad(image.Rect(0, 0, 8, 8), quad.PicturePayload{
		Picture:       pic,
		TexCoordRect:  compositor.RectF{W: 8, H: 8},
		TextureSize:   image.Pt(8, 8),
		ContentRect:   image.Rect(8, 0, 16, 8),
		ContentsScale: 2,
	})
	env.r.DoDrawQuad(frame, &q)
	checkRect(t, env.pixels(), image.Rect(0, 0, 8, 8), rgba(green), nil)
}

func TestDoDrawQuadWithoutFramebuffer(t *testing.T) {
	env := newTestEnv(t, compositor.DefaultSettings())
	q := newQuad(image.Rect(0, 0, 4, 4), quad.SolidColorPayload{Color: red})
	env.r.DoDrawQuad(&DrawingFrame{}, &q)
	env.r.DoDrawQuad(nil, &q)
}
