// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package picture

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/surface"
)

var red = color.NRGBA{R: 255, A: 255}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		cmd  CommandType
		want string
	}{
		{CmdSave, "Save"},
		{CmdFillRect, "FillRect"},
		{CmdDrawImage, "DrawImage"},
		{CommandType(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestRecorderBalancesSaves(t *testing.T) {
	rec := NewRecorder(compositor.RectF{W: 10, H: 10})
	rec.Restore()
	rec.Save()
	rec.Save()
	rec.FillRect(compositor.RectF{W: 1, H: 1}, red)
	pic := rec.FinishRecording()

	want := []CommandType{CmdSave, CmdSave, CmdFillRect, CmdRestore, CmdRestore}
	if pic.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", pic.Len(), len(want))
	}
	for i, cmd := range pic.Commands() {
		if cmd.Type() != want[i] {
			t.Errorf("command %d = %v, want %v", i, cmd.Type(), want[i])
		}
	}
	if pic.Bounds() != (compositor.RectF{W: 10, H: 10}) {
		t.Errorf("Bounds() = %+v", pic.Bounds())
	}

	// The recorder starts fresh.
	if next := rec.FinishRecording(); next.Len() != 0 {
		t.Errorf("second recording has %d commands", next.Len())
	}
}

func TestPlaybackFillRect(t *testing.T) {
	rec := NewRecorder(compositor.RectF{W: 8, H: 8})
	rec.FillRect(compositor.RectF{X: 2, Y: 2, W: 4, H: 4}, red)
	pic := rec.FinishRecording()

	s := surface.NewImageSurface(8, 8)
	pic.Playback(s)

	img := s.Image()
	if got := img.RGBAAt(3, 3); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside = %v", got)
	}
	if alphaAt(img, 7, 7) != 0 {
		t.Error("outside was drawn")
	}
}

func TestPlaybackUsesSurfaceMatrixAndRestoresState(t *testing.T) {
	rec := NewRecorder(compositor.RectF{W: 4, H: 4})
	rec.Save()
	rec.Concat(compositor.Translate(1, 0))
	rec.ClipRect(compositor.RectF{W: 2, H: 4})
	rec.DrawColor(red)
	pic := rec.FinishRecording()

	s := surface.NewImageSurface(10, 10)
	s.SetMatrix(compositor.Translate(4, 4))
	pic.Playback(s)

	if m := s.Matrix(); m != compositor.Translate(4, 4) {
		t.Errorf("matrix after Playback = %+v", m)
	}
	if s.ClipBounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("clip after Playback = %v", s.ClipBounds())
	}

	img := s.Image()
	// Clip is (1,0)-(3,4) in picture space, offset by (4,4).
	if alphaAt(img, 5, 5) != 255 || alphaAt(img, 6, 7) != 255 {
		t.Error("clip area not filled")
	}
	if alphaAt(img, 4, 5) != 0 || alphaAt(img, 7, 5) != 0 || alphaAt(img, 5, 3) != 0 {
		t.Error("fill escaped the clip")
	}
}

func TestPlaybackStrokeAndImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{B: 255, A: 255})

	rec := NewRecorder(compositor.RectF{W: 20, H: 20})
	rec.DrawImage(src, compositor.RectF{X: 10, Y: 10, W: 4, H: 4})
	rec.StrokePolygon([]compositor.Point{{X: 2, Y: 2}, {X: 8, Y: 2}, {X: 8, Y: 8}, {X: 2, Y: 8}}, red, 2)
	pic := rec.FinishRecording()

	// Mutating the source after recording does not affect the picture.
	src.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})

	s := surface.NewImageSurface(20, 20)
	pic.Playback(s)
	img := s.Image()
	if got := img.RGBAAt(12, 12); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("image pixel = %v, want blue", got)
	}
	if got := img.RGBAAt(5, 2); got.R != 255 {
		t.Errorf("stroke pixel = %v, want red", got)
	}
	if alphaAt(img, 5, 5) != 0 {
		t.Error("stroke filled the interior")
	}
}

func TestPlaybackNilPicture(t *testing.T) {
	var pic *Picture
	s := surface.NewImageSurface(2, 2)
	pic.Playback(s)
}
