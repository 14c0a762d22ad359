// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package picture

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/surface"
)

// Recorder captures drawing operations as commands.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	bounds   compositor.RectF
	commands []Command
	depth    int
}

// NewRecorder creates a Recorder for content covering bounds.
func NewRecorder(bounds compositor.RectF) *Recorder {
	return &Recorder{bounds: bounds, commands: make([]Command, 0, 16)}
}

// Save records a save.
func (r *Recorder) Save() {
	r.depth++
	r.commands = append(r.commands, SaveCommand{})
}

// Restore records a restore. Unbalanced calls are dropped.
func (r *Recorder) Restore() {
	if r.depth == 0 {
		return
	}
	r.depth--
	r.commands = append(r.commands, RestoreCommand{})
}

// Concat records a matrix concatenation.
func (r *Recorder) Concat(m compositor.Matrix) {
	r.commands = append(r.commands, ConcatCommand{Matrix: m})
}

// ClipRect records a clip.
func (r *Recorder) ClipRect(rect compositor.RectF) {
	r.commands = append(r.commands, ClipRectCommand{Rect: rect})
}

// DrawColor records a clip fill.
func (r *Recorder) DrawColor(c color.NRGBA) {
	r.commands = append(r.commands, DrawColorCommand{Color: c})
}

// FillRect records an antialiased rectangle fill.
func (r *Recorder) FillRect(rect compositor.RectF, c color.NRGBA) {
	r.commands = append(r.commands, FillRectCommand{Rect: rect, Color: c, AntiAlias: true})
}

// StrokePolygon records a closed polygon outline.
func (r *Recorder) StrokePolygon(pts []compositor.Point, c color.NRGBA, width float64) {
	r.commands = append(r.commands, StrokePolygonCommand{
		Points: append([]compositor.Point(nil), pts...),
		Color:  c,
		Width:  width,
	})
}

// DrawImage records img drawn into dst. The image is copied.
func (r *Recorder) DrawImage(img image.Image, dst compositor.RectF) {
	b := img.Bounds()
	cp := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(cp, cp.Bounds(), img, b.Min, draw.Src)
	r.commands = append(r.commands, DrawImageCommand{Image: cp, Dst: dst})
}

// FinishRecording closes outstanding saves and returns the Picture. The
// Recorder is reset.
func (r *Recorder) FinishRecording() *Picture {
	for ; r.depth > 0; r.depth-- {
		r.commands = append(r.commands, RestoreCommand{})
	}
	p := &Picture{bounds: r.bounds, commands: r.commands}
	r.commands = make([]Command, 0, 16)
	return p
}

// Picture is an immutable command list.
type Picture struct {
	bounds   compositor.RectF
	commands []Command
}

// Bounds returns the content area the picture was recorded for.
func (p *Picture) Bounds() compositor.RectF { return p.bounds }

// Commands returns the recorded commands.
func (p *Picture) Commands() []Command { return p.commands }

// Len returns the number of commands.
func (p *Picture) Len() int { return len(p.commands) }

// Playback draws the picture onto s using its current matrix and clip as
// the base state. The surface state is restored afterwards.
func (p *Picture) Playback(s surface.Surface) {
	if p == nil {
		return
	}
	s.Save()
	defer s.Restore()

	paint := surface.NewPaint()
	for _, cmd := range p.commands {
		paint.Reset()
		switch c := cmd.(type) {
		case SaveCommand:
			s.Save()
		case RestoreCommand:
			s.Restore()
		case ConcatCommand:
			s.Concat(c.Matrix)
		case ClipRectCommand:
			s.ClipRect(c.Rect, surface.ClipIntersect)
		case DrawColorCommand:
			s.DrawColor(c.Color, surface.BlendModeSourceOver)
		case FillRectCommand:
			paint.Color = c.Color
			paint.AntiAlias = c.AntiAlias
			s.DrawRect(c.Rect, paint)
		case StrokePolygonCommand:
			paint.Color = c.Color
			paint.StrokeWidth = c.Width
			paint.AntiAlias = true
			s.StrokePolygon(c.Points, paint)
		case DrawImageCommand:
			paint.FilterBitmap = true
			s.DrawImageRect(c.Image, compositor.RectFromImage(c.Image.Bounds()), c.Dst, paint)
		}
	}
}
