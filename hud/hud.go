// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package hud renders the heads-up statistics panel the renderer draws in
// the corner of the root pass when Settings.ShowHUD is enabled.
//
// The panel uses the fixed 7x13 bitmap face from x/image, so it needs no
// font files and renders identically everywhere.
package hud

import (
	"image"
	"image/color"
	"image/draw"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats are the per-frame counters shown on the panel.
type Stats struct {
	Frame     uint64
	Passes    int
	Quads     int
	Skipped   int
	Fallbacks int
	Damage    image.Rectangle
	Elapsed   time.Duration
}

// HUD renders Stats into a small premultiplied panel.
type HUD struct {
	printer *message.Printer
	face    font.Face
	fg      color.NRGBA
	bg      color.NRGBA
	padding int
}

// Option configures a HUD.
type Option func(*HUD)

// WithLanguage formats numbers for tag.
func WithLanguage(tag language.Tag) Option {
	return func(h *HUD) {
		h.printer = message.NewPrinter(tag)
	}
}

// WithColors sets the text and background colors.
func WithColors(fg, bg color.NRGBA) Option {
	return func(h *HUD) {
		h.fg, h.bg = fg, bg
	}
}

// New creates a HUD with white text on a translucent black panel.
func New(opts ...Option) *HUD {
	h := &HUD{
		printer: message.NewPrinter(language.English),
		face:    basicfont.Face7x13,
		fg:      color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		bg:      color.NRGBA{A: 160},
		padding: 4,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Lines returns the panel text for s, one entry per row.
func (h *HUD) Lines(s Stats) []string {
	lines := []string{
		h.printer.Sprintf("frame %d", s.Frame),
		h.printer.Sprintf("passes %d  quads %d", s.Passes, s.Quads),
	}
	if s.Skipped > 0 || s.Fallbacks > 0 {
		lines = append(lines, h.printer.Sprintf("skipped %d  fallback %d", s.Skipped, s.Fallbacks))
	}
	if !s.Damage.Empty() {
		lines = append(lines, h.printer.Sprintf("damage %dx%d", s.Damage.Dx(), s.Damage.Dy()))
	}
	if s.Elapsed > 0 {
		lines = append(lines, h.printer.Sprintf("%.2f ms", float64(s.Elapsed.Microseconds())/1000))
	}
	return lines
}

// Render draws the panel for s into a new image with origin bounds.
func (h *HUD) Render(s Stats) *image.RGBA {
	lines := h.Lines(s)
	metrics := h.face.Metrics()
	lineHeight := metrics.Height.Ceil()

	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(h.face, l).Ceil())
	}
	size := image.Pt(width+2*h.padding, len(lines)*lineHeight+2*h.padding)
	panel := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(panel, panel.Bounds(), image.NewUniform(h.bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  panel,
		Src:  image.NewUniform(h.fg),
		Face: h.face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(h.padding, h.padding+i*lineHeight+metrics.Ascent.Ceil())
		d.DrawString(l)
	}
	return panel
}
