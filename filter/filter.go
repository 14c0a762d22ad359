// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package filter implements the image filters a render pass quad may
// apply to its content before it is composited.
//
// Filters run on premultiplied *image.RGBA layers. Color adjustments are
// evaluated on unpremultiplied colors; blurs run on premultiplied pixels
// so that transparent neighbors do not bleed black into the result.
package filter

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Kind identifies a filter operation.
type Kind uint8

const (
	// Blur is a Gaussian blur with Amount as the radius in pixels.
	Blur Kind = iota

	// BoxBlur averages pixels within Amount pixels.
	BoxBlur

	// Brightness scales color channels by 1+Amount (Amount in [-1, 1]).
	Brightness

	// Contrast adjusts contrast by Amount in [-1, 1].
	Contrast

	// Saturate adjusts saturation by Amount in [-1, 1].
	Saturate

	// HueRotate rotates hue by Amount degrees.
	HueRotate

	// Gamma applies gamma correction with Amount > 0.
	Gamma

	// Grayscale removes color. Amount is ignored.
	Grayscale

	// Sepia tones the image. Amount is ignored.
	Sepia

	// Invert inverts colors. Amount is ignored.
	Invert

	// Opacity multiplies alpha by Amount in [0, 1].
	Opacity
)

var kindNames = [...]string{
	Blur:       "blur",
	BoxBlur:    "box-blur",
	Brightness: "brightness",
	Contrast:   "contrast",
	Saturate:   "saturate",
	HueRotate:  "hue-rotate",
	Gamma:      "gamma",
	Grayscale:  "grayscale",
	Sepia:      "sepia",
	Invert:     "invert",
	Opacity:    "opacity",
}

// String returns the filter name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("filter: unknown kind %q", s)
}

// Op is a single filter operation.
type Op struct {
	Kind   Kind
	Amount float64
}

// Operations is an ordered filter chain. It implements
// surface.ImageFilter.
type Operations []Op

// IsEmpty reports whether the chain does nothing.
func (ops Operations) IsEmpty() bool { return len(ops) == 0 }

// Outset returns how far the chain may spread content, in pixels.
func (ops Operations) Outset() int {
	outset := 0
	for _, op := range ops {
		if op.Kind == Blur || op.Kind == BoxBlur {
			outset += int(math.Ceil(max(op.Amount, 0)))
		}
	}
	return outset
}

// String formats the chain like "blur(2) grayscale".
func (ops Operations) String() string {
	var b strings.Builder
	for i, op := range ops {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch op.Kind {
		case Grayscale, Sepia, Invert:
			b.WriteString(op.Kind.String())
		default:
			fmt.Fprintf(&b, "%s(%g)", op.Kind, op.Amount)
		}
	}
	return b.String()
}

// Apply runs the chain over src and returns a new image with the same
// bounds. src is not modified.
func (ops Operations) Apply(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	img := rebase(src)
	for _, op := range ops {
		img = op.apply(img)
	}
	return &image.RGBA{Pix: img.Pix, Stride: img.Stride, Rect: bounds}
}

// apply runs op on an origin-based premultiplied image.
func (op Op) apply(img *image.RGBA) *image.RGBA {
	switch op.Kind {
	case Blur:
		return blur.Gaussian(img, op.Amount)
	case BoxBlur:
		return blur.Box(img, op.Amount)
	case Opacity:
		return scaleAlpha(img, op.Amount)
	}

	straight := unpremultiply(img)
	switch op.Kind {
	case Brightness:
		straight = adjust.Brightness(straight, op.Amount)
	case Contrast:
		straight = adjust.Contrast(straight, op.Amount)
	case Saturate:
		straight = adjust.Saturation(straight, op.Amount)
	case HueRotate:
		straight = adjust.Hue(straight, int(math.Round(op.Amount)))
	case Gamma:
		straight = adjust.Gamma(straight, op.Amount)
	case Grayscale:
		straight = effect.Grayscale(straight)
	case Sepia:
		straight = effect.Sepia(straight)
	case Invert:
		straight = effect.Invert(straight)
	default:
		return img
	}
	return premultiply(straight)
}
