// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
)

// TexturePresenter mirrors swapped frames into a texture.
//
// When partial updates are enabled and the texture implements
// gpucontext.TextureRegionUpdater only the damage rect is uploaded.
type TexturePresenter struct {
	tex     gpucontext.TextureUpdater
	partial bool
}

var _ Presenter = (*TexturePresenter)(nil)

// NewTexturePresenter creates a presenter uploading into tex.
func NewTexturePresenter(tex gpucontext.TextureUpdater, partial bool) *TexturePresenter {
	return &TexturePresenter{tex: tex, partial: partial}
}

// Present uploads frame.
func (p *TexturePresenter) Present(frame *CompositorFrame) error {
	if frame == nil || frame.Software == nil || frame.Software.Pixels == nil {
		return ErrNoPendingFrame
	}
	data := frame.Software
	if t, ok := p.tex.(gpucontext.Texture); ok {
		if t.Width() != data.Size.X || t.Height() != data.Size.Y {
			return fmt.Errorf("output: texture is %dx%d, frame is %dx%d", t.Width(), t.Height(), data.Size.X, data.Size.Y)
		}
	}

	full := data.Pixels.Bounds()
	damage := data.DamageRect.Intersect(full)
	if ru, ok := p.tex.(gpucontext.TextureRegionUpdater); ok && p.partial && damage != full {
		if damage.Empty() {
			return nil
		}
		return ru.UpdateRegion(damage.Min.X, damage.Min.Y, damage.Dx(), damage.Dy(), packRows(data.Pixels, damage))
	}
	return p.tex.UpdateData(packRows(data.Pixels, full))
}

// packRows returns r's pixels as densely packed rows.
func packRows(img *image.RGBA, r image.Rectangle) []byte {
	rowBytes := r.Dx() * 4
	if r == img.Bounds() && img.Stride == rowBytes {
		return img.Pix[:rowBytes*r.Dy()]
	}
	out := make([]byte, 0, rowBytes*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		out = append(out, img.Pix[i:i+rowBytes]...)
	}
	return out
}
