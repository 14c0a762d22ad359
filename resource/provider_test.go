// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/compositor"
	"github.com/gogpu/gputypes"
)

type fakeTexture struct{ w, h int }

func (t fakeTexture) Width() int  { return t.w }
func (t fakeTexture) Height() int { return t.h }

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBitmap, "Bitmap"},
		{KindGPUTexture, "GPUTexture"},
		{Kind(9), "Kind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNewProviderDefaults(t *testing.T) {
	p := NewProvider()
	if p.MaxTextureSize() != compositor.DefaultMaxTextureSize {
		t.Errorf("MaxTextureSize() = %d", p.MaxTextureSize())
	}
	if p.BestTextureFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("BestTextureFormat() = %v", p.BestTextureFormat())
	}
	if !p.AllowPartialTextureUpdates() {
		t.Error("AllowPartialTextureUpdates() = false, want true by default")
	}
}

func TestNewProviderOptions(t *testing.T) {
	s := compositor.NewSettings(
		compositor.WithMaxTextureSize(64),
		compositor.WithPartialTextureUpdates(false),
		compositor.WithTextureFormat(gputypes.TextureFormatBGRA8Unorm),
	)
	p := NewProvider(WithSettings(s))
	if p.MaxTextureSize() != 64 || p.AllowPartialTextureUpdates() || p.BestTextureFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("settings not applied: max=%d partial=%t format=%v",
			p.MaxTextureSize(), p.AllowPartialTextureUpdates(), p.BestTextureFormat())
	}

	p = NewProvider(WithMaxTextureSize(0))
	if p.MaxTextureSize() != compositor.DefaultMaxTextureSize {
		t.Errorf("zero max size not defaulted: %d", p.MaxTextureSize())
	}
}

func TestCreateBitmap(t *testing.T) {
	p := NewProvider(WithMaxTextureSize(16))
	tests := []struct {
		name    string
		w, h    int
		wantErr error
	}{
		{"valid", 8, 4, nil},
		{"max size", 16, 16, nil},
		{"zero width", 0, 4, ErrInvalidSize},
		{"too tall", 4, 17, ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := p.CreateBitmap(tt.w, tt.h)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateBitmap() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if id == 0 {
				t.Fatal("CreateBitmap() returned zero ID")
			}
			kind, _ := p.Kind(id)
			size, _ := p.Size(id)
			if kind != KindBitmap || size != image.Pt(tt.w, tt.h) {
				t.Errorf("kind=%v size=%v", kind, size)
			}
		})
	}
}

func TestCreateBitmapFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{R: 255, A: 128})

	p := NewProvider()
	id, err := p.CreateBitmapFromImage(src)
	if err != nil {
		t.Fatal(err)
	}
	lock, err := p.AcquireRead(id)
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	bmp := lock.Bitmap()
	if bmp.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Errorf("bounds = %v, want origin-based", bmp.Bounds())
	}
	if got := bmp.RGBAAt(0, 0); got.R != 128 || got.A != 128 {
		t.Errorf("pixel = %v, want premultiplied red", got)
	}
}

func TestImportTexture(t *testing.T) {
	p := NewProvider()
	id, err := p.ImportTexture(fakeTexture{w: 32, h: 16})
	if err != nil {
		t.Fatal(err)
	}
	if kind, _ := p.Kind(id); kind != KindGPUTexture {
		t.Errorf("Kind() = %v, want GPUTexture", kind)
	}
	if _, err := p.ImportTexture(nil); err == nil {
		t.Error("ImportTexture(nil) succeeded")
	}
}

func TestIDsAreUnique(t *testing.T) {
	p := NewProvider()
	seen := make(map[ID]bool)
	for range 10 {
		id, err := p.CreateBitmap(1, 1)
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID %d", id)
		}
		seen[id] = true
	}
	if p.Len() != 10 {
		t.Errorf("Len() = %d, want 10", p.Len())
	}
}

func TestDelete(t *testing.T) {
	p := NewProvider()
	id, _ := p.CreateBitmap(2, 2)

	lock, err := p.AcquireRead(id)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Delete(id); !errors.Is(err, ErrResourceBusy) {
		t.Errorf("Delete() while locked = %v, want ErrResourceBusy", err)
	}
	lock.Release()

	if err := p.Delete(id); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if _, err := p.Kind(id); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("Kind() after Delete = %v, want ErrResourceNotFound", err)
	}
	if err := p.Delete(id); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("second Delete() = %v, want ErrResourceNotFound", err)
	}
}

func TestAttachUploaderErrors(t *testing.T) {
	p := NewProvider()
	tex, _ := p.ImportTexture(fakeTexture{w: 1, h: 1})
	if err := p.AttachUploader(tex, &recordingUploader{}); !errors.Is(err, ErrResourceWrongKind) {
		t.Errorf("AttachUploader(texture) = %v, want ErrResourceWrongKind", err)
	}
	if err := p.AttachUploader(999, &recordingUploader{}); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("AttachUploader(unknown) = %v, want ErrResourceNotFound", err)
	}
}
