package raster

import (
	"image"
	"testing"

	"github.com/gogpu/compositor"
)

func rectPoints(x0, y0, x1, y1 float64) []compositor.Point {
	return []compositor.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestFillPolygonIntegerRect(t *testing.T) {
	mask := FillPolygon(rectPoints(2, 3, 6, 5), image.Rect(0, 0, 10, 10), true)
	if mask == nil {
		t.Fatal("FillPolygon returned nil")
	}
	if got := mask.Bounds(); got != image.Rect(2, 3, 6, 5) {
		t.Fatalf("Bounds() = %v, want (2,3)-(6,5)", got)
	}
	for y := 3; y < 5; y++ {
		for x := 2; x < 6; x++ {
			if a := mask.AlphaAt(x, y).A; a != 255 {
				t.Errorf("coverage(%d,%d) = %d, want 255", x, y, a)
			}
		}
	}
}

func TestFillPolygonClipped(t *testing.T) {
	mask := FillPolygon(rectPoints(-5, -5, 5, 5), image.Rect(0, 0, 3, 3), false)
	if mask == nil {
		t.Fatal("FillPolygon returned nil")
	}
	if got := mask.Bounds(); got != image.Rect(0, 0, 3, 3) {
		t.Errorf("Bounds() = %v, want clip", got)
	}
	if a := mask.AlphaAt(2, 2).A; a != 255 {
		t.Errorf("coverage(2,2) = %d, want 255", a)
	}
}

func TestFillPolygonOutsideClip(t *testing.T) {
	if mask := FillPolygon(rectPoints(20, 20, 30, 30), image.Rect(0, 0, 10, 10), true); mask != nil {
		t.Errorf("FillPolygon outside clip = %v, want nil", mask.Bounds())
	}
	if mask := FillPolygon(rectPoints(0, 0, 1, 1)[:2], image.Rect(0, 0, 10, 10), true); mask != nil {
		t.Error("FillPolygon with two points should return nil")
	}
}

func TestFillPolygonHalfPixelEdge(t *testing.T) {
	aa := FillPolygon(rectPoints(0.5, 0, 4, 2), image.Rect(0, 0, 4, 2), true)
	if a := aa.AlphaAt(0, 0).A; a < 100 || a > 160 {
		t.Errorf("antialiased half-covered pixel = %d, want about 128", a)
	}

	hard := FillPolygon(rectPoints(0.25, 0, 4, 2), image.Rect(0, 0, 4, 2), false)
	if a := hard.AlphaAt(0, 0).A; a != 255 {
		t.Errorf("non-antialiased 75%% pixel = %d, want 255", a)
	}
	hard = FillPolygon(rectPoints(0.75, 0, 4, 2), image.Rect(0, 0, 4, 2), false)
	if a := hard.AlphaAt(0, 0).A; a != 0 {
		t.Errorf("non-antialiased 25%% pixel = %d, want 0", a)
	}
}

func TestStrokePolygon(t *testing.T) {
	mask := StrokePolygon(rectPoints(2, 2, 12, 12), 2, image.Rect(0, 0, 20, 20), false)
	if mask == nil {
		t.Fatal("StrokePolygon returned nil")
	}
	tests := []struct {
		name string
		x, y int
		want uint8
	}{
		{"top edge", 6, 1, 255},
		{"left edge", 1, 6, 255},
		{"corner", 1, 1, 255},
		{"interior", 7, 7, 0},
		{"outside", 15, 15, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mask.AlphaAt(tt.x, tt.y).A; got != tt.want {
				t.Errorf("coverage(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestStrokePolygonDegenerate(t *testing.T) {
	clip := image.Rect(0, 0, 10, 10)
	if StrokePolygon(rectPoints(1, 1, 5, 5), 0, clip, true) != nil {
		t.Error("zero width stroke should return nil")
	}
	same := []compositor.Point{{X: 3, Y: 3}, {X: 3, Y: 3}}
	if StrokePolygon(same, 2, clip, true) != nil {
		t.Error("zero length stroke should return nil")
	}
}
