package compositor

import (
	"image"
	"testing"
)

func TestRectFToEnclosingRect(t *testing.T) {
	tests := []struct {
		name string
		r    RectF
		want image.Rectangle
	}{
		{"integral", RectF{X: 1, Y: 2, W: 3, H: 4}, image.Rect(1, 2, 4, 6)},
		{"fractional", RectF{X: 0.5, Y: 0.25, W: 1, H: 1}, image.Rect(0, 0, 2, 2)},
		{"negative", RectF{X: -1.5, Y: -0.5, W: 1, H: 1}, image.Rect(-2, -1, 0, 1)},
		{"empty", RectF{X: 3, Y: 3}, image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.ToEnclosingRect(); got != tt.want {
				t.Errorf("ToEnclosingRect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectFUnionIntersect(t *testing.T) {
	a := RectF{X: 0, Y: 0, W: 10, H: 10}
	b := RectF{X: 5, Y: 5, W: 10, H: 10}

	if got := a.Union(b); got != (RectF{X: 0, Y: 0, W: 15, H: 15}) {
		t.Errorf("Union = %+v", got)
	}
	if got := a.Intersect(b); got != (RectF{X: 5, Y: 5, W: 5, H: 5}) {
		t.Errorf("Intersect = %+v", got)
	}
	if got := a.Intersect(RectF{X: 20, Y: 20, W: 1, H: 1}); !got.IsEmpty() {
		t.Errorf("disjoint Intersect = %+v, want empty", got)
	}
	if got := (RectF{}).Union(b); got != b {
		t.Errorf("empty Union = %+v, want %+v", got, b)
	}
}

func TestBoundingRect(t *testing.T) {
	got := BoundingRect(Pt(3, 1), Pt(-1, 4), Pt(2, -2))
	want := RectF{X: -1, Y: -2, W: 4, H: 6}
	if got != want {
		t.Errorf("BoundingRect = %+v, want %+v", got, want)
	}
	if got := BoundingRect(); got != (RectF{}) {
		t.Errorf("BoundingRect() = %+v, want zero", got)
	}
}

func TestRectFScale(t *testing.T) {
	got := RectF{X: 0.25, Y: 0.5, W: 0.5, H: 0.5}.Scale(64, 32)
	want := RectF{X: 16, Y: 16, W: 32, H: 16}
	if got != want {
		t.Errorf("Scale = %+v, want %+v", got, want)
	}
}
