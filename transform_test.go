package compositor

import (
	"image"
	"math"
	"testing"
)

func approxPoint(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestTransformTranslateScaleOrder(t *testing.T) {
	// Post-multiplication: scale is applied to the point first.
	tr := IdentityTransform().Translate(10, 0).Scale(2, 2)
	if got := tr.MapPoint(Pt(1, 1)); !approxPoint(got, Pt(12, 2)) {
		t.Errorf("MapPoint = %v, want (12,2)", got)
	}
}

func TestTransformFlattenTo2d(t *testing.T) {
	tr := IdentityTransform()
	tr[0][2] = 0.3
	tr[2][0] = 0.4
	tr[2][2] = 5
	tr[2][3] = 7
	tr[3][2] = 0.1

	flat := tr.FlattenTo2d()
	if flat != IdentityTransform() {
		t.Errorf("FlattenTo2d() = %v, want identity", flat)
	}
}

func TestTransformToMatrix(t *testing.T) {
	m := Translate(3, 4).Multiply(Scale(2, 5))
	if got := FromMatrix(m).ToMatrix(); got != m {
		t.Errorf("FromMatrix(m).ToMatrix() = %+v, want %+v", got, m)
	}
}

func TestOrthoAndWindowAreIdentityOnViewport(t *testing.T) {
	tests := []struct {
		name     string
		drawRect image.Rectangle
		viewport image.Rectangle
		in       Point
		want     Point
	}{
		{"origin", image.Rect(0, 0, 100, 50), image.Rect(0, 0, 100, 50), Pt(0, 0), Pt(0, 0)},
		{"far corner", image.Rect(0, 0, 100, 50), image.Rect(0, 0, 100, 50), Pt(100, 50), Pt(100, 50)},
		{"offset draw rect", image.Rect(20, 30, 120, 80), image.Rect(0, 0, 100, 50), Pt(20, 30), Pt(0, 0)},
		{"offset viewport", image.Rect(0, 0, 10, 10), image.Rect(5, 6, 15, 16), Pt(2, 3), Pt(7, 9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := RectFromImage(tt.drawRect)
			proj := OrthoProjection(d.X, d.Right(), d.Y, d.Bottom())
			win := WindowMatrix(tt.viewport.Min.X, tt.viewport.Min.Y, tt.viewport.Dx(), tt.viewport.Dy())
			got := win.Multiply(proj).MapPoint(tt.in)
			if !approxPoint(got, tt.want) {
				t.Errorf("MapPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuadRectTransformMapsUnitRect(t *testing.T) {
	tr := QuadRectTransform(TranslateTransform(5, 5), image.Rect(0, 0, 10, 20))
	v := QuadVertexRect()
	if got := tr.MapPoint(Pt(v.X, v.Y)); !approxPoint(got, Pt(5, 5)) {
		t.Errorf("top-left = %v, want (5,5)", got)
	}
	if got := tr.MapPoint(Pt(v.Right(), v.Bottom())); !approxPoint(got, Pt(15, 25)) {
		t.Errorf("bottom-right = %v, want (15,25)", got)
	}
}

func TestComposeDrawTransform(t *testing.T) {
	proj := OrthoProjection(0, 64, 0, 64)
	win := WindowMatrix(0, 0, 64, 64)

	m := ComposeDrawTransform(win, proj, TranslateTransform(8, 4), image.Rect(0, 0, 10, 10))
	if !m.IsScaleAndIntegerTranslate() {
		t.Errorf("integer placement should be scale+integer translate: %+v", m)
	}
	v := QuadVertexRect()
	if got := m.MapPoint(Pt(v.X, v.Y)); !approxPoint(got, Pt(8, 4)) {
		t.Errorf("top-left = %v, want (8,4)", got)
	}

	m = ComposeDrawTransform(win, proj, TranslateTransform(0.5, 0), image.Rect(0, 0, 10, 10))
	if m.IsScaleAndIntegerTranslate() {
		t.Error("half-pixel placement should not be scale+integer translate")
	}
}
