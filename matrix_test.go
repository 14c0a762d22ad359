package compositor

import (
	"math"
	"testing"
)

func TestMatrixMultiplyOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translate(10, 20).Multiply(Scale(2, 3))
	got := m.MapPoint(Pt(1, 1))
	if got != Pt(12, 23) {
		t.Errorf("MapPoint = %v, want (12,23)", got)
	}
}

func TestMatrixInvert(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"identity", Identity()},
		{"translate", Translate(5, -7)},
		{"scale", Scale(2, 0.5)},
		{"rotate", Rotate(math.Pi / 6)},
		{"perspective", Matrix{A: 1, E: 1, G: 0.001, H: 0.002, I: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Invert()
			if !ok {
				t.Fatal("Invert() reported singular matrix")
			}
			p := Pt(3, 4)
			back := inv.MapPoint(tt.m.MapPoint(p))
			if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
				t.Errorf("round trip = %v, want %v", back, p)
			}
		})
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("Invert() of a degenerate scale should fail")
	}
}

func TestMatrixMapRect(t *testing.T) {
	r := Rotate(math.Pi / 2).MapRect(RectF{X: 0, Y: 0, W: 10, H: 5})
	want := RectF{X: -5, Y: 0, W: 5, H: 10}
	if math.Abs(r.X-want.X) > 1e-9 || math.Abs(r.Y-want.Y) > 1e-9 ||
		math.Abs(r.W-want.W) > 1e-9 || math.Abs(r.H-want.H) > 1e-9 {
		t.Errorf("MapRect = %+v, want %+v", r, want)
	}
}

func TestMatrixIsScaleAndIntegerTranslate(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want bool
	}{
		{"identity", Identity(), true},
		{"integer translate", Translate(3, -12), true},
		{"scale and integer translate", Translate(4, 5).Multiply(Scale(2, 3)), true},
		{"translate within epsilon", Translate(3+1.0/8192, 7-1.0/8192), true},
		{"fractional translate", Translate(0.5, 0), false},
		{"fractional translate y", Translate(0, 2.25), false},
		{"skew x", Matrix{A: 1, B: 0.1, E: 1, I: 1}, false},
		{"skew y", Matrix{A: 1, D: 0.1, E: 1, I: 1}, false},
		{"rotation", Rotate(math.Pi / 4), false},
		{"perspective", Matrix{A: 1, E: 1, G: 0.01, I: 1}, false},
		{"persp2", Matrix{A: 1, E: 1, I: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsScaleAndIntegerTranslate(); got != tt.want {
				t.Errorf("IsScaleAndIntegerTranslate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrixPredicates(t *testing.T) {
	tests := []struct {
		name        string
		m           Matrix
		identity    bool
		translation bool
		axisAligned bool
	}{
		{"identity", Identity(), true, true, true},
		{"translate", Translate(1, 2), false, true, true},
		{"scale", Scale(2, 2), false, false, true},
		{"quarter turn", Matrix{B: -1, D: 1, I: 1}, false, false, true},
		{"rotate", Rotate(0.3), false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsIdentity(); got != tt.identity {
				t.Errorf("IsIdentity() = %v, want %v", got, tt.identity)
			}
			if got := tt.m.IsTranslation(); got != tt.translation {
				t.Errorf("IsTranslation() = %v, want %v", got, tt.translation)
			}
			if got := tt.m.IsAxisAligned(); got != tt.axisAligned {
				t.Errorf("IsAxisAligned() = %v, want %v", got, tt.axisAligned)
			}
		})
	}
}

func TestRectToRect(t *testing.T) {
	m := RectToRect(RectF{X: 0, Y: 0, W: 4, H: 2}, RectF{X: 10, Y: 10, W: 8, H: 8})
	if got := m.MapPoint(Pt(4, 2)); got != Pt(18, 18) {
		t.Errorf("MapPoint(4,2) = %v, want (18,18)", got)
	}
	if got := m.MapPoint(Pt(0, 0)); got != Pt(10, 10) {
		t.Errorf("MapPoint(0,0) = %v, want (10,10)", got)
	}
	if !RectToRect(RectF{}, RectF{W: 1, H: 1}).IsIdentity() {
		t.Error("RectToRect with empty source should be identity")
	}
}
