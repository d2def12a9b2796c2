package vector

import (
	"math"
	"testing"

	"github.com/ctessum/geom"

	"github.com/heatgrid-data/uhimap/internal/raster"
)

func testGrid(t *testing.T, values []float64) *raster.Grid {
	t.Helper()
	g, err := raster.NewGridFromValues(2, 2, raster.NorthUp(74.20, 31.60, 0.01, 0.01), WGS84, values)
	if err != nil {
		t.Fatalf("NewGridFromValues: %v", err)
	}
	return g
}

func testMask(t *testing.T, w, h int, cells []bool) *raster.Mask {
	t.Helper()
	m, err := raster.NewMask(w, h)
	if err != nil {
		t.Fatalf("NewMask: %v", err)
	}
	for i, c := range cells {
		m.Set(i/w, i%w, c)
	}
	return m
}

func TestVectorize_PointMode(t *testing.T) {
	g := testGrid(t, []float64{36, 20, 10, 40})
	mask := testMask(t, 2, 2, []bool{true, false, false, true})

	features, err := Vectorize(g, mask, ModePoint, "UHI")
	if err != nil {
		t.Fatalf("Vectorize: %v", err)
	}

	if len(features) != mask.Count() {
		t.Fatalf("feature count = %d, want %d (one per true cell)", len(features), mask.Count())
	}

	wants := []struct {
		x, y  float64
		value float64
	}{
		{74.205, 31.595, 36},
		{74.215, 31.585, 40},
	}
	for i, w := range wants {
		pt, ok := features[i].Geometry.(geom.Point)
		if !ok {
			t.Fatalf("feature %d geometry is %T, want Point", i, features[i].Geometry)
		}
		if math.Abs(pt.X-w.x) > 1e-12 || math.Abs(pt.Y-w.y) > 1e-12 {
			t.Errorf("feature %d at (%g, %g), want (%g, %g)", i, pt.X, pt.Y, w.x, w.y)
		}
		if v, _ := features[i].Properties.Get("UHI"); v != w.value {
			t.Errorf("feature %d value = %v, want %g", i, v, w.value)
		}
	}
}

func TestVectorize_PolygonMode(t *testing.T) {
	g := testGrid(t, []float64{36, 20, 10, 40})
	mask := testMask(t, 2, 2, []bool{true, false, false, false})

	features, err := Vectorize(g, mask, ModePolygon, "UHI")
	if err != nil {
		t.Fatalf("Vectorize: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("feature count = %d, want 1", len(features))
	}

	p, ok := features[0].Geometry.(geom.Polygon)
	if !ok {
		t.Fatalf("geometry is %T, want Polygon", features[0].Geometry)
	}
	if len(p) != 1 || len(p[0]) != 4 {
		t.Fatalf("footprint must be a single 4-vertex ring, got %d rings", len(p))
	}

	// Corners (c,r), (c+1,r), (c+1,r+1), (c,r+1) through the transform.
	want := []geom.Point{
		{X: 74.20, Y: 31.60},
		{X: 74.21, Y: 31.60},
		{X: 74.21, Y: 31.59},
		{X: 74.20, Y: 31.59},
	}
	for i, w := range want {
		if math.Abs(p[0][i].X-w.X) > 1e-12 || math.Abs(p[0][i].Y-w.Y) > 1e-12 {
			t.Errorf("corner %d = %+v, want %+v", i, p[0][i], w)
		}
	}
}

func TestVectorize_RowMajorOrder(t *testing.T) {
	g := testGrid(t, []float64{1, 2, 3, 4})
	mask := testMask(t, 2, 2, []bool{true, true, true, true})

	features, err := Vectorize(g, mask, ModePoint, "v")
	if err != nil {
		t.Fatalf("Vectorize: %v", err)
	}

	// Ascending row, then ascending column.
	for i, want := range []float64{1, 2, 3, 4} {
		if v, _ := features[i].Properties.Get("v"); v != want {
			t.Errorf("feature %d value = %v, want %g", i, v, want)
		}
	}
}

func TestVectorize_EmptyMask(t *testing.T) {
	g := testGrid(t, []float64{1, 2, 3, 4})
	mask := testMask(t, 2, 2, []bool{false, false, false, false})

	features, err := Vectorize(g, mask, ModePolygon, "v")
	if err != nil {
		t.Fatalf("an all-false mask is a valid input, got error: %v", err)
	}
	if len(features) != 0 {
		t.Errorf("feature count = %d, want 0", len(features))
	}
}

func TestVectorize_ShapeMismatch(t *testing.T) {
	g := testGrid(t, []float64{1, 2, 3, 4})
	mask := testMask(t, 3, 1, []bool{true, true, true})

	if _, err := Vectorize(g, mask, ModePoint, "v"); err == nil {
		t.Error("expected error for mask/grid shape mismatch")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"polygon", ModePolygon, false},
		{"point", ModePoint, false},
		{"centroid", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		m, err := ParseMode(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || m != tc.want {
			t.Errorf("ParseMode(%q) = (%v, %v), want %v", tc.in, m, err, tc.want)
		}
	}
}

func TestSimplifyPolygons_PassesPointsThrough(t *testing.T) {
	features := []*Feature{
		{Geometry: geom.Point{X: 1, Y: 2}},
	}
	out := SimplifyPolygons(features, 0.5)
	if len(out) != 1 {
		t.Fatalf("point features must pass through, got %d features", len(out))
	}
}

func TestSimplifyPolygons_ZeroToleranceIsNoop(t *testing.T) {
	features := []*Feature{
		{Geometry: geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}},
	}
	out := SimplifyPolygons(features, 0)
	if len(out) != 1 || out[0] != features[0] {
		t.Error("zero tolerance must return the input unchanged")
	}
}
