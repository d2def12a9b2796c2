package raster

import (
	"math"
	"testing"
)

func TestScale_ModisLST(t *testing.T) {
	// Raw MOD11A1 counts: value * 0.02 - 273.15 gives degrees Celsius.
	g := mustGrid(t, 2, 1, NorthUp(0, 1, 1, 1), []float64{15000, -9999})
	g.SetNoData(-9999)

	out := Scale(g, 0.02, -273.15)

	if v, ok := out.Value(0, 0); !ok || math.Abs(v-26.85) > 1e-9 {
		t.Errorf("scaled value = (%g, %v), want (26.85, true)", v, ok)
	}
	if _, ok := out.Value(0, 1); ok {
		t.Error("nodata must stay invalid after scaling")
	}
}

func TestNormalizedDifference(t *testing.T) {
	tf := NorthUp(0, 1, 1, 1)
	nir := mustGrid(t, 4, 1, tf, []float64{0.6, 0.5, 0.0, -9999})
	red := mustGrid(t, 4, 1, tf, []float64{0.2, -0.5, 0.0, 0.1})
	nir.SetNoData(-9999)

	out, err := NormalizedDifference(nir, red)
	if err != nil {
		t.Fatalf("NormalizedDifference: %v", err)
	}

	if v, ok := out.Value(0, 0); !ok || math.Abs(v-0.5) > 1e-12 {
		t.Errorf("cell 0 = (%g, %v), want (0.5, true)", v, ok)
	}
	if _, ok := out.Value(0, 1); ok {
		t.Error("zero denominator must produce nodata")
	}
	if _, ok := out.Value(0, 2); ok {
		t.Error("0/0 must produce nodata")
	}
	if _, ok := out.Value(0, 3); ok {
		t.Error("nodata input must produce nodata")
	}
}

func TestNormalizedDifference_LayoutMismatch(t *testing.T) {
	a := mustGrid(t, 2, 1, NorthUp(0, 1, 1, 1), []float64{1, 2})
	b := mustGrid(t, 2, 1, NorthUp(5, 1, 1, 1), []float64{1, 2})

	if _, err := NormalizedDifference(a, b); err == nil {
		t.Error("expected error for mismatched layouts")
	}
}

func TestAnomalyFromMean(t *testing.T) {
	g := mustGrid(t, 2, 2, NorthUp(0, 2, 1, 1), []float64{30, 34, 26, -9999})
	g.SetNoData(-9999)

	out := AnomalyFromMean(g)

	// Mean over valid cells is 30.
	wants := []struct {
		r, c int
		v    float64
	}{
		{0, 0, 0}, {0, 1, 4}, {1, 0, -4},
	}
	for _, w := range wants {
		if v, ok := out.Value(w.r, w.c); !ok || math.Abs(v-w.v) > 1e-12 {
			t.Errorf("anomaly(%d,%d) = (%g, %v), want (%g, true)", w.r, w.c, v, ok, w.v)
		}
	}
	if _, ok := out.Value(1, 1); ok {
		t.Error("nodata must stay invalid")
	}
}

func TestMinMax(t *testing.T) {
	g := mustGrid(t, 3, 1, NorthUp(0, 1, 1, 1), []float64{5, -2, 11})

	min, max, ok := MinMax(g)
	if !ok || min != -2 || max != 11 {
		t.Errorf("MinMax = (%g, %g, %v), want (-2, 11, true)", min, max, ok)
	}

	empty := mustGrid(t, 1, 1, NorthUp(0, 1, 1, 1), []float64{math.NaN()})
	if _, _, ok := MinMax(empty); ok {
		t.Error("MinMax of an all-invalid grid must report ok=false")
	}
}
