package hotspot

import (
	"errors"
	"math"
	"testing"

	"github.com/heatgrid-data/uhimap/internal/raster"
)

const testCRS = "+proj=longlat"

func mustGrid(t *testing.T, width, height int, transform raster.Affine, values []float64) *raster.Grid {
	t.Helper()
	g, err := raster.NewGridFromValues(width, height, transform, testCRS, values)
	if err != nil {
		t.Fatalf("NewGridFromValues: %v", err)
	}
	return g
}

func testTransform() raster.Affine {
	return raster.NorthUp(74.20, 31.60, 0.01, 0.01)
}

func TestBuildMask(t *testing.T) {
	tr := testTransform()
	primary := mustGrid(t, 2, 2, tr, []float64{36, 20, 10, 40})
	secondary := mustGrid(t, 2, 2, tr, []float64{0.1, 0.1, 0.1, 0.15})

	mask, err := BuildMask(raster.AlignedPair{Primary: primary, Secondary: secondary},
		DefaultPredicate(30, 0.2))
	if err != nil {
		t.Fatalf("BuildMask: %v", err)
	}

	want := [2][2]bool{{true, false}, {false, true}}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if got := mask.At(r, c); got != want[r][c] {
				t.Errorf("mask(%d, %d) = %v, want %v", r, c, got, want[r][c])
			}
		}
	}
	if got := mask.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}

func TestBuildMaskExcludesNoData(t *testing.T) {
	tr := testTransform()
	primary := mustGrid(t, 2, 2, tr, []float64{36, -9999, 40, 40})
	primary.SetNoData(-9999)
	secondary := mustGrid(t, 2, 2, tr, []float64{0.1, 0.1, math.NaN(), 0.1})

	mask, err := BuildMask(raster.AlignedPair{Primary: primary, Secondary: secondary},
		DefaultPredicate(30, 0.2))
	if err != nil {
		t.Fatalf("BuildMask: %v", err)
	}

	// (0,1) is primary nodata and (1,0) is secondary NaN; neither may
	// match even though the predicate would otherwise hold for (1,0).
	want := [2][2]bool{{true, false}, {false, true}}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if got := mask.At(r, c); got != want[r][c] {
				t.Errorf("mask(%d, %d) = %v, want %v", r, c, got, want[r][c])
			}
		}
	}
}

func TestBuildMaskDeterministic(t *testing.T) {
	tr := testTransform()
	pair := raster.AlignedPair{
		Primary:   mustGrid(t, 2, 2, tr, []float64{36, 20, 10, 40}),
		Secondary: mustGrid(t, 2, 2, tr, []float64{0.1, 0.5, 0.3, 0.05}),
	}
	pred := DefaultPredicate(30, 0.2)

	first, err := BuildMask(pair, pred)
	if err != nil {
		t.Fatalf("BuildMask: %v", err)
	}
	second, err := BuildMask(pair, pred)
	if err != nil {
		t.Fatalf("BuildMask: %v", err)
	}
	if !first.Equal(second) {
		t.Error("identical inputs produced different masks")
	}
}

func TestBuildMaskAllFalseIsSuccess(t *testing.T) {
	tr := testTransform()
	primary := mustGrid(t, 2, 2, tr, []float64{10, 11, 12, 13})
	secondary := mustGrid(t, 2, 2, tr, []float64{0.1, 0.1, 0.1, 0.1})

	mask, err := BuildMask(raster.AlignedPair{Primary: primary, Secondary: secondary},
		DefaultPredicate(30, 0.2))
	if err != nil {
		t.Fatalf("BuildMask: %v", err)
	}
	if got := mask.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}

func TestBuildMaskShapeMismatch(t *testing.T) {
	tr := testTransform()
	primary := mustGrid(t, 2, 2, tr, []float64{1, 2, 3, 4})
	secondary := mustGrid(t, 3, 1, tr, []float64{1, 2, 3})

	_, err := BuildMask(raster.AlignedPair{Primary: primary, Secondary: secondary},
		DefaultPredicate(30, 0.2))
	var ae *raster.AlignmentError
	if !errors.As(err, &ae) {
		t.Fatalf("BuildMask error = %v, want *raster.AlignmentError", err)
	}
}
