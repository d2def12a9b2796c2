package raster

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Scale returns a new grid with every valid sample multiplied by gain
// and shifted by offset. Nodata cells come out as NaN. Used for
// radiometric conversion, e.g. raw MODIS LST counts to degrees Celsius.
func Scale(g *Grid, gain, offset float64) *Grid {
	out := g.Clone()
	out.hasNoData = false
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			v, ok := g.Value(r, c)
			if !ok {
				out.Set(r, c, math.NaN())
				continue
			}
			out.Set(r, c, v*gain+offset)
		}
	}
	return out
}

// NormalizedDifference computes (a-b)/(a+b) per cell, the normalised
// difference of two band grids (NDVI when a is near-infrared and b is
// red). The grids must share layout and georeferencing. Cells where
// either input is nodata, or where the denominator is zero, come out
// as NaN.
func NormalizedDifference(a, b *Grid) (*Grid, error) {
	if a.Width != b.Width || a.Height != b.Height ||
		!a.Transform.Equal(b.Transform) || a.CRS != b.CRS {
		return nil, &AlignmentError{Reason: "normalized difference requires identically laid out grids"}
	}
	out, err := NewGrid(a.Width, a.Height, a.Transform, a.CRS)
	if err != nil {
		return nil, err
	}
	for r := 0; r < a.Height; r++ {
		for c := 0; c < a.Width; c++ {
			av, aok := a.Value(r, c)
			bv, bok := b.Value(r, c)
			sum := av + bv
			if !aok || !bok || sum == 0 {
				out.Set(r, c, math.NaN())
				continue
			}
			out.Set(r, c, (av-bv)/sum)
		}
	}
	return out, nil
}

// AnomalyFromMean returns each valid sample minus the mean over all
// valid samples: the grid expressed as an anomaly relative to its own
// regional baseline (UHI intensity when applied to surface temperature).
// A grid with no valid samples is returned as all-NaN.
func AnomalyFromMean(g *Grid) *Grid {
	valid := validSamples(g)
	if len(valid) == 0 {
		return Scale(g, 1, 0)
	}
	mean := stat.Mean(valid, nil)
	return Scale(g, 1, -mean)
}

// MinMax returns the smallest and largest valid sample. ok is false when
// the grid holds no valid samples.
func MinMax(g *Grid) (min, max float64, ok bool) {
	valid := validSamples(g)
	if len(valid) == 0 {
		return 0, 0, false
	}
	return floats.Min(valid), floats.Max(valid), true
}

func validSamples(g *Grid) []float64 {
	out := make([]float64, 0, g.Width*g.Height)
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if v, ok := g.Value(r, c); ok {
				out = append(out, v)
			}
		}
	}
	return out
}
