package vector

import (
	"fmt"

	"github.com/ctessum/geom"

	"github.com/heatgrid-data/uhimap/internal/raster"
)

// Mode selects the geometry emitted per masked cell.
type Mode int

const (
	// ModePolygon emits each cell's pixel footprint as a quadrilateral.
	ModePolygon Mode = iota
	// ModePoint emits each cell's centre.
	ModePoint
)

func (m Mode) String() string {
	switch m {
	case ModePolygon:
		return "polygon"
	case ModePoint:
		return "point"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts the wire name of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "polygon":
		return ModePolygon, nil
	case "point":
		return ModePoint, nil
	default:
		return 0, fmt.Errorf("unknown vector mode %q (want polygon or point)", s)
	}
}

// Vectorize converts masked cells of the grid into features, one per
// true cell, in ascending (row, column) scan order. Geometries are in
// the grid's native CRS; each feature carries the cell's sample under
// valueKey. Adjacent cells are deliberately emitted as separate
// per-pixel polygons rather than merged regions.
//
// An all-false mask produces an empty slice, which is a valid result.
func Vectorize(g *raster.Grid, mask *raster.Mask, mode Mode, valueKey string) ([]*Feature, error) {
	if mask.Width != g.Width || mask.Height != g.Height {
		return nil, fmt.Errorf("mask shape %dx%d does not match grid %dx%d",
			mask.Width, mask.Height, g.Width, g.Height)
	}
	if mode != ModePolygon && mode != ModePoint {
		return nil, fmt.Errorf("unknown vector mode %d", int(mode))
	}

	features := make([]*Feature, 0, mask.Count())
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if !mask.At(r, c) {
				continue
			}
			var gg geom.Geom
			switch mode {
			case ModePolygon:
				gg = cellFootprint(g.Transform, c, r)
			case ModePoint:
				x, y := g.Transform.Apply(float64(c)+0.5, float64(r)+0.5)
				gg = geom.Point{X: x, Y: y}
			}
			features = append(features, &Feature{
				Geometry:   gg,
				Properties: Properties{{Key: valueKey, Value: g.At(r, c)}},
			})
		}
	}
	return features, nil
}

// cellFootprint maps the four pixel corners of cell (c, r) through the
// transform into a single-ring quadrilateral.
func cellFootprint(t raster.Affine, c, r int) geom.Polygon {
	col, row := float64(c), float64(r)
	x0, y0 := t.Apply(col, row)
	x1, y1 := t.Apply(col+1, row)
	x2, y2 := t.Apply(col+1, row+1)
	x3, y3 := t.Apply(col, row+1)
	return geom.Polygon{{
		{X: x0, Y: y0},
		{X: x1, Y: y1},
		{X: x2, Y: y2},
		{X: x3, Y: y3},
	}}
}

// SimplifyPolygons replaces each polygonal geometry with its simplified
// form; point features pass through untouched. Simplification happens in
// the geometries' current CRS, so the tolerance is in those units.
// Features whose geometry collapses entirely are dropped.
func SimplifyPolygons(features []*Feature, tolerance float64) []*Feature {
	if tolerance <= 0 {
		return features
	}
	out := make([]*Feature, 0, len(features))
	for _, f := range features {
		p, ok := f.Geometry.(geom.Polygon)
		if !ok {
			out = append(out, f)
			continue
		}
		sp, ok := p.Simplify(tolerance).(geom.Polygon)
		if !ok || len(sp) == 0 {
			continue
		}
		out = append(out, &Feature{Geometry: sp, Properties: f.Properties})
	}
	return out
}
