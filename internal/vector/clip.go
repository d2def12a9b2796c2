package vector

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"

	"github.com/heatgrid-data/uhimap/internal/raster"
)

// Clip reprojects each feature from sourceCRS into geographic WGS84 and
// intersects it with the area-of-interest polygon.
//
// Features wholly outside the AOI are dropped; partial overlaps are cut
// to the intersection; points on the AOI boundary are kept. Properties
// pass through unchanged. Clip fails with *raster.ProjectionError when
// sourceCRS cannot be reprojected.
func Clip(features []*Feature, aoi geom.Polygon, sourceCRS string) ([]*Feature, error) {
	if len(aoi) == 0 {
		return nil, fmt.Errorf("empty area of interest")
	}

	var tr proj.Transformer
	if sourceCRS != WGS84 {
		src, err := proj.Parse(sourceCRS)
		if err != nil {
			return nil, &raster.ProjectionError{CRS: sourceCRS, Err: err}
		}
		dst, err := proj.Parse(WGS84)
		if err != nil {
			return nil, &raster.ProjectionError{CRS: WGS84, Err: err}
		}
		tr, err = src.NewTransform(dst)
		if err != nil {
			return nil, &raster.ProjectionError{CRS: sourceCRS, Err: err}
		}
	}

	out := make([]*Feature, 0, len(features))
	for _, f := range features {
		gg := f.Geometry
		if tr != nil {
			t, err := gg.Transform(tr)
			if err != nil {
				return nil, &raster.ProjectionError{CRS: sourceCRS, Err: err}
			}
			gg = t
		}

		clipped, keep := clipGeometry(gg, aoi)
		if !keep {
			continue
		}
		out = append(out, &Feature{Geometry: clipped, Properties: f.Properties})
	}
	return out, nil
}

// clipGeometry intersects one geometry with the AOI. keep is false when
// the intersection is empty or degenerate.
func clipGeometry(g geom.Geom, aoi geom.Polygon) (geom.Geom, bool) {
	switch gg := g.(type) {
	case geom.Point:
		// Boundary points are retained as points.
		if gg.Within(aoi) == geom.Outside {
			return nil, false
		}
		return gg, true
	case geom.Polygonal:
		isect := gg.Intersection(aoi)
		if isect == nil || math.Abs(isect.Area()) == 0 {
			return nil, false
		}
		return isect, true
	default:
		return nil, false
	}
}
