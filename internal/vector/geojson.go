package vector

import (
	"encoding/json"
	"fmt"

	"github.com/ctessum/geom"
)

// Geometry is the GeoJSON geometry object: a type tag plus nested
// coordinate arrays whose depth depends on the type.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// encodeGeometry converts a geometry into its GeoJSON representation.
// Rings are explicitly closed on the way out.
func encodeGeometry(g geom.Geom) (*Geometry, error) {
	switch gg := g.(type) {
	case geom.Point:
		return &Geometry{Type: "Point", Coordinates: []float64{gg.X, gg.Y}}, nil
	case geom.Polygon:
		return &Geometry{Type: "Polygon", Coordinates: encodeRings(gg)}, nil
	case geom.MultiPolygon:
		coords := make([][][][]float64, len(gg))
		for i, p := range gg {
			coords[i] = encodeRings(p)
		}
		return &Geometry{Type: "MultiPolygon", Coordinates: coords}, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
}

func encodeRings(p geom.Polygon) [][][]float64 {
	rings := make([][][]float64, len(p))
	for i, ring := range p {
		out := make([][]float64, 0, len(ring)+1)
		for _, pt := range ring {
			out = append(out, []float64{pt.X, pt.Y})
		}
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			out = append(out, []float64{ring[0].X, ring[0].Y})
		}
		rings[i] = out
	}
	return rings
}

// ParseAOI reads an area-of-interest polygon from GeoJSON. It accepts a
// bare Polygon geometry, a Feature wrapping one, or a FeatureCollection
// whose first feature wraps one. Coordinates must already be geographic
// longitude/latitude.
func ParseAOI(data []byte) (geom.Polygon, error) {
	var doc struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
		Geometry    json.RawMessage `json:"geometry"`
		Features    []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing AOI: %w", err)
	}

	switch doc.Type {
	case "Polygon":
		return decodePolygonCoordinates(doc.Coordinates)
	case "Feature":
		if doc.Geometry == nil {
			return nil, fmt.Errorf("AOI feature has no geometry")
		}
		return ParseAOI(doc.Geometry)
	case "FeatureCollection":
		if len(doc.Features) == 0 {
			return nil, fmt.Errorf("AOI feature collection is empty")
		}
		return ParseAOI(doc.Features[0])
	default:
		return nil, fmt.Errorf("AOI must be a Polygon, got %q", doc.Type)
	}
}

func decodePolygonCoordinates(raw json.RawMessage) (geom.Polygon, error) {
	var rings [][][]float64
	if err := json.Unmarshal(raw, &rings); err != nil {
		return nil, fmt.Errorf("parsing AOI coordinates: %w", err)
	}
	if len(rings) == 0 {
		return nil, fmt.Errorf("AOI polygon has no rings")
	}
	p := make(geom.Polygon, len(rings))
	for i, ring := range rings {
		if len(ring) < 4 {
			return nil, fmt.Errorf("AOI ring %d has %d positions, want at least 4", i, len(ring))
		}
		out := make([]geom.Point, 0, len(ring))
		for j, pos := range ring {
			if len(pos) < 2 {
				return nil, fmt.Errorf("AOI ring %d position %d is not an x/y pair", i, j)
			}
			out = append(out, geom.Point{X: pos[0], Y: pos[1]})
		}
		// Drop the explicit GeoJSON closing vertex.
		if len(out) > 1 && out[0] == out[len(out)-1] {
			out = out[:len(out)-1]
		}
		p[i] = out
	}
	return p, nil
}
