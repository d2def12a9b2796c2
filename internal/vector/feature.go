package vector

import (
	"bytes"
	"encoding/json"

	"github.com/ctessum/geom"
)

// WGS84 is the PROJ.4 definition of the canonical output coordinate
// system: geographic longitude/latitude.
const WGS84 = "+proj=longlat"

// Property is one key/value entry of a feature's properties.
type Property struct {
	Key   string
	Value any
}

// Properties is an ordered mapping of string keys to scalar values.
// Order is preserved through JSON encoding so output is deterministic.
type Properties []Property

// Set replaces the value under key, or appends a new entry.
func (p *Properties) Set(key string, value any) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Property{Key: key, Value: value})
}

// Get returns the value under key.
func (p Properties) Get(key string) (any, bool) {
	for _, e := range p {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Clone returns a copy that can be mutated independently.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	copy(out, p)
	return out
}

// MarshalJSON encodes the properties as a JSON object in entry order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Feature pairs a geometry with its properties.
type Feature struct {
	Geometry   geom.Geom
	Properties Properties
}

// MarshalJSON encodes the feature in GeoJSON form.
func (f *Feature) MarshalJSON() ([]byte, error) {
	g, err := encodeGeometry(f.Geometry)
	if err != nil {
		return nil, err
	}
	props := f.Properties
	if props == nil {
		props = Properties{}
	}
	return json.Marshal(struct {
		Type       string      `json:"type"`
		Geometry   *Geometry   `json:"geometry"`
		Properties *Properties `json:"properties"`
	}{
		Type:       "Feature",
		Geometry:   g,
		Properties: &props,
	})
}

// FeatureCollection is an ordered sequence of features, optionally
// carrying run-level metadata.
type FeatureCollection struct {
	Features   []*Feature
	Properties Properties
}

// MarshalJSON encodes the collection in GeoJSON form. An empty
// collection encodes with "features": [], never null.
func (fc *FeatureCollection) MarshalJSON() ([]byte, error) {
	features := fc.Features
	if features == nil {
		features = []*Feature{}
	}
	if len(fc.Properties) == 0 {
		return json.Marshal(struct {
			Type     string     `json:"type"`
			Features []*Feature `json:"features"`
		}{
			Type:     "FeatureCollection",
			Features: features,
		})
	}
	return json.Marshal(struct {
		Type       string     `json:"type"`
		Properties Properties `json:"properties"`
		Features   []*Feature `json:"features"`
	}{
		Type:       "FeatureCollection",
		Properties: fc.Properties,
		Features:   features,
	})
}
