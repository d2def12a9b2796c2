package vector

// MetadataPlacement selects where run-level metadata ends up in the
// output collection.
type MetadataPlacement int

const (
	// MetadataCollection attaches metadata once, as a collection-level
	// properties block.
	MetadataCollection MetadataPlacement = iota
	// MetadataPerFeature merges the metadata into every feature's
	// properties. Keys already present on a feature win.
	MetadataPerFeature
)

// BuildCollection wraps clipped features with run-level metadata. No
// further geometric transformation happens here.
func BuildCollection(features []*Feature, metadata Properties, placement MetadataPlacement) *FeatureCollection {
	if features == nil {
		features = []*Feature{}
	}
	if placement != MetadataPerFeature {
		return &FeatureCollection{Features: features, Properties: metadata.Clone()}
	}

	merged := make([]*Feature, len(features))
	for i, f := range features {
		props := f.Properties.Clone()
		for _, m := range metadata {
			if _, ok := props.Get(m.Key); ok {
				continue
			}
			props.Set(m.Key, m.Value)
		}
		merged[i] = &Feature{Geometry: f.Geometry, Properties: props}
	}
	return &FeatureCollection{Features: merged}
}
