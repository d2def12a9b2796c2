package hotspot

import (
	"fmt"
	"time"

	"github.com/ctessum/geom"
	"github.com/google/uuid"

	"github.com/heatgrid-data/uhimap/internal/raster"
	"github.com/heatgrid-data/uhimap/internal/timeutil"
	"github.com/heatgrid-data/uhimap/internal/units"
	"github.com/heatgrid-data/uhimap/internal/vector"
)

const (
	// DefaultValueKey is the property name the cell value is stored
	// under in emitted features.
	DefaultValueKey = "UHI"

	// DefaultPeriodDays is the analysis window recorded in run
	// metadata when the caller does not set one.
	DefaultPeriodDays = 30

	// DefaultDataSource labels the run metadata when no source name
	// is provided.
	DefaultDataSource = "MODIS_LST/NDVI"
)

// Params configures a pipeline run. PrimaryPath names the temperature
// grid, SecondaryPath the vegetation grid; both are loaded through
// Source. Zero values of ValueKey, PeriodDays, DataSource, Source, and
// Clock fall back to package defaults. SecondaryThreshold is used as
// given; NewParams seeds it with DefaultSecondaryThreshold.
type Params struct {
	PrimaryPath   string
	SecondaryPath string

	// SecondaryRedPath, when set, reinterprets SecondaryPath as a
	// near-infrared band and derives the vegetation index as the
	// normalized difference of the two bands.
	SecondaryRedPath string

	// ModisScale converts raw MOD11A1 counts in the primary grid to
	// degrees Celsius before thresholding.
	ModisScale bool

	// Anomaly thresholds each cell's deviation from the grid-wide mean
	// instead of its absolute value.
	Anomaly bool

	PrimaryThreshold   float64
	SecondaryThreshold float64

	// AOI is the clip polygon in WGS84 lon/lat.
	AOI geom.Polygon

	Mode     vector.Mode
	ValueKey string

	// SimplifyTolerance, when positive, simplifies emitted polygons
	// with the given tolerance in CRS units. Ignored in point mode.
	SimplifyTolerance float64

	PeriodDays int
	DataSource string

	// Metadata entries are merged into the run metadata block,
	// overriding generated entries with the same key.
	Metadata          vector.Properties
	MetadataPlacement vector.MetadataPlacement

	// Predicate overrides the default hot-and-unvegetated test.
	Predicate *Predicate

	Source raster.Source
	Clock  timeutil.Clock
}

// NewParams fills in a Params with the package defaults for everything
// the arguments do not cover.
func NewParams(primaryPath, secondaryPath string, primaryThreshold float64, aoi geom.Polygon, mode vector.Mode) Params {
	return Params{
		PrimaryPath:        primaryPath,
		SecondaryPath:      secondaryPath,
		PrimaryThreshold:   primaryThreshold,
		SecondaryThreshold: DefaultSecondaryThreshold,
		AOI:                aoi,
		Mode:               mode,
		ValueKey:           DefaultValueKey,
		PeriodDays:         DefaultPeriodDays,
		DataSource:         DefaultDataSource,
	}
}

// Compute runs the full pipeline: load, align, mask, vectorize,
// optionally simplify, clip to the AOI, and wrap the surviving features
// with run metadata. An empty AOI, missing input, unresolvable CRS, or
// disjoint grids fail with the corresponding typed error; a run that
// finds no hotspots succeeds with an empty feature list.
func Compute(p Params) (*vector.FeatureCollection, error) {
	src := p.Source
	if src == nil {
		src = raster.FileSource{}
	}

	primary, secondary, err := p.loadGrids(src)
	if err != nil {
		return nil, err
	}

	pair, err := raster.Align(primary, secondary)
	if err != nil {
		return nil, fmt.Errorf("aligning grids: %w", err)
	}

	mask, err := BuildMask(pair, p.predicate())
	if err != nil {
		return nil, fmt.Errorf("building hotspot mask: %w", err)
	}

	feats, err := vector.Vectorize(pair.Primary, mask, p.Mode, p.valueKey())
	if err != nil {
		return nil, fmt.Errorf("vectorizing mask: %w", err)
	}
	if p.SimplifyTolerance > 0 && p.Mode == vector.ModePolygon {
		feats = vector.SimplifyPolygons(feats, p.SimplifyTolerance)
	}

	feats, err = vector.Clip(feats, p.AOI, primary.CRS)
	if err != nil {
		return nil, fmt.Errorf("clipping to AOI: %w", err)
	}

	return vector.BuildCollection(feats, p.runMetadata(primary, len(feats)), p.MetadataPlacement), nil
}

// ComputeHotspots is a positional convenience wrapper around Compute
// with default value key, period, and metadata placement.
func ComputeHotspots(primaryPath, secondaryPath string, primaryThreshold, secondaryThreshold float64, aoi geom.Polygon, mode vector.Mode) (*vector.FeatureCollection, error) {
	p := NewParams(primaryPath, secondaryPath, primaryThreshold, aoi, mode)
	p.SecondaryThreshold = secondaryThreshold
	return Compute(p)
}

// loadGrids loads both inputs and applies the configured radiometric
// preprocessing. The anomaly conversion uses the mean of the whole
// primary grid, so it has to run here, before any tiling splits the
// grid into bands.
func (p Params) loadGrids(src raster.Source) (*raster.Grid, *raster.Grid, error) {
	primary, err := src.Load(p.PrimaryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading primary grid: %w", err)
	}
	if p.ModisScale {
		primary = raster.Scale(primary, units.ModisLSTGain, -units.KelvinOffset)
	}
	if p.Anomaly {
		primary = raster.AnomalyFromMean(primary)
	}

	var secondary *raster.Grid
	if p.SecondaryRedPath != "" {
		nir, err := src.Load(p.SecondaryPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading near-infrared band: %w", err)
		}
		red, err := src.Load(p.SecondaryRedPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading red band: %w", err)
		}
		secondary, err = raster.NormalizedDifference(nir, red)
		if err != nil {
			return nil, nil, fmt.Errorf("deriving vegetation index: %w", err)
		}
	} else {
		secondary, err = src.Load(p.SecondaryPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading secondary grid: %w", err)
		}
	}
	return primary, secondary, nil
}

func (p Params) predicate() Predicate {
	if p.Predicate != nil {
		return *p.Predicate
	}
	return DefaultPredicate(p.PrimaryThreshold, p.SecondaryThreshold)
}

func (p Params) valueKey() string {
	if p.ValueKey == "" {
		return DefaultValueKey
	}
	return p.ValueKey
}

// runMetadata assembles the metadata block attached to the output
// collection: run identity, thresholds, analysis window, grid
// resolution, and the mitigation advice fields.
func (p Params) runMetadata(primary *raster.Grid, count int) vector.Properties {
	clock := p.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	period := p.PeriodDays
	if period <= 0 {
		period = DefaultPeriodDays
	}
	dataSource := p.DataSource
	if dataSource == "" {
		dataSource = DefaultDataSource
	}
	dx, _ := primary.Transform.CellSize()

	meta := vector.Properties{
		{Key: "run_id", Value: uuid.NewString()},
		{Key: "generated_at", Value: clock.Now().UTC().Format(time.RFC3339)},
		{Key: "threshold", Value: p.PrimaryThreshold},
		{Key: "vegetation_threshold", Value: p.SecondaryThreshold},
		{Key: "period_days", Value: period},
		{Key: "resolution", Value: dx},
		{Key: "data_source", Value: dataSource},
		{Key: "hotspot_count", Value: count},
		{Key: "suggestion", Value: "urban_greening"},
		{Key: "priority", Value: "high"},
		{Key: "estimated_cooling", Value: "2-5°C"},
	}
	if lo, hi, ok := raster.MinMax(primary); ok {
		meta = append(meta,
			vector.Property{Key: "value_min", Value: lo},
			vector.Property{Key: "value_max", Value: hi})
	}
	for _, kv := range p.Metadata {
		meta.Set(kv.Key, kv.Value)
	}
	return meta
}
