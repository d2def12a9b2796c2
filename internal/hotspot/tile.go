package hotspot

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/heatgrid-data/uhimap/internal/raster"
	"github.com/heatgrid-data/uhimap/internal/vector"
)

// ComputeTiled runs the same pipeline as Compute but splits the primary
// grid into horizontal bands of at most tileRows rows and processes the
// bands concurrently. Bands are aligned, masked, and vectorized
// independently; results are concatenated in band order, so feature
// order matches the untiled run exactly. Simplification, clipping, and
// metadata wrapping happen once over the combined features.
//
// tileRows <= 0 or a single-band grid falls through to Compute.
// Cancelling ctx abandons unstarted bands and returns ctx's error.
func ComputeTiled(ctx context.Context, p Params, tileRows int) (*vector.FeatureCollection, error) {
	if tileRows <= 0 {
		return Compute(p)
	}

	src := p.Source
	if src == nil {
		src = raster.FileSource{}
	}

	primary, secondary, err := p.loadGrids(src)
	if err != nil {
		return nil, err
	}
	if primary.Height <= tileRows {
		return Compute(p)
	}

	// The whole-grid overlap check runs up front so a pair of disjoint
	// inputs fails the same way the untiled path does, even when every
	// individual band would simply come up empty.
	overlap, err := raster.Overlap(primary, secondary)
	if err != nil {
		return nil, fmt.Errorf("aligning grids: %w", err)
	}
	if !overlap {
		return nil, fmt.Errorf("aligning grids: %w",
			&raster.AlignmentError{Reason: "extents do not overlap"})
	}

	pred := p.predicate()
	valueKey := p.valueKey()
	nBands := (primary.Height + tileRows - 1) / tileRows
	bands := make([][]*vector.Feature, nBands)

	// When the two grids share layout the untiled path pairs them as-is,
	// so the bands must too. Resampling a band against the full secondary
	// would reintroduce edge effects the exact pairing does not have.
	sameLayout := primary.CRS == secondary.CRS &&
		primary.Transform.Equal(secondary.Transform) &&
		primary.Width == secondary.Width &&
		primary.Height == secondary.Height

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < nBands; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r0 := i * tileRows
			r1 := min(r0+tileRows, primary.Height)
			band, err := primary.RowBand(r0, r1)
			if err != nil {
				return err
			}
			var pair raster.AlignedPair
			if sameLayout {
				sband, err := secondary.RowBand(r0, r1)
				if err != nil {
					return err
				}
				pair = raster.AlignedPair{Primary: band, Secondary: sband}
			} else {
				pair, err = raster.Align(band, secondary)
				if err != nil {
					// A band wholly outside the secondary extent has no
					// valid samples and therefore no features.
					var ae *raster.AlignmentError
					if errors.As(err, &ae) {
						return nil
					}
					return err
				}
			}
			mask, err := BuildMask(pair, pred)
			if err != nil {
				return err
			}
			feats, err := vector.Vectorize(pair.Primary, mask, p.Mode, valueKey)
			if err != nil {
				return err
			}
			bands[i] = feats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var feats []*vector.Feature
	for _, b := range bands {
		feats = append(feats, b...)
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
