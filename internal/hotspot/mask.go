package hotspot

import (
	"fmt"

	"github.com/heatgrid-data/uhimap/internal/raster"
)

// BuildMask evaluates pred at every cell of the aligned pair. Cells
// where either grid is nodata never match. A mask with no true cells is
// a valid result, not an error.
func BuildMask(pair raster.AlignedPair, pred Predicate) (*raster.Mask, error) {
	p, s := pair.Primary, pair.Secondary
	if p == nil || s == nil {
		return nil, fmt.Errorf("aligned pair is incomplete")
	}
	if p.Width != s.Width || p.Height != s.Height {
		return nil, &raster.AlignmentError{Reason: fmt.Sprintf(
			"grid shapes differ (%dx%d vs %dx%d)", p.Width, p.Height, s.Width, s.Height)}
	}

	mask, err := raster.NewMask(p.Width, p.Height)
	if err != nil {
		return nil, err
	}
	for r := 0; r < p.Height; r++ {
		for c := 0; c < p.Width; c++ {
			pv, ok := p.Value(r, c)
			if !ok {
				continue
			}
			sv, ok := s.Value(r, c)
			if !ok {
				continue
			}
			if pred.Evaluate(pv, sv) {
				mask.Set(r, c, true)
			}
		}
	}
	return mask, nil
}
