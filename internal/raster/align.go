package raster

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// AlignedPair holds two grids guaranteed to share width, height,
// transform, and CRS, so that cell (r, c) of both refers to the same
// ground cell.
type AlignedPair struct {
	Primary   *Grid
	Secondary *Grid
}

// Align resamples secondary onto primary's exact pixel layout.
//
// When the two grids already share CRS, transform, and shape they are
// returned unchanged; no resampling error is introduced. Otherwise every
// primary cell centre is mapped into secondary's pixel space (through a
// CRS transform when the systems differ) and sampled bilinearly from the
// enclosing source cells. Cells that fall outside secondary's extent,
// or whose contributing samples include a nodata cell, come out as NaN,
// which downstream code treats as nodata.
//
// Align fails with *AlignmentError when the two extents do not overlap
// at all, and with *ProjectionError when either CRS cannot be resolved.
func Align(primary, secondary *Grid) (AlignedPair, error) {
	if primary.CRS == secondary.CRS &&
		primary.Transform.Equal(secondary.Transform) &&
		primary.Width == secondary.Width &&
		primary.Height == secondary.Height {
		return AlignedPair{Primary: primary, Secondary: secondary}, nil
	}

	tr, err := crsTransform(primary.CRS, secondary.CRS)
	if err != nil {
		return AlignedPair{}, err
	}

	primaryExtent, err := extentOfCorners(primary.Transform, primary.Width, primary.Height, tr)
	if err != nil {
		return AlignedPair{}, &ProjectionError{CRS: secondary.CRS, Err: err}
	}
	secondaryExtent := secondary.Extent()
	if !primaryExtent.Intersects(secondaryExtent) {
		return AlignedPair{}, &AlignmentError{Reason: fmt.Sprintf(
			"extents do not overlap (primary [%g %g %g %g], secondary [%g %g %g %g])",
			primaryExtent.MinX, primaryExtent.MinY, primaryExtent.MaxX, primaryExtent.MaxY,
			secondaryExtent.MinX, secondaryExtent.MinY, secondaryExtent.MaxX, secondaryExtent.MaxY)}
	}

	inv, ok := secondary.Transform.Invert()
	if !ok {
		return AlignedPair{}, &FormatError{Reason: "secondary grid has a degenerate transform"}
	}

	out, err := NewGrid(primary.Width, primary.Height, primary.Transform, primary.CRS)
	if err != nil {
		return AlignedPair{}, err
	}

	for r := 0; r < primary.Height; r++ {
		for c := 0; c < primary.Width; c++ {
			x, y := primary.Transform.Apply(float64(c)+0.5, float64(r)+0.5)
			if tr != nil {
				pt, err := geom.Point{X: x, Y: y}.Transform(tr)
				if err != nil {
					out.Set(r, c, math.NaN())
					continue
				}
				p := pt.(geom.Point)
				x, y = p.X, p.Y
			}
			// The inverse affine maps CRS coordinates back to
			// fractional pixel coordinates of the secondary grid.
			col, row := inv.Apply(x, y)
			v, ok := bilinearSample(secondary, col, row)
			if !ok {
				out.Set(r, c, math.NaN())
				continue
			}
			out.Set(r, c, v)
		}
	}

	return AlignedPair{Primary: primary, Secondary: out}, nil
}

// Overlap reports whether the extents of the two grids intersect,
// mapping primary's corners into secondary's CRS when they differ.
func Overlap(primary, secondary *Grid) (bool, error) {
	tr, err := crsTransform(primary.CRS, secondary.CRS)
	if err != nil {
		return false, err
	}
	primaryExtent, err := extentOfCorners(primary.Transform, primary.Width, primary.Height, tr)
	if err != nil {
		return false, &ProjectionError{CRS: secondary.CRS, Err: err}
	}
	return primaryExtent.Intersects(secondary.Extent()), nil
}

// crsTransform builds a transformer from srcCRS to dstCRS. Equal CRS
// strings yield a nil transformer, meaning no reprojection is needed.
func crsTransform(srcCRS, dstCRS string) (proj.Transformer, error) {
	if srcCRS == dstCRS {
		return nil, nil
	}
	src, err := proj.Parse(srcCRS)
	if err != nil {
		return nil, &ProjectionError{CRS: srcCRS, Err: err}
	}
	dst, err := proj.Parse(dstCRS)
	if err != nil {
		return nil, &ProjectionError{CRS: dstCRS, Err: err}
	}
	tr, err := src.NewTransform(dst)
	if err != nil {
		return nil, &ProjectionError{CRS: dstCRS, Err: err}
	}
	return tr, nil
}

// bilinearSample interpolates the grid at fractional pixel coordinates
// (col, row). Sample values live at cell centres; every centre that
// contributes a non-zero weight must exist and be valid, otherwise ok is
// false. Zero-weight neighbours are skipped entirely: a point landing
// exactly on the centre lattice of the last row or column has phantom
// neighbours past the grid edge, and those must not veto the sample.
func bilinearSample(g *Grid, col, row float64) (v float64, ok bool) {
	u := col - 0.5
	w := row - 0.5
	c0 := math.Floor(u)
	r0 := math.Floor(w)
	fc := u - c0
	fr := w - r0
	ci := int(c0)
	ri := int(r0)

	neighbors := [4]struct {
		row, col int
		weight   float64
	}{
		{ri, ci, (1 - fc) * (1 - fr)},
		{ri, ci + 1, fc * (1 - fr)},
		{ri + 1, ci, (1 - fc) * fr},
		{ri + 1, ci + 1, fc * fr},
	}

	var sum float64
	for _, n := range neighbors {
		if n.weight == 0 {
			continue
		}
		nv, valid := g.Value(n.row, n.col)
		if !valid {
			return 0, false
		}
		sum += nv * n.weight
	}
	return sum, true
}

// extentOfCorners maps the four pixel corners of a width x height grid
// through the transform, then through tr when non-nil, and returns the
// bounding box of the results.
func extentOfCorners(a Affine, width, height int, tr proj.Transformer) (Extent, error) {
	corners := [4][2]float64{
		{0, 0},
		{float64(width), 0},
		{0, float64(height)},
		{float64(width), float64(height)},
	}
	e := Extent{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, cr := range corners {
		x, y := a.Apply(cr[0], cr[1])
		if tr != nil {
			pt, err := geom.Point{X: x, Y: y}.Transform(tr)
			if err != nil {
				return Extent{}, err
			}
			p := pt.(geom.Point)
			x, y = p.X, p.Y
		}
		e.MinX = math.Min(e.MinX, x)
		e.MinY = math.Min(e.MinY, y)
		e.MaxX = math.Max(e.MaxX, x)
		e.MaxY = math.Max(e.MaxY, y)
	}
	return e, nil
}
