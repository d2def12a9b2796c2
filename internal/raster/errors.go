package raster

import "fmt"

// NotFoundError reports that a referenced raster file does not exist.
// It is propagated to the caller untouched and never retried.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("raster %q: not found", e.Path)
}

// FormatError reports a raster that cannot be decoded as a single-band
// grid, or whose transform/CRS metadata is absent or degenerate.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("raster format: %s", e.Reason)
	}
	return fmt.Sprintf("raster %q: %s", e.Path, e.Reason)
}

// AlignmentError reports that two grids' spatial extents do not overlap
// at all. It is distinct from an empty mask, which is a valid result.
type AlignmentError struct {
	Reason string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("grid alignment: %s", e.Reason)
}

// ProjectionError reports a coordinate reference system that cannot be
// resolved or transformed.
type ProjectionError struct {
	CRS string
	Err error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection %q: %v", e.CRS, e.Err)
}

func (e *ProjectionError) Unwrap() error {
	return e.Err
}
