package raster

import "fmt"

// Mask is a boolean grid with the same shape as the pair of aligned
// grids it was derived from. Cells are stored as a flat row-major slice.
type Mask struct {
	Width  int
	Height int
	cells  []bool
}

// NewMask allocates an all-false mask.
func NewMask(width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid mask dimensions %dx%d", width, height)
	}
	return &Mask{
		Width:  width,
		Height: height,
		cells:  make([]bool, width*height),
	}, nil
}

// At reports the cell at (row, col). Out-of-range cells are false.
func (m *Mask) At(row, col int) bool {
	if row < 0 || row >= m.Height || col < 0 || col >= m.Width {
		return false
	}
	return m.cells[row*m.Width+col]
}

// Set stores a cell value.
func (m *Mask) Set(row, col int, v bool) {
	m.cells[row*m.Width+col] = v
}

// Count returns the number of true cells.
func (m *Mask) Count() int {
	n := 0
	for _, c := range m.cells {
		if c {
			n++
		}
	}
	return n
}

// Equal reports whether two masks have identical shape and cells.
func (m *Mask) Equal(o *Mask) bool {
	if m.Width != o.Width || m.Height != o.Height {
		return false
	}
	for i, c := range m.cells {
		if c != o.cells[i] {
			return false
		}
	}
	return true
}
