package raster

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// The on-disk raster encoding is the ESRI ASCII grid: a short textual
// header (ncols, nrows, corner coordinates, cellsize, optional
// NODATA_value) followed by row-major samples, first row northmost.
// Georeferencing is completed by a PROJ.4 string, carried out of band
// (a .prj sidecar for files).

const maxASCIIGridTokens = 64 * 1024 * 1024

// DecodeASCIIGrid reads an ESRI ASCII grid from r and attaches the given
// CRS. The returned errors describe header or sample problems; callers
// that know the file path wrap them in a *FormatError.
func DecodeASCIIGrid(r io.Reader, crs string) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	sc.Split(bufio.ScanWords)

	hdr := map[string]float64{}
	var firstSample string
	for firstSample == "" {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("truncated header")
		}
		tok := sc.Text()
		switch key := strings.ToLower(tok); key {
		case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize", "nodata_value":
			if !sc.Scan() {
				return nil, fmt.Errorf("header key %s has no value", key)
			}
			v, err := strconv.ParseFloat(sc.Text(), 64)
			if err != nil {
				return nil, fmt.Errorf("header key %s: bad value %q", key, sc.Text())
			}
			hdr[key] = v
		default:
			// First bare number ends the header and is the first sample.
			firstSample = tok
		}
	}

	ncols, ok := hdr["ncols"]
	if !ok {
		return nil, fmt.Errorf("header missing ncols")
	}
	nrows, ok := hdr["nrows"]
	if !ok {
		return nil, fmt.Errorf("header missing nrows")
	}
	cellsize, ok := hdr["cellsize"]
	if !ok {
		return nil, fmt.Errorf("header missing cellsize")
	}
	width := int(ncols)
	height := int(nrows)
	if width <= 0 || height <= 0 || float64(width) != ncols || float64(height) != nrows {
		return nil, fmt.Errorf("invalid dimensions %gx%g", ncols, nrows)
	}
	if cellsize <= 0 || math.IsNaN(cellsize) || math.IsInf(cellsize, 0) {
		return nil, fmt.Errorf("invalid cellsize %g", cellsize)
	}
	if width*height > maxASCIIGridTokens {
		return nil, fmt.Errorf("grid too large: %dx%d", width, height)
	}

	xll, xok := hdr["xllcorner"]
	if !xok {
		if xc, ok := hdr["xllcenter"]; ok {
			xll, xok = xc-cellsize/2, true
		}
	}
	yll, yok := hdr["yllcorner"]
	if !yok {
		if yc, ok := hdr["yllcenter"]; ok {
			yll, yok = yc-cellsize/2, true
		}
	}
	if !xok || !yok {
		return nil, fmt.Errorf("header missing corner coordinates")
	}

	// The header anchors the lower-left corner; rows in the file run
	// north to south, so the transform hangs off the upper-left.
	transform := NorthUp(xll, yll+float64(height)*cellsize, cellsize, cellsize)

	g, err := NewGrid(width, height, transform, crs)
	if err != nil {
		return nil, err
	}
	if nd, ok := hdr["nodata_value"]; ok {
		g.SetNoData(nd)
	}

	token := firstSample
	for i := 0; i < width*height; i++ {
		if i > 0 {
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return nil, err
				}
				return nil, fmt.Errorf("truncated samples: got %d, want %d", i, width*height)
			}
			token = sc.Text()
		}
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("sample %d: bad value %q", i, token)
		}
		g.Set(i/width, i%width, v)
	}
	if sc.Scan() {
		return nil, fmt.Errorf("trailing data after %d samples", width*height)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// EncodeASCIIGrid writes the grid in ESRI ASCII form. Grids with rotated
// or non-square transforms cannot be represented and are rejected.
func EncodeASCIIGrid(w io.Writer, g *Grid) error {
	t := g.Transform
	if t.B != 0 || t.D != 0 {
		return fmt.Errorf("ascii grid cannot represent a rotated transform")
	}
	if t.A <= 0 || t.E >= 0 || t.A != -t.E {
		return fmt.Errorf("ascii grid requires square north-up cells, got %g x %g", t.A, t.E)
	}
	cellsize := t.A
	yll := t.F - float64(g.Height)*cellsize

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", g.Width)
	fmt.Fprintf(bw, "nrows %d\n", g.Height)
	fmt.Fprintf(bw, "xllcorner %g\n", t.C)
	fmt.Fprintf(bw, "yllcorner %g\n", yll)
	fmt.Fprintf(bw, "cellsize %g\n", cellsize)
	if nd, ok := g.NoData(); ok {
		fmt.Fprintf(bw, "NODATA_value %g\n", nd)
	}
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if c > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%g", g.At(r, c))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
