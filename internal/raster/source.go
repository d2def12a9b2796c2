package raster

import (
	"io"
	"strings"

	"github.com/heatgrid-data/uhimap/internal/fsutil"
)

// Source opens a stored raster into a Grid. Any backend that can produce
// a Grid is interchangeable: local files here, an in-memory set for
// tests, or a remote-API backend supplied by an enclosing service
// (fetching itself is out of scope for this module).
type Source interface {
	Load(path string) (*Grid, error)
}

// FileSource loads ESRI ASCII grids from a filesystem. The CRS comes
// from a .prj sidecar next to the raster, holding a PROJ.4 string; a
// raster without one fails with *FormatError, since a grid without CRS
// metadata cannot enter the pipeline.
type FileSource struct {
	// FS defaults to the OS filesystem when nil.
	FS fsutil.FileSystem
}

// Load reads the raster at path. The file handle is released before Load
// returns on every path, success or failure.
func (s FileSource) Load(path string) (*Grid, error) {
	fsys := s.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}

	if !fsys.Exists(path) {
		return nil, &NotFoundError{Path: path}
	}

	crs, err := readPRJSidecar(fsys, path)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	g, err := DecodeASCIIGrid(f, crs)
	if err != nil {
		if fe, ok := err.(*FormatError); ok {
			fe.Path = path
			return nil, fe
		}
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}
	return g, nil
}

func readPRJSidecar(fsys fsutil.FileSystem, path string) (string, error) {
	prjPath := sidecarPath(path, ".prj")
	if !fsys.Exists(prjPath) {
		return "", &FormatError{Path: path, Reason: "missing .prj sidecar (CRS metadata required)"}
	}
	data, err := fsys.ReadFile(prjPath)
	if err != nil {
		return "", &FormatError{Path: path, Reason: "reading .prj sidecar: " + err.Error()}
	}
	crs := strings.TrimSpace(string(data))
	if crs == "" {
		return "", &FormatError{Path: path, Reason: "empty .prj sidecar"}
	}
	return crs, nil
}

func sidecarPath(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexAny(path, `/\`) {
		return path[:i] + ext
	}
	return path + ext
}

// ReaderSource decodes a single grid from a pre-opened stream, the seam
// a remote-backend caller plugs into when the bytes are already in hand.
// The stream is consumed on the first Load; later calls return copies of
// the decoded grid regardless of path.
type ReaderSource struct {
	R   io.Reader
	CRS string

	grid *Grid
}

// Load decodes the stream on first use and returns a copy of the grid.
func (s *ReaderSource) Load(path string) (*Grid, error) {
	if s.grid == nil {
		g, err := DecodeASCIIGrid(s.R, s.CRS)
		if err != nil {
			if fe, ok := err.(*FormatError); ok {
				fe.Path = path
				return nil, fe
			}
			return nil, &FormatError{Path: path, Reason: err.Error()}
		}
		s.grid = g
	}
	return s.grid.Clone(), nil
}

// MemorySource serves pre-built grids keyed by path. It stands in for a
// remote-API backend in tests and for callers that already hold decoded
// grids.
type MemorySource map[string]*Grid

// Load returns a copy of the grid stored under path, or *NotFoundError.
func (s MemorySource) Load(path string) (*Grid, error) {
	g, ok := s[path]
	if !ok {
		return nil, &NotFoundError{Path: path}
	}
	return g.Clone(), nil
}
