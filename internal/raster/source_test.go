package raster

import (
	"errors"
	"strings"
	"testing"

	"github.com/heatgrid-data/uhimap/internal/fsutil"
)

func TestFileSource_Load(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.Add("/data/lst.asc", []byte(sampleASC))
	mfs.Add("/data/lst.prj", []byte(testCRS+"\n"))

	src := FileSource{FS: mfs}
	g, err := src.Load("/data/lst.asc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.Width != 2 || g.Height != 2 {
		t.Errorf("shape = %dx%d, want 2x2", g.Width, g.Height)
	}
	if g.CRS != testCRS {
		t.Errorf("CRS = %q, want %q (trimmed sidecar)", g.CRS, testCRS)
	}
}

func TestFileSource_NotFound(t *testing.T) {
	src := FileSource{FS: fsutil.NewMemoryFileSystem()}

	_, err := src.Load("/data/absent.asc")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if nf.Path != "/data/absent.asc" {
		t.Errorf("error path = %q", nf.Path)
	}
}

func TestFileSource_MissingSidecar(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.Add("/data/lst.asc", []byte(sampleASC))

	_, err := FileSource{FS: mfs}.Load("/data/lst.asc")
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError for missing .prj, got %v", err)
	}
}

func TestFileSource_MalformedRaster(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.Add("/data/bad.asc", []byte("ncols 2\nnrows 2\n"))
	mfs.Add("/data/bad.prj", []byte(testCRS))

	_, err := FileSource{FS: mfs}.Load("/data/bad.asc")
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %v", err)
	}
	if fe.Path != "/data/bad.asc" {
		t.Errorf("format error must name the raster, got %q", fe.Path)
	}
}

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/data/lst.asc", "/data/lst.prj"},
		{"lst.asc", "lst.prj"},
		{"/data/noext", "/data/noext.prj"},
		{"/da.ta/noext", "/da.ta/noext.prj"},
	}
	for _, tc := range tests {
		if got := sidecarPath(tc.in, ".prj"); got != tc.want {
			t.Errorf("sidecarPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReaderSource(t *testing.T) {
	src := &ReaderSource{R: strings.NewReader(sampleASC), CRS: testCRS}

	g, err := src.Load("stream.asc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.Width != 2 || g.Height != 2 {
		t.Errorf("shape = %dx%d, want 2x2", g.Width, g.Height)
	}

	// The stream is spent, but repeat loads serve copies of the decode.
	again, err := src.Load("stream.asc")
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	again.Set(0, 0, -1)
	if g.At(0, 0) == -1 {
		t.Error("loads must be independent copies")
	}
}

func TestReaderSource_Malformed(t *testing.T) {
	src := &ReaderSource{R: strings.NewReader("ncols 2\nnrows 2\n"), CRS: testCRS}

	_, err := src.Load("stream.asc")
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %v", err)
	}
}

func TestMemorySource(t *testing.T) {
	g := mustGrid(t, 1, 1, NorthUp(0, 1, 1, 1), []float64{7})
	src := MemorySource{"lst": g}

	got, err := src.Load("lst")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Equal(g) {
		t.Error("loaded grid must equal the stored grid")
	}
	got.Set(0, 0, 99)
	if g.At(0, 0) != 7 {
		t.Error("Load must return a copy")
	}

	if _, err := src.Load("ndvi"); err == nil {
		t.Error("expected NotFoundError for unknown key")
	}
}
