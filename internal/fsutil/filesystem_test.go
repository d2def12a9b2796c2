package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	osfs := OSFileSystem{}

	if !osfs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if osfs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_ReadFile(t *testing.T) {
	osfs := OSFileSystem{}

	data, err := osfs.ReadFile("filesystem.go")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if len(data) == 0 {
		t.Error("expected non-empty file content")
	}
}

func TestMemoryFileSystem_AddAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("ncols 2\nnrows 1\n")
	mfs.Add("/grid.asc", testData)

	data, err := mfs.ReadFile("/grid.asc")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}
}

func TestMemoryFileSystem_AddCopiesData(t *testing.T) {
	mfs := NewMemoryFileSystem()

	data := []byte("original")
	mfs.Add("/f", data)
	data[0] = 'X'

	got, err := mfs.ReadFile("/f")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("Add must copy its input, got %q", got)
	}
}

func TestMemoryFileSystem_Open(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.Add("/stream.txt", []byte("streamed content"))

	f, err := mfs.Open("/stream.txt")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "streamed content" {
		t.Errorf("expected streamed content, got %q", data)
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != int64(len(data)) {
		t.Errorf("Size() = %d, want %d", info.Size(), len(data))
	}
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if mfs.Exists("/absent") {
		t.Error("expected /absent to not exist")
	}

	if _, err := mfs.Open("/absent"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open: expected fs.ErrNotExist, got %v", err)
	}
	if _, err := mfs.ReadFile("/absent"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile: expected fs.ErrNotExist, got %v", err)
	}
	if _, err := mfs.Stat("/absent"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat: expected fs.ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_CleansPaths(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.Add("/dir/../grid.asc", []byte("x"))

	if !mfs.Exists("/grid.asc") {
		t.Error("expected cleaned path to resolve")
	}
}
