package reader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const asciiTriangle = `solid test
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
endsolid test
`

func TestReadSTLFileParsesASCIITriangle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.stl")
	if err := os.WriteFile(path, []byte(asciiTriangle), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	m, err := ReadSTLFile(path)
	if err != nil {
		t.Fatalf("ReadSTLFile() error: %v", err)
	}
	if m.FaceCount() != 1 {
		t.Errorf("FaceCount() = %d, want 1", m.FaceCount())
	}
}

func TestReadSTLFileMissingFileWrapsError(t *testing.T) {
	_, err := ReadSTLFile(filepath.Join(t.TempDir(), "does-not-exist.stl"))
	if err == nil {
		t.Fatal("expected an error reading a nonexistent file")
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected a *ReadError, got %T: %v", err, err)
	}
}
