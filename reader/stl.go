// Package reader is the external-collaborator boundary of spec.md §6:
// it decodes the (out-of-core) triangle mesh file formats into the
// triangle soup mesh.NewFromTriangleSoup expects, and is the only
// package in this module allowed to depend on a file-format codec.
package reader

import (
	"fmt"

	"github.com/hschendel/stl"

	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/mesh"
)

// ReadError is returned when a file's magic or declared size does not
// match either STL variant (spec.md §4.1 "Failure model").
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reader: %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ReadSTLFile decodes a binary or ASCII STL file (spec.md §6) and
// builds a TriangleMesh from its triangle soup. The file is not
// repaired here; callers run mesh.TriangleMesh.Repair before slicing.
func ReadSTLFile(path string) (*mesh.TriangleMesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	soup := make([][3]geom.Pointf3, len(solid.Triangles))
	for i, t := range solid.Triangles {
		for j, v := range t.Vertices {
			soup[i][j] = geom.Pointf3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
		}
	}

	const defaultMergeTolerance = 1e-6
	return mesh.NewFromTriangleSoup(soup, defaultMergeTolerance), nil
}
