package summary

import (
	"errors"
	"testing"

	"github.com/Faultbox/scenelog/pkg/geometry"
	"github.com/Faultbox/scenelog/pkg/math"
)

func TestBatchMeshesEmpty(t *testing.T) {
	if _, err := BatchMeshes(nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("BatchMeshes(nil) error = %v, want ErrEmptyBatch", err)
	}
}

func TestBatchMeshesFields(t *testing.T) {
	m, err := geometry.NewBox(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	m.ComputeVertexNormals()
	m.PaintUniformColor(math.Vec3{X: 1})

	f, err := BatchMeshes([]*geometry.TriangleMesh{m, m.Clone()})
	if err != nil {
		t.Fatalf("BatchMeshes() error: %v", err)
	}
	if f.BatchLen() != 2 {
		t.Errorf("BatchLen() = %d, want 2", f.BatchLen())
	}
	if _, ok := f.Positions.(Vec3Batch); !ok {
		t.Error("positions missing")
	}
	if _, ok := f.Normals.(Vec3Batch); !ok {
		t.Error("normals missing")
	}
	if _, ok := f.Colors.(Vec3Batch); !ok {
		t.Error("colors missing")
	}
	if _, ok := f.Indices.(IndexBatch); !ok {
		t.Error("indices missing")
	}
	if f.UVs != nil {
		t.Error("unexpected UVs on a box without texture coordinates")
	}
}

func TestBatchMeshesHeterogeneousSize(t *testing.T) {
	box, err := geometry.NewBox(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	cyl, err := geometry.NewCylinder(1, 2, 20, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BatchMeshes([]*geometry.TriangleMesh{box, cyl}); !errors.Is(err, ErrHeterogeneousBatch) {
		t.Fatalf("mixed batch error = %v, want ErrHeterogeneousBatch", err)
	}
}

func TestBatchMeshesHeterogeneousAttributes(t *testing.T) {
	a, err := geometry.NewBox(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	b := a.Clone()
	a.ComputeVertexNormals()
	if _, err := BatchMeshes([]*geometry.TriangleMesh{a, b}); !errors.Is(err, ErrHeterogeneousBatch) {
		t.Fatalf("mixed attribute batch error = %v, want ErrHeterogeneousBatch", err)
	}
}

func TestFrameBatchLenAllMarkers(t *testing.T) {
	f := &Frame{Positions: ReuseLast{}, Normals: ReuseLast{}}
	if f.BatchLen() != 0 {
		t.Errorf("BatchLen() = %d for marker-only frame, want 0", f.BatchLen())
	}
}
