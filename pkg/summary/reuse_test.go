package summary

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Faultbox/scenelog/pkg/geometry"
)

func cubeFrame(t *testing.T, step int) *Frame {
	t.Helper()
	m, err := geometry.NewBox(1, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	m.ComputeVertexNormals()
	f, err := BatchMeshes([]*geometry.TriangleMesh{m})
	if err != nil {
		t.Fatal(err)
	}
	f.Track = "cube"
	f.Step = step
	return f
}

func TestApplyRecordsBaselineAtStepZero(t *testing.T) {
	b := NewBaselines()
	f0 := cubeFrame(t, 0)
	got, err := b.Apply(f0)
	if err != nil {
		t.Fatalf("Apply(step 0) error: %v", err)
	}
	if got != f0 {
		t.Error("Apply(step 0) did not return the frame unchanged")
	}
	if _, ok := got.Positions.(Vec3Batch); !ok {
		t.Error("step-0 frame lost its concrete positions")
	}
}

func TestApplyMarksLaterSteps(t *testing.T) {
	b := NewBaselines()
	if _, err := b.Apply(cubeFrame(t, 0)); err != nil {
		t.Fatal(err)
	}
	f1 := cubeFrame(t, 1)
	got, err := b.Apply(f1)
	if err != nil {
		t.Fatalf("Apply(step 1) error: %v", err)
	}
	if _, ok := got.Positions.(ReuseLast); !ok {
		t.Error("step-1 positions are not the reuse marker")
	}
	if _, ok := got.Normals.(ReuseLast); !ok {
		t.Error("step-1 normals are not the reuse marker")
	}
	// The input frame must be untouched.
	if _, ok := f1.Positions.(Vec3Batch); !ok {
		t.Error("Apply mutated the input frame")
	}
}

func TestApplyWithoutBaselineFails(t *testing.T) {
	b := NewBaselines()
	_, err := b.Apply(cubeFrame(t, 1))
	if !errors.Is(err, ErrMissingBaseline) {
		t.Fatalf("Apply(step 1, no baseline) error = %v, want ErrMissingBaseline", err)
	}
}

func TestApplyStepZeroWithoutNormalsFails(t *testing.T) {
	b := NewBaselines()
	f := cubeFrame(t, 0)
	f.Normals = nil
	if _, err := b.Apply(f); !errors.Is(err, ErrMissingBaseline) {
		t.Fatalf("Apply(step 0 without normals) error = %v, want ErrMissingBaseline", err)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	b := NewBaselines()
	f0 := cubeFrame(t, 0)
	p0 := f0.Positions.(Vec3Batch)
	if _, err := b.Apply(f0); err != nil {
		t.Fatal(err)
	}
	marked, err := b.Apply(cubeFrame(t, 1))
	if err != nil {
		t.Fatal(err)
	}

	resolved, err := b.Resolve(marked)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !reflect.DeepEqual(resolved.Positions, p0) {
		t.Error("resolved positions differ from the step-0 baseline")
	}
	// Resolving an already resolved frame is a no-op.
	again, err := b.Resolve(resolved)
	if err != nil {
		t.Fatalf("Resolve(resolved) error: %v", err)
	}
	if !reflect.DeepEqual(again.Positions, p0) {
		t.Error("second resolve changed the positions")
	}
}

func TestResolveWithoutBaselineFails(t *testing.T) {
	b := NewBaselines()
	f := cubeFrame(t, 1)
	f.Positions = ReuseLast{}
	f.Normals = ReuseLast{}
	if _, err := b.Resolve(f); !errors.Is(err, ErrMissingBaseline) {
		t.Fatalf("Resolve(no baseline) error = %v, want ErrMissingBaseline", err)
	}
}

func TestBaselinesPerTrack(t *testing.T) {
	b := NewBaselines()
	if _, err := b.Apply(cubeFrame(t, 0)); err != nil {
		t.Fatal(err)
	}
	other := cubeFrame(t, 1)
	other.Track = "cylinder"
	if _, err := b.Apply(other); !errors.Is(err, ErrMissingBaseline) {
		t.Fatalf("baseline leaked across tracks: err = %v", err)
	}
}
