// Package summary builds step-indexed 3D scene frames and hands them to
// a sink for persistence. A frame belongs to a named track, carries a
// batch of geometry instances, and may mark per-vertex properties as
// unchanged since the previous step instead of repeating them.
package summary

import (
	"errors"
	"fmt"
	"image"

	"github.com/Faultbox/scenelog/pkg/geometry"
	"github.com/Faultbox/scenelog/pkg/math"
)

var (
	// ErrEmptyBatch reports a frame batch with no geometry instances.
	ErrEmptyBatch = errors.New("summary: empty batch")

	// ErrHeterogeneousBatch reports a batch whose instances cannot be
	// stacked into one tensor per property.
	ErrHeterogeneousBatch = errors.New("summary: heterogeneous batch")

	// ErrMissingBaseline reports a reuse marker for a track that never
	// recorded a concrete value for the property.
	ErrMissingBaseline = errors.New("summary: missing property baseline")
)

// PropertyValue is a frame property: either a concrete batched tensor
// (Vec3Batch, Vec2Batch, IndexBatch) or the ReuseLast marker standing in
// for "identical to the last concrete value on this track".
type PropertyValue interface {
	isPropertyValue()
}

// Vec3Batch holds one slice of 3-vectors per batch instance. Used for
// vertex positions, normals and colors.
type Vec3Batch [][]math.Vec3

// Vec2Batch holds one slice of 2-vectors per batch instance. Used for
// texture UV coordinates.
type Vec2Batch [][]math.Vec2

// IndexBatch holds one slice of triangle index triples per batch
// instance.
type IndexBatch [][][3]uint32

// ReuseLast marks a property as identical to the last concretely
// specified value for the same track.
type ReuseLast struct{}

func (Vec3Batch) isPropertyValue()  {}
func (Vec2Batch) isPropertyValue()  {}
func (IndexBatch) isPropertyValue() {}
func (ReuseLast) isPropertyValue()  {}

// Material describes the shading of a frame's geometry: a shading model
// name, scalar and vector shader properties, and texture images keyed by
// channel name (albedo, normal, ao, metallic, roughness).
type Material struct {
	Name             string
	ScalarProperties map[string]float32
	VectorProperties map[string][]float32
	TextureMaps      map[string]image.Image
}

// NewMaterial returns an empty material for the given shading model.
func NewMaterial(name string) *Material {
	return &Material{
		Name:             name,
		ScalarProperties: map[string]float32{},
		VectorProperties: map[string][]float32{},
		TextureMaps:      map[string]image.Image{},
	}
}

// Frame is one (track, step) unit of visualization data. Property fields
// are nil when absent; present fields hold either a concrete batch or
// the ReuseLast marker.
type Frame struct {
	Track string
	Step  int

	// MaxOutputs caps how many batch instances the sink persists.
	// Zero means no cap.
	MaxOutputs int

	Positions PropertyValue
	Normals   PropertyValue
	Colors    PropertyValue
	Indices   PropertyValue
	UVs       PropertyValue
	Material  *Material
}

// BatchLen returns the number of instances in the frame's batch, taken
// from the first concrete property, or 0 if every property is absent or
// a reuse marker.
func (f *Frame) BatchLen() int {
	for _, p := range []PropertyValue{f.Positions, f.Normals, f.Colors, f.Indices, f.UVs} {
		switch v := p.(type) {
		case Vec3Batch:
			return len(v)
		case Vec2Batch:
			return len(v)
		case IndexBatch:
			return len(v)
		}
	}
	return 0
}

// BatchMeshes stacks a batch of meshes into a frame, one tensor per
// property. Track, Step and MaxOutputs are left for the caller to fill
// in. All meshes must agree on vertex count, triangle count and the
// presence pattern of optional attributes.
func BatchMeshes(meshes []*geometry.TriangleMesh) (*Frame, error) {
	if len(meshes) == 0 {
		return nil, ErrEmptyBatch
	}
	first := meshes[0]
	for i, m := range meshes[1:] {
		if m.VertexCount() != first.VertexCount() || m.TriangleCount() != first.TriangleCount() {
			return nil, fmt.Errorf("%w: instance %d has %d vertices / %d triangles, instance 0 has %d / %d",
				ErrHeterogeneousBatch, i+1, m.VertexCount(), m.TriangleCount(), first.VertexCount(), first.TriangleCount())
		}
		if m.HasNormals() != first.HasNormals() || m.HasColors() != first.HasColors() || m.HasUVs() != first.HasUVs() {
			return nil, fmt.Errorf("%w: instance %d attribute presence differs from instance 0", ErrHeterogeneousBatch, i+1)
		}
	}

	f := &Frame{}
	positions := make(Vec3Batch, len(meshes))
	indices := make(IndexBatch, len(meshes))
	for i, m := range meshes {
		positions[i] = m.Positions
		indices[i] = m.Triangles
	}
	f.Positions = positions
	if len(first.Triangles) > 0 {
		f.Indices = indices
	}
	if first.HasNormals() {
		normals := make(Vec3Batch, len(meshes))
		for i, m := range meshes {
			normals[i] = m.Normals
		}
		f.Normals = normals
	}
	if first.HasColors() {
		colors := make(Vec3Batch, len(meshes))
		for i, m := range meshes {
			colors[i] = m.Colors
		}
		f.Colors = colors
	}
	if first.HasUVs() {
		uvs := make(Vec2Batch, len(meshes))
		for i, m := range meshes {
			uvs[i] = m.UVs
		}
		f.UVs = uvs
	}
	return f, nil
}
