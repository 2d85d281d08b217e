// Package geometry provides triangle mesh construction and per-vertex
// attribute operations for the scene summary pipeline.
package geometry

import (
	"errors"

	"github.com/Faultbox/scenelog/pkg/math"
)

// ErrInvalidParam reports an invalid mesh construction parameter, such as
// a cylinder resolution below 3.
var ErrInvalidParam = errors.New("geometry: invalid construction parameter")

// TriangleMesh is an indexed triangle mesh with optional per-vertex
// attributes. Normals, Colors and UVs are either empty or have the same
// length as Positions.
type TriangleMesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Colors    []math.Vec3
	UVs       []math.Vec2
	Triangles [][3]uint32
}

// VertexCount returns the number of vertices.
func (m *TriangleMesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *TriangleMesh) TriangleCount() int {
	return len(m.Triangles)
}

// HasNormals reports whether the mesh carries vertex normals.
func (m *TriangleMesh) HasNormals() bool {
	return len(m.Normals) == len(m.Positions) && len(m.Positions) > 0
}

// HasColors reports whether the mesh carries vertex colors.
func (m *TriangleMesh) HasColors() bool {
	return len(m.Colors) == len(m.Positions) && len(m.Positions) > 0
}

// HasUVs reports whether the mesh carries texture coordinates.
func (m *TriangleMesh) HasUVs() bool {
	return len(m.UVs) == len(m.Positions) && len(m.Positions) > 0
}

// Clone returns a deep copy. Mutating the clone's attributes never
// affects the receiver.
func (m *TriangleMesh) Clone() *TriangleMesh {
	c := &TriangleMesh{}
	if m.Positions != nil {
		c.Positions = make([]math.Vec3, len(m.Positions))
		copy(c.Positions, m.Positions)
	}
	if m.Normals != nil {
		c.Normals = make([]math.Vec3, len(m.Normals))
		copy(c.Normals, m.Normals)
	}
	if m.Colors != nil {
		c.Colors = make([]math.Vec3, len(m.Colors))
		copy(c.Colors, m.Colors)
	}
	if m.UVs != nil {
		c.UVs = make([]math.Vec2, len(m.UVs))
		copy(c.UVs, m.UVs)
	}
	if m.Triangles != nil {
		c.Triangles = make([][3]uint32, len(m.Triangles))
		copy(c.Triangles, m.Triangles)
	}
	return c
}

// PaintUniformColor sets every vertex color to rgb. Only the receiver is
// mutated.
func (m *TriangleMesh) PaintUniformColor(rgb math.Vec3) {
	if len(m.Colors) != len(m.Positions) {
		m.Colors = make([]math.Vec3, len(m.Positions))
	}
	for i := range m.Colors {
		m.Colors[i] = rgb
	}
}

// ComputeVertexNormals recomputes vertex normals by accumulating
// area-weighted face normals. Degenerate triangles contribute nothing.
func (m *TriangleMesh) ComputeVertexNormals() {
	normals := make([]math.Vec3, len(m.Positions))
	for _, tri := range m.Triangles {
		a := m.Positions[tri[0]]
		b := m.Positions[tri[1]]
		c := m.Positions[tri[2]]
		// Cross product length is twice the face area, so summing the
		// raw cross products weights each face by its area.
		n := b.Sub(a).Cross(c.Sub(a))
		normals[tri[0]] = normals[tri[0]].Add(n)
		normals[tri[1]] = normals[tri[1]].Add(n)
		normals[tri[2]] = normals[tri[2]].Add(n)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	m.Normals = normals
}
