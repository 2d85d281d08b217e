package geometry

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/scenelog/pkg/math"
)

// NewBox creates an axis-aligned box with one corner at the origin and
// the opposite corner at (w, h, d).
func NewBox(w, h, d float32) (*TriangleMesh, error) {
	if w <= 0 || h <= 0 || d <= 0 {
		return nil, fmt.Errorf("%w: box dimensions (%g, %g, %g) must be positive", ErrInvalidParam, w, h, d)
	}
	m := &TriangleMesh{
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: w, Y: 0, Z: 0},
			{X: 0, Y: 0, Z: d},
			{X: w, Y: 0, Z: d},
			{X: 0, Y: h, Z: 0},
			{X: w, Y: h, Z: 0},
			{X: 0, Y: h, Z: d},
			{X: w, Y: h, Z: d},
		},
		Triangles: [][3]uint32{
			{4, 7, 5}, {4, 6, 7}, {0, 2, 4}, {2, 6, 4},
			{0, 1, 2}, {1, 3, 2}, {1, 5, 7}, {1, 7, 3},
			{2, 3, 7}, {2, 7, 6}, {0, 4, 1}, {1, 4, 5},
		},
	}
	return m, nil
}

// NewCylinder creates a capped cylinder centered on the origin with its
// axis along Z. resolution is the number of angular segments, split the
// number of segments along the height.
func NewCylinder(radius, height float32, resolution, split int) (*TriangleMesh, error) {
	if radius <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: cylinder radius %g, height %g must be positive", ErrInvalidParam, radius, height)
	}
	if resolution < 3 {
		return nil, fmt.Errorf("%w: cylinder resolution %d < 3", ErrInvalidParam, resolution)
	}
	if split < 1 {
		return nil, fmt.Errorf("%w: cylinder split %d < 1", ErrInvalidParam, split)
	}

	m := &TriangleMesh{}
	halfH := height / 2
	// Cap centers first, then (split+1) rings from top to bottom.
	m.Positions = append(m.Positions,
		math.Vec3{X: 0, Y: 0, Z: halfH},
		math.Vec3{X: 0, Y: 0, Z: -halfH},
	)
	stepA := 2 * math32.Pi / float32(resolution)
	stepH := height / float32(split)
	for ring := 0; ring <= split; ring++ {
		z := halfH - float32(ring)*stepH
		for seg := 0; seg < resolution; seg++ {
			a := float32(seg) * stepA
			m.Positions = append(m.Positions, math.Vec3{
				X: radius * math32.Cos(a),
				Y: radius * math32.Sin(a),
				Z: z,
			})
		}
	}

	ringBase := func(ring int) uint32 { return uint32(2 + ring*resolution) }
	res := uint32(resolution)
	// Top and bottom caps.
	top := ringBase(0)
	bottom := ringBase(split)
	for seg := uint32(0); seg < res; seg++ {
		next := (seg + 1) % res
		m.Triangles = append(m.Triangles,
			[3]uint32{0, top + next, top + seg},
			[3]uint32{1, bottom + seg, bottom + next},
		)
	}
	// Side quads.
	for ring := 0; ring < split; ring++ {
		upper := ringBase(ring)
		lower := ringBase(ring + 1)
		for seg := uint32(0); seg < res; seg++ {
			next := (seg + 1) % res
			m.Triangles = append(m.Triangles,
				[3]uint32{upper + seg, upper + next, lower + seg},
				[3]uint32{upper + next, lower + next, lower + seg},
			)
		}
	}
	return m, nil
}

// NewMoebius creates a Moebius strip as a parametric surface. twists is
// the number of half-twists; odd values close the strip with a flipped
// seam. flatness scales the out-of-plane component and scale the whole
// mesh.
func NewMoebius(lengthSplit, widthSplit, twists int, radius, flatness, width, scale float32) (*TriangleMesh, error) {
	if lengthSplit < 3 {
		return nil, fmt.Errorf("%w: moebius length split %d < 3", ErrInvalidParam, lengthSplit)
	}
	if widthSplit < 2 {
		return nil, fmt.Errorf("%w: moebius width split %d < 2", ErrInvalidParam, widthSplit)
	}
	if radius <= 0 || width <= 0 || scale <= 0 {
		return nil, fmt.Errorf("%w: moebius radius %g, width %g, scale %g must be positive", ErrInvalidParam, radius, width, scale)
	}

	m := &TriangleMesh{}
	uStep := 2 * math32.Pi / float32(lengthSplit)
	vStep := width / float32(widthSplit-1)
	for i := 0; i < lengthSplit; i++ {
		u := float32(i) * uStep
		cosU, sinU := math32.Cos(u), math32.Sin(u)
		alpha := float32(twists) * 0.5 * u
		cosA, sinA := math32.Cos(alpha), math32.Sin(alpha)
		for j := 0; j < widthSplit; j++ {
			v := -width/2 + float32(j)*vStep
			r := radius + v*cosA
			m.Positions = append(m.Positions, math.Vec3{
				X: scale * r * cosU,
				Y: scale * r * sinU,
				Z: scale * flatness * v * sinA,
			})
		}
	}

	ws := uint32(widthSplit)
	for i := 0; i < lengthSplit; i++ {
		row := uint32(i) * ws
		wrap := i == lengthSplit-1
		for j := uint32(0); j < ws-1; j++ {
			a := row + j
			b := row + j + 1
			var c, d uint32
			if !wrap {
				c = row + ws + j
				d = row + ws + j + 1
			} else if twists%2 != 0 {
				// Odd half-twist count: the seam joins ring 0 with the
				// width direction reversed.
				c = ws - 1 - j
				d = ws - 2 - j
			} else {
				c = j
				d = j + 1
			}
			m.Triangles = append(m.Triangles,
				[3]uint32{a, b, c},
				[3]uint32{b, d, c},
			)
		}
	}
	return m, nil
}
