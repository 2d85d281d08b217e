// Package asset loads wavefront OBJ models and their by-convention
// texture channels from a model directory.
package asset

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/scenelog/pkg/geometry"
	"github.com/Faultbox/scenelog/pkg/math"
)

// ErrMissingAsset reports a referenced model or texture file that does
// not exist. Missing textures are skipped by LoadMaterial; a missing
// model file is fatal.
var ErrMissingAsset = errors.New("asset: missing file")

// LoadOBJ parses a wavefront OBJ file into a triangle mesh. Faces with
// more than three corners are triangulated as fans. Distinct
// position/uv/normal index combinations become distinct vertices.
func LoadOBJ(path string) (*geometry.TriangleMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingAsset, path)
		}
		return nil, fmt.Errorf("asset: open %s: %w", path, err)
	}
	defer f.Close()

	var (
		positions []math.Vec3
		normals   []math.Vec3
		uvs       []math.Vec2
	)
	mesh := &geometry.TriangleMesh{}
	// (position, uv, normal) index triple -> output vertex index.
	seen := map[[3]int]uint32{}

	resolveCorner := func(spec string) (uint32, error) {
		key, err := parseCorner(spec, len(positions), len(uvs), len(normals))
		if err != nil {
			return 0, err
		}
		if idx, ok := seen[key]; ok {
			return idx, nil
		}
		idx := uint32(len(mesh.Positions))
		mesh.Positions = append(mesh.Positions, positions[key[0]])
		if key[1] >= 0 {
			mesh.UVs = append(mesh.UVs, uvs[key[1]])
		}
		if key[2] >= 0 {
			mesh.Normals = append(mesh.Normals, normals[key[2]])
		}
		seen[key] = idx
		return idx, nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("asset: %s:%d: vertex: %w", path, line, err)
			}
			positions = append(positions, v)
		case "vn":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("asset: %s:%d: normal: %w", path, line, err)
			}
			normals = append(normals, v)
		case "vt":
			v, err := parseVec2(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("asset: %s:%d: texcoord: %w", path, line, err)
			}
			uvs = append(uvs, v)
		case "f":
			corners := fields[1:]
			if len(corners) < 3 {
				return nil, fmt.Errorf("asset: %s:%d: face with %d corners", path, line, len(corners))
			}
			first, err := resolveCorner(corners[0])
			if err != nil {
				return nil, fmt.Errorf("asset: %s:%d: %w", path, line, err)
			}
			prev, err := resolveCorner(corners[1])
			if err != nil {
				return nil, fmt.Errorf("asset: %s:%d: %w", path, line, err)
			}
			for _, spec := range corners[2:] {
				cur, err := resolveCorner(spec)
				if err != nil {
					return nil, fmt.Errorf("asset: %s:%d: %w", path, line, err)
				}
				mesh.Triangles = append(mesh.Triangles, [3]uint32{first, prev, cur})
				prev = cur
			}
		}
		// mtllib, usemtl, o, g, s are ignored; materials come from the
		// texture channel convention instead.
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}
	if len(mesh.Positions) == 0 {
		return nil, fmt.Errorf("asset: %s contains no geometry", path)
	}
	// Partial attribute coverage cannot be represented per-vertex.
	if len(mesh.Normals) > 0 && len(mesh.Normals) != len(mesh.Positions) {
		mesh.Normals = nil
	}
	if len(mesh.UVs) > 0 && len(mesh.UVs) != len(mesh.Positions) {
		mesh.UVs = nil
	}
	return mesh, nil
}

// parseCorner parses one face corner spec (v, v/t, v//n or v/t/n) into
// zero-based indices. Missing components are -1. Negative OBJ indices
// count back from the end of the respective list.
func parseCorner(spec string, nPos, nUV, nNorm int) ([3]int, error) {
	parts := strings.Split(spec, "/")
	if len(parts) > 3 {
		return [3]int{}, fmt.Errorf("bad face corner %q", spec)
	}
	key := [3]int{-1, -1, -1}
	limits := [3]int{nPos, nUV, nNorm}
	for i, p := range parts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return [3]int{}, fmt.Errorf("bad face corner %q: %w", spec, err)
		}
		if n < 0 {
			n = limits[i] + n
		} else {
			n--
		}
		if n < 0 || n >= limits[i] {
			return [3]int{}, fmt.Errorf("face corner %q index out of range", spec)
		}
		key[i] = n
	}
	if key[0] < 0 {
		return [3]int{}, fmt.Errorf("face corner %q has no position index", spec)
	}
	return key, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	var out [3]float32
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, err
		}
		out[i] = float32(v)
	}
	return math.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

func parseVec2(fields []string) (math.Vec2, error) {
	if len(fields) < 2 {
		return math.Vec2{}, fmt.Errorf("want 2 components, got %d", len(fields))
	}
	u, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return math.Vec2{}, err
	}
	v, err := strconv.ParseFloat(fields[1], 32)
	if err != nil {
		return math.Vec2{}, err
	}
	return math.Vec2{X: float32(u), Y: float32(v)}, nil
}
