package sink

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/Faultbox/scenelog/pkg/summary"
)

// recordBuffer accumulates one little-endian frame record. The first
// write error sticks; callers check err once after encoding.
type recordBuffer struct {
	buf bytes.Buffer
	err error
}

func newRecordBuffer() *recordBuffer {
	return &recordBuffer{}
}

func (r *recordBuffer) write(v any) {
	if r.err != nil {
		return
	}
	r.err = binary.Write(&r.buf, binary.LittleEndian, v)
}

func (r *recordBuffer) writeU8(v uint8)   { r.write(v) }
func (r *recordBuffer) writeU32(v uint32) { r.write(v) }

func (r *recordBuffer) writeString(s string) {
	r.write(uint16(len(s)))
	if r.err == nil {
		_, r.err = r.buf.WriteString(s)
	}
}

func (r *recordBuffer) writeVec3Batch(v summary.Vec3Batch) {
	r.writeU32(uint32(len(v)))
	var count uint32
	if len(v) > 0 {
		count = uint32(len(v[0]))
	}
	r.writeU32(count)
	for _, inst := range v {
		for _, p := range inst {
			r.write(p.X)
			r.write(p.Y)
			r.write(p.Z)
		}
	}
}

func (r *recordBuffer) writeVec2Batch(v summary.Vec2Batch) {
	r.writeU32(uint32(len(v)))
	var count uint32
	if len(v) > 0 {
		count = uint32(len(v[0]))
	}
	r.writeU32(count)
	for _, inst := range v {
		for _, p := range inst {
			r.write(p.X)
			r.write(p.Y)
		}
	}
}

func (r *recordBuffer) writeIndexBatch(v summary.IndexBatch) {
	r.writeU32(uint32(len(v)))
	var count uint32
	if len(v) > 0 {
		count = uint32(len(v[0]))
	}
	r.writeU32(count)
	for _, inst := range v {
		for _, tri := range inst {
			r.write(tri[0])
			r.write(tri[1])
			r.write(tri[2])
		}
	}
}

// writeMaterial encodes the material block. texFiles holds the WebP
// filenames for the material's texture channels in sorted channel
// order, matching sortedChannels.
func (r *recordBuffer) writeMaterial(m *summary.Material, texFiles []string) {
	r.writeString(m.Name)

	scalars := sortedKeys(m.ScalarProperties)
	r.write(uint16(len(scalars)))
	for _, k := range scalars {
		r.writeString(k)
		r.write(m.ScalarProperties[k])
	}

	vectors := sortedKeys(m.VectorProperties)
	r.write(uint16(len(vectors)))
	for _, k := range vectors {
		r.writeString(k)
		vec := m.VectorProperties[k]
		r.writeU8(uint8(len(vec)))
		for _, f := range vec {
			r.write(f)
		}
	}

	channels := sortedKeys(m.TextureMaps)
	r.write(uint16(len(channels)))
	for i, ch := range channels {
		r.writeString(ch)
		r.writeString(texFiles[i])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
