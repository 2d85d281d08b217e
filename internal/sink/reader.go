package sink

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenelog/pkg/math"
	"github.com/Faultbox/scenelog/pkg/summary"
)

// ErrBadEventFile reports a corrupt or unsupported event file.
var ErrBadEventFile = errors.New("sink: bad event file")

// TextureRef names a material texture channel and the WebP file holding
// it, relative to the run directory.
type TextureRef struct {
	Channel string
	File    string
}

// Record is one decoded frame from an event file. Reuse markers are
// preserved, not resolved; resolution against baselines is the reader's
// caller's concern. Material textures come back as file references.
type Record struct {
	Frame       *summary.Frame
	TextureRefs []TextureRef
}

// ReadEvents decodes every record from a run directory's event file.
func ReadEvents(runDir string) ([]Record, error) {
	f, err := os.Open(filepath.Join(runDir, EventFileName))
	if err != nil {
		return nil, fmt.Errorf("sink: open event file: %w", err)
	}
	defer f.Close()
	return decodeEvents(bufio.NewReader(f))
}

// ReadManifest loads the run manifest.
func ReadManifest(runDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(runDir, ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("sink: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("sink: parse manifest: %w", err)
	}
	return &m, nil
}

func decodeEvents(r *bufio.Reader) ([]Record, error) {
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("%w: missing header", ErrBadEventFile)
	}
	if string(head) != magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadEventFile, head)
	}
	var ver uint16
	if err := binary.Read(r, binary.LittleEndian, &ver); err != nil {
		return nil, fmt.Errorf("%w: missing version", ErrBadEventFile)
	}
	if ver != version {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrBadEventFile, ver, version)
	}

	var out []Record
	for {
		rec, err := decodeRecord(r)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

func decodeRecord(r *bufio.Reader) (Record, error) {
	track, err := readString(r)
	if err != nil {
		// A clean EOF before the track field means end of stream.
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("%w: track: %v", ErrBadEventFile, err)
	}
	var step, maxOutputs uint32
	if err := binary.Read(r, binary.LittleEndian, &step); err != nil {
		return Record{}, fmt.Errorf("%w: step: %v", ErrBadEventFile, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &maxOutputs); err != nil {
		return Record{}, fmt.Errorf("%w: max outputs: %v", ErrBadEventFile, err)
	}
	nfield, err := r.ReadByte()
	if err != nil {
		return Record{}, fmt.Errorf("%w: field count: %v", ErrBadEventFile, err)
	}

	rec := Record{Frame: &summary.Frame{
		Track:      track,
		Step:       int(step),
		MaxOutputs: int(maxOutputs),
	}}
	for i := 0; i < int(nfield); i++ {
		if err := decodeField(r, &rec); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

func decodeField(r *bufio.Reader, rec *Record) error {
	id, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("%w: field id: %v", ErrBadEventFile, err)
	}
	flags, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("%w: field flags: %v", ErrBadEventFile, err)
	}

	f := rec.Frame
	if flags&flagReuse != 0 {
		switch id {
		case fieldPositions:
			f.Positions = summary.ReuseLast{}
		case fieldNormals:
			f.Normals = summary.ReuseLast{}
		case fieldColors:
			f.Colors = summary.ReuseLast{}
		case fieldIndices:
			f.Indices = summary.ReuseLast{}
		case fieldUVs:
			f.UVs = summary.ReuseLast{}
		default:
			return fmt.Errorf("%w: reuse marker on field %d", ErrBadEventFile, id)
		}
		return nil
	}

	switch id {
	case fieldPositions, fieldNormals, fieldColors:
		v, err := readVec3Batch(r)
		if err != nil {
			return err
		}
		switch id {
		case fieldPositions:
			f.Positions = v
		case fieldNormals:
			f.Normals = v
		case fieldColors:
			f.Colors = v
		}
	case fieldUVs:
		v, err := readVec2Batch(r)
		if err != nil {
			return err
		}
		f.UVs = v
	case fieldIndices:
		v, err := readIndexBatch(r)
		if err != nil {
			return err
		}
		f.Indices = v
	case fieldMaterial:
		return decodeMaterial(r, rec)
	default:
		return fmt.Errorf("%w: unknown field id %d", ErrBadEventFile, id)
	}
	return nil
}

func decodeMaterial(r *bufio.Reader, rec *Record) error {
	name, err := readString(r)
	if err != nil {
		return fmt.Errorf("%w: material name: %v", ErrBadEventFile, err)
	}
	m := summary.NewMaterial(name)

	var nscalar uint16
	if err := binary.Read(r, binary.LittleEndian, &nscalar); err != nil {
		return fmt.Errorf("%w: scalar count: %v", ErrBadEventFile, err)
	}
	for i := 0; i < int(nscalar); i++ {
		k, err := readString(r)
		if err != nil {
			return fmt.Errorf("%w: scalar name: %v", ErrBadEventFile, err)
		}
		var v float32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return fmt.Errorf("%w: scalar value: %v", ErrBadEventFile, err)
		}
		m.ScalarProperties[k] = v
	}

	var nvector uint16
	if err := binary.Read(r, binary.LittleEndian, &nvector); err != nil {
		return fmt.Errorf("%w: vector count: %v", ErrBadEventFile, err)
	}
	for i := 0; i < int(nvector); i++ {
		k, err := readString(r)
		if err != nil {
			return fmt.Errorf("%w: vector name: %v", ErrBadEventFile, err)
		}
		dim, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: vector dim: %v", ErrBadEventFile, err)
		}
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("%w: vector values: %v", ErrBadEventFile, err)
		}
		m.VectorProperties[k] = vec
	}

	var ntex uint16
	if err := binary.Read(r, binary.LittleEndian, &ntex); err != nil {
		return fmt.Errorf("%w: texture count: %v", ErrBadEventFile, err)
	}
	for i := 0; i < int(ntex); i++ {
		ch, err := readString(r)
		if err != nil {
			return fmt.Errorf("%w: texture channel: %v", ErrBadEventFile, err)
		}
		file, err := readString(r)
		if err != nil {
			return fmt.Errorf("%w: texture file: %v", ErrBadEventFile, err)
		}
		rec.TextureRefs = append(rec.TextureRefs, TextureRef{Channel: ch, File: file})
	}

	rec.Frame.Material = m
	return nil
}

func readString(r *bufio.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readBatchHeader(r *bufio.Reader) (batch, count int, err error) {
	var b, c uint32
	if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
		return 0, 0, fmt.Errorf("%w: batch size: %v", ErrBadEventFile, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
		return 0, 0, fmt.Errorf("%w: element count: %v", ErrBadEventFile, err)
	}
	return int(b), int(c), nil
}

func readVec3Batch(r *bufio.Reader) (summary.Vec3Batch, error) {
	batch, count, err := readBatchHeader(r)
	if err != nil {
		return nil, err
	}
	out := make(summary.Vec3Batch, batch)
	for i := range out {
		inst := make([]math.Vec3, count)
		raw := make([]float32, count*3)
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, fmt.Errorf("%w: vec3 payload: %v", ErrBadEventFile, err)
		}
		for j := range inst {
			inst[j] = math.Vec3{X: raw[j*3], Y: raw[j*3+1], Z: raw[j*3+2]}
		}
		out[i] = inst
	}
	return out, nil
}

func readVec2Batch(r *bufio.Reader) (summary.Vec2Batch, error) {
	batch, count, err := readBatchHeader(r)
	if err != nil {
		return nil, err
	}
	out := make(summary.Vec2Batch, batch)
	for i := range out {
		inst := make([]math.Vec2, count)
		raw := make([]float32, count*2)
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, fmt.Errorf("%w: vec2 payload: %v", ErrBadEventFile, err)
		}
		for j := range inst {
			inst[j] = math.Vec2{X: raw[j*2], Y: raw[j*2+1]}
		}
		out[i] = inst
	}
	return out, nil
}

func readIndexBatch(r *bufio.Reader) (summary.IndexBatch, error) {
	batch, count, err := readBatchHeader(r)
	if err != nil {
		return nil, err
	}
	out := make(summary.IndexBatch, batch)
	for i := range out {
		inst := make([][3]uint32, count)
		raw := make([]uint32, count*3)
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, fmt.Errorf("%w: index payload: %v", ErrBadEventFile, err)
		}
		for j := range inst {
			inst[j] = [3]uint32{raw[j*3], raw[j*3+1], raw[j*3+2]}
		}
		out[i] = inst
	}
	return out, nil
}
