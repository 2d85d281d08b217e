package sink

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenelog/pkg/summary"
)

// EventWriter implements summary.Sink by appending frame records to
// <baseLogDir>/<runName>/events.s3d. Close flushes the stream and writes
// the manifest; a run directory without a manifest is incomplete.
type EventWriter struct {
	dir      string
	file     *os.File
	buf      *bufio.Writer
	offset   int64
	manifest Manifest
	log      *zap.Logger
}

// NewEventWriter creates the run directory and opens the event file.
// A nil logger disables logging.
func NewEventWriter(baseLogDir, runName string, log *zap.Logger) (*EventWriter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dir := filepath.Join(baseLogDir, runName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("sink: create run dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, EventFileName))
	if err != nil {
		return nil, fmt.Errorf("sink: create event file: %w", err)
	}
	w := &EventWriter{
		dir:  dir,
		file: f,
		buf:  bufio.NewWriter(f),
		manifest: Manifest{
			Run:     runName,
			Version: version,
			Tracks:  map[string]int{},
		},
		log: log,
	}
	if err := w.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	log.Info("opened run log", zap.String("dir", dir))
	return w, nil
}

// Dir returns the run directory.
func (w *EventWriter) Dir() string {
	return w.dir
}

func (w *EventWriter) writeHeader() error {
	if _, err := w.buf.WriteString(magic); err != nil {
		return fmt.Errorf("sink: write header: %w", err)
	}
	if err := binary.Write(w.buf, binary.LittleEndian, version); err != nil {
		return fmt.Errorf("sink: write header: %w", err)
	}
	w.offset = int64(len(magic)) + 2
	return nil
}

// Emit appends one frame record. Batch instances beyond the frame's
// MaxOutputs cap are dropped, not an error.
func (w *EventWriter) Emit(f *summary.Frame) error {
	// Marker-only frames are legal; a frame with neither properties nor
	// material is not.
	if f.Positions == nil && f.Normals == nil && f.Colors == nil &&
		f.Indices == nil && f.UVs == nil && f.Material == nil {
		return fmt.Errorf("sink: frame %q step %d has no data", f.Track, f.Step)
	}

	entry := RecordEntry{
		Track:  f.Track,
		Step:   f.Step,
		Offset: w.offset,
		Batch:  emittedBatch(f),
	}

	rec := newRecordBuffer()
	rec.writeString(f.Track)
	rec.writeU32(uint32(f.Step))
	rec.writeU32(uint32(f.MaxOutputs))

	type fieldSpec struct {
		id    uint8
		value summary.PropertyValue
	}
	fields := []fieldSpec{
		{fieldPositions, f.Positions},
		{fieldNormals, f.Normals},
		{fieldColors, f.Colors},
		{fieldIndices, f.Indices},
		{fieldUVs, f.UVs},
	}
	var present []fieldSpec
	for _, fs := range fields {
		if fs.value != nil {
			present = append(present, fs)
		}
	}
	n := len(present)
	if f.Material != nil {
		n++
	}
	rec.writeU8(uint8(n))

	limit := f.MaxOutputs
	for _, fs := range present {
		rec.writeU8(fs.id)
		switch v := fs.value.(type) {
		case summary.ReuseLast:
			rec.writeU8(flagReuse)
		case summary.Vec3Batch:
			rec.writeU8(0)
			rec.writeVec3Batch(truncVec3(v, limit))
		case summary.Vec2Batch:
			rec.writeU8(0)
			rec.writeVec2Batch(truncVec2(v, limit))
		case summary.IndexBatch:
			rec.writeU8(0)
			rec.writeIndexBatch(truncIndex(v, limit))
		default:
			return fmt.Errorf("sink: frame %q step %d: unsupported property value %T", f.Track, f.Step, fs.value)
		}
	}
	if f.Material != nil {
		texFiles, err := w.writeTextures(f)
		if err != nil {
			return err
		}
		entry.Textures = texFiles
		rec.writeU8(fieldMaterial)
		rec.writeU8(0)
		rec.writeMaterial(f.Material, texFiles)
	}
	if rec.err != nil {
		return fmt.Errorf("sink: encode frame %q step %d: %w", f.Track, f.Step, rec.err)
	}

	n2, err := w.buf.Write(rec.buf.Bytes())
	if err != nil {
		return fmt.Errorf("sink: write frame %q step %d: %w", f.Track, f.Step, err)
	}
	w.offset += int64(n2)
	w.manifest.Records = append(w.manifest.Records, entry)
	w.manifest.Tracks[f.Track]++
	w.log.Debug("wrote frame",
		zap.String("track", f.Track),
		zap.Int("step", f.Step),
		zap.Int("batch", entry.Batch),
	)
	return nil
}

// writeTextures encodes the frame material's texture maps as lossless
// WebP files in the run directory and returns their filenames in
// channel-sorted record order.
func (w *EventWriter) writeTextures(f *summary.Frame) ([]string, error) {
	channels := sortedKeys(f.Material.TextureMaps)
	files := make([]string, 0, len(channels))
	for _, ch := range channels {
		name := fmt.Sprintf("tex_%s_%d_%s.webp", f.Track, f.Step, ch)
		tf, err := os.Create(filepath.Join(w.dir, name))
		if err != nil {
			return nil, fmt.Errorf("sink: create texture %s: %w", name, err)
		}
		if err := nativewebp.Encode(tf, f.Material.TextureMaps[ch], nil); err != nil {
			tf.Close()
			return nil, fmt.Errorf("sink: encode texture %s: %w", name, err)
		}
		if err := tf.Close(); err != nil {
			return nil, fmt.Errorf("sink: close texture %s: %w", name, err)
		}
		files = append(files, name)
	}
	return files, nil
}

// Close flushes the event stream and writes the manifest.
func (w *EventWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("sink: flush events: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("sink: close events: %w", err)
	}
	data, err := yaml.Marshal(&w.manifest)
	if err != nil {
		return fmt.Errorf("sink: marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, ManifestFileName), data, 0644); err != nil {
		return fmt.Errorf("sink: write manifest: %w", err)
	}
	w.log.Info("closed run log",
		zap.String("dir", w.dir),
		zap.Int("records", len(w.manifest.Records)),
	)
	return nil
}

func emittedBatch(f *summary.Frame) int {
	b := f.BatchLen()
	if f.MaxOutputs > 0 && b > f.MaxOutputs {
		return f.MaxOutputs
	}
	return b
}

func truncVec3(v summary.Vec3Batch, limit int) summary.Vec3Batch {
	if limit > 0 && len(v) > limit {
		return v[:limit]
	}
	return v
}

func truncVec2(v summary.Vec2Batch, limit int) summary.Vec2Batch {
	if limit > 0 && len(v) > limit {
		return v[:limit]
	}
	return v
}

func truncIndex(v summary.IndexBatch, limit int) summary.IndexBatch {
	if limit > 0 && len(v) > limit {
		return v[:limit]
	}
	return v
}

