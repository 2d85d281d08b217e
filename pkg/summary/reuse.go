package summary

import "fmt"

type baseline struct {
	positions Vec3Batch
	normals   Vec3Batch
}

// Baselines records, per track, the last concrete vertex positions and
// normals, so later frames can carry reuse markers instead of repeating
// unchanged data. Not safe for concurrent use; partition per track if
// tracks are ever processed in parallel.
type Baselines struct {
	tracks map[string]baseline
}

// NewBaselines returns an empty baseline store.
func NewBaselines() *Baselines {
	return &Baselines{tracks: map[string]baseline{}}
}

// Apply implements property reuse for a track. A step-0 frame must carry
// concrete positions and normals; they are recorded and the frame is
// returned unchanged. For any later step the recorded baseline must
// exist, and the returned frame has both properties replaced with the
// reuse marker. The input frame is not mutated.
func (b *Baselines) Apply(f *Frame) (*Frame, error) {
	if f.Step == 0 {
		pos, okP := f.Positions.(Vec3Batch)
		nrm, okN := f.Normals.(Vec3Batch)
		if !okP || !okN {
			return nil, fmt.Errorf("%w: track %q step 0 must carry concrete positions and normals", ErrMissingBaseline, f.Track)
		}
		b.tracks[f.Track] = baseline{positions: pos, normals: nrm}
		return f, nil
	}
	if _, ok := b.tracks[f.Track]; !ok {
		return nil, fmt.Errorf("%w: track %q step %d has no recorded step-0 frame", ErrMissingBaseline, f.Track, f.Step)
	}
	out := *f
	out.Positions = ReuseLast{}
	out.Normals = ReuseLast{}
	return &out, nil
}

// ReuseSink wraps a sink so that every emitted frame goes through
// property reuse first: step-0 frames record baselines, later frames
// are forwarded with positions and normals replaced by reuse markers.
type ReuseSink struct {
	inner     Sink
	baselines *Baselines
}

// NewReuseSink wraps inner with per-track property reuse.
func NewReuseSink(inner Sink) *ReuseSink {
	return &ReuseSink{inner: inner, baselines: NewBaselines()}
}

// Emit applies property reuse and forwards the frame.
func (s *ReuseSink) Emit(f *Frame) error {
	out, err := s.baselines.Apply(f)
	if err != nil {
		return err
	}
	return s.inner.Emit(out)
}

// Baselines exposes the recorded baselines, e.g. for marker resolution
// on the read side of a round trip.
func (s *ReuseSink) Baselines() *Baselines {
	return s.baselines
}

// Resolve replaces reuse markers in the frame with the recorded baseline
// values. Frames without markers pass through unchanged, so resolving
// twice yields the same result. The input frame is not mutated.
func (b *Baselines) Resolve(f *Frame) (*Frame, error) {
	_, posMarked := f.Positions.(ReuseLast)
	_, nrmMarked := f.Normals.(ReuseLast)
	if !posMarked && !nrmMarked {
		return f, nil
	}
	bl, ok := b.tracks[f.Track]
	if !ok {
		return nil, fmt.Errorf("%w: track %q step %d", ErrMissingBaseline, f.Track, f.Step)
	}
	out := *f
	if posMarked {
		out.Positions = bl.positions
	}
	if nrmMarked {
		out.Normals = bl.normals
	}
	return &out, nil
}
