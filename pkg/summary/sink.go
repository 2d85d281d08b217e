package summary

// Sink persists frames. Emit is the unit of persistence; the sequencer
// never retries a failed emit.
type Sink interface {
	Emit(f *Frame) error
}

// RecordingSink captures emitted frames in memory. It is the test double
// for any Sink consumer, and is also handy for buffering frames before a
// bulk write.
type RecordingSink struct {
	Frames []*Frame
}

// Emit appends the frame to Frames.
func (s *RecordingSink) Emit(f *Frame) error {
	s.Frames = append(s.Frames, f)
	return nil
}

// Reset discards all captured frames.
func (s *RecordingSink) Reset() {
	s.Frames = nil
}
