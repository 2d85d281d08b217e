package summary

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/scenelog/pkg/geometry"
	"github.com/Faultbox/scenelog/pkg/math"
)

// GeometryFactory produces the unpainted base geometry for a step. It
// may scale mesh complexity with the step index.
type GeometryFactory func(step int) (*geometry.TriangleMesh, error)

// ColorSchedule assigns each batch instance a color. step is the frame's
// step index, i the instance's position in the batch.
type ColorSchedule func(step, i, batchSize int) math.Vec3

// SweepColor is the angular color sweep: for t = i*pi/batchSize the
// color is ((1+sin t)/2, (1+cos t)/2, t/pi).
func SweepColor(i, batchSize int) math.Vec3 {
	t := float32(i) * math32.Pi / float32(batchSize)
	return math.Vec3{
		X: (1 + math32.Sin(t)) / 2,
		Y: (1 + math32.Cos(t)) / 2,
		Z: t / math32.Pi,
	}
}

// Sweep adapts SweepColor to a ColorSchedule. The step is ignored; only
// the batch position determines the color.
func Sweep(step, i, batchSize int) math.Vec3 {
	return SweepColor(i, batchSize)
}

// Palette returns a schedule that colors every instance of a step with
// colors[step], cycling when steps outnumber colors.
func Palette(colors ...math.Vec3) ColorSchedule {
	return func(step, i, batchSize int) math.Vec3 {
		return colors[step%len(colors)]
	}
}

// Track is a named, independently step-indexed sequence of frames with
// its own geometry factory.
type Track struct {
	Name    string
	Factory GeometryFactory
}

// Sequencer drives the frame production loop: for every step, for every
// track in order, it builds a batch of independently painted copies of
// the track's base geometry and emits one frame. It keeps no state
// between Run calls.
type Sequencer struct {
	Tracks []Track

	// MaxOutputs, when positive, is stamped on every emitted frame to
	// cap how many batch instances the sink persists.
	MaxOutputs int
}

// Run iterates steps [0, numSteps) and emits one frame per track per
// step. Factory, schedule and sink errors abort the run immediately;
// frames already emitted stay with the sink.
func (s *Sequencer) Run(numSteps, batchSize int, schedule ColorSchedule, sink Sink) error {
	if numSteps < 1 {
		return fmt.Errorf("summary: numSteps %d < 1", numSteps)
	}
	if batchSize < 1 {
		return fmt.Errorf("summary: batchSize %d < 1", batchSize)
	}
	if len(s.Tracks) == 0 {
		return fmt.Errorf("summary: no tracks registered")
	}

	for step := 0; step < numSteps; step++ {
		for _, tr := range s.Tracks {
			base, err := tr.Factory(step)
			if err != nil {
				return fmt.Errorf("summary: track %q step %d: %w", tr.Name, step, err)
			}
			batch := make([]*geometry.TriangleMesh, batchSize)
			for i := 0; i < batchSize; i++ {
				// Independent copies: painting one instance must not
				// touch its siblings.
				inst := base.Clone()
				inst.PaintUniformColor(schedule(step, i, batchSize))
				batch[i] = inst
			}
			frame, err := BatchMeshes(batch)
			if err != nil {
				return fmt.Errorf("summary: track %q step %d: %w", tr.Name, step, err)
			}
			frame.Track = tr.Name
			frame.Step = step
			frame.MaxOutputs = s.MaxOutputs
			if err := sink.Emit(frame); err != nil {
				return fmt.Errorf("summary: emit track %q step %d: %w", tr.Name, step, err)
			}
		}
	}
	return nil
}
