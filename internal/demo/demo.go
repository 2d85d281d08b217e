// Package demo contains the bundled summary-writing scenarios: two
// small runs with a cube and a cylinder, a large run with step-scaled
// resolution, and a textured-model run.
package demo

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/scenelog/internal/asset"
	"github.com/Faultbox/scenelog/internal/config"
	"github.com/Faultbox/scenelog/internal/logger"
	"github.com/Faultbox/scenelog/internal/sink"
	"github.com/Faultbox/scenelog/pkg/geometry"
	"github.com/Faultbox/scenelog/pkg/math"
	"github.com/Faultbox/scenelog/pkg/summary"
)

// Run dispatches on cfg.Demo.Name. "all" runs every demo; the textured
// model demo is skipped unless a model directory is configured.
func Run(cfg *config.Config) error {
	switch cfg.Demo.Name {
	case "small-scale":
		return SmallScale(cfg)
	case "property-reference":
		return PropertyReference(cfg)
	case "large-scale":
		return LargeScale(cfg)
	case "with-material":
		return WithMaterial(cfg)
	case "all":
		if err := SmallScale(cfg); err != nil {
			return err
		}
		if err := PropertyReference(cfg); err != nil {
			return err
		}
		if err := LargeScale(cfg); err != nil {
			return err
		}
		if cfg.Demo.ModelDir == "" {
			logger.Info("no model directory configured, skipping with-material demo")
			return nil
		}
		return WithMaterial(cfg)
	default:
		return fmt.Errorf("demo: unknown demo %q", cfg.Demo.Name)
	}
}

func cubeFactory(step int) (*geometry.TriangleMesh, error) {
	m, err := geometry.NewBox(1, 2, 4)
	if err != nil {
		return nil, err
	}
	m.ComputeVertexNormals()
	return m, nil
}

func cylinderFactory(step int) (*geometry.TriangleMesh, error) {
	m, err := geometry.NewCylinder(1.0, 2.0, 20, 4)
	if err != nil {
		return nil, err
	}
	m.ComputeVertexNormals()
	return m, nil
}

// rgbPalette is the fixed step palette of the small runs.
var rgbPalette = summary.Palette(
	math.Vec3{X: 1},
	math.Vec3{Y: 1},
	math.Vec3{Z: 1},
)

// SmallScale writes a cube and a cylinder for three steps, repainted
// red, green and blue.
func SmallScale(cfg *config.Config) error {
	w, err := sink.NewEventWriter(cfg.Log.BaseDir, "small_scale", logger.Log)
	if err != nil {
		return err
	}
	if err := smallScaleFrames(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// PropertyReference produces the same visualization as SmallScale but
// replaces the unchanged vertex positions and normals with reuse
// markers from step 1 on.
func PropertyReference(cfg *config.Config) error {
	w, err := sink.NewEventWriter(cfg.Log.BaseDir, "property_reference", logger.Log)
	if err != nil {
		return err
	}
	if err := smallScaleFrames(summary.NewReuseSink(w)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func smallScaleFrames(s summary.Sink) error {
	seq := &summary.Sequencer{Tracks: []summary.Track{
		{Name: "cube", Factory: cubeFactory},
		{Name: "cylinder", Factory: cylinderFactory},
	}}
	return seq.Run(3, 1, rgbPalette, s)
}

// LargeScale writes a cylinder and a moebius strip whose tessellation
// grows linearly with the step, a batch of differently colored copies
// per frame.
func LargeScale(cfg *config.Config) error {
	w, err := sink.NewEventWriter(cfg.Log.BaseDir, "large_scale", logger.Log)
	if err != nil {
		return err
	}
	err = largeScaleFrames(w, cfg.Demo.Steps, cfg.Demo.BatchSize, cfg.Demo.BaseResolution)
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func largeScaleFrames(s summary.Sink, nSteps, batchSize, baseResolution int) error {
	seq := &summary.Sequencer{
		Tracks: []summary.Track{
			{Name: "cylinder", Factory: func(step int) (*geometry.TriangleMesh, error) {
				res := baseResolution * (step + 1)
				m, err := geometry.NewCylinder(1.0, 2.0, res, 4)
				if err != nil {
					return nil, err
				}
				m.ComputeVertexNormals()
				return m, nil
			}},
			{Name: "moebius", Factory: func(step int) (*geometry.TriangleMesh, error) {
				res := baseResolution * (step + 1)
				m, err := geometry.NewMoebius(res*7/2, res*3/4, 1, 1, 1, 1, 1)
				if err != nil {
					return nil, err
				}
				m.ComputeVertexNormals()
				return m, nil
			}},
		},
		MaxOutputs: batchSize,
	}
	return seq.Run(nSteps, batchSize, summary.Sweep, s)
}

// WithMaterial reads <modelDir>/<base>.obj plus its by-convention
// texture channels and writes a single step-0 frame named after the
// model.
func WithMaterial(cfg *config.Config) error {
	modelDir := cfg.Demo.ModelDir
	if modelDir == "" {
		return fmt.Errorf("demo: with-material needs a model directory")
	}
	modelName := filepath.Base(filepath.Clean(modelDir))

	w, err := sink.NewEventWriter(cfg.Log.BaseDir, modelName, logger.Log)
	if err != nil {
		return err
	}
	if err := materialFrame(w, modelDir, modelName, cfg.Log.MaxTextureSize); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func materialFrame(s summary.Sink, modelDir, modelName string, maxTexSize int) error {
	mesh, err := asset.LoadOBJ(filepath.Join(modelDir, modelName+".obj"))
	if err != nil {
		return err
	}
	if !mesh.HasNormals() {
		mesh.ComputeVertexNormals()
	}
	mat, err := asset.LoadMaterial(modelDir, maxTexSize)
	if err != nil {
		return err
	}
	logger.Debug("loaded model",
		zap.String("model", modelName),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("textures", len(mat.TextureMaps)),
	)

	frame, err := summary.BatchMeshes([]*geometry.TriangleMesh{mesh})
	if err != nil {
		return err
	}
	frame.Track = modelName
	frame.Step = 0
	frame.Material = mat
	return s.Emit(frame)
}
