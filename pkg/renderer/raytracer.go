package renderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// ErrInvalidConfig is returned when a render is configured with unusable values
var ErrInvalidConfig = errors.New("invalid render configuration")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Seed for the render's random sampler
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
	}
}

// Validate checks that the configuration can drive a render
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: samples per pixel must be at least 1, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	return nil
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Shape
	GetBackground() integrator.SkyGradient
}

// PixelSink receives finished pixels. Pixels arrive row by row from the top
// scanline down and left to right within a row; y = 0 is the top row.
// color is the averaged linear color before gamma correction.
type PixelSink interface {
	Begin(width, height int) error
	SetPixel(x, y int, color core.Vec3) error
	End() error
}

// ProgressFunc is called after each completed scanline
type ProgressFunc func(rowsDone, totalRows int)

// Raytracer handles the rendering process
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	integrator integrator.Integrator
	progress   ProgressFunc
	logger     *slog.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:  scene,
		width:  width,
		height: height,
		config: DefaultSamplingConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SetIntegrator replaces the default path tracing integrator
func (rt *Raytracer) SetIntegrator(integ integrator.Integrator) {
	rt.integrator = integ
}

// SetProgress installs a per-scanline progress callback
func (rt *Raytracer) SetProgress(progress ProgressFunc) {
	rt.progress = progress
}

// SetLogger sets the logger used for render lifecycle messages; nil discards output
func (rt *Raytracer) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	rt.logger = logger
}

// Render renders the scene into sink using a sampler seeded from the sampling config
func (rt *Raytracer) Render(ctx context.Context, sink PixelSink) (RenderStats, error) {
	return rt.RenderWithSampler(ctx, sink, core.NewSeededSampler(rt.config.Seed))
}

// RenderWithSampler renders the scene into sink, drawing every random number from sampler.
// The sampler is used by one goroutine only, in a fixed order: for each sample the
// u jitter, then the v jitter, then whatever the integrator consumes.
func (rt *Raytracer) RenderWithSampler(ctx context.Context, sink PixelSink, sampler core.Sampler) (RenderStats, error) {
	if err := rt.validate(); err != nil {
		return RenderStats{}, err
	}

	integ := rt.integrator
	if integ == nil {
		integ = integrator.NewPathTracingIntegrator(rt.config.MaxDepth).WithBackground(rt.scene.GetBackground())
	}
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	rt.logger.Info("render started",
		"width", rt.width,
		"height", rt.height,
		"samples_per_pixel", rt.config.SamplesPerPixel,
		"max_depth", rt.config.MaxDepth)

	if err := sink.Begin(rt.width, rt.height); err != nil {
		return RenderStats{}, fmt.Errorf("begin image: %w", err)
	}

	startTime := time.Now()
	stats := RenderStats{}
	uDenom := float64(rt.width - 1)
	vDenom := float64(rt.height - 1)

	for j := rt.height - 1; j >= 0; j-- {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("render cancelled: %w", err)
		}

		row := rt.height - 1 - j
		for i := 0; i < rt.width; i++ {
			var ps PixelStats
			for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
				// Jitter within the pixel for anti-aliasing
				u := (float64(i) + sampler.Get1D()) / uDenom
				v := (float64(j) + sampler.Get1D()) / vDenom

				ray := camera.GetRay(u, v)
				ps.AddSample(integ.RayColor(ray, world, sampler))
			}

			if err := sink.SetPixel(i, row, ps.GetColor()); err != nil {
				return stats, fmt.Errorf("write pixel (%d, %d): %w", i, row, err)
			}
			stats.TotalPixels++
			stats.TotalSamples += ps.SampleCount
		}

		if rt.progress != nil {
			rt.progress(row+1, rt.height)
		}
	}

	if err := sink.End(); err != nil {
		return stats, fmt.Errorf("finish image: %w", err)
	}
	stats.Duration = time.Since(startTime)

	rt.logger.Info("render completed",
		"duration", stats.Duration,
		"pixels", stats.TotalPixels,
		"samples", stats.TotalSamples)

	return stats, nil
}

func (rt *Raytracer) validate() error {
	if rt.width < 2 || rt.height < 2 {
		return fmt.Errorf("%w: image must be at least 2x2, got %dx%d", ErrInvalidConfig, rt.width, rt.height)
	}
	if rt.scene == nil || rt.scene.GetCamera() == nil || rt.scene.GetWorld() == nil {
		return fmt.Errorf("%w: scene must provide a camera and a world", ErrInvalidConfig)
	}
	return rt.config.Validate()
}
