package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// testScene implements Scene for testing
type testScene struct {
	camera *Camera
	world  geometry.Shape
}

func (s *testScene) GetCamera() *Camera                    { return s.camera }
func (s *testScene) GetWorld() geometry.Shape              { return s.world }
func (s *testScene) GetBackground() integrator.SkyGradient { return integrator.DefaultSky() }

// groundAndSphereScene is the ground sphere plus one diffuse foreground sphere
func groundAndSphereScene() *testScene {
	return &testScene{
		camera: NewCamera(),
		world: geometry.NewHittableList(
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		),
	}
}

// recordingSink stores every pixel in arrival order
type recordingSink struct {
	width, height int
	coords        [][2]int
	colors        []core.Vec3
	ended         bool
	failAt        int // fail on this SetPixel call when > 0
}

var errSinkFull = errors.New("sink full")

func (s *recordingSink) Begin(width, height int) error {
	s.width, s.height = width, height
	return nil
}

func (s *recordingSink) SetPixel(x, y int, c core.Vec3) error {
	if s.failAt > 0 && len(s.coords)+1 == s.failAt {
		return errSinkFull
	}
	s.coords = append(s.coords, [2]int{x, y})
	s.colors = append(s.colors, c)
	return nil
}

func (s *recordingSink) End() error {
	s.ended = true
	return nil
}

// MockIntegrator returns a fixed color and records the rays it was given
type MockIntegrator struct {
	returnColor core.Vec3
	rays        []core.Ray
}

func (m *MockIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	m.rays = append(m.rays, ray)
	return m.returnColor
}

// constSampler always returns the same value
type constSampler float64

func (c constSampler) Get1D() float64   { return float64(c) }
func (c constSampler) Get3D() core.Vec3 { return core.NewVec3(float64(c), float64(c), float64(c)) }

func TestRaytracer_PixelOrderAndCounts(t *testing.T) {
	mock := &MockIntegrator{returnColor: core.NewVec3(0.25, 0.5, 1)}
	rt := NewRaytracer(groundAndSphereScene(), 4, 3)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 3, MaxDepth: 5, Seed: 1})
	rt.SetIntegrator(mock)

	sink := &recordingSink{}
	stats, err := rt.Render(context.Background(), sink)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if sink.width != 4 || sink.height != 3 {
		t.Errorf("Expected Begin(4, 3), got Begin(%d, %d)", sink.width, sink.height)
	}
	if !sink.ended {
		t.Error("Expected End to be called")
	}
	if len(sink.coords) != 12 {
		t.Fatalf("Expected 12 pixels, got %d", len(sink.coords))
	}
	for idx, c := range sink.coords {
		expected := [2]int{idx % 4, idx / 4}
		if c != expected {
			t.Fatalf("Pixel %d: expected coords %v, got %v", idx, expected, c)
		}
		if !sink.colors[idx].ApproxEquals(mock.returnColor, 1e-12) {
			t.Fatalf("Pixel %d: expected averaged color %v, got %v", idx, mock.returnColor, sink.colors[idx])
		}
	}

	if len(mock.rays) != 36 {
		t.Errorf("Expected 36 integrator calls, got %d", len(mock.rays))
	}
	if stats.TotalPixels != 12 || stats.TotalSamples != 36 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestRaytracer_UVMapping(t *testing.T) {
	mock := &MockIntegrator{}
	rt := NewRaytracer(groundAndSphereScene(), 3, 2)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 1, MaxDepth: 1})
	rt.SetIntegrator(mock)

	// With zero jitter the first pixel is the top-left corner (u=0, v=1)
	// and the last is the lower-right interior corner (u=1, v=0).
	if _, err := rt.RenderWithSampler(context.Background(), &recordingSink{}, constSampler(0)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	camera := NewCamera()
	first := mock.rays[0]
	if !first.Direction.ApproxEquals(camera.GetRay(0, 1).Direction, 1e-12) {
		t.Errorf("Expected top-left ray %v, got %v", camera.GetRay(0, 1).Direction, first.Direction)
	}
	last := mock.rays[len(mock.rays)-1]
	if !last.Direction.ApproxEquals(camera.GetRay(1, 0).Direction, 1e-12) {
		t.Errorf("Expected lower-right ray %v, got %v", camera.GetRay(1, 0).Direction, last.Direction)
	}

	// Jitter offsets within [0,1) pixel widths of (width-1)
	mock.rays = nil
	if _, err := rt.RenderWithSampler(context.Background(), &recordingSink{}, constSampler(0.5)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !mock.rays[0].Direction.ApproxEquals(camera.GetRay(0.25, 1.5).Direction, 1e-12) {
		t.Errorf("Expected jittered ray %v, got %v", camera.GetRay(0.25, 1.5).Direction, mock.rays[0].Direction)
	}
}

func TestRaytracer_Deterministic(t *testing.T) {
	render := func(seed int64) []core.Vec3 {
		rt := NewRaytracer(groundAndSphereScene(), 16, 9)
		rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 2, MaxDepth: 10, Seed: seed})
		sink := &recordingSink{}
		if _, err := rt.Render(context.Background(), sink); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		return sink.colors
	}

	a := render(7)
	b := render(7)
	c := render(8)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Pixel %d differs between identical seeds: %v vs %v", i, a[i], b[i])
		}
	}

	differs := false
	for i := range a {
		if a[i] != c[i] {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("Expected different seeds to produce different images")
	}
}

func TestRaytracer_DepthZeroRendersBlack(t *testing.T) {
	rt := NewRaytracer(groundAndSphereScene(), 8, 4)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 2, MaxDepth: 0, Seed: 3})
	sink := &recordingSink{}
	if _, err := rt.Render(context.Background(), sink); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i, c := range sink.colors {
		if c != (core.Vec3{}) {
			t.Fatalf("Pixel %d: expected black, got %v", i, c)
		}
	}
}

func TestRaytracer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		config        SamplingConfig
	}{
		{"width too small", 1, 10, DefaultSamplingConfig()},
		{"height too small", 10, 1, DefaultSamplingConfig()},
		{"no samples", 10, 10, SamplingConfig{SamplesPerPixel: 0, MaxDepth: 5}},
		{"negative depth", 10, 10, SamplingConfig{SamplesPerPixel: 1, MaxDepth: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRaytracer(groundAndSphereScene(), tt.width, tt.height)
			rt.SetSamplingConfig(tt.config)
			_, err := rt.Render(context.Background(), &recordingSink{})
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRaytracer_SinkErrorAborts(t *testing.T) {
	rt := NewRaytracer(groundAndSphereScene(), 4, 4)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 1, MaxDepth: 2})
	sink := &recordingSink{failAt: 6}

	_, err := rt.Render(context.Background(), sink)
	if !errors.Is(err, errSinkFull) {
		t.Fatalf("Expected sink error, got %v", err)
	}
	if len(sink.coords) != 5 {
		t.Errorf("Expected render to stop after 5 pixels, got %d", len(sink.coords))
	}
	if sink.ended {
		t.Error("End should not be called after a failed write")
	}
}

func TestRaytracer_Cancelled(t *testing.T) {
	rt := NewRaytracer(groundAndSphereScene(), 4, 4)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 1, MaxDepth: 2})

	ctx, cancel := context.WithCancel(context.Background())
	rows := 0
	rt.SetProgress(func(done, total int) {
		rows = done
		if done == 2 {
			cancel()
		}
	})

	_, err := rt.Render(ctx, &recordingSink{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if rows != 2 {
		t.Errorf("Expected render to stop after 2 rows, got %d", rows)
	}
}

func TestRaytracer_ProgressReportsEveryRow(t *testing.T) {
	rt := NewRaytracer(groundAndSphereScene(), 3, 5)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 1, MaxDepth: 1})

	var calls [][2]int
	rt.SetProgress(func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	if _, err := rt.Render(context.Background(), &recordingSink{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(calls) != 5 {
		t.Fatalf("Expected 5 progress calls, got %d", len(calls))
	}
	for i, c := range calls {
		if c != [2]int{i + 1, 5} {
			t.Errorf("Progress call %d: expected (%d, 5), got %v", i, i+1, c)
		}
	}
}
