package scene

import (
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Compile-time check that Scene can drive the renderer
var _ renderer.Scene = (*Scene)(nil)

func TestNewDefaultScene(t *testing.T) {
	s := NewDefaultScene()

	if s.Width != 400 {
		t.Errorf("Expected width 400, got %d", s.Width)
	}
	if s.Height != 225 {
		t.Errorf("Expected height 225, got %d", s.Height)
	}
	if s.GetPrimitiveCount() != 4 {
		t.Fatalf("Expected 4 spheres, got %d", s.GetPrimitiveCount())
	}
	if s.SamplingConfig.SamplesPerPixel != 100 || s.SamplingConfig.MaxDepth != 50 {
		t.Errorf("Expected 100 spp and depth 50, got %d spp and depth %d",
			s.SamplingConfig.SamplesPerPixel, s.SamplingConfig.MaxDepth)
	}

	expected := []struct {
		center core.Vec3
		radius float64
	}{
		{core.NewVec3(0, -100.5, -1), 100},
		{core.NewVec3(0, 0, -1), 0.5},
		{core.NewVec3(-1, 0, -1), -0.4},
		{core.NewVec3(1, 0, -1), 0.5},
	}
	for i, want := range expected {
		sphere, ok := s.World.Shapes[i].(*geometry.Sphere)
		if !ok {
			t.Fatalf("Shape %d: expected *geometry.Sphere, got %T", i, s.World.Shapes[i])
		}
		if !sphere.Center.Equals(want.center) || sphere.Radius != want.radius {
			t.Errorf("Shape %d: expected center %v radius %g, got center %v radius %g",
				i, want.center, want.radius, sphere.Center, sphere.Radius)
		}
	}

	if _, ok := s.World.Shapes[2].(*geometry.Sphere).Material.(*material.Dielectric); !ok {
		t.Error("Expected the left sphere to be glass")
	}
	if _, ok := s.World.Shapes[3].(*geometry.Sphere).Material.(*material.Metal); !ok {
		t.Error("Expected the right sphere to be metal")
	}
}

func TestScene_CenterRayHitsCenterSphere(t *testing.T) {
	s := NewDefaultScene()
	ray := s.GetCamera().GetRay(0.5, 0.5)

	hit, ok := s.GetWorld().Hit(ray, 0.001, 1e18)
	if !ok {
		t.Fatal("Expected the center ray to hit")
	}
	if hit.T < 0.49 || hit.T > 0.51 {
		t.Errorf("Expected t = 0.5, got %f", hit.T)
	}
	if _, ok := hit.Material.(*material.Lambertian); !ok {
		t.Errorf("Expected the diffuse center sphere, got %T", hit.Material)
	}
}

func TestScene_Materials(t *testing.T) {
	tests := []struct {
		name     string
		scene    *Scene
		expected int
	}{
		{"default", NewDefaultScene(), 4},
		{"simple", NewSimpleScene(), 2},
		{"materials", NewMaterialsScene(), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.scene.Materials()); got != tt.expected {
				t.Errorf("Expected %d distinct materials, got %d", tt.expected, got)
			}
		})
	}
}

func TestNewSceneByName(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"default scene", "default", false},
		{"simple scene", "simple", false},
		{"materials scene", "materials", false},
		{"unknown scene", "cornell", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSceneByName(tt.sceneType)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if s != nil {
					t.Errorf("Expected nil scene for '%s'", tt.sceneType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Error("Expected scene to contain shapes")
			}
			if s.Width < 2 || s.Height < 2 {
				t.Errorf("Expected renderable size, got %dx%d", s.Width, s.Height)
			}
		})
	}
}

func TestListBuiltinScenes(t *testing.T) {
	scenes := ListBuiltinScenes()
	if len(scenes) != 3 {
		t.Fatalf("Expected 3 scenes, got %d", len(scenes))
	}
	for i := 1; i < len(scenes); i++ {
		if scenes[i-1].ID >= scenes[i].ID {
			t.Errorf("Scenes not sorted: %s before %s", scenes[i-1].ID, scenes[i].ID)
		}
	}
	for _, info := range scenes {
		if _, err := NewSceneByName(info.ID); err != nil {
			t.Errorf("Listed scene %s cannot be built: %v", info.ID, err)
		}
	}
}

func TestImageHeight(t *testing.T) {
	if h := ImageHeight(400, 16.0/9.0); h != 225 {
		t.Errorf("Expected 225, got %d", h)
	}
	if h := ImageHeight(100, 2); h != 50 {
		t.Errorf("Expected 50, got %d", h)
	}
}
