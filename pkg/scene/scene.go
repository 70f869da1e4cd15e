package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	World          *geometry.HittableList // Objects in the scene
	Background     integrator.SkyGradient
	SamplingConfig renderer.SamplingConfig
	Width          int // Recommended image width
	Height         int // Recommended image height
}

// newScene creates an empty scene with the default camera and sky at the given width
func newScene(width int) *Scene {
	camera := renderer.NewCamera()
	return &Scene{
		Camera:         camera,
		World:          geometry.NewHittableList(),
		Background:     integrator.DefaultSky(),
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Width:          width,
		Height:         ImageHeight(width, camera.AspectRatio()),
	}
}

// ImageHeight returns the image height matching width at the given aspect ratio
func ImageHeight(width int, aspectRatio float64) int {
	return int(float64(width) / aspectRatio)
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(sphere *geometry.Sphere) {
	s.World.Add(sphere)
}

// GetCamera implements renderer.Scene
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld implements renderer.Scene
func (s *Scene) GetWorld() geometry.Shape {
	return s.World
}

// GetBackground implements renderer.Scene
func (s *Scene) GetBackground() integrator.SkyGradient {
	return s.Background
}

// GetPrimitiveCount returns the total number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// Materials returns the distinct materials referenced by the scene, in first-use order
func (s *Scene) Materials() []material.Material {
	seen := make(map[material.Material]bool)
	var materials []material.Material
	for _, shape := range s.World.Shapes {
		sphere, ok := shape.(*geometry.Sphere)
		if !ok || sphere.Material == nil || seen[sphere.Material] {
			continue
		}
		seen[sphere.Material] = true
		materials = append(materials, sphere.Material)
	}
	return materials
}
