package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// NewDefaultScene creates the ground, a diffuse center sphere, a glass bubble
// on the left and a polished gold sphere on the right
func NewDefaultScene() *Scene {
	s := newScene(400)

	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialLeft := material.NewDielectric(1.5)
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, materialGround))
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, materialCenter))
	// Negative radius turns the glass sphere into a bubble
	s.AddSphere(geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.4, materialLeft))
	s.AddSphere(geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, materialRight))

	return s
}

// NewSimpleScene creates the ground and one diffuse sphere. It renders quickly
// and is used for regression images.
func NewSimpleScene() *Scene {
	s := newScene(400)

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))))
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))))

	return s
}

// NewMaterialsScene shows every material side by side: fuzzy silver, diffuse
// blue and a hollow glass shell, all sharing one ground material
func NewMaterialsScene() *Scene {
	s := newScene(400)
	s.SamplingConfig.SamplesPerPixel = 200

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	diffuse := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	silver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.3)
	glass := material.NewDielectric(1.5)

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground))
	s.AddSphere(geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, silver))
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, diffuse))

	// Hollow shell: outer surface plus an inverted inner surface of the same glass
	s.AddSphere(geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, glass))
	s.AddSphere(geometry.NewSphere(core.NewVec3(1, 0, -1), -0.45, glass))

	// Small spheres resting on the ground reuse the same materials
	s.AddSphere(geometry.NewSphere(core.NewVec3(-0.45, -0.4, -0.6), 0.1, glass))
	s.AddSphere(geometry.NewSphere(core.NewVec3(0.45, -0.4, -0.6), 0.1, silver))

	return s
}
