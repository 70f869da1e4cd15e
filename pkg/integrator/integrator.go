package integrator

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the light arriving along ray. Each call follows one
	// random path, so callers average many calls per pixel.
	RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3
}
