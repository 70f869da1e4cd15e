package integrator

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// HitEpsilon is the minimum ray parameter accepted for scene hits. It keeps a
// scattered ray from re-hitting the surface it just left.
const HitEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with one
// scattered ray per bounce
type PathTracingIntegrator struct {
	maxDepth   int
	background SkyGradient
}

// NewPathTracingIntegrator creates a new path tracing integrator with the default sky
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		maxDepth:   maxDepth,
		background: DefaultSky(),
	}
}

// WithBackground returns a copy of the integrator using a different sky
func (pt *PathTracingIntegrator) WithBackground(sky SkyGradient) *PathTracingIntegrator {
	clone := *pt
	clone.background = sky
	return &clone
}

// MaxDepth returns the bounce budget for each camera ray
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	return pt.rayColor(ray, world, sampler, pt.maxDepth)
}

func (pt *PathTracingIntegrator) rayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, HitEpsilon, math.Inf(1))
	if !isHit {
		return pt.background.Color(ray)
	}

	// Shapes without a material absorb everything
	if hit.Material == nil {
		return core.Vec3{}
	}

	scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(
		pt.rayColor(scatter.Scattered, world, sampler, depth-1))
}
