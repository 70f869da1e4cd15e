package integrator

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// SkyGradient is a vertical background blend used when a ray escapes the scene
type SkyGradient struct {
	Top    core.Vec3 // Color seen looking straight up
	Bottom core.Vec3 // Color seen looking straight down
}

// DefaultSky returns the white-to-sky-blue gradient
func DefaultSky() SkyGradient {
	return SkyGradient{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the background color for a ray direction
func (s SkyGradient) Color(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Unit()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return s.Bottom.Multiply(1.0 - t).Add(s.Top.Multiply(t))
}
