package renderer

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera looking down -z
type CameraConfig struct {
	Origin         core.Vec3 // Eye position
	AspectRatio    float64   // Viewport width / height
	ViewportHeight float64   // Viewport height in world units
	FocalLength    float64   // Distance from origin to the viewport plane
}

// DefaultCameraConfig returns the 16:9 camera at the world origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:         core.NewVec3(0, 0, 0),
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
	}
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	aspectRatio     float64
}

// NewCamera creates the default camera
func NewCamera() *Camera {
	return NewCameraFromConfig(DefaultCameraConfig())
}

// NewCameraFromConfig creates a camera from an explicit configuration
func NewCameraFromConfig(config CameraConfig) *Camera {
	viewportWidth := config.AspectRatio * config.ViewportHeight

	origin := config.Origin
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, config.ViewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
		aspectRatio:     config.AspectRatio,
	}
}

// AspectRatio returns the viewport width / height ratio
func (c *Camera) AspectRatio() float64 {
	return c.aspectRatio
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1.
// (0, 0) is the lower-left corner of the viewport.
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
