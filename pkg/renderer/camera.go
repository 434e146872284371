package renderer

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera describes a pinhole viewpoint and produces the view and projection
// matrices consumed by RenderIteration
type Camera struct {
	Position core.Vec3
	Target   core.Vec3
	Up       core.Vec3
	VFov     float64 // Vertical field of view in degrees
	Near     float64
	Far      float64
}

// NewCamera creates a camera with default clipping planes
func NewCamera(position, target, up core.Vec3, vfov float64) Camera {
	return Camera{
		Position: position,
		Target:   target,
		Up:       up,
		VFov:     vfov,
		Near:     0.1,
		Far:      1000,
	}
}

// View returns the world-to-camera matrix
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(toMgl(c.Position), toMgl(c.Target), toMgl(c.Up))
}

// Projection returns the perspective matrix for the given aspect ratio
func (c Camera) Projection(aspect float64) mgl64.Mat4 {
	near, far := c.Near, c.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near * 10000
	}
	return mgl64.Perspective(mgl64.DegToRad(c.VFov), aspect, near, far)
}

// Matrices returns the view and projection matrices for a width x height target
func (c Camera) Matrices(width, height int) (view, proj mgl64.Mat4) {
	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = float64(width) / float64(height)
	}
	return c.View(), c.Projection(aspect)
}

// Orbit rotates the camera position around the target by yaw (about the up
// axis) and pitch, in radians. Pitch is limited short of the poles.
func (c Camera) Orbit(yaw, pitch float64) Camera {
	offset := c.Position.Subtract(c.Target)
	radius := offset.Length()
	if radius == 0 {
		return c
	}

	theta := math.Atan2(offset.X, offset.Z) + yaw
	phi := math.Asin(math.Max(-1, math.Min(1, offset.Y/radius))) + pitch
	limit := math.Pi/2 - 0.01
	phi = math.Max(-limit, math.Min(limit, phi))

	c.Position = c.Target.Add(core.NewVec3(
		radius*math.Cos(phi)*math.Sin(theta),
		radius*math.Sin(phi),
		radius*math.Cos(phi)*math.Cos(theta),
	))
	return c
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
