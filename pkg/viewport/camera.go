package viewport

import (
	"math"

	"github.com/chazu/floorplan/pkg/mode"
	"github.com/chazu/floorplan/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera describes both projections of the workspace viewport.
type Camera struct {
	FOV       float64    // vertical field of view in degrees (perspective)
	Eye       scene.Vec3 // perspective camera position
	Target    scene.Vec3 // look-at point for both projections
	TopHeight float64    // orthographic camera height above Target
	Zoom      float64    // orthographic pixels per world unit
	Width     float64    // viewport width in pixels
	Height    float64    // viewport height in pixels
	Near, Far float64
}

// DefaultCamera returns the camera used by a fresh workspace.
func DefaultCamera() Camera {
	return Camera{
		FOV:       50,
		Eye:       scene.Vec3{X: 10, Y: 10, Z: 10},
		TopHeight: 50,
		Zoom:      50,
		Width:     800,
		Height:    600,
		Near:      0.1,
		Far:       1000,
	}
}

func (c Camera) aspect() float64 {
	if c.Height <= 0 {
		return 1
	}
	return c.Width / c.Height
}

func toMgl(v scene.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// View returns the world-to-camera matrix for the given projection.
func (c Camera) View(v mode.View) mgl64.Mat4 {
	if v == mode.View2D {
		eye := c.Target.Add(scene.Vec3{Y: c.TopHeight})
		// Looking straight down, so "up" on screen is -Z.
		return mgl64.LookAtV(toMgl(eye), toMgl(c.Target), mgl64.Vec3{0, 0, -1})
	}
	return mgl64.LookAtV(toMgl(c.Eye), toMgl(c.Target), mgl64.Vec3{0, 1, 0})
}

// Projection returns the camera-to-clip matrix for the given projection.
func (c Camera) Projection(v mode.View) mgl64.Mat4 {
	if v == mode.View2D {
		zoom := c.Zoom
		if zoom <= 0 {
			zoom = 1
		}
		hw, hh := c.Width/(2*zoom), c.Height/(2*zoom)
		return mgl64.Ortho(-hw, hw, -hh, hh, c.Near, c.Far)
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.aspect(), c.Near, c.Far)
}

// GroundPoint casts a ray through the normalized device coordinate
// (ndcX, ndcY) and returns where it meets the y=0 ground plane. It reports
// false when the ray is parallel to the plane or the hit lies behind the
// camera.
func (c Camera) GroundPoint(v mode.View, ndcX, ndcY float64) (scene.Vec3, bool) {
	inv := c.Projection(v).Mul4(c.View(v)).Inv()

	near := unproject(inv, ndcX, ndcY, -1)
	far := unproject(inv, ndcX, ndcY, 1)
	dir := far.Sub(near)
	if math.Abs(dir.Y()) < 1e-12 {
		return scene.Vec3{}, false
	}
	t := -near.Y() / dir.Y()
	if t < 0 {
		return scene.Vec3{}, false
	}
	hit := near.Add(dir.Mul(t))
	return scene.Vec3{X: hit.X(), Y: 0, Z: hit.Z()}, true
}

func unproject(inv mgl64.Mat4, x, y, z float64) mgl64.Vec3 {
	p := inv.Mul4x1(mgl64.Vec4{x, y, z, 1})
	return p.Vec3().Mul(1 / p.W())
}
