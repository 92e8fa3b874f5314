package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the fixed pinhole camera baked into raytrace.wgsl.
// Y is up, the camera looks down -Z.
type Camera struct {
	Origin      mgl32.Vec3
	FocalLength float32
}

func DefaultCamera() Camera {
	return Camera{
		Origin:      mgl32.Vec3{0, 0, 3},
		FocalLength: 1.5,
	}
}

// RayDirection returns the normalized direction through the center of pixel
// (x, y) of a width x height image. Pixel rows grow downwards.
func (c Camera) RayDirection(x, y, width, height int) mgl32.Vec3 {
	w := float32(width)
	h := float32(height)
	u := (float32(x)+0.5)/w*2 - 1
	v := 1 - (float32(y)+0.5)/h*2
	return mgl32.Vec3{u * (w / h), v, -c.FocalLength}.Normalize()
}

// Project maps a world point in front of the camera to pixel coordinates.
// ok is false for points at or behind the camera plane and for points that
// land outside the width x height image.
func (c Camera) Project(p mgl32.Vec3, width, height int) (x, y int, ok bool) {
	d := p.Sub(c.Origin)
	if d.Z() >= 0 {
		return 0, 0, false
	}
	w := float32(width)
	h := float32(height)
	scale := c.FocalLength / -d.Z()
	u := d.X() * scale / (w / h)
	v := d.Y() * scale
	px := (u + 1) / 2 * w
	py := (1 - v) / 2 * h
	if px < 0 || py < 0 || px >= w || py >= h {
		return 0, 0, false
	}
	return int(px), int(py), true
}
