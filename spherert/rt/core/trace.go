package core

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Shading constants shared with raytrace.wgsl.
var (
	LightDir   = mgl32.Vec3{1, 1, 1}.Normalize()
	BaseColor  = mgl32.Vec3{1.0, 0.45, 0.2}
	SkyBottom  = mgl32.Vec3{1.0, 1.0, 1.0}
	SkyTop     = mgl32.Vec3{0.5, 0.7, 1.0}
	AmbientMix = float32(0.1)
)

// Shade is the CPU twin of the compute shader: the linear color written
// for pixel (x, y).
func Shade(s SphereData, cam Camera, x, y, width, height int) mgl32.Vec3 {
	dir := cam.RayDirection(x, y, width, height)
	if t, hit := s.Intersect(cam.Origin, dir); hit {
		p := cam.Origin.Add(dir.Mul(t))
		n := p.Sub(s.Center).Normalize()
		diffuse := n.Dot(LightDir)
		if diffuse < 0 {
			diffuse = 0
		}
		return BaseColor.Mul(AmbientMix + (1-AmbientMix)*diffuse)
	}
	k := 0.5 * (dir.Y() + 1)
	return SkyBottom.Mul(1 - k).Add(SkyTop.Mul(k))
}

// Trace returns the quantized texel an RGBA8Unorm store would hold.
func Trace(s SphereData, cam Camera, x, y, width, height int) color.RGBA {
	c := Shade(s, cam, x, y, width, height)
	return color.RGBA{unorm8(c[0]), unorm8(c[1]), unorm8(c[2]), 255}
}

// RenderImage traces every pixel of a width x height image.
func RenderImage(s SphereData, cam Camera, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, Trace(s, cam, x, y, width, height))
		}
	}
	return img
}

// ProjectCenter returns the pixel the sphere center lands on.
func ProjectCenter(s SphereData, cam Camera, width, height int) (int, int, bool) {
	return cam.Project(s.Center, width, height)
}

func unorm8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
