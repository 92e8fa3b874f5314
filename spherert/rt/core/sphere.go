package core

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SphereDataSize is the uniform block size in bytes: vec3<f32> center
// followed by f32 radius, which WGSL packs into one 16 byte slot.
const SphereDataSize = 16

// SphereData mirrors the shader's Sphere uniform.
type SphereData struct {
	Center mgl32.Vec3
	Radius float32
}

func DefaultSphere() SphereData {
	return SphereData{
		Center: mgl32.Vec3{0, 0, 0},
		Radius: 1.0,
	}
}

// Bytes returns the little-endian upload image of the sphere.
func (s SphereData) Bytes() []byte {
	buf := make([]byte, 0, SphereDataSize)
	buf = appendFloat32(buf, s.Center[0])
	buf = appendFloat32(buf, s.Center[1])
	buf = appendFloat32(buf, s.Center[2])
	return appendFloat32(buf, s.Radius)
}

func appendFloat32(b []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
}

// SphereFromBytes decodes what Bytes produced, the way the shader reads it.
func SphereFromBytes(b []byte) (SphereData, error) {
	if len(b) != SphereDataSize {
		return SphereData{}, fmt.Errorf("sphere data must be %d bytes, got %d", SphereDataSize, len(b))
	}
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
	}
	return SphereData{
		Center: mgl32.Vec3{f(0), f(4), f(8)},
		Radius: f(12),
	}, nil
}

// Intersect returns the nearest positive hit distance along a normalized
// ray, or false when the ray misses.
func (s SphereData) Intersect(origin, dir mgl32.Vec3) (float32, bool) {
	oc := origin.Sub(s.Center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t <= 0 {
		t = -b + sq
	}
	if t <= 0 {
		return 0, false
	}
	return t, true
}
