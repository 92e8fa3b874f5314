package core

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereData_layout(t *testing.T) {
	s := SphereData{Center: mgl32.Vec3{1.5, -2, 0.25}, Radius: 3}
	b := s.Bytes()
	require.Len(t, b, SphereDataSize)

	want := []float32{1.5, -2, 0.25, 3}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		assert.Equal(t, w, got, "float %d", i)
	}
}

func TestSphereData_roundTrip(t *testing.T) {
	cases := []SphereData{
		DefaultSphere(),
		{Center: mgl32.Vec3{-100, 0.001, 42}, Radius: 0.5},
		{Center: mgl32.Vec3{float32(math.Inf(1)), 0, -0}, Radius: math.MaxFloat32},
		{Center: mgl32.Vec3{math.SmallestNonzeroFloat32, 1e-20, 7}, Radius: 1e-6},
	}
	for _, s := range cases {
		got, err := SphereFromBytes(s.Bytes())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestSphereFromBytes_wrongSize(t *testing.T) {
	_, err := SphereFromBytes(make([]byte, 12))
	assert.Error(t, err)
}

func TestSphereData_Intersect(t *testing.T) {
	s := DefaultSphere()
	origin := mgl32.Vec3{0, 0, 3}

	tHit, hit := s.Intersect(origin, mgl32.Vec3{0, 0, -1})
	require.True(t, hit)
	assert.InDelta(t, 2.0, tHit, 1e-5)

	_, hit = s.Intersect(origin, mgl32.Vec3{0, 1, 0})
	assert.False(t, hit, "ray pointing away from the sphere")

	_, hit = s.Intersect(origin, mgl32.Vec3{0, 0, 1})
	assert.False(t, hit, "sphere behind the origin")

	tHit, hit = s.Intersect(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0})
	require.True(t, hit, "origin inside the sphere hits the far side")
	assert.InDelta(t, 1.0, tHit, 1e-5)
}
