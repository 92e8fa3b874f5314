package core

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextAtlas_vertices(t *testing.T) {
	a, err := NewTextAtlas(14)
	require.NoError(t, err)
	require.Greater(t, a.LineHeight(), float32(0))

	white := [4]float32{1, 1, 1, 1}
	vs := a.Vertices("Hi", 10, 10, white, 800, 600)
	require.Len(t, vs, 12, "two glyphs, two triangles each")
	for _, v := range vs {
		assert.GreaterOrEqual(t, v.Pos[0], float32(-1))
		assert.LessOrEqual(t, v.Pos[0], float32(1))
		assert.GreaterOrEqual(t, v.UV[0], float32(0))
		assert.LessOrEqual(t, v.UV[1], float32(1))
		assert.Equal(t, white, v.Color)
	}

	assert.Empty(t, a.Vertices(" ", 0, 0, white, 800, 600), "blank glyphs emit no quads")
	assert.Empty(t, a.Vertices("é", 0, 0, white, 800, 600), "runes outside the atlas are skipped")
}

func TestTextAtlas_newlineMovesDown(t *testing.T) {
	a, err := NewTextAtlas(14)
	require.NoError(t, err)

	one := a.Vertices("A", 0, 0, [4]float32{1, 1, 1, 1}, 800, 600)
	two := a.Vertices("A\nA", 0, 0, [4]float32{1, 1, 1, 1}, 800, 600)
	require.Len(t, two, 12)

	assert.Equal(t, one[0].Pos[0], two[6].Pos[0], "second line restarts at the left edge")
	assert.Less(t, two[6].Pos[1], two[0].Pos[1], "second line is lower in clip space")
}

func TestTextVertexBytes(t *testing.T) {
	v := TextVertex{Pos: [2]float32{-1, 1}, UV: [2]float32{0.25, 0.5}, Color: [4]float32{1, 0, 0, 1}}
	b := TextVertexBytes([]TextVertex{v, v})
	require.Len(t, b, 2*TextVertexSize)

	at := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])) }
	assert.Equal(t, float32(-1), at(0))
	assert.Equal(t, float32(0.5), at(3))
	assert.Equal(t, float32(1), at(7))
	assert.Equal(t, float32(-1), at(8))
}
