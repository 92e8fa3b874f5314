package gpu

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignedBytesPerRow(t *testing.T) {
	tests := []struct {
		width uint32
		want  uint32
	}{
		{1, 256},
		{64, 256},
		{65, 512},
		{800, 3328},
		{1024, 4096},
	}
	for _, tt := range tests {
		got := alignedBytesPerRow(tt.width)
		assert.Equal(t, tt.want, got, "width %d", tt.width)
		assert.Zero(t, got%copyRowAlignment)
		assert.GreaterOrEqual(t, got, tt.width*4)
	}
}

func TestUnpackRGBA_stripsPadding(t *testing.T) {
	const w, h, stride = 3, 2, 16
	data := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*stride + x*4
			data[o] = byte(10*y + x)
			data[o+1] = 1
			data[o+2] = 2
			data[o+3] = 255
		}
		for p := w * 4; p < stride; p++ {
			data[y*stride+p] = 0xEE
		}
	}

	img, err := unpackRGBA(data, w, h, stride)
	require.NoError(t, err)
	assert.Equal(t, w*4, img.Stride)
	assert.Equal(t, color.RGBA{0, 1, 2, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{12, 1, 2, 255}, img.RGBAAt(2, 1))
	assert.NotContains(t, img.Pix, byte(0xEE))
}

func TestUnpackRGBA_rejectsShortInput(t *testing.T) {
	_, err := unpackRGBA(make([]byte, 10), 4, 4, 16)
	assert.Error(t, err)

	_, err = unpackRGBA(make([]byte, 64), 4, 1, 8)
	assert.Error(t, err)
}
