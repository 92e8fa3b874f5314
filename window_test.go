package raysphere

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTitle(t *testing.T) {
	assert.Equal(t, "WGPU Raytracing Test | FPS: 60.0  800x600",
		statusTitle(DefaultTitle, "FPS: 60.0  800x600\nframes 120  skipped 0  reconfigured 0"))
	assert.Equal(t, "rt | ok", statusTitle("rt", "  ok  "))
	assert.Equal(t, "rt", statusTitle("rt", ""))
	assert.Equal(t, "rt", statusTitle("rt", "\nsecond line only"))
}
