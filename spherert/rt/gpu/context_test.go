package gpu

import (
	"bytes"
	"testing"

	"github.com/gekko3d/raysphere"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseSurfaceFormat(t *testing.T) {
	got, err := chooseSurfaceFormat([]wgpu.TextureFormat{
		wgpu.TextureFormatBGRA8Unorm,
		wgpu.TextureFormatBGRA8UnormSrgb,
	})
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, got)

	got, err = chooseSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm})
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, got, "falls back to the first format")

	_, err = chooseSurfaceFormat(nil)
	assert.Error(t, err)
}

func TestChoosePresentMode(t *testing.T) {
	all := []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeMailbox, wgpu.PresentModeImmediate}

	assert.Equal(t, wgpu.PresentModeFifo, choosePresentMode("fifo", all))
	assert.Equal(t, wgpu.PresentModeMailbox, choosePresentMode("mailbox", all))
	assert.Equal(t, wgpu.PresentModeImmediate, choosePresentMode("immediate", all))
	assert.Equal(t, wgpu.PresentModeFifo, choosePresentMode("mailbox", []wgpu.PresentMode{wgpu.PresentModeFifo}))
	assert.Equal(t, wgpu.PresentModeFifo, choosePresentMode("", nil))
}

func TestFrameReleaseIsNilSafe(t *testing.T) {
	var f *Frame
	assert.NotPanics(t, f.Release)
	assert.NotPanics(t, (&Frame{}).Release)
	assert.Nil(t, (&Frame{}).View())
}

func TestContext_deviceLostIsLoggedAndStopsAcquire(t *testing.T) {
	var logs bytes.Buffer
	c := &Context{logger: raysphere.NewWriterLogger("gpu", false, &logs, &logs)}
	require.False(t, c.DeviceLost())

	c.onDeviceLost(wgpu.DeviceLostReason(1), "driver reset")
	assert.True(t, c.DeviceLost())
	assert.Contains(t, logs.String(), "ERROR: device lost")
	assert.Contains(t, logs.String(), "driver reset")

	frame, err := c.AcquireFrame()
	assert.Nil(t, frame)
	assert.ErrorIs(t, err, ErrDeviceLost)
	assert.False(t, IsRecoverable(err))
}
