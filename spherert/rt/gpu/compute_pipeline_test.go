package gpu

import (
	"testing"

	"github.com/gekko3d/raysphere/spherert/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headlessDevice returns a device without a surface, or skips the test on
// machines with no usable adapter.
func headlessDevice(t *testing.T) (*wgpu.Device, *wgpu.Queue) {
	t.Helper()
	instance := wgpu.CreateInstance(nil)
	t.Cleanup(instance.Release)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil || adapter == nil {
		t.Skipf("no GPU adapter: %v", err)
	}
	t.Cleanup(adapter.Release)

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		t.Skipf("no GPU device: %v", err)
	}
	t.Cleanup(device.Release)
	return device, device.GetQueue()
}

func TestComputePipeline_rejectsEmptyTarget(t *testing.T) {
	_, err := NewComputePipeline(nil, core.DefaultSphere(), 0, 600)
	assert.Error(t, err)
}

func TestComputePipeline_sphereCenterDiffersFromBackground(t *testing.T) {
	device, queue := headlessDevice(t)
	const w, h = 160, 120

	c, err := NewComputePipeline(device, core.DefaultSphere(), w, h)
	require.NoError(t, err)
	defer c.Release()

	img, err := ReadStorageTexture(device, queue, c)
	require.NoError(t, err)
	require.Equal(t, w, img.Bounds().Dx())
	require.Equal(t, h, img.Bounds().Dy())

	sphere := core.DefaultSphere()
	cx, cy, ok := core.ProjectCenter(sphere, core.DefaultCamera(), w, h)
	require.True(t, ok)
	assert.NotEqual(t, img.RGBAAt(cx, cy), img.RGBAAt(0, 0))

	// The GPU and CPU tracers agree up to float rounding.
	want := core.Trace(sphere, core.DefaultCamera(), cx, cy, w, h)
	got := img.RGBAAt(cx, cy)
	assert.InDelta(t, want.R, got.R, 2)
	assert.InDelta(t, want.G, got.G, 2)
	assert.InDelta(t, want.B, got.B, 2)
}

func TestComputePipeline_updateSphereMovesSilhouette(t *testing.T) {
	device, queue := headlessDevice(t)
	const w, h = 160, 120

	c, err := NewComputePipeline(device, core.DefaultSphere(), w, h)
	require.NoError(t, err)
	defer c.Release()

	moved := core.SphereData{Center: mgl32.Vec3{1.5, 0, 0}, Radius: 0.5}
	require.NoError(t, c.UpdateSphere(queue, moved))

	img, err := ReadStorageTexture(device, queue, c)
	require.NoError(t, err)

	cam := core.DefaultCamera()
	mx, my, ok := core.ProjectCenter(moved, cam, w, h)
	require.True(t, ok)
	assert.InDelta(t, core.Trace(moved, cam, w/2, h/2, w, h).R, img.RGBAAt(w/2, h/2).R, 2, "old center now shows background")
	assert.NotEqual(t, img.RGBAAt(w/2, h/2), img.RGBAAt(mx, my))
}
