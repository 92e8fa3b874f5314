package gpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gekko3d/raysphere"

	"github.com/cogentcore/webgpu/wgpu"
)

// Context owns the device, queue and presentation surface. The surface is
// created unconfigured; Configure must succeed before frames are acquired.
type Context struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	logger     raysphere.Logger
	deviceLost atomic.Bool
}

// NewContext wraps the window surface, picks an adapter compatible with it
// and negotiates the surface format and present mode. Any failure here is
// fatal for the caller.
func NewContext(desc *wgpu.SurfaceDescriptor, width, height int, presentMode string, logger raysphere.Logger) (*Context, error) {
	if desc == nil {
		return nil, fmt.Errorf("surface descriptor is nil")
	}
	c := &Context{logger: raysphere.OrNop(logger)}
	c.Instance = wgpu.CreateInstance(nil)
	c.Surface = c.Instance.CreateSurface(desc)

	adapter, err := c.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: c.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil || adapter == nil {
		c.Release()
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	c.Adapter = adapter

	c.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:              "Main Device",
		DeviceLostCallback: c.onDeviceLost,
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("failed to get GPU device: %w", err)
	}
	c.Queue = c.Device.GetQueue()

	caps := c.Surface.GetCapabilities(adapter)
	format, err := chooseSurfaceFormat(caps.Formats)
	if err != nil {
		c.Release()
		return nil, err
	}
	alpha := wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alpha = caps.AlphaModes[0]
	}

	c.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: choosePresentMode(presentMode, caps.PresentModes),
		AlphaMode:   alpha,
	}
	return c, nil
}

func (c *Context) onDeviceLost(reason wgpu.DeviceLostReason, message string) {
	c.deviceLost.Store(true)
	raysphere.OrNop(c.logger).Errorf("%v: reason %v: %s", ErrDeviceLost, reason, message)
}

// DeviceLost reports whether the device lost callback has fired.
func (c *Context) DeviceLost() bool {
	return c.deviceLost.Load()
}

// AdapterName describes the selected GPU for logs.
func (c *Context) AdapterName() string {
	info := c.Adapter.GetInfo()
	return fmt.Sprintf("%s (%s, %s)", info.Name, info.BackendType.String(), info.AdapterType.String())
}

func (c *Context) Format() wgpu.TextureFormat {
	return c.Config.Format
}

// Configure resizes the surface. Non-positive sizes are rejected so the
// driver never sees a zero-area swapchain.
func (c *Context) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	c.Config.Width = uint32(width)
	c.Config.Height = uint32(height)
	c.Surface.Configure(c.Adapter, c.Device, c.Config)
	return nil
}

func (c *Context) AcquireFrame() (*Frame, error) {
	if c.DeviceLost() {
		return nil, ErrDeviceLost
	}
	texture, err := c.Surface.GetCurrentTexture()
	if err != nil {
		return nil, classifySurfaceError(err)
	}
	if texture == nil {
		return nil, fmt.Errorf("%w: no surface texture", ErrSurfaceOutdated)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("failed to create surface view: %w", err)
	}
	return &Frame{texture: texture, view: view}, nil
}

func (c *Context) Present() {
	c.Surface.Present()
}

func (c *Context) Release() {
	if c.Queue != nil {
		c.Queue.Release()
	}
	if c.Device != nil {
		c.Device.Release()
	}
	if c.Adapter != nil {
		c.Adapter.Release()
	}
	if c.Surface != nil {
		c.Surface.Release()
	}
	if c.Instance != nil {
		c.Instance.Release()
	}
}

// chooseSurfaceFormat prefers an sRGB format so the blit output is gamma
// encoded by the presentation engine, falling back to the first supported.
func chooseSurfaceFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, error) {
	if len(formats) == 0 {
		return wgpu.TextureFormatUndefined, fmt.Errorf("surface reports no supported formats")
	}
	for _, f := range formats {
		if isSrgb(f) {
			return f, nil
		}
	}
	return formats[0], nil
}

func isSrgb(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}

// choosePresentMode maps a config name to a supported mode. FIFO is
// guaranteed by WebGPU and is the fallback.
func choosePresentMode(name string, supported []wgpu.PresentMode) wgpu.PresentMode {
	want := wgpu.PresentModeFifo
	switch name {
	case "mailbox":
		want = wgpu.PresentModeMailbox
	case "immediate":
		want = wgpu.PresentModeImmediate
	}
	for _, m := range supported {
		if m == want {
			return want
		}
	}
	return wgpu.PresentModeFifo
}
