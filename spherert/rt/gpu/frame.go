package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Frame is one acquired swapchain image. Release it after Present.
type Frame struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (f *Frame) View() *wgpu.TextureView {
	return f.view
}

func (f *Frame) Release() {
	if f == nil {
		return
	}
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
}
