package gpu

import (
	"fmt"

	"github.com/gekko3d/raysphere/spherert/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
)

// Renderer records one frame: the ray trace dispatch into the storage
// texture followed by the blit of that texture onto the surface.
type Renderer struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	Compute *ComputePipeline
	Blit    *BlitPipeline

	blitBindGroup *wgpu.BindGroup
	boundView     *wgpu.TextureView
	overlays      []Overlay
}

// NewRenderer builds both pipelines against ctx. The storage texture is
// texWidth x texHeight regardless of the surface size; the blit stretches it.
func NewRenderer(ctx *Context, sphere core.SphereData, texWidth, texHeight uint32) (*Renderer, error) {
	r := &Renderer{device: ctx.Device, queue: ctx.Queue}

	var err error
	r.Compute, err = NewComputePipeline(ctx.Device, sphere, texWidth, texHeight)
	if err != nil {
		return nil, err
	}
	r.Blit, err = NewBlitPipeline(ctx.Device, ctx.Format())
	if err != nil {
		r.Release()
		return nil, err
	}
	if err := r.rebind(); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) AddOverlay(o Overlay) {
	r.overlays = append(r.overlays, o)
}

// rebind recreates the blit bind group when the storage view it samples is
// no longer the one the compute pipeline writes.
func (r *Renderer) rebind() error {
	if r.blitBindGroup != nil && r.boundView == r.Compute.StorageView {
		return nil
	}
	bg, err := r.Blit.CreateBindGroup(r.device, r.Compute.StorageView)
	if err != nil {
		return err
	}
	if r.blitBindGroup != nil {
		r.blitBindGroup.Release()
	}
	r.blitBindGroup = bg
	r.boundView = r.Compute.StorageView
	return nil
}

// UpdateSphere uploads new sphere parameters for subsequent frames.
func (r *Renderer) UpdateSphere(sphere core.SphereData) error {
	return r.Compute.UpdateSphere(r.queue, sphere)
}

// EncodeFrame records and submits the compute and blit passes for target,
// a surface view of width x height. Nothing is submitted on error.
func (r *Renderer) EncodeFrame(target *wgpu.TextureView, width, height uint32) error {
	if err := r.rebind(); err != nil {
		return err
	}
	for _, o := range r.overlays {
		if err := o.Prepare(width, height); err != nil {
			return fmt.Errorf("prepare overlay: %w", err)
		}
	}

	encoder, err := r.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Frame Encoder"})
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	if err := r.Compute.Dispatch(encoder); err != nil {
		return err
	}
	if err := r.Blit.Blit(encoder, r.blitBindGroup, target, width, height, r.overlays...); err != nil {
		return err
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	defer cmd.Release()
	r.queue.Submit(cmd)
	return nil
}

func (r *Renderer) Release() {
	if r.blitBindGroup != nil {
		r.blitBindGroup.Release()
		r.blitBindGroup = nil
	}
	if r.Blit != nil {
		r.Blit.Release()
	}
	if r.Compute != nil {
		r.Compute.Release()
	}
}
