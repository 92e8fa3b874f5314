package gpu

import (
	"fmt"

	"github.com/gekko3d/raysphere/spherert/rt/core"
	"github.com/gekko3d/raysphere/spherert/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
)

// StorageFormat is the compute output format; it supports both write-only
// storage access and filtered sampling.
const StorageFormat = wgpu.TextureFormatRGBA8Unorm

// ComputePipeline ray traces the sphere into a storage texture it owns.
// Other passes may read StorageView but must not release it.
type ComputePipeline struct {
	pipeline        *wgpu.ComputePipeline
	pipelineLayout  *wgpu.PipelineLayout
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup
	shader          *wgpu.ShaderModule
	uniformBuffer   *wgpu.Buffer

	StorageTexture *wgpu.Texture
	StorageView    *wgpu.TextureView

	width  uint32
	height uint32
}

func NewComputePipeline(device *wgpu.Device, sphere core.SphereData, width, height uint32) (*ComputePipeline, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("compute target must be non-empty, got %dx%d", width, height)
	}
	c := &ComputePipeline{width: width, height: height}
	if err := c.init(device, sphere); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

func (c *ComputePipeline) init(device *wgpu.Device, sphere core.SphereData) error {
	var err error
	c.uniformBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Sphere Uniform Buffer",
		Contents: sphere.Bytes(),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create sphere uniform buffer: %w", err)
	}

	c.StorageTexture, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Compute Output Texture",
		Size:          wgpu.Extent3D{Width: c.width, Height: c.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        StorageFormat,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageCopySrc | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("failed to create storage texture: %w", err)
	}
	c.StorageView, err = c.StorageTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create storage texture view: %w", err)
	}

	c.bindGroupLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Compute BindGroup Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: core.SphereDataSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageCompute,
				StorageTexture: wgpu.StorageTextureBindingLayout{
					Access:        wgpu.StorageTextureAccessWriteOnly,
					Format:        StorageFormat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute bind group layout: %w", err)
	}

	c.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Compute Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{c.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute pipeline layout: %w", err)
	}

	c.shader, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Raytrace CS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.RaytraceWGSL},
	})
	if err != nil {
		return fmt.Errorf("failed to compile raytrace shader: %w", err)
	}

	c.pipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "Raytrace Pipeline",
		Layout: c.pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     c.shader,
			EntryPoint: shaders.ComputeEntryPoint,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create raytrace pipeline: %w", err)
	}

	c.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Compute BindGroup",
		Layout: c.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: c.uniformBuffer, Size: core.SphereDataSize},
			{Binding: 1, TextureView: c.StorageView},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute bind group: %w", err)
	}
	return nil
}

// Size is the storage texture resolution.
func (c *ComputePipeline) Size() (uint32, uint32) {
	return c.width, c.height
}

// UpdateSphere rewrites the sphere uniform. The bind group keeps pointing
// at the same buffer, so nothing else needs rebuilding.
func (c *ComputePipeline) UpdateSphere(queue *wgpu.Queue, sphere core.SphereData) error {
	return queue.WriteBuffer(c.uniformBuffer, 0, sphere.Bytes())
}

// Dispatch records the ray trace pass. Validation errors from the pass are
// returned so the frame can be dropped.
func (c *ComputePipeline) Dispatch(encoder *wgpu.CommandEncoder) error {
	pass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "Compute Pass"})
	defer pass.Release()

	pass.SetPipeline(c.pipeline)
	pass.SetBindGroup(0, c.bindGroup, nil)
	x, y, z := core.DispatchSize(c.width, c.height)
	pass.DispatchWorkgroups(x, y, z)
	if err := pass.End(); err != nil {
		return fmt.Errorf("compute pass: %w", err)
	}
	return nil
}

func (c *ComputePipeline) Release() {
	if c.bindGroup != nil {
		c.bindGroup.Release()
	}
	if c.pipeline != nil {
		c.pipeline.Release()
	}
	if c.shader != nil {
		c.shader.Release()
	}
	if c.pipelineLayout != nil {
		c.pipelineLayout.Release()
	}
	if c.bindGroupLayout != nil {
		c.bindGroupLayout.Release()
	}
	if c.StorageView != nil {
		c.StorageView.Release()
	}
	if c.StorageTexture != nil {
		c.StorageTexture.Release()
	}
	if c.uniformBuffer != nil {
		c.uniformBuffer.Release()
	}
}
