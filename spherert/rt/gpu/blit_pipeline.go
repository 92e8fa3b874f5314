package gpu

import (
	"fmt"

	"github.com/gekko3d/raysphere/spherert/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
)

// Overlay draws extra geometry into the blit pass after the fullscreen
// triangle. Prepare runs before the pass begins and may write buffers.
type Overlay interface {
	Prepare(width, height uint32) error
	Draw(pass *wgpu.RenderPassEncoder)
}

// BlitPipeline samples a source texture onto the surface with a single
// fullscreen triangle.
type BlitPipeline struct {
	pipeline        *wgpu.RenderPipeline
	pipelineLayout  *wgpu.PipelineLayout
	bindGroupLayout *wgpu.BindGroupLayout
	shader          *wgpu.ShaderModule
	sampler         *wgpu.Sampler

	ClearColor wgpu.Color
}

func NewBlitPipeline(device *wgpu.Device, format wgpu.TextureFormat) (*BlitPipeline, error) {
	b := &BlitPipeline{ClearColor: wgpu.Color{0.1, 0.2, 0.3, 1.0}}
	if err := b.init(device, format); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (b *BlitPipeline) init(device *wgpu.Device, format wgpu.TextureFormat) error {
	var err error
	b.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Blit Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create blit sampler: %w", err)
	}

	b.bindGroupLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Blit BindGroup Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create blit bind group layout: %w", err)
	}

	b.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Blit Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create blit pipeline layout: %w", err)
	}

	b.shader, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Fullscreen VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.FullscreenWGSL},
	})
	if err != nil {
		return fmt.Errorf("failed to compile fullscreen shader: %w", err)
	}

	b.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Blit Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     b.shader,
			EntryPoint: shaders.VertexEntryPoint,
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.shader,
			EntryPoint: shaders.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create blit pipeline: %w", err)
	}
	return nil
}

// CreateBindGroup binds source for sampling. The group holds a reference to
// the view only; callers rebuild it whenever the source view changes.
func (b *BlitPipeline) CreateBindGroup(device *wgpu.Device, source *wgpu.TextureView) (*wgpu.BindGroup, error) {
	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Blit BindGroup",
		Layout: b.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: source},
			{Binding: 1, Sampler: b.sampler},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blit bind group: %w", err)
	}
	return bg, nil
}

// Blit clears target, stretches the bound source over the whole viewport
// and then lets each overlay draw on top.
func (b *BlitPipeline) Blit(encoder *wgpu.CommandEncoder, bindGroup *wgpu.BindGroup, target *wgpu.TextureView, width, height uint32, overlays ...Overlay) error {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Blit Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: b.ClearColor,
		}},
	})
	defer pass.Release()

	pass.SetViewport(0, 0, float32(width), float32(height), 0, 1)
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)

	for _, o := range overlays {
		o.Draw(pass)
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("blit pass: %w", err)
	}
	return nil
}

func (b *BlitPipeline) Release() {
	if b.pipeline != nil {
		b.pipeline.Release()
	}
	if b.shader != nil {
		b.shader.Release()
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
	}
	if b.bindGroupLayout != nil {
		b.bindGroupLayout.Release()
	}
	if b.sampler != nil {
		b.sampler.Release()
	}
}
