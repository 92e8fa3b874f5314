package gpu

import (
	"fmt"

	"github.com/gekko3d/raysphere/spherert/rt/core"
	"github.com/gekko3d/raysphere/spherert/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextOverlay draws a block of HUD text in the top-left corner of the blit
// pass. SetText may be called every frame; vertices are rebuilt in Prepare.
type TextOverlay struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	atlas  *core.TextAtlas

	atlasTexture *wgpu.Texture
	atlasView    *wgpu.TextureView
	sampler      *wgpu.Sampler
	shader       *wgpu.ShaderModule
	pipeline     *wgpu.RenderPipeline
	bindGroup    *wgpu.BindGroup

	vertexBuffer *wgpu.Buffer
	vertexCount  uint32

	text  string
	Color [4]float32
	X, Y  float32
}

func NewTextOverlay(ctx *Context, atlas *core.TextAtlas) (*TextOverlay, error) {
	o := &TextOverlay{
		device: ctx.Device,
		queue:  ctx.Queue,
		atlas:  atlas,
		Color:  [4]float32{1, 1, 1, 1},
		X:      8,
		Y:      8,
	}
	if err := o.init(ctx.Format()); err != nil {
		o.Release()
		return nil, err
	}
	return o, nil
}

func (o *TextOverlay) init(format wgpu.TextureFormat) error {
	w, h := uint32(o.atlas.Image.Bounds().Dx()), uint32(o.atlas.Image.Bounds().Dy())

	var err error
	o.atlasTexture, err = o.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Text Atlas",
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("failed to create text atlas: %w", err)
	}
	err = o.queue.WriteTexture(o.atlasTexture.AsImageCopy(), o.atlas.Image.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(o.atlas.Image.Stride),
		RowsPerImage: h,
	}, &wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1})
	if err != nil {
		return fmt.Errorf("failed to upload text atlas: %w", err)
	}
	o.atlasView, err = o.atlasTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create text atlas view: %w", err)
	}

	o.sampler, err = o.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Text Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create text sampler: %w", err)
	}

	o.shader, err = o.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Text Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return fmt.Errorf("failed to create text shader module: %w", err)
	}

	o.pipeline, err = o.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Text Pipeline",
		Vertex: wgpu.VertexState{
			Module:     o.shader,
			EntryPoint: shaders.VertexEntryPoint,
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: core.TextVertexSize,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     o.shader,
			EntryPoint: shaders.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
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
		return fmt.Errorf("failed to create text render pipeline: %w", err)
	}

	o.bindGroup, err = o.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Text BindGroup",
		Layout: o.pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: o.atlasView},
			{Binding: 1, Sampler: o.sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create text bind group: %w", err)
	}
	return nil
}

func (o *TextOverlay) SetText(text string) {
	o.text = text
}

// Prepare lays out the current text for a width x height target and
// uploads it, growing the vertex buffer when needed.
func (o *TextOverlay) Prepare(width, height uint32) error {
	verts := o.atlas.Vertices(o.text, o.X, o.Y, o.Color, int(width), int(height))
	o.vertexCount = uint32(len(verts))
	if len(verts) == 0 {
		return nil
	}
	data := core.TextVertexBytes(verts)

	if o.vertexBuffer == nil || o.vertexBuffer.GetSize() < uint64(len(data)) {
		if o.vertexBuffer != nil {
			o.vertexBuffer.Release()
			o.vertexBuffer = nil
		}
		size := uint64(len(data)) * 2
		buf, err := o.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Text Vertex Buffer",
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			o.vertexCount = 0
			return fmt.Errorf("failed to create text vertex buffer: %w", err)
		}
		o.vertexBuffer = buf
	}
	return o.queue.WriteBuffer(o.vertexBuffer, 0, data)
}

func (o *TextOverlay) Draw(pass *wgpu.RenderPassEncoder) {
	if o.vertexCount == 0 || o.vertexBuffer == nil {
		return
	}
	pass.SetPipeline(o.pipeline)
	pass.SetBindGroup(0, o.bindGroup, nil)
	pass.SetVertexBuffer(0, o.vertexBuffer, 0, o.vertexBuffer.GetSize())
	pass.Draw(o.vertexCount, 1, 0, 0)
}

func (o *TextOverlay) Release() {
	if o.vertexBuffer != nil {
		o.vertexBuffer.Release()
	}
	if o.bindGroup != nil {
		o.bindGroup.Release()
	}
	if o.pipeline != nil {
		o.pipeline.Release()
	}
	if o.shader != nil {
		o.shader.Release()
	}
	if o.sampler != nil {
		o.sampler.Release()
	}
	if o.atlasView != nil {
		o.atlasView.Release()
	}
	if o.atlasTexture != nil {
		o.atlasTexture.Release()
	}
}
