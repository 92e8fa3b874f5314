package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// copyRowAlignment is WebGPU's required bytesPerRow multiple for
// texture-to-buffer copies.
const copyRowAlignment = 256

func alignedBytesPerRow(width uint32) uint32 {
	return (width*4 + copyRowAlignment - 1) &^ (copyRowAlignment - 1)
}

// ReadStorageTexture runs the ray trace pass, copies the compute output back
// to host memory and blocks until it is mapped. Use it outside the frame loop.
func ReadStorageTexture(device *wgpu.Device, queue *wgpu.Queue, c *ComputePipeline) (*image.RGBA, error) {
	w, h := c.Size()
	return readTexture(device, queue, c.StorageTexture, w, h, c.Dispatch)
}

// readTexture copies an RGBA8 texture with CopySrc usage into host memory.
// record, when set, is encoded ahead of the copy in the same submission.
func readTexture(device *wgpu.Device, queue *wgpu.Queue, texture *wgpu.Texture, w, h uint32, record func(*wgpu.CommandEncoder) error) (*image.RGBA, error) {
	stride := alignedBytesPerRow(w)
	size := uint64(stride) * uint64(h)

	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Readback Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readback buffer: %w", err)
	}
	defer buf.Release()

	encoder, err := device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Readback Encoder"})
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	if record != nil {
		if err := record(encoder); err != nil {
			return nil, err
		}
	}
	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		&wgpu.ImageCopyBuffer{
			Buffer: buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  stride,
				RowsPerImage: h,
			},
		},
		&wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to finish readback encoder: %w", err)
	}
	defer cmd.Release()
	queue.Submit(cmd)

	var status wgpu.BufferMapAsyncStatus
	done := make(chan struct{})
	err = buf.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		close(done)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start buffer map: %w", err)
	}
	device.Poll(true, nil)
	<-done
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("failed to map readback buffer: status %v", status)
	}
	defer buf.Unmap()

	return unpackRGBA(buf.GetMappedRange(0, uint(size)), int(w), int(h), int(stride))
}

// unpackRGBA strips row padding from a mapped copy of an RGBA8 texture.
func unpackRGBA(data []byte, width, height, stride int) (*image.RGBA, error) {
	if stride < width*4 {
		return nil, fmt.Errorf("row stride %d shorter than %d pixels", stride, width)
	}
	if need := stride*(height-1) + width*4; height > 0 && len(data) < need {
		return nil, fmt.Errorf("readback has %d bytes, need %d", len(data), need)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+width*4], data[y*stride:])
	}
	return img, nil
}
