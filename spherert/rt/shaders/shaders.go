package shaders

import (
	_ "embed"
)

// RaytraceWGSL is the compute kernel: binding 0 is the Sphere uniform,
// binding 1 the rgba8unorm write-only output, workgroup size 8x8x1.
//
//go:embed raytrace.wgsl
var RaytraceWGSL string

//go:embed fullscreen.wgsl
var FullscreenWGSL string

//go:embed text.wgsl
var TextWGSL string

const (
	ComputeEntryPoint  = "main"
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)
