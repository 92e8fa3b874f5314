package core

// WorkgroupSize matches @workgroup_size(8, 8, 1) in raytrace.wgsl.
const WorkgroupSize = 8

// DispatchSize returns the workgroup grid that covers a width x height
// texture. Partial tiles round up; the shader discards invocations that fall
// outside the texture.
func DispatchSize(width, height uint32) (x, y, z uint32) {
	return (width + WorkgroupSize - 1) / WorkgroupSize, (height + WorkgroupSize - 1) / WorkgroupSize, 1
}
