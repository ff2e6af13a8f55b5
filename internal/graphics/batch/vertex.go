package batch

import (
	"graphx/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	VerticesPerPrimitive = 4
	IndicesPerPrimitive  = 6
)

// QuadLayout: position, color, texcoord, texture index, tiling factor
var QuadLayout = gpu.NewLayout(gpu.Float3, gpu.Float4, gpu.Float2, gpu.Float, gpu.Float)

// ParticleLayout: view-space position, texcoord, atlas offsets of the current
// and next stage, blend factor, atlas rows, color, texture index
var ParticleLayout = gpu.NewLayout(gpu.Float3, gpu.Float2, gpu.Float4, gpu.Float, gpu.Float, gpu.Float4, gpu.Float)

// DefaultTexCoords covers the whole texture, counter-clockwise from bottom-left
var DefaultTexCoords = [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// unit quad corners centred on the origin, same winding as DefaultTexCoords
var quadCorners = [4]mgl32.Vec4{
	{-0.5, -0.5, 0, 1},
	{0.5, -0.5, 0, 1},
	{0.5, 0.5, 0, 1},
	{-0.5, 0.5, 0, 1},
}

// QuadIndices builds the constant index pattern for n primitives:
// 0,1,2,2,3,0 offset by 4 per primitive.
func QuadIndices(n int) []uint32 {
	indices := make([]uint32, n*IndicesPerPrimitive)
	var offset uint32
	for i := 0; i < len(indices); i += IndicesPerPrimitive {
		indices[i+0] = offset + 0
		indices[i+1] = offset + 1
		indices[i+2] = offset + 2
		indices[i+3] = offset + 2
		indices[i+4] = offset + 3
		indices[i+5] = offset + 0
		offset += VerticesPerPrimitive
	}
	return indices
}
