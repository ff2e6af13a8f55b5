// Package gpu declares the contracts the renderer core consumes from the graphics API.
//
// Implementations own device memory; every handle must tolerate Release being
// called more than once and free the underlying object exactly once.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Primitive selects the topology used by a draw call
type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

// VertexBuffer is device memory holding interleaved vertex data
type VertexBuffer interface {
	Bind()
	Unbind()
	// SetData uploads data starting at byte offset 0. The upload is
	// synchronous from the caller's point of view.
	SetData(data []float32)
	Release()
}

// IndexBuffer holds 32-bit element indices
type IndexBuffer interface {
	Bind()
	Unbind()
	Count() int32
	Release()
}

// VertexArray binds vertex buffers to attribute locations
type VertexArray interface {
	Bind()
	Unbind()
	AddVertexBuffer(vb VertexBuffer, layout Layout)
	SetIndexBuffer(ib IndexBuffer)
	Release()
}

// Texture is any sampler-bindable image. ID is the identity used for
// texture slot de-duplication.
type Texture interface {
	ID() uint32
	Bind(slot uint32)
	Unbind()
	Release()
}

// Shader is a linked program. Uniforms are addressed by name; the names are
// the contract between the renderer and the shader assets.
type Shader interface {
	ID() uint32
	Bind()
	Unbind()
	SetInt(name string, v int32)
	SetIntArray(name string, v []int32)
	SetFloat(name string, v float32)
	SetVec2i(name string, x, y int32)
	SetVec3(name string, v mgl32.Vec3)
	SetVec4(name string, v mgl32.Vec4)
	SetMat3(name string, m mgl32.Mat3)
	SetMat4(name string, m mgl32.Mat4)
	Release()
}

// FrameBuffer is an off-screen depth target used by the shadow pass
type FrameBuffer interface {
	Bind()
	Unbind()
	BindDepthMap(slot uint32)
	Size() (width, height int32)
	Release()
}

// Device creates resources and issues draw calls on the thread that owns
// the context.
type Device interface {
	NewVertexArray() VertexArray
	// NewVertexBuffer allocates a dynamic buffer of sizeBytes.
	NewVertexBuffer(sizeBytes int) VertexBuffer
	NewStaticVertexBuffer(data []float32) VertexBuffer
	NewIndexBuffer(indices []uint32) IndexBuffer
	// NewTexture creates a 2D RGBA8 texture from tightly packed pixels.
	NewTexture(width, height int, rgba []byte) (Texture, error)
	NewDepthFrameBuffer(width, height int) (FrameBuffer, error)

	DrawIndexed(mode Primitive, count int32)
	DrawArrays(mode Primitive, count int32)

	SetDepthMask(enabled bool)
	SetFaceCulling(enabled bool)
	SetBlending(enabled bool)
	Clear(color mgl32.Vec4)
	Viewport(x, y, width, height int32)
}
