package renderer

import (
	"graphx/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionMode of a camera
type ProjectionMode int

const (
	Perspective ProjectionMode = iota
	Orthographic
)

// Camera provides the matrices pushed to shaders at BeginScene
type Camera interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	ProjectionViewMatrix() mgl32.Mat4
	// RotationViewMatrix is the view matrix without translation (skybox)
	RotationViewMatrix() mgl32.Mat4
	Position() mgl32.Vec3
	ProjectionMode() ProjectionMode
}

// Material binds its shader and every texture assigned to it
type Material interface {
	Bind()
	Shader() gpu.Shader
}

// Drawable is anything rendered through the queue path: meshes, terrain.
type Drawable interface {
	// Enable binds the object's buffers and any per-object resources
	Enable()
	Disable()
	// BindBuffers binds only the vertex array (depth pass)
	BindBuffers()
	UnbindBuffers()
	ModelMatrix() mgl32.Mat4
	Material() Material
	IndexCount() int32
}

// Bounded drawables get a debug collision box when enabled
type Bounded interface {
	Bounds() (min, max mgl32.Vec3)
}

// Light writes its uniforms into a shader
type Light interface {
	Apply(shader gpu.Shader)
}

// Skybox is the cube-mapped background drawn by RenderSkybox
type Skybox interface {
	// Enable binds the cube map to BindingSlot
	Enable()
	Disable()
	ModelMatrix() mgl32.Mat4
	TintColor() mgl32.Vec4
	BlendFactor() float32
	BindingSlot() uint32
}

// ParticleState is the renderable state of one particle in world space
type ParticleState struct {
	Position    mgl32.Vec3
	Size        float32
	Rotation    float32
	Color       mgl32.Vec4
	TexOffsets  mgl32.Vec4
	BlendFactor float32
}

// ParticleSource is a particle system: a texture atlas and a fixed pool of
// particles, some of which are inactive.
type ParticleSource interface {
	Atlas() (tex gpu.Texture, rows int)
	ParticleCount() int
	// Particle returns the state of pool entry i and whether it is active
	Particle(i int) (ParticleState, bool)
}

// Glyph locates one character in a font atlas. UVs are normalised with a
// top-left origin; metrics are in pixels.
type Glyph struct {
	U0, V0, U1, V1 float32
	Width, Height  float32
	BearingX       float32
	BearingY       float32
	Advance        float32
}

// Font is a baked glyph atlas
type Font interface {
	Texture() gpu.Texture
	Glyph(r rune) (Glyph, bool)
	// LineHeight is the baseline-to-baseline distance in pixels
	LineHeight() float32
}

// SceneInfo is the per-frame scene state. It never outlives EndScene.
type SceneInfo struct {
	Camera Camera
}

// Reset drops the camera reference
func (s *SceneInfo) Reset() {
	s.Camera = nil
}
