package scene

import (
	"math"

	"graphx/internal/gpu"
	"graphx/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// Skybox is a slowly rotating cube map background
type Skybox struct {
	cubeMap gpu.Texture
	slot    uint32
	tint    mgl32.Vec4
	blend   float32

	// RotationSpeed in radians per second around Y
	RotationSpeed float32
	rotation      float32
}

// NewSkybox wraps a cube map bound to slot while drawing
func NewSkybox(cubeMap gpu.Texture, tint mgl32.Vec4, blend float32, slot uint32, speed float32) *Skybox {
	return &Skybox{cubeMap: cubeMap, slot: slot, tint: tint, blend: blend, RotationSpeed: speed}
}

// Update advances the rotation, wrapped to [0, 2π)
func (s *Skybox) Update(dt float32) {
	r := math.Mod(float64(s.rotation+s.RotationSpeed*dt), 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	s.rotation = float32(r)
}

func (s *Skybox) Enable()  { s.cubeMap.Bind(s.slot) }
func (s *Skybox) Disable() { s.cubeMap.Unbind() }

func (s *Skybox) ModelMatrix() mgl32.Mat4 { return mgl32.HomogRotate3DY(s.rotation) }
func (s *Skybox) TintColor() mgl32.Vec4   { return s.tint }
func (s *Skybox) BlendFactor() float32    { return s.blend }
func (s *Skybox) BindingSlot() uint32     { return s.slot }
func (s *Skybox) Rotation() float32       { return s.rotation }

// SetBlendFactor mixes the cube map with the tint colour: 0 is all cube map
func (s *Skybox) SetBlendFactor(f float32) { s.blend = mgl32.Clamp(f, 0, 1) }

var _ renderer.Skybox = (*Skybox)(nil)
