package scene

import (
	"graphx/internal/gpu"
	"graphx/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// PointLight is an omnidirectional light at a position
type PointLight struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
}

func NewPointLight(position mgl32.Vec3, color mgl32.Vec4) *PointLight {
	return &PointLight{Position: position, Color: color}
}

func (l *PointLight) Apply(s gpu.Shader) {
	s.SetVec3("u_LightPos", l.Position)
	s.SetVec4("u_LightColor", l.Color)
}

// DirectionalLight is the sun: parallel rays along Direction. It also
// provides the light-space matrix of the shadow pass.
type DirectionalLight struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec4

	// ShadowExtent is the half size of the orthographic shadow volume
	ShadowExtent float32
	ShadowNear   float32
	ShadowFar    float32
}

func NewDirectionalLight(direction mgl32.Vec3, color mgl32.Vec4) *DirectionalLight {
	return &DirectionalLight{
		Direction:    direction.Normalize(),
		Color:        color,
		ShadowExtent: 50,
		ShadowNear:   1,
		ShadowFar:    200,
	}
}

func (l *DirectionalLight) Apply(s gpu.Shader) {
	s.SetVec3("u_SunDirection", l.Direction)
	s.SetVec4("u_SunColor", l.Color)
}

// LightSpaceMatrix looks along Direction at center from outside the shadow volume
func (l *DirectionalLight) LightSpaceMatrix(center mgl32.Vec3) mgl32.Mat4 {
	dir := l.Direction.Normalize()
	eye := center.Sub(dir.Mul(l.ShadowFar / 2))
	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Dot(up)) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(eye, center, up)
	e := l.ShadowExtent
	proj := mgl32.Ortho(-e, e, -e, e, l.ShadowNear, l.ShadowFar)
	return proj.Mul4(view)
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

var (
	_ renderer.Light = (*PointLight)(nil)
	_ renderer.Light = (*DirectionalLight)(nil)
)
