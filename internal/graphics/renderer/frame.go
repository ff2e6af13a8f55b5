package renderer

import (
	"graphx/internal/gpu"
	"graphx/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// ShadowPass renders scene depth from a light into Target before the colour pass
type ShadowPass struct {
	Target gpu.FrameBuffer
	Shader gpu.Shader
	// LightSpace is the light's projection * view
	LightSpace mgl32.Mat4
	// MapSlot is the texture unit the depth map is bound to for the colour pass
	MapSlot uint32
}

// Frame is everything drawn in one call to RenderFrame
type Frame struct {
	Camera Camera
	// Viewport is restored after the shadow pass: x, y, width, height
	Viewport [4]int32

	Skybox Skybox
	Shadow *ShadowPass

	Meshes2D  []Drawable
	Meshes3D  []Drawable
	Terrain   []Drawable
	Particles []ParticleSource

	// Overlay draws quads and text on top of the scene
	Overlay func(r2d *Renderer2D)
}

// RenderFrame runs a whole frame: scene setup, shadow depth pass, skybox,
// colour pass, particles and overlay.
func (r *Renderer) RenderFrame(f Frame) {
	defer profiling.Track("renderer.RenderFrame")()

	r.BeginScene(f.Camera)
	for _, d := range f.Terrain {
		r.SubmitTerrain(d)
	}
	for _, d := range f.Meshes3D {
		r.Submit3D(d)
	}
	for _, d := range f.Meshes2D {
		r.Submit2D(d)
	}

	if f.Shadow != nil {
		r.renderShadow(f.Shadow, f.Viewport)
	}
	if f.Skybox != nil {
		r.RenderSkybox(f.Skybox)
	}
	if f.Shadow != nil {
		f.Shadow.Target.BindDepthMap(f.Shadow.MapSlot)
		r.lights.shadow = f.Shadow
		r.lights.invalidate()
	}

	r.Render()
	if len(f.Particles) > 0 {
		r.RenderParticles(f.Particles...)
	}
	if f.Overlay != nil {
		f.Overlay(r.r2d)
	}
	r.EndScene()
}

func (r *Renderer) renderShadow(s *ShadowPass, viewport [4]int32) {
	defer profiling.Track("renderer.ShadowPass")()

	s.Target.Bind()
	w, h := s.Target.Size()
	r.device.Viewport(0, 0, w, h)
	r.device.Clear(mgl32.Vec4{1, 1, 1, 1})

	s.Shader.Bind()
	s.Shader.SetMat4("u_LightSpaceMatrix", s.LightSpace)
	r.RenderDepth(s.Shader)

	s.Target.Unbind()
	r.device.Viewport(viewport[0], viewport[1], viewport[2], viewport[3])
}
