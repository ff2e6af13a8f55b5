package renderer

import (
	"fmt"

	"graphx/internal/gpu"
	"graphx/internal/graphics/batch"
	"graphx/internal/profiling"

	"go.uber.org/zap"
)

// Options sizes the batches and toggles debug drawing
type Options struct {
	MaxQuads     int
	MaxParticles int
	// TextureSlots per batch, including the white slot. Zero means 32.
	TextureSlots    int
	DebugCollisions bool
}

// Shaders are the built-in programs the renderer draws with
type Shaders struct {
	Quad     gpu.Shader
	Particle gpu.Shader
	Skybox   gpu.Shader
	// Debug is only required with Options.DebugCollisions
	Debug gpu.Shader
}

// Stats summarises the work submitted during the current frame
type Stats struct {
	DrawCalls int
	Quads     int
	Particles int
	Meshes    int
}

// Renderer owns the 2D and 3D scene renderers and the shared GPU state of a
// frame: camera, lights, skybox cube and shader library.
type Renderer struct {
	device *countingDevice
	log    *zap.Logger

	white   gpu.Texture
	library *ShaderLibrary
	skybox  skyboxData
	debug   *debugBoxes

	quads     *batch.QuadBatch
	particles *batch.ParticleBatch

	r2d *Renderer2D
	r3d *Renderer3D

	scene   SceneInfo
	lights  lightState
	inScene bool
	closed  bool
}

// New creates the batches, the white fallback texture and the skybox cube
func New(device gpu.Device, opts Options, shaders Shaders, log *zap.Logger) (*Renderer, error) {
	if device == nil {
		return nil, fmt.Errorf("renderer: device is required")
	}
	if shaders.Quad == nil || shaders.Particle == nil || shaders.Skybox == nil {
		return nil, fmt.Errorf("renderer: quad, particle and skybox shaders are required")
	}
	if opts.DebugCollisions && shaders.Debug == nil {
		return nil, fmt.Errorf("renderer: debug collisions need a debug shader")
	}
	if log == nil {
		log = zap.NewNop()
	}
	counted := &countingDevice{Device: device}

	white, err := counted.NewTexture(1, 1, []byte{0xff, 0xff, 0xff, 0xff})
	if err != nil {
		return nil, fmt.Errorf("renderer: create white texture: %w", err)
	}

	quads, err := batch.NewQuadBatch(counted, batch.Options{
		MaxPrimitives: opts.MaxQuads,
		TextureSlots:  opts.TextureSlots,
		White:         white,
		Shader:        shaders.Quad,
	})
	if err != nil {
		white.Release()
		return nil, fmt.Errorf("renderer: %w", err)
	}
	particles, err := batch.NewParticleBatch(counted, batch.Options{
		MaxPrimitives: opts.MaxParticles,
		TextureSlots:  opts.TextureSlots,
		White:         white,
		Shader:        shaders.Particle,
	})
	if err != nil {
		quads.Release()
		white.Release()
		return nil, fmt.Errorf("renderer: %w", err)
	}

	r := &Renderer{
		device:    counted,
		log:       log,
		white:     white,
		library:   NewShaderLibrary(),
		skybox:    newSkyboxData(counted, shaders.Skybox),
		quads:     quads,
		particles: particles,
	}
	// Built-in names are unique in a fresh library.
	_ = r.library.Add("Quad", shaders.Quad)
	_ = r.library.Add("Particle", shaders.Particle)
	if shaders.Debug != nil {
		_ = r.library.Add("Debug", shaders.Debug)
	}
	if opts.DebugCollisions {
		r.debug = newDebugBoxes(counted, shaders.Debug)
	}

	r.r2d = newRenderer2D(counted, quads, &r.lights)
	r.r3d = newRenderer3D(counted, particles, &r.lights, &r.scene, r.debug)

	log.Info("Renderer initialised",
		zap.Int("maxQuads", opts.MaxQuads),
		zap.Int("maxParticles", opts.MaxParticles),
		zap.Int("textureSlots", quads.Slots().Size()),
		zap.Bool("debugCollisions", opts.DebugCollisions))
	return r, nil
}

// Shutdown releases every GPU resource the renderer owns. A second call only logs a warning.
func (r *Renderer) Shutdown() {
	if r.closed {
		r.log.Warn("Renderer.Shutdown called more than once")
		return
	}
	r.closed = true

	r.quads.Release()
	r.particles.Release()
	r.skybox.release()
	if r.debug != nil {
		r.debug.release()
	}
	r.library.release()
	r.white.Release()
	r.scene.Reset()
	r.log.Info("Renderer shut down")
}

func (r *Renderer) mustLive() {
	if r.device == nil {
		panic("renderer: not initialised")
	}
	if r.closed {
		panic("renderer: used after Shutdown")
	}
}

// BeginScene stores the camera, pushes its uniforms to every library shader
// and opens the quad batch.
func (r *Renderer) BeginScene(cam Camera) {
	r.mustLive()
	if cam == nil {
		panic("renderer: BeginScene needs a camera")
	}
	if r.inScene {
		panic("renderer: BeginScene called twice without EndScene")
	}
	r.inScene = true
	r.device.draws = 0
	r.scene.Camera = cam
	r.lights.invalidate()

	r.library.pushCamera(cam)
	r.r2d.beginScene(cam)
	r.r3d.beginScene(cam)
}

// EndScene closes the frame. Queued drawables that were never rendered are
// dropped with a warning.
func (r *Renderer) EndScene() {
	r.mustLive()
	if !r.inScene {
		panic("renderer: EndScene called without BeginScene")
	}
	dropped := r.r3d.endScene() + r.r2d.endScene()
	if dropped > 0 {
		r.log.Warn("Discarding drawables submitted but never rendered", zap.Int("count", dropped))
	}

	stats := r.Stats()
	profiling.Count("renderer.Meshes", stats.Meshes)
	profiling.Count("renderer.Particles", stats.Particles)

	r.lights.endScene()
	r.scene.Reset()
	r.inScene = false
}

// Submit2D queues a flat mesh for the 2D renderer
func (r *Renderer) Submit2D(d Drawable) {
	r.mustLive()
	r.r2d.Submit(d)
}

// Submit3D queues a mesh for the 3D renderer
func (r *Renderer) Submit3D(d Drawable) {
	r.mustLive()
	r.r3d.Submit(d)
}

// SubmitTerrain queues a terrain for the 3D renderer
func (r *Renderer) SubmitTerrain(t Drawable) {
	r.Submit3D(t)
}

// SetLights replaces the lights applied to queued drawables' shaders
func (r *Renderer) SetLights(lights ...Light) {
	r.mustLive()
	r.lights.set(lights)
}

// Render draws the 3D queue, then the 2D batch and queue
func (r *Renderer) Render() {
	r.mustLive()
	r.r3d.Render()
	r.r2d.Render()
}

// RenderDepth binds depth and draws every queued drawable into the current
// target. The queues are left intact for the colour pass.
func (r *Renderer) RenderDepth(depth gpu.Shader) {
	r.mustLive()
	depth.Bind()
	r.r3d.RenderDepth(depth)
	r.r2d.RenderDepth(depth)
}

// RenderParticles draws the active particles of every source
func (r *Renderer) RenderParticles(sources ...ParticleSource) {
	r.mustLive()
	r.r3d.RenderParticles(sources...)
}

// RenderSkybox draws s around the camera. Depth writes and face culling are
// disabled for the draw and enabled again afterwards.
func (r *Renderer) RenderSkybox(s Skybox) {
	r.mustLive()
	cam := r.scene.Camera
	if cam == nil {
		panic("renderer: RenderSkybox called outside BeginScene/EndScene")
	}
	defer profiling.Track("renderer.RenderSkybox")()

	r.skybox.vao.Bind()
	s.Enable()

	r.device.SetDepthMask(false)
	r.device.SetFaceCulling(false)

	sh := r.skybox.shader
	sh.Bind()
	sh.SetMat4("u_View", cam.RotationViewMatrix())
	sh.SetMat4("u_Model", s.ModelMatrix())
	sh.SetVec4("u_BlendColor", s.TintColor())
	if cam.ProjectionMode() == Perspective {
		sh.SetMat4("u_Projection", cam.ProjectionMatrix())
	}
	sh.SetInt("u_Skybox", int32(s.BindingSlot()))
	sh.SetFloat("u_BlendFactor", s.BlendFactor())

	r.RenderIndexed(r.skybox.ibo)

	s.Disable()
	r.skybox.vao.Unbind()

	r.device.SetDepthMask(true)
	r.device.SetFaceCulling(true)
}

// DrawArrays issues a non-indexed triangle draw of count vertices
func (r *Renderer) DrawArrays(count int32) {
	r.mustLive()
	r.device.DrawArrays(gpu.Triangles, count)
}

// RenderIndexed draws every index of ib with the bound vertex array
func (r *Renderer) RenderIndexed(ib gpu.IndexBuffer) {
	r.mustLive()
	r.device.DrawIndexed(gpu.Triangles, ib.Count())
}

// Renderer2D exposes the quad drawing API
func (r *Renderer) Renderer2D() *Renderer2D { return r.r2d }

// Renderer3D exposes the 3D scene renderer
func (r *Renderer) Renderer3D() *Renderer3D { return r.r3d }

// Library returns the shader library
func (r *Renderer) Library() *ShaderLibrary { return r.library }

// WhiteTexture returns the 1x1 texture bound to slot 0 of every batch
func (r *Renderer) WhiteTexture() gpu.Texture { return r.white }

// Stats reports the work submitted since the last BeginScene. DrawCalls
// counts every draw issued, including depth, skybox and debug draws.
func (r *Renderer) Stats() Stats {
	quadStats, flat := r.r2d.Stats()
	_, meshes, rendered := r.r3d.Stats()
	return Stats{
		DrawCalls: r.device.draws,
		Quads:     quadStats.Primitives,
		Particles: rendered,
		Meshes:    flat + meshes,
	}
}
