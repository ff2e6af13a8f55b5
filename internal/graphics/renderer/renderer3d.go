package renderer

import (
	"errors"

	"graphx/internal/gpu"
	"graphx/internal/graphics/batch"
	"graphx/internal/profiling"
)

// Renderer3D draws meshes and terrain through the queue and particles through
// the particle batch.
type Renderer3D struct {
	device    gpu.Device
	queue     Queue
	particles *batch.ParticleBatch
	lights    *lightState
	scene     *SceneInfo
	debug     *debugBoxes
	drawn     int
	rendered  int
}

func newRenderer3D(device gpu.Device, particles *batch.ParticleBatch, lights *lightState, scene *SceneInfo, debug *debugBoxes) *Renderer3D {
	return &Renderer3D{
		device:    device,
		particles: particles,
		lights:    lights,
		scene:     scene,
		debug:     debug,
	}
}

func (r *Renderer3D) beginScene(cam Camera) {
	r.particles.ResetStats()
	r.drawn = 0
	r.rendered = 0
	if r.debug != nil {
		r.debug.beginScene(cam)
	}
}

// endScene drops undrawn queue entries and returns how many there were
func (r *Renderer3D) endScene() int {
	dropped := r.queue.Len()
	r.queue.Clear()
	return dropped
}

// Submit enqueues a mesh or terrain
func (r *Renderer3D) Submit(d Drawable) {
	r.queue.Submit(d)
}

// Render drains the queue. Particles have their own pass, so there is no
// pending batch to flush here.
func (r *Renderer3D) Render() {
	defer profiling.Track("renderer3d.Render")()
	r.drawn += drainQueue(r.device, &r.queue, r.lights, r.debug)
}

// RenderDepth draws queued drawables with the bound depth shader without draining
func (r *Renderer3D) RenderDepth(depth gpu.Shader) {
	defer profiling.Track("renderer3d.RenderDepth")()
	r.queue.Each(func(d Drawable) {
		drawDepth(r.device, d, depth)
	})
}

// RenderParticles batches the active particles of every source into as few
// draw calls as capacity and texture slots allow. Depth writes are off and
// blending is on while the particles draw.
func (r *Renderer3D) RenderParticles(sources ...ParticleSource) {
	if r.scene.Camera == nil {
		panic("renderer3d: RenderParticles called outside BeginScene/EndScene")
	}
	defer profiling.Track("renderer3d.RenderParticles")()

	view := r.scene.Camera.ViewMatrix()
	shader := r.particles.Shader()
	shader.Bind()
	shader.SetMat4("u_Projection", r.scene.Camera.ProjectionMatrix())

	r.device.SetDepthMask(false)
	r.device.SetBlending(true)

	r.particles.BeginBatch()
	for _, src := range sources {
		tex, rows := src.Atlas()
		for i := 0; i < src.ParticleCount(); i++ {
			p, active := src.Particle(i)
			if !active {
				continue
			}
			r.addParticle(batch.Particle{
				ViewPosition: view.Mul4x1(p.Position.Vec4(1)).Vec3(),
				Size:         p.Size,
				Rotation:     p.Rotation,
				Color:        p.Color,
				Texture:      tex,
				AtlasRows:    rows,
				TexOffsets:   p.TexOffsets,
				BlendFactor:  p.BlendFactor,
			})
			r.rendered++
		}
	}
	r.particles.EndBatch()
	r.particles.Flush()

	r.device.SetBlending(false)
	r.device.SetDepthMask(true)
}

func (r *Renderer3D) addParticle(p batch.Particle) {
	if r.particles.IsFull() {
		r.nextParticleBatch()
	}
	err := r.particles.AddParticle(p)
	if errors.Is(err, batch.ErrTextureSlotsFull) {
		r.nextParticleBatch()
		err = r.particles.AddParticle(p)
	}
	if err != nil {
		panic("renderer3d: " + err.Error())
	}
}

func (r *Renderer3D) nextParticleBatch() {
	r.particles.EndBatch()
	r.particles.Flush()
	r.particles.BeginBatch()
}

// Stats returns particle batch counters, meshes drawn and particles rendered this frame
func (r *Renderer3D) Stats() (batch.Stats, int, int) {
	return r.particles.Stats(), r.drawn, r.rendered
}
