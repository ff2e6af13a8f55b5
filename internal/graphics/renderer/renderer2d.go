package renderer

import (
	"errors"

	"graphx/internal/gpu"
	"graphx/internal/graphics/batch"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer2D draws flat meshes through the queue and quads through the quad batch
type Renderer2D struct {
	device gpu.Device
	queue  Queue
	quads  *batch.QuadBatch
	lights *lightState
	drawn  int
}

func newRenderer2D(device gpu.Device, quads *batch.QuadBatch, lights *lightState) *Renderer2D {
	return &Renderer2D{device: device, quads: quads, lights: lights}
}

// beginScene uploads the camera to the quad shader and opens the quad batch
func (r *Renderer2D) beginScene(cam Camera) {
	shader := r.quads.Shader()
	shader.Bind()
	shader.SetMat4("u_ViewProjection", cam.ProjectionViewMatrix())
	r.quads.ResetStats()
	r.drawn = 0
	r.quads.BeginBatch()
}

// endScene draws quads added after Render and closes the batch. Queued
// drawables that were never rendered are dropped and their count returned.
func (r *Renderer2D) endScene() int {
	if r.quads.Recording() {
		r.quads.EndBatch()
		r.quads.Flush()
	}
	dropped := r.queue.Len()
	r.queue.Clear()
	return dropped
}

// Submit enqueues a flat mesh
func (r *Renderer2D) Submit(d Drawable) {
	r.queue.Submit(d)
}

// Flush draws the quads accumulated so far and reopens the batch
func (r *Renderer2D) Flush() {
	if !r.quads.Recording() {
		return
	}
	r.quads.EndBatch()
	r.quads.Flush()
	r.quads.BeginBatch()
}

// Render flushes pending quads, then drains the queue
func (r *Renderer2D) Render() {
	r.Flush()
	r.drawn += drainQueue(r.device, &r.queue, r.lights, nil)
}

// RenderDepth draws queued meshes with the bound depth shader without draining
func (r *Renderer2D) RenderDepth(depth gpu.Shader) {
	r.queue.Each(func(d Drawable) {
		drawDepth(r.device, d, depth)
	})
}

// DrawQuad draws a flat coloured quad centred on position
func (r *Renderer2D) DrawQuad(position mgl32.Vec3, size mgl32.Vec2, color mgl32.Vec4) {
	r.addQuad(batch.Quad{
		Transform: batch.QuadTransform(position, size, 0),
		Color:     color,
	})
}

// DrawRotatedQuad draws a coloured quad rotated around Z, in radians
func (r *Renderer2D) DrawRotatedQuad(position mgl32.Vec3, size mgl32.Vec2, rotation float32, color mgl32.Vec4) {
	r.addQuad(batch.Quad{
		Transform: batch.QuadTransform(position, size, rotation),
		Color:     color,
	})
}

// DrawTexturedQuad draws tex tinted by tint, repeating it tiling times
func (r *Renderer2D) DrawTexturedQuad(position mgl32.Vec3, size mgl32.Vec2, tex gpu.Texture, tiling float32, tint mgl32.Vec4) {
	r.addQuad(batch.Quad{
		Transform:    batch.QuadTransform(position, size, 0),
		Color:        tint,
		Texture:      tex,
		TilingFactor: tiling,
	})
}

func (r *Renderer2D) DrawRotatedTexturedQuad(position mgl32.Vec3, size mgl32.Vec2, rotation float32, tex gpu.Texture, tiling float32, tint mgl32.Vec4) {
	r.addQuad(batch.Quad{
		Transform:    batch.QuadTransform(position, size, rotation),
		Color:        tint,
		Texture:      tex,
		TilingFactor: tiling,
	})
}

// DrawSubTexturedQuad draws a region of tex. uv lists the corners
// bottom-left, bottom-right, top-right, top-left.
func (r *Renderer2D) DrawSubTexturedQuad(position mgl32.Vec3, size mgl32.Vec2, tex gpu.Texture, uv [4]mgl32.Vec2, tint mgl32.Vec4) {
	r.addQuad(batch.Quad{
		Transform: batch.QuadTransform(position, size, 0),
		Color:     tint,
		Texture:   tex,
		TexCoords: &uv,
	})
}

// DrawText lays out text on a baseline starting at position, one quad per
// glyph. scale converts font pixels to world units. Runes missing from the
// atlas are skipped; '\n' starts a new line.
func (r *Renderer2D) DrawText(font Font, text string, position mgl32.Vec3, scale float32, color mgl32.Vec4) {
	tex := font.Texture()
	penX, baseline := position[0], position[1]
	lineHeight := font.LineHeight() * scale

	for _, ch := range text {
		if ch == '\n' {
			penX = position[0]
			baseline -= lineHeight
			continue
		}
		g, ok := font.Glyph(ch)
		if !ok {
			continue
		}
		if g.Width > 0 && g.Height > 0 {
			w, h := g.Width*scale, g.Height*scale
			top := baseline + g.BearingY*scale
			center := mgl32.Vec3{penX + g.BearingX*scale + w/2, top - h/2, position[2]}
			uv := [4]mgl32.Vec2{{g.U0, g.V1}, {g.U1, g.V1}, {g.U1, g.V0}, {g.U0, g.V0}}
			r.addQuad(batch.Quad{
				Transform: batch.QuadTransform(center, mgl32.Vec2{w, h}, 0),
				Color:     color,
				Texture:   tex,
				TexCoords: &uv,
			})
		}
		penX += g.Advance * scale
	}
}

// addQuad starts a new batch when the current one is full or out of texture slots
func (r *Renderer2D) addQuad(q batch.Quad) {
	if !r.quads.Recording() {
		panic("renderer2d: quad drawn outside BeginScene/EndScene")
	}
	if r.quads.IsFull() {
		r.Flush()
	}
	err := r.quads.AddQuad(q)
	if errors.Is(err, batch.ErrTextureSlotsFull) {
		r.Flush()
		err = r.quads.AddQuad(q)
	}
	if err != nil {
		panic("renderer2d: " + err.Error())
	}
}

// Stats returns quad batch counters and meshes drawn this frame
func (r *Renderer2D) Stats() (batch.Stats, int) {
	return r.quads.Stats(), r.drawn
}
