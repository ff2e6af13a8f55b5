package renderer

import (
	"testing"

	"graphx/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadsFlushWhenBatchIsFull(t *testing.T) {
	r, dev, _ := newTestRenderer(t, Options{MaxQuads: 2})

	r.BeginScene(newCamera())
	for i := 0; i < 5; i++ {
		r.Renderer2D().DrawQuad(mgl32.Vec3{float32(i), 0, 0}, mgl32.Vec2{1, 1}, mgl32.Vec4{1, 1, 1, 1})
	}
	r.Render()
	r.EndScene()

	var counts []int32
	for _, c := range dev.DrawCalls() {
		assert.Equal(t, quadArray(dev).ID(), c.ID)
		counts = append(counts, c.Count)
	}
	assert.Equal(t, []int32{12, 12, 6}, counts)
}

func TestQuadsFlushWhenTextureSlotsRunOut(t *testing.T) {
	r, dev, _ := newTestRenderer(t, Options{TextureSlots: 4})
	textures := []*gputest.Texture{dev.Texture(), dev.Texture(), dev.Texture(), dev.Texture()}

	r.BeginScene(newCamera())
	for i, tex := range textures {
		r.Renderer2D().DrawTexturedQuad(mgl32.Vec3{float32(i), 0, 0}, mgl32.Vec2{1, 1}, tex, 1, mgl32.Vec4{1, 1, 1, 1})
	}
	// Reusing a bound texture never costs a slot.
	r.Renderer2D().DrawTexturedQuad(mgl32.Vec3{}, mgl32.Vec2{1, 1}, textures[3], 1, mgl32.Vec4{1, 1, 1, 1})
	r.Render()
	r.EndScene()

	draws := dev.DrawCalls()
	require.Len(t, draws, 2)
	assert.Equal(t, int32(18), draws[0].Count)
	assert.Equal(t, int32(12), draws[1].Count)

	// The second batch binds the white texture and the overflowing texture only.
	binds := dev.Filter(gputest.OpBindTexture)
	require.Len(t, binds, 4+2)
	assert.Equal(t, textures[3].ID(), binds[5].ID)
	assert.Equal(t, uint32(1), binds[5].Slot)
}

func TestQuadOutsideSceneFails(t *testing.T) {
	r, _, _ := newTestRenderer(t, Options{})
	assert.Panics(t, func() {
		r.Renderer2D().DrawQuad(mgl32.Vec3{}, mgl32.Vec2{1, 1}, mgl32.Vec4{1, 1, 1, 1})
	})
}

func TestQuadBatchUsesCameraViewProjection(t *testing.T) {
	r, _, _ := newTestRenderer(t, Options{})
	cam := newCamera()
	r.BeginScene(cam)
	r.EndScene()

	quad, ok := r.Library().Get("Quad")
	require.True(t, ok)
	assert.Equal(t, cam.ProjectionViewMatrix(), quad.(*gputest.Shader).Uniforms["u_ViewProjection"])
}

func TestRotatedAndSubTexturedQuads(t *testing.T) {
	r, dev, _ := newTestRenderer(t, Options{})
	tex := dev.Texture()
	uv := [4]mgl32.Vec2{{0.25, 0.5}, {0.5, 0.5}, {0.5, 0.75}, {0.25, 0.75}}

	r.BeginScene(newCamera())
	r.Renderer2D().DrawRotatedQuad(mgl32.Vec3{}, mgl32.Vec2{2, 2}, mgl32.DegToRad(90), mgl32.Vec4{1, 0, 0, 1})
	r.Renderer2D().DrawSubTexturedQuad(mgl32.Vec3{5, 0, 0}, mgl32.Vec2{1, 1}, tex, uv, mgl32.Vec4{1, 1, 1, 1})
	r.Renderer2D().DrawRotatedTexturedQuad(mgl32.Vec3{}, mgl32.Vec2{1, 1}, 0.3, tex, 4, mgl32.Vec4{1, 1, 1, 1})
	r.Render()
	r.EndScene()

	require.Len(t, dev.DrawCalls(), 1)
	data := quadBuffer(dev).Data
	stride := 11
	require.Len(t, data, 3*4*stride)

	// rotated by 90 degrees, the bottom-left corner lands at (1, -1)
	assert.InDelta(t, 1, data[0], 1e-5)
	assert.InDelta(t, -1, data[1], 1e-5)

	second := data[4*stride:]
	for i := 0; i < 4; i++ {
		v := second[i*stride:]
		assert.Equal(t, uv[i][0], v[7])
		assert.Equal(t, uv[i][1], v[8])
		assert.Equal(t, float32(1), v[9], "texture slot")
	}

	third := data[8*stride:]
	assert.Equal(t, float32(1), third[9], "same texture shares its slot")
	assert.Equal(t, float32(4), third[10], "tiling factor")
}

func TestDrawTextLaysOutGlyphs(t *testing.T) {
	r, dev, _ := newTestRenderer(t, Options{})
	font := &fakeFont{
		tex: dev.Texture(),
		glyphs: map[rune]Glyph{
			'a': {U0: 0, V0: 0, U1: 0.5, V1: 1, Width: 10, Height: 10, BearingX: 1, BearingY: 10, Advance: 12},
			'b': {U0: 0.5, V0: 0, U1: 1, V1: 1, Width: 10, Height: 10, BearingX: 1, BearingY: 10, Advance: 12},
			' ': {Advance: 5},
		},
	}

	r.BeginScene(newCamera())
	r.Renderer2D().DrawText(font, "ab c", mgl32.Vec3{0, 0, 0}, 1, mgl32.Vec4{1, 1, 1, 1})
	r.Render()
	r.EndScene()

	draws := dev.DrawCalls()
	require.Len(t, draws, 1)
	assert.Equal(t, int32(12), draws[0].Count, "space and unknown runes draw nothing")

	data := quadBuffer(dev).Data
	stride := 11
	// bottom-left of 'a' sits on the baseline, offset by its bearing
	assert.Equal(t, []float32{1, 0}, data[0:2])
	assert.Equal(t, []float32{0, 1}, data[7:9])
	// 'b' starts one advance later and samples the right half of the atlas
	assert.Equal(t, []float32{13, 0}, data[4*stride:4*stride+2])
	assert.Equal(t, []float32{0.5, 1}, data[4*stride+7:4*stride+9])
}

func TestDrawTextNewlineUsesFontLineHeight(t *testing.T) {
	r, dev, _ := newTestRenderer(t, Options{})
	// no 'M' in this font
	font := &fakeFont{
		tex: dev.Texture(),
		glyphs: map[rune]Glyph{
			'a': {U1: 1, V1: 1, Width: 10, Height: 10, BearingX: 1, BearingY: 10, Advance: 12},
		},
		lineHeight: 20,
	}

	r.BeginScene(newCamera())
	r.Renderer2D().DrawText(font, "a\na", mgl32.Vec3{0, 0, 0}, 0.5, mgl32.Vec4{1, 1, 1, 1})
	r.Render()
	r.EndScene()

	data := quadBuffer(dev).Data
	stride := 11
	assert.Equal(t, []float32{0.5, 0}, data[0:2])
	// the second line restarts at the left edge one scaled line lower
	assert.Equal(t, []float32{0.5, -10}, data[4*stride:4*stride+2])
}
