package batch

import (
	"math/rand"
	"testing"

	"graphx/internal/gpu"
	"graphx/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuadBatch(t *testing.T, maxQuads, slots int) (*QuadBatch, *gputest.Device, *gputest.Texture) {
	t.Helper()
	dev := gputest.NewDevice()
	white := dev.Texture()
	b, err := NewQuadBatch(dev, Options{
		MaxPrimitives: maxQuads,
		TextureSlots:  slots,
		White:         white,
		Shader:        gputest.NewShader(dev, "quad"),
	})
	require.NoError(t, err)
	return b, dev, white
}

func texturedQuad(tex gpu.Texture) Quad {
	return Quad{Transform: mgl32.Ident4(), Color: mgl32.Vec4{1, 1, 1, 1}, Texture: tex}
}

func TestQuadIndicesPattern(t *testing.T) {
	want := []uint32{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4, 8, 9, 10, 10, 11, 8}
	assert.Equal(t, want, QuadIndices(3))
}

func TestCapacityTwoScenario(t *testing.T) {
	b, dev, white := newTestQuadBatch(t, 2, 0)
	t1, t2 := dev.Texture(), dev.Texture()

	b.BeginBatch()
	require.NoError(t, b.AddQuad(texturedQuad(t1)))
	require.NoError(t, b.AddQuad(texturedQuad(t2)))

	slot, ok := b.Slots().Lookup(t1)
	assert.True(t, ok)
	assert.Equal(t, 1, slot)
	slot, _ = b.Slots().Lookup(t2)
	assert.Equal(t, 2, slot)

	assert.True(t, b.IsFull())
	assert.Panics(t, func() { _ = b.AddQuad(texturedQuad(t1)) })

	dev.Reset()
	b.EndBatch()
	assert.Equal(t, int32(12), b.IndexCount())
	b.Flush()

	draws := dev.DrawCalls()
	require.Len(t, draws, 1)
	assert.Equal(t, int32(12), draws[0].Count)

	binds := dev.Filter(gputest.OpBindTexture)
	require.Len(t, binds, 3)
	assert.Equal(t, []uint32{white.ID(), t1.ID(), t2.ID()}, []uint32{binds[0].ID, binds[1].ID, binds[2].ID})
	assert.Equal(t, []uint32{0, 1, 2}, []uint32{binds[0].Slot, binds[1].Slot, binds[2].Slot})
}

func TestCapacityInvariant(t *testing.T) {
	const maxQuads = 7
	b, dev, _ := newTestQuadBatch(t, maxQuads, 4)
	textures := []gpu.Texture{nil, dev.Texture(), dev.Texture(), dev.Texture(), dev.Texture(), dev.Texture()}
	vbo := dev.VertexBuffers[0]
	rng := rand.New(rand.NewSource(7))

	flush := func() {
		b.EndBatch()
		assert.LessOrEqual(t, int(b.IndexCount()), IndicesPerPrimitive*maxQuads)
		b.Flush()
		b.BeginBatch()
	}

	b.BeginBatch()
	for i := 0; i < 500; i++ {
		if b.IsFull() {
			flush()
		}
		q := texturedQuad(textures[rng.Intn(len(textures))])
		if err := b.AddQuad(q); err != nil {
			require.ErrorIs(t, err, ErrTextureSlotsFull)
			flush()
			require.NoError(t, b.AddQuad(q))
		}
		assert.LessOrEqual(t, b.VertexCount(), VerticesPerPrimitive*maxQuads)
		assert.LessOrEqual(t, b.Slots().Used(), 4)
	}
	b.EndBatch()
	b.Flush()

	assert.Equal(t, 500, b.Stats().Primitives)
	assert.LessOrEqual(t, len(vbo.Data), maxQuads*VerticesPerPrimitive*QuadLayout.Floats())
}

func TestIndexBufferUploadedOnce(t *testing.T) {
	b, dev, _ := newTestQuadBatch(t, 4, 0)
	ibo := dev.IndexBuffers[0]
	want := QuadIndices(4)
	require.Equal(t, want, ibo.Indices)

	for frame := 0; frame < 3; frame++ {
		b.BeginBatch()
		for i := 0; i < 4; i++ {
			require.NoError(t, b.AddQuad(texturedQuad(nil)))
		}
		b.EndBatch()
		b.Flush()
	}

	assert.Equal(t, 1, ibo.Uploads)
	assert.Equal(t, want, ibo.Indices)
	assert.Equal(t, want, b.Indices())
}

func TestBeginBatchReservesWhiteSlot(t *testing.T) {
	b, dev, white := newTestQuadBatch(t, 8, 0)

	b.BeginBatch()
	for i := 0; i < 5; i++ {
		require.NoError(t, b.AddQuad(texturedQuad(dev.Texture())))
	}
	b.EndBatch()
	b.Flush()
	assert.Equal(t, 6, b.Slots().Used())

	b.BeginBatch()
	assert.Equal(t, 1, b.Slots().Used())
	assert.Equal(t, white.ID(), b.Slots().At(0).ID())
	assert.Nil(t, b.Slots().At(1))
	assert.Equal(t, 0, b.Count())
}

func TestTextureDedup(t *testing.T) {
	b, dev, _ := newTestQuadBatch(t, 8, 0)
	tex := dev.Texture()

	b.BeginBatch()
	require.NoError(t, b.AddQuad(texturedQuad(tex)))
	require.NoError(t, b.AddQuad(texturedQuad(tex)))
	require.NoError(t, b.AddQuad(texturedQuad(nil)))

	assert.Equal(t, 2, b.Slots().Used())
	assert.Equal(t, 3, b.Count())
}

func TestSlotExhaustionWritesNothing(t *testing.T) {
	b, dev, _ := newTestQuadBatch(t, 8, 3)

	b.BeginBatch()
	require.NoError(t, b.AddQuad(texturedQuad(dev.Texture())))
	require.NoError(t, b.AddQuad(texturedQuad(dev.Texture())))

	err := b.AddQuad(texturedQuad(dev.Texture()))
	assert.ErrorIs(t, err, ErrTextureSlotsFull)
	assert.Equal(t, 2, b.Count())
	assert.Equal(t, 3, b.Slots().Used())

	// textures already bound, and untextured quads, still fit
	require.NoError(t, b.AddQuad(texturedQuad(nil)))
	assert.Equal(t, 3, b.Count())
}

func TestPreconditionViolationsPanic(t *testing.T) {
	b, _, _ := newTestQuadBatch(t, 2, 0)

	assert.Panics(t, func() { _ = b.AddQuad(texturedQuad(nil)) }, "add before begin")
	assert.Panics(t, func() { b.EndBatch() }, "end before begin")

	b.BeginBatch()
	assert.Panics(t, func() { b.BeginBatch() }, "double begin")
	assert.Panics(t, func() { b.Flush() }, "flush before end")

	b.EndBatch()
	b.Flush()
	assert.Panics(t, func() { _ = b.AddQuad(texturedQuad(nil)) }, "add after flush")
}

func TestFlushEmptyBatchDrawsNothing(t *testing.T) {
	b, dev, _ := newTestQuadBatch(t, 2, 0)
	b.BeginBatch()
	b.EndBatch()
	b.Flush()
	assert.Empty(t, dev.DrawCalls())
	assert.Equal(t, Stats{}, b.Stats())
}

func TestQuadVerticesAreBakedToWorldSpace(t *testing.T) {
	b, dev, _ := newTestQuadBatch(t, 1, 0)
	tex := dev.Texture()
	vbo := dev.VertexBuffers[0]

	b.BeginBatch()
	require.NoError(t, b.AddQuad(Quad{
		Transform:    QuadTransform(mgl32.Vec3{1, 2, 3}, mgl32.Vec2{2, 4}, 0),
		Color:        mgl32.Vec4{0.5, 0.25, 1, 1},
		Texture:      tex,
		TilingFactor: 3,
	}))
	b.EndBatch()
	b.Flush()

	stride := QuadLayout.Floats()
	require.Len(t, vbo.Data, 4*stride)
	wantPos := [][3]float32{{0, 0, 3}, {2, 0, 3}, {2, 4, 3}, {0, 4, 3}}
	for i := 0; i < 4; i++ {
		v := vbo.Data[i*stride : (i+1)*stride]
		assert.InDeltaSlice(t, wantPos[i][:], v[0:3], 1e-5, "vertex %d position", i)
		assert.Equal(t, []float32{0.5, 0.25, 1, 1}, v[3:7])
		assert.Equal(t, []float32{DefaultTexCoords[i][0], DefaultTexCoords[i][1]}, v[7:9])
		assert.Equal(t, float32(1), v[9], "texture slot")
		assert.Equal(t, float32(3), v[10], "tiling")
	}
}

func TestRotatedQuadTransform(t *testing.T) {
	m := QuadTransform(mgl32.Vec3{}, mgl32.Vec2{2, 2}, mgl32.DegToRad(90))
	p := m.Mul4x1(mgl32.Vec4{0.5, 0, 0, 1})
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 1, p[1], 1e-5)
}

func TestParticleVerticesInViewPlane(t *testing.T) {
	dev := gputest.NewDevice()
	b, err := NewParticleBatch(dev, Options{
		MaxPrimitives: 4,
		White:         dev.Texture(),
		Shader:        gputest.NewShader(dev, "particle"),
	})
	require.NoError(t, err)
	atlas := dev.Texture()
	vbo := dev.VertexBuffers[0]

	b.BeginBatch()
	require.NoError(t, b.AddParticle(Particle{
		ViewPosition: mgl32.Vec3{0, 0, -10},
		Size:         2,
		Color:        mgl32.Vec4{1, 0, 0, 1},
		Texture:      atlas,
		AtlasRows:    4,
		TexOffsets:   mgl32.Vec4{0.25, 0, 0.5, 0},
		BlendFactor:  0.75,
	}))
	b.EndBatch()
	b.Flush()

	stride := ParticleLayout.Floats()
	require.Len(t, vbo.Data, 4*stride)
	first := vbo.Data[:stride]
	assert.Equal(t, []float32{-1, -1, -10}, first[0:3])
	assert.Equal(t, []float32{0.25, 0, 0.5, 0}, first[5:9])
	assert.Equal(t, float32(0.75), first[9])
	assert.Equal(t, float32(4), first[10])
	assert.Equal(t, float32(1), first[15])

	third := vbo.Data[2*stride : 3*stride]
	assert.Equal(t, []float32{1, 1, -10}, third[0:3])
}

func TestBatchOptionsValidation(t *testing.T) {
	dev := gputest.NewDevice()
	shader := gputest.NewShader(dev, "quad")
	_, err := NewQuadBatch(dev, Options{MaxPrimitives: 0, White: dev.Texture(), Shader: shader})
	assert.Error(t, err)
	_, err = NewQuadBatch(dev, Options{MaxPrimitives: 4, TextureSlots: 33, White: dev.Texture(), Shader: shader})
	assert.Error(t, err)
	_, err = NewQuadBatch(dev, Options{MaxPrimitives: 4, Shader: shader})
	assert.Error(t, err)
}

func TestSamplerArrayUniform(t *testing.T) {
	dev := gputest.NewDevice()
	shader := gputest.NewShader(dev, "quad")
	_, err := NewQuadBatch(dev, Options{MaxPrimitives: 1, TextureSlots: 4, White: dev.Texture(), Shader: shader})
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2, 3}, shader.Uniforms["u_Textures"])
}

func TestReleaseIsIdempotent(t *testing.T) {
	b, dev, _ := newTestQuadBatch(t, 1, 0)
	b.Release()
	b.Release()
	assert.Equal(t, 1, dev.VertexBuffers[0].Released)
	assert.Equal(t, 1, dev.IndexBuffers[0].Released)
	assert.Equal(t, 1, dev.VertexArrays[0].Released)
	assert.Panics(t, func() { b.BeginBatch() })
}

func BenchmarkAddQuad(b *testing.B) {
	dev := gputest.NewDevice()
	qb, err := NewQuadBatch(dev, Options{MaxPrimitives: 10000, White: dev.Texture(), Shader: gputest.NewShader(dev, "quad")})
	if err != nil {
		b.Fatal(err)
	}
	q := Quad{Transform: QuadTransform(mgl32.Vec3{1, 1, 0}, mgl32.Vec2{1, 1}, 0.3), Color: mgl32.Vec4{1, 1, 1, 1}}
	qb.BeginBatch()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if qb.IsFull() {
			qb.EndBatch()
			qb.Flush()
			qb.BeginBatch()
		}
		_ = qb.AddQuad(q)
	}
}
