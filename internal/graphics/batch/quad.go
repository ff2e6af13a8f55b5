package batch

import (
	"graphx/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Quad is one batched rectangle. Transform maps the unit quad centred on the
// origin to world space; rotation, translation and scale are baked into the
// vertices on the CPU.
type Quad struct {
	Transform mgl32.Mat4
	Color     mgl32.Vec4
	// Texture nil means the white fallback in slot 0
	Texture gpu.Texture
	// TexCoords nil means DefaultTexCoords
	TexCoords    *[4]mgl32.Vec2
	TilingFactor float32
}

// QuadBatch accumulates quads for the 2D renderer
type QuadBatch struct {
	*Batch
}

// NewQuadBatch allocates staging memory for opts.MaxPrimitives quads and
// uploads the index pattern.
func NewQuadBatch(device gpu.Device, opts Options) (*QuadBatch, error) {
	b, err := newBatch("quad batch", device, QuadLayout, opts)
	if err != nil {
		return nil, err
	}
	return &QuadBatch{Batch: b}, nil
}

// AddQuad appends four vertices. The batch must not be full; a texture that
// does not fit in the slot table yields ErrTextureSlotsFull.
func (b *QuadBatch) AddQuad(q Quad) error {
	slot, dst, err := b.reserve(q.Texture)
	if err != nil {
		return err
	}

	uv := &DefaultTexCoords
	if q.TexCoords != nil {
		uv = q.TexCoords
	}
	tiling := q.TilingFactor
	if tiling == 0 {
		tiling = 1
	}

	stride := QuadLayout.Floats()
	for i, corner := range quadCorners {
		p := q.Transform.Mul4x1(corner)
		v := dst[i*stride : (i+1)*stride]
		v[0], v[1], v[2] = p[0], p[1], p[2]
		v[3], v[4], v[5], v[6] = q.Color[0], q.Color[1], q.Color[2], q.Color[3]
		v[7], v[8] = uv[i][0], uv[i][1]
		v[9] = slot
		v[10] = tiling
	}
	b.commit()
	return nil
}

// QuadTransform builds translate * rotateZ * scale for a quad
func QuadTransform(position mgl32.Vec3, size mgl32.Vec2, rotation float32) mgl32.Mat4 {
	m := mgl32.Translate3D(position[0], position[1], position[2])
	if rotation != 0 {
		m = m.Mul4(mgl32.HomogRotate3DZ(rotation))
	}
	return m.Mul4(mgl32.Scale3D(size[0], size[1], 1))
}
