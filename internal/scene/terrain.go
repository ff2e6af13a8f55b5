package scene

import (
	"fmt"

	"graphx/internal/gpu"
	"graphx/internal/graphics/renderer"
	"graphx/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// BlendMapSlot is the texture unit the terrain blend map is bound to
const BlendMapSlot = 4

// TerrainOptions describes the vertex grid and its height field
type TerrainOptions struct {
	// TilesX and TilesZ are vertex counts along each axis
	TilesX, TilesZ int
	TileSize       float32
	// Amplitude scales the noise; zero gives a flat terrain
	Amplitude float64
	Seed      int64
	Position  mgl32.Vec3
	// Scale stretches the grid on X and Z
	Scale mgl32.Vec2
}

// Terrain is a height-mapped grid drawn with a multi-texture material and a
// blend map selecting between its textures.
type Terrain struct {
	mesh     *Mesh
	material *Material
	blendMap gpu.Texture
}

// NewTerrain builds the grid and uploads it. The material's shader receives
// the grid dimensions and the blend map unit once here.
func NewTerrain(device gpu.Device, opts TerrainOptions, mat *Material, blendMap gpu.Texture) (*Terrain, error) {
	if opts.TilesX < 2 || opts.TilesZ < 2 {
		return nil, fmt.Errorf("terrain: need at least 2x2 vertices, got %dx%d", opts.TilesX, opts.TilesZ)
	}
	if opts.TileSize <= 0 {
		return nil, fmt.Errorf("terrain: tile size must be positive")
	}
	if blendMap == nil {
		return nil, fmt.Errorf("terrain: blend map is required")
	}
	if opts.Scale == (mgl32.Vec2{}) {
		opts.Scale = mgl32.Vec2{1, 1}
	}

	vertices, indices := BuildTerrainGeometry(opts)
	mesh, err := NewMesh(device, vertices, indices, mat)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	mesh.Transform = Transform{Position: opts.Position, Scale: mgl32.Vec3{opts.Scale[0], 1, opts.Scale[1]}}

	shader := mat.Shader()
	shader.Bind()
	shader.SetVec2i("u_TerrainDimensions", int32(opts.TilesX), int32(opts.TilesZ))
	shader.SetInt("u_BlendMap", BlendMapSlot)

	return &Terrain{mesh: mesh, material: mat, blendMap: blendMap}, nil
}

// BuildTerrainGeometry lays out TilesX*TilesZ vertices row by row along Z
// and two triangles per grid cell.
func BuildTerrainGeometry(opts TerrainOptions) ([]Vertex3D, []uint32) {
	defer profiling.Track("terrain.Build")()

	noise := newHeightNoise(opts.Seed)
	nx, nz := opts.TilesX, opts.TilesZ
	vertices := make([]Vertex3D, 0, nx*nz)
	for x := 0; x < nx; x++ {
		for z := 0; z < nz; z++ {
			h := float32(noise.height(x, z) * opts.Amplitude)
			vertices = append(vertices, Vertex3D{
				Position: mgl32.Vec3{float32(x) * opts.TileSize, h, float32(z) * opts.TileSize},
				TexCoord: mgl32.Vec2{float32(z), float32(x)},
			})
		}
	}

	indices := make([]uint32, 0, (nx-1)*(nz-1)*6)
	for x := 0; x < nx-1; x++ {
		for z := 0; z < nz-1; z++ {
			topLeft := uint32(x*nz + z)
			topRight := topLeft + 1
			bottomLeft := uint32((x+1)*nz + z)
			bottomRight := bottomLeft + 1
			indices = append(indices,
				topLeft, topRight, bottomRight,
				bottomRight, bottomLeft, topLeft)
		}
	}

	for x := 0; x < nx; x++ {
		for z := 0; z < nz; z++ {
			vertices[x*nz+z].Normal = gridNormal(vertices, nx, nz, x, z)
		}
	}
	return vertices, indices
}

// gridNormal estimates the normal from the neighbouring heights, clamped at the edges
func gridNormal(vertices []Vertex3D, nx, nz, x, z int) mgl32.Vec3 {
	height := func(x, z int) float32 {
		x = min(max(x, 0), nx-1)
		z = min(max(z, 0), nz-1)
		return vertices[x*nz+z].Position[1]
	}
	l, r := height(x-1, z), height(x+1, z)
	d, u := height(x, z-1), height(x, z+1)
	return mgl32.Vec3{l - r, 2, d - u}.Normalize()
}

// Enable binds the blend map and the grid. The renderer binds the material.
func (t *Terrain) Enable() {
	t.blendMap.Bind(BlendMapSlot)
	t.mesh.Enable()
}

func (t *Terrain) Disable() {
	t.blendMap.Unbind()
	t.mesh.Disable()
}

func (t *Terrain) BindBuffers()                     { t.mesh.BindBuffers() }
func (t *Terrain) UnbindBuffers()                   { t.mesh.UnbindBuffers() }
func (t *Terrain) ModelMatrix() mgl32.Mat4          { return t.mesh.ModelMatrix() }
func (t *Terrain) Material() renderer.Material      { return t.material }
func (t *Terrain) IndexCount() int32                { return t.mesh.IndexCount() }
func (t *Terrain) Bounds() (mgl32.Vec3, mgl32.Vec3) { return t.mesh.Bounds() }

// Release frees the grid buffers. Textures are owned by the caller.
func (t *Terrain) Release() { t.mesh.Release() }
