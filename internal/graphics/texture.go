package graphics

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"graphx/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// TextureOptions selects sampling for a 2D texture
type TextureOptions struct {
	// Tiled textures repeat and are mipmapped; others clamp to the edge
	Tiled bool
	// Nearest uses point sampling, for pixel art and atlases
	Nearest bool
	// FlipY stores the first image row at v = 0 in GL's bottom-up convention
	FlipY bool
}

// Texture is a GL 2D texture
type Texture struct {
	id       uint32
	width    int
	height   int
	slot     uint32
	released bool
}

// NewTexture uploads tightly packed RGBA8 pixels
func NewTexture(width, height int, rgba []byte, opts TextureOptions) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("texture data size %d does not match %dx%d", len(rgba), width, height)
	}

	t := &Texture{width: width, height: height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	wrap := int32(gl.CLAMP_TO_EDGE)
	if opts.Tiled {
		wrap = gl.REPEAT
	}
	minFilter, magFilter := int32(gl.LINEAR), int32(gl.LINEAR)
	if opts.Nearest {
		minFilter, magFilter = gl.NEAREST, gl.NEAREST
	}
	if opts.Tiled {
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(width),
		int32(height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba),
	)
	if opts.Tiled {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// LoadTexture decodes a PNG or JPEG file into a texture
func LoadTexture(path string, opts TextureOptions) (*Texture, error) {
	rgba, err := decodeRGBA(path, opts.FlipY)
	if err != nil {
		return nil, err
	}
	size := rgba.Rect.Size()
	return NewTexture(size.X, size.Y, rgba.Pix, opts)
}

func decodeRGBA(path string, flipY bool) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	if flipY {
		flipRows(rgba)
	}
	return rgba, nil
}

// flipRows reverses the row order of img in place
func flipRows(img *image.RGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

func (t *Texture) ID() uint32  { return t.id }
func (t *Texture) Width() int  { return t.width }
func (t *Texture) Height() int { return t.height }

// Bind makes t current on texture unit slot
func (t *Texture) Bind(slot uint32) {
	t.slot = slot
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Unbind clears the unit t was last bound to
func (t *Texture) Unbind() {
	gl.ActiveTexture(gl.TEXTURE0 + t.slot)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	gl.DeleteTextures(1, &t.id)
}

// CubeMapFaces is the face order GL expects: +X, -X, +Y, -Y, +Z, -Z
var CubeMapFaces = []string{"right.png", "left.png", "top.png", "bottom.png", "front.png", "back.png"}

// CubeMap is a six-faced texture sampled by direction
type CubeMap struct {
	id       uint32
	slot     uint32
	released bool
}

// LoadCubeMap reads the six faces from dir. Face names follow CubeMapFaces order.
func LoadCubeMap(dir string, faces []string) (*CubeMap, error) {
	if len(faces) != 6 {
		return nil, fmt.Errorf("cube map needs 6 faces, got %d", len(faces))
	}
	images := make([]*image.RGBA, len(faces))
	for i, name := range faces {
		img, err := decodeRGBA(filepath.Join(dir, name), false)
		if err != nil {
			return nil, fmt.Errorf("cube map face %s: %w", name, err)
		}
		images[i] = img
	}

	c := &CubeMap{}
	gl.GenTextures(1, &c.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, c.id)
	for i, img := range images {
		size := img.Rect.Size()
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA8,
			int32(size.X), int32(size.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return c, nil
}

func (c *CubeMap) ID() uint32 { return c.id }

func (c *CubeMap) Bind(slot uint32) {
	c.slot = slot
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, c.id)
}

func (c *CubeMap) Unbind() {
	gl.ActiveTexture(gl.TEXTURE0 + c.slot)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
}

func (c *CubeMap) Release() {
	if c.released {
		return
	}
	c.released = true
	gl.DeleteTextures(1, &c.id)
}

var (
	_ gpu.Texture = (*Texture)(nil)
	_ gpu.Texture = (*CubeMap)(nil)
)
