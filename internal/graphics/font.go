package graphics

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"

	"graphx/internal/gpu"
	"graphx/internal/graphics/renderer"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontAtlas is a baked glyph sheet. Pixels are white with the glyph coverage
// in alpha, so the quad shader can tint text by vertex colour.
type FontAtlas struct {
	Width  int
	Height int
	Pixels *image.RGBA
	Glyphs map[rune]renderer.Glyph
	// LineHeight is the baseline-to-baseline distance in pixels
	LineHeight float32
}

// ASCII returns the printable ASCII range
func ASCII() []rune {
	runes := make([]rune, 0, 95)
	for r := rune(32); r <= 126; r++ {
		runes = append(runes, r)
	}
	return runes
}

// BakeFontAtlas renders runes from face into rows of an atlas atlasWidth
// pixels wide. The atlas grows downward as rows fill.
func BakeFontAtlas(face font.Face, runes []rune, atlasWidth int) (*FontAtlas, error) {
	const padding = 1

	type placed struct {
		r          rune
		mask       image.Image
		maskp      image.Point
		dr         image.Rectangle
		advance    fixed.Int26_6
		x, y, w, h int
	}

	// First pass: pack rows to find the atlas height
	var glyphs []placed
	offsetX, offsetY, rowHeight, tallest := 0, 0, 0, 0
	for _, r := range runes {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || mask == nil {
			continue
		}
		p := placed{r: r, mask: mask, maskp: maskp, dr: dr, advance: advance, w: dr.Dx(), h: dr.Dy()}
		if p.w > atlasWidth {
			return nil, fmt.Errorf("glyph %q is wider than the atlas", r)
		}
		if p.w > 0 && p.h > 0 {
			if offsetX+p.w > atlasWidth {
				offsetX = 0
				offsetY += rowHeight + padding
				rowHeight = 0
			}
			p.x, p.y = offsetX, offsetY
			offsetX += p.w + padding
			rowHeight = max(rowHeight, p.h)
			tallest = max(tallest, p.h)
		}
		glyphs = append(glyphs, p)
	}
	if len(glyphs) == 0 {
		return nil, fmt.Errorf("font has none of the requested glyphs")
	}
	atlasHeight := offsetY + rowHeight
	if atlasHeight == 0 {
		atlasHeight = 1
	}

	// Second pass: copy coverage into alpha and record metrics
	alpha := image.NewAlpha(image.Rect(0, 0, atlasWidth, atlasHeight))
	atlas := &FontAtlas{
		Width:      atlasWidth,
		Height:     atlasHeight,
		Glyphs:     make(map[rune]renderer.Glyph, len(glyphs)),
		LineHeight: float32(face.Metrics().Height.Ceil()),
	}
	if atlas.LineHeight <= 0 {
		atlas.LineHeight = float32(tallest)
	}
	w, h := float32(atlasWidth), float32(atlasHeight)
	for _, p := range glyphs {
		g := renderer.Glyph{
			BearingX: float32(p.dr.Min.X),
			BearingY: float32(-p.dr.Min.Y),
			Advance:  float32(math.Round(float64(p.advance) / 64.0)),
		}
		if p.w > 0 && p.h > 0 {
			draw.Draw(alpha, image.Rect(p.x, p.y, p.x+p.w, p.y+p.h), p.mask, p.maskp, draw.Src)
			g.Width, g.Height = float32(p.w), float32(p.h)
			g.U0, g.V0 = float32(p.x)/w, float32(p.y)/h
			g.U1, g.V1 = float32(p.x+p.w)/w, float32(p.y+p.h)/h
		}
		atlas.Glyphs[p.r] = g
	}

	atlas.Pixels = image.NewRGBA(alpha.Rect)
	for i, a := range alpha.Pix {
		copy(atlas.Pixels.Pix[i*4:], []byte{0xff, 0xff, 0xff, a})
	}
	return atlas, nil
}

// Font pairs a baked atlas with its texture
type Font struct {
	atlas   *FontAtlas
	texture gpu.Texture
}

// NewFont uploads atlas through device
func NewFont(device gpu.Device, atlas *FontAtlas) (*Font, error) {
	tex, err := device.NewTexture(atlas.Width, atlas.Height, atlas.Pixels.Pix)
	if err != nil {
		return nil, fmt.Errorf("upload font atlas: %w", err)
	}
	return &Font{atlas: atlas, texture: tex}, nil
}

// LoadFont reads a TrueType or OpenType file and bakes runes at the given pixel size
func LoadFont(device gpu.Device, path string, pixels int, runes []rune) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return ParseFont(device, data, pixels, runes)
}

// ParseFont bakes runes from font file contents
func ParseFont(device gpu.Device, data []byte, pixels int, runes []rune) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(pixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	atlas, err := BakeFontAtlas(face, runes, 1024)
	if err != nil {
		return nil, err
	}
	return NewFont(device, atlas)
}

func (f *Font) Texture() gpu.Texture { return f.texture }
func (f *Font) Atlas() *FontAtlas    { return f.atlas }
func (f *Font) LineHeight() float32  { return f.atlas.LineHeight }

func (f *Font) Glyph(r rune) (renderer.Glyph, bool) {
	g, ok := f.atlas.Glyphs[r]
	return g, ok
}

// Measure returns the width and tallest glyph height of text at scale.
// Missing glyphs advance by a space.
func (f *Font) Measure(text string, scale float32) (float32, float32) {
	var width, maxH float32
	for _, r := range text {
		g, ok := f.atlas.Glyphs[r]
		if !ok {
			g = f.atlas.Glyphs[' ']
		}
		width += g.Advance * scale
		if g.Height*scale > maxH {
			maxH = g.Height * scale
		}
	}
	return width, maxH
}

func (f *Font) Release() {
	f.texture.Release()
}

var _ renderer.Font = (*Font)(nil)
