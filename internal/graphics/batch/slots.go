package batch

import (
	"errors"

	"graphx/internal/gpu"
)

// MaxTextureImageUnits is the sampler array size the batch shaders declare
const MaxTextureImageUnits = 32

// ErrTextureSlotsFull is returned when a primitive needs a texture that does
// not fit in the current batch. Nothing has been written when it is returned;
// the caller flushes and starts a new batch.
var ErrTextureSlotsFull = errors.New("batch: texture slots exhausted")

// TextureSlots maps texture identity to a sampler slot for the lifetime of
// one batch. Slot 0 always holds the fallback white texture.
type TextureSlots struct {
	slots []gpu.Texture
	used  int
}

// NewTextureSlots creates a table with size slots, size in [2, MaxTextureImageUnits]
func NewTextureSlots(size int, white gpu.Texture) *TextureSlots {
	if size < 2 || size > MaxTextureImageUnits {
		panic("batch: texture slot count out of range")
	}
	if white == nil {
		panic("batch: nil fallback texture")
	}
	t := &TextureSlots{slots: make([]gpu.Texture, size)}
	t.slots[0] = white
	t.Reset()
	return t
}

// Reset frees every slot except slot 0
func (t *TextureSlots) Reset() {
	for i := 1; i < len(t.slots); i++ {
		t.slots[i] = nil
	}
	t.used = 1
}

// Lookup returns the slot holding tex. A nil texture resolves to slot 0.
func (t *TextureSlots) Lookup(tex gpu.Texture) (int, bool) {
	if tex == nil {
		return 0, true
	}
	id := tex.ID()
	for i := 0; i < t.used; i++ {
		if t.slots[i].ID() == id {
			return i, true
		}
	}
	return 0, false
}

// Assign returns the slot for tex, claiming the next free one if needed
func (t *TextureSlots) Assign(tex gpu.Texture) (int, error) {
	if slot, ok := t.Lookup(tex); ok {
		return slot, nil
	}
	if t.used == len(t.slots) {
		return 0, ErrTextureSlotsFull
	}
	t.slots[t.used] = tex
	t.used++
	return t.used - 1, nil
}

// Used returns the number of occupied slots, including slot 0
func (t *TextureSlots) Used() int { return t.used }

// Size returns the table capacity
func (t *TextureSlots) Size() int { return len(t.slots) }

// At returns the texture in slot i
func (t *TextureSlots) At(i int) gpu.Texture { return t.slots[i] }

// Bind binds every occupied slot to its texture unit
func (t *TextureSlots) Bind() {
	for i := 0; i < t.used; i++ {
		t.slots[i].Bind(uint32(i))
	}
}

// SamplerUnits returns 0..n-1 for the shader's sampler array uniform
func SamplerUnits(n int) []int32 {
	units := make([]int32, n)
	for i := range units {
		units[i] = int32(i)
	}
	return units
}
