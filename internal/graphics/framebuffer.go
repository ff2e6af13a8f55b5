package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// DepthFrameBuffer renders depth only into a sampled texture, for shadow maps
type DepthFrameBuffer struct {
	fbo      uint32
	depth    uint32
	width    int32
	height   int32
	released bool
}

func NewDepthFrameBuffer(width, height int) (*DepthFrameBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame buffer size %dx%d", width, height)
	}
	fb := &DepthFrameBuffer{width: int32(width), height: int32(height)}

	gl.GenTextures(1, &fb.depth)
	gl.BindTexture(gl.TEXTURE_2D, fb.depth)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, fb.width, fb.height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	// Samples outside the map read as fully lit
	border := []float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, fb.depth, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Release()
		return nil, fmt.Errorf("frame buffer incomplete: 0x%x", status)
	}
	return fb, nil
}

func (fb *DepthFrameBuffer) Bind()   { gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo) }
func (fb *DepthFrameBuffer) Unbind() { gl.BindFramebuffer(gl.FRAMEBUFFER, 0) }

// BindDepthMap binds the depth texture to unit slot for sampling
func (fb *DepthFrameBuffer) BindDepthMap(slot uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(gl.TEXTURE_2D, fb.depth)
}

func (fb *DepthFrameBuffer) Size() (int32, int32) { return fb.width, fb.height }

func (fb *DepthFrameBuffer) Release() {
	if fb.released {
		return
	}
	fb.released = true
	gl.DeleteFramebuffers(1, &fb.fbo)
	gl.DeleteTextures(1, &fb.depth)
}
