package graphics

import (
	"graphx/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Device issues GL calls on the thread that owns the context
type Device struct {
	log *zap.Logger
}

// NewDevice loads the GL function pointers and sets the default pipeline
// state: depth testing, back face culling and alpha blending function.
func NewDevice(log *zap.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("OpenGL initialised",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	d := &Device{log: log}
	d.CheckErrors("init")
	return d, nil
}

func (d *Device) NewVertexArray() gpu.VertexArray                       { return NewVertexArray() }
func (d *Device) NewVertexBuffer(sizeBytes int) gpu.VertexBuffer        { return NewVertexBuffer(sizeBytes) }
func (d *Device) NewStaticVertexBuffer(data []float32) gpu.VertexBuffer { return NewStaticVertexBuffer(data) }
func (d *Device) NewIndexBuffer(indices []uint32) gpu.IndexBuffer       { return NewIndexBuffer(indices) }

func (d *Device) NewTexture(width, height int, rgba []byte) (gpu.Texture, error) {
	t, err := NewTexture(width, height, rgba, TextureOptions{})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (d *Device) NewDepthFrameBuffer(width, height int) (gpu.FrameBuffer, error) {
	fb, err := NewDepthFrameBuffer(width, height)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

func primitive(mode gpu.Primitive) uint32 {
	if mode == gpu.Lines {
		return gl.LINES
	}
	return gl.TRIANGLES
}

func (d *Device) DrawIndexed(mode gpu.Primitive, count int32) {
	gl.DrawElements(primitive(mode), count, gl.UNSIGNED_INT, nil)
}

func (d *Device) DrawArrays(mode gpu.Primitive, count int32) {
	gl.DrawArrays(primitive(mode), 0, count)
}

func (d *Device) SetDepthMask(enabled bool) { gl.DepthMask(enabled) }

func (d *Device) SetFaceCulling(enabled bool) {
	if enabled {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

func (d *Device) SetBlending(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}
}

func (d *Device) Clear(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

// SetWireframe switches polygon rasterisation between lines and fill
func (d *Device) SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

var _ gpu.Device = (*Device)(nil)
