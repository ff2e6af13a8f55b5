// Package scene holds the entities a frame is built from: camera, meshes,
// terrain, skybox, lights and particle systems.
package scene

import (
	"math"

	"graphx/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

const maxPitch = 89.0

// Camera is a yaw/pitch fly camera with a perspective or orthographic
// projection. Matrices are recomputed lazily after a change.
type Camera struct {
	position mgl32.Vec3
	worldUp  mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3

	// Yaw and pitch in degrees
	yaw, pitch float32

	fov       float32
	aspect    float32
	near, far float32
	orthoSize float32
	mode      renderer.ProjectionMode

	dirty      bool
	view       mgl32.Mat4
	projection mgl32.Mat4
}

// NewCamera creates a perspective camera looking down -Z
func NewCamera(position mgl32.Vec3, aspect, near, far float32) *Camera {
	c := &Camera{
		position:  position,
		worldUp:   mgl32.Vec3{0, 1, 0},
		yaw:       -90,
		fov:       45,
		aspect:    aspect,
		near:      near,
		far:       far,
		orthoSize: 10,
		mode:      renderer.Perspective,
	}
	c.updateVectors()
	return c
}

func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))
	c.front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
	c.dirty = true
}

func (c *Camera) update() {
	if !c.dirty {
		return
	}
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
	if c.mode == renderer.Orthographic {
		h := c.orthoSize / 2
		w := h * c.aspect
		c.projection = mgl32.Ortho(-w, w, -h, h, c.near, c.far)
	} else {
		c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
	}
	c.dirty = false
}

// SetPosition moves the camera to p
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.dirty = true
}

// Move translates the camera along its front, right and up axes
func (c *Camera) Move(forward, right, up float32) {
	c.position = c.position.
		Add(c.front.Mul(forward)).
		Add(c.right.Mul(right)).
		Add(c.up.Mul(up))
	c.dirty = true
}

// Rotate adds to yaw and pitch, in degrees. Pitch is clamped short of the poles.
func (c *Camera) Rotate(dYaw, dPitch float32) {
	c.yaw += dYaw
	c.pitch = mgl32.Clamp(c.pitch+dPitch, -maxPitch, maxPitch)
	c.updateVectors()
}

// SetAspect updates the aspect ratio, typically after a resize
func (c *Camera) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.dirty = true
}

// SetFOV sets the vertical field of view in degrees
func (c *Camera) SetFOV(deg float32) {
	c.fov = mgl32.Clamp(deg, 1, 120)
	c.dirty = true
}

// SetProjectionMode switches between perspective and orthographic
func (c *Camera) SetProjectionMode(m renderer.ProjectionMode) {
	c.mode = m
	c.dirty = true
}

// SetOrthoSize sets the visible height of the orthographic projection
func (c *Camera) SetOrthoSize(size float32) {
	c.orthoSize = size
	c.dirty = true
}

func (c *Camera) Position() mgl32.Vec3 { return c.position }
func (c *Camera) Front() mgl32.Vec3    { return c.front }
func (c *Camera) Yaw() float32         { return c.yaw }
func (c *Camera) Pitch() float32       { return c.pitch }

func (c *Camera) ProjectionMode() renderer.ProjectionMode { return c.mode }

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	c.update()
	return c.view
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	c.update()
	return c.projection
}

func (c *Camera) ProjectionViewMatrix() mgl32.Mat4 {
	c.update()
	return c.projection.Mul4(c.view)
}

// RotationViewMatrix is the view matrix with its translation removed
func (c *Camera) RotationViewMatrix() mgl32.Mat4 {
	v := c.ViewMatrix()
	v[12], v[13], v[14] = 0, 0, 0
	return v
}

var _ renderer.Camera = (*Camera)(nil)
