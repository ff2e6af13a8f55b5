package scene

import "github.com/go-gl/mathgl/mgl32"

// Transform places an entity in the world. Rotation is Euler angles in
// radians applied yaw (Y), then pitch (X), then roll (Z).
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// NewTransform returns a transform at position with unit scale
func NewTransform(position mgl32.Vec3) Transform {
	return Transform{Position: position, Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns translate * rotate * scale
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	if t.Rotation != (mgl32.Vec3{}) {
		m = m.Mul4(mgl32.HomogRotate3DY(t.Rotation[1])).
			Mul4(mgl32.HomogRotate3DX(t.Rotation[0])).
			Mul4(mgl32.HomogRotate3DZ(t.Rotation[2]))
	}
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}
