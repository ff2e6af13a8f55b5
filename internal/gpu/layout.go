package gpu

// DataType is the type of a single vertex attribute
type DataType int

const (
	Float DataType = iota
	Float2
	Float3
	Float4
	Int
)

// Components returns the number of scalar components of the type
func (t DataType) Components() int32 {
	switch t {
	case Float, Int:
		return 1
	case Float2:
		return 2
	case Float3:
		return 3
	case Float4:
		return 4
	}
	panic("gpu: unknown data type")
}

// Size returns the size of the type in bytes
func (t DataType) Size() int32 {
	return t.Components() * 4
}

// LayoutElement is one attribute of an interleaved vertex
type LayoutElement struct {
	Type       DataType
	Normalized bool
	Offset     int32
}

// Layout describes interleaved vertex data. Element i is bound to attribute
// location i.
type Layout struct {
	Elements []LayoutElement
	Stride   int32
}

// NewLayout computes offsets and stride for tightly packed attributes
func NewLayout(types ...DataType) Layout {
	l := Layout{Elements: make([]LayoutElement, 0, len(types))}
	for _, t := range types {
		l.Elements = append(l.Elements, LayoutElement{Type: t, Offset: l.Stride})
		l.Stride += t.Size()
	}
	return l
}

// Floats returns the number of float32 values in one vertex
func (l Layout) Floats() int {
	return int(l.Stride / 4)
}
