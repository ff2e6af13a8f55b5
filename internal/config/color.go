package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is RGBA in [0, 1]. In YAML it is either a hex string
// ("#ff8800", alpha 1) or a list of three or four numbers.
type Color [4]float32

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		hex, err := colorful.Hex(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*c = Color{float32(hex.R), float32(hex.G), float32(hex.B), 1}
		return nil
	}

	var values []float32
	if err := node.Decode(&values); err != nil {
		return err
	}
	switch len(values) {
	case 3:
		*c = Color{values[0], values[1], values[2], 1}
	case 4:
		*c = Color{values[0], values[1], values[2], values[3]}
	default:
		return fmt.Errorf("line %d: color needs 3 or 4 components, got %d", node.Line, len(values))
	}
	for _, v := range c {
		if v < 0 || v > 1 {
			return fmt.Errorf("line %d: color component %v outside [0, 1]", node.Line, v)
		}
	}
	return nil
}

// Blend mixes c towards to by t in the perceptual Lab space, keeping alpha linear
func (c Color) Blend(to Color, t float32) Color {
	a := colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
	b := colorful.Color{R: float64(to[0]), G: float64(to[1]), B: float64(to[2])}
	m := a.BlendLab(b, float64(t)).Clamped()
	return Color{float32(m.R), float32(m.G), float32(m.B), c[3] + (to[3]-c[3])*t}
}
