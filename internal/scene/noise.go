package scene

import "math"

// heightNoise is smoothed value noise summed over three octaves. Lattice
// values come from an integer hash, so heights are stable for a seed.
type heightNoise struct {
	seed int64
}

func newHeightNoise(seed int64) heightNoise {
	return heightNoise{seed: seed}
}

func (n heightNoise) height(x, z int) float64 {
	fx, fz := float64(x), float64(z)
	total := n.interpolated(fx/8, fz/8)
	total += n.interpolated(fx/4, fz/4) / 3
	total += n.interpolated(fx/2, fz/2) / 9
	return total
}

func hash2(x, z, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

// random maps a lattice point to [-1, 1]
func (n heightNoise) random(x, z int) float64 {
	h := hash2(int64(x), int64(z), n.seed)
	return float64(h&0xFFFFFFFF)/float64(0xFFFFFFFF)*2 - 1
}

// smooth averages a lattice point with its eight neighbours
func (n heightNoise) smooth(x, z int) float64 {
	corners := (n.random(x-1, z-1) + n.random(x+1, z-1) + n.random(x-1, z+1) + n.random(x+1, z+1)) / 16
	sides := (n.random(x-1, z) + n.random(x+1, z) + n.random(x, z-1) + n.random(x, z+1)) / 8
	center := n.random(x, z) / 4
	return corners + sides + center
}

func (n heightNoise) interpolated(x, z float64) float64 {
	ix, iz := int(math.Floor(x)), int(math.Floor(z))
	fx, fz := x-float64(ix), z-float64(iz)

	v1 := n.smooth(ix, iz)
	v2 := n.smooth(ix+1, iz)
	v3 := n.smooth(ix, iz+1)
	v4 := n.smooth(ix+1, iz+1)

	i1 := cosineLerp(v1, v2, fx)
	i2 := cosineLerp(v3, v4, fx)
	return cosineLerp(i1, i2, fz)
}

func cosineLerp(a, b, t float64) float64 {
	blend := (1 - math.Cos(t*math.Pi)) * 0.5
	return a*(1-blend) + b*blend
}
