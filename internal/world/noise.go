package world

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"

	"voxstream/internal/config"
)

// Noise2D is a coherent 2D noise function returning values in about [-1, 1].
type Noise2D interface {
	Eval2(x, y float32) float32
}

// NewNoise returns the heightmap noise selected by impl.
func NewNoise(impl config.NoiseImplementation, seed int64) Noise2D {
	switch impl {
	case config.NoiseSimplex:
		return opensimplex.New32(seed)
	case config.NoiseValue:
		return NewValueNoise(seed)
	case config.NoisePerlin:
		return NewPerlinNoise(seed)
	default:
		panic(fmt.Sprintf("world: unknown noise implementation %q", impl))
	}
}

// ValueNoise is lattice value noise: every integer grid point gets a hashed
// value in [-1, 1] and points in between are blended with a quintic fade.
// Octaves halve in amplitude and double in frequency.
type ValueNoise struct {
	octaveSeeds [4]uint64
}

// NewValueNoise returns four-octave value noise for the given seed.
func NewValueNoise(seed int64) *ValueNoise {
	n := &ValueNoise{}
	for i := range n.octaveSeeds {
		n.octaveSeeds[i] = mix64(uint64(seed) + uint64(i)*0x9E3779B97F4A7C15)
	}
	return n
}

// Eval2 implements Noise2D.
func (n *ValueNoise) Eval2(x, y float32) float32 {
	sum, norm := 0.0, 0.0
	amplitude, frequency := 1.0, 1.0
	for _, seed := range n.octaveSeeds {
		sum += valueAt(seed, float64(x)*frequency, float64(y)*frequency) * amplitude
		norm += amplitude
		amplitude /= 2
		frequency *= 2
	}
	return float32(sum / norm)
}

// valueAt blends the four lattice values around (x, y).
func valueAt(seed uint64, x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	u, v := fade(x-x0), fade(y-y0)
	ix, iy := int64(x0), int64(y0)

	bottom := lerp(latticeValue(seed, ix, iy), latticeValue(seed, ix+1, iy), u)
	top := lerp(latticeValue(seed, ix, iy+1), latticeValue(seed, ix+1, iy+1), u)
	return lerp(bottom, top, v)
}

// latticeValue maps a grid point to [-1, 1].
func latticeValue(seed uint64, x, y int64) float64 {
	h := mix64(seed ^ mix64(uint64(x)^mix64(uint64(y))))
	return float64(h>>11)/float64(1<<52) - 1
}

// mix64 is the SplitMix64 finalizer.
func mix64(v uint64) uint64 {
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// fade is the quintic 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
