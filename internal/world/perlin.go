package world

import (
	"math"
	"math/rand"
)

// 2D gradients, indexed by the low four bits of a permutation hash.
var (
	gradX = [16]float64{1, -1, 1, -1, 1, -1, 1, -1, 0, 0, 0, 0, 1, 0, -1, 0}
	gradY = [16]float64{0, 0, 0, 0, 1, 1, -1, -1, 1, 1, -1, -1, 0, 1, 0, -1}
)

// perlinOctave is a single improved-Perlin layer with its own shuffled
// permutation table and random lattice offset.
type perlinOctave struct {
	permutations [512]int
	xCoord       float64
	yCoord       float64
}

func newPerlinOctave(rnd *rand.Rand) *perlinOctave {
	p := &perlinOctave{
		xCoord: rnd.Float64() * 256.0,
		yCoord: rnd.Float64() * 256.0,
	}
	for i := 0; i < 256; i++ {
		p.permutations[i] = i
	}
	for i := 0; i < 256; i++ {
		j := rnd.Intn(256-i) + i
		p.permutations[i], p.permutations[j] = p.permutations[j], p.permutations[i]
		p.permutations[i+256] = p.permutations[i]
	}
	return p
}

func grad2(hash int, x, y float64) float64 {
	i := hash & 15
	return gradX[i]*x + gradY[i]*y
}

// floorToInt floors d then truncates, so negative inputs land on the lower cell.
func floorToInt(d float64) int {
	i := int(d)
	if d < float64(i) {
		i--
	}
	return i
}

func (p *perlinOctave) eval(x, y float64) float64 {
	x += p.xCoord
	y += p.yCoord

	fx := floorToInt(x)
	fy := floorToInt(y)
	permX := fx & 255
	permY := fy & 255
	x -= float64(fx)
	y -= float64(fy)
	u := fade(x)
	v := fade(y)

	a := p.permutations[permX] + permY
	b := p.permutations[permX+1] + permY

	d0 := lerp(grad2(p.permutations[a], x, y), grad2(p.permutations[b], x-1, y), u)
	d1 := lerp(grad2(p.permutations[a+1], x, y-1), grad2(p.permutations[b+1], x-1, y-1), u)
	return lerp(d0, d1, v)
}

// PerlinNoise sums improved-Perlin octaves, halving the amplitude and
// doubling the frequency at each layer.
type PerlinNoise struct {
	octaves []*perlinOctave
}

// NewPerlinNoise returns four-octave Perlin noise. Every octave draws its
// permutation table from the same seeded source, so equal seeds give equal
// terrain.
func NewPerlinNoise(seed int64) *PerlinNoise {
	rnd := rand.New(rand.NewSource(seed))
	n := &PerlinNoise{octaves: make([]*perlinOctave, 4)}
	for i := range n.octaves {
		n.octaves[i] = newPerlinOctave(rnd)
	}
	return n
}

// Eval2 implements Noise2D.
func (n *PerlinNoise) Eval2(x, y float32) float32 {
	sum, norm := 0.0, 0.0
	amplitude, frequency := 1.0, 1.0
	for _, o := range n.octaves {
		// Wrap large coordinates so the fractional part keeps its precision.
		px := math.Mod(float64(x)*frequency, 16777216)
		py := math.Mod(float64(y)*frequency, 16777216)
		sum += o.eval(px, py) * amplitude
		norm += amplitude
		amplitude /= 2
		frequency *= 2
	}
	return float32(sum / norm)
}
