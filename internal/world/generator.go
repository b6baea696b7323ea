package world

import (
	"fmt"
	"math/bits"

	"github.com/chewxy/math32"

	"voxstream/internal/config"
	"voxstream/internal/geom"
)

// ColumnCoord identifies a vertical stack of chunks. Heightmaps are shared by
// every chunk in a column.
type ColumnCoord struct {
	X, Y int
}

// ColumnOf returns the column containing chunk.
func ColumnOf(chunk geom.Vec3i) ColumnCoord {
	return ColumnCoord{X: chunk.X, Y: chunk.Y}
}

// Heightmap holds the terrain surface height (in voxels, along z) for every
// (x, y) column of a chunk footprint.
type Heightmap struct {
	size    int
	heights []int
}

// NewHeightmap returns a flat heightmap of the given edge length.
func NewHeightmap(size int, height int) *Heightmap {
	h := &Heightmap{size: size, heights: make([]int, size*size)}
	for i := range h.heights {
		h.heights[i] = height
	}
	return h
}

// Size returns the edge length of the heightmap.
func (h *Heightmap) Size() int {
	return h.size
}

// At returns the height at local column (x, y).
func (h *Heightmap) At(x, y int) int {
	return h.heights[y*h.size+x]
}

// Set overwrites the height at local column (x, y). Heightmaps are only
// written while being built.
func (h *Heightmap) Set(x, y, height int) {
	h.heights[y*h.size+x] = height
}

// GenerateHeightmap samples noise over the footprint of column.
func GenerateHeightmap(column ColumnCoord, noise Noise2D, cfg config.Voxels) *Heightmap {
	size := cfg.ChunkSize
	h := &Heightmap{size: size, heights: make([]int, size*size)}
	baseX := column.X * size
	baseY := column.Y * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			nx := float32(baseX+x) * cfg.HeightmapFrequency
			ny := float32(baseY+y) * cfg.HeightmapFrequency
			raw := noise.Eval2(nx, ny)
			scaled := (raw + cfg.HeightmapBias) * cfg.HeightmapAmplitude
			h.heights[y*size+x] = int(math32.Round(scaled))
		}
	}
	return h
}

// GenerateChunkSVO builds the octree of chunk from its column heightmap.
func GenerateChunkSVO(chunk geom.Vec3i, heightmap *Heightmap, chunkSize int) *SparseOctree {
	if chunkSize <= 0 || bits.OnesCount(uint(chunkSize)) != 1 {
		panic(fmt.Sprintf("world: chunk size %d is not a power of two", chunkSize))
	}
	if chunkSize > config.MaxChunkSize {
		panic(fmt.Sprintf("world: chunk size %d too deep for byte vertex coordinates", chunkSize))
	}
	if heightmap.size != chunkSize {
		panic(fmt.Sprintf("world: heightmap size %d does not match chunk size %d", heightmap.size, chunkSize))
	}
	return buildSVO(0, 0, chunk.Z*chunkSize, chunkSize, heightmap)
}

func buildSVO(x, y, z, n int, heightmap *Heightmap) *SparseOctree {
	if m, ok := uniformMaterial(x, y, z, n, heightmap); ok {
		return Uniform(m)
	}
	half := n / 2
	var children [8]*SparseOctree
	for i := range children {
		dx, dy, dz := i&1, (i>>1)&1, (i>>2)&1
		children[i] = buildSVO(x+dx*half, y+dy*half, z+dz*half, half, heightmap)
	}
	return Mixed(children)
}

// uniformMaterial reports whether the n-cube at (x, y, z) is one material.
// Banding is monotonic in z, so checking the bottom and top layer of every
// column is enough.
func uniformMaterial(x, y, z, n int, heightmap *Heightmap) (Material, bool) {
	m := MaterialFromHeight(heightmap.At(x, y), z)
	for ly := y; ly < y+n; ly++ {
		for lx := x; lx < x+n; lx++ {
			h := heightmap.At(lx, ly)
			if MaterialFromHeight(h, z) != m || MaterialFromHeight(h, z+n-1) != m {
				return MaterialAir, false
			}
		}
	}
	return m, true
}

// MaterialFromHeight returns the material at altitude z in a column whose
// surface height is height.
func MaterialFromHeight(height, z int) Material {
	switch {
	case height <= z:
		return MaterialAir
	case height <= z+1:
		return MaterialGrass
	case height <= z+5:
		return MaterialDirt
	default:
		return MaterialStone
	}
}
