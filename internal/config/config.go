package config

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalid is returned (wrapped) by Validate for unusable configurations.
var ErrInvalid = errors.New("invalid voxel config")

// MaxChunkSize bounds the chunk edge so chunk-relative vertex positions,
// which range over [0, chunkSize], fit in a byte.
const MaxChunkSize = 128

// NoiseImplementation selects the coherent noise used for heightmaps.
type NoiseImplementation string

const (
	NoiseSimplex NoiseImplementation = "simplex"
	NoiseValue   NoiseImplementation = "value"
	NoisePerlin  NoiseImplementation = "perlin"
)

// MeshingAlgorithm selects how chunk surfaces are triangulated.
type MeshingAlgorithm string

const (
	MeshingCulled MeshingAlgorithm = "culled"
	MeshingGreedy MeshingAlgorithm = "greedy"
)

// BufferLimits are the record capacities of the GPU-mapped buffers.
type BufferLimits struct {
	Vertices  int `yaml:"vertices"`
	Triangles int `yaml:"triangles"`
	Meshlets  int `yaml:"meshlets"`
}

// Voxels holds the voxel world configuration. Distances are in voxels.
type Voxels struct {
	Seed                     int64               `yaml:"seed"`
	ChunkSize                int                 `yaml:"chunk_size"`
	HeightmapAmplitude       float32             `yaml:"heightmap_amplitude"`
	HeightmapFrequency       float32             `yaml:"heightmap_frequency"`
	HeightmapBias            float32             `yaml:"heightmap_bias"`
	NoiseImplementation      NoiseImplementation `yaml:"noise_implementation"`
	RenderDistanceHorizontal int                 `yaml:"render_distance_horizontal"`
	RenderDistanceVertical   int                 `yaml:"render_distance_vertical"`
	MeshingAlgorithm         MeshingAlgorithm    `yaml:"meshing_algorithm"`
	Buffers                  BufferLimits        `yaml:"buffers"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Voxels {
	return Voxels{
		Seed:                     0,
		ChunkSize:                32,
		HeightmapAmplitude:       48,
		HeightmapFrequency:       0.01,
		HeightmapBias:            0,
		NoiseImplementation:      NoiseSimplex,
		RenderDistanceHorizontal: 256,
		RenderDistanceVertical:   64,
		MeshingAlgorithm:         MeshingGreedy,
		Buffers: BufferLimits{
			Vertices:  1 << 22,
			Triangles: 1 << 22,
			Meshlets:  1 << 16,
		},
	}
}

// Validate checks the invariants the generator and mesher rely on.
func (v Voxels) Validate() error {
	if v.ChunkSize <= 0 || bits.OnesCount(uint(v.ChunkSize)) != 1 {
		return fmt.Errorf("%w: chunk_size %d is not a power of two", ErrInvalid, v.ChunkSize)
	}
	if v.ChunkSize > MaxChunkSize {
		return fmt.Errorf("%w: chunk_size %d exceeds %d", ErrInvalid, v.ChunkSize, MaxChunkSize)
	}
	if v.RenderDistanceHorizontal < 0 || v.RenderDistanceVertical < 0 {
		return fmt.Errorf("%w: negative render distance", ErrInvalid)
	}
	switch v.NoiseImplementation {
	case NoiseSimplex, NoiseValue, NoisePerlin:
	default:
		return fmt.Errorf("%w: unknown noise_implementation %q", ErrInvalid, v.NoiseImplementation)
	}
	switch v.MeshingAlgorithm {
	case MeshingCulled, MeshingGreedy:
	default:
		return fmt.Errorf("%w: unknown meshing_algorithm %q", ErrInvalid, v.MeshingAlgorithm)
	}
	if v.Buffers.Vertices <= 0 || v.Buffers.Triangles <= 0 || v.Buffers.Meshlets <= 0 {
		return fmt.Errorf("%w: buffer limits must be positive", ErrInvalid)
	}
	return nil
}

// RenderDistanceChunks converts the voxel render distances into chunk
// counts, rounding up.
func (v Voxels) RenderDistanceChunks() (horizontal, vertical int) {
	return divCeil(v.RenderDistanceHorizontal, v.ChunkSize), divCeil(v.RenderDistanceVertical, v.ChunkSize)
}

func divCeil(a, b int) int {
	return (a + b - 1) / b
}
