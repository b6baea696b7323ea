package meshlet

import (
	"fmt"

	"voxstream/internal/world"
)

// Record sizes in bytes as laid out in GPU memory.
const (
	VertexSize   = 4
	TriangleSize = 4
	MeshletSize  = 32
)

// Vertex is a meshlet vertex: chunk-local position and, in the low two
// bits of Data, the ambient occlusion level.
type Vertex struct {
	Position [3]uint8
	Data     uint8
}

// NewVertex packs a vertex. It panics if ao does not fit in two bits.
func NewVertex(position [3]uint8, ao uint8) Vertex {
	if ao >= 4 {
		panic(fmt.Sprintf("meshlet: ambient occlusion %d out of range", ao))
	}
	return Vertex{Position: position, Data: ao}
}

// AO returns the ambient occlusion level.
func (v Vertex) AO() uint8 {
	return v.Data & 0b11
}

// Triangle holds three meshlet-local vertex indices. Data packs the normal
// index in the low three bits and the material above it.
type Triangle struct {
	Indices [3]uint8
	Data    uint8
}

// NewTriangle packs a triangle. It panics if normal is not a direction
// index or the material does not fit in five bits.
func NewTriangle(indices [3]uint8, normal uint8, material world.Material) Triangle {
	if normal >= 6 {
		panic(fmt.Sprintf("meshlet: normal index %d out of range", normal))
	}
	if material >= 1<<5 {
		panic(fmt.Sprintf("meshlet: material %d out of range", material))
	}
	return Triangle{Indices: indices, Data: normal | uint8(material)<<3}
}

// Normal returns the index into geom.Directions.
func (t Triangle) Normal() uint8 {
	return t.Data & 0b111
}

// Material returns the face material.
func (t Triangle) Material() world.Material {
	return world.Material(t.Data >> 3)
}

// Meshlet describes a cluster of at most MaxVertices vertices and
// MaxTriangles triangles. Offsets index the vertex and triangle records of
// the owning Mesh until upload, and the global buffers afterwards. The
// layout matches the GPU record, padding included, so the struct can be
// written with encoding/binary.
type Meshlet struct {
	VertexOffset   uint32
	VertexCount    uint32
	TriangleOffset uint32
	TriangleCount  uint32
	Chunk          [3]int16
	_              int16
	BoundBase      [3]uint8
	BoundSize      [3]uint8
	_              [2]uint8
}
