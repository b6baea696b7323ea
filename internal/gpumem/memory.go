// Package gpumem holds the vertex, triangle and meshlet record buffers that
// a renderer draws from, and the counters that publish how much of them is
// valid.
package gpumem

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"voxstream/internal/config"
	"voxstream/internal/meshlet"
)

// ErrOutOfMemory is returned by Upload when a mesh does not fit in the
// remaining buffer space. Nothing is written in that case.
var ErrOutOfMemory = errors.New("gpu memory exhausted")

// Memory stands in for persistently mapped GPU buffers. A single writer
// appends meshes with Upload; any number of readers observe the published
// counters and read records below them. Counters are stored after the
// records they cover, so a reader that loads a counter sees complete
// records.
type Memory struct {
	limits config.BufferLimits

	mu        sync.RWMutex // Guards the record slices
	vertices  []meshlet.Vertex
	triangles []meshlet.Triangle
	meshlets  []meshlet.Meshlet

	vertexCount   atomic.Uint32
	triangleCount atomic.Uint32
	meshletCount  atomic.Uint32
}

// New returns empty buffers with the given record capacities.
func New(limits config.BufferLimits) *Memory {
	return &Memory{limits: limits}
}

// Limits returns the record capacities.
func (m *Memory) Limits() config.BufferLimits {
	return m.limits
}

// Upload appends mesh to the buffers, rebasing its meshlet offsets onto the
// global vertex and triangle positions, then publishes the new counts.
func (m *Memory) Upload(mesh *meshlet.Mesh) error {
	if mesh.IsEmpty() {
		return nil
	}
	m.mu.Lock()
	vertexBase := uint32(len(m.vertices))
	triangleBase := uint32(len(m.triangles))
	switch {
	case len(m.vertices)+len(mesh.Vertices) > m.limits.Vertices:
		m.mu.Unlock()
		return fmt.Errorf("%w: %d+%d vertices exceed %d", ErrOutOfMemory, len(m.vertices), len(mesh.Vertices), m.limits.Vertices)
	case len(m.triangles)+len(mesh.Triangles) > m.limits.Triangles:
		m.mu.Unlock()
		return fmt.Errorf("%w: %d+%d triangles exceed %d", ErrOutOfMemory, len(m.triangles), len(mesh.Triangles), m.limits.Triangles)
	case len(m.meshlets)+len(mesh.Meshlets) > m.limits.Meshlets:
		m.mu.Unlock()
		return fmt.Errorf("%w: %d+%d meshlets exceed %d", ErrOutOfMemory, len(m.meshlets), len(mesh.Meshlets), m.limits.Meshlets)
	}
	m.vertices = append(m.vertices, mesh.Vertices...)
	m.triangles = append(m.triangles, mesh.Triangles...)
	for _, ml := range mesh.Meshlets {
		ml.VertexOffset += vertexBase
		ml.TriangleOffset += triangleBase
		m.meshlets = append(m.meshlets, ml)
	}
	vertices, triangles, meshlets := len(m.vertices), len(m.triangles), len(m.meshlets)
	m.mu.Unlock()

	m.vertexCount.Store(uint32(vertices))
	m.triangleCount.Store(uint32(triangles))
	m.meshletCount.Store(uint32(meshlets))
	return nil
}

// Clear forgets every uploaded mesh. Readers see zero meshlets from the
// moment Clear returns.
func (m *Memory) Clear() {
	m.meshletCount.Store(0)
	m.triangleCount.Store(0)
	m.vertexCount.Store(0)
	m.mu.Lock()
	m.vertices = m.vertices[:0]
	m.triangles = m.triangles[:0]
	m.meshlets = m.meshlets[:0]
	m.mu.Unlock()
}

// MeshletCount returns the number of meshlets a renderer may draw.
func (m *Memory) MeshletCount() uint32 {
	return m.meshletCount.Load()
}

// VertexCount returns the number of published vertex records.
func (m *Memory) VertexCount() uint32 {
	return m.vertexCount.Load()
}

// TriangleCount returns the number of published triangle records.
func (m *Memory) TriangleCount() uint32 {
	return m.triangleCount.Load()
}

// Meshlets returns a copy of the published meshlet records.
func (m *Memory) Meshlets() []meshlet.Meshlet {
	n := m.MeshletCount()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]meshlet.Meshlet(nil), m.meshlets[:min(int(n), len(m.meshlets))]...)
}

// Vertices returns a copy of the published vertex records.
func (m *Memory) Vertices() []meshlet.Vertex {
	n := m.VertexCount()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]meshlet.Vertex(nil), m.vertices[:min(int(n), len(m.vertices))]...)
}

// Triangles returns a copy of the published triangle records.
func (m *Memory) Triangles() []meshlet.Triangle {
	n := m.TriangleCount()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]meshlet.Triangle(nil), m.triangles[:min(int(n), len(m.triangles))]...)
}
