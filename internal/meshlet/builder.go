// Package meshlet clusters chunk meshes into small fixed-capacity groups of
// vertices and triangles addressed with 8-bit local indices.
package meshlet

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxstream/internal/geom"
	"voxstream/internal/meshing"
)

// Cluster limits. Local vertex indices must fit in a byte.
const (
	MaxVertices  = 128
	MaxTriangles = 256
)

// Mesh is the clustered, GPU-ready form of one chunk.
type Mesh struct {
	Meshlets  []Meshlet
	Vertices  []Vertex
	Triangles []Triangle
	Chunk     geom.Vec3i
}

// IsEmpty reports whether the mesh has no meshlets.
func (m *Mesh) IsEmpty() bool {
	return len(m.Meshlets) == 0
}

type sourceTriangle struct {
	vertices [3]uint32
	face     int
	centroid mgl32.Vec3
}

// Build splits the quads of mesh into meshlets and stamps them with chunk.
func Build(mesh *meshing.LocalMesh, chunk geom.Vec3i) *Mesh {
	out := &Mesh{Chunk: chunk}
	if mesh.IsEmpty() {
		return out
	}
	chunk16 := chunkCoords(chunk)

	b := newBuilder(mesh)
	for {
		c, ok := b.next()
		if !ok {
			break
		}
		out.Meshlets = append(out.Meshlets, b.emit(c, out, chunk16))
	}
	return out
}

func chunkCoords(chunk geom.Vec3i) [3]int16 {
	var out [3]int16
	for i, c := range [3]int{chunk.X, chunk.Y, chunk.Z} {
		if c < math.MinInt16 || c > math.MaxInt16 {
			panic(fmt.Sprintf("meshlet: chunk %v out of int16 range", chunk))
		}
		out[i] = int16(c)
	}
	return out
}

// builder grows clusters through shared vertices. Among the unassigned
// triangles touching the cluster it takes the one adding the fewest new
// vertices, breaking ties by distance from the cluster centroid. When no
// touching triangle fits, it continues from the next unassigned triangle in
// mesh order so that disjoint patches can share a meshlet.
type builder struct {
	mesh      *meshing.LocalMesh
	triangles []sourceTriangle
	adjacency [][]int // Vertex to triangles using it
	assigned  []bool
	scan      int
}

type cluster struct {
	local     map[uint32]uint8
	vertices  []uint32
	triangles []int
	sum       mgl32.Vec3
}

func newBuilder(mesh *meshing.LocalMesh) *builder {
	b := &builder{
		mesh:      mesh,
		triangles: make([]sourceTriangle, 0, mesh.TriangleCount()),
		adjacency: make([][]int, len(mesh.Vertices)),
	}
	for face := range mesh.Faces {
		for _, tri := range mesh.Triangles(face) {
			index := len(b.triangles)
			var centroid mgl32.Vec3
			for _, v := range tri {
				p := mesh.Vertices[v].Position
				centroid = centroid.Add(mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])})
				b.adjacency[v] = append(b.adjacency[v], index)
			}
			b.triangles = append(b.triangles, sourceTriangle{
				vertices: tri,
				face:     face,
				centroid: centroid.Mul(1.0 / 3),
			})
		}
	}
	b.assigned = make([]bool, len(b.triangles))
	return b
}

func (b *builder) newVertices(c *cluster, t int) int {
	n := 0
	for _, v := range b.triangles[t].vertices {
		if _, ok := c.local[v]; !ok {
			n++
		}
	}
	return n
}

func (b *builder) fits(c *cluster, t int) bool {
	return len(c.triangles) < MaxTriangles && len(c.vertices)+b.newVertices(c, t) <= MaxVertices
}

func (b *builder) add(c *cluster, t int) {
	b.assigned[t] = true
	c.triangles = append(c.triangles, t)
	c.sum = c.sum.Add(b.triangles[t].centroid)
	for _, v := range b.triangles[t].vertices {
		if _, ok := c.local[v]; !ok {
			c.local[v] = uint8(len(c.vertices))
			c.vertices = append(c.vertices, v)
		}
	}
}

// nextSeed returns the first unassigned triangle at or after the scan
// position.
func (b *builder) nextSeed() (int, bool) {
	for b.scan < len(b.triangles) && b.assigned[b.scan] {
		b.scan++
	}
	return b.scan, b.scan < len(b.triangles)
}

func (b *builder) next() (*cluster, bool) {
	seed, ok := b.nextSeed()
	if !ok {
		return nil, false
	}
	c := &cluster{local: make(map[uint32]uint8, MaxVertices)}
	b.add(c, seed)
	for len(c.triangles) < MaxTriangles {
		if t, ok := b.bestCandidate(c); ok {
			b.add(c, t)
			continue
		}
		t, ok := b.nextSeed()
		if !ok || !b.fits(c, t) {
			break
		}
		b.add(c, t)
	}
	return c, true
}

func (b *builder) bestCandidate(c *cluster) (int, bool) {
	center := c.sum.Mul(1 / float32(len(c.triangles)))
	best, bestNew := -1, math.MaxInt
	bestDist := float32(math.MaxFloat32)
	for _, v := range c.vertices {
		for _, t := range b.adjacency[v] {
			if b.assigned[t] || !b.fits(c, t) {
				continue
			}
			added := b.newVertices(c, t)
			dist := b.triangles[t].centroid.Sub(center).Len()
			if added < bestNew || added == bestNew && dist < bestDist || added == bestNew && dist == bestDist && t < best {
				best, bestNew, bestDist = t, added, dist
			}
		}
	}
	return best, best >= 0
}

func (b *builder) emit(c *cluster, out *Mesh, chunk [3]int16) Meshlet {
	m := Meshlet{
		VertexOffset:   uint32(len(out.Vertices)),
		VertexCount:    uint32(len(c.vertices)),
		TriangleOffset: uint32(len(out.Triangles)),
		TriangleCount:  uint32(len(c.triangles)),
		Chunk:          chunk,
	}
	lo := [3]uint8{math.MaxUint8, math.MaxUint8, math.MaxUint8}
	var hi [3]uint8
	for _, v := range c.vertices {
		src := b.mesh.Vertices[v]
		out.Vertices = append(out.Vertices, NewVertex(src.Position, src.AO))
		for i, p := range src.Position {
			lo[i] = min(lo[i], p)
			hi[i] = max(hi[i], p)
		}
	}
	for _, t := range c.triangles {
		src := b.triangles[t]
		face := b.mesh.Faces[src.face]
		var local [3]uint8
		for i, v := range src.vertices {
			local[i] = c.local[v]
		}
		out.Triangles = append(out.Triangles, NewTriangle(local, face.Normal, face.Material))
	}
	m.BoundBase = lo
	for i := range hi {
		m.BoundSize[i] = hi[i] - lo[i]
	}
	return m
}
