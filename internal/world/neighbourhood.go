package world

import (
	"strconv"

	"voxstream/internal/geom"
)

// Neighbourhood is a read-only view of a chunk's octree together with the
// octrees of the 26 chunks around it. Positions passed to At may lie up to
// one chunk outside [0, chunkSize) on each axis; they are resolved in the
// adjacent chunk.
type Neighbourhood struct {
	svos      [27]*SparseOctree
	chunkSize int
}

// NewNeighbourhood builds a view from octrees ordered by offset
// (dx, dy, dz) in -1..1 at index 9*(dz+1) + 3*(dy+1) + (dx+1).
func NewNeighbourhood(svos [27]*SparseOctree, chunkSize int) *Neighbourhood {
	for i, s := range svos {
		if s == nil {
			panic("world: neighbourhood missing octree at index " + strconv.Itoa(i))
		}
	}
	return &Neighbourhood{svos: svos, chunkSize: chunkSize}
}

// NewManhattanNeighbourhood builds a view from the centre chunk and its six
// face neighbours, ordered like geom.Directions. Edge and corner neighbours
// are treated as air.
func NewManhattanNeighbourhood(center *SparseOctree, neighbours [6]*SparseOctree, chunkSize int) *Neighbourhood {
	air := Uniform(MaterialAir)
	var svos [27]*SparseOctree
	for i := range svos {
		svos[i] = air
	}
	svos[neighbourIndex(geom.Vec3i{})] = center
	for i, d := range geom.Directions {
		svos[neighbourIndex(d)] = neighbours[i]
	}
	return NewNeighbourhood(svos, chunkSize)
}

// ChunkSize returns the edge length of each chunk in the view.
func (n *Neighbourhood) ChunkSize() int {
	return n.chunkSize
}

// At returns the material at p relative to the centre chunk's origin.
func (n *Neighbourhood) At(p geom.Vec3i) Material {
	var chunk geom.Vec3i
	p.X, chunk.X = wrap(p.X, n.chunkSize)
	p.Y, chunk.Y = wrap(p.Y, n.chunkSize)
	p.Z, chunk.Z = wrap(p.Z, n.chunkSize)
	return n.ChunkAt(chunk).At(p, n.chunkSize)
}

// IsSolid reports whether the voxel at p is not air.
func (n *Neighbourhood) IsSolid(p geom.Vec3i) bool {
	return !n.At(p).IsAir()
}

// Chunk returns the centre octree.
func (n *Neighbourhood) Chunk() *SparseOctree {
	return n.ChunkAt(geom.Vec3i{})
}

// ChunkAt returns the octree at the given offset, each component in -1..1.
func (n *Neighbourhood) ChunkAt(offset geom.Vec3i) *SparseOctree {
	return n.svos[neighbourIndex(offset)]
}

// ManhattanNeighbours returns the six face neighbours in geom.Directions order.
func (n *Neighbourhood) ManhattanNeighbours() [6]*SparseOctree {
	var out [6]*SparseOctree
	for i, d := range geom.Directions {
		out[i] = n.ChunkAt(d)
	}
	return out
}

// NeighbourOffsets lists the 27 offsets in the index order NewNeighbourhood
// expects.
func NeighbourOffsets() [27]geom.Vec3i {
	var out [27]geom.Vec3i
	i := 0
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				out[i] = geom.V(dx, dy, dz)
				i++
			}
		}
	}
	return out
}

func neighbourIndex(offset geom.Vec3i) int {
	return 9*(offset.Z+1) + 3*(offset.Y+1) + (offset.X + 1)
}

func wrap(c, size int) (local, chunk int) {
	switch {
	case c < 0:
		return c + size, -1
	case c >= size:
		return c - size, 1
	default:
		return c, 0
	}
}
