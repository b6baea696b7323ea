package world

import (
	"fmt"

	"voxstream/internal/geom"
)

// SparseOctree is a recursive voxel volume. A node is either uniform (one
// material fills the whole volume) or mixed, in which case it owns exactly
// eight children covering its octants. Octant i covers
// x >= half if i&1, y >= half if i&2, z >= half if i&4.
//
// Octrees are never modified after construction, so a single tree may be
// shared between goroutines and neighbourhood views without copying.
type SparseOctree struct {
	material Material
	children *[8]*SparseOctree
}

// Uniform returns a leaf filled with m.
func Uniform(m Material) *SparseOctree {
	return &SparseOctree{material: m}
}

// Mixed returns a node with the given octants. All eight must be non-nil.
func Mixed(children [8]*SparseOctree) *SparseOctree {
	for i, c := range children {
		if c == nil {
			panic(fmt.Sprintf("world: mixed octree node missing child %d", i))
		}
	}
	return &SparseOctree{children: &children}
}

// Uniform returns the material of a uniform node and true, or false for a
// mixed node.
func (o *SparseOctree) Uniform() (Material, bool) {
	if o.children != nil {
		return MaterialAir, false
	}
	return o.material, true
}

// Children returns the octants of a mixed node, or nil for a uniform one.
func (o *SparseOctree) Children() *[8]*SparseOctree {
	return o.children
}

// At returns the material at p, given in coordinates local to this node's
// volume of edge localSize. Callers guarantee 0 <= p < localSize on each axis.
func (o *SparseOctree) At(p geom.Vec3i, localSize int) Material {
	for o.children != nil {
		half := localSize / 2
		index := 0
		if p.Z >= half {
			index += 4
		}
		if p.Y >= half {
			index += 2
		}
		if p.X >= half {
			index++
		}
		p = geom.V(p.X%half, p.Y%half, p.Z%half)
		localSize = half
		o = o.children[index]
	}
	return o.material
}

// NodeCount returns the number of nodes in the tree, including o.
func (o *SparseOctree) NodeCount() int {
	if o.children == nil {
		return 1
	}
	n := 1
	for _, c := range o.children {
		n += c.NodeCount()
	}
	return n
}

// Depth returns the number of mixed levels above the deepest leaf.
func (o *SparseOctree) Depth() int {
	if o.children == nil {
		return 0
	}
	d := 0
	for _, c := range o.children {
		d = max(d, c.Depth())
	}
	return d + 1
}

// IsUniformSolid reports whether o is a single non-air leaf.
func (o *SparseOctree) IsUniformSolid() bool {
	m, ok := o.Uniform()
	return ok && !m.IsAir()
}

// IsUniformAir reports whether o is a single air leaf.
func (o *SparseOctree) IsUniformAir() bool {
	m, ok := o.Uniform()
	return ok && m.IsAir()
}
