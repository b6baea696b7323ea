package meshing

import (
	"math/rand"

	"voxstream/internal/geom"
	"voxstream/internal/world"
)

// buildOctree collapses a dense voxel function into an octree.
func buildOctree(size int, at func(p geom.Vec3i) world.Material) *world.SparseOctree {
	var build func(cube geom.BinaryCube) *world.SparseOctree
	build = func(cube geom.BinaryCube) *world.SparseOctree {
		if cube.IsSingleVoxel() {
			return world.Uniform(at(cube.Position))
		}
		var children [8]*world.SparseOctree
		for i, c := range cube.Subdivide() {
			children[i] = build(c)
		}
		first, ok := children[0].Uniform()
		for _, c := range children[1:] {
			m, uniform := c.Uniform()
			ok = ok && uniform && m == first
		}
		if ok {
			return world.Uniform(first)
		}
		return world.Mixed(children)
	}
	return build(geom.CubeAtZero(size))
}

// voxelSet returns an octree with the listed voxels set to stone.
func voxelSet(size int, solid ...geom.Vec3i) *world.SparseOctree {
	set := make(map[geom.Vec3i]bool, len(solid))
	for _, p := range solid {
		set[p] = true
	}
	return buildOctree(size, func(p geom.Vec3i) world.Material {
		if set[p] {
			return world.MaterialStone
		}
		return world.MaterialAir
	})
}

func randomOctree(rng *rand.Rand, size int, fill float64) *world.SparseOctree {
	return buildOctree(size, func(geom.Vec3i) world.Material {
		if rng.Float64() >= fill {
			return world.MaterialAir
		}
		return world.Material(1 + rng.Intn(3))
	})
}

func uniformAround(center *world.SparseOctree, m world.Material, size int) *world.Neighbourhood {
	var six [6]*world.SparseOctree
	for i := range six {
		six[i] = world.Uniform(m)
	}
	return world.NewManhattanNeighbourhood(center, six, size)
}

func facesWithNormal(m *LocalMesh, normal int) []LocalFace {
	var out []LocalFace
	for _, f := range m.Faces {
		if int(f.Normal) == normal {
			out = append(out, f)
		}
	}
	return out
}
