package geom

// BinaryCube is a power-of-two sized cube of voxels used to walk an octree
// alongside the positions it covers.
type BinaryCube struct {
	Position Vec3i
	Length   int
}

// CubeAtZero returns the cube of the given edge length rooted at the origin.
func CubeAtZero(length int) BinaryCube {
	return BinaryCube{Length: length}
}

// IsSingleVoxel reports whether the cube covers exactly one voxel.
func (b BinaryCube) IsSingleVoxel() bool {
	return b.Length == 1
}

// Subdivide splits b into its eight octants, ordered by octant index
// z*4 + y*2 + x.
func (b BinaryCube) Subdivide() [8]BinaryCube {
	var out [8]BinaryCube
	half := b.Length / 2
	for i := range out {
		offset := V(i&1, (i>>1)&1, (i>>2)&1).Mul(half)
		out[i] = BinaryCube{Position: b.Position.Add(offset), Length: half}
	}
	return out
}

// SideVoxels returns the voxels on the face of b pointing in direction.
func (b BinaryCube) SideVoxels(direction Vec3i) []Vec3i {
	return Cube(b.Position, b.Length).SideVoxels(direction)
}
