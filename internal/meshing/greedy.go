package meshing

import (
	"voxstream/internal/geom"
	"voxstream/internal/world"
)

type wallNormal uint8

const (
	alongSliceNormal wallNormal = iota
	alongMinusSliceNormal
)

// wall describes the face between a slice voxel and the voxel one step
// against the slice normal.
type wall struct {
	normal   wallNormal
	material world.Material
}

// greedyMesher merges coplanar faces of equal orientation and material into
// maximal rectangles, one axis-aligned slice at a time.
type greedyMesher struct {
	n    *world.Neighbourhood
	size int

	right, down, normal     geom.Vec3i
	normalIndex, minusIndex int
	offset                  int
	used                    []bool

	mesh LocalMesh
}

// Greedy meshes the centre chunk of n, merging adjacent faces that share a
// plane, a direction and a material into larger rectangles. It covers the
// same surface as Culled with fewer quads.
func Greedy(n *world.Neighbourhood, chunkSize int) *LocalMesh {
	m := &greedyMesher{
		n:    n,
		size: chunkSize,
		used: make([]bool, chunkSize*chunkSize),
	}
	dx, dy, dz := geom.V(1, 0, 0), geom.V(0, 1, 0), geom.V(0, 0, 1)
	m.meshOrientation(dx, dy, dz, 4, 5)
	m.meshOrientation(dx, dz, dy, 2, 3)
	m.meshOrientation(dy, dz, dx, 0, 1)
	return &m.mesh
}

func (m *greedyMesher) meshOrientation(right, down, normal geom.Vec3i, normalIndex, minusIndex int) {
	if geom.Directions[normalIndex] != normal || geom.Directions[minusIndex] != normal.Neg() {
		panic("meshing: slice orientation does not match direction table")
	}
	m.right, m.down, m.normal = right, down, normal
	m.normalIndex, m.minusIndex = normalIndex, minusIndex
	// Offsets run to size inclusive so walls on both chunk boundaries are
	// considered; wall() decides which chunk owns them.
	for offset := 0; offset <= m.size; offset++ {
		m.offset = offset
		clear(m.used)
		m.meshSlice()
	}
}

func (m *greedyMesher) meshSlice() {
	for y1 := 0; y1 < m.size; y1++ {
		for x1 := 0; x1 < m.size; x1++ {
			w, ok := m.wall(x1, y1)
			if !ok {
				continue
			}
			x2 := x1 + 1
			for m.sameWall(x2, y1, w) {
				x2++
			}
			y2 := y1 + 1
			for m.rowMatches(x1, x2, y2, w) {
				y2++
			}
			for y := y1; y < y2; y++ {
				for x := x1; x < x2; x++ {
					m.used[y*m.size+x] = true
				}
			}
			m.emit(x1, y1, x2, y2, w)
		}
	}
}

func (m *greedyMesher) emit(x1, y1, x2, y2 int, w wall) {
	normal, normalIndex := m.normal, m.normalIndex
	if w.normal == alongMinusSliceNormal {
		normal, normalIndex = m.normal.Neg(), m.minusIndex
	}
	topLeft := makeVertex(m.n, m.to3D(x1, y1), normal)
	topRight := makeVertex(m.n, m.to3D(x2, y1), normal)
	bottomLeft := makeVertex(m.n, m.to3D(x1, y2), normal)
	bottomRight := makeVertex(m.n, m.to3D(x2, y2), normal)

	base := uint32(len(m.mesh.Vertices))
	io2, io3 := uint32(1), uint32(2)
	if m.right.Cross(m.down) != normal {
		io2, io3 = 2, 1
	}
	m.mesh.Vertices = append(m.mesh.Vertices, topLeft, topRight, bottomLeft, bottomRight)
	m.mesh.Faces = append(m.mesh.Faces, LocalFace{
		Indices:  [4]uint32{base, base + io2, base + io3, base + 3},
		Normal:   uint8(normalIndex),
		Material: w.material,
	})
}

func (m *greedyMesher) sameWall(x, y int, w wall) bool {
	other, ok := m.wall(x, y)
	return ok && other == w
}

func (m *greedyMesher) rowMatches(x1, x2, y int, w wall) bool {
	for x := x1; x < x2; x++ {
		if !m.sameWall(x, y, w) {
			return false
		}
	}
	return true
}

// wall reports whether a face separates the slice voxel at (x, y) from the
// voxel one step against the slice normal, which way it faces, and its
// material. Faces on the chunk boundary are produced only by the chunk that
// owns the solid voxel.
func (m *greedyMesher) wall(x, y int) (wall, bool) {
	if x >= m.size || y >= m.size || m.used[y*m.size+x] {
		return wall{}, false
	}
	voxel := m.to3D(x, y)
	neighbour := voxel.Sub(m.normal)
	voxelKind := m.n.At(voxel)
	neighbourKind := m.n.At(neighbour)
	voxelOutside := m.offset == m.size
	neighbourOutside := m.offset == 0
	switch {
	case !voxelKind.IsAir() && neighbourKind.IsAir() && !voxelOutside:
		return wall{normal: alongMinusSliceNormal, material: voxelKind}, true
	case voxelKind.IsAir() && !neighbourKind.IsAir() && !neighbourOutside:
		return wall{normal: alongSliceNormal, material: neighbourKind}, true
	default:
		return wall{}, false
	}
}

func (m *greedyMesher) to3D(x, y int) geom.Vec3i {
	return m.normal.Mul(m.offset).Add(m.down.Mul(y)).Add(m.right.Mul(x))
}
