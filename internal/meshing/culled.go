package meshing

import (
	"voxstream/internal/geom"
	"voxstream/internal/world"
)

// culledMesher emits one quad per exposed voxel side. It walks the centre
// octree so that uniform nodes only visit the voxels on their boundary.
type culledMesher struct {
	n    *world.Neighbourhood
	mesh LocalMesh
}

// Culled meshes the centre chunk of n with one quad per solid voxel face
// adjacent to air, including faces on the chunk boundary whose neighbour
// lies in an adjacent chunk.
func Culled(n *world.Neighbourhood, chunkSize int) *LocalMesh {
	m := &culledMesher{n: n}
	m.meshCube(geom.CubeAtZero(chunkSize), n.Chunk())
	return &m.mesh
}

func (m *culledMesher) meshCube(cube geom.BinaryCube, svo *world.SparseOctree) {
	if material, ok := svo.Uniform(); ok {
		if material.IsAir() {
			return
		}
		for normal, d := range geom.Directions {
			for _, p := range cube.SideVoxels(d) {
				m.meshSide(p, normal, material)
			}
		}
		return
	}
	children := svo.Children()
	for i, child := range cube.Subdivide() {
		m.meshCube(child, children[i])
	}
}

func (m *culledMesher) meshSide(position geom.Vec3i, normalIndex int, material world.Material) {
	normal := geom.Directions[normalIndex]
	if m.n.IsSolid(position.Add(normal)) {
		return
	}
	rot1 := normal.ZXY().Abs()
	rot2 := normal.YZX().Abs()
	base := position
	if normal.Sum() > 0 {
		base = position.Add(normal)
	}
	if rot1.Cross(rot2) != normal {
		rot1, rot2 = rot2, rot1
	}

	baseIndex := uint32(len(m.mesh.Vertices))
	v1 := makeVertex(m.n, base, normal)
	v2 := makeVertex(m.n, base.Add(rot1), normal)
	v3 := makeVertex(m.n, base.Add(rot2), normal)
	v4 := makeVertex(m.n, base.Add(rot1).Add(rot2), normal)
	i1, i2, i3, i4 := baseIndex, baseIndex+1, baseIndex+2, baseIndex+3
	// Pick the split diagonal from the corner occlusion sums.
	indices := [4]uint32{i1, i2, i3, i4}
	if int(v1.AO)+int(v4.AO) < int(v2.AO)+int(v3.AO) {
		indices = [4]uint32{i2, i4, i1, i3}
	}
	m.mesh.Vertices = append(m.mesh.Vertices, v1, v2, v3, v4)
	m.mesh.Faces = append(m.mesh.Faces, LocalFace{
		Indices:  indices,
		Normal:   uint8(normalIndex),
		Material: material,
	})
}
