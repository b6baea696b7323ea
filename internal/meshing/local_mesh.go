package meshing

import (
	"voxstream/internal/geom"
	"voxstream/internal/world"
)

// LocalVertex is a quad corner in chunk-local voxel coordinates together
// with its ambient occlusion level (0 = open, 3 = fully occluded).
type LocalVertex struct {
	Position [3]uint8
	AO       uint8
}

// LocalFace is a quad. Its two triangles are (i0, i1, i2) and (i1, i3, i2).
type LocalFace struct {
	Indices  [4]uint32
	Normal   uint8 // Index into geom.Directions
	Material world.Material
}

// LocalMesh is the surface of one chunk before meshlet clustering.
type LocalMesh struct {
	Vertices []LocalVertex
	Faces    []LocalFace
}

// IsEmpty reports whether the mesh has no faces.
func (m *LocalMesh) IsEmpty() bool {
	return len(m.Faces) == 0
}

// TriangleCount returns the number of triangles the faces split into.
func (m *LocalMesh) TriangleCount() int {
	return 2 * len(m.Faces)
}

// Triangles returns the vertex indices of both triangles of face i.
func (m *LocalMesh) Triangles(i int) [2][3]uint32 {
	idx := m.Faces[i].Indices
	return [2][3]uint32{{idx[0], idx[1], idx[2]}, {idx[1], idx[3], idx[2]}}
}

// RemoveDuplicateVertices merges vertices with equal position and AO,
// keeping first-occurrence order, and remaps face indices.
func (m *LocalMesh) RemoveDuplicateVertices() *LocalMesh {
	mapping := make(map[LocalVertex]uint32, len(m.Vertices))
	vertices := make([]LocalVertex, 0, len(m.Vertices))
	for _, v := range m.Vertices {
		if _, ok := mapping[v]; ok {
			continue
		}
		mapping[v] = uint32(len(vertices))
		vertices = append(vertices, v)
	}
	faces := make([]LocalFace, len(m.Faces))
	for i, f := range m.Faces {
		for j, index := range f.Indices {
			f.Indices[j] = mapping[m.Vertices[index]]
		}
		faces[i] = f
	}
	return &LocalMesh{Vertices: vertices, Faces: faces}
}

// UnitFace is one voxel-sized square of surface: the lowest corner of the
// square and the direction it faces.
type UnitFace struct {
	Corner geom.Vec3i
	Normal uint8
}

// Area returns the total surface area in voxel faces.
func (m *LocalMesh) Area() int {
	area := 0
	for i := range m.Faces {
		lo, hi := m.faceBounds(i)
		size := hi.Sub(lo)
		area += max(size.X, 1) * max(size.Y, 1) * max(size.Z, 1)
	}
	return area
}

// UnitFaces splits every quad into unit squares and returns them with the
// material of the face that produced them. Two meshes of the same
// neighbourhood describe the same surface iff their unit faces are equal.
func (m *LocalMesh) UnitFaces() map[UnitFace]world.Material {
	out := make(map[UnitFace]world.Material)
	for i, f := range m.Faces {
		lo, hi := m.faceBounds(i)
		hi = geom.V(max(hi.X, lo.X+1), max(hi.Y, lo.Y+1), max(hi.Z, lo.Z+1))
		for z := lo.Z; z < hi.Z; z++ {
			for y := lo.Y; y < hi.Y; y++ {
				for x := lo.X; x < hi.X; x++ {
					out[UnitFace{Corner: geom.V(x, y, z), Normal: f.Normal}] = f.Material
				}
			}
		}
	}
	return out
}

func (m *LocalMesh) faceBounds(i int) (lo, hi geom.Vec3i) {
	lo = geom.Splat(1 << 30)
	hi = geom.Splat(-1 << 30)
	for _, index := range m.Faces[i].Indices {
		p := m.Vertices[index].Position
		v := geom.V(int(p[0]), int(p[1]), int(p[2]))
		lo = geom.V(min(lo.X, v.X), min(lo.Y, v.Y), min(lo.Z, v.Z))
		hi = geom.V(max(hi.X, v.X), max(hi.Y, v.Y), max(hi.Z, v.Z))
	}
	return lo, hi
}
