package meshing

import (
	"voxstream/internal/geom"
	"voxstream/internal/world"
)

// makeVertex samples the four voxels around the corner at position in the
// plane of a face with the given normal. Two occluding sides always give
// full occlusion regardless of the corner voxel.
func makeVertex(n *world.Neighbourhood, position, normal geom.Vec3i) LocalVertex {
	occluderBase := position
	if normal.Sum() < 0 {
		occluderBase = position.Add(normal)
	}
	u := normal.ZXY().Abs()
	v := normal.YZX().Abs()
	side1 := n.IsSolid(occluderBase.Sub(u))
	side2 := n.IsSolid(occluderBase.Sub(v))
	corner := n.IsSolid(occluderBase) || n.IsSolid(occluderBase.Sub(u).Sub(v))
	var ao uint8
	if side1 && side2 {
		ao = 3
	} else {
		ao = b2u(side1) + b2u(side2) + b2u(corner)
	}
	return LocalVertex{Position: toLocal(position), AO: ao}
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func toLocal(p geom.Vec3i) [3]uint8 {
	return [3]uint8{uint8(p.X), uint8(p.Y), uint8(p.Z)}
}
