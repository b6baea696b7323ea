package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitCubeDistances(t *testing.T) {
	c := UnitCube(V(3, -2, 5))
	for _, d := range Directions {
		assert.Equal(t, 1, c.DistanceFromInside(V(3, -2, 5), d), "direction %v", d)
	}
}

func TestExtendInDirection(t *testing.T) {
	c := UnitCube(V(0, 0, 0))
	c = c.ExtendInDirection(V(-1, 0, 0))
	assert.Equal(t, V(-1, 0, 0), c.Base)
	assert.Equal(t, V(2, 1, 1), c.Size)

	c = c.ExtendInDirection(V(0, 0, 1))
	assert.Equal(t, V(-1, 0, 0), c.Base)
	assert.Equal(t, V(2, 1, 2), c.Size)
	assert.Equal(t, 4, c.Volume())
	assert.True(t, c.Contains(V(-1, 0, 1)))
	assert.False(t, c.Contains(V(1, 0, 0)))
}

func TestSideVoxelsCoverFace(t *testing.T) {
	c := Cuboid{Base: V(-1, -2, 0), Size: V(3, 4, 2)}
	for _, d := range Directions {
		side := c.SideVoxels(d)
		seen := map[Vec3i]bool{}
		for _, p := range side {
			require.True(t, c.Contains(p), "side voxel %v outside cuboid", p)
			require.False(t, c.Contains(p.Add(d)), "side voxel %v not on %v face", p, d)
			seen[p] = true
		}
		assert.Len(t, seen, len(side))
		axis := d.Abs()
		assert.Equal(t, c.Volume()/c.Size.Dot(axis), len(side))
	}
}

func TestEmptyCuboid(t *testing.T) {
	var c Cuboid
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Volume())
	assert.False(t, c.Contains(V(0, 0, 0)))
}

func TestBinaryCubeSubdivideOrder(t *testing.T) {
	parts := CubeAtZero(4).Subdivide()
	for i, p := range parts {
		assert.Equal(t, 2, p.Length)
		assert.Equal(t, V(i&1, (i>>1)&1, (i>>2)&1).Mul(2), p.Position)
	}
	assert.True(t, BinaryCube{Length: 1}.IsSingleVoxel())
	assert.Len(t, CubeAtZero(4).SideVoxels(V(0, 0, -1)), 16)
}

func TestFloorDivAndMod(t *testing.T) {
	assert.Equal(t, -1, FloorDiv(-1, 16))
	assert.Equal(t, 0, FloorDiv(15, 16))
	assert.Equal(t, -2, FloorDiv(-17, 16))
	assert.Equal(t, 15, Mod(-1, 16))
	assert.Equal(t, 0, Mod(32, 16))
}

func TestDirectionIndex(t *testing.T) {
	for i, d := range Directions {
		assert.Equal(t, i, DirectionIndex(d))
		assert.Equal(t, d.Neg(), Directions[Opposite(i)])
	}
	assert.Equal(t, -1, DirectionIndex(V(1, 1, 0)))
}
