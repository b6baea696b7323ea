package geom

// Cuboid is an axis-aligned box of integer cells [Base, Base+Size).
// The zero value is the empty cuboid.
type Cuboid struct {
	Base Vec3i
	Size Vec3i
}

// UnitCube returns the cuboid containing only base.
func UnitCube(base Vec3i) Cuboid {
	return Cuboid{Base: base, Size: Splat(1)}
}

// Cube returns a cube with the given corner and edge length.
func Cube(base Vec3i, side int) Cuboid {
	return Cuboid{Base: base, Size: Splat(side)}
}

// IsEmpty reports whether c has no cells.
func (c Cuboid) IsEmpty() bool {
	return c.Size.X <= 0 || c.Size.Y <= 0 || c.Size.Z <= 0
}

// Volume returns the number of cells in c.
func (c Cuboid) Volume() int {
	if c.IsEmpty() {
		return 0
	}
	return c.Size.X * c.Size.Y * c.Size.Z
}

// Contains reports whether p lies inside c.
func (c Cuboid) Contains(p Vec3i) bool {
	d := p.Sub(c.Base)
	return d.X >= 0 && d.X < c.Size.X &&
		d.Y >= 0 && d.Y < c.Size.Y &&
		d.Z >= 0 && d.Z < c.Size.Z
}

// Max returns the exclusive upper corner.
func (c Cuboid) Max() Vec3i {
	return c.Base.Add(c.Size)
}

// SideVoxels returns every cell on the face of c pointing in direction.
func (c Cuboid) SideVoxels(direction Vec3i) []Vec3i {
	mustDirection(direction)
	du, lu := V(1, 0, 0), c.Size.X
	if direction.X != 0 {
		du, lu = V(0, 1, 0), c.Size.Y
	}
	dv, lv := V(0, 0, 1), c.Size.Z
	if direction.Z != 0 {
		dv, lv = V(0, 1, 0), c.Size.Y
	}
	sideBase := c.Base
	if direction.X > 0 {
		sideBase.X += c.Size.X - 1
	}
	if direction.Y > 0 {
		sideBase.Y += c.Size.Y - 1
	}
	if direction.Z > 0 {
		sideBase.Z += c.Size.Z - 1
	}
	out := make([]Vec3i, 0, lu*lv)
	for u := 0; u < lu; u++ {
		for v := 0; v < lv; v++ {
			out = append(out, sideBase.Add(du.Mul(u)).Add(dv.Mul(v)))
		}
	}
	return out
}

// DistanceFromInside returns how far p is, along the axis of direction,
// from the first layer of cells just outside c on that side.
func (c Cuboid) DistanceFromInside(p, direction Vec3i) int {
	mustDirection(direction)
	axis := direction.Abs()
	edge := c.Base.Sub(Splat(1))
	if direction.Sum() > 0 {
		edge = c.Base.Add(c.Size)
	}
	return abs(p.Dot(axis) - edge.Dot(axis))
}

// ExtendInDirection grows c by one layer of cells on the given side.
func (c Cuboid) ExtendInDirection(direction Vec3i) Cuboid {
	mustDirection(direction)
	base := c.Base
	if direction.X < 0 {
		base.X--
	}
	if direction.Y < 0 {
		base.Y--
	}
	if direction.Z < 0 {
		base.Z--
	}
	return Cuboid{Base: base, Size: c.Size.Add(direction.Abs())}
}
