package geom

import "fmt"

// Vec3i is an integer 3D vector. It is used both for chunk coordinates
// (in chunk-grid units) and for voxel positions local to a chunk.
type Vec3i struct {
	X, Y, Z int
}

// V returns a new Vec3i.
func V(x, y, z int) Vec3i {
	return Vec3i{X: x, Y: y, Z: z}
}

// Splat returns a vector with all components set to s.
func Splat(s int) Vec3i {
	return Vec3i{X: s, Y: s, Z: s}
}

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3i) Sub(o Vec3i) Vec3i {
	return Vec3i{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Mul scales v by s.
func (v Vec3i) Mul(s int) Vec3i {
	return Vec3i{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// MulComponents multiplies v and o component-wise.
func (v Vec3i) MulComponents(o Vec3i) Vec3i {
	return Vec3i{X: v.X * o.X, Y: v.Y * o.Y, Z: v.Z * o.Z}
}

func (v Vec3i) Neg() Vec3i {
	return Vec3i{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Abs returns the component-wise absolute value.
func (v Vec3i) Abs() Vec3i {
	return Vec3i{X: abs(v.X), Y: abs(v.Y), Z: abs(v.Z)}
}

// Sum returns X+Y+Z.
func (v Vec3i) Sum() int {
	return v.X + v.Y + v.Z
}

func (v Vec3i) Dot(o Vec3i) int {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3i) Cross(o Vec3i) Vec3i {
	return Vec3i{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// ZXY returns the components rotated so that the result is (Z, X, Y).
func (v Vec3i) ZXY() Vec3i {
	return Vec3i{X: v.Z, Y: v.X, Z: v.Y}
}

// YZX returns the components rotated so that the result is (Y, Z, X).
func (v Vec3i) YZX() Vec3i {
	return Vec3i{X: v.Y, Y: v.Z, Z: v.X}
}

// InCube reports whether every component lies in [0, size).
func (v Vec3i) InCube(size int) bool {
	return v.X >= 0 && v.X < size && v.Y >= 0 && v.Y < size && v.Z >= 0 && v.Z < size
}

func (v Vec3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// FloorDiv divides rounding towards negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Mod returns the non-negative remainder of a divided by b (b > 0).
func Mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
