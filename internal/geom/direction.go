package geom

// Directions lists the six axis-aligned unit normals. The index of a
// direction in this table is the normal index stored in mesh faces and GPU
// triangle records, so the order must never change.
var Directions = [6]Vec3i{
	{X: 1},
	{X: -1},
	{Y: 1},
	{Y: -1},
	{Z: 1},
	{Z: -1},
}

// DirectionIndex returns the index of d in Directions, or -1 if d is not an
// axis-aligned unit vector.
func DirectionIndex(d Vec3i) int {
	for i, dir := range Directions {
		if dir == d {
			return i
		}
	}
	return -1
}

// Opposite returns the index of the direction pointing the other way.
func Opposite(index int) int {
	return index ^ 1
}

// IsVertical reports whether the direction points along the z (up) axis.
func IsVertical(d Vec3i) bool {
	return d.Z != 0
}

func mustDirection(d Vec3i) {
	if DirectionIndex(d) < 0 {
		panic("geom: not an axis direction: " + d.String())
	}
}
