package world

// Material is the content of a single voxel. The numeric values are part of
// the GPU triangle record format and must stay below 32.
type Material uint8

const (
	MaterialAir Material = iota
	MaterialStone
	MaterialDirt
	MaterialGrass
)

// IsAir reports whether m is empty space.
func (m Material) IsAir() bool {
	return m == MaterialAir
}

func (m Material) String() string {
	switch m {
	case MaterialAir:
		return "air"
	case MaterialStone:
		return "stone"
	case MaterialDirt:
		return "dirt"
	case MaterialGrass:
		return "grass"
	default:
		return "unknown"
	}
}
