package main

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraPath scripts the camera position for each tick.
type cameraPath interface {
	At(step int) mgl32.Vec3
}

func newCameraPath(kind string, speed float32) (cameraPath, error) {
	switch kind {
	case "line":
		return linePath{direction: mgl32.Vec3{1, 0.5, 0}.Normalize().Mul(speed)}, nil
	case "orbit":
		return orbitPath{radius: 128, speed: speed}, nil
	case "still":
		return linePath{}, nil
	default:
		return nil, fmt.Errorf("unknown camera path %q", kind)
	}
}

// linePath flies in a straight line at constant height.
type linePath struct {
	direction mgl32.Vec3
}

func (p linePath) At(step int) mgl32.Vec3 {
	return cameraStart.Add(p.direction.Mul(float32(step)))
}

// orbitPath circles the origin, starting on the +x axis.
type orbitPath struct {
	radius float32
	speed  float32
}

func (p orbitPath) At(step int) mgl32.Vec3 {
	angle := float32(step) * p.speed / p.radius
	sin, cos := math32.Sincos(angle)
	return cameraStart.Add(mgl32.Vec3{p.radius * (cos - 1), p.radius * sin, 0})
}
