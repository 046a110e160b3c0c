package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TimeOfDay selects one of the two fixed lighting configurations.
type TimeOfDay int

const (
	Day TimeOfDay = iota
	Night
)

func (t TimeOfDay) String() string {
	if t == Night {
		return "night"
	}
	return "day"
}

// Toggle flips between Day and Night.
func (t TimeOfDay) Toggle() TimeOfDay {
	if t == Day {
		return Night
	}
	return Day
}

type PointLight struct {
	Position mgl32.Vec3
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3

	Constant  float32
	Linear    float32
	Quadratic float32
}

type DirLight struct {
	Direction mgl32.Vec3
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
}

// SpotCone is the cone a street lamp casts. Angles are in degrees.
type SpotCone struct {
	Direction   mgl32.Vec3
	Ambient     mgl32.Vec3
	Diffuse     mgl32.Vec3
	Specular    mgl32.Vec3
	CutOff      float32
	OuterCutOff float32
}

// UniformSink receives shader parameters by name.
type UniformSink interface {
	SetInt(name string, value int32)
	SetFloat(name string, value float32)
	SetVec3(name string, x, y, z float32)
	SetMat4(name string, value mgl32.Mat4)
}
