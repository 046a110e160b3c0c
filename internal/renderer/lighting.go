package renderer

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	LampCount         = 6
	MaterialShininess = 32.0

	lampHeight = 7.6

	nightCutOff      = 8.0
	nightOuterCutOff = 24.0
	dayCutOff        = 2.0
	dayOuterCutOff   = 13.5
)

// StreetLamps returns the six lamps along the road, west side first.
func StreetLamps() []PointLight {
	positions := [LampCount]mgl32.Vec3{
		{-7, lampHeight, -35},
		{-7, lampHeight, -3},
		{-7, lampHeight, 29},
		{4.5, lampHeight, -20},
		{4.5, lampHeight, 12},
		{4.5, lampHeight, 44},
	}
	lamps := make([]PointLight, 0, LampCount)
	for _, p := range positions {
		lamps = append(lamps, PointLight{
			Position:  p,
			Ambient:   mgl32.Vec3{0.1, 0.06, 0},
			Diffuse:   mgl32.Vec3{1, 0.6, 0},
			Specular:  mgl32.Vec3{1, 0.6, 0},
			Constant:  1,
			Linear:    0.09,
			Quadratic: 0.032,
		})
	}
	return lamps
}

// SunLight is the directional light for the given time of day.
// At night it stands in for moonlight.
func SunLight(tod TimeOfDay) DirLight {
	if tod == Night {
		return DirLight{
			Direction: mgl32.Vec3{-0.5, 0.9, -0.2},
			Ambient:   mgl32.Vec3{0.05, 0.034, 0.024},
			Diffuse:   mgl32.Vec3{0.08, 0.052, 0.036},
			Specular:  mgl32.Vec3{0.05, 0.05, 0.05},
		}
	}
	return DirLight{
		Direction: mgl32.Vec3{0.7, -0.5, -0.5},
		Ambient:   mgl32.Vec3{0.23, 0.24, 0.14},
		Diffuse:   mgl32.Vec3{0.65, 0.42, 0.26},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
	}
}

// SpotFor returns the cone of lamp i. Lamps 0-2 stand on the west side and
// lean east; lamps 3-5 lean west. By day the cones are dark and narrow.
func SpotFor(i int, tod TimeOfDay) SpotCone {
	if tod == Day {
		return SpotCone{CutOff: dayCutOff, OuterCutOff: dayOuterCutOff}
	}
	lean := float32(0.2)
	if i >= LampCount/2 {
		lean = -0.2
	}
	return SpotCone{
		Direction:   mgl32.Vec3{lean, -1, 0},
		Diffuse:     mgl32.Vec3{0.7, 0.7, 0},
		Specular:    mgl32.Vec3{0.5, 0.5, 0},
		CutOff:      nightCutOff,
		OuterCutOff: nightOuterCutOff,
	}
}

// PointLightUniform names a field of pointLight[i].
func PointLightUniform(i int, field string) string {
	return fmt.Sprintf("pointLight[%d].%s", i, field)
}

// SpotLightUniform names a field of spotLight[i].
func SpotLightUniform(i int, field string) string {
	return fmt.Sprintf("spotLight[%d].%s", i, field)
}

type UniformKind int

const (
	UniformInt UniformKind = iota
	UniformFloat
	UniformVec3
	UniformMat4
)

// Uniform is one named shader parameter.
type Uniform struct {
	Name  string
	Kind  UniformKind
	Int   int32
	Float float32
	Vec   mgl32.Vec3
	Mat   mgl32.Mat4
}

// UniformSet is an ordered list of uniforms, applied front to back.
type UniformSet []Uniform

func (s *UniformSet) Int(name string, v int32) {
	*s = append(*s, Uniform{Name: name, Kind: UniformInt, Int: v})
}

func (s *UniformSet) Float(name string, v float32) {
	*s = append(*s, Uniform{Name: name, Kind: UniformFloat, Float: v})
}

func (s *UniformSet) Vec3(name string, v mgl32.Vec3) {
	*s = append(*s, Uniform{Name: name, Kind: UniformVec3, Vec: v})
}

func (s *UniformSet) Mat4(name string, v mgl32.Mat4) {
	*s = append(*s, Uniform{Name: name, Kind: UniformMat4, Mat: v})
}

// Lookup returns the first uniform called name.
func (s UniformSet) Lookup(name string) (Uniform, bool) {
	for _, u := range s {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// ApplyTo uploads every uniform to sink in order.
func (s UniformSet) ApplyTo(sink UniformSink) {
	for _, u := range s {
		switch u.Kind {
		case UniformInt:
			sink.SetInt(u.Name, u.Int)
		case UniformFloat:
			sink.SetFloat(u.Name, u.Float)
		case UniformVec3:
			sink.SetVec3(u.Name, u.Vec[0], u.Vec[1], u.Vec[2])
		case UniformMat4:
			sink.SetMat4(u.Name, u.Mat)
		}
	}
}

// LightingUniforms builds the full lighting parameter set shared by the
// object, vegetation and ground shaders. By day the lamps keep their
// attenuation but contribute no color.
func LightingUniforms(lamps []PointLight, tod TimeOfDay, viewPos mgl32.Vec3) UniformSet {
	set := make(UniformSet, 0, 4+len(lamps)*17+2)

	sun := SunLight(tod)
	set.Vec3("dirLight.direction", sun.Direction)
	set.Vec3("dirLight.ambient", sun.Ambient)
	set.Vec3("dirLight.diffuse", sun.Diffuse)
	set.Vec3("dirLight.specular", sun.Specular)

	for i, l := range lamps {
		ambient, diffuse, specular := l.Ambient, l.Diffuse, l.Specular
		if tod == Day {
			ambient, diffuse, specular = mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}
		}
		set.Vec3(PointLightUniform(i, "position"), l.Position)
		set.Vec3(PointLightUniform(i, "ambient"), ambient)
		set.Vec3(PointLightUniform(i, "diffuse"), diffuse)
		set.Vec3(PointLightUniform(i, "specular"), specular)
		set.Float(PointLightUniform(i, "constant"), l.Constant)
		set.Float(PointLightUniform(i, "linear"), l.Linear)
		set.Float(PointLightUniform(i, "quadratic"), l.Quadratic)
	}

	set.Vec3("viewPosition", viewPos)
	set.Float("material.shininess", MaterialShininess)

	for i, l := range lamps {
		cone := SpotFor(i, tod)
		set.Vec3(SpotLightUniform(i, "position"), l.Position)
		set.Vec3(SpotLightUniform(i, "direction"), cone.Direction)
		set.Vec3(SpotLightUniform(i, "ambient"), cone.Ambient)
		set.Vec3(SpotLightUniform(i, "diffuse"), cone.Diffuse)
		set.Vec3(SpotLightUniform(i, "specular"), cone.Specular)
		set.Float(SpotLightUniform(i, "constant"), l.Constant)
		set.Float(SpotLightUniform(i, "linear"), l.Linear)
		set.Float(SpotLightUniform(i, "quadratic"), l.Quadratic)
		set.Float(SpotLightUniform(i, "cutOff"), cosDeg(cone.CutOff))
		set.Float(SpotLightUniform(i, "outerCutOff"), cosDeg(cone.OuterCutOff))
	}
	return set
}

func cosDeg(deg float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(deg))))
}
