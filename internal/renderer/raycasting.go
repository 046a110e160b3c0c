package renderer

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line from Origin along the unit vector Direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay casts a ray from the camera through a cursor position given in
// window coordinates (origin top left).
func ScreenToRay(camera *Camera, screenX, screenY float32, width, height int) Ray {
	if width <= 0 || height <= 0 {
		return Ray{Origin: camera.Position, Direction: camera.Front.Normalize()}
	}
	ndcX := 2*screenX/float32(width) - 1
	ndcY := 1 - 2*screenY/float32(height)

	projection := camera.GetProjectionMatrix(float32(width) / float32(height))
	eye := projection.Inv().Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	eye = mgl32.Vec4{eye.X(), eye.Y(), -1, 0}

	world := camera.GetViewMatrix().Inv().Mul4x1(eye).Vec3().Normalize()
	return Ray{Origin: camera.Position, Direction: world}
}

// RayIntersectSphere returns the nearest hit in front of the ray origin.
// An origin inside the sphere hits the far side.
func RayIntersectSphere(ray Ray, center mgl32.Vec3, radius float32) (bool, float32) {
	oc := ray.Origin.Sub(center)
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 || a == 0 {
		return false, 0
	}
	sq := float32(math.Sqrt(float64(disc)))
	near := (-b - sq) / (2 * a)
	far := (-b + sq) / (2 * a)
	switch {
	case near > 0:
		return true, near
	case far > 0:
		return true, far
	}
	return false, 0
}

// RayIntersectGround intersects the ray with the horizontal plane at height y.
func RayIntersectGround(ray Ray, y float32) (bool, float32) {
	dy := ray.Direction.Y()
	if dy > -1e-6 && dy < 1e-6 {
		return false, 0
	}
	t := (y - ray.Origin.Y()) / dy
	if t <= 0 {
		return false, 0
	}
	return true, t
}

// PickTarget is a placed model approximated by a world-space bounding sphere.
type PickTarget struct {
	Name   string
	Center mgl32.Vec3
	Radius float32
}

// BoundingSphere places the sphere around an object-space box with m.
// The radius is scaled by the largest axis scale of m.
func BoundingSphere(min, max mgl32.Vec3, m mgl32.Mat4) (mgl32.Vec3, float32) {
	center := m.Mul4x1(min.Add(max).Mul(0.5).Vec4(1)).Vec3()
	radius := max.Sub(min).Len() / 2

	scale := float32(0)
	for col := 0; col < 3; col++ {
		if l := m.Col(col).Vec3().Len(); l > scale {
			scale = l
		}
	}
	return center, radius * scale
}

// PickTargets builds one target per scene placement whose model is available.
// Repeated models get an index suffix so lamps can be told apart.
func PickTargets(scene []Placement, models map[string]*Model) []PickTarget {
	seen := make(map[string]int)
	var out []PickTarget
	for _, p := range scene {
		model, ok := models[p.Model]
		if !ok || model.VertexCount() == 0 {
			continue
		}
		min, max := model.Bounds()
		center, radius := BoundingSphere(min, max, p.Matrix())

		name := p.Model
		if n := seen[p.Model]; n > 0 || countModel(scene, p.Model) > 1 {
			name = fmt.Sprintf("%s #%d", p.Model, n)
		}
		seen[p.Model]++
		out = append(out, PickTarget{Name: name, Center: center, Radius: radius})
	}
	return out
}

func countModel(scene []Placement, model string) int {
	n := 0
	for _, p := range scene {
		if p.Model == model {
			n++
		}
	}
	return n
}

// PickHit is what lies under the cursor.
type PickHit struct {
	Name  string // empty when only the ground was hit
	Point mgl32.Vec3
	Dist  float32
}

// Pick returns the nearest target hit by ray, falling back to the ground
// plane at groundY.
func Pick(ray Ray, targets []PickTarget, groundY float32) (PickHit, bool) {
	best := PickHit{Dist: float32(math.Inf(1))}
	found := false
	for _, target := range targets {
		if hit, t := RayIntersectSphere(ray, target.Center, target.Radius); hit && t < best.Dist {
			best = PickHit{Name: target.Name, Point: ray.At(t), Dist: t}
			found = true
		}
	}
	if found {
		return best, true
	}
	if hit, t := RayIntersectGround(ray, groundY); hit && t <= FarPlane {
		return PickHit{Point: ray.At(t), Dist: t}, true
	}
	return PickHit{}, false
}
