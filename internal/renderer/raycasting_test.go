package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestScreenToRayCenterFollowsFront(t *testing.T) {
	cam := NewDefaultCamera(mgl32.Vec3{1, 2, 3})
	cam.SetFront(mgl32.Vec3{0.3, -0.4, -0.8})

	ray := ScreenToRay(cam, 400, 300, 800, 600)
	if ray.Origin != cam.Position {
		t.Errorf("Ray should start at the camera, got %v", ray.Origin)
	}
	if !ray.Direction.ApproxEqualThreshold(cam.Front.Normalize(), 1e-4) {
		t.Errorf("Center ray should follow the view direction: %v vs %v", ray.Direction, cam.Front.Normalize())
	}
}

func TestScreenToRayCorners(t *testing.T) {
	cam := NewDefaultCamera(mgl32.Vec3{})
	left := ScreenToRay(cam, 0, 300, 800, 600)
	top := ScreenToRay(cam, 400, 0, 800, 600)
	if left.Direction.X() >= 0 {
		t.Errorf("Left edge should point left, got %v", left.Direction)
	}
	if top.Direction.Y() <= 0 {
		t.Errorf("Top edge should point up, got %v", top.Direction)
	}
}

func TestRayIntersectSphere(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	hit, dist := RayIntersectSphere(ray, mgl32.Vec3{}, 2)
	if !hit || dist != 8 {
		t.Errorf("Expected a hit at 8, got %v %v", hit, dist)
	}

	inside := Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{1, 0, 0}}
	if hit, dist := RayIntersectSphere(inside, mgl32.Vec3{}, 2); !hit || dist != 2 {
		t.Errorf("Origin inside should hit the far side at 2, got %v %v", hit, dist)
	}

	behind := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, 1}}
	if hit, _ := RayIntersectSphere(behind, mgl32.Vec3{}, 2); hit {
		t.Error("A sphere behind the origin must not be hit")
	}
}

func TestRayIntersectGround(t *testing.T) {
	down := Ray{Origin: mgl32.Vec3{0, 5, 0}, Direction: mgl32.Vec3{0, -1, 0}}
	if hit, dist := RayIntersectGround(down, 0); !hit || dist != 5 {
		t.Errorf("Expected ground at 5, got %v %v", hit, dist)
	}
	level := Ray{Origin: mgl32.Vec3{0, 5, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	if hit, _ := RayIntersectGround(level, 0); hit {
		t.Error("A level ray never meets the ground")
	}
	up := Ray{Origin: mgl32.Vec3{0, 5, 0}, Direction: mgl32.Vec3{0, 1, 0}}
	if hit, _ := RayIntersectGround(up, 0); hit {
		t.Error("A ray pointing up never meets the ground below")
	}
}

func TestBoundingSphereScalesAndMoves(t *testing.T) {
	m := Placement{Translate: mgl32.Vec3{10, 0, 0}, Scale: mgl32.Vec3{2, 1, 1}}.Matrix()
	center, radius := BoundingSphere(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}, m)
	if !center.ApproxEqual(mgl32.Vec3{10, 0, 0}) {
		t.Errorf("Unexpected center %v", center)
	}
	want := mgl32.Vec3{2, 2, 2}.Len() / 2 * 2
	if diff := radius - want; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("Expected radius %v, got %v", want, radius)
	}
}

func unitCubeModel() *Model {
	m := &Model{}
	for _, p := range []mgl32.Vec3{{-1, -1, -1}, {1, 1, 1}, {1, -1, 1}} {
		m.InterleavedData = append(m.InterleavedData, p[0], p[1], p[2], 0, 1, 0, 0, 0)
	}
	m.Faces = []uint32{0, 1, 2}
	return m
}

func TestPickTargetsNamesRepeatedModels(t *testing.T) {
	models := map[string]*Model{ModelStreetLamp: unitCubeModel(), ModelRoad: unitCubeModel()}
	targets := PickTargets(StreetScene(), models)

	if len(targets) != LampCount+1 {
		t.Fatalf("Expected %d targets, got %d", LampCount+1, len(targets))
	}
	names := make(map[string]bool)
	for _, target := range targets {
		if names[target.Name] {
			t.Errorf("Duplicate target name %q", target.Name)
		}
		names[target.Name] = true
	}
	if !names[ModelRoad] {
		t.Error("A model placed once keeps its plain name")
	}
	if !names[ModelStreetLamp+" #0"] || !names[ModelStreetLamp+" #5"] {
		t.Errorf("Lamps should be numbered, got %v", names)
	}
}

func TestPickPrefersNearestTarget(t *testing.T) {
	targets := []PickTarget{
		{Name: "far", Center: mgl32.Vec3{0, 0, -20}, Radius: 1},
		{Name: "near", Center: mgl32.Vec3{0, 0, -5}, Radius: 1},
	}
	ray := Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{0, 0, -1}}
	hit, ok := Pick(ray, targets, -1)
	if !ok || hit.Name != "near" || hit.Dist != 4 {
		t.Errorf("Expected the near target at 4, got %+v", hit)
	}
}

func TestPickFallsBackToGround(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 2, 0}, Direction: mgl32.Vec3{0, -1, 0}}
	hit, ok := Pick(ray, nil, 0)
	if !ok || hit.Name != "" || !hit.Point.ApproxEqual(mgl32.Vec3{0, 0, 0}) {
		t.Errorf("Expected a ground hit at the origin, got %+v %v", hit, ok)
	}
	sky := Ray{Origin: mgl32.Vec3{0, 2, 0}, Direction: mgl32.Vec3{0, 1, 0}}
	if _, ok := Pick(sky, nil, 0); ok {
		t.Error("Looking at the sky should hit nothing")
	}
}
