package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(mgl32.Vec3{0, 0, 3})

	if cam == nil {
		t.Fatal("NewDefaultCamera returned nil")
	}
	if !cam.Front.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("Default camera should look down -Z, got %v", cam.Front)
	}
	if cam.Speed <= 0 || cam.Sensitivity <= 0 {
		t.Error("Camera speed and sensitivity should be positive")
	}
	if cam.Zoom != DefaultZoom {
		t.Errorf("Expected zoom %v, got %v", DefaultZoom, cam.Zoom)
	}
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := NewDefaultCamera(mgl32.Vec3{0, 0, 5})

	view := cam.GetViewMatrix()

	if view.At(3, 3) != 1.0 {
		t.Error("View matrix should be valid (w component = 1)")
	}
	origin := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !mgl32.FloatEqualThreshold(origin.Z(), -5, 1e-5) {
		t.Errorf("Origin should be 5 units in front of the camera, got %v", origin)
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewDefaultCamera(mgl32.Vec3{})

	proj := cam.GetProjectionMatrix(800.0 / 600.0)

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
	want := mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.1, 3000)
	if !proj.ApproxEqual(want) {
		t.Error("Projection should use zoom as fov with near 0.1 and far 3000")
	}
}

func TestSkyboxViewDropsTranslation(t *testing.T) {
	cam := NewDefaultCamera(mgl32.Vec3{10, 20, 30})
	view := cam.GetSkyboxViewMatrix()
	if view[12] != 0 || view[13] != 0 || view[14] != 0 {
		t.Errorf("Skybox view should have no translation, got %v", view.Col(3))
	}
}

func TestCameraUpdateVectors(t *testing.T) {
	cam := NewDefaultCamera(mgl32.Vec3{})
	cam.Yaw = 30
	cam.Pitch = 20

	cam.updateCameraVectors()

	for name, v := range map[string]mgl32.Vec3{"front": cam.Front, "right": cam.Right, "up": cam.Up} {
		if math.Abs(float64(v.Len())-1.0) > 1e-5 {
			t.Errorf("%s vector should be normalized, length=%f", name, v.Len())
		}
	}
}

func TestProcessKeyboard(t *testing.T) {
	cam := NewDefaultCamera(mgl32.Vec3{0, 0, 3})

	cam.ProcessKeyboard(MoveForward, 1, false)
	if !cam.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0, 0.5}, 1e-5) {
		t.Errorf("Expected (0,0,0.5), got %v", cam.Position)
	}

	cam.ProcessKeyboard(MoveRight, 1, true)
	if !mgl32.FloatEqualThreshold(cam.Position.X(), DefaultSpeed*BoostFactor, 1e-5) {
		t.Errorf("Boosted strafe should move %v, got %v", DefaultSpeed*BoostFactor, cam.Position.X())
	}

	before := cam.Position
	cam.ProcessKeyboard(MoveForward|MoveBackward, 1, false)
	if !cam.Position.ApproxEqualThreshold(before, 1e-5) {
		t.Error("Opposite directions should cancel out")
	}
}

func TestPitchIsConstrained(t *testing.T) {
	cam := NewDefaultCamera(mgl32.Vec3{})
	cam.ProcessMouseMovement(0, 5000, true)
	if cam.Pitch != 89 {
		t.Errorf("Pitch should clamp at 89, got %v", cam.Pitch)
	}
}

func TestProcessMouseScroll(t *testing.T) {
	cam := NewDefaultCamera(mgl32.Vec3{})
	cam.ProcessMouseScroll(10)
	if cam.Zoom != 35 {
		t.Errorf("Expected zoom 35, got %v", cam.Zoom)
	}
	cam.ProcessMouseScroll(100)
	if cam.Zoom != MinZoom {
		t.Errorf("Zoom should clamp at %v, got %v", MinZoom, cam.Zoom)
	}
	cam.ProcessMouseScroll(-100)
	if cam.Zoom != MaxZoom {
		t.Errorf("Zoom should clamp at %v, got %v", MaxZoom, cam.Zoom)
	}
}

func TestSetFrontRestoresAngles(t *testing.T) {
	front := mgl32.Vec3{0.6, -0.2, -0.77}.Normalize()
	cam := NewDefaultCamera(mgl32.Vec3{})
	cam.SetFront(front)

	if cam.Front != front {
		t.Errorf("SetFront should keep the given vector, got %v", cam.Front)
	}

	// a zero mouse delta must not move the view
	cam.ProcessMouseMovement(0, 0, true)
	if !cam.Front.ApproxEqualThreshold(front, 1e-5) {
		t.Errorf("Derived yaw/pitch disagree with front: %v vs %v", cam.Front, front)
	}
}
