package overlay

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"
)

func TestOrthoProjectionMapsCorners(t *testing.T) {
	m := mgl32.Mat4(orthoProjection([2]float32{800, 600}))

	topLeft := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !topLeft.ApproxEqual(mgl32.Vec4{-1, 1, 0, 1}) {
		t.Errorf("Top left should map to (-1, 1), got %v", topLeft)
	}
	bottomRight := m.Mul4x1(mgl32.Vec4{800, 600, 0, 1})
	if !bottomRight.ApproxEqual(mgl32.Vec4{1, -1, 0, 1}) {
		t.Errorf("Bottom right should map to (1, -1), got %v", bottomRight)
	}
}

func TestScissorBoxFlipsY(t *testing.T) {
	x, y, w, h := scissorBox(imgui.Vec4{X: 10, Y: 20, Z: 110, W: 70}, 600)
	if x != 10 || y != 530 || w != 100 || h != 50 {
		t.Errorf("Unexpected scissor (%d, %d, %d, %d)", x, y, w, h)
	}
}

func TestFrameDeltaIsPositive(t *testing.T) {
	if d := frameDelta(0, 5); d <= 0 {
		t.Errorf("First frame delta should be positive, got %v", d)
	}
	if d := frameDelta(5, 5); d <= 0 {
		t.Errorf("Stalled clock should still give a positive delta, got %v", d)
	}
	if d := frameDelta(1, 1.5); d != 0.5 {
		t.Errorf("Expected 0.5, got %v", d)
	}
}

func TestGLFWButtonOrder(t *testing.T) {
	want := []glfw.MouseButton{glfw.MouseButtonLeft, glfw.MouseButtonRight, glfw.MouseButtonMiddle}
	for i, b := range want {
		if got := glfwButton(i); got != b {
			t.Errorf("Button %d: expected %v, got %v", i, b, got)
		}
	}
}

func TestMissingLinesSortedAndSkipsEmpty(t *testing.T) {
	lines := missingLines(map[string][]string{
		"skybox":         nil,
		"normal_mapping": {"heightScale"},
		"blending":       {"pointLight[5].linear", "spotLight[0].cutOff"},
	})
	want := []string{
		"blending: pointLight[5].linear, spotLight[0].cutOff",
		"normal_mapping: heightScale",
	}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestFormatVec(t *testing.T) {
	got := formatVec("Camera front", mgl32.Vec3{0, 0, -1})
	if got != "Camera front: (0.000000, 0.000000, -1.000000)" {
		t.Errorf("Unexpected text %q", got)
	}
}

func TestHoverText(t *testing.T) {
	if got := HoverText("", mgl32.Vec3{1, 0, -2}); got != "ground at (1.00, 0.00, -2.00)" {
		t.Errorf("Unexpected ground text %q", got)
	}
	if got := HoverText("road", mgl32.Vec3{0, 0.5, 0}); got != "road at (0.00, 0.50, 0.00)" {
		t.Errorf("Unexpected model text %q", got)
	}
}
