package overlay

import (
	"fmt"
	"sort"
	"strings"

	"StreetScene/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"
)

// SceneControls is what the "Scene" panel edits. The caller copies values
// in before the frame and applies them afterwards.
type SceneControls struct {
	ClearColor  mgl32.Vec3
	Night       bool
	HeightScale float32
	Lamp        renderer.PointLight

	// MissingUniforms lists, per shader, names the driver did not resolve.
	MissingUniforms map[string][]string
}

// CameraControls is what the "Camera info" panel shows.
type CameraControls struct {
	Position    mgl32.Vec3
	Front       mgl32.Vec3
	Yaw, Pitch  float32
	MouseUpdate bool

	// Hover describes what lies under the cursor, empty when nothing does.
	Hover string
}

// SceneWindow draws the scene panel and reports whether anything changed.
func SceneWindow(c *SceneControls) bool {
	changed := false
	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 10}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	imgui.SetNextWindowSizeV(imgui.Vec2{X: 360, Y: 320}, imgui.ConditionFirstUseEver)
	if imgui.BeginV("Scene", nil, 0) {
		if imgui.ColorEdit3V("Background color", (*[3]float32)(&c.ClearColor), 0) {
			changed = true
		}
		if imgui.Checkbox("Night", &c.Night) {
			changed = true
		}
		if imgui.SliderFloatV("Height scale", &c.HeightScale, 0, 1, "%.3f", 0) {
			changed = true
		}

		imgui.Separator()
		if imgui.CollapsingHeaderV("Street lamp 0", imgui.TreeNodeFlagsDefaultOpen) {
			if imgui.DragFloatV("pointLight.constant", &c.Lamp.Constant, 0.05, 0, 1, "%.3f", 0) {
				changed = true
			}
			if imgui.DragFloatV("pointLight.linear", &c.Lamp.Linear, 0.05, 0, 1, "%.3f", 0) {
				changed = true
			}
			if imgui.DragFloatV("pointLight.quadratic", &c.Lamp.Quadratic, 0.05, 0, 1, "%.3f", 0) {
				changed = true
			}
		}

		lines := missingLines(c.MissingUniforms)
		if len(lines) > 0 && imgui.CollapsingHeaderV("Unresolved uniforms", 0) {
			for _, line := range lines {
				imgui.Text(line)
			}
		}
	}
	imgui.End()
	return changed
}

// CameraWindow draws the camera panel; only the mouse update flag is editable.
func CameraWindow(c *CameraControls) bool {
	changed := false
	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 340}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	if imgui.BeginV("Camera info", nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.Text(formatVec("Camera position", c.Position))
		imgui.Text(fmt.Sprintf("(Yaw, Pitch): (%f, %f)", c.Yaw, c.Pitch))
		imgui.Text(formatVec("Camera front", c.Front))
		changed = imgui.Checkbox("Camera mouse update", &c.MouseUpdate)
		if c.Hover != "" {
			imgui.Separator()
			imgui.Text("Under cursor: " + c.Hover)
		}
	}
	imgui.End()
	return changed
}

// HoverText describes a pick result for the camera panel.
func HoverText(name string, point mgl32.Vec3) string {
	if name == "" {
		name = "ground"
	}
	return fmt.Sprintf("%s at (%.2f, %.2f, %.2f)", name, point[0], point[1], point[2])
}

func formatVec(label string, v mgl32.Vec3) string {
	return fmt.Sprintf("%s: (%f, %f, %f)", label, v[0], v[1], v[2])
}

// missingLines flattens the unresolved uniform report into sorted
// "shader: a, b" rows.
func missingLines(missing map[string][]string) []string {
	shaders := make([]string, 0, len(missing))
	for name, uniforms := range missing {
		if len(uniforms) > 0 {
			shaders = append(shaders, name)
		}
	}
	sort.Strings(shaders)

	lines := make([]string, 0, len(shaders))
	for _, name := range shaders {
		lines = append(lines, name+": "+strings.Join(missing[name], ", "))
	}
	return lines
}
