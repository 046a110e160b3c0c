package overlay

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
)

// GLFW feeds window input into ImGui. It does not install callbacks of its
// own; the application forwards events through the handler methods so the
// camera and the overlay can share the window.
type GLFW struct {
	window *glfw.Window
	io     imgui.IO

	time             float64
	mouseJustPressed [3]bool
}

// NewGLFWFromExistingWindow wires io to window and installs the key map.
func NewGLFWFromExistingWindow(window *glfw.Window, io imgui.IO) *GLFW {
	io.SetIniFilename("")
	for imguiKey, key := range keyMap {
		io.KeyMap(imguiKey, int(key))
	}
	return &GLFW{window: window, io: io}
}

var keyMap = map[int]glfw.Key{
	imgui.KeyTab:        glfw.KeyTab,
	imgui.KeyLeftArrow:  glfw.KeyLeft,
	imgui.KeyRightArrow: glfw.KeyRight,
	imgui.KeyUpArrow:    glfw.KeyUp,
	imgui.KeyDownArrow:  glfw.KeyDown,
	imgui.KeyPageUp:     glfw.KeyPageUp,
	imgui.KeyPageDown:   glfw.KeyPageDown,
	imgui.KeyHome:       glfw.KeyHome,
	imgui.KeyEnd:        glfw.KeyEnd,
	imgui.KeyInsert:     glfw.KeyInsert,
	imgui.KeyDelete:     glfw.KeyDelete,
	imgui.KeyBackspace:  glfw.KeyBackspace,
	imgui.KeySpace:      glfw.KeySpace,
	imgui.KeyEnter:      glfw.KeyEnter,
	imgui.KeyEscape:     glfw.KeyEscape,
	imgui.KeyA:          glfw.KeyA,
	imgui.KeyC:          glfw.KeyC,
	imgui.KeyV:          glfw.KeyV,
	imgui.KeyX:          glfw.KeyX,
	imgui.KeyY:          glfw.KeyY,
	imgui.KeyZ:          glfw.KeyZ,
}

// DisplaySize is the window size in screen coordinates.
func (p *GLFW) DisplaySize() [2]float32 {
	w, h := p.window.GetSize()
	return [2]float32{float32(w), float32(h)}
}

// FramebufferSize is the window size in pixels.
func (p *GLFW) FramebufferSize() [2]float32 {
	w, h := p.window.GetFramebufferSize()
	return [2]float32{float32(w), float32(h)}
}

// NewFrame pushes display size, timing and mouse state for the coming frame.
func (p *GLFW) NewFrame() {
	size := p.DisplaySize()
	p.io.SetDisplaySize(imgui.Vec2{X: size[0], Y: size[1]})

	now := glfw.GetTime()
	p.io.SetDeltaTime(frameDelta(p.time, now))
	p.time = now

	if p.window.GetAttrib(glfw.Focused) != 0 {
		x, y := p.window.GetCursorPos()
		p.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	} else {
		p.io.SetMousePosition(imgui.Vec2{X: -math.MaxFloat32, Y: -math.MaxFloat32})
	}

	// A click shorter than one frame must still register.
	for i := range p.mouseJustPressed {
		down := p.mouseJustPressed[i] || p.window.GetMouseButton(glfwButton(i)) == glfw.Press
		p.io.SetMouseButtonDown(i, down)
		p.mouseJustPressed[i] = false
	}
}

// frameDelta never returns zero; ImGui asserts on a non-positive delta.
func frameDelta(last, now float64) float32 {
	if last <= 0 || now <= last {
		return 1.0 / 60.0
	}
	return float32(now - last)
}

func glfwButton(i int) glfw.MouseButton {
	switch i {
	case 1:
		return glfw.MouseButtonRight
	case 2:
		return glfw.MouseButtonMiddle
	}
	return glfw.MouseButtonLeft
}

// MouseButton records a press so NewFrame can report it.
func (p *GLFW) MouseButton(button glfw.MouseButton, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	switch button {
	case glfw.MouseButtonLeft:
		p.mouseJustPressed[0] = true
	case glfw.MouseButtonRight:
		p.mouseJustPressed[1] = true
	case glfw.MouseButtonMiddle:
		p.mouseJustPressed[2] = true
	}
}

func (p *GLFW) Scroll(x, y float64) {
	p.io.AddMouseWheelDelta(float32(x), float32(y))
}

// Key forwards a key event and refreshes the modifier state.
func (p *GLFW) Key(key glfw.Key, action glfw.Action) {
	switch action {
	case glfw.Press:
		p.io.KeyPress(int(key))
	case glfw.Release:
		p.io.KeyRelease(int(key))
	}
	p.io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
	p.io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
	p.io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
	p.io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
}

func (p *GLFW) Char(char rune) {
	p.io.AddInputCharacters(string(char))
}

// WantsMouse reports whether ImGui is using the mouse this frame.
func (p *GLFW) WantsMouse() bool {
	return p.io.WantCaptureMouse()
}

// WantsKeyboard reports whether ImGui is using the keyboard this frame.
func (p *GLFW) WantsKeyboard() bool {
	return p.io.WantCaptureKeyboard()
}
