package engine

import (
	"StreetScene/internal/renderer"
	"StreetScene/internal/state"

	"github.com/go-gl/mathgl/mgl32"
)

// HeightScaleRate is how fast Q/E move the parallax height scale, per second.
const HeightScaleRate = 0.5

// Input is the keyboard state sampled once per frame.
type Input struct {
	Forward, Backward, Left, Right bool
	Boost                          bool
	RaiseHeight, LowerHeight       bool
}

func (in Input) movement() renderer.CameraMovement {
	var m renderer.CameraMovement
	if in.Forward {
		m |= renderer.MoveForward
	}
	if in.Backward {
		m |= renderer.MoveBackward
	}
	if in.Left {
		m |= renderer.MoveLeft
	}
	if in.Right {
		m |= renderer.MoveRight
	}
	return m
}

// Session is the viewer's mutable state. Input callbacks and the render
// step both go through it; nothing here touches the GPU.
type Session struct {
	Camera    *renderer.Camera
	TimeOfDay renderer.TimeOfDay
	Lamps     []renderer.PointLight

	ClearColor    mgl32.Vec3
	OverlayOn     bool
	HeightScale   float32
	NormalMapping bool

	// CameraMouseUpdate gates mouse look. The overlay turns it off so the
	// cursor can be used on the panels.
	CameraMouseUpdate bool

	firstMouse   bool
	lastX, lastY float64
}

// NewSession restores a session from a saved program state.
func NewSession(st state.ProgramState, cameraSpeed float32) *Session {
	cam := renderer.NewDefaultCamera(st.CameraPosition)
	cam.SetFront(st.CameraFront)
	if cameraSpeed > 0 {
		cam.Speed = cameraSpeed
	}
	return &Session{
		Camera:            cam,
		TimeOfDay:         renderer.Day,
		Lamps:             renderer.StreetLamps(),
		ClearColor:        st.ClearColor,
		OverlayOn:         st.ImGuiEnabled,
		HeightScale:       st.HeightScale,
		CameraMouseUpdate: !st.ImGuiEnabled,
		firstMouse:        true,
	}
}

// ToggleOverlay shows or hides the debug overlay. Showing it releases the
// mouse from the camera; hiding it gives the mouse back.
func (s *Session) ToggleOverlay() {
	s.OverlayOn = !s.OverlayOn
	s.CameraMouseUpdate = !s.OverlayOn
	s.firstMouse = true
}

func (s *Session) ToggleTimeOfDay() {
	s.TimeOfDay = s.TimeOfDay.Toggle()
}

// Advance applies one frame of held keys.
func (s *Session) Advance(dt float32, in Input) {
	if dt <= 0 {
		return
	}
	if m := in.movement(); m != 0 {
		s.Camera.ProcessKeyboard(m, dt, in.Boost)
	}
	if in.RaiseHeight != in.LowerHeight {
		step := float32(HeightScaleRate) * dt
		if in.LowerHeight {
			step = -step
		}
		s.HeightScale = mgl32.Clamp(s.HeightScale+step, 0, 1)
	}
}

// MouseMoved turns the camera by the cursor delta since the last event.
// The first event after a reset only records the position.
func (s *Session) MouseMoved(x, y float64) {
	if s.firstMouse {
		s.lastX, s.lastY = x, y
		s.firstMouse = false
	}
	xoffset := float32(x - s.lastX)
	yoffset := float32(s.lastY - y)
	s.lastX, s.lastY = x, y

	if s.CameraMouseUpdate {
		s.Camera.ProcessMouseMovement(xoffset, yoffset, true)
	}
}

func (s *Session) Scrolled(dy float64) {
	s.Camera.ProcessMouseScroll(float32(dy))
}

// Snapshot captures the part of the session that is saved on exit.
func (s *Session) Snapshot() state.ProgramState {
	return state.ProgramState{
		ClearColor:     s.ClearColor,
		ImGuiEnabled:   s.OverlayOn,
		CameraPosition: s.Camera.Position,
		CameraFront:    s.Camera.Front,
		HeightScale:    s.HeightScale,
	}
}

// Frame describes the image to draw for a framebuffer of the given size.
func (s *Session) Frame(width, height int) renderer.Frame {
	return renderer.Frame{
		Camera:            s.Camera,
		TimeOfDay:         s.TimeOfDay,
		ClearColor:        s.ClearColor,
		HeightScale:       s.HeightScale,
		NormalMapping:     s.NormalMapping,
		FramebufferWidth:  width,
		FramebufferHeight: height,
		Lamps:             s.Lamps,
	}
}
