package engine

import (
	"StreetScene/internal/overlay"
	"StreetScene/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// colorref packs a color as a Windows COLORREF (0x00BBGGRR).
func colorref(c mgl32.Vec3) uint32 {
	to8 := func(v float32) uint32 { return uint32(mgl32.Clamp(v, 0, 1)*255 + 0.5) }
	return to8(c[0]) | to8(c[1])<<8 | to8(c[2])<<16
}

func (s *Session) sceneControls(missing map[string][]string) overlay.SceneControls {
	c := overlay.SceneControls{
		ClearColor:      s.ClearColor,
		Night:           s.TimeOfDay == renderer.Night,
		HeightScale:     s.HeightScale,
		MissingUniforms: missing,
	}
	if len(s.Lamps) > 0 {
		c.Lamp = s.Lamps[0]
	}
	return c
}

// applySceneControls copies panel edits back. Only the attenuation of the
// first lamp is editable.
func (s *Session) applySceneControls(c overlay.SceneControls) {
	s.ClearColor = c.ClearColor
	if c.Night {
		s.TimeOfDay = renderer.Night
	} else {
		s.TimeOfDay = renderer.Day
	}
	s.HeightScale = mgl32.Clamp(c.HeightScale, 0, 1)
	if len(s.Lamps) > 0 {
		s.Lamps[0].Constant = c.Lamp.Constant
		s.Lamps[0].Linear = c.Lamp.Linear
		s.Lamps[0].Quadratic = c.Lamp.Quadratic
	}
}

func (s *Session) cameraControls() overlay.CameraControls {
	return overlay.CameraControls{
		Position:    s.Camera.Position,
		Front:       s.Camera.Front,
		Yaw:         s.Camera.Yaw,
		Pitch:       s.Camera.Pitch,
		MouseUpdate: s.CameraMouseUpdate,
	}
}

func (s *Session) applyCameraControls(c overlay.CameraControls) {
	if c.MouseUpdate && !s.CameraMouseUpdate {
		s.firstMouse = true
	}
	s.CameraMouseUpdate = c.MouseUpdate
}
