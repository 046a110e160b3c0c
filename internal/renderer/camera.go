// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraMovement is a set of movement directions held this frame.
type CameraMovement uint8

const (
	MoveForward CameraMovement = 1 << iota
	MoveBackward
	MoveLeft
	MoveRight
)

const (
	DefaultYaw         = -90.0
	DefaultPitch       = 0.0
	DefaultSpeed       = 2.5
	DefaultSensitivity = 0.1
	DefaultZoom        = 45.0

	MinZoom       = 1.0
	MaxZoom       = 45.0
	BoostFactor   = 2.5
	NearPlane     = 0.1
	FarPlane      = 3000.0
	maxPitchAngle = 89.0
)

type Camera struct {
	// HOT DATA - read every frame for the view matrix
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Zoom     float32

	// COLD DATA - input tuning
	WorldUp     mgl32.Vec3
	Speed       float32
	Sensitivity float32
}

func NewDefaultCamera(position mgl32.Vec3) *Camera {
	camera := Camera{
		Position:    position,
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Yaw:         DefaultYaw,
		Pitch:       DefaultPitch,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
		Zoom:        DefaultZoom,
	}
	camera.updateCameraVectors()
	return &camera
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// GetProjectionMatrix uses the zoom as vertical field of view.
func (c *Camera) GetProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 || math.IsNaN(float64(aspect)) {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Zoom), aspect, NearPlane, FarPlane)
}

// GetSkyboxViewMatrix is the view matrix with its translation removed.
func (c *Camera) GetSkyboxViewMatrix() mgl32.Mat4 {
	return c.GetViewMatrix().Mat3().Mat4()
}

func (c *Camera) ProcessKeyboard(move CameraMovement, deltaTime float32, boost bool) {
	velocity := c.Speed * deltaTime
	if boost {
		velocity *= BoostFactor
	}

	if move&MoveForward != 0 {
		c.Position = c.Position.Add(c.Front.Mul(velocity))
	}
	if move&MoveBackward != 0 {
		c.Position = c.Position.Sub(c.Front.Mul(velocity))
	}
	if move&MoveLeft != 0 {
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	}
	if move&MoveRight != 0 {
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	}
}

func (c *Camera) ProcessMouseMovement(xoffset, yoffset float32, constrainPitch bool) {
	xoffset *= c.Sensitivity
	yoffset *= c.Sensitivity

	c.Yaw += xoffset
	c.Pitch += yoffset

	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -maxPitchAngle, maxPitchAngle)
	}
	c.updateCameraVectors()
}

func (c *Camera) ProcessMouseScroll(yoffset float32) {
	c.Zoom = mgl32.Clamp(c.Zoom-yoffset, MinZoom, MaxZoom)
}

// SetFront points the camera along front (typically restored from disk).
// Yaw and pitch are derived from it so later mouse input continues smoothly;
// the stored vector itself is kept as given.
func (c *Camera) SetFront(front mgl32.Vec3) {
	if front.Len() == 0 {
		return
	}
	dir := front.Normalize()
	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(dir.Y(), -1, 1)))))
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(dir.Z()), float64(dir.X()))))
	c.Front = front
	c.updateBasis()
}

func (c *Camera) updateCameraVectors() {
	yawRad := float64(mgl32.DegToRad(c.Yaw))
	pitchRad := float64(mgl32.DegToRad(c.Pitch))

	front := mgl32.Vec3{
		float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}
	c.Front = front.Normalize()
	c.updateBasis()
}

func (c *Camera) updateBasis() {
	right := c.Front.Cross(c.WorldUp)
	if right.Len() < 1e-6 {
		// looking straight up or down; keep the previous right vector
		right = c.Right
		if right.Len() == 0 {
			right = mgl32.Vec3{1, 0, 0}
		}
	}
	c.Right = right.Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
