package renderer

import (
	"StreetScene/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Skybox holds the day and night cubemaps and the cube they are drawn on.
type Skybox struct {
	cube   *Primitive
	Day    uint32
	Night  uint32
	Shader *Shader
}

// NewSkybox loads both cubemaps through tm. resolve maps a face path
// relative to the resource directory to a file path.
func NewSkybox(tm *TextureManager, shader *Shader, resolve func(string) string) *Skybox {
	s := &Skybox{
		cube:   NewPrimitive(CubeVertices(1), PositionLayout),
		Shader: shader,
	}
	s.Day = tm.Cubemap(resolveFaces(SkyboxFaces(Day), resolve))
	s.Night = tm.Cubemap(resolveFaces(SkyboxFaces(Night), resolve))

	shader.Use()
	shader.SetInt("skybox", 0)
	logger.Log.Info("Skybox created",
		zap.Uint32("day", s.Day),
		zap.Uint32("night", s.Night))
	return s
}

func resolveFaces(faces [6]string, resolve func(string) string) [6]string {
	for i := range faces {
		faces[i] = resolve(faces[i])
	}
	return faces
}

// Cubemap returns the texture for the time of day.
func (s *Skybox) Cubemap(tod TimeOfDay) uint32 {
	if tod == Night {
		return s.Night
	}
	return s.Day
}

// Render draws the sky behind everything already in the depth buffer.
// It must be the last draw of the frame.
func (s *Skybox) Render(camera *Camera, projection mgl32.Mat4, tod TimeOfDay) {
	gl.DepthFunc(gl.LEQUAL)

	s.Shader.Use()
	s.Shader.SetInt("skybox", 0)
	s.Shader.SetMat4("view", camera.GetSkyboxViewMatrix())
	s.Shader.SetMat4("projection", projection)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, s.Cubemap(tod))
	s.cube.Draw()

	gl.DepthFunc(gl.LESS)
}

// Cleanup frees the cube geometry. The cubemaps belong to the TextureManager.
func (s *Skybox) Cleanup() {
	s.cube.Release()
}
