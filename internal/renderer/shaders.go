package renderer

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"StreetScene/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

//go:embed shaders
var shaderFiles embed.FS

const includeDirective = `#include "lighting.glsl"`

// Shader programs used by the street scene.
const (
	ModelLightingShader = "model_lighting"
	BlendingShader      = "blending"
	LightSourceShader   = "light_source"
	SkyboxShader        = "skybox"
	NormalMappingShader = "normal_mapping"
)

// ShaderNames lists every program in compile order.
var ShaderNames = []string{
	ModelLightingShader,
	BlendingShader,
	LightSourceShader,
	SkyboxShader,
	NormalMappingShader,
}

var ErrShaderCompile = errors.New("renderer: shader compilation failed")

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	Name           string
	vertexSource   string
	fragmentSource string
	program        uint32
	Uniforms       *UniformCache
}

// LoadShader reads the embedded sources of the named program and expands
// the shared lighting include. The program is not compiled yet.
func LoadShader(name string) (*Shader, error) {
	vs, err := shaderSource(name + ".vs")
	if err != nil {
		return nil, err
	}
	fs, err := shaderSource(name + ".fs")
	if err != nil {
		return nil, err
	}
	return &Shader{Name: name, vertexSource: vs, fragmentSource: fs}, nil
}

func shaderSource(file string) (string, error) {
	data, err := shaderFiles.ReadFile("shaders/" + file)
	if err != nil {
		return "", fmt.Errorf("shader source %s: %w", file, err)
	}
	src := string(data)
	if strings.Contains(src, includeDirective) {
		lighting, err := shaderFiles.ReadFile("shaders/lighting.glsl")
		if err != nil {
			return "", fmt.Errorf("shader include: %w", err)
		}
		src = strings.Replace(src, includeDirective, string(lighting), 1)
	}
	return src, nil
}

// Compile builds and links the program and resets its uniform cache.
func (shader *Shader) Compile() error {
	vertexShader, err := GenShader(shader.vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("%s: %w", shader.Name, err)
	}
	fragmentShader, err := GenShader(shader.fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return fmt.Errorf("%s: %w", shader.Name, err)
	}
	program, err := GenShaderProgram(vertexShader, fragmentShader)
	if err != nil {
		return fmt.Errorf("%s: %w", shader.Name, err)
	}
	shader.program = program
	shader.Uniforms = NewUniformCache(program, shader.Name)
	logger.Log.Debug("Shader compiled", zap.String("shader", shader.Name), zap.Uint32("program", program))
	return nil
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) Program() uint32 {
	return shader.program
}

func (shader *Shader) SetInt(name string, value int32) {
	shader.Uniforms.SetInt(name, value)
}

func (shader *Shader) SetFloat(name string, value float32) {
	shader.Uniforms.SetFloat(name, value)
}

func (shader *Shader) SetVec3(name string, x, y, z float32) {
	shader.Uniforms.SetVec3(name, x, y, z)
}

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) {
	shader.Uniforms.SetMat4(name, value)
}

// Delete frees the program. Safe to call more than once.
func (shader *Shader) Delete() {
	if shader.program == 0 {
		return
	}
	gl.DeleteProgram(shader.program)
	shader.program = 0
}

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile", zap.Uint32("shader type:", shaderType), zap.String("log", log))
		return 0, fmt.Errorf("%w: %s", ErrShaderCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("%w: link: %s", ErrShaderCompile, strings.TrimRight(log, "\x00"))
	}
	return program, nil
}
