package renderer

import (
	"fmt"
	"sort"

	"StreetScene/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Texture units of the normal-mapped ground.
const (
	diffuseUnit  = 0
	specularUnit = 1
	normalUnit   = 2
	depthUnit    = 3
)

// Frame is everything the renderer needs to draw one image.
type Frame struct {
	Camera            *Camera
	TimeOfDay         TimeOfDay
	ClearColor        mgl32.Vec3
	HeightScale       float32
	NormalMapping     bool
	FramebufferWidth  int
	FramebufferHeight int
	Lamps             []PointLight
}

// Aspect is the framebuffer aspect ratio, 1 for a degenerate framebuffer.
func (f Frame) Aspect() float32 {
	if f.FramebufferWidth <= 0 || f.FramebufferHeight <= 0 {
		return 1
	}
	return float32(f.FramebufferWidth) / float32(f.FramebufferHeight)
}

// Pass is one step of the frame.
type Pass int

const (
	PassClear Pass = iota
	PassObjects
	PassGround
	PassNormalMappedGround
	PassVegetation
	PassLampBulbs
	PassSkybox
)

func (p Pass) String() string {
	switch p {
	case PassClear:
		return "clear"
	case PassObjects:
		return "objects"
	case PassGround:
		return "ground"
	case PassNormalMappedGround:
		return "normal-mapped ground"
	case PassVegetation:
		return "vegetation"
	case PassLampBulbs:
		return "lamp bulbs"
	case PassSkybox:
		return "skybox"
	}
	return fmt.Sprintf("pass(%d)", int(p))
}

// Passes returns the draw order for f. Transparent vegetation follows every
// opaque pass and the sky is always last.
func Passes(f Frame) []Pass {
	passes := []Pass{PassClear, PassObjects}
	if f.NormalMapping {
		passes = append(passes, PassNormalMappedGround)
	} else {
		passes = append(passes, PassGround)
	}
	passes = append(passes, PassVegetation)
	if f.TimeOfDay == Night {
		passes = append(passes, PassLampBulbs)
	}
	return append(passes, PassSkybox)
}

// ModelLoader decodes a model file into CPU-side mesh data.
type ModelLoader func(path string) (*Model, error)

// Options configures NewSceneRenderer.
type Options struct {
	// ResolvePath maps a resource-relative path to a file path.
	ResolvePath    func(string) string
	LoadModel      ModelLoader
	MaxTextureSize int
}

// SceneRenderer owns every GPU resource of the street scene.
type SceneRenderer struct {
	shaders  map[string]*Shader
	textures *TextureManager
	models   map[string]*Model
	skybox   *Skybox
	targets  []PickTarget

	plane      *Primitive
	vegetation *Primitive
	lightCube  *Primitive
	groundNM   *Primitive

	grass         uint32
	bush          uint32
	groundDiffuse uint32
	groundNormal  uint32
	groundHeight  uint32
	white         uint32

	released bool
}

// NewSceneRenderer initializes OpenGL and creates every resource of the scene.
// A shader that fails to build is fatal; missing textures and models are
// logged and drawn as blank.
func NewSceneRenderer(opts Options) (*SceneRenderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("OpenGL initialization failed: %w", err)
	}
	logger.Log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	resolve := opts.ResolvePath
	if resolve == nil {
		resolve = func(p string) string { return p }
	}

	rend := &SceneRenderer{
		shaders:  make(map[string]*Shader, len(ShaderNames)),
		textures: NewTextureManager(opts.MaxTextureSize),
		models:   make(map[string]*Model, len(ModelAssets)),
	}

	var cleanup Unwind
	defer cleanup.Unwind()
	for _, name := range ShaderNames {
		shader, err := LoadShader(name)
		if err != nil {
			return nil, err
		}
		if err := shader.Compile(); err != nil {
			return nil, err
		}
		rend.shaders[name] = shader
		cleanup.Add(shader.Delete)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	rend.white = rend.textures.White()
	rend.grass = rend.textures.Texture(resolve(GrassTexture))
	rend.bush = rend.textures.Texture(resolve(BushTexture))
	rend.groundDiffuse = rend.textures.Texture(resolve(GroundDiffuseMap))
	rend.groundNormal = rend.textures.Texture(resolve(GroundNormalMap))
	rend.groundHeight = rend.textures.Texture(resolve(GroundHeightMap))

	rend.plane = NewPrimitive(PlaneVertices(), ModelLayout)
	rend.vegetation = NewPrimitive(TransparentQuadVertices(), PositionUVLayout)
	rend.lightCube = NewPrimitive(CubeVertices(0.5), PositionLayout)
	groundVertices, err := NewNormalMappedQuad(GroundQuad()).Vertices()
	if err != nil {
		logger.Log.Error("Normal-mapped ground unavailable", zap.Error(err))
	} else {
		rend.groundNM = NewPrimitive(groundVertices, NormalMappedLayout)
	}
	rend.skybox = NewSkybox(rend.textures, rend.shaders[SkyboxShader], resolve)

	if opts.LoadModel != nil {
		rend.loadModels(opts.LoadModel, resolve)
	}
	rend.targets = PickTargets(StreetScene(), rend.models)

	blending := rend.shaders[BlendingShader]
	blending.Use()
	blending.SetInt("texture1", 0)

	cleanup.Discard()
	rend.textures.LogStats()
	logger.Log.Info("Scene renderer initialized",
		zap.Int("shaders", len(rend.shaders)),
		zap.Int("models", len(rend.models)))
	return rend, nil
}

func (rend *SceneRenderer) loadModels(load ModelLoader, resolve func(string) string) {
	keys := make([]string, 0, len(ModelAssets))
	for key := range ModelAssets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := resolve(ModelAssets[key])
		model, err := load(path)
		if err != nil {
			logger.Log.Error("Model failed to load", zap.String("model", key), zap.String("path", path), zap.Error(err))
			continue
		}
		model.Name = key
		model.Upload(rend.textures)
		rend.models[key] = model
	}
}

// RenderFrame draws one frame into the current framebuffer.
func (rend *SceneRenderer) RenderFrame(f Frame) {
	if rend.released || f.Camera == nil {
		return
	}
	gl.Viewport(0, 0, int32(f.FramebufferWidth), int32(f.FramebufferHeight))

	projection := f.Camera.GetProjectionMatrix(f.Aspect())
	view := f.Camera.GetViewMatrix()
	lighting := LightingUniforms(f.Lamps, f.TimeOfDay, f.Camera.Position)

	for _, pass := range Passes(f) {
		switch pass {
		case PassClear:
			gl.ClearColor(f.ClearColor.X(), f.ClearColor.Y(), f.ClearColor.Z(), 1.0)
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		case PassObjects:
			rend.drawObjects(lighting, projection, view)
		case PassGround:
			rend.drawGround(projection, view)
		case PassNormalMappedGround:
			rend.drawNormalMappedGround(lighting, projection, view, f.HeightScale)
		case PassVegetation:
			rend.drawVegetation(lighting, projection, view)
		case PassLampBulbs:
			rend.drawLampBulbs(projection, view)
		case PassSkybox:
			rend.skybox.Render(f.Camera, projection, f.TimeOfDay)
		}
	}
}

func (rend *SceneRenderer) drawObjects(lighting UniformSet, projection, view mgl32.Mat4) {
	shader := rend.shaders[ModelLightingShader]
	shader.Use()
	shader.SetInt(DiffuseSampler, diffuseUnit)
	lighting.ApplyTo(shader)
	shader.SetMat4("projection", projection)
	shader.SetMat4("view", view)

	for _, p := range StreetScene() {
		model, ok := rend.models[p.Model]
		if !ok {
			continue
		}
		shader.SetMat4("model", p.Matrix())
		model.Draw(shader)
	}
}

// drawGround reuses the object shader state set by drawObjects.
func (rend *SceneRenderer) drawGround(projection, view mgl32.Mat4) {
	shader := rend.shaders[ModelLightingShader]
	shader.Use()
	shader.SetInt(DiffuseSampler, diffuseUnit)
	shader.SetInt(SpecularSampler, specularUnit)
	shader.SetMat4("projection", projection)
	shader.SetMat4("view", view)
	shader.SetMat4("model", GroundPlacement().Matrix())

	gl.ActiveTexture(gl.TEXTURE0 + specularUnit)
	gl.BindTexture(gl.TEXTURE_2D, rend.white)
	gl.ActiveTexture(gl.TEXTURE0 + diffuseUnit)
	gl.BindTexture(gl.TEXTURE_2D, rend.grass)
	rend.plane.Draw()
}

func (rend *SceneRenderer) drawNormalMappedGround(lighting UniformSet, projection, view mgl32.Mat4, heightScale float32) {
	if rend.groundNM == nil {
		rend.drawGround(projection, view)
		return
	}
	shader := rend.shaders[NormalMappingShader]
	shader.Use()
	lighting.ApplyTo(shader)
	shader.SetMat4("projection", projection)
	shader.SetMat4("view", view)
	shader.SetMat4("model", NormalMappedGroundPlacement().Matrix())
	shader.SetFloat("heightScale", heightScale)
	shader.SetInt(DiffuseSampler, diffuseUnit)
	shader.SetInt(SpecularSampler, specularUnit)
	shader.SetInt("normalMap", normalUnit)
	shader.SetInt("depthMap", depthUnit)

	bind := [...]uint32{
		diffuseUnit:  rend.groundDiffuse,
		specularUnit: rend.white,
		normalUnit:   rend.groundNormal,
		depthUnit:    rend.groundHeight,
	}
	for unit, tex := range bind {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, tex)
	}
	rend.groundNM.Draw()
	gl.ActiveTexture(gl.TEXTURE0)
}

func (rend *SceneRenderer) drawVegetation(lighting UniformSet, projection, view mgl32.Mat4) {
	shader := rend.shaders[BlendingShader]
	shader.Use()
	lighting.ApplyTo(shader)
	shader.SetMat4("projection", projection)
	shader.SetMat4("view", view)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, rend.bush)
	for _, p := range VegetationPlacements() {
		shader.SetMat4("model", p.Matrix())
		rend.vegetation.Draw()
	}
}

func (rend *SceneRenderer) drawLampBulbs(projection, view mgl32.Mat4) {
	shader := rend.shaders[LightSourceShader]
	shader.Use()
	shader.SetMat4("projection", projection)
	shader.SetMat4("view", view)
	shader.SetVec3("lightColor", LampBulbColor.X(), LampBulbColor.Y(), LampBulbColor.Z())

	for _, p := range LampBulbPlacements() {
		shader.SetMat4("model", p.Matrix())
		rend.lightCube.Draw()
	}
}

// Pick reports the placed model or ground point under ray.
func (rend *SceneRenderer) Pick(ray Ray) (PickHit, bool) {
	return Pick(ray, rend.targets, GroundPlacement().Translate.Y())
}

// MissingUniforms lists, per shader, the uniform names that did not resolve.
func (rend *SceneRenderer) MissingUniforms() map[string][]string {
	out := make(map[string][]string)
	for name, shader := range rend.shaders {
		if missing := shader.Uniforms.Missing(); len(missing) > 0 {
			out[name] = missing
		}
	}
	return out
}

// TextureStats exposes the texture cache counters.
func (rend *SceneRenderer) TextureStats() TextureStats {
	return rend.textures.GetStats()
}

// Cleanup releases every GPU resource. Safe to call more than once.
func (rend *SceneRenderer) Cleanup() {
	if rend.released {
		return
	}
	rend.released = true

	for _, model := range rend.models {
		model.Release(rend.textures)
	}
	for _, p := range []*Primitive{rend.plane, rend.vegetation, rend.lightCube, rend.groundNM} {
		if p != nil {
			p.Release()
		}
	}
	if rend.skybox != nil {
		rend.skybox.Cleanup()
	}
	for _, shader := range rend.shaders {
		shader.Delete()
	}
	rend.textures.LogStats()
	rend.textures.Clear()
	logger.Log.Info("Scene renderer released")
}
