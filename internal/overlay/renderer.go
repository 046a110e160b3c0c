package overlay

import (
	"fmt"

	"StreetScene/internal/logger"
	"StreetScene/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/inkyblackness/imgui-go/v4"
	"go.uber.org/zap"
)

const overlayVertexShader = `#version 410 core
uniform mat4 ProjMtx;
in vec2 Position;
in vec2 UV;
in vec4 Color;
out vec2 Frag_UV;
out vec4 Frag_Color;
void main()
{
	Frag_UV = UV;
	Frag_Color = Color;
	gl_Position = ProjMtx * vec4(Position.xy, 0, 1);
}
`

const overlayFragmentShader = `#version 410 core
uniform sampler2D Texture;
in vec2 Frag_UV;
in vec4 Frag_Color;
out vec4 Out_Color;
void main()
{
	Out_Color = vec4(Frag_Color.rgb, Frag_Color.a * texture(Texture, Frag_UV.st).r);
}
`

// OpenGL3 draws ImGui draw data with a core profile context.
type OpenGL3 struct {
	io imgui.IO

	fontTexture   uint32
	program       uint32
	locTex        int32
	locProjMtx    int32
	locPosition   int32
	locUV         int32
	locColor      int32
	vbo, elements uint32
}

// NewOpenGL3 compiles the overlay shader and uploads the font atlas.
func NewOpenGL3(io imgui.IO) (*OpenGL3, error) {
	r := &OpenGL3{io: io}
	if err := r.createDeviceObjects(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *OpenGL3) createDeviceObjects() error {
	vs, err := renderer.GenShader(overlayVertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("overlay shader: %w", err)
	}
	fs, err := renderer.GenShader(overlayFragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return fmt.Errorf("overlay shader: %w", err)
	}
	program, err := renderer.GenShaderProgram(vs, fs)
	if err != nil {
		return fmt.Errorf("overlay shader: %w", err)
	}
	r.program = program
	r.locTex = gl.GetUniformLocation(program, gl.Str("Texture\x00"))
	r.locProjMtx = gl.GetUniformLocation(program, gl.Str("ProjMtx\x00"))
	r.locPosition = gl.GetAttribLocation(program, gl.Str("Position\x00"))
	r.locUV = gl.GetAttribLocation(program, gl.Str("UV\x00"))
	r.locColor = gl.GetAttribLocation(program, gl.Str("Color\x00"))

	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.elements)

	r.createFontsTexture()
	return nil
}

func (r *OpenGL3) createFontsTexture() {
	fonts := r.io.Fonts()
	image := fonts.TextureDataAlpha8()

	var last int32
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &last)
	gl.GenTextures(1, &r.fontTexture)
	gl.BindTexture(gl.TEXTURE_2D, r.fontTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(image.Width), int32(image.Height),
		0, gl.RED, gl.UNSIGNED_BYTE, image.Pixels)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	fonts.SetTextureID(imgui.TextureID(r.fontTexture))
	gl.BindTexture(gl.TEXTURE_2D, uint32(last))
	logger.Log.Debug("Overlay font atlas uploaded",
		zap.Int("width", image.Width), zap.Int("height", image.Height))
}

// Render draws one frame of ImGui output on top of the scene.
func (r *OpenGL3) Render(displaySize, framebufferSize [2]float32, drawData imgui.DrawData) {
	fbWidth, fbHeight := framebufferSize[0], framebufferSize[1]
	if fbWidth <= 0 || fbHeight <= 0 || displaySize[0] <= 0 || displaySize[1] <= 0 {
		return
	}
	drawData.ScaleClipRects(imgui.Vec2{
		X: fbWidth / displaySize[0],
		Y: fbHeight / displaySize[1],
	})

	saved := saveGLState()
	defer saved.restore()

	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))

	proj := orthoProjection(displaySize)
	gl.UseProgram(r.program)
	gl.Uniform1i(r.locTex, 0)
	gl.UniformMatrix4fv(r.locProjMtx, 1, false, &proj[0])
	gl.BindSampler(0, 0)
	gl.ActiveTexture(gl.TEXTURE0)

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.EnableVertexAttribArray(uint32(r.locPosition))
	gl.EnableVertexAttribArray(uint32(r.locUV))
	gl.EnableVertexAttribArray(uint32(r.locColor))
	vertexSize, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()
	gl.VertexAttribPointer(uint32(r.locPosition), 2, gl.FLOAT, false, int32(vertexSize), gl.PtrOffset(posOffset))
	gl.VertexAttribPointer(uint32(r.locUV), 2, gl.FLOAT, false, int32(vertexSize), gl.PtrOffset(uvOffset))
	gl.VertexAttribPointer(uint32(r.locColor), 4, gl.UNSIGNED_BYTE, true, int32(vertexSize), gl.PtrOffset(colOffset))

	indexSize := imgui.IndexBufferLayout()
	drawType := uint32(gl.UNSIGNED_SHORT)
	if indexSize == 4 {
		drawType = gl.UNSIGNED_INT
	}

	for _, list := range drawData.CommandLists() {
		vertexBuffer, vertexBufferSize := list.VertexBuffer()
		gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, vertexBufferSize, vertexBuffer, gl.STREAM_DRAW)

		indexBuffer, indexBufferSize := list.IndexBuffer()
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.elements)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indexBufferSize, indexBuffer, gl.STREAM_DRAW)

		offset := 0
		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
			} else {
				gl.BindTexture(gl.TEXTURE_2D, uint32(cmd.TextureID()))
				clip := cmd.ClipRect()
				x, y, w, h := scissorBox(clip, fbHeight)
				gl.Scissor(x, y, w, h)
				gl.DrawElements(gl.TRIANGLES, int32(cmd.ElementCount()), drawType, gl.PtrOffset(offset))
			}
			offset += cmd.ElementCount() * indexSize
		}
	}
	gl.DeleteVertexArrays(1, &vao)
}

// orthoProjection maps ImGui's top-left origin pixel space onto clip space.
func orthoProjection(displaySize [2]float32) [16]float32 {
	w, h := displaySize[0], displaySize[1]
	return [16]float32{
		2 / w, 0, 0, 0,
		0, -2 / h, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}

// scissorBox converts a clip rectangle (x1, y1, x2, y2 from the top left)
// into GL scissor arguments, whose origin is the bottom left.
func scissorBox(clip imgui.Vec4, fbHeight float32) (x, y, w, h int32) {
	return int32(clip.X), int32(fbHeight - clip.W), int32(clip.Z - clip.X), int32(clip.W - clip.Y)
}

// Dispose releases the GL objects. Safe to call twice.
func (r *OpenGL3) Dispose() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.elements != 0 {
		gl.DeleteBuffers(1, &r.elements)
		r.elements = 0
	}
	if r.fontTexture != 0 {
		gl.DeleteTextures(1, &r.fontTexture)
		r.io.Fonts().SetTextureID(0)
		r.fontTexture = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// glState is the subset of pipeline state the overlay changes.
type glState struct {
	program, texture, arrayBuffer, vertexArray int32
	viewport, scissor                        [4]int32
	blendSrcRGB, blendDstRGB                 int32
	blendSrcAlpha, blendDstAlpha             int32
	blendEqRGB, blendEqAlpha                 int32
	polygonMode                              [2]int32
	blend, cull, depth, scissorTest          bool
}

func saveGLState() glState {
	var s glState
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &s.program)
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &s.texture)
	gl.GetIntegerv(gl.ARRAY_BUFFER_BINDING, &s.arrayBuffer)
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &s.vertexArray)
	gl.GetIntegerv(gl.POLYGON_MODE, &s.polygonMode[0])
	gl.GetIntegerv(gl.VIEWPORT, &s.viewport[0])
	gl.GetIntegerv(gl.SCISSOR_BOX, &s.scissor[0])
	gl.GetIntegerv(gl.BLEND_SRC_RGB, &s.blendSrcRGB)
	gl.GetIntegerv(gl.BLEND_DST_RGB, &s.blendDstRGB)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &s.blendSrcAlpha)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &s.blendDstAlpha)
	gl.GetIntegerv(gl.BLEND_EQUATION_RGB, &s.blendEqRGB)
	gl.GetIntegerv(gl.BLEND_EQUATION_ALPHA, &s.blendEqAlpha)
	s.blend = gl.IsEnabled(gl.BLEND)
	s.cull = gl.IsEnabled(gl.CULL_FACE)
	s.depth = gl.IsEnabled(gl.DEPTH_TEST)
	s.scissorTest = gl.IsEnabled(gl.SCISSOR_TEST)
	return s
}

func (s glState) restore() {
	gl.UseProgram(uint32(s.program))
	gl.BindTexture(gl.TEXTURE_2D, uint32(s.texture))
	gl.BindVertexArray(uint32(s.vertexArray))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(s.arrayBuffer))
	gl.BlendEquationSeparate(uint32(s.blendEqRGB), uint32(s.blendEqAlpha))
	gl.BlendFuncSeparate(uint32(s.blendSrcRGB), uint32(s.blendDstRGB), uint32(s.blendSrcAlpha), uint32(s.blendDstAlpha))
	setEnabled(gl.BLEND, s.blend)
	setEnabled(gl.CULL_FACE, s.cull)
	setEnabled(gl.DEPTH_TEST, s.depth)
	setEnabled(gl.SCISSOR_TEST, s.scissorTest)
	gl.PolygonMode(gl.FRONT_AND_BACK, uint32(s.polygonMode[0]))
	gl.Viewport(s.viewport[0], s.viewport[1], s.viewport[2], s.viewport[3])
	gl.Scissor(s.scissor[0], s.scissor[1], s.scissor[2], s.scissor[3])
}

func setEnabled(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}
