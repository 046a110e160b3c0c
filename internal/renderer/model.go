package renderer

import (
	"image"

	"StreetScene/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// VertexStride is the number of floats per model vertex: position, normal, uv.
const VertexStride = 3 + 3 + 2

// Sampler names the model shader reads its maps from.
const (
	DiffuseSampler  = "material.texture_diffuse1"
	SpecularSampler = "material.texture_specular1"
)

// DefaultMaterial is used by faces that reference no material.
var DefaultMaterial = Material{
	Name:          "default",
	DiffuseColor:  [3]float32{1, 1, 1},
	SpecularColor: [3]float32{0.5, 0.5, 0.5},
	Shininess:     MaterialShininess,
	Alpha:         1,
}

type Material struct {
	// HOT DATA - bound every draw
	DiffuseTexture  uint32
	SpecularTexture uint32
	DiffuseColor    [3]float32
	SpecularColor   [3]float32
	Shininess       float32
	Alpha           float32

	// COLD DATA - resolved once at upload
	Name         string
	DiffuseMap   string      // path of the diffuse map, if any
	SpecularMap  string      // path of the specular map, if any
	NormalMap    string      // path of the bump/normal map, if any
	DiffuseImage image.Image // embedded diffuse image (binary glTF)
}

// MaterialGroup is a range of the index buffer drawn with one material.
type MaterialGroup struct {
	Material   *Material
	IndexStart int32
	IndexCount int32
}

// Model is a loaded mesh: CPU data from the loader plus its GPU buffers.
type Model struct {
	// HOT DATA - used every frame
	VAO            uint32
	VBO            uint32
	EBO            uint32
	MaterialGroups []MaterialGroup

	// COLD DATA - filled by the loader
	Name            string
	SourcePath      string
	InterleavedData []float32 // VertexStride floats per vertex
	Faces           []uint32
	uploaded        bool
}

func (m *Model) VertexCount() int {
	return len(m.InterleavedData) / VertexStride
}

// Bounds returns the axis-aligned bounding box in model space.
func (m *Model) Bounds() (min, max mgl32.Vec3) {
	for i := 0; i+2 < len(m.InterleavedData); i += VertexStride {
		p := mgl32.Vec3{m.InterleavedData[i], m.InterleavedData[i+1], m.InterleavedData[i+2]}
		if i == 0 {
			min, max = p, p
			continue
		}
		for c := 0; c < 3; c++ {
			if p[c] < min[c] {
				min[c] = p[c]
			}
			if p[c] > max[c] {
				max[c] = p[c]
			}
		}
	}
	return min, max
}

// Upload creates the vertex and index buffers and resolves every material's
// textures through tm. Missing textures are logged and left at handle 0.
func (m *Model) Upload(tm *TextureManager) {
	if m.uploaded {
		return
	}
	if len(m.InterleavedData) == 0 || len(m.Faces) == 0 {
		logger.Log.Warn("Skipping empty model", zap.String("model", m.Name))
		return
	}

	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.InterleavedData)*4, gl.Ptr(m.InterleavedData), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Faces)*4, gl.Ptr(m.Faces), gl.STATIC_DRAW)

	stride := int32(VertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)
	gl.BindVertexArray(0)

	if len(m.MaterialGroups) == 0 {
		def := DefaultMaterial
		m.MaterialGroups = []MaterialGroup{{Material: &def, IndexCount: int32(len(m.Faces))}}
	}
	for _, g := range m.MaterialGroups {
		g.Material.resolveTextures(tm, m.SourcePath)
	}
	m.uploaded = true

	logger.Log.Info("Model uploaded",
		zap.String("model", m.Name),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", len(m.Faces)/3),
		zap.Int("materialGroups", len(m.MaterialGroups)))
}

// EmbeddedTextureKey names an in-memory diffuse image in the texture cache.
// Material names repeat across files, so the source file is part of the key.
func EmbeddedTextureKey(source, material string) string {
	return source + "#" + material + "#diffuse"
}

func (mat *Material) resolveTextures(tm *TextureManager, source string) {
	switch {
	case mat.DiffuseImage != nil:
		mat.DiffuseTexture = tm.TextureFromImage(mat.DiffuseImage, EmbeddedTextureKey(source, mat.Name))
	case mat.DiffuseMap != "":
		mat.DiffuseTexture = tm.Texture(mat.DiffuseMap)
	}
	if mat.DiffuseTexture == 0 {
		mat.DiffuseTexture = tm.White()
	}
	if mat.SpecularMap != "" {
		mat.SpecularTexture = tm.Texture(mat.SpecularMap)
	}
	if mat.SpecularTexture == 0 {
		mat.SpecularTexture = tm.White()
	}
}

// Draw binds each material group's maps and issues one draw per group.
func (m *Model) Draw(u UniformSink) {
	if !m.uploaded {
		return
	}
	u.SetInt(DiffuseSampler, 0)
	u.SetInt(SpecularSampler, 1)

	gl.BindVertexArray(m.VAO)
	for _, g := range m.MaterialGroups {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, g.Material.DiffuseTexture)
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, g.Material.SpecularTexture)
		gl.DrawElements(gl.TRIANGLES, g.IndexCount, gl.UNSIGNED_INT, gl.PtrOffset(int(g.IndexStart)*4))
	}
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
}

// Release deletes the GPU buffers and hands back the texture references
// taken by Upload. tm may be nil when the textures are cleared wholesale.
func (m *Model) Release(tm *TextureManager) {
	if !m.uploaded {
		return
	}
	gl.DeleteVertexArrays(1, &m.VAO)
	gl.DeleteBuffers(1, &m.VBO)
	gl.DeleteBuffers(1, &m.EBO)
	if tm != nil {
		for _, g := range m.MaterialGroups {
			tm.ReleaseTexture(g.Material.DiffuseTexture)
			tm.ReleaseTexture(g.Material.SpecularTexture)
		}
	}
	m.uploaded = false
}
