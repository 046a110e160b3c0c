package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Vertex layouts as attribute sizes; attribute i is bound to location i.
var (
	PositionLayout     = []int32{3}
	PositionUVLayout   = []int32{3, 2}
	ModelLayout        = []int32{3, 3, 2}
	NormalMappedLayout = []int32{3, 3, 2, 3, 3}
)

// PlaneVertices is the grass tile: 10x10 at y=-0.5 facing up, texture
// repeated 16 times.
func PlaneVertices() []float32 {
	return []float32{
		// positions      normals    uv
		5, -0.5, 5, 0, 1, 0, 16, 0,
		-5, -0.5, 5, 0, 1, 0, 0, 0,
		-5, -0.5, -5, 0, 1, 0, 0, 16,

		5, -0.5, 5, 0, 1, 0, 16, 0,
		-5, -0.5, -5, 0, 1, 0, 0, 16,
		5, -0.5, -5, 0, 1, 0, 16, 16,
	}
}

// TransparentQuadVertices is the unit billboard used for bushes. The v
// coordinate runs top to bottom because images are uploaded unflipped.
func TransparentQuadVertices() []float32 {
	return []float32{
		0, 0.5, 0, 0, 0,
		0, -0.5, 0, 0, 1,
		1, -0.5, 0, 1, 1,

		0, 0.5, 0, 0, 0,
		1, -0.5, 0, 1, 1,
		1, 0.5, 0, 1, 0,
	}
}

// cubeFaces lists the corners of each face as sign triples, two triangles
// per face.
var cubeFaces = [6][6][3]float32{
	{{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {1, 1, -1}, {-1, 1, -1}, {-1, -1, -1}},
	{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {1, 1, 1}, {-1, 1, 1}, {-1, -1, 1}},
	{{-1, 1, 1}, {-1, 1, -1}, {-1, -1, -1}, {-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}},
	{{1, 1, 1}, {1, 1, -1}, {1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {1, 1, 1}},
	{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {1, -1, 1}, {-1, -1, 1}, {-1, -1, -1}},
	{{-1, 1, -1}, {1, 1, -1}, {1, 1, 1}, {1, 1, 1}, {-1, 1, 1}, {-1, 1, -1}},
}

// CubeVertices returns the 36 positions of an axis-aligned cube with the
// given half extent.
func CubeVertices(half float32) []float32 {
	vertices := make([]float32, 0, 36*3)
	for _, face := range cubeFaces {
		for _, c := range face {
			vertices = append(vertices, c[0]*half, c[1]*half, c[2]*half)
		}
	}
	return vertices
}

func layoutStride(layout []int32) int32 {
	var n int32
	for _, size := range layout {
		n += size
	}
	return n
}

// Primitive is a non-indexed triangle list in its own vertex array.
type Primitive struct {
	VAO   uint32
	VBO   uint32
	Count int32
}

// NewPrimitive uploads vertices laid out as described by layout.
func NewPrimitive(vertices []float32, layout []int32) *Primitive {
	stride := layoutStride(layout)
	p := &Primitive{Count: int32(len(vertices)) / stride}

	gl.GenVertexArrays(1, &p.VAO)
	gl.GenBuffers(1, &p.VBO)
	gl.BindVertexArray(p.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	offset := 0
	for i, size := range layout {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointer(uint32(i), size, gl.FLOAT, false, stride*4, gl.PtrOffset(offset*4))
		offset += int(size)
	}
	gl.BindVertexArray(0)
	return p
}

func (p *Primitive) Draw() {
	gl.BindVertexArray(p.VAO)
	gl.DrawArrays(gl.TRIANGLES, 0, p.Count)
	gl.BindVertexArray(0)
}

// Release frees the buffers. Safe to call more than once.
func (p *Primitive) Release() {
	if p.VAO == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &p.VAO)
	gl.DeleteBuffers(1, &p.VBO)
	p.VAO, p.VBO = 0, 0
}
