package renderer

import (
	"errors"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrDegenerateUV is returned when a triangle's texture coordinates have no area.
var ErrDegenerateUV = errors.New("renderer: degenerate texture coordinates")

// NormalMappedStride is the number of floats per vertex in a normal-mapped
// stream: position, normal, uv, tangent, bitangent.
const NormalMappedStride = 3 + 3 + 2 + 3 + 3

type TangentBasis struct {
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
}

// ComputeTangentBasis returns the tangent space of one triangle. The vectors
// are not normalized; the shader normalizes after interpolation.
func ComputeTangentBasis(p1, p2, p3 mgl32.Vec3, uv1, uv2, uv3 mgl32.Vec2) (TangentBasis, error) {
	edge1 := p2.Sub(p1)
	edge2 := p3.Sub(p1)
	duv1 := uv2.Sub(uv1)
	duv2 := uv3.Sub(uv1)

	det := duv1.X()*duv2.Y() - duv2.X()*duv1.Y()
	if det == 0 {
		return TangentBasis{}, ErrDegenerateUV
	}
	f := 1 / det

	return TangentBasis{
		Tangent:   edge1.Mul(duv2.Y()).Sub(edge2.Mul(duv1.Y())).Mul(f),
		Bitangent: edge2.Mul(duv1.X()).Sub(edge1.Mul(duv2.X())).Mul(f),
	}, nil
}

// Quad is split into the triangles (1,2,3) and (1,3,4).
type Quad struct {
	Positions [4]mgl32.Vec3
	UVs       [4]mgl32.Vec2
	Normal    mgl32.Vec3
}

var quadTriangles = [2][3]int{{0, 1, 2}, {0, 2, 3}}

// GroundQuad is the 10x10 ground tile at y=-0.5 with its texture repeated 16 times.
func GroundQuad() Quad {
	return Quad{
		Positions: [4]mgl32.Vec3{
			{-5, -0.5, -5},
			{-5, -0.5, 5},
			{5, -0.5, 5},
			{5, -0.5, -5},
		},
		UVs: [4]mgl32.Vec2{
			{0, 16},
			{0, 0},
			{16, 0},
			{16, 16},
		},
		Normal: mgl32.Vec3{0, 1, 0},
	}
}

func (q Quad) TangentBases() ([2]TangentBasis, error) {
	var out [2]TangentBasis
	for t, tri := range quadTriangles {
		b, err := ComputeTangentBasis(
			q.Positions[tri[0]], q.Positions[tri[1]], q.Positions[tri[2]],
			q.UVs[tri[0]], q.UVs[tri[1]], q.UVs[tri[2]])
		if err != nil {
			return out, err
		}
		out[t] = b
	}
	return out, nil
}

// Vertices interleaves the two triangles into a stream of NormalMappedStride floats per vertex.
func (q Quad) Vertices() ([]float32, error) {
	bases, err := q.TangentBases()
	if err != nil {
		return nil, err
	}
	out := make([]float32, 0, 6*NormalMappedStride)
	for t, tri := range quadTriangles {
		b := bases[t]
		for _, i := range tri {
			p, uv := q.Positions[i], q.UVs[i]
			out = append(out,
				p[0], p[1], p[2],
				q.Normal[0], q.Normal[1], q.Normal[2],
				uv[0], uv[1],
				b.Tangent[0], b.Tangent[1], b.Tangent[2],
				b.Bitangent[0], b.Bitangent[1], b.Bitangent[2])
		}
	}
	return out, nil
}

// NormalMappedQuad computes its vertex stream on first use and reuses it afterwards.
type NormalMappedQuad struct {
	Quad Quad

	once     sync.Once
	vertices []float32
	err      error
}

func NewNormalMappedQuad(q Quad) *NormalMappedQuad {
	return &NormalMappedQuad{Quad: q}
}

func (n *NormalMappedQuad) Vertices() ([]float32, error) {
	n.once.Do(func() {
		n.vertices, n.err = n.Quad.Vertices()
	})
	return n.vertices, n.err
}
