package renderer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGroundQuadTangentBasis(t *testing.T) {
	bases, err := GroundQuad().TangentBases()
	if err != nil {
		t.Fatalf("TangentBases failed: %v", err)
	}

	wantT := mgl32.Vec3{0.625, 0, 0}
	wantB := mgl32.Vec3{0, 0, -0.625}
	for i, b := range bases {
		if !b.Tangent.ApproxEqualThreshold(wantT, 1e-6) {
			t.Errorf("Triangle %d: expected tangent %v, got %v", i+1, wantT, b.Tangent)
		}
		if !b.Bitangent.ApproxEqualThreshold(wantB, 1e-6) {
			t.Errorf("Triangle %d: expected bitangent %v, got %v", i+1, wantB, b.Bitangent)
		}
	}
}

func TestTangentBasisIsOrthogonalToNormal(t *testing.T) {
	q := GroundQuad()
	bases, err := q.TangentBases()
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range bases {
		if d := b.Tangent.Dot(q.Normal); d != 0 {
			t.Errorf("Triangle %d: tangent not in the quad's plane (dot=%v)", i+1, d)
		}
		if d := b.Bitangent.Dot(q.Normal); d != 0 {
			t.Errorf("Triangle %d: bitangent not in the quad's plane (dot=%v)", i+1, d)
		}
	}
}

func TestUnitQuadTangentBasis(t *testing.T) {
	b, err := ComputeTangentBasis(
		mgl32.Vec3{-1, 1, 0}, mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, -1, 0},
		mgl32.Vec2{0, 1}, mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if !b.Tangent.ApproxEqual(mgl32.Vec3{2, 0, 0}) {
		t.Errorf("Unexpected tangent %v", b.Tangent)
	}
	if !b.Bitangent.ApproxEqual(mgl32.Vec3{0, 2, 0}) {
		t.Errorf("Unexpected bitangent %v", b.Bitangent)
	}
}

func TestDegenerateUVs(t *testing.T) {
	_, err := ComputeTangentBasis(
		mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1},
		mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, mgl32.Vec2{2, 2})
	if !errors.Is(err, ErrDegenerateUV) {
		t.Errorf("Expected ErrDegenerateUV, got %v", err)
	}
}

func TestNormalMappedQuadVertices(t *testing.T) {
	nq := NewNormalMappedQuad(GroundQuad())

	first, err := nq.Vertices()
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 6*NormalMappedStride {
		t.Fatalf("Expected %d floats, got %d", 6*NormalMappedStride, len(first))
	}

	// fourth vertex is the first corner again, starting triangle two
	v3 := first[3*NormalMappedStride : 4*NormalMappedStride]
	if v3[0] != -5 || v3[2] != -5 {
		t.Errorf("Triangle two should start at corner one, got %v", v3[:3])
	}
	if v3[8] != 0.625 || v3[13] != -0.625 {
		t.Errorf("Unexpected tangent basis in stream: %v", v3[8:])
	}

	second, _ := nq.Vertices()
	if &first[0] != &second[0] {
		t.Error("Vertices should be computed once and cached")
	}
}
