package loader

import (
	"path/filepath"
	"testing"

	"StreetScene/internal/logger"
	"StreetScene/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// triangleDoc builds a document with one mesh holding a single primitive over
// a flat triangle facing +Y.
func triangleDoc(indices []uint16, mode gltf.PrimitiveMode) *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}})
	idx := modeler.WriteIndices(doc, indices)
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Mode:       mode,
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{"POSITION": pos},
		}},
	}}
	return doc
}

func TestAppendPrimitiveRecomputesNormals(t *testing.T) {
	doc := triangleDoc([]uint16{0, 1, 2}, gltf.PrimitiveTriangles)
	model := &renderer.Model{}
	if err := appendPrimitive(doc, model, doc.Meshes[0].Primitives[0]); err != nil {
		t.Fatalf("appendPrimitive: %v", err)
	}
	if model.VertexCount() != 3 || len(model.Faces) != 3 {
		t.Fatalf("Expected 3 vertices and 3 indices, got %d and %d", model.VertexCount(), len(model.Faces))
	}
	n := mgl32.Vec3{model.InterleavedData[3], model.InterleavedData[4], model.InterleavedData[5]}
	if !n.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Errorf("Missing normals should be recomputed, got %v", n)
	}
}

func TestAppendPrimitiveOffsetsSecondPrimitive(t *testing.T) {
	doc := triangleDoc([]uint16{0, 1, 2}, gltf.PrimitiveTriangles)
	model := &renderer.Model{}
	prim := doc.Meshes[0].Primitives[0]
	for i := 0; i < 2; i++ {
		if err := appendPrimitive(doc, model, prim); err != nil {
			t.Fatal(err)
		}
	}
	if got := model.Faces[3:]; got[0] != 3 || got[1] != 4 || got[2] != 5 {
		t.Errorf("Second primitive indices should follow the first, got %v", got)
	}
}

func TestAppendPrimitiveWarnsOnBadNormals(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = prev }()

	doc := triangleDoc([]uint16{0, 1, 2}, gltf.PrimitiveTriangles)
	prim := doc.Meshes[0].Primitives[0]
	// point NORMAL at the scalar index accessor
	prim.Attributes["NORMAL"] = *prim.Indices

	model := &renderer.Model{SourcePath: "tri.glb"}
	if err := appendPrimitive(doc, model, prim); err != nil {
		t.Fatalf("Bad normals should not reject the primitive: %v", err)
	}
	if logs.FilterMessage("glTF normals unreadable").Len() != 1 {
		t.Errorf("Expected one warning about the normals, got %v", logs.All())
	}
	n := mgl32.Vec3{model.InterleavedData[3], model.InterleavedData[4], model.InterleavedData[5]}
	if !n.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Errorf("Unreadable normals should be recomputed, got %v", n)
	}
}

func TestAppendPrimitiveRejects(t *testing.T) {
	cases := []struct {
		name string
		doc  *gltf.Document
	}{
		{"index out of range", triangleDoc([]uint16{0, 1, 5}, gltf.PrimitiveTriangles)},
		{"lines", triangleDoc([]uint16{0, 1}, gltf.PrimitiveLines)},
	}
	for _, c := range cases {
		model := &renderer.Model{}
		if err := appendPrimitive(c.doc, model, c.doc.Meshes[0].Primitives[0]); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
		if len(model.Faces) != 0 {
			t.Errorf("%s: a rejected primitive must not add indices", c.name)
		}
	}
}

func TestLoadGLTFBinary(t *testing.T) {
	doc := triangleDoc([]uint16{0, 1, 2}, gltf.PrimitiveTriangles)
	doc.Materials = []*gltf.Material{{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{0.5, 0.25, 1, 1},
		},
	}}
	doc.Meshes[0].Primitives[0].Material = gltf.Index(0)

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}

	model, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if model.SourcePath != path {
		t.Errorf("Source path not recorded: %q", model.SourcePath)
	}
	if model.VertexCount() != 3 || len(model.MaterialGroups) != 1 {
		t.Fatalf("Expected one triangle in one group, got %d vertices and %d groups",
			model.VertexCount(), len(model.MaterialGroups))
	}
	mat := model.MaterialGroups[0].Material
	if mat.Name != "gltf_material_0" {
		t.Errorf("Unnamed material should be named by index, got %q", mat.Name)
	}
	if mat.DiffuseColor != [3]float32{0.5, 0.25, 1} {
		t.Errorf("Unexpected base color %v", mat.DiffuseColor)
	}
}

func TestLoadGLTFWithoutTriangles(t *testing.T) {
	doc := triangleDoc([]uint16{0, 1}, gltf.PrimitiveLines)
	path := filepath.Join(t.TempDir(), "lines.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGLTF(path); err == nil {
		t.Error("A file with only line primitives should fail to load")
	}
}
