package loader

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"

	"StreetScene/internal/logger"
	"StreetScene/internal/renderer"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

// LoadGLTF opens a .gltf or .glb file and merges every mesh primitive into
// one model, one material group per primitive. Node transforms are ignored;
// scene placement comes from the street scene table.
func LoadGLTF(path string) (*renderer.Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	materials := make([]*renderer.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		materials[i] = gltfMaterial(doc, dir, i, gm)
	}

	model := &renderer.Model{SourcePath: path}
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			start := int32(len(model.Faces))
			if err := appendPrimitive(doc, model, prim); err != nil {
				logger.Log.Warn("Skipping glTF primitive",
					zap.String("path", path),
					zap.Int("mesh", mi),
					zap.Int("primitive", pi),
					zap.Error(err))
				continue
			}
			var mat *renderer.Material
			if prim.Material != nil && *prim.Material < len(materials) {
				mat = materials[*prim.Material]
			} else {
				def := renderer.DefaultMaterial
				mat = &def
			}
			model.MaterialGroups = append(model.MaterialGroups, renderer.MaterialGroup{
				Material:   mat,
				IndexStart: start,
				IndexCount: int32(len(model.Faces)) - start,
			})
		}
	}
	if len(model.Faces) == 0 {
		return nil, fmt.Errorf("gltf %q: no triangles", path)
	}
	return model, nil
}

func gltfMaterial(doc *gltf.Document, dir string, index int, gm *gltf.Material) *renderer.Material {
	mat := renderer.DefaultMaterial
	mat.Name = gm.Name
	if mat.Name == "" {
		mat.Name = fmt.Sprintf("gltf_material_%d", index)
	}

	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		return &mat
	}
	cf := pbr.BaseColorFactorOrDefault()
	mat.DiffuseColor = [3]float32{float32(cf[0]), float32(cf[1]), float32(cf[2])}
	mat.Alpha = float32(cf[3])

	if pbr.BaseColorTexture == nil || pbr.BaseColorTexture.Index >= len(doc.Textures) {
		return &mat
	}
	tex := doc.Textures[pbr.BaseColorTexture.Index]
	if tex.Source == nil || *tex.Source >= len(doc.Images) {
		return &mat
	}
	img := doc.Images[*tex.Source]
	switch {
	case img.BufferView != nil:
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			logger.Log.Warn("glTF image buffer view unreadable", zap.String("material", mat.Name), zap.Error(err))
			break
		}
		decoded, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			logger.Log.Warn("glTF image decode failed", zap.String("material", mat.Name), zap.Error(err))
			break
		}
		mat.DiffuseImage = decoded
	case img.URI != "" && !img.IsEmbeddedResource():
		mat.DiffuseMap = filepath.Join(dir, cleanAssetPath(img.URI))
	}
	return &mat
}

// appendPrimitive adds one triangle primitive's vertices and indices to model.
// Unreadable normals are recomputed and unreadable UVs left at zero.
func appendPrimitive(doc *gltf.Document, model *renderer.Model, prim *gltf.Primitive) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		return fmt.Errorf("unsupported primitive mode %d", prim.Mode)
	}
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			logger.Log.Warn("glTF normals unreadable", zap.String("model", model.SourcePath), zap.Error(err))
			normals = nil
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			logger.Log.Warn("glTF texture coordinates unreadable", zap.String("model", model.SourcePath), zap.Error(err))
			uvs = nil
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("index %d out of range", idx)
		}
	}

	base := uint32(model.VertexCount())
	var missing []uint32
	for i, p := range positions {
		var n [3]float32
		if i < len(normals) {
			n = normals[i]
		} else {
			missing = append(missing, base+uint32(i))
		}
		var uv [2]float32
		if i < len(uvs) {
			uv = uvs[i]
		}
		model.InterleavedData = append(model.InterleavedData, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	for _, idx := range indices {
		model.Faces = append(model.Faces, base+idx)
	}
	if len(missing) > 0 {
		RecalculateNormals(model.InterleavedData, model.Faces, missing)
	}
	return nil
}
