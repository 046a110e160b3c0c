package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"StreetScene/internal/logger"
	"StreetScene/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// FaceVertex holds zero-based indices into the position, texture coordinate
// and normal lists. -1 marks an absent index.
type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32
	NormalIdx   int32
}

// objData is the raw content of an OBJ file before index unification.
type objData struct {
	positions []mgl32.Vec3
	texCoords []mgl32.Vec2
	normals   []mgl32.Vec3
	corners   []FaceVertex // three per triangle
	cornerMat []string     // material of each corner
	materials map[string]*renderer.Material
}

// LoadOBJ parses an OBJ file and the material libraries it references.
func LoadOBJ(path string) (*renderer.Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	model, err := ParseOBJ(file, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	model.SourcePath = path
	return model, nil
}

// MaterialLibraries lists the material files an OBJ file references, resolved
// the same way ParseOBJ resolves them.
func MaterialLibraries(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	dir := filepath.Dir(path)
	var libs []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		parts := strings.Fields(line)
		if len(parts) > 1 && parts[0] == "mtllib" {
			libs = append(libs, libraryPath(dir, parts))
		}
	}
	return libs, scanner.Err()
}

func libraryPath(dir string, parts []string) string {
	return filepath.Join(dir, cleanAssetPath(strings.Join(parts[1:], " ")))
}

// ParseOBJ reads OBJ data from r. Material libraries and texture maps are
// resolved relative to dir.
func ParseOBJ(r io.Reader, dir string) (*renderer.Model, error) {
	data := &objData{materials: make(map[string]*renderer.Material)}
	currentMaterial := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "v":
			v, err := parseVec(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			data.positions = append(data.positions, mgl32.Vec3{v[0], v[1], v[2]})
		case "vn":
			v, err := parseVec(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			data.normals = append(data.normals, mgl32.Vec3{v[0], v[1], v[2]})
		case "vt":
			v, err := parseVec(parts[1:], 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coordinate: %w", lineNo, err)
			}
			uv := mgl32.Vec2{v[0]}
			if len(v) > 1 {
				uv[1] = v[1]
			}
			data.texCoords = append(data.texCoords, uv)
		case "f":
			face, err := parseFace(parts[1:], len(data.positions), len(data.texCoords), len(data.normals))
			if err != nil {
				return nil, fmt.Errorf("line %d: face: %w", lineNo, err)
			}
			for range face {
				data.cornerMat = append(data.cornerMat, currentMaterial)
			}
			data.corners = append(data.corners, face...)
		case "mtllib":
			name := strings.Join(parts[1:], " ")
			mats, err := LoadMaterials(libraryPath(dir, parts))
			if err != nil {
				logger.Log.Error("Error opening material file", zap.String("mtllib", name), zap.Error(err))
				continue
			}
			for k, v := range mats {
				data.materials[k] = v
			}
		case "usemtl":
			currentMaterial = strings.Join(parts[1:], " ")
			if _, ok := data.materials[currentMaterial]; !ok {
				logger.Log.Debug("Material not found", zap.String("material", currentMaterial))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(data.corners) == 0 {
		return nil, fmt.Errorf("no faces")
	}
	return data.build(), nil
}

// build unifies position/uv/normal triplets into one vertex buffer and
// groups consecutive triangles by material.
func (d *objData) build() *renderer.Model {
	type vertexKey struct{ v, vt, vn int32 }

	vertexMap := make(map[vertexKey]uint32)
	interleaved := make([]float32, 0, len(d.corners)*renderer.VertexStride)
	indices := make([]uint32, 0, len(d.corners))
	var needNormals []uint32

	for _, fv := range d.corners {
		key := vertexKey{fv.VertexIdx, fv.TexCoordIdx, fv.NormalIdx}
		if idx, ok := vertexMap[key]; ok {
			indices = append(indices, idx)
			continue
		}
		idx := uint32(len(interleaved) / renderer.VertexStride)
		vertexMap[key] = idx

		p := d.positions[fv.VertexIdx]
		var n mgl32.Vec3
		if fv.NormalIdx >= 0 {
			n = d.normals[fv.NormalIdx]
		} else {
			needNormals = append(needNormals, idx)
		}
		var uv mgl32.Vec2
		if fv.TexCoordIdx >= 0 {
			uv = d.texCoords[fv.TexCoordIdx]
		}
		interleaved = append(interleaved, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
		indices = append(indices, idx)
	}

	if len(needNormals) > 0 {
		RecalculateNormals(interleaved, indices, needNormals)
	}

	model := &renderer.Model{InterleavedData: interleaved, Faces: indices}
	model.MaterialGroups = d.materialGroups()

	logger.Log.Debug("OBJ parsed",
		zap.Int("positions", len(d.positions)),
		zap.Int("unifiedVertices", model.VertexCount()),
		zap.Int("triangles", len(indices)/3),
		zap.Int("materialGroups", len(model.MaterialGroups)))
	return model
}

func (d *objData) materialGroups() []renderer.MaterialGroup {
	var groups []renderer.MaterialGroup
	for i, name := range d.cornerMat {
		if i > 0 && name == d.cornerMat[i-1] {
			groups[len(groups)-1].IndexCount++
			continue
		}
		mat, ok := d.materials[name]
		if !ok {
			def := renderer.DefaultMaterial
			if name != "" {
				def.Name = name
			}
			mat = &def
			d.materials[name] = mat
		}
		groups = append(groups, renderer.MaterialGroup{Material: mat, IndexStart: int32(i), IndexCount: 1})
	}
	return groups
}

func parseVec(parts []string, min int) ([]float32, error) {
	if len(parts) < min {
		return nil, fmt.Errorf("expected %d values, got %d", min, len(parts))
	}
	out := make([]float32, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", part, err)
		}
		out = append(out, float32(val))
		if len(out) == 3 {
			break
		}
	}
	return out, nil
}

// resolveIndex converts a one-based or negative (relative) OBJ index.
func resolveIndex(s string, count int) (int32, error) {
	i, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return -1, fmt.Errorf("invalid index %q", s)
	}
	if i < 0 {
		i += int64(count)
	} else {
		i--
	}
	if i < 0 || i >= int64(count) {
		return -1, fmt.Errorf("index %s out of range (%d defined)", s, count)
	}
	return int32(i), nil
}

// parseFace parses one polygon and triangulates it as a fan from its first corner.
func parseFace(parts []string, nv, nvt, nvn int) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 corners, got %d", len(parts))
	}
	face := make([]FaceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")
		fv := FaceVertex{TexCoordIdx: -1, NormalIdx: -1}

		var err error
		if fv.VertexIdx, err = resolveIndex(vals[0], nv); err != nil {
			return nil, err
		}
		if len(vals) > 1 && vals[1] != "" {
			if fv.TexCoordIdx, err = resolveIndex(vals[1], nvt); err != nil {
				return nil, err
			}
		}
		if len(vals) > 2 && vals[2] != "" {
			if fv.NormalIdx, err = resolveIndex(vals[2], nvn); err != nil {
				return nil, err
			}
		}
		face = append(face, fv)
	}

	triangulated := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

// RecalculateNormals fills the normals of the listed vertices with the
// area-weighted average of the triangles that use them.
func RecalculateNormals(interleaved []float32, indices []uint32, targets []uint32) {
	stride := renderer.VertexStride
	want := make(map[uint32]bool, len(targets))
	for _, t := range targets {
		want[t] = true
	}
	pos := func(i uint32) mgl32.Vec3 {
		o := int(i) * stride
		return mgl32.Vec3{interleaved[o], interleaved[o+1], interleaved[o+2]}
	}

	sums := make(map[uint32]mgl32.Vec3, len(targets))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if !want[a] && !want[b] && !want[c] {
			continue
		}
		// unnormalized cross product weights by triangle area
		n := pos(b).Sub(pos(a)).Cross(pos(c).Sub(pos(a)))
		for _, v := range [3]uint32{a, b, c} {
			if want[v] {
				sums[v] = sums[v].Add(n)
			}
		}
	}

	for _, t := range targets {
		n := sums[t]
		if n.Len() == 0 {
			n = mgl32.Vec3{0, 1, 0}
		}
		n = n.Normalize()
		o := int(t)*stride + 3
		interleaved[o], interleaved[o+1], interleaved[o+2] = n[0], n[1], n[2]
	}
}
