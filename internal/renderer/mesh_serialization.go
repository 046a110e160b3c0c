package renderer

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	meshMagic   = 0x4D455348 // "MESH"
	meshVersion = 2

	// upper bound for any element count read back, guards against corrupt files
	maxSerializedElements = 1 << 28
)

// ErrNotCacheable is returned for models whose materials carry in-memory
// images, which the binary format does not store.
var ErrNotCacheable = errors.New("renderer: model holds embedded images")

// EncodeMeshBinary encodes the CPU side of a model (vertices, indices and
// material groups) to the compressed binary format.
func EncodeMeshBinary(model *Model) ([]byte, error) {
	for _, g := range model.MaterialGroups {
		if g.Material != nil && g.Material.DiffuseImage != nil {
			return nil, ErrNotCacheable
		}
	}

	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	w := &binWriter{w: gzWriter}

	w.u32(meshMagic)
	w.u32(meshVersion)
	w.str(model.Name)
	w.floats(model.InterleavedData)
	w.u32(uint32(len(model.Faces)))
	w.raw(model.Faces)

	w.u32(uint32(len(model.MaterialGroups)))
	for _, g := range model.MaterialGroups {
		mat := DefaultMaterial
		if g.Material != nil {
			mat = *g.Material
		}
		w.raw(g.IndexStart)
		w.raw(g.IndexCount)
		w.str(mat.Name)
		w.str(mat.DiffuseMap)
		w.str(mat.SpecularMap)
		w.str(mat.NormalMap)
		w.raw(mat.DiffuseColor)
		w.raw(mat.SpecularColor)
		w.raw(mat.Shininess)
		w.raw(mat.Alpha)
	}
	if w.err != nil {
		return nil, w.err
	}

	if err := gzWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeMeshBinary restores a model written by EncodeMeshBinary. The result
// is not uploaded.
func DecodeMeshBinary(data []byte) (*Model, error) {
	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()
	r := &binReader{r: gzReader}

	if magic := r.u32(); r.err == nil && magic != meshMagic {
		return nil, fmt.Errorf("invalid mesh file magic: %x", magic)
	}
	if version := r.u32(); r.err == nil && version != meshVersion {
		return nil, fmt.Errorf("unsupported mesh version: %d", version)
	}

	model := &Model{Name: r.str()}
	model.InterleavedData = r.floats()
	if n := r.count(); r.err == nil {
		model.Faces = make([]uint32, n)
		r.raw(model.Faces)
	}

	groups := r.count()
	for i := 0; i < groups && r.err == nil; i++ {
		var g MaterialGroup
		mat := &Material{}
		r.raw(&g.IndexStart)
		r.raw(&g.IndexCount)
		mat.Name = r.str()
		mat.DiffuseMap = r.str()
		mat.SpecularMap = r.str()
		mat.NormalMap = r.str()
		r.raw(&mat.DiffuseColor)
		r.raw(&mat.SpecularColor)
		r.raw(&mat.Shininess)
		r.raw(&mat.Alpha)
		g.Material = mat
		model.MaterialGroups = append(model.MaterialGroups, g)
	}
	if r.err != nil {
		return nil, fmt.Errorf("decode mesh: %w", r.err)
	}
	for _, g := range model.MaterialGroups {
		if g.IndexStart < 0 || g.IndexCount < 0 || int(g.IndexStart)+int(g.IndexCount) > len(model.Faces) {
			return nil, fmt.Errorf("decode mesh: material group %q out of range", g.Material.Name)
		}
	}
	return model, nil
}

// binWriter and binReader keep the first error and turn later calls into no-ops.
type binWriter struct {
	w   io.Writer
	err error
}

func (b *binWriter) raw(v any) {
	if b.err == nil {
		b.err = binary.Write(b.w, binary.LittleEndian, v)
	}
}

func (b *binWriter) u32(v uint32) { b.raw(v) }

func (b *binWriter) str(s string) {
	b.u32(uint32(len(s)))
	if b.err == nil && len(s) > 0 {
		_, b.err = io.WriteString(b.w, s)
	}
}

func (b *binWriter) floats(data []float32) {
	b.u32(uint32(len(data)))
	b.raw(data)
}

type binReader struct {
	r   io.Reader
	err error
}

func (b *binReader) raw(v any) {
	if b.err == nil {
		b.err = binary.Read(b.r, binary.LittleEndian, v)
	}
}

func (b *binReader) u32() uint32 {
	var v uint32
	b.raw(&v)
	return v
}

func (b *binReader) count() int {
	n := b.u32()
	if b.err == nil && n > maxSerializedElements {
		b.err = fmt.Errorf("element count %d too large", n)
	}
	if b.err != nil {
		return 0
	}
	return int(n)
}

func (b *binReader) str() string {
	n := b.count()
	if b.err != nil || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(b.r, buf); err != nil {
		b.err = err
		return ""
	}
	return string(buf)
}

func (b *binReader) floats() []float32 {
	n := b.count()
	if b.err != nil {
		return nil
	}
	data := make([]float32, n)
	b.raw(data)
	return data
}
