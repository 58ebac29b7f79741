package render

import (
	"fmt"

	"github.com/kestrelgfx/core/driver"
)

// Vertex is the engine's single interleaved vertex format: position,
// normal, tangent, and one UV set. Grounded on the teacher's
// engine/mesh.go semantic-ordered vertex input, collapsed to a single
// fixed layout since SPEC_FULL.md does not ask for the teacher's
// generalized multi-semantic primitive format.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Tangent  [4]float32
	UV       [2]float32
}

// VertexBinding describes Vertex's driver.VertexBinding/Attr pair,
// shared by every pipeline that consumes geometry (shadow, G-buffer).
var VertexBinding = driver.VertexBinding{Stride: 48, Rate: driver.RatePerVertex}

var VertexAttrs = []driver.VertexAttr{
	{Binding: 0, Format: driver.VFloat32x3, Offset: 0, Nr: 0},
	{Binding: 0, Format: driver.VFloat32x3, Offset: 12, Nr: 1},
	{Binding: 0, Format: driver.VFloat32x4, Offset: 24, Nr: 2},
	{Binding: 0, Format: driver.VFloat32x2, Offset: 40, Nr: 3},
}

// Primitive is one draw call's worth of geometry: a vertex buffer, an
// index buffer and its index count. Mirrors the teacher's MeshSource
// (vertex/index buffer pair) named per original_source's MeshSource.
type Primitive struct {
	VertexBuf  driver.Buffer
	IndexBuf   driver.Buffer
	IndexCount int
	Material   *Material
}

// Mesh is a named collection of Primitives sharing one transform,
// mirroring the teacher's engine/mesh.go Mesh (a collection of
// primitives addressed by index).
type Mesh struct {
	Name       string
	Primitives []Primitive
}

// NewMesh uploads interleaved vertex and uint32 index data for each
// primitive through upload, one blocking staging copy per buffer,
// matching the teacher's upload-then-copy pattern in engine/staging.go.
func NewMesh(gpu driver.GPU, upload Uploader, name string, prims []PrimitiveData) (*Mesh, error) {
	m := &Mesh{Name: name}
	for _, p := range prims {
		vbSize := int64(len(p.Vertices) * 48)
		ibSize := int64(len(p.Indices) * 4)
		vb, err := gpu.NewBuffer(vbSize, false, driver.UsageVertex|driver.UsageTransferDst)
		if err != nil {
			return nil, fmt.Errorf("render: NewMesh %q: %w", name, err)
		}
		ib, err := gpu.NewBuffer(ibSize, false, driver.UsageIndex|driver.UsageTransferDst)
		if err != nil {
			return nil, fmt.Errorf("render: NewMesh %q: %w", name, err)
		}
		if err := upload.UploadBuffer(vb, vertexBytes(p.Vertices)); err != nil {
			return nil, err
		}
		if err := upload.UploadBuffer(ib, indexBytes(p.Indices)); err != nil {
			return nil, err
		}
		m.Primitives = append(m.Primitives, Primitive{VertexBuf: vb, IndexBuf: ib, IndexCount: len(p.Indices), Material: p.Material})
	}
	return m, nil
}

// PrimitiveData is the CPU-side source for one Primitive, as produced
// by an asset importer (see asset package).
type PrimitiveData struct {
	Vertices []Vertex
	Indices  []uint32
	Material *Material
}

func (m *Mesh) Destroy() {
	for _, p := range m.Primitives {
		p.VertexBuf.Destroy()
		p.IndexBuf.Destroy()
	}
}

func vertexBytes(v []Vertex) []byte {
	const stride = 48
	b := make([]byte, len(v)*stride)
	for i, vv := range v {
		off := i * stride
		putF32s(b[off:], vv.Position[:])
		putF32s(b[off+12:], vv.Normal[:])
		putF32s(b[off+24:], vv.Tangent[:])
		putF32s(b[off+40:], vv.UV[:])
	}
	return b
}

func indexBytes(idx []uint32) []byte {
	b := make([]byte, len(idx)*4)
	for i, v := range idx {
		putU32(b[i*4:], v)
	}
	return b
}

func putF32s(b []byte, vs []float32) {
	for i, v := range vs {
		putU32(b[i*4:], float32bits(v))
	}
}
