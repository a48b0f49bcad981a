package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/raycaster/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
//
// Index buffers are kept in the width stored in the file; triangle
// extraction only accepts 32-bit indices, so PromoteIndices must be set for
// assets exported with 8 or 16-bit indices to render.
type GLTFLoader struct {
	// GenerateIndices gives non-indexed triangle primitives a sequential
	// uint32 index buffer.
	GenerateIndices bool

	// PromoteIndices widens 8 and 16-bit index buffers to uint32.
	PromoteIndices bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		GenerateIndices: true,
	}
}

// LoadGLTF loads a .gltf or .glb file with the default loader.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(doc, filepath.Base(path))
}

// FromDocument converts every mesh primitive of an already decoded document.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh appends one Primitive per GLTF primitive.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		p := Primitive{Mode: topologyOf(prim.Mode)}

		if posIdx, ok := prim.Attributes[gltf.POSITION]; ok {
			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return fmt.Errorf("read positions: %w", err)
			}
			p.Positions = positions
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			p.Indices = indices
			if l.PromoteIndices {
				p.Indices = promote(indices)
			}
		} else if l.GenerateIndices && p.Mode == TopologyTriangles && p.Positions != nil {
			seq := make([]uint32, len(p.Positions)-len(p.Positions)%3)
			for i := range seq {
				seq[i] = uint32(i)
			}
			p.Indices = seq
		}

		mesh.Primitives = append(mesh.Primitives, p)
	}

	return nil
}

func topologyOf(mode gltf.PrimitiveMode) Topology {
	switch mode {
	case gltf.PrimitiveTriangles:
		return TopologyTriangles
	case gltf.PrimitiveTriangleStrip:
		return TopologyTriangleStrip
	case gltf.PrimitiveTriangleFan:
		return TopologyTriangleFan
	case gltf.PrimitivePoints:
		return TopologyPoints
	default:
		return TopologyLines
	}
}

func promote(indices any) any {
	switch v := indices.(type) {
	case []uint8:
		out := make([]uint32, len(v))
		for i, x := range v {
			out[i] = uint32(x)
		}
		return out
	case []uint16:
		out := make([]uint32, len(v))
		for i, x := range v {
			out[i] = uint32(x)
		}
		return out
	default:
		return indices
	}
}

// readVec3Accessor reads float VEC3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", accessor.Type, accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		var f [3]float32
		for j := range 3 {
			f[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset+j*4:]))
		}
		result[i] = math3d.FromFloat32(f)
	}

	return result, nil
}

// readIndices reads a SCALAR index accessor, returning []uint8, []uint16 or
// []uint32 according to the stored component type.
func readIndices(doc *gltf.Document, accessorIdx int) (any, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		data, start, stride, err := accessorBytes(doc, accessor, 1)
		if err != nil {
			return nil, err
		}
		result := make([]uint8, accessor.Count)
		for i := range accessor.Count {
			result[i] = data[start+i*stride]
		}
		return result, nil
	case gltf.ComponentUshort:
		data, start, stride, err := accessorBytes(doc, accessor, 2)
		if err != nil {
			return nil, err
		}
		result := make([]uint16, accessor.Count)
		for i := range accessor.Count {
			result[i] = binary.LittleEndian.Uint16(data[start+i*stride:])
		}
		return result, nil
	case gltf.ComponentUint:
		data, start, stride, err := accessorBytes(doc, accessor, 4)
		if err != nil {
			return nil, err
		}
		result := make([]uint32, accessor.Count)
		for i := range accessor.Count {
			result[i] = binary.LittleEndian.Uint32(data[start+i*stride:])
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported index component type: %v", accessor.ComponentType)
	}
}

// accessorBytes resolves the buffer backing an accessor and checks that
// Count elements of elemSize bytes fit inside it.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) (data []byte, start, stride int, err error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView < 0 || *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, 0, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}

	// gltf.Open resolves embedded GLB chunks, data URIs and external files
	// into Data.
	data = doc.Buffers[bufferView.Buffer].Data
	if data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}

	start = bufferView.ByteOffset + accessor.ByteOffset
	stride = bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if start < 0 || end > len(data) {
			return nil, 0, 0, fmt.Errorf("accessor reads bytes [%d, %d) past buffer of %d", start, end, len(data))
		}
	}
	return data, start, stride, nil
}
