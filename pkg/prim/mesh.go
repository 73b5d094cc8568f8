package prim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/glaciermodding/go-prim/pkg/cloth"
	"github.com/glaciermodding/go-prim/pkg/collision"
	"github.com/glaciermodding/go-prim/pkg/geom"
	"github.com/glaciermodding/go-prim/pkg/rw"
	"github.com/glaciermodding/go-prim/pkg/vertex"
)

// Mesh is the per-object metadata shared by all three variants, plus the
// geometry payload. PosScale/PosBias quantize positions; TexScaleBias packs
// the UV scale in xy and the UV bias in zw.
type Mesh struct {
	Object       Object
	PosScale     mgl32.Vec4
	PosBias      mgl32.Vec4
	TexScaleBias mgl32.Vec4
	ClothID      uint8
	SubMesh      SubMesh
}

// SubMesh ties the index buffer, vertex regions, collision and cloth blocks
// of one mesh object together. Indices holds the regular and "cracked"
// indices in one flat list; the cracked count is emitted as zero on write.
type SubMesh struct {
	Object    Object
	Indices   []uint16
	Layout    vertex.Layout
	Buffers   *vertex.Buffers
	Collision collision.Collision
	Cloth     cloth.Block
}

// parseMesh decodes the shared mesh fields at the current position and
// resolves the submesh through its pointer block.
func parseMesh(r *rw.Reader, flags PropertyFlags) (Mesh, error) {
	var m Mesh
	obj, err := parseObject(r)
	if err != nil {
		return m, err
	}
	m.Object = obj
	subMeshTableOffset := r.U32()
	m.PosScale = readVec4(r)
	m.PosBias = readVec4(r)
	m.TexScaleBias = readVec4(r)
	m.ClothID = r.U8()
	r.Skip(3)
	if err := r.Err(); err != nil {
		return m, err
	}

	err = r.Resolve(uint64(subMeshTableOffset), func(r *rw.Reader) error {
		return r.Ptr32(func(r *rw.Reader) error {
			sm, err := parseSubMesh(r, flags, m.Object.Properties, m.ClothID)
			if err != nil {
				return err
			}
			m.SubMesh = sm
			return nil
		})
	})
	return m, err
}

// parseSubMesh decodes a submesh header and resolves each of its regions.
// meshProps are the enclosing mesh object's flags; the high-resolution
// position bit lives there, not on the submesh's own header.
func parseSubMesh(r *rw.Reader, flags PropertyFlags, meshProps ObjectFlags, clothID uint8) (SubMesh, error) {
	var sm SubMesh
	obj, err := parseObject(r)
	if err != nil {
		return sm, err
	}
	sm.Object = obj
	numVertices := r.U32()
	verticesOffset := r.U32()
	numIndices := r.U32()
	numCracked := r.U32()
	if err := r.Err(); err != nil {
		return sm, err
	}

	err = r.Ptr32(func(r *rw.Reader) error {
		sm.Indices = make([]uint16, numIndices+numCracked)
		for i := range sm.Indices {
			sm.Indices[i] = r.U16()
		}
		return r.Err()
	})
	if err != nil {
		return sm, err
	}

	err = r.Ptr32(func(r *rw.Reader) error {
		coli, err := collision.Read(r, flags.IsLinkedObject())
		if err != nil {
			return err
		}
		sm.Collision = coli
		return nil
	})
	if err != nil {
		return sm, err
	}

	clothOffset := r.U32()
	uvChannels := r.U8()
	r.Skip(3)
	if err := r.Err(); err != nil {
		return sm, err
	}

	sm.Layout = vertex.Layout{
		NumVertices: int(numVertices),
		HighResPos:  meshProps.HasHighResPositions(),
		Weighted:    flags.IsWeightedObject(),
		UVChannels:  int(uvChannels),
		HasColors: (flags.IsWeightedObject() || !obj.Properties.HasConstantColor()) &&
			!meshProps.HasConstantColor(),
	}
	err = r.Resolve(uint64(verticesOffset), func(r *rw.Reader) error {
		bufs, err := vertex.ReadBuffers(r, sm.Layout)
		if err != nil {
			return err
		}
		sm.Buffers = bufs
		return nil
	})
	if err != nil {
		return sm, err
	}

	if clothOffset != 0 {
		err = r.Resolve(uint64(clothOffset), func(r *rw.Reader) error {
			block, err := cloth.Read(r, clothID, int(numVertices))
			if err != nil {
				return err
			}
			sm.Cloth = block
			return nil
		})
		if err != nil {
			return sm, err
		}
	}
	return sm, nil
}

// writeSubMesh serializes every submesh region payload-first and returns the
// offset of the trailing pointer block that the mesh header references.
// Linked resources emit the collision block before the index and vertex
// regions; the other variants emit it after. Each variant's order is part
// of the format.
func writeSubMesh(w *rw.Writer, m *Mesh, flags PropertyFlags, bb geom.BoundingBox) (uint32, error) {
	sm := &m.SubMesh
	if err := sm.Buffers.Validate(sm.Layout); err != nil {
		return 0, err
	}

	var collisionOffset uint32
	if flags.IsLinkedObject() {
		collisionOffset = uint32(w.Pos())
		if err := collision.Write(w, sm.Collision); err != nil {
			return 0, err
		}
		w.Align(16)
	}

	indexOffset := uint32(w.Pos())
	for _, idx := range sm.Indices {
		w.U16(idx)
	}
	w.Align(16)

	vertexOffset := uint32(w.Pos())
	sm.Buffers.WriteTo(w)
	w.Align(16)

	if !flags.IsLinkedObject() {
		collisionOffset = uint32(w.Pos())
		if err := collision.Write(w, sm.Collision); err != nil {
			return 0, err
		}
		w.Align(16)
	}

	clothOffset := uint32(w.Pos())
	if sm.Cloth != nil {
		if err := cloth.Write(w, sm.Cloth); err != nil {
			return 0, err
		}
		w.Align(16)
	}

	headerOffset := uint32(w.Pos())
	writeObject(w, sm.Object, bb)
	w.U32(uint32(sm.Layout.NumVertices))
	w.U32(vertexOffset)
	w.U32(uint32(len(sm.Indices)))
	w.U32(0) // cracked index count
	w.U32(indexOffset)
	w.U32(collisionOffset)
	if sm.Cloth != nil {
		w.U32(clothOffset)
	} else {
		w.U32(0)
	}
	w.U32(uint32(sm.Layout.UVChannels))
	w.Align(16)

	ptrBlock := uint32(w.Pos())
	w.U32(headerOffset)
	w.U32(0)
	w.U64(0)
	return ptrBlock, nil
}

// writeMeshHeader emits the shared mesh fields that every variant header
// starts with. With the high-resolution flag set the stored quantization is
// the identity, matching the unscaled floats the position region holds.
func writeMeshHeader(w *rw.Writer, m *Mesh, flags PropertyFlags, subMeshPtr uint32, bb geom.BoundingBox) {
	writeObject(w, m.Object, bb)
	w.U32(subMeshPtr)
	if flags.HasHighResPositions() {
		writeVec4(w, mgl32.Vec4{1, 1, 1, 1})
		writeVec4(w, mgl32.Vec4{0, 0, 0, 0})
	} else {
		writeVec4(w, m.PosScale)
		writeVec4(w, m.PosBias)
	}
	writeVec4(w, m.TexScaleBias)
}
