package prim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/glaciermodding/go-prim/pkg/geom"
	"github.com/glaciermodding/go-prim/pkg/rw"
)

// Object is the header block shared by mesh objects and submeshes. The
// stored bounding box is informational only: it is discarded on read and
// recomputed from decoded positions on write.
type Object struct {
	SubType             SubType
	Properties          ObjectFlags
	LODMask             uint8
	ZBias               uint8
	ZOffset             uint8
	MaterialID          uint16
	WireColor           uint32
	ConstantVertexColor uint32
}

const objectSize = 44

func parsePrimType(r *rw.Reader) (PrimType, error) {
	at := r.Pos()
	r.Skip(2)
	t := PrimType(r.U16())
	if err := r.Err(); err != nil {
		return 0, err
	}
	if !t.valid() {
		return 0, &rw.StructuralError{Offset: at, Cause: "unknown prim header type"}
	}
	return t, nil
}

func writePrimType(w *rw.Writer, t PrimType) {
	w.U16(0)
	w.U16(uint16(t))
}

func parseObject(r *rw.Reader) (Object, error) {
	var o Object
	if _, err := parsePrimType(r); err != nil {
		return o, err
	}
	at := r.Pos()
	o.SubType = SubType(r.U8())
	o.Properties = ObjectFlags(r.U8())
	o.LODMask = r.U8()
	r.Skip(1)
	o.ZBias = r.U8()
	o.ZOffset = r.U8()
	o.MaterialID = r.U16()
	o.WireColor = r.U32()
	o.ConstantVertexColor = r.U32()
	r.Skip(24) // stored min/max, recomputed on write
	if err := r.Err(); err != nil {
		return o, err
	}
	if o.SubType == SubTypeSpeedtree {
		return o, &UnsupportedSubtypeError{SubType: o.SubType}
	}
	if o.SubType > SubTypeSpeedtree {
		return o, &rw.StructuralError{Offset: at, Cause: "invalid mesh subtype"}
	}
	return o, nil
}

func writeObject(w *rw.Writer, o Object, bb geom.BoundingBox) {
	writePrimType(w, TypeMesh)
	w.U8(uint8(o.SubType))
	w.U8(uint8(o.Properties))
	w.U8(o.LODMask)
	w.U8(0)
	w.U8(o.ZBias)
	w.U8(o.ZOffset)
	w.U16(o.MaterialID)
	w.U32(o.WireColor)
	w.U32(o.ConstantVertexColor)
	writeVec3(w, bb.Min)
	writeVec3(w, bb.Max)
}

func readVec3(r *rw.Reader) mgl32.Vec3 {
	return mgl32.Vec3{r.F32(), r.F32(), r.F32()}
}

func readVec4(r *rw.Reader) mgl32.Vec4 {
	return mgl32.Vec4{r.F32(), r.F32(), r.F32(), r.F32()}
}

func writeVec3(w *rw.Writer, v mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		w.F32(v[i])
	}
}

func writeVec4(w *rw.Writer, v mgl32.Vec4) {
	for i := 0; i < 4; i++ {
		w.F32(v[i])
	}
}
