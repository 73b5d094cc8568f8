// Package prim decodes and encodes the Glacier engine's mesh geometry
// resources. A resource is a pointer-linked graph of little-endian blocks:
// the first eight bytes point at the container header, which in turn points
// at an object offset table, one entry per mesh object.
//
// Every object of a resource shares one variant, selected by the container
// flags: plain static meshes, weighted skinned meshes, or linked meshes.
// Parse returns the decoded object graph; Write re-serializes it payload
// first, patching the root pointer last, so a decode/encode round trip
// yields an equivalent resource.
package prim

import (
	"fmt"

	"github.com/glaciermodding/go-prim/pkg/geom"
	"github.com/glaciermodding/go-prim/pkg/rw"
)

// NoBoneRig marks a resource without an associated bone rig.
const NoBoneRig = 0xFFFFFFFF

// Resource is a decoded geometry resource.
type Resource struct {
	Flags   PropertyFlags
	BoneRig uint32
	Objects []MeshObject
}

// Parse decodes a geometry resource from data.
func Parse(data []byte, opts ...Option) (*Resource, error) {
	cfg := newConfig(opts)
	r := rw.NewReader(data)

	headerOffset := r.U64()
	r.Skip(8)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if err := r.Seek(headerOffset); err != nil {
		return nil, err
	}

	t, err := parsePrimType(r)
	if err != nil {
		return nil, err
	}
	if t != TypeObjectHeader {
		return nil, &rw.StructuralError{Offset: headerOffset, Cause: "container header has wrong prim type"}
	}

	res := &Resource{
		Flags:   PropertyFlags(r.U32()),
		BoneRig: r.U32(),
	}
	numObjects := r.U32()
	tableOffset := r.U32()
	if err := r.Err(); err != nil {
		return nil, err
	}

	res.Objects = make([]MeshObject, 0, numObjects)
	err = r.ResolveTable(uint64(tableOffset), int(numObjects), func(r *rw.Reader, _ int) error {
		obj, err := parseMeshObject(r, res.Flags, cfg)
		if err != nil {
			return err
		}
		res.Objects = append(res.Objects, obj)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stored container bounds follow the table offset; recomputed on write.
	readVec3(r)
	readVec3(r)
	return res, r.Err()
}

// Write serializes the resource. Object payloads come first, then the
// object offset table, then the container header; the root pointer at
// offset zero is patched once the header position is known.
func (res *Resource) Write() ([]byte, error) {
	if err := res.validateVariants(); err != nil {
		return nil, err
	}

	w := rw.NewWriter()
	w.U64(0)
	w.U64(0)

	offsets := make([]uint32, len(res.Objects))
	for i, obj := range res.Objects {
		off, err := obj.write(w, res.Flags)
		if err != nil {
			return nil, err
		}
		offsets[i] = off
	}

	tableOffset := uint32(w.Pos())
	for _, off := range offsets {
		w.U32(off)
	}
	w.Align(16)

	headerOffset := w.Pos()
	writePrimType(w, TypeObjectHeader)
	w.U32(uint32(res.Flags))
	w.U32(res.BoneRig)
	w.U32(uint32(len(res.Objects)))
	w.U32(tableOffset)

	bb := geom.Empty()
	for _, obj := range res.Objects {
		bb = bb.Union(obj.PrimMesh().BoundingBox())
	}
	writeVec3(w, bb.Min)
	writeVec3(w, bb.Max)
	w.Align(8)

	w.PatchU64(0, headerOffset)
	return w.Bytes(), nil
}

// validateVariants rejects a resource whose objects disagree with the
// container flags, since the flags alone decide how readers interpret
// every object.
func (res *Resource) validateVariants() error {
	for i, obj := range res.Objects {
		var ok bool
		switch obj.(type) {
		case *Linked:
			ok = res.Flags.IsLinkedObject()
		case *Weighted:
			ok = res.Flags.IsWeightedObject() && !res.Flags.IsLinkedObject()
		case *Plain:
			ok = !res.Flags.IsWeightedObject() && !res.Flags.IsLinkedObject()
		}
		if !ok {
			return &ConsistencyError{
				Check:  "object variant",
				Detail: fmt.Sprintf("object %d does not match the container flags", i),
			}
		}
	}
	return nil
}

// ObjectCount returns the number of mesh objects in the resource.
func (res *Resource) ObjectCount() int {
	return len(res.Objects)
}

// ObjectsOfLOD returns the objects visible at the given detail level.
func (res *Resource) ObjectsOfLOD(lod LODLevel) []MeshObject {
	mask := lod.Mask()
	var out []MeshObject
	for _, obj := range res.Objects {
		if obj.PrimMesh().Object.LODMask&mask == mask {
			out = append(out, obj)
		}
	}
	return out
}
