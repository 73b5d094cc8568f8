package prim

import (
	"fmt"

	"github.com/glaciermodding/go-prim/pkg/rw"
)

// MeshObject is one object of a geometry resource. The concrete type is
// determined by the container flags, not by anything in the object itself:
// IsLinkedObject selects Linked, IsWeightedObject selects Weighted, and
// neither selects Plain.
type MeshObject interface {
	// PrimMesh returns the shared mesh data of the object.
	PrimMesh() *Mesh

	write(w *rw.Writer, flags PropertyFlags) (uint32, error)
}

// Plain is a static mesh without bone data.
type Plain struct {
	Mesh Mesh
}

// Weighted is a skinned mesh carrying per-vertex weights, a bone index
// list and a sparse bone acceleration table.
type Weighted struct {
	Mesh        Mesh
	CopyBones   *CopyBones
	BoneIndices []uint16
	BoneInfo    WeightedBoneInfo
}

// Linked is a mesh attached to bones through a dense bit-presence
// acceleration table, without per-vertex weights.
type Linked struct {
	Mesh     Mesh
	BoneInfo LinkedBoneInfo
}

func (p *Plain) PrimMesh() *Mesh     { return &p.Mesh }
func (wm *Weighted) PrimMesh() *Mesh { return &wm.Mesh }
func (l *Linked) PrimMesh() *Mesh    { return &l.Mesh }

// parseMeshObject decodes one object at the current position, dispatching
// on the container flags.
func parseMeshObject(r *rw.Reader, flags PropertyFlags, cfg *config) (MeshObject, error) {
	switch {
	case flags.IsLinkedObject():
		return parseLinked(r, flags, cfg)
	case flags.IsWeightedObject():
		return parseWeighted(r, flags, cfg)
	default:
		m, err := parseMesh(r, flags)
		if err != nil {
			return nil, err
		}
		return &Plain{Mesh: m}, nil
	}
}

func parseWeighted(r *rw.Reader, flags PropertyFlags, cfg *config) (*Weighted, error) {
	m, err := parseMesh(r, flags)
	if err != nil {
		return nil, err
	}
	wm := &Weighted{Mesh: m}

	numCopyBones := r.U32()
	copyBonesOffset := r.U32()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if copyBonesOffset != 0 {
		err = r.Resolve(uint64(copyBonesOffset), func(r *rw.Reader) error {
			cb, err := parseCopyBones(r, int(numCopyBones))
			if err != nil {
				return err
			}
			wm.CopyBones = cb
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	err = r.Ptr32(func(r *rw.Reader) error {
		count := r.U32()
		wm.BoneIndices = make([]uint16, count)
		for i := range wm.BoneIndices {
			wm.BoneIndices[i] = r.U16()
		}
		return r.Err()
	})
	if err != nil {
		return nil, err
	}

	at := r.Pos()
	boneInfoOffset := r.U32()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if boneInfoOffset == 0 {
		return nil, &rw.StructuralError{Offset: at, Cause: "weighted mesh without bone info"}
	}
	err = r.Resolve(uint64(boneInfoOffset), func(r *rw.Reader) error {
		bi, err := parseWeightedBoneInfo(r)
		if err != nil {
			return err
		}
		wm.BoneInfo = bi
		return nil
	})
	if err != nil {
		return nil, err
	}

	for bone, slot := range wm.BoneInfo.Remap {
		if slot != NoAccelEntry && int(slot) >= len(wm.BoneInfo.Accel) {
			err = cfg.check(&ConsistencyError{
				Check:  "bone remap range",
				Detail: fmt.Sprintf("bone %d maps to entry %d of %d", bone, slot, len(wm.BoneInfo.Accel)),
			})
			if err != nil {
				return nil, err
			}
		}
	}
	if err := cfg.check(checkAccelBounds(wm.BoneInfo.Accel, len(wm.Mesh.SubMesh.Indices))); err != nil {
		return nil, err
	}
	return wm, nil
}

func parseLinked(r *rw.Reader, flags PropertyFlags, cfg *config) (*Linked, error) {
	m, err := parseMesh(r, flags)
	if err != nil {
		return nil, err
	}
	l := &Linked{Mesh: m}

	r.Skip(12) // three reserved words
	err = r.Ptr32(func(r *rw.Reader) error {
		bi, err := parseLinkedBoneInfo(r)
		if err != nil {
			return err
		}
		l.BoneInfo = bi
		return nil
	})
	if err != nil {
		return nil, err
	}

	if set := l.BoneInfo.SetBits(); set != len(l.BoneInfo.Accel) {
		err = cfg.check(&ConsistencyError{
			Check:  "bone presence count",
			Detail: fmt.Sprintf("%d presence bits set for %d accel entries", set, len(l.BoneInfo.Accel)),
		})
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.check(checkAccelBounds(l.BoneInfo.Accel, len(l.Mesh.SubMesh.Indices))); err != nil {
		return nil, err
	}
	return l, nil
}

func (p *Plain) write(w *rw.Writer, flags PropertyFlags) (uint32, error) {
	bb := p.Mesh.BoundingBox()
	subMeshPtr, err := writeSubMesh(w, &p.Mesh, flags, bb)
	if err != nil {
		return 0, err
	}

	headerOffset := uint32(w.Pos())
	writeMeshHeader(w, &p.Mesh, flags, subMeshPtr, bb)
	w.U8(p.Mesh.ClothID)
	w.Align(16)
	return headerOffset, nil
}

func (wm *Weighted) write(w *rw.Writer, flags PropertyFlags) (uint32, error) {
	bb := wm.Mesh.BoundingBox()
	subMeshPtr, err := writeSubMesh(w, &wm.Mesh, flags, bb)
	if err != nil {
		return 0, err
	}

	boneInfoPtr := uint32(writeWeightedBoneInfo(w, &wm.BoneInfo))

	boneIndicesPtr := uint32(w.Pos())
	w.U32(uint32(len(wm.BoneIndices)))
	for _, idx := range wm.BoneIndices {
		w.U16(idx)
	}
	w.Align(16)

	headerOffset := uint32(w.Pos())
	writeMeshHeader(w, &wm.Mesh, flags, subMeshPtr, bb)
	w.U32(uint32(wm.Mesh.ClothID))
	var numCopyBones uint32
	if wm.CopyBones != nil {
		numCopyBones = uint32(len(wm.CopyBones.Indices))
	}
	w.U32(numCopyBones)
	w.U32(0) // copy-bone data is not emitted
	w.U32(boneIndicesPtr)
	w.U32(boneInfoPtr)
	w.Align(16)
	return headerOffset, nil
}

func (l *Linked) write(w *rw.Writer, flags PropertyFlags) (uint32, error) {
	bb := l.Mesh.BoundingBox()
	subMeshPtr, err := writeSubMesh(w, &l.Mesh, flags, bb)
	if err != nil {
		return 0, err
	}

	boneInfoPtr := uint32(writeLinkedBoneInfo(w, &l.BoneInfo))

	headerOffset := uint32(w.Pos())
	writeMeshHeader(w, &l.Mesh, flags, subMeshPtr, bb)
	w.U32(uint32(l.Mesh.ClothID))
	w.U32(0)
	w.U32(0)
	w.U32(0)
	w.U32(boneInfoPtr)
	w.Align(16)
	return headerOffset, nil
}
