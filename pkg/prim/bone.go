package prim

import (
	"fmt"
	"math/bits"

	"github.com/glaciermodding/go-prim/pkg/rw"
)

// BoneAccel describes a contiguous index-buffer subrange influenced by one
// bone.
type BoneAccel struct {
	Offset uint32
	Count  uint32
}

// NoAccelEntry marks a bone without an acceleration entry in the sparse
// remap table.
const NoAccelEntry = 0xFF

// WeightedBoneInfo is the bone acceleration structure of the Weighted
// variant: a 255-entry sparse remap array indexing into Accel.
type WeightedBoneInfo struct {
	Remap [255]uint8
	Accel []BoneAccel
}

// IndexRange resolves the index-buffer subrange influenced by a bone.
// ok is false when the bone has no vertices.
func (bi *WeightedBoneInfo) IndexRange(bone int) (BoneAccel, bool) {
	if bone < 0 || bone >= len(bi.Remap) {
		return BoneAccel{}, false
	}
	slot := bi.Remap[bone]
	if slot == NoAccelEntry || int(slot) >= len(bi.Accel) {
		return BoneAccel{}, false
	}
	return bi.Accel[slot], true
}

func parseWeightedBoneInfo(r *rw.Reader) (WeightedBoneInfo, error) {
	var bi WeightedBoneInfo
	_ = r.U16() // declared total size, re-derived on write
	numAccel := r.U16()
	copy(bi.Remap[:], r.Bytes(255))
	r.Skip(1)
	bi.Accel = make([]BoneAccel, numAccel)
	for i := range bi.Accel {
		bi.Accel[i].Offset = r.U32()
		bi.Accel[i].Count = r.U32()
	}
	return bi, r.Err()
}

// writeWeightedBoneInfo re-derives the size fields and normalizes the remap
// table: any entry that does not index a real acceleration entry is
// rewritten to the no-entry sentinel, so the emitted table is internally
// consistent even when the decoded original was not.
func writeWeightedBoneInfo(w *rw.Writer, bi *WeightedBoneInfo) uint64 {
	pos := w.Pos()
	w.U16(uint16(4 + 256 + len(bi.Accel)*8))
	w.U16(uint16(len(bi.Accel)))
	for _, v := range bi.Remap {
		if v != NoAccelEntry && int(v) >= len(bi.Accel) {
			v = NoAccelEntry
		}
		w.U8(v)
	}
	w.U8(0)
	for _, e := range bi.Accel {
		w.U32(e.Offset)
		w.U32(e.Count)
	}
	w.Align(16)
	return pos
}

// LinkedBoneInfo is the bone acceleration structure of the Linked variant:
// a dense bit-presence table where the k-th set bit, in ascending order,
// owns Accel[k].
//
// Presence holds the raw 64-bit words as stored. A bit-reversed reading of
// the table exists in the wild but has not been validated against real
// files, so the raw word order is kept.
type LinkedBoneInfo struct {
	TotalChunksAlign uint32
	Presence         []uint64
	Accel            []BoneAccel
}

// HasBone reports whether the presence bit for a bone is set.
func (bi *LinkedBoneInfo) HasBone(bone int) bool {
	if bone < 0 || bone >= int(bi.TotalChunksAlign) {
		return false
	}
	word := bone / 64
	if word >= len(bi.Presence) {
		return false
	}
	return bi.Presence[word]&(1<<(bone%64)) != 0
}

// IndexRange resolves the index-buffer subrange influenced by a bone: the
// k-th set presence bit maps to the k-th acceleration entry.
func (bi *LinkedBoneInfo) IndexRange(bone int) (BoneAccel, bool) {
	if !bi.HasBone(bone) {
		return BoneAccel{}, false
	}
	k := 0
	word := bone / 64
	for i := 0; i < word; i++ {
		k += bits.OnesCount64(bi.Presence[i])
	}
	k += bits.OnesCount64(bi.Presence[word] & (1<<(bone%64) - 1))
	if k >= len(bi.Accel) {
		return BoneAccel{}, false
	}
	return bi.Accel[k], true
}

// SetBits returns the number of set presence bits.
func (bi *LinkedBoneInfo) SetBits() int {
	n := 0
	for _, word := range bi.Presence {
		n += bits.OnesCount64(word)
	}
	return n
}

func parseLinkedBoneInfo(r *rw.Reader) (LinkedBoneInfo, error) {
	var bi LinkedBoneInfo
	_ = r.U16() // declared total size, re-derived on write
	numAccel := r.U16()
	bi.TotalChunksAlign = r.U32()
	bi.Presence = make([]uint64, (bi.TotalChunksAlign+63)/64)
	for i := range bi.Presence {
		bi.Presence[i] = r.U64()
	}
	bi.Accel = make([]BoneAccel, numAccel)
	for i := range bi.Accel {
		bi.Accel[i].Offset = r.U32()
		bi.Accel[i].Count = r.U32()
	}
	return bi, r.Err()
}

func writeLinkedBoneInfo(w *rw.Writer, bi *LinkedBoneInfo) uint64 {
	pos := w.Pos()
	w.U16(uint16(8 + len(bi.Presence)*8 + len(bi.Accel)*8))
	w.U16(uint16(len(bi.Accel)))
	w.U32(bi.TotalChunksAlign)
	for _, word := range bi.Presence {
		w.U64(word)
	}
	for _, e := range bi.Accel {
		w.U32(e.Offset)
		w.U32(e.Count)
	}
	w.Align(16)
	return pos
}

// CopyBones holds the index/offset parallel arrays of the bone-copy
// optimization on Weighted meshes.
type CopyBones struct {
	Indices []uint32
	Offsets []uint32
}

func parseCopyBones(r *rw.Reader, count int) (*CopyBones, error) {
	cb := &CopyBones{
		Indices: make([]uint32, count),
		Offsets: make([]uint32, count),
	}
	for i := range cb.Indices {
		cb.Indices[i] = r.U32()
	}
	for i := range cb.Offsets {
		cb.Offsets[i] = r.U32()
	}
	return cb, r.Err()
}

// checkAccelBounds verifies that every acceleration entry addresses a slice
// inside the index buffer.
func checkAccelBounds(accel []BoneAccel, numIndices int) *ConsistencyError {
	for i, e := range accel {
		if int(e.Offset)+int(e.Count) > numIndices {
			return &ConsistencyError{
				Check:  "bone accel bounds",
				Detail: fmt.Sprintf("entry %d spans [%d, %d) beyond %d indices", i, e.Offset, e.Offset+e.Count, numIndices),
			}
		}
	}
	return nil
}
