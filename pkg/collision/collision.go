// Package collision implements the per-submesh collision sub-blocks of the
// PRIM format. The block carries no tag of its own; the container's
// is-linked flag selects between the quantized hitbox list and the opaque
// bone-collision blob, so both Read and the write path take the flag from
// the caller.
package collision

import (
	"github.com/glaciermodding/go-prim/pkg/geom"
	"github.com/glaciermodding/go-prim/pkg/rw"
	"github.com/glaciermodding/go-prim/pkg/vertex"
)

// Collision is either a *Box or a *Bone block.
type Collision interface {
	encode(w *rw.Writer) error
}

// Box is a list of axis-aligned hitboxes, each component quantized to one
// byte over the unit cube.
type Box struct {
	TriPerChunk uint16
	Boxes       []geom.BoundingBox
}

// Bone wraps the bone-collision blob owned by the bone-rig resource. Only
// the three header fields are interpreted here; Data is carried opaquely.
type Bone struct {
	NumBlocks  uint16
	ChunkAlign uint16
	Data       []byte
}

// Read decodes a collision block at the current cursor position. linked
// selects the Bone form.
func Read(r *rw.Reader, linked bool) (Collision, error) {
	if linked {
		return readBone(r)
	}
	return readBox(r)
}

func readBox(r *rw.Reader) (*Box, error) {
	numChunks := r.U16()
	c := &Box{TriPerChunk: r.U16()}
	for i := 0; i < int(numChunks); i++ {
		var b geom.BoundingBox
		for j := 0; j < 3; j++ {
			b.Min[j] = float32(r.U8()) / 255
		}
		for j := 0; j < 3; j++ {
			b.Max[j] = float32(r.U8()) / 255
		}
		c.Boxes = append(c.Boxes, b)
	}
	return c, r.Err()
}

func readBone(r *rw.Reader) (*Bone, error) {
	totalSize := r.U16()
	c := &Bone{
		NumBlocks:  r.U16(),
		ChunkAlign: r.U16(),
	}
	if totalSize < 6 {
		return nil, &rw.StructuralError{Offset: r.Pos(), Cause: "bone collision total size below header size"}
	}
	c.Data = r.Bytes(int(totalSize) - 6)
	return c, r.Err()
}

// Write encodes c at the current position. The Box form is 4-aligned after
// the last entry; the Bone form re-derives its total size from the blob.
func Write(w *rw.Writer, c Collision) error {
	return c.encode(w)
}

func (c *Box) encode(w *rw.Writer) error {
	w.U16(uint16(len(c.Boxes)))
	w.U16(c.TriPerChunk)
	for _, b := range c.Boxes {
		for j := 0; j < 3; j++ {
			q, err := quantizeUnit(b.Min[j])
			if err != nil {
				return err
			}
			w.U8(q)
		}
		for j := 0; j < 3; j++ {
			q, err := quantizeUnit(b.Max[j])
			if err != nil {
				return err
			}
			w.U8(q)
		}
	}
	w.Align(4)
	return nil
}

func (c *Bone) encode(w *rw.Writer) error {
	w.U16(uint16(6 + len(c.Data)))
	w.U16(c.NumBlocks)
	w.U16(c.ChunkAlign)
	w.Raw(c.Data)
	return nil
}

func quantizeUnit(v float32) (uint8, error) {
	if v < 0 || v > 1 {
		return 0, &vertex.QuantizationError{Value: v, Min: 0, Max: 255}
	}
	return uint8(v*255 + 0.5), nil
}
