package collision

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/glaciermodding/go-prim/pkg/geom"
	"github.com/glaciermodding/go-prim/pkg/rw"
	"github.com/glaciermodding/go-prim/pkg/vertex"
)

func TestBox(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		original := &Box{
			TriPerChunk: 32,
			Boxes: []geom.BoundingBox{
				{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}},
				{Min: mgl32.Vec3{51.0 / 255, 102.0 / 255, 0}, Max: mgl32.Vec3{204.0 / 255, 1, 153.0 / 255}},
			},
		}

		w := rw.NewWriter()
		if err := Write(w, original); err != nil {
			t.Fatalf("write: %v", err)
		}
		if len(w.Bytes())%4 != 0 {
			t.Errorf("block is not 4-aligned: %d bytes", len(w.Bytes()))
		}

		decoded, err := Read(rw.NewReader(w.Bytes()), false)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		box, ok := decoded.(*Box)
		if !ok {
			t.Fatalf("decoded type: got %T, want *Box", decoded)
		}
		if box.TriPerChunk != original.TriPerChunk {
			t.Errorf("tri per chunk: got %d, want %d", box.TriPerChunk, original.TriPerChunk)
		}
		if len(box.Boxes) != len(original.Boxes) {
			t.Fatalf("box count: got %d, want %d", len(box.Boxes), len(original.Boxes))
		}
		for i, b := range box.Boxes {
			if b != original.Boxes[i] {
				t.Errorf("box %d: got %+v, want %+v", i, b, original.Boxes[i])
			}
		}
	})

	t.Run("OutsideUnitCube", func(t *testing.T) {
		bad := &Box{Boxes: []geom.BoundingBox{{Max: mgl32.Vec3{1.5, 0, 0}}}}
		w := rw.NewWriter()
		err := Write(w, bad)
		var qe *vertex.QuantizationError
		if !errors.As(err, &qe) {
			t.Fatalf("expected QuantizationError, got %v", err)
		}
		if qe.Value != 1.5 {
			t.Errorf("error value: got %g, want 1.5", qe.Value)
		}
	})
}

func TestBone(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		original := &Bone{
			NumBlocks:  3,
			ChunkAlign: 16,
			Data:       []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x11},
		}

		w := rw.NewWriter()
		if err := Write(w, original); err != nil {
			t.Fatalf("write: %v", err)
		}

		decoded, err := Read(rw.NewReader(w.Bytes()), true)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		bone, ok := decoded.(*Bone)
		if !ok {
			t.Fatalf("decoded type: got %T, want *Bone", decoded)
		}
		if bone.NumBlocks != original.NumBlocks || bone.ChunkAlign != original.ChunkAlign {
			t.Errorf("header: got %d/%d, want %d/%d",
				bone.NumBlocks, bone.ChunkAlign, original.NumBlocks, original.ChunkAlign)
		}
		if !bytes.Equal(bone.Data, original.Data) {
			t.Errorf("blob: got %x, want %x", bone.Data, original.Data)
		}
	})

	t.Run("TotalSizeBelowHeader", func(t *testing.T) {
		w := rw.NewWriter()
		w.U16(4) // below the 6-byte header
		w.U16(0)
		w.U16(0)
		_, err := Read(rw.NewReader(w.Bytes()), true)
		var se *rw.StructuralError
		if !errors.As(err, &se) {
			t.Fatalf("expected StructuralError, got %v", err)
		}
	})
}
