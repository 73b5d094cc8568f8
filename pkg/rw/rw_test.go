package rw

import (
	"bytes"
	"errors"
	"testing"
)

func TestReader(t *testing.T) {
	t.Run("Scalars", func(t *testing.T) {
		w := NewWriter()
		w.U8(0xAB)
		w.U16(0x1234)
		w.I16(-5)
		w.U32(0xDEADBEEF)
		w.U64(0x1122334455667788)
		w.F32(1.5)

		r := NewReader(w.Bytes())
		if got := r.U8(); got != 0xAB {
			t.Errorf("U8: got %#x, want 0xAB", got)
		}
		if got := r.U16(); got != 0x1234 {
			t.Errorf("U16: got %#x, want 0x1234", got)
		}
		if got := r.I16(); got != -5 {
			t.Errorf("I16: got %d, want -5", got)
		}
		if got := r.U32(); got != 0xDEADBEEF {
			t.Errorf("U32: got %#x, want 0xDEADBEEF", got)
		}
		if got := r.U64(); got != 0x1122334455667788 {
			t.Errorf("U64: got %#x", got)
		}
		if got := r.F32(); got != 1.5 {
			t.Errorf("F32: got %g, want 1.5", got)
		}
		if err := r.Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ShortReadSticks", func(t *testing.T) {
		r := NewReader([]byte{0x01, 0x02})
		_ = r.U32()
		if r.Err() == nil {
			t.Fatal("expected error for short read")
		}
		var se *StructuralError
		if !errors.As(r.Err(), &se) {
			t.Fatalf("expected StructuralError, got %T", r.Err())
		}
		if se.Offset != 0 {
			t.Errorf("offset: got %#x, want 0", se.Offset)
		}
		// later reads keep reporting the first failure
		_ = r.U8()
		if !errors.As(r.Err(), &se) || se.Offset != 0 {
			t.Error("first error was not preserved")
		}
	})

	t.Run("SeekBeyondEnd", func(t *testing.T) {
		r := NewReader(make([]byte, 8))
		if err := r.Seek(9); err == nil {
			t.Fatal("expected error for seek beyond end")
		}
	})

	t.Run("ResolveRestoresPosition", func(t *testing.T) {
		data := make([]byte, 32)
		data[16] = 0x7F
		r := NewReader(data)
		_ = r.U32()

		err := r.Resolve(16, func(r *Reader) error {
			if got := r.U8(); got != 0x7F {
				t.Errorf("pointee: got %#x, want 0x7F", got)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if r.Pos() != 4 {
			t.Errorf("position after resolve: got %d, want 4", r.Pos())
		}
	})

	t.Run("ResolveRestoresOnError", func(t *testing.T) {
		boom := errors.New("boom")
		r := NewReader(make([]byte, 16))
		_ = r.U16()
		err := r.Resolve(8, func(r *Reader) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("expected inner error, got %v", err)
		}
		if r.Pos() != 2 {
			t.Errorf("position after failed resolve: got %d, want 2", r.Pos())
		}
	})

	t.Run("Ptr32", func(t *testing.T) {
		w := NewWriter()
		w.U32(8)
		w.U32(0)
		w.U16(0xBEEF)
		r := NewReader(w.Bytes())

		err := r.Ptr32(func(r *Reader) error {
			if got := r.U16(); got != 0xBEEF {
				t.Errorf("pointee: got %#x, want 0xBEEF", got)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("ptr32: %v", err)
		}
		if r.Pos() != 4 {
			t.Errorf("position after ptr32: got %d, want 4", r.Pos())
		}
	})

	t.Run("ResolveTable", func(t *testing.T) {
		w := NewWriter()
		w.U32(0) // keep payloads away from offset zero
		w.U8(10) // entry 0 payload at offset 4
		w.U8(20) // entry 1 payload at offset 5
		w.Align(8)
		tableOff := w.Pos()
		w.U32(4)
		w.U32(5)
		buf := w.Bytes()

		r := NewReader(buf)
		var got []uint8
		err := r.ResolveTable(tableOff, 2, func(r *Reader, i int) error {
			got = append(got, r.U8())
			return r.Err()
		})
		if err != nil {
			t.Fatalf("resolve table: %v", err)
		}
		if len(got) != 2 || got[0] != 10 || got[1] != 20 {
			t.Errorf("entries: got %v, want [10 20]", got)
		}
		if r.Pos() != 0 {
			t.Errorf("position after table: got %d, want 0", r.Pos())
		}
	})
}

func TestWriter(t *testing.T) {
	t.Run("Align", func(t *testing.T) {
		w := NewWriter()
		w.U8(1)
		w.Align(16)
		if w.Pos() != 16 {
			t.Errorf("pos after align: got %d, want 16", w.Pos())
		}
		w.Align(16)
		if w.Pos() != 16 {
			t.Errorf("align on boundary must not pad: got %d", w.Pos())
		}
		if !bytes.Equal(w.Bytes()[1:], make([]byte, 15)) {
			t.Error("padding is not zeroed")
		}
	})

	t.Run("PatchU64", func(t *testing.T) {
		w := NewWriter()
		w.U64(0)
		w.U32(0xAAAAAAAA)
		w.PatchU64(0, 0xCAFEBABE)

		r := NewReader(w.Bytes())
		if got := r.U64(); got != 0xCAFEBABE {
			t.Errorf("patched value: got %#x, want 0xCAFEBABE", got)
		}
		if got := r.U32(); got != 0xAAAAAAAA {
			t.Errorf("following data clobbered: got %#x", got)
		}
	})
}
