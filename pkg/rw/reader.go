// Package rw implements the offset-addressed binary layer underneath the PRIM
// codec: a little-endian cursor over a single in-memory buffer with
// seek-parse-restore pointer resolution, and an append-only writer with
// alignment padding and root-pointer patching.
//
// PRIM files address every substructure by absolute byte offset, so the
// reader never hands out sub-slices across resolve calls; it only moves an
// integer cursor over the one owned buffer.
package rw

import (
	"encoding/binary"
	"math"
)

// Reader is a cursor over a resource buffer. Scalar read methods record the
// first failure instead of returning it; callers check Err at structure
// boundaries. Resolve and Seek report failures immediately as well, so a
// bad pointer aborts the walk where it happens.
type Reader struct {
	data []byte
	pos  int
	err  error
}

// NewReader creates a reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first error encountered by any read since the reader was
// created, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Pos returns the current absolute cursor position.
func (r *Reader) Pos() uint64 {
	return uint64(r.pos)
}

// Len returns the total buffer length.
func (r *Reader) Len() int {
	return len(r.data)
}

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(off uint64) error {
	if off > uint64(len(r.data)) {
		return r.fail(off, "seek beyond end of buffer")
	}
	r.pos = int(off)
	return nil
}

func (r *Reader) fail(off uint64, cause string) error {
	err := &StructuralError{Offset: off, Cause: cause}
	if r.err == nil {
		r.err = err
	}
	return err
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.data) {
		r.fail(uint64(r.pos), "short read")
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Bytes reads n raw bytes and returns a copy.
func (r *Reader) Bytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) {
	r.take(n)
}

func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) I16() int16 {
	return int16(r.U16())
}

func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) U64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *Reader) F32() float32 {
	return math.Float32frombits(r.U32())
}

// Resolve seeks to off, runs fn, then restores the cursor to where it was
// before the call. The restore happens even when fn fails.
func (r *Reader) Resolve(off uint64, fn func(*Reader) error) error {
	if r.err != nil {
		return r.err
	}
	saved := r.pos
	if err := r.Seek(off); err != nil {
		return err
	}
	err := fn(r)
	r.pos = saved
	if err != nil {
		return err
	}
	return r.err
}

// Ptr32 reads a u32 absolute offset at the current position and resolves the
// pointee with fn, restoring the cursor to just past the offset field.
func (r *Reader) Ptr32(fn func(*Reader) error) error {
	off := r.U32()
	if r.err != nil {
		return r.err
	}
	return r.Resolve(uint64(off), fn)
}

// ResolveTable seeks to tableOff, reads count u32 offsets, and resolves each
// pointee in turn with fn. The original cursor is restored once, after the
// whole table has been consumed.
func (r *Reader) ResolveTable(tableOff uint64, count int, fn func(r *Reader, i int) error) error {
	if r.err != nil {
		return r.err
	}
	saved := r.pos
	defer func() { r.pos = saved }()

	if err := r.Seek(tableOff); err != nil {
		return err
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = r.U32()
	}
	if r.err != nil {
		return r.err
	}
	for i, off := range offsets {
		if err := r.Seek(uint64(off)); err != nil {
			return err
		}
		if err := fn(r, i); err != nil {
			return err
		}
		if r.err != nil {
			return r.err
		}
	}
	return nil
}
