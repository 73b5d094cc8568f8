package rw

import (
	"encoding/binary"
	"math"
)

// Writer builds a resource image in memory. It is append-only: every write
// lands at the current end of the buffer, so Pos doubles as the absolute
// offset of whatever is written next. The single exception is PatchU64,
// which exists for the root pointer that precedes data of unknown size.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the assembled buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Pos returns the current write position, i.e. the length written so far.
func (w *Writer) Pos() uint64 {
	return uint64(len(w.buf))
}

// Raw appends p verbatim.
func (w *Writer) Raw(p []byte) {
	w.buf = append(w.buf, p...)
}

func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) U16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) I16(v int16) {
	w.U16(uint16(v))
}

func (w *Writer) U32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) U64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

// Align pads the buffer with zero bytes to the next multiple of n.
func (w *Writer) Align(n int) {
	pad := (n - len(w.buf)%n) % n
	for i := 0; i < pad; i++ {
		w.buf = append(w.buf, 0)
	}
}

// PatchU64 overwrites 8 bytes at an absolute offset that was already written.
func (w *Writer) PatchU64(off uint64, v uint64) {
	binary.LittleEndian.PutUint64(w.buf[off:off+8], v)
}
