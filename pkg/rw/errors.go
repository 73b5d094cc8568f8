package rw

import "fmt"

// StructuralError reports a read or seek that could not be satisfied by the
// underlying buffer. Offset is the absolute byte position that was attempted.
type StructuralError struct {
	Offset uint64
	Cause  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error at offset 0x%x: %s", e.Offset, e.Cause)
}
