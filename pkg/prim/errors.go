package prim

import "fmt"

// UnsupportedSubtypeError marks a subtype the format recognizes but this
// codec does not parse. It is distinct from a structural error so corpus
// scans can skip such resources instead of flagging them as corrupt.
type UnsupportedSubtypeError struct {
	SubType SubType
}

func (e *UnsupportedSubtypeError) Error() string {
	return fmt.Sprintf("mesh subtype %s is recognized but not supported", e.SubType)
}

// ConsistencyError reports a sanity check that real files are known to
// violate. Decoding fails with it only under WithStrictConsistency;
// otherwise the violation is logged and decoding proceeds.
type ConsistencyError struct {
	Check  string
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency check %q failed: %s", e.Check, e.Detail)
}
