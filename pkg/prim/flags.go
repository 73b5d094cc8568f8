package prim

import "fmt"

// PrimType tags a header block within the resource.
type PrimType uint16

const (
	TypeNone         PrimType = 0
	TypeObjectHeader PrimType = 1
	TypeMesh         PrimType = 2
	TypeShape        PrimType = 5
)

func (t PrimType) valid() bool {
	switch t {
	case TypeNone, TypeObjectHeader, TypeMesh, TypeShape:
		return true
	}
	return false
}

// PropertyFlags are the file-wide property bits on the container header.
// The linked/weighted bits select the mesh variant for every object in the
// resource; there is no per-object variant tag.
type PropertyFlags uint32

const (
	flagHasBones          PropertyFlags = 1 << 0
	flagHasFrames         PropertyFlags = 1 << 1
	flagIsLinkedObject    PropertyFlags = 1 << 2
	flagIsWeightedObject  PropertyFlags = 1 << 3
	flagUseBounds         PropertyFlags = 1 << 8
	flagHasHighResolution PropertyFlags = 1 << 9
)

func (f PropertyFlags) HasBones() bool            { return f&flagHasBones != 0 }
func (f PropertyFlags) HasFrames() bool           { return f&flagHasFrames != 0 }
func (f PropertyFlags) IsLinkedObject() bool      { return f&flagIsLinkedObject != 0 }
func (f PropertyFlags) IsWeightedObject() bool    { return f&flagIsWeightedObject != 0 }
func (f PropertyFlags) UseBounds() bool           { return f&flagUseBounds != 0 }
func (f PropertyFlags) HasHighResPositions() bool { return f&flagHasHighResolution != 0 }

// ObjectFlags are the per-object property bits.
type ObjectFlags uint8

const (
	objFlagXAxisLocked     ObjectFlags = 1 << 0
	objFlagYAxisLocked     ObjectFlags = 1 << 1
	objFlagZAxisLocked     ObjectFlags = 1 << 2
	objFlagHighResPosition ObjectFlags = 1 << 3
	objFlagConstantColor   ObjectFlags = 1 << 5
	objFlagNoPhysicsProp   ObjectFlags = 1 << 6
)

func (f ObjectFlags) XAxisLocked() bool         { return f&objFlagXAxisLocked != 0 }
func (f ObjectFlags) YAxisLocked() bool         { return f&objFlagYAxisLocked != 0 }
func (f ObjectFlags) ZAxisLocked() bool         { return f&objFlagZAxisLocked != 0 }
func (f ObjectFlags) HasHighResPositions() bool { return f&objFlagHighResPosition != 0 }
func (f ObjectFlags) HasConstantColor() bool    { return f&objFlagConstantColor != 0 }
func (f ObjectFlags) IsNoPhysicsProp() bool     { return f&objFlagNoPhysicsProp != 0 }

// SubType is the per-object mesh subtype.
type SubType uint8

const (
	SubTypeStandard SubType = iota
	SubTypeLinked
	SubTypeWeighted
	SubTypeStandardUV2
	SubTypeStandardUV3
	SubTypeStandardUV4
	SubTypeSpeedtree
)

func (s SubType) String() string {
	switch s {
	case SubTypeStandard:
		return "Standard"
	case SubTypeLinked:
		return "Linked"
	case SubTypeWeighted:
		return "Weighted"
	case SubTypeStandardUV2:
		return "StandardUV2"
	case SubTypeStandardUV3:
		return "StandardUV3"
	case SubTypeStandardUV4:
		return "StandardUV4"
	case SubTypeSpeedtree:
		return "Speedtree"
	}
	return fmt.Sprintf("SubType(%d)", uint8(s))
}

// LODLevel selects one of the eight level-of-detail tiers. Level 1 is the
// most detailed and maps to the highest mask bit.
type LODLevel int

const (
	LODLevel1 LODLevel = iota + 1
	LODLevel2
	LODLevel3
	LODLevel4
	LODLevel5
	LODLevel6
	LODLevel7
	LODLevel8
)

// Mask returns the LOD-mask bit for the level.
func (l LODLevel) Mask() uint8 {
	return 1 << (8 - l)
}
