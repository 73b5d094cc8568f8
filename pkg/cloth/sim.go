package cloth

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/glaciermodding/go-prim/pkg/rw"
)

// Byte sizes of the simulation-properties block. The larger layout replaces
// the scalar skinning-constrain scale with a vector and appends six u32
// values; which one a file uses is derived from the declared size alone.
const (
	legacyPropertiesSize = 0x74
	newPropertiesSize    = 0x94
)

const gridPointSize = 16

// NoNeighbor marks an empty slot in a GridPoint.
const NoNeighbor uint16 = 0xFFFF

// SimPack is the simulation form of a cloth block: physical constants, a
// grid-adjacency table and a trailing list of anchor records.
type SimPack struct {
	Properties *SimulationProperties
	GridPoints []GridPoint
	Anchors    []AnchorRecord
}

// AnchorRecord is one of the trailing 2x16-bit records. The field meanings
// are uncertain; the engine's names suggest an anchor distance and a
// particle index.
type AnchorRecord struct {
	AnchorDist    uint16
	ParticleIndex uint16
}

// GridPoint lists the up to eight neighbors of one simulated vertex, in
// fixed compass order. Empty slots hold NoNeighbor.
type GridPoint struct {
	Down, DownRight, Right, UpRight uint16
	Up, UpLeft, Left, DownLeft      uint16
}

// SimulationProperties are the physical constants of the cloth simulation.
type SimulationProperties struct {
	RootBone        uint32
	Frequency       float32
	CollisionOffset float32
	Damping         float32
	Gravity         mgl32.Vec3
	DragConstant    float32
	WindConstant    float32
	ZBias           float32
	CollisionGroups uint32

	UsePerVertexStiffness bool
	UsePerVertexDamping   bool
	UsePerVertexSkinning  bool

	Constrain ConstrainProperties

	// Extra carries the six trailing values of the newer layout. Present
	// exactly when Constrain.SkinningConstrainScaleV is.
	Extra [6]uint32
}

// BendConstrainType selects the bend constraint model.
type BendConstrainType uint32

const (
	BendStick BendConstrainType = iota
	BendTriangle
)

// StretchConstrainType selects the stretch constraint model.
type StretchConstrainType uint32

const (
	StretchAnchor StretchConstrainType = iota
	StretchLRA
	StretchNone
)

// Neighbor names a GridPoint slot.
type Neighbor uint32

const (
	NeighborDown Neighbor = iota
	NeighborDownRight
	NeighborRight
	NeighborUpRight
	NeighborUp
	NeighborUpLeft
	NeighborLeft
	NeighborDownLeft
)

// ConstrainProperties is the nested constraint block. The scalar
// SkinningConstrainScale belongs to the legacy layout; the newer layout
// stores SkinningConstrainScaleV instead, and its presence decides which
// layout the pack re-encodes to.
type ConstrainProperties struct {
	ShearStiffness float32
	BendStiffness  float32
	BendCurvature  float32

	SkinningConstrainScale  float32
	SkinningConstrainScaleV *mgl32.Vec3

	MaxMotion         float32
	AnchorStretch     float32
	LRAStretch        float32
	ParentDistStretch float32

	BendConstrainType         BendConstrainType
	StretchConstrainType      StretchConstrainType
	NumConstrainIterations    uint32
	AnchorStretchDirection    [4]Neighbor
	NumAnchorStretchDirection uint32

	UseParentDistConstrains     bool
	UseSphereSkinningConstrains bool
	UsePosNormalConstrains      bool
	UseNegNormalConstrains      bool
}

func readSimPack(r *rw.Reader) (*SimPack, error) {
	_ = r.U32() // declared total size, re-derived on write
	propertiesSize := r.U16()
	anchorCount := r.U16()
	gridSize := r.U32()
	if err := r.Err(); err != nil {
		return nil, err
	}

	p := &SimPack{}
	if propertiesSize > 0 {
		props, err := readProperties(r, propertiesSize > legacyPropertiesSize)
		if err != nil {
			return nil, err
		}
		p.Properties = props
	}

	// gridSize is the byte length of the grid region, 16 bytes per point
	numPoints := int(gridSize) / gridPointSize
	p.GridPoints = make([]GridPoint, numPoints)
	for i := range p.GridPoints {
		g := &p.GridPoints[i]
		for _, slot := range []*uint16{&g.Down, &g.DownRight, &g.Right, &g.UpRight, &g.Up, &g.UpLeft, &g.Left, &g.DownLeft} {
			*slot = uint16(r.I16())
		}
	}

	p.Anchors = make([]AnchorRecord, anchorCount)
	for i := range p.Anchors {
		p.Anchors[i].AnchorDist = r.U16()
		p.Anchors[i].ParticleIndex = r.U16()
	}
	return p, r.Err()
}

func readProperties(r *rw.Reader, newFormat bool) (*SimulationProperties, error) {
	p := &SimulationProperties{
		RootBone:        r.U32(),
		Frequency:       r.F32(),
		CollisionOffset: r.F32(),
		Damping:         r.F32(),
		Gravity:         mgl32.Vec3{r.F32(), r.F32(), r.F32()},
		DragConstant:    r.F32(),
		WindConstant:    r.F32(),
		ZBias:           r.F32(),
		CollisionGroups: r.U32(),
	}
	p.UsePerVertexStiffness = r.U8() > 0
	p.UsePerVertexDamping = r.U8() > 0
	p.UsePerVertexSkinning = r.U8() > 0
	r.Skip(1)

	c := &p.Constrain
	c.ShearStiffness = r.F32()
	c.BendStiffness = r.F32()
	c.BendCurvature = r.F32()
	if newFormat {
		v := mgl32.Vec3{r.F32(), r.F32(), r.F32()}
		c.SkinningConstrainScaleV = &v
	} else {
		c.SkinningConstrainScale = r.F32()
	}
	c.MaxMotion = r.F32()
	c.AnchorStretch = r.F32()
	c.LRAStretch = r.F32()
	c.ParentDistStretch = r.F32()
	c.BendConstrainType = BendConstrainType(r.U32())
	c.StretchConstrainType = StretchConstrainType(r.U32())
	c.NumConstrainIterations = r.U32()
	for i := range c.AnchorStretchDirection {
		c.AnchorStretchDirection[i] = Neighbor(r.U32())
	}
	c.NumAnchorStretchDirection = r.U32()
	c.UseParentDistConstrains = r.U8() > 0
	c.UseSphereSkinningConstrains = r.U8() > 0
	c.UsePosNormalConstrains = r.U8() > 0
	c.UseNegNormalConstrains = r.U8() > 0

	if newFormat {
		for i := range p.Extra {
			p.Extra[i] = r.U32()
		}
	}
	return p, r.Err()
}

func (p *SimPack) encode(w *rw.Writer) error {
	propertiesSize := 0
	if p.Properties != nil {
		propertiesSize = legacyPropertiesSize
		if p.Properties.Constrain.SkinningConstrainScaleV != nil {
			propertiesSize = newPropertiesSize
		}
	}
	gridSize := len(p.GridPoints) * gridPointSize
	dataSize := 12 + propertiesSize + len(p.Anchors)*4 + gridSize

	w.U32(uint32(dataSize))
	w.U16(uint16(propertiesSize))
	w.U16(uint16(len(p.Anchors)))
	w.U32(uint32(gridSize))

	if p.Properties != nil {
		writeProperties(w, p.Properties)
	}
	for _, g := range p.GridPoints {
		for _, v := range []uint16{g.Down, g.DownRight, g.Right, g.UpRight, g.Up, g.UpLeft, g.Left, g.DownLeft} {
			w.U16(v)
		}
	}
	for _, a := range p.Anchors {
		w.U16(a.AnchorDist)
		w.U16(a.ParticleIndex)
	}
	return nil
}

func writeProperties(w *rw.Writer, p *SimulationProperties) {
	w.U32(p.RootBone)
	w.F32(p.Frequency)
	w.F32(p.CollisionOffset)
	w.F32(p.Damping)
	for i := 0; i < 3; i++ {
		w.F32(p.Gravity[i])
	}
	w.F32(p.DragConstant)
	w.F32(p.WindConstant)
	w.F32(p.ZBias)
	w.U32(p.CollisionGroups)
	w.U8(boolByte(p.UsePerVertexStiffness))
	w.U8(boolByte(p.UsePerVertexDamping))
	w.U8(boolByte(p.UsePerVertexSkinning))
	w.U8(0)

	c := &p.Constrain
	w.F32(c.ShearStiffness)
	w.F32(c.BendStiffness)
	w.F32(c.BendCurvature)
	if c.SkinningConstrainScaleV != nil {
		for i := 0; i < 3; i++ {
			w.F32(c.SkinningConstrainScaleV[i])
		}
	} else {
		w.F32(c.SkinningConstrainScale)
	}
	w.F32(c.MaxMotion)
	w.F32(c.AnchorStretch)
	w.F32(c.LRAStretch)
	w.F32(c.ParentDistStretch)
	w.U32(uint32(c.BendConstrainType))
	w.U32(uint32(c.StretchConstrainType))
	w.U32(c.NumConstrainIterations)
	for _, d := range c.AnchorStretchDirection {
		w.U32(uint32(d))
	}
	w.U32(c.NumAnchorStretchDirection)
	w.U8(boolByte(c.UseParentDistConstrains))
	w.U8(boolByte(c.UseSphereSkinningConstrains))
	w.U8(boolByte(c.UsePosNormalConstrains))
	w.U8(boolByte(c.UseNegNormalConstrains))

	if c.SkinningConstrainScaleV != nil {
		for _, v := range p.Extra {
			w.U32(v)
		}
	}
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
