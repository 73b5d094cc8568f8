// Package cloth implements the cloth sub-block that can hang off a PRIM
// submesh. The block's form is selected by the top bit of the mesh's
// cloth-kind byte, not by anything stored in the block itself: bit set means
// a full physics simulation pack, clear means one skinned-follower record
// per vertex with no length prefix of its own.
package cloth

import (
	"github.com/glaciermodding/go-prim/pkg/rw"
)

// Block is either Skinned or a *SimPack.
type Block interface {
	encode(w *rw.Writer) error
}

// Skinned is the follower form: one record per submesh vertex.
type Skinned []Skinning

// Skinning binds a cloth vertex to up to four bones.
type Skinning struct {
	Indices          [4]uint16
	Weights          [4]uint16
	SimulationBias   uint16
	SimulationWeight uint16
}

// IsSimulation reports whether a cloth-kind byte selects the simulation
// form. Only the top bit matters; the low bits carry other cloth state.
func IsSimulation(clothID uint8) bool {
	return clothID&0x80 == 0x80
}

// Read decodes a cloth block at the current cursor position. numVertices is
// the enclosing submesh's vertex count, which sizes the skinned form.
func Read(r *rw.Reader, clothID uint8, numVertices int) (Block, error) {
	if IsSimulation(clothID) {
		return readSimPack(r)
	}
	out := make(Skinned, numVertices)
	for i := range out {
		for j := 0; j < 4; j++ {
			out[i].Indices[j] = r.U16()
		}
		for j := 0; j < 4; j++ {
			out[i].Weights[j] = r.U16()
		}
		out[i].SimulationBias = r.U16()
		out[i].SimulationWeight = r.U16()
	}
	return out, r.Err()
}

// Write encodes a cloth block at the current position. Pack size fields are
// recomputed from the actual slice lengths, never copied from a decode.
func Write(w *rw.Writer, b Block) error {
	return b.encode(w)
}

func (s Skinned) encode(w *rw.Writer) error {
	for _, rec := range s {
		for _, v := range rec.Indices {
			w.U16(v)
		}
		for _, v := range rec.Weights {
			w.U16(v)
		}
		w.U16(rec.SimulationBias)
		w.U16(rec.SimulationWeight)
	}
	return nil
}
