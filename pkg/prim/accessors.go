package prim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/glaciermodding/go-prim/pkg/geom"
	"github.com/glaciermodding/go-prim/pkg/vertex"
)

// Indices returns the raw index buffer.
func (m *Mesh) Indices() []uint16 {
	return m.SubMesh.Indices
}

// Positions returns the model-space vertex positions.
func (m *Mesh) Positions() []mgl32.Vec4 {
	return m.SubMesh.Buffers.DecodePositions(m.SubMesh.Layout, m.PosScale, m.PosBias)
}

// Normals returns the per-vertex normals.
func (m *Mesh) Normals() []mgl32.Vec4 {
	return m.SubMesh.Buffers.DecodeNormals(m.SubMesh.Layout)
}

// Tangents returns the per-vertex tangents.
func (m *Mesh) Tangents() []mgl32.Vec4 {
	return m.SubMesh.Buffers.DecodeTangents(m.SubMesh.Layout)
}

// Bitangents returns the per-vertex bitangents.
func (m *Mesh) Bitangents() []mgl32.Vec4 {
	return m.SubMesh.Buffers.DecodeBitangents(m.SubMesh.Layout)
}

// TexCoords returns the texture coordinates, one slice per UV channel.
func (m *Mesh) TexCoords() [][]mgl32.Vec2 {
	return m.SubMesh.Buffers.DecodeTexCoords(m.SubMesh.Layout, m.TexScaleBias)
}

// Weights returns the per-vertex skinning records, or nil for meshes
// without a weight region.
func (m *Mesh) Weights() []vertex.Weight {
	return m.SubMesh.Buffers.DecodeWeights()
}

// Colors returns the per-vertex colors, or nil for meshes without a color
// region.
func (m *Mesh) Colors() []vertex.Color {
	return m.SubMesh.Buffers.DecodeColors()
}

// Vertex is one fully decoded vertex with every attribute the mesh carries.
// TexCoords holds one entry per UV channel; Weight and Color are nil when
// the mesh has no such region.
type Vertex struct {
	Position  mgl32.Vec4
	Normal    mgl32.Vec4
	Tangent   mgl32.Vec4
	Bitangent mgl32.Vec4
	TexCoords []mgl32.Vec2
	Weight    *vertex.Weight
	Color     *vertex.Color
}

// Vertices assembles the decoded attribute slices into one record per
// vertex.
func (m *Mesh) Vertices() []Vertex {
	positions := m.Positions()
	normals := m.Normals()
	tangents := m.Tangents()
	bitangents := m.Bitangents()
	texCoords := m.TexCoords()
	weights := m.Weights()
	colors := m.Colors()

	out := make([]Vertex, len(positions))
	for i := range out {
		v := Vertex{
			Position:  positions[i],
			Normal:    normals[i],
			Tangent:   tangents[i],
			Bitangent: bitangents[i],
		}
		for _, layer := range texCoords {
			v.TexCoords = append(v.TexCoords, layer[i])
		}
		if weights != nil {
			v.Weight = &weights[i]
		}
		if colors != nil {
			v.Color = &colors[i]
		}
		out[i] = v
	}
	return out
}

// BoundingBox computes the box around the decoded vertex positions.
func (m *Mesh) BoundingBox() geom.BoundingBox {
	return geom.FromPositions(m.Positions())
}

// UVBoundingBox computes the rectangle around every texture coordinate of
// every channel.
func (m *Mesh) UVBoundingBox() (min, max mgl32.Vec2) {
	b := geom.Empty()
	for _, layer := range m.TexCoords() {
		for _, uv := range layer {
			b = b.Extend(mgl32.Vec3{uv[0], uv[1], 0})
		}
	}
	return mgl32.Vec2{b.Min[0], b.Min[1]}, mgl32.Vec2{b.Max[0], b.Max[1]}
}
