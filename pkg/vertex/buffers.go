package vertex

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/glaciermodding/go-prim/pkg/rw"
)

// Layout describes the flag-derived shape of the vertex regions. None of it
// is self-describing in the file: the vertex count and UV channel count come
// from the submesh header, and the rest from object property flags.
type Layout struct {
	NumVertices int
	HighResPos  bool
	Weighted    bool
	UVChannels  int
	HasColors   bool
}

// PositionStride returns the byte stride of one position record.
func (l Layout) PositionStride() int {
	if l.HighResPos {
		return 12 // raw float32 x, y, z
	}
	return 8 // quantized int16 x, y, z, w
}

// MainStride returns the byte stride of one normal/tangent/bitangent + UV
// record.
func (l Layout) MainStride() int {
	return 12 + 4*l.UVChannels
}

const (
	weightStride = 12
	colorStride  = 4
)

// Buffers holds the four raw vertex regions exactly as stored. Weights and
// Colors are nil when the layout flags exclude them.
type Buffers struct {
	Position []byte
	Weights  []byte
	Main     []byte
	Colors   []byte
}

// Weight is one per-vertex skinning record: six weights and six joint
// indices, packed in the file as a 4+2 split across two slots.
type Weight struct {
	Weight [6]float32
	Joint  [6]uint8
}

// Color is an 8-bit RGBA vertex color.
type Color struct {
	R, G, B, A uint8
}

// ReadBuffers reads the four regions in storage order at the current cursor
// position.
func ReadBuffers(r *rw.Reader, l Layout) (*Buffers, error) {
	b := &Buffers{}
	b.Position = r.Bytes(l.PositionStride() * l.NumVertices)
	if l.Weighted {
		b.Weights = r.Bytes(weightStride * l.NumVertices)
	}
	b.Main = r.Bytes(l.MainStride() * l.NumVertices)
	if l.HasColors {
		b.Colors = r.Bytes(colorStride * l.NumVertices)
	}
	return b, r.Err()
}

// WriteTo emits the regions in storage order.
func (b *Buffers) WriteTo(w *rw.Writer) {
	w.Raw(b.Position)
	if b.Weights != nil {
		w.Raw(b.Weights)
	}
	w.Raw(b.Main)
	if b.Colors != nil {
		w.Raw(b.Colors)
	}
}

// Validate checks that every present region describes the same vertex count.
func (b *Buffers) Validate(l Layout) error {
	counts := map[string]int{
		"position": len(b.Position) / l.PositionStride(),
		"main":     len(b.Main) / l.MainStride(),
	}
	if len(b.Position)%l.PositionStride() != 0 || len(b.Main)%l.MainStride() != 0 {
		return fmt.Errorf("vertex region size is not a whole number of records")
	}
	if b.Weights != nil {
		counts["weights"] = len(b.Weights) / weightStride
	}
	if b.Colors != nil {
		counts["colors"] = len(b.Colors) / colorStride
	}
	for name, n := range counts {
		if n != l.NumVertices {
			return fmt.Errorf("%s region holds %d vertices, layout says %d", name, n, l.NumVertices)
		}
	}
	return nil
}

// DecodePositions expands the position region to model-space vectors. All
// four components, w included, pass through scale and bias; the engine
// stores real data in the spare lanes and round trips depend on it.
func (b *Buffers) DecodePositions(l Layout, scale, bias mgl32.Vec4) []mgl32.Vec4 {
	out := make([]mgl32.Vec4, 0, l.NumVertices)
	if l.HighResPos {
		for off := 0; off+12 <= len(b.Position); off += 12 {
			out = append(out, mgl32.Vec4{
				f32At(b.Position, off)*scale[0] + bias[0],
				f32At(b.Position, off+4)*scale[1] + bias[1],
				f32At(b.Position, off+8)*scale[2] + bias[2],
				1.0*scale[3] + bias[3],
			})
		}
		return out
	}
	for off := 0; off+8 <= len(b.Position); off += 8 {
		var v mgl32.Vec4
		for i := 0; i < 4; i++ {
			v[i] = DequantizeI16(i16At(b.Position, off+2*i), scale[i], bias[i])
		}
		out = append(out, v)
	}
	return out
}

// EncodePositions builds a position region from model-space vectors, the
// algebraic inverse of DecodePositions for the same scale and bias.
func EncodePositions(positions []mgl32.Vec4, highRes bool, scale, bias mgl32.Vec4) ([]byte, error) {
	if highRes {
		out := make([]byte, 0, len(positions)*12)
		for _, p := range positions {
			for i := 0; i < 3; i++ {
				out = binary.LittleEndian.AppendUint32(out, math.Float32bits((p[i]-bias[i])/scale[i]))
			}
		}
		return out, nil
	}
	out := make([]byte, 0, len(positions)*8)
	for _, p := range positions {
		for i := 0; i < 4; i++ {
			q, err := QuantizeI16(p[i], scale[i], bias[i])
			if err != nil {
				return nil, fmt.Errorf("position component %d: %w", i, err)
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(q))
		}
	}
	return out, nil
}

// Normals/tangents/bitangents share one fixed convention.
const (
	ntbScale = 2.0
	ntbBias  = -1.0
)

// DecodeNormals returns the normal lane of the main region.
func (b *Buffers) DecodeNormals(l Layout) []mgl32.Vec4 {
	return b.decodeNTB(l, 0)
}

// DecodeTangents returns the tangent lane of the main region.
func (b *Buffers) DecodeTangents(l Layout) []mgl32.Vec4 {
	return b.decodeNTB(l, 4)
}

// DecodeBitangents returns the bitangent lane of the main region.
func (b *Buffers) DecodeBitangents(l Layout) []mgl32.Vec4 {
	return b.decodeNTB(l, 8)
}

func (b *Buffers) decodeNTB(l Layout, lane int) []mgl32.Vec4 {
	stride := l.MainStride()
	out := make([]mgl32.Vec4, 0, l.NumVertices)
	for off := 0; off+stride <= len(b.Main); off += stride {
		var v mgl32.Vec4
		for i := 0; i < 4; i++ {
			v[i] = DequantizeU8(b.Main[off+lane+i], ntbScale, ntbBias)
		}
		out = append(out, v)
	}
	return out
}

// DecodeTexCoords expands the UV lanes of the main region, one slice per
// channel. The channel pairing is asymmetric on purpose: u reads
// scale.x/bias.z and v reads scale.y/bias.w, matching the engine's packing
// of two 2-component pairs into one 4-component vector.
func (b *Buffers) DecodeTexCoords(l Layout, scaleBias mgl32.Vec4) [][]mgl32.Vec2 {
	stride := l.MainStride()
	out := make([][]mgl32.Vec2, l.UVChannels)
	for c := range out {
		out[c] = make([]mgl32.Vec2, 0, l.NumVertices)
	}
	for off := 0; off+stride <= len(b.Main); off += stride {
		for c := 0; c < l.UVChannels; c++ {
			base := off + 12 + 4*c
			out[c] = append(out[c], mgl32.Vec2{
				DequantizeI16(i16At(b.Main, base), scaleBias[0], scaleBias[2]),
				DequantizeI16(i16At(b.Main, base+2), scaleBias[1], scaleBias[3]),
			})
		}
	}
	return out
}

// EncodeMain builds a main region from typed normals, tangents, bitangents
// and per-channel UV layers. All slices must share one vertex count.
func EncodeMain(normals, tangents, bitangents []mgl32.Vec4, uvs [][]mgl32.Vec2, scaleBias mgl32.Vec4) ([]byte, error) {
	n := len(normals)
	if len(tangents) != n || len(bitangents) != n {
		return nil, fmt.Errorf("normal/tangent/bitangent slices differ in length")
	}
	for _, layer := range uvs {
		if len(layer) != n {
			return nil, fmt.Errorf("uv layer length %d does not match vertex count %d", len(layer), n)
		}
	}
	out := make([]byte, 0, n*(12+4*len(uvs)))
	for i := 0; i < n; i++ {
		for _, v := range []mgl32.Vec4{normals[i], tangents[i], bitangents[i]} {
			for j := 0; j < 4; j++ {
				q, err := QuantizeU8(v[j], ntbScale, ntbBias)
				if err != nil {
					return nil, fmt.Errorf("ntb component: %w", err)
				}
				out = append(out, q)
			}
		}
		for _, layer := range uvs {
			u, err := QuantizeI16(layer[i][0], scaleBias[0], scaleBias[2])
			if err != nil {
				return nil, fmt.Errorf("uv u component: %w", err)
			}
			v, err := QuantizeI16(layer[i][1], scaleBias[1], scaleBias[3])
			if err != nil {
				return nil, fmt.Errorf("uv v component: %w", err)
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(u))
			out = binary.LittleEndian.AppendUint16(out, uint16(v))
		}
	}
	return out, nil
}

// DecodeWeights expands the weight region. Each 12-byte record packs four
// weight bytes, four joint bytes, two extra weight bytes and two extra joint
// bytes, filling two separate skinning slots.
func (b *Buffers) DecodeWeights() []Weight {
	if b.Weights == nil {
		return nil
	}
	out := make([]Weight, 0, len(b.Weights)/weightStride)
	for off := 0; off+weightStride <= len(b.Weights); off += weightStride {
		rec := b.Weights[off : off+weightStride]
		out = append(out, Weight{
			Weight: [6]float32{
				float32(rec[0]) / 255, float32(rec[1]) / 255,
				float32(rec[2]) / 255, float32(rec[3]) / 255,
				float32(rec[8]) / 255, float32(rec[9]) / 255,
			},
			Joint: [6]uint8{rec[4], rec[5], rec[6], rec[7], rec[10], rec[11]},
		})
	}
	return out
}

// EncodeWeights builds a weight region from typed records.
func EncodeWeights(weights []Weight) ([]byte, error) {
	out := make([]byte, 0, len(weights)*weightStride)
	for _, rec := range weights {
		var q [6]uint8
		for i, w := range rec.Weight {
			b, err := QuantizeU8(w, 1, 0)
			if err != nil {
				return nil, fmt.Errorf("bone weight: %w", err)
			}
			q[i] = b
		}
		out = append(out,
			q[0], q[1], q[2], q[3],
			rec.Joint[0], rec.Joint[1], rec.Joint[2], rec.Joint[3],
			q[4], q[5],
			rec.Joint[4], rec.Joint[5],
		)
	}
	return out, nil
}

// DecodeColors expands the color region.
func (b *Buffers) DecodeColors() []Color {
	if b.Colors == nil {
		return nil
	}
	out := make([]Color, 0, len(b.Colors)/colorStride)
	for off := 0; off+colorStride <= len(b.Colors); off += colorStride {
		out = append(out, Color{b.Colors[off], b.Colors[off+1], b.Colors[off+2], b.Colors[off+3]})
	}
	return out
}

// EncodeColors builds a color region from typed colors.
func EncodeColors(colors []Color) []byte {
	out := make([]byte, 0, len(colors)*colorStride)
	for _, c := range colors {
		out = append(out, c.R, c.G, c.B, c.A)
	}
	return out
}

func i16At(b []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(b[off:]))
}

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}
