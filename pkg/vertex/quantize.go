// Package vertex implements the PRIM vertex-attribute codec: four
// independently strided byte regions (positions, bone weights,
// normal/tangent/bitangent + UV, colors) and the fixed-point conversions
// between them and typed vectors.
//
// Each attribute has its own quantization convention:
//
//   - positions: int16 with per-mesh scale/bias, or raw float32 when the
//     high-resolution flag is set
//   - normals/tangents/bitangents: bytes with fixed scale 2.0, bias -1.0
//   - UVs: int16, u paired with scale.x/bias.z and v with scale.y/bias.w
//   - weights: bytes divided by 255
package vertex

import "fmt"

// QuantizationError reports a float that does not fit the target integer
// range after scaling. Quantization never clamps silently; a value outside
// the mesh's declared scale/bias range is corrupt input for the engine.
type QuantizationError struct {
	Value float32
	Min   int64
	Max   int64
}

func (e *QuantizationError) Error() string {
	return fmt.Sprintf("value %g does not quantize into [%d, %d]", e.Value, e.Min, e.Max)
}

const (
	i16Max = 32767
	u8Max  = 255
)

// DequantizeI16 maps a stored int16 back to float space.
func DequantizeI16(v int16, scale, bias float32) float32 {
	return float32(v)/i16Max*scale + bias
}

// QuantizeI16 maps a float to its stored int16, rounding to nearest.
func QuantizeI16(v, scale, bias float32) (int16, error) {
	q := roundf(i16Max * (v - bias) / scale)
	if q < -32768 || q > 32767 {
		return 0, &QuantizationError{Value: v, Min: -32768, Max: 32767}
	}
	return int16(q), nil
}

// DequantizeU8 maps a stored byte back to float space.
func DequantizeU8(v uint8, scale, bias float32) float32 {
	return float32(v)*scale/u8Max + bias
}

// QuantizeU8 maps a float to its stored byte, rounding to nearest.
func QuantizeU8(v, scale, bias float32) (uint8, error) {
	q := roundf(u8Max * (v - bias) / scale)
	if q < 0 || q > 255 {
		return 0, &QuantizationError{Value: v, Min: 0, Max: 255}
	}
	return uint8(q), nil
}

func roundf(v float32) int64 {
	if v >= 0 {
		return int64(v + 0.5)
	}
	return int64(v - 0.5)
}
