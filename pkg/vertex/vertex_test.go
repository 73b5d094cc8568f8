package vertex

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/glaciermodding/go-prim/pkg/rw"
)

func TestQuantize(t *testing.T) {
	t.Run("I16RoundTrip", func(t *testing.T) {
		scale, bias := float32(4.0), float32(-1.0)
		for _, v := range []int16{-32767, -12345, -1, 0, 1, 999, 32767} {
			f := DequantizeI16(v, scale, bias)
			q, err := QuantizeI16(f, scale, bias)
			if err != nil {
				t.Fatalf("quantize %d: %v", v, err)
			}
			if q != v {
				t.Errorf("round trip %d: got %d", v, q)
			}
		}
	})

	t.Run("U8RoundTrip", func(t *testing.T) {
		for _, v := range []uint8{0, 1, 127, 128, 254, 255} {
			f := DequantizeU8(v, 2.0, -1.0)
			q, err := QuantizeU8(f, 2.0, -1.0)
			if err != nil {
				t.Fatalf("quantize %d: %v", v, err)
			}
			if q != v {
				t.Errorf("round trip %d: got %d", v, q)
			}
		}
	})

	t.Run("InverseBound", func(t *testing.T) {
		scale, bias := float32(7.5), float32(0.25)
		step := scale / i16Max
		for _, f := range []float32{-7.2, -0.001, 0, 0.333, 5.99} {
			q, err := QuantizeI16(f, scale, bias)
			if err != nil {
				t.Fatalf("quantize %g: %v", f, err)
			}
			back := DequantizeI16(q, scale, bias)
			if diff := float64(back - f); math.Abs(diff) > float64(step)/2*1.0001 {
				t.Errorf("value %g reconstructs to %g, off by %g (> half step %g)", f, back, diff, step/2)
			}
		}
	})

	t.Run("OverflowErrors", func(t *testing.T) {
		if _, err := QuantizeI16(1.1, 1.0, 0.0); err == nil {
			t.Error("expected error for i16 overflow")
		}
		var qe *QuantizationError
		_, err := QuantizeU8(1.5, 1.0, 0.0)
		if !errors.As(err, &qe) {
			t.Fatalf("expected QuantizationError, got %v", err)
		}
		if qe.Max != 255 {
			t.Errorf("error range: got max %d, want 255", qe.Max)
		}
		if _, err := QuantizeU8(-0.01, 1.0, 0.0); err == nil {
			t.Error("expected error for u8 underflow")
		}
	})
}

func TestBuffers(t *testing.T) {
	layout := Layout{
		NumVertices: 2,
		Weighted:    true,
		UVChannels:  1,
		HasColors:   true,
	}

	t.Run("ReadWriteRoundTrip", func(t *testing.T) {
		w := rw.NewWriter()
		pos := bytes.Repeat([]byte{0x11}, 2*layout.PositionStride())
		weights := bytes.Repeat([]byte{0x22}, 2*weightStride)
		main := bytes.Repeat([]byte{0x33}, 2*layout.MainStride())
		colors := bytes.Repeat([]byte{0x44}, 2*colorStride)
		w.Raw(pos)
		w.Raw(weights)
		w.Raw(main)
		w.Raw(colors)

		b, err := ReadBuffers(rw.NewReader(w.Bytes()), layout)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !bytes.Equal(b.Position, pos) || !bytes.Equal(b.Weights, weights) ||
			!bytes.Equal(b.Main, main) || !bytes.Equal(b.Colors, colors) {
			t.Fatal("regions differ from input")
		}

		out := rw.NewWriter()
		b.WriteTo(out)
		if !bytes.Equal(out.Bytes(), w.Bytes()) {
			t.Error("write does not reproduce input bytes")
		}
	})

	t.Run("ValidateCountMismatch", func(t *testing.T) {
		b := &Buffers{
			Position: make([]byte, 3*8),
			Weights:  make([]byte, 2*weightStride),
			Main:     make([]byte, 3*16),
			Colors:   make([]byte, 3*colorStride),
		}
		l := Layout{NumVertices: 3, Weighted: true, UVChannels: 1, HasColors: true}
		if err := b.Validate(l); err == nil {
			t.Error("expected error for weight region with wrong vertex count")
		}
	})
}

func TestPositions(t *testing.T) {
	scale := mgl32.Vec4{2, 2, 2, 1}
	bias := mgl32.Vec4{-1, -1, -1, 0}

	t.Run("QuantizedRoundTrip", func(t *testing.T) {
		want := []mgl32.Vec4{
			{-1, -1, -1, 0},
			{0, 0.5, -0.25, 0},
			{1, 1, 1, 1},
		}
		raw, err := EncodePositions(want, false, scale, bias)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		b := &Buffers{Position: raw}
		got := b.DecodePositions(Layout{NumVertices: len(want)}, scale, bias)
		if len(got) != len(want) {
			t.Fatalf("count: got %d, want %d", len(got), len(want))
		}
		step := scale[0] / i16Max
		for i := range want {
			for j := 0; j < 4; j++ {
				if diff := got[i][j] - want[i][j]; diff > step || diff < -step {
					t.Errorf("vertex %d component %d: got %g, want %g", i, j, got[i][j], want[i][j])
				}
			}
		}
	})

	t.Run("HighResWComesFromScaleBias", func(t *testing.T) {
		raw, err := EncodePositions([]mgl32.Vec4{{3, 4, 5, 0}}, true, scale, bias)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if len(raw) != 12 {
			t.Fatalf("high-res record size: got %d, want 12", len(raw))
		}
		b := &Buffers{Position: raw}
		got := b.DecodePositions(Layout{NumVertices: 1, HighResPos: true}, scale, bias)
		want := mgl32.Vec4{3, 4, 5, 1*scale[3] + bias[3]}
		if got[0] != want {
			t.Errorf("got %v, want %v", got[0], want)
		}
	})
}

func TestMainRegion(t *testing.T) {
	scaleBias := mgl32.Vec4{2, 4, -1, -2} // u: scale 2 bias -1, v: scale 4 bias -2
	normals := []mgl32.Vec4{{1, 0, 0, 1}, {0, 1, 0, 1}}
	tangents := []mgl32.Vec4{{0, 0, 1, 1}, {1, 0, 0, 1}}
	bitangents := []mgl32.Vec4{{0, 1, 0, 1}, {0, 0, 1, 1}}
	uvs := [][]mgl32.Vec2{{{0, 0.5}, {0.75, -1}}}

	raw, err := EncodeMain(normals, tangents, bitangents, uvs, scaleBias)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	l := Layout{NumVertices: 2, UVChannels: 1}
	if len(raw) != 2*l.MainStride() {
		t.Fatalf("region size: got %d, want %d", len(raw), 2*l.MainStride())
	}
	b := &Buffers{Main: raw}

	const ntbStep = 2.0 / 255
	checkLane := func(t *testing.T, got, want []mgl32.Vec4) {
		t.Helper()
		for i := range want {
			for j := 0; j < 4; j++ {
				if diff := got[i][j] - want[i][j]; diff > ntbStep || diff < -ntbStep {
					t.Errorf("vertex %d component %d: got %g, want %g", i, j, got[i][j], want[i][j])
				}
			}
		}
	}
	checkLane(t, b.DecodeNormals(l), normals)
	checkLane(t, b.DecodeTangents(l), tangents)
	checkLane(t, b.DecodeBitangents(l), bitangents)

	gotUV := b.DecodeTexCoords(l, scaleBias)
	if len(gotUV) != 1 || len(gotUV[0]) != 2 {
		t.Fatalf("uv shape: got %d channels", len(gotUV))
	}
	uStep, vStep := scaleBias[0]/i16Max, scaleBias[1]/i16Max
	for i, want := range uvs[0] {
		if diff := gotUV[0][i][0] - want[0]; diff > uStep || diff < -uStep {
			t.Errorf("uv %d u: got %g, want %g", i, gotUV[0][i][0], want[0])
		}
		if diff := gotUV[0][i][1] - want[1]; diff > vStep || diff < -vStep {
			t.Errorf("uv %d v: got %g, want %g", i, gotUV[0][i][1], want[1])
		}
	}
}

func TestWeights(t *testing.T) {
	want := []Weight{
		{
			Weight: [6]float32{1, 0, 0, 0, 0, 0},
			Joint:  [6]uint8{3, 0, 0, 0, 0, 0},
		},
		{
			Weight: [6]float32{100.0 / 255, 155.0 / 255, 0, 0, 51.0 / 255, 0},
			Joint:  [6]uint8{1, 2, 0, 0, 7, 0},
		},
	}
	raw, err := EncodeWeights(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(raw) != 2*weightStride {
		t.Fatalf("region size: got %d, want %d", len(raw), 2*weightStride)
	}
	// joint bytes sit at record offsets 4..7 and 10..11
	if raw[4] != 3 || raw[weightStride+4] != 1 || raw[weightStride+10] != 7 {
		t.Error("joint bytes landed in the wrong slots")
	}

	b := &Buffers{Weights: raw}
	got := b.DecodeWeights()
	if len(got) != len(want) {
		t.Fatalf("count: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Joint != want[i].Joint {
			t.Errorf("record %d joints: got %v, want %v", i, got[i].Joint, want[i].Joint)
		}
		for j := range want[i].Weight {
			if diff := got[i].Weight[j] - want[i].Weight[j]; diff > 1.0/255 || diff < -1.0/255 {
				t.Errorf("record %d weight %d: got %g, want %g", i, j, got[i].Weight[j], want[i].Weight[j])
			}
		}
	}
}

func TestColors(t *testing.T) {
	want := []Color{{1, 2, 3, 4}, {255, 0, 128, 64}}
	b := &Buffers{Colors: EncodeColors(want)}
	got := b.DecodeColors()
	if len(got) != len(want) {
		t.Fatalf("count: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("color %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
