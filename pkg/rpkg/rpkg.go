// Package rpkg handles the resource-package encoding that geometry data
// arrives in: LZ4 block compression plus the xor scrambling the engine
// applies to packaged resources. It adapts a package chunk into the raw
// buffer the prim codec consumes and back.
package rpkg

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/glaciermodding/go-prim/pkg/prim"
)

// scrambleKey is the 8-byte xor key applied to scrambled resources.
var scrambleKey = [8]byte{0xDC, 0x45, 0xA6, 0x9C, 0xD3, 0x72, 0x4C, 0xAB}

// Scramble xors data with the resource key in place. The operation is its
// own inverse.
func Scramble(data []byte) {
	for i := range data {
		data[i] ^= scrambleKey[i%len(scrambleKey)]
	}
}

// Decompress inflates an LZ4 block into a buffer of uncompressedSize bytes.
func Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	out := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(data, out)
	if err != nil {
		return nil, fmt.Errorf("decompress resource: %w", err)
	}
	if n != uncompressedSize {
		return nil, fmt.Errorf("incomplete decompress: expected %d, got %d", uncompressedSize, n)
	}
	return out, nil
}

// Compress deflates data into a single LZ4 block.
func Compress(data []byte) ([]byte, error) {
	var c lz4.Compressor
	out := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := c.CompressBlock(data, out)
	if err != nil {
		return nil, fmt.Errorf("compress resource: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("compress resource: data is incompressible")
	}
	return out[:n], nil
}

// DecodeResource recovers the raw resource buffer from a package chunk.
// uncompressedSize comes from the package's resource table; scrambled and
// compressed are the table's per-resource flags.
func DecodeResource(chunk []byte, uncompressedSize int, scrambled, compressed bool) ([]byte, error) {
	data := make([]byte, len(chunk))
	copy(data, chunk)
	if scrambled {
		Scramble(data)
	}
	if !compressed {
		return data, nil
	}
	return Decompress(data, uncompressedSize)
}

// EncodeResource produces a package chunk from a raw resource buffer,
// returning the chunk and the uncompressed size to record in the resource
// table.
func EncodeResource(data []byte, scramble, compress bool) ([]byte, int, error) {
	var chunk []byte
	if compress {
		var err error
		chunk, err = Compress(data)
		if err != nil {
			return nil, 0, err
		}
	} else {
		chunk = make([]byte, len(data))
		copy(chunk, data)
	}
	if scramble {
		Scramble(chunk)
	}
	return chunk, len(data), nil
}

// ParsePrimitive decodes a geometry resource straight from a package chunk.
func ParsePrimitive(chunk []byte, uncompressedSize int, scrambled, compressed bool, opts ...prim.Option) (*prim.Resource, error) {
	data, err := DecodeResource(chunk, uncompressedSize, scrambled, compressed)
	if err != nil {
		return nil, err
	}
	return prim.Parse(data, opts...)
}

// SerializePrimitive writes a geometry resource into a package chunk,
// returning the chunk and the uncompressed size for the resource table.
func SerializePrimitive(res *prim.Resource, scramble, compress bool) ([]byte, int, error) {
	data, err := res.Write()
	if err != nil {
		return nil, 0, fmt.Errorf("serialize primitive: %w", err)
	}
	return EncodeResource(data, scramble, compress)
}
