// Package geom provides the bounding-box math shared by the mesh and
// collision codecs.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Empty returns the identity element for Union: a box that contains nothing
// and extends to include any point added to it.
func Empty() BoundingBox {
	inf := float32(math.Inf(1))
	return BoundingBox{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Extend grows the box to include p.
func (b BoundingBox) Extend(p mgl32.Vec3) BoundingBox {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Union grows the box to include o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return b.Extend(o.Min).Extend(o.Max)
}

// FromPositions computes the box around the xyz part of each position.
func FromPositions(positions []mgl32.Vec4) BoundingBox {
	b := Empty()
	for _, p := range positions {
		b = b.Extend(mgl32.Vec3{p[0], p[1], p[2]})
	}
	return b
}
