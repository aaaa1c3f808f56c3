package sketch

import (
	"math"

	"github.com/viterin/vek/vek32"
)

// Encoding is the sketch of a single vector under one basis: a packed bit
// code and, when requested, one confidence weight per bit.
type Encoding struct {
	// Bits holds the bit code packed into uint64 words, little-endian within
	// each word: bit i lives at word i/64, position i%64.
	Bits []uint64

	// Weights holds the per-bit confidence weights in [0, 0.5], or nil when
	// weights were not requested. A weight is the distance, in strip units,
	// from the projected coordinate to its nearest strip boundary.
	Weights []float32
}

// Words returns the number of uint64 words needed to pack size bits.
func Words(size int) int { return (size + 63) / 64 }

// Bit returns bit i of a packed code.
func Bit(bits []uint64, i int) uint64 {
	return (bits[i/64] >> (uint(i) % 64)) & 1
}

// Encode computes the sketch of v under the basis. It is a pure function of
// the basis and the input; no state is consulted or mutated.
//
// For each basis row the projected coordinate is h = (v·row + offset)/window.
// The bit is floor(h) mod 2, a square wave assigning alternating labels to
// consecutive strips. The weight is min(ceil(h)-h, h-floor(h)): a coordinate
// exactly on a strip boundary yields weight 0, the strip midpoint yields 0.5.
func (b *Basis) Encode(v []float32, withWeights bool) (Encoding, error) {
	if len(v) != b.dim {
		return Encoding{}, &ErrDimensionMismatch{Expected: b.dim, Actual: len(v)}
	}

	size := b.Size()
	enc := Encoding{Bits: make([]uint64, Words(size))}
	if withWeights {
		enc.Weights = make([]float32, size)
	}

	for i := 0; i < size; i++ {
		h := (float64(vek32.Dot(v, b.rows[i])) + b.offsets[i]) / b.window
		lo := math.Floor(h)

		// Two's complement & keeps the parity correct for negative strips:
		// floor(h) mod 2 must land in {0, 1}.
		if int64(lo)&1 == 1 {
			enc.Bits[i/64] |= 1 << (uint(i) % 64)
		}
		if withWeights {
			enc.Weights[i] = float32(math.Min(math.Ceil(h)-h, h-lo))
		}
	}

	return enc, nil
}

// EncodeBatch computes sketches for a batch of vectors.
func (b *Basis) EncodeBatch(vs [][]float32, withWeights bool) ([]Encoding, error) {
	encs := make([]Encoding, len(vs))
	for i, v := range vs {
		enc, err := b.Encode(v, withWeights)
		if err != nil {
			return nil, err
		}
		encs[i] = enc
	}
	return encs, nil
}
