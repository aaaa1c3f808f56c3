package sketch

import (
	"math"
	"math/bits"
)

// Hamming computes the Hamming distance between two packed bit codes: the
// count of differing positions. Uses POPCNT via bits.OnesCount64.
func Hamming(a, b []uint64) int {
	var dist int
	for i := range a {
		dist += bits.OnesCount64(a[i] ^ b[i])
	}
	return dist
}

// Asymmetric computes the weighted sketch distance between a query, which
// retains its continuous per-bit confidence weights, and a dataset code that
// contributes bits only:
//
//	sum over i of qWeights[i] * |qBit[i] - dBit[i]|
//
// A disagreement on a position where the query sits close to a strip
// boundary (weight near 0, so the bit could plausibly have landed either
// way) is discounted; a disagreement where the query sits mid-strip (weight
// near 0.5) is penalized in full. This tracks the true projected-space
// distance better than raw Hamming distance.
func Asymmetric(qBits []uint64, qWeights []float32, dBits []uint64) float32 {
	var dist float32
	for i, w := range qWeights {
		if Bit(qBits, i) != Bit(dBits, i) {
			dist += w
		}
	}
	return dist
}

// PackBitWeight packs a bit and its weight into one float: the bit as the
// integer part, the weight as the fractional part. It exploits weight < 1.
//
// This is a legacy technique for squeezing two logical arrays through a
// distance primitive limited to two homogeneous arrays. New code should carry
// bits and weights as two explicit fields; see Asymmetric.
func PackBitWeight(bit uint64, weight float32) float32 {
	return float32(bit) + weight
}

// UnpackBitWeight recovers the bit and weight packed by PackBitWeight.
func UnpackBitWeight(packed float32) (uint64, float32) {
	bit := uint64(math.Floor(float64(packed)))
	return bit, packed - float32(bit)
}

// Pack packs a full sketch into one homogeneous array, one packed bit+weight
// value per position. Legacy companion to PackBitWeight.
func Pack(enc Encoding) []float32 {
	packed := make([]float32, len(enc.Weights))
	for i := range enc.Weights {
		packed[i] = PackBitWeight(Bit(enc.Bits, i), enc.Weights[i])
	}
	return packed
}

// AsymmetricPacked computes the asymmetric distance from a packed query
// sketch, unpacking bit and weight per position at evaluation time. Legacy
// companion to Asymmetric.
func AsymmetricPacked(packed []float32, dBits []uint64) float32 {
	var dist float32
	for i, p := range packed {
		qb, w := UnpackBitWeight(p)
		if qb != Bit(dBits, i) {
			dist += w
		}
	}
	return dist
}
