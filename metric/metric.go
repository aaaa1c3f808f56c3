// Package metric provides distance functions for exact vector comparison.
//
// The index treats the final metric as a black box: any Func that is
// symmetric and non-negative can be plugged in. The functions here use
// SIMD-accelerated kernels from github.com/viterin/vek.
package metric

import (
	"math"

	"github.com/viterin/vek/vek32"
)

// Func calculates the distance between two vectors.
// Implementations assume both slices have the same length; the index
// validates dimensions before any Func is invoked.
type Func func(a, b []float32) float32

// Euclidean calculates the L2 (Euclidean) distance between two vectors.
func Euclidean(a, b []float32) float32 {
	return vek32.Distance(a, b)
}

// SquaredL2 calculates the squared L2 distance between two vectors.
// It ranks identically to Euclidean; it exists for callers that expect
// squared distances.
func SquaredL2(a, b []float32) float32 {
	d := vek32.Distance(a, b)
	return d * d
}

// Magnitude calculates the L2 norm of a vector.
func Magnitude(v []float32) float32 {
	return float32(math.Sqrt(float64(vek32.Dot(v, v))))
}

// Cosine calculates the cosine distance (1 - cosine similarity) between two
// vectors. Zero-norm inputs yield a distance of 1.
func Cosine(a, b []float32) float32 {
	na := Magnitude(a)
	nb := Magnitude(b)
	if na == 0 || nb == 0 {
		return 1
	}
	sim := vek32.Dot(a, b) / (na * nb)
	d := 1 - sim
	if d < 0 {
		// Rounding can push the similarity marginally above 1.
		return 0
	}
	return d
}
