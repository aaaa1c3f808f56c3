// Package sketchgo provides a sketch-based approximate nearest-neighbor
// index for Go.
//
// The index trades exactness for speed: compact locality-sensitive sketches
// (bit codes with per-bit confidence weights, derived from random hyperplane
// strip projections) prune the dataset to a small oversampled candidate set,
// which is then re-ranked by the true distance metric. Four interchangeable
// candidate-selection strategies are available:
//
//   - Symmetric: plain Hamming distance between bit codes. Fastest, highest
//     quantization noise.
//   - Asymmetric: the query keeps its continuous per-bit confidence weights;
//     disagreements on unreliable bits are discounted.
//   - Grouped asymmetric: a coarse group sketch prefilters the dataset to
//     rows matching the query's reliable group bits, then asymmetric ranking
//     runs on the survivors.
//   - PCA: a dense low-dimensional embedding is fitted to the dataset and
//     candidates are ranked by the true metric in that space.
//
// The index is built once with Fit and is read-only afterwards; queries are
// lock-free and may run concurrently.
//
// # Quick Start
//
//	ctx := context.Background()
//	idx, err := sketchgo.New(
//	    sketchgo.WithNeighbors(1),
//	    sketchgo.WithMethod(sketchgo.MethodAsymmetric),
//	    sketchgo.WithSeed(42),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	samples := [][]float32{{0, 0, 0}, {0, 0.5, 0}, {1, 1, 0.5}}
//	if err := idx.Fit(ctx, samples); err != nil {
//	    panic(err)
//	}
//
//	results, err := idx.KNNSearch(ctx, [][]float32{{1, 1, 1}}, 1)
//	// results[0][0].Index == 2, results[0][0].Distance == 0.5
//
// Leaving the method unset at construction builds every representation and
// lets each query pick its own strategy:
//
//	results, err = idx.KNNSearch(ctx, queries, 5, func(o *sketchgo.SearchOptions) {
//	    o.Method = sketchgo.MethodGroupedAsymmetric
//	})
//
// For more details about the sketch construction, see the paper "Asymmetric
// Distance Estimation with Sketches for Similarity Search in
// High-Dimensional Spaces" by Wei Dong, Moses Charikar, and Kai Li.
package sketchgo
