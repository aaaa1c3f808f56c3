// Package engine provides chunked pairwise-distance computation with
// pluggable reduction.
//
// The engine never materializes a full query-by-dataset distance matrix:
// distances are produced in bounded-size row blocks and handed to a reduce
// callback, so memory stays constant regardless of dataset or candidate-set
// size. Independent queries are embarrassingly parallel and are fanned out
// across a bounded worker group; no ordering is guaranteed between them.
package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sketchgo/internal/queue"
)

// DistFunc returns the distance between query q and dataset row. The metric
// is opaque to the engine; it only assumes the result is comparable.
type DistFunc func(q, row int) float32

// ReduceFunc consumes one block of distances for query q. block[i] is the
// distance from query q to row start+i. It may be called concurrently for
// different q values, never concurrently for the same q. The block is reused
// between calls and must not be retained.
type ReduceFunc func(q int, block []float32, start int) error

// Options contains configuration options for the engine.
type Options struct {
	// BlockSize bounds the number of rows scored per reduce call.
	BlockSize int

	// NumWorkers bounds the number of queries processed concurrently.
	// Zero or negative means runtime.GOMAXPROCS(0).
	NumWorkers int
}

// DefaultOptions contains the default configuration options for the engine.
var DefaultOptions = Options{
	BlockSize:  1024,
	NumWorkers: 0,
}

// Chunked computes all pairwise distances between numQueries queries and
// numRows rows, feeding them block-wise into reduce. The context is checked
// between blocks; cancellation aborts with the context error.
func Chunked(ctx context.Context, numQueries, numRows int, dist DistFunc, reduce ReduceFunc, optFns ...func(o *Options)) error {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.BlockSize < 1 {
		return fmt.Errorf("engine: invalid block size %d: must be >= 1", opts.BlockSize)
	}

	workers := opts.NumWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for q := 0; q < numQueries; q++ {
		g.Go(func() error {
			block := make([]float32, opts.BlockSize)
			for start := 0; start < numRows; start += opts.BlockSize {
				if err := ctx.Err(); err != nil {
					return err
				}
				end := start + opts.BlockSize
				if end > numRows {
					end = numRows
				}
				for i := start; i < end; i++ {
					block[i-start] = dist(q, i)
				}
				if err := reduce(q, block[:end-start], start); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// Candidate is one scored row of a top-k result.
type Candidate struct {
	// Index is the row the score belongs to.
	Index uint32

	// Distance is the score under the supplied metric.
	Distance float32
}

// TopK returns, for every query, the k rows with the smallest distance.
// Ties are broken by ascending row index. When k exceeds numRows, all rows
// are returned.
func TopK(ctx context.Context, numQueries, numRows, k int, dist DistFunc, optFns ...func(o *Options)) ([][]Candidate, error) {
	if k < 1 {
		return nil, fmt.Errorf("engine: invalid k %d: must be >= 1", k)
	}
	if k > numRows {
		k = numRows
	}

	heaps := make([]*queue.TopK, numQueries)
	for q := range heaps {
		heaps[q] = queue.NewTopK(k)
	}

	reduce := func(q int, block []float32, start int) error {
		h := heaps[q]
		for i, d := range block {
			h.Push(queue.Item{Index: uint32(start + i), Distance: d})
		}
		return nil
	}

	if err := Chunked(ctx, numQueries, numRows, dist, reduce, optFns...); err != nil {
		return nil, err
	}

	results := make([][]Candidate, numQueries)
	for q, h := range heaps {
		items := h.Drain()
		out := make([]Candidate, len(items))
		for i, it := range items {
			out[i] = Candidate{Index: it.Index, Distance: it.Distance}
		}
		results[q] = out
	}
	return results, nil
}
