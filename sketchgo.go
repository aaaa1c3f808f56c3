package sketchgo

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sketchgo/engine"
	"github.com/hupe1980/sketchgo/metric"
	"github.com/hupe1980/sketchgo/reduce"
	"github.com/hupe1980/sketchgo/sketch"
)

// Result represents one neighbor of a query.
type Result struct {
	// Index is the position of the neighbor in the fitted dataset.
	Index uint32

	// Distance is the true metric distance between query and neighbor.
	Distance float32
}

// fitState holds everything derived from one Fit call. It is immutable after
// construction; a refit publishes a fresh state atomically, so readers see
// either the old or the new build, never a mix.
type fitState struct {
	dim  int
	data [][]float32

	fine          *sketch.Basis
	group         *sketch.Basis
	sketches      *sketch.Set
	groupSketches *sketch.Set

	pca      *reduce.PCA
	embedded [][]float32
}

// Index is a sketch-based approximate nearest-neighbor index.
//
// The lifecycle is strictly single-writer-then-multiple-reader: Fit must
// complete before queries are issued, and queries are lock-free and safe to
// run concurrently afterwards. Concurrent fit-and-query is unsupported.
type Index struct {
	opts     Options
	metricFn metric.Func
	state    atomic.Pointer[fitState]
}

// New creates a new index. All parameters are validated eagerly; sketch
// geometry is frozen for the index's lifetime.
func New(optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	metricFn := opts.Metric
	if metricFn == nil {
		metricFn = metric.Euclidean
	}

	return &Index{
		opts:     opts,
		metricFn: metricFn,
	}, nil
}

// Fit builds the index over the dataset. The dataset is copied; vectors are
// owned by the index afterwards. Refitting replaces dataset, bases, sketch
// index and embedding atomically.
func (idx *Index) Fit(ctx context.Context, data [][]float32) error {
	start := time.Now()

	dim := 0
	if len(data) > 0 {
		dim = len(data[0])
	}

	err := idx.fit(ctx, data)

	if idx.opts.Logger != nil {
		idx.opts.Logger.LogFit(ctx, len(data), dim, time.Since(start), err)
	}
	if idx.opts.Metrics != nil {
		idx.opts.Metrics.RecordFit(len(data), dim, time.Since(start), err)
	}

	return err
}

func (idx *Index) fit(ctx context.Context, data [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(data) == 0 {
		return ErrEmptyDataset
	}
	dim := len(data[0])
	if dim < 1 {
		return &ErrInvalidParameter{Name: "dimension", Reason: "vectors must have at least one element"}
	}

	rows := make([][]float32, len(data))
	for i, v := range data {
		if len(v) != dim {
			return &ErrDimensionMismatch{Expected: dim, Actual: len(v)}
		}
		row := make([]float32, dim)
		copy(row, v)
		rows[i] = row
	}

	st := &fitState{
		dim:  dim,
		data: rows,
	}

	if idx.opts.Method.needsSketch() {
		fine, group, err := sketch.NewBases(dim, idx.opts.SketchSize, idx.opts.GroupSize, idx.opts.StripWindow, idx.opts.Seed)
		if err != nil {
			return err
		}
		st.fine = fine
		st.group = group

		st.sketches, err = sketch.NewSet(fine, rows)
		if err != nil {
			return err
		}
		if idx.opts.Method.needsGroup() {
			st.groupSketches, err = sketch.NewSet(group, rows)
			if err != nil {
				return err
			}
		}
	}

	if idx.opts.Method.needsPCA() {
		pca, err := reduce.Fit(rows, idx.opts.SketchSize)
		if err != nil {
			return err
		}
		embedded, err := pca.TransformBatch(rows)
		if err != nil {
			return err
		}
		st.pca = pca
		st.embedded = embedded
	}

	idx.state.Store(st)
	return nil
}

// KNNSearch finds the approximate k nearest neighbors of each query.
// Results per query are sorted ascending by true distance, ties broken by
// ascending dataset index.
//
// The strategy is the one fixed at construction, or the per-query override
// when construction left it unset. With no strategy at all the search is
// exact over the full dataset.
func (idx *Index) KNNSearch(ctx context.Context, queries [][]float32, k int, optFns ...func(o *SearchOptions)) ([][]Result, error) {
	start := time.Now()

	results, method, err := idx.search(ctx, queries, k, optFns...)

	if idx.opts.Logger != nil {
		idx.opts.Logger.LogSearch(ctx, len(queries), k, method, time.Since(start), err)
	}
	if idx.opts.Metrics != nil {
		idx.opts.Metrics.RecordSearch(len(queries), k, method, time.Since(start), err)
	}

	return results, err
}

func (idx *Index) search(ctx context.Context, queries [][]float32, k int, optFns ...func(o *SearchOptions)) ([][]Result, Method, error) {
	var so SearchOptions
	for _, fn := range optFns {
		fn(&so)
	}

	method := idx.opts.Method

	st := idx.state.Load()
	if st == nil {
		return nil, method, ErrNotFitted
	}
	if k < 1 {
		return nil, method, ErrInvalidK
	}

	if so.Method != MethodUnset {
		if !so.Method.valid() {
			return nil, method, &ErrUnknownMethod{Method: so.Method.String()}
		}
		if idx.opts.Method != MethodUnset {
			return nil, method, ErrMethodOverride
		}
		method = so.Method
	}

	scale := idx.opts.CandidatesScale
	if so.CandidatesScale != 0 {
		if so.CandidatesScale < 1 {
			return nil, method, &ErrInvalidParameter{Name: "candidates_scale", Reason: "must be >= 1"}
		}
		scale = so.CandidatesScale
	}

	for _, q := range queries {
		if len(q) != st.dim {
			return nil, method, &ErrDimensionMismatch{Expected: st.dim, Actual: len(q)}
		}
	}
	if len(queries) == 0 {
		return [][]Result{}, method, nil
	}

	// No filter strategy: exact search over the full dataset.
	if method == MethodUnset {
		top, err := engine.TopK(ctx, len(queries), len(st.data), k, func(q, row int) float32 {
			return idx.metricFn(queries[q], st.data[row])
		}, idx.engineOpts())
		if err != nil {
			return nil, method, err
		}
		return toResults(top), method, nil
	}

	// Oversample so reranking has room to correct sketch errors. The base
	// is the configured neighbor count; a larger per-query k raises it.
	nCandidates := idx.opts.Neighbors * scale
	if nCandidates < k {
		nCandidates = k
	}

	candidates, err := idx.selectCandidates(ctx, st, queries, method, nCandidates)
	if err != nil {
		return nil, method, err
	}
	if idx.opts.Metrics != nil {
		for _, c := range candidates {
			idx.opts.Metrics.RecordCandidates(method, len(c))
		}
	}

	results := make([][]Result, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers())
	for qi := range queries {
		g.Go(func() error {
			res, err := idx.rerank(gctx, st, queries[qi], candidates[qi], k)
			if err != nil {
				return err
			}
			results[qi] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, method, err
	}

	return results, method, nil
}

// selectCandidates runs the chosen filter strategy and returns, per query,
// at most nCandidates dataset indices sorted ascending.
func (idx *Index) selectCandidates(ctx context.Context, st *fitState, queries [][]float32, method Method, nCandidates int) ([][]uint32, error) {
	switch method {
	case MethodSymmetric:
		encs, err := st.fine.EncodeBatch(queries, false)
		if err != nil {
			return nil, err
		}
		top, err := engine.TopK(ctx, len(queries), st.sketches.Len(), nCandidates, func(q, row int) float32 {
			return float32(sketch.Hamming(encs[q].Bits, st.sketches.Row(row)))
		}, idx.engineOpts())
		if err != nil {
			return nil, err
		}
		return toSortedIndices(top), nil

	case MethodAsymmetric:
		encs, err := st.fine.EncodeBatch(queries, true)
		if err != nil {
			return nil, err
		}
		top, err := engine.TopK(ctx, len(queries), st.sketches.Len(), nCandidates, func(q, row int) float32 {
			return sketch.Asymmetric(encs[q].Bits, encs[q].Weights, st.sketches.Row(row))
		}, idx.engineOpts())
		if err != nil {
			return nil, err
		}
		return toSortedIndices(top), nil

	case MethodGroupedAsymmetric:
		return idx.selectGrouped(ctx, st, queries, nCandidates)

	case MethodPCA:
		embedded, err := st.pca.TransformBatch(queries)
		if err != nil {
			return nil, err
		}
		top, err := engine.TopK(ctx, len(queries), len(st.embedded), nCandidates, func(q, row int) float32 {
			return idx.metricFn(embedded[q], st.embedded[row])
		}, idx.engineOpts())
		if err != nil {
			return nil, err
		}
		return toSortedIndices(top), nil

	default:
		return nil, &ErrUnknownMethod{Method: method.String()}
	}
}

// selectGrouped implements the two-phase grouped-asymmetric strategy: a
// coarse prefilter on reliable group bits, then asymmetric ranking of the
// admitted rows on the fine sketch. The candidate set may silently shrink
// below nCandidates when the prefilter admits fewer rows.
func (idx *Index) selectGrouped(ctx context.Context, st *fitState, queries [][]float32, nCandidates int) ([][]uint32, error) {
	fineEncs, err := st.fine.EncodeBatch(queries, true)
	if err != nil {
		return nil, err
	}
	groupEncs, err := st.group.EncodeBatch(queries, true)
	if err != nil {
		return nil, err
	}

	out := make([][]uint32, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers())

	for qi := range queries {
		g.Go(func() error {
			admitted := admitByGroup(st.groupSketches, groupEncs[qi], idx.opts.GroupThreshold)

			serial := func(o *engine.Options) {
				o.BlockSize = idx.opts.BlockSize
				o.NumWorkers = 1
			}

			if admitted == nil {
				// No reliable group bits: the whole dataset competes.
				top, err := engine.TopK(gctx, 1, st.sketches.Len(), nCandidates, func(_, row int) float32 {
					return sketch.Asymmetric(fineEncs[qi].Bits, fineEncs[qi].Weights, st.sketches.Row(row))
				}, serial)
				if err != nil {
					return err
				}
				out[qi] = sortedIndices(top[0], nil)
				return nil
			}

			rows := admitted.ToArray() // ascending dataset indices
			top, err := engine.TopK(gctx, 1, len(rows), nCandidates, func(_, row int) float32 {
				return sketch.Asymmetric(fineEncs[qi].Bits, fineEncs[qi].Weights, st.sketches.Row(int(rows[row])))
			}, serial)
			if err != nil {
				return err
			}
			out[qi] = sortedIndices(top[0], rows)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// admitByGroup returns the rows whose group bits equal the query's at every
// reliable position (weight >= threshold). A nil return means no position
// was reliable and the entire dataset is admitted.
func admitByGroup(groupSet *sketch.Set, enc sketch.Encoding, threshold float64) *roaring.Bitmap {
	mask := make([]uint64, len(enc.Bits))
	constrained := false
	for i, w := range enc.Weights {
		if float64(w) >= threshold {
			mask[i/64] |= 1 << (uint(i) % 64)
			constrained = true
		}
	}
	if !constrained {
		return nil
	}

	bm := roaring.New()
	for r := 0; r < groupSet.Len(); r++ {
		row := groupSet.Row(r)
		match := true
		for wi := range mask {
			if (row[wi]^enc.Bits[wi])&mask[wi] != 0 {
				match = false
				break
			}
		}
		if match {
			bm.Add(uint32(r))
		}
	}
	return bm
}

// rerank computes true distances between one query and its candidates and
// keeps the k smallest. Candidates arrive sorted ascending, so block row
// order coincides with dataset index order and ties resolve correctly.
func (idx *Index) rerank(ctx context.Context, st *fitState, query []float32, candidates []uint32, k int) ([]Result, error) {
	top, err := engine.TopK(ctx, 1, len(candidates), k, func(_, row int) float32 {
		return idx.metricFn(query, st.data[candidates[row]])
	}, func(o *engine.Options) {
		o.BlockSize = idx.opts.BlockSize
		o.NumWorkers = 1
	})
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(top[0]))
	for i, c := range top[0] {
		results[i] = Result{Index: candidates[c.Index], Distance: c.Distance}
	}
	return results, nil
}

func (idx *Index) engineOpts() func(o *engine.Options) {
	return func(o *engine.Options) {
		o.BlockSize = idx.opts.BlockSize
		o.NumWorkers = idx.opts.NumWorkers
	}
}

func (idx *Index) workers() int {
	if idx.opts.NumWorkers > 0 {
		return idx.opts.NumWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// sortedIndices extracts the row indices from one query's top-k candidates
// and sorts them ascending. A non-nil rows slice maps positions back to
// dataset indices first.
func sortedIndices(candidates []engine.Candidate, rows []uint32) []uint32 {
	out := make([]uint32, len(candidates))
	for i, c := range candidates {
		if rows != nil {
			out[i] = rows[c.Index]
		} else {
			out[i] = c.Index
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func toSortedIndices(top [][]engine.Candidate) [][]uint32 {
	out := make([][]uint32, len(top))
	for q, candidates := range top {
		out[q] = sortedIndices(candidates, nil)
	}
	return out
}

func toResults(top [][]engine.Candidate) [][]Result {
	out := make([][]Result, len(top))
	for q, candidates := range top {
		res := make([]Result, len(candidates))
		for i, c := range candidates {
			res[i] = Result{Index: c.Index, Distance: c.Distance}
		}
		out[q] = res
	}
	return out
}

// Stats describes the current build of the index.
type Stats struct {
	Fitted     bool
	Rows       int
	Dim        int
	SketchSize int
	GroupSize  int
	Method     Method
}

// Stats returns a snapshot of the index state.
func (idx *Index) Stats() Stats {
	s := Stats{
		SketchSize: idx.opts.SketchSize,
		GroupSize:  idx.opts.GroupSize,
		Method:     idx.opts.Method,
	}
	if st := idx.state.Load(); st != nil {
		s.Fitted = true
		s.Rows = len(st.data)
		s.Dim = st.dim
	}
	return s
}
