package sketchgo

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/sketchgo/metric"
)

// Options contains configuration options for the index. All sketch geometry
// parameters are fixed at construction and frozen for the index's lifetime.
type Options struct {
	// Neighbors is the default number of neighbors returned per query and
	// the base of the candidate-set sizing. Must be >= 1.
	Neighbors int

	// Method fixes the candidate strategy at construction. MethodUnset
	// builds every representation and lets each query choose.
	Method Method

	// SketchSize is the fine sketch length in bits (and the PCA embedding
	// width). Must be >= 1.
	SketchSize int

	// StripWindow is the width of one projection strip. Must be > 0.
	StripWindow float64

	// CandidatesScale multiplies Neighbors to size the candidate set,
	// compensating for sketch approximation error before exact reranking.
	// Must be >= 1.
	CandidatesScale int

	// GroupSize is the coarse group sketch length in bits. Must be >= 1.
	GroupSize int

	// GroupThreshold is the minimum confidence weight for a group bit to
	// constrain the grouped prefilter. Must be in [0, 0.5].
	GroupThreshold float64

	// Seed drives basis generation. Fixed seed means byte-for-byte
	// reproducible sketches across builds on identical data.
	Seed uint64

	// Metric is the final black-box distance. Defaults to metric.Euclidean.
	Metric metric.Func

	// BlockSize bounds the rows scored per chunk during scans.
	BlockSize int

	// NumWorkers bounds the queries processed concurrently.
	// Zero means runtime.GOMAXPROCS(0).
	NumWorkers int

	// Logger receives structured operation logs. Nil disables logging.
	Logger *Logger

	// Metrics receives operational metrics. Nil disables collection.
	Metrics MetricsCollector
}

// DefaultOptions contains the default configuration options for the index.
var DefaultOptions = Options{
	Neighbors:       5,
	Method:          MethodUnset,
	SketchSize:      20,
	StripWindow:     50,
	CandidatesScale: 20,
	GroupSize:       4,
	GroupThreshold:  0.1,
	Seed:            1,
	BlockSize:       1024,
	NumWorkers:      0,
}

func (o *Options) validate() error {
	if o.Neighbors < 1 {
		return &ErrInvalidParameter{Name: "n_neighbors", Reason: fmt.Sprintf("%d is not >= 1", o.Neighbors)}
	}
	if !o.Method.valid() {
		return &ErrUnknownMethod{Method: fmt.Sprintf("Method(%d)", int(o.Method))}
	}
	if o.SketchSize < 1 {
		return &ErrInvalidParameter{Name: "sketch_size", Reason: fmt.Sprintf("%d is not >= 1", o.SketchSize)}
	}
	if o.StripWindow <= 0 {
		return &ErrInvalidParameter{Name: "strip_window", Reason: fmt.Sprintf("%g is not > 0", o.StripWindow)}
	}
	if o.CandidatesScale < 1 {
		return &ErrInvalidParameter{Name: "candidates_scale", Reason: fmt.Sprintf("%d is not >= 1", o.CandidatesScale)}
	}
	if o.GroupSize < 1 {
		return &ErrInvalidParameter{Name: "group_size", Reason: fmt.Sprintf("%d is not >= 1", o.GroupSize)}
	}
	if o.GroupThreshold < 0 || o.GroupThreshold > 0.5 {
		return &ErrInvalidParameter{Name: "group_threshold", Reason: fmt.Sprintf("%g is not in [0, 0.5]", o.GroupThreshold)}
	}
	if o.BlockSize < 1 {
		return &ErrInvalidParameter{Name: "block_size", Reason: fmt.Sprintf("%d is not >= 1", o.BlockSize)}
	}
	return nil
}

// WithNeighbors sets the default neighbor count.
func WithNeighbors(n int) func(*Options) {
	return func(o *Options) { o.Neighbors = n }
}

// WithMethod fixes the candidate strategy at construction. Once set, query
// overrides are rejected with ErrMethodOverride.
func WithMethod(m Method) func(*Options) {
	return func(o *Options) { o.Method = m }
}

// WithSketchSize sets the fine sketch length in bits.
func WithSketchSize(size int) func(*Options) {
	return func(o *Options) { o.SketchSize = size }
}

// WithStripWindow sets the projection strip width.
func WithStripWindow(w float64) func(*Options) {
	return func(o *Options) { o.StripWindow = w }
}

// WithCandidatesScale sets the candidate oversampling factor.
func WithCandidatesScale(scale int) func(*Options) {
	return func(o *Options) { o.CandidatesScale = scale }
}

// WithGroupSize sets the coarse group sketch length in bits.
func WithGroupSize(size int) func(*Options) {
	return func(o *Options) { o.GroupSize = size }
}

// WithGroupThreshold sets the reliability cutoff for group bits.
func WithGroupThreshold(t float64) func(*Options) {
	return func(o *Options) { o.GroupThreshold = t }
}

// WithSeed sets the basis generation seed.
func WithSeed(seed uint64) func(*Options) {
	return func(o *Options) { o.Seed = seed }
}

// WithMetric sets the final distance function.
func WithMetric(m metric.Func) func(*Options) {
	return func(o *Options) { o.Metric = m }
}

// WithBlockSize bounds the rows scored per chunk during scans.
func WithBlockSize(size int) func(*Options) {
	return func(o *Options) { o.BlockSize = size }
}

// WithNumWorkers bounds the queries processed concurrently.
func WithNumWorkers(n int) func(*Options) {
	return func(o *Options) { o.NumWorkers = n }
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) func(*Options) {
	return func(o *Options) { o.Logger = logger }
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) func(*Options) {
	return func(o *Options) { o.Logger = NewTextLogger(level) }
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) func(*Options) {
	return func(o *Options) { o.Metrics = mc }
}

// SearchOptions contains per-query options for KNNSearch.
type SearchOptions struct {
	// Method selects the candidate strategy for this query. Accepted only
	// if construction left the method unset; otherwise the query fails
	// with ErrMethodOverride. MethodUnset runs exact search.
	Method Method

	// CandidatesScale overrides the construction-time oversampling factor
	// for this query. Zero keeps the construction value.
	CandidatesScale int
}
