package sketchgo

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/sketchgo/reduce"
	"github.com/hupe1980/sketchgo/sketch"
)

const (
	snapshotMagic   = "sketchgo-snapshot"
	snapshotVersion = 1
)

// snapshotHeader carries the serializable configuration and the layout of
// the sections that follow. Metric, logger and metrics collector are not
// serializable; they are re-supplied at load time.
type snapshotHeader struct {
	Magic   string
	Version int

	Neighbors       int
	Method          string
	SketchSize      int
	StripWindow     float64
	CandidatesScale int
	GroupSize       int
	GroupThreshold  float64
	Seed            uint64

	Dim  int
	Rows int

	HasSketch bool
	HasGroup  bool
	HasPCA    bool
}

// SaveSnapshot writes the fitted index to w as a zstd-compressed gob stream.
// The snapshot contains the dataset, the sketch bases, the packed sketches
// and the PCA embedding, so a load needs no refit.
func (idx *Index) SaveSnapshot(w io.Writer) error {
	st := idx.state.Load()
	if st == nil {
		return ErrNotFitted
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}

	enc := gob.NewEncoder(zw)

	hdr := snapshotHeader{
		Magic:           snapshotMagic,
		Version:         snapshotVersion,
		Neighbors:       idx.opts.Neighbors,
		Method:          idx.opts.Method.String(),
		SketchSize:      idx.opts.SketchSize,
		StripWindow:     idx.opts.StripWindow,
		CandidatesScale: idx.opts.CandidatesScale,
		GroupSize:       idx.opts.GroupSize,
		GroupThreshold:  idx.opts.GroupThreshold,
		Seed:            idx.opts.Seed,
		Dim:             st.dim,
		Rows:            len(st.data),
		HasSketch:       st.sketches != nil,
		HasGroup:        st.groupSketches != nil,
		HasPCA:          st.pca != nil,
	}

	if err := enc.Encode(hdr); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	if err := enc.Encode(st.data); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	if hdr.HasSketch {
		if err := enc.Encode(st.fine); err != nil {
			return fmt.Errorf("encode basis: %w", err)
		}
		if err := enc.Encode(st.group); err != nil {
			return fmt.Errorf("encode group basis: %w", err)
		}
		if err := enc.Encode(st.sketches); err != nil {
			return fmt.Errorf("encode sketches: %w", err)
		}
	}

	if hdr.HasGroup {
		if err := enc.Encode(st.groupSketches); err != nil {
			return fmt.Errorf("encode group sketches: %w", err)
		}
	}

	if hdr.HasPCA {
		if err := enc.Encode(st.pca); err != nil {
			return fmt.Errorf("encode pca: %w", err)
		}
		if err := enc.Encode(st.embedded); err != nil {
			return fmt.Errorf("encode embedding: %w", err)
		}
	}

	return zw.Close()
}

// LoadSnapshot restores an index written by SaveSnapshot. The stored
// configuration is applied first; optFns run afterwards and are the place
// to re-attach a metric function, logger or metrics collector.
func LoadSnapshot(r io.Reader, optFns ...func(o *Options)) (*Index, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)

	var hdr snapshotHeader
	if err := dec.Decode(&hdr); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if hdr.Magic != snapshotMagic {
		return nil, fmt.Errorf("invalid snapshot: bad magic %q", hdr.Magic)
	}
	if hdr.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", hdr.Version)
	}

	method, err := ParseMethod(hdr.Method)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}

	restore := func(o *Options) {
		o.Neighbors = hdr.Neighbors
		o.Method = method
		o.SketchSize = hdr.SketchSize
		o.StripWindow = hdr.StripWindow
		o.CandidatesScale = hdr.CandidatesScale
		o.GroupSize = hdr.GroupSize
		o.GroupThreshold = hdr.GroupThreshold
		o.Seed = hdr.Seed
	}

	idx, err := New(append([]func(o *Options){restore}, optFns...)...)
	if err != nil {
		return nil, err
	}

	st := &fitState{dim: hdr.Dim}

	if err := dec.Decode(&st.data); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if len(st.data) != hdr.Rows {
		return nil, fmt.Errorf("invalid snapshot: expected %d rows, got %d", hdr.Rows, len(st.data))
	}

	if hdr.HasSketch {
		st.fine = new(sketch.Basis)
		if err := dec.Decode(st.fine); err != nil {
			return nil, fmt.Errorf("decode basis: %w", err)
		}
		st.group = new(sketch.Basis)
		if err := dec.Decode(st.group); err != nil {
			return nil, fmt.Errorf("decode group basis: %w", err)
		}
		st.sketches = new(sketch.Set)
		if err := dec.Decode(st.sketches); err != nil {
			return nil, fmt.Errorf("decode sketches: %w", err)
		}
	}

	if hdr.HasGroup {
		st.groupSketches = new(sketch.Set)
		if err := dec.Decode(st.groupSketches); err != nil {
			return nil, fmt.Errorf("decode group sketches: %w", err)
		}
	}

	if hdr.HasPCA {
		st.pca = new(reduce.PCA)
		if err := dec.Decode(st.pca); err != nil {
			return nil, fmt.Errorf("decode pca: %w", err)
		}
		if err := dec.Decode(&st.embedded); err != nil {
			return nil, fmt.Errorf("decode embedding: %w", err)
		}
	}

	idx.state.Store(st)
	return idx, nil
}
