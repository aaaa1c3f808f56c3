package sketch

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Basis defines a family of periodic strip partitions of the projected line.
//
// Each of its Size rows is an i.i.d. standard-normal direction scaled by
// 1/sqrt(dim), which keeps the projected variance invariant to the input
// dimension. Each row carries an independent random phase drawn uniformly
// from [0, window), so strip boundaries are not aligned across rows; aligned
// boundaries would correlate sketch errors across bits.
//
// A Basis is generated once at build time and immutable afterwards.
type Basis struct {
	dim     int
	window  float64
	rows    [][]float32
	offsets []float64
}

// NewBasis generates a strip partition family with size rows over vectors of
// the given dimension. Draws come from src, so the result is deterministic
// for a fixed source state.
func NewBasis(dim, size int, window float64, src rand.Source) (*Basis, error) {
	if dim < 1 {
		return nil, fmt.Errorf("sketch: invalid dimension %d: must be >= 1", dim)
	}
	if size < 1 {
		return nil, fmt.Errorf("sketch: invalid size %d: must be >= 1", size)
	}
	if window <= 0 {
		return nil, fmt.Errorf("sketch: invalid strip window %g: must be > 0", window)
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	uniform := distuv.Uniform{Min: 0, Max: window, Src: src}

	scale := 1 / math.Sqrt(float64(dim))
	rows := make([][]float32, size)
	for i := range rows {
		row := make([]float32, dim)
		for j := range row {
			row[j] = float32(normal.Rand() * scale)
		}
		rows[i] = row
	}

	offsets := make([]float64, size)
	for i := range offsets {
		offsets[i] = uniform.Rand()
	}

	return &Basis{
		dim:     dim,
		window:  window,
		rows:    rows,
		offsets: offsets,
	}, nil
}

// NewBases generates the fine and the group partition families from a single
// seeded source. The group family reuses the same construction with
// groupSize rows and a strip window scaled by size/groupSize, deliberately
// coarser than the fine one.
//
// Both bases are fully determined by the seed.
func NewBases(dim, size, groupSize int, window float64, seed uint64) (fine, group *Basis, err error) {
	if groupSize < 1 {
		return nil, nil, fmt.Errorf("sketch: invalid group size %d: must be >= 1", groupSize)
	}

	src := rand.NewSource(seed)

	fine, err = NewBasis(dim, size, window, src)
	if err != nil {
		return nil, nil, err
	}

	groupWindow := window * float64(size) / float64(groupSize)
	group, err = NewBasis(dim, groupSize, groupWindow, src)
	if err != nil {
		return nil, nil, err
	}

	return fine, group, nil
}

// Dim returns the input dimension the basis projects from.
func (b *Basis) Dim() int { return b.dim }

// Size returns the number of partition rows, i.e. the sketch length in bits.
func (b *Basis) Size() int { return len(b.rows) }

// Window returns the strip width.
func (b *Basis) Window() float64 { return b.window }
