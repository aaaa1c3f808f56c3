package sketch

// Set is the materialized sketch of an entire dataset under one basis: the
// packed bit code of every row, stored contiguously. It is built once at fit
// time and never mutated afterwards; queries read it concurrently without
// locking.
//
// Dataset weights are not stored: the asymmetric distances only ever use the
// query side's weights, the dataset side contributes bits alone.
type Set struct {
	n     int
	size  int
	words int
	bits  []uint64
}

// NewSet encodes all data rows under the basis.
func NewSet(b *Basis, data [][]float32) (*Set, error) {
	size := b.Size()
	words := Words(size)

	s := &Set{
		n:     len(data),
		size:  size,
		words: words,
		bits:  make([]uint64, len(data)*words),
	}

	for i, v := range data {
		enc, err := b.Encode(v, false)
		if err != nil {
			return nil, err
		}
		copy(s.bits[i*words:(i+1)*words], enc.Bits)
	}

	return s, nil
}

// Len returns the number of encoded rows.
func (s *Set) Len() int { return s.n }

// Size returns the sketch length in bits.
func (s *Set) Size() int { return s.size }

// Row returns the packed bit code of row i.
// The returned slice aliases internal memory and must be treated read-only.
func (s *Set) Row(i int) []uint64 {
	return s.bits[i*s.words : (i+1)*s.words]
}
