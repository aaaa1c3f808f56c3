package sketch

import (
	"bytes"
	"encoding/gob"
)

type basisState struct {
	Dim     int
	Window  float64
	Rows    [][]float32
	Offsets []float64
}

// GobEncode implements gob.GobEncoder for Basis.
func (b *Basis) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(basisState{
		Dim:     b.dim,
		Window:  b.window,
		Rows:    b.rows,
		Offsets: b.offsets,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder for Basis.
func (b *Basis) GobDecode(data []byte) error {
	var st basisState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return err
	}
	b.dim = st.Dim
	b.window = st.Window
	b.rows = st.Rows
	b.offsets = st.Offsets
	return nil
}

type setState struct {
	N     int
	Size  int
	Words int
	Bits  []uint64
}

// GobEncode implements gob.GobEncoder for Set.
func (s *Set) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(setState{
		N:     s.n,
		Size:  s.size,
		Words: s.words,
		Bits:  s.bits,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder for Set.
func (s *Set) GobDecode(data []byte) error {
	var st setState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return err
	}
	s.n = st.N
	s.size = st.Size
	s.words = st.Words
	s.bits = st.Bits
	return nil
}
