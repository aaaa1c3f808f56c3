package reduce

import (
	"bytes"
	"encoding/gob"
)

type pcaState struct {
	Dim        int
	Components int
	Mean       []float64
	Basis      []float64
}

// GobEncode implements gob.GobEncoder for PCA.
func (p *PCA) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(pcaState{
		Dim:        p.dim,
		Components: p.components,
		Mean:       p.mean,
		Basis:      p.basis,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder for PCA.
func (p *PCA) GobDecode(data []byte) error {
	var st pcaState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return err
	}
	p.dim = st.Dim
	p.components = st.Components
	p.mean = st.Mean
	p.basis = st.Basis
	return nil
}
