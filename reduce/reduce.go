// Package reduce provides dense dimensionality reduction for the
// projection-filter candidate strategy.
//
// The reducer fits an orthogonal basis minimizing reconstruction error over
// the dataset (classic PCA via thin SVD) and projects vectors into the
// low-dimensional space. Ranking in that space uses the true metric, not a
// sketch distance.
package reduce

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PCA is a fitted principal-component projection. It is immutable after
// Fit and safe for concurrent Transform calls.
type PCA struct {
	dim        int
	components int
	mean       []float64
	// basis holds the top right singular vectors, row-major dim x components.
	basis []float64
}

// Fit learns the projection from the dataset. The number of components is
// capped at min(rows, dim): a dataset spans at most that many directions, so
// asking for more cannot be satisfied and is quietly reduced.
func Fit(data [][]float32, components int) (*PCA, error) {
	if len(data) == 0 {
		return nil, errors.New("reduce: no vectors provided for fitting")
	}
	if components < 1 {
		return nil, fmt.Errorf("reduce: invalid components %d: must be >= 1", components)
	}

	n := len(data)
	dim := len(data[0])
	if components > dim {
		components = dim
	}
	if components > n {
		components = n
	}

	mean := make([]float64, dim)
	for _, v := range data {
		if len(v) != dim {
			return nil, fmt.Errorf("reduce: inconsistent vector width %d, expected %d", len(v), dim)
		}
		for i, x := range v {
			mean[i] += float64(x)
		}
	}
	for i := range mean {
		mean[i] /= float64(n)
	}

	centered := make([]float64, n*dim)
	for r, v := range data {
		for c, x := range v {
			centered[r*dim+c] = float64(x) - mean[c]
		}
	}

	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(n, dim, centered), mat.SVDThin) {
		return nil, errors.New("reduce: SVD factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)

	basis := make([]float64, dim*components)
	for i := 0; i < dim; i++ {
		for j := 0; j < components; j++ {
			basis[i*components+j] = v.At(i, j)
		}
	}

	return &PCA{
		dim:        dim,
		components: components,
		mean:       mean,
		basis:      basis,
	}, nil
}

// Dim returns the input dimension.
func (p *PCA) Dim() int { return p.dim }

// Components returns the embedding dimension.
func (p *PCA) Components() int { return p.components }

// Transform projects a vector into the fitted low-dimensional space.
func (p *PCA) Transform(v []float32) ([]float32, error) {
	if len(v) != p.dim {
		return nil, fmt.Errorf("reduce: dimension mismatch: expected %d, got %d", p.dim, len(v))
	}

	out := make([]float64, p.components)
	for i, x := range v {
		cx := float64(x) - p.mean[i]
		row := p.basis[i*p.components : (i+1)*p.components]
		for j, b := range row {
			out[j] += cx * b
		}
	}

	res := make([]float32, p.components)
	for j, y := range out {
		res[j] = float32(y)
	}
	return res, nil
}

// TransformBatch projects a batch of vectors.
func (p *PCA) TransformBatch(data [][]float32) ([][]float32, error) {
	out := make([][]float32, len(data))
	for i, v := range data {
		t, err := p.Transform(v)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
