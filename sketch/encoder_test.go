package sketch

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

// fixedBasis builds a basis with hand-picked rows and offsets so tests can
// reason about exact projected coordinates.
func fixedBasis(t *testing.T, rows [][]float32, offsets []float64, window float64) *Basis {
	t.Helper()
	b, err := NewBasis(len(rows[0]), len(rows), window, rand.NewSource(1))
	if err != nil {
		t.Fatalf("NewBasis failed: %v", err)
	}
	b.rows = rows
	b.offsets = offsets
	return b
}

func TestEncode_BitsAndWeights(t *testing.T) {
	// Projection is the identity on a 1-dim input, window 1:
	// h = v[0] + offset.
	b := fixedBasis(t, [][]float32{{1}}, []float64{0}, 1)

	tests := []struct {
		name       string
		v          float32
		wantBit    uint64
		wantWeight float64
	}{
		{"strip zero middle", 0.5, 0, 0.5},
		{"strip one", 1.25, 1, 0.25},
		{"strip two", 2.75, 0, 0.25},
		{"negative strip", -0.5, 1, 0.5}, // floor(-0.5) = -1, odd
		{"negative strip two", -1.75, 0, 0.25},
		{"boundary", 3.0, 1, 0},
		{"origin boundary", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := b.Encode([]float32{tt.v}, true)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got := Bit(enc.Bits, 0); got != tt.wantBit {
				t.Errorf("bit = %d, want %d", got, tt.wantBit)
			}
			if got := float64(enc.Weights[0]); math.Abs(got-tt.wantWeight) > 1e-6 {
				t.Errorf("weight = %g, want %g", got, tt.wantWeight)
			}
		})
	}
}

func TestEncode_WeightRange(t *testing.T) {
	b, err := NewBasis(8, 64, 0.25, rand.NewSource(7))
	if err != nil {
		t.Fatalf("NewBasis failed: %v", err)
	}

	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 50; trial++ {
		v := make([]float32, 8)
		for i := range v {
			v[i] = float32(rng.NormFloat64() * 10)
		}
		enc, err := b.Encode(v, true)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		for i, w := range enc.Weights {
			if w < 0 || w > 0.5 {
				t.Fatalf("weight %d = %g outside [0, 0.5]", i, w)
			}
		}
	}
}

func TestEncode_DimensionMismatch(t *testing.T) {
	b, err := NewBasis(8, 4, 1, rand.NewSource(1))
	if err != nil {
		t.Fatalf("NewBasis failed: %v", err)
	}

	_, err = b.Encode([]float32{1, 2, 3}, false)
	var dm *ErrDimensionMismatch
	if !errors.As(err, &dm) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if dm.Expected != 8 || dm.Actual != 3 {
		t.Errorf("expected {8 3}, got {%d %d}", dm.Expected, dm.Actual)
	}
}

func TestEncode_WithoutWeights(t *testing.T) {
	b, err := NewBasis(4, 6, 1, rand.NewSource(1))
	if err != nil {
		t.Fatalf("NewBasis failed: %v", err)
	}
	enc, err := b.Encode([]float32{1, 2, 3, 4}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if enc.Weights != nil {
		t.Error("expected nil weights when not requested")
	}
	if len(enc.Bits) != 1 {
		t.Errorf("expected 1 packed word for 6 bits, got %d", len(enc.Bits))
	}
}

func TestEncodeBatch_MatchesEncode(t *testing.T) {
	b, err := NewBasis(4, 70, 2, rand.NewSource(5))
	if err != nil {
		t.Fatalf("NewBasis failed: %v", err)
	}

	vs := [][]float32{
		{1, 2, 3, 4},
		{-1, 0.5, 0, 2},
	}
	encs, err := b.EncodeBatch(vs, true)
	if err != nil {
		t.Fatalf("EncodeBatch failed: %v", err)
	}
	if len(encs) != 2 {
		t.Fatalf("expected 2 encodings, got %d", len(encs))
	}

	for i, v := range vs {
		single, err := b.Encode(v, true)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		for w := range single.Bits {
			if encs[i].Bits[w] != single.Bits[w] {
				t.Errorf("vector %d word %d: batch and single encodings differ", i, w)
			}
		}
		for j := range single.Weights {
			if encs[i].Weights[j] != single.Weights[j] {
				t.Errorf("vector %d weight %d: batch and single encodings differ", i, j)
			}
		}
	}
}

func TestWords(t *testing.T) {
	tests := []struct{ size, want int }{
		{1, 1}, {63, 1}, {64, 1}, {65, 2}, {128, 2}, {129, 3},
	}
	for _, tt := range tests {
		if got := Words(tt.size); got != tt.want {
			t.Errorf("Words(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}
