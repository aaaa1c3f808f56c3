package sketch

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func TestHamming(t *testing.T) {
	tests := []struct {
		name string
		a, b []uint64
		want int
	}{
		{"self", []uint64{0b1011}, []uint64{0b1011}, 0},
		{"one bit", []uint64{0b1011}, []uint64{0b1010}, 1},
		{"all four", []uint64{0b1111}, []uint64{0b0000}, 4},
		{"multi word", []uint64{1, 1 << 63}, []uint64{0, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hamming(tt.a, tt.b); got != tt.want {
				t.Errorf("Hamming = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAsymmetric(t *testing.T) {
	qBits := []uint64{0b0101}
	qWeights := []float32{0.1, 0.2, 0.3, 0.4}

	tests := []struct {
		name  string
		dBits []uint64
		want  float32
	}{
		{"all match", []uint64{0b0101}, 0},
		{"first differs", []uint64{0b0100}, 0.1},
		{"all differ", []uint64{0b1010}, 1.0},
		{"last two differ", []uint64{0b1001}, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Asymmetric(qBits, qWeights, tt.dBits)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("Asymmetric = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAsymmetric_NonNegativeZeroOnlyOnMatch(t *testing.T) {
	b, err := NewBasis(6, 16, 0.5, rand.NewSource(11))
	if err != nil {
		t.Fatalf("NewBasis failed: %v", err)
	}

	rng := rand.New(rand.NewSource(12))
	vec := func() []float32 {
		v := make([]float32, 6)
		for i := range v {
			v[i] = float32(rng.NormFloat64())
		}
		return v
	}

	for trial := 0; trial < 100; trial++ {
		q, err := b.Encode(vec(), true)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		d, err := b.Encode(vec(), false)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		dist := Asymmetric(q.Bits, q.Weights, d.Bits)
		if dist < 0 {
			t.Fatalf("asymmetric distance %f < 0", dist)
		}
		// With continuous random weights, zero distance implies all bits
		// agree.
		if dist == 0 {
			for i := range q.Weights {
				if q.Weights[i] > 0 && Bit(q.Bits, i) != Bit(d.Bits, i) {
					t.Fatalf("zero distance with differing weighted bit %d", i)
				}
			}
		}
		// Self distance is always exactly 0.
		if self := Asymmetric(q.Bits, q.Weights, q.Bits); self != 0 {
			t.Fatalf("self asymmetric distance = %f, want 0", self)
		}
	}
}

func TestPackBitWeight_RoundTrip(t *testing.T) {
	// Every weight here is exactly representable after adding the bit, so
	// the round trip must be exact.
	weights := []float32{0, 0.03125, 0.125, 0.25, 0.375, 0.499755859375}

	for _, bit := range []uint64{0, 1} {
		for _, w := range weights {
			packed := PackBitWeight(bit, w)
			gotBit, gotW := UnpackBitWeight(packed)
			if gotBit != bit {
				t.Errorf("bit %d weight %g: unpacked bit %d", bit, w, gotBit)
			}
			if gotW != w {
				t.Errorf("bit %d weight %g: unpacked weight %g", bit, w, gotW)
			}
		}
	}
}

func TestAsymmetricPacked_MatchesAsymmetric(t *testing.T) {
	b, err := NewBasis(5, 20, 1, rand.NewSource(21))
	if err != nil {
		t.Fatalf("NewBasis failed: %v", err)
	}

	rng := rand.New(rand.NewSource(22))
	for trial := 0; trial < 50; trial++ {
		q := make([]float32, 5)
		d := make([]float32, 5)
		for i := range q {
			q[i] = float32(rng.NormFloat64())
			d[i] = float32(rng.NormFloat64())
		}

		qe, err := b.Encode(q, true)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		de, err := b.Encode(d, false)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		clean := Asymmetric(qe.Bits, qe.Weights, de.Bits)
		legacy := AsymmetricPacked(Pack(qe), de.Bits)
		if math.Abs(float64(clean-legacy)) > 1e-5 {
			t.Fatalf("clean %f and packed %f asymmetric distances diverge", clean, legacy)
		}
	}
}

func TestSet(t *testing.T) {
	b, err := NewBasis(3, 10, 1, rand.NewSource(31))
	if err != nil {
		t.Fatalf("NewBasis failed: %v", err)
	}

	data := [][]float32{
		{0, 0, 0},
		{1, 2, 3},
		{-5, 0.5, 2},
	}
	set, err := NewSet(b, data)
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}

	if set.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", set.Len())
	}
	if set.Size() != 10 {
		t.Errorf("expected size 10, got %d", set.Size())
	}

	for i, v := range data {
		enc, err := b.Encode(v, false)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		row := set.Row(i)
		for w := range enc.Bits {
			if row[w] != enc.Bits[w] {
				t.Errorf("row %d word %d: set and direct encoding differ", i, w)
			}
		}
	}
}

func TestSet_DimensionMismatch(t *testing.T) {
	b, err := NewBasis(3, 4, 1, rand.NewSource(1))
	if err != nil {
		t.Fatalf("NewBasis failed: %v", err)
	}
	if _, err := NewSet(b, [][]float32{{1, 2}}); err == nil {
		t.Error("expected dimension mismatch error")
	}
}
