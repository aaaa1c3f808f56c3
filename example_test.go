package sketchgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/sketchgo"
)

func Example() {
	ctx := context.Background()

	idx, err := sketchgo.New()
	if err != nil {
		log.Fatal(err)
	}

	samples := [][]float32{
		{0, 0, 0},
		{0, 0.5, 0},
		{1, 1, 0.5},
	}
	if err := idx.Fit(ctx, samples); err != nil {
		log.Fatal(err)
	}

	results, err := idx.KNNSearch(ctx, [][]float32{{1, 1, 1}}, 1)
	if err != nil {
		log.Fatal(err)
	}

	nearest := results[0][0]
	fmt.Printf("nearest: %d (distance %.1f)\n", nearest.Index, nearest.Distance)
	// Output:
	// nearest: 2 (distance 0.5)
}

func Example_sketchFilter() {
	ctx := context.Background()

	idx, err := sketchgo.New(
		sketchgo.WithMethod(sketchgo.MethodAsymmetric),
		sketchgo.WithSketchSize(16),
		sketchgo.WithSeed(42),
	)
	if err != nil {
		log.Fatal(err)
	}

	samples := [][]float32{
		{0, 0, 0},
		{0, 0.5, 0},
		{1, 1, 0.5},
	}
	if err := idx.Fit(ctx, samples); err != nil {
		log.Fatal(err)
	}

	results, err := idx.KNNSearch(ctx, [][]float32{{1, 1, 1}}, 1)
	if err != nil {
		log.Fatal(err)
	}

	nearest := results[0][0]
	fmt.Printf("nearest: %d (distance %.1f)\n", nearest.Index, nearest.Distance)
	// Output:
	// nearest: 2 (distance 0.5)
}
