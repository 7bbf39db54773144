// Package embed maps text to fixed-length, L2-normalized vectors through an
// external embedding model. Two providers are supported: any OpenAI-compatible
// embeddings endpoint and the Ollama HTTP API. Both produce unit-norm vectors
// regardless of what the backend returns.
package embed

import (
	"context"
	"fmt"
	"math"
)

// DefaultDims matches BAAI/bge-m3.
const DefaultDims = 1024

// Embedder maps text to normalized vectors. Batch calls preserve input order.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dims reports the vector dimensionality this embedder produces.
	Dims() int
}

// Normalize scales v to unit L2 norm in place and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}

// checkDims verifies the backend returned the configured dimensionality.
// The vector store rejects mismatched inserts, so fail early with context.
func checkDims(got, want int) error {
	if want > 0 && got != want {
		return fmt.Errorf("embed: got %d dimensions, want %d", got, want)
	}
	return nil
}
