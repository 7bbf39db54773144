package embed

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if got := norm(v); math.Abs(got-1) > 1e-6 {
		t.Fatalf("norm = %v, want 1", got)
	}

	// Zero vector stays zero rather than dividing by zero.
	z := Normalize([]float32{0, 0, 0})
	for _, x := range z {
		if x != 0 {
			t.Fatal("zero vector changed by Normalize")
		}
	}
}

func TestOllamaEmbedder_UnitNorm(t *testing.T) {
	raw := make([]float64, 4)
	for i := range raw {
		raw[i] = float64(i + 1) // deliberately not normalized
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbedReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResp{Embedding: raw})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "bge-m3", 4)
	vec, err := e.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 4 {
		t.Fatalf("len = %d, want 4", len(vec))
	}
	if got := norm(vec); math.Abs(got-1) > 1e-5 {
		t.Fatalf("norm = %v, want 1", got)
	}
}

func TestOllamaEmbedder_DimsMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResp{Embedding: []float64{1, 2}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "bge-m3", 1024)
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestOllamaEmbedder_BatchOrder(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbedReq
		json.NewDecoder(r.Body).Decode(&req)
		calls = append(calls, req.Prompt)
		json.NewEncoder(w).Encode(ollamaEmbedResp{Embedding: []float64{1, 0}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "bge-m3", 2)
	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors", len(vecs))
	}
	want := []string{"a", "b", "c"}
	for i, p := range want {
		if calls[i] != p {
			t.Errorf("call %d prompt = %q, want %q", i, calls[i], p)
		}
	}
}
