// Package ingest composes the transcript fetcher, the embedder, and the
// vector store into document ingestion workflows. It also serves the
// similar-text search used by the search endpoint.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voyago/voyago/engine/semantic"
	"github.com/voyago/voyago/engine/youtube"
	"github.com/voyago/voyago/pkg/fn"
	"github.com/voyago/voyago/pkg/metrics"
)

// TranscriptFetcher abstracts the YouTube transcript retrieval.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) fn.Result[string]
}

// Embedder abstracts embedding generation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Store abstracts the vector store operations the workflows need.
type Store interface {
	Upsert(ctx context.Context, records []semantic.VectorRecord) error
	Search(ctx context.Context, embedding []float32, topK int) ([]semantic.SearchResult, error)
}

// Service runs the ingestion workflows.
type Service struct {
	fetcher  TranscriptFetcher
	embedder Embedder
	store    Store
	chunker  Chunker
	logger   *slog.Logger
}

// New creates an ingestion Service. A nil chunker means whole-document
// ingestion (the minimal policy); a nil logger falls back to slog.Default.
func New(fetcher TranscriptFetcher, embedder Embedder, store Store, chunker Chunker, logger *slog.Logger) *Service {
	if chunker == nil {
		chunker = WholeDoc{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:  fetcher,
		embedder: embedder,
		store:    store,
		chunker:  chunker,
		logger:   logger,
	}
}

// IngestYouTube fetches a video transcript and stores it as searchable
// chunks tagged with source metadata. Caller metadata wins on key conflict.
// A missing transcript surfaces as youtube.ErrNoTranscript (wrapped) and the
// store is not touched.
func (s *Service) IngestYouTube(ctx context.Context, videoID string, metadata map[string]any) ([]string, error) {
	merged := map[string]any{
		"source":   "youtube",
		"video_id": videoID,
	}
	for k, v := range metadata {
		merged[k] = v
	}

	pipeline := fn.Then(
		fn.TracedStage[string, string]("ingest.fetch_transcript", s.fetcher.Fetch),
		fn.TracedStage[string, []string]("ingest.store_chunks", func(ctx context.Context, transcript string) fn.Result[[]string] {
			return fn.FromPair(s.insertChunks(ctx, transcript, merged))
		}),
	)

	ids, err := pipeline(ctx, videoID).Unwrap()
	if err != nil {
		if errors.Is(err, youtube.ErrNoTranscript) {
			s.logger.Info("ingest: transcript unavailable, skipping", "video_id", videoID, "err", err)
			return nil, err
		}
		return nil, fmt.Errorf("ingest youtube %s: %w", videoID, err)
	}
	s.logger.Info("ingest: youtube stored", "video_id", videoID, "chunks", len(ids))
	metrics.IngestDocsTotal.WithLabelValues("youtube").Inc()
	return ids, nil
}

// InsertText embeds one text and upserts it with payload {text, ...metadata}.
// customID may be empty, in which case a UUID is generated.
func (s *Service) InsertText(ctx context.Context, text string, metadata map[string]any, customID string) (string, error) {
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("insert text: embed: %w", err)
	}

	id := customID
	if id == "" {
		id = uuid.NewString()
	}

	payload := map[string]any{"text": text}
	for k, v := range metadata {
		payload[k] = v
	}

	rec := semantic.VectorRecord{ID: id, Embedding: embedding, Payload: payload}
	if err := s.store.Upsert(ctx, []semantic.VectorRecord{rec}); err != nil {
		return "", fmt.Errorf("insert text: %w", err)
	}
	metrics.IngestDocsTotal.WithLabelValues(sourceLabel(metadata)).Inc()
	metrics.IngestChunksTotal.Inc()
	return id, nil
}

// InsertTexts batch-embeds texts and upserts them in one call. Best-effort:
// a failed upsert returns the error for the whole batch, and the generated
// IDs make a retry of the same batch idempotent.
func (s *Service) InsertTexts(ctx context.Context, texts []string, metadataList []map[string]any) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("insert texts: embed batch: %w", err)
	}

	records := make([]semantic.VectorRecord, len(texts))
	ids := make([]string, len(texts))
	for i, text := range texts {
		ids[i] = uuid.NewString()
		payload := map[string]any{"text": text}
		if i < len(metadataList) {
			for k, v := range metadataList[i] {
				payload[k] = v
			}
		}
		records[i] = semantic.VectorRecord{ID: ids[i], Embedding: embeddings[i], Payload: payload}
	}

	if err := s.store.Upsert(ctx, records); err != nil {
		return nil, fmt.Errorf("insert texts: %w", err)
	}
	for i := range texts {
		var meta map[string]any
		if i < len(metadataList) {
			meta = metadataList[i]
		}
		metrics.IngestDocsTotal.WithLabelValues(sourceLabel(meta)).Inc()
	}
	metrics.IngestChunksTotal.Add(float64(len(texts)))
	return ids, nil
}

// insertChunks runs chunk -> embed -> store for one source document.
func (s *Service) insertChunks(ctx context.Context, text string, metadata map[string]any) ([]string, error) {
	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, nil
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	records := make([]semantic.VectorRecord, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = uuid.NewString()
		payload := map[string]any{"text": chunk}
		for k, v := range metadata {
			payload[k] = v
		}
		if len(chunks) > 1 {
			payload["chunk_index"] = i
		}
		records[i] = semantic.VectorRecord{ID: ids[i], Embedding: embeddings[i], Payload: payload}
	}

	if err := s.store.Upsert(ctx, records); err != nil {
		return nil, err
	}
	metrics.IngestChunksTotal.Add(float64(len(records)))
	return ids, nil
}

// sourceLabel picks the metric label from caller metadata.
func sourceLabel(metadata map[string]any) string {
	if s, ok := metadata["source"].(string); ok && s != "" {
		return s
	}
	return "text"
}

// SimilarResult is one similar-search hit with text lifted out of metadata.
type SimilarResult struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// DefaultSearchLimit is the similar-search result count when unspecified.
const DefaultSearchLimit = 5

// SearchSimilar embeds the query and returns the closest stored documents.
func (s *Service) SearchSimilar(ctx context.Context, query string, limit int) ([]SimilarResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search similar: embed: %w", err)
	}

	hits, err := s.store.Search(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}

	results := make([]SimilarResult, len(hits))
	for i, h := range hits {
		meta := make(map[string]any, len(h.Payload))
		for k, v := range h.Payload {
			if k != "text" {
				meta[k] = v
			}
		}
		results[i] = SimilarResult{
			ID:       h.ID,
			Score:    h.Score,
			Text:     h.Text(),
			Metadata: meta,
		}
	}
	return results, nil
}
