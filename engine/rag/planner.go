// Package rag orchestrates the retrieval-augmented trip planner. It embeds
// the request, searches the vector index for relevant travel content, builds
// an instructional prompt, calls the LLM, and parses the output into a
// structured itinerary. Every path terminates in a well-formed PlanResponse;
// failures are reported through Meta["status"], never as a Go error.
package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/voyago/voyago/engine/domain"
	"github.com/voyago/voyago/engine/llm"
	"github.com/voyago/voyago/engine/semantic"
	"github.com/voyago/voyago/pkg/metrics"
)

// Embedder abstracts query embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher abstracts vector similarity search.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, topK int) ([]semantic.SearchResult, error)
}

// Completer abstracts the chat-completion call.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts llm.Options) (string, error)
}

// Options configures the planner.
type Options struct {
	SystemPrompt string
	MaxTokens    int
	Model        string
	// TopK overrides the retrieval depth for requests that do not set one.
	TopK int
}

// DefaultOptions returns the planner defaults.
func DefaultOptions() Options {
	return Options{
		SystemPrompt: DefaultSystemPrompt,
		MaxTokens:    2048,
	}
}

// Planner is the RAG orchestration service.
type Planner struct {
	embedder Embedder
	searcher Searcher
	llm      Completer
	opts     Options
	logger   *slog.Logger
}

// New creates a Planner. All dependencies are injected so tests can
// substitute fakes; there is no ambient client state.
func New(embedder Embedder, searcher Searcher, completer Completer, opts Options, logger *slog.Logger) *Planner {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2048
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		embedder: embedder,
		searcher: searcher,
		llm:      completer,
		opts:     opts,
		logger:   logger,
	}
}

// Plan runs the full pipeline for a trip request.
func (p *Planner) Plan(ctx context.Context, req domain.PlanRequest) *domain.PlanResponse {
	if req.TopK <= 0 && p.opts.TopK > 0 {
		req.TopK = p.opts.TopK
	}
	req = req.WithDefaults()

	queryText := BuildQueryText(req)
	p.logger.Info("plan start", "query", queryText, "top_k", req.TopK)

	embedding, err := p.embedder.Embed(ctx, queryText)
	if err != nil {
		return p.errorResponse(req, fmt.Errorf("embed query: %w", err))
	}

	hits, err := p.searcher.Search(ctx, embedding, req.TopK)
	if err != nil {
		return p.errorResponse(req, fmt.Errorf("semantic search: %w", err))
	}
	p.logger.Info("plan search done", "results", len(hits))

	retrieved, contextText := mapHits(hits)

	prompt := BuildPlanPrompt(req, contextText)
	raw, err := p.llm.Complete(ctx, p.opts.SystemPrompt, prompt, llm.Options{
		Model:     p.opts.Model,
		MaxTokens: p.opts.MaxTokens,
	})
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues("error").Inc()
		return p.errorResponse(req, fmt.Errorf("llm completion: %w", err))
	}
	metrics.LLMCallsTotal.WithLabelValues("success").Inc()

	resp := p.parseResponse(req, retrieved, queryText, raw)
	metrics.PlansTotal.WithLabelValues(fmt.Sprint(resp.Meta["status"])).Inc()
	return resp
}

// mapHits converts search hits to RetrievedItems and accumulates the
// newline-joined context blob in result order.
func mapHits(hits []semantic.SearchResult) ([]domain.RetrievedItem, string) {
	retrieved := make([]domain.RetrievedItem, len(hits))
	var contextText strings.Builder

	for i, h := range hits {
		// Default only when the key is absent; an empty name stays empty.
		name := "Unknown"
		if n, ok := h.Payload["place_name"].(string); ok {
			name = n
		}
		retrieved[i] = domain.RetrievedItem{
			PlaceID:     h.ID,
			PlaceName:   name,
			Description: h.Text(),
			Score:       h.Score,
			Metadata:    h.Payload,
		}
		contextText.WriteByte('\n')
		contextText.WriteString(h.Text())
	}
	return retrieved, contextText.String()
}

// llmPayload is the JSON shape the prompt instructs the model to emit.
type llmPayload struct {
	TripOverview string          `json:"tripOverview"`
	TripPlan     domain.TripPlan `json:"trip_plan"`
}

// parseResponse decodes the model output, degrading to a raw-text response
// when the output is not the requested JSON. Degraded parses are still a
// success from the caller's point of view.
func (p *Planner) parseResponse(req domain.PlanRequest, retrieved []domain.RetrievedItem, queryText, raw string) *domain.PlanResponse {
	var payload llmPayload
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &payload); err != nil {
		p.logger.Warn("plan: llm output is not valid JSON", "err", err)
		return &domain.PlanResponse{
			TripOverview:  raw,
			QueryParams:   req,
			RetrievedData: retrieved,
			TripPlan: domain.TripPlan{
				Overview:           "Generated plan (parsing error)",
				TotalEstimatedCost: req.TripPrice,
				Steps:              []domain.PlanStep{},
			},
			Meta: map[string]any{
				"status": domain.StatusJSONParseError,
				"error":  err.Error(),
			},
		}
	}

	plan := payload.TripPlan
	if plan.Steps == nil {
		plan.Steps = []domain.PlanStep{}
	}

	return &domain.PlanResponse{
		TripOverview:  payload.TripOverview,
		QueryParams:   req,
		RetrievedData: retrieved,
		TripPlan:      plan,
		Meta: map[string]any{
			"status":        domain.StatusSuccess,
			"query_text":    queryText,
			"results_count": len(retrieved),
		},
	}
}

// errorResponse is the terminal envelope for any pipeline failure.
func (p *Planner) errorResponse(req domain.PlanRequest, err error) *domain.PlanResponse {
	p.logger.Error("plan failed", "err", err)
	metrics.PlansTotal.WithLabelValues(domain.StatusError).Inc()

	zero := 0.0
	return &domain.PlanResponse{
		TripOverview:  fmt.Sprintf("Error generating trip plan: %s", err),
		QueryParams:   req,
		RetrievedData: []domain.RetrievedItem{},
		TripPlan: domain.TripPlan{
			Overview:           "Error occurred",
			TotalEstimatedCost: &zero,
			Steps:              []domain.PlanStep{},
		},
		Meta: map[string]any{
			"status": domain.StatusError,
			"error":  err.Error(),
		},
	}
}
