package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/voyago/engine/domain"
	"github.com/voyago/voyago/engine/ingest"
	"github.com/voyago/voyago/engine/llm"
	"github.com/voyago/voyago/engine/rag"
	"github.com/voyago/voyago/engine/youtube"
	"github.com/voyago/voyago/pkg/metrics"
	"github.com/voyago/voyago/pkg/mid"
)

const (
	serviceName    = "voyago-api"
	serviceVersion = "0.1.0"
)

// planService produces trip plans.
type planService interface {
	Plan(ctx context.Context, req domain.PlanRequest) *domain.PlanResponse
}

// ingestService covers the ingestion side-channel operations.
type ingestService interface {
	IngestYouTube(ctx context.Context, videoID string, metadata map[string]any) ([]string, error)
	SearchSimilar(ctx context.Context, query string, limit int) ([]ingest.SimilarResult, error)
}

// chatService is the raw LLM passthrough.
type chatService interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts llm.Options) (string, error)
}

type server struct {
	planner  planService
	ingester ingestService
	chat     chatService
	log      *slog.Logger
}

func newRouter(planner planService, ingester ingestService, chat chatService, corsOrigin string, logger *slog.Logger) http.Handler {
	s := &server{planner: planner, ingester: ingester, chat: chat, log: logger}

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/generateTripPlan", s.handleGeneratePlan)
		r.Post("/addYoutubeLink", s.handleAddYoutubeLink)
		r.Post("/searchSimilar", s.handleSearchSimilar)
		r.Post("/basicChat", s.handleBasicChat)
	})
	r.Handle("/metrics", metrics.Handler())

	return mid.Chain(r,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(corsOrigin),
		mid.OTel(serviceName),
		mid.Metrics(),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
		"version":   serviceVersion,
	})
}

func (s *server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req domain.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := domain.ValidatePlanRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Plan never fails: LLM and retrieval errors come back as an error
	// envelope inside the response, still HTTP 200.
	writeJSON(w, http.StatusOK, s.planner.Plan(r.Context(), req))
}

type addLinkRequest struct {
	VideoID string `json:"video_id"`
}

type addLinkResponse struct {
	Message  string  `json:"message"`
	VideoURL *string `json:"video_url"`
}

func (s *server) handleAddYoutubeLink(w http.ResponseWriter, r *http.Request) {
	var req addLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VideoID == "" {
		writeError(w, http.StatusBadRequest, "video_id is required")
		return
	}

	_, err := s.ingester.IngestYouTube(r.Context(), req.VideoID, nil)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, youtube.ErrNoTranscript) {
			// No transcript is an expected outcome, not a server fault.
			status = http.StatusOK
		}
		s.log.Warn("youtube ingestion failed", "video_id", req.VideoID, "err", err)
		writeJSON(w, status, addLinkResponse{Message: "Failed to add YouTube link"})
		return
	}

	url := youtube.WatchURL(req.VideoID)
	writeJSON(w, http.StatusOK, addLinkResponse{Message: "add successfully", VideoURL: &url})
}

type searchSimilarRequest struct {
	VideoID string `json:"video_id"`
}

func (s *server) handleSearchSimilar(w http.ResponseWriter, r *http.Request) {
	var req searchSimilarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VideoID == "" {
		writeError(w, http.StatusBadRequest, "video_id is required")
		return
	}

	results, err := s.ingester.SearchSimilar(r.Context(), req.VideoID, ingest.DefaultSearchLimit)
	if err != nil {
		s.log.Error("similarity search failed", "err", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if results == nil {
		results = []ingest.SimilarResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *server) handleBasicChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.chat.Complete(r.Context(), rag.DefaultSystemPrompt, req.Message, llm.Options{})
	if err != nil {
		s.log.Error("chat completion failed", "err", err)
		writeError(w, http.StatusBadGateway, "chat completion failed")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(reply))
}
