// Package metrics defines the Prometheus collectors for the voyago service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by route, method, and status code.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voyago",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks request latency by route.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "voyago",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"route", "method"},
	)

	// PlansTotal counts planner runs by outcome status.
	PlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voyago",
			Name:      "plans_total",
			Help:      "Total trip plan generations by status",
		},
		[]string{"status"},
	)

	// LLMCallsTotal counts chat-completion calls by outcome.
	LLMCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voyago",
			Name:      "llm_calls_total",
			Help:      "Total LLM completion calls",
		},
		[]string{"status"},
	)

	// IngestDocsTotal counts ingested documents by source.
	IngestDocsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voyago",
			Name:      "ingest_docs_total",
			Help:      "Total documents ingested",
		},
		[]string{"source"},
	)

	// IngestChunksTotal counts stored vector chunks.
	IngestChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "voyago",
			Name:      "ingest_chunks_total",
			Help:      "Total chunks stored in the vector index",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(PlansTotal)
	prometheus.MustRegister(LLMCallsTotal)
	prometheus.MustRegister(IngestDocsTotal)
	prometheus.MustRegister(IngestChunksTotal)
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
