package semantic

// SearchResult represents a single vector search hit. Scores are only
// comparable within one search call.
type SearchResult struct {
	ID      string         `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// Text returns the payload "text" field, or empty when absent.
func (r SearchResult) Text() string {
	if s, ok := r.Payload["text"].(string); ok {
		return s
	}
	return ""
}

// VectorRecord represents a single vector to store. ID must be a UUID;
// Payload always carries at least a "text" field.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Payload   map[string]any
}
