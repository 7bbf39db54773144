// Package domain defines the trip-planning request/response types shared by
// the RAG planner, the ingestion workflows, and the HTTP layer. It acts as
// the validation gate at workflow entry points.
package domain

// PlanRequest is a structured trip-planning request. Immutable once received.
type PlanRequest struct {
	StartPlace       string   `json:"start_place"`
	DestinationPlace string   `json:"destination_place"`
	TripPrice        *float64 `json:"trip_price,omitempty"`
	TripContext      string   `json:"trip_context,omitempty"`
	TripDurationDays int      `json:"trip_duration_days,omitempty"`
	GroupSize        int      `json:"group_size,omitempty"`
	Preferences      []string `json:"preferences,omitempty"`
	TopK             int      `json:"top_k,omitempty"`
}

// Defaults applied by the planner when fields are zero.
const (
	DefaultTripDurationDays = 1
	DefaultGroupSize        = 1
	DefaultTopK             = 3
)

// WithDefaults returns a copy with zero-valued optional fields filled in.
func (r PlanRequest) WithDefaults() PlanRequest {
	if r.TripDurationDays <= 0 {
		r.TripDurationDays = DefaultTripDurationDays
	}
	if r.GroupSize <= 0 {
		r.GroupSize = DefaultGroupSize
	}
	if r.TopK <= 0 {
		r.TopK = DefaultTopK
	}
	return r
}

// RetrievedItem is one vector-search hit mapped for the response. Produced
// fresh per search, never persisted.
type RetrievedItem struct {
	PlaceID     string         `json:"place_id"`
	PlaceName   string         `json:"place_name"`
	Description string         `json:"description,omitempty"`
	Score       float32        `json:"score"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// TransportInfo describes one travel segment. All fields are optional
// because the model may omit any of them.
type TransportInfo struct {
	Mode            string   `json:"mode,omitempty"`
	Departure       string   `json:"departure,omitempty"`
	Arrival         string   `json:"arrival,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	Details         string   `json:"details,omitempty"`
}

// PlanStep is one day of the itinerary.
type PlanStep struct {
	Day            int                `json:"day,omitempty"`
	Title          string             `json:"title,omitempty"`
	Description    string             `json:"description,omitempty"`
	Transport      *TransportInfo     `json:"transport,omitempty"`
	MapCoordinates map[string]float64 `json:"map_coordinates,omitempty"`
	Images         []string           `json:"images,omitempty"`
	Tips           []string           `json:"tips,omitempty"`
}

// TripPlan is the ordered itinerary. Step order is day order; day numbers
// are whatever the model produced and are not guaranteed monotonic.
type TripPlan struct {
	Overview           string     `json:"overview"`
	TotalEstimatedCost *float64   `json:"total_estimated_cost,omitempty"`
	Steps              []PlanStep `json:"steps"`
}

// PlanResponse is the full planner result. Failures are signalled through
// Meta["status"], never through a transport-level fault.
type PlanResponse struct {
	TripOverview  string          `json:"tripOverview"`
	QueryParams   PlanRequest     `json:"query_params"`
	RetrievedData []RetrievedItem `json:"retrieved_data"`
	TripPlan      TripPlan        `json:"trip_plan"`
	Meta          map[string]any  `json:"meta"`
}

// Meta status values used across the planner.
const (
	StatusSuccess        = "success"
	StatusJSONParseError = "json_parse_error"
	StatusError          = "error"
)
