package rag

import (
	"fmt"
	"strings"

	"github.com/voyago/voyago/engine/domain"
)

// DefaultSystemPrompt frames the assistant for both the planner and the
// basic chat passthrough.
const DefaultSystemPrompt = `You are a helpful travel assistant. Use the provided context to answer the user's question about travel destinations and places.
If the context doesn't contain relevant information, say so politely and provide general advice if possible.`

// BuildQueryText builds the retrieval query from a request: the fixed
// from/to clause plus optional context, duration, and budget clauses.
func BuildQueryText(req domain.PlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip from %s to %s", req.StartPlace, req.DestinationPlace)
	if req.TripContext != "" {
		fmt.Fprintf(&b, " for %s", req.TripContext)
	}
	if req.TripDurationDays > 0 {
		fmt.Fprintf(&b, " for %d days", req.TripDurationDays)
	}
	if req.TripPrice != nil {
		fmt.Fprintf(&b, " with budget %s", formatNumber(*req.TripPrice))
	}
	return b.String()
}

// planPromptTemplate instructs the model to emit the exact nested JSON shape
// the response parser expects. The two %s slots are the request block and
// the retrieved context blob; the final %d is the instructed step count.
const planPromptTemplate = `You are a travel planning assistant. Based on the trip request and travel context provided, generate a comprehensive trip plan in the exact JSON format specified below.

Trip Request:
%s

Relevant Travel Context:
%s

Generate a response in this EXACT JSON format (no additional text before or after):
{
    "tripOverview": "A comprehensive 2-3 paragraph overview of the entire trip",
    "trip_plan": {
        "overview": "Brief summary of the trip plan",
        "total_estimated_cost": estimated_total_cost_as_number,
        "steps": [
            {
                "day": 1,
                "title": "Day 1 title",
                "description": "Detailed description of day 1 activities",
                "transport": {
                    "mode": "transportation method",
                    "departure": "departure location",
                    "arrival": "arrival location",
                    "duration_minutes": estimated_duration_in_minutes,
                    "price": estimated_price,
                    "details": "additional transport details"
                },
                "map_coordinates": {"lat": latitude_number, "lon": longitude_number},
                "images": ["url1", "url2"],
                "tips": ["tip1", "tip2", "tip3"]
            }
        ]
    }
}

Create %d days of detailed activities. Include realistic prices, coordinates, and practical tips. Make it specific to the destinations and context provided.`

// BuildPlanPrompt renders the full instructional prompt for a defaulted
// request and the newline-joined context blob.
func BuildPlanPrompt(req domain.PlanRequest, contextText string) string {
	var reqBlock strings.Builder
	fmt.Fprintf(&reqBlock, "- From: %s\n", req.StartPlace)
	fmt.Fprintf(&reqBlock, "- To: %s\n", req.DestinationPlace)
	fmt.Fprintf(&reqBlock, "- Duration: %d days\n", req.TripDurationDays)
	fmt.Fprintf(&reqBlock, "- Budget: %s\n", budgetString(req.TripPrice))
	fmt.Fprintf(&reqBlock, "- Context: %s\n", req.TripContext)
	fmt.Fprintf(&reqBlock, "- Group Size: %d\n", req.GroupSize)
	fmt.Fprintf(&reqBlock, "- Preferences: %s", strings.Join(req.Preferences, ", "))

	return fmt.Sprintf(planPromptTemplate, reqBlock.String(), contextText, req.TripDurationDays)
}

func budgetString(price *float64) string {
	if price == nil {
		return "unspecified"
	}
	return formatNumber(*price)
}

// formatNumber renders a float without a trailing .0 for whole values.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
