package ai

// OptimizeRequest describes a driver's multi-stop run to be ordered.
type OptimizeRequest struct {
	// CurrentLocation is a street address or "lat,lng" pair.
	CurrentLocation string `json:"current_location"`
	// Destinations are the pickup and delivery addresses to visit.
	Destinations []string `json:"destinations"`
	// TrafficConditions is an optional free-form traffic report.
	TrafficConditions string `json:"traffic_conditions,omitempty"`
	// RoadClosures lists roads currently closed, if known.
	RoadClosures []string `json:"road_closures,omitempty"`
}

// RouteSuggestion is the model's ordering of the requested stops.
type RouteSuggestion struct {
	// OptimizedRoute is the destinations reordered for the shortest run.
	OptimizedRoute []string `json:"optimized_route"`
	// EstimatedTravelTime is a human-readable total, e.g. "1 hour 20 minutes".
	EstimatedTravelTime string `json:"estimated_travel_time"`
	// Instructions are step-by-step driving directions.
	Instructions string `json:"instructions"`
}
