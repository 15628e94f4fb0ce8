package domain

// ExtractionResult is the structured itinerary shape returned by the external
// extraction service. Its numbers are untrusted: the builder re-validates
// every mode and re-rounds every fare before anything reaches a session.
type ExtractionResult struct {
	JourneySteps  []ExtractionStep `json:"journey_steps"`
	TotalFare     float64          `json:"total_fare"`
	TotalDistance float64          `json:"total_distance"`
}

// ExtractionStep mirrors one leg in the external payload.
type ExtractionStep struct {
	StepNumber  int      `json:"step_number"`
	Mode        string   `json:"mode"`
	LineNumber  string   `json:"line_number,omitempty"`
	DistanceKm  float64  `json:"distance_km"`
	DurationMin float64  `json:"duration_min,omitempty"`
	Stops       []string `json:"stops"`
	FareAED     float64  `json:"fare_aed"`
}
