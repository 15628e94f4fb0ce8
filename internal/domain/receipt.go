package domain

import "time"

// StreamJourneyCompleted is the Redis stream completed journeys are published to.
const StreamJourneyCompleted = "journeys:completed"

// FareSummary is the actual-fare summary computed at completion time from the
// itinerary's leg fares, independently of the build-time total.
type FareSummary struct {
	TotalFare int          `json:"total_fare"`
	Breakdown map[Mode]int `json:"breakdown"`
}

// Receipt is the durable record of a completed journey, archived by the
// receipt worker.
type Receipt struct {
	JourneyID       string         `json:"journey_id" db:"journey_id"`
	Title           string         `json:"title" db:"title"`
	TotalFare       int            `json:"total_fare" db:"total_fare"`
	TotalDistanceKm float64        `json:"total_distance" db:"total_distance_km"`
	Breakdown       map[string]int `json:"breakdown" db:"-"`
	CompletedAt     time.Time      `json:"completed_at" db:"completed_at"`
}

// StreamMessage is one raw entry read from a Redis stream.
type StreamMessage struct {
	ID   string
	Data string
}
