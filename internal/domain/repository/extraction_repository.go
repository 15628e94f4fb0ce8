package repository

import (
	"context"

	"github.com/journey-scanner/internal/domain"
)

// ExtractionRepository is the optional external service that turns raw
// journey text into a structured itinerary. One attempt, no retries: any
// error makes the builder fall back to manual parsing.
type ExtractionRepository interface {
	Extract(ctx context.Context, journeyText string) (*domain.ExtractionResult, error)
}
