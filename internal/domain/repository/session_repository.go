package repository

import (
	"context"

	"github.com/journey-scanner/internal/domain"
)

// SessionRepository persists one Itinerary plus one Progress per journey,
// keyed by journey ID. The core treats it as opaque key-value storage with
// single-writer access per journey; no transactional guarantees are assumed.
type SessionRepository interface {
	// SaveItinerary stores the itinerary under its journey ID
	SaveItinerary(ctx context.Context, itinerary *domain.Itinerary) error

	// GetItinerary loads an itinerary; returns (nil, nil) when unknown
	GetItinerary(ctx context.Context, journeyID string) (*domain.Itinerary, error)

	// SaveProgress stores the progress record for a journey
	SaveProgress(ctx context.Context, progress domain.Progress) error

	// GetProgress loads a progress record; returns (nil, nil) when unknown
	GetProgress(ctx context.Context, journeyID string) (*domain.Progress, error)

	// DeleteJourney discards both records for a journey
	DeleteJourney(ctx context.Context, journeyID string) error
}
