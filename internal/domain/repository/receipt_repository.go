package repository

import (
	"context"

	"github.com/journey-scanner/internal/domain"
)

// ReceiptRepository archives completed-journey fare summaries.
type ReceiptRepository interface {
	// Save upserts a receipt keyed by journey ID
	Save(ctx context.Context, receipt *domain.Receipt) error

	// GetByJourneyID loads a receipt; returns (nil, nil) when unknown
	GetByJourneyID(ctx context.Context, journeyID string) (*domain.Receipt, error)
}
