package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/journey-scanner/internal/domain"
	"github.com/journey-scanner/internal/domain/repository"
)

type sessionRepository struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewSessionRepository stores journey sessions in Redis as two JSON values
// per journey, both refreshed to the same TTL on every write so an active
// journey never expires mid-trip.
func NewSessionRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) repository.SessionRepository {
	return &sessionRepository{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

func itineraryKey(journeyID string) string {
	return fmt.Sprintf("journey:%s:itinerary", journeyID)
}

func progressKey(journeyID string) string {
	return fmt.Sprintf("journey:%s:progress", journeyID)
}

func (r *sessionRepository) SaveItinerary(ctx context.Context, itinerary *domain.Itinerary) error {
	data, err := json.Marshal(itinerary)
	if err != nil {
		return fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	if err := r.client.Set(ctx, itineraryKey(itinerary.JourneyID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save itinerary",
			zap.String("journey_id", itinerary.JourneyID),
			zap.Error(err))
		return fmt.Errorf("failed to save itinerary: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetItinerary(ctx context.Context, journeyID string) (*domain.Itinerary, error) {
	data, err := r.client.Get(ctx, itineraryKey(journeyID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}

	var itinerary domain.Itinerary
	if err := json.Unmarshal(data, &itinerary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal itinerary: %w", err)
	}
	return &itinerary, nil
}

func (r *sessionRepository) SaveProgress(ctx context.Context, progress domain.Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := r.client.Set(ctx, progressKey(progress.JourneyID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save progress",
			zap.String("journey_id", progress.JourneyID),
			zap.Error(err))
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetProgress(ctx context.Context, journeyID string) (*domain.Progress, error) {
	data, err := r.client.Get(ctx, progressKey(journeyID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	var progress domain.Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	return &progress, nil
}

func (r *sessionRepository) DeleteJourney(ctx context.Context, journeyID string) error {
	if err := r.client.Del(ctx, itineraryKey(journeyID), progressKey(journeyID)).Err(); err != nil {
		return fmt.Errorf("failed to delete journey: %w", err)
	}
	return nil
}
