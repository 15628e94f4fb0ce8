package repository

import (
	"context"

	"github.com/journey-scanner/internal/domain"
)

// StreamRepository publishes and consumes journey events over Redis Streams.
type StreamRepository interface {
	// CreateConsumerGroup creates the consumer group for a stream, creating
	// the stream itself if needed. Safe to call when the group exists.
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeBatch reads up to count pending messages for the consumer
	ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error)

	// AckMessage acknowledges a processed message
	AckMessage(ctx context.Context, stream, group, messageID string) error

	// PublishToStream serializes data as JSON and appends it to the stream
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
