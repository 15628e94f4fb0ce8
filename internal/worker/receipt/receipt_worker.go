package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/journey-scanner/internal/domain"
	"github.com/journey-scanner/internal/domain/repository"
	"github.com/journey-scanner/internal/worker"
)

// ReceiptWorker archives completed journeys: it consumes the completed
// stream in batches and upserts each receipt into Postgres. Malformed
// messages are acknowledged too; replaying them would never succeed.
type ReceiptWorker struct {
	*worker.BaseWorker
	streams    repository.StreamRepository
	receipts   repository.ReceiptRepository
	consumer   string
	batchSize  int
	maxRetries int
}

func NewReceiptWorker(
	streams repository.StreamRepository,
	receipts repository.ReceiptRepository,
	consumerGroup string,
	batchSize int,
	maxRetries int,
	logger *zap.Logger,
) *ReceiptWorker {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "receipt-worker"
	}

	return &ReceiptWorker{
		BaseWorker: worker.NewBaseWorker("receipt-worker", consumerGroup, logger),
		streams:    streams,
		receipts:   receipts,
		consumer:   hostname,
		batchSize:  batchSize,
		maxRetries: maxRetries,
	}
}

// Start creates the consumer group and loops over batches until stopped.
func (w *ReceiptWorker) Start(ctx context.Context) error {
	if err := w.streams.CreateConsumerGroup(ctx, domain.StreamJourneyCompleted, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.Logger().Info("Receipt worker started",
		zap.String("stream", domain.StreamJourneyCompleted),
		zap.String("group", w.ConsumerGroup()),
		zap.String("consumer", w.consumer))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.StopChan():
			return nil
		default:
		}

		messages, err := w.streams.ConsumeBatch(ctx,
			domain.StreamJourneyCompleted, w.ConsumerGroup(), w.consumer, w.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.Logger().Error("Failed to consume batch", zap.Error(err))
			continue
		}
		if len(messages) == 0 {
			continue
		}

		w.ProcessBatch(ctx, messages)
	}
}

// ProcessBatch saves each receipt and acknowledges the message. Save
// failures are retried a few times; the message stays pending when all
// retries fail, so another consumer can pick it up.
func (w *ReceiptWorker) ProcessBatch(ctx context.Context, messages []domain.StreamMessage) {
	for _, msg := range messages {
		var receipt domain.Receipt
		if err := json.Unmarshal([]byte(msg.Data), &receipt); err != nil {
			w.Logger().Warn("Discarding malformed receipt message",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			w.ack(ctx, msg.ID)
			continue
		}

		if err := w.saveWithRetry(ctx, &receipt); err != nil {
			w.Logger().Error("Failed to archive receipt, leaving message pending",
				zap.String("message_id", msg.ID),
				zap.String("journey_id", receipt.JourneyID),
				zap.Error(err))
			continue
		}

		w.Logger().Info("Receipt archived",
			zap.String("journey_id", receipt.JourneyID),
			zap.Int("total_fare", receipt.TotalFare))
		w.ack(ctx, msg.ID)
	}
}

func (w *ReceiptWorker) saveWithRetry(ctx context.Context, receipt *domain.Receipt) error {
	var err error
	for attempt := 0; attempt < w.maxRetries; attempt++ {
		if err = w.receipts.Save(ctx, receipt); err == nil {
			return nil
		}
	}
	return err
}

func (w *ReceiptWorker) ack(ctx context.Context, messageID string) {
	if err := w.streams.AckMessage(ctx, domain.StreamJourneyCompleted, w.ConsumerGroup(), messageID); err != nil {
		w.Logger().Error("Failed to ack message",
			zap.String("message_id", messageID),
			zap.Error(err))
	}
}
