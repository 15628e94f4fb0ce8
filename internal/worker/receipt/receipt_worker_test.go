package receipt_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/journey-scanner/internal/domain"
	"github.com/journey-scanner/internal/worker/receipt"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Save(ctx context.Context, r *domain.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptRepository) GetByJourneyID(ctx context.Context, journeyID string) (*domain.Receipt, error) {
	args := m.Called(ctx, journeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func receiptMessage(t *testing.T, id string, r domain.Receipt) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(r)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func TestReceiptWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	sample := domain.Receipt{
		JourneyID:       "j-1",
		Title:           "Marina to Gold Souq",
		TotalFare:       45,
		TotalDistanceKm: 20.1,
		Breakdown:       map[string]int{"taxi": 34, "metro": 11},
		CompletedAt:     time.Now().UTC(),
	}

	t.Run("saves and acks each receipt", func(t *testing.T) {
		streams := &MockStreamRepository{}
		receipts := &MockReceiptRepository{}

		receipts.On("Save", ctx, mock.MatchedBy(func(r *domain.Receipt) bool {
			return r.JourneyID == "j-1" && r.TotalFare == 45
		})).Return(nil)
		streams.On("AckMessage", ctx, domain.StreamJourneyCompleted, "group", "1-0").Return(nil)

		w := receipt.NewReceiptWorker(streams, receipts, "group", 10, 3, logger)
		w.ProcessBatch(ctx, []domain.StreamMessage{receiptMessage(t, "1-0", sample)})

		receipts.AssertExpectations(t)
		streams.AssertExpectations(t)
	})

	t.Run("malformed message is acked and discarded", func(t *testing.T) {
		streams := &MockStreamRepository{}
		receipts := &MockReceiptRepository{}

		streams.On("AckMessage", ctx, domain.StreamJourneyCompleted, "group", "2-0").Return(nil)

		w := receipt.NewReceiptWorker(streams, receipts, "group", 10, 3, logger)
		w.ProcessBatch(ctx, []domain.StreamMessage{{ID: "2-0", Data: "not json"}})

		receipts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		streams.AssertExpectations(t)
	})

	t.Run("save failure leaves the message pending", func(t *testing.T) {
		streams := &MockStreamRepository{}
		receipts := &MockReceiptRepository{}

		receipts.On("Save", ctx, mock.Anything).Return(errors.New("db down")).Times(3)

		w := receipt.NewReceiptWorker(streams, receipts, "group", 10, 3, logger)
		w.ProcessBatch(ctx, []domain.StreamMessage{receiptMessage(t, "3-0", sample)})

		receipts.AssertExpectations(t)
		streams.AssertNotCalled(t, "AckMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("save succeeds on retry", func(t *testing.T) {
		streams := &MockStreamRepository{}
		receipts := &MockReceiptRepository{}

		receipts.On("Save", ctx, mock.Anything).Return(errors.New("timeout")).Once()
		receipts.On("Save", ctx, mock.Anything).Return(nil).Once()
		streams.On("AckMessage", ctx, domain.StreamJourneyCompleted, "group", "4-0").Return(nil)

		w := receipt.NewReceiptWorker(streams, receipts, "group", 10, 3, logger)
		w.ProcessBatch(ctx, []domain.StreamMessage{receiptMessage(t, "4-0", sample)})

		receipts.AssertExpectations(t)
		streams.AssertExpectations(t)
	})
}

func TestReceiptWorker_StartStopsOnCancel(t *testing.T) {
	logger := zap.NewNop()
	streams := &MockStreamRepository{}
	receipts := &MockReceiptRepository{}

	streams.On("CreateConsumerGroup", mock.Anything, domain.StreamJourneyCompleted, "group").Return(nil)
	streams.On("ConsumeBatch", mock.Anything, domain.StreamJourneyCompleted, "group", mock.Anything, 10).
		Return(nil, nil).Maybe()

	w := receipt.NewReceiptWorker(streams, receipts, "group", 10, 3, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
