package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/journey-scanner/internal/domain"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) SaveItinerary(ctx context.Context, itinerary *domain.Itinerary) error {
	args := m.Called(ctx, itinerary)
	return args.Error(0)
}

func (m *MockSessionRepository) GetItinerary(ctx context.Context, journeyID string) (*domain.Itinerary, error) {
	args := m.Called(ctx, journeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Itinerary), args.Error(1)
}

func (m *MockSessionRepository) SaveProgress(ctx context.Context, progress domain.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockSessionRepository) GetProgress(ctx context.Context, journeyID string) (*domain.Progress, error) {
	args := m.Called(ctx, journeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Progress), args.Error(1)
}

func (m *MockSessionRepository) DeleteJourney(ctx context.Context, journeyID string) error {
	args := m.Called(ctx, journeyID)
	return args.Error(0)
}

type MockExtractionRepository struct {
	mock.Mock
}

func (m *MockExtractionRepository) Extract(ctx context.Context, journeyText string) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, journeyText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}

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
