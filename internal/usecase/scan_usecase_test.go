package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/journey-scanner/internal/domain"
	"github.com/journey-scanner/internal/pkg/errors"
	"github.com/journey-scanner/internal/scan"
	"github.com/journey-scanner/internal/usecase"
	"github.com/journey-scanner/internal/usecase/dto"
)

func scanItinerary() *domain.Itinerary {
	return &domain.Itinerary{
		JourneyID: "j-1",
		Title:     "Marina to Gold Souq",
		Legs: []domain.Leg{
			{Mode: domain.ModeTaxi, DistanceKm: 4.2, FareAED: 34},
			{Mode: domain.ModeTransfer, DistanceKm: 0.1},
			{Mode: domain.ModeMetro, LineID: "MRed1", DistanceKm: 15.8, FareAED: 11},
		},
		TotalFare:       45,
		TotalDistanceKm: 20.1,
	}
}

func qrData(t *testing.T, payload domain.ScanPayload) string {
	t.Helper()
	raw, err := scan.Encode(payload)
	require.NoError(t, err)
	return string(raw)
}

func sessionWith(ctx context.Context, it *domain.Itinerary, p domain.Progress) *MockSessionRepository {
	sessions := &MockSessionRepository{}
	sessions.On("GetItinerary", ctx, it.JourneyID).Return(it, nil)
	sessions.On("GetProgress", ctx, it.JourneyID).Return(&p, nil)
	return sessions
}

func TestScanUseCase_ConfirmPayment(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("confirms and skips leading transfers", func(t *testing.T) {
		it := &domain.Itinerary{
			JourneyID: "j-1",
			Legs: []domain.Leg{
				{Mode: domain.ModeTransfer},
				{Mode: domain.ModeTaxi, FareAED: 12},
			},
		}
		sessions := sessionWith(ctx, it, domain.NewProgress("j-1"))
		sessions.On("SaveProgress", ctx, mock.MatchedBy(func(p domain.Progress) bool {
			return p.PaymentConfirmed && p.CurrentStep == 1
		})).Return(nil)
		sessions.On("SaveItinerary", ctx, it).Return(nil)

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		resp, err := uc.ConfirmPayment(ctx, "j-1", dto.PaymentRequest{PaymentMethod: "card", Amount: 45})
		require.NoError(t, err)

		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.TransactionID)
		sessions.AssertExpectations(t)
	})

	t.Run("second confirmation is a no-op", func(t *testing.T) {
		it := scanItinerary()
		sessions := sessionWith(ctx, it, domain.Progress{JourneyID: "j-1", PaymentConfirmed: true})

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		resp, err := uc.ConfirmPayment(ctx, "j-1", dto.PaymentRequest{PaymentMethod: "card", Amount: 45})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		sessions.AssertNotCalled(t, "SaveProgress", mock.Anything, mock.Anything)
	})

	t.Run("unknown journey", func(t *testing.T) {
		sessions := &MockSessionRepository{}
		sessions.On("GetItinerary", ctx, "missing").Return(nil, nil)

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		_, err := uc.ConfirmPayment(ctx, "missing", dto.PaymentRequest{PaymentMethod: "card", Amount: 1})
		assert.Equal(t, errors.ErrJourneyNotFound, err)
	})
}

func TestScanUseCase_SubmitScan(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("malformed QR data", func(t *testing.T) {
		it := scanItinerary()
		sessions := sessionWith(ctx, it, domain.Progress{JourneyID: "j-1", PaymentConfirmed: true})

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		_, err := uc.SubmitScan(ctx, "j-1", dto.ScanRequest{QRData: "not json"})
		assert.Equal(t, errors.ErrInvalidQRPayload, err)
	})

	t.Run("rejected scan persists nothing", func(t *testing.T) {
		it := scanItinerary()
		sessions := sessionWith(ctx, it, domain.NewProgress("j-1"))

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		resp, err := uc.SubmitScan(ctx, "j-1", dto.ScanRequest{
			QRData: qrData(t, domain.ScanPayload{
				JourneyID: "j-1", Step: 0, Mode: domain.ModeTaxi, Purpose: domain.PurposeExit,
			}),
		})
		require.NoError(t, err)

		assert.False(t, resp.Result.Accepted)
		assert.Equal(t, domain.ReasonPaymentRequired, resp.Result.Reason)
		sessions.AssertNotCalled(t, "SaveProgress", mock.Anything, mock.Anything)
	})

	t.Run("accepted scan advances and persists", func(t *testing.T) {
		it := scanItinerary()
		sessions := sessionWith(ctx, it, domain.Progress{JourneyID: "j-1", PaymentConfirmed: true})
		sessions.On("SaveProgress", ctx, mock.MatchedBy(func(p domain.Progress) bool {
			return p.CurrentStep == 2
		})).Return(nil)
		sessions.On("SaveItinerary", ctx, it).Return(nil)

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		resp, err := uc.SubmitScan(ctx, "j-1", dto.ScanRequest{
			QRData: qrData(t, domain.ScanPayload{
				JourneyID: "j-1", Step: 0, Mode: domain.ModeTaxi, Purpose: domain.PurposeExit,
			}),
		})
		require.NoError(t, err)

		assert.True(t, resp.Result.Accepted)
		assert.Equal(t, "exit_taxi", resp.Result.Action)
		assert.Equal(t, domain.StateInProgress, resp.State)
		assert.Nil(t, resp.Summary)
		sessions.AssertExpectations(t)
	})

	t.Run("completion publishes a receipt and attaches the summary", func(t *testing.T) {
		it := scanItinerary()
		sessions := sessionWith(ctx, it, domain.Progress{
			JourneyID: "j-1", CurrentStep: 2, PaymentConfirmed: true, AwaitingExit: true,
		})
		sessions.On("SaveProgress", ctx, mock.Anything).Return(nil)
		sessions.On("SaveItinerary", ctx, it).Return(nil)

		streams := &MockStreamRepository{}
		streams.On("PublishToStream", ctx, domain.StreamJourneyCompleted,
			mock.MatchedBy(func(r domain.Receipt) bool {
				return r.JourneyID == "j-1" && r.TotalFare == 45
			})).Return(nil)

		uc := usecase.NewScanUseCase(sessions, streams, logger)
		resp, err := uc.SubmitScan(ctx, "j-1", dto.ScanRequest{
			QRData: qrData(t, domain.ScanPayload{
				JourneyID: "j-1", Step: 2, Mode: domain.ModeMetro, Purpose: domain.PurposeExit,
			}),
		})
		require.NoError(t, err)

		assert.True(t, resp.Result.Accepted)
		assert.Equal(t, domain.StateComplete, resp.State)
		require.NotNil(t, resp.Summary)
		assert.Equal(t, 45, resp.Summary.TotalFare)
		streams.AssertExpectations(t)
	})
}

func TestScanUseCase_NextQR(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("payment required first", func(t *testing.T) {
		it := scanItinerary()
		sessions := sessionWith(ctx, it, domain.NewProgress("j-1"))

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		_, err := uc.NextQR(ctx, "j-1")
		assert.Equal(t, errors.ErrPaymentRequired, err)
	})

	t.Run("renders the QR for the current leg", func(t *testing.T) {
		it := scanItinerary()
		sessions := sessionWith(ctx, it, domain.Progress{JourneyID: "j-1", PaymentConfirmed: true})

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		resp, err := uc.NextQR(ctx, "j-1")
		require.NoError(t, err)

		assert.False(t, resp.Completed)
		assert.NotEmpty(t, resp.QRCodeBase64)
		require.NotNil(t, resp.Payload)
		assert.Equal(t, domain.ModeTaxi, resp.Payload.Mode)
		assert.Equal(t, domain.PurposeExit, resp.Payload.Purpose)
		assert.Equal(t, 1, resp.CurrentStep)
		assert.Equal(t, 2, resp.TotalSteps)
	})

	t.Run("complete journey returns the summary", func(t *testing.T) {
		it := scanItinerary()
		sessions := sessionWith(ctx, it, domain.Progress{
			JourneyID: "j-1", CurrentStep: 3, PaymentConfirmed: true,
		})

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		resp, err := uc.NextQR(ctx, "j-1")
		require.NoError(t, err)

		assert.True(t, resp.Completed)
		assert.Empty(t, resp.QRCodeBase64)
		require.NotNil(t, resp.Summary)
		assert.Equal(t, 45, resp.Summary.TotalFare)
	})
}

func TestScanUseCase_Summary(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("not complete", func(t *testing.T) {
		it := scanItinerary()
		sessions := sessionWith(ctx, it, domain.Progress{JourneyID: "j-1", PaymentConfirmed: true})

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		_, err := uc.Summary(ctx, "j-1")
		assert.Equal(t, errors.ErrJourneyNotComplete, err)
	})

	t.Run("complete", func(t *testing.T) {
		it := scanItinerary()
		sessions := sessionWith(ctx, it, domain.Progress{
			JourneyID: "j-1", CurrentStep: 3, PaymentConfirmed: true,
		})

		uc := usecase.NewScanUseCase(sessions, nil, logger)
		summary, err := uc.Summary(ctx, "j-1")
		require.NoError(t, err)
		assert.Equal(t, 45, summary.TotalFare)
		assert.Equal(t, map[domain.Mode]int{
			domain.ModeTaxi:  34,
			domain.ModeMetro: 11,
		}, summary.Breakdown)
	})
}

func TestScanUseCase_FullSampleWalkthrough(t *testing.T) {
	// drive the sample 3-leg journey end to end through the use case with
	// an in-memory session store
	ctx := context.Background()
	logger := zap.NewNop()

	it := scanItinerary()
	store := &memorySessions{itineraries: map[string]*domain.Itinerary{}, progress: map[string]domain.Progress{}}
	store.itineraries["j-1"] = it
	store.progress["j-1"] = domain.NewProgress("j-1")

	uc := usecase.NewScanUseCase(store, nil, logger)

	_, err := uc.ConfirmPayment(ctx, "j-1", dto.PaymentRequest{PaymentMethod: "card", Amount: 45})
	require.NoError(t, err)

	for {
		qrResp, err := uc.NextQR(ctx, "j-1")
		require.NoError(t, err)
		if qrResp.Completed {
			break
		}

		scanResp, err := uc.SubmitScan(ctx, "j-1", dto.ScanRequest{QRData: qrData(t, *qrResp.Payload)})
		require.NoError(t, err)
		require.True(t, scanResp.Result.Accepted, scanResp.Result.Message)
	}

	summary, err := uc.Summary(ctx, "j-1")
	require.NoError(t, err)
	assert.Equal(t, 45, summary.TotalFare)
}

// memorySessions is a minimal in-memory SessionRepository for walkthrough tests.
type memorySessions struct {
	itineraries map[string]*domain.Itinerary
	progress    map[string]domain.Progress
}

func (m *memorySessions) SaveItinerary(_ context.Context, it *domain.Itinerary) error {
	m.itineraries[it.JourneyID] = it
	return nil
}

func (m *memorySessions) GetItinerary(_ context.Context, journeyID string) (*domain.Itinerary, error) {
	return m.itineraries[journeyID], nil
}

func (m *memorySessions) SaveProgress(_ context.Context, p domain.Progress) error {
	m.progress[p.JourneyID] = p
	return nil
}

func (m *memorySessions) GetProgress(_ context.Context, journeyID string) (*domain.Progress, error) {
	p, ok := m.progress[journeyID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memorySessions) DeleteJourney(_ context.Context, journeyID string) error {
	delete(m.itineraries, journeyID)
	delete(m.progress, journeyID)
	return nil
}
