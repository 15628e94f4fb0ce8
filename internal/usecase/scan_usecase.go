package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/journey-scanner/internal/domain"
	"github.com/journey-scanner/internal/domain/repository"
	"github.com/journey-scanner/internal/pkg/errors"
	"github.com/journey-scanner/internal/progression"
	"github.com/journey-scanner/internal/qr"
	"github.com/journey-scanner/internal/scan"
	"github.com/journey-scanner/internal/usecase/dto"
)

// ScanUseCase drives a journey through its scan flow: payment confirmation,
// QR issuance and scan submission. Completed journeys are published to the
// receipt stream when a stream repository is wired in.
type ScanUseCase struct {
	sessions repository.SessionRepository
	streams  repository.StreamRepository
	logger   *zap.Logger
}

func NewScanUseCase(
	sessions repository.SessionRepository,
	streams repository.StreamRepository,
	logger *zap.Logger,
) *ScanUseCase {
	return &ScanUseCase{
		sessions: sessions,
		streams:  streams,
		logger:   logger,
	}
}

// ConfirmPayment marks the journey as paid and unlocks scanning. Confirming
// twice is a no-op that returns success again.
func (uc *ScanUseCase) ConfirmPayment(ctx context.Context, journeyID string, req dto.PaymentRequest) (*dto.PaymentResponse, error) {
	itinerary, progress, err := uc.loadSession(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	if !progress.PaymentConfirmed {
		updated := progression.ConfirmPayment(*progress, itinerary)
		if err := uc.sessions.SaveProgress(ctx, updated); err != nil {
			uc.logger.Error("Failed to save progress after payment", zap.Error(err))
			return nil, errors.ErrStorageError
		}
		if err := uc.sessions.SaveItinerary(ctx, itinerary); err != nil {
			uc.logger.Error("Failed to save itinerary after payment", zap.Error(err))
			return nil, errors.ErrStorageError
		}
	}

	uc.logger.Info("Payment confirmed",
		zap.String("journey_id", journeyID),
		zap.String("method", req.PaymentMethod),
		zap.Float64("amount", req.Amount))

	return &dto.PaymentResponse{
		Success:       true,
		TransactionID: uuid.NewString(),
		Message:       fmt.Sprintf("Payment of %.2f AED confirmed", req.Amount),
	}, nil
}

// SubmitScan decodes the QR content and runs it through the progression
// machine. State is persisted only when the scan is accepted; on completion
// the fare summary is attached and a receipt is published.
func (uc *ScanUseCase) SubmitScan(ctx context.Context, journeyID string, req dto.ScanRequest) (*dto.ScanResponse, error) {
	itinerary, progress, err := uc.loadSession(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	payload, err := scan.Decode([]byte(req.QRData))
	if err != nil {
		uc.logger.Warn("Rejected malformed QR payload",
			zap.String("journey_id", journeyID), zap.Error(err))
		return nil, errors.ErrInvalidQRPayload
	}

	updated, result := progression.SubmitScan(*progress, itinerary, payload)

	response := &dto.ScanResponse{
		Result: result,
		State:  progress.State(len(itinerary.Legs)),
	}
	if !result.Accepted {
		uc.logger.Info("Scan rejected",
			zap.String("journey_id", journeyID),
			zap.String("reason", result.Reason))
		return response, nil
	}

	if err := uc.sessions.SaveProgress(ctx, updated); err != nil {
		uc.logger.Error("Failed to save progress after scan", zap.Error(err))
		return nil, errors.ErrStorageError
	}
	if err := uc.sessions.SaveItinerary(ctx, itinerary); err != nil {
		uc.logger.Error("Failed to save itinerary after scan", zap.Error(err))
		return nil, errors.ErrStorageError
	}

	response.State = updated.State(len(itinerary.Legs))
	if updated.Completed(len(itinerary.Legs)) {
		summary := progression.CompletionSummary(itinerary)
		response.Summary = &summary
		uc.publishReceipt(ctx, itinerary, summary)
	}

	uc.logger.Info("Scan accepted",
		zap.String("journey_id", journeyID),
		zap.String("action", result.Action),
		zap.Int("current_step", updated.CurrentStep))

	return response, nil
}

// NextQR renders the QR image for the next expected scan. Payment must be
// confirmed first; a completed journey returns the fare summary instead.
func (uc *ScanUseCase) NextQR(ctx context.Context, journeyID string) (*dto.QRResponse, error) {
	itinerary, progress, err := uc.loadSession(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if !progress.PaymentConfirmed {
		return nil, errors.ErrPaymentRequired
	}

	payload := progression.NextExpectedPayload(*progress, itinerary)
	if payload == nil {
		summary := progression.CompletionSummary(itinerary)
		return &dto.QRResponse{Completed: true, Summary: &summary}, nil
	}

	encoded, err := scan.Encode(*payload)
	if err != nil {
		uc.logger.Error("Failed to encode scan payload", zap.Error(err))
		return nil, errors.ErrInternalServer
	}
	png, err := qr.Render(encoded, qr.DefaultSize)
	if err != nil {
		uc.logger.Error("Failed to render QR code", zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	return &dto.QRResponse{
		QRCodeBase64:  base64.StdEncoding.EncodeToString(png),
		Payload:       payload,
		CurrentStep:   fareableStepNumber(itinerary, progress.CurrentStep),
		TotalSteps:    itinerary.FareableLegCount(),
		TransportInfo: transportInfo(itinerary.Legs[progress.CurrentStep], payload.Purpose),
	}, nil
}

// Summary returns the completion fare summary for a finished journey.
func (uc *ScanUseCase) Summary(ctx context.Context, journeyID string) (*domain.FareSummary, error) {
	itinerary, progress, err := uc.loadSession(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if !progress.Completed(len(itinerary.Legs)) {
		return nil, errors.ErrJourneyNotComplete
	}

	summary := progression.CompletionSummary(itinerary)
	return &summary, nil
}

func (uc *ScanUseCase) loadSession(ctx context.Context, journeyID string) (*domain.Itinerary, *domain.Progress, error) {
	itinerary, err := uc.sessions.GetItinerary(ctx, journeyID)
	if err != nil {
		uc.logger.Error("Failed to load itinerary", zap.String("journey_id", journeyID), zap.Error(err))
		return nil, nil, errors.ErrStorageError
	}
	if itinerary == nil {
		return nil, nil, errors.ErrJourneyNotFound
	}

	progress, err := uc.sessions.GetProgress(ctx, journeyID)
	if err != nil {
		uc.logger.Error("Failed to load progress", zap.String("journey_id", journeyID), zap.Error(err))
		return nil, nil, errors.ErrStorageError
	}
	if progress == nil {
		fresh := domain.NewProgress(journeyID)
		progress = &fresh
	}
	return itinerary, progress, nil
}

// publishReceipt sends the completed journey to the archive stream. Delivery
// is best effort: a publish failure is logged, never surfaced to the
// traveler whose journey just completed.
func (uc *ScanUseCase) publishReceipt(ctx context.Context, itinerary *domain.Itinerary, summary domain.FareSummary) {
	if uc.streams == nil {
		return
	}

	breakdown := make(map[string]int, len(summary.Breakdown))
	for mode, amount := range summary.Breakdown {
		breakdown[string(mode)] = amount
	}

	receipt := domain.Receipt{
		JourneyID:       itinerary.JourneyID,
		Title:           itinerary.Title,
		TotalFare:       summary.TotalFare,
		TotalDistanceKm: itinerary.TotalDistanceKm,
		Breakdown:       breakdown,
		CompletedAt:     time.Now().UTC(),
	}

	if err := uc.streams.PublishToStream(ctx, domain.StreamJourneyCompleted, receipt); err != nil {
		uc.logger.Error("Failed to publish receipt",
			zap.String("journey_id", itinerary.JourneyID), zap.Error(err))
		return
	}
	uc.logger.Info("Receipt published", zap.String("journey_id", itinerary.JourneyID))
}

// fareableStepNumber converts the leg cursor into a 1-based position among
// the scannable legs only, for display.
func fareableStepNumber(itinerary *domain.Itinerary, cursor int) int {
	n := 0
	for i := 0; i <= cursor && i < len(itinerary.Legs); i++ {
		if itinerary.Legs[i].Mode.Fareable() {
			n++
		}
	}
	return n
}

func transportInfo(leg domain.Leg, purpose domain.ScanPurpose) string {
	label := string(leg.Mode)
	if leg.LineID != "" {
		label = fmt.Sprintf("%s %s", label, leg.LineID)
	}
	return fmt.Sprintf("%s %s, %.1f km", label, purpose, leg.DistanceKm)
}
