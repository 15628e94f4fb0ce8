package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/journey-scanner/internal/domain"
	"github.com/journey-scanner/internal/domain/repository"
	"github.com/journey-scanner/internal/fare"
	"github.com/journey-scanner/internal/parser"
	"github.com/journey-scanner/internal/pkg/errors"
	"github.com/journey-scanner/internal/usecase/dto"
)

// JourneyUseCase builds priced itineraries and manages journey sessions.
// The extraction repository is optional: when it is nil or fails, the text
// parser provides the itinerary instead, so journey creation never fails on
// a bad upstream response.
type JourneyUseCase struct {
	sessions   repository.SessionRepository
	extraction repository.ExtractionRepository
	parser     *parser.Parser
	engine     *fare.Engine
	logger     *zap.Logger
	newID      func() string
}

func NewJourneyUseCase(
	sessions repository.SessionRepository,
	extraction repository.ExtractionRepository,
	textParser *parser.Parser,
	engine *fare.Engine,
	logger *zap.Logger,
) *JourneyUseCase {
	return &JourneyUseCase{
		sessions:   sessions,
		extraction: extraction,
		parser:     textParser,
		engine:     engine,
		logger:     logger,
		newID:      uuid.NewString,
	}
}

// WithIDGenerator overrides journey ID generation, used by tests to get
// deterministic itineraries.
func (uc *JourneyUseCase) WithIDGenerator(newID func() string) *JourneyUseCase {
	uc.newID = newID
	return uc
}

// CreateJourney builds an itinerary from the request, stores it together
// with a fresh progress record, and returns the initial status. An empty
// journey text falls back to the built-in sample journey.
func (uc *JourneyUseCase) CreateJourney(ctx context.Context, req dto.CreateJourneyRequest) (*dto.StatusResponse, error) {
	text := req.JourneyText
	title := req.Title
	if text == "" {
		text = domain.SampleJourneyText
		if title == "" {
			title = domain.SampleJourneyTitle
		}
	}

	itinerary := uc.buildItinerary(ctx, title, req.Description, text)

	if err := uc.sessions.SaveItinerary(ctx, itinerary); err != nil {
		uc.logger.Error("Failed to save itinerary", zap.Error(err))
		return nil, errors.ErrStorageError
	}
	if err := uc.sessions.SaveProgress(ctx, domain.NewProgress(itinerary.JourneyID)); err != nil {
		uc.logger.Error("Failed to save progress", zap.Error(err))
		return nil, errors.ErrStorageError
	}

	uc.logger.Info("Journey created",
		zap.String("journey_id", itinerary.JourneyID),
		zap.Int("legs", len(itinerary.Legs)),
		zap.Int("total_fare", itinerary.TotalFare))

	return statusOf(itinerary, domain.NewProgress(itinerary.JourneyID)), nil
}

// buildItinerary tries structured extraction first and falls back to the
// text parser on any failure.
func (uc *JourneyUseCase) buildItinerary(ctx context.Context, title, description, text string) *domain.Itinerary {
	if uc.extraction != nil {
		result, err := uc.extraction.Extract(ctx, text)
		if err == nil {
			if itinerary, ok := uc.BuildFromExtraction(title, description, result); ok {
				return itinerary
			}
			uc.logger.Warn("Extraction result rejected, falling back to text parsing")
		} else {
			uc.logger.Warn("Extraction failed, falling back to text parsing", zap.Error(err))
		}
	}
	return uc.BuildFromText(title, description, text)
}

// BuildFromText parses the journey text and prices each leg. It never
// fails: unparseable text yields an itinerary with no legs and a zero fare.
func (uc *JourneyUseCase) BuildFromText(title, description, text string) *domain.Itinerary {
	legs := uc.parser.Parse(text)

	itinerary := &domain.Itinerary{
		JourneyID:   uc.newID(),
		Title:       title,
		Description: description,
		Legs:        legs,
	}
	uc.priceLegs(itinerary)
	return itinerary
}

// BuildFromExtraction converts an extraction result into an itinerary.
// Modes are normalized onto the closed set and fares are re-rounded, never
// trusted as-is; the result's own totals are ignored and recomputed from the
// legs. Any invalid mode or negative number rejects the whole result.
func (uc *JourneyUseCase) BuildFromExtraction(title, description string, result *domain.ExtractionResult) (*domain.Itinerary, bool) {
	if result == nil || len(result.JourneySteps) == 0 {
		return nil, false
	}

	legs := make([]domain.Leg, 0, len(result.JourneySteps))
	for _, step := range result.JourneySteps {
		mode, ok := domain.NormalizeMode(step.Mode)
		if !ok {
			uc.logger.Warn("Extraction step has unknown mode", zap.String("mode", step.Mode))
			return nil, false
		}
		if step.DistanceKm < 0 || step.FareAED < 0 {
			uc.logger.Warn("Extraction step has negative values",
				zap.Float64("distance_km", step.DistanceKm),
				zap.Float64("fare_aed", step.FareAED))
			return nil, false
		}

		legFare := fare.RoundHalfUp(step.FareAED)
		if !mode.Fareable() {
			legFare = 0
		}

		legs = append(legs, domain.Leg{
			Mode:       mode,
			LineID:     step.LineNumber,
			DistanceKm: step.DistanceKm,
			Stops:      step.Stops,
			FareAED:    legFare,
		})
	}

	itinerary := &domain.Itinerary{
		JourneyID:   uc.newID(),
		Title:       title,
		Description: description,
		Legs:        legs,
	}
	sumTotals(itinerary)
	return itinerary, true
}

// GetStatus loads the session state for a journey.
func (uc *JourneyUseCase) GetStatus(ctx context.Context, journeyID string) (*dto.StatusResponse, error) {
	itinerary, progress, err := uc.loadSession(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	return statusOf(itinerary, *progress), nil
}

func (uc *JourneyUseCase) loadSession(ctx context.Context, journeyID string) (*domain.Itinerary, *domain.Progress, error) {
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

// priceLegs assigns per-leg fares from the engine and recomputes totals.
func (uc *JourneyUseCase) priceLegs(itinerary *domain.Itinerary) {
	for i := range itinerary.Legs {
		itinerary.Legs[i].FareAED = uc.engine.Price(itinerary.Legs[i].Mode, itinerary.Legs[i].DistanceKm)
	}
	sumTotals(itinerary)
}

// sumTotals derives the itinerary totals from its legs. The total fare is
// the sum of the already-rounded leg fares, not a rounding of the raw sum.
func sumTotals(itinerary *domain.Itinerary) {
	itinerary.TotalFare = 0
	itinerary.TotalDistanceKm = 0
	for _, leg := range itinerary.Legs {
		itinerary.TotalFare += leg.FareAED
		itinerary.TotalDistanceKm += leg.DistanceKm
	}
}

func statusOf(itinerary *domain.Itinerary, progress domain.Progress) *dto.StatusResponse {
	return &dto.StatusResponse{
		Journey:     itinerary,
		State:       progress.State(len(itinerary.Legs)),
		CurrentStep: progress.CurrentStep,
		TotalSteps:  len(itinerary.Legs),
		Paid:        progress.PaymentConfirmed,
	}
}
