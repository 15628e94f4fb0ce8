package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/journey-scanner/internal/pkg/errors"
	"github.com/journey-scanner/internal/pkg/utils"
	"github.com/journey-scanner/internal/pkg/validator"
	"github.com/journey-scanner/internal/usecase"
	"github.com/journey-scanner/internal/usecase/dto"
)

// JourneyHandler serves journey creation and status lookups.
type JourneyHandler struct {
	journeyUC *usecase.JourneyUseCase
	logger    *zap.Logger
}

func NewJourneyHandler(journeyUC *usecase.JourneyUseCase, logger *zap.Logger) *JourneyHandler {
	return &JourneyHandler{
		journeyUC: journeyUC,
		logger:    logger,
	}
}

// CreateJourney builds a journey from the posted text. An empty body is
// valid and yields the sample journey.
func (h *JourneyHandler) CreateJourney(c *fiber.Ctx) error {
	var req dto.CreateJourneyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	result, err := h.journeyUC.CreateJourney(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse{Data: result})
}

// GetStatus returns the itinerary and progress for a journey.
func (h *JourneyHandler) GetStatus(c *fiber.Ctx) error {
	journeyID := c.Params("id")

	result, err := h.journeyUC.GetStatus(c.Context(), journeyID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
