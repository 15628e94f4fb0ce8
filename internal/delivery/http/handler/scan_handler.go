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

// ScanHandler serves the scan flow: payment, QR issuance and scan
// submission.
type ScanHandler struct {
	scanUC *usecase.ScanUseCase
	logger *zap.Logger
}

func NewScanHandler(scanUC *usecase.ScanUseCase, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		scanUC: scanUC,
		logger: logger,
	}
}

// ConfirmPayment unlocks scanning for the journey.
func (h *ScanHandler) ConfirmPayment(c *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidPayment)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidPayment.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	result, err := h.scanUC.ConfirmPayment(c.Context(), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// NextQR returns the QR image for the next expected scan.
func (h *ScanHandler) NextQR(c *fiber.Ctx) error {
	result, err := h.scanUC.NextQR(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// SubmitScan processes scanned QR content. Rejected scans are 200s with a
// reason code; only malformed payloads and storage failures are errors.
func (h *ScanHandler) SubmitScan(c *fiber.Ctx) error {
	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	result, err := h.scanUC.SubmitScan(c.Context(), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Summary returns the completion fare summary.
func (h *ScanHandler) Summary(c *fiber.Ctx) error {
	result, err := h.scanUC.Summary(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
