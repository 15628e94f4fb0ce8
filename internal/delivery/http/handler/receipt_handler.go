package handler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"

	"github.com/journey-scanner/internal/domain"
	"github.com/journey-scanner/internal/domain/repository"
	"github.com/journey-scanner/internal/pkg/errors"
	"github.com/journey-scanner/internal/pkg/utils"
	"github.com/journey-scanner/internal/qr"
	"github.com/journey-scanner/internal/usecase"
)

// ReceiptHandler serves printable receipts for completed journeys and
// lookups against the receipt archive.
type ReceiptHandler struct {
	journeyUC *usecase.JourneyUseCase
	scanUC    *usecase.ScanUseCase
	receipts  repository.ReceiptRepository
	logger    *zap.Logger
}

func NewReceiptHandler(
	journeyUC *usecase.JourneyUseCase,
	scanUC *usecase.ScanUseCase,
	receipts repository.ReceiptRepository,
	logger *zap.Logger,
) *ReceiptHandler {
	return &ReceiptHandler{
		journeyUC: journeyUC,
		scanUC:    scanUC,
		receipts:  receipts,
		logger:    logger,
	}
}

// PrintReceipt renders a PDF receipt for a completed journey. The embedded
// QR carries the journey ID so the receipt can be looked up later.
func (h *ReceiptHandler) PrintReceipt(c *fiber.Ctx) error {
	journeyID := c.Params("id")

	status, err := h.journeyUC.GetStatus(c.Context(), journeyID)
	if err != nil {
		return utils.SendError(c, err)
	}

	summary, err := h.scanUC.Summary(c.Context(), journeyID)
	if err != nil {
		return utils.SendError(c, err)
	}

	pdfBytes, err := h.renderPDF(status.Journey, summary)
	if err != nil {
		h.logger.Error("Failed to render receipt PDF",
			zap.String("journey_id", journeyID), zap.Error(err))
		return utils.SendError(c, errors.ErrInternalServer)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", "attachment; filename=receipt-"+journeyID+".pdf")
	return c.Send(pdfBytes)
}

// GetArchivedReceipt looks up a receipt in the Postgres archive.
func (h *ReceiptHandler) GetArchivedReceipt(c *fiber.Ctx) error {
	if h.receipts == nil {
		return utils.SendError(c, errors.ErrReceiptNotFound)
	}

	journeyID := c.Params("id")
	receipt, err := h.receipts.GetByJourneyID(c.Context(), journeyID)
	if err != nil {
		h.logger.Error("Failed to load archived receipt",
			zap.String("journey_id", journeyID), zap.Error(err))
		return utils.SendError(c, errors.ErrStorageError)
	}
	if receipt == nil {
		return utils.SendError(c, errors.ErrReceiptNotFound)
	}

	return utils.SendSuccess(c, receipt, nil)
}

func (h *ReceiptHandler) renderPDF(itinerary *domain.Itinerary, summary *domain.FareSummary) ([]byte, error) {
	qrPNG, err := qr.Render([]byte(itinerary.JourneyID), 256)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Journey Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	title := itinerary.Title
	if title == "" {
		title = itinerary.JourneyID
	}
	pdf.Cell(0, 10, fmt.Sprintf("Journey: %s", title))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Total distance: %.1f km", itinerary.TotalDistanceKm))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, "Legs")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for i, leg := range itinerary.Legs {
		label := string(leg.Mode)
		if leg.LineID != "" {
			label = fmt.Sprintf("%s %s", label, leg.LineID)
		}
		pdf.Cell(0, 8, fmt.Sprintf("%d. %s - %.1f km - %d AED", i+1, label, leg.DistanceKm, leg.FareAED))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %d AED", summary.TotalFare))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
