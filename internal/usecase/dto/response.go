package dto

import "github.com/journey-scanner/internal/domain"

// StatusResponse reports the session state of a journey.
type StatusResponse struct {
	Journey     *domain.Itinerary   `json:"journey"`
	State       domain.JourneyState `json:"state"`
	CurrentStep int                 `json:"current_step"`
	TotalSteps  int                 `json:"total_steps"`
	Paid        bool                `json:"paid"`
}

// PaymentResponse acknowledges a confirmed payment.
type PaymentResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// ScanResponse wraps the scan outcome together with the resulting state.
type ScanResponse struct {
	Result  domain.ScanResult   `json:"result"`
	State   domain.JourneyState `json:"state"`
	Summary *domain.FareSummary `json:"summary,omitempty"` // set once the journey completes
}

// QRResponse carries the next QR to present, or the completion summary when
// there is nothing left to scan. Step numbers are 1-based and count only the
// legs the traveler actually scans through.
type QRResponse struct {
	Completed     bool                `json:"completed"`
	QRCodeBase64  string              `json:"qr_code_base64,omitempty"`
	Payload       *domain.ScanPayload `json:"payload,omitempty"`
	CurrentStep   int                 `json:"current_step,omitempty"`
	TotalSteps    int                 `json:"total_steps,omitempty"`
	TransportInfo string              `json:"transport_info,omitempty"`
	Summary       *domain.FareSummary `json:"summary,omitempty"`
}
