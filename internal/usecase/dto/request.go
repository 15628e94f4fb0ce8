package dto

// CreateJourneyRequest starts a new journey session. JourneyText is the
// free-form description to parse; when empty the built-in sample journey
// is used instead.
type CreateJourneyRequest struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	JourneyText string `json:"journey_text" validate:"omitempty,max=20000"`
}

// PaymentRequest confirms payment for a journey session.
type PaymentRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=card wallet cash"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
}

// ScanRequest submits the raw content read from a QR code.
type ScanRequest struct {
	QRData string `json:"qr_data" validate:"required"`
}
