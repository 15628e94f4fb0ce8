package domain

// ScanPurpose qualifies a scan event as a check-in or a check-out.
type ScanPurpose string

const (
	PurposeEntry ScanPurpose = "entry"
	PurposeExit  ScanPurpose = "exit"
)

// ScanAction is the only action value carried by scan payloads.
const ScanAction = "scan"

// ScanPayload is the compact record exchanged at each scan point. It is what
// gets encoded into the QR image and decoded back from a reader.
type ScanPayload struct {
	JourneyID string      `json:"journey_id"`
	Step      int         `json:"step"`
	Mode      Mode        `json:"mode"`
	LineID    string      `json:"line_number,omitempty"`
	Purpose   ScanPurpose `json:"purpose,omitempty"`
	Action    string      `json:"action"`
}

// ScanResult is the outcome of submitting a scan. Rejections are results
// with a reason code, never errors, so the caller can offer a retry.
type ScanResult struct {
	Accepted bool   `json:"accepted"`
	Action   string `json:"action,omitempty"`  // e.g. "enter_metro", "exit_taxi"
	Message  string `json:"message,omitempty"` // human readable notice
	Reason   string `json:"reason,omitempty"`  // reason code when rejected
	NeedExit bool   `json:"need_exit_qr,omitempty"`
	NextStep bool   `json:"next_step,omitempty"`
}

// Scan rejection reason codes
const (
	ReasonJourneyMismatch = "JOURNEY_MISMATCH"
	ReasonPaymentRequired = "PAYMENT_REQUIRED"
	ReasonJourneyComplete = "JOURNEY_COMPLETE"
	ReasonStepMismatch    = "STEP_MISMATCH"
	ReasonModeMismatch    = "MODE_MISMATCH"
	ReasonDuplicateEntry  = "DUPLICATE_ENTRY"
	ReasonInvalidPurpose  = "INVALID_PURPOSE"
)
