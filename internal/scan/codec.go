package scan

import (
	"encoding/json"
	"fmt"

	"github.com/journey-scanner/internal/domain"
)

// Encode serializes a scan payload for embedding into a QR code.
// The action discriminator is always stamped so readers can tell scan
// payloads apart from other QR content.
func Encode(payload domain.ScanPayload) ([]byte, error) {
	payload.Action = domain.ScanAction
	return json.Marshal(payload)
}

// wirePayload mirrors domain.ScanPayload with pointer fields so that a
// missing key is distinguishable from a zero value. Decoding is fail-closed:
// anything missing, mistyped or outside the closed vocabularies is rejected.
type wirePayload struct {
	JourneyID *string `json:"journey_id"`
	Step      *int    `json:"step"`
	Mode      *string `json:"mode"`
	LineID    *string `json:"line_number"`
	Purpose   *string `json:"purpose"`
	Action    *string `json:"action"`
}

// Decode parses and validates raw QR content. Rules:
//   - journey_id and step are required; step must be a JSON integer >= 0
//   - mode must be one of the known transport modes
//   - purpose must be "entry" or "exit"; for taxi it may be omitted and
//     defaults to "exit", for metro and bus it is required
//   - action, when present, must be "scan"
func Decode(raw []byte) (domain.ScanPayload, error) {
	var wire wirePayload

	if err := json.Unmarshal(raw, &wire); err != nil {
		return domain.ScanPayload{}, fmt.Errorf("malformed scan payload: %w", err)
	}

	if wire.JourneyID == nil || *wire.JourneyID == "" {
		return domain.ScanPayload{}, fmt.Errorf("scan payload missing journey_id")
	}
	if wire.Step == nil {
		return domain.ScanPayload{}, fmt.Errorf("scan payload missing step")
	}
	if *wire.Step < 0 {
		return domain.ScanPayload{}, fmt.Errorf("scan payload step out of range: %d", *wire.Step)
	}
	if wire.Mode == nil {
		return domain.ScanPayload{}, fmt.Errorf("scan payload missing mode")
	}

	mode := domain.Mode(*wire.Mode)
	if !domain.IsValidMode(*wire.Mode) {
		return domain.ScanPayload{}, fmt.Errorf("scan payload has unknown mode %q", *wire.Mode)
	}

	if wire.Action != nil && *wire.Action != "" && *wire.Action != domain.ScanAction {
		return domain.ScanPayload{}, fmt.Errorf("scan payload has unexpected action %q", *wire.Action)
	}

	purpose, err := resolvePurpose(mode, wire.Purpose)
	if err != nil {
		return domain.ScanPayload{}, err
	}

	payload := domain.ScanPayload{
		JourneyID: *wire.JourneyID,
		Step:      *wire.Step,
		Mode:      mode,
		Purpose:   purpose,
		Action:    domain.ScanAction,
	}
	if wire.LineID != nil {
		payload.LineID = *wire.LineID
	}
	return payload, nil
}

func resolvePurpose(mode domain.Mode, raw *string) (domain.ScanPurpose, error) {
	if raw == nil || *raw == "" {
		// Taxi scans are single-phase, the purpose may be left out.
		if mode == domain.ModeTaxi {
			return domain.PurposeExit, nil
		}
		return "", fmt.Errorf("scan payload missing purpose for mode %q", mode)
	}

	switch p := domain.ScanPurpose(*raw); p {
	case domain.PurposeEntry, domain.PurposeExit:
		return p, nil
	default:
		return "", fmt.Errorf("scan payload has unknown purpose %q", *raw)
	}
}
