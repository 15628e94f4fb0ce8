package progression

import (
	"fmt"

	"github.com/journey-scanner/internal/domain"
)

// The progression machine is deliberately pure: every function takes the
// current Progress value and returns a new one together with the outcome.
// Callers persist the returned value only when the scan was accepted, so a
// rejection can never corrupt stored state.

// ConfirmPayment unlocks scanning and skips past any leading transfer legs,
// which require no scan.
func ConfirmPayment(p domain.Progress, it *domain.Itinerary) domain.Progress {
	p.PaymentConfirmed = true
	return autoSkip(p, it)
}

// SubmitScan validates a decoded scan payload against the current position.
// Checks run in a fixed order: journey identity, payment, completion, step,
// mode, then the per-mode phase rules. The first failing check rejects the
// scan and the returned Progress equals the input.
func SubmitScan(p domain.Progress, it *domain.Itinerary, payload domain.ScanPayload) (domain.Progress, domain.ScanResult) {
	if payload.JourneyID != it.JourneyID {
		return p, reject(domain.ReasonJourneyMismatch, "This QR code belongs to a different journey")
	}
	if !p.PaymentConfirmed {
		return p, reject(domain.ReasonPaymentRequired, "Payment must be confirmed before scanning")
	}
	if p.Completed(len(it.Legs)) {
		return p, reject(domain.ReasonJourneyComplete, "Journey is already complete")
	}
	if payload.Step != p.CurrentStep {
		return p, reject(domain.ReasonStepMismatch,
			fmt.Sprintf("Expected a scan for step %d, got step %d", p.CurrentStep+1, payload.Step+1))
	}

	leg := it.Legs[p.CurrentStep]
	if payload.Mode != leg.Mode {
		return p, reject(domain.ReasonModeMismatch,
			fmt.Sprintf("Expected a %s scan at this step, got %s", leg.Mode, payload.Mode))
	}

	switch leg.Mode {
	case domain.ModeTaxi:
		return scanTaxi(p, it, payload)
	case domain.ModeMetro, domain.ModeBus:
		return scanGated(p, it, leg, payload)
	default:
		// Transfer legs are auto-skipped and never the cursor position
		// after a successful advance; reaching here means the payload
		// asked for a scan that does not exist.
		return p, reject(domain.ReasonModeMismatch, "This step does not require a scan")
	}
}

// scanTaxi completes the leg in a single scan. The codec defaults an absent
// purpose to exit, so only an explicit entry is invalid here.
func scanTaxi(p domain.Progress, it *domain.Itinerary, payload domain.ScanPayload) (domain.Progress, domain.ScanResult) {
	if payload.Purpose != domain.PurposeExit {
		return p, reject(domain.ReasonInvalidPurpose, "Taxi rides are closed with a single exit scan")
	}

	p = advance(p, it)
	return p, accepted("exit_taxi", "Taxi ride complete", p, it)
}

// scanGated handles the two-phase entry/exit flow of metro and bus legs.
func scanGated(p domain.Progress, it *domain.Itinerary, leg domain.Leg, payload domain.ScanPayload) (domain.Progress, domain.ScanResult) {
	verb := "metro"
	if leg.Mode == domain.ModeBus {
		verb = "bus"
	}

	switch payload.Purpose {
	case domain.PurposeEntry:
		if p.AwaitingExit {
			return p, reject(domain.ReasonDuplicateEntry, "Already checked in, scan the exit QR to leave")
		}
		p.AwaitingExit = true
		res := accepted("enter_"+verb, fmt.Sprintf("Checked in, scan again when leaving the %s", verb), p, it)
		res.NeedExit = true
		res.NextStep = false
		return p, res

	case domain.PurposeExit:
		if !p.AwaitingExit {
			return p, reject(domain.ReasonInvalidPurpose, "Check in with an entry scan first")
		}
		p = advance(p, it)
		return p, accepted("exit_"+verb, fmt.Sprintf("Checked out of the %s", verb), p, it)

	default:
		return p, reject(domain.ReasonInvalidPurpose, "Unknown scan purpose")
	}
}

// advance marks the current leg done, moves the cursor and skips any
// following transfer legs.
func advance(p domain.Progress, it *domain.Itinerary) domain.Progress {
	it.Legs[p.CurrentStep].Completed = true
	p.CurrentStep++
	p.AwaitingExit = false
	return autoSkip(p, it)
}

// autoSkip moves the cursor past transfer legs, marking them completed.
// Walking connectors have no scan point, so the traveler never stops on one.
func autoSkip(p domain.Progress, it *domain.Itinerary) domain.Progress {
	for p.CurrentStep < len(it.Legs) && it.Legs[p.CurrentStep].Mode == domain.ModeTransfer {
		it.Legs[p.CurrentStep].Completed = true
		p.CurrentStep++
	}
	return p
}

// NextExpectedPayload returns the payload the next QR should carry, or nil
// when there is nothing left to scan (journey complete or payment pending).
// Metro and bus legs yield an entry payload first and an exit payload once
// the entry scan has been accepted; taxi legs always yield an exit payload.
func NextExpectedPayload(p domain.Progress, it *domain.Itinerary) *domain.ScanPayload {
	if !p.PaymentConfirmed || p.Completed(len(it.Legs)) {
		return nil
	}

	leg := it.Legs[p.CurrentStep]
	payload := &domain.ScanPayload{
		JourneyID: it.JourneyID,
		Step:      p.CurrentStep,
		Mode:      leg.Mode,
		LineID:    leg.LineID,
		Action:    domain.ScanAction,
	}

	switch leg.Mode {
	case domain.ModeTaxi:
		payload.Purpose = domain.PurposeExit
	default:
		if p.AwaitingExit {
			payload.Purpose = domain.PurposeExit
		} else {
			payload.Purpose = domain.PurposeEntry
		}
	}
	return payload
}

// CompletionSummary recomputes the total from the per-leg fares and breaks it
// down by mode. Transfer legs contribute nothing and are left out.
func CompletionSummary(it *domain.Itinerary) domain.FareSummary {
	summary := domain.FareSummary{Breakdown: make(map[domain.Mode]int)}
	for _, leg := range it.Legs {
		if !leg.Mode.Fareable() {
			continue
		}
		summary.Breakdown[leg.Mode] += leg.FareAED
		summary.TotalFare += leg.FareAED
	}
	return summary
}

func reject(reason, message string) domain.ScanResult {
	return domain.ScanResult{
		Accepted: false,
		Reason:   reason,
		Message:  message,
	}
}

func accepted(action, message string, p domain.Progress, it *domain.Itinerary) domain.ScanResult {
	return domain.ScanResult{
		Accepted: true,
		Action:   action,
		Message:  message,
		NextStep: !p.Completed(len(it.Legs)),
	}
}
