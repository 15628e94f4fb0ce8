package domain

// JourneyState describes where a journey is in its lifecycle.
type JourneyState string

const (
	StateNotStarted JourneyState = "not_started"
	StateInProgress JourneyState = "in_progress"
	StateComplete   JourneyState = "complete"
)

// Progress is the per-session cursor over an itinerary. It is a plain value:
// the progression state machine takes a Progress in and returns a new one,
// so a rejected scan can never leave it half-updated. CurrentStep ==
// len(legs) means the journey is complete.
type Progress struct {
	JourneyID        string `json:"journey_id"`
	CurrentStep      int    `json:"current_step"`
	PaymentConfirmed bool   `json:"payment_confirmed"`

	// AwaitingExit is set after a metro/bus entry scan: the leg has been
	// entered and the machine now expects the matching exit scan.
	AwaitingExit bool `json:"awaiting_exit"`
}

// NewProgress returns the initial progress for an itinerary
func NewProgress(journeyID string) Progress {
	return Progress{JourneyID: journeyID}
}

// State derives the lifecycle state from the cursor and payment flag.
func (p Progress) State(totalLegs int) JourneyState {
	if !p.PaymentConfirmed {
		return StateNotStarted
	}
	if p.CurrentStep >= totalLegs {
		return StateComplete
	}
	return StateInProgress
}

// Completed reports whether the cursor has moved past the last leg
func (p Progress) Completed(totalLegs int) bool {
	return p.CurrentStep >= totalLegs
}
