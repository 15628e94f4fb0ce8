package domain

// Mode is the closed set of travel modes a journey leg can have.
type Mode string

const (
	ModeTaxi     Mode = "taxi"
	ModeMetro    Mode = "metro"
	ModeBus      Mode = "bus"
	ModeTransfer Mode = "transfer"
)

// ValidModes returns the list of valid leg modes
func ValidModes() []Mode {
	return []Mode{ModeTaxi, ModeMetro, ModeBus, ModeTransfer}
}

// IsValidMode checks if mode belongs to the closed set
func IsValidMode(mode string) bool {
	for _, m := range ValidModes() {
		if string(m) == mode {
			return true
		}
	}
	return false
}

// NormalizeMode maps free-form mode strings onto the closed set.
// External sources label walking connectors "walk"; internally that is a transfer.
func NormalizeMode(raw string) (Mode, bool) {
	if raw == "walk" {
		return ModeTransfer, true
	}
	if IsValidMode(raw) {
		return Mode(raw), true
	}
	return "", false
}

// Fareable reports whether legs of this mode carry a fare.
// Transfer legs are free walking connectors and never priced.
func (m Mode) Fareable() bool {
	return m == ModeTaxi || m == ModeMetro || m == ModeBus
}

// Leg is one contiguous segment of a journey in a single transport mode.
type Leg struct {
	Mode       Mode     `json:"mode"`
	LineID     string   `json:"line_number,omitempty"` // metro line name or bus route number
	DistanceKm float64  `json:"distance_km"`
	Stops      []string `json:"stops"`
	FareAED    int      `json:"fare_aed"`
	Completed  bool     `json:"completed"`
}

// Itinerary is a priced multi-leg journey. It is built once and read-only
// afterwards, except for Legs[i].Completed which the progression state
// machine flips as the traveler moves through the journey.
type Itinerary struct {
	JourneyID       string  `json:"journey_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Legs            []Leg   `json:"journey_steps"`
	TotalFare       int     `json:"total_fare"`
	TotalDistanceKm float64 `json:"total_distance"`
}

// FareableLegCount returns the number of legs the traveler actually scans
// through (everything except walking transfers).
func (it *Itinerary) FareableLegCount() int {
	count := 0
	for _, leg := range it.Legs {
		if leg.Mode.Fareable() {
			count++
		}
	}
	return count
}
