package fare

import (
	"math"

	"github.com/journey-scanner/internal/domain"
)

// Rates holds the pricing constants per transport mode, in AED.
// Taxi charges max(base, perKm*distance); metro and bus charge
// base + perKm*distance; transfers are free.
type Rates struct {
	TaxiBase   float64 `validate:"gte=0"`
	TaxiPerKm  float64 `validate:"gte=0"`
	MetroBase  float64 `validate:"gte=0"`
	MetroPerKm float64 `validate:"gte=0"`
	BusBase    float64 `validate:"gte=0"`
	BusPerKm   float64 `validate:"gte=0"`
}

// DefaultRates returns the standard tariff.
func DefaultRates() Rates {
	return Rates{
		TaxiBase:   12,
		TaxiPerKm:  8,
		MetroBase:  3,
		MetroPerKm: 0.5,
		BusBase:    2,
		BusPerKm:   0.3,
	}
}

// Engine prices individual journey legs. Fares are always whole AED:
// rounding happens once per leg, never on intermediate values.
type Engine struct {
	rates Rates
}

func NewEngine(rates Rates) *Engine {
	return &Engine{rates: rates}
}

// Price returns the rounded fare for a single leg. Unknown modes and
// transfers cost nothing.
func (e *Engine) Price(mode domain.Mode, distanceKm float64) int {
	var raw float64

	switch mode {
	case domain.ModeTaxi:
		raw = math.Max(e.rates.TaxiBase, e.rates.TaxiPerKm*distanceKm)
	case domain.ModeMetro:
		raw = e.rates.MetroBase + e.rates.MetroPerKm*distanceKm
	case domain.ModeBus:
		raw = e.rates.BusBase + e.rates.BusPerKm*distanceKm
	default:
		return 0
	}

	return RoundHalfUp(raw)
}

// RoundHalfUp rounds to the nearest integer with ties going up,
// so 0.5 becomes 1 and 2.5 becomes 3.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
