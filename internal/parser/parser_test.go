package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/journey-scanner/internal/domain"
	"github.com/journey-scanner/internal/parser"
)

func TestParser_Parse(t *testing.T) {
	p := parser.NewParser(zap.NewNop())

	t.Run("two-leg journey with stops", func(t *testing.T) {
		text := "1. taxi: 1 stop, 8.5 min, 4.2 km\n" +
			"   Stops: A -> B\n" +
			"\n" +
			"2. MRed1 (metro): 7 stops, 12.1 min, 15.8 km\n" +
			"   Stops: B -> C"

		legs := p.Parse(text)
		require.Len(t, legs, 2)

		assert.Equal(t, domain.ModeTaxi, legs[0].Mode)
		assert.Empty(t, legs[0].LineID)
		assert.Equal(t, 4.2, legs[0].DistanceKm)
		assert.Equal(t, []string{"A", "B"}, legs[0].Stops)
		assert.False(t, legs[0].Completed)

		assert.Equal(t, domain.ModeMetro, legs[1].Mode)
		assert.Equal(t, "MRed1", legs[1].LineID)
		assert.Equal(t, 15.8, legs[1].DistanceKm)
		assert.Equal(t, []string{"B", "C"}, legs[1].Stops)
	})

	t.Run("full sample journey", func(t *testing.T) {
		legs := p.Parse(domain.SampleJourneyText)
		require.Len(t, legs, 6)

		modes := make([]domain.Mode, 0, len(legs))
		for _, leg := range legs {
			modes = append(modes, leg.Mode)
		}
		assert.Equal(t, []domain.Mode{
			domain.ModeTaxi,
			domain.ModeTransfer,
			domain.ModeMetro,
			domain.ModeTransfer,
			domain.ModeBus,
			domain.ModeTransfer,
		}, modes)

		assert.Equal(t, "MRed1", legs[2].LineID)
		assert.Equal(t, "64", legs[4].LineID)
		assert.Len(t, legs[3].Stops, 3)
	})

	t.Run("separator rows and blank lines are skipped", func(t *testing.T) {
		text := "=== Detailed Journey ===\n" +
			"\n" +
			"--------\n" +
			"1. taxi: 2 stops, 5.0 min, 3.0 km\n"

		legs := p.Parse(text)
		require.Len(t, legs, 1)
		assert.Equal(t, domain.ModeTaxi, legs[0].Mode)
	})

	t.Run("lines without separator or units are ignored", func(t *testing.T) {
		text := "Take a taxi from the hotel\n" + // no ": "
			"1. taxi: from the hotel\n" + // no km/min
			"2. taxi: 1 stop, 5 min, 2.0 km"

		legs := p.Parse(text)
		require.Len(t, legs, 1)
		assert.Equal(t, 2.0, legs[0].DistanceKm)
	})

	t.Run("line without a recognizable mode is dropped", func(t *testing.T) {
		legs := p.Parse("1. tram: 4 stops, 6 min, 3.1 km")
		assert.Empty(t, legs)
	})

	t.Run("walk is a transfer", func(t *testing.T) {
		legs := p.Parse("3. walk: 1 stop, 2.0 min, 0.1 km")
		require.Len(t, legs, 1)
		assert.Equal(t, domain.ModeTransfer, legs[0].Mode)
	})

	t.Run("missing distance defaults to zero", func(t *testing.T) {
		legs := p.Parse("1. taxi: 1 stop, 8.5 min")
		require.Len(t, legs, 1)
		assert.Zero(t, legs[0].DistanceKm)
	})

	t.Run("missing line marker leaves line id unset", func(t *testing.T) {
		legs := p.Parse("2. metro ride (metro): 7 stops, 12 min, 15.8 km")
		require.Len(t, legs, 1)
		assert.Equal(t, domain.ModeMetro, legs[0].Mode)
		assert.Equal(t, "ride", legs[0].LineID)

		// bus route must be numeric; a word before (bus) is not a route
		legs = p.Parse("5. express (bus): 8 stops, 18 min, 12.4 km")
		require.Len(t, legs, 1)
		assert.Equal(t, domain.ModeBus, legs[0].Mode)
		assert.Empty(t, legs[0].LineID)
	})

	t.Run("stops line is consumed, not parsed as a step", func(t *testing.T) {
		text := "1. taxi: 1 stop, 5 min, 2.0 km\n" +
			"   Stops: A -> B -> C\n" +
			"2. 64 (bus): 3 stops, 10 min, 6.0 km"

		legs := p.Parse(text)
		require.Len(t, legs, 2)
		assert.Equal(t, []string{"A", "B", "C"}, legs[0].Stops)
		assert.Empty(t, legs[1].Stops)
	})

	t.Run("empty input yields no legs", func(t *testing.T) {
		assert.Empty(t, p.Parse(""))
		assert.Empty(t, p.Parse("   \n\n  "))
	})
}
