package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/journey-scanner/internal/domain"
	"go.uber.org/zap"
)

var (
	metroLineRe = regexp.MustCompile(`(?i)(\w+)\s*\(metro\)`)
	busRouteRe  = regexp.MustCompile(`(?i)(\d+)\s*\(bus\)`)
	distanceRe  = regexp.MustCompile(`(\d+\.?\d*)\s*km`)
)

const (
	stopsPrefix    = "Stops:"
	stopsSeparator = "->"
)

// Parser extracts journey legs from semi-structured text descriptions.
// Parsing is best-effort: a line that cannot be understood is logged and
// skipped, never an error, so one bad line never loses the rest of the text.
type Parser struct {
	logger *zap.Logger
}

func NewParser(logger *zap.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse walks the text line by line. A line is a candidate step only when it
// carries a ": " separator and mentions "km" or "min" somewhere; everything
// else (headers, separator rows, prose) is dropped silently. A "Stops:" line
// directly below a recognized step is consumed as that step's stop list.
func (p *Parser) Parse(journeyText string) []domain.Leg {
	lines := strings.Split(strings.TrimSpace(journeyText), "\n")
	legs := make([]domain.Leg, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if line == "" || strings.HasPrefix(line, "===") || strings.HasPrefix(line, "---") {
			continue
		}

		if !strings.Contains(line, ": ") {
			continue
		}
		if !strings.Contains(line, "km") && !strings.Contains(line, "min") {
			continue
		}

		parts := strings.SplitN(line, ": ", 2)
		head := strings.TrimSpace(parts[0])
		details := strings.TrimSpace(parts[1])

		mode, lineID, ok := detectMode(head)
		if !ok {
			p.logger.Debug("No transport mode recognized, skipping line",
				zap.String("line", line))
			continue
		}

		var stops []string
		if i+1 < len(lines) {
			if next := strings.TrimSpace(lines[i+1]); strings.HasPrefix(next, stopsPrefix) {
				stops = parseStops(strings.TrimPrefix(next, stopsPrefix))
				i++ // the stops line belongs to this step, do not reprocess it
			}
		}

		legs = append(legs, domain.Leg{
			Mode:       mode,
			LineID:     lineID,
			DistanceKm: parseDistance(details),
			Stops:      stops,
		})
	}

	return legs
}

// detectMode resolves the transport mode from the text before the separator.
// Precedence: taxi, then (metro), then (bus), then transfer/walk. For metro
// the line name is the token before the "(metro)" marker; for bus the route
// number before "(bus)". A missing marker match leaves the line ID empty.
func detectMode(head string) (domain.Mode, string, bool) {
	lower := strings.ToLower(head)

	switch {
	case strings.Contains(lower, "taxi"):
		return domain.ModeTaxi, "", true

	case strings.Contains(lower, "(metro)"):
		var lineID string
		if m := metroLineRe.FindStringSubmatch(head); m != nil {
			lineID = m[1]
		}
		return domain.ModeMetro, lineID, true

	case strings.Contains(lower, "(bus)"):
		var lineID string
		if m := busRouteRe.FindStringSubmatch(head); m != nil {
			lineID = m[1]
		}
		return domain.ModeBus, lineID, true

	case strings.Contains(lower, "transfer") || strings.Contains(lower, "walk"):
		return domain.ModeTransfer, "", true
	}

	return "", "", false
}

// parseDistance picks the first decimal number directly followed by "km".
// Absence yields 0, not an error.
func parseDistance(details string) float64 {
	m := distanceRe.FindStringSubmatch(details)
	if m == nil {
		return 0
	}
	distance, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return distance
}

func parseStops(payload string) []string {
	parts := strings.Split(payload, stopsSeparator)
	stops := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			stops = append(stops, trimmed)
		}
	}
	return stops
}
