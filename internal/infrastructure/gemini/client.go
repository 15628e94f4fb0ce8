package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/journey-scanner/internal/domain"
	"github.com/journey-scanner/internal/fare"
)

// Client extracts structured itineraries from free-form journey text using
// Google's Gemini models. It implements repository.ExtractionRepository.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	rates  fare.Rates
}

// NewClient initializes the Gemini client. The fare rates are embedded in
// the prompt so the model prices legs with the live tariff.
func NewClient(ctx context.Context, apiKey, modelName string, rates fare.Rates) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.1)

	return &Client{
		client: client,
		model:  model,
		rates:  rates,
	}, nil
}

// Close cleans up the underlying client resources.
func (c *Client) Close() {
	c.client.Close()
}

// Extract asks the model for a structured itinerary. One attempt, no
// retries: the caller falls back to text parsing on any error.
func (c *Client) Extract(ctx context.Context, journeyText string) (*domain.ExtractionResult, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(c.buildPrompt(journeyText)))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	return ParseResponse(responseText.String())
}

// ParseResponse parses and shape-checks the raw model output. The numbers
// inside are still untrusted; the itinerary builder validates and re-rounds
// them.
func ParseResponse(raw string) (*domain.ExtractionResult, error) {
	clean := cleanJSONString(raw)

	var result domain.ExtractionResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if len(result.JourneySteps) == 0 {
		return nil, fmt.Errorf("extraction returned no journey steps")
	}
	for i, step := range result.JourneySteps {
		if _, ok := domain.NormalizeMode(step.Mode); !ok {
			return nil, fmt.Errorf("extraction step %d has unknown mode %q", i+1, step.Mode)
		}
	}

	return &result, nil
}

func (c *Client) buildPrompt(journeyText string) string {
	return fmt.Sprintf(`You are a Dubai RTA transport assistant. Extract transport information from journey descriptions and return structured data.

Journey text:
%s

Please extract the following information and return as JSON:
{
  "journey_steps": [
    {
      "step_number": 1,
      "mode": "taxi|metro|bus|transfer|walk",
      "line_number": "route number if applicable",
      "distance_km": 0.0,
      "duration_min": 0.0,
      "stops": ["start_stop", "end_stop"],
      "fare_aed": 0.0
    }
  ],
  "total_fare": 0.0,
  "total_distance": 0.0
}

Use the Dubai RTA fare structure: Taxi minimum %.1f AED or %.1f AED/km whichever is higher, Metro %.1f AED + %.1f AED/km, Bus %.1f AED + %.1f AED/km, walking transfers free.
Return only the JSON object, no prose.`,
		journeyText,
		c.rates.TaxiBase, c.rates.TaxiPerKm,
		c.rates.MetroBase, c.rates.MetroPerKm,
		c.rates.BusBase, c.rates.BusPerKm)
}

// cleanJSONString removes markdown code fences if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
