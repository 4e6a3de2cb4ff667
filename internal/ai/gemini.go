package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash keeps latency and cost low for an interactive tool.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.4)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// OptimizeRoute asks the model to order the stops and narrate the run.
func (p *GeminiProvider) OptimizeRoute(ctx context.Context, req OptimizeRequest) (*RouteSuggestion, error) {
	if req.CurrentLocation == "" || len(req.Destinations) == 0 {
		return nil, fmt.Errorf("current location and at least one destination are required")
	}

	prompt := buildOptimizePrompt(req)
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
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

	// JSON mode should already return bare JSON, but strip markdown fences in case.
	cleanJSON := cleanJSONString(responseText.String())

	var result RouteSuggestion
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}

	return &result, nil
}

func buildOptimizePrompt(req OptimizeRequest) string {
	traffic := req.TrafficConditions
	if traffic == "" {
		traffic = "UNKNOWN"
	}
	closures := "NONE"
	if len(req.RoadClosures) > 0 {
		closures = strings.Join(req.RoadClosures, ", ")
	}

	return fmt.Sprintf(`You are an AI-powered route optimization expert. Given the driver's current location, a list of destinations, real-time traffic conditions, and road closures, you will determine the most efficient route.

Current Location: %s
Destinations: %s
Traffic Conditions: %s
Road Closures: %s

Provide the optimized route, estimated travel time, and step-by-step driving instructions.
Output the optimized route as an ordered list of destination addresses, the estimated travel time as a string, and step-by-step driving instructions.

Output JSON Schema:
{
  "optimized_route": ["string"],
  "estimated_travel_time": "string",
  "instructions": "string"
}
`,
		req.CurrentLocation,
		strings.Join(req.Destinations, ", "),
		traffic,
		closures,
	)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
