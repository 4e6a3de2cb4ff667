package ai

import (
	"context"
)

// LLMProvider defines the contract for interacting with AI models.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type LLMProvider interface {
	// OptimizeRoute orders a driver's stops for the most efficient run,
	// taking reported traffic and road closures into account.
	OptimizeRoute(ctx context.Context, req OptimizeRequest) (*RouteSuggestion, error)
}
