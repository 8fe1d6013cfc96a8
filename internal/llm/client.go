package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/orderflow/orderflow/internal/common"
	"github.com/orderflow/orderflow/internal/model"
)

// Client defines the interface for suggestion providers.
type Client interface {
	Suggest(ctx context.Context, prompt string) (model.Suggestion, error)
}

// Config holds configuration for suggestion clients.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	RateLimit   int
}

// suggestionPayload is the JSON shape every provider must return.
type suggestionPayload struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// parseSuggestion decodes and validates a provider's JSON content. The call
// is atomic: either a validated pair comes back or the whole call fails.
func parseSuggestion(content string) (model.Suggestion, error) {
	content = cleanMarkdownWrapper(content)

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return model.Suggestion{}, fmt.Errorf("%w: failed to parse JSON response: %v", common.ErrInvalidSuggestion, err)
	}

	return validateSuggestion(payload)
}

// validateSuggestion enforces the response contract: a non-empty category
// and a confidence in [0,1]. Out-of-range values fail rather than clamp.
func validateSuggestion(payload suggestionPayload) (model.Suggestion, error) {
	if payload.Category == "" {
		return model.Suggestion{}, fmt.Errorf("%w: no category in response", common.ErrInvalidSuggestion)
	}
	if payload.Confidence < 0 || payload.Confidence > 1 {
		return model.Suggestion{}, fmt.Errorf("%w: confidence %v outside [0,1]", common.ErrInvalidSuggestion, payload.Confidence)
	}

	return model.Suggestion{
		Category:   payload.Category,
		Confidence: payload.Confidence,
	}, nil
}
