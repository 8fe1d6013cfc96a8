package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/orderflow/orderflow/internal/model"
)

// geminiClient implements the Client interface using the Google GenAI SDK.
// Gemini supports native structured output, so the suggestion schema is
// enforced server-side instead of relying on prompt discipline.
type geminiClient struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
}

// suggestionSchema constrains the Gemini response to the suggestion contract.
var suggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"category": {
			Type:        genai.TypeString,
			Description: "The single most appropriate category for the product",
		},
		"confidence": {
			Type:        genai.TypeNumber,
			Description: "Confidence in the category, between 0 and 1",
		},
	},
	Required: []string{"category", "confidence"},
}

// newGeminiClient creates a new Gemini suggestion client.
func newGeminiClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 150
	}

	return &geminiClient{
		client:      client,
		model:       modelName,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Suggest sends a single category suggestion request to Gemini.
func (c *geminiClient) Suggest(ctx context.Context, prompt string) (model.Suggestion, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(c.temperature)),
		MaxOutputTokens:  int32(c.maxTokens),
		ResponseMIMEType: "application/json",
		ResponseSchema:   suggestionSchema,
	})
	if err != nil {
		return model.Suggestion{}, fmt.Errorf("gemini request failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return model.Suggestion{}, fmt.Errorf("no content in response")
	}

	return parseSuggestion(text)
}
