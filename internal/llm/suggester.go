package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/orderflow/orderflow/internal/model"
)

// Suggester wraps a Client with the fixed prompt template and the optional
// rate limiter. One call per product, single shot: no retries, no caching.
type Suggester struct {
	client      Client
	logger      *slog.Logger
	rateLimiter *rateLimiter
	categories  []string
}

// NewSuggester creates a new category suggester. categories is the known
// catalogue presented to the model; an empty list lets the model pick freely.
func NewSuggester(client Client, categories []string, rateLimit int, logger *slog.Logger) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Suggester{
		client:     client,
		categories: categories,
		logger:     logger,
	}

	if rateLimit > 0 {
		s.rateLimiter = newRateLimiter(rateLimit)
	}

	return s
}

// Suggest returns a validated category suggestion for a product description.
func (s *Suggester) Suggest(ctx context.Context, productDescription string) (model.Suggestion, error) {
	if s.rateLimiter != nil {
		if err := s.rateLimiter.wait(ctx); err != nil {
			return model.Suggestion{}, err
		}
	}

	suggestion, err := s.client.Suggest(ctx, s.buildPrompt(productDescription))
	if err != nil {
		return model.Suggestion{}, err
	}

	s.logger.Debug("product categorized",
		"description", productDescription,
		"category", suggestion.Category,
		"confidence", suggestion.Confidence)

	return suggestion, nil
}

// Close releases the rate limiter, if any.
func (s *Suggester) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Close()
	}
}

// buildPrompt creates the prompt for product categorization.
func (s *Suggester) buildPrompt(productDescription string) string {
	var categorySection string
	if len(s.categories) > 0 {
		var b strings.Builder
		for _, cat := range s.categories {
			fmt.Fprintf(&b, "- %s\n", cat)
		}
		categorySection = fmt.Sprintf("Choose from these known categories when one fits, or propose a better one if none do:\n%s\n", b.String())
	}

	return fmt.Sprintf(`Categorize this product for a business inventory system.

Product description: %s

%sRespond with a JSON object:
{"category": "<category name>", "confidence": <number between 0 and 1>}

The category should be short and reusable across similar products. The confidence reflects how certain you are given only the description.`,
		productDescription, categorySection)
}
