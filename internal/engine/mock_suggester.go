package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/orderflow/orderflow/internal/model"
)

// MockSuggester is a deterministic implementation of the Suggester interface.
// It categorizes by keyword and is used by tests and by offline dry runs.
type MockSuggester struct {
	// FailSubstring makes suggestions fail for matching descriptions.
	FailSubstring string
	// Delay simulates endpoint latency per call.
	Delay time.Duration

	calls []MockCall
	mu    sync.Mutex
}

// MockCall records the details of one suggestion request.
type MockCall struct {
	Description string
	Category    string
	Confidence  float64
	Failed      bool
}

// NewMockSuggester creates a new mock suggester.
func NewMockSuggester() *MockSuggester {
	return &MockSuggester{}
}

// Suggest provides deterministic category suggestions based on keywords in
// the product description.
func (m *MockSuggester) Suggest(ctx context.Context, productDescription string) (model.Suggestion, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return model.Suggestion{}, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSubstring != "" && strings.Contains(productDescription, m.FailSubstring) {
		m.calls = append(m.calls, MockCall{Description: productDescription, Failed: true})
		return model.Suggestion{}, fmt.Errorf("mock suggestion failure for %q", productDescription)
	}

	suggestion := m.categorize(productDescription)
	m.calls = append(m.calls, MockCall{
		Description: productDescription,
		Category:    suggestion.Category,
		Confidence:  suggestion.Confidence,
	})

	return suggestion, nil
}

// Calls returns a copy of the recorded requests.
func (m *MockSuggester) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockSuggester) categorize(description string) model.Suggestion {
	lower := strings.ToLower(description)

	switch {
	case strings.Contains(lower, "cable") || strings.Contains(lower, "usb") || strings.Contains(lower, "hdmi"):
		return model.Suggestion{Category: "Cables & Adapters", Confidence: 0.9}
	case strings.Contains(lower, "chair") || strings.Contains(lower, "desk") || strings.Contains(lower, "table"):
		return model.Suggestion{Category: "Furniture", Confidence: 0.85}
	case strings.Contains(lower, "paper") || strings.Contains(lower, "pen") || strings.Contains(lower, "stapler"):
		return model.Suggestion{Category: "Office Supplies", Confidence: 0.8}
	case strings.Contains(lower, "drill") || strings.Contains(lower, "screw") || strings.Contains(lower, "bolt"):
		return model.Suggestion{Category: "Tools & Hardware", Confidence: 0.88}
	default:
		return model.Suggestion{Category: "General", Confidence: 0.5}
	}
}
