package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderflow/orderflow/internal/common"
)

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		wantCategory   string
		wantConfidence float64
		wantErr        bool
	}{
		{
			name:           "plain JSON",
			content:        `{"category": "Hardware", "confidence": 0.92}`,
			wantCategory:   "Hardware",
			wantConfidence: 0.92,
		},
		{
			name:           "markdown fenced JSON",
			content:        "```json\n{\"category\": \"Office Supplies\", \"confidence\": 0.7}\n```",
			wantCategory:   "Office Supplies",
			wantConfidence: 0.7,
		},
		{
			name:           "fence without language tag",
			content:        "```\n{\"category\": \"Cables\", \"confidence\": 1}\n```",
			wantCategory:   "Cables",
			wantConfidence: 1,
		},
		{
			name:           "zero confidence is valid",
			content:        `{"category": "Misc", "confidence": 0}`,
			wantCategory:   "Misc",
			wantConfidence: 0,
		},
		{
			name:    "not JSON",
			content: "The category is Hardware with high confidence.",
			wantErr: true,
		},
		{
			name:    "empty category",
			content: `{"category": "", "confidence": 0.9}`,
			wantErr: true,
		},
		{
			name:    "missing category field",
			content: `{"confidence": 0.9}`,
			wantErr: true,
		},
		{
			name:    "confidence above one fails rather than clamps",
			content: `{"category": "Hardware", "confidence": 1.2}`,
			wantErr: true,
		},
		{
			name:    "negative confidence",
			content: `{"category": "Hardware", "confidence": -0.1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestion, err := parseSuggestion(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidSuggestion)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, suggestion.Category)
			assert.InDelta(t, tt.wantConfidence, suggestion.Confidence, 0.0001)
		})
	}
}

func TestCleanMarkdownWrapper(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper("  {\"a\":1}  "))
}
