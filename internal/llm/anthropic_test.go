package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderflow/orderflow/internal/common"
)

func newAnthropicTestServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))

		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error": {"message": "overloaded"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]string{
				{"type": "text", "text": content},
			},
		})
	}))
}

func TestAnthropicSuggest(t *testing.T) {
	server := newAnthropicTestServer(t, http.StatusOK, `{"category": "Electronics", "confidence": 0.88}`)
	defer server.Close()

	client, err := newAnthropicClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	suggestion, err := client.Suggest(context.Background(), "USB-C hub with HDMI")
	require.NoError(t, err)
	assert.Equal(t, "Electronics", suggestion.Category)
	assert.InDelta(t, 0.88, suggestion.Confidence, 0.0001)
}

func TestAnthropicSuggestAPIError(t *testing.T) {
	server := newAnthropicTestServer(t, http.StatusTooManyRequests, "")
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Suggest(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestAnthropicSuggestMalformedContent(t *testing.T) {
	server := newAnthropicTestServer(t, http.StatusOK, "definitely not json")
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Suggest(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidSuggestion)
}

func TestAnthropicClientRequiresAPIKey(t *testing.T) {
	_, err := newAnthropicClient(Config{})
	require.Error(t, err)
}
