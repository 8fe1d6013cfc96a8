package llm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderflow/orderflow/internal/model"
)

// fakeClient records prompts and replies with a canned suggestion.
type fakeClient struct {
	mu         sync.Mutex
	prompts    []string
	suggestion model.Suggestion
	err        error
}

func (f *fakeClient) Suggest(_ context.Context, prompt string) (model.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return model.Suggestion{}, f.err
	}
	return f.suggestion, nil
}

func TestSuggesterBuildsPromptWithCatalogue(t *testing.T) {
	fake := &fakeClient{suggestion: model.Suggestion{Category: "Tools", Confidence: 0.8}}
	s := NewSuggester(fake, []string{"Tools", "Electronics"}, 0, nil)
	defer s.Close()

	suggestion, err := s.Suggest(context.Background(), "Cordless drill 18V")
	require.NoError(t, err)
	assert.Equal(t, "Tools", suggestion.Category)

	require.Len(t, fake.prompts, 1)
	prompt := fake.prompts[0]
	assert.Contains(t, prompt, "Cordless drill 18V")
	assert.Contains(t, prompt, "- Tools")
	assert.Contains(t, prompt, "- Electronics")
}

func TestSuggesterWithoutCatalogue(t *testing.T) {
	fake := &fakeClient{suggestion: model.Suggestion{Category: "Misc", Confidence: 0.5}}
	s := NewSuggester(fake, nil, 0, nil)
	defer s.Close()

	_, err := s.Suggest(context.Background(), "Something odd")
	require.NoError(t, err)

	require.Len(t, fake.prompts, 1)
	assert.NotContains(t, fake.prompts[0], "known categories")
}

func TestSuggesterPropagatesClientError(t *testing.T) {
	wantErr := errors.New("endpoint unreachable")
	fake := &fakeClient{err: wantErr}
	s := NewSuggester(fake, nil, 0, nil)
	defer s.Close()

	_, err := s.Suggest(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestRateLimiterAcquire(t *testing.T) {
	rl := newRateLimiter(2)
	defer rl.Close()

	assert.True(t, rl.tryAcquire())
	assert.True(t, rl.tryAcquire())
	assert.False(t, rl.tryAcquire(), "bucket should be exhausted")
}
