package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_Generate(t *testing.T) {
	var got generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Try the Butter Chicken."}]}}]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(GeminiConfig{APIKey: "secret", BaseURL: srv.URL})
	text, err := client.Generate(context.Background(), "What should I eat?")
	require.NoError(t, err)

	assert.Equal(t, "Try the Butter Chicken.", text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "What should I eat?", got.Contents[0].Parts[0].Text)
	assert.Equal(t, 0.7, got.GenerationConfig.Temperature)
	assert.Equal(t, 40, got.GenerationConfig.TopK)
	assert.Equal(t, 0.95, got.GenerationConfig.TopP)
	assert.Equal(t, 1024, got.GenerationConfig.MaxOutputTokens)
}

func TestGeminiClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrEmptyResponse},
		{"upstream failure", http.StatusTooManyRequests, `{"error":"quota"}`, nil},
		{"malformed body", http.StatusOK, `not json`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), "hi")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
		})
	}

	t.Run("missing key", func(t *testing.T) {
		_, err := NewGeminiClient(GeminiConfig{}).Generate(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
