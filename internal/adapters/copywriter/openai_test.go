package copywriter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/petalkids/internal/domain"
)

func fakeOpenAI(t *testing.T, content string, seen *openai.ChatCompletionRequest) *Writer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID: "cmpl-1",
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			}},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewWithConfig(cfg, "")
}

func TestPolish(t *testing.T) {
	var req openai.ChatCompletionRequest
	w := fakeOpenAI(t, "```json\n{\"name\":\"Rose Tulle Gown\",\"description\":\"Layers of soft tulle.\",\"materials\":\"Polyester tulle\",\"care\":\"Hand wash\"}\n```", &req)

	d := &domain.ProductDraft{
		Name:        "GOWN-ROSE-07",
		Description: "gown rose color tulle",
		Care:        "Dry clean",
		Attributes:  map[string]string{"Fabric": "Polyester", "Age": "7-8Y"},
	}
	require.NoError(t, w.Polish(context.Background(), d))

	assert.Equal(t, "Rose Tulle Gown", d.Name)
	assert.Equal(t, "Layers of soft tulle.", d.Description)
	assert.Equal(t, "Polyester tulle", d.Materials)
	assert.Equal(t, "Dry clean", d.Care, "existing care text is kept")

	assert.Equal(t, DefaultModel, req.Model)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[1].Content, "Age: 7-8Y\nFabric: Polyester")
}

func TestPolish_BadResponse(t *testing.T) {
	w := fakeOpenAI(t, "sorry, I can't help", nil)
	d := &domain.ProductDraft{Name: "GOWN"}
	assert.Error(t, w.Polish(context.Background(), d))
	assert.Equal(t, "GOWN", d.Name)
}
