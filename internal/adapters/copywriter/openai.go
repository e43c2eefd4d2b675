// Package copywriter turns supplier product copy into storefront copy with an
// OpenAI chat model.
package copywriter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/phenrril/petalkids/internal/domain"
)

const DefaultModel = "gpt-4o-mini"

const systemPrompt = `You write product copy for a children's clothing store.
Always answer with one JSON object: {"name": "...", "description": "...", "materials": "...", "care": "..."}.
Keep names under 60 characters. Descriptions are two or three short sentences for parents.
Never invent materials or care instructions: leave a field empty when the source does not say.`

var ErrEmptyResponse = errors.New("copywriter: empty model response")

type Writer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func New(apiKey, model string) *Writer {
	return NewWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewWithConfig allows a different base URL, e.g. a proxy or a test server.
func NewWithConfig(cfg openai.ClientConfig, model string) *Writer {
	if model == "" {
		model = DefaultModel
	}
	return &Writer{client: openai.NewClientWithConfig(cfg), model: model, timeout: 60 * time.Second}
}

type polished struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Materials   string `json:"materials"`
	Care        string `json:"care"`
}

// Polish rewrites the draft's name and description in place. Materials and
// care are only filled when the draft has none.
func (w *Writer) Polish(ctx context.Context, d *domain.ProductDraft) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	resp, err := w.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: w.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt(d)},
		},
		Temperature: 0.3,
		MaxTokens:   600,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return fmt.Errorf("copywriter: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var out polished
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		log.Error().Err(err).Str("content", content).Msg("copywriter response is not JSON")
		return fmt.Errorf("copywriter: decode response: %w", err)
	}
	if v := strings.TrimSpace(out.Name); v != "" {
		d.Name = v
	}
	if v := strings.TrimSpace(out.Description); v != "" {
		d.Description = v
	}
	if v := strings.TrimSpace(out.Materials); v != "" && d.Materials == "" {
		d.Materials = v
	}
	if v := strings.TrimSpace(out.Care); v != "" && d.Care == "" {
		d.Care = v
	}
	log.Debug().Str("model", w.model).Int("tokens", resp.Usage.TotalTokens).Msg("draft polished")
	return nil
}

func prompt(d *domain.ProductDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nDescription: %s\n", d.Name, d.Description)
	if d.Materials != "" {
		fmt.Fprintf(&b, "Materials: %s\n", d.Materials)
	}
	if d.Care != "" {
		fmt.Fprintf(&b, "Care: %s\n", d.Care)
	}
	keys := make([]string, 0, len(d.Attributes))
	for k := range d.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, d.Attributes[k])
	}
	return b.String()
}
