package backend

import (
	"context"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicAdapter calls the Anthropic Messages API.
type AnthropicAdapter struct {
	client anthropic.Client
	model  string
}

func NewAnthropic(apiKey, model string, httpClient *http.Client) *AnthropicAdapter {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &AnthropicAdapter{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (a *AnthropicAdapter) ID() ID { return Anthropic }

func (a *AnthropicAdapter) Call(ctx context.Context, prompt, systemPrompt string, maxTokens int, temperature float64) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", callErr(Anthropic, "create message", err)
	}
	if message == nil {
		return "", callErr(Anthropic, "nil message", nil)
	}

	var out strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(text.Text)
		}
	}

	result := strings.TrimSpace(out.String())
	if result == "" {
		return "", callErr(Anthropic, "empty completion", nil)
	}
	return result, nil
}
