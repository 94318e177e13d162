package backend

import (
	"context"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIAdapter calls the OpenAI Chat Completions API.
type OpenAIAdapter struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string, httpClient *http.Client) *OpenAIAdapter {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIAdapter{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (a *OpenAIAdapter) ID() ID { return OpenAI }

func (a *OpenAIAdapter) Call(ctx context.Context, prompt, systemPrompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(a.model),
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", callErr(OpenAI, "chat completion", err)
	}

	if len(resp.Choices) == 0 {
		return "", callErr(OpenAI, "no choices in response", nil)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", callErr(OpenAI, "empty completion", nil)
	}
	return content, nil
}
