package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// OllamaAdapter talks to a local Ollama server over its single-prompt
// /api/generate endpoint. The first call after the server starts may hit a
// model cold-start, so the HTTP client's timeout should allow for warm-up.
type OllamaAdapter struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewOllama(baseURL, model string, client *http.Client) *OllamaAdapter {
	return &OllamaAdapter{BaseURL: baseURL, Model: model, Client: client}
}

func (o *OllamaAdapter) ID() ID { return Ollama }

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

func (o *OllamaAdapter) Call(ctx context.Context, prompt, systemPrompt string, maxTokens int, temperature float64) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:  o.Model,
		Prompt: fmt.Sprintf("%s\n\nHuman: %s\n\nAssistant:", systemPrompt, prompt),
		Stream: false,
		Options: ollamaOptions{
			Temperature: temperature,
			NumPredict:  maxTokens,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", callErr(Ollama, "marshal request", err)
	}

	url := strings.TrimRight(o.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", callErr(Ollama, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", callErr(Ollama, "request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", callErr(Ollama, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", callErr(Ollama, "decode response", err)
	}

	text := strings.TrimSpace(genResp.Response)
	if text == "" {
		return "", callErr(Ollama, "empty completion", nil)
	}
	return text, nil
}
