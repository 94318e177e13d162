package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const hfDefaultBaseURL = "https://api-inference.huggingface.co"

// HuggingFaceAdapter calls the HuggingFace Inference API with a single-prompt
// instruct envelope. The API is loose about response shape: depending on the
// model it returns either a list of generations or a single object, so
// extraction checks both before giving up.
type HuggingFaceAdapter struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewHuggingFace(apiKey, model string, client *http.Client) *HuggingFaceAdapter {
	return &HuggingFaceAdapter{
		BaseURL: hfDefaultBaseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  client,
	}
}

func (h *HuggingFaceAdapter) ID() ID { return HuggingFace }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

func (h *HuggingFaceAdapter) Call(ctx context.Context, prompt, systemPrompt string, maxTokens int, temperature float64) (string, error) {
	reqBody := hfRequest{
		Inputs: fmt.Sprintf("<s>[INST] %s\n\n%s [/INST]", systemPrompt, prompt),
		Parameters: hfParameters{
			MaxNewTokens:   maxTokens,
			Temperature:    temperature,
			ReturnFullText: false,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", callErr(HuggingFace, "marshal request", err)
	}

	base := h.BaseURL
	if base == "" {
		base = hfDefaultBaseURL
	}
	url := strings.TrimRight(base, "/") + "/models/" + h.Model

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", callErr(HuggingFace, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.APIKey)

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", callErr(HuggingFace, "request", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", callErr(HuggingFace, "model is loading", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", callErr(HuggingFace, fmt.Sprintf("authentication failed (status %d)", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return "", callErr(HuggingFace, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", callErr(HuggingFace, "decode response", err)
	}

	text, err := extractGeneratedText(raw)
	if err != nil {
		return "", callErr(HuggingFace, "malformed response", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", callErr(HuggingFace, "empty completion", nil)
	}
	return text, nil
}

func extractGeneratedText(raw json.RawMessage) (string, error) {
	var list []hfGeneration
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", fmt.Errorf("empty generation list")
		}
		return list[0].GeneratedText, nil
	}

	var single hfGeneration
	if err := json.Unmarshal(raw, &single); err == nil {
		return single.GeneratedText, nil
	}

	return "", fmt.Errorf("unrecognized response shape")
}
