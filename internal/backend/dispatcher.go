package backend

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"conch/internal/config"
	"conch/internal/normalize"
)

// remoteCallTimeout bounds every remote generation call. Generous because a
// local inference server may need to warm the model up on the first turn.
const remoteCallTimeout = 60 * time.Second

// Dispatcher resolves configuration into an effective adapter once, then
// routes every turn through it. GenerateResponse is total: any adapter
// failure is answered by the demo adapter for that turn, and the caller never
// sees an error.
type Dispatcher struct {
	adapter      Adapter
	demo         *DemoAdapter
	systemPrompt string
	maxTokens    int
	temperature  float64
	log          *slog.Logger
}

// NewDispatcher validates the selected backend's declared prerequisites (keys
// and endpoints present, no network probing) and permanently downgrades to
// demo with a single warning when they are missing. httpClient may be nil.
func NewDispatcher(cfg config.Config, systemPrompt string, httpClient *http.Client, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: remoteCallTimeout}
	}

	demo := NewDemo()

	adapter, cfgErr := resolve(cfg, httpClient, demo)
	if cfgErr != nil {
		logger.Warn("backend prerequisites missing, using demo responder",
			"backend", cfgErr.Backend, "reason", cfgErr.Reason)
		adapter = demo
	}

	return &Dispatcher{
		adapter:      adapter,
		demo:         demo,
		systemPrompt: systemPrompt,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		log:          logger,
	}
}

func resolve(cfg config.Config, client *http.Client, demo *DemoAdapter) (Adapter, *ConfigError) {
	switch ID(cfg.Backend) {
	case Demo, "":
		return demo, nil
	case Ollama:
		if cfg.OllamaURL == "" {
			return nil, &ConfigError{Backend: Ollama, Reason: "OLLAMA_URL not set"}
		}
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel, client), nil
	case OpenAI:
		if cfg.OpenAIKey == "" {
			return nil, &ConfigError{Backend: OpenAI, Reason: "OPENAI_API_KEY not set"}
		}
		return NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, client), nil
	case Anthropic:
		if cfg.AnthropicKey == "" {
			return nil, &ConfigError{Backend: Anthropic, Reason: "ANTHROPIC_API_KEY not set"}
		}
		return NewAnthropic(cfg.AnthropicKey, cfg.AnthropicModel, client), nil
	case HuggingFace:
		if cfg.HuggingFaceKey == "" {
			return nil, &ConfigError{Backend: HuggingFace, Reason: "HUGGINGFACE_API_KEY not set"}
		}
		return NewHuggingFace(cfg.HuggingFaceKey, cfg.HuggingFaceModel, client), nil
	default:
		return nil, &ConfigError{Backend: ID(cfg.Backend), Reason: "unknown backend"}
	}
}

// Effective reports which backend actually answers after construction-time
// validation.
func (d *Dispatcher) Effective() ID { return d.adapter.ID() }

// GenerateResponse produces a normalized in-character reply for one turn. It
// never fails: a remote error triggers one immediate local retry for this
// turn only, without disabling the remote backend for future turns.
func (d *Dispatcher) GenerateResponse(ctx context.Context, prompt string) string {
	callCtx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()

	raw, err := d.adapter.Call(callCtx, prompt, d.systemPrompt, d.maxTokens, d.temperature)
	if err == nil && strings.TrimSpace(raw) == "" {
		err = callErr(d.adapter.ID(), "empty completion", nil)
	}
	if err != nil {
		d.log.Warn("backend call failed, answering from local archive",
			"backend", d.adapter.ID(), "err", err)
		raw = d.demo.Reply(prompt)
	}

	return normalize.Normalize(raw)
}
