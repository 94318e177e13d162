// Package backend routes prompts to one of several interchangeable text
// generation sources and degrades to a local rule-based responder whenever a
// remote source is misconfigured or fails.
package backend

import (
	"context"
	"fmt"
)

// ID names a response source.
type ID string

const (
	Demo        ID = "demo"
	Ollama      ID = "ollama"
	OpenAI      ID = "openai"
	Anthropic   ID = "anthropic"
	HuggingFace ID = "huggingface"
)

// Adapter is the uniform contract every response source implements. Remote
// adapters may fail with *BackendError; the demo adapter never fails.
type Adapter interface {
	ID() ID
	Call(ctx context.Context, prompt, systemPrompt string, maxTokens int, temperature float64) (string, error)
}

// BackendError classifies a single failed call against a remote source:
// network failure, authentication failure, timeout, malformed response, or an
// empty completion.
type BackendError struct {
	Backend ID
	Reason  string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Backend, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Backend, e.Reason)
}

func (e *BackendError) Unwrap() error { return e.Err }

func callErr(id ID, reason string, err error) *BackendError {
	return &BackendError{Backend: id, Reason: reason, Err: err}
}

// ConfigError reports missing prerequisites for the selected backend. It is
// produced once at construction time and surfaced only as a warning; the
// effective backend silently becomes demo.
type ConfigError struct {
	Backend ID
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Backend, e.Reason)
}
