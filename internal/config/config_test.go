package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"LLM_BACKEND", "OPENAI_API_KEY", "OPENAI_MODEL", "ANTHROPIC_API_KEY",
		"HUGGINGFACE_API_KEY", "OLLAMA_URL", "MAX_TOKENS", "TEMPERATURE",
		"TTS_ENABLED", "STT_ENABLED", "SOCKS_PROXY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, BackendDemo, cfg.Backend)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, "llama2", cfg.OllamaModel)
	assert.Equal(t, 150, cfg.MaxTokens)
	assert.InDelta(t, 0.8, cfg.Temperature, 1e-9)
	assert.False(t, cfg.TTS.Enabled)
	assert.False(t, cfg.STT.Enabled)
	assert.Equal(t, "MP3", cfg.TTS.Format)
	assert.Equal(t, "models/ggml-base.en.bin", cfg.STT.ModelPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LLM_BACKEND", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("MAX_TOKENS", "200")
	t.Setenv("TEMPERATURE", "0.3")
	t.Setenv("TTS_ENABLED", "TRUE")
	t.Setenv("VOICE_FORMAT", "wav")
	t.Setenv("SOCKS_PROXY", "127.0.0.1:8888")

	cfg := Load()

	assert.Equal(t, BackendOpenAI, cfg.Backend, "backend name is lowercased")
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, 200, cfg.MaxTokens)
	assert.InDelta(t, 0.3, cfg.Temperature, 1e-9)
	assert.True(t, cfg.TTS.Enabled)
	assert.Equal(t, "WAV", cfg.TTS.Format)
	assert.Equal(t, "127.0.0.1:8888", cfg.SocksProxy)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_TOKENS", "lots")
	t.Setenv("TEMPERATURE", "-3")

	cfg := Load()

	assert.Equal(t, 150, cfg.MaxTokens)
	assert.InDelta(t, 0.8, cfg.Temperature, 1e-9)
}
