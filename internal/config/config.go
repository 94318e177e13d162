package config

import (
	"os"
	"strconv"
	"strings"
)

// Backend identifiers accepted in LLM_BACKEND.
const (
	BackendDemo        = "demo"
	BackendOllama      = "ollama"
	BackendOpenAI      = "openai"
	BackendAnthropic   = "anthropic"
	BackendHuggingFace = "huggingface"
)

// Config is resolved once at startup and read-only afterwards.
type Config struct {
	Backend string

	OpenAIKey   string
	OpenAIModel string

	AnthropicKey   string
	AnthropicModel string

	HuggingFaceKey   string
	HuggingFaceModel string

	OllamaURL   string
	OllamaModel string

	MaxTokens   int
	Temperature float64

	SocksProxy string

	TTS TTSConfig
	STT STTConfig
}

type TTSConfig struct {
	Enabled bool
	APIKey  string
	BaseURL string
	VoiceID string
	Style   string
	Format  string
}

type STTConfig struct {
	Enabled   bool
	ModelPath string
	Language  string
}

// Load reads the configuration from the environment. Call godotenv.Load
// before this if a .env file should be honored.
func Load() Config {
	return Config{
		Backend: strings.ToLower(getenv("LLM_BACKEND", BackendDemo)),

		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: getenv("OPENAI_MODEL", "gpt-4o-mini"),

		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel: getenv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),

		HuggingFaceKey:   os.Getenv("HUGGINGFACE_API_KEY"),
		HuggingFaceModel: getenv("HUGGINGFACE_MODEL", "mistralai/Mistral-7B-Instruct-v0.2"),

		OllamaURL:   getenv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: getenv("OLLAMA_MODEL", "llama2"),

		MaxTokens:   getenvInt("MAX_TOKENS", 150),
		Temperature: getenvFloat("TEMPERATURE", 0.8),

		SocksProxy: os.Getenv("SOCKS_PROXY"),

		TTS: TTSConfig{
			Enabled: getenvBool("TTS_ENABLED"),
			APIKey:  os.Getenv("VOICE_API_KEY"),
			BaseURL: getenv("VOICE_API_URL", "https://api.murf.ai/v1"),
			VoiceID: getenv("VOICE_ID", "Ryan"),
			Style:   getenv("VOICE_STYLE", "Conversational"),
			Format:  strings.ToUpper(getenv("VOICE_FORMAT", "MP3")),
		},
		STT: STTConfig{
			Enabled:   getenvBool("STT_ENABLED"),
			ModelPath: getenv("WHISPER_MODEL", "models/ggml-base.en.bin"),
			Language:  getenv("STT_LANGUAGE", "auto"),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getenvFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}
