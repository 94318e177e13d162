// Package tts synthesizes replies through a hosted voice API and plays them
// back locally. The conversation core only hands it plain normalized text.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"conch/internal/config"
)

// Client generates speech via a Murf-style synthesis API: one POST returns a
// URL to the rendered audio, which is then downloaded. Synthesized audio is
// cached by text so fixed lines (the welcome message) hit the API once.
type Client struct {
	cfg  config.TTSConfig
	http *http.Client
	log  *slog.Logger

	mu    sync.Mutex
	cache map[string][]byte
}

func New(cfg config.TTSConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: 120 * time.Second},
		log:   logger,
		cache: make(map[string][]byte),
	}
}

func (c *Client) Enabled() bool {
	return c.cfg.Enabled && c.cfg.APIKey != ""
}

type synthesizeRequest struct {
	Text       string  `json:"text"`
	VoiceID    string  `json:"voiceId"`
	Style      string  `json:"style,omitempty"`
	Format     string  `json:"format"`
	SampleRate float64 `json:"sampleRate"`
}

type synthesizeResponse struct {
	AudioFile string `json:"audioFile"`
}

// Synthesize renders text to encoded audio bytes in the configured format.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = cleanForSpeech(text)
	if text == "" {
		return nil, fmt.Errorf("tts: nothing to synthesize")
	}

	c.mu.Lock()
	cached, ok := c.cache[text]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:       text,
		VoiceID:    c.cfg.VoiceID,
		Style:      c.cfg.Style,
		Format:     c.cfg.Format,
		SampleRate: 44100,
	})
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/speech/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tts: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts: unexpected status %d", resp.StatusCode)
	}

	var synth synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&synth); err != nil {
		return nil, fmt.Errorf("tts: decode response: %w", err)
	}
	if synth.AudioFile == "" {
		return nil, fmt.Errorf("tts: no audio file in response")
	}

	audio, err := c.download(ctx, synth.AudioFile)
	if err != nil {
		return nil, err
	}
	c.log.Debug("synthesized audio", "bytes", len(audio), "format", c.cfg.Format)

	c.mu.Lock()
	c.cache[text] = audio
	c.mu.Unlock()

	return audio, nil
}

// Speak synthesizes text and plays it through the default audio device.
func (c *Client) Speak(ctx context.Context, text string) error {
	if !c.Enabled() {
		return nil
	}
	audio, err := c.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return Play(audio, c.cfg.Format)
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("tts: create download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts: download status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("tts: empty audio body")
	}
	return data, nil
}

// cleanForSpeech drops formatting leftovers the voice would read out loud and
// joins multi-line text into one utterance.
func cleanForSpeech(text string) string {
	cleaned := strings.NewReplacer("*", "", "_", "", "`", "").Replace(text)

	var parts []string
	for _, line := range strings.Split(cleaned, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
