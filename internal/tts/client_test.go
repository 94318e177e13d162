package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conch/internal/config"
)

func newTestClient(t *testing.T) (*Client, *int32, *int32) {
	t.Helper()

	var synthCalls, downloadCalls int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/speech/generate", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&synthCalls, 1)

		assert.Equal(t, "test-key", r.Header.Get("api-key"))

		var req synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Text)
		assert.Equal(t, "Ryan", req.VoiceID)

		json.NewEncoder(w).Encode(synthesizeResponse{AudioFile: srv.URL + "/audio/out.mp3"})
	})
	mux.HandleFunc("/audio/out.mp3", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&downloadCalls, 1)
		w.Write([]byte("fake-mp3-bytes"))
	})

	c := New(config.TTSConfig{
		Enabled: true,
		APIKey:  "test-key",
		BaseURL: srv.URL,
		VoiceID: "Ryan",
		Style:   "Conversational",
		Format:  "MP3",
	}, nil)

	return c, &synthCalls, &downloadCalls
}

func TestSynthesizeDownloadsAudio(t *testing.T) {
	c, _, _ := newTestClient(t)

	audio, err := c.Synthesize(context.Background(), "Welcome, denizen of Amphitopia.")
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-mp3-bytes"), audio)
}

func TestSynthesizeCachesByText(t *testing.T) {
	c, synthCalls, downloadCalls := newTestClient(t)

	welcome := "Welcome, denizen of Amphitopia."
	for i := 0; i < 3; i++ {
		_, err := c.Synthesize(context.Background(), welcome)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(synthCalls), "fixed lines are synthesized once")
	assert.Equal(t, int32(1), atomic.LoadInt32(downloadCalls))

	_, err := c.Synthesize(context.Background(), "A different line.")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(synthCalls))
}

func TestSynthesizeCleansText(t *testing.T) {
	c, synthCalls, _ := newTestClient(t)

	_, err := c.Synthesize(context.Background(), "*The conch* says:\n  hello `world`")
	require.NoError(t, err)

	// Same text modulo formatting hits the cache.
	_, err = c.Synthesize(context.Background(), "The conch says: hello world")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(synthCalls))
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	c, synthCalls, _ := newTestClient(t)

	_, err := c.Synthesize(context.Background(), "***")
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(synthCalls))
}

func TestEnabledRequiresKey(t *testing.T) {
	c := New(config.TTSConfig{Enabled: true}, nil)
	assert.False(t, c.Enabled())

	c = New(config.TTSConfig{Enabled: true, APIKey: "k"}, nil)
	assert.True(t, c.Enabled())

	c = New(config.TTSConfig{Enabled: false, APIKey: "k"}, nil)
	assert.False(t, c.Enabled())
}
