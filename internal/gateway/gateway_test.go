package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conch/internal/backend"
	"conch/internal/config"
	"conch/internal/persona"
)

func dialTestGateway(t *testing.T) *websocket.Conn {
	t.Helper()

	char := persona.Conch()
	d := backend.NewDispatcher(config.Config{Backend: config.BackendDemo}, char.SystemPrompt, nil, slog.Default())
	srv := httptest.NewServer(New(d, char, slog.Default()))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readChat(t *testing.T, conn *websocket.Conn) ChatMessage {
	t.Helper()
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg ChatMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestGatewaySendsWelcomeFirst(t *testing.T) {
	conn := dialTestGateway(t)

	welcome := readChat(t, conn)
	assert.Equal(t, "welcome", welcome.Kind)
	assert.Equal(t, "The Conch", welcome.From)
	assert.True(t, strings.HasSuffix(welcome.Content, "?"))
}

func TestGatewayAnswersPrompts(t *testing.T) {
	conn := dialTestGateway(t)
	readChat(t, conn) // welcome

	prompts := []string{"what is running?", "hello", "tell me about camels"}
	for _, p := range prompts {
		out, err := json.Marshal(ChatMessage{From: "user", Kind: "prompt", Content: p})
		require.NoError(t, err)
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, out))

		reply := readChat(t, conn)
		assert.Equal(t, "reply", reply.Kind, "prompt %q", p)
		require.NotEmpty(t, reply.Content)
		assert.True(t, strings.HasSuffix(reply.Content, "?"), "prompt %q -> %q", p, reply.Content)
	}
}

func TestGatewaySkipsMalformedFrames(t *testing.T) {
	conn := dialTestGateway(t)
	readChat(t, conn) // welcome

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	out, _ := json.Marshal(ChatMessage{Kind: "prompt", Content: "what is land?"})
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, out))

	reply := readChat(t, conn)
	assert.Equal(t, "reply", reply.Kind)
	assert.True(t, strings.HasSuffix(reply.Content, "?"))
}
