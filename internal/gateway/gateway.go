// Package gateway exposes the conversation core to websocket clients. Each
// connection is its own conversation: prompts come in as JSON frames and
// normalized replies go back on the same socket, in order.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"conch/internal/backend"
	"conch/internal/persona"
)

type ChatMessage struct {
	From    string `json:"from"`
	Kind    string `json:"kind"` // "prompt", "reply", "welcome"
	Content string `json:"content"`
}

type Gateway struct {
	dispatcher *backend.Dispatcher
	char       persona.Character
	upgrader   websocket.Upgrader
	log        *slog.Logger
}

func New(d *backend.Dispatcher, char persona.Character, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		dispatcher: d,
		char:       char,
		upgrader:   websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		log:        logger,
	}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	g.log.Info("client connected", "remote", r.RemoteAddr)

	welcome := ChatMessage{From: g.char.Name, Kind: "welcome", Content: g.char.Welcome}
	if err := writeMessage(conn, welcome); err != nil {
		g.log.Error("failed to send welcome", "err", err)
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			g.log.Info("client disconnected", "remote", r.RemoteAddr)
			return
		}

		var msg ChatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			g.log.Warn("malformed frame", "err", err)
			continue
		}
		if msg.Content == "" {
			continue
		}

		reply := g.dispatcher.GenerateResponse(r.Context(), msg.Content)

		out := ChatMessage{From: g.char.Name, Kind: "reply", Content: reply}
		if err := writeMessage(conn, out); err != nil {
			g.log.Error("failed to send reply", "err", err)
			return
		}
	}
}

func writeMessage(conn *websocket.Conn, msg ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Serve blocks serving the gateway on addr until the listener fails or ctx is
// canceled.
func Serve(ctx context.Context, addr string, g *Gateway) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", g)

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	return srv.ListenAndServe()
}
