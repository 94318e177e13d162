// Package ipc is the unix-socket control channel between conch-ctl and the
// voice daemon.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
)

const SocketPath = "/tmp/conch.sock"

// Control commands understood by the daemon.
const (
	CmdListen  = "listen"  // record one utterance and answer it
	CmdSay     = "say"     // speak the argument verbatim through TTS
	CmdAskFile = "askfile" // transcribe the audio file at the given path and answer it
)

type ControlMessage struct {
	Cmd string `json:"cmd"`
	Arg string `json:"arg,omitempty"`
}

// StartServer listens on the control socket and invokes handler for every
// decoded message. It returns after the listener is up; connections are
// served in the background.
func StartServer(handler func(ControlMessage)) error {
	os.Remove(SocketPath)

	ln, err := net.Listen("unix", SocketPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go serve(ln, handler)
	return nil
}

func serve(ln net.Listener, handler func(ControlMessage)) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		go handleConn(conn, handler)
	}
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		return
	}
	handler(msg)
}

// Send delivers one control message to a running daemon.
func Send(msg ControlMessage) error {
	conn, err := net.Dial("unix", SocketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(msg)
}
