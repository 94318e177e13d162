package ipc

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlRoundTrip(t *testing.T) {
	got := make(chan ControlMessage, 1)

	require.NoError(t, StartServer(func(msg ControlMessage) {
		got <- msg
	}))

	require.NoError(t, Send(ControlMessage{Cmd: CmdSay, Arg: "hello"}))

	select {
	case msg := <-got:
		assert.Equal(t, CmdSay, msg.Cmd)
		assert.Equal(t, "hello", msg.Arg)
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestServeStopsWhenListenerCloses(t *testing.T) {
	ln, err := net.Listen("unix", filepath.Join(t.TempDir(), "ctl.sock"))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		serve(ln, func(ControlMessage) {})
		close(done)
	}()

	require.NoError(t, ln.Close())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("accept loop kept running after the listener closed")
	}
}
