package main

import (
	"fmt"

	cli "github.com/spf13/pflag"

	"conch/internal/ipc"
)

func main() {
	say := cli.StringP("say", "s", "", "Speak text through the daemon instead of listening")
	file := cli.StringP("file", "f", "", "Answer a recorded question from an audio file")
	cli.Parse()

	msg := ipc.ControlMessage{Cmd: ipc.CmdListen}
	switch {
	case *say != "":
		msg = ipc.ControlMessage{Cmd: ipc.CmdSay, Arg: *say}
	case *file != "":
		msg = ipc.ControlMessage{Cmd: ipc.CmdAskFile, Arg: *file}
	}

	if err := ipc.Send(msg); err != nil {
		fmt.Println("conch-daemon not running:", err)
	}
}
