package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"forma/internal/ipc"
)

func main() {
	socketPath := cli.String("socket", ipc.DefaultSocketPath, "Control socket path")
	cli.Parse()

	args := cli.Args()
	cmd := "trigger"
	if len(args) > 0 {
		cmd = args[0]
	}

	msg := ipc.ControlMessage{Cmd: cmd}
	if len(args) > 1 {
		msg.Text = strings.Join(args[1:], " ")
	}

	reply, err := ipc.Send(*socketPath, msg)
	if err != nil {
		fmt.Println("forma-daemon not running:", err)
		os.Exit(1)
	}

	if reply.Reply != "" {
		fmt.Println(reply.Reply)
	}
	if !reply.Ok {
		os.Exit(1)
	}
}
