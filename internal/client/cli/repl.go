package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL command. A command with a route is shown only when the
// route guard allows the current session onto that screen.
type command struct {
	name    string
	route   string
	usage   string
	minArgs int
	run     func(ctx context.Context, args []string) error
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	lookup(name string) (command, bool)
	help() string
	exec(ctx context.Context, cmd command, args []string) error
	report(err error)
}

// runREPL starts a read-eval-print loop over reader.
//
// The first token of each line is the command name; the rest are its
// arguments. The loop exits on EOF or when the user types "exit" or "quit".
// Command errors are handed to report and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ca %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(a.help())
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := a.lookup(name)
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if len(args) < cmd.minArgs {
			printlnFn("Usage:", cmd.usage)
			continue
		}

		a.report(a.exec(ctx, cmd, args))

		if ctx.Err() != nil {
			return
		}
	}
}
