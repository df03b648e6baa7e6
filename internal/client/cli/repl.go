package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Stats(ctx context.Context) error
	Reload(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Busy(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Token(ctx context.Context) error
}

const helpText = "Available commands: (l)ist, stats, (r)eload, delete [id], busy, whoami, token, exit"

// runREPL starts a simple read–eval–print loop for the admin CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
//	help            show available commands
//	list | l        users, newest first, with subscription stats
//	stats           subscription stats only
//	reload | r      fetch the directory again
//	delete [id]     delete a user after typing its email
//	busy            deletions still in flight
//	whoami          current identity and administrator status
//	token           replace the access token
//	exit | quit     leave the program
//
// Errors returned by command handlers are not printed here; handlers and the
// notifier report them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "admin %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)

		case "l", "list":
			_ = a.List(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "r", "reload":
			_ = a.Reload(ctx)

		case "delete":
			_ = a.Delete(ctx, args)

		case "busy":
			_ = a.Busy(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "token":
			_ = a.Token(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
