package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	ListFiles(ctx context.Context) error
	Upload(ctx context.Context) error
	Download(ctx context.Context) error
	Delete(ctx context.Context) error
	Profile(ctx context.Context) error
	SetName(ctx context.Context) error
	Analytics(ctx context.Context) error
	Activities(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the CloudSafe CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - files | list   — list stored files
//	  - upload         — upload local files
//	  - download       — download a stored file
//	  - delete         — delete a stored file
//	  - profile        — show the account profile
//	  - setname        — change the display name
//	  - analytics      — storage usage summary
//	  - activities     — activity log; optional action, sort order and date range,
//	    e.g. "activities upload name-asc 2026-08-01 2026-08-31"
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers log
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cloudsafe %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: files, upload, download, delete, profile, setname, analytics, activities, logout, exit")
				printlnFn("  activities takes optional filters: [upload|download|delete] [date-asc|date-desc|name-asc|name-desc] [from] [to]")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "l", "list", "files":
			_ = a.ListFiles(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "download":
			_ = a.Download(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "setname":
			_ = a.SetName(ctx)

		case "analytics":
			_ = a.Analytics(ctx)

		case "activities":
			_ = a.Activities(ctx, parts[1:])

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.userName)
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to CloudSafe CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
