package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
)

// execIface is the command surface the REPL dispatches to. App implements
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error

	List(ctx context.Context, args []string) error
	Expiring(ctx context.Context, args []string) error
	Favorites(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	AddBatch(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Favorite(ctx context.Context, args []string) error
	Places(ctx context.Context, args []string) error
	Categories(ctx context.Context, args []string) error

	Notes(ctx context.Context, args []string) error
	Note(ctx context.Context, args []string) error

	Recipe(ctx context.Context, args []string) error
	DismissHint(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = `Available commands:
  (l)ist [-tab T] [-search S] [-fav] [-cat N] [-sort asc|desc] [-cached]
  expiring, favorites     same flags as list
  show <id>, add, batch, edit <id>, delete <id>, fav <id>
  places, categories
  notes [search], note add|edit <id>|pin <id>|rm <id>
  recipe [-cat N], nohint
  profile [rename <name>|delete]
  logout [-purge], help, exit`
)

var errNeedLogin = errors.New("please login first")

// runREPL reads commands from reader until EOF or "exit", dispatching each
// to a. Errors from handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "fk %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(out, "Bye!")
			return
		}
		if cmdErr := dispatch(ctx, a, cmd, args, out); cmdErr != nil {
			fmt.Fprintln(out, "Error:", describe(cmdErr))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			fmt.Fprintln(out, helpLoggedIn)
		} else {
			fmt.Fprintln(out, helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx, args)
	case "login":
		return a.Login(ctx, args)
	}

	handler, ok := commands(a)[cmd]
	if !ok {
		fmt.Fprintln(out, "Unknown command:", cmd)
		return nil
	}
	if !a.isLoggedIn() {
		return errNeedLogin
	}
	return handler(ctx, args)
}

func commands(a execIface) map[string]func(context.Context, []string) error {
	return map[string]func(context.Context, []string) error{
		"logout":     a.Logout,
		"l":          a.List,
		"list":       a.List,
		"expiring":   a.Expiring,
		"favorites":  a.Favorites,
		"show":       a.Show,
		"add":        a.Add,
		"batch":      a.AddBatch,
		"edit":       a.Edit,
		"delete":     a.Delete,
		"fav":        a.Favorite,
		"places":     a.Places,
		"categories": a.Categories,
		"notes":      a.Notes,
		"note":       a.Note,
		"recipe":     a.Recipe,
		"nohint":     a.DismissHint,
		"profile":    a.Profile,
	}
}

// describe turns transport errors into short user-facing text.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthenticated), errors.Is(err, client.ErrUnauthorized):
		return "session expired or invalid, please login again"
	case errors.Is(err, client.ErrUnavailable):
		return "backend unreachable, try again later"
	default:
		return err.Error()
	}
}

func needArg(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return args[0], nil
}
