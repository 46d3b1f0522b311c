package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	fail     error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.fail
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(_ context.Context, args []string) error {
	return f.record("register", args)
}
func (f *fakeExec) Login(_ context.Context, args []string) error {
	f.loggedIn = true
	return f.record("login", args)
}
func (f *fakeExec) Logout(_ context.Context, args []string) error {
	f.loggedIn = false
	return f.record("logout", args)
}
func (f *fakeExec) List(_ context.Context, args []string) error { return f.record("list", args) }
func (f *fakeExec) Expiring(_ context.Context, args []string) error {
	return f.record("expiring", args)
}
func (f *fakeExec) Favorites(_ context.Context, args []string) error {
	return f.record("favorites", args)
}
func (f *fakeExec) Show(_ context.Context, args []string) error { return f.record("show", args) }
func (f *fakeExec) Add(_ context.Context, args []string) error  { return f.record("add", args) }
func (f *fakeExec) AddBatch(_ context.Context, args []string) error {
	return f.record("batch", args)
}
func (f *fakeExec) Edit(_ context.Context, args []string) error   { return f.record("edit", args) }
func (f *fakeExec) Delete(_ context.Context, args []string) error { return f.record("delete", args) }
func (f *fakeExec) Favorite(_ context.Context, args []string) error {
	return f.record("fav", args)
}
func (f *fakeExec) Places(_ context.Context, args []string) error { return f.record("places", args) }
func (f *fakeExec) Categories(_ context.Context, args []string) error {
	return f.record("categories", args)
}
func (f *fakeExec) Notes(_ context.Context, args []string) error  { return f.record("notes", args) }
func (f *fakeExec) Note(_ context.Context, args []string) error   { return f.record("note", args) }
func (f *fakeExec) Recipe(_ context.Context, args []string) error { return f.record("recipe", args) }
func (f *fakeExec) DismissHint(_ context.Context, args []string) error {
	return f.record("nohint", args)
}
func (f *fakeExec) Profile(_ context.Context, args []string) error {
	return f.record("profile", args)
}

func runLines(exec execIface, lines ...string) string {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "(status)" }, in, &out)
	return out.String()
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	exec := &fakeExec{}
	out := runLines(exec,
		"help",
		"list",
		"login",
		"help",
		"",
		"list -fav -sort asc",
		"l",
		"show 12",
		"note pin abc",
		"foobar",
		"logout -purge",
		"exit",
		"list",
	)

	assert.Equal(t, []string{
		"login",
		"list -fav -sort asc",
		"list",
		"show 12",
		"note pin abc",
		"logout -purge",
	}, exec.calls)
	assert.Contains(t, out, helpLoggedOut)
	assert.Contains(t, out, helpLoggedIn)
	assert.Contains(t, out, "Error: please login first")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "fk (status)> ")
	assert.True(t, strings.HasSuffix(out, "Bye!\n"))
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	out := runLines(exec, "places", "categories")
	assert.Equal(t, []string{"places", "categories"}, exec.calls)
	assert.NotContains(t, out, "Bye!")
}

func TestRunREPL_PrintsHandlerErrors(t *testing.T) {
	exec := &fakeExec{loggedIn: true, fail: fmt.Errorf("list error: %w", client.ErrUnavailable)}
	out := runLines(exec, "list", "quit")
	assert.Contains(t, out, "Error: backend unreachable, try again later")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{client.ErrUnauthenticated, "session expired or invalid, please login again"},
		{fmt.Errorf("x: %w", client.ErrUnauthorized), "session expired or invalid, please login again"},
		{client.ErrUnavailable, "backend unreachable, try again later"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, describe(tt.err))
	}
}

func TestNeedArg(t *testing.T) {
	_, err := needArg(nil, "show <id>")
	require.EqualError(t, err, "usage: show <id>")

	v, err := needArg([]string{"7", "x"}, "show <id>")
	require.NoError(t, err)
	require.Equal(t, "7", v)
}
