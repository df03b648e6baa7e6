package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
	args  []string
}

func (f *fakeExec) List(context.Context) error   { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Stats(context.Context) error  { f.calls = append(f.calls, "stats"); return nil }
func (f *fakeExec) Reload(context.Context) error { f.calls = append(f.calls, "reload"); return nil }
func (f *fakeExec) Delete(_ context.Context, args []string) error {
	f.calls = append(f.calls, "delete")
	f.args = args
	return nil
}
func (f *fakeExec) Busy(context.Context) error   { f.calls = append(f.calls, "busy"); return nil }
func (f *fakeExec) WhoAmI(context.Context) error { f.calls = append(f.calls, "whoami"); return nil }
func (f *fakeExec) Token(context.Context) error  { f.calls = append(f.calls, "token"); return nil }

func TestRunREPL_DispatchesCommands(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"l",
		"",
		"stats",
		"reload",
		"delete u42 extra",
		"busy",
		"whoami",
		"token",
		"foobar",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "(status)" }, rdr(input), &out)

	assert.Equal(t, []string{"list", "stats", "reload", "delete", "busy", "whoami", "token"}, exec.calls)
	assert.Equal(t, []string{"u42", "extra"}, exec.args)
	assert.Contains(t, out.String(), helpText)
	assert.Contains(t, out.String(), "Unknown command: foobar")
	assert.Contains(t, out.String(), "admin (status)> ")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("r\nlist"), &out)

	assert.Equal(t, []string{"reload", "list"}, exec.calls)
	assert.NotContains(t, out.String(), "Bye!")
}
