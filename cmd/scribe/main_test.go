package main

import (
	"bytes"
	"context"
	"testing"
)

// execute runs the root command with args and returns what it wrote.
func execute(t *testing.T, ctx context.Context, env map[string]string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	a := &app{
		getenv:     func(k string) string { return env[k] },
		isTerminal: func() bool { return false },
	}
	var out, errOut bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}
