package cli

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/searchparams/internal/testutil"
)

const testTraceID = "trace-test"

// execute runs the root command with a fixed trace ID and returns stdout,
// stderr and the command error.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	opts := &RootOptions{
		TraceIDs: testutil.NewFixedTraceID(testTraceID),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	cmd := NewRootCommandWithOptions(opts)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}
