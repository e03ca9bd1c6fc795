package heasoft

import (
	"bytes"
	"os/exec"
)

// InvokeResult holds the outcome of a single tool invocation.
type InvokeResult struct {
	Output string // Combined stdout+stderr (the chatter stream).
	Err    error
}

// Execute runs a HEASoft command in dir and captures its combined output.
// The tools write diagnostics to stdout, so stdout and stderr are captured
// together for classification and the run log. The call blocks until the
// tool's process exits and is never killed mid-run: interrupting a tool
// while it writes could leave a partial output table behind, so the caller
// honors cancellation between invocations instead.
func Execute(dir string, argv []string) InvokeResult {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return InvokeResult{
		Output: buf.String(),
		Err:    err,
	}
}
