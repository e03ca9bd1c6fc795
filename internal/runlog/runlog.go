// Package runlog writes the append-only run logs: one separator-bracketed
// block per external invocation, holding the input/output names followed by
// the tool's verbatim diagnostic text. Operators grep these logs after a
// run to distinguish appended rows from probe misses and failures.
package runlog

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Separator brackets each invocation block. Fixed so block counts are
// byte-stable across runs over an unchanged archive.
const Separator = "===================================================================="

// Writer appends invocation blocks to one run log file.
type Writer struct {
	f    *os.File
	path string
}

// Open creates or appends to the run log at path. The pipeline removes stale
// logs before the first Open, so appends only accumulate within a single run.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	return &Writer{f: f, path: path}, nil
}

// Path returns the log file path.
func (w *Writer) Path() string { return w.path }

// BeginBlock writes the header for one invocation: the input spec (image,
// optionally with its +ext suffix) and the output table it feeds.
func (w *Writer) BeginBlock(input, output string) error {
	_, err := fmt.Fprintf(w.f, "%s\n* in:  %s\n* out: %s\n%s\n", Separator, input, output, Separator)
	return err
}

// AppendOutput writes the tool's diagnostic text verbatim, ensuring the
// block ends with a blank line.
func (w *Writer) AppendOutput(output string) error {
	if output != "" && !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	_, err := fmt.Fprintf(w.f, "%s\n", output)
	return err
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}

// CountBlocks returns the number of invocation blocks in the log at path.
// Each block is bracketed by two separator lines.
func CountBlocks(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	seps := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if sc.Text() == Separator {
			seps++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return seps / 2, nil
}
