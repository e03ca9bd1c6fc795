package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriterBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maghist_00011558.log")

	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	for ext := 1; ext <= 4; ext++ {
		if err := w.BeginBlock("sw00011558_001_sk.img.gz+1", "maghist_00011558.fits"); err != nil {
			t.Fatalf("BeginBlock: %v", err)
		}
		if err := w.AppendOutput("uvotsource chatter line"); err != nil {
			t.Fatalf("AppendOutput: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	n, err := CountBlocks(path)
	if err != nil {
		t.Fatalf("CountBlocks: %v", err)
	}
	if n != 4 {
		t.Errorf("CountBlocks = %d, want 4", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "* in:  sw00011558_001_sk.img.gz+1") {
		t.Errorf("missing input line in:\n%s", text)
	}
	if !strings.Contains(text, "uvotsource chatter line\n") {
		t.Errorf("missing tool output in:\n%s", text)
	}
}

func TestWriterAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maghist.log")

	for i := 0; i < 2; i++ {
		w, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if err := w.BeginBlock("in.img", "out.fits"); err != nil {
			t.Fatalf("BeginBlock: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	n, err := CountBlocks(path)
	if err != nil {
		t.Fatalf("CountBlocks: %v", err)
	}
	if n != 2 {
		t.Errorf("CountBlocks = %d, want 2 (append, not truncate)", n)
	}
}

func TestCountBlocksMissingFile(t *testing.T) {
	if _, err := CountBlocks(filepath.Join(t.TempDir(), "nope.log")); err == nil {
		t.Error("expected error for missing log")
	}
}
