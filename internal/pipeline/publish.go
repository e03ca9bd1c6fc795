package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Publish copies finished output tables and run logs from staging into the
// results directory, overwriting prior copies there. Copies, not moves: the
// staging originals stay behind for inspection and the next reduction pass.
// Returns the number of artifacts published and their total size.
func Publish(stagingDir, resultsDir string) (int, int64, error) {
	published := 0
	var total int64

	for _, pattern := range artifactPatterns {
		matches, err := filepath.Glob(filepath.Join(stagingDir, pattern))
		if err != nil {
			return published, total, fmt.Errorf("bad artifact pattern %q: %w", pattern, err)
		}
		for _, src := range matches {
			dst := filepath.Join(resultsDir, filepath.Base(src))
			if err := copyFile(src, dst); err != nil {
				return published, total, fmt.Errorf("publish %s: %w", filepath.Base(src), err)
			}
			if fi, err := os.Stat(dst); err == nil {
				total += fi.Size()
			}
			published++
		}
	}
	return published, total, nil
}

// copyFile copies src to dst, truncating dst if it exists. Copying a file
// onto itself is a no-op so staged inputs are never truncated.
func copyFile(src, dst string) error {
	srcAbs, err1 := filepath.Abs(src)
	dstAbs, err2 := filepath.Abs(dst)
	if err1 == nil && err2 == nil && srcAbs == dstAbs {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
