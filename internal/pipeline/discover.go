package pipeline

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/astromoss/uvotbatch/internal/naming"
)

// Discover returns the sky images for one target, sorted lexicographically.
// filepath.Glob yields directory-scan order, which varies across platforms;
// sorting keeps output row order reproducible between runs.
func Discover(stagingDir, imageSubdir, target string) ([]string, error) {
	return glob(naming.ImagePattern(stagingDir, imageSubdir, target))
}

// DiscoverAll returns every sky image under the staging tree, for the
// maghist mode that does not partition by target.
func DiscoverAll(stagingDir, imageSubdir string) ([]string, error) {
	return glob(naming.AllImagesPattern(stagingDir, imageSubdir))
}

func glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad image pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
