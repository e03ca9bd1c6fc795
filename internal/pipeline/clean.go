package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/astromoss/uvotbatch/internal/config"
)

// Artifact name patterns produced by a run, relative to the staging dir.
// The tracking database is deliberately not listed: cross-run history is
// its whole point.
var artifactPatterns = []string{
	"maghist_*.fits",
	"maghist_*.log",
	"maghist.log",
}

// CleanArtifacts removes output tables and run logs left by a prior run and
// returns how many were removed. The tools only offer clobber=no (fail
// instead of overwrite), so a stale table would either abort the first
// invocation or accumulate stale rows; every run must start from a clean
// slate.
func CleanArtifacts(stagingDir string) (int, error) {
	removed := 0
	for _, pattern := range artifactPatterns {
		matches, err := filepath.Glob(filepath.Join(stagingDir, pattern))
		if err != nil {
			return removed, fmt.Errorf("bad artifact pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil {
				return removed, fmt.Errorf("remove stale artifact: %w", err)
			}
			removed++
		}
	}
	return removed, nil
}

// StageRegionFiles copies the source and background aperture definitions
// into the staging directory, where the tools resolve them by basename.
// A region file already living in staging is left in place.
func StageRegionFiles(cfg *config.Config) error {
	for _, src := range []string{cfg.SrcRegion, cfg.BkgRegion} {
		dst := filepath.Join(cfg.StagingDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("stage region file: %w", err)
		}
	}
	return nil
}
