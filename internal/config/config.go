// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. All defaults match the legacy reduction scripts so existing
// archives reprocess identically.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// --- Enum types for validated string fields ---

// RunMode selects which photometry tool drives the batch.
type RunMode string

const (
	// ModeSource runs uvotsource once per extension index, brute-forcing
	// extensions 1..MaxExtensions so rows accumulate into one shared
	// per-target output table (default).
	ModeSource RunMode = "source"
	// ModeMaghist runs uvotmaghist once per sky image; the tool decides
	// internally which extensions are usable and writes a per-file table.
	ModeMaghist RunMode = "maghist"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it. Fields are grouped by concern with inline documentation of
// defaults and fixed values.
type Config struct {
	// Paths (set from positional args).
	StagingDir string // Working copy of the observation archive.
	ResultsDir string // Final destination for output tables and run logs.

	// Run selection.
	Mode          RunMode
	Targets       []string // 8-digit observation IDs; one output stream each.
	ImageSubdir   string   // Glob under staging. Default: "reproc/*/uvot/image".
	MaxExtensions int      // Source mode probes extensions 1..N. Default: 4.

	// Aperture definitions, staged into the staging dir before the run.
	SrcRegion string // Default: "source.reg".
	BkgRegion string // Default: "background.reg".

	// Photometry parameters passed through to the HEASoft tools.
	Sigma     float64 // Detection significance. Default: 3.0.
	AperCorr  string  // Aperture correction. Default: "CURVEOFGROWTH".
	FrameTime string  // Default: "DEFAULT" (read from image header).
	ZeroFile  string  // Zero-point calibration. Default: "CALDB".
	CoinFile  string  // Coincidence-loss calibration. Default: "CALDB".
	LSSFile   string  // Large-scale sensitivity calibration. Default: "CALDB".
	PSFFile   string  // PSF calibration. Default: "CALDB".
	Cleanup   bool    // Remove tool scratch files. Default: true.
	Chatter   int     // Tool verbosity 1..5. Default: 1.

	// Behavior flags.
	DryRun      bool
	ShowSummary bool   // Default: true. Read produced tables after the run.
	TrackDB     string // SQLite invocation tracking. Default: "uvotbatch.db" in staging. Empty disables.
	EnvFile     string // Optional env-format file with HEADAS/CALDB settings.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional driver log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults matching the legacy
// uvot_maghist/uvotsource shell scripts. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Mode:          ModeSource,
		Targets:       []string{"00011558", "00045788"},
		ImageSubdir:   "reproc/*/uvot/image",
		MaxExtensions: 4,
		SrcRegion:     "source.reg",
		BkgRegion:     "background.reg",
		Sigma:         3.0,
		AperCorr:      "CURVEOFGROWTH",
		FrameTime:     "DEFAULT",
		ZeroFile:      "CALDB",
		CoinFile:      "CALDB",
		LSSFile:       "CALDB",
		PSFFile:       "CALDB",
		Cleanup:       true,
		Chatter:       1,
		DryRun:        false,
		ShowSummary:   true,
		TrackDB:       "uvotbatch.db",
		Verbose:       false,
		ColorMode:     ColorAuto,
		CheckOnly:     false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Observation IDs are the 8-digit Swift target numbers used in archive paths.
var reTargetID = regexp.MustCompile(`^[0-9]{8}$`)

// Validate checks enum fields and numeric ranges. When not in CheckOnly
// mode, it also requires that both staging and results paths are non-empty.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSource, ModeMaghist:
		// valid
	default:
		return errors.New("invalid mode (use 'source' or 'maghist')")
	}

	if len(c.Targets) == 0 {
		return errors.New("need at least one target observation ID")
	}
	for _, id := range c.Targets {
		if !reTargetID.MatchString(id) {
			return fmt.Errorf("invalid target %q (use an 8-digit observation ID, e.g. 00011558)", id)
		}
	}

	if c.MaxExtensions < 1 || c.MaxExtensions > 10 {
		return fmt.Errorf("invalid extension count %d (use 1-10)", c.MaxExtensions)
	}
	if c.Sigma <= 0 {
		return fmt.Errorf("invalid sigma %g (must be positive)", c.Sigma)
	}
	if c.Chatter < 1 || c.Chatter > 5 {
		return fmt.Errorf("invalid chatter level %d (use 1-5)", c.Chatter)
	}

	if c.CheckOnly {
		return nil
	}
	if c.StagingDir == "" || c.ResultsDir == "" {
		return errors.New("need exactly staging_dir and results_dir")
	}
	return nil
}

// ValidatePaths ensures the resolved results directory is not inside (or
// equal to) the resolved staging directory. Published copies placed inside
// staging would be swept away by the next run's clean-slate pass. Both
// arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(stagingAbs, resultsAbs string) error {
	sep := string(filepath.Separator)
	if resultsAbs == stagingAbs || strings.HasPrefix(resultsAbs+sep, stagingAbs+sep) {
		return errors.New("results directory must not be inside staging directory")
	}
	return nil
}
