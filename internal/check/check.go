// Package check provides HEASoft environment diagnostics (--check mode) and
// pre-pipeline dependency validation (CheckDeps) for uvotsource, uvotmaghist,
// the HEADAS/CALDB environment, and the aperture region files.
package check

import (
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/astromoss/uvotbatch/internal/caldb"
	"github.com/astromoss/uvotbatch/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or setting is missing.
var (
	ErrUvotsourceNotFound  = errors.New("uvotsource not found on PATH (is HEASoft initialized?)")
	ErrUvotmaghistNotFound = errors.New("uvotmaghist not found on PATH (is HEASoft initialized?)")
	ErrHeadasNotSet        = errors.New("HEADAS environment variable not set")
	ErrCaldbNotSet         = errors.New("CALDB environment variable not set")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of the
// HEASoft tools, the HEADAS/CALDB environment, the aperture region files,
// and staging writability. Informational only; it does not stop on failure.
// Returns false if any check failed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Environment Check ===")

	ok := checkHeasoft(log)
	ok = checkEnvVar(log, "HEADAS") && ok
	ok = checkEnvVar(log, "CALDB") && ok
	ok = checkRegionFiles(cfg, log) && ok
	if cfg.StagingDir != "" {
		ok = checkStagingWritable(cfg.StagingDir, log) && ok
	}

	bands := caldb.Bands()
	names := make([]string, len(bands))
	for i, b := range bands {
		names[i] = string(b)
	}
	log.Info("AB corrections available for: %s", strings.Join(names, ", "))
	return ok
}

// checkHeasoft verifies both photometry tools are on PATH and logs the
// HEASoft version via fversion when available.
func checkHeasoft(log Logger) bool {
	ok := true
	if path, err := exec.LookPath("fversion"); err == nil {
		cmd := exec.Command(path)
		if out, err := cmd.Output(); err == nil {
			log.Success("HEASoft: %s", firstLine(string(out)))
		}
	}
	for _, tool := range []string{"uvotsource", "uvotmaghist"} {
		if path, err := exec.LookPath(tool); err == nil {
			log.Success("%s: %s", tool, path)
		} else {
			log.Error("%s not found on PATH", tool)
			ok = false
		}
	}
	return ok
}

func checkEnvVar(log Logger, name string) bool {
	val := os.Getenv(name)
	if val == "" {
		log.Error("%s not set", name)
		return false
	}
	log.Success("%s=%s", name, val)
	return true
}

// checkRegionFiles verifies both aperture definitions exist and are not empty.
func checkRegionFiles(cfg *config.Config, log Logger) bool {
	ok := true
	for _, path := range []string{cfg.SrcRegion, cfg.BkgRegion} {
		fi, err := os.Stat(path)
		switch {
		case err != nil:
			log.Error("region file %s: %v", path, err)
			ok = false
		case fi.Size() == 0:
			log.Warn("region file %s is empty", path)
		default:
			log.Success("region file %s (%d bytes)", path, fi.Size())
		}
	}
	return ok
}

// checkStagingWritable probes the staging dir with a temp file. The pipeline
// writes output tables and run logs there, so read-only staging fails fast.
func checkStagingWritable(dir string, log Logger) bool {
	f, err := os.CreateTemp(dir, ".uvotbatch-probe-*")
	if err != nil {
		log.Error("staging dir %s not writable: %v", dir, err)
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	log.Success("staging dir %s is writable", dir)
	return true
}

// CheckDeps is the pre-pipeline validation: the tool for the active mode
// must be on PATH and the HEASoft environment must be initialized. Returns
// a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if cfg.Mode == config.ModeMaghist {
		if _, err := exec.LookPath("uvotmaghist"); err != nil {
			return ErrUvotmaghistNotFound
		}
	} else {
		if _, err := exec.LookPath("uvotsource"); err != nil {
			return ErrUvotsourceNotFound
		}
	}
	if os.Getenv("HEADAS") == "" {
		return ErrHeadasNotSet
	}
	if os.Getenv("CALDB") == "" {
		return ErrCaldbNotSet
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx > 0 {
		s = s[:idx]
	}
	return s
}
