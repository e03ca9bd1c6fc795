// Command uvotbatch is the CLI entrypoint for the Swift/UVOT batch
// photometry driver.
//
// It parses flags, validates configuration and paths, and either runs
// environment diagnostics (--check) or the photometry batch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/astromoss/uvotbatch/internal/check"
	"github.com/astromoss/uvotbatch/internal/config"
	"github.com/astromoss/uvotbatch/internal/display"
	"github.com/astromoss/uvotbatch/internal/logging"
	"github.com/astromoss/uvotbatch/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "uvotbatch: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "uvotbatch: %v\n", err)
		return 1
	}

	// HEADAS/CALDB may come from an env file on hosts where the HEASoft
	// init script has not been sourced.
	if err := cfg.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "uvotbatch: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "uvotbatch: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Resolve and validate paths: staging must exist, results is created if
	// needed, and results must not be inside staging (the clean-slate pass
	// would sweep published copies away).
	stagingAbs, err := absPath(cfg.StagingDir)
	if err != nil {
		log.Error("Staging dir not found: %s", cfg.StagingDir)
		return 1
	}
	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		log.Error("Cannot create results directory: %s", cfg.ResultsDir)
		return 1
	}
	resultsAbs, err := absPath(cfg.ResultsDir)
	if err != nil {
		log.Error("Cannot resolve results path: %s", cfg.ResultsDir)
		return 1
	}
	if err := cfg.ValidatePaths(stagingAbs, resultsAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose a results path outside: %s", cfg.StagingDir)
		return 1
	}
	cfg.StagingDir = stagingAbs
	cfg.ResultsDir = resultsAbs

	log.Info("=== uvotbatch v%s (%s) ===", version, commit)
	log.Info("Staging: %s", cfg.StagingDir)
	log.Info("Results: %s", cfg.ResultsDir)
	log.Info("")

	// Fail fast if the photometry tool or the HEASoft environment is missing.
	if !cfg.DryRun {
		if err := check.CheckDeps(&cfg); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// batch can stop between invocations and still publish what it has.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current invocation…")
		cancel()
	}()

	// Phase 4: Run the batch (clean → stage → invoke → publish → summarize).
	// Individual tool failures are logged and counted, not fatal: the point
	// of the batch is to extract every measurement the archive will yield.
	if _, err := pipeline.Run(ctx, &cfg, log); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of staging vs results directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
