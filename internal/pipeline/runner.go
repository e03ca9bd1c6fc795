// Package pipeline orchestrates the batch run: clean slate, region staging,
// input discovery, sequential tool invocation with run-log capture, artifact
// publication, and the post-run summary.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/astromoss/uvotbatch/internal/caldb"
	"github.com/astromoss/uvotbatch/internal/config"
	"github.com/astromoss/uvotbatch/internal/display"
	"github.com/astromoss/uvotbatch/internal/heasoft"
	"github.com/astromoss/uvotbatch/internal/logging"
	"github.com/astromoss/uvotbatch/internal/maghist"
	"github.com/astromoss/uvotbatch/internal/naming"
	"github.com/astromoss/uvotbatch/internal/runlog"
	"github.com/astromoss/uvotbatch/internal/store"
)

// Run is the top-level batch entry point. It clears prior artifacts, stages
// the aperture files, drives one tool invocation per unit of work, publishes
// outputs and logs, and returns aggregate stats. The returned error is
// non-nil only for fatal environment problems; per-invocation tool failures
// are logged, counted, and never halt the batch.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	var stats RunStats

	trk, runID := openTracking(cfg, log)
	if trk != nil {
		defer trk.Close()
	}

	removed, err := CleanArtifacts(cfg.StagingDir)
	if err != nil {
		return stats, err
	}
	if removed > 0 {
		log.Info("Removed %d stale artifact(s) from previous runs", removed)
	}

	if err := StageRegionFiles(cfg); err != nil {
		return stats, err
	}

	logBatchHeader(cfg, log)

	switch cfg.Mode {
	case config.ModeMaghist:
		err = runMaghist(ctx, cfg, log, trk, runID, &stats)
	default:
		err = runSource(ctx, cfg, log, trk, runID, &stats)
	}
	if err != nil {
		return stats, err
	}

	if ctx.Err() != nil {
		log.Warn("Interrupted; publishing partial results")
	}

	published, bytes, err := Publish(cfg.StagingDir, cfg.ResultsDir)
	stats.Published = published
	stats.PublishedBytes = bytes
	if err != nil {
		return stats, err
	}

	if cfg.ShowSummary && cfg.Mode == config.ModeSource && !cfg.DryRun {
		logTableSummaries(cfg, log)
	}

	if trk != nil {
		if err := trk.FinishRun(runID); err != nil {
			log.Warn("Tracking: %v", err)
		}
	}

	logRunSummary(cfg, log, &stats)
	return stats, nil
}

// runSource drives uvotsource: per target, per image, one invocation per
// extension index 1..MaxExtensions regardless of whether the extension
// exists. Misses are the expected cost of forcing every usable extension's
// rows into the shared per-target table.
func runSource(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	trk *store.Store,
	runID string,
	stats *RunStats,
) error {
	for _, target := range cfg.Targets {
		if ctx.Err() != nil {
			break
		}
		stats.Targets++

		files, err := Discover(cfg.StagingDir, cfg.ImageSubdir, target)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			log.Warn("Target %s: no sky images under %s", target, cfg.ImageSubdir)
			continue
		}
		log.Info("Target %s: %d sky image(s)", target, len(files))

		outName := naming.GroupOutputName(target)
		rl, err := runlog.Open(filepath.Join(cfg.StagingDir, naming.GroupLogName(target)))
		if err != nil {
			return err
		}

		for _, img := range files {
			if ctx.Err() != nil {
				break
			}
			stats.Files++
			base := filepath.Base(img)
			log.Phot("[%s] %s", target, base)

			for ext := 1; ext <= cfg.MaxExtensions; ext++ {
				if ctx.Err() != nil {
					break
				}
				invokeSource(cfg, log, trk, runID, rl, stats, target, img, ext, outName)
			}
		}

		if err := rl.Close(); err != nil {
			log.Warn("Close run log: %v", err)
		}
	}
	return nil
}

func invokeSource(
	cfg *config.Config,
	log *logging.Logger,
	trk *store.Store,
	runID string,
	rl *runlog.Writer,
	stats *RunStats,
	target, img string,
	ext int,
	outName string,
) {
	stats.Invocations++
	base := filepath.Base(img)
	inputSpec := fmt.Sprintf("%s+%d", base, ext)

	if err := rl.BeginBlock(inputSpec, outName); err != nil {
		log.Warn("Run log: %v", err)
	}

	if cfg.DryRun {
		rl.AppendOutput("(dry run)")
		stats.Appended++
		return
	}

	argv := heasoft.SourceArgs(cfg, img, ext, outName)
	res := heasoft.Execute(cfg.StagingDir, argv)
	if err := rl.AppendOutput(res.Output); err != nil {
		log.Warn("Run log: %v", err)
	}

	outcome := heasoft.Classify(res)
	record(trk, log, runID, target, base, ext, outName, outcome, res)

	switch outcome {
	case heasoft.OutcomeNoHDU:
		stats.NoData++
		log.NoData("  +%d: no usable extension", ext)
	case heasoft.OutcomeFailed:
		stats.Failed++
		log.Warn("  +%d: %s failed (see %s)", ext, heasoft.ToolSource, filepath.Base(rl.Path()))
	default:
		stats.Appended++
		log.Debug(cfg.Verbose, "  +%d: rows appended to %s", ext, outName)
	}
}

// runMaghist drives uvotmaghist: one invocation per image with a per-file
// output table, and a single global run log. The tool walks extensions
// itself, so there is no probing loop.
func runMaghist(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	trk *store.Store,
	runID string,
	stats *RunStats,
) error {
	files, err := DiscoverAll(cfg.StagingDir, cfg.ImageSubdir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn("No sky images under %s", cfg.ImageSubdir)
		return nil
	}
	log.Info("Found %d sky image(s)", len(files))

	rl, err := runlog.Open(filepath.Join(cfg.StagingDir, naming.GlobalLog))
	if err != nil {
		return err
	}
	defer rl.Close()

	for i, img := range files {
		if ctx.Err() != nil {
			break
		}
		stats.Files++
		stats.Invocations++

		base := filepath.Base(img)
		outName := naming.DerivedOutputName(base)
		log.Phot("[%d/%d] %s -> %s", i+1, len(files), base, outName)

		if err := rl.BeginBlock(base, outName); err != nil {
			log.Warn("Run log: %v", err)
		}

		if cfg.DryRun {
			rl.AppendOutput("(dry run)")
			stats.Appended++
			continue
		}

		argv := heasoft.MaghistArgs(cfg, img, outName)
		res := heasoft.Execute(cfg.StagingDir, argv)
		if err := rl.AppendOutput(res.Output); err != nil {
			log.Warn("Run log: %v", err)
		}

		outcome := heasoft.Classify(res)
		target := ""
		if n, ok := naming.ParseImageName(base); ok {
			target = n.ObsID
		}
		record(trk, log, runID, target, base, 0, outName, outcome, res)

		switch outcome {
		case heasoft.OutcomeNoHDU:
			stats.NoData++
			log.NoData("  no usable extensions")
		case heasoft.OutcomeFailed:
			stats.Failed++
			log.Warn("  %s failed (see %s)", heasoft.ToolMaghist, naming.GlobalLog)
		default:
			stats.Appended++
		}
	}
	return nil
}

// --- Tracking helpers ---

// openTracking opens the invocation store unless tracking is disabled or
// the run is a dry run. Failures degrade to log-only auditing.
func openTracking(cfg *config.Config, log *logging.Logger) (*store.Store, string) {
	if cfg.TrackDB == "" || cfg.DryRun {
		return nil, ""
	}
	path := cfg.TrackDB
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.StagingDir, path)
	}
	trk, err := store.Open(path)
	if err != nil {
		log.Warn("Invocation tracking disabled: %v", err)
		return nil, ""
	}
	runID, err := trk.BeginRun(string(cfg.Mode), cfg.StagingDir)
	if err != nil {
		log.Warn("Invocation tracking disabled: %v", err)
		trk.Close()
		return nil, ""
	}
	log.Debug(cfg.Verbose, "Tracking run %s in %s", runID, path)
	return trk, runID
}

func record(
	trk *store.Store,
	log *logging.Logger,
	runID, target, input string,
	ext int,
	output string,
	outcome heasoft.Outcome,
	res heasoft.InvokeResult,
) {
	if trk == nil {
		return
	}
	detail := ""
	if outcome == heasoft.OutcomeFailed {
		detail = firstLine(res.Output)
	}
	if err := trk.RecordInvocation(runID, target, input, ext, output, outcome.String(), detail); err != nil {
		log.Warn("Tracking: %v", err)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	const max = 200
	if len(s) > max {
		s = s[:max]
	}
	return s
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger) {
	if cfg.Mode == config.ModeSource {
		log.Info("Mode: source (%s per extension, extensions 1-%d)", heasoft.ToolSource, cfg.MaxExtensions)
		log.Info("Targets: %s", strings.Join(cfg.Targets, ", "))
	} else {
		log.Info("Mode: maghist (%s per image)", heasoft.ToolMaghist)
	}
	log.Info("Apertures: %s / %s", filepath.Base(cfg.SrcRegion), filepath.Base(cfg.BkgRegion))
	log.Info("Photometry: sigma=%g, apercorr=%s, frametime=%s", cfg.Sigma, cfg.AperCorr, cfg.FrameTime)
	if cfg.TrackDB == "" {
		log.Info("Tracking: disabled")
	} else {
		log.Info("Tracking: %s", cfg.TrackDB)
	}
	if cfg.DryRun {
		log.Warn("DRY RUN — no invocations will be made")
	}
	log.Info("")
}

// logTableSummaries reads each target's finished output table and reports
// row counts, the observed JD span, and per-filter magnitude ranges with
// their AB equivalents where the band is calibrated.
func logTableSummaries(cfg *config.Config, log *logging.Logger) {
	for _, target := range cfg.Targets {
		path := filepath.Join(cfg.StagingDir, naming.GroupOutputName(target))
		if _, err := os.Stat(path); err != nil {
			log.Warn("Target %s: no output table produced", target)
			continue
		}

		rows, err := maghist.ReadTable(path)
		if err != nil {
			log.Warn("Target %s: %v", target, err)
			continue
		}

		sum := maghist.Summarize(rows)
		log.Info("Target %s: %d row(s), JD %.3f - %.3f", target, sum.Rows, sum.JDFirst, sum.JDLast)
		if sum.Saturated > 0 {
			log.Warn("  %d saturated measurement(s)", sum.Saturated)
		}

		filters := make([]string, 0, len(sum.ByFilter))
		for f := range sum.ByFilter {
			filters = append(filters, f)
		}
		sort.Strings(filters)

		for _, f := range filters {
			fr := sum.ByFilter[f]
			exp := display.FormatExposure(fr.Exposure)
			if _, ok := caldb.Lookup(f); ok {
				ab, _, _ := caldb.VegaToAB(fr.Brightest, 0, caldb.Band(f))
				log.Info("  %-4s %d row(s), %s, %.2f - %.2f mag (peak %.2f AB, %.3g mJy)",
					f, fr.Count, exp, fr.Brightest, fr.Faintest, ab, caldb.ABToFluxJy(ab)*1e3)
			} else {
				log.Info("  %-4s %d row(s), %s, %.2f - %.2f mag",
					f, fr.Count, exp, fr.Brightest, fr.Faintest)
			}
		}
	}
}

func logRunSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d file(s), %d invocation(s): %d appended, %d no-data, %d failed",
		stats.Files, stats.Invocations, stats.Appended, stats.NoData, stats.Failed)
	log.Info("Published %d artifact(s) (%s) to %s",
		stats.Published, display.FormatBytes(stats.PublishedBytes), cfg.ResultsDir)

	if stats.Clean() {
		log.Success("All invocations accounted for")
	} else {
		log.Warn("%d failed invocation(s); grep the run logs for error markers", stats.Failed)
	}
}
