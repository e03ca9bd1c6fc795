package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into run selection, photometry, behavior, display, and
// utility. Negated flags (e.g. --no-cleanup) are applied after Parse so
// Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// args).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("uvotbatch", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	// Negated/override flags: we capture values then apply to cfg after
	// Parse, so that defaults from DefaultConfig() hold unless the user
	// passes the flag.
	var negated negatedFlags
	var targetsRaw string

	defineRunFlags(fs, cfg, &targetsRaw)
	definePhotometryFlags(fs, cfg, &negated)
	defineBehaviorFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "uvotbatch v"+version)
		os.Exit(0)
	}

	if targetsRaw != "" {
		cfg.Targets = splitTargets(targetsRaw)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noCleanup -> Cleanup=false) or trigger
// exit (showHelp, showVersion).
type negatedFlags struct {
	noCleanup   bool
	noSummary   bool
	noTracking  bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineRunFlags registers -m/--mode, -t/--targets, --image-glob, --ext.
func defineRunFlags(fs *flag.FlagSet, cfg *Config, targetsRaw *string) {
	fs.Var(&runModeValue{&cfg.Mode}, "mode", "Run mode: source | maghist")
	fs.Var(&runModeValue{&cfg.Mode}, "m", "Same as --mode")
	fs.StringVar(targetsRaw, "targets", "", "Comma-separated observation IDs")
	fs.StringVar(targetsRaw, "t", "", "Same as --targets")
	fs.StringVar(&cfg.ImageSubdir, "image-glob", cfg.ImageSubdir, "Image directory glob under staging")
	fs.IntVar(&cfg.MaxExtensions, "ext", cfg.MaxExtensions, "Highest extension index probed in source mode")
}

// definePhotometryFlags registers region files and HEASoft pass-through parameters.
func definePhotometryFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVar(&cfg.SrcRegion, "src-reg", cfg.SrcRegion, "Source aperture region file")
	fs.StringVar(&cfg.BkgRegion, "bkg-reg", cfg.BkgRegion, "Background aperture region file")
	fs.Float64Var(&cfg.Sigma, "sigma", cfg.Sigma, "Detection significance (sigma)")
	fs.StringVar(&cfg.AperCorr, "apercorr", cfg.AperCorr, "Aperture correction algorithm")
	fs.StringVar(&cfg.FrameTime, "frametime", cfg.FrameTime, "Frame time or DEFAULT")
	fs.StringVar(&cfg.ZeroFile, "zerofile", cfg.ZeroFile, "Zero-point calibration file or CALDB")
	fs.StringVar(&cfg.CoinFile, "coinfile", cfg.CoinFile, "Coincidence-loss calibration file or CALDB")
	fs.StringVar(&cfg.LSSFile, "lssfile", cfg.LSSFile, "Large-scale sensitivity file or CALDB")
	fs.StringVar(&cfg.PSFFile, "psffile", cfg.PSFFile, "PSF calibration file or CALDB")
	fs.IntVar(&cfg.Chatter, "chatter", cfg.Chatter, "Tool verbosity (1-5)")
	fs.BoolVar(&n.noCleanup, "no-cleanup", false, "Keep tool scratch files")
}

// defineBehaviorFlags registers dry-run, summary, tracking, and env flags.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not invoke the tools")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&n.noSummary, "no-summary", false, "Skip the post-run output table summary")
	fs.StringVar(&cfg.TrackDB, "track-db", cfg.TrackDB, "SQLite tracking database (relative to staging)")
	fs.BoolVar(&n.noTracking, "no-tracking", false, "Disable invocation tracking")
	fs.StringVar(&cfg.EnvFile, "env-file", "", "Env-format file with HEADAS/CALDB settings")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append driver logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated flag values into cfg (e.g. noCleanup -> Cleanup=false).
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noCleanup {
		cfg.Cleanup = false
	}
	if n.noSummary {
		cfg.ShowSummary = false
	}
	if n.noTracking {
		cfg.TrackDB = ""
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// splitTargets parses the comma-separated --targets value, dropping empty entries.
func splitTargets(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePositionalArgs sets StagingDir and ResultsDir from the two positional
// args when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		if len(args) > 0 {
			cfg.StagingDir = NormalizeDirArg(args[0])
		}
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("need exactly staging_dir and results_dir")
	}
	cfg.StagingDir = NormalizeDirArg(args[0])
	cfg.ResultsDir = NormalizeDirArg(args[1])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "uvotbatch v" + version + " — batch driver for Swift/UVOT photometry"},
		{"", ""},
		{"  uvotbatch [OPTIONS] <staging_dir> <results_dir>", ""},
		{"", ""},
		{"Run selection", ""},
		{"  -m, --mode <source|maghist>", "Photometry tool (default: source)"},
		{"  -t, --targets <id,id,...>", "Observation IDs to process"},
		{"  --image-glob <pattern>", "Image directory glob under staging"},
		{"  --ext <n>", "Highest extension probed in source mode (default: 4)"},
		{"", ""},
		{"Photometry", ""},
		{"  --src-reg <file>", "Source aperture region file (default: source.reg)"},
		{"  --bkg-reg <file>", "Background aperture region file (default: background.reg)"},
		{"  --sigma <value>", "Detection significance (default: 3.0)"},
		{"  --apercorr <name>", "Aperture correction (default: CURVEOFGROWTH)"},
		{"  --frametime <value>", "Frame time (default: DEFAULT)"},
		{"  --zerofile <file>", "Zero-point calibration (default: CALDB)"},
		{"  --coinfile <file>", "Coincidence-loss calibration (default: CALDB)"},
		{"  --lssfile <file>", "Large-scale sensitivity (default: CALDB)"},
		{"  --psffile <file>", "PSF calibration (default: CALDB)"},
		{"  --chatter <1-5>", "Tool verbosity (default: 1)"},
		{"  --no-cleanup", "Keep tool scratch files"},
		{"", ""},
		{"Behavior", ""},
		{"  -d, --dry-run", "Preview only; do not invoke the tools"},
		{"  --no-summary", "Skip the post-run output table summary"},
		{"  --track-db <path>", "SQLite tracking database (default: uvotbatch.db)"},
		{"  --no-tracking", "Disable invocation tracking"},
		{"  --env-file <path>", "Env file with HEADAS/CALDB settings"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append driver logs to file"},
		{"  -c, --check", "System diagnostics (HEASoft tools, CALDB, staging)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so we can use the RunMode enum with flag.Var.

type runModeValue struct{ p *RunMode }

func (r *runModeValue) String() string { return string(*r.p) }
func (r *runModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "source":
		*r.p = ModeSource
	case "maghist":
		*r.p = ModeMaghist
	default:
		return fmt.Errorf("invalid mode %q (use 'source' or 'maghist')", s)
	}
	return nil
}
