package heasoft

import (
	"path/filepath"
	"strconv"

	"github.com/astromoss/uvotbatch/internal/config"
)

// External tool names, resolved on PATH at invocation time.
const (
	ToolSource  = "uvotsource"
	ToolMaghist = "uvotmaghist"
)

// SourceArgs builds the uvotsource argv for one image extension. The image
// path carries the +<ext> HDU suffix; region files and the output table are
// referenced by basename and resolved relative to the staging directory the
// command runs in.
func SourceArgs(cfg *config.Config, image string, ext int, outfile string) []string {
	args := make([]string, 0, 18)
	args = append(args, ToolSource,
		"image="+image+"+"+strconv.Itoa(ext),
		"srcreg="+filepath.Base(cfg.SrcRegion),
		"bkgreg="+filepath.Base(cfg.BkgRegion),
		"sigma="+formatSigma(cfg.Sigma),
		"zerofile="+cfg.ZeroFile,
		"coinfile="+cfg.CoinFile,
		"lssfile="+cfg.LSSFile,
		"psffile="+cfg.PSFFile,
		"syserr=no",
		"frametime="+cfg.FrameTime,
		"apercorr="+cfg.AperCorr,
		"output=ALL",
		"outfile="+outfile,
		"cleanup="+yesNo(cfg.Cleanup),
		"clobber=no",
		"chatter="+strconv.Itoa(cfg.Chatter),
	)
	return args
}

// MaghistArgs builds the uvotmaghist argv for one sky image. The tool walks
// the image's extensions itself, so no HDU suffix is passed.
func MaghistArgs(cfg *config.Config, image, outfile string) []string {
	args := make([]string, 0, 16)
	args = append(args, ToolMaghist,
		"infile="+image,
		"outfile="+outfile,
		"plotfile=NONE",
		"srcreg="+filepath.Base(cfg.SrcRegion),
		"bkgreg="+filepath.Base(cfg.BkgRegion),
		"zerofile="+cfg.ZeroFile,
		"coinfile="+cfg.CoinFile,
		"lssfile="+cfg.LSSFile,
		"sssfile=NONE",
		"exclude=DEFAULT",
		"frametime="+cfg.FrameTime,
		"apercorr="+cfg.AperCorr,
		"nsigma="+formatSigma(cfg.Sigma),
		"cleanup="+yesNo(cfg.Cleanup),
		"clobber=no",
		"chatter="+strconv.Itoa(cfg.Chatter),
	)
	return args
}

func formatSigma(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
