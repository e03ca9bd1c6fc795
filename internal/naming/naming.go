// Package naming implements the Swift archive filename contract: parsing
// sky-image names, deriving output table and log names, and building the
// glob patterns used for discovery.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Sky images follow sw<obsid>_<segment>_sk.img[.gz], where obsid is the
// 8-digit observation ID and segment the 3-digit pointing number.
var reImageName = regexp.MustCompile(`^sw([0-9]{8})_([0-9]{3})_sk\.img(\.gz)?$`)

// GlobalLog is the run log name in maghist mode, which does not partition
// by target.
const GlobalLog = "maghist.log"

// ImageName holds the structured result of sky-image filename parsing.
type ImageName struct {
	ObsID   string // 8-digit observation ID; the grouping key.
	Segment string // 3-digit observation segment.
	Gzipped bool
}

// ParseImageName parses a sky-image basename. ok is false for names outside
// the archive convention.
func ParseImageName(basename string) (ImageName, bool) {
	m := reImageName.FindStringSubmatch(basename)
	if m == nil {
		return ImageName{}, false
	}
	return ImageName{ObsID: m[1], Segment: m[2], Gzipped: m[3] != ""}, true
}

// GroupOutputName returns the shared per-target output table name used in
// source mode, e.g. "maghist_00011558.fits".
func GroupOutputName(obsID string) string {
	return "maghist_" + obsID + ".fits"
}

// GroupLogName returns the per-target run log name, e.g. "maghist_00011558.log".
func GroupLogName(obsID string) string {
	return "maghist_" + obsID + ".log"
}

// DerivedOutputName returns the per-file output table name used in maghist
// mode: the input basename with the "sw" prefix replaced by "maghist_" and
// the "_sk.img[.gz]" suffix normalized to ".fits".
func DerivedOutputName(basename string) string {
	if n, ok := ParseImageName(basename); ok {
		return fmt.Sprintf("maghist_%s_%s.fits", n.ObsID, n.Segment)
	}
	name := strings.TrimSuffix(basename, ".gz")
	name = strings.TrimSuffix(name, ".img")
	name = strings.TrimSuffix(name, "_sk")
	name = strings.TrimPrefix(name, "sw")
	return "maghist_" + name + ".fits"
}

// ImagePattern returns the discovery glob for one target's sky images.
func ImagePattern(stagingDir, imageSubdir, obsID string) string {
	return filepath.Join(stagingDir, imageSubdir, "sw"+obsID+"*_sk.img.gz")
}

// AllImagesPattern returns the discovery glob for every sky image under the
// staging tree, used by maghist mode.
func AllImagesPattern(stagingDir, imageSubdir string) string {
	return filepath.Join(stagingDir, imageSubdir, "sw*_sk.img.gz")
}
