package heasoft

import "regexp"

// Outcome labels one invocation of a photometry tool.
type Outcome int

const (
	OutcomeAppended Outcome = iota // Rows written to the output table.
	OutcomeNoHDU                   // Probed extension absent or empty; expected in brute-force probing.
	OutcomeFailed                  // Genuine tool error; no rows produced.
)

// String returns the label stored in the tracking database.
func (o Outcome) String() string {
	switch o {
	case OutcomeAppended:
		return "appended"
	case OutcomeNoHDU:
		return "no-hdu"
	default:
		return "failed"
	}
}

// Pre-compiled regexes for classifying tool output. Checked by [Classify];
// the missing-HDU patterns take precedence because a failed move to a
// nonexistent extension also raises generic error markers.
var (
	reMissingHDU = regexp.MustCompile(
		`(?i)could not (open|move to) (extension|hdu)|` +
			`unable to move to (extension|hdu)|` +
			`hdu ?#? ?\d+ (not found|does not exist)|` +
			`extension \d+ (not found|does not exist)|` +
			`no such (extension|hdu)|` +
			`end-of-file.*move to hdu`)

	reToolError = regexp.MustCompile(
		`(?im)^\s*(\*+\s*)?error[:\s]|` +
			`uvot\w+ error|` +
			`task (aborted|terminated)|` +
			`could not open caldb|` +
			`unable to (open|read) (image|region|calibration)`)
)

// MatchMissingHDU reports whether output indicates the requested extension
// does not exist or holds no usable image.
func MatchMissingHDU(output string) bool {
	return reMissingHDU.MatchString(output)
}

// MatchToolError reports whether output carries a generic tool error marker.
func MatchToolError(output string) bool {
	return reToolError.MatchString(output)
}

// Classify maps an invocation result to an explicit Outcome. A nonzero exit
// status or error marker on a probed extension that simply is not there is
// OutcomeNoHDU, not a failure: brute-force probing expects those.
func Classify(res InvokeResult) Outcome {
	if MatchMissingHDU(res.Output) {
		return OutcomeNoHDU
	}
	if res.Err != nil || MatchToolError(res.Output) {
		return OutcomeFailed
	}
	return OutcomeAppended
}
