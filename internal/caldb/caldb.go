// Package caldb carries the static photometric calibration table for the
// bandpasses produced by the reduction: Vega-to-AB magnitude corrections
// with their uncertainties and effective wavelengths, plus Swift
// mission-time conversion.
//
// UVM2/UVW2 values follow Breeveld (2010), Swift-UVOT-CALDB-16-R01; the
// Johnson-Cousins values are the standard ones.
package caldb

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Band identifies a photometric bandpass as named in the FILTER column of
// the output tables.
type Band string

const (
	BandB    Band = "B"
	BandV    Band = "V"
	BandR    Band = "R"
	BandI    Band = "I"
	BandUVM2 Band = "UVM2"
	BandUVW2 Band = "UVW2"
)

// Entry holds the calibration constants for one bandpass.
type Entry struct {
	ABCorrection    float64 // Add to a Vega magnitude to get mag(AB).
	ABCorrectionErr float64
	LambdaEff       float64 // Effective wavelength, Angstrom.
}

var table = map[Band]Entry{
	BandB:    {ABCorrection: -0.163, ABCorrectionErr: 0.004, LambdaEff: 4353},
	BandV:    {ABCorrection: -0.044, ABCorrectionErr: 0.004, LambdaEff: 5477},
	BandR:    {ABCorrection: 0.055, LambdaEff: 6349},
	BandI:    {ABCorrection: 0.309, LambdaEff: 8797},
	BandUVM2: {ABCorrection: 1.69, LambdaEff: 1991},
	BandUVW2: {ABCorrection: 1.73, LambdaEff: 2221},
}

// Lookup returns the calibration entry for a FILTER column value. The value
// is trimmed and upper-cased before matching.
func Lookup(filter string) (Entry, bool) {
	e, ok := table[Band(strings.ToUpper(strings.TrimSpace(filter)))]
	return e, ok
}

// Bands returns the calibrated bandpasses in stable order.
func Bands() []Band {
	out := make([]Band, 0, len(table))
	for b := range table {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// VegaToAB converts a Vega magnitude with uncertainty to mag(AB). The
// correction uncertainty is added in quadrature.
func VegaToAB(mag, magErr float64, band Band) (float64, float64, error) {
	e, ok := table[band]
	if !ok {
		return 0, 0, fmt.Errorf("no AB correction for band %q", band)
	}
	err := math.Sqrt(magErr*magErr + e.ABCorrectionErr*e.ABCorrectionErr)
	return mag + e.ABCorrection, err, nil
}

// ABToFluxJy returns the flux density in Jansky for a mag(AB) value, from
// the standard definition f = 10^(0.4 (8.9 - mag(AB))) Jy.
func ABToFluxJy(magAB float64) float64 {
	return math.Pow(10, 0.4*(8.9-magAB))
}

// Swift mission elapsed time reference values, taken from the archive's
// first observation (sw00011558001).
const (
	mjdRefI = 51910
	utcfInt = -23.57402
)

// MetToJD converts Swift mission elapsed time (seconds) to a Julian date.
func MetToJD(met float64) float64 {
	return 2400000 + mjdRefI + (met+utcfInt)/86400
}
