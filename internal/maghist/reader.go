// Package maghist reads the magnitude-history tables produced by the
// photometry tools and condenses them for the post-run summary. It is
// read-only: parsing problems are reported but never affect batch outcome.
package maghist

import (
	"fmt"
	"os"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/astromoss/uvotbatch/internal/caldb"
)

// Row is one photometric measurement from a MAGHIST extension.
type Row struct {
	MET       float64 `fits:"MET"`      // Mission elapsed time, seconds.
	Mag       float64 `fits:"MAG"`      // Vega magnitude.
	MagErr    float64 `fits:"MAG_ERR"`
	Filter    string  `fits:"FILTER"`
	SysErr    float64 `fits:"SYS_ERR"`
	Exposure  float64 `fits:"EXPOSURE"` // Seconds.
	Saturated bool    `fits:"SATURATED"`
}

// Table keywords that identify a Swift/UVOT magnitude history.
var requiredKeywords = map[string]string{
	"TELESCOP": "SWIFT",
	"INSTRUME": "UVOTA",
}

// ReadTable opens a FITS file and returns the rows of its MAGHIST extension.
// Files whose keywords do not identify a Swift/UVOT magnitude history are
// rejected rather than misread.
func ReadTable(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fits, err := fitsio.Open(f)
	if err != nil {
		return nil, fmt.Errorf("open FITS %q: %w", path, err)
	}
	defer fits.Close()

	for _, hdu := range fits.HDUs() {
		tbl, ok := hdu.(*fitsio.Table)
		if !ok || hdu.Name() != "MAGHIST" {
			continue
		}
		if err := checkKeywords(tbl.Header()); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return readRows(tbl)
	}
	return nil, fmt.Errorf("%s: no MAGHIST extension", path)
}

func checkKeywords(hdr *fitsio.Header) error {
	for key, want := range requiredKeywords {
		card := hdr.Get(key)
		if card == nil {
			return fmt.Errorf("missing %s keyword", key)
		}
		got, ok := card.Value.(string)
		if !ok || strings.TrimSpace(got) != want {
			return fmt.Errorf("unexpected %s=%v (want %s)", key, card.Value, want)
		}
	}
	return nil
}

func readRows(tbl *fitsio.Table) ([]Row, error) {
	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, fmt.Errorf("read MAGHIST rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan MAGHIST row %d: %w", len(out), err)
		}
		r.Filter = strings.TrimSpace(r.Filter)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterRange aggregates the measurements of one bandpass.
type FilterRange struct {
	Count     int
	Brightest float64 // Smallest Vega magnitude.
	Faintest  float64 // Largest Vega magnitude.
	Exposure  float64 // Total exposure, seconds.
}

// Summary condenses one output table for the run report.
type Summary struct {
	Rows      int
	Saturated int
	JDFirst   float64
	JDLast    float64
	ByFilter  map[string]FilterRange
}

// Summarize reduces table rows to per-filter ranges and the observed JD span.
func Summarize(rows []Row) Summary {
	s := Summary{ByFilter: make(map[string]FilterRange)}
	for _, r := range rows {
		s.Rows++
		if r.Saturated {
			s.Saturated++
		}

		jd := caldb.MetToJD(r.MET)
		if s.Rows == 1 || jd < s.JDFirst {
			s.JDFirst = jd
		}
		if s.Rows == 1 || jd > s.JDLast {
			s.JDLast = jd
		}

		fr, ok := s.ByFilter[r.Filter]
		if !ok {
			fr = FilterRange{Brightest: r.Mag, Faintest: r.Mag}
		}
		fr.Count++
		fr.Exposure += r.Exposure
		if r.Mag < fr.Brightest {
			fr.Brightest = r.Mag
		}
		if r.Mag > fr.Faintest {
			fr.Faintest = r.Mag
		}
		s.ByFilter[r.Filter] = fr
	}
	return s
}
