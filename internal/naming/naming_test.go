package naming

import (
	"path/filepath"
	"testing"
)

func TestParseImageName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		obsID   string
		segment string
		gzipped bool
		ok      bool
	}{
		{"gzipped image", "sw00011558_001_sk.img.gz", "00011558", "001", true, true},
		{"plain image", "sw00045788_002_sk.img", "00045788", "002", false, true},
		{"wrong prefix", "xx00011558_001_sk.img.gz", "", "", false, false},
		{"short obsid", "sw0001155_001_sk.img.gz", "", "", false, false},
		{"exposure map", "sw00011558_001_ex.img.gz", "", "", false, false},
		{"no segment", "sw00011558_sk.img.gz", "", "", false, false},
		{"empty", "", "", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseImageName(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseImageName(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if !ok {
				return
			}
			if got.ObsID != tt.obsID || got.Segment != tt.segment || got.Gzipped != tt.gzipped {
				t.Errorf("ParseImageName(%q) = %+v, want {%s %s %v}",
					tt.in, got, tt.obsID, tt.segment, tt.gzipped)
			}
		})
	}
}

func TestDerivedOutputName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"gzipped image", "sw00011558_001_sk.img.gz", "maghist_00011558_001.fits"},
		{"plain image", "sw00045788_002_sk.img", "maghist_00045788_002.fits"},
		{"non-standard name", "sw0001_sk.img.gz", "maghist_0001.fits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivedOutputName(tt.in); got != tt.want {
				t.Errorf("DerivedOutputName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGroupNames(t *testing.T) {
	if got := GroupOutputName("00011558"); got != "maghist_00011558.fits" {
		t.Errorf("GroupOutputName = %q", got)
	}
	if got := GroupLogName("00011558"); got != "maghist_00011558.log" {
		t.Errorf("GroupLogName = %q", got)
	}
}

func TestImagePattern(t *testing.T) {
	got := ImagePattern("/data/stage", "reproc/*/uvot/image", "00011558")
	want := filepath.Join("/data/stage", "reproc/*/uvot/image", "sw00011558*_sk.img.gz")
	if got != want {
		t.Errorf("ImagePattern = %q, want %q", got, want)
	}

	all := AllImagesPattern("/data/stage", "reproc/*/uvot/image")
	wantAll := filepath.Join("/data/stage", "reproc/*/uvot/image", "sw*_sk.img.gz")
	if all != wantAll {
		t.Errorf("AllImagesPattern = %q, want %q", all, wantAll)
	}
}
