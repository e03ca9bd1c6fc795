package caldb

import (
	"math"
	"testing"
)

func TestVegaToAB(t *testing.T) {
	tests := []struct {
		name    string
		band    Band
		mag     float64
		magErr  float64
		wantMag float64
		wantErr float64
	}{
		{"V band", BandV, 10.0, 0.1, 9.956, math.Sqrt(0.1*0.1 + 0.004*0.004)},
		{"UVM2 band", BandUVM2, 12.5, 0.05, 14.19, 0.05},
		{"UVW2 band", BandUVW2, 13.0, 0, 14.73, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mag, magErr, err := VegaToAB(tt.mag, tt.magErr, tt.band)
			if err != nil {
				t.Fatalf("VegaToAB: %v", err)
			}
			if math.Abs(mag-tt.wantMag) > 1e-9 {
				t.Errorf("mag = %v, want %v", mag, tt.wantMag)
			}
			if math.Abs(magErr-tt.wantErr) > 1e-9 {
				t.Errorf("magErr = %v, want %v", magErr, tt.wantErr)
			}
		})
	}
}

func TestVegaToAB_UnknownBand(t *testing.T) {
	if _, _, err := VegaToAB(10, 0.1, "WHITE"); err == nil {
		t.Error("expected error for uncalibrated band")
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("  uvm2 ")
	if !ok {
		t.Fatal("Lookup failed for padded lowercase filter value")
	}
	if e.LambdaEff != 1991 {
		t.Errorf("LambdaEff = %v, want 1991", e.LambdaEff)
	}

	if _, ok := Lookup("WHITE"); ok {
		t.Error("Lookup should miss for uncalibrated band")
	}
}

func TestABToFluxJy(t *testing.T) {
	// mag(AB) = 8.9 is 1 Jy by definition.
	if got := ABToFluxJy(8.9); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("ABToFluxJy(8.9) = %v, want 1", got)
	}
	// 2.5 mag fainter is a factor 10 less flux.
	if got := ABToFluxJy(11.4); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("ABToFluxJy(11.4) = %v, want 0.1", got)
	}
}

func TestMetToJD(t *testing.T) {
	// MET zero maps to the mission reference epoch minus the UTC offset.
	want := 2400000 + 51910 + (-23.57402)/86400
	if got := MetToJD(0); math.Abs(got-want) > 1e-9 {
		t.Errorf("MetToJD(0) = %v, want %v", got, want)
	}
	// One day of mission time advances the JD by one day.
	if got := MetToJD(86400) - MetToJD(0); math.Abs(got-1) > 1e-9 {
		t.Errorf("day delta = %v, want 1", got)
	}
}

func TestBandsStableOrder(t *testing.T) {
	bands := Bands()
	if len(bands) != 6 {
		t.Fatalf("got %d bands, want 6", len(bands))
	}
	for i := 1; i < len(bands); i++ {
		if bands[i] < bands[i-1] {
			t.Errorf("not sorted: %q before %q", bands[i-1], bands[i])
		}
	}
}
