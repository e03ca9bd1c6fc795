package display

import "testing"

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatExposure(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 s"},
		{843.2, "843 s"},
		{999, "999 s"},
		{1000, "1.0 ks"},
		{1649.7, "1.6 ks"},
	}
	for _, tt := range tests {
		if got := FormatExposure(tt.in); got != tt.want {
			t.Errorf("FormatExposure(%g) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
