package geo

import "testing"

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Point
		wantErr bool
	}{
		{"decimal pair", "-7.2, 112.7", Point{-7.2, 112.7}, false},
		{"no space", "-7.2,112.7", Point{-7.2, 112.7}, false},
		{"space separated", "35.6812 139.7671", Point{35.6812, 139.7671}, false},
		{"geo uri", "geo:-7.2,112.7", Point{-7.2, 112.7}, false},
		{"geo uri with params", "geo:-7.2,112.7;u=35", Point{-7.2, 112.7}, false},
		{"lat out of range", "95.0, 10.0", Point{}, true},
		{"lon out of range", "10.0, 190.0", Point{}, true},
		{"garbage", "hello world", Point{}, true},
		{"single number", "112.7", Point{}, true},
		{"empty", "", Point{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePoint(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePoint(%q): expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePoint(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePoint(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLooksLikeRealFix(t *testing.T) {
	h := DefaultHeuristics()

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"real fix", Point{-7.257472, 112.752088}, true},
		{"beyond plausible lat", Point{87.5, 10.5}, false},
		{"near-integer pair", Point{7.0, 112.0}, false},
		{"integer lat only", Point{7.0, 112.5}, true},
		{"invalid", Point{120.0, 10.0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeRealFix(tt.p, h); got != tt.want {
				t.Errorf("LooksLikeRealFix(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
