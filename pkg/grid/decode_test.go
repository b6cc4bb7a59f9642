package grid

import (
	"math"
	"testing"
)

func TestDecodeRoundTripContainsOriginal(t *testing.T) {
	points := []struct {
		lon, lat, alt float64
	}{
		{114.1234, 22.5678, 100.0},
		{114.0, 22.5, 0.0},
		{-73.5, -45.25, 500.0},
		{0.001, 0.001, 999.999},
		{-179.999, 89.999, 1000.0},
		{179.999, -89.999, 0.0},
	}

	for _, p := range points {
		for level := 1; level <= 16; level++ {
			code, err := Encode(p.lon, p.lat, p.alt, level)
			if err != nil {
				t.Fatalf("Encode(%v,%v,%v,%d): %v", p.lon, p.lat, p.alt, level, err)
			}
			cell, err := Decode(code)
			if err != nil {
				t.Fatalf("Decode(%q) (from lon=%v lat=%v alt=%v level=%d): %v", code, p.lon, p.lat, p.alt, level, err)
			}
			if cell.Level != level {
				t.Errorf("Decode(%q).Level = %d, want %d", code, cell.Level, level)
			}
			b := cell.Bounds()
			if !b.Contains(p.lon, p.lat) {
				t.Errorf("Decode(%q) bbox %+v does not contain (%v,%v)", code, b, p.lon, p.lat)
			}
			if level >= 6 {
				if p.alt < cell.AltRange[0]-1e-6 || p.alt > cell.AltRange[1]+1e-6 {
					// Open Question 2: digit >= 2 can push the decoded band
					// outside the encoder's own interval, so this is not an
					// invariant — only logged, not asserted, for levels
					// where the encoder's 10-way digit exceeds 1.
					t.Logf("level %d: alt %v outside decoded range %v (digit >= 2 asymmetry, see SPEC_FULL.md §9)", level, p.alt, cell.AltRange)
				}
			}
		}
	}
}

func TestDecodeRejectsBadCodes(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"bad length", "N5"},
		{"bad hemisphere", "X50F"},
		{"bad lon digit", "NXXF"},
		{"lon zone zero", "N00F"},
		{"lon zone too big", "N61F"},
		{"bad lat letter", "N50Z"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.code); err == nil {
				t.Errorf("Decode(%q): expected error", tt.code)
			}
		})
	}
}

func TestDecodeLevel1Bbox(t *testing.T) {
	cell, err := Decode("N50F")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b := cell.Bounds()
	if math.Abs(b.MinLon-114) > 1e-9 || math.Abs(b.MaxLon-120) > 1e-9 {
		t.Errorf("lon bounds = [%v,%v], want [114,120]", b.MinLon, b.MaxLon)
	}
	if math.Abs(b.MinLat-20) > 1e-9 || math.Abs(b.MaxLat-24) > 1e-9 {
		t.Errorf("lat bounds = [%v,%v], want [20,24]", b.MinLat, b.MaxLat)
	}
}

// A level-2 cell decoded from its code is its level-1 parent divided by
// level 2's fan-out along each axis.
func TestDecodeCellWidthsShrinkByFanOut(t *testing.T) {
	c1, _ := Decode("N50F")
	c2, err := Decode("N50F3")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b1, b2 := c1.Bounds(), c2.Bounds()
	wantLon := (b1.MaxLon - b1.MinLon) / float64(levelSpecs[2].fanLon)
	wantLat := (b1.MaxLat - b1.MinLat) / float64(levelSpecs[2].fanLat)
	if math.Abs((b2.MaxLon-b2.MinLon)-wantLon) > 1e-9 {
		t.Errorf("level2 lon width = %v, want %v", b2.MaxLon-b2.MinLon, wantLon)
	}
	if math.Abs((b2.MaxLat-b2.MinLat)-wantLat) > 1e-9 {
		t.Errorf("level2 lat width = %v, want %v", b2.MaxLat-b2.MinLat, wantLat)
	}
}
