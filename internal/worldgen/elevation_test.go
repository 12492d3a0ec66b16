package worldgen

import (
	"math"
	"testing"
)

func TestRound4(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0.12345, 0.1235},
		{0.99999, 1},
		{0, 0},
		{1, 1},
		{0.5, 0.5},
	}
	for _, tc := range cases {
		if got := round4(tc.in); got != tc.want {
			t.Fatalf("round4(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPmod360(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{359, 359},
		{360, 0},
		{370, 10},
		{-30, 330},
		{-360, 0},
	}
	for _, tc := range cases {
		if got := pmod360(tc.in); got != tc.want {
			t.Fatalf("pmod360(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestElevationLayers(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 5
	p := newTestPipeline(t, cfg)
	advance(t, p, "elevation")
	g := p.grid

	land := g.LandCoords()
	maxMountainDist, maxOceanDist := 0, 0
	minRow, maxRow := land[0].R, land[len(land)-1].R
	for _, c := range land {
		tl := g.Get(c)
		if d := *tl.DistToMountain; d > maxMountainDist {
			maxMountainDist = d
		}
		if d := *tl.DistFromOcean; d > maxOceanDist {
			maxOceanDist = d
		}
	}

	floor := cfg.Elevation.ContinentalScaleMin
	for _, c := range land {
		tl := g.Get(c)
		if tl.ContinentalScale == nil || *tl.ContinentalScale < floor || *tl.ContinentalScale > 1 {
			t.Fatalf("tile %v continental scale %v outside [%v, 1]", c, tl.ContinentalScale, floor)
		}

		// Peaks anchor the topographic scale at 1, the farthest tier at 0.
		switch d := *tl.DistToMountain; {
		case d == 0 && *tl.TopographicScale != 1:
			t.Fatalf("mountain %v topographic scale = %v, want 1", c, *tl.TopographicScale)
		case d == maxMountainDist && *tl.TopographicScale != 0:
			t.Fatalf("farthest tile %v topographic scale = %v, want 0", c, *tl.TopographicScale)
		}

		// The shore anchors the coastal scale at 0, the interior at 1.
		switch d := *tl.DistFromOcean; {
		case d == 1 && *tl.CoastalScale != 0:
			t.Fatalf("shore tile %v coastal scale = %v, want 0", c, *tl.CoastalScale)
		case d == maxOceanDist && *tl.CoastalScale != 1:
			t.Fatalf("interior tile %v coastal scale = %v, want 1", c, *tl.CoastalScale)
		}

		// North high, south low.
		switch {
		case c.R == minRow && *tl.VerticalScale != 1:
			t.Fatalf("north tile %v vertical scale = %v, want 1", c, *tl.VerticalScale)
		case c.R == maxRow && *tl.VerticalScale != 0:
			t.Fatalf("south tile %v vertical scale = %v, want 0", c, *tl.VerticalScale)
		}
	}
}

func TestElevationNormalized(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 5
	p := newTestPipeline(t, cfg)
	advance(t, p, "elevation")
	g := p.grid

	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, c := range g.LandCoords() {
		tl := g.Get(c)
		if tl.FinalElevation == nil {
			t.Fatalf("land tile %v has no elevation", c)
		}
		v := *tl.FinalElevation
		if v < 0 || v > 1 {
			t.Fatalf("tile %v elevation %v outside [0, 1]", c, v)
		}
		if scaled := v * 10000; math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Fatalf("tile %v elevation %v not rounded to four decimals", c, v)
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV != 0 || maxV != 1 {
		t.Fatalf("elevation range [%v, %v], want [0, 1]", minV, maxV)
	}

	// Water carries no elevation.
	for _, c := range g.Coords() {
		tl := g.Get(c)
		if tl.RegionID == 0 && tl.FinalElevation != nil {
			t.Fatalf("void tile %v has elevation", c)
		}
	}
}
