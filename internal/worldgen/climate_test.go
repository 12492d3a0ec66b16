package worldgen

import (
	"testing"

	"github.com/talgya/hexlands/internal/world"
)

func TestTagLowlandsPicksFarthestTiers(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 5
	p := newTestPipeline(t, cfg)
	advance(t, p, "tag lowlands")
	g := p.grid

	tagged := 0
	minTagged, maxUntagged := -1, -1
	byDist := make(map[int][2]int) // distance -> (tagged, untagged)
	for _, c := range g.LandCoords() {
		tl := g.Get(c)
		d := *tl.DistToMountain
		counts := byDist[d]
		if tl.Lowlands {
			tagged++
			counts[0]++
			if minTagged == -1 || d < minTagged {
				minTagged = d
			}
		} else {
			counts[1]++
			if d > maxUntagged {
				maxUntagged = d
			}
		}
		byDist[d] = counts
	}
	if tagged == 0 {
		t.Fatal("no lowlands tagged")
	}

	// Tags cover whole distance tiers, and only the farthest ones.
	for d, counts := range byDist {
		if counts[0] > 0 && counts[1] > 0 {
			t.Fatalf("distance tier %d only partially tagged (%d/%d)", d, counts[0], counts[1])
		}
	}
	if minTagged <= maxUntagged {
		t.Fatalf("tagged tier %d not beyond untagged tier %d", minTagged, maxUntagged)
	}
}

func TestTagCentralDesertMostInland(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 5
	p := newTestPipeline(t, cfg)
	advance(t, p, "tag central desert")
	g := p.grid

	// With no extra regions the tier count collapses to one: only the
	// single most inland distance qualifies.
	maxInland := 0
	for _, c := range g.Coords() {
		tl := g.Get(c)
		if tl.Passable && *tl.DistFromOcean > maxInland {
			maxInland = *tl.DistFromOcean
		}
	}
	for _, c := range g.Coords() {
		tl := g.Get(c)
		if !tl.Passable {
			if tl.CentralDesert {
				t.Fatalf("impassable tile %v tagged desert", c)
			}
			continue
		}
		if tl.CentralDesert != (*tl.DistFromOcean == maxInland) {
			t.Fatalf("tile %v at distance %d: desert=%v, max inland %d",
				c, *tl.DistFromOcean, tl.CentralDesert, maxInland)
		}
	}
}

func TestTagScrublandsBordersDesert(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 5
	p := newTestPipeline(t, cfg)
	advance(t, p, "tag scrublands")
	g := p.grid

	for _, c := range g.Coords() {
		tl := g.Get(c)
		borders := false
		for _, nb := range g.PresentNeighbors(c) {
			if nb.CentralDesert {
				borders = true
				break
			}
		}
		want := tl.Passable && !tl.CentralDesert && borders
		if tl.AdjacentScrublands != want {
			t.Fatalf("tile %v scrublands=%v, want %v", c, tl.AdjacentScrublands, want)
		}
	}
}

func TestTagMountainRangeRadius(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 5
	p := newTestPipeline(t, cfg)
	advance(t, p, "tag mountain range")
	g := p.grid

	for _, c := range g.Coords() {
		tl := g.Get(c)
		want := tl.Passable && tl.DistToMountain != nil &&
			*tl.DistToMountain <= cfg.Mountains.RangeRadius
		if tl.MountainRange != want {
			t.Fatalf("tile %v mountain range=%v, want %v", c, tl.MountainRange, want)
		}
	}
}

func TestTagWindwardLeeward(t *testing.T) {
	// A single row flanking tiles with mountains: farther from the center
	// than the mountain means windward, nearer means leeward, flanked on
	// both sides means both.
	p := newTestPipeline(t, SmallTestConfig())
	p.grid = syntheticGrid(5, 1, func(world.HexCoord) bool { return true })

	get := func(q int) *world.Tile { return p.grid.Get(world.HexCoord{Q: q, R: 0}) }
	for q, dist := range []int{5, 4, 3, 2, 1} {
		get(q).DistFromCenter = dist
	}
	get(1).IsMountain = true
	get(3).IsMountain = true
	get(0).MountainRange = true
	get(2).MountainRange = true
	get(4).MountainRange = true

	if err := p.tagWindwardLeeward(); err != nil {
		t.Fatalf("tagWindwardLeeward: %v", err)
	}

	cases := []struct {
		q                 int
		windward, leeward bool
	}{
		{0, true, false},  // outside the western mountain
		{2, true, true},   // between the two
		{4, false, true},  // in the eastern mountain's shadow
	}
	for _, tc := range cases {
		tl := get(tc.q)
		if tl.Windward != tc.windward || tl.Leeward != tc.leeward {
			t.Fatalf("tile q=%d windward/leeward = %v/%v, want %v/%v",
				tc.q, tl.Windward, tl.Leeward, tc.windward, tc.leeward)
		}
	}

	// Mountains themselves stay untagged.
	if get(1).Windward || get(1).Leeward || get(3).Windward || get(3).Leeward {
		t.Fatal("mountain tiles picked up wind tags")
	}
}
