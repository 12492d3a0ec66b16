package worldgen

import (
	"slices"
	"testing"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexlands/internal/world"
)

func TestTileTags(t *testing.T) {
	if got := tileTags(&world.Tile{}); got != 0 {
		t.Fatalf("empty tile tags = %b, want 0", got)
	}
	if got := tileTags(&world.Tile{IsMountain: true, Arid: true}); got != tagMountain|tagArid {
		t.Fatalf("tags = %b, want mountain|arid", got)
	}
	all := &world.Tile{
		IsMountain: true, IsOcean: true, IsLake: true,
		Arid: true, Tropical: true, Temperate: true, Floodplains: true,
		Windward: true, Leeward: true, MountainRange: true, Lowlands: true,
	}
	want := tagMountain | tagOcean | tagLake | tagArid | tagTropical | tagTemperate |
		tagFloodplains | tagWindward | tagLeeward | tagMountainRange | tagLowlands
	if got := tileTags(all); got != want {
		t.Fatalf("all tags = %b, want %b", got, want)
	}
}

func TestFillTerrainPrecedence(t *testing.T) {
	cases := []struct {
		set  func(*world.Tile)
		want []world.Terrain
	}{
		// Water and peaks trump everything.
		{func(tl *world.Tile) { tl.IsMountain = true; tl.Arid = true },
			[]world.Terrain{world.TerrainMountain}},
		{func(tl *world.Tile) { tl.IsOcean = true },
			[]world.Terrain{world.TerrainOceanCalm}},
		{func(tl *world.Tile) { tl.IsLake = true; tl.Lowlands = true },
			[]world.Terrain{world.TerrainLake}},

		// Wind pairs.
		{func(tl *world.Tile) { tl.Temperate = true; tl.Windward = true; tl.Leeward = true },
			[]world.Terrain{world.TerrainPlains}},
		{func(tl *world.Tile) { tl.Arid = true; tl.Windward = true; tl.Leeward = true },
			[]world.Terrain{world.TerrainWoodlands}},
		{func(tl *world.Tile) { tl.Arid = true; tl.Windward = true },
			[]world.Terrain{world.TerrainWoodlands}},
		{func(tl *world.Tile) { tl.Arid = true; tl.Leeward = true },
			[]world.Terrain{world.TerrainDesertDunes}},
		{func(tl *world.Tile) { tl.Temperate = true; tl.Leeward = true },
			[]world.Terrain{world.TerrainScrublands}},
		{func(tl *world.Tile) { tl.Floodplains = true; tl.Leeward = true },
			[]world.Terrain{world.TerrainPlains}},

		// Lowlands pairs.
		{func(tl *world.Tile) { tl.Arid = true; tl.Lowlands = true },
			[]world.Terrain{world.TerrainDesertDunes}},
		{func(tl *world.Tile) { tl.Temperate = true; tl.Lowlands = true },
			[]world.Terrain{world.TerrainPlains}},
		{func(tl *world.Tile) { tl.Floodplains = true; tl.Lowlands = true },
			[]world.Terrain{world.TerrainMarsh}},
		{func(tl *world.Tile) { tl.Lowlands = true },
			[]world.Terrain{world.TerrainMarsh}},

		// Plain biomes.
		{func(tl *world.Tile) { tl.Arid = true },
			[]world.Terrain{world.TerrainScrublands}},
		{func(tl *world.Tile) { tl.Tropical = true },
			[]world.Terrain{world.TerrainWoodlands}},
		{func(tl *world.Tile) { tl.Temperate = true },
			[]world.Terrain{world.TerrainScrublands}},
		{func(tl *world.Tile) { tl.Floodplains = true },
			[]world.Terrain{world.TerrainPlains}},

		// Random picks stay inside their option set.
		{func(tl *world.Tile) { tl.Tropical = true; tl.MountainRange = true },
			[]world.Terrain{world.TerrainWoodlands, world.TerrainHighlands}},
		{func(tl *world.Tile) { tl.MountainRange = true },
			[]world.Terrain{world.TerrainScrublands, world.TerrainHighlands}},

		// Nothing matches a bare tile.
		{func(*world.Tile) {}, []world.Terrain{world.TerrainNone}},

		// Already resolved tiles are left alone.
		{func(tl *world.Tile) { tl.Terrain = world.TerrainPlains; tl.IsOcean = true },
			[]world.Terrain{world.TerrainPlains}},
	}

	p := newTestPipeline(t, SmallTestConfig())
	p.grid = syntheticGrid(len(cases), 1, func(world.HexCoord) bool { return true })
	for i, tc := range cases {
		tc.set(p.grid.Get(world.HexCoord{Q: i, R: 0}))
	}
	if err := p.fillTerrain(); err != nil {
		t.Fatalf("fillTerrain: %v", err)
	}
	for i, tc := range cases {
		got := p.grid.Get(world.HexCoord{Q: i, R: 0}).Terrain
		if !slices.Contains(tc.want, got) {
			t.Fatalf("case %d resolved to %v, want one of %v", i, got, tc.want)
		}
	}
}

func TestResolveShorelines(t *testing.T) {
	// One land tile in a 3x3 pond: each adjacent water tile gets exactly
	// the edge bit pointing back at it, the far corners stay bare.
	p := newTestPipeline(t, SmallTestConfig())
	land := world.HexCoord{Q: 1, R: 1}
	p.grid = syntheticGrid(3, 3, func(c world.HexCoord) bool { return c == land })
	for _, c := range p.grid.Coords() {
		if c != land {
			p.grid.Get(c).WaterTile = true
		}
	}

	if err := p.resolveShorelines(); err != nil {
		t.Fatalf("resolveShorelines: %v", err)
	}

	for _, c := range p.grid.Coords() {
		tl := p.grid.Get(c)
		if c == land {
			if tl.ShorelineMask != nil {
				t.Fatalf("land tile %v got a shoreline mask", c)
			}
			continue
		}
		dir, adjacent := world.DirectionBetween(c, land)
		if !adjacent {
			if tl.ShorelineMask != nil {
				t.Fatalf("open water %v got mask %v", c, tl.ShorelineMask)
			}
			continue
		}
		if tl.ShorelineMask == nil {
			t.Fatalf("shore water %v has no mask", c)
		}
		if !tl.ShorelineMask.Has(dir) || tl.ShorelineMask.Count() != 1 {
			t.Fatalf("shore water %v mask = %v, want only %v", c, tl.ShorelineMask, dir)
		}
	}
}

func TestOctaveNoise(t *testing.T) {
	noise := opensimplex.NewNormalized(42)
	points := []struct{ x, y float64 }{{0, 0}, {0.3, 1.7}, {12.5, -4.25}, {-100, 100}}
	for _, pt := range points {
		v := octaveNoise(noise, pt.x, pt.y, 2, 0.35, 0.5)
		if v < 0 || v > 1 {
			t.Fatalf("noise at (%v, %v) = %v, want within [0, 1]", pt.x, pt.y, v)
		}
		if again := octaveNoise(noise, pt.x, pt.y, 2, 0.35, 0.5); again != v {
			t.Fatalf("noise at (%v, %v) not stable: %v then %v", pt.x, pt.y, v, again)
		}
	}
}

func TestAssignVariants(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 5
	p := newTestPipeline(t, cfg)
	advance(t, p, "assign variants")
	g := p.grid

	for _, c := range g.Coords() {
		tl := g.Get(c)
		if tl.Terrain == world.TerrainNone {
			t.Fatalf("tile %v left unresolved", c)
		}
		if tl.Variant < 0 || tl.Variant > 3 {
			t.Fatalf("tile %v variant = %d, want within [0, 3]", c, tl.Variant)
		}
	}
}
