package worldgen

import (
	"slices"
	"testing"

	"github.com/talgya/hexlands/internal/world"
)

func latticeCoords(p *Pipeline) []world.HexCoord {
	coords := make([]world.HexCoord, len(p.lattice))
	for i, pt := range p.lattice {
		coords[i] = pt.coord
	}
	return coords
}

func TestSeedLatticeDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Regions.ExtraCount = 6
	cfg.Seed = 11

	p1 := newTestPipeline(t, cfg)
	if err := p1.seedLattice(); err != nil {
		t.Fatalf("first seeding: %v", err)
	}
	p2 := newTestPipeline(t, cfg)
	if err := p2.seedLattice(); err != nil {
		t.Fatalf("second seeding: %v", err)
	}
	if !slices.Equal(latticeCoords(p1), latticeCoords(p2)) {
		t.Fatal("same seed chose different lattice points")
	}
}

func TestSeedLatticeTwoRegions(t *testing.T) {
	p := newTestPipeline(t, SmallTestConfig())
	if err := p.seedLattice(); err != nil {
		t.Fatalf("seedLattice: %v", err)
	}
	if len(p.lattice) != 2 {
		t.Fatalf("chose %d points, want 2", len(p.lattice))
	}

	// The first pick is always the row-major first point of the one-ring
	// lattice: the origin's NW neighbor.
	first := p.lattice[0]
	if first.id != 1 || first.coord != (world.HexCoord{Q: 100, R: 93}) {
		t.Fatalf("first point = id %d at %v, want id 1 at {100 93}", first.id, first.coord)
	}

	// The second is one of the first point's two present neighbors, and
	// the adjacency must run both ways.
	second := p.lattice[1]
	want := []world.HexCoord{{Q: 105, R: 97}, {Q: 95, R: 96}}
	if !slices.Contains(want, second.coord) {
		t.Fatalf("second point at %v, want one of %v", second.coord, want)
	}
	if !slices.Contains(first.adjacent, second.id) {
		t.Fatalf("first point adjacency %v does not list second id %d", first.adjacent, second.id)
	}
	if !slices.Contains(second.adjacent, first.id) {
		t.Fatalf("second point adjacency %v does not list first id %d", second.adjacent, first.id)
	}
}

func TestSeedLatticeGrowth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Regions.ExtraCount = 6
	cfg.Seed = 11

	p := newTestPipeline(t, cfg)
	if err := p.seedLattice(); err != nil {
		t.Fatalf("seedLattice: %v", err)
	}
	if len(p.lattice) != 8 {
		t.Fatalf("chose %d points, want 8", len(p.lattice))
	}

	// Ids ascend and coordinates never repeat.
	seen := make(map[world.HexCoord]bool)
	for i, pt := range p.lattice {
		if i > 0 && pt.id <= p.lattice[i-1].id {
			t.Fatalf("ids not ascending: %d after %d", pt.id, p.lattice[i-1].id)
		}
		if seen[pt.coord] {
			t.Fatalf("coordinate %v chosen twice", pt.coord)
		}
		seen[pt.coord] = true
	}

	// Growth adds only points touching two chosen points, so at most the
	// two seeds may end up with fewer than two chosen neighbors.
	chosen := make(map[int]bool, len(p.lattice))
	for _, pt := range p.lattice {
		chosen[pt.id] = true
	}
	sparse := 0
	for _, pt := range p.lattice {
		touching := 0
		for _, nid := range pt.adjacent {
			if chosen[nid] {
				touching++
			}
		}
		if touching < 2 {
			sparse++
		}
	}
	if sparse > 2 {
		t.Fatalf("%d chosen points have fewer than two chosen neighbors, want at most 2", sparse)
	}
}
