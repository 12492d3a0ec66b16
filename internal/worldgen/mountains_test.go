package worldgen

import (
	"math/rand"
	"testing"

	"github.com/talgya/hexlands/internal/world"
)

func TestCoordBucket(t *testing.T) {
	b := newCoordBucket()
	a, c, d := world.HexCoord{Q: 1, R: 1}, world.HexCoord{Q: 2, R: 2}, world.HexCoord{Q: 3, R: 3}
	b.add(a)
	b.add(c)
	b.add(d)
	b.add(c) // duplicate, ignored
	if b.size() != 3 {
		t.Fatalf("size = %d, want 3", b.size())
	}
	b.remove(c)
	b.remove(world.HexCoord{Q: 9, R: 9}) // absent, ignored
	if b.size() != 2 {
		t.Fatalf("size after remove = %d, want 2", b.size())
	}

	rng := rand.New(rand.NewSource(1))
	first := b.popRandom(rng)
	second := b.popRandom(rng)
	if b.size() != 0 {
		t.Fatalf("size after pops = %d, want 0", b.size())
	}
	if first == second || (first != a && first != d) || (second != a && second != d) {
		t.Fatalf("pops returned %v then %v, want %v and %v in some order", first, second, a, d)
	}
}

func TestNeighborSpan(t *testing.T) {
	center := world.HexCoord{Q: 2, R: 2}
	nbs := center.Neighbors()
	cases := []struct {
		dirs  []int
		count int
		span  int
	}{
		{nil, 0, 0},
		{[]int{0}, 1, 0},
		{[]int{0, 1}, 2, 1},
		{[]int{0, 3}, 2, 3},
		{[]int{0, 5}, 2, 1}, // circular wrap
		{[]int{0, 1, 3}, 3, 3},
	}
	for _, tc := range cases {
		s := &sculptState{mountains: make(map[world.HexCoord]bool)}
		for _, d := range tc.dirs {
			s.mountains[nbs[d]] = true
		}
		count, span := s.neighborSpan(center)
		if count != tc.count || span != tc.span {
			t.Fatalf("dirs %v: count/span = %d/%d, want %d/%d",
				tc.dirs, count, span, tc.count, tc.span)
		}
	}
}

func TestClusterAndGapDetection(t *testing.T) {
	p := newTestPipeline(t, SmallTestConfig())
	p.grid = syntheticGrid(5, 5, func(world.HexCoord) bool { return true })
	center := world.HexCoord{Q: 2, R: 2}
	p.grid.Get(center).DistFromOcean = iptr(5)

	nbs := center.Neighbors()
	s := &sculptState{p: p, mountains: map[world.HexCoord]bool{nbs[0]: true, nbs[1]: true}}

	// Two mountain neighbors in a tight arc: a mountain here is a cluster,
	// a hole here is not a gap.
	s.mountains[center] = true
	if !s.isCluster(center) {
		t.Fatal("tight arc not detected as cluster")
	}
	delete(s.mountains, center)
	if s.isGap(center) {
		t.Fatal("tight arc wrongly detected as gap")
	}

	// Spread the neighbors to opposite sides: now the hole is a gap.
	delete(s.mountains, nbs[1])
	s.mountains[nbs[3]] = true
	if !s.isGap(center) {
		t.Fatal("spread arms not detected as gap")
	}
	if s.isCluster(center) {
		t.Fatal("non-mountain detected as cluster")
	}

	// Gaps must sit well inland.
	p.grid.Get(center).DistFromOcean = iptr(2)
	if s.isGap(center) {
		t.Fatal("coastal hole detected as gap")
	}
}

func TestPlaceMountains(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 5
	p := newTestPipeline(t, cfg)
	advance(t, p, "place mountains")
	g := p.grid

	var mountains []world.HexCoord
	for _, c := range g.LandCoords() {
		if g.Get(c).IsMountain {
			mountains = append(mountains, c)
		}
	}
	// 20 percent of 74 land tiles, truncated.
	if len(mountains) != 14 {
		t.Fatalf("mountain count = %d, want 14", len(mountains))
	}

	for _, c := range g.LandCoords() {
		tl := g.Get(c)
		if tl.IsMountain && tl.Passable {
			t.Fatalf("mountain %v still passable", c)
		}
		if tl.DistToMountain == nil {
			t.Fatalf("land tile %v has no mountain distance", c)
		}
		want := -1
		for _, m := range mountains {
			if d := world.Distance(c, m); want == -1 || d < want {
				want = d
			}
		}
		if *tl.DistToMountain != want {
			t.Fatalf("tile %v mountain distance = %d, want %d", c, *tl.DistToMountain, want)
		}
	}
}

func TestSculptPreservesMountainCount(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 5
	p := newTestPipeline(t, cfg)
	advance(t, p, "sculpt mountains")
	g := p.grid

	count := 0
	for _, c := range g.LandCoords() {
		tl := g.Get(c)
		if tl.IsMountain {
			count++
		}
		if tl.IsMountain == tl.Passable {
			t.Fatalf("tile %v: mountain=%v passable=%v", c, tl.IsMountain, tl.Passable)
		}
	}
	if count != 14 {
		t.Fatalf("mountain count after sculpting = %d, want 14", count)
	}
}
