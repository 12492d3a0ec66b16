package worldgen

import (
	"slices"

	"github.com/talgya/hexlands/internal/world"
)

// The lattice is a triangular arrangement of candidate region centers in
// offset space, spaced so that radius-3 disks stamped on adjacent points
// just touch. Offsets depend on row parity and follow the canonical
// direction order NW, NE, E, SE, SW, W.
var (
	latticeOrigin = world.HexCoord{Q: 100, R: 100}

	latticeOffsetsEven = [6]world.HexCoord{
		{Q: 0, R: -7},
		{Q: 5, R: -3},
		{Q: 5, R: 4},
		{Q: 0, R: 7},
		{Q: -6, R: 3},
		{Q: -5, R: -4},
	}
	latticeOffsetsOdd = [6]world.HexCoord{
		{Q: 1, R: -7},
		{Q: 6, R: -3},
		{Q: 5, R: 4},
		{Q: -1, R: 7},
		{Q: -5, R: 3},
		{Q: -5, R: -4},
	}
)

// latticePoint is a candidate region center. Points are ephemeral
// scaffolding; only the chosen ones survive into the assembled grid.
type latticePoint struct {
	id       int
	coord    world.HexCoord
	adjacent []int // lattice ids of present neighbors, canonical order
}

func latticeNeighbors(c world.HexCoord) [6]world.HexCoord {
	offsets := &latticeOffsetsEven
	if c.R&1 == 1 {
		offsets = &latticeOffsetsOdd
	}
	var result [6]world.HexCoord
	for i, d := range offsets {
		result[i] = world.HexCoord{Q: c.Q + d.Q, R: c.R + d.R}
	}
	return result
}

// seedLattice builds the candidate lattice, then grows a connected set of
// region centers: the origin point, one random neighbor, and further
// points chosen uniformly among candidates touching at least two already
// chosen points. Growth that stalls before reaching the target logs the
// shortfall and continues with what it has.
func (p *Pipeline) seedLattice() error {
	total := p.cfg.totalRegions()
	extra := p.cfg.Regions.ExtraCount

	// One lattice ring covers roughly two extra regions.
	rings := (extra + 1) / 2
	if rings < 1 {
		rings = 1
	}

	// Expand outward from the origin one ring at a time.
	present := map[world.HexCoord]struct{}{latticeOrigin: {}}
	frontier := []world.HexCoord{latticeOrigin}
	for i := 0; i < rings; i++ {
		var next []world.HexCoord
		for _, c := range frontier {
			for _, n := range latticeNeighbors(c) {
				if _, ok := present[n]; !ok {
					present[n] = struct{}{}
					next = append(next, n)
				}
			}
		}
		frontier = next
	}

	// Number points row-major and record adjacency among present points.
	coords := make([]world.HexCoord, 0, len(present))
	for c := range present {
		coords = append(coords, c)
	}
	slices.SortFunc(coords, rowMajorCompare)
	idOf := make(map[world.HexCoord]int, len(coords))
	for i, c := range coords {
		idOf[c] = i + 1
	}
	points := make([]latticePoint, len(coords))
	for i, c := range coords {
		pt := latticePoint{id: i + 1, coord: c}
		for _, n := range latticeNeighbors(c) {
			if nid, ok := idOf[n]; ok {
				pt.adjacent = append(pt.adjacent, nid)
			}
		}
		points[i] = pt
	}

	// Seed with point 1 and one random neighbor of it.
	chosen := map[int]bool{1: true}
	first := points[0]
	if len(first.adjacent) > 0 {
		chosen[first.adjacent[p.latticeRNG.Intn(len(first.adjacent))]] = true
	}

	// Grow: any unchosen point touching two or more chosen points is a
	// candidate; pick uniformly until the target count is reached.
	for len(chosen) < total {
		var eligible []int
		for _, pt := range points {
			if chosen[pt.id] {
				continue
			}
			touching := 0
			for _, nid := range pt.adjacent {
				if chosen[nid] {
					touching++
				}
			}
			if touching >= 2 {
				eligible = append(eligible, pt.id)
			}
		}
		if len(eligible) == 0 {
			p.log.Warn("lattice growth exhausted",
				"chosen", len(chosen), "target", total)
			break
		}
		chosen[eligible[p.latticeRNG.Intn(len(eligible))]] = true
	}

	// Region order is lattice order: ascending id over the chosen set.
	ids := make([]int, 0, len(chosen))
	for id := range chosen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	p.lattice = make([]latticePoint, len(ids))
	for i, id := range ids {
		p.lattice[i] = points[id-1]
	}

	p.log.Info("lattice seeded",
		"points", len(points), "regions", len(p.lattice), "target", total)
	return nil
}
