package worldgen

import (
	"math"
	"slices"

	"github.com/talgya/hexlands/internal/world"
)

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// tagLowlands tags the farthest distance-from-mountain tiers whose
// combined tile count lands closest to the configured share of the land.
func (p *Pipeline) tagLowlands() error {
	land := p.grid.LandCoords()
	target := int(p.cfg.Climate.LowlandsTargetPercent / 100 * float64(len(land)))

	counts := make(map[int]int)
	for _, c := range land {
		if t := p.grid.Get(c); t.DistToMountain != nil {
			counts[*t.DistToMountain]++
		}
	}
	if len(counts) == 0 {
		p.log.Warn("no mountain distances, skipping lowlands")
		return nil
	}
	dists := make([]int, 0, len(counts))
	for d := range counts {
		dists = append(dists, d)
	}
	slices.SortFunc(dists, func(a, b int) int { return b - a })

	bestSteps, bestDelta := 0, math.MaxInt
	cumulative := 0
	for i, d := range dists {
		cumulative += counts[d]
		if delta := absInt(cumulative - target); delta < bestDelta {
			bestSteps, bestDelta = i+1, delta
		}
	}

	chosen := make(map[int]bool, bestSteps)
	for _, d := range dists[:bestSteps] {
		chosen[d] = true
	}
	tagged := 0
	for _, c := range land {
		t := p.grid.Get(c)
		if t.DistToMountain != nil && chosen[*t.DistToMountain] {
			t.Lowlands = true
			tagged++
		}
	}
	p.log.Info("lowlands tagged", "tiles", tagged, "steps", bestSteps, "target", target)
	return nil
}

// tagMountainRange tags unresolved passable tiles hugging the mountains.
func (p *Pipeline) tagMountainRange() error {
	n := 0
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if !t.Passable || t.Terrain != world.TerrainNone || t.DistToMountain == nil {
			continue
		}
		if *t.DistToMountain <= p.cfg.Mountains.RangeRadius {
			t.MountainRange = true
			n++
		}
	}
	p.log.Debug("mountain range tagged", "tiles", n)
	return nil
}

// tagCentralDesert tags the most inland distance-from-ocean tiers. The
// tier count scales with the square root of the configured region count
// unless overridden.
func (p *Pipeline) tagCentralDesert() error {
	steps := p.cfg.Climate.DesertDistanceSteps
	if steps == 0 {
		steps = int(math.Sqrt(float64(p.cfg.Regions.ExtraCount)))
		if steps < 1 {
			steps = 1
		}
	}

	seen := make(map[int]bool)
	var dists []int
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if !t.Passable || t.DistFromOcean == nil {
			continue
		}
		if d := *t.DistFromOcean; !seen[d] {
			seen[d] = true
			dists = append(dists, d)
		}
	}
	if len(dists) == 0 {
		p.log.Warn("no inland candidates, skipping central desert")
		return nil
	}
	slices.SortFunc(dists, func(a, b int) int { return b - a })
	if steps > len(dists) {
		steps = len(dists)
	}
	chosen := make(map[int]bool, steps)
	for _, d := range dists[:steps] {
		chosen[d] = true
	}

	tagged := 0
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if t.Passable && t.DistFromOcean != nil && chosen[*t.DistFromOcean] {
			t.CentralDesert = true
			tagged++
		}
	}
	p.log.Debug("central desert tagged", "tiles", tagged, "steps", steps)
	return nil
}

// tagScrublands tags passable tiles bordering the central desert.
func (p *Pipeline) tagScrublands() error {
	n := 0
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if !t.Passable || t.CentralDesert {
			continue
		}
		for _, nb := range p.grid.PresentNeighbors(c) {
			if nb.CentralDesert {
				t.AdjacentScrublands = true
				n++
				break
			}
		}
	}
	p.log.Debug("scrublands tagged", "tiles", n)
	return nil
}

// tagWindwardLeeward compares mountain-range tiles against mountains in
// the same row: a tile farther from the map center than a same-row
// mountain faces the weather (windward), a nearer one sits in its shadow
// (leeward). Both can apply when mountains flank the tile.
func (p *Pipeline) tagWindwardLeeward() error {
	windward, leeward := 0, 0
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if !t.MountainRange {
			continue
		}
		for _, n := range c.Neighbors() {
			if n.R != c.R {
				continue
			}
			nb := p.grid.Get(n)
			if nb == nil || !nb.IsMountain {
				continue
			}
			if t.DistFromCenter > nb.DistFromCenter && !t.Windward {
				t.Windward = true
				windward++
			}
			if t.DistFromCenter < nb.DistFromCenter && !t.Leeward {
				t.Leeward = true
				leeward++
			}
		}
	}
	p.log.Debug("wind tags applied", "windward", windward, "leeward", leeward)
	return nil
}
