package worldgen

import (
	"math"

	"github.com/talgya/hexlands/internal/world"
)

// computeMapCenter stores the rounded mean of the land coordinates.
func (p *Pipeline) computeMapCenter() error {
	land := p.grid.LandCoords()
	if len(land) == 0 {
		return ErrNoLand
	}
	var sumQ, sumR int
	for _, c := range land {
		sumQ += c.Q
		sumR += c.R
	}
	n := float64(len(land))
	p.grid.MapCenter = world.HexCoord{
		Q: int(math.Round(float64(sumQ) / n)),
		R: int(math.Round(float64(sumR) / n)),
	}
	p.log.Debug("map center", "q", p.grid.MapCenter.Q, "r", p.grid.MapCenter.R)
	return nil
}

// computeDistanceFromCenter stamps the hex distance to the map center on
// every tile, water included.
func (p *Pipeline) computeDistanceFromCenter() error {
	center := p.grid.MapCenter
	for _, c := range p.grid.Coords() {
		p.grid.Get(c).DistFromCenter = world.Distance(c, center)
	}
	return nil
}

// computeDistanceFromOcean runs a multi-source BFS from every impassable
// tile. Impassable tiles sit at distance zero; land tiles get hops to the
// nearest one. Unreachable tiles keep a nil distance.
func (p *Pipeline) computeDistanceFromOcean() error {
	var queue []world.HexCoord
	visited := make(map[world.HexCoord]bool)
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if !t.Passable {
			zero := 0
			t.DistFromOcean = &zero
			visited[c] = true
			queue = append(queue, c)
		}
	}
	if len(queue) == 0 {
		p.log.Warn("no impassable tiles, skipping ocean distance")
		return nil
	}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		next := *p.grid.Get(cur).DistFromOcean + 1
		for _, n := range cur.Neighbors() {
			t := p.grid.Get(n)
			if t == nil || visited[n] {
				continue
			}
			d := next
			t.DistFromOcean = &d
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return nil
}

// computeMonsoonBands stores how far each land tile sits from the
// landmass's vertical midline, absolute and normalized.
func (p *Pipeline) computeMonsoonBands() error {
	land := p.grid.LandCoords()
	if len(land) == 0 {
		p.log.Warn("no land tiles, skipping monsoon bands")
		return nil
	}
	minQ, maxQ := land[0].Q, land[0].Q
	for _, c := range land {
		if c.Q < minQ {
			minQ = c.Q
		}
		if c.Q > maxQ {
			maxQ = c.Q
		}
	}
	centerQ := (float64(minQ) + float64(maxQ)) / 2.0
	maxAbs := float64(maxQ) - centerQ
	if maxAbs == 0 {
		maxAbs = 1.0
	}
	for _, c := range land {
		t := p.grid.Get(c)
		t.AbsDistFromQCenter = math.Abs(float64(c.Q) - centerQ)
		t.NormDistFromQCenter = t.AbsDistFromQCenter / maxAbs
	}
	return nil
}

// tagOcean marks every void tile as open ocean. The void between and
// around the region disks is the only water at this point.
func (p *Pipeline) tagOcean() error {
	n := 0
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if t.RegionID == 0 {
			t.WaterTile = true
			t.IsOcean = true
			n++
		}
	}
	p.log.Debug("ocean tagged", "tiles", n)
	return nil
}

// tagCoastline marks land tiles that touch the ocean.
func (p *Pipeline) tagCoastline() error {
	n := 0
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if t.WaterTile {
			continue
		}
		for _, nb := range p.grid.PresentNeighbors(c) {
			if nb.IsOcean {
				t.IsCoast = true
				n++
				break
			}
		}
	}
	p.log.Debug("coastline tagged", "tiles", n)
	return nil
}
