package worldgen

import (
	"slices"

	"github.com/talgya/hexlands/internal/world"
)

type riverStep struct {
	coord world.HexCoord
	elev  float64
}

// traceRivers selects the highest non-coastal, non-adjacent land tiles as
// candidate sources, walks each downhill, keeps the longest paths, and
// bakes flow masks into the tiles. Terminal tiles that are neither ocean
// nor coast become lakes.
func (p *Pipeline) traceRivers() error {
	land := p.grid.LandCoords()
	targetFinal := int(float64(len(land)) / 100 * p.cfg.Rivers.DensityFactor)
	if targetFinal < 1 {
		targetFinal = 1
	}
	targetCandidates := int(float64(targetFinal) * p.cfg.Rivers.CandidatesPerFinal)

	// Rank the land by elevation, highest first. Ties keep row-major
	// order.
	ranked := make([]riverStep, 0, len(land))
	for _, c := range land {
		if t := p.grid.Get(c); t.FinalElevation != nil {
			ranked = append(ranked, riverStep{coord: c, elev: *t.FinalElevation})
		}
	}
	if len(ranked) == 0 {
		p.log.Warn("no elevation data, skipping rivers")
		return nil
	}
	slices.SortStableFunc(ranked, func(a, b riverStep) int {
		switch {
		case a.elev > b.elev:
			return -1
		case a.elev < b.elev:
			return 1
		}
		return 0
	})

	// Claim each source and its neighborhood so sources never touch.
	var sources []world.HexCoord
	occupied := make(map[world.HexCoord]bool)
	for _, cand := range ranked {
		if len(sources) >= targetCandidates {
			break
		}
		if p.grid.Get(cand.coord).IsCoast || occupied[cand.coord] {
			continue
		}
		sources = append(sources, cand.coord)
		occupied[cand.coord] = true
		for _, n := range cand.coord.Neighbors() {
			occupied[n] = true
		}
	}

	var paths [][]world.HexCoord
	for _, src := range sources {
		if path := p.descendRiver(src); len(path) > 1 {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		p.log.Warn("no rivers generated", "candidates", len(sources))
		return nil
	}

	// Keep the longest paths. Ending in lowlands counts one extra tile
	// toward length.
	effectiveLength := func(path []world.HexCoord) int {
		n := len(path)
		if dest := p.grid.Get(path[len(path)-1]); dest != nil && dest.Lowlands {
			n++
		}
		return n
	}
	slices.SortStableFunc(paths, func(a, b []world.HexCoord) int {
		return effectiveLength(a) - effectiveLength(b)
	})
	keep := targetFinal
	if keep > len(paths) {
		keep = len(paths)
	}
	culled := len(paths) - keep
	paths = paths[len(paths)-keep:]

	// Endpoints: link the mouth to its terminal tile, merge the inflow
	// bit, and promote landlocked or marshy terminals to lakes.
	mouthDeltas := make(map[world.HexCoord][]world.HexCoord)
	for _, path := range paths {
		dest := path[len(path)-1]
		mouth := path[len(path)-2]
		mouthDeltas[mouth] = append(mouthDeltas[mouth], dest)

		destT := p.grid.Get(dest)
		if dir, ok := world.DirectionBetween(dest, mouth); ok {
			if destT.River == nil {
				destT.River = &world.RiverData{}
			}
			destT.River.Mask = destT.River.Mask.Set(dir)
		}
		if destT.Lowlands && destT.IsCoast {
			destT.IsLake = true
			destT.WaterTile = true
			destT.Passable = false
		}
		if !destT.IsOcean && !destT.IsCoast {
			destT.IsLake = true
			destT.WaterTile = true
			destT.Passable = false
		}
	}

	// Bake masks and ids. At a confluence the bits merge and the last
	// river claims the id.
	rivers := make([]world.RiverPath, 0, len(paths))
	for idx, path := range paths {
		id := idx + 1
		for i, c := range path {
			t := p.grid.Get(c)
			if t.River == nil {
				t.River = &world.RiverData{}
			}
			if i == 0 {
				t.River.Source = true
			}
			var mask world.DirectionMask
			if i > 0 {
				if d, ok := world.DirectionBetween(c, path[i-1]); ok {
					mask = mask.Set(d)
				}
			}
			for _, delta := range mouthDeltas[c] {
				if d, ok := world.DirectionBetween(c, delta); ok {
					mask = mask.Set(d)
				}
			}
			if i < len(path)-1 {
				if d, ok := world.DirectionBetween(c, path[i+1]); ok {
					mask = mask.Set(d)
				}
			}
			t.River.Mask |= mask
			t.River.ID = id
		}
		rivers = append(rivers, world.RiverPath{ID: id, Coords: path, Dest: path[len(path)-1]})
	}
	p.grid.Rivers = rivers

	p.log.Info("rivers traced",
		"kept", len(rivers), "culled", culled,
		"candidates", len(sources), "target", targetFinal)
	return nil
}

// descendRiver walks downhill from a source until it reaches ocean or
// lowlands, dead-ends, or hits the step cap. Ocean and lowland neighbors
// always count as the lowest possible step. A tile far enough inland
// takes the second-lowest step instead of the lowest, letting the upper
// course meander.
func (p *Pipeline) descendRiver(src world.HexCoord) []world.HexCoord {
	path := []world.HexCoord{src}
	visited := map[world.HexCoord]bool{src: true}
	current := src

	for step := 0; step < p.cfg.Rivers.MaxPathSteps; step++ {
		curT := p.grid.Get(current)
		curElev := curT.Elevation()

		var eligible []riverStep
		for _, n := range current.Neighbors() {
			if visited[n] {
				continue
			}
			nt := p.grid.Get(n)
			if nt == nil {
				continue
			}
			if nt.IsOcean || nt.Lowlands {
				eligible = append(eligible, riverStep{coord: n, elev: -1.0})
				continue
			}
			if nt.FinalElevation == nil {
				continue
			}
			if ne := *nt.FinalElevation; ne >= 0 && ne <= curElev {
				eligible = append(eligible, riverStep{coord: n, elev: ne})
			}
		}
		if len(eligible) == 0 {
			break
		}
		slices.SortStableFunc(eligible, func(a, b riverStep) int {
			switch {
			case a.elev < b.elev:
				return -1
			case a.elev > b.elev:
				return 1
			}
			return 0
		})

		next := eligible[0].coord
		if p.shouldMeander(curT, eligible) {
			next = eligible[1].coord
		}
		path = append(path, next)
		visited[next] = true
		current = next

		if nt := p.grid.Get(next); nt.IsOcean || nt.Lowlands {
			break
		}
	}
	return path
}

// shouldMeander allows a detour only when there is a second option, the
// best option is not a terminal, and the tile sits far enough inland.
func (p *Pipeline) shouldMeander(t *world.Tile, eligible []riverStep) bool {
	if len(eligible) < 2 || eligible[0].elev == -1.0 {
		return false
	}
	coastal := 0.0
	if t.CoastalScale != nil {
		coastal = *t.CoastalScale
	}
	return coastal > p.cfg.Rivers.MeanderThreshold
}
