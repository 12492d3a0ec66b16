package worldgen

import (
	"slices"

	"github.com/talgya/hexlands/internal/world"
)

// rowMajorCompare orders coordinates by row, then column, matching the
// grid's tile creation order.
func rowMajorCompare(a, b world.HexCoord) int {
	if a.R != b.R {
		return a.R - b.R
	}
	return a.Q - b.Q
}

// hexDisk returns every coordinate within the given hex radius of the
// center, in a fixed axial scan order.
func hexDisk(center world.HexCoord, radius int) []world.HexCoord {
	cx, cz := center.Axial()
	disk := make([]world.HexCoord, 0, 3*radius*(radius+1)+1)
	for dx := -radius; dx <= radius; dx++ {
		lo, hi := -radius, radius
		if -dx-radius > lo {
			lo = -dx - radius
		}
		if -dx+radius < hi {
			hi = -dx + radius
		}
		for dz := lo; dz <= hi; dz++ {
			disk = append(disk, world.FromAxial(cx+dx, cz+dz))
		}
	}
	return disk
}

// assembleGrid stamps a disk around every chosen lattice point, normalizes
// the landmass into a padded rectangle, and creates one tile per cell.
// The row offset is kept even so every tile keeps its row parity and with
// it its neighbor geometry. Overlapping disks belong to the region with
// the highest id.
func (p *Pipeline) assembleGrid() error {
	if len(p.lattice) == 0 {
		return ErrNoRegions
	}
	radius := p.cfg.Regions.Radius

	disks := make([][]world.HexCoord, len(p.lattice))
	minQ, maxQ := latticeOrigin.Q, latticeOrigin.Q
	minR, maxR := latticeOrigin.R, latticeOrigin.R
	for i, pt := range p.lattice {
		disks[i] = hexDisk(pt.coord, radius)
		for _, c := range disks[i] {
			if c.Q < minQ {
				minQ = c.Q
			}
			if c.Q > maxQ {
				maxQ = c.Q
			}
			if c.R < minR {
				minR = c.R
			}
			if c.R > maxR {
				maxR = c.R
			}
		}
	}

	pad := p.cfg.Regions.MinPadding
	minQ -= pad
	maxQ += pad
	minR -= pad
	maxR += pad

	offsetQ := -minQ
	offsetR := -minR
	if offsetR&1 == 1 {
		offsetR++
	}
	width := (maxQ - minQ) + 1
	height := (maxR - minR) + 1

	// Normalize regions into grid space and stamp disk ownership in id
	// order so that overlaps go to the later region.
	latticeToRegion := make(map[int]int, len(p.lattice))
	for i, pt := range p.lattice {
		latticeToRegion[pt.id] = i + 1
	}
	owner := make(map[world.HexCoord]int)
	regions := make([]*world.Region, len(p.lattice))
	for i, pt := range p.lattice {
		members := make([]world.HexCoord, len(disks[i]))
		for j, c := range disks[i] {
			members[j] = world.HexCoord{Q: c.Q + offsetQ, R: c.R + offsetR}
		}
		slices.SortFunc(members, rowMajorCompare)
		var adjacent []int
		for _, aid := range pt.adjacent {
			if rid, ok := latticeToRegion[aid]; ok {
				adjacent = append(adjacent, rid)
			}
		}
		slices.Sort(adjacent)
		regions[i] = &world.Region{
			ID:       i + 1,
			Center:   world.HexCoord{Q: pt.coord.Q + offsetQ, R: pt.coord.R + offsetR},
			Members:  members,
			Adjacent: adjacent,
		}
		for _, c := range members {
			owner[c] = i + 1
		}
	}

	grid := world.NewGrid(width, height)
	grid.Seed = p.cfg.Seed
	grid.Regions = regions
	vp := p.cfg.Viewport
	for r := minR; r <= maxR; r++ {
		for q := minQ; q <= maxQ; q++ {
			c := world.HexCoord{Q: q + offsetQ, R: r + offsetR}
			t := &world.Tile{Coord: c}
			if rid, ok := owner[c]; ok {
				t.Passable = true
				t.RegionID = rid
			}
			t.PixelX, t.PixelY = c.PixelCenter(vp.HexPixelW, vp.HexPixelH, vp.Zoom)
			grid.Add(t)
		}
	}
	for _, reg := range regions {
		grid.Get(reg.Center).IsRegionCenter = true
	}
	p.grid = grid

	land := len(grid.LandCoords())
	if land == 0 {
		return ErrNoLand
	}
	expected := (3*radius*(radius+1) + 1) * len(regions)
	p.log.Info("grid assembled",
		"width", width, "height", height,
		"land", land, "expected_land", expected,
		"overlap", expected-land)
	return nil
}
