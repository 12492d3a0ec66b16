package worldgen

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexlands/internal/world"
)

// resolveShorelines stamps each water tile with the edge mask of its land
// neighbors, for coast art selection. Tiles fully surrounded by water
// keep a nil mask.
func (p *Pipeline) resolveShorelines() error {
	n := 0
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if !t.WaterTile {
			continue
		}
		var mask world.DirectionMask
		for i, nb := range c.Neighbors() {
			nt := p.grid.Get(nb)
			if nt != nil && !nt.WaterTile {
				mask = mask.Set(world.Direction(i))
			}
		}
		if mask != 0 {
			t.ShorelineMask = &mask
			n++
		}
	}
	p.log.Debug("shorelines resolved", "tiles", n)
	return nil
}

// tileTag is the set of boolean tags terrain rules match against.
type tileTag uint16

const (
	tagMountain tileTag = 1 << iota
	tagOcean
	tagLake
	tagArid
	tagTropical
	tagTemperate
	tagFloodplains
	tagWindward
	tagLeeward
	tagMountainRange
	tagLowlands
)

func tileTags(t *world.Tile) tileTag {
	var tags tileTag
	if t.IsMountain {
		tags |= tagMountain
	}
	if t.IsOcean {
		tags |= tagOcean
	}
	if t.IsLake {
		tags |= tagLake
	}
	if t.Arid {
		tags |= tagArid
	}
	if t.Tropical {
		tags |= tagTropical
	}
	if t.Temperate {
		tags |= tagTemperate
	}
	if t.Floodplains {
		tags |= tagFloodplains
	}
	if t.Windward {
		tags |= tagWindward
	}
	if t.Leeward {
		tags |= tagLeeward
	}
	if t.MountainRange {
		tags |= tagMountainRange
	}
	if t.Lowlands {
		tags |= tagLowlands
	}
	return tags
}

// terrainRules resolve tags to terrain, most specific first. The first
// rule whose tags are all present wins; multi-option rules pick randomly.
var terrainRules = []struct {
	need    tileTag
	options []world.Terrain
}{
	{tagMountain, []world.Terrain{world.TerrainMountain}},
	{tagOcean, []world.Terrain{world.TerrainOceanCalm}},
	{tagLake, []world.Terrain{world.TerrainLake}},
	{tagTemperate | tagWindward | tagLeeward, []world.Terrain{world.TerrainPlains}},
	{tagTropical | tagWindward | tagLeeward, []world.Terrain{world.TerrainPlains}},
	{tagFloodplains | tagWindward | tagLeeward, []world.Terrain{world.TerrainPlains}},
	{tagArid | tagWindward, []world.Terrain{world.TerrainWoodlands}},
	{tagTemperate | tagWindward, []world.Terrain{world.TerrainWoodlands}},
	{tagFloodplains | tagWindward, []world.Terrain{world.TerrainWoodlands}},
	{tagTropical | tagWindward, []world.Terrain{world.TerrainWoodlands}},
	{tagArid | tagLeeward, []world.Terrain{world.TerrainDesertDunes}},
	{tagTemperate | tagLeeward, []world.Terrain{world.TerrainScrublands}},
	{tagTropical | tagLeeward, []world.Terrain{world.TerrainScrublands}},
	{tagFloodplains | tagLeeward, []world.Terrain{world.TerrainPlains}},
	{tagTropical | tagMountainRange, []world.Terrain{world.TerrainWoodlands, world.TerrainHighlands}},
	{tagArid | tagLowlands, []world.Terrain{world.TerrainDesertDunes}},
	{tagTemperate | tagLowlands, []world.Terrain{world.TerrainPlains}},
	{tagFloodplains | tagLowlands, []world.Terrain{world.TerrainMarsh}},
	{tagMountainRange, []world.Terrain{world.TerrainScrublands, world.TerrainHighlands}},
	{tagLowlands, []world.Terrain{world.TerrainMarsh}},
	{tagArid, []world.Terrain{world.TerrainScrublands}},
	{tagTropical, []world.Terrain{world.TerrainWoodlands}},
	{tagTemperate, []world.Terrain{world.TerrainScrublands}},
	{tagFloodplains, []world.Terrain{world.TerrainPlains}},
}

// fillTerrain resolves every untyped tile against the rule table.
func (p *Pipeline) fillTerrain() error {
	unmatched := 0
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if t.Terrain != world.TerrainNone {
			continue
		}
		tags := tileTags(t)
		matched := false
		for _, rule := range terrainRules {
			if tags&rule.need != rule.need {
				continue
			}
			if len(rule.options) == 1 {
				t.Terrain = rule.options[0]
			} else {
				t.Terrain = rule.options[p.terrainRNG.Intn(len(rule.options))]
			}
			matched = true
			break
		}
		if !matched {
			unmatched++
		}
	}
	if unmatched > 0 {
		p.log.Debug("tiles left unresolved", "count", unmatched)
	}
	return nil
}

// octaveNoise layers normalized simplex noise, halving amplitude and
// doubling frequency per octave.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	var total, amplitude, maxValue float64
	amplitude = 1
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxValue
}

// assignVariants picks a deterministic art variant per resolved tile from
// a smooth noise field, so variant runs look organic rather than striped.
func (p *Pipeline) assignVariants() error {
	noise := opensimplex.NewNormalized(p.cfg.Seed)
	for _, c := range p.grid.Coords() {
		t := p.grid.Get(c)
		if t.Terrain == world.TerrainNone {
			continue
		}
		x, z := c.Axial()
		v := octaveNoise(noise, float64(x), float64(z), 2, 0.35, 0.5)
		variant := int(v * 4)
		if variant > 3 {
			variant = 3
		}
		t.Variant = variant
	}
	return nil
}
