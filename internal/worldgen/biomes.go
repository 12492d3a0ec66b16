package worldgen

import (
	"math"
	"slices"

	"github.com/talgya/hexlands/internal/world"
)

// Draft order doubles as the tie-break: on equal scores the earlier biome
// keeps its pick.
var biomeNames = [4]string{"Arid", "Tropical", "Floodplains", "Temperate"}

// assignBiomes scores every region's desire for each biome, then runs a
// draft that balances picks across the four biomes, and stamps the
// winning biome tag on every member tile. Tiles inside a disk overlap can
// carry two biome tags; terrain resolution settles them by rule order.
func (p *Pipeline) assignBiomes() error {
	regions := p.grid.Regions
	for _, r := range regions {
		r.Desire = make(map[string]float64, len(biomeNames))
	}

	// Arid follows the continental dome: interior regions dry out.
	for _, r := range regions {
		sum, n := 0.0, 0
		for _, c := range r.Members {
			if t := p.grid.Get(c); t.ContinentalScale != nil {
				sum += *t.ContinentalScale
				n++
			}
		}
		r.Desire["Arid"] = meanOrZero(sum, n)
	}

	// Tropical follows the monsoon bands: east and west margins.
	for _, r := range regions {
		sum := 0.0
		for _, c := range r.Members {
			sum += p.grid.Get(c).NormDistFromQCenter
		}
		r.Desire["Tropical"] = meanOrZero(sum, len(r.Members))
	}

	// Floodplains prefer land far from the mountains.
	for _, r := range regions {
		sum, n := 0.0, 0
		for _, c := range r.Members {
			if t := p.grid.Get(c); t.TopographicScale != nil {
				sum += *t.TopographicScale
				n++
			}
		}
		r.Desire["Floodplains"] = 1 - meanOrZero(sum, n)
	}

	// Temperate averages the neighbors' Arid and Tropical pull; isolated
	// regions score zero.
	for _, r := range regions {
		if len(r.Adjacent) == 0 {
			r.Desire["Temperate"] = 0
			continue
		}
		sum := 0.0
		for _, id := range r.Adjacent {
			adj := p.grid.Region(id)
			sum += adj.Desire["Arid"] + adj.Desire["Tropical"]
		}
		r.Desire["Temperate"] = sum / float64(2*len(r.Adjacent))
	}

	p.draftBiomes()

	counts := make(map[string]int, len(biomeNames))
	for _, r := range regions {
		if r.Biome == "" {
			continue
		}
		counts[r.Biome]++
		for _, c := range r.Members {
			stampBiome(p.grid.Get(c), r.Biome)
		}
	}
	most, least := biomeNames[0], biomeNames[0]
	for _, b := range biomeNames[1:] {
		if counts[b] > counts[most] {
			most = b
		}
		if counts[b] < counts[least] {
			least = b
		}
	}
	p.log.Info("biomes assigned",
		"regions", len(regions),
		"most", most, "most_count", counts[most],
		"least", least, "least_count", counts[least])
	return nil
}

func meanOrZero(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func stampBiome(t *world.Tile, biome string) {
	switch biome {
	case "Arid":
		t.Arid = true
	case "Tropical":
		t.Tropical = true
	case "Temperate":
		t.Temperate = true
	case "Floodplains":
		t.Floodplains = true
	}
}

// draftBiomes assigns one region per round. Each biome nominates its most
// desired unassigned region; the nomination with the highest score wins.
// Score = commitment (gap between the region's two best ranks, a region
// that badly wants exactly one biome commits hard) + a bonus per slot the
// biome still has open. Slots split the regions evenly across the four
// biomes, rounded up.
func (p *Pipeline) draftBiomes() {
	regions := p.grid.Regions
	if len(regions) == 0 {
		return
	}

	ranked := make(map[string][]int, len(biomeNames))
	ranks := make(map[int]map[string]int, len(regions))
	for _, r := range regions {
		ranks[r.ID] = make(map[string]int, len(biomeNames))
	}
	for _, biome := range biomeNames {
		order := slices.Clone(regions)
		slices.SortStableFunc(order, func(a, b *world.Region) int {
			switch {
			case a.Desire[biome] > b.Desire[biome]:
				return -1
			case a.Desire[biome] < b.Desire[biome]:
				return 1
			}
			return 0
		})
		ids := make([]int, len(order))
		for i, r := range order {
			ids[i] = r.ID
			ranks[r.ID][biome] = i + 1
		}
		ranked[biome] = ids
	}

	slots := (len(regions) + len(biomeNames) - 1) / len(biomeNames)
	assigned := make(map[string]int, len(biomeNames))
	unassigned := make(map[int]bool, len(regions))
	for _, r := range regions {
		unassigned[r.ID] = true
	}

	for round := 1; round <= len(regions); round++ {
		bestID, bestBiome := 0, ""
		bestScore, bestCommit, bestBonus := -1.0, 0.0, 0.0
		for _, biome := range biomeNames {
			for _, rid := range ranked[biome] {
				if !unassigned[rid] {
					continue
				}
				rv := make([]int, 0, len(biomeNames))
				for _, b := range biomeNames {
					rv = append(rv, ranks[rid][b])
				}
				slices.Sort(rv)
				commitment := float64(rv[1] - rv[0])
				bonus := math.Round(float64(slots-assigned[biome]) * p.cfg.Biomes.VacantSlotBonus)
				if score := commitment + bonus; score > bestScore {
					bestID, bestBiome = rid, biome
					bestScore, bestCommit, bestBonus = score, commitment, bonus
				}
				break
			}
		}
		if bestID == 0 {
			break
		}
		p.grid.Region(bestID).Biome = bestBiome
		delete(unassigned, bestID)
		assigned[bestBiome]++
		p.log.Debug("biome draft",
			"round", round, "region", bestID, "biome", bestBiome,
			"score", bestScore, "commitment", bestCommit, "bonus", bestBonus)
	}
}
