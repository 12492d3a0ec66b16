package worldgen

import (
	"math/rand"
	"slices"

	"github.com/talgya/hexlands/internal/world"
)

// placeMountains seeds mountains on a random sample of the land (coast
// included), capped at half the landmass, then stamps the distance to the
// nearest mountain on every land tile. The distance field is computed
// once; sculpting moves mountains afterward without refreshing it.
func (p *Pipeline) placeMountains() error {
	eligible := p.grid.LandCoords()
	num := int(p.cfg.Mountains.Factor / 100 * float64(len(eligible)))
	if num < 1 {
		num = 1
	}
	if limit := len(eligible) / 2; num > limit {
		num = limit
	}

	picked := slices.Clone(eligible)
	p.mountainsRNG.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	picked = picked[:num]
	for _, c := range picked {
		t := p.grid.Get(c)
		t.IsMountain = true
		t.Passable = false
	}

	if num == 0 {
		p.log.Warn("no mountains placed, skipping mountain distance")
		return nil
	}
	for _, c := range eligible {
		t := p.grid.Get(c)
		if t.IsMountain {
			zero := 0
			t.DistToMountain = &zero
			continue
		}
		best := -1
		for _, m := range picked {
			if d := world.Distance(c, m); best == -1 || d < best {
				best = d
			}
		}
		d := best
		t.DistToMountain = &d
	}
	p.log.Info("mountains placed", "count", num, "land", len(eligible))
	return nil
}

// coordBucket is a set of coordinates supporting deterministic random
// pops: membership is a map, order lives in a slice with swap-remove.
type coordBucket struct {
	index map[world.HexCoord]int
	items []world.HexCoord
}

func newCoordBucket() *coordBucket {
	return &coordBucket{index: make(map[world.HexCoord]int)}
}

func (b *coordBucket) size() int { return len(b.items) }

func (b *coordBucket) add(c world.HexCoord) {
	if _, ok := b.index[c]; ok {
		return
	}
	b.index[c] = len(b.items)
	b.items = append(b.items, c)
}

func (b *coordBucket) remove(c world.HexCoord) {
	i, ok := b.index[c]
	if !ok {
		return
	}
	last := len(b.items) - 1
	b.items[i] = b.items[last]
	b.index[b.items[i]] = i
	b.items = b.items[:last]
	delete(b.index, c)
}

func (b *coordBucket) popRandom(rng *rand.Rand) world.HexCoord {
	c := b.items[rng.Intn(len(b.items))]
	b.remove(c)
	return c
}

// sculptState carries the working mountain set and the two candidate
// buckets through one sculpting run.
type sculptState struct {
	p         *Pipeline
	mountains map[world.HexCoord]bool
	clusters  *coordBucket // mountains crammed into a tight arc
	gaps      *coordBucket // inland holes between spread mountain arms
}

// neighborSpan measures how widely a tile's mountain neighbors spread
// around it: the maximum circular separation between any two occupied
// direction indices, 0 through 3. Fewer than two mountain neighbors give
// a span of zero.
func (s *sculptState) neighborSpan(c world.HexCoord) (count, span int) {
	var dirs []int
	for i, n := range c.Neighbors() {
		if s.mountains[n] {
			dirs = append(dirs, i)
		}
	}
	if len(dirs) < 2 {
		return len(dirs), 0
	}
	for i := 0; i < len(dirs); i++ {
		for j := i + 1; j < len(dirs); j++ {
			d := dirs[j] - dirs[i]
			if d > 3 {
				d = 6 - d
			}
			if d > span {
				span = d
			}
		}
	}
	return len(dirs), span
}

// isCluster reports whether a mountain sits in a tight arc of other
// mountains: at least two mountain neighbors spanning no more than two
// direction steps.
func (s *sculptState) isCluster(c world.HexCoord) bool {
	if !s.mountains[c] {
		return false
	}
	count, span := s.neighborSpan(c)
	return count >= 2 && span <= 2
}

// isGap reports whether a non-mountain tile fills a hole in a range: well
// inland, at least two mountain neighbors, spread at least three
// direction steps apart.
func (s *sculptState) isGap(c world.HexCoord) bool {
	if s.mountains[c] {
		return false
	}
	t := s.p.grid.Get(c)
	if t == nil || t.DistFromOcean == nil || *t.DistFromOcean <= 3 {
		return false
	}
	count, span := s.neighborSpan(c)
	return count >= 2 && span >= 3
}

// reeval syncs one coordinate's bucket membership with the current
// mountain set.
func (s *sculptState) reeval(c world.HexCoord) {
	if s.p.grid.Get(c) == nil {
		return
	}
	if s.mountains[c] {
		s.gaps.remove(c)
		if s.isCluster(c) {
			s.clusters.add(c)
		} else {
			s.clusters.remove(c)
		}
	} else {
		s.clusters.remove(c)
		if s.isGap(c) {
			s.gaps.add(c)
		} else {
			s.gaps.remove(c)
		}
	}
}

func (s *sculptState) reevalAround(c world.HexCoord) {
	s.reeval(c)
	for _, n := range c.Neighbors() {
		s.reeval(n)
	}
}

// sculptMountains trades clustered mountains for gap fillers: each
// iteration removes one mountain from a tight arc and raises one in an
// inland hole, re-evaluating the neighborhood after each move. Moves stay
// paired so the mountain count is unchanged. At the end the tiles are
// reconciled to the final set.
func (p *Pipeline) sculptMountains() error {
	var mountains []world.HexCoord
	for _, c := range p.grid.LandCoords() {
		if p.grid.Get(c).IsMountain {
			mountains = append(mountains, c)
		}
	}
	if len(mountains) == 0 {
		return nil
	}

	s := &sculptState{
		p:         p,
		mountains: make(map[world.HexCoord]bool, len(mountains)),
		clusters:  newCoordBucket(),
		gaps:      newCoordBucket(),
	}
	for _, c := range mountains {
		s.mountains[c] = true
	}
	for _, c := range p.grid.LandCoords() {
		if s.isCluster(c) {
			s.clusters.add(c)
		} else if s.isGap(c) {
			s.gaps.add(c)
		}
	}

	iterations := int(p.cfg.Mountains.CleanupFactor / 100 * float64(len(mountains)))
	var touched []world.HexCoord
	moves := 0
	for i := 0; i < iterations; i++ {
		if s.clusters.size() == 0 || s.gaps.size() == 0 {
			break
		}
		removed := s.clusters.popRandom(p.sculptRNG)
		delete(s.mountains, removed)
		touched = append(touched, removed)
		s.reevalAround(removed)

		if s.gaps.size() == 0 {
			// No gap left to pair with; put the mountain back.
			s.mountains[removed] = true
			touched = touched[:len(touched)-1]
			s.reevalAround(removed)
			break
		}
		added := s.gaps.popRandom(p.sculptRNG)
		s.mountains[added] = true
		touched = append(touched, added)
		s.reevalAround(added)
		moves++
	}

	for _, c := range touched {
		t := p.grid.Get(c)
		t.IsMountain = s.mountains[c]
		t.Passable = !s.mountains[c]
	}
	p.log.Info("mountains sculpted",
		"iterations", iterations, "moves", moves, "mountains", len(s.mountains))
	return nil
}
