package worldgen

import (
	"math"

	"github.com/talgya/hexlands/internal/world"
)

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func pmod360(v float64) float64 {
	m := math.Mod(v, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// computeElevation runs the four proxy layers and blends them. Each layer
// degrades independently: missing inputs log a warning and leave that
// scale unset, contributing zero to the blend.
func (p *Pipeline) computeElevation() error {
	p.continentalScale()
	p.topographicScale()
	p.coastalScale()
	p.verticalScale()
	p.combineElevation()
	return nil
}

type coastalPoint struct {
	angle float64
	dist  int
}

// continentalScale models the dome of the continent: between the map
// center and the coastline in each direction, elevation falls from 1
// toward the configured floor. The coastline distance per integer degree
// is interpolated between the two coastal points bracketing that bearing.
func (p *Pipeline) continentalScale() {
	center := p.grid.MapCenter
	var points []coastalPoint
	for _, c := range p.grid.Coords() {
		if p.grid.Get(c).IsCoast {
			points = append(points, coastalPoint{
				angle: world.Bearing(center, c),
				dist:  world.Distance(center, c),
			})
		}
	}
	if len(points) == 0 {
		p.log.Warn("no coastal points, skipping continental scale")
		return
	}
	sortStableByAngle(points)

	var distance [360]float64
	for i := 0; i < 360; i++ {
		target := float64(i)
		p1 := points[len(points)-1]
		p2 := points[0]
		for _, pt := range points {
			if pt.angle <= target {
				p1 = pt
			}
			if pt.angle >= target {
				p2 = pt
				break
			}
		}
		angleRange := pmod360(p2.angle - p1.angle)
		targetPos := pmod360(target - p1.angle)
		if angleRange == 0 {
			distance[i] = float64(p1.dist)
		} else {
			ratio := targetPos / angleRange
			distance[i] = float64(p1.dist)*(1-ratio) + float64(p2.dist)*ratio
		}
	}

	floor := p.cfg.Elevation.ContinentalScaleMin
	for _, c := range p.grid.LandCoords() {
		t := p.grid.Get(c)
		angle := world.Bearing(center, c)
		dist := world.Distance(c, center)
		maxDist := distance[int(angle)]
		if maxDist == 0 {
			maxDist = 1
		}
		raw := float64(dist) / maxDist
		if raw > 1 {
			raw = 1
		}
		scale := floor + (1-raw)*(1-floor)
		t.ContinentalScale = &scale
	}
}

func sortStableByAngle(points []coastalPoint) {
	// Insertion sort keeps equal angles in tile order.
	for i := 1; i < len(points); i++ {
		for j := i; j > 0 && points[j].angle < points[j-1].angle; j-- {
			points[j], points[j-1] = points[j-1], points[j]
		}
	}
}

// topographicScale maps distance to the nearest mountain onto [0, 1],
// peaks high. Mountains themselves sit at 1.
func (p *Pipeline) topographicScale() {
	land := p.grid.LandCoords()
	minD, maxD, found := 0, 0, false
	for _, c := range land {
		t := p.grid.Get(c)
		if t.DistToMountain == nil {
			continue
		}
		d := *t.DistToMountain
		if !found {
			minD, maxD, found = d, d, true
			continue
		}
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}
	if !found {
		p.log.Warn("no mountain distances, skipping topographic scale")
		return
	}
	span := 1.0
	if maxD > minD {
		span = float64(maxD - minD)
	}
	for _, c := range land {
		t := p.grid.Get(c)
		if t.DistToMountain == nil {
			continue
		}
		v := round4(1 - float64(*t.DistToMountain-minD)/span)
		t.TopographicScale = &v
	}
}

// coastalScale maps distance from the ocean onto [0, 1], inland high.
func (p *Pipeline) coastalScale() {
	land := p.grid.LandCoords()
	minD, maxD, found := 0, 0, false
	for _, c := range land {
		t := p.grid.Get(c)
		if t.DistFromOcean == nil {
			continue
		}
		d := *t.DistFromOcean
		if !found {
			minD, maxD, found = d, d, true
			continue
		}
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}
	if !found {
		p.log.Warn("no ocean distances, skipping coastal scale")
		return
	}
	span := 1.0
	if maxD > minD {
		span = float64(maxD - minD)
	}
	for _, c := range land {
		t := p.grid.Get(c)
		if t.DistFromOcean == nil {
			continue
		}
		v := float64(*t.DistFromOcean-minD) / span
		t.CoastalScale = &v
	}
}

// verticalScale applies a north-high gradient so rivers prefer to run
// south.
func (p *Pipeline) verticalScale() {
	land := p.grid.LandCoords()
	if len(land) == 0 {
		p.log.Warn("no land tiles, skipping vertical scale")
		return
	}
	minR, maxR := land[0].R, land[0].R
	for _, c := range land {
		if c.R < minR {
			minR = c.R
		}
		if c.R > maxR {
			maxR = c.R
		}
	}
	span := 1.0
	if maxR > minR {
		span = float64(maxR - minR)
	}
	for _, c := range land {
		v := 1 - float64(c.R-minR)/span
		p.grid.Get(c).VerticalScale = &v
	}
}

func scaleOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// combineElevation blends the four scales by weight and min-max
// normalizes the result over the land, so the lowest land tile sits at 0
// and the highest at 1.
func (p *Pipeline) combineElevation() {
	land := p.grid.LandCoords()
	if len(land) == 0 {
		p.log.Warn("no land tiles, skipping elevation blend")
		return
	}
	w := p.cfg.Elevation.Weights
	total := w.Continental + w.Topographic + w.Coastal + w.Vertical
	if total == 0 {
		total = 1
	}
	fc, ft, fo, fv := w.Continental/total, w.Topographic/total, w.Coastal/total, w.Vertical/total

	raw := make([]float64, len(land))
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i, c := range land {
		t := p.grid.Get(c)
		v := scaleOrZero(t.ContinentalScale)*fc +
			scaleOrZero(t.TopographicScale)*ft +
			scaleOrZero(t.CoastalScale)*fo +
			scaleOrZero(t.VerticalScale)*fv
		raw[i] = v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}
	for i, c := range land {
		v := round4((raw[i] - minV) / span)
		p.grid.Get(c).FinalElevation = &v
	}
	p.log.Debug("elevation blended", "land", len(land))
}
