// Package worldgen implements the landmass generation pipeline: lattice
// region seeding, grid assembly, geographic metadata, the four-layer
// elevation model, mountain sculpting, the regional biome draft, river
// tracing, and terrain resolution.
// See design doc Section 4.
package worldgen

import (
	"errors"
	"fmt"
)

// RegionConfig controls lattice seeding and disk stamping.
type RegionConfig struct {
	ExtraCount int // regions grown beyond the first two
	Radius     int // disk radius stamped around each center
	MinPadding int // void rows/columns kept around the landmass
}

// MountainConfig controls mountain placement and sculpting.
type MountainConfig struct {
	Factor        float64 // percent of land tiles seeded as mountains
	CleanupFactor float64 // percent of mountains moved by the sculptor
	RangeRadius   int     // max dist_to_mountain for the mountain_range tag
}

// ClimateConfig controls the tag passes between biomes and rivers.
type ClimateConfig struct {
	LowlandsTargetPercent float64 // percent of land tagged lowlands
	DesertDistanceSteps   int     // inland distance tiers tagged desert; 0 = sqrt of extra region count
}

// ElevationWeights blends the four elevation layers. A zero weight
// disables a layer's contribution without skipping its calculation.
type ElevationWeights struct {
	Continental float64
	Topographic float64
	Coastal     float64
	Vertical    float64
}

// ElevationConfig controls the proxy elevation model.
type ElevationConfig struct {
	Weights             ElevationWeights
	ContinentalScaleMin float64 // floor of the continental dome, keeps coasts above 0
}

// RiverConfig controls river tracing.
type RiverConfig struct {
	DensityFactor      float64 // final rivers per 100 land tiles
	CandidatesPerFinal float64 // candidate sources traced per kept river
	MeanderThreshold   float64 // coastal_scale above which paths take the second-lowest step
	MaxPathSteps       int     // hard cap on descent length
}

// BiomeConfig controls the regional draft.
type BiomeConfig struct {
	VacantSlotBonus float64 // draft score bonus per unfilled slot
}

// ViewportConfig fixes the pixel geometry of the tile art.
type ViewportConfig struct {
	HexPixelW float64
	HexPixelH float64
	Zoom      float64
}

// Config carries every tunable of a generation run.
type Config struct {
	Seed int64

	Regions   RegionConfig
	Mountains MountainConfig
	Climate   ClimateConfig
	Elevation ElevationConfig
	Rivers    RiverConfig
	Biomes    BiomeConfig
	Viewport  ViewportConfig
}

// DefaultConfig returns the standard world tuning.
func DefaultConfig() Config {
	return Config{
		Seed: 42,
		Regions: RegionConfig{
			ExtraCount: 16,
			Radius:     3,
			MinPadding: 4,
		},
		Mountains: MountainConfig{
			Factor:        20,
			CleanupFactor: 10,
			RangeRadius:   1,
		},
		Climate: ClimateConfig{
			LowlandsTargetPercent: 15,
			DesertDistanceSteps:   0,
		},
		Elevation: ElevationConfig{
			Weights: ElevationWeights{
				Continental: 2,
				Topographic: 10,
				Coastal:     2,
				Vertical:    0,
			},
			ContinentalScaleMin: 0.2,
		},
		Rivers: RiverConfig{
			DensityFactor:      5.0,
			CandidatesPerFinal: 4.0,
			MeanderThreshold:   0.4,
			MaxPathSteps:       150,
		},
		Biomes: BiomeConfig{
			VacantSlotBonus: 1,
		},
		Viewport: ViewportConfig{
			HexPixelW: 256,
			HexPixelH: 260,
			Zoom:      1.0,
		},
	}
}

// SmallTestConfig returns a two-region world for fast tests: the first
// two seeded regions only, 37 tiles each before overlap.
func SmallTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Regions.ExtraCount = 0
	return cfg
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Regions.ExtraCount < 0 {
		return errors.New("region extra count must not be negative")
	}
	if c.Regions.Radius < 1 {
		return fmt.Errorf("region radius %d out of range, need >= 1", c.Regions.Radius)
	}
	if c.Regions.MinPadding < 0 {
		return errors.New("min padding must not be negative")
	}
	if c.Mountains.Factor < 0 || c.Mountains.Factor > 100 {
		return fmt.Errorf("mountain factor %v out of range [0, 100]", c.Mountains.Factor)
	}
	if c.Mountains.CleanupFactor < 0 || c.Mountains.CleanupFactor > 100 {
		return fmt.Errorf("mountain cleanup factor %v out of range [0, 100]", c.Mountains.CleanupFactor)
	}
	if c.Climate.LowlandsTargetPercent < 0 || c.Climate.LowlandsTargetPercent > 100 {
		return fmt.Errorf("lowlands target %v out of range [0, 100]", c.Climate.LowlandsTargetPercent)
	}
	if c.Elevation.ContinentalScaleMin < 0 || c.Elevation.ContinentalScaleMin >= 1 {
		return fmt.Errorf("continental scale min %v out of range [0, 1)", c.Elevation.ContinentalScaleMin)
	}
	if c.Rivers.DensityFactor < 0 || c.Rivers.CandidatesPerFinal < 0 {
		return errors.New("river factors must not be negative")
	}
	if c.Rivers.MaxPathSteps < 1 {
		return errors.New("river max path steps must be at least 1")
	}
	if c.Viewport.HexPixelW <= 0 || c.Viewport.HexPixelH <= 0 || c.Viewport.Zoom <= 0 {
		return errors.New("viewport dimensions must be positive")
	}
	return nil
}

// totalRegions is the number of regions a run seeds: the first pair plus
// the configured extras.
func (c Config) totalRegions() int {
	return 2 + c.Regions.ExtraCount
}
