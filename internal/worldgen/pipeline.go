package worldgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/talgya/hexlands/internal/world"
)

// Per-stage RNG seed offsets. Each randomized stage draws from its own
// source so tuning one stage never shifts another's rolls.
const (
	seedOffsetLattice   = 100
	seedOffsetMountains = 200
	seedOffsetSculpt    = 300
	seedOffsetTerrain   = 400
)

// ErrNoRegions is returned when lattice seeding produced no region
// centers. Nothing downstream can run without them.
var ErrNoRegions = errors.New("worldgen: no region centers seeded")

// ErrNoLand is returned when grid assembly produced no passable tiles.
var ErrNoLand = errors.New("worldgen: assembled grid has no land")

// Pipeline runs the generation stages in fixed order over one grid.
// It is single-use: construct, Run once, read the grid.
type Pipeline struct {
	cfg Config
	log *slog.Logger

	grid    *world.Grid
	lattice []latticePoint // chosen region centers, lattice space

	latticeRNG   *rand.Rand
	mountainsRNG *rand.Rand
	sculptRNG    *rand.Rand
	terrainRNG   *rand.Rand
}

// New validates the config and prepares a pipeline.
func New(cfg Config, log *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("worldgen config: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg:          cfg,
		log:          log.With("seed", cfg.Seed),
		latticeRNG:   rand.New(rand.NewSource(cfg.Seed + seedOffsetLattice)),
		mountainsRNG: rand.New(rand.NewSource(cfg.Seed + seedOffsetMountains)),
		sculptRNG:    rand.New(rand.NewSource(cfg.Seed + seedOffsetSculpt)),
		terrainRNG:   rand.New(rand.NewSource(cfg.Seed + seedOffsetTerrain)),
	}, nil
}

type stage struct {
	name string
	run  func() error
}

// stages returns the generation passes in run order.
func (p *Pipeline) stages() []stage {
	return []stage{
		{"seed lattice", p.seedLattice},
		{"assemble grid", p.assembleGrid},
		{"map center", p.computeMapCenter},
		{"distance from center", p.computeDistanceFromCenter},
		{"distance from ocean", p.computeDistanceFromOcean},
		{"monsoon bands", p.computeMonsoonBands},
		{"tag ocean", p.tagOcean},
		{"tag coastline", p.tagCoastline},
		{"place mountains", p.placeMountains},
		{"sculpt mountains", p.sculptMountains},
		{"elevation", p.computeElevation},
		{"assign biomes", p.assignBiomes},
		{"tag lowlands", p.tagLowlands},
		{"tag mountain range", p.tagMountainRange},
		{"tag central desert", p.tagCentralDesert},
		{"tag scrublands", p.tagScrublands},
		{"tag windward leeward", p.tagWindwardLeeward},
		{"trace rivers", p.traceRivers},
		{"resolve shorelines", p.resolveShorelines},
		{"fill terrain", p.fillTerrain},
		{"assign variants", p.assignVariants},
	}
}

// Run executes every stage in order and returns the finished grid.
// Degraded layers log a warning and leave their fields unset; only the
// fatal conditions (no centers, no land) abort the run.
func (p *Pipeline) Run(ctx context.Context) (*world.Grid, error) {
	total := time.Now()
	for _, s := range p.stages() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("worldgen canceled before %s: %w", s.name, err)
		}
		start := time.Now()
		if err := s.run(); err != nil {
			return nil, fmt.Errorf("worldgen stage %s: %w", s.name, err)
		}
		p.log.Debug("stage complete", "stage", s.name, "elapsed", time.Since(start))
	}
	p.log.Info("world generated",
		"tiles", p.grid.TileCount(),
		"land", p.grid.LandCount(),
		"regions", len(p.grid.Regions),
		"rivers", len(p.grid.Rivers),
		"elapsed", time.Since(total))
	return p.grid, nil
}

// Generate is the one-call entry point: validate, run, return the grid.
func Generate(ctx context.Context, cfg Config, log *slog.Logger) (*world.Grid, error) {
	p, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}
