package worldgen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/talgya/hexlands/internal/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

// advance runs the pipeline stages in order, stopping after the named one.
func advance(t *testing.T, p *Pipeline, through string) {
	t.Helper()
	for _, s := range p.stages() {
		if err := s.run(); err != nil {
			t.Fatalf("stage %s: %v", s.name, err)
		}
		if s.name == through {
			return
		}
	}
	t.Fatalf("no stage named %q", through)
}

// syntheticGrid builds a rectangular grid directly, bypassing lattice
// seeding, for tests that exercise a single pass in isolation.
func syntheticGrid(w, h int, passable func(world.HexCoord) bool) *world.Grid {
	g := world.NewGrid(w, h)
	for r := 0; r < h; r++ {
		for q := 0; q < w; q++ {
			c := world.HexCoord{Q: q, R: r}
			g.Add(&world.Tile{Coord: c, Passable: passable(c)})
		}
	}
	return g
}

func fptr(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 7

	g1, err := Generate(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	g2, err := Generate(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if g1.Width != g2.Width || g1.Height != g2.Height {
		t.Fatalf("dimensions differ: %dx%d vs %dx%d", g1.Width, g1.Height, g2.Width, g2.Height)
	}
	if g1.MapCenter != g2.MapCenter {
		t.Fatalf("map center differs: %v vs %v", g1.MapCenter, g2.MapCenter)
	}
	if !reflect.DeepEqual(world.Export(g1), world.Export(g2)) {
		t.Fatal("same seed produced different tile tables")
	}
	if !reflect.DeepEqual(g1.Rivers, g2.Rivers) {
		t.Fatal("same seed produced different rivers")
	}
	if !reflect.DeepEqual(g1.Regions, g2.Regions) {
		t.Fatal("same seed produced different regions")
	}
}

func TestGenerateSeedVariation(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 1
	g1, err := Generate(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("seed 1: %v", err)
	}
	cfg.Seed = 2
	g2, err := Generate(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("seed 2: %v", err)
	}
	if reflect.DeepEqual(world.Export(g1), world.Export(g2)) {
		t.Fatal("different seeds produced identical worlds")
	}
}

func TestGenerateSmallWorldShape(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 3
	g, err := Generate(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if g.TileCount() != g.Width*g.Height {
		t.Fatalf("tile count %d != %d x %d", g.TileCount(), g.Width, g.Height)
	}
	if len(g.Regions) != 2 {
		t.Fatalf("region count = %d, want 2", len(g.Regions))
	}
	members := 0
	for _, reg := range g.Regions {
		members += len(reg.Members)
	}
	if members != 74 {
		t.Fatalf("total region members = %d, want 74", members)
	}
	if got := len(g.LandCoords()); got != 74 {
		t.Fatalf("assembled land = %d, want 74", got)
	}

	mountains, lakesOnLand := 0, 0
	for _, c := range g.LandCoords() {
		tl := g.Get(c)
		if tl.IsMountain {
			mountains++
		} else if tl.IsLake {
			lakesOnLand++
		}
	}
	if mountains != 14 {
		t.Fatalf("mountain count = %d, want 14", mountains)
	}
	if got, want := g.LandCount(), 74-mountains-lakesOnLand; got != want {
		t.Fatalf("live land = %d, want %d (74 - %d mountains - %d lakes)",
			got, want, mountains, lakesOnLand)
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, SmallTestConfig(), testLogger()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Regions.Radius = 0
	if _, err := New(cfg, testLogger()); err == nil {
		t.Fatal("expected error for zero region radius")
	}
}

func TestNewDefaultsLogger(t *testing.T) {
	p, err := New(SmallTestConfig(), nil)
	if err != nil {
		t.Fatalf("New with nil logger: %v", err)
	}
	if p.log == nil {
		t.Fatal("pipeline logger not defaulted")
	}
}
