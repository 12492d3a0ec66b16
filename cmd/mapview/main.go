// Command mapview renders a saved world as an ASCII map: one rune per
// tile, odd rows indented half a step.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexlands/internal/persistence"
	"github.com/talgya/hexlands/internal/world"
)

var terrainRunes = map[world.Terrain]rune{
	world.TerrainNone:        '?',
	world.TerrainMountain:    '^',
	world.TerrainOceanCalm:   '~',
	world.TerrainLake:        'o',
	world.TerrainPlains:      '.',
	world.TerrainWoodlands:   'T',
	world.TerrainScrublands:  ',',
	world.TerrainDesertDunes: ':',
	world.TerrainHighlands:   'h',
	world.TerrainMarsh:       '%',
}

func main() {
	dbPath := flag.String("db", "data/worlds.db", "SQLite database path")
	runID := flag.String("run", "", "run id to render (default: latest)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer db.Close()

	id := *runID
	if id == "" {
		id, err = db.LatestRunID()
		if err != nil {
			slog.Error("no runs in database", "error", err, "path", *dbPath)
			os.Exit(1)
		}
	}

	grid, err := db.LoadRun(id)
	if err != nil {
		slog.Error("failed to load run", "error", err, "run_id", id)
		os.Exit(1)
	}

	fmt.Printf("Run %s  seed %d  %dx%d  %d regions  %d rivers\n\n",
		id, grid.Seed, grid.Width, grid.Height, len(grid.Regions), len(grid.Rivers))

	render(grid)

	fmt.Println()
	printLegend(grid)
}

// render walks the actual coordinate ranges: Q starts at zero but the
// first row can be 1 when assembly bumped the offset to keep parity.
func render(g *world.Grid) {
	coords := g.Coords()
	first, last := coords[0], coords[len(coords)-1]

	var sb strings.Builder
	for r := first.R; r <= last.R; r++ {
		sb.Reset()
		if r%2 == 1 {
			sb.WriteByte(' ')
		}
		for q := first.Q; q <= last.Q; q++ {
			t := g.Get(world.HexCoord{Q: q, R: r})
			if t == nil {
				sb.WriteString("  ")
				continue
			}
			sb.WriteRune(terrainRunes[t.Terrain])
			sb.WriteByte(' ')
		}
		fmt.Println(strings.TrimRight(sb.String(), " "))
	}
}

func printLegend(g *world.Grid) {
	summary := world.Summarize(g)
	for terrain := world.TerrainNone; terrain <= world.TerrainMarsh; terrain++ {
		n := summary.Terrains[terrain]
		if n == 0 {
			continue
		}
		name := terrain.String()
		if name == "" {
			name = "Unresolved"
		}
		fmt.Printf("  %c %-12s %s\n", terrainRunes[terrain], name, humanize.Comma(int64(n)))
	}
}
