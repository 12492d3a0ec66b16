// Command landgen generates a hex landmass, persists it, and optionally
// serves it over the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/hexlands/internal/api"
	"github.com/talgya/hexlands/internal/entropy"
	"github.com/talgya/hexlands/internal/persistence"
	"github.com/talgya/hexlands/internal/world"
	"github.com/talgya/hexlands/internal/worldgen"
)

const version = "0.2.0"

func main() {
	seed := flag.Int64("seed", 0, "world seed (0 = draw a random seed)")
	regions := flag.Int("regions", 16, "regions grown beyond the first two")
	dbPath := flag.String("db", "data/worlds.db", "SQLite database path")
	addr := flag.String("addr", ":8080", "API listen address")
	export := flag.String("export", "", "write the debug JSON export to this path")
	serve := flag.Bool("serve", false, "serve the HTTP API after generating")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Hexlands landmass generator", "version", version)

	cfg := worldgen.DefaultConfig()
	cfg.Seed = *seed
	cfg.Regions.ExtraCount = *regions
	if cfg.Seed == 0 {
		cfg.Seed = entropy.NewSeed()
		slog.Info("seed drawn", "seed", cfg.Seed)
	}

	// ── Generate ──────────────────────────────────────────────────────
	grid, err := worldgen.Generate(context.Background(), cfg, slog.Default())
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	summary := world.Summarize(grid)
	for terrain := world.TerrainNone; terrain <= world.TerrainMarsh; terrain++ {
		if n := summary.Terrains[terrain]; n > 0 {
			name := terrain.String()
			if name == "" {
				name = "Unresolved"
			}
			slog.Info("terrain", "type", name, "count", n)
		}
	}

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(*dbPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	runID := uuid.NewString()
	if err := db.SaveWorld(grid, runID); err != nil {
		slog.Error("save failed", "error", err)
		os.Exit(1)
	}
	if err := db.SaveMeta("last_run_id", runID); err != nil {
		slog.Warn("meta update failed", "error", err)
	}

	// ── Export ────────────────────────────────────────────────────────
	if *export != "" {
		if err := world.WriteExport(grid, *export); err != nil {
			slog.Error("export failed", "error", err)
			os.Exit(1)
		}
		slog.Info("export written", "path", *export)
	}

	fmt.Printf("\nGenerated %s tiles: %s land, %s water, %d regions, %d rivers (seed %d).\n",
		humanize.Comma(int64(summary.Tiles)),
		humanize.Comma(int64(summary.Land)),
		humanize.Comma(int64(summary.Water)),
		summary.Regions, summary.Rivers, cfg.Seed)
	fmt.Printf("Run %s saved to %s\n", runID, *dbPath)

	if !*serve {
		return
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminToken := os.Getenv("LANDGEN_ADMIN_TOKEN")
	if adminToken == "" {
		slog.Warn("LANDGEN_ADMIN_TOKEN not set — regenerate endpoint will be disabled")
	}

	server := &api.Server{
		Addr:       *addr,
		DB:         db,
		Cfg:        cfg,
		AdminToken: adminToken,
		Version:    version,
	}
	server.SetWorld(grid, runID)
	server.Start()

	fmt.Printf("API: http://localhost%s/api/status (Ctrl+C to stop)\n", *addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}
