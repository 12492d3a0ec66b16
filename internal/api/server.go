// Package api serves generated worlds over HTTP.
// GET endpoints are public (read-only observation).
// The regenerate endpoint requires a bearer token (admin control plane).
// See design doc Section 7.
package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexlands/internal/entropy"
	"github.com/talgya/hexlands/internal/persistence"
	"github.com/talgya/hexlands/internal/world"
	"github.com/talgya/hexlands/internal/worldgen"
)

// Server serves one world snapshot over HTTP. The snapshot is swapped
// atomically by SetWorld, so regeneration never disturbs readers.
type Server struct {
	Addr       string
	DB         *persistence.DB // nil disables persistence on regenerate
	Cfg        worldgen.Config // tuning reused by the regenerate endpoint
	AdminToken string          // Bearer token for POST endpoints. Empty = POST disabled.
	Version    string

	mu    sync.RWMutex
	grid  *world.Grid
	runID string

	started time.Time
}

// SetWorld swaps the served world snapshot.
func (s *Server) SetWorld(g *world.Grid, runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = g
	s.runID = runID
}

func (s *Server) snapshot() (*world.Grid, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid, s.runID
}

// routes builds the full handler stack: mux plus CORS.
func (s *Server) routes() http.Handler {
	s.started = time.Now()

	// Rate limiters for the endpoints that serialize the whole grid.
	mapLimiter := NewRateLimiter(120, time.Hour)
	exportLimiter := NewRateLimiter(20, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only — anyone can inspect the world).
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/regions", s.handleRegions)
	mux.HandleFunc("/api/rivers", s.handleRivers)
	mux.HandleFunc("/api/map", s.handleMapRoutes(mapLimiter))
	mux.HandleFunc("/api/map/", s.handleMapRoutes(mapLimiter))
	mux.HandleFunc("/api/export", RateLimitMiddleware(exportLimiter, s.handleExport))

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/regenerate", s.adminOnly(s.handleRegenerate))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	handler := s.routes()
	slog.Info("HTTP API starting", "addr", s.Addr, "admin_auth", s.AdminToken != "")

	go func() {
		if err := http.ListenAndServe(s.Addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminToken
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminToken == "" {
				http.Error(w, "admin endpoints disabled (no LANDGEN_ADMIN_TOKEN set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	g, runID := s.snapshot()
	if g == nil {
		http.Error(w, "no world loaded", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]any{
		"name":    "Hexlands",
		"version": s.Version,
		"run_id":  runID,
		"seed":    g.Seed,
		"width":   g.Width,
		"height":  g.Height,
		"tiles":   g.TileCount(),
		"land":    g.LandCount(),
		"water":   g.WaterCount(),
		"regions": len(g.Regions),
		"rivers":  len(g.Rivers),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

// handleMapRoutes dispatches between bulk map (GET /api/map) and tile
// detail (GET /api/map/:q/:r). Only the bulk form is rate-limited.
func (s *Server) handleMapRoutes(limiter *RateLimiter) http.HandlerFunc {
	bulk := RateLimitMiddleware(limiter, s.handleBulkMap)
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/map")
		if path == "" || path == "/" {
			bulk(w, r)
			return
		}
		s.handleTileDetail(w, r)
	}
}

// handleBulkMap returns every tile in render order for the map client.
func (s *Server) handleBulkMap(w http.ResponseWriter, r *http.Request) {
	g, _ := s.snapshot()
	if g == nil {
		http.Error(w, "no world loaded", http.StatusServiceUnavailable)
		return
	}

	type tileEntry struct {
		Q         int      `json:"q"`
		R         int      `json:"r"`
		Terrain   string   `json:"terrain,omitempty"`
		Elevation *float64 `json:"elevation,omitempty"`
		RegionID  int      `json:"region_id,omitempty"`
		Water     bool     `json:"water,omitempty"`
		RiverMask string   `json:"river_mask,omitempty"`
		Variant   int      `json:"variant"`
	}

	coords := g.Coords()
	tiles := make([]tileEntry, 0, len(coords))
	for _, c := range coords {
		t := g.Get(c)
		entry := tileEntry{
			Q:         c.Q,
			R:         c.R,
			Terrain:   t.Terrain.String(),
			Elevation: t.FinalElevation,
			RegionID:  t.RegionID,
			Water:     t.WaterTile,
			Variant:   t.Variant,
		}
		if t.River != nil {
			entry.RiverMask = t.River.Mask.String()
		}
		tiles = append(tiles, entry)
	}

	writeJSON(w, map[string]any{
		"width":  g.Width,
		"height": g.Height,
		"center": g.MapCenter,
		"tiles":  tiles,
	})
}

func (s *Server) handleTileDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	// /api/map/:q/:r → parts[0]="" [1]="api" [2]="map" [3]=q [4]=r
	if len(parts) < 5 {
		http.Error(w, "usage: /api/map/:q/:r", http.StatusBadRequest)
		return
	}
	q, err1 := strconv.Atoi(parts[3])
	rr, err2 := strconv.Atoi(parts[4])
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}

	g, _ := s.snapshot()
	if g == nil {
		http.Error(w, "no world loaded", http.StatusServiceUnavailable)
		return
	}

	coord := world.HexCoord{Q: q, R: rr}
	t := g.Get(coord)
	if t == nil {
		http.Error(w, "tile not found", http.StatusNotFound)
		return
	}

	type neighborInfo struct {
		Q       int    `json:"q"`
		R       int    `json:"r"`
		Terrain string `json:"terrain,omitempty"`
	}
	var neighbors []neighborInfo
	for _, nc := range coord.Neighbors() {
		nt := g.Get(nc)
		if nt == nil {
			continue
		}
		neighbors = append(neighbors, neighborInfo{Q: nc.Q, R: nc.R, Terrain: nt.Terrain.String()})
	}

	writeJSON(w, map[string]any{
		"q":         q,
		"r":         rr,
		"tile":      world.ExportTile(t),
		"neighbors": neighbors,
	})
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	g, _ := s.snapshot()
	if g == nil {
		http.Error(w, "no world loaded", http.StatusServiceUnavailable)
		return
	}

	type regionSummary struct {
		ID       int                `json:"id"`
		CenterQ  int                `json:"center_q"`
		CenterR  int                `json:"center_r"`
		Biome    string             `json:"biome,omitempty"`
		Members  int                `json:"members"`
		Adjacent []int              `json:"adjacent"`
		Desire   map[string]float64 `json:"desire,omitempty"`
	}

	result := make([]regionSummary, 0, len(g.Regions))
	for _, reg := range g.Regions {
		result = append(result, regionSummary{
			ID:       reg.ID,
			CenterQ:  reg.Center.Q,
			CenterR:  reg.Center.R,
			Biome:    reg.Biome,
			Members:  len(reg.Members),
			Adjacent: reg.Adjacent,
			Desire:   reg.Desire,
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleRivers(w http.ResponseWriter, r *http.Request) {
	g, _ := s.snapshot()
	if g == nil {
		http.Error(w, "no world loaded", http.StatusServiceUnavailable)
		return
	}

	type riverSummary struct {
		ID     int              `json:"id"`
		Length int              `json:"length"`
		Source world.HexCoord   `json:"source"`
		Dest   world.HexCoord   `json:"dest"`
		Coords []world.HexCoord `json:"coords"`
	}

	result := make([]riverSummary, 0, len(g.Rivers))
	for _, river := range g.Rivers {
		result = append(result, riverSummary{
			ID:     river.ID,
			Length: len(river.Coords),
			Source: river.Coords[0],
			Dest:   river.Dest,
			Coords: river.Coords,
		})
	}
	writeJSON(w, result)
}

// handleExport returns the full debug dump, the same tile table
// WriteExport puts on disk.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	g, runID := s.snapshot()
	if g == nil {
		http.Error(w, "no world loaded", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]any{
		"run_id": runID,
		"seed":   g.Seed,
		"tiles":  world.Export(g),
	})
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Seed int64 `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := s.Cfg
	cfg.Seed = req.Seed
	if cfg.Seed == 0 {
		cfg.Seed = entropy.NewSeed()
	}

	g, err := worldgen.Generate(r.Context(), cfg, slog.Default())
	if err != nil {
		slog.Error("regenerate failed", "error", err)
		http.Error(w, "generation failed", http.StatusInternalServerError)
		return
	}

	runID := uuid.NewString()
	if s.DB != nil {
		if err := s.DB.SaveWorld(g, runID); err != nil {
			slog.Error("regenerate save failed", "error", err)
			http.Error(w, "save failed", http.StatusInternalServerError)
			return
		}
		if err := s.DB.SaveMeta("last_run_id", runID); err != nil {
			slog.Warn("meta update failed", "error", err)
		}
	}
	s.SetWorld(g, runID)

	slog.Info("world regenerated", "run_id", runID, "seed", cfg.Seed)
	writeJSON(w, map[string]any{
		"run_id":  runID,
		"seed":    cfg.Seed,
		"tiles":   g.TileCount(),
		"land":    g.LandCount(),
		"regions": len(g.Regions),
		"rivers":  len(g.Rivers),
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
