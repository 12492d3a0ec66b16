// Package persistence provides SQLite-based storage for generated worlds.
// Every save is keyed by a run id, so one database can hold many worlds.
// See design doc Section 6.
package persistence

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexlands/internal/world"
)

// DB wraps a SQLite connection for world persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		center_q INTEGER NOT NULL,
		center_r INTEGER NOT NULL,
		region_count INTEGER NOT NULL,
		land_tiles INTEGER NOT NULL,
		water_tiles INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tiles (
		run_id TEXT NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		passable INTEGER NOT NULL,
		terrain INTEGER NOT NULL,
		region_id INTEGER NOT NULL,
		is_region_center INTEGER NOT NULL,
		water_tile INTEGER NOT NULL,
		is_ocean INTEGER NOT NULL,
		is_coast INTEGER NOT NULL,
		is_mountain INTEGER NOT NULL,
		is_lake INTEGER NOT NULL,
		mountain_range INTEGER NOT NULL,
		lowlands INTEGER NOT NULL,
		central_desert INTEGER NOT NULL,
		adjacent_scrublands INTEGER NOT NULL,
		windward INTEGER NOT NULL,
		leeward INTEGER NOT NULL,
		arid INTEGER NOT NULL,
		tropical INTEGER NOT NULL,
		temperate INTEGER NOT NULL,
		floodplains INTEGER NOT NULL,
		dist_from_center INTEGER NOT NULL,
		dist_from_ocean INTEGER,
		dist_to_mountain INTEGER,
		abs_q_center REAL NOT NULL,
		norm_q_center REAL NOT NULL,
		continental_scale REAL,
		topographic_scale REAL,
		coastal_scale REAL,
		vertical_scale REAL,
		final_elevation REAL,
		river_mask INTEGER,
		river_id INTEGER,
		river_source INTEGER,
		shoreline_mask INTEGER,
		variant INTEGER NOT NULL,
		pixel_x REAL NOT NULL,
		pixel_y REAL NOT NULL,
		PRIMARY KEY (run_id, q, r)
	);

	CREATE TABLE IF NOT EXISTS regions (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		center_q INTEGER NOT NULL,
		center_r INTEGER NOT NULL,
		biome TEXT NOT NULL,
		adjacent TEXT NOT NULL,
		desire_arid REAL NOT NULL,
		desire_tropical REAL NOT NULL,
		desire_floodplains REAL NOT NULL,
		desire_temperate REAL NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS rivers (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		PRIMARY KEY (run_id, id, seq)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tiles_region ON tiles(run_id, region_id);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SaveWorld performs a full-replace save of a generated grid under the
// given run id.
func (db *DB) SaveWorld(g *world.Grid, runID string) error {
	slog.Info("saving world",
		"run_id", runID, "tiles", g.TileCount(), "regions", len(g.Regions), "rivers", len(g.Rivers))

	if err := db.saveRun(g, runID); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := db.saveTiles(g, runID); err != nil {
		return fmt.Errorf("save tiles: %w", err)
	}
	if err := db.saveRegions(g, runID); err != nil {
		return fmt.Errorf("save regions: %w", err)
	}
	if err := db.saveRivers(g, runID); err != nil {
		return fmt.Errorf("save rivers: %w", err)
	}

	slog.Info("world saved", "run_id", runID)
	return nil
}

func (db *DB) saveRun(g *world.Grid, runID string) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO runs
		(id, seed, created_at, width, height, center_q, center_r,
		 region_count, land_tiles, water_tiles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, g.Seed, time.Now().UTC().Format(time.RFC3339Nano),
		g.Width, g.Height, g.MapCenter.Q, g.MapCenter.R,
		len(g.Regions), g.LandCount(), g.WaterCount(),
	)
	return err
}

func (db *DB) saveTiles(g *world.Grid, runID string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tiles WHERE run_id = ?", runID); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO tiles
		(run_id, q, r, passable, terrain, region_id, is_region_center,
		 water_tile, is_ocean, is_coast, is_mountain, is_lake,
		 mountain_range, lowlands, central_desert, adjacent_scrublands,
		 windward, leeward, arid, tropical, temperate, floodplains,
		 dist_from_center, dist_from_ocean, dist_to_mountain,
		 abs_q_center, norm_q_center,
		 continental_scale, topographic_scale, coastal_scale, vertical_scale,
		 final_elevation, river_mask, river_id, river_source, shoreline_mask,
		 variant, pixel_x, pixel_y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		        ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range g.Coords() {
		t := g.Get(c)

		var riverMask, riverID, riverSource *int
		if t.River != nil {
			m, id, src := int(t.River.Mask), t.River.ID, b2i(t.River.Source)
			riverMask, riverID, riverSource = &m, &id, &src
		}
		var shoreline *int
		if t.ShorelineMask != nil {
			m := int(*t.ShorelineMask)
			shoreline = &m
		}

		_, err := stmt.Exec(
			runID, c.Q, c.R, b2i(t.Passable), int(t.Terrain), t.RegionID, b2i(t.IsRegionCenter),
			b2i(t.WaterTile), b2i(t.IsOcean), b2i(t.IsCoast), b2i(t.IsMountain), b2i(t.IsLake),
			b2i(t.MountainRange), b2i(t.Lowlands), b2i(t.CentralDesert), b2i(t.AdjacentScrublands),
			b2i(t.Windward), b2i(t.Leeward), b2i(t.Arid), b2i(t.Tropical), b2i(t.Temperate), b2i(t.Floodplains),
			t.DistFromCenter, t.DistFromOcean, t.DistToMountain,
			t.AbsDistFromQCenter, t.NormDistFromQCenter,
			t.ContinentalScale, t.TopographicScale, t.CoastalScale, t.VerticalScale,
			t.FinalElevation, riverMask, riverID, riverSource, shoreline,
			t.Variant, t.PixelX, t.PixelY,
		)
		if err != nil {
			return fmt.Errorf("insert tile (%d,%d): %w", c.Q, c.R, err)
		}
	}

	return tx.Commit()
}

func (db *DB) saveRegions(g *world.Grid, runID string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM regions WHERE run_id = ?", runID); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO regions
		(run_id, id, center_q, center_r, biome, adjacent,
		 desire_arid, desire_tropical, desire_floodplains, desire_temperate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, reg := range g.Regions {
		adjacent := make([]string, len(reg.Adjacent))
		for i, id := range reg.Adjacent {
			adjacent[i] = strconv.Itoa(id)
		}
		_, err := stmt.Exec(
			runID, reg.ID, reg.Center.Q, reg.Center.R, reg.Biome, strings.Join(adjacent, ","),
			reg.Desire["Arid"], reg.Desire["Tropical"], reg.Desire["Floodplains"], reg.Desire["Temperate"],
		)
		if err != nil {
			return fmt.Errorf("insert region %d: %w", reg.ID, err)
		}
	}

	return tx.Commit()
}

func (db *DB) saveRivers(g *world.Grid, runID string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rivers WHERE run_id = ?", runID); err != nil {
		return err
	}

	stmt, err := tx.Preparex(
		"INSERT INTO rivers (run_id, id, seq, q, r) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, river := range g.Rivers {
		for seq, c := range river.Coords {
			if _, err := stmt.Exec(runID, river.ID, seq, c.Q, c.R); err != nil {
				return fmt.Errorf("insert river %d step %d: %w", river.ID, seq, err)
			}
		}
	}

	return tx.Commit()
}

// runRow mirrors the runs table.
type runRow struct {
	ID          string `db:"id"`
	Seed        int64  `db:"seed"`
	CreatedAt   string `db:"created_at"`
	Width       int    `db:"width"`
	Height      int    `db:"height"`
	CenterQ     int    `db:"center_q"`
	CenterR     int    `db:"center_r"`
	RegionCount int    `db:"region_count"`
	LandTiles   int    `db:"land_tiles"`
	WaterTiles  int    `db:"water_tiles"`
}

// tileRow mirrors the tiles table. Pointer fields carry NULLs.
type tileRow struct {
	RunID              string   `db:"run_id"`
	Q                  int      `db:"q"`
	R                  int      `db:"r"`
	Passable           bool     `db:"passable"`
	Terrain            int      `db:"terrain"`
	RegionID           int      `db:"region_id"`
	IsRegionCenter     bool     `db:"is_region_center"`
	WaterTile          bool     `db:"water_tile"`
	IsOcean            bool     `db:"is_ocean"`
	IsCoast            bool     `db:"is_coast"`
	IsMountain         bool     `db:"is_mountain"`
	IsLake             bool     `db:"is_lake"`
	MountainRange      bool     `db:"mountain_range"`
	Lowlands           bool     `db:"lowlands"`
	CentralDesert      bool     `db:"central_desert"`
	AdjacentScrublands bool     `db:"adjacent_scrublands"`
	Windward           bool     `db:"windward"`
	Leeward            bool     `db:"leeward"`
	Arid               bool     `db:"arid"`
	Tropical           bool     `db:"tropical"`
	Temperate          bool     `db:"temperate"`
	Floodplains        bool     `db:"floodplains"`
	DistFromCenter     int      `db:"dist_from_center"`
	DistFromOcean      *int     `db:"dist_from_ocean"`
	DistToMountain     *int     `db:"dist_to_mountain"`
	AbsQCenter         float64  `db:"abs_q_center"`
	NormQCenter        float64  `db:"norm_q_center"`
	ContinentalScale   *float64 `db:"continental_scale"`
	TopographicScale   *float64 `db:"topographic_scale"`
	CoastalScale       *float64 `db:"coastal_scale"`
	VerticalScale      *float64 `db:"vertical_scale"`
	FinalElevation     *float64 `db:"final_elevation"`
	RiverMask          *int     `db:"river_mask"`
	RiverID            *int     `db:"river_id"`
	RiverSource        *bool    `db:"river_source"`
	ShorelineMask      *int     `db:"shoreline_mask"`
	Variant            int      `db:"variant"`
	PixelX             float64  `db:"pixel_x"`
	PixelY             float64  `db:"pixel_y"`
}

// regionRow mirrors the regions table.
type regionRow struct {
	RunID             string  `db:"run_id"`
	ID                int     `db:"id"`
	CenterQ           int     `db:"center_q"`
	CenterR           int     `db:"center_r"`
	Biome             string  `db:"biome"`
	Adjacent          string  `db:"adjacent"`
	DesireArid        float64 `db:"desire_arid"`
	DesireTropical    float64 `db:"desire_tropical"`
	DesireFloodplains float64 `db:"desire_floodplains"`
	DesireTemperate   float64 `db:"desire_temperate"`
}

// LoadRun reconstructs a saved grid: tiles, regions, and rivers. The
// rebuilt grid serves read-only consumers (mapview, the API); region
// members are restored from tile ownership, so disk overlap a later
// region claimed is attributed to that region only.
func (db *DB) LoadRun(runID string) (*world.Grid, error) {
	var run runRow
	if err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", runID); err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	g := world.NewGrid(run.Width, run.Height)
	g.Seed = run.Seed
	g.MapCenter = world.HexCoord{Q: run.CenterQ, R: run.CenterR}

	// Regions first so tile ownership can fill their member lists.
	var regionRows []regionRow
	if err := db.conn.Select(&regionRows,
		"SELECT * FROM regions WHERE run_id = ? ORDER BY id", runID); err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}
	byID := make(map[int]*world.Region, len(regionRows))
	for _, row := range regionRows {
		reg := &world.Region{
			ID:     row.ID,
			Center: world.HexCoord{Q: row.CenterQ, R: row.CenterR},
			Biome:  row.Biome,
			Desire: map[string]float64{
				"Arid":        row.DesireArid,
				"Tropical":    row.DesireTropical,
				"Floodplains": row.DesireFloodplains,
				"Temperate":   row.DesireTemperate,
			},
		}
		if row.Adjacent != "" {
			for _, part := range strings.Split(row.Adjacent, ",") {
				id, err := strconv.Atoi(part)
				if err != nil {
					return nil, fmt.Errorf("region %d adjacency %q: %w", row.ID, row.Adjacent, err)
				}
				reg.Adjacent = append(reg.Adjacent, id)
			}
		}
		g.Regions = append(g.Regions, reg)
		byID[reg.ID] = reg
	}

	// Row-major order restores the grid's insertion-order contract.
	rows, err := db.conn.Queryx(
		"SELECT * FROM tiles WHERE run_id = ? ORDER BY r, q", runID)
	if err != nil {
		return nil, fmt.Errorf("load tiles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row tileRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan tile: %w", err)
		}
		t := rowToTile(row)
		g.Add(t)
		if reg := byID[t.RegionID]; reg != nil {
			reg.Members = append(reg.Members, t.Coord)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tiles: %w", err)
	}

	type riverRow struct {
		ID  int `db:"id"`
		Seq int `db:"seq"`
		Q   int `db:"q"`
		R   int `db:"r"`
	}
	var riverRows []riverRow
	if err := db.conn.Select(&riverRows,
		"SELECT id, seq, q, r FROM rivers WHERE run_id = ? ORDER BY id, seq", runID); err != nil {
		return nil, fmt.Errorf("load rivers: %w", err)
	}
	for _, row := range riverRows {
		c := world.HexCoord{Q: row.Q, R: row.R}
		if n := len(g.Rivers); n == 0 || g.Rivers[n-1].ID != row.ID {
			g.Rivers = append(g.Rivers, world.RiverPath{ID: row.ID})
		}
		last := &g.Rivers[len(g.Rivers)-1]
		last.Coords = append(last.Coords, c)
		last.Dest = c
	}

	return g, nil
}

func rowToTile(row tileRow) *world.Tile {
	t := &world.Tile{
		Coord:               world.HexCoord{Q: row.Q, R: row.R},
		Passable:            row.Passable,
		Terrain:             world.Terrain(row.Terrain),
		RegionID:            row.RegionID,
		IsRegionCenter:      row.IsRegionCenter,
		WaterTile:           row.WaterTile,
		IsOcean:             row.IsOcean,
		IsCoast:             row.IsCoast,
		IsMountain:          row.IsMountain,
		IsLake:              row.IsLake,
		MountainRange:       row.MountainRange,
		Lowlands:            row.Lowlands,
		CentralDesert:       row.CentralDesert,
		AdjacentScrublands:  row.AdjacentScrublands,
		Windward:            row.Windward,
		Leeward:             row.Leeward,
		Arid:                row.Arid,
		Tropical:            row.Tropical,
		Temperate:           row.Temperate,
		Floodplains:         row.Floodplains,
		DistFromCenter:      row.DistFromCenter,
		DistFromOcean:       row.DistFromOcean,
		DistToMountain:      row.DistToMountain,
		AbsDistFromQCenter:  row.AbsQCenter,
		NormDistFromQCenter: row.NormQCenter,
		ContinentalScale:    row.ContinentalScale,
		TopographicScale:    row.TopographicScale,
		CoastalScale:        row.CoastalScale,
		VerticalScale:       row.VerticalScale,
		FinalElevation:      row.FinalElevation,
		Variant:             row.Variant,
		PixelX:              row.PixelX,
		PixelY:              row.PixelY,
	}
	if row.RiverMask != nil {
		t.River = &world.RiverData{Mask: world.DirectionMask(*row.RiverMask)}
		if row.RiverID != nil {
			t.River.ID = *row.RiverID
		}
		if row.RiverSource != nil {
			t.River.Source = *row.RiverSource
		}
	}
	if row.ShorelineMask != nil {
		m := world.DirectionMask(*row.ShorelineMask)
		t.ShorelineMask = &m
	}
	return t
}

// LatestRunID returns the id of the most recently saved run.
func (db *DB) LatestRunID() (string, error) {
	var id string
	err := db.conn.Get(&id,
		"SELECT id FROM runs ORDER BY created_at DESC, id LIMIT 1")
	if err != nil {
		return "", fmt.Errorf("latest run: %w", err)
	}
	return id, nil
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
