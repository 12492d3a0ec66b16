package world

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// TileExport is the stable JSON shape for one tile. Floats are rounded to
// three decimals and unset optional layers are omitted entirely.
type TileExport struct {
	Passable bool   `json:"passable"`
	Terrain  string `json:"terrain,omitempty"`

	RegionID       int  `json:"region_id,omitempty"`
	IsRegionCenter bool `json:"is_region_center,omitempty"`

	WaterTile  bool `json:"water_tile,omitempty"`
	IsOcean    bool `json:"is_ocean,omitempty"`
	IsCoast    bool `json:"is_coast,omitempty"`
	IsMountain bool `json:"is_mountain,omitempty"`
	IsLake     bool `json:"is_lake,omitempty"`

	MountainRange      bool `json:"mountain_range,omitempty"`
	Lowlands           bool `json:"lowlands,omitempty"`
	CentralDesert      bool `json:"central_desert,omitempty"`
	AdjacentScrublands bool `json:"adjacent_scrublands,omitempty"`
	Windward           bool `json:"windward,omitempty"`
	Leeward            bool `json:"leeward,omitempty"`

	Arid        bool `json:"arid,omitempty"`
	Tropical    bool `json:"tropical,omitempty"`
	Temperate   bool `json:"temperate,omitempty"`
	Floodplains bool `json:"floodplains,omitempty"`

	DistFromCenter int  `json:"dist_from_center"`
	DistFromOcean  *int `json:"dist_from_ocean,omitempty"`
	DistToMountain *int `json:"dist_to_mountain,omitempty"`

	AbsDistFromQCenter  *float64 `json:"abs_dist_from_q_center,omitempty"`
	NormDistFromQCenter *float64 `json:"norm_dist_from_q_center,omitempty"`

	ContinentalScale *float64 `json:"continental_scale,omitempty"`
	TopographicScale *float64 `json:"topographic_scale,omitempty"`
	CoastalScale     *float64 `json:"coastal_scale,omitempty"`
	VerticalScale    *float64 `json:"vertical_scale,omitempty"`
	FinalElevation   *float64 `json:"final_elevation,omitempty"`

	RiverMask   string `json:"river_mask,omitempty"`
	RiverID     int    `json:"river_id,omitempty"`
	RiverSource bool   `json:"river_source,omitempty"`

	Variant       int    `json:"variant"`
	ShorelineMask string `json:"shoreline_mask,omitempty"`

	PixelX float64 `json:"pixel_x"`
	PixelY float64 `json:"pixel_y"`
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round3p(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round3(*v)
	return &r
}

// ExportTile flattens one tile into its stable JSON shape.
func ExportTile(t *Tile) TileExport {
	e := TileExport{
		Passable:           t.Passable,
		Terrain:            t.Terrain.String(),
		RegionID:           t.RegionID,
		IsRegionCenter:     t.IsRegionCenter,
		WaterTile:          t.WaterTile,
		IsOcean:            t.IsOcean,
		IsCoast:            t.IsCoast,
		IsMountain:         t.IsMountain,
		IsLake:             t.IsLake,
		MountainRange:      t.MountainRange,
		Lowlands:           t.Lowlands,
		CentralDesert:      t.CentralDesert,
		AdjacentScrublands: t.AdjacentScrublands,
		Windward:           t.Windward,
		Leeward:            t.Leeward,
		Arid:               t.Arid,
		Tropical:           t.Tropical,
		Temperate:          t.Temperate,
		Floodplains:        t.Floodplains,
		DistFromCenter:     t.DistFromCenter,
		DistFromOcean:      t.DistFromOcean,
		DistToMountain:     t.DistToMountain,
		ContinentalScale:   round3p(t.ContinentalScale),
		TopographicScale:   round3p(t.TopographicScale),
		CoastalScale:       round3p(t.CoastalScale),
		VerticalScale:      round3p(t.VerticalScale),
		FinalElevation:     round3p(t.FinalElevation),
		Variant:            t.Variant,
		PixelX:             round3(t.PixelX),
		PixelY:             round3(t.PixelY),
	}
	if t.RegionID != 0 {
		abs, norm := round3(t.AbsDistFromQCenter), round3(t.NormDistFromQCenter)
		e.AbsDistFromQCenter, e.NormDistFromQCenter = &abs, &norm
	}
	if t.River != nil {
		e.RiverMask = t.River.Mask.String()
		e.RiverID = t.River.ID
		e.RiverSource = t.River.Source
	}
	if t.ShorelineMask != nil {
		e.ShorelineMask = t.ShorelineMask.String()
	}
	return e
}

// Export builds the "q,r"-keyed tile table for JSON serialization.
func Export(g *Grid) map[string]TileExport {
	out := make(map[string]TileExport, g.TileCount())
	for _, c := range g.Coords() {
		out[fmt.Sprintf("%d,%d", c.Q, c.R)] = ExportTile(g.Get(c))
	}
	return out
}

// WriteExport serializes the tile table to a JSON file.
func WriteExport(g *Grid, path string) error {
	data, err := json.MarshalIndent(Export(g), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tile export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write tile export: %w", err)
	}
	return nil
}

// Summary aggregates headline counts for logging and the CLI.
type Summary struct {
	Tiles    int
	Land     int
	Water    int
	Regions  int
	Rivers   int
	Terrains map[Terrain]int
}

// Summarize tallies the grid.
func Summarize(g *Grid) Summary {
	s := Summary{
		Tiles:    g.TileCount(),
		Land:     g.LandCount(),
		Water:    g.WaterCount(),
		Regions:  len(g.Regions),
		Rivers:   len(g.Rivers),
		Terrains: make(map[Terrain]int),
	}
	for _, c := range g.Coords() {
		s.Terrains[g.Get(c).Terrain]++
	}
	return s
}
