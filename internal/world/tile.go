package world

// Terrain types resolvable from tile tags. Names match the tileset art keys.
type Terrain uint8

const (
	TerrainNone        Terrain = iota // Unresolved — tagging still in progress
	TerrainMountain                   // Impassable peaks
	TerrainOceanCalm                  // Open water between and around landmasses
	TerrainLake                       // Inland water, usually a river terminus
	TerrainPlains                     // Open flatland
	TerrainWoodlands                  // Forested land
	TerrainScrublands                 // Dry brush
	TerrainDesertDunes                // Deep desert
	TerrainHighlands                  // Elevated rough ground
	TerrainMarsh                      // Waterlogged lowland
)

var terrainNames = [...]string{
	TerrainNone:        "",
	TerrainMountain:    "Mountain",
	TerrainOceanCalm:   "OceanCalm",
	TerrainLake:        "Lake",
	TerrainPlains:      "Plains",
	TerrainWoodlands:   "Woodlands",
	TerrainScrublands:  "Scrublands",
	TerrainDesertDunes: "DesertDunes",
	TerrainHighlands:   "Highlands",
	TerrainMarsh:       "Marsh",
}

func (t Terrain) String() string {
	if int(t) >= len(terrainNames) {
		return ""
	}
	return terrainNames[t]
}

// RiverData records the river flow through a tile: a 6-bit edge mask of
// flow directions, the id of the last river to claim the tile, and whether
// the tile is a river source.
type RiverData struct {
	Mask   DirectionMask `json:"mask"`
	ID     int           `json:"id"`
	Source bool          `json:"source"`
}

// Tile is a single hex on the assembled grid. Boolean tags accumulate
// through the generation passes; Terrain is resolved from them last.
// Pointer fields distinguish "layer skipped" from a legitimate zero.
type Tile struct {
	Coord    HexCoord `json:"coord"`
	Passable bool     `json:"passable"`
	Terrain  Terrain  `json:"terrain"`

	// Region membership. Zero means void (no region).
	RegionID       int  `json:"region_id,omitempty"`
	IsRegionCenter bool `json:"is_region_center,omitempty"`

	// Water and geography tags.
	WaterTile  bool `json:"water_tile,omitempty"`
	IsOcean    bool `json:"is_ocean,omitempty"`
	IsCoast    bool `json:"is_coast,omitempty"`
	IsMountain bool `json:"is_mountain,omitempty"`
	IsLake     bool `json:"is_lake,omitempty"`

	// Climate tags feeding terrain resolution.
	MountainRange      bool `json:"mountain_range,omitempty"`
	Lowlands           bool `json:"lowlands,omitempty"`
	CentralDesert      bool `json:"central_desert,omitempty"`
	AdjacentScrublands bool `json:"adjacent_scrublands,omitempty"`
	Windward           bool `json:"windward,omitempty"`
	Leeward            bool `json:"leeward,omitempty"`

	// Biome tags stamped by the regional draft.
	Arid        bool `json:"arid,omitempty"`
	Tropical    bool `json:"tropical,omitempty"`
	Temperate   bool `json:"temperate,omitempty"`
	Floodplains bool `json:"floodplains,omitempty"`

	// Distance fields. DistFromOcean and DistToMountain stay nil when the
	// BFS or mountain pass had nothing to measure from.
	DistFromCenter int  `json:"dist_from_center"`
	DistFromOcean  *int `json:"dist_from_ocean,omitempty"`
	DistToMountain *int `json:"dist_to_mountain,omitempty"`

	// Monsoon band position relative to the landmass q-center.
	AbsDistFromQCenter  float64 `json:"abs_dist_from_q_center,omitempty"`
	NormDistFromQCenter float64 `json:"norm_dist_from_q_center,omitempty"`

	// Elevation model layers and the combined result, land only.
	ContinentalScale *float64 `json:"continental_scale,omitempty"`
	TopographicScale *float64 `json:"topographic_scale,omitempty"`
	CoastalScale     *float64 `json:"coastal_scale,omitempty"`
	VerticalScale    *float64 `json:"vertical_scale,omitempty"`
	FinalElevation   *float64 `json:"final_elevation,omitempty"`

	// River flow through this tile, if any.
	River *RiverData `json:"river,omitempty"`

	// Render support: art variant index and, for water tiles, the edge
	// mask of bordering land.
	Variant       int            `json:"variant"`
	ShorelineMask *DirectionMask `json:"shoreline_mask,omitempty"`

	// Pixel-space center for the viewport.
	PixelX float64 `json:"pixel_x"`
	PixelY float64 `json:"pixel_y"`
}

// IsWater reports whether the tile is any kind of water.
func (t *Tile) IsWater() bool {
	return t.WaterTile
}

// Elevation returns the combined elevation, or -1 when the elevation
// pass never reached this tile. River descent relies on the -1 default.
func (t *Tile) Elevation() float64 {
	if t.FinalElevation == nil {
		return -1
	}
	return *t.FinalElevation
}
