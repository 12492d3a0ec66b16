package world

// Region is one seeded landmass disk. Members and Adjacent are kept sorted
// so region math never depends on map iteration order.
type Region struct {
	ID     int      `json:"id"`
	Center HexCoord `json:"center"`

	// Members lists every coordinate of the region's disk in row-major
	// order, including tiles an overlapping later region owns.
	Members []HexCoord `json:"members"`

	// Adjacent holds ids of lattice-adjacent regions, ascending.
	Adjacent []int `json:"adjacent"`

	// Desire holds the draft scores per biome name. Biome is the draft's
	// final pick.
	Desire map[string]float64 `json:"desire,omitempty"`
	Biome  string             `json:"biome,omitempty"`
}
