package world

import "fmt"

// Grid holds the assembled world: every tile inside the padded bounding
// box, the regions that seeded it, and the rivers traced across it.
//
// Alongside the tile map the grid keeps ordered coordinate slices. Go map
// iteration order is randomized, so every pass that must be reproducible
// walks coords (row-major insertion order) or landCoords instead of
// ranging over the map. landCoords is frozen at assembly time: passes
// that later flip passability (mountains, lakes) do not remove entries,
// and downstream passes depend on that stable view.
type Grid struct {
	tiles      map[HexCoord]*Tile
	coords     []HexCoord
	landCoords []HexCoord

	Width  int `json:"width"`
	Height int `json:"height"`

	// MapCenter is the rounded mean of the land coordinates.
	MapCenter HexCoord `json:"map_center"`

	// Regions in id order, ids 1..len(Regions).
	Regions []*Region `json:"regions"`

	// Rivers in id order, ids 1..len(Rivers).
	Rivers []RiverPath `json:"rivers"`

	// Seed that produced this world.
	Seed int64 `json:"seed"`
}

// RiverPath is one traced river: the ordered coordinates from source to
// mouth, and the terminal tile the mouth drains into.
type RiverPath struct {
	ID     int        `json:"id"`
	Coords []HexCoord `json:"coords"`
	Dest   HexCoord   `json:"dest"`
}

// NewGrid creates an empty grid with the given padded dimensions.
func NewGrid(width, height int) *Grid {
	return &Grid{
		tiles:  make(map[HexCoord]*Tile, width*height),
		coords: make([]HexCoord, 0, width*height),
		Width:  width,
		Height: height,
	}
}

// Add appends a tile. Tiles must be added in row-major order; land tiles
// are also recorded in the land index.
func (g *Grid) Add(t *Tile) {
	g.tiles[t.Coord] = t
	g.coords = append(g.coords, t.Coord)
	if t.Passable {
		g.landCoords = append(g.landCoords, t.Coord)
	}
}

// Get returns the tile at the given coordinate, or nil if absent.
func (g *Grid) Get(coord HexCoord) *Tile {
	return g.tiles[coord]
}

// Coords returns every coordinate in row-major insertion order. Callers
// must not mutate the returned slice.
func (g *Grid) Coords() []HexCoord {
	return g.coords
}

// LandCoords returns the coordinates that were passable at assembly time,
// in row-major order. Callers must not mutate the returned slice.
func (g *Grid) LandCoords() []HexCoord {
	return g.landCoords
}

// PresentNeighbors returns the adjacent tiles that exist in the grid,
// preserving canonical direction order.
func (g *Grid) PresentNeighbors(coord HexCoord) []*Tile {
	result := make([]*Tile, 0, 6)
	for _, n := range coord.Neighbors() {
		if t := g.tiles[n]; t != nil {
			result = append(result, t)
		}
	}
	return result
}

// Region returns the region with the given id, or nil.
func (g *Grid) Region(id int) *Region {
	if id < 1 || id > len(g.Regions) {
		return nil
	}
	return g.Regions[id-1]
}

// TileCount returns the total number of tiles.
func (g *Grid) TileCount() int {
	return len(g.tiles)
}

// LandCount returns the number of currently passable tiles.
func (g *Grid) LandCount() int {
	n := 0
	for _, c := range g.coords {
		if g.tiles[c].Passable {
			n++
		}
	}
	return n
}

// WaterCount returns the number of water tiles.
func (g *Grid) WaterCount() int {
	n := 0
	for _, c := range g.coords {
		if g.tiles[c].WaterTile {
			n++
		}
	}
	return n
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, tiles=%d, regions=%d, rivers=%d)",
		g.Width, g.Height, g.TileCount(), len(g.Regions), len(g.Rivers))
}
