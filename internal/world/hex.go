// Package world provides the hex grid, tile, and region data structures.
// Uses odd-r offset coordinates (q, r) for the hex grid: pointy-top hexes,
// odd rows shifted half a column to the right.
// See design doc Section 3.
package world

import "math"

// HexCoord represents a position on the hex grid in odd-r offset coordinates.
// Q is the column, R is the row. Row parity determines neighbor offsets.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Axial converts an offset coordinate to axial (x, z).
// The dividend R-(R&1) is always even, so integer division is exact.
func (h HexCoord) Axial() (x, z int) {
	return h.Q - (h.R-(h.R&1))/2, h.R
}

// FromAxial converts axial (x, z) back to an odd-r offset coordinate.
func FromAxial(x, z int) HexCoord {
	return HexCoord{Q: x + (z-(z&1))/2, R: z}
}

// Direction indexes the six hex edges. The canonical order NW, NE, E, SE,
// SW, W is shared by neighbor enumeration and edge bitmasks.
type Direction uint8

const (
	DirNW Direction = iota
	DirNE
	DirE
	DirSE
	DirSW
	DirW
)

var directionNames = [6]string{"NW", "NE", "E", "SE", "SW", "W"}

func (d Direction) String() string {
	if d > DirW {
		return "?"
	}
	return directionNames[d]
}

// Neighbor offsets by row parity, in canonical direction order.
var (
	neighborOffsetsEven = [6]HexCoord{
		{Q: -1, R: -1}, // NW
		{Q: 0, R: -1},  // NE
		{Q: 1, R: 0},   // E
		{Q: 0, R: 1},   // SE
		{Q: -1, R: 1},  // SW
		{Q: -1, R: 0},  // W
	}
	neighborOffsetsOdd = [6]HexCoord{
		{Q: 0, R: -1}, // NW
		{Q: 1, R: -1}, // NE
		{Q: 1, R: 0},  // E
		{Q: 1, R: 1},  // SE
		{Q: 0, R: 1},  // SW
		{Q: -1, R: 0}, // W
	}
)

// Neighbors returns the six adjacent coordinates in canonical order.
func (h HexCoord) Neighbors() [6]HexCoord {
	offsets := &neighborOffsetsEven
	if h.R&1 == 1 {
		offsets = &neighborOffsetsOdd
	}
	var result [6]HexCoord
	for i, d := range offsets {
		result[i] = HexCoord{Q: h.Q + d.Q, R: h.R + d.R}
	}
	return result
}

// Neighbor returns the adjacent coordinate in the given direction.
func (h HexCoord) Neighbor(d Direction) HexCoord {
	if h.R&1 == 1 {
		off := neighborOffsetsOdd[d]
		return HexCoord{Q: h.Q + off.Q, R: h.R + off.R}
	}
	off := neighborOffsetsEven[d]
	return HexCoord{Q: h.Q + off.Q, R: h.R + off.R}
}

// DirectionBetween returns the direction from one coordinate to an adjacent
// one. The second return is false when the coordinates are not adjacent.
func DirectionBetween(from, to HexCoord) (Direction, bool) {
	for i, n := range from.Neighbors() {
		if n == to {
			return Direction(i), true
		}
	}
	return 0, false
}

// Distance returns the hex distance between two offset coordinates.
func Distance(a, b HexCoord) int {
	ax, az := a.Axial()
	bx, bz := b.Axial()
	dq := bx - ax
	dr := bz - az
	return (abs(dq) + abs(dq+dr) + abs(dr)) / 2
}

// Bearing returns the angle in degrees from one coordinate toward another,
// measured on raw offset deltas with north up, normalized to [0, 360).
func Bearing(from, to HexCoord) float64 {
	dq := float64(to.Q - from.Q)
	dr := float64(to.R - from.R)
	deg := math.Mod(math.Atan2(-dr, dq)*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// PixelCenter returns the pixel-space center of a hex given the tile art
// dimensions and zoom. Odd rows shift right half a tile; rows overlap by a
// quarter of the tile height.
func (h HexCoord) PixelCenter(hexW, hexH, zoom float64) (x, y float64) {
	x = float64(h.Q) * hexW * zoom
	if h.R&1 == 1 {
		x += hexW * zoom / 2
	}
	y = float64(h.R) * hexH * 0.75 * zoom
	return x, y
}

// DirectionMask is a 6-bit edge set. Bit i corresponds to canonical
// direction i, so bit 0 is NW and bit 5 is W.
type DirectionMask uint8

// Set returns the mask with the given direction's bit set.
func (m DirectionMask) Set(d Direction) DirectionMask {
	return m | 1<<d
}

// Has reports whether the given direction's bit is set.
func (m DirectionMask) Has(d Direction) bool {
	return m&(1<<d) != 0
}

// Count returns the number of set bits.
func (m DirectionMask) Count() int {
	n := 0
	for d := DirNW; d <= DirW; d++ {
		if m.Has(d) {
			n++
		}
	}
	return n
}

// String renders the mask as six characters in canonical order, NW first.
// A mask with only the E bit set reads "001000".
func (m DirectionMask) String() string {
	var b [6]byte
	for d := DirNW; d <= DirW; d++ {
		if m.Has(d) {
			b[d] = '1'
		} else {
			b[d] = '0'
		}
	}
	return string(b[:])
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
