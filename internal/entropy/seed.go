// Package entropy derives crypto-grade seeds for generation runs. The
// pipeline itself is fully deterministic from one seed; this package only
// picks that seed when the caller does not.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
)

// NewSeed returns a uniformly random seed drawn from crypto/rand,
// restricted to the 53-bit range so the value survives a round trip
// through JSON consumers that parse numbers as float64.
func NewSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; a fixed
		// fallback keeps the generator usable rather than panicking.
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 11)
}
