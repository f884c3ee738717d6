package util

import (
	"math"
	"strconv"
)

// MustParseUint converts a string to an unsigned integer, returning 0 when the
// string does not parse.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// Round2 rounds to two decimal places, the precision every score and rate in
// the API is reported with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
