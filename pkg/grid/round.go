package grid

import "math"

// roundHalfAwayFromZero rounds x to n decimal places using round-half-away-
// from-zero, not the banker's rounding some platforms default to. The
// enumerator relies on this to suppress floating-point drift in repeated
// start-offset stepping; reference codes must match byte-for-byte.
func roundHalfAwayFromZero(x float64, n int) float64 {
	scale := math.Pow(10, float64(n))
	if x >= 0 {
		return math.Floor(x*scale+0.5) / scale
	}
	return math.Ceil(x*scale-0.5) / scale
}
