package grid

import "github.com/shopspring/decimal"

// maxElevation is the upper bound of the altitude band, in metres above the
// local datum. No geoid modelling; see spec Non-goals.
const maxElevation = 1000

// MaxElevation is the exported form of maxElevation, for callers outside
// this package (pkg/route's fixed Δh = 1000/2^6 altitude denominator).
const MaxElevation = maxElevation

// altitudeEpsilon keeps the upper endpoint of the narrowing interval inside
// the last bucket instead of spilling into the next one on exact multiples.
var altitudeEpsilon = decimal.New(1, -15)

// encodeAltitudeDigits produces the first n digits (n = altDigitCount(level))
// of the 11-digit recursive decimal-bisection altitude code for h, a metre
// value in [0, 1000]. Uses shopspring/decimal rather than float64 because
// each digit depends on the exact sub-interval reached by every digit
// before it — float64 would accumulate drift across eleven divisions by
// ten and could disagree with a reference code in the last digit.
func encodeAltitudeDigits(h float64, n int) string {
	if n == 0 {
		return ""
	}
	value := decimal.NewFromFloat(h)
	lower := decimal.Zero
	upper := decimal.NewFromInt(maxElevation)
	digits := make([]byte, n)

	ten := decimal.NewFromInt(10)
	for k := 0; k < n; k++ {
		interval := upper.Sub(lower)
		subInterval := interval.Div(ten)

		offset := value.Sub(lower)
		safeOffset := offset.Sub(altitudeEpsilon)

		index := safeOffset.Div(subInterval).Floor().IntPart()
		if index < 0 {
			index = 0
		}
		if index > 9 {
			index = 9
		}
		digits[k] = byte('0' + index)

		lower = lower.Add(decimal.NewFromInt(index).Mul(subInterval))
		upper = lower.Add(subInterval)
	}
	return string(digits)
}

// decodeAltitudeDigit narrows [lo, hi] by one altitude digit. It reproduces
// the reference decoder's formula exactly: div = (hi-lo)/2,
// lo' = lo + digit*div, hi' = lo'+div. digit is not clamped to {0,1} — the
// encoder can emit 2..9 (§9 Open Question 2), and this function mirrors
// that unclamped multiply rather than silently choosing to clamp or error:
// a digit of 2 or more pushes the returned band partly or wholly outside
// the parent interval instead of landing on "the upper half".
func decodeAltitudeDigit(digit int, lo, hi float64) (float64, float64) {
	div := (hi - lo) / 2
	newLo := lo + float64(digit)*div
	return newLo, newLo + div
}
