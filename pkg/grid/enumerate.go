package grid

import "math"

// Generate fills a bounding volume at level with the cells intersecting
// it: the per-axis step for level, the floor-aligned start offsets within
// [bounds.MinLon, bounds.MaxLon] and [bounds.MinLat, bounds.MaxLat], and
// (for level >= 6) the altitude fan-out across [altMin, altMax]. Cells are
// produced longitude-major, latitude-secondary, altitude-tertiary, with no
// deduplication needed since start offsets are strictly monotone.
func Generate(bounds Bounds, level int, altMin, altMax float64) ([]Cell, error) {
	if level < 1 || level > 16 {
		return nil, &ErrInvalidCoordinate{Field: "level", Value: float64(level)}
	}
	if altMin < 0 || altMax > maxElevation || altMin >= altMax {
		return nil, &ErrInvalidCoordinate{Field: "alt_range", Value: altMin}
	}

	lonStep, latStep := lonWidths[level], latWidths[level]
	lonStarts := generateStarts(bounds.MinLon, bounds.MaxLon, lonStep)
	latStarts := generateStarts(bounds.MinLat, bounds.MaxLat, latStep)

	var altStarts []float64
	var altStep float64
	if level >= 6 {
		altStep = maxElevation / pow2(level-5)
		altStarts = generateStarts(altMin, altMax, altStep)
	} else {
		altStarts = []float64{altMin}
	}

	n := len(lonStarts) * len(latStarts) * len(altStarts)
	cells := make([]Cell, 0, n)

	for _, lon := range lonStarts {
		for _, lat := range latStarts {
			b := Bounds{MinLon: lon, MaxLon: lon + lonStep, MinLat: lat, MaxLat: lat + latStep}
			centreLon, centreLat := b.Center()

			if level < 6 {
				code, err := Encode(centreLon, centreLat, altMin, level)
				if err != nil {
					return nil, err
				}
				cells = append(cells, cellFromBounds(level, b, altMin, altMin, code))
				continue
			}

			for _, h := range altStarts {
				centreH := h + altStep/2
				code, err := Encode(centreLon, centreLat, centreH, level)
				if err != nil {
					return nil, err
				}
				cells = append(cells, cellFromBounds(level, b, h, h+altStep, code))
			}
		}
	}
	return cells, nil
}

// GenerateStarts is the exported form of generateStarts. pkg/route reuses
// C3's start-offset stepping directly for its own waypoint-snapping pass
// (spec.md §4.5, steps 2-3), rather than duplicating the floor/step walk.
func GenerateStarts(vMin, vMax, step float64) []float64 {
	return generateStarts(vMin, vMax, step)
}

// generateStarts floors vMin to a multiple of step, then walks s_k =
// s_0 + k*step while s_k < vMax, keeping s_k only when s_k+step > vMin (so
// the first interval still covers vMin after the floor). Every value is
// rounded to 9 decimals to suppress repeated floating-point drift across
// the addition chain.
func generateStarts(vMin, vMax, step float64) []float64 {
	s0 := roundHalfAwayFromZero(floorToMultiple(vMin, step), 9)
	var starts []float64
	for k := 0; ; k++ {
		s := roundHalfAwayFromZero(s0+float64(k)*step, 9)
		if s >= vMax {
			break
		}
		if s+step > vMin {
			starts = append(starts, s)
		}
	}
	return starts
}

func floorToMultiple(v, step float64) float64 {
	return math.Floor(v/step) * step
}

func pow2(n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= 2
	}
	return result
}
