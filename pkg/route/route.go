// Package route converts an ordered polyline of waypoints into the
// sequence of grid codes it traverses (C4 in the component design).
package route

import (
	"errors"
	"math"

	"github.com/iwheregis/airspacegrid/pkg/grid"
)

// Waypoint is a single (longitude, latitude, altitude) sample on a route.
type Waypoint struct {
	Lon float64
	Lat float64
	Alt float64
}

// routeAltitudeBits is the fixed altitude denominator used by the route
// pass, independent of the target level — see routeAltStep and §9 Open
// Question 1.
const routeAltitudeBits = 6

// routeAltStep is Δh = 1000/2^6 = 15.625m, the same fixed value the route
// pass used regardless of L. Cell enumeration (grid.Generate), by
// contrast, steps altitude at 1000/2^(L-5): a route at L=11 snaps
// altitude far coarser than enumeration does at the same level. This
// asymmetry is reproduced as-is, not corrected.
var routeAltStep = grid.MaxElevation / math.Pow(2, routeAltitudeBits)

// DefaultHuizhouBbox is the operational bounding box the original route
// pass hard-coded (the Huizhou, China airspace sector). It is kept here
// as an opt-in constant, not as ToCells' implicit default — see Options.
var DefaultHuizhouBbox = grid.Bounds{MinLon: 113.7550, MaxLon: 114.6380, MinLat: 22.4480, MaxLat: 22.8340}

// Options configures ToCells.
type Options struct {
	// Bbox restricts the cell-start grid the route is snapped against.
	// nil falls back to the bounding box of the supplied waypoints
	// (§9 Open Question 4 — the original hard-coded DefaultHuizhouBbox
	// unconditionally; a caller that wants that behavior back passes
	// &DefaultHuizhouBbox explicitly).
	Bbox *grid.Bounds
}

var errNoWaypoints = errors.New("route: no waypoints")

// ToCells snaps every waypoint to its level-L cell and returns the
// ordered list of grid codes with consecutive duplicates removed, plus
// the cell constructed for the final waypoint (spec.md §4.5).
func ToCells(waypoints []Waypoint, level int, opts Options) ([]string, grid.Cell, error) {
	if len(waypoints) == 0 {
		return nil, grid.Cell{}, errNoWaypoints
	}
	if level < 1 || level > 16 {
		return nil, grid.Cell{}, &grid.ErrInvalidCoordinate{Field: "level", Value: float64(level)}
	}

	bbox := opts.Bbox
	if bbox == nil {
		b := grid.BoundsFromPoint(waypoints[0].Lon, waypoints[0].Lat)
		for _, wp := range waypoints[1:] {
			b = b.Union(grid.BoundsFromPoint(wp.Lon, wp.Lat))
		}
		bbox = &b
	}

	lonStep, latStep := grid.LevelWidth(level)
	lonStarts := grid.GenerateStarts(bbox.MinLon, bbox.MaxLon, lonStep)
	latStarts := grid.GenerateStarts(bbox.MinLat, bbox.MaxLat, latStep)
	altStarts := grid.GenerateStarts(0, grid.MaxElevation, routeAltStep)

	var codes []string
	var lastCell grid.Cell
	prev := ""

	for _, wp := range waypoints {
		lon := snap(wp.Lon, lonStarts, lonStep)
		lat := snap(wp.Lat, latStarts, latStep)
		alt := snap(wp.Alt, altStarts, routeAltStep)

		code, err := grid.Encode(lon+lonStep/2, lat+latStep/2, alt+routeAltStep/2, level)
		if err != nil {
			return nil, grid.Cell{}, err
		}
		cell, err := grid.Decode(code)
		if err != nil {
			return nil, grid.Cell{}, err
		}
		lastCell = cell

		if code != prev {
			codes = append(codes, code)
			prev = code
		}
	}

	return codes, lastCell, nil
}

// snap finds the start offset in starts that v's cell actually contains,
// correcting the nearest-index guess with the same three-way test as the
// original: v below the first start, at or beyond the last cell's far
// edge, or between the neighbouring starts. Reused for longitude,
// latitude, and altitude — the original duplicated this logic three
// times (once more again in the conflict detector's own point-to-grid
// helper) with no behavioral difference between the copies.
func snap(v float64, starts []float64, step float64) float64 {
	if len(starts) == 0 {
		return v
	}

	idx := int(math.Round((v - starts[0]) / step))
	if idx < 0 {
		idx = 0
	}
	if idx > len(starts)-1 {
		idx = len(starts) - 1
	}
	closest := starts[idx]

	switch {
	case v < starts[0]:
		return starts[0]
	case v >= starts[len(starts)-1]+step:
		return starts[len(starts)-1]
	case v < closest:
		if idx > 0 {
			return starts[idx-1]
		}
		return closest
	case v >= closest+step:
		if idx < len(starts)-1 {
			return starts[idx+1]
		}
		return closest
	default:
		return closest
	}
}
