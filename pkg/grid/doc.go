// Package grid implements the sixteen-level hierarchical airspace grid
// codec: encoding a geodetic point (longitude, latitude, altitude) and a
// target level into a compact textual code, decoding a code back into the
// cell it identifies, and enumerating the cells that fill a bounding
// volume at a given level.
//
// # Levels
//
// A code's length determines its level unambiguously. Level 1 spans 6° of
// longitude by 4° of latitude; each deeper level subdivides its parent
// along an irregular fan-out (2×2, 6×4, 2×3, 3×2, 5×5, 5×5, 3×3, then 2×2
// down to level 16). Levels 6 through 16 additionally carry one digit of
// an 11-digit altitude code, spliced into fixed character positions.
//
// # Basic usage
//
//	code, err := grid.Encode(114.1234, 22.5678, 100, 8)
//	cell, err := grid.Decode(code)
//	cells, err := grid.Generate(bounds, 6, 0, 300)
package grid
