package grid

// scheme selects how a level writes its digit(s): either a single digit
// read from a per-quadrant Z-order lookup table, or two digits (longitude,
// latitude) written directly as quadrant-flipped indices with no table.
type scheme int

const (
	schemeZOrder scheme = iota
	schemeRaw
)

// levelSpec is the table-driven replacement for what the source expresses
// as sixteen hand-written encode_levelN/decode functions (see DESIGN.md).
// Index 0 and 1 are unused placeholders; level 1 is handled specially
// (hemisphere + 2-digit longitude zone + 1-letter latitude band) because
// it has no parent cell to subdivide.
type levelSpec struct {
	fanLon, fanLat int
	scheme         scheme
	zTables        map[Quadrant][][]int // nil for schemeRaw
	emitsAltitude  bool
}

// levelSpecs holds levels 2..16. Fan-outs and schemes are ported digit-for-
// digit from the reference encoder/decoder; see DESIGN.md for the file and
// function each is grounded on.
var levelSpecs = [17]levelSpec{
	2: {fanLon: 2, fanLat: 2, scheme: schemeZOrder, zTables: zTableLevel2},
	3: {fanLon: 6, fanLat: 4, scheme: schemeRaw},
	4: {fanLon: 2, fanLat: 3, scheme: schemeZOrder, zTables: zTableLevel4},
	5: {fanLon: 3, fanLat: 2, scheme: schemeZOrder, zTables: zTableLevel5},
	6: {fanLon: 5, fanLat: 5, scheme: schemeRaw, emitsAltitude: true},
	7: {fanLon: 5, fanLat: 5, scheme: schemeRaw, emitsAltitude: true},
	8: {fanLon: 3, fanLat: 3, scheme: schemeZOrder, zTables: zTableLevel8, emitsAltitude: true},
	9: {fanLon: 2, fanLat: 2, scheme: schemeZOrder, zTables: zTableLevel9to16, emitsAltitude: true},
	10: {fanLon: 2, fanLat: 2, scheme: schemeZOrder, zTables: zTableLevel9to16, emitsAltitude: true},
	11: {fanLon: 2, fanLat: 2, scheme: schemeZOrder, zTables: zTableLevel9to16, emitsAltitude: true},
	12: {fanLon: 2, fanLat: 2, scheme: schemeZOrder, zTables: zTableLevel9to16, emitsAltitude: true},
	13: {fanLon: 2, fanLat: 2, scheme: schemeZOrder, zTables: zTableLevel9to16, emitsAltitude: true},
	14: {fanLon: 2, fanLat: 2, scheme: schemeZOrder, zTables: zTableLevel9to16, emitsAltitude: true},
	15: {fanLon: 2, fanLat: 2, scheme: schemeZOrder, zTables: zTableLevel9to16, emitsAltitude: true},
	16: {fanLon: 2, fanLat: 2, scheme: schemeZOrder, zTables: zTableLevel9to16, emitsAltitude: true},
}

// Per-level, per-quadrant Z-order tables, table[row][col] -> digit. Row is
// the sub-cell index of |lat| and col that of |lon| within the parent, so
// row 0 and col 0 are the children nearest the equator and the prime
// meridian in every quadrant. Ported verbatim from grid_encode.py's
// encode_levelN methods; no quadrant's table is derived from another
// programmatically because the source itself doesn't derive them that way
// (each is its own literal table).
var zTableLevel2 = map[Quadrant][][]int{
	QuadNW: {{0, 1}, {2, 3}},
	QuadNE: {{1, 0}, {3, 2}},
	QuadSW: {{2, 3}, {0, 1}},
	QuadSE: {{3, 2}, {1, 0}},
}

var zTableLevel4 = map[Quadrant][][]int{
	QuadNW: {{5, 4}, {3, 2}, {1, 0}},
	QuadNE: {{4, 5}, {2, 3}, {0, 1}},
	QuadSW: {{1, 0}, {3, 2}, {5, 4}},
	QuadSE: {{0, 1}, {2, 3}, {4, 5}},
}

var zTableLevel5 = map[Quadrant][][]int{
	QuadNW: {{5, 3, 4}, {2, 1, 0}},
	QuadNE: {{3, 5, 4}, {0, 1, 2}},
	QuadSW: {{2, 0, 1}, {5, 3, 4}},
	QuadSE: {{0, 2, 1}, {3, 5, 4}},
}

var zTableLevel8 = map[Quadrant][][]int{
	QuadNW: {{8, 6, 7}, {5, 4, 3}, {2, 1, 0}},
	QuadNE: {{6, 8, 7}, {3, 4, 5}, {0, 1, 2}},
	QuadSW: {{2, 0, 1}, {5, 4, 3}, {8, 6, 7}},
	QuadSE: {{0, 2, 1}, {3, 4, 5}, {6, 8, 7}},
}

// zTableLevel9to16 is shared verbatim by levels 9 through 16 — the source
// repeats this exact 2x2 table at every one of those levels.
var zTableLevel9to16 = map[Quadrant][][]int{
	QuadNW: {{3, 2}, {1, 0}},
	QuadNE: {{2, 3}, {0, 1}},
	QuadSW: {{1, 0}, {3, 2}},
	QuadSE: {{0, 1}, {2, 3}},
}

// invZTables[level][quadrant][digit] = {row, col}, built once from the
// forward tables above for Decode's lookup.
var invZTables = buildInverseZTables()

func buildInverseZTables() map[int]map[Quadrant][][2]int {
	out := make(map[int]map[Quadrant][][2]int)
	for level := 2; level <= 16; level++ {
		spec := levelSpecs[level]
		if spec.scheme != schemeZOrder {
			continue
		}
		perQuad := make(map[Quadrant][][2]int)
		for quad, table := range spec.zTables {
			inv := make([][2]int, spec.fanLon*spec.fanLat)
			for row, cols := range table {
				for col, digit := range cols {
					inv[digit] = [2]int{row, col}
				}
			}
			perQuad[quad] = inv
		}
		out[level] = perQuad
	}
	return out
}

// cumulativeLen[level] is the code length once levels 1..level have all
// been written (including any altitude digits from level 6 up).
var cumulativeLen = [17]int{
	1: 4, 2: 5, 3: 7, 4: 8, 5: 9, 6: 12, 7: 15, 8: 17,
	9: 19, 10: 21, 11: 23, 12: 25, 13: 27, 14: 29, 15: 31, 16: 33,
}

// lengthToLevel inverts cumulativeLen for Decode's level lookup.
var lengthToLevel = buildLengthToLevel()

func buildLengthToLevel() map[int]int {
	out := make(map[int]int, 16)
	for level := 1; level <= 16; level++ {
		out[cumulativeLen[level]] = level
	}
	return out
}

// altDigitPos0 holds the 0-based character position of each of the 11
// altitude digits in the fully-spliced (level 16) code string — positions
// {12,15,17,19,21,23,25,27,29,31,33} from spec.md §4.2, minus one.
var altDigitPos0 = [11]int{11, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32}

// altDigitCount returns K(L): how many altitude digits a code at level L
// carries. Zero below level 6.
func altDigitCount(level int) int {
	if level < 6 {
		return 0
	}
	return level - 5
}

// LevelWidth returns the exact angular width, in degrees, of a cell at
// level: longitude then latitude. pkg/route uses this to reproduce C3's
// start-offset stepping for its own waypoint-snapping pass (spec.md §4.5).
func LevelWidth(level int) (lonDeg, latDeg float64) {
	return lonWidths[level], latWidths[level]
}

// lonWidths/latWidths[level] is the exact angular width, in degrees, of a
// cell at that level — the decoder recomputes these by successive
// division rather than reading a published constant table (spec.md §4.1,
// "Cell-size constants (reference)").
var lonWidths, latWidths = buildWidths()

func buildWidths() ([17]float64, [17]float64) {
	var lon, lat [17]float64
	lon[1], lat[1] = 6.0, 4.0
	for level := 2; level <= 16; level++ {
		spec := levelSpecs[level]
		lon[level] = lon[level-1] / float64(spec.fanLon)
		lat[level] = lat[level-1] / float64(spec.fanLat)
	}
	return lon, lat
}
