package grid

// Size carries a cell's approximate dimensions alongside its unit.
type Size struct {
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	Unit string  `json:"unit"`
}

// Cell is a single immutable 3-D grid tile: a level, a 2-D bounding box, an
// altitude band, and the code that identifies it. Cells are produced by
// Decode, Generate, or the route and manager packages; callers discard them
// when done, there is no backing store tied to a Cell value.
type Cell struct {
	Level    int       `json:"level"`
	BBox     [4]float64 `json:"bbox"` // [lonMin, latMin, lonMax, latMax]
	Centre   [2]float64 `json:"centre"`
	Size     Size       `json:"size"`
	Code     string     `json:"code"`
	AltRange [2]float64 `json:"alt_range"`
}

// Bounds returns the cell's 2-D footprint as a Bounds value.
func (c Cell) Bounds() Bounds {
	return Bounds{MinLon: c.BBox[0], MinLat: c.BBox[1], MaxLon: c.BBox[2], MaxLat: c.BBox[3]}
}

func cellFromBounds(level int, b Bounds, altLo, altHi float64, code string) Cell {
	lonKM := (b.MaxLon - b.MinLon) * kmPerDegreeLon
	latKM := (b.MaxLat - b.MinLat) * kmPerDegreeLat
	return Cell{
		Level:    level,
		BBox:     [4]float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat},
		Centre:   [2]float64{(b.MinLon + b.MaxLon) / 2, (b.MinLat + b.MaxLat) / 2},
		Size:     Size{Lon: lonKM, Lat: latKM, Unit: "km"},
		Code:     code,
		AltRange: [2]float64{altLo, altHi},
	}
}

// kmPerDegreeLon/Lat are the equatorial reference constants used only for
// the Cell.Size field; the codec and decoder themselves never use them —
// they recompute the degree step exactly at every level instead (see
// levels.go).
const (
	kmPerDegreeLon = 111.32
	kmPerDegreeLat = 110.57
)
