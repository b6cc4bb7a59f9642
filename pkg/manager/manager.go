// Package manager provides AirspaceGridManager's Go counterpart: a single
// façade composing the codec, enumerator, route, attribute, and spatial
// query operations over an in-memory store of generated cells (C7 in the
// component design).
package manager

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dhconnelly/rtreego"

	"github.com/iwheregis/airspacegrid/pkg/attrs"
	"github.com/iwheregis/airspacegrid/pkg/grid"
	"github.com/iwheregis/airspacegrid/pkg/route"
)

// cellEntry is the rtreego.Spatial wrapper around a stored grid.Cell —
// the same pattern the teacher's ChartEntry uses to let rtreego index an
// arbitrary payload by its bounding box.
type cellEntry struct {
	cell grid.Cell
}

func (e cellEntry) Bounds() rtreego.Rect {
	b := e.cell.Bounds()
	point := rtreego.Point{b.MinLon, b.MinLat}
	lengths := []float64{b.MaxLon - b.MinLon, b.MaxLat - b.MinLat}
	if lengths[0] <= 0 {
		lengths[0] = 1e-9
	}
	if lengths[1] <= 0 {
		lengths[1] = 1e-9
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// Manager is the in-process equivalent of AirspaceGridManager: a cell
// store, an attribute store, and an R-tree spatial index over the cell
// store, all guarded by one sync.RWMutex. Readers (GetByArea,
// GetAttributes, Search, Stats, ExportJSON) take RLock; writers (Generate,
// UpdateAttribute, ImportJSON) take Lock — per spec.md §5's
// readers-writer discipline. GetByCode, EncodeCoords, and Route read no
// stored state and take no lock.
type Manager struct {
	mu    sync.RWMutex
	cells map[string]grid.Cell
	attrs *attrs.Store
	rtree *rtreego.Rtree
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{
		cells: make(map[string]grid.Cell),
		attrs: attrs.NewStore(),
		rtree: rtreego.NewTree(2, 25, 50),
	}
}

// Generate produces every cell covering bbox at level between altMin and
// altMax (C3), stores each one, and seeds a matching attrs.Record for it
// — mirroring generate_grids' pairing of a fresh GridCell with a fresh
// GridAttributes on every call.
func (m *Manager) Generate(bbox grid.Bounds, level int, altMin, altMax float64) ([]grid.Cell, error) {
	cells, err := grid.Generate(bbox, level, altMin, altMax)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	m.mu.Lock()
	for _, c := range cells {
		m.cells[c.Code] = c
		m.rtree.Insert(cellEntry{cell: c})
		m.attrs.Add(c.Code, c.Level, c.BBox, c.Centre, c.AltRange, now)
	}
	m.mu.Unlock()

	return cells, nil
}

// GetByCode decodes code directly (stateless, like the original's
// decode_grid call) rather than looking it up in the store — a code is
// valid independent of whether Generate has ever produced it.
func (m *Manager) GetByCode(code string) (grid.Cell, error) {
	return grid.Decode(code)
}

// GetByArea returns every stored cell whose bounding box intersects bbox,
// using the R-tree index (same BuildIndex/Query shape as the teacher's
// ChartIndex) rather than the original's O(N) linear scan.
func (m *Manager) GetByArea(bbox grid.Bounds) []grid.Cell {
	m.mu.RLock()
	defer m.mu.RUnlock()

	point := rtreego.Point{bbox.MinLon, bbox.MinLat}
	lengths := []float64{bbox.MaxLon - bbox.MinLon, bbox.MaxLat - bbox.MinLat}
	if lengths[0] <= 0 {
		lengths[0] = 1e-9
	}
	if lengths[1] <= 0 {
		lengths[1] = 1e-9
	}
	rect, _ := rtreego.NewRect(point, lengths)

	spatials := m.rtree.SearchIntersect(rect)
	result := make([]grid.Cell, 0, len(spatials))
	for _, s := range spatials {
		result = append(result, s.(cellEntry).cell)
	}
	return result
}

// EncodeCoords encodes (lon, lat, alt) at level directly, without
// touching the store (get_grid_code_by_coordinates).
func (m *Manager) EncodeCoords(lon, lat, alt float64, level int) (string, error) {
	return grid.Encode(lon, lat, alt, level)
}

// Route converts waypoints into the grid codes they traverse at level
// (C4), delegating to pkg/route.
func (m *Manager) Route(waypoints []route.Waypoint, level int, opts route.Options) ([]string, grid.Cell, error) {
	return route.ToCells(waypoints, level, opts)
}

// UpdateAttribute sets key to value within category on gridCode's
// attribute record.
func (m *Manager) UpdateAttribute(gridCode, category, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attrs.UpdateAttribute(gridCode, category, key, value, time.Now())
}

// GetAttributes returns the full attribute record for gridCode.
func (m *Manager) GetAttributes(gridCode string) (attrs.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attrs.Get(gridCode)
}

// Search returns every stored cell whose attribute record has category's
// key set to value (search_grids): a join between the attribute store's
// matches and the cell store, dropping any attribute record whose cell
// was never generated (or was since evicted) — the original does this
// same "if code in grid_cells" filter rather than assuming the two
// stores stay in lockstep.
func (m *Manager) Search(category, key string, value any) []grid.Cell {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches := m.attrs.SearchByCategoryValue(category, key, value)

	result := make([]grid.Cell, 0, len(matches))
	for _, rec := range matches {
		if c, ok := m.cells[rec.GridCode]; ok {
			result = append(result, c)
		}
	}
	return result
}

// Stats summarizes the cell store (get_statistics).
type Stats struct {
	Total          int         `json:"total_grids"`
	LevelDistribution map[int]int `json:"level_distribution"`
}

// Stats returns the total cell count and the per-level breakdown.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dist := make(map[int]int)
	for _, c := range m.cells {
		dist[c.Level]++
	}
	return Stats{Total: len(m.cells), LevelDistribution: dist}
}

// wireGrid mirrors the "grids" object in spec.md §6's JSON schema. CellID
// is carried for schema parity with the original's GridCell.cellid field,
// which is never actually assigned past its zero value anywhere in the
// original source — so it is always 0 here too.
type wireGrid struct {
	Level    int        `json:"level"`
	BBox     [4]float64 `json:"bbox"`
	Centre   [2]float64 `json:"centre"`
	Size     grid.Size  `json:"size"`
	Code     string     `json:"code"`
	AltRange [2]float64 `json:"alt_range"`
	CellID   int        `json:"cellid"`
}

type wireDocument struct {
	Grids      map[string]wireGrid   `json:"grids"`
	Attributes map[string]attrs.Record `json:"attributes"`
}

// ExportJSON serializes the cell store and attribute store together, per
// spec.md §6's schema (export_to_json).
func (m *Manager) ExportJSON() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	grids := make(map[string]wireGrid, len(m.cells))
	for code, c := range m.cells {
		grids[code] = wireGrid{
			Level: c.Level, BBox: c.BBox, Centre: c.Centre,
			Size: c.Size, Code: c.Code, AltRange: c.AltRange,
		}
	}

	attrData, err := m.attrs.ExportJSON()
	if err != nil {
		return nil, err
	}
	var attrMap map[string]attrs.Record
	if err := json.Unmarshal(attrData, &attrMap); err != nil {
		return nil, fmt.Errorf("manager: export: %w", err)
	}

	return json.MarshalIndent(wireDocument{Grids: grids, Attributes: attrMap}, "", "  ")
}

// ImportJSON replaces the manager's cell store, spatial index, and
// attribute store with the contents of data (import_from_json). Like the
// attrs store it replaces rather than merges.
func (m *Manager) ImportJSON(data []byte) error {
	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("manager: import: %w", err)
	}

	cells := make(map[string]grid.Cell, len(doc.Grids))
	rtree := rtreego.NewTree(2, 25, 50)
	for code, wg := range doc.Grids {
		c := grid.Cell{
			Level: wg.Level, BBox: wg.BBox, Centre: wg.Centre,
			Size: wg.Size, Code: code, AltRange: wg.AltRange,
		}
		cells[code] = c
		rtree.Insert(cellEntry{cell: c})
	}

	attrJSON, err := json.Marshal(doc.Attributes)
	if err != nil {
		return fmt.Errorf("manager: import: %w", err)
	}
	newAttrs := attrs.NewStore()
	if err := newAttrs.ImportJSON(attrJSON); err != nil {
		return fmt.Errorf("manager: import: %w", err)
	}

	m.mu.Lock()
	m.cells = cells
	m.rtree = rtree
	m.attrs = newAttrs
	m.mu.Unlock()

	return nil
}

// SortedLevels returns dist's keys in ascending order, for callers that
// want to print Stats' LevelDistribution deterministically; Go map
// iteration order is undefined and the original's Python dict preserves
// insertion order, which this type does not attempt to reproduce.
func SortedLevels(dist map[int]int) []int {
	levels := make([]int, 0, len(dist))
	for l := range dist {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}
