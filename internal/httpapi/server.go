// Package httpapi exposes pkg/manager and pkg/conflict over the HTTP
// surface sketched in spec.md §6: a grid-engine endpoint family backed by
// one Manager, and a conflict-detection endpoint family backed by an
// in-memory existing/new route buffer — mirroring the original's split
// between api_server.py (grid_manager) and the conflict-check service's
// own global existing_routes/new_routes state.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/iwheregis/airspacegrid/pkg/attrs"
	"github.com/iwheregis/airspacegrid/pkg/conflict"
	"github.com/iwheregis/airspacegrid/pkg/grid"
	"github.com/iwheregis/airspacegrid/pkg/manager"
	"github.com/iwheregis/airspacegrid/pkg/route"
)

// Server wires the grid engine onto a net/http.ServeMux, in the
// teacher's flat one-HandleFunc-per-route style (no router framework).
type Server struct {
	mgr  *manager.Manager
	port int

	routesMu       sync.RWMutex
	existingRoutes []namedRoute
	newRoutes      []namedRoute
}

type namedRoute struct {
	ID     string
	Name   string
	Points conflict.Route
}

// NewServer returns a Server backed by mgr, listening on port.
func NewServer(mgr *manager.Manager, port int) *Server {
	return &Server{mgr: mgr, port: port}
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/grids/generate", s.handleGenerate)
	mux.HandleFunc("/api/grids/encode", s.handleEncode)
	mux.HandleFunc("/api/grids/search", s.handleSearch)
	mux.HandleFunc("/api/grids/route", s.handleRoute)
	mux.HandleFunc("/api/grids/", s.handleGridByCode) // /api/grids/<code>[/attributes]
	mux.HandleFunc("/api/statistics", s.handleStatistics)

	mux.HandleFunc("/api/upload_existing_routes", s.handleUploadRoutes(true))
	mux.HandleFunc("/api/upload_new_routes", s.handleUploadRoutes(false))
	mux.HandleFunc("/api/get_routes", s.handleGetRoutes)
	mux.HandleFunc("/api/clear_routes", s.handleClearRoutes)
	mux.HandleFunc("/api/detect_conflicts", s.handleDetectConflicts)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("airspace grid engine API starting at http://localhost%s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "airspace grid engine",
	})
}

type generateRequest struct {
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	Level  int     `json:"level"`
	AltMin *float64 `json:"alt_min,omitempty"`
	AltMax *float64 `json:"alt_max,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	altMin, altMax := 0.0, grid.MaxElevation
	if req.AltMin != nil {
		altMin = *req.AltMin
	}
	if req.AltMax != nil {
		altMax = *req.AltMax
	}

	bbox := grid.Bounds{MinLon: req.LonMin, MaxLon: req.LonMax, MinLat: req.LatMin, MaxLat: req.LatMax}
	cells, err := s.mgr.Generate(bbox, req.Level, altMin, altMax)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("generated %d grid cells", len(cells)),
		"data":    map[string]any{"grids": cells, "count": len(cells)},
	})
}

type encodeRequest struct {
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Alt   float64 `json:"alt"`
	Level int     `json:"level"`
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req encodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code, err := s.mgr.EncodeCoords(req.Lon, req.Lat, req.Alt, req.Level)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"grid_code": code},
	})
}

// handleGridByCode dispatches on the trailing path under /api/grids/,
// matching the teacher's /api/messages/{id} suffix-parsing pattern:
// /api/grids/<code> (GET) and /api/grids/<code>/attributes (GET/PUT).
func (s *Server) handleGridByCode(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/grids/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "missing grid code")
		return
	}
	code := parts[0]

	if len(parts) > 1 && parts[1] == "attributes" {
		switch r.Method {
		case http.MethodGet:
			s.getAttributes(w, code)
		case http.MethodPut:
			s.putAttribute(w, r, code)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	cell, err := s.mgr.GetByCode(code)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": cell})
}

func (s *Server) getAttributes(w http.ResponseWriter, code string) {
	rec, ok := s.mgr.GetAttributes(code)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no attributes for %s", code))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": rec})
}

type updateAttributeRequest struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    any    `json:"value"`
}

func (s *Server) putAttribute(w http.ResponseWriter, r *http.Request, code string) {
	var req updateAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.mgr.UpdateAttribute(code, req.Category, req.Key, req.Value); err != nil {
		var invalidCat *attrs.ErrInvalidCategory
		var unknownCode *attrs.ErrUnknownCode
		switch {
		case errors.As(err, &invalidCat):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &unknownCode):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "attribute updated"})
}

type searchRequest struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    any    `json:"value"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cells := s.mgr.Search(req.Category, req.Key, req.Value)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"grids": cells, "count": len(cells)},
	})
}

type routeRequest struct {
	Waypoints [][3]float64 `json:"waypoints"`
	Level     int          `json:"level"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Level == 0 {
		req.Level = 8
	}
	waypoints := make([]route.Waypoint, len(req.Waypoints))
	for i, p := range req.Waypoints {
		waypoints[i] = route.Waypoint{Lon: p[0], Lat: p[1], Alt: p[2]}
	}

	codes, _, err := s.mgr.Route(waypoints, req.Level, route.Options{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"grid_codes": codes,
			"count":      len(codes),
			"waypoints":  req.Waypoints,
			"level":      req.Level,
		},
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats := s.mgr.Stats()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": stats})
}

// --- conflict-detection endpoint family ---

type channelPayload struct {
	Channels []channelEntry `json:"channels"`
}

type channelEntry struct {
	ID     any           `json:"id"`
	Code   string        `json:"code"`
	Name   string        `json:"name"`
	Points []pointEntry  `json:"points"`
}

type pointEntry struct {
	Num                 int     `json:"num"`
	Geometry            geometryEntry `json:"geometry"`
	ExpectedTimeSeconds *int    `json:"expected_time_seconds"`
}

type geometryEntry struct {
	Coordinates []float64 `json:"coordinates"`
}

// parseChannels mirrors parse_channel_data: a channel survives only if it
// has at least 2 points carrying both geometry.coordinates (>= 3 values)
// and expected_time_seconds; individual bad points are silently dropped
// per spec.md §7's "missing waypoint data" rule, not the whole channel.
func parseChannels(payload channelPayload) []namedRoute {
	var routes []namedRoute
	for _, ch := range payload.Channels {
		sorted := append([]pointEntry(nil), ch.Points...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Num < sorted[j].Num })

		var samples conflict.Route
		for _, p := range sorted {
			if p.ExpectedTimeSeconds == nil || len(p.Geometry.Coordinates) < 3 {
				continue
			}
			samples = append(samples, conflict.Sample{
				TimeSeconds: *p.ExpectedTimeSeconds,
				Lon:         p.Geometry.Coordinates[0],
				Lat:         p.Geometry.Coordinates[1],
				Alt:         p.Geometry.Coordinates[2],
			})
		}
		if len(samples) < 2 {
			continue
		}

		name := ch.Name
		if name == "" {
			name = ch.Code
		}
		id := ""
		if ch.ID != nil {
			id = fmt.Sprint(ch.ID)
		}
		if id == "" {
			id = uuid.NewString()
		}
		routes = append(routes, namedRoute{ID: id, Name: name, Points: samples})
	}
	return routes
}

func (s *Server) handleUploadRoutes(existing bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var payload channelPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "request body is empty or malformed")
			return
		}
		routes := parseChannels(payload)
		if len(routes) == 0 {
			writeError(w, http.StatusBadRequest, "no valid route data found")
			return
		}

		names := make([]string, len(routes))
		for i, rt := range routes {
			names[i] = rt.Name
		}

		s.routesMu.Lock()
		if existing {
			s.existingRoutes = routes
		} else {
			s.newRoutes = routes
		}
		s.routesMu.Unlock()

		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "success",
			"message":     fmt.Sprintf("uploaded %d routes", len(routes)),
			"count":       len(routes),
			"route_names": names,
		})
	}
}

func (s *Server) handleGetRoutes(w http.ResponseWriter, r *http.Request) {
	s.routesMu.RLock()
	defer s.routesMu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                "success",
		"existing_routes_count": len(s.existingRoutes),
		"new_routes_count":      len(s.newRoutes),
		"existing_routes":       summarizeRoutes(s.existingRoutes),
		"new_routes":            summarizeRoutes(s.newRoutes),
	})
}

func summarizeRoutes(routes []namedRoute) []map[string]any {
	out := make([]map[string]any, len(routes))
	for i, rt := range routes {
		out[i] = map[string]any{"id": rt.ID, "name": rt.Name, "num_points": len(rt.Points)}
	}
	return out
}

type clearRoutesRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleClearRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req clearRoutesRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Type == "" {
		req.Type = "all"
	}

	s.routesMu.Lock()
	switch req.Type {
	case "existing":
		s.existingRoutes = nil
	case "new":
		s.newRoutes = nil
	default:
		s.existingRoutes = nil
		s.newRoutes = nil
	}
	s.routesMu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "routes cleared"})
}

type detectConflictsRequest struct {
	Epsilon *float64 `json:"epsilon,omitempty"`
	Horizon *int     `json:"horizon,omitempty"`
}

func (s *Server) handleDetectConflicts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req detectConflictsRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	epsilon := 0.001
	if req.Epsilon != nil {
		epsilon = *req.Epsilon
	}

	s.routesMu.RLock()
	existing := make([]conflict.Route, len(s.existingRoutes))
	for i, rt := range s.existingRoutes {
		existing[i] = rt.Points
	}
	newRoutes := make([]conflict.Route, len(s.newRoutes))
	for i, rt := range s.newRoutes {
		newRoutes[i] = rt.Points
	}
	s.routesMu.RUnlock()

	if len(existing) == 0 || len(newRoutes) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "nothing to compare: one side has no routes uploaded",
			"data":    map[string]any{"count": 0, "triples": []conflict.Triple{}},
		})
		return
	}

	horizon := 20000
	if req.Horizon != nil {
		horizon = *req.Horizon
	}

	tensor := conflict.BuildTensor(existing, newRoutes, horizon)
	result, err := conflict.Detect(r.Context(), tensor, epsilon, conflict.Options{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	triples := result.Triples
	truncated := result.Truncated
	if len(triples) > conflict.MaxTriples {
		triples = triples[:conflict.MaxTriples]
		truncated = true
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data": map[string]any{
			"count":     len(result.Triples),
			"triples":   triples,
			"truncated": truncated,
		},
	})
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
