// Package api provides HTTP API handlers for the Mudra particle engine.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// SketchHandler handles HTTP requests for sketch resources. With an engine
// attached it can also capture the live drawing trail and load saved
// sketches back into the cloud.
type SketchHandler struct {
	store  *store.Store
	engine *engine.Engine
}

// NewSketchHandler creates a SketchHandler. engine may be nil, which
// disables capture and load.
func NewSketchHandler(s *store.Store, e *engine.Engine) *SketchHandler {
	return &SketchHandler{store: s, engine: e}
}

// ServeHTTP routes requests to the appropriate method.
// Paths: /api/sketches, /api/sketches/{id}, /api/sketches/{id}/load.
func (h *SketchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sketches")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/load"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.load(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createSketchRequest struct {
	Name   string            `json:"name"`
	Points []store.PathPoint `json:"points"`
}

type updateSketchRequest struct {
	Name   string            `json:"name"`
	Points []store.PathPoint `json:"points"`
}

type listSketchesResponse struct {
	Sketches []*store.Sketch `json:"sketches"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sketches.
func (h *SketchHandler) list(w http.ResponseWriter, r *http.Request) {
	sketches, err := h.store.Sketches().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sketches")
		return
	}
	if sketches == nil {
		sketches = []*store.Sketch{}
	}
	writeJSON(w, http.StatusOK, listSketchesResponse{Sketches: sketches})
}

// get handles GET /api/sketches/{id}.
func (h *SketchHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sketch, err := h.store.Sketches().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sketch not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get sketch")
		return
	}
	writeJSON(w, http.StatusOK, sketch)
}

// create handles POST /api/sketches. A request without points captures the
// engine's live drawing trail instead.
func (h *SketchHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSketchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	points := req.Points
	if len(points) == 0 {
		if h.engine == nil {
			writeError(w, http.StatusBadRequest, "Points are required")
			return
		}
		points = trailToPoints(h.engine.Path())
		if len(points) == 0 {
			writeError(w, http.StatusBadRequest, "No drawing trail to capture")
			return
		}
	}

	sketch := &store.Sketch{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Points: points,
	}
	if err := h.store.Sketches().Create(sketch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create sketch")
		return
	}

	writeJSON(w, http.StatusCreated, sketch)
}

// update handles PUT /api/sketches/{id}.
func (h *SketchHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	sketch, err := h.store.Sketches().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sketch not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get sketch")
		return
	}

	var req updateSketchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		sketch.Name = req.Name
	}
	if req.Points != nil {
		sketch.Points = req.Points
	}

	if err := h.store.Sketches().Update(sketch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update sketch")
		return
	}

	writeJSON(w, http.StatusOK, sketch)
}

// delete handles DELETE /api/sketches/{id}.
func (h *SketchHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Sketches().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sketch not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete sketch")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// load handles POST /api/sketches/{id}/load and replaces the engine's
// drawing trail with the saved sketch.
func (h *SketchHandler) load(w http.ResponseWriter, r *http.Request, id string) {
	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "Engine not available")
		return
	}

	sketch, err := h.store.Sketches().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sketch not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get sketch")
		return
	}

	h.engine.SetPath(pointsToTrail(sketch.Points))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loaded": sketch.ID,
		"points": len(sketch.Points),
	})
}

// trailToPoints converts engine trail points, whose timestamps are engine
// clock seconds, into stored points with millisecond offsets from the
// first point.
func trailToPoints(trail []engine.TrailPoint) []store.PathPoint {
	if len(trail) == 0 {
		return nil
	}
	base := trail[0].T
	points := make([]store.PathPoint, len(trail))
	for i, p := range trail {
		points[i] = store.PathPoint{
			X: p.X,
			Y: p.Y,
			T: int64((p.T - base) * 1000),
		}
	}
	return points
}

// pointsToTrail is the inverse conversion for loading a sketch.
func pointsToTrail(points []store.PathPoint) []engine.TrailPoint {
	trail := make([]engine.TrailPoint, len(points))
	for i, p := range points {
		trail[i] = engine.TrailPoint{
			X: p.X,
			Y: p.Y,
			T: float64(p.T) / 1000,
		}
	}
	return trail
}
