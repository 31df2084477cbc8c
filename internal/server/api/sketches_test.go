package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// newTestStore creates a Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudra-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSketchHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewSketchHandler(s, nil)

	sketch := &store.Sketch{
		ID:     "test-sketch-1",
		Name:   "wave",
		Points: []store.PathPoint{{X: 1, Y: 2, T: 0}},
	}
	if err := s.Sketches().Create(sketch); err != nil {
		t.Fatalf("failed to create sketch: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sketches", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response listSketchesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Sketches) != 1 {
		t.Fatalf("expected 1 sketch, got %d", len(response.Sketches))
	}
	if response.Sketches[0].ID != "test-sketch-1" {
		t.Errorf("expected sketch ID 'test-sketch-1', got %q", response.Sketches[0].ID)
	}
}

func TestSketchHandler_CreateWithPoints(t *testing.T) {
	s := newTestStore(t)
	handler := NewSketchHandler(s, nil)

	reqBody := createSketchRequest{
		Name: "zigzag",
		Points: []store.PathPoint{
			{X: 0, Y: 0, T: 0},
			{X: 50, Y: 50, T: 33},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/sketches", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created store.Sketch
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Error("created sketch should have a generated ID")
	}
	if created.Name != "zigzag" {
		t.Errorf("expected name 'zigzag', got %q", created.Name)
	}

	stored, err := s.Sketches().GetByID(created.ID)
	if err != nil {
		t.Fatalf("created sketch not in store: %v", err)
	}
	if len(stored.Points) != 2 {
		t.Errorf("expected 2 stored points, got %d", len(stored.Points))
	}
}

func TestSketchHandler_CreateValidation(t *testing.T) {
	s := newTestStore(t)
	handler := NewSketchHandler(s, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "invalid json", body: "{not json", want: http.StatusBadRequest},
		{name: "missing name", body: `{"points":[{"x":1,"y":2,"t":0}]}`, want: http.StatusBadRequest},
		{name: "no points without engine", body: `{"name":"empty"}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/sketches", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestSketchHandler_CaptureFromEngine(t *testing.T) {
	s := newTestStore(t)
	e := engine.New(engine.Config{ParticleCount: 50})
	e.SetPath([]engine.TrailPoint{
		{X: 10, Y: 20, T: 1.0},
		{X: 30, Y: 40, T: 1.5},
	})
	handler := NewSketchHandler(s, e)

	req := httptest.NewRequest(http.MethodPost, "/api/sketches",
		bytes.NewBufferString(`{"name":"captured"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created store.Sketch
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(created.Points) != 2 {
		t.Fatalf("expected 2 captured points, got %d", len(created.Points))
	}
	// Timestamps become millisecond offsets from the first point.
	if created.Points[0].T != 0 || created.Points[1].T != 500 {
		t.Errorf("timestamps not rebased: %d, %d", created.Points[0].T, created.Points[1].T)
	}
}

func TestSketchHandler_LoadIntoEngine(t *testing.T) {
	s := newTestStore(t)
	e := engine.New(engine.Config{ParticleCount: 50})
	handler := NewSketchHandler(s, e)

	sketch := &store.Sketch{
		ID:   "load-me",
		Name: "loop",
		Points: []store.PathPoint{
			{X: 5, Y: 6, T: 0},
			{X: 7, Y: 8, T: 100},
		},
	}
	if err := s.Sketches().Create(sketch); err != nil {
		t.Fatalf("failed to create sketch: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/sketches/load-me/load", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	trail := e.Path()
	if len(trail) != 2 {
		t.Fatalf("expected 2 trail points in engine, got %d", len(trail))
	}
	if trail[1].X != 7 || trail[1].T != 0.1 {
		t.Errorf("trail point 1 = %+v, want X=7 T=0.1", trail[1])
	}
}

func TestSketchHandler_Load_NotFound(t *testing.T) {
	s := newTestStore(t)
	e := engine.New(engine.Config{ParticleCount: 50})
	handler := NewSketchHandler(s, e)

	req := httptest.NewRequest(http.MethodPost, "/api/sketches/no-such-id/load", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSketchHandler_UpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	handler := NewSketchHandler(s, nil)

	sketch := &store.Sketch{
		ID:     "edit-me",
		Name:   "before",
		Points: []store.PathPoint{{X: 1, Y: 1, T: 0}},
	}
	if err := s.Sketches().Create(sketch); err != nil {
		t.Fatalf("failed to create sketch: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/sketches/edit-me",
		bytes.NewBufferString(`{"name":"after"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("PUT expected status %d, got %d", http.StatusOK, rec.Code)
	}
	updated, err := s.Sketches().GetByID("edit-me")
	if err != nil {
		t.Fatalf("GetByID error = %v", err)
	}
	if updated.Name != "after" {
		t.Errorf("name = %q, want %q", updated.Name, "after")
	}
	if len(updated.Points) != 1 {
		t.Errorf("points should survive a name-only update, got %d", len(updated.Points))
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/sketches/edit-me", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/sketches/edit-me", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
