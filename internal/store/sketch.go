package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// PathPoint is one trail point of a saved sketch. T is the engine clock
// offset in milliseconds relative to the first point.
type PathPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T int64   `json:"t"`
}

// Sketch is a saved drawing trail.
type Sketch struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Points    []PathPoint `json:"points,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// SketchRepository provides CRUD operations for sketches.
type SketchRepository struct {
	db *sql.DB
}

// Sketches returns the sketch repository for this store.
func (s *Store) Sketches() *SketchRepository {
	return &SketchRepository{db: s.db}
}

// Create inserts a sketch and its points in a single transaction.
func (r *SketchRepository) Create(sk *Sketch) error {
	now := time.Now()
	sk.CreatedAt = now
	sk.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sketches (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		sk.ID, sk.Name, sk.CreatedAt, sk.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertPoints(tx, sk.ID, sk.Points); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID retrieves a sketch with its points.
func (r *SketchRepository) GetByID(id string) (*Sketch, error) {
	sk := &Sketch{}
	err := r.db.QueryRow(
		`SELECT id, name, created_at, updated_at FROM sketches WHERE id = ?`,
		id,
	).Scan(&sk.ID, &sk.Name, &sk.CreatedAt, &sk.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sk.Points, err = r.points(id)
	if err != nil {
		return nil, err
	}

	return sk, nil
}

// List retrieves all sketches, newest first, without their points.
func (r *SketchRepository) List() ([]*Sketch, error) {
	rows, err := r.db.Query(
		`SELECT id, name, created_at, updated_at FROM sketches ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sketches []*Sketch
	for rows.Next() {
		sk := &Sketch{}
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.CreatedAt, &sk.UpdatedAt); err != nil {
			return nil, err
		}
		sketches = append(sketches, sk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sketches, nil
}

// Update replaces a sketch's name and points.
func (r *SketchRepository) Update(sk *Sketch) error {
	sk.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE sketches SET name = ?, updated_at = ? WHERE id = ?`,
		sk.Name, sk.UpdatedAt, sk.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM sketch_points WHERE sketch_id = ?`, sk.ID); err != nil {
		return err
	}
	if err := insertPoints(tx, sk.ID, sk.Points); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a sketch by its ID. Points cascade.
func (r *SketchRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sketches WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SketchRepository) points(sketchID string) ([]PathPoint, error) {
	rows, err := r.db.Query(
		`SELECT x, y, timestamp_ms FROM sketch_points WHERE sketch_id = ? ORDER BY sequence`,
		sketchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []PathPoint
	for rows.Next() {
		var p PathPoint
		if err := rows.Scan(&p.X, &p.Y, &p.T); err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

func insertPoints(tx *sql.Tx, sketchID string, points []PathPoint) error {
	if len(points) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(
		`INSERT INTO sketch_points (sketch_id, sequence, x, y, timestamp_ms) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.Exec(sketchID, i, p.X, p.Y, p.T); err != nil {
			return err
		}
	}

	return nil
}
