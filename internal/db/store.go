package db

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/motion-data/dynamics.report/internal/dynamics"
)

// TrajectoryRecord is the stored metadata for one trajectory.
type TrajectoryRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	SampleCount int       `json:"sample_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// InsertTrajectory stores an enriched trajectory under a fresh uuid,
// writing the metadata row and all sample rows in one transaction.
func (db *DB) InsertTrajectory(name, source string, et dynamics.EnrichedTrajectory) (string, error) {
	id := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO trajectories (id, name, source, sample_count, created_at) VALUES (?, ?, ?, ?, ?)",
		id, name, source, len(et), time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert trajectory: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trajectory_samples
			(trajectory_id, idx, t, x, y, vx, vy, speed, ax, ay, accel, curv, disp_x, disp_y, disp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, row := range et {
		_, err := stmt.Exec(
			id, i, row.T, row.X, row.Y,
			nullable(row.Vx), nullable(row.Vy), nullable(row.Speed),
			nullable(row.Ax), nullable(row.Ay), nullable(row.Accel),
			nullable(row.Curvature),
			nullable(row.DispX), nullable(row.DispY), nullable(row.Disp),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// GetTrajectory returns the metadata row for id.
func (db *DB) GetTrajectory(id string) (*TrajectoryRecord, error) {
	rec := &TrajectoryRecord{}
	var createdAtUnix int64
	err := db.QueryRow(
		"SELECT id, name, source, sample_count, created_at FROM trajectories WHERE id = ?", id,
	).Scan(&rec.ID, &rec.Name, &rec.Source, &rec.SampleCount, &createdAtUnix)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(createdAtUnix, 0)
	return rec, nil
}

// ListTrajectories returns all stored trajectories, newest first.
func (db *DB) ListTrajectories() ([]TrajectoryRecord, error) {
	rows, err := db.Query(
		"SELECT id, name, source, sample_count, created_at FROM trajectories ORDER BY created_at DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []TrajectoryRecord
	for rows.Next() {
		var rec TrajectoryRecord
		var createdAtUnix int64
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Source, &rec.SampleCount, &createdAtUnix); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.Unix(createdAtUnix, 0)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// GetEnriched reloads the full enriched trajectory for id, in sample order.
// NULL columns come back as missing-value markers; the curvature radius is
// rederived from the stored curvature rather than stored redundantly.
func (db *DB) GetEnriched(id string) (dynamics.EnrichedTrajectory, error) {
	if _, err := db.GetTrajectory(id); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT t, x, y, vx, vy, speed, ax, ay, accel, curv, disp_x, disp_y, disp
		FROM trajectory_samples WHERE trajectory_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var et dynamics.EnrichedTrajectory
	for rows.Next() {
		var row dynamics.EnrichedSample
		var vx, vy, speed, ax, ay, accel, curv, dispX, dispY, disp sql.NullFloat64
		if err := rows.Scan(&row.T, &row.X, &row.Y,
			&vx, &vy, &speed, &ax, &ay, &accel, &curv, &dispX, &dispY, &disp); err != nil {
			return nil, err
		}
		row.Vx = fromNullable(vx)
		row.Vy = fromNullable(vy)
		row.Speed = fromNullable(speed)
		row.Ax = fromNullable(ax)
		row.Ay = fromNullable(ay)
		row.Accel = fromNullable(accel)
		row.Curvature = fromNullable(curv)
		row.CurvatureRadius = radiusOf(row.Curvature)
		row.DispX = fromNullable(dispX)
		row.DispY = fromNullable(dispY)
		row.Disp = fromNullable(disp)
		et = append(et, row)
	}
	return et, rows.Err()
}

// DeleteTrajectory removes the metadata row and all sample rows.
func (db *DB) DeleteTrajectory(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM trajectory_samples WHERE trajectory_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM trajectories WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// nullable maps missing-value markers (NaN/Inf) to SQL NULL.
func nullable(v float64) interface{} {
	if !dynamics.Finite(v) {
		return nil
	}
	return v
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func radiusOf(curv float64) float64 {
	switch {
	case math.IsNaN(curv):
		return math.NaN()
	case curv == 0:
		return math.Inf(1)
	default:
		return 1 / math.Abs(curv)
	}
}
