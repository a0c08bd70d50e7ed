// Package db stores trajectories and their computed dynamics in SQLite.
// All values are kept in engine units (metres, seconds); undefined derived
// values are stored as NULL.
package db

import (
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a trajectory id does not exist.
var ErrNotFound = errors.New("trajectory not found")

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the database at path and brings the schema up to
// the latest migration.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenDB opens the database without touching the schema (migrations are run
// separately, e.g. by the migrate subcommand).
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one pooled connection also keeps
	// :memory: databases coherent across queries in tests.
	db.SetMaxOpenConns(1)
	return &DB{db}, nil
}
