// Package store keeps T0 products and their track associations in sqlite.
package store

import (
	"database/sql"
	"fmt"

	"github.com/LdDl/t0-go/t0"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS t0 (
			event INTEGER NOT NULL,
			t0_index INTEGER NOT NULL,
			time DOUBLE NOT NULL,
			trigger_type INTEGER NOT NULL DEFAULT 0,
			trigger_bits INTEGER NOT NULL DEFAULT 0,
			plane TEXT NOT NULL,
			PRIMARY KEY (event, t0_index)
		);
		CREATE TABLE IF NOT EXISTS track_t0_assn (
			event INTEGER NOT NULL,
			track_id TEXT NOT NULL,
			track_index INTEGER NOT NULL,
			t0_index INTEGER NOT NULL,
			PRIMARY KEY (event, track_id),
			FOREIGN KEY (event, t0_index) REFERENCES t0(event, t0_index)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// RecordProducts stores products of a single event in one transaction, replacing
// whatever was stored for that event before. Either every T0 and association is written or none.
func (db *DB) RecordProducts(event int, products t0.Products) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM track_t0_assn WHERE event = ?", event); err != nil {
		return fmt.Errorf("failed to clear associations of event %d: %w", event, err)
	}
	if _, err := tx.Exec("DELETE FROM t0 WHERE event = ?", event); err != nil {
		return fmt.Errorf("failed to clear T0s of event %d: %w", event, err)
	}
	for _, t := range products.T0s {
		_, err := tx.Exec(
			"INSERT INTO t0 (event, t0_index, time, trigger_type, trigger_bits, plane) VALUES (?, ?, ?, ?, ?, ?)",
			event, t.ID, t.Time, t.TriggerType, t.TriggerBits, t.Plane.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert T0 #%d of event %d: %w", t.ID, event, err)
		}
	}
	for _, assn := range products.Assns {
		_, err := tx.Exec(
			"INSERT INTO track_t0_assn (event, track_id, track_index, t0_index) VALUES (?, ?, ?, ?)",
			event, assn.TrackID.String(), assn.TrackIndex, assn.T0Index,
		)
		if err != nil {
			return fmt.Errorf("failed to insert association for track %s of event %d: %w", assn.TrackID, event, err)
		}
	}
	return tx.Commit()
}

// Products loads T0 products of the event, T0s ordered by index and associations by track index
func (db *DB) Products(event int) (t0.Products, error) {
	products := t0.Products{}

	rows, err := db.Query("SELECT t0_index, time, trigger_type, trigger_bits, plane FROM t0 WHERE event = ? ORDER BY t0_index", event)
	if err != nil {
		return products, err
	}
	defer rows.Close()
	for rows.Next() {
		var t t0.T0
		var plane string
		if err := rows.Scan(&t.ID, &t.Time, &t.TriggerType, &t.TriggerBits, &plane); err != nil {
			return products, err
		}
		if t.Plane, err = t0.ParsePlane(plane); err != nil {
			return products, err
		}
		products.T0s = append(products.T0s, t)
	}
	if err := rows.Err(); err != nil {
		return products, err
	}

	assnRows, err := db.Query("SELECT track_id, track_index, t0_index FROM track_t0_assn WHERE event = ? ORDER BY track_index", event)
	if err != nil {
		return products, err
	}
	defer assnRows.Close()
	for assnRows.Next() {
		var assn t0.Assn
		var trackID string
		if err := assnRows.Scan(&trackID, &assn.TrackIndex, &assn.T0Index); err != nil {
			return products, err
		}
		if assn.TrackID, err = uuid.Parse(trackID); err != nil {
			return products, err
		}
		products.Assns = append(products.Assns, assn)
	}
	if err := assnRows.Err(); err != nil {
		return products, err
	}

	return products, nil
}

// CountT0 returns number of stored T0s over all events
func (db *DB) CountT0() (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM t0").Scan(&n)
	return n, err
}
