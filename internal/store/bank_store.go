// Package store persists the calibrated item bank so the server does not
// have to recalibrate from scratch on every restart, and loads the
// response-history / item-topic-map files the calibrator and estimator
// consume. Both are external-collaborator concerns -- the
// core packages never import this one.
package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/manhnguyen41/Adaptive-Learning/internal/calibration"
	"github.com/manhnguyen41/Adaptive-Learning/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id                 TEXT PRIMARY KEY,
	b                  DOUBLE PRECISION NOT NULL,
	a                  DOUBLE PRECISION NOT NULL,
	c                  DOUBLE PRECISION NOT NULL,
	attempt_count      INTEGER NOT NULL,
	correct_count      INTEGER NOT NULL,
	mean_response_time DOUBLE PRECISION NOT NULL,
	uncalibrated       BOOLEAN NOT NULL
)`

// BankStore persists a calibration.Bank via sqlx, against either SQLite
// (default, cgo-free via modernc.org/sqlite) or Postgres (via lib/pq, when
// driver is "postgres").
type BankStore struct {
	db *sqlx.DB
}

// Open connects to the configured store backend and ensures the schema
// exists. driver is "sqlite" or "postgres"; dsn is the corresponding
// connection string.
func Open(driver, dsn string) (*BankStore, error) {
	sqlDriver, err := driverName(driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store (%s): %w", driver, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating items schema: %w", err)
	}
	return &BankStore{db: db}, nil
}

func driverName(driver string) (string, error) {
	switch driver {
	case "", "sqlite":
		return "sqlite", nil
	case "postgres":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unknown store driver %q", driver)
	}
}

// Close closes the underlying connection.
func (s *BankStore) Close() error {
	return s.db.Close()
}

// itemRow mirrors the items table for sqlx scanning.
type itemRow struct {
	ID               string  `db:"id"`
	B                float64 `db:"b"`
	A                float64 `db:"a"`
	C                float64 `db:"c"`
	AttemptCount     int     `db:"attempt_count"`
	CorrectCount     int     `db:"correct_count"`
	MeanResponseTime float64 `db:"mean_response_time"`
	Uncalibrated     bool    `db:"uncalibrated"`
}

// Save replaces the persisted bank with the given one, inside a single
// transaction.
func (s *BankStore) Save(bank *calibration.Bank) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM items"); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}

	insert := tx.Rebind(`INSERT INTO items
		(id, b, a, c, attempt_count, correct_count, mean_response_time, uncalibrated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	for _, item := range bank.Items {
		if _, err := tx.Exec(insert, item.ID, item.B, item.A, item.C,
			item.AttemptCount, item.CorrectCount, item.MeanResponseTime, item.Uncalibrated); err != nil {
			return fmt.Errorf("inserting item %q: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

// Load reads the persisted bank back into a calibration.Bank. Returns an
// empty bank, not an error, when no items have been saved yet.
func (s *BankStore) Load() (*calibration.Bank, error) {
	var rows []itemRow
	if err := s.db.Select(&rows, "SELECT id, b, a, c, attempt_count, correct_count, mean_response_time, uncalibrated FROM items"); err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}

	items := make(map[string]models.Item, len(rows))
	for _, r := range rows {
		items[r.ID] = models.Item{
			ID:               r.ID,
			B:                r.B,
			A:                r.A,
			C:                r.C,
			AttemptCount:     r.AttemptCount,
			CorrectCount:     r.CorrectCount,
			MeanResponseTime: r.MeanResponseTime,
			Uncalibrated:     r.Uncalibrated,
		}
	}
	return &calibration.Bank{Items: items}, nil
}
