package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/SmoothBot/exchange-volume/internal/domain/models"
	pq "github.com/lib/pq"
)

// ErrConflict is returned when an insert violates a uniqueness constraint,
// e.g. inserting an exchange id that is already present. Check with errors.Is.
var ErrConflict = errors.New("store conflict")

// Repository defines the store contract consumed by the pipeline.
//
// Exchange rows accumulate insert-if-absent; volume rows accumulate per
// exchange exactly once. Neither is ever updated in place.
type Repository interface {
	ExchangeExists(id string) (bool, error)
	InsertExchange(ex models.Exchange) error
	ListExchanges() ([]models.Exchange, error)
	HasVolumeRecords(exchangeID string) (bool, error)
	InsertVolumeBatch(records []models.VolumeRecord) error
	AllVolumesWithExchanges() ([]models.VolumeWithExchange, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// ExchangeExists reports whether an exchange id is already persisted.
func (r *repository) ExchangeExists(id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM exchanges WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// InsertExchange persists one exchange. A duplicate id yields ErrConflict.
func (r *repository) InsertExchange(ex models.Exchange) error {
	_, err := r.db.Exec(
		`INSERT INTO exchanges (id, name, centralized) VALUES ($1, $2, $3)`,
		ex.ID, ex.Name, ex.Centralized,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("exchange %s: %w", ex.ID, ErrConflict)
	}
	return err
}

// ListExchanges returns all persisted exchanges ordered by display name,
// which fixes the volume-phase iteration order across runs.
func (r *repository) ListExchanges() ([]models.Exchange, error) {
	rows, err := r.db.Query(`SELECT id, name, centralized FROM exchanges ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Exchange
	for rows.Next() {
		var ex models.Exchange
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.Centralized); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// HasVolumeRecords reports whether any volume row exists for the exchange.
// Presence of a single row marks the exchange as fully ingested.
func (r *repository) HasVolumeRecords(exchangeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM volumes WHERE exchange_id = $1)`, exchangeID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// InsertVolumeBatch inserts a batch of volume records in a single transaction
// using COPY. The batch is all-or-nothing: any failure rolls it back.
func (r *repository) InsertVolumeBatch(records []models.VolumeRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn("volumes", "exchange_id", "date", "volume"))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, rec := range records {
		if _, err := stmt.Exec(rec.ExchangeID, rec.Date, rec.Volume); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// AllVolumesWithExchanges returns every volume record joined with its
// exchange, since aggregation needs the centralized flag per record.
func (r *repository) AllVolumesWithExchanges() ([]models.VolumeWithExchange, error) {
	rows, err := r.db.Query(`
		SELECT v.exchange_id, v.date, v.volume, e.name, e.centralized
		FROM volumes v
		JOIN exchanges e ON e.id = v.exchange_id
		ORDER BY v.date ASC, e.name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.VolumeWithExchange
	for rows.Next() {
		var vw models.VolumeWithExchange
		if err := rows.Scan(
			&vw.Record.ExchangeID,
			&vw.Record.Date,
			&vw.Record.Volume,
			&vw.Exchange.Name,
			&vw.Exchange.Centralized,
		); err != nil {
			return nil, err
		}
		vw.Exchange.ID = vw.Record.ExchangeID
		out = append(out, vw)
	}
	return out, rows.Err()
}

// isUniqueViolation detects a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
