// package ledger persists per-item attempt outcomes for resumable batches
package ledger

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/ytarc/internal/models"
	"github.com/desertthunder/ytarc/internal/shared"
)

// Ledger is the durable record of attempted items, keyed by canonical item ID.
//
// Record is a synchronous upsert: it returns only after the row is committed,
// so a crash between items never loses a completed outcome. Records are
// superseded by newer attempts, never deleted automatically, and a prior
// Failed status does not block retry.
type Ledger struct {
	db *sql.DB
}

// Open wraps an initialized database connection. The attempts table must
// already exist (see shared.RunMigrations).
func Open(db *sql.DB) (*Ledger, error) {
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='attempts'").Scan(&name)
	if err != nil {
		return nil, fmt.Errorf("%w: attempts table missing (run setup): %v", shared.ErrStoreUnavailable, err)
	}

	return &Ledger{db: db}, nil
}

// StatusOf returns the recorded status for an item ID. An item never seen
// returns StatusUnknown, which callers treat as "not yet attempted".
func (l *Ledger) StatusOf(itemID string) (models.AttemptStatus, error) {
	var status string
	err := l.db.QueryRow("SELECT status FROM attempts WHERE item_id = ?", itemID).Scan(&status)
	if err == sql.ErrNoRows {
		return models.StatusUnknown, nil
	}
	if err != nil {
		return models.StatusUnknown, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	parsed, err := models.ParseAttemptStatus(status)
	if err != nil {
		return models.StatusUnknown, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	return parsed, nil
}

// Get retrieves the full attempt record for an item ID, or nil when unseen.
func (l *Ledger) Get(itemID string) (*models.AttemptRecord, error) {
	row := l.db.QueryRow(`
		SELECT item_id, status, COALESCE(last_error, ''), attempted_at, COALESCE(output_path, '')
		FROM attempts
		WHERE item_id = ?
	`, itemID)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	return record, nil
}

// Record upserts the attempt record for its item ID.
//
// The single-statement upsert is atomic per key: concurrent writers for
// distinct items proceed independently and a cancelled run never leaves a
// half-written row.
func (l *Ledger) Record(record models.AttemptRecord) error {
	if record.ItemID == "" {
		return fmt.Errorf("%w: empty item id", shared.ErrInvalidInput)
	}
	if record.Status == models.StatusUnknown {
		return fmt.Errorf("%w: cannot record unknown status", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO attempts (item_id, status, last_error, attempted_at, output_path)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			status = excluded.status,
			last_error = excluded.last_error,
			attempted_at = excluded.attempted_at,
			output_path = excluded.output_path
	`

	_, err := l.db.Exec(query,
		record.ItemID,
		record.Status.String(),
		record.LastError,
		record.AttemptedAt,
		record.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	return nil
}

// Failed lists all records currently marked failed, ordered by attempt time.
func (l *Ledger) Failed() ([]models.AttemptRecord, error) {
	return l.list("SELECT item_id, status, COALESCE(last_error, ''), attempted_at, COALESCE(output_path, '') FROM attempts WHERE status = 'failed' ORDER BY attempted_at")
}

// All lists every record in the ledger, ordered by attempt time.
func (l *Ledger) All() ([]models.AttemptRecord, error) {
	return l.list("SELECT item_id, status, COALESCE(last_error, ''), attempted_at, COALESCE(output_path, '') FROM attempts ORDER BY attempted_at")
}

// ClearFailed removes all failed records, allowing a clean retry slate.
func (l *Ledger) ClearFailed() (int, error) {
	result, err := l.db.Exec("DELETE FROM attempts WHERE status = 'failed'")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	cleared, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	return int(cleared), nil
}

func (l *Ledger) list(query string) ([]models.AttemptRecord, error) {
	rows, err := l.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []models.AttemptRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	return records, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.AttemptRecord, error) {
	var record models.AttemptRecord
	var status string

	if err := s.Scan(&record.ItemID, &status, &record.LastError, &record.AttemptedAt, &record.OutputPath); err != nil {
		return nil, err
	}

	parsed, err := models.ParseAttemptStatus(status)
	if err != nil {
		return nil, err
	}
	record.Status = parsed

	return &record, nil
}
