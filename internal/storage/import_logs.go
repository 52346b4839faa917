package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Import statuses.
const (
	ImportRunning = "running"
	ImportSuccess = "success"
	ImportError   = "error"
)

// ImportLog records the outcome of one history or seed import.
type ImportLog struct {
	ID               uuid.UUID `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Source           string    `json:"source"`
	Status           string    `json:"status"`
	SetsReceived     int       `json:"sets_received"`
	SetsInserted     int64     `json:"sets_inserted"`
	ExercisesCreated int       `json:"exercises_created"`
	DurationMs       *int      `json:"duration_ms"`
	ErrorMessage     *string   `json:"error_message"`
}

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (uuid.UUID, error) {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	_, err := db.sql.ExecContext(ctx, db.q(
		`INSERT INTO import_logs (id, created_at_ms, source, status, sets_received, sets_inserted,
		 exercises_created, duration_ms, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		log.ID.String(), toMillis(log.CreatedAt), log.Source, log.Status, log.SetsReceived,
		log.SetsInserted, log.ExercisesCreated, nullInt(log.DurationMs), nullString(log.ErrorMessage),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting import log: %w", err)
	}
	return log.ID, nil
}

// UpdateImportLog updates an existing entry, typically from "running" to
// "success" or "error".
func (db *DB) UpdateImportLog(ctx context.Context, id uuid.UUID, log ImportLog) error {
	_, err := db.sql.ExecContext(ctx, db.q(
		`UPDATE import_logs SET
		 status = ?, sets_received = ?, sets_inserted = ?, exercises_created = ?,
		 duration_ms = ?, error_message = ?
		 WHERE id = ?`),
		log.Status, log.SetsReceived, log.SetsInserted, log.ExercisesCreated,
		nullInt(log.DurationMs), nullString(log.ErrorMessage), id.String(),
	)
	if err != nil {
		return fmt.Errorf("updating import log %s: %w", id, err)
	}
	return nil
}

// ListImportLogs returns the most recent import logs, newest first.
func (db *DB) ListImportLogs(ctx context.Context, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.sql.QueryContext(ctx, db.q(
		`SELECT id, created_at_ms, source, status, sets_received, sets_inserted,
		 exercises_created, duration_ms, error_message
		 FROM import_logs
		 ORDER BY created_at_ms DESC
		 LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	result := []ImportLog{}
	for rows.Next() {
		var (
			l         ImportLog
			id        string
			createdMs int64
			duration  sql.NullInt64
			errMsg    sql.NullString
		)
		if err := rows.Scan(&id, &createdMs, &l.Source, &l.Status, &l.SetsReceived,
			&l.SetsInserted, &l.ExercisesCreated, &duration, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		if l.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing import log id %q: %w", id, err)
		}
		l.CreatedAt = fromMillis(createdMs)
		if duration.Valid {
			d := int(duration.Int64)
			l.DurationMs = &d
		}
		l.ErrorMessage = stringPtr(errMsg)
		result = append(result, l)
	}
	return result, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
