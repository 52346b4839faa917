package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

const setLogColumns = `id, exercise_id, set_number, reps, weight_lbs, notes, logged_at_ms`

// InsertSetLogs stores a batch of set logs in one transaction and returns the
// number inserted. Sets with a zero ID get a fresh one.
func (db *DB) InsertSetLogs(ctx context.Context, logs []models.SetLog) (int64, error) {
	if len(logs) == 0 {
		return 0, nil
	}

	var inserted int64
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, db.q(
			`INSERT INTO set_logs (`+setLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`))
		if err != nil {
			return fmt.Errorf("preparing set log insert: %w", err)
		}
		defer stmt.Close()

		for i := range logs {
			l := &logs[i]
			if l.ID == uuid.Nil {
				l.ID = uuid.New()
			}
			if _, err := stmt.ExecContext(ctx,
				l.ID.String(), nullUUID(l.ExerciseID), l.SetNumber, l.Reps, l.WeightLbs,
				nullString(l.Notes), toMillis(l.LoggedAt),
			); err != nil {
				return fmt.Errorf("inserting set %d: %w", l.SetNumber, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListSetLogs returns set logs matching the filter, oldest first.
func (db *DB) ListSetLogs(ctx context.Context, f models.SetLogFilter) ([]models.SetLog, error) {
	query := `SELECT ` + setLogColumns + ` FROM set_logs WHERE 1=1`
	var args []any
	if f.ExerciseID != nil {
		query += ` AND exercise_id = ?`
		args = append(args, f.ExerciseID.String())
	}
	if !f.Start.IsZero() {
		query += ` AND logged_at_ms >= ?`
		args = append(args, toMillis(f.Start))
	}
	if !f.End.IsZero() {
		query += ` AND logged_at_ms <= ?`
		args = append(args, toMillis(f.End))
	}
	query += ` ORDER BY logged_at_ms, set_number`

	rows, err := db.sql.QueryContext(ctx, db.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying set logs: %w", err)
	}
	defer rows.Close()

	out := []models.SetLog{}
	for rows.Next() {
		l, err := scanSetLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning set log: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// ListSetLogsByExercise returns every log referencing the exercise.
func (db *DB) ListSetLogsByExercise(ctx context.Context, exerciseID uuid.UUID) ([]models.SetLog, error) {
	return db.ListSetLogs(ctx, models.SetLogFilter{ExerciseID: &exerciseID})
}

// CountSetLogsByExercise returns how many logs reference the exercise.
func (db *DB) CountSetLogsByExercise(ctx context.Context, exerciseID uuid.UUID) (int64, error) {
	var n int64
	err := db.sql.QueryRowContext(ctx, db.q(
		`SELECT COUNT(*) FROM set_logs WHERE exercise_id = ?`), exerciseID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting set logs: %w", err)
	}
	return n, nil
}

// DeleteSetLog removes one set log.
func (db *DB) DeleteSetLog(ctx context.Context, id uuid.UUID) error {
	res, err := db.sql.ExecContext(ctx, db.q(`DELETE FROM set_logs WHERE id = ?`), id.String())
	if err != nil {
		return fmt.Errorf("deleting set log %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting set log %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceSetLogsAt deletes the exercise's logs stamped exactly at the given
// time and inserts logs in their place, in one transaction. Re-importing the
// same session is therefore idempotent.
func (db *DB) ReplaceSetLogsAt(ctx context.Context, exerciseID uuid.UUID, at time.Time, logs []models.SetLog) (int64, error) {
	var inserted int64
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, db.q(
			`DELETE FROM set_logs WHERE exercise_id = ? AND logged_at_ms = ?`),
			exerciseID.String(), toMillis(at)); err != nil {
			return fmt.Errorf("deleting existing sets: %w", err)
		}
		for i := range logs {
			l := &logs[i]
			if l.ID == uuid.Nil {
				l.ID = uuid.New()
			}
			if _, err := tx.ExecContext(ctx, db.q(
				`INSERT INTO set_logs (`+setLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
				l.ID.String(), nullUUID(l.ExerciseID), l.SetNumber, l.Reps, l.WeightLbs,
				nullString(l.Notes), toMillis(l.LoggedAt),
			); err != nil {
				return fmt.Errorf("inserting set %d: %w", l.SetNumber, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func scanSetLog(s rowScanner) (*models.SetLog, error) {
	var (
		l          models.SetLog
		id         string
		exerciseID sql.NullString
		notes      sql.NullString
		loggedMs   int64
	)
	if err := s.Scan(&id, &exerciseID, &l.SetNumber, &l.Reps, &l.WeightLbs, &notes, &loggedMs); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing set log id %q: %w", id, err)
	}
	l.ID = parsed
	if exerciseID.Valid {
		eid, err := uuid.Parse(exerciseID.String)
		if err != nil {
			return nil, fmt.Errorf("parsing exercise id %q: %w", exerciseID.String, err)
		}
		l.ExerciseID = &eid
	}
	l.Notes = stringPtr(notes)
	l.LoggedAt = fromMillis(loggedMs)
	return &l, nil
}

func nullUUID(id *uuid.UUID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}
