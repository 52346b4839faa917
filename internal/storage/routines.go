package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

// GetRoutine returns the routine for a weekday. A day with no routine yields
// an empty routine rather than ErrNotFound.
func (db *DB) GetRoutine(ctx context.Context, day models.Weekday) (*models.Routine, error) {
	rows, err := db.sql.QueryContext(ctx, db.q(
		`SELECT exercise_id FROM routine_exercises WHERE day_of_week = ? ORDER BY position`),
		string(day))
	if err != nil {
		return nil, fmt.Errorf("querying routine %s: %w", day, err)
	}
	defer rows.Close()

	r := &models.Routine{Day: day, ExerciseIDs: []uuid.UUID{}}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning routine exercise: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parsing routine exercise id %q: %w", id, err)
		}
		r.ExerciseIDs = append(r.ExerciseIDs, parsed)
	}
	return r, rows.Err()
}

// ListRoutines returns one routine per weekday in display order.
func (db *DB) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	out := make([]models.Routine, 0, len(models.Weekdays))
	for _, d := range models.Weekdays {
		r, err := db.GetRoutine(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// SetRoutine replaces the ordered exercise membership of a weekday.
// Duplicate IDs keep their first position.
func (db *DB) SetRoutine(ctx context.Context, day models.Weekday, exerciseIDs []uuid.UUID) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, db.q(
			`INSERT INTO routines (day_of_week) VALUES (?) ON CONFLICT (day_of_week) DO NOTHING`),
			string(day)); err != nil {
			return fmt.Errorf("upserting routine %s: %w", day, err)
		}
		if _, err := tx.ExecContext(ctx, db.q(
			`DELETE FROM routine_exercises WHERE day_of_week = ?`), string(day)); err != nil {
			return fmt.Errorf("clearing routine %s: %w", day, err)
		}

		seen := make(map[uuid.UUID]bool, len(exerciseIDs))
		pos := 0
		for _, id := range exerciseIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, err := tx.ExecContext(ctx, db.q(
				`INSERT INTO routine_exercises (day_of_week, exercise_id, position) VALUES (?, ?, ?)`),
				string(day), id.String(), pos); err != nil {
				return fmt.Errorf("adding %s to routine %s: %w", id, day, err)
			}
			pos++
		}
		return nil
	})
}
