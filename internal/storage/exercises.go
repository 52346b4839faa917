package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

const exerciseColumns = `id, name, target_muscle_group, instructions, form_cues, video_url, created_at_ms`

// InsertExercise stores a new exercise. A zero ID is replaced with a fresh one.
func (db *DB) InsertExercise(ctx context.Context, e *models.Exercise) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := db.sql.ExecContext(ctx, db.q(
		`INSERT INTO exercises (`+exerciseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		e.ID.String(), e.Name, e.TargetMuscleGroup,
		nullString(e.Instructions), nullString(e.FormCues), nullString(e.VideoURL),
		toMillis(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting exercise %q: %w", e.Name, err)
	}
	return nil
}

// InsertExercises stores a batch of exercises in one transaction.
func (db *DB) InsertExercises(ctx context.Context, exercises []models.Exercise) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		for i := range exercises {
			e := &exercises[i]
			if e.ID == uuid.Nil {
				e.ID = uuid.New()
			}
			if _, err := tx.ExecContext(ctx, db.q(
				`INSERT INTO exercises (`+exerciseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
				e.ID.String(), e.Name, e.TargetMuscleGroup,
				nullString(e.Instructions), nullString(e.FormCues), nullString(e.VideoURL),
				toMillis(e.CreatedAt),
			); err != nil {
				return fmt.Errorf("inserting exercise %q: %w", e.Name, err)
			}
		}
		return nil
	})
}

// UpdateExercise overwrites the editable fields of an existing exercise.
func (db *DB) UpdateExercise(ctx context.Context, e *models.Exercise) error {
	res, err := db.sql.ExecContext(ctx, db.q(
		`UPDATE exercises
		 SET name = ?, target_muscle_group = ?, instructions = ?, form_cues = ?, video_url = ?
		 WHERE id = ?`),
		e.Name, e.TargetMuscleGroup,
		nullString(e.Instructions), nullString(e.FormCues), nullString(e.VideoURL),
		e.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating exercise %s: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating exercise %s: %w", e.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetExercise returns one exercise by ID.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	row := db.sql.QueryRowContext(ctx, db.q(
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`), id.String())
	e, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise %s: %w", id, err)
	}
	return e, nil
}

// FindExerciseByName does a case-insensitive lookup by exact name.
func (db *DB) FindExerciseByName(ctx context.Context, name string) (*models.Exercise, error) {
	row := db.sql.QueryRowContext(ctx, db.q(
		`SELECT `+exerciseColumns+` FROM exercises WHERE LOWER(name) = LOWER(?)
		 ORDER BY created_at_ms LIMIT 1`), name)
	e, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise %q: %w", name, err)
	}
	return e, nil
}

// ListExercises returns exercises ordered by name. An empty muscleGroup
// returns all of them.
func (db *DB) ListExercises(ctx context.Context, muscleGroup string) ([]models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises`
	var args []any
	if muscleGroup != "" {
		query += ` WHERE target_muscle_group = ?`
		args = append(args, muscleGroup)
	}
	query += ` ORDER BY name, created_at_ms`

	rows, err := db.sql.QueryContext(ctx, db.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	out := []models.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// CountExercises returns the number of stored exercises.
func (db *DB) CountExercises(ctx context.Context) (int, error) {
	var n int
	if err := db.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting exercises: %w", err)
	}
	return n, nil
}

// ListMuscleGroups returns the distinct target muscle groups in use.
func (db *DB) ListMuscleGroups(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT DISTINCT target_muscle_group FROM exercises ORDER BY target_muscle_group`)
	if err != nil {
		return nil, fmt.Errorf("querying muscle groups: %w", err)
	}
	defer rows.Close()

	groups := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scanning muscle group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// DeleteExercise removes an exercise together with its set logs and routine
// memberships in a single transaction. It returns the number of set logs
// removed. Nothing is deleted if any step fails.
func (db *DB) DeleteExercise(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, db.q(`DELETE FROM set_logs WHERE exercise_id = ?`), id.String())
		if err != nil {
			return fmt.Errorf("deleting set logs: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("deleting set logs: %w", err)
		}

		if _, err := tx.ExecContext(ctx, db.q(`DELETE FROM routine_exercises WHERE exercise_id = ?`), id.String()); err != nil {
			return fmt.Errorf("deleting routine memberships: %w", err)
		}

		res, err = tx.ExecContext(ctx, db.q(`DELETE FROM exercises WHERE id = ?`), id.String())
		if err != nil {
			return fmt.Errorf("deleting exercise: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting exercise: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(s rowScanner) (*models.Exercise, error) {
	var (
		e                            models.Exercise
		id                           string
		instructions, cues, videoURL sql.NullString
		createdMs                    int64
	)
	if err := s.Scan(&id, &e.Name, &e.TargetMuscleGroup, &instructions, &cues, &videoURL, &createdMs); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing exercise id %q: %w", id, err)
	}
	e.ID = parsed
	e.Instructions = stringPtr(instructions)
	e.FormCues = stringPtr(cues)
	e.VideoURL = stringPtr(videoURL)
	e.CreatedAt = fromMillis(createdMs)
	return &e, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
