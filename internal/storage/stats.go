package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalExercises int64             `json:"total_exercises"`
	TotalSets      int64             `json:"total_sets"`
	OrphanedSets   int64             `json:"orphaned_sets"`
	TotalVolumeLbs float64           `json:"total_volume_lbs"`
	EarliestData   *time.Time        `json:"earliest_data"`
	LatestData     *time.Time        `json:"latest_data"`
	SetsByMuscle   []MuscleGroupStat `json:"sets_by_muscle_group"`
}

// MuscleGroupStat holds summary stats for a single muscle group.
type MuscleGroupStat struct {
	Group     string  `json:"group"`
	Sets      int64   `json:"sets"`
	VolumeLbs float64 `json:"volume_lbs"`
}

// GetDataStats returns aggregate statistics for the stored data.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{SetsByMuscle: []MuscleGroupStat{}}

	err := db.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&stats.TotalExercises)
	if err != nil {
		return nil, fmt.Errorf("counting exercises: %w", err)
	}

	var earliest, latest sql.NullInt64
	err = db.sql.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(reps * weight_lbs), 0), MIN(logged_at_ms), MAX(logged_at_ms)
		 FROM set_logs`,
	).Scan(&stats.TotalSets, &stats.TotalVolumeLbs, &earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("querying set totals: %w", err)
	}
	if earliest.Valid {
		t := fromMillis(earliest.Int64)
		stats.EarliestData = &t
	}
	if latest.Valid {
		t := fromMillis(latest.Int64)
		stats.LatestData = &t
	}

	err = db.sql.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM set_logs s
		 WHERE s.exercise_id IS NULL
		    OR NOT EXISTS (SELECT 1 FROM exercises e WHERE e.id = s.exercise_id)`,
	).Scan(&stats.OrphanedSets)
	if err != nil {
		return nil, fmt.Errorf("counting orphaned sets: %w", err)
	}

	rows, err := db.sql.QueryContext(ctx,
		`SELECT e.target_muscle_group, COUNT(*), COALESCE(SUM(s.reps * s.weight_lbs), 0)
		 FROM set_logs s
		 JOIN exercises e ON e.id = s.exercise_id
		 GROUP BY e.target_muscle_group
		 ORDER BY COUNT(*) DESC, e.target_muscle_group`)
	if err != nil {
		return nil, fmt.Errorf("querying sets by muscle group: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s MuscleGroupStat
		if err := rows.Scan(&s.Group, &s.Sets, &s.VolumeLbs); err != nil {
			return nil, fmt.Errorf("scanning muscle group stat: %w", err)
		}
		stats.SetsByMuscle = append(stats.SetsByMuscle, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
