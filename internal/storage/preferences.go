package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/liftlog/internal/models"
)

// GetOrCreatePreferences returns the singleton preferences row, creating it
// with defaults on first access. The fixed primary key guarantees at most one
// row no matter how many callers race here.
func (db *DB) GetOrCreatePreferences(ctx context.Context) (*models.UserPreferences, error) {
	d := models.DefaultPreferences()
	if _, err := db.sql.ExecContext(ctx, db.q(
		`INSERT INTO user_preferences (id, weight_unit, rest_timer_enabled, default_rest_seconds, health_sync_enabled)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`),
		models.PreferencesID, string(d.WeightUnit), d.RestTimerEnabled, d.DefaultRestSeconds, d.HealthSyncEnabled,
	); err != nil {
		return nil, fmt.Errorf("creating preferences: %w", err)
	}

	var (
		p    models.UserPreferences
		unit string
	)
	err := db.sql.QueryRowContext(ctx, db.q(
		`SELECT id, weight_unit, rest_timer_enabled, default_rest_seconds, health_sync_enabled
		 FROM user_preferences WHERE id = ?`), models.PreferencesID,
	).Scan(&p.ID, &unit, &p.RestTimerEnabled, &p.DefaultRestSeconds, &p.HealthSyncEnabled)
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	p.WeightUnit = models.WeightUnit(unit)
	return &p, nil
}

// UpdatePreferences writes the singleton row, creating it if needed.
func (db *DB) UpdatePreferences(ctx context.Context, p models.UserPreferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := db.sql.ExecContext(ctx, db.q(
		`INSERT INTO user_preferences (id, weight_unit, rest_timer_enabled, default_rest_seconds, health_sync_enabled)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   weight_unit = excluded.weight_unit,
		   rest_timer_enabled = excluded.rest_timer_enabled,
		   default_rest_seconds = excluded.default_rest_seconds,
		   health_sync_enabled = excluded.health_sync_enabled`),
		models.PreferencesID, string(p.WeightUnit), p.RestTimerEnabled, p.DefaultRestSeconds, p.HealthSyncEnabled,
	)
	if err != nil {
		return fmt.Errorf("updating preferences: %w", err)
	}
	return nil
}
