// Package workout coordinates logging sessions: resolving what was lifted
// last time, saving completed sets and handing finished sessions to the
// health exporter.
package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/units"
)

// ErrNoCompletedSets is returned when a save contains nothing to store.
var ErrNoCompletedSets = errors.New("no completed sets")

// Store is the persistence the service needs.
type Store interface {
	GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error)
	ListSetLogsByExercise(ctx context.Context, exerciseID uuid.UUID) ([]models.SetLog, error)
	InsertSetLogs(ctx context.Context, logs []models.SetLog) (int64, error)
	DeleteExercise(ctx context.Context, id uuid.UUID) (int64, error)
	GetRoutine(ctx context.Context, day models.Weekday) (*models.Routine, error)
	GetOrCreatePreferences(ctx context.Context) (*models.UserPreferences, error)
	UpdatePreferences(ctx context.Context, p models.UserPreferences) error
}

// HealthSubmitter accepts finished sessions for background export.
type HealthSubmitter interface {
	Submit(start, end time.Time)
}

// Service implements the workout operations on top of a Store.
type Service struct {
	store  Store
	health HealthSubmitter
	opts   session.Options
	log    *slog.Logger
	now    func() time.Time

	// OnSetsLogged, when set, is called with the number of sets saved.
	OnSetsLogged func(n int)
}

// New creates a Service. opts.Before is ignored; each call sets its own cutoff.
func New(store Store, health HealthSubmitter, opts session.Options, log *slog.Logger) *Service {
	opts.Before = time.Time{}
	return &Service{store: store, health: health, opts: opts, log: log, now: time.Now}
}

// Location is the zone used for calendar-day grouping.
func (s *Service) Location() *time.Location {
	if s.opts.Location == nil {
		return time.Local
	}
	return s.opts.Location
}

// Previous resolves the most recent session of an exercise logged before the
// cutoff. A zero cutoff considers all history. History is reloaded on every
// call.
func (s *Service) Previous(ctx context.Context, exerciseID uuid.UUID, before time.Time) (session.Previous, error) {
	logs, err := s.store.ListSetLogsByExercise(ctx, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("loading history for %s: %w", exerciseID, err)
	}
	opts := s.opts
	opts.Before = before
	return session.Resolve(logs, exerciseID, opts), nil
}

// Plan is the starting state of one exercise in a session.
type Plan struct {
	Exercise models.Exercise  `json:"exercise"`
	Previous session.Previous `json:"previous"`
	Entries  []session.Entry  `json:"entries"`
}

// StartSession builds pre-filled plans for the exercises, in order. Sets
// logged at or after startedAt do not count as previous. Unknown exercises
// are skipped.
func (s *Service) StartSession(ctx context.Context, exerciseIDs []uuid.UUID, mode session.PrefillMode, startedAt time.Time) ([]Plan, error) {
	plans := make([]Plan, 0, len(exerciseIDs))
	for _, id := range exerciseIDs {
		ex, err := s.store.GetExercise(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("skipping unknown exercise in session", "exercise_id", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading exercise %s: %w", id, err)
		}

		prev, err := s.Previous(ctx, id, startedAt)
		if err != nil {
			return nil, err
		}
		plans = append(plans, Plan{
			Exercise: *ex,
			Previous: prev,
			Entries:  session.Prefill(prev, mode),
		})
	}
	return plans, nil
}

// StartRoutineSession starts a session for every exercise in the day's
// routine.
func (s *Service) StartRoutineSession(ctx context.Context, day models.Weekday, mode session.PrefillMode, startedAt time.Time) ([]Plan, error) {
	r, err := s.store.GetRoutine(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("loading routine %s: %w", day, err)
	}
	return s.StartSession(ctx, r.ExerciseIDs, mode, startedAt)
}

// SetInput is one row as entered by the user. Weight is in the entry unit.
type SetInput struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
	Notes     *string `json:"notes,omitempty"`
}

// ExerciseSets is the entry list for one exercise.
type ExerciseSets struct {
	ExerciseID uuid.UUID  `json:"exercise_id"`
	Sets       []SetInput `json:"sets"`
}

func validate(in SetInput) error {
	if in.Weight < 0 {
		return fmt.Errorf("weight must not be negative")
	}
	if in.Reps < 0 {
		return fmt.Errorf("reps must not be negative")
	}
	return nil
}

// buildLogs converts completed inputs into set logs. The set number is the
// entry's 1-based position, so skipped rows leave gaps.
func buildLogs(exerciseID uuid.UUID, inputs []SetInput, unit models.WeightUnit, at time.Time) ([]models.SetLog, error) {
	var logs []models.SetLog
	for i, in := range inputs {
		if !in.Completed {
			continue
		}
		if err := validate(in); err != nil {
			return nil, fmt.Errorf("set %d: %w", i+1, err)
		}
		id := exerciseID
		logs = append(logs, models.SetLog{
			ID:         uuid.New(),
			ExerciseID: &id,
			SetNumber:  i + 1,
			Reps:       in.Reps,
			WeightLbs:  units.ToStorage(in.Weight, unit),
			Notes:      in.Notes,
			LoggedAt:   at,
		})
	}
	return logs, nil
}

// LogSets saves the completed entries for one exercise. An empty unit means
// the preferred unit.
func (s *Service) LogSets(ctx context.Context, exerciseID uuid.UUID, inputs []SetInput, unit models.WeightUnit, at time.Time) (int64, error) {
	if _, err := s.store.GetExercise(ctx, exerciseID); err != nil {
		return 0, fmt.Errorf("loading exercise %s: %w", exerciseID, err)
	}
	unit, err := s.resolveUnit(ctx, unit)
	if err != nil {
		return 0, err
	}
	if at.IsZero() {
		at = s.now()
	}

	logs, err := buildLogs(exerciseID, inputs, unit, at)
	if err != nil {
		return 0, &ValidationError{Err: err}
	}
	if len(logs) == 0 {
		return 0, ErrNoCompletedSets
	}
	return s.save(ctx, logs)
}

// FinishRequest ends a routine session.
type FinishRequest struct {
	StartedAt time.Time         `json:"started_at"`
	EndedAt   time.Time         `json:"ended_at"`
	Unit      models.WeightUnit `json:"unit"`
	Exercises []ExerciseSets    `json:"exercises"`
}

// FinishResult reports what FinishSession did.
type FinishResult struct {
	SetsSaved      int64 `json:"sets_saved"`
	HealthExported bool  `json:"health_export_submitted"`
}

// FinishSession saves every completed set stamped at the end time, then
// hands the session to the health exporter if the user enabled it. The
// export runs in the background and cannot fail the call.
func (s *Service) FinishSession(ctx context.Context, req FinishRequest) (*FinishResult, error) {
	prefs, err := s.store.GetOrCreatePreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	unit := prefs.WeightUnit
	if req.Unit != "" {
		if unit, err = models.ParseWeightUnit(string(req.Unit)); err != nil {
			return nil, &ValidationError{Err: err}
		}
	}
	end := req.EndedAt
	if end.IsZero() {
		end = s.now()
	}
	if req.StartedAt.After(end) {
		return nil, &ValidationError{Err: fmt.Errorf("session start %s is after its end %s", req.StartedAt, end)}
	}

	var logs []models.SetLog
	for _, ex := range req.Exercises {
		if _, err := s.store.GetExercise(ctx, ex.ExerciseID); err != nil {
			return nil, fmt.Errorf("loading exercise %s: %w", ex.ExerciseID, err)
		}
		l, err := buildLogs(ex.ExerciseID, ex.Sets, unit, end)
		if err != nil {
			return nil, &ValidationError{Err: fmt.Errorf("exercise %s: %w", ex.ExerciseID, err)}
		}
		logs = append(logs, l...)
	}

	res := &FinishResult{}
	if len(logs) > 0 {
		if res.SetsSaved, err = s.save(ctx, logs); err != nil {
			return nil, err
		}
	}

	if prefs.HealthSyncEnabled && s.health != nil && !req.StartedAt.IsZero() {
		s.health.Submit(req.StartedAt, end)
		res.HealthExported = true
	}
	s.log.Info("session finished",
		"sets", res.SetsSaved, "exercises", len(req.Exercises), "health_export", res.HealthExported)
	return res, nil
}

func (s *Service) save(ctx context.Context, logs []models.SetLog) (int64, error) {
	n, err := s.store.InsertSetLogs(ctx, logs)
	if err != nil {
		s.log.Error("saving sets failed", "error", err, "count", len(logs))
		return 0, fmt.Errorf("saving sets: %w", err)
	}
	if s.OnSetsLogged != nil {
		s.OnSetsLogged(int(n))
	}
	return n, nil
}

// DeleteExercise removes an exercise and every set logged against it.
func (s *Service) DeleteExercise(ctx context.Context, id uuid.UUID) (int64, error) {
	removed, err := s.store.DeleteExercise(ctx, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("exercise deleted", "exercise_id", id, "set_logs_removed", removed)
	return removed, nil
}

// Preferences returns the singleton preferences, creating defaults on first use.
func (s *Service) Preferences(ctx context.Context) (*models.UserPreferences, error) {
	p, err := s.store.GetOrCreatePreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	return p, nil
}

// PreferencesPatch changes only the fields that are set.
type PreferencesPatch struct {
	WeightUnit         *models.WeightUnit `json:"weight_unit,omitempty"`
	RestTimerEnabled   *bool              `json:"rest_timer_enabled,omitempty"`
	DefaultRestSeconds *int               `json:"default_rest_seconds,omitempty"`
	HealthSyncEnabled  *bool              `json:"health_sync_enabled,omitempty"`
}

// ValidationError marks a rejected user input.
type ValidationError struct{ Err error }

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// UpdatePreferences applies a patch after validating the result.
func (s *Service) UpdatePreferences(ctx context.Context, patch PreferencesPatch) (*models.UserPreferences, error) {
	p, err := s.Preferences(ctx)
	if err != nil {
		return nil, err
	}
	if patch.WeightUnit != nil {
		unit, err := models.ParseWeightUnit(string(*patch.WeightUnit))
		if err != nil {
			return nil, &ValidationError{Err: err}
		}
		p.WeightUnit = unit
	}
	if patch.RestTimerEnabled != nil {
		p.RestTimerEnabled = *patch.RestTimerEnabled
	}
	if patch.DefaultRestSeconds != nil {
		p.DefaultRestSeconds = *patch.DefaultRestSeconds
	}
	if patch.HealthSyncEnabled != nil {
		p.HealthSyncEnabled = *patch.HealthSyncEnabled
	}
	if err := p.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}
	if err := s.store.UpdatePreferences(ctx, *p); err != nil {
		return nil, fmt.Errorf("saving preferences: %w", err)
	}
	return p, nil
}

func (s *Service) resolveUnit(ctx context.Context, unit models.WeightUnit) (models.WeightUnit, error) {
	if unit != "" {
		u, err := models.ParseWeightUnit(string(unit))
		if err != nil {
			return "", &ValidationError{Err: err}
		}
		return u, nil
	}
	p, err := s.Preferences(ctx)
	if err != nil {
		return "", err
	}
	return p.WeightUnit, nil
}
