package alpha

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/units"
)

// Store is the persistence the provider needs.
type Store interface {
	FindExerciseByName(ctx context.Context, name string) (*models.Exercise, error)
	InsertExercise(ctx context.Context, e *models.Exercise) error
	ReplaceSetLogsAt(ctx context.Context, exerciseID uuid.UUID, at time.Time, logs []models.SetLog) (int64, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (uuid.UUID, error)
	UpdateImportLog(ctx context.Context, id uuid.UUID, log storage.ImportLog) error
}

// Provider imports Alpha Progression exports.
type Provider struct {
	store Store
	log   *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(store Store, log *slog.Logger) *Provider {
	return &Provider{store: store, log: log}
}

// Ingest parses an export and stores its working sets. Weights are converted
// from kilograms to pounds. Each exercise's sets in a session are stamped
// with the session start and replace whatever was stored at that instant, so
// importing the same file twice leaves one copy.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	started := time.Now()
	logID, err := p.store.InsertImportLog(ctx, storage.ImportLog{Source: "alpha", Status: storage.ImportRunning})
	if err != nil {
		p.log.Warn("recording import start failed", "error", err)
	}

	result, err := p.ingest(ctx, r)
	p.finishLog(ctx, logID, started, result, err)
	if err != nil {
		return nil, err
	}
	p.log.Info("alpha import complete",
		"sessions", result.SessionsReceived, "sets", result.SetsInserted,
		"exercises_created", result.ExercisesCreated)
	return result, nil
}

func (p *Provider) ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	known := make(map[string]uuid.UUID)

	for _, s := range sessions {
		for _, ex := range s.Exercises {
			id, created, err := p.resolveExercise(ctx, ex.Name, known)
			if err != nil {
				return nil, err
			}
			if created {
				result.ExercisesCreated++
			}

			working := ex.WorkingSets()
			result.WarmupsSkipped += len(ex.Sets) - len(working)
			result.SetsReceived += len(working)

			logs := make([]models.SetLog, 0, len(working))
			for _, set := range working {
				if set.Number < 1 {
					continue
				}
				eid := id
				logs = append(logs, models.SetLog{
					ExerciseID: &eid,
					SetNumber:  set.Number,
					Reps:       set.Reps,
					WeightLbs:  units.ToStorage(set.WeightKg, models.Kilograms),
					Notes:      setNotes(set),
					LoggedAt:   s.Start,
				})
			}

			n, err := p.store.ReplaceSetLogsAt(ctx, id, s.Start, logs)
			if err != nil {
				return nil, fmt.Errorf("storing %s on %s: %w", ex.Name, s.Start.Format("2006-01-02"), err)
			}
			result.SetsInserted += n
		}
	}
	return result, nil
}

// resolveExercise finds an exercise by name or creates it.
func (p *Provider) resolveExercise(ctx context.Context, name string, known map[string]uuid.UUID) (uuid.UUID, bool, error) {
	if id, ok := known[name]; ok {
		return id, false, nil
	}
	existing, err := p.store.FindExerciseByName(ctx, name)
	switch {
	case err == nil:
		known[name] = existing.ID
		return existing.ID, false, nil
	case !errors.Is(err, storage.ErrNotFound):
		return uuid.Nil, false, fmt.Errorf("looking up exercise %q: %w", name, err)
	}

	e := models.NewExercise(name, InferMuscleGroup(name))
	if err := p.store.InsertExercise(ctx, &e); err != nil {
		return uuid.Nil, false, fmt.Errorf("creating exercise %q: %w", name, err)
	}
	p.log.Debug("created exercise from import", "name", name, "muscle_group", e.TargetMuscleGroup)
	known[name] = e.ID
	return e.ID, true, nil
}

func setNotes(s Set) *string {
	var note string
	if s.BodyweightPlus {
		note = "bodyweight +"
	}
	if s.RIR > 0 {
		if note != "" {
			note += ", "
		}
		note += fmt.Sprintf("RIR %g", s.RIR)
	}
	if note == "" {
		return nil
	}
	return &note
}

func (p *Provider) finishLog(ctx context.Context, id uuid.UUID, started time.Time, res *ingest.Result, ingestErr error) {
	if id == uuid.Nil {
		return
	}
	ms := int(time.Since(started).Milliseconds())
	entry := storage.ImportLog{Status: storage.ImportSuccess, DurationMs: &ms}
	if res != nil {
		entry.SetsReceived = res.SetsReceived
		entry.SetsInserted = res.SetsInserted
		entry.ExercisesCreated = res.ExercisesCreated
	}
	if ingestErr != nil {
		entry.Status = storage.ImportError
		msg := ingestErr.Error()
		entry.ErrorMessage = &msg
	}
	if err := p.store.UpdateImportLog(ctx, id, entry); err != nil {
		p.log.Warn("recording import result failed", "error", err)
	}
}
