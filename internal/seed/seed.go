// Package seed loads the exercise catalog into an empty store.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"go.uber.org/multierr"
)

//go:embed exercises.json
var defaultCatalog []byte

// Record is one catalog entry as it appears in the seed file.
type Record struct {
	Name              string  `json:"name"`
	TargetMuscleGroup string  `json:"targetMuscleGroup"`
	Instructions      *string `json:"instructions,omitempty"`
	FormCues          *string `json:"formCues,omitempty"`
	VideoURL          *string `json:"videoURL,omitempty"`
}

// Load decodes a seed document into exercises. A document that is not a JSON
// array of records fails outright. Records without a name or muscle group are
// skipped and reported together in the returned error alongside the valid
// exercises.
func Load(r io.Reader) ([]models.Exercise, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}

	now := time.Now()
	var (
		out  []models.Exercise
		errs error
	)
	for i, rec := range records {
		name := strings.TrimSpace(rec.Name)
		group := strings.TrimSpace(rec.TargetMuscleGroup)
		if name == "" {
			errs = multierr.Append(errs, fmt.Errorf("record %d: missing name", i))
			continue
		}
		if group == "" {
			errs = multierr.Append(errs, fmt.Errorf("record %d (%s): missing targetMuscleGroup", i, name))
			continue
		}
		out = append(out, models.Exercise{
			ID:                uuid.New(),
			Name:              name,
			TargetMuscleGroup: group,
			Instructions:      rec.Instructions,
			FormCues:          rec.FormCues,
			VideoURL:          rec.VideoURL,
			CreatedAt:         now,
		})
	}
	return out, errs
}

// Store is the persistence the seeder needs.
type Store interface {
	CountExercises(ctx context.Context) (int, error)
	InsertExercises(ctx context.Context, exercises []models.Exercise) error
}

// Seeder inserts catalog exercises. Failures are logged and never fatal.
type Seeder struct {
	store Store
	file  string
	log   *slog.Logger

	// OnSeeded, when set, is called with the number of exercises inserted.
	OnSeeded func(n int)
}

// New creates a Seeder. An empty file uses the embedded default catalog.
func New(store Store, file string, log *slog.Logger) *Seeder {
	return &Seeder{store: store, file: file, log: log}
}

// SeedIfEmpty seeds the catalog only when no exercises exist yet. It returns
// the number of exercises inserted.
func (s *Seeder) SeedIfEmpty(ctx context.Context) int {
	n, err := s.store.CountExercises(ctx)
	if err != nil {
		s.log.Error("counting exercises before seed", "error", err)
		return 0
	}
	if n > 0 {
		s.log.Debug("exercises present, skipping seed", "count", n)
		return 0
	}

	r, err := s.open()
	if err != nil {
		s.log.Error("opening seed catalog", "error", err)
		return 0
	}
	return s.Seed(ctx, r)
}

// Seed inserts every valid record from r regardless of what is already
// stored. A malformed document or a failed insert seeds nothing.
func (s *Seeder) Seed(ctx context.Context, r io.Reader) int {
	exercises, err := Load(r)
	if exercises == nil && err != nil {
		s.log.Error("loading seed catalog", "error", err)
		return 0
	}
	for _, e := range multierr.Errors(err) {
		s.log.Warn("skipping seed record", "error", e)
	}
	if len(exercises) == 0 {
		return 0
	}

	if err := s.store.InsertExercises(ctx, exercises); err != nil {
		s.log.Error("inserting seed exercises", "error", err)
		return 0
	}
	s.log.Info("seeded exercises", "count", len(exercises))
	if s.OnSeeded != nil {
		s.OnSeeded(len(exercises))
	}
	return len(exercises)
}

func (s *Seeder) open() (io.Reader, error) {
	if s.file == "" {
		return bytes.NewReader(defaultCatalog), nil
	}
	data, err := os.ReadFile(s.file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.file, err)
	}
	return bytes.NewReader(data), nil
}
