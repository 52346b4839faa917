package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface. Weights are
// always in pounds.
type DataSource interface {
	ListExercises(ctx context.Context, muscleGroup string) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error)
	FindExerciseByName(ctx context.Context, name string) (*models.Exercise, error)
	ListSetLogs(ctx context.Context, f models.SetLogFilter) ([]models.SetLog, error)
	GetOrCreatePreferences(ctx context.Context) (*models.UserPreferences, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
